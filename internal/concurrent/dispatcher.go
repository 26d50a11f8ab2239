package concurrent

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/hashicorp/go-multierror"

	rgerrors "github.com/arl/rget/pkg/errors"
	rgtypes "github.com/arl/rget/pkg/types"
)

// Dispatcher runs every task in tasks concurrently, one goroutine per
// chunk, and waits for all of them regardless of individual failures: a
// failing chunk does not cancel its siblings, and they run to
// completion with their partials left on disk for the merger to
// discover. recovered panics are reported as CodeTaskError.
type Dispatcher struct {
	client *http.Client
}

// NewDispatcher builds a Dispatcher that issues every chunk's request
// through client.
func NewDispatcher(client *http.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// ExecuteAll runs every task in tasks to completion. If one or more
// tasks failed, ExecuteAll returns the failure belonging to the
// lowest-indexed task; in verbose contexts callers can call the
// returned error's All method to see every failure, not just the first.
func (d *Dispatcher) ExecuteAll(ctx context.Context, tasks []rgtypes.DownloadTask, sink ProgressSink) error {
	errs := make([]error, len(tasks))

	var wg sync.WaitGroup
	wg.Add(len(tasks))

	for _, task := range tasks {
		task := task
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[task.Index] = rgerrors.WrapChunk(rgerrors.CodeTaskError, task.Index, nil, fmt.Sprintf("task panicked: %v", r))
				}
			}()

			errs[task.Index] = DownloadChunk(ctx, d.client, task, sink)
		}()
	}

	wg.Wait()

	var merged *multierror.Error
	for _, err := range errs {
		if err != nil {
			merged = multierror.Append(merged, err)
		}
	}

	if merged == nil {
		return nil
	}

	return &firstOrdered{all: merged, first: merged.Errors[0]}
}

// firstOrdered wraps a multierror.Error so its Error() string and
// errors.Is/As target the first task-index-ordered failure, while still
// exposing every collected failure via All for verbose diagnostics.
type firstOrdered struct {
	all   *multierror.Error
	first error
}

func (f *firstOrdered) Error() string { return f.first.Error() }
func (f *firstOrdered) Unwrap() error { return f.first }

// All returns every collected chunk failure, in chunk-index order.
func (f *firstOrdered) All() []error { return f.all.Errors }
