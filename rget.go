// Package rget is the public API of the concurrent range-download engine:
// given a single URL, it retrieves the resource through N parallel
// byte-range requests instead of one stream, then concatenates the
// parts into the destination file. See cmd/rget for the CLI built on top
// of this package.
package rget

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/arl/rget/internal/network"
	"github.com/arl/rget/internal/orchestrator"
	"github.com/arl/rget/pkg/sink"
	"github.com/arl/rget/pkg/types"
)

// Options configures a download run. It is the same Options the CLI
// builds from flags; library callers construct it directly.
type Options = types.Options

// Stats summarizes a completed download.
type Stats = types.Stats

// sinks holds storage backends registered with RegisterSink, keyed by
// the name an Options.Sink value selects. The zero value (no backends
// registered) is perfectly usable: Download always writes the merged
// artifact to Options.Output on local disk first, regardless of Sink;
// a registered sink is an additional destination the artifact is copied
// to afterward.
var sinks = sink.NewManager()

// RegisterSink makes a storage backend available under name for Options.Sink
// to select as a post-merge destination (e.g. "s3", "gcs", "redis"). It is
// the caller's responsibility to have already called backend.Init with
// whatever configuration that backend needs.
func RegisterSink(name string, backend sink.Backend) error {
	return sinks.Register(name, backend)
}

// Download retrieves the resource at url into Options.Output (or a name
// derived from url's basename) using Options.Connections parallel
// range-GETs, reporting per-chunk progress to progressOut (os.Stdout is
// the typical choice; pass io.Discard to run silently). It returns once
// the merge step has produced the final artifact, or an error from
// whichever phase failed first: validation, probing, planning, dispatch,
// or merge.
func Download(ctx context.Context, url string, opts Options, progressOut io.Writer) (Stats, error) {
	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if progressOut == nil {
		progressOut = io.Discard
	}

	conns := opts.Connections
	if conns < 1 {
		conns = 1
	}

	pool := network.NewPool(conns, 0)
	defer pool.Close()

	stats, err := orchestrator.Run(ctx, url, opts, pool, log, progressOut)
	if err != nil {
		return Stats{}, err
	}

	if opts.Sink != "" {
		if err := pushToSink(ctx, opts.Sink, stats.Output); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// pushToSink copies the completed local artifact at outputPath to the
// registered backend named name, under the artifact's own basename.
func pushToSink(ctx context.Context, name, outputPath string) error {
	backend, err := sinks.GetBackend(name)
	if err != nil {
		return err
	}

	f, err := os.Open(outputPath) // #nosec G304 -- outputPath is the orchestrator's own merge destination
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return backend.Save(ctx, filepath.Base(outputPath), f)
}
