// Package orchestrator wires the Validator, Probe, Planner, Dispatcher and
// Merger into the single linear pipeline described by the engine's
// design: validate the URL, probe the remote size, plan ranges, dispatch
// concurrent chunk downloads, then merge. Concurrency lives only inside
// the dispatch phase; every other phase runs strictly in sequence.
package orchestrator

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arl/rget/internal/concurrent"
	"github.com/arl/rget/internal/diskspace"
	"github.com/arl/rget/internal/merger"
	"github.com/arl/rget/internal/network"
	"github.com/arl/rget/internal/planner"
	"github.com/arl/rget/internal/probe"
	"github.com/arl/rget/internal/urlvalidate"
	rgerrors "github.com/arl/rget/pkg/errors"
	"github.com/arl/rget/pkg/progress"
	rgtypes "github.com/arl/rget/pkg/types"
)

const minConnections = 1
const maxConnections = 100

// Run executes one full download: validate, probe, plan, dispatch, merge.
// It returns Stats describing the completed run. On any failure, the
// output file is never created (or is left untouched if it already
// existed) and partial files from whichever chunks did complete are left
// on disk, per the design's "no cleanup on failure" rule.
func Run(ctx context.Context, rawURL string, opts rgtypes.Options, pool *network.Pool, log *logrus.Logger, out io.Writer) (rgtypes.Stats, error) {
	start := time.Now()

	u, err := urlvalidate.Validate(rawURL)
	if err != nil {
		return rgtypes.Stats{}, err
	}

	outputPath := opts.Output
	if outputPath == "" {
		outputPath = path.Base(u.Path)
		if outputPath == "" || outputPath == "." || outputPath == "/" {
			return rgtypes.Stats{}, rgerrors.CouldNotConnect("Could not derive filename from URL")
		}
	}

	conns := opts.Connections
	if conns < minConnections {
		conns = minConnections
	}
	if conns > maxConnections {
		conns = maxConnections
	}

	client := pool.Client(u.Hostname())

	log.WithFields(logrus.Fields{"url": rawURL, "connections": conns}).Debug("probing remote size")

	total, err := probe.TotalSize(ctx, client, rawURL)
	if err != nil {
		return rgtypes.Stats{}, err
	}

	plan, err := planner.Plan(conns, total)
	if err != nil {
		return rgtypes.Stats{}, err
	}

	if err := checkDiskSpace(outputPath, total, log); err != nil {
		return rgtypes.Stats{}, err
	}

	tasks := make([]rgtypes.DownloadTask, plan.NumChunks())
	sizes := make([]uint64, plan.NumChunks())
	for i, rng := range plan.Ranges {
		tasks[i] = rgtypes.DownloadTask{URL: rawURL, Range: rng, Index: i, OutputPath: outputPath}
		sizes[i] = rng.Size()
	}

	log.WithField("chunks", len(tasks)).Info("dispatching chunk downloads")

	reporter := progress.NewReporter(sizes, out, false)
	dispatcher := concurrent.NewDispatcher(client)

	if err := dispatcher.ExecuteAll(ctx, tasks, reporter); err != nil {
		logEveryChunkFailure(log, err)
		return rgtypes.Stats{}, err
	}

	if err := merger.Merge(outputPath, plan.NumChunks(), log); err != nil {
		return rgtypes.Stats{}, err
	}

	end := time.Now()

	return rgtypes.Stats{
		URL:        rawURL,
		Output:     outputPath,
		TotalBytes: total,
		ChunksUsed: plan.NumChunks(),
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
	}, nil
}

// checkDiskSpace fails fast if the destination's filesystem does not
// have room for total bytes plus every partial file this run will
// create (the partials and the final output coexist on disk until the
// merge deletes them). A diskspace lookup failure is logged and
// ignored rather than failing the download: the check is advisory, not
// part of the engine's contract.
func checkDiskSpace(outputPath string, total uint64, log *logrus.Logger) error {
	dir := filepath.Dir(outputPath)
	if dir == "" {
		dir = "."
	}

	free, err := diskspace.Available(dir)
	if err != nil {
		log.WithError(err).Debug("could not determine free disk space; proceeding without the check")
		return nil
	}

	required := total * 2 // partials plus the merged output, present simultaneously
	if free < required {
		return rgerrors.CouldNotConnect("insufficient disk space at %s: need ~%d bytes, have %d", dir, required, free)
	}

	return nil
}

// chunkLister is implemented by the dispatcher's aggregate error type; in
// --verbose mode the orchestrator logs every chunk failure it collected,
// not only the chunk-index-ordered one it returns to the caller.
type chunkLister interface {
	All() []error
}

func logEveryChunkFailure(log *logrus.Logger, err error) {
	cl, ok := err.(chunkLister)
	if !ok {
		return
	}

	var msgs []string
	for _, e := range cl.All() {
		msgs = append(msgs, e.Error())
	}

	log.WithField("failures", len(msgs)).Debug(strings.Join(msgs, "; "))
}
