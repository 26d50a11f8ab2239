// Package types defines the core data model for the rget concurrent
// range-download engine: the byte ranges a plan is built from, the tasks
// dispatched to workers, and the options/stats exchanged with callers.
package types

import (
	"strconv"
	"time"
)

// Range is an inclusive byte interval [Start, End] on the remote resource.
// A valid Range always has Start <= End and both are within [0, total-1]
// of the resource it was cut from.
type Range struct {
	Start uint64
	End   uint64
}

// Size returns the number of bytes the range covers.
func (r Range) Size() uint64 {
	return r.End - r.Start + 1
}

// DownloadPlan is an ordered sequence of Ranges covering a resource's
// entire byte space exactly once. Index in the slice is the identity of a
// chunk: it determines progress-bar position, partial-file suffix, and
// merge order.
type DownloadPlan struct {
	Total  uint64
	Ranges []Range
}

// NumChunks returns the number of ranges in the plan.
func (p DownloadPlan) NumChunks() int {
	return len(p.Ranges)
}

// DownloadTask is the immutable unit of work handed to one chunk
// downloader. It is copied by value into its goroutine; nothing about a
// task is mutated after construction, and no two tasks share a Range or
// a partial-file path (tasks of one plan share OutputPath and differ in
// Index).
type DownloadTask struct {
	URL        string
	Range      Range
	Index      int
	OutputPath string
}

// PartPath returns the on-disk path of this task's partial file,
// "{output}_part_{index}".
func (t DownloadTask) PartPath() string {
	return PartPath(t.OutputPath, t.Index)
}

// PartPath builds the on-disk partial-file path for a given output path
// and chunk index. Kept as a free function so the merger, which has no
// DownloadTask in hand, can reconstruct the same name.
func PartPath(outputPath string, index int) string {
	return outputPath + "_part_" + strconv.Itoa(index)
}

// Options configures a download run.
type Options struct {
	// Output is the destination file path. Empty means derive it from
	// the URL's basename.
	Output string

	// Connections is the number of concurrent range-GETs to issue,
	// clamped to [1, 100].
	Connections int

	// Verbose raises log output to debug level.
	Verbose bool

	// Background runs the download as a (currently no-op) daemon.
	Background bool

	// Sink optionally names a registered storage backend the final
	// artifact is copied to after it has been merged on local disk at
	// Output. Empty means local disk only.
	Sink string
}

// Stats summarizes a completed download.
type Stats struct {
	URL        string
	Output     string
	TotalBytes uint64
	ChunksUsed int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// AverageSpeed returns bytes/second for the run, or 0 if Duration is zero.
func (s Stats) AverageSpeed() float64 {
	secs := s.Duration.Seconds()
	if secs <= 0 {
		return 0
	}

	return float64(s.TotalBytes) / secs
}

// FileInfo describes a remote resource: its URL, size, and whether it
// accepts range requests. The HTTP Probe (probe.TotalSize) returns only
// the size and does not fill a FileInfo.
type FileInfo struct {
	URL            string
	Size           uint64
	SupportsRanges bool
}
