// Package progress owns the terminal: one progress bar per chunk, plus a
// moving-average speed figure reported through Reporter.Speed. Per the
// design this is the only package permitted to write to standard output
// during a download; every other component reports through it instead.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter owns a container of bars, one per chunk, created up front from
// a plan's chunk sizes. The Chunk Downloader calls Add as bytes are
// written to disk (not as bytes are received off the wire), and Finish
// once a chunk's partial file is complete.
type Reporter struct {
	mu    sync.Mutex
	bars  []*progressbar.ProgressBar
	out   io.Writer
	quiet bool

	speed *speedTracker
}

// NewReporter builds a Reporter with one bar per entry in sizes, each bar
// capacity equal to that chunk's byte count. When quiet is true, bars are
// backed by io.Discard so progress tracking still works for callers that
// only want final Stats.
func NewReporter(sizes []uint64, out io.Writer, quiet bool) *Reporter {
	r := &Reporter{
		out:   out,
		quiet: quiet,
		speed: newSpeedTracker(),
	}

	w := out
	if quiet || w == nil {
		w = io.Discard
	}

	r.bars = make([]*progressbar.ProgressBar, len(sizes))
	for i, size := range sizes {
		r.bars[i] = progressbar.NewOptions64(
			int64(size),
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(fmt.Sprintf("part %d", i)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetPredictTime(true),
		)
	}

	return r
}

// Add records n additional bytes written for the chunk at index and
// folds them into the overall speed estimate.
func (r *Reporter) Add(index int, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.bars) {
		return
	}

	_ = r.bars[index].Add(n)
	r.speed.record(int64(n))
}

// Finish marks the chunk at index complete, rendering msg as its final
// description.
func (r *Reporter) Finish(index int, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.bars) {
		return
	}

	r.bars[index].Describe(msg)
	_ = r.bars[index].Finish()
}

// Speed returns the current moving-average throughput in bytes/second.
func (r *Reporter) Speed() int64 {
	return r.speed.current()
}

// speedTracker keeps a short moving-average window of throughput samples,
// the same scheme the engine's predecessor used for its hand-rolled
// speed/ETA display. It is read only by Reporter.Speed; the bars compute
// their own ETA and do not use it.
type speedTracker struct {
	mu             sync.Mutex
	window         []int64
	lastSampleTime time.Time
}

func newSpeedTracker() *speedTracker {
	return &speedTracker{window: make([]int64, 0, 10)}
}

func (s *speedTracker) record(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.lastSampleTime.IsZero() {
		s.lastSampleTime = now
		return
	}

	dt := now.Sub(s.lastSampleTime).Seconds()
	s.lastSampleTime = now
	if dt <= 0 {
		return
	}

	sample := int64(float64(n) / dt)
	s.window = append(s.window, sample)
	if len(s.window) > 10 {
		s.window = s.window[1:]
	}
}

func (s *speedTracker) current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.window) == 0 {
		return 0
	}

	var sum int64
	for _, v := range s.window {
		sum += v
	}

	return sum / int64(len(s.window))
}
