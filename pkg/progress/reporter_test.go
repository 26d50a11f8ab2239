package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReporterOneBarPerChunk(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter([]uint64{100, 200, 300}, &buf, false)
	assert.Len(t, r.bars, 3)
}

func TestReporterAddIgnoresOutOfRangeIndex(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter([]uint64{10}, &buf, false)

	assert.NotPanics(t, func() {
		r.Add(5, 1)
		r.Finish(5, "done")
	})
}

func TestReporterSpeedAccumulates(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter([]uint64{1000}, &buf, true)

	r.Add(0, 100)
	r.Add(0, 100)

	assert.GreaterOrEqual(t, r.Speed(), int64(0))
}

func TestReporterQuietDiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter([]uint64{10}, &buf, true)
	r.Add(0, 10)
	r.Finish(0, "part 0 done")

	assert.Empty(t, buf.String())
}
