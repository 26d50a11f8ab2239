package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorizeDisabled(t *testing.T) {
	SetColorEnabled(false)
	defer SetColorEnabled(false)

	assert.Equal(t, "hello", Colorize(Red, "hello"))
}

func TestColorizeEnabled(t *testing.T) {
	SetColorEnabled(true)
	defer SetColorEnabled(false)

	assert.Equal(t, Red+"hello"+Reset, Colorize(Red, "hello"))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.00 KB", FormatSize(1024))
	assert.Equal(t, "1.00 MB", FormatSize(1024*1024))
}

func TestFormatSpeed(t *testing.T) {
	assert.Equal(t, "512 B/s", FormatSpeed(512))
	assert.Equal(t, "2.00 KB/s", FormatSpeed(2048))
}
