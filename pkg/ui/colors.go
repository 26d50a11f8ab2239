// Package ui provides the terminal color helpers used for the final
// summary line. Per the engine's design, the progress package owns the
// terminal during a download; this package is only for the one line
// printed after it finishes.
package ui

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
)

// Color codes. Success and Error emit Green and Red; the rest are
// available to callers of Colorize.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red   = "\033[31m"
	Green = "\033[32m"
	Blue  = "\033[34m"
)

// colorEnabled holds whether Colorize should wrap text in escape codes.
// It starts from an auto-detected default and can be overridden by
// SetColorEnabled; atomic because the CLI's signal handler and the main
// goroutine may both touch it.
var colorEnabled atomic.Bool

func init() {
	colorEnabled.Store(autoDetectColor())
}

// autoDetectColor decides the default for colorEnabled: stdout must be a
// real TTY, and nothing in the environment must be telling us to back
// off (NO_COLOR, TERM=dumb, an unset TERM outside of Windows).
func autoDetectColor() bool {
	if !stdoutIsTTY() {
		return false
	}

	return termAllowsColor()
}

// stdoutIsTTY reports whether os.Stdout is attached to a character
// device rather than a pipe or redirected file.
func stdoutIsTTY() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

// termAllowsColor inspects the environment the way most terminal tools
// do: an explicit opt-out wins, then an explicit truecolor hint, then a
// TERM value that names a color-capable terminal, with Windows's
// ANSI-capable consoles (10+) treated as always-on.
func termAllowsColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if ct := os.Getenv("COLORTERM"); ct == "truecolor" || ct == "24bit" {
		return true
	}

	if runtime.GOOS == "windows" {
		return true
	}

	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}

	return strings.Contains(term, "color") || strings.Contains(term, "256")
}

// SetColorEnabled overrides the auto-detected default, forcing Colorize
// on or off regardless of what the terminal reports.
func SetColorEnabled(enabled bool) {
	colorEnabled.Store(enabled)
}

// Colorize wraps text in color if color output is currently enabled; an
// empty color code is always a no-op, same as color output being off.
func Colorize(color, text string) string {
	if color == "" || !colorEnabled.Load() {
		return text
	}

	return color + text + Reset
}

// Success renders text the way a completed download's summary line does.
func Success(text string) string {
	return Colorize(Green, text)
}

// Error renders text the way a failed run's diagnostic does.
func Error(text string) string {
	return Colorize(Red, text)
}

// byteUnits are walked largest-first so FormatSize/FormatSpeed can share
// one lookup instead of a cascade of if/else size comparisons.
type byteUnit struct {
	threshold float64
	suffix    string
}

var byteUnits = []byteUnit{
	{1024 * 1024 * 1024, "GB"},
	{1024 * 1024, "MB"},
	{1024, "KB"},
}

// FormatSize renders a byte count as the largest unit it cleanly exceeds.
func FormatSize(size uint64) string {
	f := float64(size)
	for _, u := range byteUnits {
		if f >= u.threshold {
			return fmt.Sprintf("%.2f %s", f/u.threshold, u.suffix)
		}
	}

	return fmt.Sprintf("%d B", size)
}

// FormatSpeed renders a bytes/second rate the same way FormatSize renders
// a byte count, with a "/s" suffix and no GB/s tier (a download isn't
// going to average in gigabytes per second).
func FormatSpeed(bytesPerSecond float64) string {
	for _, u := range byteUnits[1:] {
		if bytesPerSecond >= u.threshold {
			return fmt.Sprintf("%.2f %s/s", bytesPerSecond/u.threshold, u.suffix)
		}
	}

	return fmt.Sprintf("%.0f B/s", bytesPerSecond)
}
