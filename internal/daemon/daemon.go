// Package daemon is the background-mode stub. --background/-b is
// accepted by the CLI and threaded down to here, but running as an
// actual background process is not implemented on any platform: every
// per-GOOS Daemonize implementation is a no-op, matching the source this
// was ported from, which never completed any platform's service
// registration path.
package daemon

// Daemonize is implemented per-GOOS in daemon_linux.go / daemon_windows.go
// / daemon_other.go. Every variant currently does nothing; the caller
// proceeds to run in the foreground regardless of --background.
