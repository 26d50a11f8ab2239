// Package diskspace answers one question before a download starts:
// is there enough free space at the destination to hold the resource?
// A multi-gigabyte transfer that fails with ENOSPC partway through is a
// worse failure mode than refusing it up front.
package diskspace

// Available is implemented per-GOOS in diskspace_windows.go and
// diskspace_unix.go. It returns the free bytes available on the
// filesystem that holds dir.
