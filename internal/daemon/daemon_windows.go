//go:build windows

package daemon

// Daemonize is a no-op on Windows. A real implementation would register
// a Windows service via golang.org/x/sys/windows/svc; that registration
// was never completed in the source this was ported from, so it is not
// reproduced here either.
func Daemonize() {}
