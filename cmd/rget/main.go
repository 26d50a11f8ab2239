// Command rget is a non-interactive, multi-connection file downloader:
// given a single URL, it issues N parallel byte-range requests and
// concatenates the results into one output file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	rget "github.com/arl/rget"
	"github.com/arl/rget/internal/daemon"
	rgerrors "github.com/arl/rget/pkg/errors"
	"github.com/arl/rget/pkg/types"
	"github.com/arl/rget/pkg/ui"
)

const (
	minConnections = 1
	maxConnections = 100
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("rget", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		url         string
		output      string
		connections int
		background  bool
		verbose     bool
	)

	fs.StringVar(&url, "url", "", "Resource to download (required)")
	fs.StringVar(&url, "u", "", "Resource to download (shorthand)")
	fs.StringVar(&output, "output", "", "Output path (default: derived from URL basename)")
	fs.StringVar(&output, "o", "", "Output path (shorthand)")
	fs.IntVar(&connections, "connections", 1, "Parallel range-GETs, 1..100")
	fs.IntVar(&connections, "c", 1, "Parallel range-GETs, 1..100 (shorthand)")
	fs.BoolVar(&background, "background", false, "Daemonize (currently a no-op)")
	fs.BoolVar(&background, "b", false, "Daemonize (shorthand)")
	fs.BoolVar(&verbose, "verbose", false, "Debug-level logs")
	fs.BoolVar(&verbose, "v", false, "Debug-level logs (shorthand)")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if url == "" {
		fmt.Fprintln(stderr, ui.Error("Error: --url is required"))
		return 1
	}

	if connections < minConnections || connections > maxConnections {
		fmt.Fprintf(stderr, "%s\n", ui.Error(fmt.Sprintf("Error: --connections must be between %d and %d", minConnections, maxConnections)))
		return 1
	}

	if background {
		daemon.Daemonize()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := types.Options{
		Output:      output,
		Connections: connections,
		Verbose:     verbose,
		Background:  background,
	}

	stats, err := rget.Download(ctx, url, opts, stdout)
	if err != nil {
		fmt.Fprintln(stderr, ui.Error(rgerrors.FormatForCLI(err, verbose)))
		return 1
	}

	fmt.Fprintf(stdout, "%s\n", ui.Success(fmt.Sprintf("Download complete: %s", stats.Output)))
	return 0
}
