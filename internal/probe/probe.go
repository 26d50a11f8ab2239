// Package probe issues the HEAD request that learns a resource's total
// size before the Range Planner can cut it into chunks.
package probe

import (
	"context"
	"net/http"
	"strconv"

	rgerrors "github.com/arl/rget/pkg/errors"
)

// TotalSize issues a HEAD to rawURL and returns the resource's size in
// bytes, read from the Content-Length header. It does not inspect
// Accept-Ranges; range support is assumed and any absence of it surfaces
// later as a non-206 response from the chunk downloader.
func TotalSize(ctx context.Context, client *http.Client, rawURL string) (uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, rgerrors.Wrap(rgerrors.CodeCouldNotConnect, err, err.Error())
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, rgerrors.Wrap(rgerrors.CodeCouldNotConnect, err, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, rgerrors.CouldNotConnect("Request failed: %d", resp.StatusCode)
	}

	header := resp.Header.Get("Content-Length")
	if header == "" {
		return 0, rgerrors.CouldNotConnect("Could not parse content length")
	}

	size, err := strconv.ParseUint(header, 10, 64)
	if err != nil {
		return 0, rgerrors.CouldNotConnect("Could not parse content length")
	}

	return size, nil
}
