// Package concurrent implements the Chunk Downloader and Concurrent
// Dispatcher: one goroutine per range-GET, joined by a WaitGroup, with
// no retries and no cross-chunk cancellation on failure.
package concurrent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/arl/rget/internal/partfile"
	rgerrors "github.com/arl/rget/pkg/errors"
	rgtypes "github.com/arl/rget/pkg/types"
)

// ProgressSink receives byte counts as they are written to disk for a
// chunk, and a terminal message when the chunk is done. The progress
// package implements this; tests can supply a no-op.
type ProgressSink interface {
	Add(index int, n int)
	Finish(index int, msg string)
}

const readBufferSize = 32 * 1024

// DownloadChunk executes one chunk downloader task: it issues a single
// ranged GET, streams the body into a partial file truncated at the
// chunk's expected size, and reports every write to sink. There is no
// retry: a transport error, a non-206 response, a malformed Content-Range
// header, or a final size mismatch all fail the task once.
func DownloadChunk(ctx context.Context, client *http.Client, task rgtypes.DownloadTask, sink ProgressSink) error {
	expectedSize := task.Range.Size()

	if u, err := url.Parse(task.URL); err == nil {
		switch u.Scheme {
		case "http", "https":
		default:
			return rgerrors.WrapChunk(rgerrors.CodeUnsupportedProtocol, task.Index, nil,
				fmt.Sprintf("unsupported protocol: %s", u.Scheme))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return rgerrors.WrapChunk(rgerrors.CodeCouldNotConnect, task.Index, err, err.Error())
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", task.Range.Start, task.Range.End))

	resp, err := client.Do(req)
	if err != nil {
		return rgerrors.WrapChunk(rgerrors.CodeCouldNotConnect, task.Index, err, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusPartialContent {
		return rgerrors.WrapChunk(rgerrors.CodeCouldNotConnect, task.Index, nil,
			fmt.Sprintf("Request failed: %d", resp.StatusCode))
	}

	wantPrefix := fmt.Sprintf("bytes %d-%d/", task.Range.Start, task.Range.End)
	contentRange := resp.Header.Get("Content-Range")
	if contentRange == "" || !strings.HasPrefix(contentRange, wantPrefix) {
		return rgerrors.WrapChunk(rgerrors.CodeCouldNotConnect, task.Index, nil,
			fmt.Sprintf("Invalid Content-Range: got %q, expected %q*", contentRange, wantPrefix))
	}

	part, err := partfile.Create(task.PartPath(), task.Range.Start, expectedSize)
	if err != nil {
		return rgerrors.WrapChunk(rgerrors.CodeCouldNotConnect, task.Index, err, err.Error())
	}
	defer func() { _ = part.Close() }()

	var totalWritten uint64
	offset := task.Range.Start
	buf := make([]byte, readBufferSize)

	for totalWritten < expectedSize {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			remaining := expectedSize - totalWritten
			writeSize := uint64(n)
			if writeSize > remaining {
				writeSize = remaining
			}

			written, writeErr := part.WriteChunk(buf[:writeSize], offset)
			if writeErr != nil {
				return rgerrors.WrapChunk(rgerrors.CodeCouldNotReadChunk, task.Index, writeErr, writeErr.Error())
			}

			if written > 0 {
				sink.Add(task.Index, written)
			}

			totalWritten += uint64(written)
			offset += uint64(written)

			if totalWritten >= expectedSize {
				break
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return rgerrors.WrapChunk(rgerrors.CodeCouldNotReadChunk, task.Index, readErr, readErr.Error())
		}
	}

	if totalWritten != expectedSize {
		return rgerrors.WrapChunk(rgerrors.CodeCouldNotConnect, task.Index, nil,
			fmt.Sprintf("Written size %d does not match expected %d for chunk %d", totalWritten, expectedSize, task.Index))
	}

	sink.Finish(task.Index, fmt.Sprintf("part %d complete", task.Index+1))

	return nil
}
