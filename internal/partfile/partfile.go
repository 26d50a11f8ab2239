// Package partfile implements the on-disk partial-file writer each chunk
// downloader owns exclusively for the lifetime of its task.
package partfile

import (
	"os"

	rgerrors "github.com/arl/rget/pkg/errors"
)

// Writer owns one partial file on disk. It is not safe for concurrent
// use; each instance is confined to exactly one chunk's task.
type Writer struct {
	f        *os.File
	path     string
	partBase uint64
	maxSize  uint64
}

// Create truncates (or creates) the file at path and returns a Writer
// scoped to a chunk whose remote range starts at partStart and spans
// maxSize bytes.
func Create(path string, partStart, maxSize uint64) (*Writer, error) {
	f, err := os.Create(path) // #nosec G304 -- path is derived from a validated output path and chunk index
	if err != nil {
		return nil, rgerrors.Wrap(rgerrors.CodeCouldNotConnect, err, err.Error())
	}

	return &Writer{f: f, path: path, partBase: partStart, maxSize: maxSize}, nil
}

// WriteChunk writes buf at absoluteOffset, the byte position on the
// remote resource. The file-relative position is absoluteOffset minus
// the chunk's start offset; if that position is at or past maxSize, the
// write is a silent no-op returning 0, since the over-read rule means the
// chunk downloader may still hand this writer bytes past the end of its
// range on the final read.
func (w *Writer) WriteChunk(buf []byte, absoluteOffset uint64) (int, error) {
	if absoluteOffset < w.partBase {
		return 0, rgerrors.CouldNotConnect("write offset %d precedes part start %d", absoluteOffset, w.partBase)
	}

	partOffset := absoluteOffset - w.partBase
	if partOffset >= w.maxSize {
		return 0, nil
	}

	writeSize := w.maxSize - partOffset
	if uint64(len(buf)) < writeSize {
		writeSize = uint64(len(buf))
	}

	if _, err := w.f.Seek(int64(partOffset), 0); err != nil {
		return 0, rgerrors.CouldNotConnect("Failed to seek to %d: %s", partOffset, err)
	}

	n, err := w.f.Write(buf[:writeSize])
	if err != nil {
		return n, rgerrors.CouldNotConnect("Failed to write chunk: %s", err)
	}

	return n, nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}

// Path returns the partial file's path.
func (w *Writer) Path() string {
	return w.path
}
