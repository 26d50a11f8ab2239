package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliTestBody = "exit codes and flags, 35 bytes long"

func cliFixture(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", fmt.Sprintf("%d", len(cliTestBody)))
			w.WriteHeader(http.StatusOK)
			return
		}

		var start, end int
		_, err := fmt.Sscanf(r.Header.Get("Range"), "bytes=%d-%d", &start, &end)
		require.NoError(t, err)

		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, len(cliTestBody)))
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte(cliTestBody[start : end+1]))
	}))
}

func devNull(t *testing.T) *os.File {
	t.Helper()
	f, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestRunSucceedsAndWritesOutput(t *testing.T) {
	srv := cliFixture(t)
	defer srv.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "out.bin")

	code := run([]string{"-url", srv.URL, "-output", out, "-connections", "4"}, devNull(t), devNull(t))
	assert.Equal(t, 0, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, cliTestBody, string(data))
}

func TestRunFailsWithoutURL(t *testing.T) {
	code := run([]string{}, devNull(t), devNull(t))
	assert.Equal(t, 1, code)
}

func TestRunFailsOnConnectionsOutOfRange(t *testing.T) {
	code := run([]string{"-url", "http://example.invalid", "-connections", "101"}, devNull(t), devNull(t))
	assert.Equal(t, 1, code)
}

func TestRunFailsOnUnreachableHost(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.bin")

	code := run([]string{"-url", "http://127.0.0.1:1", "-output", out}, devNull(t), devNull(t))
	assert.Equal(t, 1, code)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}
