package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	rgerrors "github.com/arl/rget/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalSizeReadsContentLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "12345")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	size, err := TotalSize(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), size)
}

func TestTotalSizeFailsOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := TotalSize(context.Background(), srv.Client(), srv.URL)
	de, ok := rgerrors.AsDownloadError(err)
	require.True(t, ok)
	assert.Equal(t, rgerrors.CodeCouldNotConnect, de.Code)
}

func TestTotalSizeFailsOnMissingContentLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Del("Content-Length")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := TotalSize(context.Background(), srv.Client(), srv.URL)
	de, ok := rgerrors.AsDownloadError(err)
	require.True(t, ok)
	assert.Contains(t, de.Message, "content length")
}
