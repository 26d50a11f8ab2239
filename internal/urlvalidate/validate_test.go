package urlvalidate

import (
	"testing"

	rgerrors "github.com/arl/rget/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsHTTPAndHTTPS(t *testing.T) {
	for _, raw := range []string{"http://example.com/f.zip", "https://example.com/f.zip"} {
		u, err := Validate(raw)
		require.NoError(t, err)
		assert.Equal(t, "example.com", u.Hostname())
	}
}

func TestValidateAcceptsFTPSchemes(t *testing.T) {
	for _, raw := range []string{"ftp://example.com/f.zip", "ftps://example.com/f.zip"} {
		_, err := Validate(raw)
		assert.NoError(t, err)
	}
}

func TestValidateRejectsOtherSchemes(t *testing.T) {
	_, err := Validate("gopher://example.com/f.zip")
	de, ok := rgerrors.AsDownloadError(err)
	require.True(t, ok)
	assert.Equal(t, rgerrors.CodeInvalidScheme, de.Code)
}

func TestValidateRejectsMissingHost(t *testing.T) {
	_, err := Validate("http:///f.zip")
	de, ok := rgerrors.AsDownloadError(err)
	require.True(t, ok)
	assert.Equal(t, rgerrors.CodeInvalidHostname, de.Code)
}

func TestValidateRejectsUnparsableURL(t *testing.T) {
	_, err := Validate("http://a b.com/")
	de, ok := rgerrors.AsDownloadError(err)
	require.True(t, ok)
	assert.Equal(t, rgerrors.CodeURLParseError, de.Code)
}
