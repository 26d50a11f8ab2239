// Package urlvalidate parses and validates the URL a download run is
// invoked with. It accepts more schemes than the rest of the engine can
// actually execute: ftp/ftps pass validation here and are only rejected
// later, once the chunk downloader tries to dispatch to them. That
// asymmetry is deliberate, carried over from the tool this one replaces.
package urlvalidate

import (
	"net/url"

	rgerrors "github.com/arl/rget/pkg/errors"
)

// allowedSchemes are the schemes the validator accepts. Only http/https
// are reachable past the chunk downloader; ftp/ftps validate successfully
// here and fail later with CodeUnsupportedProtocol.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"ftps":  true,
}

// Validate parses rawURL and checks its scheme and host. It does not
// check reachability; that is the HTTP Probe's job.
func Validate(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, rgerrors.Wrap(rgerrors.CodeURLParseError, err, err.Error())
	}

	if !allowedSchemes[u.Scheme] {
		return nil, rgerrors.Newf(rgerrors.CodeInvalidScheme, "invalid scheme: %s", u.Scheme)
	}

	if u.Hostname() == "" {
		return nil, rgerrors.New(rgerrors.CodeInvalidHostname, "missing host in URL")
	}

	return u, nil
}
