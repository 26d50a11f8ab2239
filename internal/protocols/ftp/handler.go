// Package ftp is a scaffold for FTP/FTPS probing. The URL Validator
// accepts ftp and ftps URLs for parity with the CLI's advertised scheme
// list, but nothing in the active download path calls Connect: the
// chunk downloader rejects those schemes outright with
// CodeUnsupportedProtocol before any network I/O happens. This package
// exists so that asymmetry is a deliberate, visible decision rather than
// a missing feature, and so a future range-capable FTP path has
// somewhere to land.
package ftp

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jlaffaye/ftp"
)

// Config holds FTP connection configuration.
type Config struct {
	DialTimeout time.Duration
	Username    string
	Password    string
}

// DefaultConfig returns anonymous-login defaults.
func DefaultConfig() *Config {
	return &Config{
		DialTimeout: 10 * time.Second,
		Username:    "anonymous",
		Password:    "anonymous@example.com",
	}
}

// Prober connects to an FTP server to answer SIZE queries. It is never
// invoked by the dispatcher; it exists only so the validator's early
// success on ftp/ftps URLs has a real (if unused) implementation behind
// it, instead of a stub that would lie about feasibility.
type Prober struct {
	config *Config
}

// NewProber creates a Prober with the given config, or DefaultConfig if
// config is nil.
func NewProber(config *Config) *Prober {
	if config == nil {
		config = DefaultConfig()
	}

	return &Prober{config: config}
}

// Size connects to the server named in serverURL and returns the size of
// the file at its path via the FTP SIZE command.
func (p *Prober) Size(ctx context.Context, serverURL string) (int64, error) {
	parsed, err := url.Parse(serverURL)
	if err != nil {
		return 0, fmt.Errorf("invalid FTP URL: %w", err)
	}

	host := parsed.Hostname()
	port := parsed.Port()
	if port == "" {
		port = "21"
	}

	username := p.config.Username
	password := p.config.Password
	if parsed.User != nil {
		username = parsed.User.Username()
		if pwd, set := parsed.User.Password(); set {
			password = pwd
		}
	}

	conn, err := ftp.Dial(fmt.Sprintf("%s:%s", host, port), ftp.DialWithTimeout(p.config.DialTimeout))
	if err != nil {
		return 0, fmt.Errorf("failed to connect to FTP server %s: %w", host, err)
	}
	defer func() { _ = conn.Quit() }()

	if err := conn.Login(username, password); err != nil {
		return 0, fmt.Errorf("FTP authentication failed for user %s: %w", username, err)
	}

	size, err := conn.FileSize(parsed.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", parsed.Path, err)
	}

	return size, nil
}
