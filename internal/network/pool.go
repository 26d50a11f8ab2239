// Package network provides the shared HTTP transport the probe and every
// chunk downloader in a run use, so a multi-connection download reuses
// one connection pool per host instead of dialing fresh sockets per chunk.
package network

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// Pool hands out one *http.Client per host, lazily constructed with a
// transport tuned for many concurrent range requests against the same
// server.
type Pool struct {
	mu       sync.RWMutex
	clients  map[string]*http.Client
	maxIdle  int
	maxConns int
	timeout  time.Duration
}

// NewPool creates a Pool. maxConns bounds concurrent connections per host;
// callers typically set it to the number of chunks being dispatched.
func NewPool(maxConns int, timeout time.Duration) *Pool {
	return &Pool{
		clients:  make(map[string]*http.Client),
		maxIdle:  maxConns,
		maxConns: maxConns,
		timeout:  timeout,
	}
}

// Client returns the shared client for host, creating it on first use.
func (p *Pool) Client(host string) *http.Client {
	p.mu.RLock()
	client, ok := p.clients[host]
	p.mu.RUnlock()
	if ok {
		return client
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok = p.clients[host]; ok {
		return client
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          p.maxIdle,
		MaxIdleConnsPerHost:   p.maxIdle,
		MaxConnsPerHost:       p.maxConns,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	client = &http.Client{Transport: transport, Timeout: p.timeout}
	p.clients[host] = client

	return client
}

// Close releases idle connections held by every client in the pool.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, client := range p.clients {
		if transport, ok := client.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
	}

	p.clients = make(map[string]*http.Client)
}
