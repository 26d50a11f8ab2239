package sink

import (
	"context"
	"io"
)

// Backend is an optional post-merge destination for a completed download
// artifact: the merger always writes to local disk first (§3 OutputFile
// is the core contract's only required destination), and a registered
// Backend is where Download additionally copies that finished file when
// Options.Sink names one. Implementations never see a download in
// progress, only the whole merged artifact.
type Backend interface {
	// Init wires up whatever the backend needs (credentials, a base path,
	// a client) from config before Save/Load can be called.
	Init(config map[string]interface{}) error

	// Save writes data under key, replacing anything already there.
	Save(ctx context.Context, key string, data io.Reader) error

	// Load opens the object stored under key. Callers must close it.
	Load(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// List returns every key starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources the backend holds (connections, handles).
	Close() error
}

// Manager is the registry rget.RegisterSink populates and
// rget.Download's pushToSink reads from: a name-keyed lookup of
// Backends, nothing more. Callers that want default-backend delegation,
// bulk Close, or any other passthrough build it themselves on top of
// GetBackend; Manager itself only needs to answer "what backend is
// named X".
type Manager struct {
	backends map[string]Backend
}

// NewManager creates an empty registry.
func NewManager() *Manager {
	return &Manager{
		backends: make(map[string]Backend),
	}
}

// Register makes backend available under name. Registering the same
// name twice replaces the previous backend.
func (sm *Manager) Register(name string, backend Backend) error {
	sm.backends[name] = backend
	return nil
}

// GetBackend returns the backend registered under name.
func (sm *Manager) GetBackend(name string) (Backend, error) {
	backend, exists := sm.backends[name]
	if !exists {
		return nil, ErrBackendNotFound
	}
	return backend, nil
}
