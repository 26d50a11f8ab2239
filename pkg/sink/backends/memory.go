package backends

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/arl/rget/pkg/sink"
)

// MemorySink holds saved artifacts as byte slices in process memory. It
// never talks to a disk or a network, which makes it the sink this
// repo's own tests register to assert Download actually copied the
// finished file somewhere, without standing up a filesystem fixture.
type MemorySink struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemorySink returns a ready-to-use, empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{objects: make(map[string][]byte)}
}

// Init discards any prior contents; MemorySink takes no configuration.
func (m *MemorySink) Init(config map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string][]byte)
	return nil
}

// Save reads data fully into memory and stores it under key, replacing
// whatever was there.
func (m *MemorySink) Save(ctx context.Context, key string, data io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf, err := io.ReadAll(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf
	return nil
}

// Load returns a reader over a copy of the bytes stored at key, so the
// caller can't mutate the sink's internal buffer through it.
func (m *MemorySink) Load(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	stored, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, sink.ErrKeyNotFound
	}

	return io.NopCloser(bytes.NewReader(append([]byte(nil), stored...))), nil
}

// Delete removes the object stored at key.
func (m *MemorySink) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[key]; !ok {
		return sink.ErrKeyNotFound
	}
	delete(m.objects, key)
	return nil
}

// Exists reports whether key currently has an object stored under it.
func (m *MemorySink) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.objects[key]
	return ok, nil
}

// List returns every key starting with prefix.
func (m *MemorySink) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.objects {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Close discards everything the sink is holding.
func (m *MemorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string][]byte)
	return nil
}

// Len reports how many objects the sink currently holds; tests use this
// to assert a save actually landed without reaching into the map.
func (m *MemorySink) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
