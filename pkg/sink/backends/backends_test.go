package backends

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/rget/pkg/sink"
)

func TestMemorySinkSaveLoadDeleteExists(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySink()
	require.NoError(t, m.Init(nil))

	exists, err := m.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, m.Save(ctx, "k", strings.NewReader("payload")))
	assert.Equal(t, 1, m.Len())

	exists, err = m.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	r, err := m.Load(ctx, "k")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	require.NoError(t, r.Close())

	require.NoError(t, m.Delete(ctx, "k"))
	_, err = m.Load(ctx, "k")
	assert.ErrorIs(t, err, sink.ErrKeyNotFound)

	err = m.Delete(ctx, "k")
	assert.ErrorIs(t, err, sink.ErrKeyNotFound)
}

func TestMemorySinkLoadReturnsACopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySink()
	require.NoError(t, m.Init(nil))
	require.NoError(t, m.Save(ctx, "k", strings.NewReader("original")))

	r, err := m.Load(ctx, "k")
	require.NoError(t, err)
	buf, _ := io.ReadAll(r)
	buf[0] = 'X' // mutate the caller's copy

	r2, err := m.Load(ctx, "k")
	require.NoError(t, err)
	buf2, _ := io.ReadAll(r2)
	assert.Equal(t, "original", string(buf2))
}

func TestMemorySinkList(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySink()
	require.NoError(t, m.Init(nil))

	for _, k := range []string{"a/1", "a/2", "b/1"} {
		require.NoError(t, m.Save(ctx, k, strings.NewReader("x")))
	}

	keys, err := m.List(ctx, "a/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a/1", "a/2"}, keys)
}

func TestMemorySinkCloseClearsState(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySink()
	require.NoError(t, m.Init(nil))
	require.NoError(t, m.Save(ctx, "k", strings.NewReader("x")))

	require.NoError(t, m.Close())
	assert.Equal(t, 0, m.Len())
}

func TestMemorySinkSaveRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemorySink()
	require.NoError(t, m.Init(nil))

	err := m.Save(ctx, "k", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func newDiskSink(t *testing.T) (*DiskSink, string) {
	t.Helper()
	root := t.TempDir()
	d := NewDiskSink()
	require.NoError(t, d.Init(map[string]interface{}{"basePath": root}))
	return d, root
}

func TestDiskSinkInitRequiresBasePath(t *testing.T) {
	d := NewDiskSink()
	assert.Error(t, d.Init(map[string]interface{}{}))
}

func TestDiskSinkInitCreatesBaseDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "sink")
	d := NewDiskSink()
	require.NoError(t, d.Init(map[string]interface{}{"basePath": root}))

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDiskSinkSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	d, root := newDiskSink(t)

	require.NoError(t, d.Save(ctx, "sub/file.bin", strings.NewReader("bytes")))

	onDisk, err := os.ReadFile(filepath.Join(root, "sub", "file.bin"))
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(onDisk))

	r, err := d.Load(ctx, "sub/file.bin")
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))
}

func TestDiskSinkSaveReplacesExisting(t *testing.T) {
	ctx := context.Background()
	d, _ := newDiskSink(t)

	require.NoError(t, d.Save(ctx, "f", strings.NewReader("first")))
	require.NoError(t, d.Save(ctx, "f", strings.NewReader("second-and-longer")))

	r, err := d.Load(ctx, "f")
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	assert.Equal(t, "second-and-longer", string(data))
}

func TestDiskSinkLoadMissingKey(t *testing.T) {
	d, _ := newDiskSink(t)
	_, err := d.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, sink.ErrKeyNotFound)
}

func TestDiskSinkDeleteRemovesFileAndEmptyDirs(t *testing.T) {
	ctx := context.Background()
	d, root := newDiskSink(t)
	require.NoError(t, d.Save(ctx, "a/b/c.bin", strings.NewReader("x")))

	require.NoError(t, d.Delete(ctx, "a/b/c.bin"))

	_, err := os.Stat(filepath.Join(root, "a", "b", "c.bin"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "a", "b"))
	assert.True(t, os.IsNotExist(err), "empty parent directory should be pruned")
	_, err = os.Stat(root)
	assert.NoError(t, err, "sink root itself must survive pruning")
}

func TestDiskSinkDeleteMissingKey(t *testing.T) {
	d, _ := newDiskSink(t)
	err := d.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sink.ErrKeyNotFound)
}

func TestDiskSinkExists(t *testing.T) {
	ctx := context.Background()
	d, _ := newDiskSink(t)

	exists, err := d.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, d.Save(ctx, "k", strings.NewReader("x")))
	exists, err = d.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDiskSinkList(t *testing.T) {
	ctx := context.Background()
	d, _ := newDiskSink(t)

	for _, k := range []string{"a/1.bin", "a/2.bin", "b/1.bin"} {
		require.NoError(t, d.Save(ctx, k, strings.NewReader("x")))
	}

	keys, err := d.List(ctx, "a/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a/1.bin", "a/2.bin"}, keys)
}

func TestDiskSinkRejectsKeyEscapingRoot(t *testing.T) {
	ctx := context.Background()
	d, _ := newDiskSink(t)

	err := d.Save(ctx, "../escaped.bin", strings.NewReader("x"))
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestDiskSinkSaveCleansUpOnCopyFailure(t *testing.T) {
	d, root := newDiskSink(t)

	err := d.Save(context.Background(), "bad.bin", failingReader{})
	assert.Error(t, err)

	_, statErr := os.Stat(filepath.Join(root, "bad.bin"))
	assert.True(t, os.IsNotExist(statErr), "failed save must not leave a partial file behind")
}

func TestDiskSinkUninitializedReturnsNotReady(t *testing.T) {
	d := NewDiskSink()
	_, err := d.Load(context.Background(), "k")
	assert.ErrorIs(t, err, sink.ErrBackendNotReady)
}

func TestS3SinkInitRequiresBucket(t *testing.T) {
	s := NewS3Sink()
	err := s.Init(map[string]interface{}{"region": "us-east-1"})
	assert.Error(t, err)
}

func TestS3SinkNamespacing(t *testing.T) {
	s := &S3Sink{keyPrefix: "nightly"}
	assert.Equal(t, "nightly/out.bin", s.namespaced("out.bin"))
	assert.Equal(t, "out.bin", s.stripNamespace("nightly/out.bin"))
}

func TestS3SinkNamespacingWithoutPrefix(t *testing.T) {
	s := &S3Sink{}
	assert.Equal(t, "out.bin", s.namespaced("out.bin"))
	assert.Equal(t, "out.bin", s.stripNamespace("out.bin"))
}

func TestRedisSinkNamespacing(t *testing.T) {
	r := &RedisSink{keyPrefix: "jobs"}
	assert.Equal(t, "jobs:out.bin", r.namespaced("out.bin"))
	assert.Equal(t, "out.bin", r.stripNamespace("jobs:out.bin"))
}

func TestRedisSinkNamespacingWithoutPrefix(t *testing.T) {
	r := &RedisSink{}
	assert.Equal(t, "out.bin", r.namespaced("out.bin"))
	assert.Equal(t, "out.bin", r.stripNamespace("out.bin"))
}

func TestRedisDBNumberAcceptsFloatAndInt(t *testing.T) {
	assert.Equal(t, 5, redisDBNumber(float64(5)))
	assert.Equal(t, 3, redisDBNumber(3))
	assert.Equal(t, 0, redisDBNumber(nil))
}
