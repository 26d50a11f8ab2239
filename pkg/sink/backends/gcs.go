package backends

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/arl/rget/pkg/sink"
)

// GCSSink copies a finished download artifact into a Google Cloud
// Storage bucket under an optional key prefix, the same contract S3Sink
// implements against a different SDK.
type GCSSink struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSSink creates a new Google Cloud Storage backend.
func NewGCSSink() *GCSSink {
	return &GCSSink{}
}

// Init builds the underlying GCS client from config["credentialsFile"]
// (falling back to application-default credentials) and resolves
// bucket/prefix.
func (g *GCSSink) Init(config map[string]interface{}) error {
	bucket, ok := config["bucket"].(string)
	if !ok || bucket == "" {
		return fmt.Errorf("bucket is required for the gcs sink")
	}
	g.bucket = bucket

	if prefix, ok := config["prefix"].(string); ok {
		g.prefix = strings.TrimSuffix(prefix, "/")
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if credsFile, ok := config["credentialsFile"].(string); ok && credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize GCS client: %w", err)
	}
	g.client = client

	return nil
}

// Save stores data to GCS at the specified key.
func (g *GCSSink) Save(ctx context.Context, key string, data io.Reader) error {
	fullKey := g.namespaced(key)

	w := g.client.Bucket(g.bucket).Object(fullKey).NewWriter(ctx)
	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to save object to gs://%s/%s: %w", g.bucket, fullKey, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object gs://%s/%s: %w", g.bucket, fullKey, err)
	}

	return nil
}

// Load retrieves data from GCS for the given key.
func (g *GCSSink) Load(ctx context.Context, key string) (io.ReadCloser, error) {
	fullKey := g.namespaced(key)

	r, err := g.client.Bucket(g.bucket).Object(fullKey).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, sink.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get object from gs://%s/%s: %w", g.bucket, fullKey, err)
	}

	return r, nil
}

// Delete removes data from GCS for the given key.
func (g *GCSSink) Delete(ctx context.Context, key string) error {
	fullKey := g.namespaced(key)

	if err := g.client.Bucket(g.bucket).Object(fullKey).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return sink.ErrKeyNotFound
		}
		return fmt.Errorf("failed to delete object gs://%s/%s: %w", g.bucket, fullKey, err)
	}

	return nil
}

// Exists checks if data exists at the given key in GCS.
func (g *GCSSink) Exists(ctx context.Context, key string) (bool, error) {
	fullKey := g.namespaced(key)

	_, err := g.client.Bucket(g.bucket).Object(fullKey).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence gs://%s/%s: %w", g.bucket, fullKey, err)
	}

	return true, nil
}

// List returns a list of keys with the given prefix.
func (g *GCSSink) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := g.namespaced(prefix)

	var keys []string
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: fullPrefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in gs://%s: %w", g.bucket, err)
		}

		keys = append(keys, g.stripNamespace(attrs.Name))
	}

	return keys, nil
}

// Close releases the underlying GCS client.
func (g *GCSSink) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GCSSink) namespaced(key string) string {
	if g.prefix == "" {
		return key
	}
	return g.prefix + "/" + strings.TrimPrefix(key, "/")
}

func (g *GCSSink) stripNamespace(objectName string) string {
	if g.prefix == "" {
		return objectName
	}

	prefixWithSlash := g.prefix + "/"
	if strings.HasPrefix(objectName, prefixWithSlash) {
		return strings.TrimPrefix(objectName, prefixWithSlash)
	}

	return objectName
}
