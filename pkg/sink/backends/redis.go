package backends

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arl/rget/pkg/sink"
)

// RedisSink stores small artifacts as Redis string values, and doubles
// as the advisory-lock mechanism two concurrent rget invocations against
// the same URL+output can use to avoid racing on the same partial-file
// set (see AcquireLock). It is a poor fit for multi-gigabyte downloads;
// callers pushing large artifacts should reach for S3Sink or GCSSink
// instead.
type RedisSink struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSink returns an unconfigured RedisSink; call Init before using it.
func NewRedisSink() *RedisSink {
	return &RedisSink{}
}

// Init connects to the Redis server named by config["addr"] (default
// "localhost:6379") and verifies the connection with a PING before
// returning.
func (r *RedisSink) Init(config map[string]interface{}) error {
	addr, _ := config["addr"].(string)
	if addr == "" {
		addr = "localhost:6379"
	}
	password, _ := config["password"].(string)

	if prefix, _ := config["prefix"].(string); prefix != "" {
		r.keyPrefix = strings.TrimSuffix(prefix, ":")
	}

	r.client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       redisDBNumber(config["db"]),
	})

	if err := r.client.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	return nil
}

// redisDBNumber accepts either a JSON-decoded float64 or a plain int for
// config["db"], defaulting to 0 for anything else.
func redisDBNumber(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// Save stores data under key, reading it fully into memory first since
// Redis has no streaming SET.
func (r *RedisSink) Save(ctx context.Context, key string, data io.Reader) error {
	buf, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("read data for %s: %w", key, err)
	}

	full := r.namespaced(key)
	if err := r.client.Set(ctx, full, buf, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", full, err)
	}

	return nil
}

// Load returns the value stored at key.
func (r *RedisSink) Load(ctx context.Context, key string) (io.ReadCloser, error) {
	full := r.namespaced(key)

	val, err := r.client.Get(ctx, full).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, sink.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get %s: %w", full, err)
	}

	return io.NopCloser(strings.NewReader(val)), nil
}

// Delete removes the value stored at key.
func (r *RedisSink) Delete(ctx context.Context, key string) error {
	full := r.namespaced(key)

	n, err := r.client.Exists(ctx, full).Result()
	if err != nil {
		return fmt.Errorf("exists %s: %w", full, err)
	}
	if n == 0 {
		return sink.ErrKeyNotFound
	}

	if err := r.client.Del(ctx, full).Err(); err != nil {
		return fmt.Errorf("del %s: %w", full, err)
	}

	return nil
}

// Exists reports whether key currently has a value.
func (r *RedisSink) Exists(ctx context.Context, key string) (bool, error) {
	full := r.namespaced(key)

	n, err := r.client.Exists(ctx, full).Result()
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", full, err)
	}

	return n > 0, nil
}

// List scans for every key starting with prefix.
func (r *RedisSink) List(ctx context.Context, prefix string) ([]string, error) {
	pattern := r.namespaced(prefix) + "*"

	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, r.stripNamespace(iter.Val()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}

	return keys, nil
}

// Close closes the underlying Redis connection.
func (r *RedisSink) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// namespaced qualifies key with this sink's configured prefix, if any.
func (r *RedisSink) namespaced(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return r.keyPrefix + ":" + key
}

// stripNamespace is namespaced's inverse.
func (r *RedisSink) stripNamespace(redisKey string) string {
	if r.keyPrefix == "" {
		return redisKey
	}

	withColon := r.keyPrefix + ":"
	return strings.TrimPrefix(redisKey, withColon)
}

// AcquireLock takes a best-effort advisory lock on key via SETNX with a
// TTL, so two concurrent runs against the same URL+output don't race on
// the same partial-file set. It returns false, nil (not an error) when
// another run already holds the lock.
func (r *RedisSink) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	full := r.namespaced(key) + ":lock"

	ok, err := r.client.SetNX(ctx, full, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", full, err)
	}

	return ok, nil
}

// ReleaseLock releases a lock previously taken with AcquireLock by
// deleting its key. Releasing a lock nobody holds is a no-op; the delete
// is unconditional and does not check which process took the lock.
func (r *RedisSink) ReleaseLock(ctx context.Context, key string) error {
	full := r.namespaced(key) + ":lock"

	if err := r.client.Del(ctx, full).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", full, err)
	}

	return nil
}
