package cache

import (
	"context"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared-state Cache for multi-instance deployments. All
// backend errors degrade to miss/skip; the hub must keep working with Redis
// down.
type Redis struct {
	client *redis.Client
	policy TTLPolicy
	logger *slog.Logger
}

// RedisOption configures a Redis cache.
type RedisOption func(*Redis)

// WithLogger attaches a structured logger for degraded-mode diagnostics.
func WithLogger(logger *slog.Logger) RedisOption {
	return func(r *Redis) { r.logger = logger }
}

// NewRedis wraps an existing client with the hub's TTL policy.
func NewRedis(client *redis.Client, policy TTLPolicy, opts ...RedisOption) *Redis {
	if policy == nil {
		policy = DefaultTTLPolicy()
	}
	r := &Redis{client: client, policy: policy}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.debug(ctx, "cache read degraded to miss", key, err)
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, class Class) {
	if err := r.client.Set(ctx, key, value, r.policy.TTL(class)).Err(); err != nil {
		r.debug(ctx, "cache write skipped", key, err)
	}
}

func (r *Redis) SetNX(ctx context.Context, key string, value []byte, class Class) bool {
	won, err := r.client.SetNX(ctx, key, value, r.policy.TTL(class)).Result()
	if err != nil {
		// Fail open: process the event rather than drop it.
		r.debug(ctx, "cache check-and-set degraded", key, err)
		return true
	}
	return won
}

// Invalidate deletes one key, or SCANs out a prefix when the argument ends
// with "*". Bulk eviction is best-effort like everything else here.
func (r *Redis) Invalidate(ctx context.Context, keyOrPrefix string) {
	if !strings.HasSuffix(keyOrPrefix, "*") {
		if err := r.client.Del(ctx, keyOrPrefix).Err(); err != nil {
			r.debug(ctx, "cache invalidation skipped", keyOrPrefix, err)
		}
		return
	}

	iter := r.client.Scan(ctx, 0, keyOrPrefix, 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == 200 {
			r.deleteBatch(ctx, keys)
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		r.debug(ctx, "cache prefix scan aborted", keyOrPrefix, err)
	}
	if len(keys) > 0 {
		r.deleteBatch(ctx, keys)
	}
}

func (r *Redis) deleteBatch(ctx context.Context, keys []string) {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.debug(ctx, "cache bulk eviction skipped", strings.Join(keys[:1], ""), err)
	}
}

func (r *Redis) debug(ctx context.Context, msg, key string, err error) {
	if r.logger != nil {
		r.logger.DebugContext(ctx, msg, "key", key, "error", err)
	}
}
