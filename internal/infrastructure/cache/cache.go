package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// KeyGeneration is bumped on every listing write; cached results live under
	// the generation they were computed in.
	KeyGeneration = "analytics:generation"
	DefaultTTL    = 60 * time.Second
)

// Analytics caches aggregation results in Redis as JSON. Redis failures are
// logged and treated as misses.
type Analytics struct {
	RDB *redis.Client
	TTL time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Analytics {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Analytics{RDB: rdb, TTL: ttl}
}

func resultKey(gen int64, op, params string) string {
	return fmt.Sprintf("analytics:%d:%s:%s", gen, op, params)
}

// Lookup decodes the cached result for op/params into dst. It returns the key
// the caller must pass to Fill on a miss, or "" when Redis is unreachable.
func (a *Analytics) Lookup(ctx context.Context, op, params string, dst interface{}) (string, bool) {
	gen, err := a.RDB.Get(ctx, KeyGeneration).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("op", op).Msg("analytics cache generation read failed")
		return "", false
	}
	key := resultKey(gen, op, params)
	b, err := a.RDB.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("analytics cache read failed")
			return "", false
		}
		return key, false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("analytics cache entry undecodable")
		return key, false
	}
	log.Debug().Str("key", key).Msg("analytics cache hit")
	return key, true
}

// Fill stores v under key with the configured TTL.
func (a *Analytics) Fill(ctx context.Context, key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("analytics cache encode failed")
		return
	}
	if err := a.RDB.Set(ctx, key, b, a.TTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("analytics cache write failed")
	}
}

// Invalidate moves every reader to a fresh generation. Old entries expire by TTL.
func (a *Analytics) Invalidate(ctx context.Context) error {
	if err := a.RDB.Incr(ctx, KeyGeneration).Err(); err != nil {
		return fmt.Errorf("bump analytics generation: %w", err)
	}
	return nil
}
