package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PlatDrake2875/diarization/types"
)

const cacheKeyPrefix = "diarization:segments:"

// SegmentCache stores analysis results in Redis keyed by audio reference,
// so re-analyzing the same recording is served without another backend
// round trip. A nil *SegmentCache is a no-op.
type SegmentCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSegmentCache connects to Redis. Returns nil when addr is empty.
func NewSegmentCache(addr, password string, ttl time.Duration) *SegmentCache {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &SegmentCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached segments for an audio reference, with hit=false
// on a clean miss.
func (c *SegmentCache) Get(ctx context.Context, audioReference string) (segments []types.Segment, hit bool, err error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.rdb.Get(ctx, cacheKeyPrefix+audioReference).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, false, fmt.Errorf("decode cached segments: %w", err)
	}
	return segments, true, nil
}

// Set stores the segments for an audio reference.
func (c *SegmentCache) Set(ctx context.Context, audioReference string, segments []types.Segment) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("encode segments: %w", err)
	}
	return c.rdb.Set(ctx, cacheKeyPrefix+audioReference, data, c.ttl).Err()
}
