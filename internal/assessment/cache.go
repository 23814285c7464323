package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"certus/internal/assessment/models"
	platformredis "certus/internal/platform/redis"
	id "certus/pkg/domain"
)

// Cache is a read-through cache for materialized assessment lists. Every
// score write for a cycle invalidates the whole cycle entry; the aggregator
// is cheap enough that a miss just recomputes.
type Cache struct {
	client *platformredis.Client
	ttl    time.Duration
}

// NewCache wraps a redis client. Returns nil when the client is nil (cache
// disabled), which callers treat as always-miss.
func NewCache(client *platformredis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(cycleID id.CycleID) string {
	return "assessments:" + cycleID.String()
}

// Get returns the cached assessment list for a cycle, or ok=false on miss.
// Cache errors degrade to misses; the store is the source of truth.
func (c *Cache) Get(ctx context.Context, cycleID id.CycleID) ([]models.PillarAssessment, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, cacheKey(cycleID)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []models.PillarAssessment
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return out, true
}

// Set stores the assessment list for a cycle.
func (c *Cache) Set(ctx context.Context, cycleID id.CycleID, assessments []models.PillarAssessment) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(assessments)
	if err != nil {
		return fmt.Errorf("marshal assessments for cache: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(cycleID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache assessments: %w", err)
	}
	return nil
}

// Invalidate drops the cached list for a cycle.
func (c *Cache) Invalidate(ctx context.Context, cycleID id.CycleID) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, cacheKey(cycleID)).Err(); err != nil {
		return fmt.Errorf("invalidate assessment cache: %w", err)
	}
	return nil
}
