package cache

import (
	"context"
	"time"

	"screening-sync/internal/dashboard"
)

const hintKeyPrefix = "dashboard:hint:"

// HintStore keeps the last server dashboard aggregate per session. The
// aggregate carries the store version it was fetched at, so a stale entry
// is never trusted by the dashboard.
type HintStore interface {
	Get(ctx context.Context, sessionID string) (*dashboard.Aggregate, error)
	Put(ctx context.Context, sessionID string, agg dashboard.Aggregate) error
	Drop(ctx context.Context, sessionID string) error
}

type redisHints struct {
	redis *Redis
	ttl   time.Duration
}

func NewHintStore(r *Redis, ttl time.Duration) HintStore {
	return &redisHints{redis: r, ttl: ttl}
}

func (h *redisHints) Get(ctx context.Context, sessionID string) (*dashboard.Aggregate, error) {
	var agg dashboard.Aggregate
	ok, err := h.redis.GetJSON(ctx, hintKeyPrefix+sessionID, &agg)
	if err != nil || !ok {
		return nil, err
	}
	return &agg, nil
}

func (h *redisHints) Put(ctx context.Context, sessionID string, agg dashboard.Aggregate) error {
	return h.redis.SetJSON(ctx, hintKeyPrefix+sessionID, agg, h.ttl)
}

func (h *redisHints) Drop(ctx context.Context, sessionID string) error {
	return h.redis.Delete(ctx, hintKeyPrefix+sessionID)
}
