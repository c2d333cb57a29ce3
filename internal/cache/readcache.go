package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
)

// ReadCache stores encoded read-side results by key.
type ReadCache interface {
	// Get reports false on a miss or an expired entry.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clearer
}

// Clearer drops every cached entry. The pipeline clears the cache after a
// fully successful run.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Memory is an in-process ReadCache backed by LRU.
type Memory struct {
	lru *LRU[string, []byte]
}

func NewMemory(maxSize int, defaultTTL time.Duration) *Memory {
	return &Memory{lru: NewLRU[string, []byte](maxSize, defaultTTL)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.lru.Get(key)
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.lru.Set(key, value, ttl)
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.lru.Purge()
	metrics.CacheClearsTotal.Inc()
	return nil
}

func (m *Memory) Len() int { return m.lru.Len() }

// WithCache returns the cached value for key, or computes, stores and returns
// it. Cache failures fall through to fn; errors from fn are not cached.
func WithCache[T any](ctx context.Context, c ReadCache, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	raw, ok, err := c.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheErrorsTotal.WithLabelValues("get").Inc()
	case ok:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			metrics.CacheHitsTotal.WithLabelValues(key).Inc()
			return v, nil
		}
		metrics.CacheErrorsTotal.WithLabelValues("decode").Inc()
	}
	metrics.CacheMissesTotal.WithLabelValues(key).Inc()

	v, err := fn(ctx)
	if err != nil {
		return v, err
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("encode").Inc()
		return v, nil
	}
	if err := c.Set(ctx, key, encoded, ttl); err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("set").Inc()
	}
	return v, nil
}
