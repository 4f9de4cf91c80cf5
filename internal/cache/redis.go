// Package cache keeps the last computed rating tables and daily tip in
// Redis. This is availability plumbing, not a source of truth: everything
// here can be rebuilt from upstream at any time.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kamilbartko1/extraliga-sub000/internal/rating"
	"github.com/kamilbartko1/extraliga-sub000/internal/tip"
)

const (
	tablesKey          = "extraliga:ratings"
	tipKeyPrefix       = "extraliga:tip:"
	announcedKeyPrefix = "extraliga:announced:"
)

// Store reads and writes cached aggregation output.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns a Store with the given TTL for cached entries.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// ReadTables returns the cached rating tables, or nil when absent.
func (s *Store) ReadTables(ctx context.Context) (*rating.Tables, error) {
	b, err := s.client.Get(ctx, tablesKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var t rating.Tables
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("unmarshal tables: %w", err)
	}
	return &t, nil
}

// WriteTables caches the rating tables with the store TTL.
func (s *Store) WriteTables(ctx context.Context, t *rating.Tables) error {
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal tables: %w", err)
	}
	return s.client.Set(ctx, tablesKey, b, s.ttl).Err()
}

// ReadTip returns the cached tip for a date. The second return reports
// whether a cached value exists at all — a cached "no tip today" is stored
// as JSON null and comes back as (nil, true, nil).
func (s *Store) ReadTip(ctx context.Context, date string) (*tip.Tip, bool, error) {
	b, err := s.client.Get(ctx, tipKeyPrefix+date).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var t *tip.Tip
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, false, fmt.Errorf("unmarshal tip: %w", err)
	}
	return t, true, nil
}

// WriteTip caches the tip (possibly nil) for a date.
func (s *Store) WriteTip(ctx context.Context, date string, t *tip.Tip) error {
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal tip: %w", err)
	}
	return s.client.Set(ctx, tipKeyPrefix+date, b, s.ttl).Err()
}

// MarkAnnounced records that the tip for a date was announced. Returns true
// exactly once per date.
func (s *Store) MarkAnnounced(ctx context.Context, date string) (bool, error) {
	// 48h so the flag outlives the day across timezones, then self-cleans.
	return s.client.SetNX(ctx, announcedKeyPrefix+date, "1", 48*time.Hour).Result()
}
