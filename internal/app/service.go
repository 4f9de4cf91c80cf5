// Package app wires the aggregation pipeline behind the operations the HTTP
// layer and the refresh scheduler call.
package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kamilbartko1/extraliga-sub000/internal/metrics"
	"github.com/kamilbartko1/extraliga-sub000/internal/nhl"
	"github.com/kamilbartko1/extraliga-sub000/internal/rating"
	"github.com/kamilbartko1/extraliga-sub000/internal/tip"
)

// ScheduleSource lists the games for a date.
type ScheduleSource interface {
	DailyScores(ctx context.Context, date string) ([]nhl.Game, error)
}

// RatingsBuilder runs one aggregation over a date range.
type RatingsBuilder interface {
	Run(ctx context.Context, start, end time.Time) (*rating.Tables, error)
}

// TipPicker ranks candidates for the given games and tables.
type TipPicker interface {
	Pick(ctx context.Context, games []nhl.Game, tables *rating.Tables) (*tip.Tip, error)
}

// Store caches aggregation output. Nil disables caching.
type Store interface {
	ReadTables(ctx context.Context) (*rating.Tables, error)
	WriteTables(ctx context.Context, t *rating.Tables) error
	ReadTip(ctx context.Context, date string) (*tip.Tip, bool, error)
	WriteTip(ctx context.Context, date string, t *tip.Tip) error
	MarkAnnounced(ctx context.Context, date string) (bool, error)
}

// Announcer posts the daily tip somewhere visible. Nil disables it.
type Announcer interface {
	PostTip(ctx context.Context, t *tip.Tip, date string) error
}

// Service is the aggregation pipeline behind the HTTP API.
type Service struct {
	schedule   ScheduleSource
	builder    RatingsBuilder
	picker     TipPicker
	store      Store
	announcer  Announcer
	windowDays int

	// rebuilds are serialized: cron refresh and a cache-miss request must
	// not aggregate twice in parallel.
	mu  sync.Mutex
	now func() time.Time
}

// New returns a Service. store and announcer may be nil.
func New(schedule ScheduleSource, builder RatingsBuilder, picker TipPicker, store Store, announcer Announcer, windowDays int) *Service {
	if windowDays < 1 {
		windowDays = 60
	}
	return &Service{
		schedule:   schedule,
		builder:    builder,
		picker:     picker,
		store:      store,
		announcer:  announcer,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// Tables returns the current rating tables, from cache when fresh.
func (s *Service) Tables(ctx context.Context) (*rating.Tables, error) {
	if s.store != nil {
		cached, err := s.store.ReadTables(ctx)
		if err != nil {
			slog.Warn("tables cache read failed", "error", err)
		}
		if cached != nil {
			metrics.RecordCacheHit()
			return cached, nil
		}
		metrics.RecordCacheMiss()
	}
	return s.rebuild(ctx)
}

// TodayTip returns today's tip, computing and caching it when needed. A nil
// tip with a nil error means "no tip today".
func (s *Service) TodayTip(ctx context.Context) (*tip.Tip, error) {
	date := s.today()
	if s.store != nil {
		cached, found, err := s.store.ReadTip(ctx, date)
		if err != nil {
			slog.Warn("tip cache read failed", "date", date, "error", err)
		}
		if found {
			metrics.RecordCacheHit()
			return cached, nil
		}
		metrics.RecordCacheMiss()
	}
	return s.computeTip(ctx, date)
}

// Refresh rebuilds the rating tables and today's tip, then announces a fresh
// tip once per day. Called on startup and from cron.
func (s *Service) Refresh(ctx context.Context) {
	date := s.today()
	if _, err := s.rebuild(ctx); err != nil {
		slog.Warn("refresh: aggregation failed", "error", err)
		return
	}
	t, err := s.computeTip(ctx, date)
	if err != nil {
		slog.Warn("refresh: tip computation failed", "date", date, "error", err)
		return
	}
	if t == nil {
		slog.Info("refresh: no tip today", "date", date)
		return
	}
	slog.Info("refresh: tip ready", "date", date, "player", t.Player, "match", t.Match, "probability_pct", t.Probability)
	s.announce(ctx, t, date)
}

func (s *Service) announce(ctx context.Context, t *tip.Tip, date string) {
	if s.announcer == nil {
		return
	}
	if s.store != nil {
		first, err := s.store.MarkAnnounced(ctx, date)
		if err != nil {
			slog.Warn("announce dedupe check failed", "date", date, "error", err)
			return
		}
		if !first {
			return
		}
	}
	if err := s.announcer.PostTip(ctx, t, date); err != nil {
		slog.Warn("tip announcement failed", "date", date, "error", err)
		return
	}
	slog.Info("tip announced", "date", date, "player", t.Player)
}

func (s *Service) rebuild(ctx context.Context) (*rating.Tables, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	end := start
	from := end.AddDate(0, 0, -(s.windowDays - 1))
	tables, err := s.builder.Run(ctx, from, end)
	if err != nil {
		metrics.RecordAggregation("error", time.Since(start).Seconds())
		return nil, err
	}
	metrics.RecordAggregation("success", time.Since(start).Seconds())
	slog.Info("aggregation complete",
		"teams", len(tables.Teams), "players", len(tables.Players),
		"window_days", s.windowDays, "took", time.Since(start).Round(time.Millisecond).String())

	if s.store != nil {
		if err := s.store.WriteTables(ctx, tables); err != nil {
			slog.Warn("tables cache write failed", "error", err)
		}
	}
	return tables, nil
}

func (s *Service) computeTip(ctx context.Context, date string) (*tip.Tip, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return nil, err
	}
	games, err := s.schedule.DailyScores(ctx, date)
	if err != nil {
		return nil, err
	}
	t, err := s.picker.Pick(ctx, games, tables)
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		if err := s.store.WriteTip(ctx, date, t); err != nil {
			slog.Warn("tip cache write failed", "date", date, "error", err)
		}
	}
	return t, nil
}

func (s *Service) today() string {
	return s.now().UTC().Format("2006-01-02")
}
