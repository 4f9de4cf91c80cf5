// Package rating builds team and player rating tables from game results.
// Ratings are additive scores seeded at a fixed baseline; they are rebuilt
// from upstream truth on every run, never persisted.
package rating

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/kamilbartko1/extraliga-sub000/internal/names"
	"github.com/kamilbartko1/extraliga-sub000/internal/nhl"
	"github.com/kamilbartko1/extraliga-sub000/internal/pool"
)

const (
	// Baseline is the rating every team and player starts from.
	Baseline = 1500

	// Team deltas: 10 per goal-differential point plus a flat win/loss bonus.
	goalDiffPoints = 10
	winBonus       = 10

	// Player deltas per boxscore line.
	goalPoints   = 20
	assistPoints = 10

	// DefaultWorkers bounds parallel boxscore fetches.
	DefaultWorkers = 6

	// DefaultTopPlayers caps the returned player table.
	DefaultTopPlayers = 50
)

// Tables holds one aggregation run's output. Team keys are display names,
// player keys are names.Normalize forms.
type Tables struct {
	Teams   map[string]int `json:"teamRatings"`
	Players map[string]int `json:"playerRatings"`
}

// NewTables returns empty tables.
func NewTables() *Tables {
	return &Tables{Teams: map[string]int{}, Players: map[string]int{}}
}

// Source supplies the upstream documents the aggregator walks.
type Source interface {
	DailyScores(ctx context.Context, date string) ([]nhl.Game, error)
	Boxscore(ctx context.Context, gameID int64) (*nhl.Boxscore, error)
}

// Aggregator walks a date range and accumulates rating tables.
type Aggregator struct {
	src        Source
	workers    int
	topPlayers int
}

// NewAggregator returns an aggregator over src. Non-positive workers or
// topPlayers fall back to the defaults.
func NewAggregator(src Source, workers, topPlayers int) *Aggregator {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if topPlayers < 1 {
		topPlayers = DefaultTopPlayers
	}
	return &Aggregator{src: src, workers: workers, topPlayers: topPlayers}
}

// playerLine is one skater's contribution extracted by a boxscore job.
// Jobs write into disjoint result slots; the fold happens afterwards, so the
// shared tables are never written concurrently.
type playerLine struct {
	name   string // normalized
	points int
}

// Run aggregates all days in [start, end] inclusive, chronologically. A
// failed day fetch or boxscore fetch degrades coverage (that unit of work is
// skipped and logged) instead of failing the run.
func (a *Aggregator) Run(ctx context.Context, start, end time.Time) (*Tables, error) {
	t := NewTables()
	var boxGames []nhl.Game

	for day := start.Truncate(24 * time.Hour); !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date := day.Format("2006-01-02")
		games, err := a.src.DailyScores(ctx, date)
		if err != nil {
			slog.Warn("skipping day, scores fetch failed", "date", date, "error", err)
			continue
		}
		for _, g := range games {
			if !g.Terminal() && !g.Live() {
				continue
			}
			applyTeamDeltas(t.Teams, g)
			// Boxscores exist only for finished games; live games count for
			// team ratings but contribute no player points yet.
			if g.Terminal() {
				boxGames = append(boxGames, g)
			}
		}
	}

	a.applyBoxscores(ctx, t, boxGames)
	t.Players = topN(t.Players, a.topPlayers)
	return t, nil
}

func applyTeamDeltas(teams map[string]int, g nhl.Game) {
	seedTeam(teams, g.HomeName)
	seedTeam(teams, g.AwayName)
	diff := g.HomeScore - g.AwayScore
	teams[g.HomeName] += diff * goalDiffPoints
	teams[g.AwayName] -= diff * goalDiffPoints
	switch {
	case diff > 0:
		teams[g.HomeName] += winBonus
		teams[g.AwayName] -= winBonus
	case diff < 0:
		teams[g.AwayName] += winBonus
		teams[g.HomeName] -= winBonus
	}
}

func seedTeam(teams map[string]int, name string) {
	if _, ok := teams[name]; !ok {
		teams[name] = Baseline
	}
}

// applyBoxscores fetches boxscores with bounded parallelism and folds skater
// contributions into the player table.
func (a *Aggregator) applyBoxscores(ctx context.Context, t *Tables, games []nhl.Game) {
	if len(games) == 0 {
		return
	}
	results := make([][]playerLine, len(games))
	jobs := make([]pool.Job, len(games))
	for i, g := range games {
		i, g := i, g
		jobs[i] = func(ctx context.Context) error {
			box, err := a.src.Boxscore(ctx, g.ID)
			if err != nil {
				return err
			}
			if box == nil {
				return nil
			}
			lines := make([]playerLine, 0, len(box.Skaters))
			for _, s := range box.Skaters {
				key := names.Normalize(s.Name)
				if key == "" {
					continue
				}
				lines = append(lines, playerLine{
					name:   key,
					points: s.Goals*goalPoints + s.Assists*assistPoints,
				})
			}
			results[i] = lines
			return nil
		}
	}

	errs := pool.Run(ctx, a.workers, jobs)
	for i, err := range errs {
		if err != nil {
			slog.Warn("skipping boxscore, fetch failed", "game_id", games[i].ID, "error", err)
		}
	}

	// Addition commutes, so fold order does not affect the result.
	for _, lines := range results {
		for _, l := range lines {
			if _, ok := t.Players[l.name]; !ok {
				t.Players[l.name] = Baseline
			}
			t.Players[l.name] += l.points
		}
	}
}

// topN keeps the n highest-rated players. Ties are broken by name so two
// runs over the same data return the same table.
func topN(players map[string]int, n int) map[string]int {
	if len(players) <= n {
		return players
	}
	type entry struct {
		name   string
		rating int
	}
	entries := make([]entry, 0, len(players))
	for name, rating := range players {
		entries = append(entries, entry{name, rating})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].rating != entries[j].rating {
			return entries[i].rating > entries[j].rating
		}
		return entries[i].name < entries[j].name
	})
	out := make(map[string]int, n)
	for _, e := range entries[:n] {
		out[e.name] = e.rating
	}
	return out
}
