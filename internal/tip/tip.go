// Package tip ranks (player, game) candidates for today's slate and picks
// the one most likely to score.
package tip

import (
	"context"
	"log/slog"

	"github.com/kamilbartko1/extraliga-sub000/internal/model"
	"github.com/kamilbartko1/extraliga-sub000/internal/nhl"
	"github.com/kamilbartko1/extraliga-sub000/internal/rating"
)

// Tip is the selected pick, shaped for the API.
type Tip struct {
	Player         string `json:"player"`
	Team           string `json:"team"`
	Match          string `json:"match"`
	Probability    int    `json:"probability"` // 0-100
	Goals          int    `json:"goals"`
	Shots          int    `json:"shots"`
	PowerPlayGoals int    `json:"powerPlayGoals"`
	Headshot       string `json:"headshot,omitempty"`
}

// StatsSource supplies season-to-date skater snapshots per team.
type StatsSource interface {
	ClubStats(ctx context.Context, team, season string) ([]nhl.SkaterSeason, error)
}

// Selector builds and ranks candidates.
type Selector struct {
	stats  StatsSource
	scorer *model.Scorer
	season string
}

// NewSelector returns a Selector scoring with the given model over the given
// season's club stats.
func NewSelector(stats StatsSource, scorer *model.Scorer, season string) *Selector {
	return &Selector{stats: stats, scorer: scorer, season: season}
}

// candidate is an ephemeral scored (player, game) pairing.
type candidate struct {
	snap        nhl.SkaterSeason
	match       string
	probability float64
}

// Pick scores every player on both sides of every game and returns the
// highest-probability candidate. Players are deduplicated by id, first
// occurrence wins; ties on probability keep the earliest candidate. Returns
// (nil, nil) when no candidates could be built — "no tip today" is a valid
// outcome, not an error.
func (s *Selector) Pick(ctx context.Context, games []nhl.Game, tables *rating.Tables) (*Tip, error) {
	if tables == nil {
		tables = rating.NewTables()
	}
	statsByTeam := map[string][]nhl.SkaterSeason{}
	seen := map[int]bool{}
	var best *candidate

	for _, g := range games {
		label := g.Label()
		homeRating := teamRating(tables, g.HomeName)
		awayRating := teamRating(tables, g.AwayName)

		sides := []struct {
			abbrev    string
			home      bool
			rating    int
			oppRating int
		}{
			{g.HomeAbbrev, true, homeRating, awayRating},
			{g.AwayAbbrev, false, awayRating, homeRating},
		}
		for _, side := range sides {
			for _, snap := range s.teamStats(ctx, statsByTeam, side.abbrev) {
				if seen[snap.PlayerID] {
					continue
				}
				seen[snap.PlayerID] = true
				p := s.scorer.GoalProbability(model.Inputs{
					Goals:          snap.Goals,
					Shots:          snap.Shots,
					PowerPlayGoals: snap.PowerPlayGoals,
					GamesPlayed:    snap.GamesPlayed,
					TOIMinutes:     snap.TOIMinutes,
					PlayerRating:   float64(rating.Resolve(snap.Name, tables.Players)),
					TeamRating:     float64(side.rating),
					OppRating:      float64(side.oppRating),
					Home:           side.home,
				})
				if best == nil || p > best.probability {
					best = &candidate{snap: snap, match: label, probability: p}
				}
			}
		}
	}

	if best == nil {
		return nil, nil
	}
	return &Tip{
		Player:         best.snap.Name,
		Team:           best.snap.Team,
		Match:          best.match,
		Probability:    model.Percent(best.probability),
		Goals:          best.snap.Goals,
		Shots:          best.snap.Shots,
		PowerPlayGoals: best.snap.PowerPlayGoals,
		Headshot:       best.snap.Headshot,
	}, nil
}

// teamStats fetches a team's snapshots once per Pick call. A failed fetch
// empties that team's pool (logged, not fatal) so the other teams still rank.
func (s *Selector) teamStats(ctx context.Context, cache map[string][]nhl.SkaterSeason, team string) []nhl.SkaterSeason {
	if snaps, ok := cache[team]; ok {
		return snaps
	}
	snaps, err := s.stats.ClubStats(ctx, team, s.season)
	if err != nil {
		slog.Warn("skipping team, club stats fetch failed", "team", team, "error", err)
		snaps = nil
	}
	cache[team] = snaps
	return snaps
}

func teamRating(tables *rating.Tables, name string) int {
	if r, ok := tables.Teams[name]; ok {
		return r
	}
	return rating.Baseline
}
