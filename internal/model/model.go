// Package model scores the chance that a skater scores in a given game.
// The weights are fixed product constants shared with the web front end,
// not fitted at runtime — changing them breaks displayed odds.
package model

import "math"

// Logit weights. Feature order: intercept, player rating, shot volume,
// goals per game, power-play share, ice time, matchup, home ice.
const (
	wIntercept = -2.2
	wPlayer    = 0.9
	wShots     = 1.0
	wGoals     = 0.6
	wPowerPlay = 0.5
	wIceTime   = 0.3
	wMatchup   = 0.4
	wHome      = 0.2

	// Output is kept away from 0 and 1: even a cold fourth-liner can tip one
	// in, and nobody is a 90% bet to score on a given night.
	probFloor = 0.05
	probCeil  = 0.60

	shotsPerGameScale = 4.5
	fullIceTimeMin    = 20.0
	ratingScale       = 300.0
	matchupScale      = 100.0
	homeBonus         = 0.05

	// DefaultRatingCenter matches the rating baseline so tanh((r-c)/300) is
	// zero for unseen players.
	DefaultRatingCenter = 1500
)

// Inputs is the feature vector for one (player, game) pairing.
type Inputs struct {
	Goals          int
	Shots          int
	PowerPlayGoals int
	GamesPlayed    int
	TOIMinutes     float64 // average time on ice per game

	PlayerRating float64
	TeamRating   float64
	OppRating    float64
	Home         bool
}

// Scorer computes goal probabilities around a configurable rating center.
type Scorer struct {
	center float64
}

// NewScorer returns a Scorer. A zero center falls back to DefaultRatingCenter.
func NewScorer(center float64) *Scorer {
	if center == 0 {
		center = DefaultRatingCenter
	}
	return &Scorer{center: center}
}

// GoalProbability returns the probability in [0.05, 0.60] that the player
// scores. Pure function: no I/O, deterministic for identical inputs.
func (s *Scorer) GoalProbability(in Inputs) float64 {
	rPlayer := math.Tanh((in.PlayerRating - s.center) / ratingScale)

	var rGoals, rShots float64
	if in.GamesPlayed > 0 {
		rGoals = float64(in.Goals) / float64(in.GamesPlayed)
		rShots = float64(in.Shots) / float64(in.GamesPlayed) / shotsPerGameScale
	}

	var rPP float64
	if in.Goals > 0 {
		rPP = float64(in.PowerPlayGoals) / float64(in.Goals)
	}

	rTOI := in.TOIMinutes / fullIceTimeMin
	if rTOI > 1 {
		rTOI = 1
	}

	rMatchup := math.Tanh((in.TeamRating - in.OppRating) / matchupScale)

	rHome := 0.0
	if in.Home {
		rHome = homeBonus
	}

	logit := wIntercept +
		wPlayer*rPlayer +
		wShots*rShots +
		wGoals*rGoals +
		wPowerPlay*rPP +
		wIceTime*rTOI +
		wMatchup*rMatchup +
		wHome*rHome

	p := sigmoid(logit)
	if p < probFloor {
		return probFloor
	}
	if p > probCeil {
		return probCeil
	}
	return p
}

// Percent renders a probability for the API: rounded integer 0–100.
func Percent(p float64) int {
	return int(math.Round(p * 100))
}

func sigmoid(z float64) float64 {
	if z > 20 {
		return 1.0
	}
	if z < -20 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}
