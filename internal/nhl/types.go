package nhl

import "time"

// Game is one entry from the daily score listing.
type Game struct {
	ID           int64
	Date         string // "2006-01-02"
	State        string // raw gameState: FUT, PRE, LIVE, CRIT, FINAL, OFF
	HomeAbbrev   string
	AwayAbbrev   string
	HomeName     string
	AwayName     string
	HomeScore    int
	AwayScore    int
	StartTimeUTC time.Time
}

// Terminal reports whether the game is over with a published boxscore.
func (g Game) Terminal() bool { return TerminalGameStates[g.State] }

// Live reports whether the game is in progress.
func (g Game) Live() bool { return LiveGameStates[g.State] }

// Label renders the game for display, away side first.
func (g Game) Label() string { return g.AwayAbbrev + " @ " + g.HomeAbbrev }

// BoxscoreSkater is one skater's line from a game boxscore.
type BoxscoreSkater struct {
	PlayerID int
	Name     string
	Goals    int
	Assists  int
	TOI      string // "mm:ss"
}

// Boxscore is the per-player stats document for a finished or live game.
type Boxscore struct {
	GameID  int64
	Skaters []BoxscoreSkater
}

// SkaterSeason is a season-to-date stat snapshot from the club-stats
// endpoint, used as the feature vector for goal-probability scoring.
type SkaterSeason struct {
	PlayerID       int
	Name           string
	Team           string // abbrev the stats were fetched for
	GamesPlayed    int
	Goals          int
	Assists        int
	Shots          int
	ShootingPctg   float64
	PowerPlayGoals int
	TOIMinutes     float64
	Headshot       string
}
