// Package nhl fetches schedule, score, boxscore and club-stats documents
// from the public NHL API (api-web.nhle.com).
package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kamilbartko1/extraliga-sub000/internal/metrics"
)

const DefaultBaseURL = "https://api-web.nhle.com"

// GameTypeRegular selects regular-season stats on club-stats endpoints.
const GameTypeRegular = 2

// TerminalGameStates are gameState values for games that are over and have a
// published boxscore.
var TerminalGameStates = map[string]bool{"FINAL": true, "OFF": true}

// LiveGameStates are in-progress gameState values (CRIT is the API's
// late-game variant of LIVE).
var LiveGameStates = map[string]bool{"LIVE": true, "CRIT": true}

// RetryPolicy bounds the client's linear retry: at most Attempts tries with a
// fixed Delay between them. No backoff, no jitter.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy mirrors the upstream's observed flakiness: three tries,
// 400ms apart.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Delay: 400 * time.Millisecond}

// Client is the NHL API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      RetryPolicy
}

// NewClient returns a client for the given base URL (DefaultBaseURL when
// empty) with the given retry policy.
func NewClient(baseURL string, retry RetryPolicy, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		retry:      retry,
	}
}

// get fetches path with bounded linear retry. Network errors and non-2xx
// responses are retried alike; the last error is returned once attempts are
// exhausted. Callers treat an error as "skip this unit of work".
func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	url := c.baseURL + path
	var lastErr error
	for attempt := 1; attempt <= c.retry.Attempts; attempt++ {
		if attempt > 1 {
			metrics.RecordUpstreamRetry()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retry.Delay):
			}
		}
		body, err := c.getOnce(ctx, endpoint, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		slog.Warn("upstream request failed", "endpoint", endpoint, "url", url, "attempt", attempt, "error", err)
	}
	slog.Warn("upstream request exhausted retries", "endpoint", endpoint, "url", url, "attempts", c.retry.Attempts)
	return nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, endpoint, url string) ([]byte, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "extraliga-sub000/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordUpstreamRequest(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	metrics.RecordUpstreamRequest(endpoint, "ok", time.Since(start).Seconds())
	return body, nil
}

// teamName extracts a display string from fields the API serves either as a
// plain string or as {"default": "..."}.
func teamName(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if m, ok := v.(map[string]interface{}); ok {
		if d, ok := m["default"].(string); ok {
			return d
		}
	}
	return ""
}

// DailyScores returns all games listed for the given date ("2006-01-02"),
// whatever their state.
func (c *Client) DailyScores(ctx context.Context, date string) ([]Game, error) {
	body, err := c.get(ctx, "score", "/v1/score/"+date)
	if err != nil {
		return nil, fmt.Errorf("daily scores %s: %w", date, err)
	}
	var raw struct {
		Games []struct {
			ID           int64  `json:"id"`
			GameState    string `json:"gameState"`
			StartTimeUTC string `json:"startTimeUTC"`
			HomeTeam     struct {
				Abbrev string      `json:"abbrev"`
				Name   interface{} `json:"name"`
				Score  int         `json:"score"`
			} `json:"homeTeam"`
			AwayTeam struct {
				Abbrev string      `json:"abbrev"`
				Name   interface{} `json:"name"`
				Score  int         `json:"score"`
			} `json:"awayTeam"`
		} `json:"games"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode daily scores %s: %w", date, err)
	}
	games := make([]Game, 0, len(raw.Games))
	for _, g := range raw.Games {
		start, _ := time.Parse(time.RFC3339, g.StartTimeUTC)
		homeName := teamName(g.HomeTeam.Name)
		if homeName == "" {
			homeName = g.HomeTeam.Abbrev
		}
		awayName := teamName(g.AwayTeam.Name)
		if awayName == "" {
			awayName = g.AwayTeam.Abbrev
		}
		games = append(games, Game{
			ID:           g.ID,
			Date:         date,
			State:        g.GameState,
			HomeAbbrev:   g.HomeTeam.Abbrev,
			AwayAbbrev:   g.AwayTeam.Abbrev,
			HomeName:     homeName,
			AwayName:     awayName,
			HomeScore:    g.HomeTeam.Score,
			AwayScore:    g.AwayTeam.Score,
			StartTimeUTC: start,
		})
	}
	return games, nil
}

// Boxscore fetches per-player stats for a game. All skaters (forwards and
// defense) of both teams are flattened into one slice; goalies are excluded.
func (c *Client) Boxscore(ctx context.Context, gameID int64) (*Boxscore, error) {
	body, err := c.get(ctx, "boxscore", fmt.Sprintf("/v1/gamecenter/%d/boxscore", gameID))
	if err != nil {
		return nil, fmt.Errorf("boxscore %d: %w", gameID, err)
	}
	type rawSkater struct {
		PlayerID int `json:"playerId"`
		Name     struct {
			Default string `json:"default"`
		} `json:"name"`
		Goals   int    `json:"goals"`
		Assists int    `json:"assists"`
		TOI     string `json:"toi"`
	}
	type rawSide struct {
		Forwards []rawSkater `json:"forwards"`
		Defense  []rawSkater `json:"defense"`
	}
	var raw struct {
		PlayerByGameStats struct {
			AwayTeam rawSide `json:"awayTeam"`
			HomeTeam rawSide `json:"homeTeam"`
		} `json:"playerByGameStats"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode boxscore %d: %w", gameID, err)
	}
	box := &Boxscore{GameID: gameID}
	for _, group := range [][]rawSkater{
		raw.PlayerByGameStats.AwayTeam.Forwards,
		raw.PlayerByGameStats.AwayTeam.Defense,
		raw.PlayerByGameStats.HomeTeam.Forwards,
		raw.PlayerByGameStats.HomeTeam.Defense,
	} {
		for _, s := range group {
			box.Skaters = append(box.Skaters, BoxscoreSkater{
				PlayerID: s.PlayerID,
				Name:     s.Name.Default,
				Goals:    s.Goals,
				Assists:  s.Assists,
				TOI:      s.TOI,
			})
		}
	}
	return box, nil
}

// ClubStats fetches season-to-date skater stats for a team (e.g. "TOR") and
// season id (e.g. "20252026"). Goalies are skipped.
func (c *Client) ClubStats(ctx context.Context, team, season string) ([]SkaterSeason, error) {
	path := fmt.Sprintf("/v1/club-stats/%s/%s/%d", team, season, GameTypeRegular)
	body, err := c.get(ctx, "club-stats", path)
	if err != nil {
		return nil, fmt.Errorf("club stats %s %s: %w", team, season, err)
	}
	var raw struct {
		Skaters []struct {
			PlayerID  int `json:"playerId"`
			FirstName struct {
				Default string `json:"default"`
			} `json:"firstName"`
			LastName struct {
				Default string `json:"default"`
			} `json:"lastName"`
			Headshot             string  `json:"headshot"`
			GamesPlayed          int     `json:"gamesPlayed"`
			Goals                int     `json:"goals"`
			Assists              int     `json:"assists"`
			Shots                int     `json:"shots"`
			ShootingPctg         float64 `json:"shootingPctg"`
			PowerPlayGoals       int     `json:"powerPlayGoals"`
			AvgTimeOnIcePerGame  float64 `json:"avgTimeOnIcePerGame"` // seconds
		} `json:"skaters"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode club stats %s: %w", team, err)
	}
	skaters := make([]SkaterSeason, 0, len(raw.Skaters))
	for _, s := range raw.Skaters {
		name := s.FirstName.Default
		if s.LastName.Default != "" {
			if name != "" {
				name += " "
			}
			name += s.LastName.Default
		}
		skaters = append(skaters, SkaterSeason{
			PlayerID:       s.PlayerID,
			Name:           name,
			Team:           team,
			GamesPlayed:    s.GamesPlayed,
			Goals:          s.Goals,
			Assists:        s.Assists,
			Shots:          s.Shots,
			ShootingPctg:   s.ShootingPctg,
			PowerPlayGoals: s.PowerPlayGoals,
			TOIMinutes:     s.AvgTimeOnIcePerGame / 60,
			Headshot:       s.Headshot,
		})
	}
	return skaters, nil
}
