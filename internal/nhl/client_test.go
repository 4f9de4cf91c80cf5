package nhl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(url string) *Client {
	return NewClient(url, RetryPolicy{Attempts: 3, Delay: time.Millisecond}, 5*time.Second)
}

const scoreJSON = `{
  "games": [
    {
      "id": 2025020001,
      "gameState": "FINAL",
      "startTimeUTC": "2026-01-10T00:00:00Z",
      "homeTeam": {"abbrev": "TOR", "name": {"default": "Maple Leafs"}, "score": 4},
      "awayTeam": {"abbrev": "MTL", "name": {"default": "Canadiens"}, "score": 1}
    },
    {
      "id": 2025020002,
      "gameState": "FUT",
      "startTimeUTC": "2026-01-10T23:00:00Z",
      "homeTeam": {"abbrev": "BOS", "name": "Bruins", "score": 0},
      "awayTeam": {"abbrev": "NYR", "score": 0}
    }
  ]
}`

func TestDailyScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/score/2026-01-10" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(scoreJSON))
	}))
	defer srv.Close()

	games, err := testClient(srv.URL).DailyScores(context.Background(), "2026-01-10")
	if err != nil {
		t.Fatalf("DailyScores: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games; want 2", len(games))
	}
	g := games[0]
	if g.ID != 2025020001 || g.State != "FINAL" || g.HomeScore != 4 || g.AwayScore != 1 {
		t.Errorf("game[0] = %+v", g)
	}
	if g.HomeName != "Maple Leafs" || g.AwayName != "Canadiens" {
		t.Errorf("names = %q / %q", g.HomeName, g.AwayName)
	}
	if !g.Terminal() || g.Live() {
		t.Errorf("FINAL game: Terminal=%v Live=%v", g.Terminal(), g.Live())
	}
	if got := g.Label(); got != "MTL @ TOR" {
		t.Errorf("Label = %q; want %q", got, "MTL @ TOR")
	}
	// Name served as a bare string, and a missing name falls back to abbrev.
	if games[1].HomeName != "Bruins" || games[1].AwayName != "NYR" {
		t.Errorf("game[1] names = %q / %q", games[1].HomeName, games[1].AwayName)
	}
}

const boxscoreJSON = `{
  "playerByGameStats": {
    "awayTeam": {
      "forwards": [{"playerId": 8478402, "name": {"default": "C. McDavid"}, "goals": 2, "assists": 1, "toi": "21:33"}],
      "defense": [{"playerId": 8480803, "name": {"default": "E. Bouchard"}, "goals": 0, "assists": 2, "toi": "23:01"}],
      "goalies": [{"playerId": 8479973, "name": {"default": "S. Skinner"}}]
    },
    "homeTeam": {
      "forwards": [{"playerId": 8477934, "name": {"default": "L. Draisaitl"}, "goals": 1, "assists": 0, "toi": "20:10"}],
      "defense": []
    }
  }
}`

func TestBoxscore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/gamecenter/2025020001/boxscore" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(boxscoreJSON))
	}))
	defer srv.Close()

	box, err := testClient(srv.URL).Boxscore(context.Background(), 2025020001)
	if err != nil {
		t.Fatalf("Boxscore: %v", err)
	}
	if len(box.Skaters) != 3 {
		t.Fatalf("got %d skaters; want 3 (goalies excluded)", len(box.Skaters))
	}
	if box.Skaters[0].Name != "C. McDavid" || box.Skaters[0].Goals != 2 || box.Skaters[0].Assists != 1 {
		t.Errorf("skater[0] = %+v", box.Skaters[0])
	}
}

const clubStatsJSON = `{
  "skaters": [
    {
      "playerId": 8478402,
      "firstName": {"default": "Connor"},
      "lastName": {"default": "McDavid"},
      "headshot": "https://assets.nhle.com/mugs/nhl/20252026/EDM/8478402.png",
      "gamesPlayed": 40,
      "goals": 25,
      "assists": 45,
      "shots": 160,
      "shootingPctg": 0.156,
      "powerPlayGoals": 8,
      "avgTimeOnIcePerGame": 1305.5
    }
  ],
  "goalies": [{"playerId": 8479973}]
}`

func TestClubStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/club-stats/EDM/20252026/2" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(clubStatsJSON))
	}))
	defer srv.Close()

	skaters, err := testClient(srv.URL).ClubStats(context.Background(), "EDM", "20252026")
	if err != nil {
		t.Fatalf("ClubStats: %v", err)
	}
	if len(skaters) != 1 {
		t.Fatalf("got %d skaters; want 1", len(skaters))
	}
	s := skaters[0]
	if s.Name != "Connor McDavid" || s.Team != "EDM" || s.Goals != 25 || s.Shots != 160 {
		t.Errorf("skater = %+v", s)
	}
	if s.TOIMinutes < 21.7 || s.TOIMinutes > 21.8 {
		t.Errorf("TOIMinutes = %v; want ~21.76", s.TOIMinutes)
	}
}

func TestGetRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"games": []}`))
	}))
	defer srv.Close()

	games, err := testClient(srv.URL).DailyScores(context.Background(), "2026-01-10")
	if err != nil {
		t.Fatalf("DailyScores after retries: %v", err)
	}
	if games == nil || len(games) != 0 {
		t.Errorf("games = %v; want empty slice", games)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server saw %d calls; want 3", got)
	}
}

func TestGetExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).DailyScores(context.Background(), "2026-01-10")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server saw %d calls; want 3", got)
	}
}

func TestGetContextCancelDuringDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, RetryPolicy{Attempts: 3, Delay: time.Minute}, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := c.DailyScores(ctx, "2026-01-10")
	if err == nil {
		t.Fatal("expected error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("retry delay ignored context cancellation (%v)", elapsed)
	}
}

func TestMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"games": [`))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).DailyScores(context.Background(), "2026-01-10"); err == nil {
		t.Fatal("expected decode error")
	}
}
