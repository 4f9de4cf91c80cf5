package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kamilbartko1/extraliga-sub000/internal/rating"
	"github.com/kamilbartko1/extraliga-sub000/internal/tip"
)

func testStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, time.Hour), mr
}

func TestTablesRoundtrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	got, err := store.ReadTables(ctx)
	if err != nil {
		t.Fatalf("ReadTables (empty): %v", err)
	}
	if got != nil {
		t.Fatalf("ReadTables (empty) = %+v; want nil", got)
	}

	in := rating.NewTables()
	in.Teams["Alpha"] = 1540
	in.Players["marek hrivik"] = 1550
	if err := store.WriteTables(ctx, in); err != nil {
		t.Fatalf("WriteTables: %v", err)
	}

	got, err = store.ReadTables(ctx)
	if err != nil {
		t.Fatalf("ReadTables: %v", err)
	}
	if got.Teams["Alpha"] != 1540 || got.Players["marek hrivik"] != 1550 {
		t.Errorf("roundtrip lost data: %+v", got)
	}
}

func TestTablesTTL(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()
	if err := store.WriteTables(ctx, rating.NewTables()); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Hour)
	got, err := store.ReadTables(ctx)
	if err != nil {
		t.Fatalf("ReadTables after expiry: %v", err)
	}
	if got != nil {
		t.Errorf("tables survived TTL: %+v", got)
	}
}

func TestTipRoundtrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	_, found, err := store.ReadTip(ctx, "2026-01-10")
	if err != nil || found {
		t.Fatalf("ReadTip (empty) = found=%v err=%v; want absent", found, err)
	}

	in := &tip.Tip{Player: "Away Sniper", Team: "BBB", Match: "BBB @ AAA", Probability: 43}
	if err := store.WriteTip(ctx, "2026-01-10", in); err != nil {
		t.Fatalf("WriteTip: %v", err)
	}
	got, found, err := store.ReadTip(ctx, "2026-01-10")
	if err != nil {
		t.Fatalf("ReadTip: %v", err)
	}
	if !found || got == nil || got.Player != "Away Sniper" || got.Probability != 43 {
		t.Errorf("roundtrip = %+v found=%v", got, found)
	}
}

func TestNilTipCached(t *testing.T) {
	// "No tip today" is a cacheable outcome distinct from "not computed yet".
	store, _ := testStore(t)
	ctx := context.Background()
	if err := store.WriteTip(ctx, "2026-01-10", nil); err != nil {
		t.Fatalf("WriteTip(nil): %v", err)
	}
	got, found, err := store.ReadTip(ctx, "2026-01-10")
	if err != nil {
		t.Fatalf("ReadTip: %v", err)
	}
	if !found || got != nil {
		t.Errorf("cached nil tip = %+v found=%v; want nil, true", got, found)
	}
}

func TestMarkAnnouncedOnce(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	first, err := store.MarkAnnounced(ctx, "2026-01-10")
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.MarkAnnounced(ctx, "2026-01-10")
	if err != nil {
		t.Fatal(err)
	}
	if !first || second {
		t.Errorf("MarkAnnounced = %v, %v; want true then false", first, second)
	}
	other, err := store.MarkAnnounced(ctx, "2026-01-11")
	if err != nil {
		t.Fatal(err)
	}
	if !other {
		t.Error("different date should announce independently")
	}
}
