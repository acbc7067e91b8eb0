package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/tripletmatch/assets"
	"github.com/robalobadob/tripletmatch/internal/db"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	got := DateKey(time.Date(2026, 3, 2, 5, 0, 0, 0, loc))
	if got != "2026-03-01" {
		t.Errorf("DateKey = %q, want 2026-03-01", got)
	}
}

func TestSeedIsStablePerDay(t *testing.T) {
	morning := time.Date(2026, 10, 15, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC)
	tomorrow := morning.Add(24 * time.Hour)

	if Seed(morning, "salt") != Seed(evening, "salt") {
		t.Error("seed changed within a day")
	}
	if Seed(morning, "salt") == Seed(tomorrow, "salt") {
		t.Error("seed repeated across days")
	}
	if Seed(morning, "salt") == Seed(morning, "pepper") {
		t.Error("seed ignores the salt")
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "daily.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.Migrate(sqlDB, assets.Migrations()); err != nil {
		t.Fatal(err)
	}
	return NewStore(sqlDB)
}

func TestStoreLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	const date = "2026-10-15"

	results := []Result{
		{UserID: "slow", Date: date, Width: 6, Height: 6, Attempts: 20, ElapsedMs: 90000},
		{UserID: "fast", Date: date, Width: 6, Height: 6, Attempts: 20, ElapsedMs: 30000},
		{UserID: "sharp", Date: date, Width: 6, Height: 6, Attempts: 14, ElapsedMs: 120000},
		{UserID: "other-day", Date: "2026-10-14", Width: 6, Height: 6, Attempts: 12, ElapsedMs: 1000},
	}
	for _, r := range results {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatalf("InsertResult(%s): %v", r.UserID, err)
		}
	}
	// Duplicate is ignored, first result stands.
	if err := s.InsertResult(ctx, Result{UserID: "slow", Date: date, Width: 6, Height: 6, Attempts: 12, ElapsedMs: 1}); err != nil {
		t.Fatal(err)
	}

	played, err := s.AlreadyPlayed(ctx, "fast", date)
	if err != nil || !played {
		t.Fatalf("AlreadyPlayed(fast) = %v, %v", played, err)
	}
	played, err = s.AlreadyPlayed(ctx, "fast", "2026-10-14")
	if err != nil || played {
		t.Fatalf("AlreadyPlayed(fast, yesterday) = %v, %v", played, err)
	}

	rows, err := s.Leaderboard(ctx, date, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"sharp", "fast", "slow"}
	if len(rows) != len(want) {
		t.Fatalf("leaderboard has %d rows, want %d: %+v", len(rows), len(want), rows)
	}
	for i, id := range want {
		if rows[i].UserID != id {
			t.Errorf("rank %d = %s, want %s", i+1, rows[i].UserID, id)
		}
	}
	if rows[2].Attempts != 20 {
		t.Errorf("duplicate insert overwrote result: %+v", rows[2])
	}
}
