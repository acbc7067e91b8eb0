package httpserver

import (
	"net/http"
	"reflect"
	"testing"
)

func TestDailySameLayoutForEveryone(t *testing.T) {
	e := newTestEnv(t)
	alice, bob := e.client(t), e.client(t)

	var a, b dailyNewRes
	if code := alice.post("/daily/new", nil, &a); code != http.StatusOK {
		t.Fatalf("alice daily: %d", code)
	}
	if code := bob.post("/daily/new", nil, &b); code != http.StatusOK {
		t.Fatalf("bob daily: %d", code)
	}
	if a.Date != "2026-03-14" || a.Played || a.GameID == "" {
		t.Fatalf("alice = %+v", a)
	}
	if a.GameID == b.GameID {
		t.Fatal("players share a session")
	}
	if !reflect.DeepEqual(e.cells(t, a.GameID), e.cells(t, b.GameID)) {
		t.Error("daily layouts differ between players")
	}

	var again dailyNewRes
	alice.post("/daily/new", nil, &again)
	if again.GameID != a.GameID {
		t.Errorf("daily/new dealt a second board: %s != %s", again.GameID, a.GameID)
	}

	if code := alice.post("/game/resize", resizeReq{GameID: a.GameID, Width: 3, Height: 6}, nil); code != http.StatusConflict {
		t.Errorf("resize daily: %d, want 409", code)
	}
}

func TestDailyResultAndLeaderboard(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)

	var d dailyNewRes
	c.post("/daily/new", nil, &d)
	last := e.solve(t, c, d.GameID)
	if !last.State.Won {
		t.Fatal("daily board not cleared")
	}

	var after dailyNewRes
	if code := c.post("/daily/new", nil, &after); code != http.StatusOK || !after.Played || after.GameID != "" {
		t.Errorf("daily/new after finishing = %d %+v", code, after)
	}

	var lb lbRes
	if code := c.get("/daily/leaderboard", &lb); code != http.StatusOK {
		t.Fatalf("leaderboard: %d", code)
	}
	if lb.Date != "2026-03-14" || len(lb.Top) != 1 || lb.Top[0].Attempts != 3 {
		t.Errorf("leaderboard = %+v", lb)
	}

	var other lbRes
	c.get("/daily/leaderboard?date=2026-03-13", &other)
	if len(other.Top) != 0 {
		t.Errorf("yesterday has %d rows", len(other.Top))
	}

	// Moves on a finished board do not store a second result.
	idx := 0
	c.post("/game/select", selectReq{GameID: d.GameID, Index: &idx}, nil)
	c.get("/daily/leaderboard", &lb)
	if len(lb.Top) != 1 {
		t.Errorf("leaderboard grew to %d rows", len(lb.Top))
	}
}

func TestDailyGuestResultFollowsLogin(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)

	var d dailyNewRes
	c.post("/daily/new", nil, &d)
	e.solve(t, c, d.GameID)

	var user struct {
		ID string `json:"id"`
	}
	if code := c.post("/auth/signup", credentials{Username: "dailyfan", Password: "longenough1"}, &user); code != http.StatusOK {
		t.Fatalf("signup: %d", code)
	}

	var again dailyNewRes
	if code := c.post("/daily/new", nil, &again); code != http.StatusOK || !again.Played {
		t.Fatalf("daily/new after signup = %d %+v, want played", code, again)
	}

	var lb lbRes
	c.get("/daily/leaderboard", &lb)
	if len(lb.Top) != 1 || lb.Top[0].UserID != user.ID {
		t.Errorf("leaderboard = %+v, want one row for %s", lb.Top, user.ID)
	}
}
