// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start today's board (creates or reuses session)
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Moves use the ordinary /game/select and /game/ack routes (or /ws); when a
// daily board is cleared the result is stored. Daily boards cannot be resized.
//
// Each player can finish the daily board once per day (enforced by DB + in-memory session).
// A signed-in player is checked under both identities, so a board finished as a
// guest cannot be played again after logging in.
// Every player gets the same layout: the shuffle is seeded from date + salt.

package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tripletmatch/internal/daily"
	"github.com/robalobadob/tripletmatch/internal/game"
	"github.com/robalobadob/tripletmatch/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	mu       sync.Mutex               // guards sessions and byGame
	sessions map[string]*dailySession // active sessions keyed by playerID|date
	byGame   map[string]*dailySession // the same sessions keyed by game ID
}

// dailySession holds transient in-memory state for an in-progress daily game.
type dailySession struct {
	GameID   string
	PlayerID string
	Date     string
	Start    time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]*dailySession),
		byGame:   make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string         `json:"gameId,omitempty"`
	Date   string         `json:"date"`
	Played bool           `json:"played"`
	State  *game.Snapshot `json:"state,omitempty"`
}

// handleNew creates or reuses today's session for the caller.
//   - Already finished today (DB row) → Played=true, no game.
//   - Otherwise reuse the live session or deal today's seeded board.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	o := d.srv.ownerOf(w, r)
	now := d.srv.now()
	date := daily.DateKey(now)

	played, err := d.playedToday(ctx, o, date)
	if err != nil {
		log.Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, pid := range identities(o) {
		key := pid + "|" + date
		sess, ok := d.sessions[key]
		if !ok {
			continue
		}
		if snap, err := d.srv.snapshot(ctx, o, sess.GameID); err == nil {
			writeJSON(w, http.StatusOK, dailyNewRes{GameID: sess.GameID, Date: date, State: &snap})
			return
		}
		// The live session is gone (replaced or evicted); deal again.
		delete(d.sessions, key)
		delete(d.byGame, sess.GameID)
	}

	cfg := d.srv.engine
	cfg.Source = game.NewSeededSource(daily.Seed(now, d.salt))
	id, snap, err := d.srv.startGame(ctx, o, "daily", d.srv.cfg.DailyWidth, d.srv.cfg.DailyHeight, cfg)
	if err != nil {
		d.srv.fail(w, err)
		return
	}
	sess := &dailySession{GameID: id, PlayerID: o.ID(), Date: date, Start: now}
	d.sessions[o.ID()+"|"+date] = sess
	d.byGame[id] = sess

	writeJSON(w, http.StatusOK, dailyNewRes{GameID: id, Date: date, State: &snap})
}

// identities lists the IDs a daily result may be stored under for o.
func identities(o store.Owner) []string {
	var ids []string
	for _, id := range []string{o.UserID, o.AnonID} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// playedToday reports whether any of o's identities already has a result for date.
func (d *dailyServer) playedToday(ctx context.Context, o store.Owner, date string) (bool, error) {
	for _, id := range identities(o) {
		played, err := d.store.AlreadyPlayed(ctx, id, date)
		if err != nil || played {
			return played, err
		}
	}
	return false, nil
}

// isDaily reports whether gameID is a live daily session.
func (d *dailyServer) isDaily(gameID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.byGame[gameID]
	return ok
}

// finish stores the result of a cleared daily board. Non-daily games are ignored.
func (d *dailyServer) finish(ctx context.Context, gameID string, snap game.Snapshot) {
	d.mu.Lock()
	sess, ok := d.byGame[gameID]
	if ok {
		delete(d.byGame, gameID)
		delete(d.sessions, sess.PlayerID+"|"+sess.Date)
	}
	d.mu.Unlock()
	if !ok {
		return
	}

	elapsed := int(d.srv.now().Sub(sess.Start).Milliseconds())
	err := d.store.InsertResult(ctx, daily.Result{
		UserID:    sess.PlayerID,
		Date:      sess.Date,
		Width:     snap.Width,
		Height:    snap.Height,
		Attempts:  snap.Attempts,
		ElapsedMs: elapsed,
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("insert daily result")
		return
	}
	log.Info().Str("date", sess.Date).Int("attempts", snap.Attempts).Int("elapsedMs", elapsed).Msg("daily result")
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
