// internal/httpserver/routes_game.go
//
// Game routes and the move operations shared with /ws.
//   - POST /game/new     {width,height}          → {gameId,state}
//   - POST /game/select  {gameId,index}          → {outcome,state}
//   - POST /game/ack     {gameId}                → {acknowledged,state}
//   - POST /game/resize  {gameId,width,height}   → {gameId,state}
//   - GET  /game/{id}                            → {state}
//
// Resizing replaces the session wholesale under a new ID; the old one is
// dropped and its history row marked abandoned. A failed resize changes nothing.
//
// Every operation acts as the caller: games owned by someone else answer
// not_found, and history writes carry the same owner clause.
//
// History rows (games table) are best effort: a DB failure is logged and the
// move still succeeds.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tripletmatch/internal/game"
	"github.com/robalobadob/tripletmatch/internal/store"
)

const (
	defaultWidth  = 6
	defaultHeight = 6

	// timeLayout sorts lexically, unlike RFC3339Nano.
	timeLayout = "2006-01-02T15:04:05.000Z07:00"
)

var errDailyResize = errors.New("daily boards cannot be resized")

// ownerOf resolves the caller, issuing an anonymous cookie if needed.
// Signed-in callers keep their cookie identity too, so games they started as
// guests stay theirs.
func (s *Server) ownerOf(w http.ResponseWriter, r *http.Request) store.Owner {
	o := store.Owner{AnonID: s.ensureAnonID(w, r)}
	if me := userFrom(r.Context()); me != nil {
		o.UserID = me.ID
	}
	return o
}

// ownerClause scopes a games-table statement to o (teacher-style "AND <clause>").
func ownerClause(o store.Owner) (string, []any) {
	return `(user_id=? OR anonymous_id=?)`, []any{o.UserID, o.AnonID}
}

// ------------------------------ payloads -----------------------------------

type newGameReq struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
type newGameRes struct {
	GameID string        `json:"gameId"`
	State  game.Snapshot `json:"state"`
}

type selectReq struct {
	GameID string `json:"gameId"`
	Index  *int   `json:"index"`
}
type selectRes struct {
	Outcome game.Outcome  `json:"outcome"`
	State   game.Snapshot `json:"state"`
}

type ackReq struct {
	GameID string `json:"gameId"`
}
type ackRes struct {
	Acknowledged bool          `json:"acknowledged"`
	State        game.Snapshot `json:"state"`
}

type resizeReq struct {
	GameID string `json:"gameId"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type stateRes struct {
	State game.Snapshot `json:"state"`
}

// ------------------------------ handlers -----------------------------------

// handleNewGame deals a board. Omitting both dimensions gives the default 6x6.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Width == 0 && req.Height == 0 {
		req.Width, req.Height = defaultWidth, defaultHeight
	}
	id, snap, err := s.startGame(r.Context(), s.ownerOf(w, r), "free", req.Width, req.Height, s.engine)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{GameID: id, State: snap})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	out, snap, err := s.selectCard(r.Context(), s.ownerOf(w, r), req.GameID, *req.Index)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selectRes{Outcome: out, State: snap})
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	var req ackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	ok, snap, err := s.acknowledge(r.Context(), s.ownerOf(w, r), req.GameID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackRes{Acknowledged: ok, State: snap})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	id, snap, err := s.replaceGame(r.Context(), s.ownerOf(w, r), req.GameID, req.Width, req.Height)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{GameID: id, State: snap})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context(), s.ownerOf(w, r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateRes{State: snap})
}

// fail maps engine and store errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrConfig):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errDailyResize):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("game operation failed")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

// decodeBody decodes JSON, treating an empty body as an empty object.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ----------------------------- operations ----------------------------------

// startGame creates and stores a session and records its history row.
func (s *Server) startGame(ctx context.Context, o store.Owner, mode string, width, height int, cfg game.Config) (string, game.Snapshot, error) {
	sess, err := game.NewSession(width, height, cfg)
	if err != nil {
		return "", game.Snapshot{}, err
	}
	snap := sess.Snapshot()
	if err := s.store.Save(ctx, sess, o); err != nil {
		return "", game.Snapshot{}, err
	}
	s.insertGameRow(ctx, sess.ID, o, mode, width, height)
	log.Info().Str("gameId", sess.ID).Str("mode", mode).Int("width", width).Int("height", height).Msg("game started")
	return sess.ID, snap, nil
}

// selectCard flips one card and records progress when a cycle starts or the board is cleared.
func (s *Server) selectCard(ctx context.Context, o store.Owner, id string, index int) (game.Outcome, game.Snapshot, error) {
	var (
		out    game.Outcome
		snap   game.Snapshot
		before int
	)
	err := s.store.UpdateAs(ctx, id, o, func(g *game.Session) error {
		before = g.Attempts()
		var err error
		if out, err = g.Select(index); err != nil {
			return err
		}
		snap = g.Snapshot()
		return nil
	})
	if err != nil {
		return "", game.Snapshot{}, err
	}
	cleared := out == game.OutcomeMatched && snap.Won
	if snap.Attempts != before || cleared {
		s.recordProgress(ctx, o, id, snap)
	}
	if cleared {
		log.Info().Str("gameId", id).Int("attempts", snap.Attempts).Msg("board cleared")
		s.daily.finish(ctx, id, snap)
	}
	return out, snap, nil
}

// acknowledge clears a displayed mismatch.
func (s *Server) acknowledge(ctx context.Context, o store.Owner, id string) (bool, game.Snapshot, error) {
	var (
		ok   bool
		snap game.Snapshot
	)
	err := s.store.UpdateAs(ctx, id, o, func(g *game.Session) error {
		ok = g.Acknowledge()
		snap = g.Snapshot()
		return nil
	})
	return ok, snap, err
}

// replaceGame starts a new board of the requested size in place of oldID.
func (s *Server) replaceGame(ctx context.Context, o store.Owner, oldID string, width, height int) (string, game.Snapshot, error) {
	if err := s.store.UpdateAs(ctx, oldID, o, func(*game.Session) error { return nil }); err != nil {
		return "", game.Snapshot{}, err
	}
	if s.daily.isDaily(oldID) {
		return "", game.Snapshot{}, errDailyResize
	}
	id, snap, err := s.startGame(ctx, o, "free", width, height, s.engine)
	if err != nil {
		return "", game.Snapshot{}, err
	}
	_ = s.store.Delete(ctx, oldID)
	clause, args := ownerClause(o)
	if _, err := s.db.ExecContext(ctx,
		`UPDATE games SET status='abandoned', finished_at=? WHERE id=? AND status='playing' AND `+clause,
		append([]any{s.now().UTC().Format(timeLayout), oldID}, args...)...); err != nil {
		log.Warn().Err(err).Str("gameId", oldID).Msg("abandon game")
	}
	return id, snap, nil
}

func (s *Server) snapshot(ctx context.Context, o store.Owner, id string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := s.store.UpdateAs(ctx, id, o, func(g *game.Session) error {
		snap = g.Snapshot()
		return nil
	})
	return snap, err
}

// ------------------------------ history ------------------------------------

// insertGameRow writes the history row for a new session and counts it for signed-in users.
func (s *Server) insertGameRow(ctx context.Context, id string, o store.Owner, mode string, width, height int) {
	var userID, anonID any
	if o.UserID != "" {
		userID = o.UserID
	} else if o.AnonID != "" {
		anonID = o.AnonID
	}
	now := s.now().UTC().Format(timeLayout)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, mode, width, height, attempts, status, started_at)
		 VALUES (?,?,?,?,?,?,0,'playing',?)`,
		id, userID, anonID, mode, width, height, now); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("insert game row")
		return
	}
	if o.UserID != "" {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE users SET games_played = games_played + 1 WHERE id=?`, o.UserID); err != nil {
			log.Warn().Err(err).Str("user", o.UserID).Msg("count game")
		}
	}
}

// recordProgress stores the attempt count and, on a win, closes the row and
// credits the owning user (once, guarded by status). Rows not owned by o are untouched.
func (s *Server) recordProgress(ctx context.Context, o store.Owner, id string, snap game.Snapshot) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin progress tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	clause, args := ownerClause(o)
	if _, err := tx.Exec(`UPDATE games SET attempts=? WHERE id=? AND `+clause,
		append([]any{snap.Attempts, id}, args...)...); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("update attempts")
	}

	if snap.Won {
		res, err := tx.Exec(`UPDATE games SET status='won', finished_at=? WHERE id=? AND status='playing' AND `+clause,
			append([]any{s.now().UTC().Format(timeLayout), id}, args...)...)
		if err != nil {
			log.Warn().Err(err).Str("gameId", id).Msg("finish game")
		} else if n, _ := res.RowsAffected(); n == 1 {
			var userID sql.NullString
			if err := tx.QueryRow(`SELECT user_id FROM games WHERE id=?`, id).Scan(&userID); err != nil {
				log.Warn().Err(err).Str("gameId", id).Msg("load game owner")
			} else if userID.Valid {
				if err := bumpWins(tx, userID.String, snap.Attempts); err != nil {
					log.Warn().Err(err).Str("user", userID.String).Msg("bump stats")
				}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("commit progress")
	}
}

// bumpWins increments wins and keeps the lowest winning attempt count (within tx).
func bumpWins(tx *sql.Tx, userID string, attempts int) error {
	_, err := tx.Exec(`UPDATE users
		SET wins = wins + 1,
		    best_attempts = CASE WHEN best_attempts IS NULL OR best_attempts > ? THEN ? ELSE best_attempts END
		WHERE id=?`, attempts, attempts, userID)
	return err
}
