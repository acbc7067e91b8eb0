// internal/game/engine.go
//
// Selection state machine for a single triplet-match session.
// Responsibilities:
//   - Create sessions and replace their board wholesale on new game/resize.
//   - Accept selections, collecting up to three face-up cards per cycle.
//   - Evaluate the third card: solve a matching triple immediately,
//     or mark a mismatch Wrong and block input until acknowledged.
//   - Count attempts (one per cycle, on its first reveal) and detect the win.
//
// Notes:
//   - A Session is not safe for concurrent use; callers serialise access
//     (see internal/store) or keep one session per goroutine.
//   - Rejected selections are silent no-ops, never errors.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Session is one player's game: the board, the open selection and counters.
type Session struct {
	ID string // Unique session identifier (random hex string).

	cfg        Config
	board      *Board
	revealed   []int // selection order, at most three
	blocked    bool  // a mismatch is on display
	attempts   int
	won        bool
	wrongTicks int // ticks spent blocked, for Config.AutoAckTicks
}

// NewSession generates a board and wraps it in a fresh session.
// Errors wrap ErrConfig.
func NewSession(width, height int, cfg Config) (*Session, error) {
	b, err := NewBoard(width, height, cfg)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:       randomID(),
		cfg:      cfg,
		board:    b,
		revealed: make([]int, 0, comboSize),
	}, nil
}

// NewGame discards the board and every pending selection and starts over at
// the given size. On error the session is left exactly as it was.
func (s *Session) NewGame(width, height int) error {
	b, err := NewBoard(width, height, s.cfg)
	if err != nil {
		return err
	}
	s.board = b
	s.revealed = s.revealed[:0]
	s.blocked = false
	s.attempts = 0
	s.won = false
	s.wrongTicks = 0
	return nil
}

// Select flips the card at index.
//
// Rejected (no-op) when the card is not Hidden, the index is out of range,
// three cards are already pending, or a mismatch awaits acknowledgement.
// The first reveal of a cycle counts one attempt. The third reveal is
// evaluated on the spot.
func (s *Session) Select(index int) (Outcome, error) {
	if s.blocked || len(s.revealed) >= comboSize {
		return OutcomeRejected, nil
	}
	if !s.board.inRange(index) || s.board.cards[index].State != Hidden {
		return OutcomeRejected, nil
	}

	if len(s.revealed) == 0 {
		s.attempts++
	}
	s.board.cards[index].State = Revealed
	s.revealed = append(s.revealed, index)

	if len(s.revealed) < comboSize {
		return OutcomeRevealed, nil
	}
	return s.evaluate()
}

// evaluate judges the pending triple. It refuses anything but exactly three
// Revealed cards rather than guess which ones were meant.
func (s *Session) evaluate() (Outcome, error) {
	if len(s.revealed) != comboSize {
		return OutcomeRejected, fmt.Errorf("%w: %d cards pending evaluation, want %d",
			ErrInvariant, len(s.revealed), comboSize)
	}
	cards := s.board.cards
	for _, i := range s.revealed {
		if !s.board.inRange(i) || cards[i].State != Revealed {
			return OutcomeRejected, fmt.Errorf("%w: pending card %d is not revealed", ErrInvariant, i)
		}
	}

	combo := cards[s.revealed[0]].Combo
	match := true
	for _, i := range s.revealed[1:] {
		if cards[i].Combo != combo {
			match = false
			break
		}
	}

	if match {
		for _, i := range s.revealed {
			cards[i].State = Solved
		}
		s.revealed = s.revealed[:0]
		s.won = s.board.Won()
		return OutcomeMatched, nil
	}

	for _, i := range s.revealed {
		cards[i].State = Wrong
	}
	s.blocked = true
	s.wrongTicks = 0
	return OutcomeMismatched, nil
}

// Acknowledge turns a displayed mismatch face down again and reopens the
// board. It reports false (no-op) when nothing is blocked.
func (s *Session) Acknowledge() bool {
	if !s.blocked {
		return false
	}
	for _, i := range s.revealed {
		if s.board.cards[i].State == Wrong {
			s.board.cards[i].State = Hidden
		}
	}
	s.revealed = s.revealed[:0]
	s.blocked = false
	s.wrongTicks = 0
	return true
}

// Tick is the per-frame poll. It applies the optional automatic
// acknowledgement and reports whether the game is won.
func (s *Session) Tick() bool {
	if s.blocked && s.cfg.AutoAckTicks > 0 {
		s.wrongTicks++
		if s.wrongTicks >= s.cfg.AutoAckTicks {
			s.Acknowledge()
		}
	}
	return s.won
}

// Attempts is the number of cycles started since the last new game.
func (s *Session) Attempts() int { return s.attempts }

// Won reports whether every card has been solved.
func (s *Session) Won() bool { return s.won }

// Blocked reports whether a mismatch is waiting for Acknowledge.
func (s *Session) Blocked() bool { return s.blocked }

// Pending returns the indices revealed in the current cycle, in selection order.
func (s *Session) Pending() []int {
	return append([]int(nil), s.revealed...)
}

// Board exposes the current board for read-only queries.
func (s *Session) Board() *Board { return s.board }

// randomID returns a compact 16‑hex‑char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
