package game

import (
	"encoding/json"
	"errors"
	"testing"
)

// newOrderedSession builds a 3x3 session in generation order:
// cards 0-2 are combo 0, 3-5 combo 1, 6-8 combo 2.
func newOrderedSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	cfg.Source = identitySource{}
	s, err := NewSession(3, 3, cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	for i, c := range s.Board().Cells() {
		if c.Combo != i/3 {
			t.Fatalf("card %d has combo %d, expected ordered layout", i, c.Combo)
		}
	}
	return s
}

func mustSelect(t *testing.T, s *Session, index int, want Outcome) {
	t.Helper()
	got, err := s.Select(index)
	if err != nil {
		t.Fatalf("Select(%d): %v", index, err)
	}
	if got != want {
		t.Fatalf("Select(%d) = %s, want %s", index, got, want)
	}
}

func stateOf(t *testing.T, s *Session, index int) CardState {
	t.Helper()
	c, ok := s.Board().Card(index)
	if !ok {
		t.Fatalf("no card at %d", index)
	}
	return c.State
}

func TestNewSession(t *testing.T) {
	s, err := NewSession(3, 3, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.ID) != 16 {
		t.Errorf("expected 16-char id, got %q", s.ID)
	}
	if s.Attempts() != 0 || s.Won() || s.Blocked() {
		t.Errorf("fresh session: attempts=%d won=%v blocked=%v", s.Attempts(), s.Won(), s.Blocked())
	}
	if _, err := NewSession(4, 4, Config{}); !errors.Is(err, ErrConfig) {
		t.Errorf("NewSession(4,4) err = %v, want ErrConfig", err)
	}
}

func TestMatchPathSolvesWithoutAcknowledge(t *testing.T) {
	s := newOrderedSession(t, Config{})

	mustSelect(t, s, 0, OutcomeRevealed)
	mustSelect(t, s, 1, OutcomeRevealed)
	if got := s.Pending(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("Pending() = %v, want [0 1]", got)
	}
	mustSelect(t, s, 2, OutcomeMatched)

	for i := 0; i < 3; i++ {
		if st := stateOf(t, s, i); st != Solved {
			t.Errorf("card %d is %v after match, want solved", i, st)
		}
	}
	if s.Blocked() || len(s.Pending()) != 0 {
		t.Fatalf("board should be open after a match")
	}
	if s.Won() {
		t.Fatalf("won after a single combo")
	}

	mustSelect(t, s, 5, OutcomeRevealed)
	mustSelect(t, s, 3, OutcomeRevealed)
	mustSelect(t, s, 4, OutcomeMatched)
	mustSelect(t, s, 8, OutcomeRevealed)
	mustSelect(t, s, 7, OutcomeRevealed)
	mustSelect(t, s, 6, OutcomeMatched)

	if !s.Won() || !s.Tick() || !s.Board().Won() {
		t.Errorf("expected win once all nine cards are solved")
	}
	if s.Attempts() != 3 {
		t.Errorf("attempts = %d, want 3", s.Attempts())
	}
}

func TestMismatchBlocksUntilAcknowledge(t *testing.T) {
	s := newOrderedSession(t, Config{})

	mustSelect(t, s, 0, OutcomeRevealed)
	mustSelect(t, s, 1, OutcomeRevealed)
	mustSelect(t, s, 3, OutcomeMismatched)

	for _, i := range []int{0, 1, 3} {
		if st := stateOf(t, s, i); st != Wrong {
			t.Errorf("card %d is %v, want wrong", i, st)
		}
	}
	if !s.Blocked() {
		t.Fatal("expected board to be blocked after a mismatch")
	}

	// Nothing gets through while the mismatch is displayed, however long.
	for i := 0; i < 100; i++ {
		s.Tick()
	}
	mustSelect(t, s, 2, OutcomeRejected)
	if st := stateOf(t, s, 2); st != Hidden {
		t.Errorf("rejected card changed to %v", st)
	}

	if !s.Acknowledge() {
		t.Fatal("Acknowledge() = false while blocked")
	}
	for _, i := range []int{0, 1, 3} {
		if st := stateOf(t, s, i); st != Hidden {
			t.Errorf("card %d is %v after acknowledge, want hidden", i, st)
		}
	}
	if s.Blocked() || len(s.Pending()) != 0 {
		t.Fatal("board still blocked after acknowledge")
	}
	if s.Acknowledge() {
		t.Error("second Acknowledge() should be a no-op")
	}

	mustSelect(t, s, 2, OutcomeRevealed)
}

func TestSelectRejections(t *testing.T) {
	s := newOrderedSession(t, Config{})

	mustSelect(t, s, 4, OutcomeRevealed)
	mustSelect(t, s, 4, OutcomeRejected)
	mustSelect(t, s, -1, OutcomeRejected)
	mustSelect(t, s, 9, OutcomeRejected)
	if got := len(s.Pending()); got != 1 {
		t.Fatalf("pending = %d after rejected selects, want 1", got)
	}

	mustSelect(t, s, 3, OutcomeRevealed)
	mustSelect(t, s, 5, OutcomeMatched)
	mustSelect(t, s, 5, OutcomeRejected) // solved cards stay put
	if st := stateOf(t, s, 5); st != Solved {
		t.Errorf("solved card became %v", st)
	}

	mustSelect(t, s, 0, OutcomeRevealed)
	mustSelect(t, s, 1, OutcomeRevealed)
	mustSelect(t, s, 6, OutcomeMismatched)
	mustSelect(t, s, 7, OutcomeRejected) // a fourth card while three are showing
	mustSelect(t, s, 0, OutcomeRejected) // a wrong card
}

func TestAttemptsCountedOncePerCycle(t *testing.T) {
	s := newOrderedSession(t, Config{})

	mustSelect(t, s, 0, OutcomeRevealed)
	if s.Attempts() != 1 {
		t.Fatalf("attempts = %d after first reveal, want 1", s.Attempts())
	}
	mustSelect(t, s, 4, OutcomeRevealed)
	mustSelect(t, s, 8, OutcomeMismatched)
	if s.Attempts() != 1 {
		t.Fatalf("attempts = %d after mismatch, want 1", s.Attempts())
	}
	s.Acknowledge()
	if s.Attempts() != 1 {
		t.Fatalf("attempts = %d after acknowledge, want 1", s.Attempts())
	}

	mustSelect(t, s, 0, OutcomeRevealed)
	if s.Attempts() != 2 {
		t.Fatalf("attempts = %d on second cycle, want 2", s.Attempts())
	}
	mustSelect(t, s, 1, OutcomeRevealed)
	mustSelect(t, s, 2, OutcomeMatched)
	mustSelect(t, s, 2, OutcomeRejected)
	if s.Attempts() != 2 {
		t.Errorf("rejected select counted an attempt: %d", s.Attempts())
	}
}

func TestAutoAcknowledgeAfterTicks(t *testing.T) {
	s := newOrderedSession(t, Config{AutoAckTicks: 3})

	mustSelect(t, s, 0, OutcomeRevealed)
	mustSelect(t, s, 3, OutcomeRevealed)
	mustSelect(t, s, 6, OutcomeMismatched)

	s.Tick()
	s.Tick()
	if !s.Blocked() {
		t.Fatal("unblocked before the configured delay")
	}
	s.Tick()
	if s.Blocked() {
		t.Fatal("still blocked after the configured delay")
	}
	if st := stateOf(t, s, 6); st != Hidden {
		t.Errorf("card 6 is %v, want hidden", st)
	}
}

func TestNewGameResets(t *testing.T) {
	s := newOrderedSession(t, Config{})
	mustSelect(t, s, 0, OutcomeRevealed)
	mustSelect(t, s, 3, OutcomeRevealed)
	mustSelect(t, s, 6, OutcomeMismatched)

	if err := s.NewGame(6, 6); err != nil {
		t.Fatalf("NewGame(6,6): %v", err)
	}
	if s.Attempts() != 0 || s.Won() || s.Blocked() || len(s.Pending()) != 0 {
		t.Errorf("NewGame left state behind: attempts=%d won=%v blocked=%v pending=%v",
			s.Attempts(), s.Won(), s.Blocked(), s.Pending())
	}
	if s.Board().CardCount() != 36 {
		t.Errorf("card count = %d, want 36", s.Board().CardCount())
	}

	// Same size again: same guarantees, fresh counters.
	if err := s.NewGame(6, 6); err != nil {
		t.Fatal(err)
	}
	for combo, n := range comboCounts(s.Board().Cells()) {
		if n != 3 {
			t.Errorf("combo %d has %d cards", combo, n)
		}
	}
	if s.Attempts() != 0 || s.Won() {
		t.Errorf("second NewGame: attempts=%d won=%v", s.Attempts(), s.Won())
	}
}

func TestNewGameInvalidLeavesSessionUntouched(t *testing.T) {
	s := newOrderedSession(t, Config{})
	mustSelect(t, s, 0, OutcomeRevealed)
	board := s.Board()

	err := s.NewGame(4, 4)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("NewGame(4,4) err = %v, want ErrConfig", err)
	}
	if s.Board() != board {
		t.Error("board replaced by a failed NewGame")
	}
	if s.Attempts() != 1 || len(s.Pending()) != 1 || stateOf(t, s, 0) != Revealed {
		t.Error("selection state changed by a failed NewGame")
	}
	mustSelect(t, s, 1, OutcomeRevealed)
}

func TestEvaluateRefusesOversizedSelection(t *testing.T) {
	s := newOrderedSession(t, Config{})
	for _, i := range []int{0, 1, 2, 3} {
		s.board.cards[i].State = Revealed
	}
	s.revealed = append(s.revealed, 0, 1, 2, 3)

	if _, err := s.evaluate(); !errors.Is(err, ErrInvariant) {
		t.Fatalf("evaluate() err = %v, want ErrInvariant", err)
	}
	for _, i := range []int{0, 1, 2, 3} {
		if st := stateOf(t, s, i); st != Revealed {
			t.Errorf("card %d changed to %v by a refused evaluation", i, st)
		}
	}

	s.revealed = []int{0, 1, 4}
	if _, err := s.evaluate(); !errors.Is(err, ErrInvariant) {
		t.Errorf("evaluate() with a hidden card: err = %v, want ErrInvariant", err)
	}
}

func TestSnapshotHidesFaceDownCards(t *testing.T) {
	s := newOrderedSession(t, Config{})
	mustSelect(t, s, 4, OutcomeRevealed)

	snap := s.Snapshot()
	if snap.Width != 3 || snap.Height != 3 || snap.Attempts != 1 || len(snap.Cards) != 9 {
		t.Fatalf("unexpected snapshot header: %+v", snap)
	}
	for _, v := range snap.Cards {
		faceUp := v.Index == 4
		if (v.Group != nil) != faceUp || (v.Piece != nil) != faceUp || (v.Orientation != nil) != faceUp {
			t.Errorf("card %d: look exposed=%v, want %v", v.Index, v.Group != nil, faceUp)
		}
	}
	if got := *snap.Cards[4].Piece; got != 1 {
		t.Errorf("card 4 piece = %d, want 1", got)
	}

	raw, err := json.Marshal(snap.Cards[4])
	if err != nil {
		t.Fatal(err)
	}
	var back struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.State != "revealed" {
		t.Errorf("state on the wire = %q, want \"revealed\"", back.State)
	}

	// Snapshots are copies.
	mustSelect(t, s, 3, OutcomeRevealed)
	if snap.Cards[3].State != Hidden {
		t.Error("snapshot changed after a later move")
	}
}
