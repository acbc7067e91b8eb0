// internal/game/types.go
//
// Core type definitions for the triplet-match engine.
// Defines:
//   - CardState: per-cell lifecycle (hidden/revealed/solved/wrong).
//   - Card: one grid cell with its combo identity and cosmetic look.
//   - Outcome: what a single Select call did.
//   - Config: knobs for board generation and mismatch handling.

package game

import "fmt"

// CardState is the lifecycle state of a single card.
//
//	Hidden → Revealed → Solved
//	                  → Wrong → Hidden
type CardState int

const (
	Hidden CardState = iota
	Revealed
	Solved
	Wrong
)

// String returns the lowercase name used on the wire.
func (s CardState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Solved:
		return "solved"
	case Wrong:
		return "wrong"
	default:
		return "unknown"
	}
}

// MarshalText lets CardState travel as a string in JSON.
func (s CardState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the wire form produced by MarshalText.
func (s *CardState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "hidden":
		*s = Hidden
	case "revealed":
		*s = Revealed
	case "solved":
		*s = Solved
	case "wrong":
		*s = Wrong
	default:
		return fmt.Errorf("unknown card state %q", string(b))
	}
	return nil
}

// FaceUp reports whether the card's face is visible to the player.
func (s CardState) FaceUp() bool { return s != Hidden }

// Card is one cell of the grid.
// Combo, Group, Piece and Orientation are fixed at generation; only State changes.
type Card struct {
	Combo       int       // combo identity, shared by exactly three cards
	Group       int       // index into the combo-group table (visual asset)
	Piece       int       // which fragment of the combo (0..2)
	Orientation int       // cosmetic quarter turns (0..3)
	State       CardState // current lifecycle state
}

// Outcome reports the effect of a Select call.
type Outcome string

const (
	OutcomeRejected   Outcome = "rejected"   // no-op: cell not selectable right now
	OutcomeRevealed   Outcome = "revealed"   // card flipped, cycle still open
	OutcomeMatched    Outcome = "matched"    // third card completed a combo
	OutcomeMismatched Outcome = "mismatched" // third card did not match; board blocked
)

// Default limits.
const (
	DefaultGroups  = 8  // combo groups available when Config.Groups is zero
	DefaultMaxSide = 24 // widest/tallest grid accepted when Config.MaxSide is zero
	orientations   = 4
	comboSize      = 3
	groupSpan      = comboSize * orientations // cells covered by one combo group
)

// Config controls board generation and the mismatch acknowledgement policy.
// The zero value is usable.
type Config struct {
	// Groups is the size of the combo-group table; it bounds the grid size.
	Groups int
	// MaxSide bounds width and height individually.
	MaxSide int
	// Source drives the shuffle. Nil uses the process-wide source.
	Source Source
	// AutoAckTicks, when positive, acknowledges a mismatch automatically after
	// that many Tick calls. Zero means only Acknowledge clears a mismatch.
	AutoAckTicks int
}

func (c Config) groups() int {
	if c.Groups <= 0 {
		return DefaultGroups
	}
	return c.Groups
}

func (c Config) maxSide() int {
	if c.MaxSide <= 0 {
		return DefaultMaxSide
	}
	return c.MaxSide
}

func (c Config) source() Source {
	if c.Source == nil {
		return defaultSource
	}
	return c.Source
}
