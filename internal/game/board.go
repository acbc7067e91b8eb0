// internal/game/board.go
//
// Board owns the grid of cards for one game.
// Responsibilities:
//   - Validate dimensions (positive, divisible into triples, within limits).
//   - Build the card sequence: assign combos, then shuffle exactly once.
//   - Answer read-only queries (counts, coordinates, win check).
//
// Cells are stored row-major: index = y*Width + x.
// Identity fields never change after NewBoard; card states are mutated only
// by Session.

package game

// Board is a generated grid of cards.
type Board struct {
	width  int
	height int
	cards  []Card
}

// NewBoard validates the requested size and generates a shuffled board.
// Errors wrap ErrConfig.
func NewBoard(width, height int, cfg Config) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, configError("dimensions must be positive, got %dx%d", width, height)
	}
	if limit := cfg.maxSide(); width > limit || height > limit {
		return nil, configError("%dx%d exceeds the %d cell side limit", width, height, limit)
	}
	cards, err := assignCombos(width*height, cfg.groups())
	if err != nil {
		return nil, err
	}
	shuffle(cards, cfg.source())
	return &Board{width: width, height: height, cards: cards}, nil
}

// Width is the number of columns.
func (b *Board) Width() int { return b.width }

// Height is the number of rows.
func (b *Board) Height() int { return b.height }

// CardCount is Width*Height.
func (b *Board) CardCount() int { return len(b.cards) }

// ComboCount is the number of distinct combos on the board.
func (b *Board) ComboCount() int { return len(b.cards) / comboSize }

// Index maps grid coordinates to a cell index.
func (b *Board) Index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, false
	}
	return y*b.width + x, true
}

// Coords is the inverse of Index.
func (b *Board) Coords(i int) (x, y int) {
	return i % b.width, i / b.width
}

// Card returns a copy of the card at index i.
func (b *Board) Card(i int) (Card, bool) {
	if i < 0 || i >= len(b.cards) {
		return Card{}, false
	}
	return b.cards[i], true
}

// Cells returns a copy of every card in row-major order.
func (b *Board) Cells() []Card {
	out := make([]Card, len(b.cards))
	copy(out, b.cards)
	return out
}

// SolvedCount counts cards in the Solved state.
func (b *Board) SolvedCount() int {
	n := 0
	for _, c := range b.cards {
		if c.State == Solved {
			n++
		}
	}
	return n
}

// Won reports whether every card is solved.
func (b *Board) Won() bool {
	for _, c := range b.cards {
		if c.State != Solved {
			return false
		}
	}
	return true
}

func (b *Board) inRange(i int) bool { return i >= 0 && i < len(b.cards) }
