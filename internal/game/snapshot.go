package game

// CardView is the renderer-facing view of one card.
// The look of a card (group, piece, orientation) is only set while it is face up,
// since cards of one combo share it.
type CardView struct {
	Index       int       `json:"index"`
	State       CardState `json:"state"`
	Orientation *int      `json:"orientation,omitempty"`
	Group       *int      `json:"group,omitempty"`
	Piece       *int      `json:"piece,omitempty"`
}

// Snapshot is a read-only copy of everything a renderer needs for one frame.
type Snapshot struct {
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Attempts int        `json:"attempts"`
	Won      bool       `json:"won"`
	Blocked  bool       `json:"blocked"`
	Cards    []CardView `json:"cards"`
}

// Snapshot copies the session state. Later moves do not affect it.
func (s *Session) Snapshot() Snapshot {
	b := s.board
	views := make([]CardView, len(b.cards))
	for i, c := range b.cards {
		v := CardView{Index: i, State: c.State}
		if c.State.FaceUp() {
			group, piece, orient := c.Group, c.Piece, c.Orientation
			v.Group, v.Piece, v.Orientation = &group, &piece, &orient
		}
		views[i] = v
	}
	return Snapshot{
		Width:    b.width,
		Height:   b.height,
		Attempts: s.attempts,
		Won:      s.won,
		Blocked:  s.blocked,
		Cards:    views,
	}
}
