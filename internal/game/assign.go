package game

// GroupsNeeded returns how many combo groups a board of n cells consumes.
// One group covers twelve cells: three pieces in each of four orientations.
func GroupsNeeded(n int) int {
	return (n + groupSpan - 1) / groupSpan
}

// assignCombos lays out n cards in generation order, before shuffling.
//
// For cell i:
//
//	piece       = i % 3
//	orientation = (i / 3) % 4
//	group       = (i / 12) % GroupsNeeded(n)
//
// Each consecutive triple shares one (group, orientation) look, and that look
// is unique to the triple, so the triple index i/3 is used as the combo
// identity. It is dense in [0, n/3).
func assignCombos(n, groups int) ([]Card, error) {
	if n <= 0 || n%comboSize != 0 {
		return nil, configError("%d cells cannot be split into combos of %d", n, comboSize)
	}
	need := GroupsNeeded(n)
	if need > groups {
		return nil, configError("%d cells need %d combo groups, table has %d", n, need, groups)
	}

	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card{
			Combo:       i / comboSize,
			Group:       (i / groupSpan) % need,
			Piece:       i % comboSize,
			Orientation: (i / comboSize) % orientations,
			State:       Hidden,
		}
	}
	return cards, nil
}
