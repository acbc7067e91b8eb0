package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/tripletmatch/internal/game"
)

// Per-group colours; groups past the palette wrap around.
var groupColors = []lipgloss.Color{"39", "208", "170", "220", "45", "141", "203", "118", "51", "214", "99", "229"}

var arrows = [...]string{"↑", "→", "↓", "←"}

var (
	cellBase = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)

	hiddenStyle  = cellBase.Background(lipgloss.Color("236")).Foreground(lipgloss.Color("240"))
	solvedStyle  = cellBase.Background(lipgloss.Color("22")).Faint(true)
	wrongStyle   = cellBase.Background(lipgloss.Color("160")).Foreground(lipgloss.Color("15")).Bold(true)
	cursorStyle  = lipgloss.NewStyle().Underline(true).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Margin(1, 0, 0, 0)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4500")).Bold(true)
	winBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).BorderForeground(lipgloss.Color("#FFD700"))
	winTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
)

// face is the three-rune label of a face-up card: group initial, orientation, piece.
func face(c game.Card, groups []string) string {
	initial := "?"
	if c.Group < len(groups) && groups[c.Group] != "" {
		initial = strings.ToUpper(groups[c.Group][:1])
	}
	return initial + arrows[c.Orientation%len(arrows)] + string(rune('a'+c.Piece))
}

// renderCell styles one card; the cursor adds an underline on top.
func renderCell(c game.Card, groups []string, isCursor bool) string {
	var s lipgloss.Style
	text := "···"
	switch c.State {
	case game.Hidden:
		s = hiddenStyle
	case game.Revealed:
		s = cellBase.Background(lipgloss.Color("238")).
			Foreground(groupColors[c.Group%len(groupColors)]).Bold(true)
		text = face(c, groups)
	case game.Solved:
		s = solvedStyle.Foreground(groupColors[c.Group%len(groupColors)])
		text = face(c, groups)
	case game.Wrong:
		s = wrongStyle
		text = face(c, groups)
	}
	if isCursor {
		s = s.Inherit(cursorStyle).Background(lipgloss.Color("220")).Foreground(lipgloss.Color("0"))
	}
	return s.Render(text)
}
