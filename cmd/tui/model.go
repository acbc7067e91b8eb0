package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tripletmatch/internal/game"
)

const (
	frameRate    = 60
	mismatchText = "No match. Press space to continue."
)

// presets are the board sizes cycled with +/-.
var presets = []struct{ w, h int }{{3, 3}, {3, 6}, {6, 6}, {6, 9}, {9, 9}}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	sess   *game.Session
	groups []string
	keys   keyMap

	cursorX, cursorY int
	preset           int // index into presets, -1 for a custom size from flags
	started          time.Time
	cleared          bool
	wonAfter         time.Duration
	status           string

	width, height int // terminal size
}

func newModel(sess *game.Session, groups []string) *model {
	m := &model{sess: sess, groups: groups, keys: keys, preset: -1, started: time.Now()}
	b := sess.Board()
	for i, p := range presets {
		if p.w == b.Width() && p.h == b.Height() {
			m.preset = i
		}
	}
	return m
}

func (m *model) Init() tea.Cmd { return tick() }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.sess.Tick() && !m.cleared {
			m.cleared = true
			m.wonAfter = time.Since(m.started).Round(time.Second)
			log.Info().Int("attempts", m.sess.Attempts()).Dur("took", m.wonAfter).Msg("board cleared")
		}
		if m.status == mismatchText && !m.sess.Blocked() {
			m.status = "" // auto-acknowledged
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.move(0, -1)
		case key.Matches(msg, m.keys.Down):
			m.move(0, 1)
		case key.Matches(msg, m.keys.Left):
			m.move(-1, 0)
		case key.Matches(msg, m.keys.Right):
			m.move(1, 0)
		case key.Matches(msg, m.keys.Select):
			m.selectAtCursor()
		case key.Matches(msg, m.keys.NewGame):
			b := m.sess.Board()
			m.newGame(b.Width(), b.Height())
		case key.Matches(msg, m.keys.Bigger):
			m.cyclePreset(1)
		case key.Matches(msg, m.keys.Smaller):
			m.cyclePreset(-1)
		}
	}
	return m, nil
}

// move wraps the cursor around the board edges.
func (m *model) move(dx, dy int) {
	b := m.sess.Board()
	m.cursorX = (m.cursorX + dx + b.Width()) % b.Width()
	m.cursorY = (m.cursorY + dy + b.Height()) % b.Height()
}

// selectAtCursor flips the card under the cursor, or dismisses a mismatch.
func (m *model) selectAtCursor() {
	if m.sess.Blocked() {
		m.sess.Acknowledge()
		m.status = ""
		return
	}
	i, ok := m.sess.Board().Index(m.cursorX, m.cursorY)
	if !ok {
		return
	}
	out, err := m.sess.Select(i)
	if err != nil {
		log.Error().Err(err).Int("index", i).Msg("select")
		m.status = err.Error()
		return
	}
	switch out {
	case game.OutcomeMismatched:
		m.status = mismatchText
	case game.OutcomeMatched:
		m.status = "Match!"
	default:
		m.status = ""
	}
}

func (m *model) newGame(w, h int) {
	if err := m.sess.NewGame(w, h); err != nil {
		log.Warn().Err(err).Int("width", w).Int("height", h).Msg("new game")
		m.status = err.Error()
		return
	}
	m.cursorX, m.cursorY = 0, 0
	m.started = time.Now()
	m.cleared, m.wonAfter = false, 0
	m.status = ""
	log.Info().Int("width", w).Int("height", h).Msg("new game")
}

func (m *model) cyclePreset(step int) {
	next := (m.preset + step + len(presets)) % len(presets)
	if m.preset < 0 {
		next = 0
	}
	p := presets[next]
	m.newGame(p.w, p.h)
	if b := m.sess.Board(); b.Width() == p.w && b.Height() == p.h {
		m.preset = next
	}
}

func (m *model) View() string {
	if m.cleared {
		msg := fmt.Sprintf("%s\n\n%s\n\n%s",
			statusStyle.Render("Board cleared!"),
			winTextStyle.Render(fmt.Sprintf("Attempts: %d   Time: %02d:%02d",
				m.sess.Attempts(), int(m.wonAfter.Minutes()), int(m.wonAfter.Seconds())%60)),
			"n new game • +/- change size • q quit")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, winBoxStyle.Render(msg))
	}

	view := lipgloss.JoinVertical(lipgloss.Center, m.renderBoard(), m.renderInfo())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}

func (m *model) renderBoard() string {
	b := m.sess.Board()
	var sb strings.Builder
	for y := 0; y < b.Height(); y++ {
		row := make([]string, 0, b.Width())
		for x := 0; x < b.Width(); x++ {
			i, _ := b.Index(x, y)
			c, _ := b.Card(i)
			row = append(row, renderCell(c, m.groups, x == m.cursorX && y == m.cursorY))
		}
		sb.WriteString(strings.Join(row, " "))
		if y < b.Height()-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m *model) renderInfo() string {
	b := m.sess.Board()
	elapsed := time.Since(m.started).Round(time.Second)
	info := fmt.Sprintf("%dx%d • attempts %d • solved %d/%d • %02d:%02d",
		b.Width(), b.Height(), m.sess.Attempts(), b.SolvedCount(), b.CardCount(),
		int(elapsed.Minutes()), int(elapsed.Seconds())%60)
	if m.status != "" {
		info += "\n" + statusStyle.Render(m.status)
	}
	return infoStyle.Render(info + "\n\n" + m.keys.helpLine())
}
