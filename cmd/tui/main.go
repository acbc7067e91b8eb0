// Command tui plays triplet-match in the terminal against the local engine.
//
//	tui -w 6 -h 6 -auto-ack 800ms
//
// Logs go to the file named by TUI_LOG (discarded when unset), since the
// terminal belongs to the board.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tripletmatch/internal/combos"
	"github.com/robalobadob/tripletmatch/internal/game"
)

func main() {
	width := flag.Int("w", 6, "board width")
	height := flag.Int("h", 6, "board height")
	autoAck := flag.Duration("auto-ack", 0, "hide a mismatch by itself after this long (0 waits for a key)")
	flag.Parse()

	_ = godotenv.Load()
	closeLog := setupLog(os.Getenv("TUI_LOG"))
	defer closeLog()

	if err := combos.Init(os.Getenv("COMBOS_FILE")); err != nil {
		fatal(err)
	}
	cfg := game.Config{
		Groups:       combos.Count(),
		AutoAckTicks: ackTicks(*autoAck),
	}
	sess, err := game.NewSession(*width, *height, cfg)
	if err != nil {
		fatal(err)
	}
	log.Info().Int("width", *width).Int("height", *height).Dur("autoAck", *autoAck).Msg("tui started")

	if _, err := tea.NewProgram(newModel(sess, combos.Groups()), tea.WithAltScreen()).Run(); err != nil {
		fatal(err)
	}
}

// ackTicks converts a delay into whole frames, rounding up so short delays still wait one frame.
func ackTicks(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d*frameRate + time.Second - 1) / time.Second)
}

func setupLog(path string) func() {
	if path == "" {
		log.Logger = zerolog.New(io.Discard)
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fatal(err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { _ = f.Close() }
}

func fatal(err error) {
	log.Error().Err(err).Msg("tui exited")
	fmt.Fprintln(os.Stderr, "tui:", err)
	os.Exit(1)
}
