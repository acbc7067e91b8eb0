// internal/combos/combos.go
//
// Provides the combo-group table: the visual families a board deals from.
//
// Responsibilities:
//   - Load the table from an environment-provided file or fall back to the embedded default.
//   - Expose the groups in order (group index == engine Card.Group).
//   - Report capacity so the server can size game.Config.Groups.
//
// Initialization behavior (Init):
//   1. If COMBOS_FILE is set (or a path is passed to Init), read one group per line.
//   2. Otherwise use the embedded default_combos.txt.
//
// Constraints:
//   • Blank lines and lines starting with '#' are ignored.
//   • Names are lowercased and must be unique.
//   • Initialization is run once (sync.Once).

package combos

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

//go:embed default_combos.txt
var embeddedCombos string

// cellsPerGroup mirrors the engine packing: one group covers twelve cells.
const cellsPerGroup = 12

var (
	initOnce   sync.Once
	groups     []string
	initialErr error
)

// Init loads the combo table exactly once. path overrides COMBOS_FILE when non-empty.
// Returns an error if the table ends up empty or has duplicates.
func Init(path string) error {
	initOnce.Do(func() {
		if path == "" {
			path = os.Getenv("COMBOS_FILE")
		}
		var list []string
		if path != "" {
			f, err := os.Open(path)
			if err != nil {
				initialErr = fmt.Errorf("combos: %w", err)
				return
			}
			defer f.Close()
			list, initialErr = Parse(f)
		} else {
			list, initialErr = Parse(strings.NewReader(embeddedCombos))
		}
		groups = list
	})
	return initialErr
}

// Parse reads a combo table: one name per line, '#' comments allowed.
func Parse(r io.Reader) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		name := strings.ToLower(strings.TrimSpace(sc.Text()))
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("combos: duplicate group %q", name)
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("combos: table is empty")
	}
	return out, nil
}

// Groups returns a copy of the loaded table.
func Groups() []string {
	return append([]string(nil), groups...)
}

// Count is the number of loaded groups (engine capacity).
func Count() int { return len(groups) }

// MaxCards is the largest board, in cells, the loaded table can deal.
func MaxCards() int { return len(groups) * cellsPerGroup }
