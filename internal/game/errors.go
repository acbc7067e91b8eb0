package game

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned when requested grid dimensions cannot form a board.
	ErrConfig = errors.New("invalid board configuration")

	// ErrInvariant means evaluation found a selection it refuses to judge.
	ErrInvariant = errors.New("selection invariant violated")
)

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
