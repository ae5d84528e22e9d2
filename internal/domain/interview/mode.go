package interview

import (
	"errors"
	"fmt"
)

// DifficultyMode governs the phrasing instructions sent to the model.
type DifficultyMode string

const (
	ModeEasy   DifficultyMode = "easy"
	ModeMedium DifficultyMode = "medium"
	ModeHard   DifficultyMode = "hard"
	ModeMixed  DifficultyMode = "mixed"
)

// ErrInvalidMode reports a difficulty string outside the accepted set.
var ErrInvalidMode = errors.New("invalid difficulty")

// ParseMode validates a difficulty string. Empty input defaults to medium.
func ParseMode(s string) (DifficultyMode, error) {
	switch DifficultyMode(s) {
	case ModeEasy, ModeMedium, ModeHard, ModeMixed:
		return DifficultyMode(s), nil
	case "":
		return ModeMedium, nil
	default:
		return "", fmt.Errorf("%w %q: must be easy, medium, hard, or mixed", ErrInvalidMode, s)
	}
}
