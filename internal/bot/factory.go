package bot

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Level names a bot strategy.
type Level string

const (
	LevelGreedy Level = "greedy"
	LevelLowest Level = "lowest"
	LevelRandom Level = "random"
)

// Levels lists every known level.
var Levels = []Level{LevelGreedy, LevelLowest, LevelRandom}

// ParseLevel resolves a case-insensitive level name.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Levels {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown bot level: %q", s)
}

// NewBrain creates a new AI brain based on the specified level.
// rng only matters for randomized levels; nil means time-seeded.
func NewBrain(level Level, rng *rand.Rand) (Brain, error) {
	switch level {
	case LevelGreedy:
		return &GreedyBot{}, nil
	case LevelLowest:
		return &LowestBot{}, nil
	case LevelRandom:
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		return &RandomBot{rng: rng}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %q", level)
	}
}
