package bot

import (
	"errors"

	"tienlenmn/internal/domain"
)

// Move represents the decision made by the AI.
type Move struct {
	Pass  bool
	Cards []domain.Card
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	CalculateMove(view domain.View) (Move, error)
}

// ErrNoMove is returned when a seat can neither play nor pass.
var ErrNoMove = errors.New("no legal move")
