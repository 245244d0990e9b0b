package bot

import (
	"fmt"
	"math/rand"

	"tienlenmn/internal/domain"
)

// GreedyBot plays the first legal move in generation order and passes when it has none.
type GreedyBot struct{}

func (b *GreedyBot) CalculateMove(view domain.View) (Move, error) {
	for combo := range view.Moves {
		return Move{Cards: combo.Cards}, nil
	}
	return passOrStuck(view)
}

// LowestBot sheds its cheapest combination. On a cleared board it prefers the move that
// sheds the most cards, breaking ties by rank value.
type LowestBot struct{}

func (b *LowestBot) CalculateMove(view domain.View) (Move, error) {
	var best *domain.Combination
	for combo := range view.Moves {
		if best == nil || lowerThan(view.Phase, combo, *best) {
			best = &combo
		}
	}
	if best == nil {
		return passOrStuck(view)
	}
	return Move{Cards: best.Cards}, nil
}

func lowerThan(phase domain.Phase, a, b domain.Combination) bool {
	if phase == domain.PhaseOpen && a.Len() != b.Len() {
		return a.Len() > b.Len()
	}
	return a.RankValue < b.RankValue
}

// RandomBot picks uniformly among its legal moves.
type RandomBot struct {
	rng *rand.Rand
}

func (b *RandomBot) CalculateMove(view domain.View) (Move, error) {
	moves := domain.CollectMoves(view.Moves)
	if len(moves) == 0 {
		return passOrStuck(view)
	}
	return Move{Cards: moves[b.rng.Intn(len(moves))].Cards}, nil
}

// passOrStuck passes, or reports that the seat has neither a move nor a pass.
func passOrStuck(view domain.View) (Move, error) {
	if !view.CanPass {
		return Move{}, fmt.Errorf("%w: %s", ErrNoMove, view.Seat)
	}
	return Move{Pass: true}, nil
}
