package bot

import "tienlenmn/internal/domain"

// Agent represents an autonomous bot player.
type Agent struct {
	Seat     domain.Seat
	Name     string
	Strategy Brain
}

// NewAgent builds an agent for seat driven by brain.
func NewAgent(seat domain.Seat, name string, brain Brain) *Agent {
	return &Agent{Seat: seat, Name: name, Strategy: brain}
}

// Play asks the agent to calculate its move for the match.
func (a *Agent) Play(m *domain.Match) (Move, error) {
	if m.CurrentPlayer() != a.Seat {
		return Move{Pass: true}, nil
	}
	return a.Strategy.CalculateMove(m.ViewFor(a.Seat))
}
