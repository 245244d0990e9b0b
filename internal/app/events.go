package app

import "tienlenmn/internal/domain"

// EventKind identifies emitted game events for presentation.
type EventKind string

const (
	EventGameStarted EventKind = "game_started"
	EventHandDealt   EventKind = "hand_dealt"
	EventCardPlayed  EventKind = "card_played"
	EventTurnPassed  EventKind = "turn_passed"
	EventTrickReset  EventKind = "trick_reset"
	EventGameEnded   EventKind = "game_ended"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []domain.Seat // empty means broadcast
}

// VisibleTo reports whether seat should receive the event.
func (e Event) VisibleTo(seat domain.Seat) bool {
	if len(e.Recipients) == 0 {
		return true
	}
	for _, r := range e.Recipients {
		if r == seat {
			return true
		}
	}
	return false
}

type GameStartedPayload struct {
	Phase     domain.Phase
	FirstTurn domain.Seat
	Seed      int64
}

type HandDealtPayload struct {
	Seat domain.Seat
	Hand []domain.Card
}

type CardPlayedPayload struct {
	Seat        domain.Seat
	Combination domain.Combination
	NextTurn    domain.Seat
	CardsLeft   int
}

type TurnPassedPayload struct {
	Seat     domain.Seat
	NextTurn domain.Seat
	// NewRound is set when this pass cleared the board.
	NewRound bool
}

type TrickResetPayload struct {
	Leader domain.Seat
}

type GameEndedPayload struct {
	Winner    domain.Seat
	CardsLeft [domain.NumPlayers]int
}
