package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"tienlenmn/internal/domain"
)

// Game is one running match plus the table metadata around it.
type Game struct {
	Match *domain.Match
	Names [domain.NumPlayers]string
	Seed  int64
}

// Name returns the display name for seat, falling back to the seat label.
func (g *Game) Name(seat domain.Seat) string {
	if !seat.Valid() || g.Names[seat] == "" {
		return seat.String()
	}
	return g.Names[seat]
}

// Service contains Tien Len use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// ErrNoGame is returned when an operation is invoked without a started game.
var ErrNoGame = errors.New("no game in progress")

// StartGame deals a new match. A zero seed draws one from the service rng so every deal can be replayed.
func (s *Service) StartGame(names [domain.NumPlayers]string, seed int64) (*Game, []Event, error) {
	for seed == 0 {
		seed = s.rng.Int63()
	}

	game := &Game{
		Match: domain.NewMatch(seed),
		Names: names,
		Seed:  seed,
	}

	events := make([]Event, 0, domain.NumPlayers+1)
	for seat := domain.Seat(0); seat < domain.NumPlayers; seat++ {
		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				Seat: seat,
				Hand: game.Match.HandOf(seat),
			},
			Recipients: []domain.Seat{seat},
		})
	}

	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			Phase:     game.Match.Phase(),
			FirstTurn: game.Match.CurrentPlayer(),
			Seed:      seed,
		},
	})

	return game, events, nil
}

// PlayCards processes a play action and emits resulting events.
// Engine rejections are returned as-is and leave the game untouched.
func (s *Service) PlayCards(game *Game, seat domain.Seat, cards []domain.Card) ([]Event, error) {
	if game == nil || game.Match == nil {
		return nil, ErrNoGame
	}
	m := game.Match
	if err := m.AcceptPlay(seat, cards); err != nil {
		return nil, fmt.Errorf("%s: %w", game.Name(seat), err)
	}

	last := m.LastPlay()
	events := []Event{
		{
			Kind: EventCardPlayed,
			Payload: CardPlayedPayload{
				Seat:        seat,
				Combination: last.Combination,
				NextTurn:    m.CurrentPlayer(),
				CardsLeft:   m.HandSize(seat),
			},
		},
	}

	if winner, ok := m.Winner(); ok {
		ended := GameEndedPayload{Winner: winner}
		for i := range ended.CardsLeft {
			ended.CardsLeft[i] = m.HandSize(domain.Seat(i))
		}
		events = append(events, Event{Kind: EventGameEnded, Payload: ended})
	}

	return events, nil
}

// PassTurn marks a player's pass action.
func (s *Service) PassTurn(game *Game, seat domain.Seat) ([]Event, error) {
	if game == nil || game.Match == nil {
		return nil, ErrNoGame
	}
	m := game.Match
	resetsBefore := m.TrickResets()
	if err := m.PassTurn(seat); err != nil {
		return nil, fmt.Errorf("%s: %w", game.Name(seat), err)
	}

	newRound := m.TrickResets() > resetsBefore
	events := []Event{
		{
			Kind: EventTurnPassed,
			Payload: TurnPassedPayload{
				Seat:     seat,
				NextTurn: m.CurrentPlayer(),
				NewRound: newRound,
			},
		},
	}
	if newRound {
		events = append(events, Event{
			Kind:    EventTrickReset,
			Payload: TrickResetPayload{Leader: m.CurrentPlayer()},
		})
	}
	return events, nil
}
