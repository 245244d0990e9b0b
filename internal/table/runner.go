// Package table seats humans and bots around one game and drives the bot turns.
package table

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"tienlenmn/internal/app"
	"tienlenmn/internal/bot"
	"tienlenmn/internal/domain"
)

// DefaultThinkDelay is how long a bot appears to think before acting.
const DefaultThinkDelay = 1500 * time.Millisecond

// ErrHumanTurn is returned when the runner is asked to act for a seat without an agent.
var ErrHumanTurn = errors.New("current seat is not a bot")

// Runner applies bot moves to a game through the app service.
// A Runner is not safe for concurrent use.
type Runner struct {
	svc    *app.Service
	game   *app.Game
	agents map[domain.Seat]*bot.Agent

	clock  quartz.Clock
	think  time.Duration
	logger *log.Logger
	sink   func(app.Event)
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock sets the clock used for think delays.
func WithClock(clock quartz.Clock) Option {
	return func(r *Runner) { r.clock = clock }
}

// WithThinkDelay sets the pause before each bot move. Zero or less disables it.
func WithThinkDelay(d time.Duration) Option {
	return func(r *Runner) { r.think = d }
}

// WithLogger sets the logger; the runner logs under the "table" prefix.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithEventSink receives every event the runner produces, in order.
func WithEventSink(sink func(app.Event)) Option {
	return func(r *Runner) { r.sink = sink }
}

// New builds a runner for game. Seats missing from agents are human.
func New(svc *app.Service, game *app.Game, agents map[domain.Seat]*bot.Agent, opts ...Option) *Runner {
	r := &Runner{
		svc:    svc,
		game:   game,
		agents: agents,
		clock:  quartz.NewReal(),
		think:  DefaultThinkDelay,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithPrefix("table")
	return r
}

// Game returns the game being driven.
func (r *Runner) Game() *app.Game { return r.game }

// IsBotTurn reports whether the current seat is played by an agent.
func (r *Runner) IsBotTurn() bool {
	if _, ended := r.game.Match.Winner(); ended {
		return false
	}
	_, ok := r.agents[r.game.Match.CurrentPlayer()]
	return ok
}

// Step waits the think delay, then applies one move for the bot whose turn it is.
// If ctx ends during the wait the game is left unchanged and ctx.Err() is returned.
func (r *Runner) Step(ctx context.Context) ([]app.Event, error) {
	if _, err := r.botToAct(); err != nil {
		return nil, err
	}
	if err := r.Think(ctx); err != nil {
		return nil, err
	}
	return r.Act()
}

// Think blocks for the think delay on the runner's clock. It does not touch the game,
// so callers may run it off the goroutine that owns the game and call Act afterwards.
func (r *Runner) Think(ctx context.Context) error {
	if r.think <= 0 {
		return ctx.Err()
	}
	timer := r.clock.NewTimer(r.think, "table", "think")
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Act immediately applies the current bot's move. A move the engine rejects is replaced by a pass
// when passing is legal, otherwise by the first legal move.
func (r *Runner) Act() ([]app.Event, error) {
	agent, err := r.botToAct()
	if err != nil {
		return nil, err
	}
	seat := agent.Seat

	move, err := agent.Play(r.game.Match)
	if err != nil {
		r.logger.Warn("bot failed to choose a move", "seat", int(seat), "name", agent.Name, "err", err)
		move = bot.Move{Pass: true}
	}

	events, err := r.apply(seat, move)
	if err != nil {
		r.logger.Warn("bot move rejected", "seat", int(seat), "name", agent.Name, "err", err)
		fallback, ferr := r.fallback(seat)
		if ferr != nil {
			return nil, ferr
		}
		if events, err = r.apply(seat, fallback); err != nil {
			return nil, err
		}
	}

	r.emit(events)
	return events, nil
}

func (r *Runner) botToAct() (*bot.Agent, error) {
	m := r.game.Match
	if _, ended := m.Winner(); ended {
		return nil, domain.ErrMatchOver
	}
	seat := m.CurrentPlayer()
	agent, ok := r.agents[seat]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHumanTurn, r.game.Name(seat))
	}
	return agent, nil
}

// Run steps until somebody wins and returns the winning seat.
func (r *Runner) Run(ctx context.Context) (domain.Seat, error) {
	for {
		if winner, ok := r.game.Match.Winner(); ok {
			return winner, nil
		}
		if _, err := r.Step(ctx); err != nil {
			return domain.NoSeat, err
		}
	}
}

// Play applies a human play and forwards the resulting events to the sink.
func (r *Runner) Play(seat domain.Seat, cards []domain.Card) ([]app.Event, error) {
	events, err := r.svc.PlayCards(r.game, seat, cards)
	if err != nil {
		r.logger.Debug("play rejected", "seat", int(seat), "err", err)
		return nil, err
	}
	r.emit(events)
	return events, nil
}

// Pass applies a human pass and forwards the resulting events to the sink.
func (r *Runner) Pass(seat domain.Seat) ([]app.Event, error) {
	events, err := r.svc.PassTurn(r.game, seat)
	if err != nil {
		r.logger.Debug("pass rejected", "seat", int(seat), "err", err)
		return nil, err
	}
	r.emit(events)
	return events, nil
}

func (r *Runner) apply(seat domain.Seat, move bot.Move) ([]app.Event, error) {
	if move.Pass {
		return r.svc.PassTurn(r.game, seat)
	}
	return r.svc.PlayCards(r.game, seat, move.Cards)
}

// fallback passes when allowed, otherwise plays the first legal move.
func (r *Runner) fallback(seat domain.Seat) (bot.Move, error) {
	m := r.game.Match
	if m.CanPass(seat) {
		return bot.Move{Pass: true}, nil
	}
	for combo := range m.LegalMoves(seat) {
		return bot.Move{Cards: combo.Cards}, nil
	}
	return bot.Move{}, fmt.Errorf("%w: %s", bot.ErrNoMove, r.game.Name(seat))
}

func (r *Runner) emit(events []app.Event) {
	for _, ev := range events {
		if ev.Kind == app.EventCardPlayed {
			p := ev.Payload.(app.CardPlayedPayload)
			r.logger.Debug("card played", "seat", int(p.Seat), "name", r.game.Name(p.Seat), "cards", p.Combination.Describe())
		}
		if r.sink != nil {
			r.sink(ev)
		}
	}
}
