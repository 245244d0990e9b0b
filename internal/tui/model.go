// Package tui is the terminal front end: one human seat against bots, rendered with Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"tienlenmn/internal/app"
	"tienlenmn/internal/bot"
	"tienlenmn/internal/config"
	"tienlenmn/internal/domain"
	"tienlenmn/internal/table"
)

const maxLogLines = 8

// botReadyMsg arrives when a bot has finished thinking. gen ties it to the game it was scheduled for.
type botReadyMsg struct {
	gen int
	err error
}

// Model is the Bubble Tea model for one table.
type Model struct {
	cfg    *config.GameConfig
	svc    *app.Service
	clock  quartz.Clock
	logger *log.Logger
	rng    *rand.Rand

	ctx    context.Context
	cancel context.CancelFunc

	game   *app.Game
	runner *table.Runner
	gen    int
	human  domain.Seat

	hand     []domain.Card
	cursor   int
	selected map[domain.Card]bool

	gameLog []string
	errMsg  string

	keys     keyMap
	help     help.Model
	width    int
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithClock sets the clock that paces bot turns.
func WithClock(clock quartz.Clock) Option {
	return func(m *Model) { m.clock = clock }
}

// WithLogger sets the logger; the model logs under the "tui" prefix.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithRand sets the source for service seeds and bot randomness.
func WithRand(rng *rand.Rand) Option {
	return func(m *Model) { m.rng = rng }
}

// New builds a model and deals the first game from cfg.
func New(cfg *config.GameConfig, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		cfg:    cfg,
		clock:  quartz.NewReal(),
		logger: log.Default(),
		keys:   defaultKeyMap(),
		help:   help.New(),
		human:  cfg.HumanSeat,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		m.rng = rand.New(rand.NewSource(seed))
	}
	m.logger = m.logger.WithPrefix("tui")
	m.svc = app.NewService(m.rng)
	m.ctx, m.cancel = context.WithCancel(context.Background())

	game, events, err := m.svc.StartGame(cfg.Names(), cfg.Seed)
	if err != nil {
		return nil, err
	}
	if err := m.reset(game, events); err != nil {
		return nil, err
	}
	return m, nil
}

// reset seats agents around game and replaces all per-game state.
func (m *Model) reset(game *app.Game, events []app.Event) error {
	agents := make(map[domain.Seat]*bot.Agent, domain.NumPlayers)
	for seat := domain.Seat(0); seat < domain.NumPlayers; seat++ {
		if seat == m.human {
			continue
		}
		seatCfg := m.cfg.Seats[seat]
		brain, err := bot.NewBrain(seatCfg.BotLevel, rand.New(rand.NewSource(m.rng.Int63())))
		if err != nil {
			return err
		}
		agents[seat] = bot.NewAgent(seat, seatCfg.Name, brain)
	}

	m.gen++
	m.game = game
	m.runner = table.New(m.svc, game, agents,
		table.WithClock(m.clock),
		table.WithThinkDelay(m.cfg.BotThinkDelay),
		table.WithLogger(m.logger),
	)
	m.gameLog = nil
	m.errMsg = ""
	m.cursor = 0
	m.selected = make(map[domain.Card]bool)
	m.record(events)
	m.logger.Info("game started", "seed", game.Seed, "opener", int(game.Match.CurrentPlayer()))
	return nil
}

// Init schedules the first bot turn when a bot opens.
func (m *Model) Init() tea.Cmd {
	return m.scheduleBot()
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case botReadyMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Debug("bot turn abandoned", "err", msg.err)
			return m, nil
		}
		events, err := m.runner.Act()
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.record(events)
		return m, m.scheduleBot()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(m.hand)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(m.hand) {
			c := m.hand[m.cursor]
			if m.selected[c] {
				delete(m.selected, c)
			} else {
				m.selected[c] = true
			}
		}

	case key.Matches(msg, m.keys.Play):
		if reason, blocked := m.humanTurnBlocker(); blocked {
			if reason != "" {
				m.errMsg = reason
			}
			return m, nil
		}
		cards := m.selectedCards()
		if len(cards) == 0 {
			m.errMsg = "select at least one card"
			return m, nil
		}
		events, err := m.runner.Play(m.human, cards)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.selected = make(map[domain.Card]bool)
		m.record(events)
		return m, m.scheduleBot()

	case key.Matches(msg, m.keys.Pass):
		if reason, blocked := m.humanTurnBlocker(); blocked {
			if reason != "" {
				m.errMsg = reason
			}
			return m, nil
		}
		events, err := m.runner.Pass(m.human)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.selected = make(map[domain.Card]bool)
		m.record(events)
		return m, m.scheduleBot()

	case key.Matches(msg, m.keys.New):
		game, events, err := m.svc.StartGame(m.cfg.Names(), 0)
		if err == nil {
			err = m.reset(game, events)
		}
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		return m, m.scheduleBot()
	}
	return m, nil
}

// scheduleBot returns a command that lets the current bot think, or nil when no bot is due.
func (m *Model) scheduleBot() tea.Cmd {
	if !m.runner.IsBotTurn() {
		return nil
	}
	gen, ctx, runner := m.gen, m.ctx, m.runner
	return func() tea.Msg {
		return botReadyMsg{gen: gen, err: runner.Think(ctx)}
	}
}

// humanTurnBlocker reports whether the human may not act now. reason is set only when it is
// somebody else's turn.
func (m *Model) humanTurnBlocker() (reason string, blocked bool) {
	if !m.human.Valid() {
		return "", true
	}
	if _, ended := m.game.Match.Winner(); ended {
		return "", true
	}
	if current := m.game.Match.CurrentPlayer(); current != m.human {
		return fmt.Sprintf("wait for %s", m.game.Name(current)), true
	}
	return "", false
}

func (m *Model) selectedCards() []domain.Card {
	var cards []domain.Card
	for _, c := range m.hand {
		if m.selected[c] {
			cards = append(cards, c)
		}
	}
	return cards
}

// record turns events into log lines and refreshes the human's hand.
func (m *Model) record(events []app.Event) {
	if len(events) > 0 {
		m.errMsg = ""
	}
	for _, ev := range events {
		if m.human.Valid() && !ev.VisibleTo(m.human) {
			continue
		}
		if line := describeEvent(m.game, ev, m.human); line != "" {
			m.gameLog = append(m.gameLog, line)
		}
	}
	if n := len(m.gameLog); n > maxLogLines {
		m.gameLog = m.gameLog[n-maxLogLines:]
	}

	if m.human.Valid() {
		m.hand = m.game.Match.HandOf(m.human)
	}
	for c := range m.selected {
		if !domain.ContainsCard(m.hand, c) {
			delete(m.selected, c)
		}
	}
	if m.cursor >= len(m.hand) {
		m.cursor = max(len(m.hand)-1, 0)
	}
}

