package tui

import (
	"io"
	"math/rand"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienlenmn/internal/app"
	"tienlenmn/internal/config"
	"tienlenmn/internal/domain"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testConfig(human domain.Seat) *config.GameConfig {
	cfg := config.Default()
	cfg.BotThinkDelay = 0
	cfg.HumanSeat = human
	cfg.Seed = 11
	return cfg
}

func newTestModel(t *testing.T, human domain.Seat) *Model {
	t.Helper()
	m, err := New(testConfig(human), WithLogger(quietLogger()), WithRand(rand.New(rand.NewSource(1))))
	require.NoError(t, err)
	return m
}

// withScriptedGame replaces the dealt game with small known hands; seat 0 opens.
func withScriptedGame(t *testing.T, m *Model) {
	t.Helper()
	var hands [domain.NumPlayers][]domain.Card
	for i, s := range []string{"3S 6S KH", "4S 9D", "5S 9H", "7S 8S"} {
		cards, err := domain.ParseCards(s)
		require.NoError(t, err)
		hands[i] = cards
	}
	match, err := domain.NewMatchFromHands(hands)
	require.NoError(t, err)
	require.NoError(t, m.reset(&app.Game{Match: match, Names: m.cfg.Names(), Seed: 1}, nil))
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs bot turns until the model stops scheduling them.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 1000, "bots never handed the turn back")
		_, cmd = m.Update(cmd())
	}
}

func TestRejectedPlayKeepsSelection(t *testing.T) {
	m := newTestModel(t, 0)
	withScriptedGame(t, m)
	assert.Contains(t, m.View(), "Your turn")

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	press(m, tea.KeyMsg{Type: tea.KeySpace})
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Contains(t, m.errMsg, "3 of spades")
	assert.True(t, m.selected[domain.NewCard(domain.Six, domain.Spades)])
	assert.Len(t, m.hand, 3)
	assert.Contains(t, m.View(), "3 of spades")

	press(m, runes("p"))
	assert.Contains(t, m.errMsg, "cannot pass")
}

func TestPlayPassAndWin(t *testing.T) {
	m := newTestModel(t, 0)
	withScriptedGame(t, m)

	press(m, tea.KeyMsg{Type: tea.KeySpace})
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Len(t, m.hand, 2)
	assert.Empty(t, m.selected)
	assert.Empty(t, m.errMsg)

	drain(t, m, cmd)
	require.Equal(t, domain.Seat(0), m.game.Match.CurrentPlayer())
	assert.Contains(t, m.gameLog, "Player 2 played 9 of hearts.")
	assert.Contains(t, m.gameLog, "Player 1 passed.")

	drain(t, m, press(m, runes("p")))
	winner, ended := m.game.Match.Winner()
	require.True(t, ended)
	assert.Equal(t, domain.Seat(2), winner)
	assert.Contains(t, m.View(), "Player 2 wins")

	assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyEnter}))

	gen := m.gen
	drain(t, m, press(m, runes("n")))
	assert.Equal(t, gen+1, m.gen)
	_, ended = m.game.Match.Winner()
	assert.False(t, ended)
	assert.Equal(t, domain.Seat(0), m.game.Match.CurrentPlayer())
	assert.Len(t, m.hand, domain.HandSize)
}

func TestActingOutOfTurn(t *testing.T) {
	m := newTestModel(t, 0)
	withScriptedGame(t, m)

	press(m, tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
	require.Equal(t, domain.Seat(3), m.game.Match.CurrentPlayer())

	reason, blocked := m.humanTurnBlocker()
	assert.True(t, blocked)
	assert.Equal(t, "wait for Player 3", reason)
	assert.Empty(t, m.errMsg)

	plays := m.game.Match.Plays()
	assert.Nil(t, press(m, runes("p")))
	assert.Equal(t, "wait for Player 3", m.errMsg)
	assert.Equal(t, plays, m.game.Match.Plays())
	assert.Equal(t, domain.Seat(3), m.game.Match.CurrentPlayer())
}

func TestStaleBotMessageIgnored(t *testing.T) {
	m := newTestModel(t, 0)
	withScriptedGame(t, m)

	_, cmd := m.Update(botReadyMsg{gen: m.gen - 1})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.game.Match.Plays())
}

func TestCursorStaysInHand(t *testing.T) {
	m := newTestModel(t, 0)
	withScriptedGame(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.cursor)
	for range 10 {
		press(m, tea.KeyMsg{Type: tea.KeyRight})
	}
	assert.Equal(t, 2, m.cursor)

	press(m, tea.KeyMsg{Type: tea.KeySpace})
	press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Empty(t, m.selected)
}

func TestWatchAllBots(t *testing.T) {
	m := newTestModel(t, domain.NoSeat)
	drain(t, m, m.Init())

	_, ended := m.game.Match.Winner()
	assert.True(t, ended)
	assert.NotContains(t, m.View(), "Your turn")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, 0)
	cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
	assert.Error(t, m.ctx.Err())
}
