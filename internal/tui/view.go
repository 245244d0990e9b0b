package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tienlenmn/internal/app"
	"tienlenmn/internal/domain"
)

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	match := m.game.Match

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Tiến Lên Miền Nam · game %d", m.game.Seed)))
	b.WriteString("\n\n")
	b.WriteString(PaneStyle.Render(m.renderPlayers()))
	b.WriteString("\n")
	b.WriteString(m.renderBoard())
	b.WriteString("\n\n")

	if m.human.Valid() {
		b.WriteString(m.renderHand())
		b.WriteString("\n")
	}

	switch winner, ended := match.Winner(); {
	case ended && winner == m.human:
		b.WriteString(SuccessStyle.Render("You win! Press n for a new game."))
	case ended:
		b.WriteString(SuccessStyle.Render(fmt.Sprintf("%s wins. Press n for a new game.", m.game.Name(winner))))
	case m.errMsg != "":
		b.WriteString(ErrorStyle.Render(m.errMsg))
	case match.CurrentPlayer() == m.human:
		b.WriteString(TurnStyle.Render("Your turn."))
	default:
		b.WriteString(InfoStyle.Render(fmt.Sprintf("%s is thinking...", m.game.Name(match.CurrentPlayer()))))
	}
	b.WriteString("\n\n")

	if len(m.gameLog) > 0 {
		b.WriteString(InfoStyle.Render(strings.Join(m.gameLog, "\n")))
		b.WriteString("\n\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderPlayers() string {
	match := m.game.Match
	lines := make([]string, 0, domain.NumPlayers)
	for _, seat := range match.Seating().Order() {
		line := fmt.Sprintf("%-12s %2d cards", m.game.Name(seat), match.HandSize(seat))
		if seat == match.CurrentPlayer() {
			if _, ended := match.Winner(); !ended {
				lines = append(lines, TurnStyle.Render("▶ "+line))
				continue
			}
		}
		lines = append(lines, PlayerInfoStyle.Render("  "+line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderBoard() string {
	match := m.game.Match
	active := match.ActiveCombination()
	if active == nil {
		if match.Phase() == domain.PhaseOpen {
			return InfoStyle.Render(fmt.Sprintf("Board cleared. %s leads.", m.game.Name(match.CurrentPlayer())))
		}
		return InfoStyle.Render("Waiting for the 3♠ to open.")
	}
	by := ""
	if last := match.LastPlay(); last != nil {
		by = m.game.Name(last.Seat) + ": "
	}
	return fmt.Sprintf("%s%s  %s", by, renderCards(active.Cards), InfoStyle.Render(active.Describe()))
}

func (m *Model) renderHand() string {
	if len(m.hand) == 0 {
		return InfoStyle.Render("(no cards)")
	}
	parts := make([]string, len(m.hand))
	for i, c := range m.hand {
		style := cardStyle(c)
		if m.selected[c] {
			style = style.Inherit(SelectedStyle)
		}
		if i == m.cursor {
			style = style.Inherit(CursorStyle)
		}
		parts[i] = style.Render(c.String())
	}
	return strings.Join(parts, " ")
}

func cardStyle(c domain.Card) lipgloss.Style {
	if c.Suit.IsRed() {
		return RedCardStyle
	}
	return BlackCardStyle
}

func renderCards(cards []domain.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = cardStyle(c).Render(c.String())
	}
	return strings.Join(parts, " ")
}

// describeEvent renders an event as a log line from viewer's point of view.
func describeEvent(game *app.Game, ev app.Event, viewer domain.Seat) string {
	switch p := ev.Payload.(type) {
	case app.HandDealtPayload:
		if p.Seat != viewer {
			return ""
		}
		return fmt.Sprintf("You were dealt %d cards.", len(p.Hand))
	case app.GameStartedPayload:
		return fmt.Sprintf("%s holds the 3♠ and opens.", game.Name(p.FirstTurn))
	case app.CardPlayedPayload:
		return fmt.Sprintf("%s played %s.", game.Name(p.Seat), p.Combination.Describe())
	case app.TurnPassedPayload:
		return fmt.Sprintf("%s passed.", game.Name(p.Seat))
	case app.TrickResetPayload:
		return fmt.Sprintf("Everyone passed. %s leads.", game.Name(p.Leader))
	case app.GameEndedPayload:
		return fmt.Sprintf("%s is out of cards!", game.Name(p.Winner))
	default:
		return ""
	}
}
