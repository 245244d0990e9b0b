package domain

import (
	"errors"
	"slices"
	"testing"
)

func newTestMatch(t *testing.T, seat0, seat1, seat2, seat3 string) *Match {
	t.Helper()
	m, err := NewMatchFromHands([NumPlayers][]Card{
		parseCards(t, seat0),
		parseCards(t, seat1),
		parseCards(t, seat2),
		parseCards(t, seat3),
	})
	if err != nil {
		t.Fatalf("NewMatchFromHands error: %v", err)
	}
	return m
}

func mustPlay(t *testing.T, m *Match, seat Seat, cards string) {
	t.Helper()
	if err := m.AcceptPlay(seat, parseCards(t, cards)); err != nil {
		t.Fatalf("AcceptPlay(%d, %s) error: %v", seat, cards, err)
	}
}

func mustPass(t *testing.T, m *Match, seat Seat) {
	t.Helper()
	if err := m.PassTurn(seat); err != nil {
		t.Fatalf("PassTurn(%d) error: %v", seat, err)
	}
}

func TestNewMatchPartitionsDeck(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		m := NewMatch(seed)

		seen := make(map[Card]bool)
		for s := Seat(0); s < NumPlayers; s++ {
			hand := m.HandOf(s)
			if len(hand) != HandSize {
				t.Fatalf("seed %d: seat %d has %d cards", seed, s, len(hand))
			}
			for _, c := range hand {
				if seen[c] {
					t.Fatalf("seed %d: %s dealt twice", seed, c)
				}
				seen[c] = true
			}
		}
		if len(seen) != DeckSize {
			t.Fatalf("seed %d: %d cards dealt", seed, len(seen))
		}

		opener := m.CurrentPlayer()
		if !ContainsCard(m.HandOf(opener), ThreeOfSpades) {
			t.Fatalf("seed %d: opener %d does not hold 3S", seed, opener)
		}
		if m.Phase() != PhaseAwaitingOpen || m.ActiveCombination() != nil {
			t.Fatalf("seed %d: fresh match in phase %s", seed, m.Phase())
		}
	}
}

func TestNewMatchDeterministic(t *testing.T) {
	a, b := NewMatch(42), NewMatch(42)
	for s := Seat(0); s < NumPlayers; s++ {
		if !slices.Equal(a.HandOf(s), b.HandOf(s)) {
			t.Fatalf("seat %d hands differ for the same seed", s)
		}
	}
	if a.CurrentPlayer() != b.CurrentPlayer() {
		t.Fatalf("openers differ for the same seed")
	}
}

func TestNewMatchFromHandsRejects(t *testing.T) {
	tests := []struct {
		name  string
		hands [NumPlayers]string
	}{
		{name: "shared card", hands: [NumPlayers]string{"3S 4C", "4C", "5C", "6C"}},
		{name: "no three of spades", hands: [NumPlayers]string{"3C", "4C", "5C", "6C"}},
		{name: "empty hand", hands: [NumPlayers]string{"3S", "", "5C", "6C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hands [NumPlayers][]Card
			for i, h := range tt.hands {
				hands[i] = parseCards(t, h)
			}
			if _, err := NewMatchFromHands(hands); !errors.Is(err, ErrInvalidDeal) {
				t.Fatalf("error = %v, want ErrInvalidDeal", err)
			}
		})
	}
}

func TestOpeningMoves(t *testing.T) {
	m := newTestMatch(t, "4S 9H", "5S 9D", "3S 6S KH", "7S 8S")

	if m.CurrentPlayer() != 2 {
		t.Fatalf("opener = %d, want 2", m.CurrentPlayer())
	}
	for _, s := range []Seat{0, 1, 3} {
		if moves := CollectMoves(m.LegalMoves(s)); len(moves) != 0 {
			t.Fatalf("seat %d legal moves = %v, want none", s, moves)
		}
	}
	moves := CollectMoves(m.LegalMoves(2))
	if len(moves) != 1 || moves[0].Type != Single || moves[0].Cards[0] != ThreeOfSpades {
		t.Fatalf("opener legal moves = %v, want only the 3 of spades", moves)
	}
}

func TestAcceptPlayRejections(t *testing.T) {
	m := newTestMatch(t, "4S 9H", "5S 9D", "3S 3H 6S KH", "7S 8S")

	tests := []struct {
		name  string
		seat  Seat
		cards string
		want  error
	}{
		{name: "not your turn", seat: 0, cards: "4S", want: ErrNotYourTurn},
		{name: "unknown seat", seat: 7, cards: "4S", want: ErrUnknownSeat},
		{name: "must open with 3S", seat: 2, cards: "6S", want: ErrMustOpenWithThreeOfSpades},
		{name: "3S in a pair is not an opening", seat: 2, cards: "3S 3H", want: ErrMustOpenWithThreeOfSpades},
		{name: "cards not held", seat: 2, cards: "2H", want: ErrCardsNotHeld},
		{name: "invalid shape", seat: 2, cards: "3S 6S", want: ErrNotAValidCombination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.AcceptPlay(tt.seat, parseCards(t, tt.cards))
			if !errors.Is(err, tt.want) {
				t.Fatalf("AcceptPlay error = %v, want %v", err, tt.want)
			}
		})
	}

	if err := m.PassTurn(2); !errors.Is(err, ErrCannotPassOpenBoard) {
		t.Fatalf("PassTurn before opening error = %v, want ErrCannotPassOpenBoard", err)
	}
	if err := m.AcceptPlay(2, parseCards(t, "6S")); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("opening rule error should be an ErrIllegalMove, got %v", err)
	}
	if err := m.AcceptPlay(2, parseCards(t, "3S 6S")); errors.Is(err, ErrIllegalMove) {
		t.Fatalf("shape error should not be an ErrIllegalMove, got %v", err)
	}
}

func TestRejectedPlayLeavesStateUnchanged(t *testing.T) {
	m := newTestMatch(t, "4S 9H", "5S 9D", "3S 6S KH", "7S 8S")
	mustPlay(t, m, 2, "3S")

	snapshot := func() (Seat, int, Phase, []Card, string) {
		return m.CurrentPlayer(), m.Passes(), m.Phase(), m.HandOf(1), FormatCards(m.ActiveCombination().Cards)
	}
	seat0, passes0, phase0, hand0, active0 := snapshot()

	var errs []error
	for range 2 {
		errs = append(errs, m.AcceptPlay(1, parseCards(t, "5S 9D")))
	}
	if errs[0] == nil || errs[0].Error() != errs[1].Error() {
		t.Fatalf("repeated rejection errors = %v", errs)
	}

	seat1, passes1, phase1, hand1, active1 := snapshot()
	if seat0 != seat1 || passes0 != passes1 || phase0 != phase1 || !slices.Equal(hand0, hand1) || active0 != active1 {
		t.Fatalf("state changed after rejected play")
	}
}

func TestPassTurnRejections(t *testing.T) {
	m := newTestMatch(t, "4S 9H", "5S 9D", "3S 6S KH", "7S 8S")
	mustPlay(t, m, 2, "3S")
	if m.CurrentPlayer() != 1 {
		t.Fatalf("current player = %d, want 1", m.CurrentPlayer())
	}

	snapshot := func() (Seat, int, Phase, string) {
		return m.CurrentPlayer(), m.Passes(), m.Phase(), FormatCards(m.ActiveCombination().Cards)
	}
	seat0, passes0, phase0, active0 := snapshot()

	tests := []struct {
		name string
		seat Seat
		want error
	}{
		{name: "not your turn", seat: 0, want: ErrNotYourTurn},
		{name: "player who just played", seat: 2, want: ErrNotYourTurn},
		{name: "unknown seat", seat: 7, want: ErrUnknownSeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.PassTurn(tt.seat)
			if !errors.Is(err, tt.want) {
				t.Fatalf("PassTurn error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrIllegalMove) {
				t.Fatalf("PassTurn error should be an ErrIllegalMove, got %v", err)
			}
		})
	}

	seat1, passes1, phase1, active1 := snapshot()
	if seat0 != seat1 || passes0 != passes1 || phase0 != phase1 || active0 != active1 {
		t.Fatalf("state changed after rejected pass")
	}
}

func TestPlayAdvancesCounterClockwise(t *testing.T) {
	m := newTestMatch(t, "4S 9H", "5S 9D", "3S 6S KH", "7S 8S")

	mustPlay(t, m, 2, "3S")
	if m.CurrentPlayer() != 1 {
		t.Fatalf("current = %d, want 1", m.CurrentPlayer())
	}
	if m.Phase() != PhaseInTrick {
		t.Fatalf("phase = %s, want in_trick", m.Phase())
	}
	if last := m.LastPlay(); last == nil || last.Seat != 2 {
		t.Fatalf("last play = %+v, want seat 2", last)
	}

	mustPlay(t, m, 1, "5S")
	if m.CurrentPlayer() != 0 {
		t.Fatalf("current = %d, want 0", m.CurrentPlayer())
	}
	if err := m.AcceptPlay(0, parseCards(t, "4S")); !errors.Is(err, ErrDoesNotBeat) {
		t.Fatalf("lower single error = %v, want ErrDoesNotBeat", err)
	}
	mustPlay(t, m, 0, "9H")
	if m.CurrentPlayer() != 3 {
		t.Fatalf("current = %d, want 3", m.CurrentPlayer())
	}
	if m.Plays() != 3 {
		t.Fatalf("plays = %d, want 3", m.Plays())
	}
}

func TestPassesResetTrick(t *testing.T) {
	m := newTestMatch(t, "4S 9H", "5S 9D", "3S 6S KH", "7S 8S")
	mustPlay(t, m, 2, "3S")

	mustPass(t, m, 1)
	mustPass(t, m, 0)
	if m.Passes() != 2 || m.ActiveCombination() == nil {
		t.Fatalf("trick reset too early: passes=%d", m.Passes())
	}
	mustPass(t, m, 3)

	if m.ActiveCombination() != nil {
		t.Fatalf("active combination not cleared after every other player passed")
	}
	if m.Passes() != 0 {
		t.Fatalf("passes = %d, want 0", m.Passes())
	}
	if m.Phase() != PhaseOpen {
		t.Fatalf("phase = %s, want open", m.Phase())
	}
	if m.CurrentPlayer() != 2 {
		t.Fatalf("leader = %d, want last player 2", m.CurrentPlayer())
	}
	if m.TrickResets() != 1 {
		t.Fatalf("resets = %d, want 1", m.TrickResets())
	}

	if err := m.PassTurn(2); !errors.Is(err, ErrCannotPassOpenBoard) {
		t.Fatalf("leader pass error = %v, want ErrCannotPassOpenBoard", err)
	}
	leads := CollectMoves(m.LegalMoves(2))
	if len(leads) != 2 {
		t.Fatalf("leads = %v, want 6S and KH", leads)
	}

	// Any valid combination may lead an open board.
	mustPlay(t, m, 2, "6S")
	if m.Phase() != PhaseInTrick {
		t.Fatalf("phase = %s, want in_trick", m.Phase())
	}
}

func TestPassResetsCountAfterPlay(t *testing.T) {
	m := newTestMatch(t, "4S 9H", "5S 9D", "3S 6S KH", "7S 8S")
	mustPlay(t, m, 2, "3S")
	mustPass(t, m, 1)
	mustPlay(t, m, 0, "4S")
	if m.Passes() != 0 {
		t.Fatalf("passes = %d after a play, want 0", m.Passes())
	}
}

func TestWinEndsMatch(t *testing.T) {
	m := newTestMatch(t, "4S 9H", "5S 9D", "3S 6S KH", "7S")
	mustPlay(t, m, 2, "3S")
	mustPass(t, m, 1)
	mustPass(t, m, 0)
	mustPlay(t, m, 3, "7S")

	winner, ok := m.Winner()
	if !ok || winner != 3 {
		t.Fatalf("winner = %d, %v; want 3", winner, ok)
	}
	if m.Phase() != PhaseEnded {
		t.Fatalf("phase = %s, want ended", m.Phase())
	}

	current := m.CurrentPlayer()
	if err := m.AcceptPlay(current, parseCards(t, "9H")); !errors.Is(err, ErrMatchOver) {
		t.Fatalf("play after win error = %v, want ErrMatchOver", err)
	}
	if err := m.PassTurn(current); !errors.Is(err, ErrMatchOver) {
		t.Fatalf("pass after win error = %v, want ErrMatchOver", err)
	}
	if m.CurrentPlayer() != current {
		t.Fatalf("turn advanced after the match ended")
	}
	for s := Seat(0); s < NumPlayers; s++ {
		if moves := CollectMoves(m.LegalMoves(s)); len(moves) != 0 {
			t.Fatalf("seat %d has moves after the match ended", s)
		}
	}
}

func TestPairScenario(t *testing.T) {
	m := newTestMatch(t, "7C 7D", "7S 7H", "3S 4S 4H KH", "5S 5H")
	mustPlay(t, m, 2, "3S")
	mustPass(t, m, 1)
	mustPass(t, m, 0)
	mustPass(t, m, 3)
	mustPlay(t, m, 2, "4S 4H")
	mustPass(t, m, 1)
	mustPlay(t, m, 0, "7C 7D")
	mustPass(t, m, 3)
	mustPass(t, m, 2)

	moves := CollectMoves(m.LegalMoves(1))
	if len(moves) != 1 || moves[0].RankValue <= 702 {
		t.Fatalf("seat 1 moves = %v, want the higher pair of 7s", moves)
	}
	mustPlay(t, m, 1, "7S 7H")
	if winner, _ := m.Winner(); winner != 1 {
		t.Fatalf("winner = %d, want 1", winner)
	}
}

func TestViewFor(t *testing.T) {
	m := newTestMatch(t, "4S 9H", "5S 9D", "3S 6S KH", "7S 8S")
	v := m.ViewFor(2)
	if v.Seat != 2 || v.Phase != PhaseAwaitingOpen || v.CanPass {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.HandSizes != [NumPlayers]int{2, 2, 3, 2} {
		t.Fatalf("hand sizes = %v", v.HandSizes)
	}
	if moves := CollectMoves(v.Moves); len(moves) != 1 {
		t.Fatalf("view moves = %v", moves)
	}

	v.Hand[0] = NewCard(Two, Hearts)
	if m.HandOf(2)[0] != ThreeOfSpades {
		t.Fatalf("view shares the hand slice with the match")
	}
}
