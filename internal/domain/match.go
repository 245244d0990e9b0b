package domain

import (
	"errors"
	"fmt"
	"iter"
	"math/rand"
	"slices"
)

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	// PhaseAwaitingOpen is the start of a match: only the 3 of Spades holder may act, and only with that card.
	PhaseAwaitingOpen Phase = "awaiting_open"
	// PhaseOpen is a cleared board after a trick reset: the current player leads any valid combination.
	PhaseOpen Phase = "open"
	// PhaseInTrick means a combination is active and must be beaten or passed.
	PhaseInTrick Phase = "in_trick"
	// PhaseEnded is the state after a player has emptied their hand.
	PhaseEnded Phase = "ended"
)

// ErrIllegalMove is returned for well-shaped plays or passes that break turn, beat or opening rules.
var ErrIllegalMove = errors.New("illegal move")

var (
	ErrMatchOver                 = fmt.Errorf("%w: match is over", ErrIllegalMove)
	ErrUnknownSeat               = fmt.Errorf("%w: unknown seat", ErrIllegalMove)
	ErrNotYourTurn               = fmt.Errorf("%w: not your turn", ErrIllegalMove)
	ErrCardsNotHeld              = fmt.Errorf("%w: cards not in hand", ErrIllegalMove)
	ErrMustOpenWithThreeOfSpades = fmt.Errorf("%w: the first play must be the 3 of spades alone", ErrIllegalMove)
	ErrDoesNotBeat               = fmt.Errorf("%w: does not beat the active combination", ErrIllegalMove)
	ErrCannotPassOpenBoard       = fmt.Errorf("%w: cannot pass on an open board", ErrIllegalMove)
)

// ErrInvalidDeal is returned when pre-built hands cannot start a match.
var ErrInvalidDeal = errors.New("invalid deal")

// Play is an accepted combination and the seat that played it.
type Play struct {
	Seat        Seat
	Combination Combination
}

// Match is the turn and trick state machine for one game.
// A Match is not safe for concurrent use; callers serialize operations.
type Match struct {
	seating Seating
	hands   [NumPlayers][]Card

	phase   Phase
	active  *Combination
	current Seat
	passes  int
	winner  Seat

	lastPlay *Play
	plays    int
	resets   int
}

// NewMatch shuffles a full deck with the given seed, deals it and seats the 3 of Spades holder first.
// The same seed always produces the same match.
func NewMatch(seed int64) *Match {
	deck := NewDeck()
	ShuffleDeck(deck, rand.New(rand.NewSource(seed)))
	m, err := NewMatchFromHands(Deal(deck))
	if err != nil {
		// A full deck always holds the 3 of Spades exactly once.
		panic(err)
	}
	return m
}

// NewMatchFromHands starts a match from pre-built hands. Hands must be non-empty and disjoint,
// and exactly one of them must hold the 3 of Spades.
func NewMatchFromHands(hands [NumPlayers][]Card) (*Match, error) {
	seen := make(map[Card]Seat, DeckSize)
	m := &Match{
		seating: CounterClockwise(NumPlayers),
		phase:   PhaseAwaitingOpen,
		winner:  NoSeat,
	}
	for i, hand := range hands {
		if len(hand) == 0 {
			return nil, fmt.Errorf("%w: seat %d has no cards", ErrInvalidDeal, i)
		}
		for _, c := range hand {
			if c.Rank > Two || c.Suit > Hearts {
				return nil, fmt.Errorf("%w: unknown card %v", ErrInvalidDeal, c)
			}
			if owner, dup := seen[c]; dup {
				return nil, fmt.Errorf("%w: %s dealt to seat %d and seat %d", ErrInvalidDeal, c, owner, i)
			}
			seen[c] = Seat(i)
		}
		m.hands[i] = SortedCopy(hand)
	}

	opener, ok := OpeningSeat(m.hands)
	if !ok {
		return nil, fmt.Errorf("%w: nobody holds %s", ErrInvalidDeal, ThreeOfSpades)
	}
	m.current = opener
	return m, nil
}

// Phase returns the current lifecycle stage.
func (m *Match) Phase() Phase { return m.phase }

// CurrentPlayer returns the seat whose turn it is.
func (m *Match) CurrentPlayer() Seat { return m.current }

// ActiveCombination returns the combination to beat, or nil when the board is open.
func (m *Match) ActiveCombination() *Combination {
	if m.active == nil {
		return nil
	}
	c := *m.active
	c.Cards = slices.Clone(c.Cards)
	return &c
}

// HandOf returns a sorted copy of the seat's hand.
func (m *Match) HandOf(seat Seat) []Card {
	if !seat.Valid() {
		return nil
	}
	return slices.Clone(m.hands[seat])
}

// HandSize returns the number of cards the seat still holds.
func (m *Match) HandSize(seat Seat) int {
	if !seat.Valid() {
		return 0
	}
	return len(m.hands[seat])
}

// Winner returns the seat that emptied its hand, if any.
func (m *Match) Winner() (Seat, bool) {
	return m.winner, m.winner != NoSeat
}

// Passes returns the number of consecutive passes since the last accepted play.
func (m *Match) Passes() int { return m.passes }

// LastPlay returns the most recent accepted play, or nil before the opening play.
func (m *Match) LastPlay() *Play {
	if m.lastPlay == nil {
		return nil
	}
	p := *m.lastPlay
	p.Combination.Cards = slices.Clone(p.Combination.Cards)
	return &p
}

// Plays returns the number of accepted plays so far.
func (m *Match) Plays() int { return m.plays }

// TrickResets returns how many times every other player passed and the board was cleared.
func (m *Match) TrickResets() int { return m.resets }

// Seating returns the table's turn order.
func (m *Match) Seating() Seating { return m.seating }

// LegalMoves enumerates every combination seat may play now. It is empty unless it is seat's turn.
func (m *Match) LegalMoves(seat Seat) iter.Seq[Combination] {
	if m.phase == PhaseEnded || seat != m.current {
		return func(func(Combination) bool) {}
	}
	hand := slices.Clone(m.hands[seat])
	switch m.phase {
	case PhaseOpen:
		return GenerateLeads(hand)
	case PhaseInTrick:
		return GenerateMoves(hand, m.ActiveCombination())
	default:
		return GenerateMoves(hand, nil)
	}
}

// CanPass reports whether seat may pass now.
func (m *Match) CanPass(seat Seat) bool {
	return m.phase == PhaseInTrick && seat == m.current
}

// AcceptPlay validates and applies a play. A rejected play leaves the match unchanged.
func (m *Match) AcceptPlay(seat Seat, cards []Card) error {
	if err := m.checkTurn(seat); err != nil {
		return err
	}
	combo, err := Classify(cards)
	if err != nil {
		return err
	}
	for _, c := range combo.Cards {
		if !ContainsCard(m.hands[seat], c) {
			return fmt.Errorf("%w: %s", ErrCardsNotHeld, c)
		}
	}

	switch m.phase {
	case PhaseAwaitingOpen:
		if combo.Type != Single || combo.Cards[0] != ThreeOfSpades {
			return ErrMustOpenWithThreeOfSpades
		}
	case PhaseInTrick:
		if !combo.CanBeat(m.active) {
			return fmt.Errorf("%w: %s vs %s", ErrDoesNotBeat, combo.Describe(), m.active.Describe())
		}
	}

	m.hands[seat] = RemoveCards(m.hands[seat], combo.Cards)
	m.active = &combo
	m.lastPlay = &Play{Seat: seat, Combination: combo}
	m.passes = 0
	m.plays++
	m.phase = PhaseInTrick

	if len(m.hands[seat]) == 0 {
		m.winner = seat
		m.phase = PhaseEnded
		return nil
	}

	m.current = m.seating.Next(seat)
	return nil
}

// PassTurn records a pass. When every other player has passed in a row the board is cleared
// and the player who made the last accepted play leads.
func (m *Match) PassTurn(seat Seat) error {
	if err := m.checkTurn(seat); err != nil {
		return err
	}
	if m.phase != PhaseInTrick {
		return ErrCannotPassOpenBoard
	}

	m.passes++
	m.current = m.seating.Next(seat)

	if m.passes >= m.seating.Len()-1 {
		m.active = nil
		m.passes = 0
		m.phase = PhaseOpen
		m.resets++
		if m.lastPlay != nil {
			m.current = m.lastPlay.Seat
		}
	}
	return nil
}

func (m *Match) checkTurn(seat Seat) error {
	if m.phase == PhaseEnded {
		return ErrMatchOver
	}
	if !seat.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownSeat, int(seat))
	}
	if seat != m.current {
		return fmt.Errorf("%w: %s to act", ErrNotYourTurn, m.current)
	}
	return nil
}

// View is a read-only snapshot of the match from one seat's perspective.
type View struct {
	Seat      Seat
	Phase     Phase
	Hand      []Card
	Active    *Combination
	HandSizes [NumPlayers]int
	CanPass   bool
	Moves     iter.Seq[Combination]
}

// ViewFor builds the snapshot handed to a move-selection policy.
func (m *Match) ViewFor(seat Seat) View {
	v := View{
		Seat:    seat,
		Phase:   m.phase,
		Hand:    m.HandOf(seat),
		Active:  m.ActiveCombination(),
		CanPass: m.CanPass(seat),
		Moves:   m.LegalMoves(seat),
	}
	for i := range v.HandSizes {
		v.HandSizes[i] = len(m.hands[i])
	}
	return v
}
