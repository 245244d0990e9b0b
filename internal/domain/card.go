package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Suit is a card suit. The declaration order is the game's suit order.
type Suit uint8

const (
	Spades Suit = iota
	Clubs
	Diamonds
	Hearts
)

// Suits lists every suit from lowest to highest.
var Suits = [...]Suit{Spades, Clubs, Diamonds, Hearts}

// Rank is a card rank in game order: 3 is the lowest rank, 2 the highest.
type Rank uint8

const (
	Three Rank = iota
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
	Two
)

// Ranks lists every rank from lowest to highest.
var Ranks = [...]Rank{Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace, Two}

var (
	rankLabels = [...]string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2"}
	suitLabels = [...]string{"♠", "♣", "♦", "♥"}
	suitNames  = [...]string{"spades", "clubs", "diamonds", "hearts"}
)

// Value is the face value used for rank arithmetic (3..10, J=11, Q=12, K=13, A=14, 2=15).
func (r Rank) Value() int { return int(r) + 3 }

// String returns the display label of the rank.
func (r Rank) String() string {
	if int(r) >= len(rankLabels) {
		return fmt.Sprintf("Rank(%d)", uint8(r))
	}
	return rankLabels[r]
}

// String returns the suit symbol.
func (s Suit) String() string {
	if int(s) >= len(suitLabels) {
		return fmt.Sprintf("Suit(%d)", uint8(s))
	}
	return suitLabels[s]
}

// Name returns the lower-case suit name, e.g. "spades".
func (s Suit) Name() string {
	if int(s) >= len(suitNames) {
		return s.String()
	}
	return suitNames[s]
}

// IsRed reports whether the suit is printed in red.
func (s Suit) IsRed() bool { return s == Diamonds || s == Hearts }

// Card is a single playing card. Cards compare by value.
type Card struct {
	Suit Suit
	Rank Rank
}

// ThreeOfSpades is the lowest card in the deck and the forced opening card.
var ThreeOfSpades = Card{Suit: Spades, Rank: Three}

// NewCard builds a card.
func NewCard(r Rank, s Suit) Card { return Card{Suit: s, Rank: r} }

// DisplayRank returns the rank label, e.g. "10" or "K".
func (c Card) DisplayRank() string { return c.Rank.String() }

// DisplaySuit returns the suit symbol.
func (c Card) DisplaySuit() string { return c.Suit.String() }

// String renders the card as rank followed by suit symbol, e.g. "7♥".
func (c Card) String() string { return c.DisplayRank() + c.DisplaySuit() }

// SortValue is the card's position in the total card order.
// The 3 of Spades is 0; every other card is Value*10+Suit.
func (c Card) SortValue() int {
	if c == ThreeOfSpades {
		return 0
	}
	return c.Rank.Value()*10 + int(c.Suit)
}

// Compare orders a and b by rank first and suit second.
func Compare(a, b Card) int {
	return cmp.Compare(a.SortValue(), b.SortValue())
}

// Less reports whether c ranks below other.
func (c Card) Less(other Card) bool { return Compare(c, other) < 0 }

// SortHand orders cards from lowest to highest in place.
func SortHand(cards []Card) {
	slices.SortFunc(cards, Compare)
}

// SortedCopy returns a sorted copy of cards.
func SortedCopy(cards []Card) []Card {
	out := slices.Clone(cards)
	SortHand(out)
	return out
}

// ContainsCard reports whether cards holds c.
func ContainsCard(cards []Card, c Card) bool {
	return slices.Contains(cards, c)
}

// RemoveCards removes the provided cards from a hand and returns the updated hand.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}

	removeCounts := make(map[Card]int, len(toRemove))
	for _, card := range toRemove {
		removeCounts[card]++
	}

	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if count, ok := removeCounts[card]; ok && count > 0 {
			removeCounts[card] = count - 1
			continue
		}
		updated = append(updated, card)
	}

	return updated
}

// ParseCard reads a card written as rank followed by a suit letter or symbol, e.g. "10H", "qs" or "7♦".
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, suit := range Suits {
		label, ok := strings.CutSuffix(s, suit.String())
		if !ok {
			label, ok = strings.CutSuffix(s, strings.ToUpper(suit.Name()[:1]))
		}
		if !ok {
			continue
		}
		for _, r := range Ranks {
			if r.String() == label {
				return Card{Suit: suit, Rank: r}, nil
			}
		}
		break
	}
	return Card{}, fmt.Errorf("unknown card %q", s)
}

// ParseCards reads a whitespace separated card list.
func ParseCards(s string) ([]Card, error) {
	var out []Card
	for _, tok := range strings.Fields(s) {
		c, err := ParseCard(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
