package domain

import (
	"errors"
	"fmt"
)

// CombinationType represents the shape of a played set of cards.
type CombinationType int

const (
	Invalid CombinationType = iota
	Single
	Pair
	Triple
	Quad // "bomb"; no override beat rule
	Straight
)

func (t CombinationType) String() string {
	switch t {
	case Single:
		return "single"
	case Pair:
		return "pair"
	case Triple:
		return "triple"
	case Quad:
		return "quad"
	case Straight:
		return "straight"
	default:
		return "invalid"
	}
}

// StraightLength is the only accepted run length.
const StraightLength = 5

// ErrNotAValidCombination is returned when a card set matches none of the accepted shapes.
var ErrNotAValidCombination = errors.New("not a valid combination")

// Combination is a classified, legally shaped set of cards.
// The zero value is not a valid combination; build one with Classify.
type Combination struct {
	Type      CombinationType
	Cards     []Card // sorted ascending
	RankValue int
}

// Len returns the number of cards in the combination.
func (c Combination) Len() int { return len(c.Cards) }

// Highest returns the top card of the combination.
func (c Combination) Highest() Card { return c.Cards[len(c.Cards)-1] }

// Classify determines whether cards form a legal combination and, if so, its type and rank value.
// The input slice is not modified.
func Classify(cards []Card) (Combination, error) {
	n := len(cards)
	if n == 0 {
		return Combination{}, fmt.Errorf("%w: no cards", ErrNotAValidCombination)
	}
	if n > StraightLength {
		return Combination{}, fmt.Errorf("%w: %d cards", ErrNotAValidCombination, n)
	}

	sorted := SortedCopy(cards)
	for i := 1; i < n; i++ {
		if sorted[i] == sorted[i-1] {
			return Combination{}, fmt.Errorf("%w: duplicate card %s", ErrNotAValidCombination, sorted[i])
		}
	}

	combo := Combination{Cards: sorted}
	switch {
	case n == 1:
		combo.Type = Single
	case n == 2 && allSameRank(sorted):
		combo.Type = Pair
	case n == 3 && allSameRank(sorted):
		combo.Type = Triple
	case n == 4 && allSameRank(sorted):
		combo.Type = Quad
	case n == StraightLength && isStraight(sorted):
		combo.Type = Straight
	default:
		return Combination{}, fmt.Errorf("%w: %s", ErrNotAValidCombination, FormatCards(sorted))
	}
	combo.RankValue = rankValue(combo.Type, sorted)
	return combo, nil
}

// MustClassify is Classify for card sets known to be valid. It panics otherwise.
func MustClassify(cards ...Card) Combination {
	combo, err := Classify(cards)
	if err != nil {
		panic(err)
	}
	return combo
}

// CanBeat reports whether c beats other. Any combination beats nil (an open board).
// Otherwise both must share type and size and c must have the higher rank value.
func (c Combination) CanBeat(other *Combination) bool {
	if other == nil {
		return true
	}
	if c.Type != other.Type || c.Len() != other.Len() {
		return false
	}
	return c.RankValue > other.RankValue
}

// Describe renders the combination for humans, e.g. "pair of 7s".
func (c Combination) Describe() string {
	if len(c.Cards) == 0 {
		return "nothing"
	}
	first := c.Cards[0]
	switch c.Type {
	case Single:
		return fmt.Sprintf("%s of %s", first.DisplayRank(), first.Suit.Name())
	case Pair:
		return fmt.Sprintf("pair of %ss", first.DisplayRank())
	case Triple:
		return fmt.Sprintf("triple %ss", first.DisplayRank())
	case Quad:
		return fmt.Sprintf("quad %ss", first.DisplayRank())
	case Straight:
		return fmt.Sprintf("straight %s-%s", first.DisplayRank(), c.Highest().DisplayRank())
	default:
		return fmt.Sprintf("%d cards", len(c.Cards))
	}
}

func (c Combination) String() string {
	return fmt.Sprintf("%s %s", c.Type, FormatCards(c.Cards))
}

// FormatCards renders cards as a space separated list.
func FormatCards(cards []Card) string {
	out := make([]byte, 0, len(cards)*4)
	for i, c := range cards {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, c.String()...)
	}
	return string(out)
}

// rankValue expects sorted cards of an already classified shape.
func rankValue(t CombinationType, cards []Card) int {
	switch t {
	case Single:
		return cards[0].SortValue()
	case Pair:
		// Pairs of the same rank are split by their higher suit.
		return cards[0].Rank.Value()*100 + int(max(cards[0].Suit, cards[1].Suit))
	case Triple:
		return cards[0].Rank.Value() * 1000
	case Quad:
		return cards[0].Rank.Value() * 10000
	case Straight:
		return cards[len(cards)-1].Rank.Value() * 100
	default:
		return 0
	}
}

func allSameRank(cards []Card) bool {
	if len(cards) == 0 {
		return false
	}
	r := cards[0].Rank
	for _, c := range cards {
		if c.Rank != r {
			return false
		}
	}
	return true
}

// isStraight expects cards sorted ascending. A 2 never continues an A-high run.
func isStraight(cards []Card) bool {
	for i, c := range cards {
		if c.Rank == Two {
			return false
		}
		if i > 0 && c.Rank != cards[i-1].Rank+1 {
			return false
		}
	}
	return true
}
