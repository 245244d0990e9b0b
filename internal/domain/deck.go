package domain

import "math/rand"

// NumPlayers is the number of seats at a table.
const NumPlayers = 4

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// HandSize is the number of cards dealt to each seat.
const HandSize = DeckSize / NumPlayers

// NewDeck returns a sorted 52-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, r := range Ranks {
		for _, s := range Suits {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// ShuffleDeck shuffles deck in place with rng.
func ShuffleDeck(deck []Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

// Deal distributes deck round-robin, card i going to seat i mod NumPlayers. Each hand is sorted.
func Deal(deck []Card) [NumPlayers][]Card {
	var hands [NumPlayers][]Card
	for i := range hands {
		hands[i] = make([]Card, 0, (len(deck)+NumPlayers-1)/NumPlayers)
	}
	for i, c := range deck {
		hands[i%NumPlayers] = append(hands[i%NumPlayers], c)
	}
	for i := range hands {
		SortHand(hands[i])
	}
	return hands
}

// OpeningSeat returns the seat holding the 3 of Spades.
func OpeningSeat(hands [NumPlayers][]Card) (Seat, bool) {
	for i, hand := range hands {
		if ContainsCard(hand, ThreeOfSpades) {
			return Seat(i), true
		}
	}
	return NoSeat, false
}
