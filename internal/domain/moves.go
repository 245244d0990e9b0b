package domain

import (
	"iter"
	"slices"
)

// GenerateMoves enumerates every legal response from hand to the active combination.
//
// With no active combination the only legal move is the 3 of Spades played alone, when hand holds it.
// Otherwise the sorted hand is scanned for combinations of the active type and size that beat it:
// same-rank sets are taken from the first adjacent window of each rank, straights from every window of
// five consecutive positions. The sequence is lazy and can be ranged over repeatedly; hand is not modified.
func GenerateMoves(hand []Card, active *Combination) iter.Seq[Combination] {
	return func(yield func(Combination) bool) {
		if active == nil {
			if ContainsCard(hand, ThreeOfSpades) {
				yield(MustClassify(ThreeOfSpades))
			}
			return
		}

		sorted := SortedCopy(hand)
		var candidates iter.Seq[Combination]
		switch active.Type {
		case Single:
			candidates = singles(sorted)
		case Pair:
			candidates = sameRankSets(sorted, 2)
		case Triple:
			candidates = sameRankSets(sorted, 3)
		case Quad:
			candidates = sameRankSets(sorted, 4)
		case Straight:
			candidates = straights(sorted)
		default:
			return
		}

		for combo := range candidates {
			if combo.CanBeat(active) && !yield(combo) {
				return
			}
		}
	}
}

// GenerateLeads enumerates every combination hand can lead onto a cleared board, in the same scan order
// as GenerateMoves: singles, pairs, triples, quads, then straights.
func GenerateLeads(hand []Card) iter.Seq[Combination] {
	return func(yield func(Combination) bool) {
		sorted := SortedCopy(hand)
		groups := []iter.Seq[Combination]{
			singles(sorted),
			sameRankSets(sorted, 2),
			sameRankSets(sorted, 3),
			sameRankSets(sorted, 4),
			straights(sorted),
		}
		for _, g := range groups {
			for combo := range g {
				if !yield(combo) {
					return
				}
			}
		}
	}
}

func singles(sorted []Card) iter.Seq[Combination] {
	return func(yield func(Combination) bool) {
		for _, c := range sorted {
			if !yield(MustClassify(c)) {
				return
			}
		}
	}
}

// sameRankSets yields the first run of size equal-rank adjacent cards for every rank that has one.
func sameRankSets(sorted []Card, size int) iter.Seq[Combination] {
	return func(yield func(Combination) bool) {
		for i := 0; i+size <= len(sorted); {
			window := sorted[i : i+size]
			if !allSameRank(window) {
				i++
				continue
			}
			combo, err := Classify(window)
			if err == nil && !yield(combo) {
				return
			}
			// Skip the rest of this rank.
			r := sorted[i].Rank
			for i < len(sorted) && sorted[i].Rank == r {
				i++
			}
		}
	}
}

func straights(sorted []Card) iter.Seq[Combination] {
	return func(yield func(Combination) bool) {
		for i := 0; i+StraightLength <= len(sorted); i++ {
			combo, err := Classify(sorted[i : i+StraightLength])
			if err != nil || combo.Type != Straight {
				continue
			}
			if !yield(combo) {
				return
			}
		}
	}
}

// CollectMoves drains a move sequence into a slice.
func CollectMoves(seq iter.Seq[Combination]) []Combination {
	return slices.Collect(seq)
}
