package handrank

import (
	"fmt"
	"math"
	"sort"

	"holdem-engine/pkg/deck"
)

// Evaluation is the result of ranking a five-card hand.
// Strength totally orders hands: first by category, then by the
// category-specific deciding ranks. Two evaluations compare with a single >.
type Evaluation struct {
	Category Category  `json:"category"`
	Cards    deck.Hand `json:"cards"`
	Strength int       `json:"strength"`
}

// incomplete is returned when fewer than five cards are available.
// Callers must treat it as "no showdown-comparable hand yet."
func incomplete() *Evaluation {
	return &Evaluation{Category: Incomplete}
}

// EvaluateFive ranks exactly five cards
func EvaluateFive(cards deck.Hand) (*Evaluation, error) {
	if len(cards) != 5 {
		return nil, fmt.Errorf("expected 5 cards, got %d", len(cards))
	}

	sorted := cards.Clone()
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})

	counts := make(map[int]int)
	flush := true
	for i, card := range sorted {
		counts[card.Rank]++
		if i > 0 && card.Suit != sorted[0].Suit {
			flush = false
		}
	}

	var quads, trips []int
	pairs := make([]int, 0, 2)
	for rank, count := range counts {
		switch count {
		case 4:
			quads = append(quads, rank)
		case 3:
			trips = append(trips, rank)
		case 2:
			pairs = append(pairs, rank)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(pairs)))

	straightHigh := straightHighCard(sorted, counts)

	category, ranks := categorize(sorted, quads, trips, pairs, flush, straightHigh)

	return &Evaluation{
		Category: category,
		Cards:    orderBySignificance(sorted, counts, straightHigh),
		Strength: calculateStrength(category, ranks),
	}, nil
}

// straightHighCard returns the high card of the straight, or 0.
// The wheel (A-2-3-4-5) is the one sequence where the ace plays low; its
// high card is 5.
func straightHighCard(sorted deck.Hand, counts map[int]int) int {
	if len(counts) != 5 {
		return 0
	}

	if sorted[0].Rank-sorted[4].Rank == 4 {
		return sorted[0].Rank
	}

	// wheel: A,5,4,3,2
	if sorted[0].Rank == deck.Ace && sorted[1].Rank == 5 && sorted[4].Rank == 2 {
		return 5
	}

	return 0
}

func categorize(sorted deck.Hand, quads, trips, pairs []int, flush bool, straightHigh int) (Category, []int) {
	switch {
	case flush && straightHigh == deck.Ace:
		return RoyalFlush, nil
	case flush && straightHigh > 0:
		return StraightFlush, []int{straightHigh}
	case len(quads) > 0:
		return FourOfAKind, []int{quads[0], kickers(sorted, quads[0])[0]}
	case len(trips) > 0 && len(pairs) > 0:
		return FullHouse, []int{trips[0], pairs[0]}
	case flush:
		return Flush, allRanks(sorted)
	case straightHigh > 0:
		return Straight, []int{straightHigh}
	case len(trips) > 0:
		return ThreeOfAKind, append([]int{trips[0]}, kickers(sorted, trips[0])...)
	case len(pairs) >= 2:
		return TwoPair, []int{pairs[0], pairs[1], kickers(sorted, pairs[0], pairs[1])[0]}
	case len(pairs) == 1:
		return OnePair, append([]int{pairs[0]}, kickers(sorted, pairs[0])...)
	default:
		return HighCard, allRanks(sorted)
	}
}

func allRanks(sorted deck.Hand) []int {
	ranks := make([]int, len(sorted))
	for i, card := range sorted {
		ranks[i] = card.Rank
	}

	return ranks
}

// kickers returns the ranks not in the excluded set, high-to-low
func kickers(sorted deck.Hand, exclude ...int) []int {
	excluded := make(map[int]bool, len(exclude))
	for _, rank := range exclude {
		excluded[rank] = true
	}

	ranks := make([]int, 0, len(sorted))
	for _, card := range sorted {
		if !excluded[card.Rank] {
			ranks = append(ranks, card.Rank)
		}
	}

	return ranks
}

// orderBySignificance sorts the five cards high-to-low by how they decide
// the hand: grouped cards first, then kickers by rank. The wheel is
// reordered so the ace trails the five.
func orderBySignificance(sorted deck.Hand, counts map[int]int, straightHigh int) deck.Hand {
	ordered := sorted.Clone()

	if straightHigh == 5 && ordered[0].Rank == deck.Ace {
		ordered = append(ordered[1:], ordered[0])
		return ordered
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		ci, cj := counts[ordered[i].Rank], counts[ordered[j].Rank]
		if ci != cj {
			return ci > cj
		}

		return ordered[i].Rank > ordered[j].Rank
	})

	return ordered
}

// calculateStrength packs the category and its deciding ranks into a single
// comparable value: category weight times 15^5 plus the ranks as a
// mixed-radix number, most significant rank first.
func calculateStrength(category Category, ranks []int) int {
	fiveRanks := make([]int, 5)
	copy(fiveRanks, ranks)

	strength := math.Pow(15, 5) * float64(category)
	for i := 0; i < 5; i++ {
		val := fiveRanks[4-i]
		strength += math.Pow(15, float64(i)) * float64(val)
	}

	return int(strength)
}

// EvaluateBest finds the strongest five-card hand from the hole and
// community cards. With fewer than five cards total it returns the
// incomplete sentinel rather than an error.
func EvaluateBest(holeCards, community deck.Hand) *Evaluation {
	cards := make(deck.Hand, 0, len(holeCards)+len(community))
	cards = append(cards, holeCards...)
	cards = append(cards, community...)

	if len(cards) < 5 {
		return incomplete()
	}

	var best *Evaluation
	forEachFiveCardSubset(cards, func(subset deck.Hand) {
		eval, err := EvaluateFive(subset)
		if err != nil {
			panic(err)
		}

		if best == nil || eval.Strength > best.Strength {
			best = eval
		}
	})

	return best
}

// forEachFiveCardSubset enumerates all C(n,5) subsets; n is at most 7 so
// the search visits no more than 21 hands
func forEachFiveCardSubset(cards deck.Hand, fn func(deck.Hand)) {
	n := len(cards)
	indexes := []int{0, 1, 2, 3, 4}
	subset := make(deck.Hand, 5)

	for {
		for i, index := range indexes {
			subset[i] = cards[index]
		}
		fn(subset)

		// advance to the next combination
		i := 4
		for ; i >= 0 && indexes[i] == n-5+i; i-- {
		}

		if i < 0 {
			return
		}

		indexes[i]++
		for j := i + 1; j < 5; j++ {
			indexes[j] = indexes[j-1] + 1
		}
	}
}
