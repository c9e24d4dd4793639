package handrank

import (
	"math"

	"holdem-engine/pkg/deck"
)

const strengthRadix = 15 * 15 * 15 * 15 * 15 // 15^5

// WinProbability estimates the chance the hole cards win against the given
// number of active opponents. The estimate is a heuristic signal for the
// bot policy, not a settlement input: it is bounded to [0,1], rises with
// hand category, and falls as opponents are added.
func WinProbability(holeCards, community deck.Hand, numActiveOpponents int) float64 {
	if numActiveOpponents < 1 {
		numActiveOpponents = 1
	}

	headsUp := headsUpEstimate(holeCards, community)

	// winning a multiway pot requires beating every opponent
	return math.Pow(headsUp, float64(numActiveOpponents))
}

// headsUpEstimate returns the single-opponent estimate in (0,1)
func headsUpEstimate(holeCards, community deck.Hand) float64 {
	eval := EvaluateBest(holeCards, community)
	if eval.Category == Incomplete {
		return preflopEstimate(holeCards)
	}

	// category dominates; the packed kickers break ties within it
	tiebreak := float64(eval.Strength%strengthRadix) / float64(strengthRadix)
	estimate := (float64(eval.Category-1) + tiebreak) / 10

	return clamp(estimate, 0.05, 0.95)
}

// preflopEstimate scores two hole cards on rank, pairing, suit, and
// connectedness
func preflopEstimate(holeCards deck.Hand) float64 {
	if len(holeCards) < 2 {
		return 0.3
	}

	high, low := holeCards[0].Rank, holeCards[1].Rank
	if low > high {
		high, low = low, high
	}

	estimate := float64(high+low) / 28.0 * 0.6

	if high == low {
		estimate += 0.25
	}

	if holeCards[0].Suit == holeCards[1].Suit {
		estimate += 0.05
	}

	if high-low <= 2 {
		estimate += 0.05
	}

	return clamp(estimate, 0.05, 0.95)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
