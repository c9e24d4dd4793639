package handrank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"holdem-engine/pkg/deck"
)

func TestWinProbability_bounds(t *testing.T) {
	a := assert.New(t)

	hands := []struct {
		hole      string
		community string
	}{
		{"14s,14h", ""},
		{"2c,7d", ""},
		{"14s,14h", "14c,9d,9h"},
		{"2c,7d", "14s,13s,12s,11s,10s"},
	}

	for _, hand := range hands {
		for opponents := 1; opponents <= 9; opponents++ {
			p := WinProbability(deck.CardsFromString(hand.hole), deck.CardsFromString(hand.community), opponents)
			a.GreaterOrEqual(p, 0.0)
			a.LessOrEqual(p, 1.0)
		}
	}
}

func TestWinProbability_monotonicInCategory(t *testing.T) {
	a := assert.New(t)

	community := deck.Hand(deck.CardsFromString("9d,5h,2c,13d,7s"))

	pair := WinProbability(deck.CardsFromString("9s,3h"), community, 2)
	trips := WinProbability(deck.CardsFromString("9s,9h"), community, 2)
	highCard := WinProbability(deck.CardsFromString("14s,3h"), community, 2)

	a.Greater(pair, highCard)
	a.Greater(trips, pair)
}

func TestWinProbability_decreasesWithOpponents(t *testing.T) {
	a := assert.New(t)

	hole := deck.Hand(deck.CardsFromString("14s,14h"))
	community := deck.Hand(deck.CardsFromString("14c,9d,9h"))

	prev := WinProbability(hole, community, 1)
	for opponents := 2; opponents <= 9; opponents++ {
		p := WinProbability(hole, community, opponents)
		a.Less(p, prev)
		prev = p
	}
}

func TestWinProbability_preflop(t *testing.T) {
	a := assert.New(t)

	aces := WinProbability(deck.CardsFromString("14s,14h"), nil, 1)
	sevenDeuce := WinProbability(deck.CardsFromString("7s,2h"), nil, 1)
	a.Greater(aces, sevenDeuce)

	suited := WinProbability(deck.CardsFromString("10s,9s"), nil, 1)
	offsuit := WinProbability(deck.CardsFromString("10s,9h"), nil, 1)
	a.Greater(suited, offsuit)

	// a single hole card is not enough to estimate from
	a.Equal(WinProbability(deck.CardsFromString("14s"), nil, 1), 0.3)
}
