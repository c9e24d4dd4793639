package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCard_String(t *testing.T) {
	a := assert.New(t)

	a.Equal("2♣", CardFromString("2c").String())
	a.Equal("10♢", CardFromString("10d").String())
	a.Equal("J♡", CardFromString("11h").String())
	a.Equal("Q♠", CardFromString("12s").String())
	a.Equal("K♠", CardFromString("13s").String())
	a.Equal("A♠", CardFromString("14s").String())
}

func TestCard_Equal(t *testing.T) {
	a := assert.New(t)

	a.True(CardFromString("14s").Equal(CardFromString("14s")))
	a.False(CardFromString("14s").Equal(CardFromString("14h")))
	a.False(CardFromString("14s").Equal(CardFromString("13s")))
}

func TestCard_AceLowRank(t *testing.T) {
	a := assert.New(t)

	a.Equal(1, CardFromString("14s").AceLowRank())
	a.Equal(13, CardFromString("13s").AceLowRank())
	a.Equal(2, CardFromString("2s").AceLowRank())
}

func TestCardsFromString(t *testing.T) {
	a := assert.New(t)

	cards := CardsFromString("2c,10d,14s")
	a.Equal(3, len(cards))
	a.Equal("2c,10d,14s", CardsToString(cards))

	a.Equal(0, len(CardsFromString("")))

	a.PanicsWithValue("could not parse card: 15s", func() {
		CardFromString("15s")
	})
}
