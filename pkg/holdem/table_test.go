package holdem

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"holdem-engine/pkg/deck"
)

// setupTable creates a table with a rigged deck. Cards are drawn in the
// order provided: two passes of hole cards starting with the small blind,
// then burn-flop, burn-turn, burn-river.
func setupTable(t *testing.T, cards string, configs []SeatConfig, opts Options) *Table {
	t.Helper()

	table, err := NewTable(logrus.StandardLogger(), configs, opts)
	assert.NoError(t, err)

	if cards != "" {
		table.newDeck = func() *deck.Deck {
			return &deck.Deck{Cards: deck.CardsFromString(cards)}
		}
	}

	return table
}

func threeSeats(chips ...int) []SeatConfig {
	configs := make([]SeatConfig, len(chips))
	for i, c := range chips {
		configs[i] = SeatConfig{SeatID: int64(i + 1), Chips: c}
	}

	return configs
}

func TestNewTable(t *testing.T) {
	a := assert.New(t)

	table, err := NewTable(logrus.StandardLogger(), threeSeats(1000, 1000, 1000), Options{SmallBlind: 10, BigBlind: 20})
	a.NoError(err)
	a.NotNil(table)
	a.Equal(PhaseWaiting, table.State().Phase)

	_, err = NewTable(logrus.StandardLogger(), threeSeats(1000), Options{SmallBlind: 10, BigBlind: 20})
	a.EqualError(err, "there must be at least two seats")

	_, err = NewTable(logrus.StandardLogger(), threeSeats(1000, 1000), Options{SmallBlind: 0, BigBlind: 20})
	a.EqualError(err, "small blind must be > 0")

	_, err = NewTable(logrus.StandardLogger(), threeSeats(1000, 1000), Options{SmallBlind: 25, BigBlind: 20})
	a.EqualError(err, "big blind must be at least the small blind")

	_, err = NewTable(logrus.StandardLogger(), []SeatConfig{
		{SeatID: 7, Chips: 100},
		{SeatID: 7, Chips: 100},
	}, Options{SmallBlind: 10, BigBlind: 20})
	a.EqualError(err, "seat 7 is already at the table")
}

func TestTable_checkedDownToShowdown(t *testing.T) {
	a := assert.New(t)

	// seat 1 has the button, so seat 2 posts the small blind
	table := setupTable(t, "14h,13h,2c,14d,13d,7d,5c,3s,8c,10h,5d,4s,5h,9d",
		threeSeats(1000, 1000, 1000), Options{SmallBlind: 10, BigBlind: 20})

	a.NoError(table.StartHand())

	state := table.State()
	a.Equal(PhasePreFlop, state.Phase)
	a.Equal(int64(1), state.DealerSeat)
	a.Equal(int64(1), state.CurrentTurn)
	a.Equal(20, state.CurrentBet)
	a.Equal(30, state.Pot)

	a.NoError(table.SubmitAction(1, ActionCall, 0))
	a.NoError(table.SubmitAction(2, ActionCall, 0))
	a.NoError(table.SubmitAction(3, ActionCheck, 0))

	state = table.State()
	a.Equal(PhaseFlop, state.Phase)
	a.Equal(int64(2), state.CurrentTurn)
	a.Equal(60, state.Pot)
	a.Equal(deck.CardsFromString("3s,8c,10h"), []*deck.Card(state.Community))

	for _, phase := range []Phase{PhaseTurn, PhaseRiver, PhaseWaiting} {
		a.NoError(table.SubmitAction(2, ActionCheck, 0))
		a.NoError(table.SubmitAction(3, ActionCheck, 0))
		a.NoError(table.SubmitAction(1, ActionCheck, 0))
		a.Equal(phase, table.State().Phase)
	}

	a.Equal(980, table.seatsByID[1].Chips())
	a.Equal(1040, table.seatsByID[2].Chips())
	a.Equal(980, table.seatsByID[3].Chips())

	a.Equal(1, len(table.History()))
	a.Equal(map[int64]int{2: 60}, table.History()[0].Payouts)
	a.Contains(table.History()[0].Hands[2], "Pair")
}

func TestTable_foldsToUncontestedWinner(t *testing.T) {
	a := assert.New(t)

	var settledDeltas map[int64]int
	table := setupTable(t, "2c,3c,4c,5c,6h,7h", threeSeats(1000, 1000, 1000), Options{
		SmallBlind: 10,
		BigBlind:   20,
		OnSettlement: func(_ uuid.UUID, deltas map[int64]int) {
			settledDeltas = deltas
		},
	})

	a.NoError(table.StartHand())
	a.NoError(table.SubmitAction(1, ActionRaise, 60))
	a.NoError(table.SubmitAction(2, ActionFold, 0))
	a.NoError(table.SubmitAction(3, ActionFold, 0))

	state := table.State()
	a.Equal(PhaseWaiting, state.Phase)
	a.Equal(1030, table.seatsByID[1].Chips())
	a.Equal(990, table.seatsByID[2].Chips())
	a.Equal(980, table.seatsByID[3].Chips())

	// winner never shows their cards
	for _, seat := range state.Seats {
		a.Nil(seat.Cards)
	}

	a.Equal(map[int64]int{1: 90}, table.History()[0].Payouts)
	a.Equal(map[int64]int{1: 30, 2: -10, 3: -20}, settledDeltas)
}

func TestTable_invalidActions(t *testing.T) {
	a := assert.New(t)

	table := setupTable(t, "14h,13h,2c,14d,13d,7d,5c,3s,8c,10h,5d,4s,5h,9d",
		threeSeats(1000, 1000, 1000), Options{SmallBlind: 10, BigBlind: 20})

	a.NoError(table.StartHand())

	var invalidAction *InvalidActionError

	// out of turn
	err := table.SubmitAction(2, ActionCall, 0)
	a.True(errors.As(err, &invalidAction))
	a.EqualError(err, "you cannot call right now")

	// cannot check facing a bet
	err = table.SubmitAction(1, ActionCheck, 0)
	a.True(errors.As(err, &invalidAction))

	// raise below the minimum
	err = table.SubmitAction(1, ActionRaise, 30)
	a.True(errors.As(err, &invalidAction))
	a.EqualError(err, "your raise must be to at least ${40}")

	// unknown action name
	err = table.SubmitAction(1, Action("jam"), 0)
	a.True(errors.As(err, &invalidAction))

	// the table is untouched after rejected actions
	state := table.State()
	a.Equal(PhasePreFlop, state.Phase)
	a.Equal(int64(1), state.CurrentTurn)
	a.Equal(30, state.Pot)

	// cannot start a hand mid-hand
	a.EqualError(table.StartHand(), "cannot start a hand from the pre-flop phase")
}

func TestTable_splitPotWithOddChip(t *testing.T) {
	a := assert.New(t)

	// both live seats play the board's ten-high straight
	table := setupTable(t, "12h,2d,2c,11h,3d,3c,13s,6h,7d,8s,13c,9c,13d,10d",
		threeSeats(1000, 1000, 1000), Options{SmallBlind: 15, BigBlind: 20})

	a.NoError(table.StartHand())
	a.NoError(table.SubmitAction(1, ActionCall, 0))
	a.NoError(table.SubmitAction(2, ActionFold, 0))
	a.NoError(table.SubmitAction(3, ActionCheck, 0))

	for table.State().Phase.IsBettingRound() {
		a.NoError(table.SubmitAction(3, ActionCheck, 0))
		a.NoError(table.SubmitAction(1, ActionCheck, 0))
	}

	// the odd chip goes to the earliest seat left of the dealer
	a.Equal(map[int64]int{1: 27, 3: 28}, table.History()[0].Payouts)
	a.Equal(1007, table.seatsByID[1].Chips())
	a.Equal(985, table.seatsByID[2].Chips())
	a.Equal(1008, table.seatsByID[3].Chips())
}

func TestTable_sidePotGoesToCoveringHand(t *testing.T) {
	a := assert.New(t)

	// seat 3 is the short stack in the big blind
	table := setupTable(t, "13h,14h,4c,13d,14d,5d,6s,2s,8c,10h,6d,12c,6h,3s",
		threeSeats(1000, 1000, 100), Options{SmallBlind: 10, BigBlind: 20})

	a.NoError(table.StartHand())
	a.NoError(table.SubmitAction(1, ActionRaise, 200))
	a.NoError(table.SubmitAction(2, ActionCall, 0))

	// the short stack's call puts them all-in for less
	actions := table.ActionsForSeat(3)
	a.Equal([]Action{ActionCall, ActionAllIn, ActionFold}, actions)
	a.NoError(table.SubmitAction(3, ActionCall, 0))

	state := table.State()
	a.Equal(PhaseFlop, state.Phase)
	a.Equal(2, len(state.Pots))
	a.Equal(300, state.Pots[0].Amount)
	a.Equal(200, state.Pots[1].Amount)
	a.True(table.seatsByID[3].IsAllIn())

	for table.State().Phase.IsBettingRound() {
		a.NoError(table.SubmitAction(2, ActionCheck, 0))
		a.NoError(table.SubmitAction(1, ActionCheck, 0))
	}

	// aces take the main pot, kings take the side pot
	a.Equal(map[int64]int{3: 300, 2: 200}, table.History()[0].Payouts)
	a.Equal(800, table.seatsByID[1].Chips())
	a.Equal(1000, table.seatsByID[2].Chips())
	a.Equal(300, table.seatsByID[3].Chips())
}

func TestTable_shortStackMayAlwaysShove(t *testing.T) {
	a := assert.New(t)

	// seat 3 posts its last 50 into the big blind and faces a raise to 200
	table := setupTable(t, "3d,14h,7c,4d,14d,2s,9h,8c,10h,5d,4s,12c,9d,6h",
		threeSeats(1000, 1000, 50), Options{SmallBlind: 10, BigBlind: 20})

	a.NoError(table.StartHand())
	a.NoError(table.SubmitAction(1, ActionRaise, 200))
	a.NoError(table.SubmitAction(2, ActionFold, 0))

	// declaring all-in is always open to a seat with chips behind
	a.Equal([]Action{ActionCall, ActionAllIn, ActionFold}, table.ActionsForSeat(3))
	a.NoError(table.SubmitAction(3, ActionAllIn, 0))

	// nobody left to act; the board runs out and the aces hold up
	state := table.State()
	a.Equal(PhaseWaiting, state.Phase)
	a.Equal(map[int64]int{3: 110, 1: 150}, table.History()[0].Payouts)
	a.Equal(950, table.seatsByID[1].Chips())
	a.Equal(990, table.seatsByID[2].Chips())
	a.Equal(110, table.seatsByID[3].Chips())
}

func TestTable_underRaiseAllInKeepsActionOpen(t *testing.T) {
	a := assert.New(t)

	// seat 3's shove to 300 is short of the full raise to 380
	table := setupTable(t, "2c,14s,8c,3d,14h,9d,5h,11c,12d,4s,6h,13c,7s,2d",
		threeSeats(1000, 1000, 300), Options{SmallBlind: 10, BigBlind: 20})

	a.NoError(table.StartHand())
	a.NoError(table.SubmitAction(1, ActionRaise, 200))
	a.NoError(table.SubmitAction(2, ActionCall, 0))
	a.NoError(table.SubmitAction(3, ActionAllIn, 0))

	// the matched seats may call the last 100 but not raise again
	a.Equal([]Action{ActionCall, ActionAllIn, ActionFold}, table.ActionsForSeat(1))
	err := table.SubmitAction(1, ActionRaise, 600)
	a.EqualError(err, "you cannot raise right now")

	a.NoError(table.SubmitAction(1, ActionCall, 0))
	a.Equal([]Action{ActionCall, ActionAllIn, ActionFold}, table.ActionsForSeat(2))
	a.NoError(table.SubmitAction(2, ActionCall, 0))
	a.Equal(PhaseFlop, table.State().Phase)

	for table.State().Phase.IsBettingRound() {
		a.NoError(table.SubmitAction(2, ActionCheck, 0))
		a.NoError(table.SubmitAction(1, ActionCheck, 0))
	}

	a.Equal(map[int64]int{3: 900}, table.History()[0].Payouts)
	a.Equal(700, table.seatsByID[1].Chips())
	a.Equal(700, table.seatsByID[2].Chips())
	a.Equal(900, table.seatsByID[3].Chips())
}

func TestTable_stateMarksSeatsYetToAct(t *testing.T) {
	a := assert.New(t)

	table := setupTable(t, "2c,3c,4c,5c,6h,7h", threeSeats(1000, 1000, 1000), Options{SmallBlind: 10, BigBlind: 20})
	a.NoError(table.StartHand())

	state := table.State()
	a.Equal(int64(1), state.CurrentTurn)
	a.False(state.Seats[0].YetToAct)
	a.True(state.Seats[1].YetToAct)
	a.True(state.Seats[2].YetToAct)

	a.NoError(table.SubmitAction(1, ActionCall, 0))

	// the small blind is in turn now; only the big blind is still waiting
	state = table.State()
	a.Equal(int64(2), state.CurrentTurn)
	a.False(state.Seats[0].YetToAct)
	a.False(state.Seats[1].YetToAct)
	a.True(state.Seats[2].YetToAct)
}

func TestTable_allInRunOut(t *testing.T) {
	a := assert.New(t)

	table := setupTable(t, "2c,14s,7d,14c,3h,5s,9d,11h,3d,12s,3c,6c",
		[]SeatConfig{
			{SeatID: 1, Chips: 500},
			{SeatID: 2, Chips: 500},
		}, Options{SmallBlind: 10, BigBlind: 20})

	a.NoError(table.StartHand())

	// heads-up: the button posts the small blind and acts first pre-flop
	a.Equal(int64(1), table.State().CurrentTurn)

	a.NoError(table.SubmitAction(1, ActionAllIn, 0))
	a.NoError(table.SubmitAction(2, ActionCall, 0))

	// no action left; the board runs out and the hand finishes
	state := table.State()
	a.Equal(PhaseWaiting, state.Phase)
	a.Equal(5, len(state.Community))
	a.Equal(map[int64]int{2: 1000}, table.History()[0].Payouts)
	a.Equal(0, table.seatsByID[1].Chips())
	a.Equal(1000, table.seatsByID[2].Chips())
}

func TestTable_buttonSkipsBrokeSeats(t *testing.T) {
	a := assert.New(t)

	table := setupTable(t, "2c,3c,4c,5c", threeSeats(1000, 0, 1000), Options{SmallBlind: 10, BigBlind: 20})

	a.NoError(table.StartHand())

	state := table.State()
	a.Equal(int64(1), state.DealerSeat)
	a.False(state.Seats[1].InHand)
	a.Equal(int64(1), state.CurrentTurn)

	a.NoError(table.SubmitAction(1, ActionFold, 0))
	a.Equal(PhaseWaiting, table.State().Phase)
	a.Equal(990, table.seatsByID[1].Chips())
	a.Equal(1010, table.seatsByID[3].Chips())

	// the button passes over the broke seat
	a.NoError(table.StartHand())
	state = table.State()
	a.Equal(int64(3), state.DealerSeat)
	a.Equal(int64(3), state.CurrentTurn)
}

func TestTable_startHandRequiresTwoFundedSeats(t *testing.T) {
	a := assert.New(t)

	table := setupTable(t, "", threeSeats(1000, 0, 0), Options{SmallBlind: 10, BigBlind: 20})
	a.Equal(ErrInsufficientPlayers, table.StartHand())
}

func TestTable_eventStream(t *testing.T) {
	a := assert.New(t)

	table := setupTable(t, "2c,3c,4c,5c,6h,7h", threeSeats(1000, 1000, 1000), Options{SmallBlind: 10, BigBlind: 20})

	a.NoError(table.StartHand())
	a.NoError(table.SubmitAction(1, ActionRaise, 60))
	a.NoError(table.SubmitAction(2, ActionFold, 0))
	a.NoError(table.SubmitAction(3, ActionFold, 0))

	types := make([]EventType, 0)

Drain:
	for {
		select {
		case event := <-table.Events():
			types = append(types, event.Type)
		default:
			break Drain
		}
	}

	a.Equal([]EventType{
		EventBlindPosted,
		EventBlindPosted,
		EventCardsDealt,
		EventCardsDealt,
		EventCardsDealt,
		EventActionTaken,
		EventActionTaken,
		EventActionTaken,
		EventPotAwarded,
		EventHandFinished,
	}, types)
}
