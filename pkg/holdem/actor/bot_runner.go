package actor

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/weedbox/timebank"
	"holdem-engine/pkg/holdem"
	"holdem-engine/pkg/holdem/bot"
)

type brain struct {
	personality bot.Personality
	rng         *rand.Rand
}

// BotRunner plays the bot seats of a table. Whenever a bot is on the clock,
// the runner builds that seat's view, asks the decision policy for a move,
// and submits it. Seats without an assigned personality are left for humans.
type BotRunner struct {
	logger logrus.FieldLogger
	table  *holdem.Table
	brains map[int64]*brain

	seed     int64
	timebank *timebank.TimeBank

	// thinkingTime, when set, adds a random pause before each bot action
	thinkingTime time.Duration
}

// NewBotRunner returns a runner for the table. The seed makes every bot's
// decisions reproducible.
func NewBotRunner(logger logrus.FieldLogger, table *holdem.Table, seed int64) *BotRunner {
	return &BotRunner{
		logger:   logger,
		table:    table,
		brains:   make(map[int64]*brain),
		seed:     seed,
		timebank: timebank.NewTimeBank(),
	}
}

// AssignPersonality marks the seat as bot-controlled with the given
// personality
func (r *BotRunner) AssignPersonality(seatID int64, personality bot.Personality) {
	r.brains[seatID] = &brain{
		personality: personality,
		rng:         rand.New(rand.NewSource(r.seed + seatID)),
	}
}

// Humanized adds a random thinking pause of up to maxDelay before each bot
// action
func (r *BotRunner) Humanized(maxDelay time.Duration) {
	r.thinkingTime = maxDelay
}

// PlayBotTurns acts for every bot until the hand finishes or a human is on
// the clock
func (r *BotRunner) PlayBotTurns() error {
	for {
		state := r.table.State()
		if !state.Phase.IsBettingRound() || state.CurrentTurn == 0 {
			return nil
		}

		b, ok := r.brains[state.CurrentTurn]
		if !ok {
			// a human's turn
			return nil
		}

		if err := r.playTurn(state, b); err != nil {
			return err
		}
	}
}

// PlayHand starts a hand and plays it to completion. All seats must be
// bot-controlled.
func (r *BotRunner) PlayHand() error {
	if err := r.table.StartHand(); err != nil {
		return err
	}

	if err := r.PlayBotTurns(); err != nil {
		return err
	}

	if state := r.table.State(); state.Phase.IsBettingRound() {
		return fmt.Errorf("seat %d is not bot-controlled", state.CurrentTurn)
	}

	return nil
}

func (r *BotRunner) playTurn(state *holdem.PublicState, b *brain) error {
	seatID := state.CurrentTurn

	r.think(b)

	view := r.buildView(state, seatID)
	decision := bot.Decide(view, b.personality, b.rng)

	err := r.table.SubmitAction(seatID, decision.Action, decision.Amount)
	if err == nil {
		return nil
	}

	var invalidAction *holdem.InvalidActionError
	if !errors.As(err, &invalidAction) {
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"seat":   seatID,
		"action": decision.Action,
	}).WithError(err).Warn("bot picked an invalid action; falling back")

	if err := r.table.SubmitAction(seatID, holdem.ActionCheck, 0); err == nil {
		return nil
	}

	return r.table.SubmitAction(seatID, holdem.ActionFold, 0)
}

// think blocks for a random slice of the configured thinking time
func (r *BotRunner) think(b *brain) {
	if r.thinkingTime <= 0 {
		return
	}

	delay := time.Duration(b.rng.Int63n(int64(r.thinkingTime)))
	if delay == 0 {
		return
	}

	done := make(chan struct{})
	if err := r.timebank.NewTask(delay, func(isCancelled bool) {
		close(done)
	}); err != nil {
		return
	}

	<-done
}

func (r *BotRunner) buildView(state *holdem.PublicState, seatID int64) bot.View {
	var chips, bet int
	opponents := 0
	for _, seat := range state.Seats {
		if seat.SeatID == seatID {
			chips = seat.Chips
			bet = seat.Bet
			continue
		}

		if seat.InHand && !seat.Folded {
			opponents++
		}
	}

	callAmount := state.CurrentBet - bet
	if callAmount > chips {
		callAmount = chips
	}
	if callAmount < 0 {
		callAmount = 0
	}

	return bot.View{
		Phase:      state.Phase,
		HoleCards:  r.table.HoleCards(seatID),
		Community:  state.Community,
		Actions:    state.Actions,
		Pot:        state.Pot,
		CurrentBet: state.CurrentBet,
		MinRaise:   state.MinRaise,
		CallAmount: callAmount,
		Chips:      chips,
		Bet:        bet,
		Opponents:  opponents,
	}
}
