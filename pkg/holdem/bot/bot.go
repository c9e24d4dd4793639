package bot

import (
	"math/rand"

	"github.com/thoas/go-funk"
	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/holdem"
	"holdem-engine/pkg/holdem/handrank"
)

// View is everything a bot is allowed to see when it acts: its own cards,
// the board, and the public betting state
type View struct {
	Phase      holdem.Phase
	HoleCards  deck.Hand
	Community  deck.Hand
	Actions    []holdem.Action
	Pot        int
	CurrentBet int
	MinRaise   int
	CallAmount int
	Chips      int
	Bet        int
	Opponents  int
}

// Decision is the action the bot settled on
type Decision struct {
	Action holdem.Action
	Amount int
}

// allInThreshold is the fraction of the stack past which a sized raise just
// shoves instead
const allInThreshold = 0.85

// Decide picks an action for the seat described by the view. The same view,
// personality, and random source always produce the same decision.
func Decide(view View, personality Personality, r *rand.Rand) Decision {
	if len(view.Actions) == 0 {
		return Decision{Action: holdem.ActionFold}
	}

	aggression := clamp01(personality.Aggression)
	winProb := handrank.WinProbability(view.HoleCards, view.Community, view.Opponents)

	canCheck := funk.Contains(view.Actions, holdem.ActionCheck)
	canCall := funk.Contains(view.Actions, holdem.ActionCall)
	canBet := funk.Contains(view.Actions, holdem.ActionBet)
	canRaise := funk.Contains(view.Actions, holdem.ActionRaise)

	// strong enough to play for value
	if winProb > (1-aggression)*0.5 {
		if canBet || canRaise {
			return sizeRaise(view, aggression)
		}

		if canCall {
			return Decision{Action: holdem.ActionCall, Amount: view.CallAmount}
		}
	}

	// bluffs get more frequent on later streets
	if (canBet || canRaise) && r.Float64() < clamp01(personality.BluffRate)*bluffScale(view.Phase) {
		return sizeRaise(view, 0.4)
	}

	if canCheck {
		return Decision{Action: holdem.ActionCheck}
	}

	if canCall {
		// call when the price is right
		potOdds := float64(view.CallAmount) / float64(view.Pot+view.CallAmount)
		if winProb >= potOdds {
			return Decision{Action: holdem.ActionCall, Amount: view.CallAmount}
		}
	}

	if funk.Contains(view.Actions, holdem.ActionFold) {
		return Decision{Action: holdem.ActionFold}
	}

	return Decision{Action: view.Actions[0]}
}

// sizeRaise picks a raise between a third of the pot and a full pot based on
// aggression. A raise that would commit most of the stack becomes a shove.
func sizeRaise(view View, aggression float64) Decision {
	fraction := 0.33 + aggression*0.67
	amount := view.CurrentBet + int(float64(view.Pot)*fraction)

	if minimum := view.CurrentBet + view.MinRaise; amount < minimum {
		amount = minimum
	}

	stackTotal := view.Chips + view.Bet
	if float64(amount) >= float64(stackTotal)*allInThreshold {
		return Decision{Action: holdem.ActionAllIn, Amount: stackTotal}
	}

	action := holdem.ActionRaise
	if view.CurrentBet == 0 {
		action = holdem.ActionBet
	}

	return Decision{Action: action, Amount: amount}
}

func bluffScale(phase holdem.Phase) float64 {
	switch phase {
	case holdem.PhasePreFlop:
		return 0.4
	case holdem.PhaseFlop:
		return 0.6
	case holdem.PhaseTurn:
		return 0.8
	case holdem.PhaseRiver:
		return 1.0
	}

	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
