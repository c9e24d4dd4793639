package potmanager

import (
	"errors"
	"fmt"
	"sort"
)

// ParticipantError is an error caused by a participant's own action and is
// always safe to surface back to them
type ParticipantError string

func (p ParticipantError) Error() string {
	return string(p)
}

func newParticipantError(format string, a ...interface{}) ParticipantError {
	return ParticipantError(fmt.Sprintf(format, a...))
}

// ErrGameOver is an error when an action is attempted after the hand ended
var ErrGameOver = errors.New("hand is over")

// ErrRoundOver is an error when the betting round is over
var ErrRoundOver = errors.New("betting round is over")

// ErrParticipantCannotAct is an error when the participant cannot act
var ErrParticipantCannotAct = ParticipantError("it is not your turn")

type pot struct {
	amount            int
	allInParticipants []*participantInPot
}

// PotManager owns the wagering bookkeeping for one hand: per-seat street
// bets, the current bet and minimum raise, turn rotation within a betting
// round, and the layered side pots. Every action is validated before any
// chips move.
type PotManager struct {
	participants map[int64]*participantInPot
	tableOrder   []*participantInPot
	pots         []*pot
	// actionStartIndex is where the action started, or changed (i.e., a raise)
	actionStartIndex int
	// actionAtIndex is who is currently making a decision
	actionAtIndex int
	// actionAmount is the highest total any seat has put in this round
	actionAmount int
	// minRaise is the smallest legal increment over actionAmount
	minRaise int
	// amountInPlay is how much has been bet or called, but not yet folded into the pots
	amountInPlay int
	// raiseClosed is true while the only reopening of the action came from an
	// all-in short of a full raise; seats that already acted may call or fold
	// but not raise
	raiseClosed bool

	// needsPotCalculation should be set to true if we need to recalculate the pot
	needsPotCalculation bool

	// isGameOver will prevent any further action from happening
	isGameOver bool
}

// New instantiates a new PotManager
func New() *PotManager {
	return &PotManager{
		participants: make(map[int64]*participantInPot),
		tableOrder:   make([]*participantInPot, 0),
		pots:         []*pot{{}},
	}
}

// SeatParticipant adds a participant to the table in the order called.
// Seat in rotation order starting with the small blind.
func (p *PotManager) SeatParticipant(pt Participant) error {
	if pt.Balance() <= 0 {
		return errors.New("cannot seat participant without a balance")
	}

	pip := &participantInPot{
		Participant: pt,
		tableIndex:  len(p.tableOrder),
	}
	p.participants[pt.ID()] = pip
	p.tableOrder = append(p.tableOrder, pip)

	return nil
}

// PostBlinds takes the forced bets from the first two seats and opens the
// pre-flop round. A seat that cannot cover its blind goes all-in for less.
func (p *PotManager) PostBlinds(smallBlind, bigBlind int) error {
	if len(p.tableOrder) < 2 {
		return errors.New("need at least two seated participants")
	}

	p.adjustParticipant(p.tableOrder[0], smallBlind)
	p.adjustParticipant(p.tableOrder[1], bigBlind)

	p.actionAmount = bigBlind
	p.minRaise = bigBlind

	// pre-flop action starts left of the big blind
	p.startRotation(2 % len(p.tableOrder))
	return nil
}

// StartRound opens a post-flop betting round with the action starting at
// the given table index
func (p *PotManager) StartRound(startIndex int, minRaise int) error {
	if !p.IsRoundOver() {
		return errors.New("betting round is not over")
	}

	p.calculatePot()

	for _, pip := range p.tableOrder {
		pip.reset()
	}

	p.actionAmount = 0
	p.amountInPlay = 0
	p.minRaise = minRaise
	p.raiseClosed = false

	p.startRotation(startIndex)
	return nil
}

// startRotation positions the acting window at the first seat from
// startIndex that can still act
func (p *PotManager) startRotation(startIndex int) {
	p.actionStartIndex = startIndex
	p.actionAtIndex = 0

	n := len(p.tableOrder)
	for ; p.actionAtIndex < n; p.actionAtIndex++ {
		if p.tableOrder[p.normalizedActionAtIndex()].canAct() {
			return
		}
	}

	// nobody left to act; the round is immediately over
	p.needsPotCalculation = true
}

// ParticipantFolds handles a fold
func (p *PotManager) ParticipantFolds(pt Participant) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	pip.isFolded = true
	pip.hasActed = true
	p.completeTurn()
	return nil
}

// ParticipantChecks handles a check
func (p *PotManager) ParticipantChecks(pt Participant) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	if pip.amountInPlay != p.actionAmount {
		return newParticipantError("you cannot check with an active bet")
	}

	pip.hasActed = true
	p.completeTurn()
	return nil
}

// ParticipantCalls handles a call. A seat that cannot cover the full call
// is put all-in for what it has.
func (p *PotManager) ParticipantCalls(pt Participant) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	if p.actionAmount <= pip.amountInPlay {
		return newParticipantError("you cannot call without an active bet")
	}

	pip.hasActed = true
	p.adjustParticipant(pip, p.actionAmount)
	p.completeTurn()
	return nil
}

// ParticipantBetsOrRaises raises the round's bet to newBetOrRaise, which is
// the seat's new total for the street. The increment must be at least the
// minimum raise unless the raise puts the seat all-in.
func (p *PotManager) ParticipantBetsOrRaises(pt Participant, newBetOrRaise int) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	if newBetOrRaise <= p.actionAmount {
		return newParticipantError("your raise to ${%d} must be greater than the current bet of ${%d}", newBetOrRaise, p.actionAmount)
	}

	if newBetOrRaise-pip.amountInPlay > pip.Balance() {
		return newParticipantError("you cannot bet more than your stack of ${%d}", pip.amountInPlay+pip.Balance())
	}

	raisedBy := newBetOrRaise - p.actionAmount
	isAllIn := newBetOrRaise-pip.amountInPlay == pip.Balance()
	if !isAllIn {
		if p.raiseClosed && pip.hasActed {
			return newParticipantError("the all-in was short of a full raise; you may only call or fold")
		}

		if raisedBy < p.minRaise {
			return newParticipantError("your raise must be to at least ${%d}", p.actionAmount+p.minRaise)
		}
	}

	if raisedBy >= p.minRaise {
		// a full raise reopens the betting
		p.minRaise = raisedBy
		p.raiseClosed = false
	} else {
		// an all-in short of a full raise lets the seats that already matched
		// the prior bet call the difference, without their right to raise
		p.raiseClosed = true
	}
	p.actionStartIndex = pip.tableIndex
	p.actionAtIndex = 0

	p.actionAmount = newBetOrRaise
	pip.hasActed = true
	p.adjustParticipant(pip, newBetOrRaise)

	p.completeTurn()
	return nil
}

// ParticipantGoesAllIn commits the seat's entire stack. Above the current
// bet it acts as a raise; short of a full raise the other seats may call
// the difference but not raise again. Below the bet it is a call for less.
func (p *PotManager) ParticipantGoesAllIn(pt Participant) error {
	pip, err := p.getActiveParticipantInPot(pt)
	if err != nil {
		return err
	}

	total := pip.amountInPlay + pip.Balance()
	if total <= 0 {
		return newParticipantError("you have no chips left")
	}

	if total > p.actionAmount {
		return p.participantBetsOrRaisesAllIn(pip, total)
	}

	pip.hasActed = true
	p.adjustParticipant(pip, total)
	p.completeTurn()
	return nil
}

func (p *PotManager) participantBetsOrRaisesAllIn(pip *participantInPot, total int) error {
	if raisedBy := total - p.actionAmount; raisedBy >= p.minRaise {
		p.minRaise = raisedBy
		p.raiseClosed = false
	} else {
		// the shove is short of a full raise: matched seats may call the
		// difference but may not raise again
		p.raiseClosed = true
	}
	p.actionStartIndex = pip.tableIndex
	p.actionAtIndex = 0

	p.actionAmount = total
	pip.hasActed = true
	p.adjustParticipant(pip, total)

	p.completeTurn()
	return nil
}

// adjustParticipant moves chips from the seat to the table, up to the
// seat's total, and flags the all-in
func (p *PotManager) adjustParticipant(pip *participantInPot, adjustment int) {
	adjustment -= pip.amountInPlay
	if adjustment >= pip.Balance() {
		adjustment = pip.Balance()
		pip.isAllIn = true
	}

	p.amountInPlay += adjustment
	pip.adjustAmountInPlay(adjustment)
	pip.Participant.AdjustBalance(-1 * adjustment)
}

// GetBet returns the current bet
func (p *PotManager) GetBet() int {
	return p.actionAmount
}

// GetMinRaise returns the minimum legal increment over the current bet
func (p *PotManager) GetMinRaise() int {
	return p.minRaise
}

// CanRaise returns false when the action was reopened only by an all-in
// short of a full raise and the seat already acted at the prior bet
func (p *PotManager) CanRaise(pt Participant) bool {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return false
	}

	return !p.raiseClosed || !pip.hasActed
}

// GetCallAmount returns what the participant owes to call
func (p *PotManager) GetCallAmount(pt Participant) (int, error) {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return 0, errors.New("participant not found")
	}

	owed := p.actionAmount - pip.amountInPlay
	if owed > pip.Balance() {
		owed = pip.Balance()
	}

	return owed, nil
}

// GetParticipantAllInAmount returns the street total the seat would reach
// by going all-in
func (p *PotManager) GetParticipantAllInAmount(pt Participant) int {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return 0
	}

	return pip.amountInPlay + pip.Balance()
}

// GetTotalContributed returns how much the seat has put in over the whole hand
func (p *PotManager) GetTotalContributed(pt Participant) int {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return 0
	}

	return pip.totalContributed
}

// IsRoundOver returns true if all eligible participants have acted
func (p *PotManager) IsRoundOver() bool {
	return p.actionAtIndex >= len(p.tableOrder)
}

// GetInTurnParticipant returns the participant who is to act next.
// Returns nil if the round is over.
func (p *PotManager) GetInTurnParticipant() Participant {
	if p.isGameOver || p.IsRoundOver() {
		return nil
	}

	return p.tableOrder[p.normalizedActionAtIndex()].Participant
}

// IsParticipantYetToAct returns true if the participant is not in turn and has yet to act
// this round. This also ensures the participant didn't fold and they are not all-in.
func (p *PotManager) IsParticipantYetToAct(pt Participant) bool {
	pip, ok := p.participants[pt.ID()]
	if !ok {
		return false
	}

	if !pip.canAct() {
		return false
	}

	// simple formula to see if the player isn't in turn, but they are still yet to act
	check := pip.tableIndex
	if check < p.actionStartIndex {
		check += len(p.tableOrder)
	}

	return check > p.actionStartIndex+p.actionAtIndex
}

// GetCanActParticipantCount returns the number of participants in the hand who didn't fold or go all-in
func (p *PotManager) GetCanActParticipantCount() int {
	count := 0
	for _, pip := range p.tableOrder {
		if pip.canAct() {
			count++
		}
	}

	return count
}

// GetActiveParticipantCount returns the number of participants still in the hand
func (p *PotManager) GetActiveParticipantCount() int {
	count := 0
	for _, pip := range p.tableOrder {
		if !pip.isFolded {
			count++
		}
	}

	return count
}

// GetActiveParticipants returns the non-folded participants in table order
func (p *PotManager) GetActiveParticipants() []Participant {
	active := make([]Participant, 0, len(p.tableOrder))
	for _, pip := range p.tableOrder {
		if !pip.isFolded {
			active = append(active, pip.Participant)
		}
	}

	return active
}

// Total returns all chips on the table, both in the pots and still in play
// this round
func (p *PotManager) Total() int {
	return p.Pots().Total() + p.amountInPlay
}

// Pots returns a snapshot of the pots, including the round's uncollected bets
// as part of the last pot
func (p *PotManager) Pots() Pots {
	pots := make([]*Pot, len(p.pots))
	for i, pot := range p.pots {
		a := make([]Participant, 0, len(pot.allInParticipants))
		for _, pip := range pot.allInParticipants {
			a = append(a, pip.Participant)
		}

		pots[i] = &Pot{
			Amount:            pot.amount,
			AllInParticipants: a,
		}
	}

	return pots
}

// normalizedActionAtIndex returns the table index of the seat the acting
// window currently points at
func (p *PotManager) normalizedActionAtIndex() int {
	return (p.actionStartIndex + p.actionAtIndex) % len(p.tableOrder)
}

// completeTurn must be called after a participant raises, checks, calls, or folds
func (p *PotManager) completeTurn() {
	// stay in for loop until we find a player who can act
	for p.actionAtIndex++; p.actionAtIndex < len(p.tableOrder); p.actionAtIndex++ {
		pip := p.tableOrder[p.normalizedActionAtIndex()]
		// player can act
		if pip.canAct() {
			return
		}
	}

	// if we reached this point, all players have acted
	p.needsPotCalculation = true
}

// calculatePot folds the round's bets into the pots. Layers are keyed by
// the all-in totals so a short stack can only contest chips up to its own
// contribution; anything past the cap spills into the next pot.
func (p *PotManager) calculatePot() {
	if !p.needsPotCalculation {
		return
	}

	p.needsPotCalculation = false

	if p.amountInPlay == 0 {
		return
	}

	allInAmounts := make(map[int][]*participantInPot)
	totalAction := 0
	maxAmount := 0
	for _, pip := range p.tableOrder {
		totalAction += pip.amountInPlay
		if pip.amountInPlay > maxAmount {
			maxAmount = pip.amountInPlay
		}

		// participant went all-in this round
		if !pip.isFolded && pip.isAllIn && pip.amountInPlay > 0 {
			allInAmounts[pip.amountInPlay] = append(allInAmounts[pip.amountInPlay], pip)
		}
	}

	currentPot := p.pots[len(p.pots)-1]
	// if it's not nil, then there is someone all-in on this pot. create a side pot
	if currentPot.allInParticipants != nil {
		currentPot = &pot{}
		p.pots = append(p.pots, currentPot)
	}

	// no all-in
	if len(allInAmounts) == 0 {
		currentPot.amount += totalAction
		p.amountInPlay = 0
		return
	}

	// add the largest total as the final layer, even if it isn't an all-in,
	// so chips past the last cap land in a live pot
	if _, ok := allInAmounts[maxAmount]; !ok {
		allInAmounts[maxAmount] = nil
	}

	amounts := make([]int, 0, len(allInAmounts))
	for amount := range allInAmounts {
		amounts = append(amounts, amount)
	}
	sort.Ints(amounts)

	prevAmount := 0
	for i, allInAmount := range amounts {
		potAmount := 0
		for _, pip := range p.tableOrder {
			amount := pip.amountInPlay
			if amount > allInAmount {
				amount = allInAmount
			}

			diffAmount := amount - prevAmount
			if diffAmount < 0 {
				diffAmount = 0
			}

			potAmount += diffAmount
		}

		currentPot.amount += potAmount
		currentPot.allInParticipants = allInAmounts[allInAmount]

		if i+1 != len(amounts) {
			currentPot = &pot{}
			p.pots = append(p.pots, currentPot)
		}

		prevAmount = allInAmount
	}

	p.amountInPlay = 0
}

// PayWinners adjusts the balance for the winners and returns the payouts.
// Winners are provided in tiers, strongest hand first; each pot goes to the
// best tier still eligible for it. Remainders of an uneven split go to the
// earliest winners in table order, starting left of the dealer.
func (p *PotManager) PayWinners(winners [][]Participant) (map[int64]int, error) {
	if !p.isGameOver {
		return nil, errors.New("hand is not over")
	}

	p.needsPotCalculation = true
	p.calculatePot()

	pots := make([]*pot, len(p.pots))

	// shallow-copy
	for i, pt := range p.pots {
		tmp := *pt
		pots[i] = &tmp
	}

	payouts := make(map[int64]int)

MainLoop:
	for _, winnerGroup := range winners {
		// convert to list of participantInPot objects. Sort by the table order
		// to ensure we pay left of dealer any uneven amounts
		pipWinnerGroup := make([]*participantInPot, len(winnerGroup))
		for i, winner := range winnerGroup {
			pipWinnerGroup[i] = p.participants[winner.ID()]
		}
		sort.Sort(sortByTableIndex(pipWinnerGroup))

		for potIndex, pt := range pots {
			if pt.amount == 0 {
				continue
			}

			// remove any users who went all in on this pot
			tmp := make([]*participantInPot, 0, len(pipWinnerGroup))
			for i, winner := range pipWinnerGroup {
				winnings := pt.amount / len(pipWinnerGroup)
				if i < pt.amount%len(pipWinnerGroup) {
					winnings++
				}

				winner.AdjustBalance(winnings)
				payouts[winner.ID()] += winnings

				if containsPip(pt.allInParticipants, winner) {
					continue
				}

				tmp = append(tmp, winner)
			}
			pipWinnerGroup = tmp
			pt.amount = 0

			if potIndex+1 == len(pots) {
				break MainLoop
			} else if len(pipWinnerGroup) == 0 {
				break
			}
		}
	}

	return payouts, nil
}

func containsPip(pips []*participantInPot, pip *participantInPot) bool {
	for _, p := range pips {
		if p == pip {
			return true
		}
	}

	return false
}

// getActiveParticipantInPot returns the participantInPot if the participant is on the clock, otherwise
// an error if the participant cannot act
func (p *PotManager) getActiveParticipantInPot(pt Participant) (*participantInPot, error) {
	if p.isGameOver {
		return nil, ErrGameOver
	}

	pit := p.GetInTurnParticipant()
	if pit == nil {
		return nil, ErrRoundOver
	}

	if pit.ID() != pt.ID() {
		return nil, ErrParticipantCannotAct
	}

	pip, ok := p.participants[pt.ID()]
	if !ok {
		panic("participant not found")
	}

	return pip, nil
}

// EndGame folds any outstanding bets into the pots and prevents further action
func (p *PotManager) EndGame() {
	p.needsPotCalculation = true
	p.calculatePot()
	p.isGameOver = true
}
