package holdem

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thoas/go-funk"
	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/holdem/handrank"
	"holdem-engine/pkg/holdem/potmanager"
)

// Table runs hands of no-limit Texas Hold'em for a fixed set of seats.
// Methods must be called from a single goroutine; the table advances only in
// response to StartHand and SubmitAction.
type Table struct {
	logger  logrus.FieldLogger
	options Options

	seats     []*Seat
	seatsByID map[int64]*Seat

	// dealerIndex is the seat index of the current button
	dealerIndex int
	handsDealt  int

	// handOrder holds the seats dealt into the current hand, starting with
	// the small blind
	handOrder  []*Seat
	potManager *potmanager.PotManager

	handID    uuid.UUID
	phase     Phase
	deck      *deck.Deck
	community deck.Hand

	lastAction *LastAction
	events     chan *Event
	history    []*HandRecord

	newDeck func() *deck.Deck
}

// LastAction records the most recent player action
type LastAction struct {
	SeatID int64  `json:"seatId"`
	Action Action `json:"action"`
	Amount int    `json:"amount"`
}

// HandRecord summarizes a completed hand
type HandRecord struct {
	HandID     uuid.UUID        `json:"handId"`
	DealerSeat int64            `json:"dealerSeat"`
	Community  deck.Hand        `json:"community"`
	Hands      map[int64]string `json:"hands,omitempty"`
	Payouts    map[int64]int    `json:"payouts"`
}

// NewTable returns a table with the given seats. Seats act in the order
// provided; the button starts at the first seat with chips.
func NewTable(logger logrus.FieldLogger, seatConfigs []SeatConfig, opts Options) (*Table, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if len(seatConfigs) < 2 {
		return nil, errors.New("there must be at least two seats")
	}

	seats := make([]*Seat, len(seatConfigs))
	seatsByID := make(map[int64]*Seat)
	for i, cfg := range seatConfigs {
		if cfg.Chips < 0 {
			return nil, fmt.Errorf("seat %d cannot have a negative stack", cfg.SeatID)
		}

		if _, ok := seatsByID[cfg.SeatID]; ok {
			return nil, fmt.Errorf("seat %d is already at the table", cfg.SeatID)
		}

		seat := newSeat(cfg)
		seats[i] = seat
		seatsByID[cfg.SeatID] = seat
	}

	t := &Table{
		logger:    logger,
		options:   opts,
		seats:     seats,
		seatsByID: seatsByID,
		phase:     PhaseWaiting,
		community: make(deck.Hand, 0, 5),
		events:    make(chan *Event, 256),
		history:   make([]*HandRecord, 0),
	}

	t.newDeck = func() *deck.Deck {
		d := deck.New()
		seed := opts.Seed
		if seed > 0 {
			seed += int64(t.handsDealt)
		}
		d.Shuffle(seed)

		return d
	}

	return t, nil
}

// StartHand deals the next hand: the button moves to the next seat with
// chips, blinds are posted, and every funded seat receives two hole cards
func (t *Table) StartHand() error {
	if t.phase != PhaseWaiting {
		return fmt.Errorf("cannot start a hand from the %s phase", t.phase)
	}

	funded := 0
	for _, s := range t.seats {
		if s.chips > 0 {
			funded++
		}
	}

	if funded < 2 {
		return ErrInsufficientPlayers
	}

	t.moveButton()
	t.buildHandOrder()

	t.handID = uuid.New()
	t.deck = t.newDeck()
	t.community = make(deck.Hand, 0, 5)
	t.lastAction = nil

	pm := potmanager.New()
	for _, s := range t.handOrder {
		if err := pm.SeatParticipant(s); err != nil {
			return err
		}
	}
	t.potManager = pm

	if err := pm.PostBlinds(t.options.SmallBlind, t.options.BigBlind); err != nil {
		return err
	}

	t.phase = PhasePreFlop

	t.emit(&Event{Type: EventBlindPosted, SeatID: t.handOrder[0].SeatID, Amount: pm.GetTotalContributed(t.handOrder[0])})
	t.emit(&Event{Type: EventBlindPosted, SeatID: t.handOrder[1].SeatID, Amount: pm.GetTotalContributed(t.handOrder[1])})

	if err := t.dealTwoCardsToEachSeat(); err != nil {
		return err
	}

	t.logger.WithFields(logrus.Fields{
		"hand":   t.handID,
		"dealer": t.seats[t.dealerIndex].SeatID,
		"seats":  len(t.handOrder),
	}).Info("hand started")

	return t.advance()
}

// moveButton advances the button to the next seat with chips. Seats that
// went broke are skipped.
func (t *Table) moveButton() {
	n := len(t.seats)
	start := t.dealerIndex + 1
	if t.handsDealt == 0 {
		start = t.dealerIndex
	}

	for i := 0; i < n; i++ {
		index := (start + i) % n
		if t.seats[index].chips > 0 {
			t.dealerIndex = index
			return
		}
	}
}

// buildHandOrder collects the funded seats in rotation order starting with
// the small blind. With more than two players the button is last to act; in
// a heads-up hand the button posts the small blind and acts first pre-flop.
func (t *Table) buildHandOrder() {
	n := len(t.seats)
	funded := make([]*Seat, 0, n)
	for i := 1; i <= n; i++ {
		seat := t.seats[(t.dealerIndex+i)%n]
		if seat.chips > 0 {
			funded = append(funded, seat)
		}
	}

	if len(funded) == 2 {
		funded[0], funded[1] = funded[1], funded[0]
	}

	t.handOrder = funded

	for _, s := range t.seats {
		s.newHand(false)
	}
	for _, s := range t.handOrder {
		s.newHand(true)
	}
}

func (t *Table) dealTwoCardsToEachSeat() error {
	for i := 0; i < 2; i++ {
		for _, s := range t.handOrder {
			card, err := t.deck.Draw()
			if err != nil {
				return err
			}

			s.cards.AddCard(card)
		}
	}

	for _, s := range t.handOrder {
		t.emit(&Event{Type: EventCardsDealt, SeatID: s.SeatID, Cards: s.cards.Clone()})
	}

	return nil
}

// HoleCards returns the hole cards for the given seat in the current hand
func (t *Table) HoleCards(seatID int64) deck.Hand {
	seat, ok := t.seatsByID[seatID]
	if !ok {
		return nil
	}

	return seat.cards.Clone()
}

// ActionsForSeat returns the actions the seat may take, or nil if the seat
// is not on the clock
func (t *Table) ActionsForSeat(seatID int64) []Action {
	if !t.phase.IsBettingRound() {
		return nil
	}

	seat, ok := t.seatsByID[seatID]
	if !ok {
		return nil
	}

	turn := t.potManager.GetInTurnParticipant()
	if turn == nil || turn.ID() != seatID {
		return nil
	}

	currentBet := t.potManager.GetBet()
	allInAmount := t.potManager.GetParticipantAllInAmount(seat)

	actions := make([]Action, 0, 4)
	if currentBet == seat.bet {
		actions = append(actions, ActionCheck)
	} else {
		actions = append(actions, ActionCall)
	}

	if allInAmount > currentBet && t.potManager.CanRaise(seat) {
		if currentBet == 0 {
			actions = append(actions, ActionBet)
		} else {
			actions = append(actions, ActionRaise)
		}
	}

	// a seat with chips behind may always move all-in, even when it cannot
	// cover the bet
	if allInAmount > seat.bet {
		actions = append(actions, ActionAllIn)
	}

	return append(actions, ActionFold)
}

// SubmitAction performs the action on behalf of the seat. Amount is the
// seat's new total bet for the street and is only consulted for bets and
// raises. A rejected action leaves the table untouched.
func (t *Table) SubmitAction(seatID int64, action Action, amount int) error {
	if !action.IsValid() {
		return newInvalidActionError("%s is not a valid action", string(action))
	}

	if !t.phase.IsBettingRound() {
		return newInvalidActionError("no betting round is in progress")
	}

	seat, ok := t.seatsByID[seatID]
	if !ok {
		return fmt.Errorf("unknown seat: %d", seatID)
	}

	actions := t.ActionsForSeat(seatID)
	if !funk.Contains(actions, action) {
		return newInvalidActionError("you cannot %s right now", string(action))
	}

	logAmount := 0
	var err error
	switch action {
	case ActionCheck:
		err = t.potManager.ParticipantChecks(seat)
	case ActionCall:
		logAmount, _ = t.potManager.GetCallAmount(seat)
		err = t.potManager.ParticipantCalls(seat)
	case ActionBet, ActionRaise:
		if amount >= t.potManager.GetParticipantAllInAmount(seat) {
			action = ActionAllIn
			logAmount = t.potManager.GetParticipantAllInAmount(seat)
			err = t.potManager.ParticipantGoesAllIn(seat)
		} else {
			logAmount = amount
			err = t.potManager.ParticipantBetsOrRaises(seat, amount)
		}
	case ActionAllIn:
		logAmount = t.potManager.GetParticipantAllInAmount(seat)
		err = t.potManager.ParticipantGoesAllIn(seat)
	case ActionFold:
		err = t.potManager.ParticipantFolds(seat)
		if err == nil {
			seat.folded = true
			seat.result = resultFolded
		}
	}

	if err != nil {
		var pe potmanager.ParticipantError
		if errors.As(err, &pe) {
			return &InvalidActionError{Err: pe}
		}

		return err
	}

	t.lastAction = &LastAction{
		SeatID: seatID,
		Action: action,
		Amount: logAmount,
	}

	t.emit(&Event{Type: EventActionTaken, SeatID: seatID, Action: action, Amount: logAmount})
	t.logger.WithField("seat", seatID).Infof("player %s", action.LogMessage(logAmount))

	return t.advance()
}

// advance moves the hand forward until a player is on the clock or the hand
// is finished
func (t *Table) advance() error {
	for {
		if !t.potManager.IsRoundOver() {
			return nil
		}

		if t.potManager.GetActiveParticipantCount() < 2 {
			return t.concludeUncontested()
		}

		if t.phase == PhaseRiver {
			return t.showdown()
		}

		if t.potManager.GetCanActParticipantCount() < 2 {
			return t.runOutBoard()
		}

		if err := t.dealNextStreet(true); err != nil {
			return err
		}
	}
}

// dealNextStreet burns a card, deals the flop, turn, or river, and opens the
// next betting round. Post-flop action starts with the small blind; heads-up
// the button acts last.
func (t *Table) dealNextStreet(openRound bool) error {
	if err := t.deck.Burn(); err != nil {
		return err
	}

	count := 1
	if t.phase == PhasePreFlop {
		count = 3
	}

	dealt := make(deck.Hand, 0, count)
	for i := 0; i < count; i++ {
		card, err := t.deck.Draw()
		if err != nil {
			return err
		}

		t.community.AddCard(card)
		dealt.AddCard(card)
	}

	t.phase++
	t.emit(&Event{Type: EventStreetAdvanced, Cards: dealt})

	if !openRound {
		return nil
	}

	startIndex := 0
	if len(t.handOrder) == 2 {
		startIndex = 1
	}

	return t.potManager.StartRound(startIndex, t.options.BigBlind)
}

// runOutBoard deals the remaining community cards with no further betting,
// then goes to showdown. Hole cards are exposed as soon as no more action is
// possible.
func (t *Table) runOutBoard() error {
	for _, s := range t.handOrder {
		if !s.folded {
			s.reveal = true
		}
	}

	for t.phase != PhaseRiver {
		if err := t.dealNextStreet(false); err != nil {
			return err
		}
	}

	return t.showdown()
}

// showdown reveals the remaining hands, pays each pot to the best eligible
// hand, and finishes the hand
func (t *Table) showdown() error {
	t.phase = PhaseShowdown

	wm := potmanager.NewWinManager()
	hands := make(map[int64]string)
	for _, s := range t.handOrder {
		if s.folded {
			continue
		}

		eval := handrank.EvaluateBest(s.cards, t.community)

		s.reveal = true
		s.result = resultLost
		wm.AddParticipant(s, eval.Strength)
		hands[s.SeatID] = fmt.Sprintf("%s (%s)", eval.Category, eval.Cards)
	}

	t.emit(&Event{Type: EventHandShowdown, Hands: hands})

	t.potManager.EndGame()
	payouts, err := t.potManager.PayWinners(wm.GetSortedTiers())
	if err != nil {
		return err
	}

	return t.finishHand(payouts, hands)
}

// concludeUncontested awards the pot to the last seat standing without a
// showdown. The winner's hole cards stay hidden.
func (t *Table) concludeUncontested() error {
	t.potManager.EndGame()

	active := t.potManager.GetActiveParticipants()
	if len(active) != 1 {
		return fmt.Errorf("expected one active participant, found %d", len(active))
	}

	payouts, err := t.potManager.PayWinners([][]potmanager.Participant{active})
	if err != nil {
		return err
	}

	return t.finishHand(payouts, nil)
}

func (t *Table) finishHand(payouts map[int64]int, hands map[int64]string) error {
	for id, amount := range payouts {
		seat := t.seatsByID[id]
		seat.result = resultWon
		seat.winnings = amount

		t.emit(&Event{Type: EventPotAwarded, SeatID: id, Amount: amount})
	}

	deltas := make(map[int64]int)
	for _, s := range t.handOrder {
		deltas[s.SeatID] = s.chips - s.startChips
	}

	record := &HandRecord{
		HandID:     t.handID,
		DealerSeat: t.seats[t.dealerIndex].SeatID,
		Community:  t.community.Clone(),
		Hands:      hands,
		Payouts:    payouts,
	}
	t.history = append(t.history, record)

	t.emit(&Event{Type: EventHandFinished, Payouts: payouts})
	t.logger.WithFields(logrus.Fields{
		"hand":    t.handID,
		"payouts": payouts,
	}).Info("hand finished")

	if t.options.OnSettlement != nil {
		t.options.OnSettlement(t.handID, deltas)
	}

	t.handsDealt++
	t.phase = PhaseWaiting

	return nil
}

// History returns a record of every completed hand
func (t *Table) History() []*HandRecord {
	return t.history
}

// HandsDealt returns how many hands have been completed
func (t *Table) HandsDealt() int {
	return t.handsDealt
}
