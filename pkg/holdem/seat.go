package holdem

import (
	"holdem-engine/pkg/deck"
)

type result string

const (
	resultPending result = ""
	resultFolded  result = "folded"
	resultLost    result = "lost"
	resultWon     result = "won"
)

// Seat represents an individual player at the table
type Seat struct {
	SeatID int64
	IsBot  bool

	chips      int
	startChips int
	cards      deck.Hand
	bet        int

	inHand bool
	folded bool
	reveal bool

	result   result
	winnings int
}

// SeatConfig describes a seat to create at the table
type SeatConfig struct {
	SeatID int64 `json:"seatId" yaml:"seatId"`
	Chips  int   `json:"chips" yaml:"chips"`
	IsBot  bool  `json:"isBot" yaml:"isBot"`
}

func newSeat(cfg SeatConfig) *Seat {
	return &Seat{
		SeatID: cfg.SeatID,
		IsBot:  cfg.IsBot,
		chips:  cfg.Chips,
		cards:  make(deck.Hand, 0, 2),
	}
}

// newHand resets the seat for the next hand
func (s *Seat) newHand(inHand bool) {
	s.startChips = s.chips
	s.cards = make(deck.Hand, 0, 2)
	s.bet = 0
	s.inHand = inHand
	s.folded = false
	s.reveal = false
	s.result = resultPending
	s.winnings = 0
}

// Chips returns the seat's current stack
func (s *Seat) Chips() int {
	return s.chips
}

// Folded returns true if the seat folded this hand
func (s *Seat) Folded() bool {
	return s.folded
}

// IsAllIn returns true if the seat is still in the hand with no chips behind
func (s *Seat) IsAllIn() bool {
	return s.inHand && !s.folded && s.chips == 0
}

// SeatState is the outward-facing view of a seat. Hole cards are only
// included once the seat reveals at showdown.
type SeatState struct {
	SeatID   int64     `json:"seatId"`
	IsBot    bool      `json:"isBot"`
	Chips    int       `json:"chips"`
	Bet      int       `json:"currentBet"`
	InHand   bool      `json:"inHand"`
	Folded   bool      `json:"folded"`
	AllIn    bool      `json:"allIn"`
	YetToAct bool      `json:"yetToAct,omitempty"`
	Cards    deck.Hand `json:"cards,omitempty"`
	Hand     string    `json:"hand,omitempty"`
	Result   result    `json:"result,omitempty"`
	Winnings int       `json:"winnings,omitempty"`
}

func (s *Seat) seatState(hand string, yetToAct bool) *SeatState {
	var cards deck.Hand
	if s.reveal && !s.folded {
		cards = s.cards.Clone()
	} else {
		hand = ""
	}

	return &SeatState{
		SeatID:   s.SeatID,
		IsBot:    s.IsBot,
		Chips:    s.chips,
		Bet:      s.bet,
		InHand:   s.inHand,
		Folded:   s.folded,
		AllIn:    s.IsAllIn(),
		YetToAct: yetToAct,
		Cards:    cards,
		Hand:     hand,
		Result:   s.result,
		Winnings: s.winnings,
	}
}

// potmanager.Participant interface

// ID returns the seat identifier
func (s *Seat) ID() int64 {
	return s.SeatID
}

// Balance returns the chips behind
func (s *Seat) Balance() int {
	return s.chips
}

// AdjustBalance adds the amount to the seat's stack
func (s *Seat) AdjustBalance(amount int) {
	s.chips += amount
}

// SetAmountInPlay mirrors the seat's total bet for the current street
func (s *Seat) SetAmountInPlay(amount int) {
	s.bet = amount
}
