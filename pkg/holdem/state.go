package holdem

import (
	"github.com/google/uuid"
	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/holdem/handrank"
	"holdem-engine/pkg/holdem/potmanager"
)

// PublicState is the outward-facing view of the table. Hole cards are
// omitted until a seat reveals at showdown.
type PublicState struct {
	HandID      uuid.UUID       `json:"handId"`
	Phase       Phase           `json:"phase"`
	DealerSeat  int64           `json:"dealerSeat"`
	Community   deck.Hand       `json:"community"`
	Pots        potmanager.Pots `json:"pots"`
	Pot         int             `json:"pot"`
	CurrentBet  int             `json:"currentBet"`
	MinRaise    int             `json:"minRaise"`
	CurrentTurn int64           `json:"currentTurn"`
	Actions     []Action        `json:"actions"`
	LastAction  *LastAction     `json:"lastAction"`
	Seats       []*SeatState    `json:"seats"`
}

// State returns the current public state of the table
func (t *Table) State() *PublicState {
	state := &PublicState{
		HandID:     t.handID,
		Phase:      t.phase,
		DealerSeat: t.seats[t.dealerIndex].SeatID,
		Community:  t.community.Clone(),
		LastAction: t.lastAction,
		Seats:      make([]*SeatState, len(t.seats)),
	}

	if t.potManager != nil {
		state.Pots = t.potManager.Pots()
		state.Pot = t.potManager.Total()
		state.CurrentBet = t.potManager.GetBet()
		state.MinRaise = t.potManager.GetMinRaise()

		if t.phase.IsBettingRound() {
			if turn := t.potManager.GetInTurnParticipant(); turn != nil {
				state.CurrentTurn = turn.ID()
				state.Actions = t.ActionsForSeat(turn.ID())
			}
		}
	}

	for i, s := range t.seats {
		var hand string
		if s.reveal && !s.folded && len(s.cards) == 2 {
			if eval := handrank.EvaluateBest(s.cards, t.community); eval.Category != handrank.Incomplete {
				hand = eval.Category.String()
			}
		}

		yetToAct := false
		if t.potManager != nil && t.phase.IsBettingRound() {
			yetToAct = t.potManager.IsParticipantYetToAct(s)
		}

		state.Seats[i] = s.seatState(hand, yetToAct)
	}

	return state
}
