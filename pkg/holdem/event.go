package holdem

import (
	"github.com/google/uuid"
	"holdem-engine/pkg/deck"
)

// EventType identifies what happened at the table
type EventType string

// event type constants
const (
	EventBlindPosted    EventType = "blind-posted"
	EventCardsDealt     EventType = "cards-dealt"
	EventActionTaken    EventType = "action-taken"
	EventStreetAdvanced EventType = "street-advanced"
	EventHandShowdown   EventType = "hand-showdown"
	EventPotAwarded     EventType = "pot-awarded"
	EventHandFinished   EventType = "hand-finished"
)

// Event is a single entry on the table's event stream. Only the fields
// relevant to the event type are set.
type Event struct {
	ID     uuid.UUID `json:"id"`
	HandID uuid.UUID `json:"handId"`
	Type   EventType `json:"type"`
	Phase  Phase     `json:"phase"`

	// SeatID is set for seat-scoped events
	SeatID int64 `json:"seatId,omitempty"`

	// Action and Amount are set for action-taken and blind-posted events
	Action Action `json:"action,omitempty"`
	Amount int    `json:"amount,omitempty"`

	// Cards holds hole cards for cards-dealt and the new community cards
	// for street-advanced
	Cards deck.Hand `json:"cards,omitempty"`

	// Hands describes the revealed hands at showdown
	Hands map[int64]string `json:"hands,omitempty"`

	// Payouts is set for pot-awarded and hand-finished events
	Payouts map[int64]int `json:"payouts,omitempty"`
}

func (t *Table) emit(e *Event) {
	e.ID = uuid.New()
	e.HandID = t.handID
	e.Phase = t.phase

	select {
	case t.events <- e:
	default:
		t.logger.WithField("type", e.Type).Warn("event buffer is full; dropping event")
	}
}

// Events returns the table's event stream. The channel is buffered; events
// are dropped if the consumer falls too far behind.
func (t *Table) Events() <-chan *Event {
	return t.events
}
