package holdem

import (
	"errors"
	"fmt"
)

// ErrInsufficientPlayers is returned by StartHand when fewer than two seats
// can post chips
var ErrInsufficientPlayers = errors.New("there must be at least two players with chips")

// InvalidActionError is returned when a player attempts an action that is not
// allowed. The table state is unchanged and the hand can continue.
type InvalidActionError struct {
	Err error
}

func newInvalidActionError(format string, a ...interface{}) *InvalidActionError {
	return &InvalidActionError{Err: fmt.Errorf(format, a...)}
}

func (e *InvalidActionError) Error() string {
	return e.Err.Error()
}

// Unwrap supports errors.Is and errors.As
func (e *InvalidActionError) Unwrap() error {
	return e.Err
}
