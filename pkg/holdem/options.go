package holdem

import (
	"errors"

	"github.com/google/uuid"
)

// Options configures how Texas Hold'em is played
type Options struct {
	SmallBlind int
	BigBlind   int

	// Seed seeds the shuffle for every hand. A value of 0 shuffles randomly.
	Seed int64

	// OnSettlement, if set, is called at the end of each hand with the net
	// chip movement for every seat that was dealt in
	OnSettlement func(handID uuid.UUID, deltas map[int64]int)
}

// DefaultOptions returns the default options for Texas Hold'em
func DefaultOptions() Options {
	return Options{
		SmallBlind: 25,
		BigBlind:   50,
	}
}

func validateOptions(opts Options) error {
	if opts.SmallBlind <= 0 {
		return errors.New("small blind must be > 0")
	}

	if opts.BigBlind < opts.SmallBlind {
		return errors.New("big blind must be at least the small blind")
	}

	if opts.Seed < 0 {
		return errors.New("seed must be >= 0")
	}

	return nil
}
