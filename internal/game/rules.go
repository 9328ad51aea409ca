package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidBet           = errors.New("invalid bet")
	ErrWrongPhase           = errors.New("action not allowed in this phase")
)

// Rules is the in-process configuration of a match.
type Rules struct {
	DeckSize           int
	ReshuffleThreshold int
	StartingChips      int
	MinimumBet         int
	// TargetChips ends the match once the balance reaches it; 0 disables it.
	TargetChips      int
	AggressiveDealer bool
}

func DefaultRules() Rules {
	return Rules{
		DeckSize:           52,
		ReshuffleThreshold: 10,
		StartingChips:      100,
		MinimumBet:         10,
		AggressiveDealer:   true,
	}
}

func (r Rules) Validate() error {
	switch {
	case r.DeckSize <= 0:
		return fmt.Errorf("%w: deck size must be positive, got %d", ErrInvalidConfiguration, r.DeckSize)
	case r.ReshuffleThreshold < 0:
		return fmt.Errorf("%w: reshuffle threshold must not be negative, got %d", ErrInvalidConfiguration, r.ReshuffleThreshold)
	case r.StartingChips <= 0:
		return fmt.Errorf("%w: starting chips must be positive, got %d", ErrInvalidConfiguration, r.StartingChips)
	case r.MinimumBet <= 0:
		return fmt.Errorf("%w: minimum bet must be positive, got %d", ErrInvalidConfiguration, r.MinimumBet)
	case r.StartingChips < r.MinimumBet:
		return fmt.Errorf("%w: starting chips %d cannot cover minimum bet %d", ErrInvalidConfiguration, r.StartingChips, r.MinimumBet)
	case r.TargetChips < 0:
		return fmt.Errorf("%w: target chips must not be negative, got %d", ErrInvalidConfiguration, r.TargetChips)
	case r.TargetChips > 0 && r.TargetChips <= r.StartingChips:
		return fmt.Errorf("%w: target chips %d must exceed starting chips %d", ErrInvalidConfiguration, r.TargetChips, r.StartingChips)
	}
	return nil
}
