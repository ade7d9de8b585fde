package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Rules are the table settings a game is played under
type Rules struct {
	Decks            int
	DealerHitsSoft17 bool
	MinBet           int
	StartingChips    int
	LoanAmount       int
}

// DefaultRules returns a single-deck table where the dealer hits soft 17
func DefaultRules() Rules {
	return Rules{
		Decks:            1,
		DealerHitsSoft17: true,
		MinBet:           5,
		StartingChips:    100,
		LoanAmount:       100,
	}
}

// Validate checks the rules are playable
func (r Rules) Validate() error {
	if r.Decks < deck.MinDecks || r.Decks > deck.MaxDecks {
		return fmt.Errorf("%w: decks must be between %d and %d, got %d", ErrInvalidRules, deck.MinDecks, deck.MaxDecks, r.Decks)
	}
	if r.MinBet <= 0 {
		return fmt.Errorf("%w: min bet must be positive, got %d", ErrInvalidRules, r.MinBet)
	}
	if r.StartingChips < r.MinBet {
		return fmt.Errorf("%w: starting chips (%d) below min bet (%d)", ErrInvalidRules, r.StartingChips, r.MinBet)
	}
	if r.LoanAmount < r.MinBet {
		return fmt.Errorf("%w: loan amount (%d) below min bet (%d)", ErrInvalidRules, r.LoanAmount, r.MinBet)
	}
	return nil
}
