package game

import "errors"

var (
	// ErrWrongPhase indicates the action is not allowed in the current phase.
	ErrWrongPhase = errors.New("game: action not allowed in this phase")

	// ErrInvalidBet indicates a bet that is zero or negative.
	ErrInvalidBet = errors.New("game: invalid bet")

	// ErrInsufficientChips indicates the player cannot cover the stake.
	ErrInsufficientChips = errors.New("game: insufficient chips")

	// ErrCannotSplit indicates the active hand is not a pair or the split
	// cannot be covered.
	ErrCannotSplit = errors.New("game: hand cannot be split")

	// ErrCannotDouble indicates the active hand no longer has its first two
	// cards or the double cannot be covered.
	ErrCannotDouble = errors.New("game: hand cannot be doubled")

	// ErrShoeEmpty indicates the shoe ran out of cards mid-round.
	ErrShoeEmpty = errors.New("game: shoe is empty")

	// ErrBroke indicates the player cannot afford the table minimum.
	ErrBroke = errors.New("game: player is broke")

	// ErrNotBroke indicates a loan was requested by a solvent player.
	ErrNotBroke = errors.New("game: player is not broke")

	// ErrInvalidRules indicates a rules value out of range.
	ErrInvalidRules = errors.New("game: invalid rules")
)
