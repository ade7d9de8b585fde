package game

// Phase is the round's position in the betting/play/resolve cycle
type Phase int

const (
	// Betting waits for a wager before cards are dealt
	Betting Phase = iota
	// PlayerTurn waits for the player to act on the active hand
	PlayerTurn
	// DealerTurn is the dealer drawing to a standing total
	DealerTurn
	// GameOver means every hand is resolved and payouts are made
	GameOver
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Betting:
		return "betting"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Outcome is the resolved result of one player hand
type Outcome int

const (
	Pending Outcome = iota
	Win
	Lose
	Push
	BlackjackWin
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Push:
		return "push"
	case BlackjackWin:
		return "blackjack"
	default:
		return "unknown"
	}
}

// Resolved reports whether the outcome is final
func (o Outcome) Resolved() bool {
	return o != Pending
}
