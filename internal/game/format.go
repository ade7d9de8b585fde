package game

import "fmt"

// Describe renders an event as a single human-readable line for logs and
// the table's event pane
func Describe(event GameEvent) string {
	switch e := event.(type) {
	case RoundStartEvent:
		return fmt.Sprintf("Round %s: betting %d of %d chips", shortID(e.RoundID), e.Bet, e.Chips)
	case BetPlacedEvent:
		switch e.Kind {
		case BetDouble:
			return fmt.Sprintf("Hand %d doubles down for %d more", e.HandIndex+1, e.Amount)
		case BetSplit:
			return fmt.Sprintf("Split: hand %d stakes %d", e.HandIndex+1, e.Amount)
		default:
			return fmt.Sprintf("Bet %d placed", e.Amount)
		}
	case CardDealtEvent:
		if e.Dealer {
			if !e.Card.FaceUp {
				return "Dealer takes a hole card"
			}
			return fmt.Sprintf("Dealer draws %s (%d)", e.Card, e.Value)
		}
		return fmt.Sprintf("Hand %d draws %s (%d)", e.HandIndex+1, e.Card, e.Value)
	case CardFlippedEvent:
		return fmt.Sprintf("Dealer reveals %s (%d)", e.Card, e.DealerValue)
	case ShoeShuffledEvent:
		return fmt.Sprintf("Shoe shuffled: %d cards", e.Cards)
	case HandResolvedEvent:
		return describeResolved(e)
	case RoundEndEvent:
		return fmt.Sprintf("%s (net %+d, chips %d)", e.Message, e.Result.Net(), e.Chips)
	case PlayerBrokeEvent:
		return fmt.Sprintf("Out of chips: %d left, minimum bet is %d", e.Chips, e.MinBet)
	case PhaseChangeEvent:
		return fmt.Sprintf("Phase %s -> %s", e.From, e.To)
	default:
		return event.EventType().String()
	}
}

func describeResolved(e HandResolvedEvent) string {
	switch e.Outcome {
	case BlackjackWin:
		return fmt.Sprintf("Hand %d: blackjack pays %d", e.HandIndex+1, e.Payout)
	case Win:
		return fmt.Sprintf("Hand %d wins %d (%d vs %d)", e.HandIndex+1, e.Payout-e.Bet, e.PlayerValue, e.DealerValue)
	case Push:
		return fmt.Sprintf("Hand %d pushes at %d", e.HandIndex+1, e.PlayerValue)
	default:
		if e.PlayerValue > 21 {
			return fmt.Sprintf("Hand %d busts with %d, loses %d", e.HandIndex+1, e.PlayerValue, e.Bet)
		}
		return fmt.Sprintf("Hand %d loses %d (%d vs %d)", e.HandIndex+1, e.Bet, e.PlayerValue, e.DealerValue)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
