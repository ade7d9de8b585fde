package hand

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Hand is a set of cards with the chips riding on it
type Hand struct {
	Cards []deck.Card
	Bet   int
}

// New creates a hand holding the given bet
func New(bet int, cards ...deck.Card) Hand {
	return Hand{Cards: append([]deck.Card(nil), cards...), Bet: bet}
}

// Add appends a card
func (h *Hand) Add(card deck.Card) {
	h.Cards = append(h.Cards, card)
}

func (h Hand) Sums() []int { return LegalSums(h.Cards) }
func (h Hand) Value() int { return BestValue(h.Cards) }
func (h Hand) IsBusted() bool { return IsBusted(h.Cards) }
func (h Hand) IsBlackjack() bool { return IsBlackjack(h.Cards) }
func (h Hand) IsSoft() bool { return IsSoft(h.Cards) }
func (h Hand) CanSplit() bool { return CanSplit(h.Cards) }
func (h Hand) CanDoubleDown() bool { return CanDoubleDown(h.Cards) }

// Clone returns a deep copy
func (h Hand) Clone() Hand {
	return Hand{Cards: append([]deck.Card(nil), h.Cards...), Bet: h.Bet}
}

// Describe renders the total the way a dealer calls it, e.g. "soft 17",
// "21", "bust 24" or "blackjack".
func (h Hand) Describe() string {
	switch {
	case len(h.Cards) == 0:
		return "-"
	case h.IsBlackjack():
		return "blackjack"
	case h.IsBusted():
		return fmt.Sprintf("bust %d", h.Value())
	case h.IsSoft():
		return fmt.Sprintf("soft %d", h.Value())
	default:
		return fmt.Sprintf("%d", h.Value())
	}
}

// String renders the cards, e.g. "[A♠ K♦]"
func (h Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
