// Package hand evaluates blackjack hands.
//
// Every function takes a card sequence and nothing else. Aces are handled by
// expanding the set of legal sums rather than tracking a soft flag, so hands
// with several Aces need no special casing:
//
//	hand.LegalSums(deck.MustParseCards("As Ad 9c")) // [11 21 31]
//	hand.BestValue(deck.MustParseCards("As Ad 9c")) // 21
//
// Face-down cards (the dealer's hole card) are invisible to every function
// until they are turned over.
package hand

import (
	"slices"

	"github.com/lox/blackjack/internal/deck"
)

// Blackjack is the target total
const Blackjack = 21

// LegalSums returns every distinct total the face-up cards can make, in
// ascending order. An empty hand has the single sum 0.
func LegalSums(cards []deck.Card) []int {
	sums := []int{0}
	for _, card := range cards {
		if !card.FaceUp {
			continue
		}
		values := card.Values()
		next := make([]int, 0, len(sums)*len(values))
		for _, sum := range sums {
			for _, v := range values {
				next = append(next, sum+v)
			}
		}
		slices.Sort(next)
		sums = slices.Compact(next)
	}
	return sums
}

// BestValue returns the highest legal sum not over 21, or the lowest sum
// when every sum is bust.
func BestValue(cards []deck.Card) int {
	return best(LegalSums(cards))
}

func best(sums []int) int {
	for i := len(sums) - 1; i >= 0; i-- {
		if sums[i] <= Blackjack {
			return sums[i]
		}
	}
	return sums[0]
}

// HardValue returns the total with every Ace counted as 1
func HardValue(cards []deck.Card) int {
	total := 0
	for _, card := range cards {
		if card.FaceUp {
			total += card.Value()
		}
	}
	return total
}

// IsBusted reports whether every legal sum exceeds 21
func IsBusted(cards []deck.Card) bool {
	return BestValue(cards) > Blackjack
}

// IsBlackjack reports whether the cards are a two-card 21
func IsBlackjack(cards []deck.Card) bool {
	return len(cards) == 2 && BestValue(cards) == Blackjack
}

// IsSoft reports whether the best value counts an Ace as 11
func IsSoft(cards []deck.Card) bool {
	return BestValue(cards) != HardValue(cards)
}

// CanSplit reports whether the cards are a pair by value. Tens and court
// cards all count as 10 and split with each other.
func CanSplit(cards []deck.Card) bool {
	return len(cards) == 2 && cards[0].Value() == cards[1].Value()
}

// CanDoubleDown reports whether the hand still has its first two cards
func CanDoubleDown(cards []deck.Card) bool {
	return len(cards) == 2
}

// Revealed returns a copy of the cards with every card face up
func Revealed(cards []deck.Card) []deck.Card {
	out := make([]deck.Card, len(cards))
	for i, c := range cards {
		out[i] = c.Up()
	}
	return out
}
