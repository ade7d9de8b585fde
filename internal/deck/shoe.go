package deck

import (
	rand "math/rand/v2"
)

const (
	// MinDecks and MaxDecks bound the number of decks in a shoe
	MinDecks = 1
	MaxDecks = 8

	// CardsPerDeck is the size of a standard deck
	CardsPerDeck = 52

	// ReshuffleFraction is the remaining fraction below which the shoe
	// should be rebuilt before the next round
	ReshuffleFraction = 0.25
)

// Shoe holds the cards dealt from one or more shuffled decks.
// Cards are dealt from the end of the slice.
type Shoe struct {
	cards   []Card
	stacked []Card
	total   int
	decks   int
	rng     *rand.Rand
}

// NewShoe creates a shuffled shoe of numDecks standard decks
func NewShoe(rng *rand.Rand, numDecks int) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	if numDecks < MinDecks || numDecks > MaxDecks {
		panic("deck count out of range")
	}

	s := &Shoe{
		cards: make([]Card, 0, numDecks*CardsPerDeck),
		decks: numDecks,
		rng:   rng,
	}
	s.Rebuild()
	return s
}

// NewStackedShoe creates an unshuffled shoe that deals the given cards in
// order. Rebuild on a stacked shoe restores the same order.
func NewStackedShoe(cards ...Card) *Shoe {
	s := &Shoe{stacked: append([]Card(nil), cards...)}
	s.Rebuild()
	return s
}

// Rebuild refills the shoe with every card of its decks and shuffles it
func (s *Shoe) Rebuild() {
	if s.rng == nil {
		s.cards = make([]Card, len(s.stacked))
		for i, c := range s.stacked {
			s.cards[len(s.stacked)-1-i] = c.Up()
		}
		s.total = len(s.cards)
		return
	}

	s.cards = s.cards[:0]
	for d := 0; d < s.decks; d++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
	s.total = len(s.cards)
	s.Shuffle()
}

// Shuffle randomizes the order of the remaining cards using Fisher-Yates
func (s *Shoe) Shuffle() {
	if s.rng == nil {
		return
	}
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Deal removes and returns the next card with the requested visibility.
// It returns false once the shoe is exhausted.
func (s *Shoe) Deal(faceUp bool) (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}

	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	if faceUp {
		return card.Up(), true
	}
	return card.Down(), true
}

// Peek returns the next card without removing it
func (s *Shoe) Peek() (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}
	return s.cards[len(s.cards)-1], true
}

// Count returns the number of cards left in the shoe
func (s *Shoe) Count() int {
	return len(s.cards)
}

// Total returns the number of cards in the shoe at its last full build
func (s *Shoe) Total() int {
	return s.total
}

// Decks returns the number of decks the shoe is built from. Stacked shoes
// report zero.
func (s *Shoe) Decks() int {
	return s.decks
}

// IsEmpty returns true if the shoe has no cards left
func (s *Shoe) IsEmpty() bool {
	return len(s.cards) == 0
}

// Stacked reports whether the shoe deals a fixed sequence
func (s *Shoe) Stacked() bool {
	return s.rng == nil
}

// ShouldReshuffle reports whether fewer than a quarter of the cards remain
func (s *Shoe) ShouldReshuffle() bool {
	if s.total == 0 {
		return false
	}
	return float64(len(s.cards))/float64(s.total) < ReshuffleFraction
}
