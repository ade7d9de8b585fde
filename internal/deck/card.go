package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in build order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Ranks lists every rank in build order
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		if r >= Two && r <= Ten {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Values returns every value the rank can count for.
// Aces count as 1 or 11, court cards as 10.
func (r Rank) Values() []int {
	switch {
	case r == Ace:
		return []int{1, 11}
	case r >= Two && r <= Ten:
		return []int{int(r)}
	case r >= Jack && r <= King:
		return []int{10}
	default:
		return []int{0}
	}
}

// HardValue returns the lowest value of the rank (Ace as 1)
func (r Rank) HardValue() int {
	return r.Values()[0]
}

// Card is an immutable playing card. FaceUp is part of the value, so
// turning a card over yields a new Card rather than changing a shared one.
type Card struct {
	Suit   Suit
	Rank   Rank
	FaceUp bool
}

// NewCard creates a new face-up card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank, FaceUp: true}
}

// Up returns a face-up copy of the card
func (c Card) Up() Card {
	c.FaceUp = true
	return c
}

// Down returns a face-down copy of the card
func (c Card) Down() Card {
	c.FaceUp = false
	return c
}

// String returns the string representation of a card (e.g., "A♠").
// Face-down cards render as "??".
func (c Card) String() string {
	if !c.FaceUp {
		return "??"
	}
	return c.Rank.String() + c.Suit.String()
}

// Face returns the card's rank and suit regardless of visibility
func (c Card) Face() string {
	return c.Rank.String() + c.Suit.String()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// Values returns the values the card can count for
func (c Card) Values() []int {
	return c.Rank.Values()
}

// Value returns the card's hard value (Ace as 1, court cards as 10)
func (c Card) Value() int {
	return c.Rank.HardValue()
}

// SameIdentity reports whether two cards have the same suit and rank,
// ignoring visibility.
func (c Card) SameIdentity(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// ParseCard parses a card like "As", "Td", "10h" or "Kc" into a face-up Card
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	rankPart, suitPart := s[:len(s)-1], s[len(s)-1:]

	var rank Rank
	switch strings.ToUpper(rankPart) {
	case "A":
		rank = Ace
	case "T", "10":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	default:
		if len(rankPart) != 1 || rankPart[0] < '2' || rankPart[0] > '9' {
			return Card{}, fmt.Errorf("invalid rank: %q", rankPart)
		}
		rank = Rank(rankPart[0] - '0')
	}

	var suit Suit
	switch strings.ToLower(suitPart) {
	case "h":
		suit = Hearts
	case "d":
		suit = Diamonds
	case "c":
		suit = Clubs
	case "s":
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit: %q", suitPart)
	}

	return NewCard(suit, rank), nil
}

// ParseCards parses a space separated list of cards, e.g. "As Kd 10h"
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		card, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
