// Package strategy recommends player decisions.
//
// Basic follows the standard multi-deck basic strategy chart for a dealer
// who hits soft 17, with the usual fallbacks when the chart's first choice
// is not allowed: a double becomes a hit (or a stand on soft 18 and 19) and
// an unaffordable split is played as the hand's total.
package strategy

import (
	"fmt"
	"slices"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/hand"
)

// Strategy picks an action for the active hand
type Strategy interface {
	Name() string
	Decide(s game.State) (Advice, error)
}

// Advice is a recommended action with a short explanation
type Advice struct {
	Action game.Action
	Reason string
}

func (a Advice) String() string {
	return fmt.Sprintf("%s (%s)", a.Action, a.Reason)
}

// ByName returns a strategy by its name
func ByName(name string) (Strategy, error) {
	switch name {
	case "basic", "":
		return Basic{}, nil
	case "mimic":
		return MimicDealer{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want basic or mimic)", name)
	}
}

// Chart entries
const (
	hit         = 'H'
	stand       = 'S'
	double      = 'D' // double, otherwise hit
	doubleStand = 'X' // double, otherwise stand
	split       = 'P'
)

// Columns are the dealer upcard 2 through 10, then Ace.
var hardChart = map[int]string{
	9:  "HDDDDHHHHH",
	10: "DDDDDDDDHH",
	11: "DDDDDDDDDD",
	12: "HHSSSHHHHH",
	13: "SSSSSHHHHH",
	14: "SSSSSHHHHH",
	15: "SSSSSHHHHH",
	16: "SSSSSHHHHH",
}

var softChart = map[int]string{
	13: "HHHDDHHHHH",
	14: "HHHDDHHHHH",
	15: "HHDDDHHHHH",
	16: "HHDDDHHHHH",
	17: "HDDDDHHHHH",
	18: "XXXXXSSHHH",
	19: "SSSSXSSSSS",
}

// Rows are the value of one card of the pair, Ace as 11. Fives are
// missing on purpose: a pair of fives is played as hard 10.
var pairChart = map[int]string{
	2:  "PPPPPPHHHH",
	3:  "PPPPPPHHHH",
	4:  "HHHPPHHHHH",
	6:  "PPPPPHHHHH",
	7:  "PPPPPPHHHH",
	8:  "PPPPPPPPPP",
	9:  "PPPPPSPPSS",
	10: "SSSSSSSSSS",
	11: "PPPPPPPPPP",
}

// Basic plays the chart
type Basic struct{}

// Name implements Strategy
func (Basic) Name() string { return "basic" }

// Decide implements Strategy
func (Basic) Decide(s game.State) (Advice, error) {
	h, ok := s.Active()
	if !ok {
		return Advice{}, fmt.Errorf("no hand to play during %s", s.Phase)
	}
	up, ok := s.DealerUpcard()
	if !ok {
		return Advice{}, fmt.Errorf("dealer has no upcard")
	}
	return Recommend(h.Cards, up, s.LegalActions()), nil
}

// Recommend returns the chart's play for the cards against a dealer upcard,
// restricted to the legal actions
func Recommend(cards []deck.Card, upcard deck.Card, legal []game.Action) Advice {
	col := column(upcard)
	vs := fmt.Sprintf("vs %s", upcard.Rank)

	if hand.CanSplit(cards) {
		pairValue := cardValue(cards[0])
		if row, ok := pairChart[pairValue]; ok && row[col] == split && slices.Contains(legal, game.ActionSplit) {
			return Advice{Action: game.ActionSplit, Reason: fmt.Sprintf("pair of %ss %s", cards[0].Rank, vs)}
		}
	}

	total := hand.BestValue(cards)
	soft := hand.IsSoft(cards)

	var entry byte
	var label string
	switch {
	case soft:
		label = fmt.Sprintf("soft %d %s", total, vs)
		entry = lookup(softChart, total, col, stand)
		if total < 13 {
			entry = hit
		}
	default:
		label = fmt.Sprintf("hard %d %s", total, vs)
		entry = lookup(hardChart, total, col, stand)
		if total < 9 {
			entry = hit
		}
	}

	return Advice{Action: resolve(entry, legal), Reason: label}
}

func lookup(chart map[int]string, total, col int, otherwise byte) byte {
	row, ok := chart[total]
	if !ok {
		return otherwise
	}
	return row[col]
}

func resolve(entry byte, legal []game.Action) game.Action {
	canDouble := slices.Contains(legal, game.ActionDouble)
	switch entry {
	case double:
		if canDouble {
			return game.ActionDouble
		}
		return game.ActionHit
	case doubleStand:
		if canDouble {
			return game.ActionDouble
		}
		return game.ActionStand
	case hit:
		return game.ActionHit
	default:
		return game.ActionStand
	}
}

// column maps a dealer upcard to a chart column: 2 is 0, Ace is 9
func column(upcard deck.Card) int {
	return cardValue(upcard) - 2
}

func cardValue(c deck.Card) int {
	if c.IsAce() {
		return 11
	}
	return c.Value()
}

// MimicDealer hits below 17 and stands otherwise, never doubling or
// splitting
type MimicDealer struct{}

// Name implements Strategy
func (MimicDealer) Name() string { return "mimic" }

// Decide implements Strategy
func (MimicDealer) Decide(s game.State) (Advice, error) {
	h, ok := s.Active()
	if !ok {
		return Advice{}, fmt.Errorf("no hand to play during %s", s.Phase)
	}
	if h.Value() < 17 {
		return Advice{Action: game.ActionHit, Reason: fmt.Sprintf("%d is below 17", h.Value())}, nil
	}
	return Advice{Action: game.ActionStand, Reason: fmt.Sprintf("%d stands", h.Value())}, nil
}
