package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/statistics"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for round events. Events are advisory: they describe
// what the engine already did and carry no state the engine depends on.
const (
	EventTypeRoundStart   EventType = "round_start"
	EventTypeBetPlaced    EventType = "bet_placed"
	EventTypeCardDealt    EventType = "card_dealt"
	EventTypeCardFlipped  EventType = "card_flipped"
	EventTypeShoeShuffled EventType = "shoe_shuffled"
	EventTypeHandWon      EventType = "hand_won"
	EventTypeHandLost     EventType = "hand_lost"
	EventTypeHandPushed   EventType = "hand_pushed"
	EventTypeBlackjack    EventType = "blackjack"
	EventTypeRoundEnd     EventType = "round_end"
	EventTypePlayerBroke  EventType = "player_broke"
	EventTypePhaseChange  EventType = "phase_change"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens at the table
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

type stamp struct {
	at time.Time
}

func (s stamp) Timestamp() time.Time { return s.at }

// RoundStartEvent is published when a bet opens a new round
type RoundStartEvent struct {
	stamp
	RoundID string
	Bet     int
	Chips   int // chips before the stake is taken
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }

// BetKind distinguishes the ways chips go on the table
type BetKind string

const (
	BetInitial BetKind = "bet"
	BetDouble  BetKind = "double"
	BetSplit   BetKind = "split"
)

// BetPlacedEvent is published whenever chips move from the stack to a hand
type BetPlacedEvent struct {
	stamp
	RoundID   string
	HandIndex int
	Kind      BetKind
	Amount    int
	Chips     int // chips left after the stake
}

func (e BetPlacedEvent) EventType() EventType { return EventTypeBetPlaced }

// CardDealtEvent is published for every card leaving the shoe
type CardDealtEvent struct {
	stamp
	RoundID   string
	Card      deck.Card
	Dealer    bool
	HandIndex int // player hand index, -1 for the dealer
	Value     int // visible value of the receiving hand after the card
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }

// CardFlippedEvent is published when the dealer's hole card is turned over
type CardFlippedEvent struct {
	stamp
	RoundID     string
	Card        deck.Card
	DealerValue int
}

func (e CardFlippedEvent) EventType() EventType { return EventTypeCardFlipped }

// ShoeShuffledEvent is published whenever the shoe is rebuilt
type ShoeShuffledEvent struct {
	stamp
	Decks int
	Cards int
}

func (e ShoeShuffledEvent) EventType() EventType { return EventTypeShoeShuffled }

// HandResolvedEvent is published once per player hand when its outcome is
// final. The event type follows the outcome.
type HandResolvedEvent struct {
	stamp
	RoundID     string
	HandIndex   int
	Outcome     Outcome
	Bet         int
	Payout      int // chips returned, stake included
	PlayerValue int
	DealerValue int
}

func (e HandResolvedEvent) EventType() EventType {
	switch e.Outcome {
	case Win:
		return EventTypeHandWon
	case Push:
		return EventTypeHandPushed
	case BlackjackWin:
		return EventTypeBlackjack
	default:
		return EventTypeHandLost
	}
}

// RoundEndEvent is published after payouts
type RoundEndEvent struct {
	stamp
	RoundID string
	Result  statistics.RoundResult
	Message string
	Chips   int
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }

// PlayerBrokeEvent is published when the stack can no longer cover the
// table minimum
type PlayerBrokeEvent struct {
	stamp
	Chips  int
	MinBet int
}

func (e PlayerBrokeEvent) EventType() EventType { return EventTypePlayerBroke }

// PhaseChangeEvent is published on every phase transition
type PhaseChangeEvent struct {
	stamp
	RoundID string
	From    Phase
	To      Phase
}

func (e PhaseChangeEvent) EventType() EventType { return EventTypePhaseChange }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish delivers an event to every subscriber synchronously, in
// subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

