// Package game runs single-player blackjack rounds.
//
// A Game owns the shoe, the player's stack and the session statistics, and
// moves through Betting, PlayerTurn, DealerTurn and GameOver as the player
// acts. Every action is a method returning an error; a rejected action
// leaves the game exactly as it was. The dealer plays automatically and
// synchronously as soon as the last player hand is finished, so by the time
// Stand returns the round is already paid out.
//
// A Game is not safe for concurrent use. Each session owns one.
package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/hand"
	"github.com/lox/blackjack/internal/roundid"
	"github.com/lox/blackjack/internal/statistics"
)

const welcomeMessage = "Place your bet to start the game"

// PlayerHand is one of the player's hands in the current round
type PlayerHand struct {
	hand.Hand
	Outcome   Outcome
	Payout    int // chips returned at resolution, stake included
	Doubled   bool
	SplitAces bool // split Aces take one card each and cannot be played on
}

// Clone returns a deep copy
func (p PlayerHand) Clone() PlayerHand {
	p.Hand = p.Hand.Clone()
	return p
}

// Game is a blackjack table with one player
type Game struct {
	rules  Rules
	rng    *rand.Rand
	shoe   *deck.Shoe
	logger *log.Logger
	bus    EventBus
	clock  quartz.Clock
	ids    *roundid.Generator

	phase   Phase
	roundID string
	dealer  hand.Hand
	hands   []PlayerHand
	active  int
	chips   int
	loans   int
	message string
	stats   statistics.Statistics

	lastRound *statistics.RoundResult
}

// New creates a game under the given rules. The RNG is required so that
// shuffles are explicit and reproducible from a seed.
func New(rng *rand.Rand, rules Rules, opts ...Option) (*Game, error) {
	if rng == nil {
		panic("rng is required for game creation")
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	g := &Game{
		rules:   rules,
		rng:     rng,
		shoe:    cfg.shoe,
		logger:  cfg.logger.WithPrefix("game"),
		bus:     cfg.bus,
		clock:   cfg.clock,
		ids:     cfg.ids,
		phase:   Betting,
		chips:   rules.StartingChips,
		message: welcomeMessage,
	}
	if g.bus == nil {
		g.bus = NewEventBus()
	}
	if g.shoe == nil {
		g.shoe = deck.NewShoe(rng, rules.Decks)
	}

	g.logger.Debug("Game created", "decks", g.shoe.Decks(), "h17", rules.DealerHitsSoft17, "chips", g.chips)
	return g, nil
}

// EventBus returns the bus round events are published on
func (g *Game) EventBus() EventBus {
	return g.bus
}

// Rules returns the current table rules
func (g *Game) Rules() Rules {
	return g.rules
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// Chips returns the player's stack, excluding chips on the table
func (g *Game) Chips() int {
	return g.chips
}

// Broke reports whether the player cannot cover the table minimum between
// rounds
func (g *Game) Broke() bool {
	return g.chips < g.rules.MinBet && (g.phase == Betting || g.phase == GameOver)
}

// Statistics returns a copy of the session statistics
func (g *Game) Statistics() statistics.Statistics {
	return g.stats.Clone()
}

// LastRound returns the result of the most recently resolved round
func (g *Game) LastRound() (statistics.RoundResult, bool) {
	if g.lastRound == nil {
		return statistics.RoundResult{}, false
	}
	return *g.lastRound, true
}

// State is a read-only copy of everything a presentation layer needs
type State struct {
	RoundID       string
	Phase         Phase
	Dealer        hand.Hand
	Hands         []PlayerHand
	ActiveHand    int
	Chips         int
	Loans         int
	ShoeRemaining int
	ShoeTotal     int
	Message       string
	Broke         bool
	Stats         statistics.Statistics
	Rules         Rules
}

// Snapshot returns a deep copy of the current state
func (g *Game) Snapshot() State {
	hands := make([]PlayerHand, len(g.hands))
	for i, h := range g.hands {
		hands[i] = h.Clone()
	}
	return State{
		RoundID:       g.roundID,
		Phase:         g.phase,
		Dealer:        g.dealer.Clone(),
		Hands:         hands,
		ActiveHand:    g.active,
		Chips:         g.chips,
		Loans:         g.loans,
		ShoeRemaining: g.shoe.Count(),
		ShoeTotal:     g.shoe.Total(),
		Message:       g.message,
		Broke:         g.Broke(),
		Stats:         g.stats.Clone(),
		Rules:         g.rules,
	}
}

// DealerValue returns the value of the dealer's visible cards
func (s State) DealerValue() int {
	return s.Dealer.Value()
}

// DealerUpcard returns the dealer's face-up card, if one has been dealt
func (s State) DealerUpcard() (deck.Card, bool) {
	for _, c := range s.Dealer.Cards {
		if c.FaceUp {
			return c, true
		}
	}
	return deck.Card{}, false
}

// Active returns the hand being played, if any
func (s State) Active() (PlayerHand, bool) {
	if s.Phase != PlayerTurn || s.ActiveHand >= len(s.Hands) {
		return PlayerHand{}, false
	}
	return s.Hands[s.ActiveHand], true
}

// TotalBet returns the chips on the table across every hand
func (s State) TotalBet() int {
	total := 0
	for _, h := range s.Hands {
		total += h.Bet
	}
	return total
}

// SetRules changes the table rules between rounds. Changing the number of
// decks replaces the shoe.
func (g *Game) SetRules(rules Rules) error {
	if g.phase != Betting && g.phase != GameOver {
		return fmt.Errorf("set rules during %s: %w", g.phase, ErrWrongPhase)
	}
	if err := rules.Validate(); err != nil {
		return err
	}

	decksChanged := rules.Decks != g.rules.Decks
	g.rules = rules
	if decksChanged {
		g.shoe = deck.NewShoe(g.rng, rules.Decks)
		g.publishShuffle()
	}

	g.logger.Debug("Rules changed", "decks", rules.Decks, "h17", rules.DealerHitsSoft17, "minBet", rules.MinBet)
	return nil
}

// NewRound clears the table after a resolved round. It is refused while the
// player is broke.
func (g *Game) NewRound() error {
	if g.phase != GameOver {
		return fmt.Errorf("new round during %s: %w", g.phase, ErrWrongPhase)
	}
	if g.Broke() {
		g.publish(PlayerBrokeEvent{stamp: g.stamp(), Chips: g.chips, MinBet: g.rules.MinBet})
		return fmt.Errorf("%d chips below minimum bet %d: %w", g.chips, g.rules.MinBet, ErrBroke)
	}

	g.clearTable()
	if g.shoe.ShouldReshuffle() {
		g.reshuffle()
	}
	g.message = welcomeMessage
	g.setPhase(Betting)
	return nil
}

// ResetGame restores the starting stake, clears statistics and loans and
// rebuilds the shoe. It is allowed in every phase.
func (g *Game) ResetGame() {
	g.clearTable()
	g.chips = g.rules.StartingChips
	g.loans = 0
	g.stats.Reset()
	g.lastRound = nil
	g.reshuffle()
	g.message = welcomeMessage
	g.setPhase(Betting)
	g.logger.Debug("Game reset", "chips", g.chips)
}

// ApplyLoan grants the configured loan to a broke player between rounds
func (g *Game) ApplyLoan() error {
	if g.phase != Betting && g.phase != GameOver {
		return fmt.Errorf("loan during %s: %w", g.phase, ErrWrongPhase)
	}
	if !g.Broke() {
		return fmt.Errorf("%d chips covers minimum bet %d: %w", g.chips, g.rules.MinBet, ErrNotBroke)
	}

	g.chips += g.rules.LoanAmount
	g.loans++
	g.message = fmt.Sprintf("Loan of %d chips granted", g.rules.LoanAmount)
	g.logger.Debug("Loan granted", "amount", g.rules.LoanAmount, "chips", g.chips, "loans", g.loans)
	return nil
}

func (g *Game) clearTable() {
	g.roundID = ""
	g.dealer = hand.Hand{}
	g.hands = nil
	g.active = 0
}

func (g *Game) reshuffle() {
	g.shoe.Rebuild()
	g.publishShuffle()
	g.logger.Debug("Shoe rebuilt", "cards", g.shoe.Count())
}

func (g *Game) publishShuffle() {
	g.publish(ShoeShuffledEvent{stamp: g.stamp(), Decks: g.shoe.Decks(), Cards: g.shoe.Count()})
}

func (g *Game) setPhase(to Phase) {
	if to == g.phase {
		return
	}
	from := g.phase
	g.phase = to
	g.logger.Debug("Phase change", "from", from, "to", to, "round", g.roundID)
	g.publish(PhaseChangeEvent{stamp: g.stamp(), RoundID: g.roundID, From: from, To: to})
}

func (g *Game) stamp() stamp {
	return stamp{at: g.clock.Now()}
}

func (g *Game) publish(event GameEvent) {
	g.bus.Publish(event)
}
