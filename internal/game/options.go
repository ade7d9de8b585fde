package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/roundid"
)

// Option configures a Game during creation.
type Option func(*gameConfig)

type gameConfig struct {
	logger *log.Logger
	bus    EventBus
	clock  quartz.Clock
	shoe   *deck.Shoe
	ids    *roundid.Generator
}

func defaultConfig() *gameConfig {
	return &gameConfig{
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		clock:  quartz.NewReal(),
		ids:    roundid.NewGenerator(nil),
	}
}

// WithLogger sets the logger. Transitions are logged at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(c *gameConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEventBus publishes round events on the given bus instead of a private one.
func WithEventBus(bus EventBus) Option {
	return func(c *gameConfig) {
		c.bus = bus
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) Option {
	return func(c *gameConfig) {
		c.clock = clock
	}
}

// WithShoe deals from a prepared shoe. A stacked shoe makes every round
// deterministic; rebuilding it restores the stacked order.
func WithShoe(shoe *deck.Shoe) Option {
	return func(c *gameConfig) {
		c.shoe = shoe
	}
}

// WithRoundIDs sets the generator used to name rounds.
func WithRoundIDs(ids *roundid.Generator) Option {
	return func(c *gameConfig) {
		c.ids = ids
	}
}
