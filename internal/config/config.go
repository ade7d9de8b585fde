package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjack/internal/game"
)

// DefaultFile is the config file read when none is named
const DefaultFile = "blackjack.hcl"

// Config represents the complete configuration
type Config struct {
	Table      TableSettings
	UI         UISettings
	Simulation SimulationSettings
}

// TableSettings are the house rules
type TableSettings struct {
	Decks            int
	DealerHitsSoft17 bool
	MinBet           int
	StartingChips    int
	LoanAmount       int
}

// UISettings contains terminal interface settings
type UISettings struct {
	LogFile       string
	LogLevel      string
	DealerDelayMs int
	ShowStats     bool
	Color         bool
}

// SimulationSettings contains defaults for the simulate command
type SimulationSettings struct {
	Sessions       int
	Rounds         int
	Bet            int
	Strategy       string
	TimeoutSeconds int
}

// fileConfig mirrors the HCL layout. Every block and attribute is optional,
// so pointers tell an explicit zero or false apart from a missing value.
type fileConfig struct {
	Table      *tableBlock      `hcl:"table,block"`
	UI         *uiBlock         `hcl:"ui,block"`
	Simulation *simulationBlock `hcl:"simulation,block"`
}

type tableBlock struct {
	Decks            *int  `hcl:"decks,optional"`
	DealerHitsSoft17 *bool `hcl:"dealer_hits_soft_17,optional"`
	MinBet           *int  `hcl:"min_bet,optional"`
	StartingChips    *int  `hcl:"starting_chips,optional"`
	LoanAmount       *int  `hcl:"loan_amount,optional"`
}

type uiBlock struct {
	LogFile       *string `hcl:"log_file,optional"`
	LogLevel      *string `hcl:"log_level,optional"`
	DealerDelayMs *int    `hcl:"dealer_delay_ms,optional"`
	ShowStats     *bool   `hcl:"show_stats,optional"`
	Color         *bool   `hcl:"color,optional"`
}

type simulationBlock struct {
	Sessions       *int    `hcl:"sessions,optional"`
	Rounds         *int    `hcl:"rounds,optional"`
	Bet            *int    `hcl:"bet,optional"`
	Strategy       *string `hcl:"strategy,optional"`
	TimeoutSeconds *int    `hcl:"timeout_seconds,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Table: TableSettings{
			Decks:            6,
			DealerHitsSoft17: true,
			MinBet:           5,
			StartingChips:    100,
			LoanAmount:       100,
		},
		UI: UISettings{
			LogFile:       "blackjack.log",
			LogLevel:      "info",
			DealerDelayMs: 600,
			ShowStats:     false,
			Color:         true,
		},
		Simulation: SimulationSettings{
			Sessions:       8,
			Rounds:         1000,
			Bet:            5,
			Strategy:       "basic",
			TimeoutSeconds: 60,
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. Missing blocks and attributes take their
// default values.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := Default()
	if t := raw.Table; t != nil {
		set(&config.Table.Decks, t.Decks)
		set(&config.Table.DealerHitsSoft17, t.DealerHitsSoft17)
		set(&config.Table.MinBet, t.MinBet)
		set(&config.Table.StartingChips, t.StartingChips)
		set(&config.Table.LoanAmount, t.LoanAmount)
	}
	if u := raw.UI; u != nil {
		set(&config.UI.LogFile, u.LogFile)
		set(&config.UI.LogLevel, u.LogLevel)
		set(&config.UI.DealerDelayMs, u.DealerDelayMs)
		set(&config.UI.ShowStats, u.ShowStats)
		set(&config.UI.Color, u.Color)
	}
	if s := raw.Simulation; s != nil {
		set(&config.Simulation.Sessions, s.Sessions)
		set(&config.Simulation.Rounds, s.Rounds)
		set(&config.Simulation.Bet, s.Bet)
		set(&config.Simulation.Strategy, s.Strategy)
		set(&config.Simulation.TimeoutSeconds, s.TimeoutSeconds)
	}

	return config, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}

	if _, err := log.ParseLevel(c.UI.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}
	if c.UI.DealerDelayMs < 0 {
		return fmt.Errorf("dealer delay cannot be negative")
	}

	if c.Simulation.Sessions <= 0 {
		return fmt.Errorf("simulation sessions must be positive")
	}
	if c.Simulation.Rounds <= 0 {
		return fmt.Errorf("simulation rounds must be positive")
	}
	if c.Simulation.Bet < c.Table.MinBet {
		return fmt.Errorf("simulation bet %d is below the table minimum %d", c.Simulation.Bet, c.Table.MinBet)
	}
	if c.Simulation.Bet > c.Table.LoanAmount {
		return fmt.Errorf("simulation bet %d exceeds the loan amount %d", c.Simulation.Bet, c.Table.LoanAmount)
	}

	validStrategies := map[string]bool{
		"basic": true,
		"mimic": true,
	}
	if !validStrategies[c.Simulation.Strategy] {
		return fmt.Errorf("invalid strategy: %s", c.Simulation.Strategy)
	}
	if c.Simulation.TimeoutSeconds <= 0 {
		return fmt.Errorf("simulation timeout must be positive")
	}

	return nil
}

// Rules returns the table settings as game rules
func (c *Config) Rules() game.Rules {
	return game.Rules{
		Decks:            c.Table.Decks,
		DealerHitsSoft17: c.Table.DealerHitsSoft17,
		MinBet:           c.Table.MinBet,
		StartingChips:    c.Table.StartingChips,
		LoanAmount:       c.Table.LoanAmount,
	}
}

// LogLevel returns the parsed log level, falling back to info
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(strings.ToLower(c.UI.LogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DealerDelay returns the pause between dealer cards in the interface
func (c *Config) DealerDelay() time.Duration {
	return time.Duration(c.UI.DealerDelayMs) * time.Millisecond
}

// SimulationTimeout returns the per-session time limit
func (c *Config) SimulationTimeout() time.Duration {
	return time.Duration(c.Simulation.TimeoutSeconds) * time.Second
}
