package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
table {
  decks               = 2
  dealer_hits_soft_17 = false
  min_bet             = 10
  starting_chips      = 500
}

ui {
  log_level       = "debug"
  dealer_delay_ms = 0
  color           = false
}

simulation {
  sessions = 2
  rounds   = 50
  bet      = 10
  strategy = "mimic"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2, cfg.Table.Decks)
	assert.False(t, cfg.Table.DealerHitsSoft17)
	assert.Equal(t, 10, cfg.Table.MinBet)
	assert.Equal(t, 500, cfg.Table.StartingChips)
	assert.Equal(t, 100, cfg.Table.LoanAmount, "unset attribute keeps its default")

	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
	assert.Equal(t, time.Duration(0), cfg.DealerDelay())
	assert.False(t, cfg.UI.Color)
	assert.Equal(t, "blackjack.log", cfg.UI.LogFile)

	assert.Equal(t, 2, cfg.Simulation.Sessions)
	assert.Equal(t, "mimic", cfg.Simulation.Strategy)
	assert.Equal(t, 60*time.Second, cfg.SimulationTimeout())
}

func TestParseMissingBlocks(t *testing.T) {
	cfg, err := Parse([]byte(`ui { show_stats = true }`), "inline.hcl")
	require.NoError(t, err)

	want := Default()
	want.UI.ShowStats = true
	assert.Equal(t, want, cfg)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`table { decks = `), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Parse([]byte(`table { decks = "six" }`), "typed.hcl")
	assert.ErrorContains(t, err, "failed to decode HCL")

	_, err = Parse([]byte(`table { jokers = true }`), "unknown.hcl")
	assert.Error(t, err)
}

func TestRules(t *testing.T) {
	rules := Default().Rules()
	assert.Equal(t, 6, rules.Decks)
	assert.True(t, rules.DealerHitsSoft17)
	assert.Equal(t, 5, rules.MinBet)
	assert.Equal(t, 100, rules.StartingChips)
	assert.Equal(t, 100, rules.LoanAmount)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero decks", func(c *Config) { c.Table.Decks = 0 }},
		{"nine decks", func(c *Config) { c.Table.Decks = 9 }},
		{"zero min bet", func(c *Config) { c.Table.MinBet = 0 }},
		{"chips below min bet", func(c *Config) { c.Table.StartingChips = 2 }},
		{"bad log level", func(c *Config) { c.UI.LogLevel = "verbose" }},
		{"negative delay", func(c *Config) { c.UI.DealerDelayMs = -1 }},
		{"no sessions", func(c *Config) { c.Simulation.Sessions = 0 }},
		{"no rounds", func(c *Config) { c.Simulation.Rounds = 0 }},
		{"bet below minimum", func(c *Config) { c.Simulation.Bet = 1 }},
		{"bet above loan", func(c *Config) { c.Simulation.Bet = 1000 }},
		{"unknown strategy", func(c *Config) { c.Simulation.Strategy = "martingale" }},
		{"no timeout", func(c *Config) { c.Simulation.TimeoutSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLogLevelFallback(t *testing.T) {
	cfg := Default()
	cfg.UI.LogLevel = "nonsense"
	assert.Equal(t, log.InfoLevel, cfg.LogLevel())

	cfg.UI.LogLevel = "WARN"
	assert.Equal(t, log.WarnLevel, cfg.LogLevel())
}
