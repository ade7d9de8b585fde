package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lox/blackjack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test", "config_file": config.DefaultFile})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestPlayIsDefault(t *testing.T) {
	cli, ctx := parse(t)
	assert.Equal(t, "play", ctx.Command())
	assert.Equal(t, -1, cli.Play.DelayMs)
	assert.Contains(t, cli.Config, config.DefaultFile)
}

func TestPlayFlagsOverrideConfig(t *testing.T) {
	cli, _ := parse(t, "play", "--decks=2", "--soft17=stand", "--chips=250", "--delay-ms=0", "--no-color", "--debug", "--stats")

	cfg := config.Default()
	cli.Play.apply(cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2, cfg.Table.Decks)
	assert.False(t, cfg.Table.DealerHitsSoft17)
	assert.Equal(t, 250, cfg.Table.StartingChips)
	assert.Equal(t, 5, cfg.Table.MinBet)
	assert.Equal(t, 0, cfg.UI.DealerDelayMs)
	assert.False(t, cfg.UI.Color)
	assert.Equal(t, "debug", cfg.UI.LogLevel)
	assert.True(t, cfg.UI.ShowStats)
}

func TestPlayWithoutFlagsKeepsConfig(t *testing.T) {
	cli, _ := parse(t, "play")

	cfg := config.Default()
	cli.Play.apply(cfg)
	assert.Equal(t, config.Default(), cfg)
}

func TestSimulateFlags(t *testing.T) {
	cli, ctx := parse(t, "simulate", "-n", "3", "-r", "500", "--bet=10", "--strategy=mimic", "--timeout=90s", "--soft17=hit")
	assert.Equal(t, "simulate", ctx.Command())

	cfg := config.Default()
	cfg.Table.DealerHitsSoft17 = false
	cli.Simulate.apply(cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Simulation.Sessions)
	assert.Equal(t, 500, cfg.Simulation.Rounds)
	assert.Equal(t, 10, cfg.Simulation.Bet)
	assert.Equal(t, "mimic", cfg.Simulation.Strategy)
	assert.Equal(t, 90*time.Second, cfg.SimulationTimeout())
	assert.True(t, cfg.Table.DealerHitsSoft17)
}

func TestSoft17Enum(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test", "config_file": config.DefaultFile})
	require.NoError(t, err)

	_, err = parser.Parse([]string{"play", "--soft17=sometimes"})
	assert.Error(t, err)
}

func TestInitWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.hcl")
	cli, ctx := parse(t, "--config", path, "init", "--decks=4")
	assert.Equal(t, "init", ctx.Command())

	require.NoError(t, cli.Init.Run(&cli.Globals))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Table.Decks)

	assert.Error(t, cli.Init.Run(&cli.Globals), "refuses to overwrite")

	cli.Init.Force = true
	assert.NoError(t, cli.Init.Run(&cli.Globals))
}
