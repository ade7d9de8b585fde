package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Sessions: 4,
		Rounds:   200,
		Bet:      5,
		Rules:    game.DefaultRules(),
		Strategy: "basic",
		Seed:     12345,
		Timeout:  10 * time.Second,
		Logger:   log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}),
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no sessions", func(c *Config) { c.Sessions = 0 }},
		{"no rounds", func(c *Config) { c.Rounds = 0 }},
		{"bet below minimum", func(c *Config) { c.Bet = 1 }},
		{"bet above loan", func(c *Config) { c.Bet = 500 }},
		{"unknown strategy", func(c *Config) { c.Strategy = "martingale" }},
		{"bad rules", func(c *Config) { c.Rules.Decks = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestRunAggregatesSessions(t *testing.T) {
	cfg := testConfig()
	res, err := RunSimulation(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, res.Sessions, cfg.Sessions)
	assert.Equal(t, "basic", res.Strategy)
	assert.Equal(t, cfg.Sessions*cfg.Rounds, res.Total.Rounds)
	assert.GreaterOrEqual(t, res.Total.HandsPlayed, res.Total.Rounds)
	require.NoError(t, res.Total.Validate())

	hands, loans := 0, 0
	for i, s := range res.Sessions {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, cfg.Rounds, s.Stats.Rounds)
		hands += s.Stats.HandsPlayed
		loans += s.Loans
	}
	assert.Equal(t, res.Total.HandsPlayed, hands)
	assert.Equal(t, res.Loans, loans)
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 4
	a, err := RunSimulation(context.Background(), cfg)
	require.NoError(t, err)

	cfg.Workers = 1
	b, err := RunSimulation(context.Background(), cfg)
	require.NoError(t, err)

	for i := range a.Sessions {
		assert.Equal(t, a.Sessions[i].Seed, b.Sessions[i].Seed)
		assert.Equal(t, a.Sessions[i].Chips, b.Sessions[i].Chips)
		assert.Equal(t, a.Sessions[i].Stats.Values, b.Sessions[i].Stats.Values)
	}
	assert.Equal(t, a.Total.Mean(), b.Total.Mean())
}

func TestSessionSeedsDiffer(t *testing.T) {
	res, err := RunSimulation(context.Background(), testConfig())
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for _, s := range res.Sessions {
		assert.False(t, seen[s.Seed], "seed %d reused", s.Seed)
		seen[s.Seed] = true
	}
}

func TestChipsBalanceWithLoans(t *testing.T) {
	cfg := testConfig()
	cfg.Rules.StartingChips = 10
	cfg.Rules.LoanAmount = 10
	cfg.Rounds = 300

	res, err := RunSimulation(context.Background(), cfg)
	require.NoError(t, err)
	assert.Positive(t, res.Loans, "a 10 chip bankroll should run dry at some point")

	for _, s := range res.Sessions {
		sum := 0.0
		for _, v := range s.Stats.Values {
			sum += v
		}
		assert.Equal(t, int(sum), s.Net(cfg.Rules), "session %d", s.Index+1)
	}
}

func TestMimicStrategy(t *testing.T) {
	cfg := testConfig()
	cfg.Strategy = "mimic"
	res, err := RunSimulation(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "mimic", res.Strategy)
	assert.Equal(t, cfg.Sessions*cfg.Rounds, res.Total.Rounds)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunSimulation(ctx, testConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunTimesOut(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = time.Nanosecond
	cfg.Rounds = 100000

	_, err := RunSimulation(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestProgressCalledPerSession(t *testing.T) {
	cfg := testConfig()
	calls := 0
	cfg.Progress = func(SessionResult) { calls++ }

	_, err := RunSimulation(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Sessions, calls)
}

func TestPrintSummary(t *testing.T) {
	cfg := testConfig()
	cfg.Sessions = 2
	cfg.Rounds = 20
	res, err := RunSimulation(context.Background(), cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PrintSummary(&buf, res, cfg.Rules))

	out := pterm.RemoveColorFromString(buf.String())
	assert.Contains(t, out, "basic strategy, 2 sessions")
	assert.Contains(t, out, "95% CI")
	assert.Contains(t, out, "Loans taken")
	assert.Contains(t, out, "Session")
}
