package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/strategy"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Sessions int
	Rounds   int
	Bet      int
	Rules    game.Rules
	Strategy string
	Seed     int64
	Timeout  time.Duration // per session
	Workers  int           // defaults to GOMAXPROCS
	Logger   *log.Logger

	// Progress is called once per finished session. Calls are serialised.
	Progress func(SessionResult)
}

// SessionResult is one session's outcome
type SessionResult struct {
	Index int
	Seed  int64
	Stats statistics.Statistics
	Chips int
	Loans int
}

// Net returns the session's chip result, loans repaid
func (r SessionResult) Net(rules game.Rules) int {
	return r.Chips - rules.StartingChips - r.Loans*rules.LoanAmount
}

// Result aggregates every session
type Result struct {
	Strategy string
	Sessions []SessionResult
	Total    statistics.Statistics
	Loans    int
}

// Simulator plays independent sessions of flat-bet blackjack
type Simulator struct {
	config   Config
	strategy strategy.Strategy
	mu       sync.Mutex
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Sessions <= 0 || config.Rounds <= 0 {
		return nil, fmt.Errorf("sessions and rounds must be positive")
	}
	if err := config.Rules.Validate(); err != nil {
		return nil, err
	}
	if config.Bet < config.Rules.MinBet {
		return nil, fmt.Errorf("bet %d is below the table minimum %d", config.Bet, config.Rules.MinBet)
	}
	if config.Bet > config.Rules.LoanAmount {
		return nil, fmt.Errorf("bet %d exceeds the loan amount %d", config.Bet, config.Rules.LoanAmount)
	}
	strat, err := strategy.ByName(config.Strategy)
	if err != nil {
		return nil, err
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	return &Simulator{config: config, strategy: strat}, nil
}

// Run plays every session in parallel and returns the merged results. The
// first session to fail cancels the rest.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	sessions := make([]SessionResult, s.config.Sessions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := range sessions {
		seed := randutil.Derive(s.config.Seed, i)
		g.Go(func() error {
			res, err := s.playSessionWithTimeout(ctx, i, seed)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i+1, seed, err)
			}
			sessions[i] = res
			s.progress(res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Strategy: s.strategy.Name(), Sessions: sessions}
	for i := range sessions {
		result.Total.Merge(&sessions[i].Stats)
		result.Loans += sessions[i].Loans
	}

	if err := result.Total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return result, nil
}

func (s *Simulator) progress(res SessionResult) {
	if s.config.Progress == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.Progress(res)
}

// playSessionWithTimeout runs a single session under its own deadline
func (s *Simulator) playSessionWithTimeout(ctx context.Context, index int, seed int64) (SessionResult, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	res, err := s.playSession(ctx, index, seed)
	if errors.Is(err, context.DeadlineExceeded) {
		return res, fmt.Errorf("session timed out after %v: %w", s.config.Timeout, err)
	}
	return res, err
}

// playSession plays the configured number of rounds at a flat bet. A broke
// player takes a loan and keeps going.
func (s *Simulator) playSession(ctx context.Context, index int, seed int64) (SessionResult, error) {
	logger := s.config.Logger.With("session", index+1)
	g, err := game.New(randutil.New(seed), s.config.Rules, game.WithLogger(logger))
	if err != nil {
		return SessionResult{}, err
	}

	for round := 0; round < s.config.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return SessionResult{}, err
		}

		if g.Broke() {
			if err := g.ApplyLoan(); err != nil {
				return SessionResult{}, err
			}
		}
		if g.Phase() == game.GameOver {
			if err := g.NewRound(); err != nil {
				return SessionResult{}, err
			}
		}

		if err := g.PlaceBet(min(s.config.Bet, g.Chips())); err != nil {
			return SessionResult{}, fmt.Errorf("round %d: %w", round+1, err)
		}
		if err := s.playHands(g); err != nil {
			return SessionResult{}, fmt.Errorf("round %d: %w", round+1, err)
		}
	}

	state := g.Snapshot()
	logger.Debug("Session complete", "seed", seed, "chips", state.Chips, "loans", state.Loans,
		"hands", state.Stats.HandsPlayed)

	return SessionResult{
		Index: index,
		Seed:  seed,
		Stats: state.Stats,
		Chips: state.Chips,
		Loans: state.Loans,
	}, nil
}

// playHands asks the strategy for every decision until the round resolves
func (s *Simulator) playHands(g *game.Game) error {
	for g.Phase() == game.PlayerTurn {
		advice, err := s.strategy.Decide(g.Snapshot())
		if err != nil {
			return err
		}

		err = g.Apply(advice.Action)
		if errors.Is(err, game.ErrShoeEmpty) {
			err = g.Stand()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", advice, err)
		}
	}
	return nil
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, config Config) (*Result, error) {
	sim, err := New(config)
	if err != nil {
		return nil, err
	}
	return sim.Run(ctx)
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, res *Result, rules game.Rules) error {
	stats := &res.Total
	low, high := stats.ConfidenceInterval95()

	fmt.Fprint(w, pterm.DefaultSection.Sprintf("Results: %s strategy, %d sessions", res.Strategy, len(res.Sessions)))

	summary, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Measure", "Value"},
		{"Rounds", fmt.Sprint(stats.Rounds)},
		{"Hands", fmt.Sprint(stats.HandsPlayed)},
		{"Won / Lost / Pushed", fmt.Sprintf("%d / %d / %d", stats.HandsWon, stats.HandsLost, stats.HandsPushed)},
		{"Win rate", fmt.Sprintf("%.2f%%", stats.WinRate()*100)},
		{"Blackjacks", fmt.Sprint(stats.Blackjacks)},
		{"Mean", fmt.Sprintf("%.4f chips/round", stats.Mean())},
		{"Median", fmt.Sprintf("%.4f chips/round", stats.Median())},
		{"Std Dev", fmt.Sprintf("%.4f", stats.StdDev())},
		{"Std Error", fmt.Sprintf("%.4f", stats.StdError())},
		{"95% CI", fmt.Sprintf("[%.4f, %.4f]", low, high)},
		{"Percentiles", fmt.Sprintf("P5=%.0f P25=%.0f P75=%.0f P95=%.0f",
			stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))},
		{"Largest win / loss", fmt.Sprintf("%d / %d", stats.LargestWin, stats.LargestLoss)},
		{"Loans taken", fmt.Sprint(res.Loans)},
	}).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, summary)

	rows := pterm.TableData{{"Session", "Seed", "Rounds", "Chips", "Loans", "Net"}}
	for _, s := range res.Sessions {
		rows = append(rows, []string{
			fmt.Sprint(s.Index + 1),
			fmt.Sprint(s.Seed),
			fmt.Sprint(s.Stats.Rounds),
			fmt.Sprint(s.Chips),
			fmt.Sprint(s.Loans),
			fmt.Sprintf("%+d", s.Net(rules)),
		})
	}
	sessions, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, sessions)
	return nil
}
