package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/pterm/pterm"
)

type SimulateCmd struct {
	TableFlags `embed:""`

	Sessions   int           `short:"n" help:"Number of sessions"`
	Rounds     int           `short:"r" help:"Rounds per session"`
	Bet        int           `help:"Flat bet per round"`
	Strategy   string        `help:"Player strategy: basic or mimic"`
	Seed       int64         `help:"Base seed (0 for random)"`
	Timeout    time.Duration `help:"Per-session timeout"`
	Workers    int           `help:"Sessions run in parallel (0 for one per CPU)"`
	Verbose    bool          `help:"Verbose logging"`
	NoProgress bool          `help:"Hide the progress bar"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := log.WarnLevel
	if c.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level, Prefix: "sim"})

	seed := c.Seed
	if seed == 0 {
		seed = randutil.Seed()
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	pterm.Info.Printfln("Simulating %d sessions of %d rounds, %s strategy, seed %d",
		cfg.Simulation.Sessions, cfg.Simulation.Rounds, cfg.Simulation.Strategy, seed)

	simConfig := simulator.Config{
		Sessions: cfg.Simulation.Sessions,
		Rounds:   cfg.Simulation.Rounds,
		Bet:      cfg.Simulation.Bet,
		Rules:    cfg.Rules(),
		Strategy: cfg.Simulation.Strategy,
		Seed:     seed,
		Timeout:  cfg.SimulationTimeout(),
		Workers:  c.Workers,
		Logger:   logger,
	}

	var progress *pterm.ProgressbarPrinter
	if !c.NoProgress {
		progress, err = pterm.DefaultProgressbar.
			WithTotal(cfg.Simulation.Sessions).
			WithTitle("Sessions").
			Start()
		if err != nil {
			return err
		}
		simConfig.Progress = func(simulator.SessionResult) {
			progress.Increment()
		}
	}

	start := time.Now()
	res, err := simulator.RunSimulation(ctx, simConfig)
	if progress != nil {
		_, _ = progress.Stop()
	}
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	logger.Info("Simulation complete", "duration", time.Since(start), "rounds", res.Total.Rounds)

	return simulator.PrintSummary(os.Stdout, res, cfg.Rules())
}

func (c *SimulateCmd) apply(cfg *config.Config) {
	c.TableFlags.apply(cfg)
	if c.Sessions != 0 {
		cfg.Simulation.Sessions = c.Sessions
	}
	if c.Rounds != 0 {
		cfg.Simulation.Rounds = c.Rounds
	}
	if c.Bet != 0 {
		cfg.Simulation.Bet = c.Bet
	}
	if c.Strategy != "" {
		cfg.Simulation.Strategy = c.Strategy
	}
	if c.Timeout > 0 {
		cfg.Simulation.TimeoutSeconds = max(int(c.Timeout.Round(time.Second)/time.Second), 1)
	}
}
