package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

type PlayCmd struct {
	TableFlags `embed:""`

	Seed    int64  `help:"Shoe seed (0 for random)"`
	DelayMs int    `name:"delay-ms" help:"Pause between dealer cards in milliseconds (-1 uses the config)" default:"-1"`
	LogFile string `help:"Write logs to this file instead of the configured one"`
	Debug   bool   `help:"Log at debug level"`
	NoColor bool   `help:"Disable colors"`
	Stats   bool   `help:"Show statistics in the sidebar"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           cfg.LogLevel(),
	})

	seed := c.Seed
	if seed == 0 {
		seed = randutil.Seed()
	}
	logger.Info("Starting blackjack", "seed", seed, "decks", cfg.Table.Decks,
		"h17", cfg.Table.DealerHitsSoft17, "chips", cfg.Table.StartingChips, "config", globals.Config)

	clock := quartz.NewReal()
	g, err := game.New(randutil.New(seed), cfg.Rules(), game.WithLogger(logger), game.WithClock(clock))
	if err != nil {
		return err
	}
	g.EventBus().Subscribe(game.NewLogSubscriber(logger))

	tui.SetColor(cfg.UI.Color)
	return tui.Run(g, logger, tui.Options{
		Clock:       clock,
		DealerDelay: cfg.DealerDelay(),
		ShowStats:   cfg.UI.ShowStats,
	})
}

func (c *PlayCmd) apply(cfg *config.Config) {
	c.TableFlags.apply(cfg)
	if c.DelayMs >= 0 {
		cfg.UI.DealerDelayMs = c.DelayMs
	}
	if c.LogFile != "" {
		cfg.UI.LogFile = c.LogFile
	}
	if c.Debug {
		cfg.UI.LogLevel = "debug"
	}
	if c.NoColor {
		cfg.UI.Color = false
	}
	if c.Stats {
		cfg.UI.ShowStats = true
	}
}
