package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/config"
)

type InitCmd struct {
	TableFlags `embed:""`

	Force bool `short:"f" help:"Overwrite an existing config file"`
}

func (c *InitCmd) Run(globals *Globals) error {
	if _, err := os.Stat(globals.Config); err == nil && !c.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", globals.Config)
	}

	cfg := config.Default()
	c.TableFlags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Save(globals.Config); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", globals.Config)
	return nil
}
