package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Encode renders the configuration as HCL, every attribute spelled out
func (c *Config) Encode() []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	table := root.AppendNewBlock("table", nil).Body()
	table.SetAttributeValue("decks", cty.NumberIntVal(int64(c.Table.Decks)))
	table.SetAttributeValue("dealer_hits_soft_17", cty.BoolVal(c.Table.DealerHitsSoft17))
	table.SetAttributeValue("min_bet", cty.NumberIntVal(int64(c.Table.MinBet)))
	table.SetAttributeValue("starting_chips", cty.NumberIntVal(int64(c.Table.StartingChips)))
	table.SetAttributeValue("loan_amount", cty.NumberIntVal(int64(c.Table.LoanAmount)))
	root.AppendNewline()

	ui := root.AppendNewBlock("ui", nil).Body()
	ui.SetAttributeValue("log_file", cty.StringVal(c.UI.LogFile))
	ui.SetAttributeValue("log_level", cty.StringVal(c.UI.LogLevel))
	ui.SetAttributeValue("dealer_delay_ms", cty.NumberIntVal(int64(c.UI.DealerDelayMs)))
	ui.SetAttributeValue("show_stats", cty.BoolVal(c.UI.ShowStats))
	ui.SetAttributeValue("color", cty.BoolVal(c.UI.Color))
	root.AppendNewline()

	sim := root.AppendNewBlock("simulation", nil).Body()
	sim.SetAttributeValue("sessions", cty.NumberIntVal(int64(c.Simulation.Sessions)))
	sim.SetAttributeValue("rounds", cty.NumberIntVal(int64(c.Simulation.Rounds)))
	sim.SetAttributeValue("bet", cty.NumberIntVal(int64(c.Simulation.Bet)))
	sim.SetAttributeValue("strategy", cty.StringVal(c.Simulation.Strategy))
	sim.SetAttributeValue("timeout_seconds", cty.NumberIntVal(int64(c.Simulation.TimeoutSeconds)))

	return hclwrite.Format(f.Bytes())
}

// Save writes the configuration to filename. The file is written to a
// temporary sibling and renamed into place, so readers never see a partial
// config.
func (c *Config) Save(filename string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Removes the temp file on any failure before the rename
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(c.Encode()); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	committed = true
	return nil
}
