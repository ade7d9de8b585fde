package main

import (
	"github.com/alecthomas/kong"
	"github.com/lox/blackjack/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config string `short:"c" help:"HCL config file" default:"${config_file}" type:"path"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play blackjack in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate sessions played by a fixed strategy"`
	Init     InitCmd          `cmd:"" help:"Write a config file with the default settings"`
}

// TableFlags override the table block of the config file
type TableFlags struct {
	Decks  int    `help:"Number of decks, 1-8"`
	Soft17 string `name:"soft17" help:"Dealer on soft 17: hit or stand" enum:",hit,stand" default:""`
	MinBet int    `help:"Table minimum bet"`
	Chips  int    `help:"Starting chips"`
}

func (f TableFlags) apply(cfg *config.Config) {
	if f.Decks != 0 {
		cfg.Table.Decks = f.Decks
	}
	switch f.Soft17 {
	case "hit":
		cfg.Table.DealerHitsSoft17 = true
	case "stand":
		cfg.Table.DealerHitsSoft17 = false
	}
	if f.MinBet != 0 {
		cfg.Table.MinBet = f.MinBet
	}
	if f.Chips != 0 {
		cfg.Table.StartingChips = f.Chips
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack against the house"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
