package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every subcommand.
type Globals struct {
	Config   string `short:"c" default:"blackjack.hcl" help:"HCL configuration file (defaults apply when missing)"`
	LogLevel string `help:"Override the configured log level (debug|info|warn|error)"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play at a table from an interactive prompt"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot-only tables and report the house edge"`
	Snapshot SnapshotCmd      `cmd:"" help:"Write the stored table state as JSON"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Multiplayer blackjack table with a shared house pool"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
