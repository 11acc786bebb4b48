package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd plays bot-only tables to measure how the pool drifts.
type SimulateCmd struct {
	Tables      int           `default:"4" help:"Independent tables to run"`
	Rounds      int           `default:"1000" help:"Settled rounds per table"`
	Players     int           `default:"3" help:"Bots per table (1-6)"`
	Strategy    string        `default:"basic" help:"Bot strategy: basic, cautious, chart, random"`
	Stake       uint64        `default:"10" help:"Stake per round"`
	Seed        int64         `default:"0" help:"RNG seed (0 for time based)"`
	Parallelism int           `default:"0" help:"Tables to run at once (0 for all)"`
	Timeout     time.Duration `default:"0s" help:"Abort after this long (0 for none)"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg)

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("Starting simulation", "tables", c.Tables, "rounds", c.Rounds, "players", c.Players,
		"strategy", c.Strategy, "seed", seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := simulator.New(simulator.Config{
		Tables:      c.Tables,
		Rounds:      c.Rounds,
		Players:     c.Players,
		Strategy:    c.Strategy,
		Stake:       c.Stake,
		InitialPool: cfg.Ledger.InitialPool,
		Seed:        seed,
		Parallelism: c.Parallelism,
		Timeout:     c.Timeout,
		Logger:      logger,
	})
	result, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	simulator.PrintSummary(os.Stdout, result, c.Strategy)
	return nil
}
