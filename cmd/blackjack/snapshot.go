package main

import (
	"context"
	"fmt"

	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/store"
)

// SnapshotCmd dumps the persisted table without touching it.
type SnapshotCmd struct {
	Output string `arg:"" optional:"" default:"snapshot.json" help:"File to write"`
	Scores bool   `help:"Write only the last settled round"`
}

func (c *SnapshotCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg).WithPrefix("snapshot")

	ctx := context.Background()
	st, err := store.Open(ctx, storeOptions(cfg))
	if err != nil {
		return err
	}
	defer st.Close()

	var v any
	if c.Scores {
		r, err := st.LastResult(ctx)
		if err != nil {
			return fmt.Errorf("read scores: %w", err)
		}
		v = r
	} else {
		s, err := st.Load(ctx)
		if err != nil {
			return fmt.Errorf("read table: %w", err)
		}
		v = s
	}

	if err := fileutil.WriteSnapshot(c.Output, v); err != nil {
		return err
	}
	logger.Info("Snapshot written", "file", c.Output, "backend", cfg.Store.Backend)
	return nil
}
