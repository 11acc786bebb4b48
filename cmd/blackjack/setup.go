package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/service"
	"github.com/lox/blackjack/internal/store"
)

// loadConfig reads and validates the configuration, applying the log level
// override.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", g.Config, err)
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

func storeOptions(cfg *config.Config) store.Options {
	return store.Options{
		Backend:   cfg.Store.Backend,
		Path:      cfg.Store.Path,
		RedisAddr: cfg.Store.RedisAddr,
		RedisDB:   cfg.Store.RedisDB,
		RedisHash: "blackjack:" + cfg.Table.Address,
	}
}

// table bundles everything a running table needs.
type table struct {
	cfg   *config.Config
	store *store.Store
	bank  *ledger.Bank
	svc   *service.Service
	clock *skewClock
}

// openTable connects the configured store and an in-process bank, and
// initializes the table when the store is empty. A table found in the store
// is reattached: the bank is registered directly and its escrow is seeded
// with the stakes the table still holds.
func openTable(ctx context.Context, cfg *config.Config, logger *log.Logger) (*table, error) {
	st, err := store.Open(ctx, storeOptions(cfg))
	if err != nil {
		return nil, err
	}

	setup := game.Setup{
		Owner:         cfg.Ledger.Owner,
		TableAddress:  cfg.Table.Address,
		LedgerAddress: cfg.Ledger.Address,
		HouseSecret:   cfg.Table.HouseSecret,
	}
	opts := []ledger.BankOption{ledger.WithReservePercent(cfg.Ledger.ReservePercent)}

	existing, err := st.Load(ctx)
	switch {
	case err == nil:
		var held uint64
		for _, amount := range existing.Balances {
			held += amount
		}
		opts = append(opts, ledger.WithEscrow(held))
	case errors.Is(err, store.ErrNotFound):
	default:
		_ = st.Close()
		return nil, err
	}

	bank := ledger.NewBank(cfg.Ledger.Owner, cfg.Ledger.InitialPool, opts...)
	clock := &skewClock{Clock: quartz.NewReal()}
	svc := service.New(st, bank, clock, logger, service.Options{IdleKick: cfg.IdleKick()})

	if existing == nil {
		if err := svc.Init(ctx, setup); err != nil {
			_ = st.Close()
			return nil, err
		}
	} else {
		if err := bank.UpdateGameAddress(ctx, existing.TableAddress, existing.TableAddress); err != nil {
			_ = st.Close()
			return nil, err
		}
		logger.Info("Reattached to stored table", "address", existing.TableAddress, "escrow", bank.Escrow())
	}

	return &table{cfg: cfg, store: st, bank: bank, svc: svc, clock: clock}, nil
}

func (t *table) Close() error {
	return t.store.Close()
}

// skewClock is a real clock whose Now can be pushed forward, letting an
// interactive session reach the idle kick threshold without waiting.
type skewClock struct {
	quartz.Clock
	offset time.Duration
}

func (c *skewClock) Now(tags ...string) time.Time {
	return c.Clock.Now(tags...).Add(c.offset)
}

func (c *skewClock) Since(t time.Time, tags ...string) time.Duration {
	return c.Now(tags...).Sub(t)
}

func (c *skewClock) Until(t time.Time, tags ...string) time.Duration {
	return t.Sub(c.Now(tags...))
}

func (c *skewClock) Advance(d time.Duration) {
	c.offset += d
}

func stderrLogger(cfg *config.Config) *log.Logger {
	return newLogger(os.Stderr, cfg.Log.Level)
}
