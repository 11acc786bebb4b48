// Package service runs table operations against persisted state and the
// ledger. Calls are serialised; each one loads the state, applies a single
// game operation, saves the result and only then executes the resulting
// ledger instructions.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/store"
)

// ErrNotInitialized is returned by every call made before Init.
var ErrNotInitialized = game.NewError(game.KindNotFound, "table has not been initialized")

// ErrAlreadyInitialized is returned when Init finds an existing table.
var ErrAlreadyInitialized = game.NewError(game.KindValidation, "table already initialized")

// Options tunes a Service.
type Options struct {
	IdleKick    time.Duration
	HistorySize int
}

// Service is the single writer for one table.
type Service struct {
	mu       sync.Mutex
	store    *store.Store
	ledger   ledger.Ledger
	clock    quartz.Clock
	logger   *log.Logger
	idleKick time.Duration
	history  *History
}

// New creates a service. A zero IdleKick means game.DefaultIdleKick.
func New(st *store.Store, l ledger.Ledger, clock quartz.Clock, logger *log.Logger, opts Options) *Service {
	if opts.IdleKick <= 0 {
		opts.IdleKick = game.DefaultIdleKick
	}
	return &Service{
		store:    st,
		ledger:   l,
		clock:    clock,
		logger:   logger.WithPrefix("table"),
		idleKick: opts.IdleKick,
		history:  NewHistory(opts.HistorySize),
	}
}

// Init creates the table and registers its address with the ledger.
func (s *Service) Init(ctx context.Context, setup game.Setup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Load(ctx); err == nil {
		return ErrAlreadyInitialized
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	st := game.NewState(setup)
	if err := s.store.Save(ctx, st); err != nil {
		return err
	}
	if err := s.ledger.Apply(ctx, st.TableAddress, st.InitEffects()); err != nil {
		return fmt.Errorf("register table with ledger: %w", err)
	}
	s.logger.Info("Table initialized", "owner", setup.Owner, "address", setup.TableAddress, "ledger", setup.LedgerAddress)
	return nil
}

// Sit seats caller at seat with their secret.
func (s *Service) Sit(ctx context.Context, caller string, seat int, secret uint64) error {
	return s.mutate(ctx, "sit", caller, seat, func(st *game.State, call game.Call) ([]game.Effect, error) {
		return st.Sit(call, seat, secret)
	})
}

// Stand removes caller from seat.
func (s *Service) Stand(ctx context.Context, caller string, seat int) error {
	return s.mutate(ctx, "stand", caller, seat, func(st *game.State, call game.Call) ([]game.Effect, error) {
		return st.Stand(call, seat)
	})
}

// Kick removes an idle target from seat on behalf of caller.
func (s *Service) Kick(ctx context.Context, caller string, seat int, target string) error {
	err := s.mutate(ctx, "kick", caller, seat, func(st *game.State, call game.Call) ([]game.Effect, error) {
		return st.Kick(call, seat, target, s.idleKick)
	})
	if err == nil {
		s.logger.Info("Kicked idle player", "seat", seat, "player", target, "by", caller)
	}
	return err
}

// Bid stakes amount with attached funds.
func (s *Service) Bid(ctx context.Context, caller string, seat int, amount, attached uint64) error {
	return s.mutate(ctx, "bid", caller, seat, func(st *game.State, call game.Call) ([]game.Effect, error) {
		reported, err := s.ledger.Balance(ctx)
		if err != nil {
			return nil, fmt.Errorf("query pool balance: %w", err)
		}
		return st.Bid(call, seat, amount, attached, reported)
	})
}

// Hit draws a card for caller.
func (s *Service) Hit(ctx context.Context, caller string, seat int) error {
	return s.mutate(ctx, "hit", caller, seat, func(st *game.State, call game.Call) ([]game.Effect, error) {
		return st.Hit(call, seat)
	})
}

// Hold ends caller's turn.
func (s *Service) Hold(ctx context.Context, caller string, seat int) error {
	return s.mutate(ctx, "hold", caller, seat, func(st *game.State, call game.Call) ([]game.Effect, error) {
		return st.Hold(call, seat)
	})
}

// UserBalance returns identity's current stake.
func (s *Service) UserBalance(ctx context.Context, identity string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Balance(ctx, identity)
}

// Table returns the table snapshot.
func (s *Service) Table(ctx context.Context) (game.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.store.Table(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return t, ErrNotInitialized
	}
	return t, err
}

// LastScore returns the result of the last settled round.
func (s *Service) LastScore(ctx context.Context) (game.RoundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.store.LastResult(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return r, ErrNotInitialized
	}
	return r, err
}

// State returns a copy of the whole persisted state.
func (s *Service) State(ctx context.Context) (*game.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// History returns the rounds settled by this service, oldest first.
func (s *Service) History() []game.RoundResult {
	return s.history.Rounds()
}

func (s *Service) load(ctx context.Context) (*game.State, error) {
	st, err := s.store.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotInitialized
	}
	return st, err
}

// mutate runs one operation. Nothing is saved or executed unless the
// operation succeeds; if the ledger then refuses the effects the previous
// state is saved back.
func (s *Service) mutate(ctx context.Context, name, caller string, seat int, fn func(*game.State, game.Call) ([]game.Effect, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return err
	}
	prev := st.Clone()
	call := game.Call{Caller: caller, Now: s.clock.Now()}

	effects, err := fn(st, call)
	if err != nil {
		s.logger.Debug("Rejected call", "op", name, "caller", caller, "seat", seat, "kind", game.KindOf(err), "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}

	if err := s.store.Save(ctx, st); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if len(effects) > 0 {
		if err := s.ledger.Apply(ctx, st.TableAddress, effects); err != nil {
			s.logger.Error("Ledger refused effects, restoring table", "op", name, "effects", len(effects), "error", err)
			if rerr := s.store.Save(ctx, prev); rerr != nil {
				return errors.Join(fmt.Errorf("%s: %w", name, err), fmt.Errorf("restore table: %w", rerr))
			}
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	s.logger.Debug("Committed call", "op", name, "caller", caller, "seat", seat, "phase", st.Table.Phase, "effects", len(effects))
	if st.LastResult.Round != prev.LastResult.Round {
		s.history.Add(st.LastResult)
		s.logSettlement(st.LastResult)
	}
	return nil
}

func (s *Service) logSettlement(r game.RoundResult) {
	s.logger.Info("Round settled", "round", r.Round, "dealer", r.Dealer.Score)
	for seat, p := range r.Players {
		if p == nil {
			continue
		}
		s.logger.Info("Seat settled", "round", r.Round, "seat", seat, "player", p.Identity,
			"score", p.Score, "won", p.Won, "stake", p.Stake, "reward", p.Reward)
	}
}
