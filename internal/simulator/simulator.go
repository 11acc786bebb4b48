package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/service"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/store"
)

// Config holds configuration for running simulations
type Config struct {
	Tables      int
	Rounds      int
	Players     int
	Strategy    string
	Stake       uint64
	InitialPool uint64
	Seed        int64
	Parallelism int
	Timeout     time.Duration
	Logger      *log.Logger
}

// Result is the outcome of a simulation across all tables
type Result struct {
	Stats     *statistics.Statistics
	Pools     []uint64
	PoolDrift int64
}

// Simulator runs independent tables of bots in parallel
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Players <= 0 {
		config.Players = 1
	}
	if config.Players > game.MaxSeats {
		config.Players = game.MaxSeats
	}
	if config.Stake == 0 {
		config.Stake = 10
	}
	if config.InitialPool == 0 {
		config.InitialPool = 1_000_000
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays every table to completion and merges their statistics
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if s.config.Tables <= 0 || s.config.Rounds <= 0 {
		return nil, fmt.Errorf("tables and rounds must be positive")
	}
	if _, err := bot.New(s.config.Strategy, randutil.New(0), s.config.Logger); err != nil {
		return nil, err
	}
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	var (
		mu     sync.Mutex
		result = &Result{Stats: &statistics.Statistics{}, Pools: make([]uint64, s.config.Tables)}
	)

	g, ctx := errgroup.WithContext(ctx)
	if s.config.Parallelism > 0 {
		g.SetLimit(s.config.Parallelism)
	}
	for i := 0; i < s.config.Tables; i++ {
		g.Go(func() error {
			stats, pool, err := s.playTable(ctx, i)
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			mu.Lock()
			defer mu.Unlock()
			result.Stats.Merge(stats)
			result.Pools[i] = pool
			result.PoolDrift += int64(pool) - int64(s.config.InitialPool)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := result.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return result, nil
}

// playTable runs one table with its own store, bank and bots until the
// requested number of rounds has been settled.
func (s *Simulator) playTable(ctx context.Context, index int) (*statistics.Statistics, uint64, error) {
	seed := s.config.Seed + int64(index)
	rng := randutil.New(seed)
	logger := s.config.Logger.WithPrefix(fmt.Sprintf("sim-%d", index))

	names := make([]string, s.config.Players)
	opts := make([]ledger.BankOption, 0, s.config.Players)
	bankroll := s.config.Stake * uint64(s.config.Rounds)
	for i := range names {
		names[i] = fmt.Sprintf("bot%d", i)
		opts = append(opts, ledger.WithWallet(names[i], bankroll))
	}
	bank := ledger.NewBank("house", s.config.InitialPool, opts...)

	st := store.New(store.NewMemory())
	defer st.Close()
	svc := service.New(st, bank, quartz.NewReal(), logger, service.Options{})
	if err := svc.Init(ctx, game.Setup{
		Owner:         "house",
		TableAddress:  fmt.Sprintf("table-%d", index),
		LedgerAddress: "bank",
		HouseSecret:   rng.Uint64(),
	}); err != nil {
		return nil, 0, err
	}

	strategies := make([]bot.Strategy, len(names))
	for seat, name := range names {
		strategy, err := bot.New(s.config.Strategy, rng, logger)
		if err != nil {
			return nil, 0, err
		}
		strategies[seat] = strategy
		if err := svc.Sit(ctx, name, seat, rng.Uint64()); err != nil {
			return nil, 0, err
		}
	}

	stats := &statistics.Statistics{}
	var settled uint64
	for settled < uint64(s.config.Rounds) {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if err := s.step(ctx, svc, bank, names, strategies); err != nil {
			return nil, 0, err
		}

		last, err := svc.LastScore(ctx)
		if err != nil {
			return nil, 0, err
		}
		if last.Round != settled {
			settled = last.Round
			stats.AddRound(last)
		}
	}
	return stats, bank.Pool(), nil
}

// step makes exactly one move for whoever holds the turn.
func (s *Simulator) step(ctx context.Context, svc *service.Service, bank *ledger.Bank, names []string, strategies []bot.Strategy) error {
	table, err := svc.Table(ctx)
	if err != nil {
		return err
	}
	if table.Phase.Kind != game.PlayerTurn {
		return fmt.Errorf("unexpected phase %s", table.Phase)
	}
	seat := table.Phase.Seat
	name := names[seat]

	if table.Seats[seat].State == game.NotPlaying {
		reported, err := bank.Balance(ctx)
		if err != nil {
			return err
		}
		stake := min(s.config.Stake, game.MaxBid(reported), bank.Wallet(name))
		if stake == 0 {
			return fmt.Errorf("%s cannot stake: pool or wallet exhausted", name)
		}
		return svc.Bid(ctx, name, seat, stake, stake)
	}

	decision := strategies[seat].Decide(bot.ViewOf(&table, seat))
	if decision.Action == bot.Hit {
		err := svc.Hit(ctx, name, seat)
		if !errors.Is(err, game.ErrHandClosed) {
			return err
		}
	}
	return svc.Hold(ctx, name, seat)
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, result *Result, strategy string) {
	stats := result.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS for %s-bot ===\n", strategy)
	fmt.Fprintf(w, "Seat rounds played: %d\n", stats.Rounds)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f stakes/round\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.4f stakes/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f stakes\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f stakes\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] stakes/round\n", low, high)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	fmt.Fprintf(w, "Win rate: %.2f%%\n", stats.WinRate()*100)
	fmt.Fprintf(w, "Blackjack rate: %.2f%%\n", stats.BlackjackRate()*100)
	fmt.Fprintf(w, "Busts: %d\n", stats.Busts)

	fmt.Fprintf(w, "\n=== POOL ===\n")
	fmt.Fprintf(w, "Staked: %d, paid out: %d, forfeited: %d\n", stats.TotalStaked, stats.TotalPaid, stats.TotalLost)
	fmt.Fprintf(w, "Pool drift across %d tables: %+d\n", len(result.Pools), result.PoolDrift)

	fmt.Fprintf(w, "\n=== SEAT ANALYSIS ===\n")
	for seat := range stats.SeatResults {
		if ss := stats.SeatResults[seat]; ss.Rounds > 0 {
			fmt.Fprintf(w, "Seat %d: %d rounds, %.3f stakes/round\n", seat, ss.Rounds, stats.SeatMean(seat))
		}
	}
}
