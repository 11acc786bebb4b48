package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Tables:   3,
		Rounds:   20,
		Players:  4,
		Strategy: "basic",
		Stake:    10,
		Seed:     12345,
		Timeout:  30 * time.Second,
		Logger:   log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel}),
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(Config{Players: 9})
	assert.Equal(t, 6, s.config.Players)
	assert.Equal(t, uint64(10), s.config.Stake)
	assert.Equal(t, uint64(1_000_000), s.config.InitialPool)
	assert.NotNil(t, s.config.Logger)
}

func TestRunPlaysEveryRound(t *testing.T) {
	cfg := testConfig()
	result, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	stats := result.Stats
	assert.Equal(t, cfg.Tables*cfg.Rounds*cfg.Players, stats.Rounds)
	require.NoError(t, stats.Validate())
	assert.Len(t, result.Pools, cfg.Tables)
	assert.Equal(t, stats.PoolDrift(), result.PoolDrift)
	for seat := 0; seat < cfg.Players; seat++ {
		assert.Equal(t, cfg.Tables*cfg.Rounds, stats.SeatResults[seat].Rounds)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.Strategy = "random"

	a, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	b, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Pools, b.Pools)
	assert.Equal(t, a.Stats.Wins, b.Stats.Wins)
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Strategy = "martingale"
	_, err := New(cfg).Run(context.Background())
	require.ErrorContains(t, err, "unknown strategy")

	cfg = testConfig()
	cfg.Rounds = 0
	_, err = New(cfg).Run(context.Background())
	require.Error(t, err)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testConfig()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPrintSummary(t *testing.T) {
	result, err := New(testConfig()).Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, result, "basic")
	out := buf.String()
	assert.Contains(t, out, "FINAL RESULTS for basic-bot")
	assert.Contains(t, out, "Win rate:")
	assert.Contains(t, out, "Seat 3:")
}
