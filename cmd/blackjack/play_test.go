package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
)

func newTestTable(t *testing.T, cfg *config.Config) *table {
	t.Helper()
	tbl, err := openTable(context.Background(), cfg, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Close() })
	return tbl
}

func runScript(t *testing.T, tbl *table, script string) []string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, newSession(context.Background(), tbl, &out, "").run(strings.NewReader(script)))
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestPromptPlaysAndKicks(t *testing.T) {
	tbl := newTestTable(t, config.Default())

	lines := runScript(t, tbl, `
# a stake forfeited by an idle player ends up in the pool
fund alice 100
sit alice 0 7
bid alice 0 50
balance alice
sit alice 1 3
advance 301s
kick bob 0 alice
balance alice
pool
quit
table
`)

	require.Len(t, lines, 9)
	assert.Equal(t, "alice wallet: 100", lines[0])
	assert.Equal(t, "alice sits at seat 0", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "seat 0 alice: "), lines[2])
	assert.Equal(t, "alice wallet: 50 staked: 50", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "error: ValidationError: "), lines[4])
	assert.Equal(t, "clock advanced 5m1s", lines[5])
	assert.Equal(t, "alice kicked from seat 0", lines[6])
	assert.Equal(t, "alice wallet: 50 staked: 0", lines[7])
	assert.Equal(t, "pool: 1000050 reported: 900045 max bid: 120006 uscrt", lines[8])
}

func TestPromptReportsBadInput(t *testing.T) {
	tbl := newTestTable(t, config.Default())

	lines := runScript(t, tbl, "bogus\nsit alice\nhit alice 0\nscores\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `try "help"`)
	assert.Contains(t, lines[1], `try "help"`)
	assert.True(t, strings.HasPrefix(lines[2], "error: ValidationError: "), lines[2])
	assert.Equal(t, "no round settled yet", lines[3])
}

func TestPromptHoldSettlesRound(t *testing.T) {
	tbl := newTestTable(t, config.Default())

	runScript(t, tbl, "fund alice 100\nsit alice 0 7\nbid alice 0 20\n")
	lines := runScript(t, tbl, "hold alice 0\nbalance alice\n")

	r, err := tbl.svc.LastScore(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1), r.Round)
	require.NotNil(t, r.Players[0])

	assert.True(t, strings.HasPrefix(lines[0], "round 1 dealer: "), lines[0])
	want := uint64(80)
	if r.Players[0].Won {
		want += r.Players[0].Stake + r.Players[0].Reward
	}
	assert.Equal(t, "alice wallet: "+strconv.FormatUint(want, 10)+" staked: 0", lines[len(lines)-1])
}

func TestOpenTableReattachesStoredTable(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "sqlite"
	cfg.Store.Path = filepath.Join(t.TempDir(), "table.db")

	first, err := openTable(context.Background(), cfg, log.New(io.Discard))
	require.NoError(t, err)
	runScript(t, first, "fund alice 100\nsit alice 0 7\nbid alice 0 30\n")
	require.NoError(t, first.Close())

	second := newTestTable(t, cfg)
	assert.Equal(t, uint64(30), second.bank.Escrow())
	assert.False(t, second.bank.Pending())

	staked, err := second.svc.UserBalance(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(30), staked)

	lines := runScript(t, second, "stand alice 0\npool\n")
	assert.Equal(t, "alice leaves seat 0", lines[0])
	assert.Equal(t, "pool: 1000030 reported: 900027 max bid: 120003 uscrt", lines[1])
}

func TestSnapshotWritesStoredState(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "blackjack.hcl")
	dbPath := filepath.Join(dir, "table.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
table {
  address = "table-1"
}
ledger {}
store {
  backend = "sqlite"
  path    = "`+dbPath+`"
}
log {
  level = "error"
}
`), 0o644))

	g := &Globals{Config: cfgPath}
	cfg, err := g.loadConfig()
	require.NoError(t, err)
	tbl, err := openTable(context.Background(), cfg, log.New(io.Discard))
	require.NoError(t, err)
	runScript(t, tbl, "sit alice 2 9\n")
	require.NoError(t, tbl.Close())

	out := filepath.Join(dir, "snap.json")
	require.NoError(t, (&SnapshotCmd{Output: out}).Run(g))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"table_address": "table-1"`)
	assert.Contains(t, string(data), `"address": "alice"`)
}

func TestSkewClock(t *testing.T) {
	tbl := newTestTable(t, config.Default())
	before := tbl.clock.Now()
	tbl.clock.Advance(game.DefaultIdleKick)
	assert.GreaterOrEqual(t, tbl.clock.Since(before), game.DefaultIdleKick)
}
