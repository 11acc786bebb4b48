package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 300*time.Second, cfg.IdleKick())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
table {
  house_secret      = 1234
  idle_kick_seconds = 60
}

ledger {
  owner           = "house"
  reserve_percent = 20
  initial_pool    = 5000
}

store {
  backend = "sqlite"
  path    = "/tmp/table.db"
}

log {
  level = "debug"
}
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint64(1234), cfg.Table.HouseSecret)
	assert.Equal(t, time.Minute, cfg.IdleKick())
	assert.Equal(t, "table", cfg.Table.Address)
	assert.Equal(t, "uscrt", cfg.Table.Denom)
	assert.Equal(t, "house", cfg.Ledger.Owner)
	assert.Equal(t, uint64(20), cfg.Ledger.ReservePercent)
	assert.Equal(t, uint64(5000), cfg.Ledger.InitialPool)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/table.db", cfg.Store.Path)
	assert.Equal(t, "localhost:6379", cfg.Store.RedisAddr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`table {`), "broken.hcl")
	require.ErrorContains(t, err, "failed to parse HCL")

	_, err = Parse([]byte(`table { unknown = 1 }
ledger {}
store {}
log {}`), "unknown.hcl")
	require.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"bad backend", func(c *Config) { c.Store.Backend = "etcd" }, "invalid store backend"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "invalid log level"},
		{"reserve too high", func(c *Config) { c.Ledger.ReservePercent = 100 }, "reserve_percent"},
		{"idle", func(c *Config) { c.Table.IdleKickSeconds = -1 }, "idle_kick_seconds"},
		{"same address", func(c *Config) { c.Ledger.Address = c.Table.Address }, "distinct addresses"},
		{"no owner", func(c *Config) { c.Ledger.Owner = "" }, "owner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			require.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
