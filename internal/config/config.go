// Package config loads the HCL configuration for a blackjack table.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete table configuration
type Config struct {
	Table  TableSettings  `hcl:"table,block"`
	Ledger LedgerSettings `hcl:"ledger,block"`
	Store  StoreSettings  `hcl:"store,block"`
	Log    LogSettings    `hcl:"log,block"`
}

// TableSettings configures the table itself
type TableSettings struct {
	Address         string `hcl:"address,optional"`
	HouseSecret     uint64 `hcl:"house_secret,optional"`
	IdleKickSeconds int    `hcl:"idle_kick_seconds,optional"`
	Denom           string `hcl:"denom,optional"`
}

// LedgerSettings configures the in-process bank
type LedgerSettings struct {
	Address        string `hcl:"address,optional"`
	Owner          string `hcl:"owner,optional"`
	ReservePercent uint64 `hcl:"reserve_percent,optional"`
	InitialPool    uint64 `hcl:"initial_pool,optional"`
}

// StoreSettings selects the persistence backend
type StoreSettings struct {
	Backend   string `hcl:"backend,optional"`
	Path      string `hcl:"path,optional"`
	RedisAddr string `hcl:"redis_addr,optional"`
	RedisDB   int    `hcl:"redis_db,optional"`
}

// LogSettings configures logging
type LogSettings struct {
	Level string `hcl:"level,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Table: TableSettings{
			Address:         "table",
			IdleKickSeconds: 300,
			Denom:           "uscrt",
		},
		Ledger: LedgerSettings{
			Address:        "bank",
			Owner:          "owner",
			ReservePercent: 10,
			InitialPool:    1_000_000,
		},
		Store: StoreSettings{
			Backend:   "memory",
			Path:      "blackjack.db",
			RedisAddr: "localhost:6379",
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills unset values from Default.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Table.Address == "" {
		c.Table.Address = def.Table.Address
	}
	if c.Table.IdleKickSeconds == 0 {
		c.Table.IdleKickSeconds = def.Table.IdleKickSeconds
	}
	if c.Table.Denom == "" {
		c.Table.Denom = def.Table.Denom
	}
	if c.Ledger.Address == "" {
		c.Ledger.Address = def.Ledger.Address
	}
	if c.Ledger.Owner == "" {
		c.Ledger.Owner = def.Ledger.Owner
	}
	if c.Ledger.ReservePercent == 0 {
		c.Ledger.ReservePercent = def.Ledger.ReservePercent
	}
	if c.Store.Backend == "" {
		c.Store.Backend = def.Store.Backend
	}
	if c.Store.Path == "" {
		c.Store.Path = def.Store.Path
	}
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = def.Store.RedisAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table.Address == "" || c.Ledger.Address == "" {
		return fmt.Errorf("table and ledger addresses must be set")
	}
	if c.Table.Address == c.Ledger.Address {
		return fmt.Errorf("table and ledger must have distinct addresses, both are %q", c.Table.Address)
	}
	if c.Table.IdleKickSeconds <= 0 {
		return fmt.Errorf("idle_kick_seconds must be positive, got %d", c.Table.IdleKickSeconds)
	}
	if c.Ledger.ReservePercent >= 100 {
		return fmt.Errorf("reserve_percent must be below 100, got %d", c.Ledger.ReservePercent)
	}
	if c.Ledger.Owner == "" {
		return fmt.Errorf("ledger owner must be set")
	}

	validBackends := map[string]bool{
		"memory": true,
		"sqlite": true,
		"redis":  true,
	}
	if !validBackends[c.Store.Backend] {
		return fmt.Errorf("invalid store backend %s", c.Store.Backend)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level %s", c.Log.Level)
	}
	return nil
}

// IdleKick returns the idle threshold as a duration.
func (c *Config) IdleKick() time.Duration {
	return time.Duration(c.Table.IdleKickSeconds) * time.Second
}
