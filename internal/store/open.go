package store

import (
	"context"
	"fmt"
)

// Options selects and configures a backend.
type Options struct {
	Backend   string
	Path      string
	RedisAddr string
	RedisDB   int
	RedisHash string
}

// Open returns a Store over the configured backend.
func Open(ctx context.Context, opts Options) (*Store, error) {
	switch opts.Backend {
	case "", "memory":
		return New(NewMemory()), nil
	case "sqlite":
		kv, err := OpenSQLite(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", opts.Path, err)
		}
		return New(kv), nil
	case "redis":
		hash := opts.RedisHash
		if hash == "" {
			hash = "blackjack:table"
		}
		kv := NewRedis(opts.RedisAddr, "", opts.RedisDB, hash)
		if err := kv.Ping(ctx); err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("connect redis %s: %w", opts.RedisAddr, err)
		}
		return New(kv), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
