package store

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/lox/blackjack/internal/game"
)

// Redis is a KV kept in a single redis hash so a replace is one MULTI/EXEC.
type Redis struct {
	client *redis.Client
	hash   string
}

// NewRedis connects to addr and keeps the table under hash.
func NewRedis(addr, password string, db int, hash string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{client: client, hash: hash}
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.HGet(ctx, r.hash, key).Bytes()
	if err == redis.Nil {
		return nil, game.Wrapf(ErrNotFound, "%s", key)
	} else if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *Redis) All(ctx context.Context) (map[string][]byte, error) {
	fields, err := r.client.HGetAll(ctx, r.hash).Result()
	if err != nil {
		return nil, err
	}
	values := make(map[string][]byte, len(fields))
	for k, v := range fields {
		values[k] = []byte(v)
	}
	return values, nil
}

func (r *Redis) Replace(ctx context.Context, values map[string][]byte) error {
	args := make([]any, 0, 2*len(values))
	for k, v := range values {
		args = append(args, k, v)
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.hash)
		if len(args) > 0 {
			pipe.HSet(ctx, r.hash, args...)
		}
		return nil
	})
	return err
}

func (r *Redis) Close() error {
	return r.client.Close()
}
