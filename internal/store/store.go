// Package store persists the table state as independent JSON-encoded keys.
// A save replaces every key in one transaction so a call's changes land
// together or not at all.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = game.NewError(game.KindNotFound, "key not found")

const (
	KeyOwner         = "owner"
	KeyTableAddress  = "table_address"
	KeyLedgerAddress = "ledger_address"
	KeyTable         = "table"
	KeyDeck          = "deck"
	KeySecret        = "secret"
	KeyScores        = "scores"
	seatSecretPrefix = "secret"
	balancePrefix    = "balance/"
)

// KV is a flat key space that can be replaced atomically.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	All(ctx context.Context) (map[string][]byte, error)
	Replace(ctx context.Context, values map[string][]byte) error
	Close() error
}

// Store maps game.State onto a KV backend.
type Store struct {
	kv KV
}

// New wraps a backend.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// SeatSecretKey is the key holding the secret of seat.
func SeatSecretKey(seat int) string {
	return seatSecretPrefix + strconv.Itoa(seat)
}

// BalanceKey is the key holding identity's stake.
func BalanceKey(identity string) string {
	return balancePrefix + identity
}

// Save writes every key of st, dropping balances that no longer exist.
func (s *Store) Save(ctx context.Context, st *game.State) error {
	values, err := Encode(st)
	if err != nil {
		return err
	}
	if err := s.kv.Replace(ctx, values); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Load reads the whole state. An empty store returns ErrNotFound; a store
// with some keys missing is corrupt.
func (s *Store) Load(ctx context.Context) (*game.State, error) {
	values, err := s.kv.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if len(values) == 0 {
		return nil, game.Wrapf(ErrNotFound, "no table has been created")
	}
	return Decode(values)
}

// Table reads only the table snapshot.
func (s *Store) Table(ctx context.Context) (game.Table, error) {
	var t game.Table
	err := s.get(ctx, KeyTable, &t)
	return t, err
}

// LastResult reads only the last round result.
func (s *Store) LastResult(ctx context.Context) (game.RoundResult, error) {
	var r game.RoundResult
	err := s.get(ctx, KeyScores, &r)
	return r, err
}

// Balance reads identity's stake. No stake is zero, not an error.
func (s *Store) Balance(ctx context.Context, identity string) (uint64, error) {
	var amount uint64
	err := s.get(ctx, BalanceKey(identity), &amount)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	return amount, err
}

func (s *Store) get(ctx context.Context, key string, v any) error {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return game.Wrapf(game.ErrCorruptState, "decode %s: %v", key, err)
	}
	return nil
}

// Encode flattens st into its persisted keys.
func Encode(st *game.State) (map[string][]byte, error) {
	values := make(map[string][]byte, 10+len(st.Balances))
	put := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		values[key] = raw
		return nil
	}

	fixed := []struct {
		key string
		v   any
	}{
		{KeyOwner, st.Owner},
		{KeyTableAddress, st.TableAddress},
		{KeyLedgerAddress, st.LedgerAddress},
		{KeyTable, st.Table},
		{KeyDeck, st.Deck},
		{KeySecret, st.RoundSecret},
		{KeyScores, st.LastResult},
	}
	for _, f := range fixed {
		if err := put(f.key, f.v); err != nil {
			return nil, err
		}
	}
	for seat, secret := range st.SeatSecrets {
		if st.Table.Seats[seat].Occupied() {
			if err := put(SeatSecretKey(seat), secret); err != nil {
				return nil, err
			}
		}
	}
	for identity, amount := range st.Balances {
		if amount > 0 {
			if err := put(BalanceKey(identity), amount); err != nil {
				return nil, err
			}
		}
	}
	return values, nil
}

// Decode rebuilds a state from its persisted keys and checks its
// invariants.
func Decode(values map[string][]byte) (*game.State, error) {
	st := &game.State{Balances: make(map[string]uint64)}
	get := func(key string, v any) error {
		raw, ok := values[key]
		if !ok {
			return game.Wrapf(game.ErrCorruptState, "missing key %s", key)
		}
		if err := json.Unmarshal(raw, v); err != nil {
			return game.Wrapf(game.ErrCorruptState, "decode %s: %v", key, err)
		}
		return nil
	}

	var d deck.Deck
	fixed := []struct {
		key string
		v   any
	}{
		{KeyOwner, &st.Owner},
		{KeyTableAddress, &st.TableAddress},
		{KeyLedgerAddress, &st.LedgerAddress},
		{KeyTable, &st.Table},
		{KeyDeck, &d},
		{KeySecret, &st.RoundSecret},
		{KeyScores, &st.LastResult},
	}
	for _, f := range fixed {
		if err := get(f.key, f.v); err != nil {
			return nil, err
		}
	}
	st.Deck = d

	for seat := range st.SeatSecrets {
		if !st.Table.Seats[seat].Occupied() {
			continue
		}
		if err := get(SeatSecretKey(seat), &st.SeatSecrets[seat]); err != nil {
			return nil, err
		}
	}
	for key := range values {
		identity, ok := strings.CutPrefix(key, balancePrefix)
		if !ok {
			continue
		}
		var amount uint64
		if err := get(key, &amount); err != nil {
			return nil, err
		}
		st.Balances[identity] = amount
	}

	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}
