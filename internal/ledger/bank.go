package ledger

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/lox/blackjack/internal/game"
)

// Bank is an in-memory ledger: a shared pool, an escrow account for stakes
// held by the table and one wallet per identity.
//
// A new bank is pending until the table registers its address; until then
// every call except the registration fails.
type Bank struct {
	mu             sync.Mutex
	owner          string
	game           string
	pending        bool
	reservePercent uint64

	pool    uint64
	escrow  uint64
	wallets map[string]uint64
}

// BankOption configures a Bank.
type BankOption func(*Bank)

// WithReservePercent overrides DefaultReservePercent.
func WithReservePercent(percent uint64) BankOption {
	return func(b *Bank) { b.reservePercent = percent }
}

// WithWallet credits an identity's wallet at creation.
func WithWallet(identity string, amount uint64) BankOption {
	return func(b *Bank) { b.wallets[identity] += amount }
}

// WithEscrow seeds the escrow account, used when reattaching to a table
// whose stakes were taken by an earlier process.
func WithEscrow(amount uint64) BankOption {
	return func(b *Bank) { b.escrow += amount }
}

// NewBank creates a pending bank owned by owner holding pool.
func NewBank(owner string, pool uint64, opts ...BankOption) *Bank {
	b := &Bank{
		owner:          owner,
		pending:        true,
		reservePercent: DefaultReservePercent,
		pool:           pool,
		wallets:        make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Balance returns the reported pool balance.
func (b *Bank) Balance(ctx context.Context) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Reported(b.pool, b.reservePercent), nil
}

// Pool returns the literal pool balance.
func (b *Bank) Pool() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pool
}

// Escrow returns the stakes currently held for the table.
func (b *Bank) Escrow() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.escrow
}

// Wallet returns identity's spendable funds.
func (b *Bank) Wallet(identity string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.wallets[identity]
}

// Pending reports whether the table has not registered yet.
func (b *Bank) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// GameAddress returns the registered table address.
func (b *Bank) GameAddress() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.game
}

// Credit adds funds to identity's wallet.
func (b *Bank) Credit(identity string, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wallets[identity] += amount
}

// Deposit moves funds from the owner's wallet into the pool.
func (b *Bank) Deposit(ctx context.Context, caller string, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkOwner(caller); err != nil {
		return err
	}
	if err := b.debit(caller, amount); err != nil {
		return err
	}
	b.pool += amount
	return nil
}

// UpdateGameAddress registers the table address and clears the pending
// flag. After initialization only the owner may repoint it.
func (b *Bank) UpdateGameAddress(ctx context.Context, caller, address string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.updateGameAddress(caller, address)
}

// ChangeOwner hands ownership to newOwner.
func (b *Bank) ChangeOwner(ctx context.Context, caller, newOwner string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending {
		return ErrPending
	}
	if err := b.checkOwner(caller); err != nil {
		return err
	}
	if newOwner == "" {
		return game.Wrapf(game.ErrNoIdentity, "new owner")
	}
	b.owner = newOwner
	return nil
}

// EmergencyWithdrawAll empties the whole pool, reserve included, into the
// owner's wallet and returns the amount moved.
func (b *Bank) EmergencyWithdrawAll(ctx context.Context, caller string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending {
		return 0, ErrPending
	}
	if err := b.checkOwner(caller); err != nil {
		return 0, err
	}
	amount := b.pool
	b.pool = 0
	b.wallets[b.owner] += amount
	return amount, nil
}

// PayToWinner pays amount from the pool to recipient.
func (b *Bank) PayToWinner(ctx context.Context, caller string, amount uint64, recipient string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending {
		return ErrPending
	}
	return b.payToWinner(caller, amount, recipient)
}

// Apply executes effects in order. If any of them fails the bank is left as
// it was before the call.
func (b *Bank) Apply(ctx context.Context, caller string, effects []game.Effect) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	saved := b.snapshot()
	for i, e := range effects {
		if err := b.apply(caller, e); err != nil {
			b.restore(saved)
			return fmt.Errorf("effect %d %s: %w", i, e, err)
		}
	}
	return nil
}

func (b *Bank) apply(caller string, e game.Effect) error {
	if e.Kind == game.RegisterGameAddress {
		return b.updateGameAddress(caller, e.Account)
	}
	if b.pending {
		return ErrPending
	}

	switch e.Kind {
	case game.PayWinner:
		return b.payToWinner(caller, e.Amount, e.Account)
	case game.EscrowStake:
		if err := b.checkGame(caller); err != nil {
			return err
		}
		if err := b.debit(e.Account, e.Amount); err != nil {
			return err
		}
		b.escrow += e.Amount
	case game.ReturnStake, game.ForfeitStake:
		if err := b.checkGame(caller); err != nil {
			return err
		}
		if b.escrow < e.Amount {
			return game.Wrapf(game.ErrCorruptState, "escrow %d below stake %d", b.escrow, e.Amount)
		}
		b.escrow -= e.Amount
		if e.Kind == game.ReturnStake {
			b.wallets[e.Account] += e.Amount
		} else {
			b.pool += e.Amount
		}
	default:
		return game.Wrapf(ErrUnknownEffect, "%d", int(e.Kind))
	}
	return nil
}

func (b *Bank) updateGameAddress(caller, address string) error {
	if !b.pending {
		if err := b.checkOwner(caller); err != nil {
			return err
		}
	}
	if address == "" {
		return game.Wrapf(game.ErrNoIdentity, "game address")
	}
	b.game = address
	b.pending = false
	return nil
}

func (b *Bank) payToWinner(caller string, amount uint64, recipient string) error {
	if err := b.checkGame(caller); err != nil {
		return err
	}
	if amount > b.pool {
		return game.Wrapf(ErrInsufficientPool, "asked for %d, balance is %d", amount, b.pool)
	}
	b.pool -= amount
	b.wallets[recipient] += amount
	return nil
}

func (b *Bank) debit(identity string, amount uint64) error {
	if have := b.wallets[identity]; have < amount {
		return game.Wrapf(ErrInsufficientFunds, "%q has %d, needs %d", identity, have, amount)
	}
	b.wallets[identity] -= amount
	return nil
}

func (b *Bank) checkOwner(caller string) error {
	if caller != b.owner {
		return game.Wrapf(game.ErrUnauthorized, "%q is not the owner", caller)
	}
	return nil
}

func (b *Bank) checkGame(caller string) error {
	if caller == "" || caller != b.game {
		return game.Wrapf(game.ErrUnauthorized, "only the table can move funds, not %q", caller)
	}
	return nil
}

type bankState struct {
	game    string
	pending bool
	pool    uint64
	escrow  uint64
	wallets map[string]uint64
}

func (b *Bank) snapshot() bankState {
	return bankState{
		game:    b.game,
		pending: b.pending,
		pool:    b.pool,
		escrow:  b.escrow,
		wallets: maps.Clone(b.wallets),
	}
}

func (b *Bank) restore(s bankState) {
	b.game = s.game
	b.pending = s.pending
	b.pool = s.pool
	b.escrow = s.escrow
	b.wallets = s.wallets
}
