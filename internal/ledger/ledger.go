// Package ledger holds the shared pool that funds payouts and executes the
// instructions produced by table operations.
package ledger

import (
	"context"

	"github.com/lox/blackjack/internal/game"
)

// DefaultReservePercent is the share of the pool held back for the owner and
// never reported to bidding logic.
const DefaultReservePercent = 10

var (
	ErrPending           = game.NewError(game.KindInvariant, "transaction made before the ledger was fully initialized")
	ErrInsufficientPool  = game.NewError(game.KindValidation, "insufficient pool balance")
	ErrInsufficientFunds = game.NewError(game.KindValidation, "insufficient funds")
	ErrUnknownEffect     = game.NewError(game.KindInvariant, "unknown effect")
)

// Ledger is what a table needs from the pool custodian.
type Ledger interface {
	// Balance returns the pool balance minus the reserve.
	Balance(ctx context.Context) (uint64, error)
	// PayToWinner pays amount from the pool to recipient. Only the
	// registered table address may call it.
	PayToWinner(ctx context.Context, caller string, amount uint64, recipient string) error
	// Apply executes effects in order on behalf of caller, all or nothing.
	Apply(ctx context.Context, caller string, effects []game.Effect) error
}

// Reported returns the balance exposed for a pool after holding back
// reservePercent.
func Reported(pool, reservePercent uint64) uint64 {
	if reservePercent >= 100 {
		return 0
	}
	return pool - pool/100*reservePercent - pool%100*reservePercent/100
}
