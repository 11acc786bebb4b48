package game

import "fmt"

// EffectKind names an instruction for the ledger.
type EffectKind int

const (
	// EscrowStake moves attached bid funds from the player into table escrow.
	EscrowStake EffectKind = iota
	// PayWinner pays the reward from the shared pool.
	PayWinner
	// ReturnStake returns the original stake from escrow.
	ReturnStake
	// ForfeitStake moves a lost stake from escrow into the shared pool.
	ForfeitStake
	// RegisterGameAddress points the ledger at the table address.
	RegisterGameAddress
)

// String returns the string representation of an effect kind
func (k EffectKind) String() string {
	switch k {
	case EscrowStake:
		return "EscrowStake"
	case PayWinner:
		return "PayWinner"
	case ReturnStake:
		return "ReturnStake"
	case ForfeitStake:
		return "ForfeitStake"
	case RegisterGameAddress:
		return "RegisterGameAddress"
	default:
		return "Unknown"
	}
}

// Effect is one pending ledger instruction. Effects are produced in decision
// order and only executed once the whole call has succeeded.
type Effect struct {
	Kind    EffectKind `json:"kind"`
	Account string     `json:"account"`
	Amount  uint64     `json:"amount,omitempty"`
}

func (e Effect) String() string {
	if e.Kind == RegisterGameAddress {
		return fmt.Sprintf("%s(%s)", e.Kind, e.Account)
	}
	return fmt.Sprintf("%s(%s, %d)", e.Kind, e.Account, e.Amount)
}
