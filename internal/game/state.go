package game

import (
	"maps"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// Call carries the caller identity and the time of an operation.
type Call struct {
	Caller string
	Now    time.Time
}

// SeatResult is the settled outcome for one seat.
type SeatResult struct {
	Identity string `json:"address"`
	Won      bool   `json:"win"`
	Score    int    `json:"score"`
	Reward   uint64 `json:"reward"`
	Stake    uint64 `json:"stake"`
}

// DealerResult records the dealer's final hand.
type DealerResult struct {
	Score int         `json:"score"`
	Cards []deck.Card `json:"cards,omitempty"`
}

// RoundResult is overwritten by every settlement. Seats that took no part in
// the round are nil.
type RoundResult struct {
	Round   uint64                `json:"round"`
	Players [MaxSeats]*SeatResult `json:"players"`
	Dealer  DealerResult          `json:"dealer"`
}

// Clone returns a deep copy.
func (r RoundResult) Clone() RoundResult {
	c := r
	for i, p := range r.Players {
		if p != nil {
			cp := *p
			c.Players[i] = &cp
		}
	}
	c.Dealer.Cards = append([]deck.Card(nil), r.Dealer.Cards...)
	return c
}

// State is the whole table aggregate. Every operation takes it as input and
// leaves it either fully updated or untouched.
type State struct {
	Owner         string            `json:"owner"`
	TableAddress  string            `json:"table_address"`
	LedgerAddress string            `json:"ledger_address"`
	Table         Table             `json:"table"`
	Deck          deck.Deck         `json:"deck"`
	RoundSecret   uint64            `json:"secret"`
	SeatSecrets   [MaxSeats]uint64  `json:"seat_secrets"`
	Balances      map[string]uint64 `json:"balances"`
	LastResult    RoundResult       `json:"scores"`
}

// Setup holds the values fixed when a table is created.
type Setup struct {
	Owner         string
	TableAddress  string
	LedgerAddress string
	// HouseSecret seeds the round counter. Whoever knows it together with
	// the seat secrets can predict the shuffle.
	HouseSecret uint64
}

// NewState returns an empty table. The deck starts from a seed made of the
// house secret alone and is replaced as soon as someone sits.
func NewState(setup Setup) *State {
	return &State{
		Owner:         setup.Owner,
		TableAddress:  setup.TableAddress,
		LedgerAddress: setup.LedgerAddress,
		Table:         NewTable(),
		Deck:          deck.NewShuffled(deck.Seed(setup.HouseSecret, nil)),
		RoundSecret:   setup.HouseSecret,
		Balances:      make(map[string]uint64),
	}
}

// InitEffects are the ledger instructions that bind a fresh table to its
// ledger.
func (s *State) InitEffects() []Effect {
	return []Effect{{Kind: RegisterGameAddress, Account: s.TableAddress}}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	c.Table = s.Table.Clone()
	c.Deck = s.Deck.Clone()
	c.Balances = maps.Clone(s.Balances)
	if c.Balances == nil {
		c.Balances = make(map[string]uint64)
	}
	c.LastResult = s.LastResult.Clone()
	return &c
}

// UserBalance returns the stake identity has on the table, zero if none.
func (s *State) UserBalance(identity string) uint64 {
	return s.Balances[identity]
}

// occupiedSecrets returns the secrets of occupied seats in seat order.
func (s *State) occupiedSecrets() []uint64 {
	secrets := make([]uint64, 0, MaxSeats)
	for seat := range s.Table.Seats {
		if s.Table.Seats[seat].Occupied() {
			secrets = append(secrets, s.SeatSecrets[seat])
		}
	}
	return secrets
}

// Validate checks the table invariants and that only seated players in a
// round hold a stake.
func (s *State) Validate() error {
	if err := s.Table.Validate(); err != nil {
		return err
	}
	for id, amount := range s.Balances {
		if amount == 0 {
			continue
		}
		seat, err := s.Table.SeatOf(id)
		if err != nil {
			return Wrapf(ErrCorruptState, "stake %d held for unseated %q", amount, id)
		}
		if !s.Table.Seats[seat].State.InRound() {
			return Wrapf(ErrCorruptState, "stake %d held for %q outside a round", amount, id)
		}
	}
	if s.Deck.Next > len(s.Deck.Cards) {
		return Wrapf(ErrCorruptState, "deck cursor %d past %d cards", s.Deck.Next, len(s.Deck.Cards))
	}
	return nil
}
