package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// TestStateOption configures test state creation
type TestStateOption func(*testStateBuilder)

type testStateBuilder struct {
	setup   Setup
	now     time.Time
	players []string
	secrets []uint64
}

// Test state options
func WithHouseSecret(secret uint64) TestStateOption {
	return func(b *testStateBuilder) { b.setup.HouseSecret = secret }
}

func WithPlayers(names ...string) TestStateOption {
	return func(b *testStateBuilder) { b.players = names }
}

func WithSecrets(secrets ...uint64) TestStateOption {
	return func(b *testStateBuilder) { b.secrets = secrets }
}

func WithStartTime(now time.Time) TestStateOption {
	return func(b *testStateBuilder) { b.now = now }
}

// NewTestState creates a table state for testing with sensible defaults.
// Players are seated in order from seat 0.
func NewTestState(opts ...TestStateOption) *State {
	builder := &testStateBuilder{
		setup: Setup{
			Owner:         "owner",
			TableAddress:  "table",
			LedgerAddress: "bank",
			HouseSecret:   42,
		},
		now: time.Unix(1_700_000_000, 0),
	}

	for _, opt := range opts {
		opt(builder)
	}

	s := NewState(builder.setup)
	for i, name := range builder.players {
		secret := uint64(i + 1)
		if i < len(builder.secrets) {
			secret = builder.secrets[i]
		}
		if _, err := s.Sit(Call{Caller: name, Now: builder.now}, i, secret); err != nil {
			panic(err)
		}
	}
	return s
}

// RigDeck replaces the undealt deck with cards in the given order, e.g.
// "Ts As Kh". Cards already held stay where they are.
func RigDeck(s *State, cards string) {
	s.Deck.Cards = deck.MustParseCards(cards)
	s.Deck.Next = 0
}
