package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func TestHandScore(t *testing.T) {
	tests := []struct {
		cards string
		total int
		score int
	}{
		{"2c2d", 4, 4},
		{"AsKh", 11, 21},
		{"AsAd9c", 11, 21},
		{"AsAd", 2, 12},
		{"AsAdAhAc", 4, 14},
		{"Ks9hAd", 20, 20},
		{"KsQhAd", 21, 21},
		{"KsQh2d", 22, 22},
		{"KsQhAdAc", 22, 22},
		{"7h", 7, 7},
		{"Ah", 1, 11},
		{"", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			h := NewHand(deck.MustParseCards(tt.cards)...)
			assert.Equal(t, tt.total, h.Total)
			assert.Equal(t, tt.score, h.Score())
			assert.Equal(t, tt.score > Bust, h.IsBust())
		})
	}
}

func TestNilHand(t *testing.T) {
	var h *Hand
	assert.Equal(t, 0, h.Score())
	assert.Nil(t, h.Clone())
	assert.Equal(t, "", h.String())
}

func TestHandCloneIsDeep(t *testing.T) {
	h := NewHand(deck.MustParseCards("As Kh")...)
	c := h.Clone()
	c.Add(deck.MustParseCards("2c")[0])

	require.Len(t, h.Cards, 2)
	assert.Equal(t, 11, h.Total)
	assert.Equal(t, "A♠ K♥", h.String())
	assert.Equal(t, "A♠ K♥ 2♣", c.String())
}

func TestPlayerStateLattice(t *testing.T) {
	allowed := map[[2]PlayerState]bool{
		{NotPlaying, Bid}: true,
		{Bid, Hit}:        true,
		{Bid, Hold}:       true,
		{Hit, Hit}:        true,
		{Hit, Hold}:       true,
	}
	for _, from := range []PlayerState{NotPlaying, Bid, Hit, Hold} {
		for _, to := range []PlayerState{NotPlaying, Bid, Hit, Hold} {
			assert.Equal(t, allowed[[2]PlayerState{from, to}], from.canMove(to), "%s -> %s", from, to)
		}
	}
}

func TestPhaseTransitions(t *testing.T) {
	require.NoError(t, checkTransition(NoPlayers, PlayerTurn))
	require.NoError(t, checkTransition(PlayerTurn, DealerTurn))
	require.NoError(t, checkTransition(DealerTurn, NoPlayers))

	err := checkTransition(NoPlayers, DealerTurn)
	require.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, KindInvariant, KindOf(err))

	require.ErrorIs(t, checkTransition(DealerTurn, DealerTurn), ErrIllegalTransition)
	require.ErrorIs(t, checkTransition(NoPlayers, NoPlayers), ErrIllegalTransition)
}
