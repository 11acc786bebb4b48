package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack/internal/game"
)

func TestHistoryRing(t *testing.T) {
	h := NewHistory(3)
	assert.Empty(t, h.Rounds())

	for i := uint64(1); i <= 5; i++ {
		h.Add(game.RoundResult{Round: i})
	}
	assert.Equal(t, 3, h.Len())

	var rounds []uint64
	for _, r := range h.Rounds() {
		rounds = append(rounds, r.Round)
	}
	assert.Equal(t, []uint64{3, 4, 5}, rounds)
}

func TestHistoryPartial(t *testing.T) {
	h := NewHistory(0)
	h.Add(game.RoundResult{Round: 7})
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, uint64(7), h.Rounds()[0].Round)
}
