package service

import (
	"sync"

	"github.com/lox/blackjack/internal/game"
)

// DefaultHistorySize is how many settled rounds History keeps.
const DefaultHistorySize = 100

// History is a bounded ring of settled rounds, oldest first.
type History struct {
	mu     sync.RWMutex
	rounds []game.RoundResult
	next   int
	full   bool
}

// NewHistory returns a ring holding up to size rounds.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{rounds: make([]game.RoundResult, size)}
}

// Add records a round, evicting the oldest once full.
func (h *History) Add(r game.RoundResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rounds[h.next] = r.Clone()
	h.next = (h.next + 1) % len(h.rounds)
	if h.next == 0 {
		h.full = true
	}
}

// Len returns the number of rounds held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.full {
		return len(h.rounds)
	}
	return h.next
}

// Rounds returns a copy of the held rounds, oldest first.
func (h *History) Rounds() []game.RoundResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []game.RoundResult
	if h.full {
		out = make([]game.RoundResult, 0, len(h.rounds))
		for i := range h.rounds {
			out = append(out, h.rounds[(h.next+i)%len(h.rounds)].Clone())
		}
		return out
	}
	out = make([]game.RoundResult, 0, h.next)
	for i := 0; i < h.next; i++ {
		out = append(out, h.rounds[i].Clone())
	}
	return out
}
