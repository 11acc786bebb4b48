package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Bust is the score above which a hand loses outright.
const Bust = 21

// DealerStandsOn is the score at which dealer auto-play stops drawing.
const DealerStandsOn = 17

// Hand is an ordered list of dealt cards plus the raw total with every ace
// counted as one.
type Hand struct {
	Cards []deck.Card `json:"cards"`
	Total int         `json:"total_value"`
}

// NewHand builds a hand from cards.
func NewHand(cards ...deck.Card) *Hand {
	h := &Hand{Cards: make([]deck.Card, 0, len(cards)+2)}
	for _, c := range cards {
		h.Add(c)
	}
	return h
}

// Add appends a card and updates the raw total.
func (h *Hand) Add(c deck.Card) {
	h.Cards = append(h.Cards, c)
	h.Total += c.Points()
}

// Score returns the best blackjack value of the hand. A busted raw total is
// returned as is; otherwise each ace is promoted by ten once, in order, while
// the running score stays at or under 21.
func (h *Hand) Score() int {
	if h == nil {
		return 0
	}
	if h.Total > Bust {
		return h.Total
	}

	score := h.Total
	for _, c := range h.Cards {
		if c.IsAce() && score+10 <= Bust {
			score += 10
		}
	}
	return score
}

// IsBust reports whether the hand is over 21.
func (h *Hand) IsBust() bool {
	return h.Score() > Bust
}

// Clone returns a deep copy, nil-safe.
func (h *Hand) Clone() *Hand {
	if h == nil {
		return nil
	}
	return &Hand{Cards: append([]deck.Card(nil), h.Cards...), Total: h.Total}
}

// String returns the cards separated by spaces
func (h *Hand) String() string {
	if h == nil {
		return ""
	}
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
