package deck

import (
	"errors"

	"github.com/lox/blackjack/internal/randutil"
)

// Size is the number of cards in a standard deck.
const Size = 52

// ErrExhausted is returned when every card of the deck has been dealt.
var ErrExhausted = errors.New("deck exhausted")

// Deck is a fixed permutation of cards plus a cursor to the next undealt
// position. The cursor only moves forward until the next round regenerates
// the deck.
type Deck struct {
	Cards      []Card   `json:"cards"`
	Next       int      `json:"next_free_card"`
	Seed       [32]byte `json:"seed"`
	Reshuffles int      `json:"reshuffles,omitempty"`
}

// Canonical returns the 52 cards in suit-major order, no jokers.
func Canonical() []Card {
	cards := make([]Card, 0, Size)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// NewShuffled builds a canonical deck and shuffles it once with a ChaCha8
// generator keyed by seed.
func NewShuffled(seed [32]byte) Deck {
	d := Deck{
		Cards: Canonical(),
		Seed:  seed,
	}
	shuffle(d.Cards, seed)
	return d
}

// shuffle is Fisher-Yates driven by the seeded generator.
func shuffle(cards []Card, seed [32]byte) {
	rng := randutil.FromDigest(seed)
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Draw deals the next unconsumed card. It never reads past the end of the
// deck.
func (d *Deck) Draw() (Card, error) {
	if d.Next >= len(d.Cards) {
		return Card{}, ErrExhausted
	}
	card := d.Cards[d.Next]
	d.Next++
	return card, nil
}

// Remaining returns the number of cards left to deal.
func (d *Deck) Remaining() int {
	if d.Next >= len(d.Cards) {
		return 0
	}
	return len(d.Cards) - d.Next
}

// Reshuffle replaces the deck with every card not in inPlay, shuffled with a
// seed chained off the round seed. It fails with ErrExhausted if nothing is
// left to deal.
func (d *Deck) Reshuffle(inPlay []Card) error {
	held := make(map[Card]bool, len(inPlay))
	for _, c := range inPlay {
		held[c] = true
	}

	remaining := make([]Card, 0, Size)
	for _, c := range Canonical() {
		if !held[c] {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		return ErrExhausted
	}

	d.Reshuffles++
	shuffle(remaining, reshuffleSeed(d.Seed, d.Reshuffles))
	d.Cards = remaining
	d.Next = 0
	return nil
}

// Clone returns a deep copy.
func (d Deck) Clone() Deck {
	c := d
	c.Cards = append([]Card(nil), d.Cards...)
	return c
}
