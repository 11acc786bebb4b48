package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalDeck(t *testing.T) {
	cards := Canonical()
	require.Len(t, cards, Size)

	seen := make(map[Card]bool)
	for _, c := range cards {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Equal(t, NewCard(Spades, Two), cards[0])
	assert.Equal(t, NewCard(Clubs, Ace), cards[Size-1])
}

func TestSeedIsDeterministic(t *testing.T) {
	a := Seed(7, []uint64{11, 22})
	b := Seed(7, []uint64{11, 22})
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, Seed(8, []uint64{11, 22}), "round counter must change the seed")
	assert.NotEqual(t, a, Seed(7, []uint64{22, 11}), "seat order must change the seed")
	assert.NotEqual(t, a, Seed(7, []uint64{11}), "every occupied seat contributes")
}

func TestNewShuffledIsPermutation(t *testing.T) {
	d := NewShuffled(Seed(1, []uint64{42}))
	require.Len(t, d.Cards, Size)
	assert.ElementsMatch(t, Canonical(), d.Cards)
	assert.NotEqual(t, Canonical(), d.Cards)
	assert.Equal(t, 0, d.Next)
}

func TestNewShuffledSameSeedSameOrder(t *testing.T) {
	seed := Seed(99, []uint64{1, 2, 3})
	assert.Equal(t, NewShuffled(seed).Cards, NewShuffled(seed).Cards)
	assert.NotEqual(t, NewShuffled(seed).Cards, NewShuffled(Seed(100, []uint64{1, 2, 3})).Cards)
}

func TestDrawAdvancesCursorAndStopsAtEnd(t *testing.T) {
	d := NewShuffled(Seed(5, nil))
	for i := 0; i < Size; i++ {
		c, err := d.Draw()
		require.NoError(t, err)
		assert.Equal(t, d.Cards[i], c)
		assert.Equal(t, i+1, d.Next)
	}
	assert.Equal(t, 0, d.Remaining())

	_, err := d.Draw()
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, Size, d.Next, "cursor must not move past the end")
}

func TestReshuffleExcludesCardsInPlay(t *testing.T) {
	d := NewShuffled(Seed(3, []uint64{4}))
	for i := 0; i < Size; i++ {
		_, err := d.Draw()
		require.NoError(t, err)
	}

	inPlay := MustParseCards("AsKhQd2c")
	require.NoError(t, d.Reshuffle(inPlay))
	assert.Equal(t, Size-len(inPlay), d.Remaining())
	assert.Equal(t, 1, d.Reshuffles)
	for _, c := range d.Cards {
		assert.NotContains(t, inPlay, c)
	}

	// Reshuffling is reproducible from the round seed.
	other := NewShuffled(Seed(3, []uint64{4}))
	other.Next = Size
	require.NoError(t, other.Reshuffle(inPlay))
	assert.Equal(t, d.Cards, other.Cards)
}

func TestReshuffleWithEverythingInPlay(t *testing.T) {
	d := NewShuffled(Seed(1, nil))
	d.Next = Size
	assert.ErrorIs(t, d.Reshuffle(Canonical()), ErrExhausted)
}

func TestCloneIsDeep(t *testing.T) {
	d := NewShuffled(Seed(1, nil))
	first := d.Cards[0]
	c := d.Clone()
	c.Cards[0], c.Cards[1] = c.Cards[1], c.Cards[0]
	c.Next = 10
	assert.Equal(t, 0, d.Next)
	assert.Equal(t, first, d.Cards[0])
}
