package game

import (
	"github.com/lox/blackjack/internal/deck"
)

// MaxSeats is the fixed number of seats at the table.
const MaxSeats = 6

// Table is the shared table: six seat slots, the dealer's hand and the
// current phase. Seats are only reached through the checked accessors.
type Table struct {
	PlayersCount int              `json:"players_count"`
	Seats        [MaxSeats]Player `json:"players"`
	Dealer       *Hand            `json:"dealer_hand,omitempty"`
	Phase        Phase            `json:"state"`
}

// NewTable returns an empty table waiting for players.
func NewTable() Table {
	return Table{Phase: Phase{Kind: NoPlayers}}
}

// Seat returns the player slot at seat or ErrNoSuchSeat.
func (t *Table) Seat(seat int) (*Player, error) {
	if seat < 0 || seat >= MaxSeats {
		return nil, Wrapf(ErrNoSuchSeat, "seat %d", seat)
	}
	return &t.Seats[seat], nil
}

// SeatOf returns the seat occupied by identity or ErrPlayerNotFound.
func (t *Table) SeatOf(identity string) (int, error) {
	if identity != "" {
		for seat := range t.Seats {
			if t.Seats[seat].Identity == identity {
				return seat, nil
			}
		}
	}
	return -1, Wrapf(ErrPlayerNotFound, "%q is not seated", identity)
}

// firstWaiting returns the lowest occupied seat that has not played yet.
func (t *Table) firstWaiting(from int) (int, bool) {
	for seat := from; seat < MaxSeats; seat++ {
		p := &t.Seats[seat]
		if p.Occupied() && p.State == NotPlaying {
			return seat, true
		}
	}
	return -1, false
}

// anyHolding reports whether any seated player has finished drawing.
func (t *Table) anyHolding() bool {
	for seat := range t.Seats {
		if t.Seats[seat].Occupied() && t.Seats[seat].State == Hold {
			return true
		}
	}
	return false
}

// cardsInPlay lists every card currently held by a player or the dealer.
func (t *Table) cardsInPlay() []deck.Card {
	var cards []deck.Card
	for seat := range t.Seats {
		if h := t.Seats[seat].Hand; h != nil {
			cards = append(cards, h.Cards...)
		}
	}
	if t.Dealer != nil {
		cards = append(cards, t.Dealer.Cards...)
	}
	return cards
}

// countOccupied recounts seated players.
func (t *Table) countOccupied() int {
	n := 0
	for seat := range t.Seats {
		if t.Seats[seat].Occupied() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	c := t
	for i := range t.Seats {
		c.Seats[i] = t.Seats[i].clone()
	}
	c.Dealer = t.Dealer.Clone()
	return c
}

// Validate checks the structural invariants: PlayersCount matches the
// occupied seats, free seats carry no hand or state, and a PlayerTurn points
// at an occupied seat.
func (t *Table) Validate() error {
	if n := t.countOccupied(); n != t.PlayersCount {
		return Wrapf(ErrCorruptState, "players_count %d but %d seats occupied", t.PlayersCount, n)
	}
	for seat := range t.Seats {
		p := &t.Seats[seat]
		if !p.Occupied() && (p.Hand != nil || p.State != NotPlaying) {
			return Wrapf(ErrCorruptState, "empty seat %d has state %s", seat, p.State)
		}
	}
	switch t.Phase.Kind {
	case PlayerTurn:
		p, err := t.Seat(t.Phase.Seat)
		if err != nil {
			return Wrapf(ErrCorruptState, "turn on seat %d", t.Phase.Seat)
		}
		if !p.Occupied() {
			return Wrapf(ErrCorruptState, "turn on empty seat %d", t.Phase.Seat)
		}
		if p.State == Hold {
			return Wrapf(ErrCorruptState, "turn on holding seat %d", t.Phase.Seat)
		}
	case NoPlayers:
		if t.PlayersCount != 0 {
			return Wrapf(ErrCorruptState, "no-players phase with %d players", t.PlayersCount)
		}
	case DealerTurn:
		return Wrapf(ErrCorruptState, "dealer turn is never left pending between calls")
	}
	return nil
}
