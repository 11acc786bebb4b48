package game

import (
	"fmt"
	"time"
)

// PhaseKind is the table-level stage of play.
type PhaseKind int

const (
	NoPlayers PhaseKind = iota
	PlayerTurn
	DealerTurn
)

// String returns the string representation of a phase kind
func (k PhaseKind) String() string {
	switch k {
	case NoPlayers:
		return "NoPlayers"
	case PlayerTurn:
		return "PlayerTurn"
	case DealerTurn:
		return "DealerTurn"
	default:
		return "Unknown"
	}
}

// Phase is the active table phase. Seat, IsFirstAction and TurnStart are
// only meaningful for PlayerTurn.
type Phase struct {
	Kind          PhaseKind `json:"kind"`
	Seat          int       `json:"player_seat,omitempty"`
	IsFirstAction bool      `json:"is_first,omitempty"`
	TurnStart     time.Time `json:"turn_start_time,omitzero"`
}

// TurnOf returns a fresh PlayerTurn for seat.
func TurnOf(seat int, now time.Time) Phase {
	return Phase{Kind: PlayerTurn, Seat: seat, IsFirstAction: true, TurnStart: now}
}

// IsTurnOf reports whether it is seat's turn.
func (p Phase) IsTurnOf(seat int) bool {
	return p.Kind == PlayerTurn && p.Seat == seat
}

// String returns a compact description for logs
func (p Phase) String() string {
	if p.Kind == PlayerTurn {
		return fmt.Sprintf("PlayerTurn{seat=%d first=%t}", p.Seat, p.IsFirstAction)
	}
	return p.Kind.String()
}

// allowedTransitions lists every legal phase change. PlayerTurn -> NoPlayers
// covers the last seated player leaving.
var allowedTransitions = map[[2]PhaseKind]bool{
	{NoPlayers, PlayerTurn}:  true,
	{PlayerTurn, PlayerTurn}: true,
	{PlayerTurn, DealerTurn}: true,
	{PlayerTurn, NoPlayers}:  true,
	{DealerTurn, NoPlayers}:  true,
	{DealerTurn, PlayerTurn}: true,
}

func checkTransition(from, to PhaseKind) error {
	if !allowedTransitions[[2]PhaseKind{from, to}] {
		return Wrapf(ErrIllegalTransition, "from %s to %s", from, to)
	}
	return nil
}
