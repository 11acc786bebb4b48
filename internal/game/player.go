package game

// PlayerState is the per-seat progress through a round. Hold is terminal
// until settlement resets the seat to NotPlaying.
type PlayerState int

const (
	NotPlaying PlayerState = iota
	Bid
	Hit
	Hold
)

// String returns the string representation of a player state
func (s PlayerState) String() string {
	switch s {
	case NotPlaying:
		return "NotPlaying"
	case Bid:
		return "Bid"
	case Hit:
		return "Hit"
	case Hold:
		return "Hold"
	default:
		return "Unknown"
	}
}

// canMove is the per-player lattice: NotPlaying -> Bid -> Hit* -> Hold, with
// Bid allowed to go straight to Hold.
func (s PlayerState) canMove(to PlayerState) bool {
	switch s {
	case NotPlaying:
		return to == Bid
	case Bid, Hit:
		return to == Hit || to == Hold
	default:
		return false
	}
}

// InRound reports whether the player has staked in the current round.
func (s PlayerState) InRound() bool {
	return s == Bid || s == Hit || s == Hold
}

// Player occupies one seat. An empty identity marks a free seat.
type Player struct {
	Identity string      `json:"address"`
	Hand     *Hand       `json:"hand,omitempty"`
	State    PlayerState `json:"state"`
}

// Occupied reports whether someone sits in the slot.
func (p *Player) Occupied() bool {
	return p.Identity != ""
}

func (p *Player) clear() {
	p.Identity = ""
	p.Hand = nil
	p.State = NotPlaying
}

func (p Player) clone() Player {
	p.Hand = p.Hand.Clone()
	return p
}
