package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

// RandBot hits or holds at random until it can no longer hit
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) Decide(v View) Decision {
	if v.Hand.Total >= game.Bust {
		return Decision{Action: Hold, Reasoning: "rand-bot cannot hit"}
	}
	if r.rng.IntN(2) == 0 {
		return Decision{Action: Hit, Reasoning: "rand-bot random hit"}
	}
	return Decision{Action: Hold, Reasoning: "rand-bot random hold"}
}
