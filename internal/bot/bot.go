// Package bot provides automated blackjack players used by the simulator
// and the play command.
package bot

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Action is what a bot wants to do on its turn after bidding.
type Action int

const (
	Hit Action = iota
	Hold
)

// String returns the string representation of an action
func (a Action) String() string {
	if a == Hit {
		return "hit"
	}
	return "hold"
}

// Decision is a bot's chosen action with the reason behind it
type Decision struct {
	Action    Action
	Reasoning string
}

// View is what a player can see when deciding.
type View struct {
	Hand     *game.Hand
	DealerUp deck.Card
	HasUp    bool
}

// ViewOf builds the view for seat from a table snapshot.
func ViewOf(t *game.Table, seat int) View {
	v := View{}
	if p, err := t.Seat(seat); err == nil {
		v.Hand = p.Hand
	}
	if t.Dealer != nil && len(t.Dealer.Cards) > 0 {
		v.DealerUp = t.Dealer.Cards[0]
		v.HasUp = true
	}
	return v
}

// soft reports whether the hand's score counts an ace as eleven.
func (v View) soft() bool {
	return v.Hand.Score() != v.Hand.Total
}

// Strategy decides between hitting and holding
type Strategy interface {
	Decide(v View) Decision
}

// Factory builds a strategy for one bot.
type Factory func(rng *rand.Rand, logger *log.Logger) Strategy

var strategies = map[string]Factory{
	"basic": func(_ *rand.Rand, logger *log.Logger) Strategy {
		return NewThresholdBot("basic", game.DealerStandsOn, logger)
	},
	"cautious": func(_ *rand.Rand, logger *log.Logger) Strategy {
		return NewThresholdBot("cautious", 12, logger)
	},
	"chart": func(_ *rand.Rand, logger *log.Logger) Strategy {
		return NewChartBot(logger)
	},
	"random": func(rng *rand.Rand, logger *log.Logger) Strategy {
		return NewRandBot(rng, logger)
	},
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named strategy.
func New(name string, rng *rand.Rand, logger *log.Logger) (Strategy, error) {
	f, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (want one of %v)", name, Names())
	}
	return f(rng, logger.WithPrefix(name)), nil
}
