package bot

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// ChartBot plays the textbook hit/stand chart against the dealer's up-card.
// There is no doubling or splitting at this table so only the hit/stand
// columns apply.
type ChartBot struct {
	logger *log.Logger
}

// NewChartBot creates a new ChartBot instance
func NewChartBot(logger *log.Logger) *ChartBot {
	return &ChartBot{logger: logger}
}

func (c *ChartBot) Decide(v View) Decision {
	score := v.Hand.Score()
	up := 10
	if v.HasUp {
		up = v.DealerUp.Points()
		if v.DealerUp.IsAce() {
			up = 11
		}
	}

	hit := false
	switch {
	case v.soft():
		// Soft 18 hits against 9, 10 or ace; soft 19 and up always stands.
		hit = score <= 17 || (score == 18 && up >= 9)
	case score <= 11:
		hit = true
	case score == 12:
		hit = up < 4 || up > 6
	case score <= 16:
		hit = up > 6
	}

	if hit {
		return Decision{Action: Hit, Reasoning: fmt.Sprintf("chart-bot hits %d against %d", score, up)}
	}
	return Decision{Action: Hold, Reasoning: fmt.Sprintf("chart-bot stands %d against %d", score, up)}
}
