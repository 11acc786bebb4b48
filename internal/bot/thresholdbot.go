package bot

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// ThresholdBot hits while its score is below a fixed threshold, the way the
// dealer plays when the threshold is 17.
type ThresholdBot struct {
	name      string
	threshold int
	logger    *log.Logger
}

// NewThresholdBot creates a bot that hits below threshold
func NewThresholdBot(name string, threshold int, logger *log.Logger) *ThresholdBot {
	return &ThresholdBot{name: name, threshold: threshold, logger: logger}
}

func (b *ThresholdBot) Decide(v View) Decision {
	score := v.Hand.Score()
	if score < b.threshold {
		return Decision{Action: Hit, Reasoning: fmt.Sprintf("%s-bot %d below %d", b.name, score, b.threshold)}
	}
	return Decision{Action: Hold, Reasoning: fmt.Sprintf("%s-bot holding on %d", b.name, score)}
}
