package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// SeatOutcome represents the settled result of one seat in one round
type SeatOutcome struct {
	Net       float64 // Net result in stakes: reward/stake on a win, -1 on a loss
	Seat      int     // Seat index (0-5)
	Won       bool    // Did the seat beat the dealer?
	Blackjack bool    // Did the seat finish on exactly 21?
	Bust      bool    // Did the seat go over 21?
	Stake     uint64  // Amount staked
	Reward    uint64  // Amount paid from the pool
}

// OutcomeFromResult converts a settled seat into a SeatOutcome
func OutcomeFromResult(seat int, r *game.SeatResult) SeatOutcome {
	o := SeatOutcome{
		Seat:      seat,
		Won:       r.Won,
		Blackjack: r.Score == game.Bust,
		Bust:      r.Score > game.Bust,
		Stake:     r.Stake,
		Reward:    r.Reward,
	}
	switch {
	case r.Stake == 0:
	case r.Won:
		o.Net = float64(r.Reward) / float64(r.Stake)
	default:
		o.Net = -1
	}
	return o
}

// SeatStats tracks statistics for a specific seat
type SeatStats struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64
}

// Statistics tracks blackjack simulation statistics
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	Wins       int
	Blackjacks int
	Busts      int
	WinNet     float64 // Net from winning seats
	LossNet    float64 // Net from losing seats
	AllNet     float64 // Total net for sanity check

	// Money moved through the pool
	TotalStaked uint64
	TotalPaid   uint64 // Rewards paid from the pool
	TotalLost   uint64 // Stakes forfeited to the pool

	SeatResults [game.MaxSeats]SeatStats
}

// Mean returns the arithmetic mean of all results in stakes per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate returns the fraction of seats that beat the dealer
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// BlackjackRate returns the fraction of seats that finished on 21
func (s *Statistics) BlackjackRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Blackjacks) / float64(s.Rounds)
}

// PoolDrift returns how much the pool gained (positive) or lost
func (s *Statistics) PoolDrift() int64 {
	return int64(s.TotalLost) - int64(s.TotalPaid)
}

// Add incorporates a new seat outcome into the statistics
func (s *Statistics) Add(o SeatOutcome) {
	s.Rounds++
	s.SumNet += o.Net
	s.SumNet2 += o.Net * o.Net
	s.Values = append(s.Values, o.Net)
	s.AllNet += o.Net
	s.TotalStaked += o.Stake

	if o.Won {
		s.Wins++
		s.WinNet += o.Net
		s.TotalPaid += o.Reward
	} else {
		s.LossNet += o.Net
		s.TotalLost += o.Stake
	}
	if o.Blackjack {
		s.Blackjacks++
	}
	if o.Bust {
		s.Busts++
	}

	if o.Seat >= 0 && o.Seat < game.MaxSeats {
		s.SeatResults[o.Seat].Rounds++
		s.SeatResults[o.Seat].SumNet += o.Net
		s.SeatResults[o.Seat].SumNet2 += o.Net * o.Net
	}
}

// AddRound incorporates every settled seat of a round
func (s *Statistics) AddRound(r game.RoundResult) {
	for seat, p := range r.Players {
		if p != nil {
			s.Add(OutcomeFromResult(seat, p))
		}
	}
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Blackjacks += other.Blackjacks
	s.Busts += other.Busts
	s.WinNet += other.WinNet
	s.LossNet += other.LossNet
	s.AllNet += other.AllNet
	s.TotalStaked += other.TotalStaked
	s.TotalPaid += other.TotalPaid
	s.TotalLost += other.TotalLost
	for i := range s.SeatResults {
		s.SeatResults[i].Rounds += other.SeatResults[i].Rounds
		s.SeatResults[i].SumNet += other.SeatResults[i].SumNet
		s.SeatResults[i].SumNet2 += other.SeatResults[i].SumNet2
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the mean result for a specific seat (0-5)
func (s *Statistics) SeatMean(seat int) float64 {
	if seat < 0 || seat >= game.MaxSeats {
		return 0
	}
	ss := s.SeatResults[seat]
	if ss.Rounds == 0 {
		return 0
	}
	return ss.SumNet / float64(ss.Rounds)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllNet-s.WinNet-s.LossNet) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f, WinNet=%.6f, LossNet=%.6f",
			s.AllNet, s.WinNet, s.LossNet)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if s.Wins > s.Rounds {
		return fmt.Errorf("wins (%d) exceeds total rounds (%d)", s.Wins, s.Rounds)
	}

	totalSeatRounds := 0
	for seat := range s.SeatResults {
		totalSeatRounds += s.SeatResults[seat].Rounds
	}
	if totalSeatRounds != s.Rounds {
		return fmt.Errorf("seat rounds total (%d) does not match total rounds (%d)",
			totalSeatRounds, s.Rounds)
	}

	return nil
}
