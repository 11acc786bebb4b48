package statistics

import (
	"math"
	"strings"
	"testing"

	"github.com/lox/blackjack/internal/game"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if stats.WinRate() != 0 || stats.BlackjackRate() != 0 {
		t.Errorf("Expected zero rates for empty stats")
	}
	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error for empty stats")
	}
}

func TestOutcomeFromResult(t *testing.T) {
	tests := []struct {
		name   string
		result game.SeatResult
		want   SeatOutcome
	}{
		{
			name:   "blackjack win",
			result: game.SeatResult{Won: true, Score: 21, Stake: 100, Reward: 125},
			want:   SeatOutcome{Seat: 2, Net: 1.25, Won: true, Blackjack: true, Stake: 100, Reward: 125},
		},
		{
			name:   "plain win",
			result: game.SeatResult{Won: true, Score: 19, Stake: 100, Reward: 100},
			want:   SeatOutcome{Seat: 2, Net: 1, Won: true, Stake: 100, Reward: 100},
		},
		{
			name:   "bust",
			result: game.SeatResult{Score: 24, Stake: 50},
			want:   SeatOutcome{Seat: 2, Net: -1, Bust: true, Stake: 50},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutcomeFromResult(2, &tt.result)
			if got != tt.want {
				t.Errorf("OutcomeFromResult() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStatistics_AddRound(t *testing.T) {
	stats := &Statistics{}
	var round game.RoundResult
	round.Players[0] = &game.SeatResult{Identity: "alice", Won: true, Score: 21, Stake: 100, Reward: 125}
	round.Players[1] = &game.SeatResult{Identity: "bob", Score: 17, Stake: 100}
	stats.AddRound(round)

	if stats.Rounds != 2 {
		t.Fatalf("Expected 2 seat rounds, got %d", stats.Rounds)
	}
	if stats.Wins != 1 || stats.Blackjacks != 1 {
		t.Errorf("Expected 1 win and 1 blackjack, got %d and %d", stats.Wins, stats.Blackjacks)
	}
	if stats.PoolDrift() != -25 {
		t.Errorf("Expected pool drift of -25, got %d", stats.PoolDrift())
	}
	if math.Abs(stats.Mean()-0.125) > 1e-9 {
		t.Errorf("Expected mean of 0.125, got %f", stats.Mean())
	}
	if stats.SeatMean(0) != 1.25 || stats.SeatMean(1) != -1 {
		t.Errorf("Unexpected seat means %f %f", stats.SeatMean(0), stats.SeatMean(1))
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Expected valid stats, got %v", err)
	}
}

func TestStatistics_Percentiles(t *testing.T) {
	stats := &Statistics{}
	for i, net := range []float64{-1, -1, 1, 1.25, -1} {
		stats.Add(SeatOutcome{Net: net, Seat: i % game.MaxSeats, Won: net > 0})
	}

	if stats.Median() != -1 {
		t.Errorf("Expected median of -1, got %f", stats.Median())
	}
	if stats.Percentile(1) != 1.25 {
		t.Errorf("Expected max of 1.25, got %f", stats.Percentile(1))
	}
	if stats.Percentile(0) != -1 {
		t.Errorf("Expected min of -1, got %f", stats.Percentile(0))
	}
}

func TestStatistics_Variance(t *testing.T) {
	stats := &Statistics{}
	for _, net := range []float64{1, -1, 1, -1} {
		stats.Add(SeatOutcome{Net: net, Won: net > 0})
	}

	// Sample variance of {1,-1,1,-1} is 4/3.
	if math.Abs(stats.Variance()-4.0/3.0) > 1e-9 {
		t.Errorf("Expected variance of 4/3, got %f", stats.Variance())
	}
	lo, hi := stats.ConfidenceInterval95()
	if lo >= 0 || hi <= 0 {
		t.Errorf("Expected interval around 0, got [%f, %f]", lo, hi)
	}
}

func TestStatistics_Merge(t *testing.T) {
	a, b := &Statistics{}, &Statistics{}
	a.Add(SeatOutcome{Net: 1, Seat: 0, Won: true, Stake: 10, Reward: 10})
	b.Add(SeatOutcome{Net: -1, Seat: 3, Stake: 10})
	b.Add(SeatOutcome{Net: 1.25, Seat: 3, Won: true, Blackjack: true, Stake: 4, Reward: 5})

	a.Merge(b)
	if a.Rounds != 3 || a.Wins != 2 || a.Blackjacks != 1 {
		t.Errorf("Unexpected merged counts: %+v", a)
	}
	if a.SeatResults[3].Rounds != 2 {
		t.Errorf("Expected 2 rounds at seat 3, got %d", a.SeatResults[3].Rounds)
	}
	if a.TotalPaid != 15 || a.TotalLost != 10 {
		t.Errorf("Unexpected money totals paid=%d lost=%d", a.TotalPaid, a.TotalLost)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Expected valid merged stats, got %v", err)
	}
}

func TestStatistics_Validate_LedgerMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(SeatOutcome{Net: 1, Won: true})
	stats.AllNet += 5

	err := stats.Validate()
	if err == nil || !strings.Contains(err.Error(), "ledger mismatch") {
		t.Errorf("Expected ledger mismatch error, got %v", err)
	}
}

func TestStatistics_Validate_ValuesMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(SeatOutcome{Net: 1, Won: true})
	stats.Values = append(stats.Values, 3)

	err := stats.Validate()
	if err == nil || !strings.Contains(err.Error(), "values array length") {
		t.Errorf("Expected values mismatch error, got %v", err)
	}
}

func TestStatistics_Validate_SeatMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(SeatOutcome{Net: 1, Won: true, Seat: 9})

	err := stats.Validate()
	if err == nil || !strings.Contains(err.Error(), "seat rounds total") {
		t.Errorf("Expected seat mismatch error, got %v", err)
	}
}
