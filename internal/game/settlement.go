package game

import (
	"math"
	"math/bits"

	"github.com/lox/blackjack/internal/deck"
)

const (
	// blackjackBonus is the payout percentage for a score of exactly 21.
	blackjackBonus = 125
	percent        = 100
)

// Won reports whether playerScore beats dealerScore.
func Won(playerScore, dealerScore int) bool {
	return playerScore <= Bust && (playerScore > dealerScore || dealerScore > Bust)
}

// Payout is the amount paid from the pool to a winning stake, 1.25x for
// exactly 21.
func Payout(stake uint64, score int) uint64 {
	if score == Bust {
		return mulDiv(stake, blackjackBonus, percent)
	}
	return stake
}

// MaxBid is the largest single stake such that six simultaneous blackjack
// wins can still be covered by the reported pool balance.
func MaxBid(reported uint64) uint64 {
	return mulDiv(reported, percent, blackjackBonus*MaxSeats)
}

// mulDiv returns a*b/c without intermediate overflow, saturating when the
// quotient does not fit.
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, c)
	return q
}

// playDealer discards the up-card and draws a new dealer hand until it
// reaches 17.
func (o *op) playDealer() error {
	t := &o.s.Table
	t.Dealer = NewHand()
	for t.Dealer.Score() < DealerStandsOn {
		c, err := o.draw()
		if err != nil {
			return err
		}
		t.Dealer.Add(c)
	}
	return nil
}

// settle pays out every held seat and resets it. The dealer only plays once
// the turn has passed every seat, so no seat can still be in Bid or Hit; one
// that is left alone and fails the next round start.
func (o *op) settle() {
	t := &o.s.Table
	dealerScore := t.Dealer.Score()
	result := RoundResult{
		Round: o.s.LastResult.Round + 1,
		Dealer: DealerResult{
			Score: dealerScore,
			Cards: append([]deck.Card(nil), t.Dealer.Cards...),
		},
	}

	for seat := range t.Seats {
		p := &t.Seats[seat]
		if !p.Occupied() || p.State != Hold {
			continue
		}
		score := p.Hand.Score()
		stake := o.s.Balances[p.Identity]
		r := &SeatResult{Identity: p.Identity, Score: score, Stake: stake}

		if Won(score, dealerScore) {
			r.Won = true
			r.Reward = Payout(stake, score)
			o.emit(PayWinner, p.Identity, r.Reward)
			o.emit(ReturnStake, p.Identity, stake)
		} else if stake > 0 {
			o.emit(ForfeitStake, p.Identity, stake)
		}

		delete(o.s.Balances, p.Identity)
		p.State = NotPlaying
		result.Players[seat] = r
	}
	o.s.LastResult = result
}
