package game

import (
	"errors"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// DefaultIdleKick is how long a turn may sit idle before anyone may kick the
// seat.
const DefaultIdleKick = 300 * time.Second

// op is the working context of one call: the state copy being mutated, the
// call time and the effects decided so far.
type op struct {
	s       *State
	now     time.Time
	effects []Effect
}

func (o *op) emit(kind EffectKind, account string, amount uint64) {
	o.effects = append(o.effects, Effect{Kind: kind, Account: account, Amount: amount})
}

// transact runs fn against a copy of s and swaps it in only on success.
func (s *State) transact(now time.Time, fn func(o *op) error) ([]Effect, error) {
	o := &op{s: s.Clone(), now: now}
	if err := fn(o); err != nil {
		return nil, err
	}
	*s = *o.s
	return o.effects, nil
}

// Sit places the caller at seat with their secret. Seating at an idle table
// starts a round.
func (s *State) Sit(call Call, seat int, secret uint64) ([]Effect, error) {
	return s.transact(call.Now, func(o *op) error {
		if call.Caller == "" {
			return ErrNoIdentity
		}
		t := &o.s.Table
		p, err := t.Seat(seat)
		if err != nil {
			return err
		}
		if p.Occupied() {
			return Wrapf(ErrSeatTaken, "seat %d", seat)
		}
		if other, err := t.SeatOf(call.Caller); err == nil {
			return Wrapf(ErrAlreadySeated, "%q sits at seat %d", call.Caller, other)
		}

		p.Identity = call.Caller
		o.s.SeatSecrets[seat] = secret
		t.PlayersCount++

		if t.Phase.Kind == NoPlayers {
			return o.startNewRound()
		}
		return nil
	})
}

// Stand vacates the caller's seat. Only a player who is not in a round may
// stand.
func (s *State) Stand(call Call, seat int) ([]Effect, error) {
	return s.transact(call.Now, func(o *op) error {
		p, err := o.seated(seat, call.Caller)
		if err != nil {
			return err
		}
		if p.State != NotPlaying {
			return Wrapf(ErrStillPlaying, "seat %d is %s", seat, p.State)
		}
		return o.leave(seat)
	})
}

// Kick removes target from seat once its turn has been idle for at least
// idle. Anyone may call it.
func (s *State) Kick(call Call, seat int, target string, idle time.Duration) ([]Effect, error) {
	return s.transact(call.Now, func(o *op) error {
		t := &o.s.Table
		p, err := t.Seat(seat)
		if err != nil {
			return err
		}
		if !t.Phase.IsTurnOf(seat) {
			return Wrapf(ErrNotYourTurn, "seat %d does not hold the turn (%s)", seat, t.Phase)
		}
		if p.Identity != target {
			return Wrapf(ErrWrongIdentity, "seat %d is not held by %q", seat, target)
		}
		if elapsed := o.now.Sub(t.Phase.TurnStart); elapsed < idle {
			return Wrapf(ErrNotIdle, "idle for %s of %s", elapsed.Truncate(time.Second), idle)
		}
		return o.leave(seat)
	})
}

// Bid stakes amount on the caller's turn, deals a fresh dealer up-card in
// place of any earlier one, then the caller's opening two cards. attached is
// the amount of funds sent with the call and reported is the ledger's
// reported pool balance.
func (s *State) Bid(call Call, seat int, amount, attached, reported uint64) ([]Effect, error) {
	return s.transact(call.Now, func(o *op) error {
		p, err := o.onTurn(seat, call.Caller)
		if err != nil {
			return err
		}
		t := &o.s.Table
		if !t.Phase.IsFirstAction || p.State != NotPlaying {
			return Wrapf(ErrAlreadyBid, "seat %d is %s", seat, p.State)
		}
		if amount == 0 {
			return ErrZeroAmount
		}
		if attached != amount {
			return Wrapf(ErrFundsMismatch, "attached %d, bid %d", attached, amount)
		}
		if limit := MaxBid(reported); amount > limit {
			return Wrapf(ErrBidTooLarge, "amount %d, max bid %d", amount, limit)
		}

		up, err := o.draw()
		if err != nil {
			return err
		}
		t.Dealer = NewHand(up)

		if err := o.move(p, Bid); err != nil {
			return err
		}
		hand := NewHand()
		for range 2 {
			c, err := o.draw()
			if err != nil {
				return err
			}
			hand.Add(c)
		}
		p.Hand = hand
		o.s.Balances[p.Identity] += amount

		t.Phase.IsFirstAction = false
		t.Phase.TurnStart = o.now
		o.emit(EscrowStake, p.Identity, amount)
		return nil
	})
}

// Hit draws one card for the caller.
func (s *State) Hit(call Call, seat int) ([]Effect, error) {
	return s.transact(call.Now, func(o *op) error {
		p, err := o.onTurn(seat, call.Caller)
		if err != nil {
			return err
		}
		if p.State == NotPlaying {
			return ErrBidFirst
		}
		if p.Hand.Total >= Bust {
			return Wrapf(ErrHandClosed, "total %d", p.Hand.Total)
		}
		if err := o.move(p, Hit); err != nil {
			return err
		}
		c, err := o.draw()
		if err != nil {
			return err
		}
		p.Hand.Add(c)
		return nil
	})
}

// Hold ends the caller's turn. When nobody is left to act the dealer plays
// and the round is settled within the same call.
func (s *State) Hold(call Call, seat int) ([]Effect, error) {
	return s.transact(call.Now, func(o *op) error {
		p, err := o.onTurn(seat, call.Caller)
		if err != nil {
			return err
		}
		if p.State == NotPlaying {
			return ErrBidFirst
		}
		if err := o.move(p, Hold); err != nil {
			return err
		}
		return o.advance(seat)
	})
}

// seated returns the player at seat after checking it belongs to caller.
func (o *op) seated(seat int, caller string) (*Player, error) {
	p, err := o.s.Table.Seat(seat)
	if err != nil {
		return nil, err
	}
	if !p.Occupied() {
		return nil, Wrapf(ErrSeatEmpty, "seat %d", seat)
	}
	if p.Identity != caller {
		return nil, Wrapf(ErrWrongIdentity, "seat %d is not held by %q", seat, caller)
	}
	return p, nil
}

// onTurn is seated plus a check that seat holds the turn.
func (o *op) onTurn(seat int, caller string) (*Player, error) {
	p, err := o.seated(seat, caller)
	if err != nil {
		return nil, err
	}
	if !o.s.Table.Phase.IsTurnOf(seat) {
		return nil, Wrapf(ErrNotYourTurn, "seat %d (%s)", seat, o.s.Table.Phase)
	}
	return p, nil
}

func (o *op) move(p *Player, to PlayerState) error {
	if !p.State.canMove(to) {
		return Wrapf(ErrIllegalAction, "%s to %s", p.State, to)
	}
	p.State = to
	return nil
}

// leave clears seat, forfeits any live stake and moves the turn on if the
// seat held it.
func (o *op) leave(seat int) error {
	t := &o.s.Table
	p := &t.Seats[seat]
	if stake := o.s.Balances[p.Identity]; stake > 0 {
		o.emit(ForfeitStake, p.Identity, stake)
	}
	delete(o.s.Balances, p.Identity)
	o.s.SeatSecrets[seat] = 0
	p.clear()
	t.PlayersCount--

	if t.Phase.IsTurnOf(seat) {
		return o.advance(seat)
	}
	return nil
}

// advance hands the turn to the next waiting seat after from. With none
// left the dealer plays if anyone holds, otherwise a new round starts.
func (o *op) advance(from int) error {
	t := &o.s.Table
	if next, ok := t.firstWaiting(from + 1); ok {
		return o.setPhase(TurnOf(next, o.now))
	}
	if !t.anyHolding() {
		return o.startNewRound()
	}

	if err := o.setPhase(Phase{Kind: DealerTurn}); err != nil {
		return err
	}
	if err := o.playDealer(); err != nil {
		return err
	}
	o.settle()
	return o.startNewRound()
}

// startNewRound clears the hands and gives the turn to the first waiting
// seat, reshuffling from the combined seed. An empty table goes idle.
func (o *op) startNewRound() error {
	t := &o.s.Table
	for seat := range t.Seats {
		p := &t.Seats[seat]
		if p.State == Bid || p.State == Hit {
			return Wrapf(ErrCorruptState, "new round with seat %d still %s", seat, p.State)
		}
		p.Hand = nil
		p.State = NotPlaying
	}
	t.Dealer = nil

	first, ok := t.firstWaiting(0)
	if !ok {
		return o.setPhase(Phase{Kind: NoPlayers})
	}

	seed := deck.Seed(o.s.RoundSecret, o.s.occupiedSecrets())
	o.s.RoundSecret++
	o.s.Deck = deck.NewShuffled(seed)
	return o.setPhase(TurnOf(first, o.now))
}

func (o *op) setPhase(next Phase) error {
	if err := checkTransition(o.s.Table.Phase.Kind, next.Kind); err != nil {
		return err
	}
	o.s.Table.Phase = next
	return nil
}

// draw deals the next card, reshuffling the cards not in play once the deck
// runs out.
func (o *op) draw() (deck.Card, error) {
	d := &o.s.Deck
	if d.Remaining() == 0 {
		if err := d.Reshuffle(o.s.Table.cardsInPlay()); err != nil {
			if errors.Is(err, deck.ErrExhausted) {
				return deck.Card{}, Wrapf(ErrDeckExhausted, "every card is in play")
			}
			return deck.Card{}, err
		}
	}
	c, err := d.Draw()
	if err != nil {
		return deck.Card{}, Wrapf(ErrDeckExhausted, "%v", err)
	}
	return c, nil
}
