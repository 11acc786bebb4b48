package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/lox/blackjack/internal/game"
)

// PlayCmd runs an interactive prompt against a single table. Every line is
// one command, parsed with the same flag grammar as the CLI itself.
type PlayCmd struct {
	Script string `type:"existingfile" help:"Read commands from a file instead of stdin"`
	Quiet  bool   `help:"Do not print the prompt"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := stderrLogger(cfg)

	ctx := context.Background()
	t, err := openTable(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer t.Close()

	in := io.Reader(os.Stdin)
	if c.Script != "" {
		f, err := os.Open(c.Script)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	prompt := "> "
	if c.Quiet || c.Script != "" {
		prompt = ""
	}
	return newSession(ctx, t, os.Stdout, prompt).run(in)
}

// session is the state shared by prompt commands.
type session struct {
	ctx    context.Context
	table  *table
	out    io.Writer
	prompt string
	done   bool
}

func newSession(ctx context.Context, t *table, out io.Writer, prompt string) *session {
	return &session{ctx: ctx, table: t, out: out, prompt: prompt}
}

func (s *session) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for !s.done {
		fmt.Fprint(s.out, s.prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.exec(strings.Fields(line))
	}
	return scanner.Err()
}

// exec parses and runs one command. Failures are reported to the user and
// never end the session.
func (s *session) exec(args []string) {
	var grammar promptCLI
	parser, err := kong.New(&grammar,
		kong.Name(""),
		kong.NoDefaultHelp(),
		kong.Exit(func(int) {}),
		kong.Writers(s.out, s.out),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, NoAppSummary: true}),
	)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v (try \"help\")\n", err)
		return
	}
	if err := kctx.Run(s); err != nil {
		s.report(err)
	}
}

func (s *session) report(err error) {
	if kind := game.KindOf(err); kind != game.KindUnknown {
		fmt.Fprintf(s.out, "error: %s: %v\n", kind, err)
		return
	}
	fmt.Fprintf(s.out, "error: %v\n", err)
}

type promptCLI struct {
	Sit     sitCmd     `cmd:"" help:"Take a seat with a secret"`
	Stand   standCmd   `cmd:"" help:"Leave a seat"`
	Kick    kickCmd    `cmd:"" help:"Remove an idle player"`
	Bid     bidCmd     `cmd:"" help:"Stake on the next round"`
	Hit     hitCmd     `cmd:"" help:"Draw a card"`
	Hold    holdCmd    `cmd:"" help:"Stop drawing"`
	Fund    fundCmd    `cmd:"" help:"Credit a player's wallet"`
	Deposit depositCmd `cmd:"" help:"Owner deposit into the pool"`
	Advance advanceCmd `cmd:"" help:"Move the table clock forward"`
	Table   tableCmd   `cmd:"" help:"Show the table"`
	Scores  scoresCmd  `cmd:"" help:"Show the last settled round"`
	Balance balanceCmd `cmd:"" help:"Show a player's wallet and stake"`
	Pool    poolCmd    `cmd:"" help:"Show the house pool"`
	Help    helpCmd    `cmd:"" help:"List commands"`
	Quit    quitCmd    `cmd:"" aliases:"exit" help:"Leave the prompt"`
}

type seatArgs struct {
	Player string `arg:"" help:"Caller identity"`
	Seat   int    `arg:"" help:"Seat index 0-5"`
}

type sitCmd struct {
	seatArgs
	Secret uint64 `arg:"" help:"Secret mixed into the next shuffle"`
}

func (c *sitCmd) Run(s *session) error {
	if err := s.table.svc.Sit(s.ctx, c.Player, c.Seat, c.Secret); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s sits at seat %d\n", c.Player, c.Seat)
	return nil
}

type standCmd struct {
	seatArgs
}

func (c *standCmd) Run(s *session) error {
	if err := s.table.svc.Stand(s.ctx, c.Player, c.Seat); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s leaves seat %d\n", c.Player, c.Seat)
	return nil
}

type kickCmd struct {
	seatArgs
	Target string `arg:"" help:"Identity expected in the seat"`
}

func (c *kickCmd) Run(s *session) error {
	if err := s.table.svc.Kick(s.ctx, c.Player, c.Seat, c.Target); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s kicked from seat %d\n", c.Target, c.Seat)
	return nil
}

type bidCmd struct {
	seatArgs
	Amount   uint64  `arg:"" help:"Stake"`
	Attached *uint64 `help:"Funds sent with the bid (defaults to the stake)"`
}

func (c *bidCmd) Run(s *session) error {
	attached := c.Amount
	if c.Attached != nil {
		attached = *c.Attached
	}
	if err := s.table.svc.Bid(s.ctx, c.Player, c.Seat, c.Amount, attached); err != nil {
		return err
	}
	return s.showSeat(c.Seat)
}

type hitCmd struct {
	seatArgs
}

func (c *hitCmd) Run(s *session) error {
	if err := s.table.svc.Hit(s.ctx, c.Player, c.Seat); err != nil {
		return err
	}
	return s.showSeat(c.Seat)
}

type holdCmd struct {
	seatArgs
}

func (c *holdCmd) Run(s *session) error {
	before, err := s.table.svc.LastScore(s.ctx)
	if err != nil {
		return err
	}
	if err := s.table.svc.Hold(s.ctx, c.Player, c.Seat); err != nil {
		return err
	}
	after, err := s.table.svc.LastScore(s.ctx)
	if err != nil {
		return err
	}
	if after.Round != before.Round {
		printResult(s.out, after)
		return nil
	}
	fmt.Fprintf(s.out, "%s holds at seat %d\n", c.Player, c.Seat)
	return nil
}

type fundCmd struct {
	Player string `arg:""`
	Amount uint64 `arg:""`
}

func (c *fundCmd) Run(s *session) error {
	s.table.bank.Credit(c.Player, c.Amount)
	fmt.Fprintf(s.out, "%s wallet: %d\n", c.Player, s.table.bank.Wallet(c.Player))
	return nil
}

type depositCmd struct {
	Caller string `arg:""`
	Amount uint64 `arg:""`
}

func (c *depositCmd) Run(s *session) error {
	if err := s.table.bank.Deposit(s.ctx, c.Caller, c.Amount); err != nil {
		return err
	}
	return (&poolCmd{}).Run(s)
}

type advanceCmd struct {
	By time.Duration `arg:"" help:"Duration such as 5m or 300s"`
}

func (c *advanceCmd) Run(s *session) error {
	s.table.clock.Advance(c.By)
	fmt.Fprintf(s.out, "clock advanced %s\n", c.By)
	return nil
}

type tableCmd struct{}

func (c *tableCmd) Run(s *session) error {
	t, err := s.table.svc.Table(s.ctx)
	if err != nil {
		return err
	}
	printTable(s.out, t)
	return nil
}

type scoresCmd struct{}

func (c *scoresCmd) Run(s *session) error {
	r, err := s.table.svc.LastScore(s.ctx)
	if err != nil {
		return err
	}
	printResult(s.out, r)
	return nil
}

type balanceCmd struct {
	Player string `arg:""`
}

func (c *balanceCmd) Run(s *session) error {
	staked, err := s.table.svc.UserBalance(s.ctx, c.Player)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s wallet: %d staked: %d\n", c.Player, s.table.bank.Wallet(c.Player), staked)
	return nil
}

type poolCmd struct{}

func (c *poolCmd) Run(s *session) error {
	reported, err := s.table.bank.Balance(s.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "pool: %d reported: %d max bid: %d %s\n",
		s.table.bank.Pool(), reported, game.MaxBid(reported), s.table.cfg.Table.Denom)
	return nil
}

type helpCmd struct{}

func (c *helpCmd) Run(s *session, kctx *kong.Context) error {
	return kctx.PrintUsage(true)
}

type quitCmd struct{}

func (c *quitCmd) Run(s *session) error {
	s.done = true
	return nil
}

func (s *session) showSeat(seat int) error {
	t, err := s.table.svc.Table(s.ctx)
	if err != nil {
		return err
	}
	p := t.Seats[seat]
	fmt.Fprintf(s.out, "seat %d %s: %s (%d) %s | dealer: %s\n",
		seat, p.Identity, p.Hand, p.Hand.Score(), p.State, t.Dealer)
	return nil
}

func printTable(w io.Writer, t game.Table) {
	fmt.Fprintf(w, "phase: %s players: %d\n", t.Phase, t.PlayersCount)
	fmt.Fprintf(w, "dealer: %s\n", t.Dealer)
	for i, p := range t.Seats {
		if !p.Occupied() {
			continue
		}
		marker := " "
		if t.Phase.IsTurnOf(i) {
			marker = "*"
		}
		fmt.Fprintf(w, "%s%d %-10s %-10s %s (%d)\n", marker, i, p.Identity, p.State, p.Hand, p.Hand.Score())
	}
}

func printResult(w io.Writer, r game.RoundResult) {
	if r.Round == 0 {
		fmt.Fprintln(w, "no round settled yet")
		return
	}
	fmt.Fprintf(w, "round %d dealer: %s (%d)\n", r.Round, game.NewHand(r.Dealer.Cards...), r.Dealer.Score)
	for i, p := range r.Players {
		if p == nil {
			continue
		}
		outcome := "lost"
		if p.Won {
			outcome = "won"
		}
		fmt.Fprintf(w, "  seat %d %s %s with %d: stake %d reward %d\n", i, p.Identity, outcome, p.Score, p.Stake, p.Reward)
	}
}
