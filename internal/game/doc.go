// Package game implements the blackjack table: seats, the turn state
// machine, deterministic dealing and round settlement.
//
// The main type is State, the whole table aggregate. Every operation is a
// method on State that either applies completely or leaves the state
// untouched, and returns the ledger instructions it decided on:
//
//	s := game.NewState(game.Setup{Owner: "owner", TableAddress: "table", HouseSecret: 42})
//	_, err := s.Sit(game.Call{Caller: "alice", Now: now}, 0, aliceSecret)
//	effects, err := s.Bid(game.Call{Caller: "alice", Now: now}, 0, 100, 100, poolBalance)
//	effects, err = s.Hold(game.Call{Caller: "alice", Now: now}, 0)
//
// Effects are never executed here. The caller persists the new state and
// then hands the effects to the ledger.
//
// # Deterministic Testing
//
// The shuffle is a pure function of the round counter and the seat secrets,
// so replaying the same calls yields the same cards. Tests can also rig the
// undealt cards directly:
//
//	s := game.NewTestState(game.WithPlayers("alice", "bob"))
//	game.RigDeck(s, "Ts As Kh Tc 7d 8d")
package game
