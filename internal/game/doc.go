// Package game implements the core blackjack rules and round state machine.
//
// The main type is Round, which owns all table state (seats, dealer,
// shoe, settings, session stats) and advances through the phases
// betting → dealing → insurance → playing → dealer-turn → payout →
// round-end. Every public command validates the current phase and the
// action's legality before touching state, runs synchronously to
// completion, and returns an immutable Snapshot for the UI to render.
//
// # Basic Usage
//
//	r, _ := game.NewRound(game.DefaultSettings(),
//		game.WithDecider(strategy.NewBasic()))
//	snap, _ := r.InitGame()
//	snap, _ = r.PlaceBet(snap.Players[0].ID, 25)
//	snap, _ = r.StartDealing()
//	snap, _ = r.DealInitialCards()
//	// ... Hit/Stand/DoubleDown/Split/Surrender for the human seat ...
//	snap, _ = r.PlayDealerTurn()
//	snap, _ = r.NextRound()
//
// # Deterministic Testing
//
// Inject a fixed-seed RNG to get a reproducible shoe order:
//
//	r, _ := game.NewRound(settings,
//		game.WithRNG(randutil.New(42)),
//		game.WithDecider(strategy.NewBasic()))
//
// # Architecture
//
// Round delegates to stateless collaborators: the deck package for
// shoe management, the pure predicates in rules.go for legality and
// payouts, hand.go for scoring, and an injected Decider for AI seats.
// None of them retain references to round state across calls.
package game
