// Package simulator plays batches of rounds with every seat on basic
// strategy. Sessions run concurrently, each on an independent RNG stream
// derived from the base seed, so results are reproducible regardless of
// scheduling.
package simulator

import (
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/strategy"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds   int
	Sessions int
	Seed     int64
	Settings game.Settings
	Logger   *log.Logger
}

// SessionResult is the outcome of one simulated session
type SessionResult struct {
	Stream       int
	Stats        statistics.SessionStats
	FinalChips   int
	RoundsPlayed int
	WentBroke    bool
}

// Result aggregates all sessions of a run
type Result struct {
	Sessions []SessionResult
}

// Combined sums session stats into one set of counters
func (r *Result) Combined() statistics.SessionStats {
	var total statistics.SessionStats
	for _, s := range r.Sessions {
		total.HandsPlayed += s.Stats.HandsPlayed
		total.HandsWon += s.Stats.HandsWon
		total.HandsLost += s.Stats.HandsLost
		total.HandsPushed += s.Stats.HandsPushed
		total.Blackjacks += s.Stats.Blackjacks
		total.Surrenders += s.Stats.Surrenders
		total.TotalWon += s.Stats.TotalWon
		total.TotalLost += s.Stats.TotalLost
		total.ObserveChips(s.Stats.HighestChips)
	}
	return total
}

// Simulator runs blackjack session simulations
type Simulator struct {
	config Config
}

// New creates a simulator with the given configuration
func New(config Config) *Simulator {
	return &Simulator{config: config}
}

// Run executes every session and returns the collected results
func (s *Simulator) Run() (*Result, error) {
	results := make([]SessionResult, s.config.Sessions)

	var g errgroup.Group
	for i := 0; i < s.config.Sessions; i++ {
		g.Go(func() error {
			res, err := s.runSession(i)
			if err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range results {
		if err := res.Stats.Validate(); err != nil {
			return nil, fmt.Errorf("session %d stats: %w", res.Stream, err)
		}
	}
	return &Result{Sessions: results}, nil
}

// maxPlaysPerRound bounds the decision loop for the human seat; four
// split hands of small cards stay well under it
const maxPlaysPerRound = 32

// runSession plays one full session, driving the human seat with the
// same basic strategy the AI seats use
func (s *Simulator) runSession(stream int) (SessionResult, error) {
	basic := strategy.NewBasic()
	r, err := game.NewRound(s.config.Settings,
		game.WithRNG(randutil.Sub(s.config.Seed, stream)),
		game.WithDecider(basic),
		game.WithLogger(s.config.Logger),
	)
	if err != nil {
		return SessionResult{}, err
	}

	snap, err := r.InitGame()
	if err != nil {
		return SessionResult{}, err
	}
	humanID := snap.Players[0].ID

	result := SessionResult{Stream: stream}
	for round := 0; round < s.config.Rounds; round++ {
		human := r.Human()
		bet := basic.BetSize(human.Chips, s.config.Settings.MinBet, s.config.Settings.MaxBet)
		if bet > human.Chips || human.Chips < s.config.Settings.MinBet {
			result.WentBroke = true
			break
		}

		if _, err := r.PlaceBet(humanID, bet); err != nil {
			return result, err
		}
		if _, err := r.StartDealing(); err != nil {
			return result, err
		}
		snap, err = r.DealInitialCards()
		if err != nil {
			return result, err
		}

		if snap.Phase == game.PhaseInsurance {
			// Basic strategy never takes insurance
			snap, err = r.DeclineInsurance(humanID)
			if err != nil {
				return result, err
			}
		}

		if snap, err = playHumanSeat(r, humanID, basic); err != nil {
			return result, err
		}

		if snap.Phase == game.PhaseDealerTurn {
			snap, err = r.PlayDealerTurn()
			if err != nil {
				return result, err
			}
		}
		result.RoundsPlayed++

		if snap.Broke {
			result.WentBroke = true
			break
		}
		if round+1 < s.config.Rounds {
			if _, err := r.NextRound(); err != nil {
				return result, err
			}
		}
	}

	result.Stats = r.ExportPersisted().Stats
	result.FinalChips = r.Human().Chips
	return result, nil
}

// playHumanSeat runs strategy decisions for seat 0 until the turn moves on
func playHumanSeat(r *game.Round, humanID string, basic *strategy.Basic) (game.Snapshot, error) {
	snap := r.Snapshot()
	for i := 0; i < maxPlaysPerRound; i++ {
		if snap.Phase != game.PhasePlaying || snap.ActiveSeat != 0 {
			return snap, nil
		}

		actions, err := r.AvailableActions(humanID)
		if err != nil {
			return snap, err
		}

		human := r.Human()
		upcard := 0
		if len(snap.Dealer.Cards) > 0 {
			upcard = snap.Dealer.Cards[0].Value()
		}
		ctx := game.DecisionContext{
			Hand:         human.CurrentHand(),
			DealerUpcard: upcard,
			CanDouble:    containsAction(actions, game.ActionDouble),
			CanSplit:     containsAction(actions, game.ActionSplit),
			CanSurrender: containsAction(actions, game.ActionSurrender),
		}

		switch basic.Decide(ctx) {
		case game.ActionHit:
			snap, err = r.Hit(humanID)
		case game.ActionStand:
			snap, err = r.Stand(humanID)
		case game.ActionDouble:
			snap, err = r.DoubleDown(humanID)
		case game.ActionSplit:
			snap, err = r.Split(humanID)
		case game.ActionSurrender:
			snap, err = r.Surrender(humanID)
		}
		if err != nil {
			return snap, err
		}
	}
	return snap, fmt.Errorf("human seat exceeded %d plays in one round", maxPlaysPerRound)
}

func containsAction(actions []game.Action, want game.Action) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}
