package main

import (
	"fmt"
	"time"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd runs batches of all-AI rounds and reports aggregate results
type SimulateCmd struct {
	Config   string `kong:"help='Path to HCL config file',type='path'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
	Rounds   int    `kong:"default='1000',help='Rounds per session'"`
	Sessions int    `kong:"default='4',help='Concurrent sessions'"`
	Seed     *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	logger, err := setupLogger(c.Debug, cfg.Session.LogLevel, cfg.Session.LogFile)
	if err != nil {
		return err
	}
	settings, err := cfg.GameSettings()
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("starting simulation",
		"rounds", c.Rounds, "sessions", c.Sessions, "seed", seed,
		"decks", settings.DeckCount, "payout", settings.BlackjackPayout)

	start := time.Now()
	result, err := simulator.New(simulator.Config{
		Rounds:   c.Rounds,
		Sessions: c.Sessions,
		Seed:     seed,
		Settings: settings,
		Logger:   logger,
	}).Run()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printSummary(result, settings.StartingChips, elapsed)
	return nil
}

func printSummary(result *simulator.Result, startingChips int, elapsed time.Duration) {
	combined := result.Combined()

	fmt.Printf("\n=== SESSIONS ===\n")
	for _, s := range result.Sessions {
		status := "completed"
		if s.WentBroke {
			status = "went broke"
		}
		fmt.Printf("session %d: %d rounds, %d hands, final chips %d (%s)\n",
			s.Stream, s.RoundsPlayed, s.Stats.HandsPlayed, s.FinalChips, status)
	}

	fmt.Printf("\n=== COMBINED ===\n")
	fmt.Printf("Hands played: %d\n", combined.HandsPlayed)
	fmt.Printf("Won: %d (%.1f%%)  Lost: %d (%.1f%%)  Pushed: %d (%.1f%%)\n",
		combined.HandsWon, pct(combined.HandsWon, combined.HandsPlayed),
		combined.HandsLost, pct(combined.HandsLost, combined.HandsPlayed),
		combined.HandsPushed, pct(combined.HandsPushed, combined.HandsPlayed))
	fmt.Printf("Blackjacks: %d  Surrenders: %d\n", combined.Blackjacks, combined.Surrenders)
	fmt.Printf("Net: %+d chips over %d sessions starting at %d\n",
		combined.Net(), len(result.Sessions), startingChips)
	if combined.HandsPlayed > 0 {
		fmt.Printf("Net per hand: %+.3f chips\n", float64(combined.Net())/float64(combined.HandsPlayed))
	}
	fmt.Printf("Elapsed: %s\n", elapsed.Round(time.Millisecond))
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
