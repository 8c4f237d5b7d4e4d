package main

import (
	"fmt"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/store"
)

// StatsCmd prints the saved session statistics and recent rounds
type StatsCmd struct {
	Config string `kong:"help='Path to HCL config file',type='path'"`
	Rounds int    `kong:"default='10',help='Recent rounds to list'"`
}

func (c *StatsCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Session.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}

	persisted, found, err := db.LoadSession()
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("no saved session")
		return nil
	}

	s := persisted.Stats
	fmt.Printf("Hands played: %d\n", s.HandsPlayed)
	fmt.Printf("Won: %d  Lost: %d  Pushed: %d\n", s.HandsWon, s.HandsLost, s.HandsPushed)
	fmt.Printf("Blackjacks: %d  Surrenders: %d\n", s.Blackjacks, s.Surrenders)
	fmt.Printf("Net: %+d  (won %d, lost %d)\n", s.Net(), s.TotalWon, s.TotalLost)
	fmt.Printf("Highest chips: %d\n", s.HighestChips)

	records, err := db.RecentRounds(c.Rounds)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	fmt.Printf("\nRecent rounds:\n")
	for _, r := range records {
		dealer := fmt.Sprintf("dealer %d", r.DealerScore)
		if r.DealerBust {
			dealer = "dealer bust"
		}
		fmt.Printf("  round %d: %s, net %+d (%s)\n",
			r.RoundNumber, dealer, r.PlayerNet, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
