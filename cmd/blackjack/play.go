package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/store"
	"github.com/lox/blackjack/internal/strategy"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs the interactive TUI session
type PlayCmd struct {
	Config string `kong:"help='Path to HCL config file',type='path'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed for the shuffle (optional)'"`
	Fresh  bool   `kong:"help='Ignore any saved session and start clean'"`
}

func (c *PlayCmd) Run() error {
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

	db, err := store.Open(cfg.Session.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}

	persisted := game.Persisted{Settings: settings}
	if !c.Fresh {
		saved, found, err := db.LoadSession()
		if err != nil {
			return err
		}
		if found {
			// Saved settings win over the config file so in-game changes
			// stick; stats resume where the last session left off
			persisted = saved
			logger.Debug("resumed saved session", "handsPlayed", saved.Stats.HandsPlayed)
		}
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	}

	stats := persisted.Stats
	round, err := game.NewRound(persisted.Settings,
		game.WithRNG(randutil.New(seed)),
		game.WithLogger(logger),
		game.WithDecider(strategy.NewBasic()),
		game.WithStats(&stats),
	)
	if err != nil {
		return err
	}

	if cfg.Session.HistoryDir != "" {
		recorder, err := history.NewRecorder(cfg.Session.HistoryDir, logger)
		if err != nil {
			return err
		}
		round.Events().Subscribe(recorder)
	}
	if _, err := round.InitGame(); err != nil {
		return err
	}
	round.Events().Subscribe(roundLogger{db: db, human: round.Human().Name})

	model := tui.New(round, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}

	if err := db.SaveSession(round.ExportPersisted()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// roundLogger appends settled rounds to the store's round log
type roundLogger struct {
	db    *store.Store
	human string
}

func (l roundLogger) HandleEvent(e game.Event) {
	settled, ok := e.(game.RoundSettledEvent)
	if !ok {
		return
	}
	net := 0
	for _, h := range settled.Hands {
		if h.PlayerName == l.human {
			net += h.Net
		}
	}
	// Best effort; a failed insert never interrupts play
	_ = l.db.RecordRound(store.RoundRecord{
		RoundNumber: settled.RoundNumber,
		DealerScore: settled.DealerScore,
		DealerBust:  settled.DealerBust,
		PlayerNet:   net,
	})
}
