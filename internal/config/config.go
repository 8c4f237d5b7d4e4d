// Package config loads table and session configuration from an HCL file.
// A missing file yields the defaults, so the game runs with no setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/game"
)

// Config is the complete application configuration. Both blocks are
// optional; an empty file behaves like no file at all.
type Config struct {
	Session *SessionConfig `hcl:"session,block"`
	Table   *TableConfig   `hcl:"table,block"`
}

// SessionConfig covers logging and persistence paths
type SessionConfig struct {
	LogLevel     string `hcl:"log_level,optional"`
	LogFile      string `hcl:"log_file,optional"`
	DatabasePath string `hcl:"database_path,optional"`
	HistoryDir   string `hcl:"history_dir,optional"`
}

// TableConfig mirrors the engine's table settings. Boolean rules use
// pointers so that an omitted attribute keeps its default rather than
// reading as false.
type TableConfig struct {
	Decks                 int      `hcl:"decks,optional"`
	DealerHitsSoft17      *bool    `hcl:"dealer_hits_soft_17,optional"`
	BlackjackPayout       string   `hcl:"blackjack_payout,optional"`
	AllowSurrender        *bool    `hcl:"allow_surrender,optional"`
	AllowDoubleAfterSplit *bool    `hcl:"allow_double_after_split,optional"`
	AllowRebuy            *bool    `hcl:"allow_rebuy,optional"`
	MinBet                int      `hcl:"min_bet,optional"`
	MaxBet                int      `hcl:"max_bet,optional"`
	StartingChips         int      `hcl:"starting_chips,optional"`
	AnimationSpeed        *float64 `hcl:"animation_speed,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Session: &SessionConfig{
			LogLevel:     "info",
			LogFile:      "",
			DatabasePath: defaultStatePath("blackjack.db"),
			HistoryDir:   "",
		},
		Table: &TableConfig{},
	}
}

// defaultStatePath places persistent state under the user config dir,
// falling back to the working directory
func defaultStatePath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "blackjack", name)
}

// Load reads configuration from an HCL file. A missing file is not an
// error; defaults are returned.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	defaults := Default()
	if cfg.Session == nil {
		cfg.Session = defaults.Session
	}
	if cfg.Session.LogLevel == "" {
		cfg.Session.LogLevel = defaults.Session.LogLevel
	}
	if cfg.Session.DatabasePath == "" {
		cfg.Session.DatabasePath = defaults.Session.DatabasePath
	}
	if cfg.Table == nil {
		cfg.Table = &TableConfig{}
	}
	return &cfg, nil
}

// GameSettings resolves the table block against the engine defaults and
// validates the result
func (c *Config) GameSettings() (game.Settings, error) {
	s := game.DefaultSettings()
	t := c.Table
	if t == nil {
		return s, nil
	}

	if t.Decks != 0 {
		s.DeckCount = t.Decks
	}
	if t.DealerHitsSoft17 != nil {
		s.DealerHitsSoft17 = *t.DealerHitsSoft17
	}
	switch t.BlackjackPayout {
	case "":
	case "3:2":
		s.BlackjackPayout = game.PayoutThreeToTwo
	case "6:5":
		s.BlackjackPayout = game.PayoutSixToFive
	default:
		return s, fmt.Errorf("unknown blackjack_payout %q (want \"3:2\" or \"6:5\")", t.BlackjackPayout)
	}
	if t.AllowSurrender != nil {
		s.AllowSurrender = *t.AllowSurrender
	}
	if t.AllowDoubleAfterSplit != nil {
		s.AllowDoubleAfterSplit = *t.AllowDoubleAfterSplit
	}
	if t.AllowRebuy != nil {
		s.AllowRebuy = *t.AllowRebuy
	}
	if t.MinBet != 0 {
		s.MinBet = t.MinBet
	}
	if t.MaxBet != 0 {
		s.MaxBet = t.MaxBet
	}
	if t.StartingChips != 0 {
		s.StartingChips = t.StartingChips
	}
	if t.AnimationSpeed != nil {
		s.AnimationSpeed = *t.AnimationSpeed
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}
