// Package store persists session state to SQLite: table settings, the
// running session stats, and a log of settled rounds.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
)

// Store wraps the SQLite database
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, creating parent
// directories as needed
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL keeps the TUI responsive while history writes land
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist
func (s *Store) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			deck_count INTEGER NOT NULL,
			dealer_hits_soft_17 INTEGER NOT NULL,
			blackjack_payout INTEGER NOT NULL,
			allow_surrender INTEGER NOT NULL,
			allow_double_after_split INTEGER NOT NULL,
			allow_rebuy INTEGER NOT NULL,
			min_bet INTEGER NOT NULL,
			max_bet INTEGER NOT NULL,
			starting_chips INTEGER NOT NULL,
			animation_speed REAL NOT NULL,
			hands_played INTEGER NOT NULL DEFAULT 0,
			hands_won INTEGER NOT NULL DEFAULT 0,
			hands_lost INTEGER NOT NULL DEFAULT 0,
			hands_pushed INTEGER NOT NULL DEFAULT 0,
			blackjacks INTEGER NOT NULL DEFAULT 0,
			surrenders INTEGER NOT NULL DEFAULT 0,
			total_won INTEGER NOT NULL DEFAULT 0,
			total_lost INTEGER NOT NULL DEFAULT 0,
			highest_chips INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			round_number INTEGER NOT NULL,
			dealer_score INTEGER NOT NULL,
			dealer_bust INTEGER NOT NULL,
			player_net INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_created ON rounds(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveSession upserts the single persisted session row
func (s *Store) SaveSession(p game.Persisted) error {
	query := `INSERT INTO session (
		id, deck_count, dealer_hits_soft_17, blackjack_payout,
		allow_surrender, allow_double_after_split, allow_rebuy,
		min_bet, max_bet, starting_chips, animation_speed,
		hands_played, hands_won, hands_lost, hands_pushed,
		blackjacks, surrenders, total_won, total_lost, highest_chips,
		updated_at
	) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		deck_count = excluded.deck_count,
		dealer_hits_soft_17 = excluded.dealer_hits_soft_17,
		blackjack_payout = excluded.blackjack_payout,
		allow_surrender = excluded.allow_surrender,
		allow_double_after_split = excluded.allow_double_after_split,
		allow_rebuy = excluded.allow_rebuy,
		min_bet = excluded.min_bet,
		max_bet = excluded.max_bet,
		starting_chips = excluded.starting_chips,
		animation_speed = excluded.animation_speed,
		hands_played = excluded.hands_played,
		hands_won = excluded.hands_won,
		hands_lost = excluded.hands_lost,
		hands_pushed = excluded.hands_pushed,
		blackjacks = excluded.blackjacks,
		surrenders = excluded.surrenders,
		total_won = excluded.total_won,
		total_lost = excluded.total_lost,
		highest_chips = excluded.highest_chips,
		updated_at = excluded.updated_at`

	set := p.Settings
	st := p.Stats
	_, err := s.db.Exec(query,
		set.DeckCount, boolInt(set.DealerHitsSoft17), int(set.BlackjackPayout),
		boolInt(set.AllowSurrender), boolInt(set.AllowDoubleAfterSplit), boolInt(set.AllowRebuy),
		set.MinBet, set.MaxBet, set.StartingChips, set.AnimationSpeed,
		st.HandsPlayed, st.HandsWon, st.HandsLost, st.HandsPushed,
		st.Blackjacks, st.Surrenders, st.TotalWon, st.TotalLost, st.HighestChips,
		time.Now().UTC(),
	)
	return err
}

// LoadSession returns the persisted session if one exists
func (s *Store) LoadSession() (game.Persisted, bool, error) {
	query := `SELECT deck_count, dealer_hits_soft_17, blackjack_payout,
		allow_surrender, allow_double_after_split, allow_rebuy,
		min_bet, max_bet, starting_chips, animation_speed,
		hands_played, hands_won, hands_lost, hands_pushed,
		blackjacks, surrenders, total_won, total_lost, highest_chips
		FROM session WHERE id = 1`

	var (
		set       game.Settings
		st        statistics.SessionStats
		hitsSoft  int
		payout    int
		surrender int
		das       int
		rebuy     int
	)
	err := s.db.QueryRow(query).Scan(
		&set.DeckCount, &hitsSoft, &payout,
		&surrender, &das, &rebuy,
		&set.MinBet, &set.MaxBet, &set.StartingChips, &set.AnimationSpeed,
		&st.HandsPlayed, &st.HandsWon, &st.HandsLost, &st.HandsPushed,
		&st.Blackjacks, &st.Surrenders, &st.TotalWon, &st.TotalLost, &st.HighestChips,
	)
	if err == sql.ErrNoRows {
		return game.Persisted{}, false, nil
	}
	if err != nil {
		return game.Persisted{}, false, err
	}

	set.DealerHitsSoft17 = hitsSoft != 0
	set.BlackjackPayout = game.PayoutRatio(payout)
	set.AllowSurrender = surrender != 0
	set.AllowDoubleAfterSplit = das != 0
	set.AllowRebuy = rebuy != 0
	return game.Persisted{Settings: set, Stats: st}, true, nil
}

// RoundRecord is one settled round in the log
type RoundRecord struct {
	ID          int64
	RoundNumber int
	DealerScore int
	DealerBust  bool
	PlayerNet   int
	CreatedAt   time.Time
}

// RecordRound appends a settled round to the log
func (s *Store) RecordRound(rec RoundRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO rounds (round_number, dealer_score, dealer_bust, player_net) VALUES (?, ?, ?, ?)`,
		rec.RoundNumber, rec.DealerScore, boolInt(rec.DealerBust), rec.PlayerNet,
	)
	return err
}

// RecentRounds returns the most recent settled rounds, newest first
func (s *Store) RecentRounds(limit int) ([]RoundRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, round_number, dealer_score, dealer_bust, player_net, created_at
		FROM rounds ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RoundRecord
	for rows.Next() {
		var rec RoundRecord
		var bust int
		if err := rows.Scan(&rec.ID, &rec.RoundNumber, &rec.DealerScore, &bust, &rec.PlayerNet, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.DealerBust = bust != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
