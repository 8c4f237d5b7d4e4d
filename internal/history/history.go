// Package history records each settled round to a JSON file. The
// recorder subscribes to the engine's event bus and accumulates deals and
// actions as they happen, so the export reflects the order of play rather
// than a reconstruction from the final snapshot.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
)

// Deal is one card leaving the shoe. Hidden cards record no identity
// until the reveal event.
type Deal struct {
	Seat     string `json:"seat"`
	ToDealer bool   `json:"to_dealer,omitempty"`
	Card     string `json:"card"`
}

// ActionEntry is one play decision
type ActionEntry struct {
	Seat      string `json:"seat"`
	HandIndex int    `json:"hand_index"`
	Action    string `json:"action"`
	Score     int    `json:"score"`
	Busted    bool   `json:"busted,omitempty"`
}

// HandOutcome is one hand's settlement
type HandOutcome struct {
	Seat      string `json:"seat"`
	HandIndex int    `json:"hand_index"`
	Result    string `json:"result"`
	Bet       int    `json:"bet"`
	Net       int    `json:"net"`
}

// Record is the full journal of one round
type Record struct {
	RoundNumber int           `json:"round_number"`
	StartedAt   time.Time     `json:"started_at"`
	SettledAt   time.Time     `json:"settled_at"`
	Deals       []Deal        `json:"deals"`
	Actions     []ActionEntry `json:"actions"`
	DealerScore int           `json:"dealer_score"`
	DealerBust  bool          `json:"dealer_bust"`
	Outcomes    []HandOutcome `json:"outcomes"`
}

// Recorder accumulates the current round's events and writes a file per
// settled round. Write failures are logged, never surfaced to gameplay.
type Recorder struct {
	dir    string
	logger *log.Logger

	mu      sync.Mutex
	current *Record
}

// NewRecorder creates a recorder writing into dir
func NewRecorder(dir string, logger *log.Logger) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &Recorder{dir: dir, logger: logger}, nil
}

var _ game.EventHandler = (*Recorder)(nil)

// HandleEvent implements game.EventHandler
func (r *Recorder) HandleEvent(e game.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev := e.(type) {
	case game.RoundStartEvent:
		r.current = &Record{
			RoundNumber: ev.RoundNumber,
			StartedAt:   ev.Timestamp(),
		}

	case game.CardDealtEvent:
		if r.current == nil {
			return
		}
		r.current.Deals = append(r.current.Deals, Deal{
			Seat:     ev.SeatName,
			ToDealer: ev.ToDealer,
			Card:     cardLabel(ev),
		})

	case game.PlayerActionEvent:
		if r.current == nil {
			return
		}
		r.current.Actions = append(r.current.Actions, ActionEntry{
			Seat:      ev.PlayerName,
			HandIndex: ev.HandIndex,
			Action:    ev.Action.String(),
			Score:     ev.Score,
			Busted:    ev.Busted,
		})

	case game.HoleCardRevealedEvent:
		if r.current == nil {
			return
		}
		r.current.Deals = append(r.current.Deals, Deal{
			Seat:     "dealer",
			ToDealer: true,
			Card:     ev.Card.String(),
		})

	case game.RoundSettledEvent:
		if r.current == nil {
			return
		}
		r.current.SettledAt = ev.Timestamp()
		r.current.DealerScore = ev.DealerScore
		r.current.DealerBust = ev.DealerBust
		for _, h := range ev.Hands {
			r.current.Outcomes = append(r.current.Outcomes, HandOutcome{
				Seat:      h.PlayerName,
				HandIndex: h.HandIndex,
				Result:    h.Result.String(),
				Bet:       h.Bet,
				Net:       h.Net,
			})
		}
		r.flush()
	}
}

// flush writes the current record and clears it. Caller holds the lock.
func (r *Recorder) flush() {
	rec := r.current
	r.current = nil

	path := filepath.Join(r.dir, fmt.Sprintf("round_%05d_%s.json", rec.RoundNumber, rec.SettledAt.Format("20060102T150405")))
	if err := fileutil.WriteJSONAtomic(path, rec, 0644); err != nil {
		r.logger.Error("failed to write round history", "path", path, "error", err)
	}
}

// cardLabel renders a dealt card, hiding face-down deals
func cardLabel(ev game.CardDealtEvent) string {
	if ev.Card.Rank == 0 {
		return "hidden"
	}
	return ev.Card.String()
}
