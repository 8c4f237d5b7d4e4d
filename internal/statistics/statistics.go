// Package statistics tracks session-level results across rounds.
package statistics

import "fmt"

// SessionStats aggregates outcomes for a playing session. It persists
// across rounds and is cleared only by an explicit start-over.
type SessionStats struct {
	HandsPlayed int `json:"hands_played"`
	HandsWon    int `json:"hands_won"`
	HandsLost   int `json:"hands_lost"`
	HandsPushed int `json:"hands_pushed"`
	Blackjacks  int `json:"blackjacks"`
	Surrenders  int `json:"surrenders"`

	TotalWon  int `json:"total_won"`
	TotalLost int `json:"total_lost"`

	// HighestChips is the best chip balance observed at any settlement
	HighestChips int `json:"highest_chips"`
}

// Outcome classifies a settled hand for the counters
type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeLoss
	OutcomePush
	OutcomeBlackjack
	OutcomeSurrender
)

// RecordHand incorporates one settled hand. net is the chip delta for the
// hand, negative on a loss.
func (s *SessionStats) RecordHand(outcome Outcome, net int) {
	s.HandsPlayed++
	switch outcome {
	case OutcomeWin:
		s.HandsWon++
	case OutcomeBlackjack:
		s.HandsWon++
		s.Blackjacks++
	case OutcomeLoss:
		s.HandsLost++
	case OutcomeSurrender:
		s.HandsLost++
		s.Surrenders++
	case OutcomePush:
		s.HandsPushed++
	}
	if net > 0 {
		s.TotalWon += net
	} else {
		s.TotalLost += -net
	}
}

// ObserveChips updates the highest-chip watermark
func (s *SessionStats) ObserveChips(chips int) {
	if chips > s.HighestChips {
		s.HighestChips = chips
	}
}

// Reset clears all counters
func (s *SessionStats) Reset() {
	*s = SessionStats{}
}

// Net returns total won minus total lost
func (s *SessionStats) Net() int {
	return s.TotalWon - s.TotalLost
}

// Validate performs consistency checks on the counters
func (s *SessionStats) Validate() error {
	if s.HandsPlayed < 0 || s.HandsWon < 0 || s.HandsLost < 0 || s.HandsPushed < 0 {
		return fmt.Errorf("negative counter: %+v", *s)
	}
	if total := s.HandsWon + s.HandsLost + s.HandsPushed; total != s.HandsPlayed {
		return fmt.Errorf("outcome counts (%d) do not sum to hands played (%d)", total, s.HandsPlayed)
	}
	if s.Blackjacks > s.HandsWon {
		return fmt.Errorf("blackjacks (%d) exceed hands won (%d)", s.Blackjacks, s.HandsWon)
	}
	if s.Surrenders > s.HandsLost {
		return fmt.Errorf("surrenders (%d) exceed hands lost (%d)", s.Surrenders, s.HandsLost)
	}
	if s.TotalWon < 0 || s.TotalLost < 0 {
		return fmt.Errorf("negative totals: won=%d lost=%d", s.TotalWon, s.TotalLost)
	}
	return nil
}
