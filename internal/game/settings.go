package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// PayoutRatio is the blackjack payout schedule
type PayoutRatio int

const (
	PayoutThreeToTwo PayoutRatio = iota
	PayoutSixToFive
)

// String returns the string representation of a payout ratio
func (r PayoutRatio) String() string {
	switch r {
	case PayoutThreeToTwo:
		return "3:2"
	case PayoutSixToFive:
		return "6:5"
	default:
		return "unknown"
	}
}

// BlackjackWinnings returns floor(bet * ratio) for a blackjack win
func (r PayoutRatio) BlackjackWinnings(bet int) int {
	if r == PayoutSixToFive {
		return bet * 6 / 5
	}
	return bet * 3 / 2
}

// Settings is the per-round table configuration. It is immutable while a
// round is in flight; UpdateSettings only applies between rounds.
type Settings struct {
	DeckCount             int
	DealerHitsSoft17      bool
	BlackjackPayout       PayoutRatio
	AllowSurrender        bool
	AllowDoubleAfterSplit bool
	AllowRebuy            bool

	MinBet        int
	MaxBet        int
	StartingChips int

	// AnimationSpeed is a UI pacing multiplier carried through snapshots;
	// the engine itself never waits on it.
	AnimationSpeed float64
}

// DefaultSettings returns the standard six-deck table
func DefaultSettings() Settings {
	return Settings{
		DeckCount:             6,
		DealerHitsSoft17:      false,
		BlackjackPayout:       PayoutThreeToTwo,
		AllowSurrender:        true,
		AllowDoubleAfterSplit: true,
		AllowRebuy:            true,
		MinBet:                10,
		MaxBet:                500,
		StartingChips:         1000,
		AnimationSpeed:        1.0,
	}
}

// Validate checks settings for internal consistency
func (s Settings) Validate() error {
	if s.DeckCount < 1 || s.DeckCount > 8 {
		return fmt.Errorf("%w: deck count %d", deck.ErrInvalidDeckCount, s.DeckCount)
	}
	if s.MinBet <= 0 {
		return fmt.Errorf("minimum bet must be positive, got %d", s.MinBet)
	}
	if s.MaxBet < s.MinBet {
		return fmt.Errorf("maximum bet %d below minimum bet %d", s.MaxBet, s.MinBet)
	}
	if s.StartingChips < s.MinBet {
		return fmt.Errorf("starting chips %d below minimum bet %d", s.StartingChips, s.MinBet)
	}
	if s.BlackjackPayout != PayoutThreeToTwo && s.BlackjackPayout != PayoutSixToFive {
		return fmt.Errorf("unknown blackjack payout ratio %d", s.BlackjackPayout)
	}
	return nil
}

// SettingsPatch is a partial settings update; nil fields keep their
// current value.
type SettingsPatch struct {
	DeckCount             *int
	DealerHitsSoft17      *bool
	BlackjackPayout       *PayoutRatio
	AllowSurrender        *bool
	AllowDoubleAfterSplit *bool
	AllowRebuy            *bool
	MinBet                *int
	MaxBet                *int
	AnimationSpeed        *float64
}

// Apply returns the settings with the patch applied
func (s Settings) Apply(patch SettingsPatch) Settings {
	if patch.DeckCount != nil {
		s.DeckCount = *patch.DeckCount
	}
	if patch.DealerHitsSoft17 != nil {
		s.DealerHitsSoft17 = *patch.DealerHitsSoft17
	}
	if patch.BlackjackPayout != nil {
		s.BlackjackPayout = *patch.BlackjackPayout
	}
	if patch.AllowSurrender != nil {
		s.AllowSurrender = *patch.AllowSurrender
	}
	if patch.AllowDoubleAfterSplit != nil {
		s.AllowDoubleAfterSplit = *patch.AllowDoubleAfterSplit
	}
	if patch.AllowRebuy != nil {
		s.AllowRebuy = *patch.AllowRebuy
	}
	if patch.MinBet != nil {
		s.MinBet = *patch.MinBet
	}
	if patch.MaxBet != nil {
		s.MaxBet = *patch.MaxBet
	}
	if patch.AnimationSpeed != nil {
		s.AnimationSpeed = *patch.AnimationSpeed
	}
	return s
}
