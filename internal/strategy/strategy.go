// Package strategy implements the computer opponents: a deterministic
// basic-strategy chart lookup plus conservative bet sizing.
package strategy

import (
	"github.com/lox/blackjack/internal/game"
)

// Basic is a table-driven player of standard multi-deck basic strategy.
// It is stateless and deterministic: the same hand, upcard, and legality
// flags always produce the same action.
type Basic struct{}

// NewBasic creates a basic-strategy decider
func NewBasic() *Basic {
	return &Basic{}
}

var _ game.Decider = (*Basic)(nil)

// Decide picks the action for a hand against the dealer's upcard.
// Precedence: finished hands stand; chart-endorsed pair splits happen
// before total lookups; then the soft or hard chart entry is translated
// against what is currently legal (a double or surrender that is no
// longer available degrades to a hit).
func (b *Basic) Decide(ctx game.DecisionContext) game.Action {
	h := ctx.Hand
	if h.Blackjack || h.Busted {
		return game.ActionStand
	}

	upcard := normalizeUpcard(ctx.DealerUpcard)

	if ctx.CanSplit && h.IsPair() {
		pairValue := clamp(h.Cards[0].Value(), pairMin, pairMax)
		if pairSplits[pairValue-pairMin][upcard-upcardMin] {
			return game.ActionSplit
		}
	}

	var entry code
	if h.Soft && h.Score >= softMin && h.Score <= softMax {
		entry = softTotals[h.Score-softMin][upcard-upcardMin]
	} else {
		total := clamp(h.Score, hardMin, hardMax)
		entry = hardTotals[total-hardMin][upcard-upcardMin]
	}

	switch entry {
	case stand:
		return game.ActionStand
	case double:
		if ctx.CanDouble {
			return game.ActionDouble
		}
		return game.ActionHit
	case surrender:
		if ctx.CanSurrender {
			return game.ActionSurrender
		}
		return game.ActionHit
	case split:
		return game.ActionSplit
	default:
		return game.ActionHit
	}
}

// normalizeUpcard maps an ace to the lookup key 11 and clamps numeric
// upcards into [2,10]
func normalizeUpcard(value int) int {
	if value >= 11 {
		return 11
	}
	return clamp(value, 2, 10)
}

// BuysInsurance always declines: insurance is a negative-expectation side
// bet under basic strategy.
func (b *Basic) BuysInsurance(chips, bet int) bool {
	return false
}

// chipDenominations are the bet increments the AI rounds down to
var chipDenominations = []int{500, 250, 100, 50, 25, 10, 5}

// BetSize wagers 5% of the stack, rounded down to a chip denomination and
// clamped into the table limits. A stack below the table minimum is
// returned whole: the result never exceeds chips.
func (b *Basic) BetSize(chips, minBet, maxBet int) int {
	target := chips * 5 / 100

	bet := 0
	for _, denom := range chipDenominations {
		if denom <= target {
			bet = denom
			break
		}
	}
	if bet == 0 {
		bet = minBet
	}

	if maxBet > chips {
		maxBet = chips
	}
	if minBet > maxBet {
		return maxBet
	}
	return clamp(bet, minBet, maxBet)
}
