package game

import (
	"github.com/lox/blackjack/internal/deck"
)

// Rules are pure predicates and arithmetic over hands, players, and
// settings. The round machine re-checks every command against these even
// when the UI has already filtered its action list.

// maxHandsPerPlayer caps the number of hands a seat can hold via splits
const maxHandsPerPlayer = 4

// CanHit is allowed while the hand is neither busted nor at 21
func CanHit(h *Hand) bool {
	return !h.Busted && h.Score < 21
}

// CanStand is allowed on any hand that has at least one card
func CanStand(h *Hand) bool {
	return len(h.Cards) > 0
}

// CanDouble is allowed on an unbusted two-card hand the player can afford
// to match, subject to the double-after-split setting
func CanDouble(h *Hand, bet, chips int, settings Settings) bool {
	if len(h.Cards) != 2 || h.Busted {
		return false
	}
	if chips < bet {
		return false
	}
	return !h.FromSplit || settings.AllowDoubleAfterSplit
}

// CanSplit is allowed on a matching-rank pair when the seat holds fewer
// than four hands and can cover another bet of the same size
func CanSplit(p *Player, h *Hand) bool {
	return h.IsPair() && len(p.Hands) < maxHandsPerPlayer && p.Chips >= p.CurrentBet()
}

// CanSurrender is allowed on an untouched opening two-card hand that is
// not a blackjack, when the table permits it
func CanSurrender(p *Player, h *Hand, settings Settings) bool {
	if !settings.AllowSurrender || p.HasActed {
		return false
	}
	return len(h.Cards) == 2 && !h.Blackjack
}

// InsuranceOffered reports whether the dealer's visible upcard triggers
// the insurance side bet
func InsuranceOffered(upcard deck.Card) bool {
	return upcard.IsAce()
}

// CanBuyInsurance requires an open offer, no prior purchase, and chips to
// cover half the original bet (rounded down)
func CanBuyInsurance(p *Player) bool {
	return !p.HasInsurance && p.Chips >= p.Bets[0]/2
}

// DealerShouldHit implements the dealer policy: hit below 17, stand above,
// and at exactly 17 hit only a soft hand under the hits-soft-17 rule
func DealerShouldHit(h *Hand, settings Settings) bool {
	if h.Score < 17 {
		return true
	}
	if h.Score > 17 {
		return false
	}
	return h.Soft && settings.DealerHitsSoft17
}

// DetermineWinner resolves a player hand against the dealer hand. The
// priority order matters: surrender and player bust settle before
// blackjacks, blackjacks before dealer bust, score comparison last.
func DetermineWinner(player, dealer *Hand, surrendered bool) Result {
	switch {
	case surrendered:
		return ResultSurrender
	case player.Busted:
		return ResultLose
	case player.Blackjack && dealer.Blackjack:
		return ResultPush
	case player.Blackjack:
		return ResultBlackjack
	case dealer.Blackjack:
		return ResultLose
	case dealer.Busted:
		return ResultWin
	case player.Score > dealer.Score:
		return ResultWin
	case player.Score < dealer.Score:
		return ResultLose
	default:
		return ResultPush
	}
}

// Payout returns the chip delta for a settled hand, relative to the stake
// already on the table. ResultPending is rejected: determineWinner always
// produces a concrete outcome by settlement, so a pending result here is
// an engine bug, not a loss.
func Payout(result Result, bet int, settings Settings) (int, error) {
	switch result {
	case ResultBlackjack:
		return settings.BlackjackPayout.BlackjackWinnings(bet), nil
	case ResultWin:
		return bet, nil
	case ResultPush:
		return 0, nil
	case ResultSurrender:
		return -(bet / 2), nil
	case ResultLose:
		return -bet, nil
	default:
		return 0, ErrPendingResult
	}
}

// InsurancePayout settles the insurance side bet. The stake left the
// player's chips at purchase, so a dealer blackjack returns it plus 2:1
// winnings and anything else returns nothing.
func InsurancePayout(dealerBlackjack bool, insuranceBet int) int {
	if dealerBlackjack {
		return 3 * insuranceBet
	}
	return 0
}

// AvailableActions lists the legal plays for the player's active hand
func AvailableActions(p *Player, settings Settings) []Action {
	h := p.CurrentHand()
	var actions []Action
	if CanHit(h) {
		actions = append(actions, ActionHit)
	}
	if CanStand(h) {
		actions = append(actions, ActionStand)
	}
	if CanDouble(h, p.CurrentBet(), p.Chips, settings) {
		actions = append(actions, ActionDouble)
	}
	if CanSplit(p, h) {
		actions = append(actions, ActionSplit)
	}
	if CanSurrender(p, h, settings) {
		actions = append(actions, ActionSurrender)
	}
	return actions
}
