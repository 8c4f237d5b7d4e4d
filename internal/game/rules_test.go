package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func TestDealerPolicy(t *testing.T) {
	soft17 := NewHand(cards(deck.Ace, deck.Six)...)
	hard16 := NewHand(cards(deck.Ten, deck.Six)...)
	hard17 := NewHand(cards(deck.Ten, deck.Seven)...)
	hard18 := NewHand(cards(deck.Ten, deck.Eight)...)
	soft18 := NewHand(cards(deck.Ace, deck.Seven)...)

	hitsSoft := DefaultSettings()
	hitsSoft.DealerHitsSoft17 = true
	standsSoft := DefaultSettings()
	standsSoft.DealerHitsSoft17 = false

	assert.True(t, DealerShouldHit(soft17, hitsSoft), "soft 17 hits under H17")
	assert.False(t, DealerShouldHit(soft17, standsSoft), "soft 17 stands under S17")
	assert.True(t, DealerShouldHit(hard16, hitsSoft), "hard 16 always hits")
	assert.True(t, DealerShouldHit(hard16, standsSoft), "hard 16 always hits")
	assert.False(t, DealerShouldHit(hard17, hitsSoft), "hard 17 always stands")
	assert.False(t, DealerShouldHit(hard18, standsSoft), "18 always stands")
	assert.False(t, DealerShouldHit(soft18, hitsSoft), "soft 18 stands even under H17")
}

func TestDetermineWinner(t *testing.T) {
	bj := NewHand(cards(deck.Ace, deck.King)...)
	twenty := NewHand(cards(deck.King, deck.Queen)...)
	nineteen := NewHand(cards(deck.Ten, deck.Nine)...)
	eighteen := NewHand(cards(deck.Ten, deck.Eight)...)
	bust := NewHand(cards(deck.King, deck.Queen, deck.Five)...)

	tests := []struct {
		name        string
		player      *Hand
		dealer      *Hand
		surrendered bool
		want        Result
	}{
		{name: "surrender beats everything", player: twenty, dealer: bust, surrendered: true, want: ResultSurrender},
		{name: "player bust loses even to dealer bust", player: bust, dealer: bust, want: ResultLose},
		{name: "blackjack vs blackjack pushes", player: bj, dealer: bj, want: ResultPush},
		{name: "blackjack beats twenty", player: bj, dealer: twenty, want: ResultBlackjack},
		{name: "dealer blackjack beats twenty", player: twenty, dealer: bj, want: ResultLose},
		{name: "dealer bust is a win", player: nineteen, dealer: bust, want: ResultWin},
		{name: "higher score wins", player: nineteen, dealer: eighteen, want: ResultWin},
		{name: "lower score loses", player: eighteen, dealer: twenty, want: ResultLose},
		{name: "equal scores push", player: twenty, dealer: twenty, want: ResultPush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineWinner(tt.player, tt.dealer, tt.surrendered))
		})
	}
}

func TestPayout(t *testing.T) {
	threeTwo := DefaultSettings()
	threeTwo.BlackjackPayout = PayoutThreeToTwo
	sixFive := DefaultSettings()
	sixFive.BlackjackPayout = PayoutSixToFive

	tests := []struct {
		name     string
		result   Result
		bet      int
		settings Settings
		want     int
	}{
		{name: "blackjack at 3:2", result: ResultBlackjack, bet: 100, settings: threeTwo, want: 150},
		{name: "blackjack at 6:5", result: ResultBlackjack, bet: 100, settings: sixFive, want: 120},
		{name: "blackjack at 3:2 floors", result: ResultBlackjack, bet: 25, settings: threeTwo, want: 37},
		{name: "win", result: ResultWin, bet: 100, settings: threeTwo, want: 100},
		{name: "push", result: ResultPush, bet: 100, settings: threeTwo, want: 0},
		{name: "surrender", result: ResultSurrender, bet: 100, settings: threeTwo, want: -50},
		{name: "surrender floors", result: ResultSurrender, bet: 25, settings: threeTwo, want: -12},
		{name: "loss", result: ResultLose, bet: 100, settings: threeTwo, want: -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Payout(tt.result, tt.bet, tt.settings)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayoutRejectsPending(t *testing.T) {
	_, err := Payout(ResultPending, 100, DefaultSettings())
	require.ErrorIs(t, err, ErrPendingResult)
}

func TestInsurancePayout(t *testing.T) {
	// The stake is deducted at purchase: 3x back is stake plus 2:1
	assert.Equal(t, 150, InsurancePayout(true, 50))
	assert.Equal(t, 0, InsurancePayout(false, 50))
}

func TestCanHit(t *testing.T) {
	assert.True(t, CanHit(NewHand(cards(deck.Ten, deck.Six)...)))
	assert.False(t, CanHit(NewHand(cards(deck.Ace, deck.King)...)), "21 cannot hit")
	assert.False(t, CanHit(NewHand(cards(deck.King, deck.Queen, deck.Five)...)), "bust cannot hit")
}

func TestCanDouble(t *testing.T) {
	settings := DefaultSettings()
	twoCards := NewHand(cards(deck.Five, deck.Six)...)
	threeCards := NewHand(cards(deck.Two, deck.Three, deck.Six)...)

	assert.True(t, CanDouble(twoCards, 100, 100, settings))
	assert.False(t, CanDouble(twoCards, 100, 99, settings), "cannot double without matching chips")
	assert.False(t, CanDouble(threeCards, 100, 1000, settings), "only two-card hands double")

	split := NewHand(cards(deck.Five, deck.Six)...)
	split.FromSplit = true
	assert.True(t, CanDouble(split, 100, 100, settings), "double after split allowed by default")

	noDAS := settings
	noDAS.AllowDoubleAfterSplit = false
	assert.False(t, CanDouble(split, 100, 100, noDAS))
}

func TestCanSplit(t *testing.T) {
	p := NewPlayer("p", Human, 0, 500)
	p.Hands[0] = NewHand(card(deck.Eight), deck.NewCard(deck.Hearts, deck.Eight))
	p.Bets[0] = 100
	assert.True(t, CanSplit(p, p.Hands[0]))

	p.Chips = 99
	assert.False(t, CanSplit(p, p.Hands[0]), "cannot split without covering the bet")

	p.Chips = 500
	p.Hands = []*Hand{p.Hands[0], NewHand(), NewHand(), NewHand()}
	assert.False(t, CanSplit(p, p.Hands[0]), "four hands is the cap")
}

func TestCanSurrender(t *testing.T) {
	settings := DefaultSettings()
	p := NewPlayer("p", Human, 0, 500)
	p.Hands[0] = NewHand(cards(deck.Ten, deck.Six)...)

	assert.True(t, CanSurrender(p, p.Hands[0], settings))

	p.HasActed = true
	assert.False(t, CanSurrender(p, p.Hands[0], settings), "no surrender after acting")

	p.HasActed = false
	noSurrender := settings
	noSurrender.AllowSurrender = false
	assert.False(t, CanSurrender(p, p.Hands[0], noSurrender))

	bj := NewHand(cards(deck.Ace, deck.King)...)
	assert.False(t, CanSurrender(p, bj, settings), "blackjack cannot surrender")
}

func TestInsuranceOffered(t *testing.T) {
	assert.True(t, InsuranceOffered(card(deck.Ace)))
	assert.False(t, InsuranceOffered(card(deck.King)))
	assert.False(t, InsuranceOffered(card(deck.Ten)))
}

func TestAvailableActions(t *testing.T) {
	settings := DefaultSettings()
	p := NewPlayer("p", Human, 0, 500)
	p.Hands[0] = NewHand(card(deck.Eight), deck.NewCard(deck.Hearts, deck.Eight))
	p.Bets[0] = 100

	actions := AvailableActions(p, settings)
	assert.ElementsMatch(t, []Action{ActionHit, ActionStand, ActionDouble, ActionSplit, ActionSurrender}, actions)

	// After acting, surrender drops out
	p.HasActed = true
	actions = AvailableActions(p, settings)
	assert.NotContains(t, actions, ActionSurrender)
}
