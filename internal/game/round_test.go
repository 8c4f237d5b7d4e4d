package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

// standDecider stands on everything and bets the table minimum, keeping
// scripted shoes fully deterministic
type standDecider struct{}

func (standDecider) Decide(ctx DecisionContext) Action     { return ActionStand }
func (standDecider) BetSize(chips, minBet, maxBet int) int { return minBet }
func (standDecider) BuysInsurance(chips, bet int) bool     { return false }

func riggedRound(t *testing.T, settings Settings, ranks []deck.Rank) (*Round, string) {
	t.Helper()
	suits := []deck.Suit{deck.Spades, deck.Hearts, deck.Diamonds, deck.Clubs}
	cards := make([]deck.Card, len(ranks))
	for i, r := range ranks {
		cards[i] = deck.NewCard(suits[i%len(suits)], r)
	}
	r, err := NewRound(settings,
		WithShoe(deck.NewShoeFromCards(settings.DeckCount, cards)),
		WithDecider(standDecider{}),
	)
	require.NoError(t, err)
	snap, err := r.InitGame()
	require.NoError(t, err)
	return r, snap.Players[0].ID
}

// toPlaying places the human bet and deals the opening hands
func toPlaying(t *testing.T, r *Round, humanID string, bet int) Snapshot {
	t.Helper()
	_, err := r.PlaceBet(humanID, bet)
	require.NoError(t, err)
	_, err = r.StartDealing()
	require.NoError(t, err)
	snap, err := r.DealInitialCards()
	require.NoError(t, err)
	return snap
}

func TestFullRoundHumanBlackjack(t *testing.T) {
	// Seats draw in two passes, then the dealer: the human draws A,K for
	// blackjack, both AI seats draw 20, the dealer shows 9 over an 8 hole
	// card for a standing 17.
	r, humanID := riggedRound(t, DefaultSettings(), []deck.Rank{
		deck.Ace, deck.Ten, deck.Ten,
		deck.King, deck.Ten, deck.Ten,
		deck.Nine, deck.Eight,
	})

	snap := toPlaying(t, r, humanID, 100)
	assert.Equal(t, PhasePlaying, snap.Phase)
	require.True(t, snap.Players[0].Hands[0].Blackjack)
	assert.Equal(t, 900, snap.Players[0].Chips, "bet deducted at deal")

	// Hole card is masked until the dealer's turn
	require.Len(t, snap.Dealer.Cards, 2)
	assert.False(t, snap.Dealer.HoleCardRevealed)
	assert.Equal(t, deck.Rank(0), snap.Dealer.Cards[1].Rank)
	assert.Equal(t, 9, snap.Dealer.Score, "masked dealer scores upcard only")

	// Human stands; AI seats play out synchronously
	snap, err := r.Stand(humanID)
	require.NoError(t, err)
	assert.Equal(t, PhaseDealerTurn, snap.Phase)

	snap, err = r.PlayDealerTurn()
	require.NoError(t, err)
	assert.Equal(t, PhaseRoundEnd, snap.Phase)
	assert.True(t, snap.Dealer.HoleCardRevealed)
	assert.Equal(t, 17, snap.Dealer.Score)

	human := snap.Players[0]
	assert.Equal(t, ResultBlackjack, human.Results[0])
	assert.Equal(t, 1150, human.Chips, "blackjack pays 3:2 on 100")

	// AI seats won their 20s against 17 at the minimum bet
	assert.Equal(t, 1010, snap.Players[1].Chips)
	assert.Equal(t, 1010, snap.Players[2].Chips)

	assert.Equal(t, 1, snap.Stats.HandsPlayed)
	assert.Equal(t, 1, snap.Stats.HandsWon)
	assert.Equal(t, 1, snap.Stats.Blackjacks)
	assert.Equal(t, 1150, snap.Stats.HighestChips)
}

func TestSplitMechanics(t *testing.T) {
	// Human draws 8,8 against a dealer 6; splits, drawing 3 and 2, makes
	// 21 and 15, and the dealer busts from 15.
	r, humanID := riggedRound(t, DefaultSettings(), []deck.Rank{
		deck.Eight, deck.Ten, deck.Ten,
		deck.Eight, deck.Ten, deck.Ten,
		deck.Six, deck.Nine,
		deck.Three, deck.Two, deck.Ten, deck.Five, deck.King,
	})

	snap := toPlaying(t, r, humanID, 100)
	opening := snap.Players[0].Hands[0].Cards
	require.Len(t, opening, 2)
	require.Equal(t, opening[0].Rank, opening[1].Rank)

	snap, err := r.Split(humanID)
	require.NoError(t, err)
	human := snap.Players[0]
	require.Len(t, human.Hands, 2)
	assert.Equal(t, []int{100, 100}, human.Bets, "split hand carries the original bet")
	assert.Equal(t, 800, human.Chips, "chips debited exactly once more")
	assert.Equal(t, 0, human.ActiveHand)
	assert.Len(t, human.Hands[0].Cards, 2, "each split hand has one original plus one dealt card")
	assert.Len(t, human.Hands[1].Cards, 2)
	assert.Equal(t, 11, human.Hands[0].Score)
	assert.Equal(t, 10, human.Hands[1].Score)

	// First hand hits to 21 and auto-advances to the second hand
	snap, err = r.Hit(humanID)
	require.NoError(t, err)
	assert.Equal(t, 21, snap.Players[0].Hands[0].Score)
	assert.Equal(t, 1, snap.Players[0].ActiveHand)

	snap, err = r.Hit(humanID)
	require.NoError(t, err)
	assert.Equal(t, 15, snap.Players[0].Hands[1].Score)

	snap, err = r.Stand(humanID)
	require.NoError(t, err)
	assert.Equal(t, PhaseDealerTurn, snap.Phase)

	snap, err = r.PlayDealerTurn()
	require.NoError(t, err)
	assert.True(t, snap.Dealer.Busted)

	human = snap.Players[0]
	assert.Equal(t, []Result{ResultWin, ResultWin}, human.Results)
	assert.Equal(t, 1200, human.Chips, "two winning hands at 100 each")
	assert.Equal(t, 2, snap.Stats.HandsPlayed, "split hands count separately")
}

func TestInsuranceWithDealerBlackjack(t *testing.T) {
	r, humanID := riggedRound(t, DefaultSettings(), []deck.Rank{
		deck.Ten, deck.Ten, deck.Ten,
		deck.Nine, deck.Ten, deck.Ten,
		deck.Ace, deck.King,
	})

	snap := toPlaying(t, r, humanID, 100)
	require.Equal(t, PhaseInsurance, snap.Phase, "ace upcard offers insurance")

	snap, err := r.BuyInsurance(humanID)
	require.NoError(t, err)
	assert.Equal(t, PhasePlaying, snap.Phase)
	assert.True(t, snap.Players[0].HasInsurance)
	assert.Equal(t, 50, snap.Players[0].InsuranceBet, "insurance costs half the bet")
	assert.Equal(t, 850, snap.Players[0].Chips, "insurance stake deducted at purchase")
	assert.False(t, snap.Players[1].HasInsurance, "AI declines insurance")

	snap, err = r.Stand(humanID)
	require.NoError(t, err)
	snap, err = r.PlayDealerTurn()
	require.NoError(t, err)

	human := snap.Players[0]
	assert.Equal(t, ResultLose, human.Results[0], "19 loses to dealer blackjack")
	// -100 on the hand, +100 net on insurance: dead even
	assert.Equal(t, 1000, human.Chips)
}

func TestInsuranceStakeCannotFundDouble(t *testing.T) {
	// With 200 chips and a 100 bet, buying insurance leaves 50: not enough
	// to match the bet, so the double is refused and losing both the hand
	// and the side bet cannot overdraw the stack.
	settings := DefaultSettings()
	settings.StartingChips = 200
	r, humanID := riggedRound(t, settings, []deck.Rank{
		deck.Five, deck.Ten, deck.Ten,
		deck.Six, deck.Ten, deck.Ten,
		deck.Ace, deck.Nine,
	})

	snap := toPlaying(t, r, humanID, 100)
	require.Equal(t, PhaseInsurance, snap.Phase)

	snap, err := r.BuyInsurance(humanID)
	require.NoError(t, err)
	assert.Equal(t, 50, snap.Players[0].Chips)

	_, err = r.DoubleDown(humanID)
	assert.ErrorIs(t, err, ErrIllegalAction, "50 chips cannot cover the 100 double")

	actions, err := r.AvailableActions(humanID)
	require.NoError(t, err)
	assert.NotContains(t, actions, ActionDouble)

	_, err = r.Stand(humanID)
	require.NoError(t, err)
	snap, err = r.PlayDealerTurn()
	require.NoError(t, err)

	human := snap.Players[0]
	assert.Equal(t, 20, snap.Dealer.Score, "dealer holds soft 20, no blackjack")
	assert.Equal(t, ResultLose, human.Results[0])
	assert.Equal(t, 50, human.Chips)
	assert.GreaterOrEqual(t, human.Chips, 0, "chips never go negative")
}

func TestInsuranceDeclinedNoDealerBlackjack(t *testing.T) {
	r, humanID := riggedRound(t, DefaultSettings(), []deck.Rank{
		deck.Ten, deck.Ten, deck.Ten,
		deck.Nine, deck.Ten, deck.Ten,
		deck.Ace, deck.Nine,
	})

	snap := toPlaying(t, r, humanID, 100)
	require.Equal(t, PhaseInsurance, snap.Phase)

	snap, err := r.DeclineInsurance(humanID)
	require.NoError(t, err)
	assert.Equal(t, PhasePlaying, snap.Phase)
	assert.False(t, snap.Players[0].HasInsurance)

	_, err = r.Stand(humanID)
	require.NoError(t, err)
	snap, err = r.PlayDealerTurn()
	require.NoError(t, err)

	// Dealer holds soft 20; human 19 loses the bet and nothing else
	assert.Equal(t, 20, snap.Dealer.Score)
	assert.Equal(t, 900, snap.Players[0].Chips)
}

func TestPhaseValidation(t *testing.T) {
	settings := DefaultSettings()
	r, err := NewRound(settings, WithDecider(standDecider{}))
	require.NoError(t, err)

	// Nothing but InitGame is legal from idle
	for name, cmd := range map[string]func() (Snapshot, error){
		"placeBet":         func() (Snapshot, error) { return r.PlaceBet("x", 10) },
		"clearBet":         func() (Snapshot, error) { return r.ClearBet("x") },
		"startDealing":     func() (Snapshot, error) { return r.StartDealing() },
		"dealInitial":      func() (Snapshot, error) { return r.DealInitialCards() },
		"buyInsurance":     func() (Snapshot, error) { return r.BuyInsurance("x") },
		"declineInsurance": func() (Snapshot, error) { return r.DeclineInsurance("x") },
		"hit":              func() (Snapshot, error) { return r.Hit("x") },
		"stand":            func() (Snapshot, error) { return r.Stand("x") },
		"double":           func() (Snapshot, error) { return r.DoubleDown("x") },
		"split":            func() (Snapshot, error) { return r.Split("x") },
		"surrender":        func() (Snapshot, error) { return r.Surrender("x") },
		"playDealerTurn":   func() (Snapshot, error) { return r.PlayDealerTurn() },
		"nextRound":        func() (Snapshot, error) { return r.NextRound() },
		"startOver":        func() (Snapshot, error) { return r.StartOver() },
	} {
		_, err := cmd()
		assert.ErrorIs(t, err, ErrInvalidPhase, "command %s from idle", name)
	}

	snap, err := r.InitGame()
	require.NoError(t, err)
	humanID := snap.Players[0].ID

	// Play commands are rejected during betting, and state is untouched
	before := r.Snapshot()
	_, err = r.Hit(humanID)
	assert.ErrorIs(t, err, ErrInvalidPhase)
	_, err = r.PlayDealerTurn()
	assert.ErrorIs(t, err, ErrInvalidPhase)
	_, err = r.NextRound()
	assert.ErrorIs(t, err, ErrInvalidPhase)
	after := r.Snapshot()
	assert.Equal(t, before.Phase, after.Phase)
	assert.Equal(t, before.Players[0].Chips, after.Players[0].Chips)

	_, err = r.InitGame()
	assert.ErrorIs(t, err, ErrInvalidPhase, "initGame is idle-only")
}

func TestBetValidation(t *testing.T) {
	r, humanID := riggedRound(t, DefaultSettings(), nil)

	_, err := r.PlaceBet(humanID, 5)
	assert.ErrorIs(t, err, ErrInvalidBet, "below table minimum")

	_, err = r.PlaceBet(humanID, 600)
	assert.ErrorIs(t, err, ErrInvalidBet, "above table maximum")

	_, err = r.PlaceBet(humanID, 500)
	assert.NoError(t, err)

	_, err = r.PlaceBet("no-such-player", 100)
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	snap, err := r.ClearBet(humanID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Players[0].Bets[0])

	_, err = r.StartDealing()
	assert.ErrorIs(t, err, ErrInvalidBet, "cannot deal without the human bet")
}

func TestBetExceedingChipsRejected(t *testing.T) {
	settings := DefaultSettings()
	settings.StartingChips = 50
	r, humanID := riggedRound(t, settings, nil)

	_, err := r.PlaceBet(humanID, 100)
	assert.ErrorIs(t, err, ErrInvalidBet)
}

func TestIllegalActionsLeaveStateUnchanged(t *testing.T) {
	// Human holds 11, hits to 15; double and surrender are then illegal
	r, humanID := riggedRound(t, DefaultSettings(), []deck.Rank{
		deck.Five, deck.Ten, deck.Ten,
		deck.Six, deck.Ten, deck.Ten,
		deck.Nine, deck.Eight,
		deck.Four, deck.King,
	})
	toPlaying(t, r, humanID, 100)

	_, err := r.Hit(humanID)
	require.NoError(t, err)

	before := r.Snapshot()
	_, err = r.DoubleDown(humanID)
	assert.ErrorIs(t, err, ErrIllegalAction, "no double on three cards")
	_, err = r.Surrender(humanID)
	assert.ErrorIs(t, err, ErrIllegalAction, "no surrender after acting")
	_, err = r.Split(humanID)
	assert.ErrorIs(t, err, ErrIllegalAction)

	after := r.Snapshot()
	assert.Equal(t, before.Players[0].Chips, after.Players[0].Chips)
	assert.Equal(t, before.Players[0].Bets, after.Players[0].Bets)
	assert.Equal(t, before.ShoeRemaining, after.ShoeRemaining)
}

func TestOnlyActiveSeatMayAct(t *testing.T) {
	r, humanID := riggedRound(t, DefaultSettings(), []deck.Rank{
		deck.Five, deck.Ten, deck.Ten,
		deck.Six, deck.Ten, deck.Ten,
		deck.Nine, deck.Eight,
	})
	snap := toPlaying(t, r, humanID, 100)

	aiID := snap.Players[1].ID
	_, err := r.Hit(aiID)
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestDoubleDown(t *testing.T) {
	// Human 11 doubles into a ten for 21; dealer stands on 17
	r, humanID := riggedRound(t, DefaultSettings(), []deck.Rank{
		deck.Five, deck.Ten, deck.Ten,
		deck.Six, deck.Ten, deck.Ten,
		deck.Nine, deck.Eight,
		deck.King,
	})
	toPlaying(t, r, humanID, 100)

	snap, err := r.DoubleDown(humanID)
	require.NoError(t, err)
	assert.Equal(t, 800, snap.Players[0].Chips, "double debits a second bet")
	assert.Equal(t, 200, snap.Players[0].Bets[0])
	assert.Equal(t, PhaseDealerTurn, snap.Phase, "double ends the hand")

	snap, err = r.PlayDealerTurn()
	require.NoError(t, err)
	assert.Equal(t, ResultWin, snap.Players[0].Results[0])
	assert.Equal(t, 1200, snap.Players[0].Chips, "21 beats 17 for the doubled stake")
}

func TestSurrenderRefundsHalf(t *testing.T) {
	r, humanID := riggedRound(t, DefaultSettings(), []deck.Rank{
		deck.Ten, deck.Ten, deck.Ten,
		deck.Six, deck.Ten, deck.Ten,
		deck.Nine, deck.Eight,
	})
	toPlaying(t, r, humanID, 100)

	snap, err := r.Surrender(humanID)
	require.NoError(t, err)
	assert.True(t, snap.Players[0].HasSurrendered)
	assert.Equal(t, PhaseDealerTurn, snap.Phase)

	snap, err = r.PlayDealerTurn()
	require.NoError(t, err)
	assert.Equal(t, ResultSurrender, snap.Players[0].Results[0])
	assert.Equal(t, 950, snap.Players[0].Chips, "surrender forfeits half the bet")
	assert.Equal(t, 1, snap.Stats.Surrenders)
}

func TestNextRoundReusesDeepShoe(t *testing.T) {
	settings := DefaultSettings()
	settings.DeckCount = 1
	// 8 cards for the round plus 14 spares keeps the shoe at 25% or more
	ranks := []deck.Rank{
		deck.Ten, deck.Ten, deck.Ten,
		deck.Nine, deck.Ten, deck.Ten,
		deck.Ten, deck.Seven,
	}
	for i := 0; i < 14; i++ {
		ranks = append(ranks, deck.Two)
	}
	r, humanID := riggedRound(t, settings, ranks)
	toPlaying(t, r, humanID, 100)

	_, err := r.Stand(humanID)
	require.NoError(t, err)
	_, err = r.PlayDealerTurn()
	require.NoError(t, err)

	snap, err := r.NextRound()
	require.NoError(t, err)
	assert.Equal(t, 14, snap.ShoeRemaining, "shoe at >=25% is reused unchanged")
	assert.Equal(t, 2, snap.RoundNumber)
	assert.Equal(t, PhaseBetting, snap.Phase)
	require.Len(t, snap.Players[0].Hands, 1)
	assert.Empty(t, snap.Players[0].Hands[0].Cards, "hands reset for the new round")
}

func TestNextRoundReshufflesShallowShoe(t *testing.T) {
	settings := DefaultSettings()
	settings.DeckCount = 1
	ranks := []deck.Rank{
		deck.Ten, deck.Ten, deck.Ten,
		deck.Nine, deck.Ten, deck.Ten,
		deck.Ten, deck.Seven,
	}
	for i := 0; i < 12; i++ {
		ranks = append(ranks, deck.Two)
	}
	r, humanID := riggedRound(t, settings, ranks)
	toPlaying(t, r, humanID, 100)

	_, err := r.Stand(humanID)
	require.NoError(t, err)
	_, err = r.PlayDealerTurn()
	require.NoError(t, err)

	snap, err := r.NextRound()
	require.NoError(t, err)
	assert.Equal(t, 52, snap.ShoeRemaining, "shallow shoe replaced with a fresh full one")
}

func TestBrokeAndStartOver(t *testing.T) {
	settings := DefaultSettings()
	settings.StartingChips = 100
	// Human stands on 15 against a dealer 17 and loses the whole stack
	r, humanID := riggedRound(t, settings, []deck.Rank{
		deck.Ten, deck.Ten, deck.Ten,
		deck.Five, deck.Ten, deck.Ten,
		deck.Ten, deck.Seven,
	})
	toPlaying(t, r, humanID, 100)

	_, err := r.Stand(humanID)
	require.NoError(t, err)
	snap, err := r.PlayDealerTurn()
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Players[0].Chips)
	assert.True(t, snap.Broke)

	_, err = r.NextRound()
	require.NoError(t, err)
	_, err = r.PlaceBet(humanID, 10)
	assert.ErrorIs(t, err, ErrInvalidBet, "no chips to bet with")
	_, err = r.StartDealing()
	assert.ErrorIs(t, err, ErrPlayerBroke)

	snap, err = r.StartOver()
	require.NoError(t, err)
	assert.Equal(t, 100, snap.Players[0].Chips)
	assert.False(t, snap.Broke)
	assert.Equal(t, 1, snap.RoundNumber)
	assert.Zero(t, snap.Stats.HandsPlayed, "start over clears session stats")
}

func TestStartOverRequiresRebuySetting(t *testing.T) {
	settings := DefaultSettings()
	settings.AllowRebuy = false
	r, _ := riggedRound(t, settings, nil)

	_, err := r.StartOver()
	assert.ErrorIs(t, err, ErrRebuyDisabled)
}

func TestUpdateSettings(t *testing.T) {
	r, humanID := riggedRound(t, DefaultSettings(), nil)

	two := 2
	snap, err := r.UpdateSettings(SettingsPatch{DeckCount: &two})
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Settings.DeckCount)
	assert.Equal(t, 104, snap.ShoeRemaining, "deck count change rebuilds the shoe")

	zero := 0
	_, err = r.UpdateSettings(SettingsPatch{MinBet: &zero})
	assert.Error(t, err, "invalid patches are rejected")

	// Settings are frozen while a round is in flight
	_, err = r.PlaceBet(humanID, 100)
	require.NoError(t, err)
	_, err = r.StartDealing()
	require.NoError(t, err)
	_, err = r.UpdateSettings(SettingsPatch{DeckCount: &two})
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestAvailableActionsQuery(t *testing.T) {
	r, humanID := riggedRound(t, DefaultSettings(), []deck.Rank{
		deck.Eight, deck.Ten, deck.Ten,
		deck.Eight, deck.Ten, deck.Ten,
		deck.Nine, deck.Eight,
	})
	snap := toPlaying(t, r, humanID, 100)

	actions, err := r.AvailableActions(humanID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Action{ActionHit, ActionStand, ActionDouble, ActionSplit, ActionSurrender}, actions)

	aiActions, err := r.AvailableActions(snap.Players[1].ID)
	require.NoError(t, err)
	assert.Empty(t, aiActions, "inactive seats have no available actions")

	_, err = r.AvailableActions("nope")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestEventsPublished(t *testing.T) {
	r, humanID := riggedRound(t, DefaultSettings(), []deck.Rank{
		deck.Ten, deck.Ten, deck.Ten,
		deck.Nine, deck.Ten, deck.Ten,
		deck.Nine, deck.Eight,
	})

	var types []EventType
	r.Events().Subscribe(eventHandlerFunc(func(e Event) {
		types = append(types, e.EventType())
	}))

	toPlaying(t, r, humanID, 100)
	_, err := r.Stand(humanID)
	require.NoError(t, err)
	_, err = r.PlayDealerTurn()
	require.NoError(t, err)

	assert.Contains(t, types, EventTypeCardDealt)
	assert.Contains(t, types, EventTypePlayerAction)
	assert.Contains(t, types, EventTypeHoleCardRevealed)
	assert.Contains(t, types, EventTypeRoundSettled)
	assert.Contains(t, types, EventTypePhaseChange)
}

type eventHandlerFunc func(Event)

func (f eventHandlerFunc) HandleEvent(e Event) { f(e) }
