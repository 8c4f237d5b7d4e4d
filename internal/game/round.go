package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// Phase is the round machine's state
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBetting
	PhaseDealing
	PhaseInsurance
	PhasePlaying
	PhaseDealerTurn
	PhasePayout
	PhaseRoundEnd
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBetting:
		return "betting"
	case PhaseDealing:
		return "dealing"
	case PhaseInsurance:
		return "insurance"
	case PhasePlaying:
		return "playing"
	case PhaseDealerTurn:
		return "dealer-turn"
	case PhasePayout:
		return "payout"
	case PhaseRoundEnd:
		return "round-end"
	default:
		return "unknown"
	}
}

// aiSeatNames are the fixed identities of the two computer opponents
var aiSeatNames = [2]string{"Ava", "Miles"}

// Round owns all state for the table across rounds: seats, dealer, shoe,
// settings, and session stats. Every command validates the current phase
// and action legality before mutating anything, runs to completion
// synchronously, and returns a fresh snapshot. AI seats and their plays
// are driven internally; the UI only ever acts for the human seat.
type Round struct {
	phase       Phase
	settings    Settings
	players     []*Player
	dealer      *Dealer
	shoe        *deck.Shoe
	roundNumber int
	activeSeat  int
	broke       bool

	rng     *rand.Rand
	logger  *log.Logger
	events  EventBus
	decider Decider
	stats   *statistics.SessionStats
}

// Option configures a Round
type Option func(*Round)

// WithRNG injects the RNG used for shuffling (tests use fixed seeds)
func WithRNG(rng *rand.Rand) Option {
	return func(r *Round) { r.rng = rng }
}

// WithLogger sets the engine logger
func WithLogger(logger *log.Logger) Option {
	return func(r *Round) { r.logger = logger }
}

// WithDecider sets the strategy consulted for AI seats
func WithDecider(d Decider) Option {
	return func(r *Round) { r.decider = d }
}

// WithEventBus sets the event bus lifecycle events are published on
func WithEventBus(bus EventBus) Option {
	return func(r *Round) { r.events = bus }
}

// WithStats attaches an existing stats accumulator (e.g. loaded from the
// store) instead of a zeroed one
func WithStats(stats *statistics.SessionStats) Option {
	return func(r *Round) { r.stats = stats }
}

// WithShoe presets the shoe instead of building one at InitGame. Tests
// use it with deck.NewShoeFromCards to rig exact deal orders.
func WithShoe(shoe *deck.Shoe) Option {
	return func(r *Round) { r.shoe = shoe }
}

// NewRound creates a round machine in the idle phase. A Decider must be
// provided before InitGame via WithDecider or SetDecider; all other
// options have working defaults.
func NewRound(settings Settings, opts ...Option) (*Round, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	r := &Round{
		phase:    PhaseIdle,
		settings: settings,
		rng:      randutil.New(rand.Int64()),
		logger:   log.New(io.Discard),
		events:   NewEventBus(),
		stats:    &statistics.SessionStats{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// SetDecider replaces the AI strategy. Only valid between rounds.
func (r *Round) SetDecider(d Decider) {
	r.decider = d
}

// Events returns the bus lifecycle events are published on
func (r *Round) Events() EventBus {
	return r.events
}

// Snapshot returns the current state view
func (r *Round) Snapshot() Snapshot {
	players := make([]PlayerSnapshot, len(r.players))
	for i, p := range r.players {
		players[i] = snapshotPlayer(p)
	}
	snap := Snapshot{
		Phase:       r.phase,
		RoundNumber: r.roundNumber,
		Settings:    r.settings,
		Players:     players,
		ActiveSeat:  r.activeSeat,
		Broke:       r.broke,
		Stats:       *r.stats,
	}
	if r.dealer != nil {
		snap.Dealer = snapshotDealer(r.dealer)
	}
	if r.shoe != nil {
		snap.ShoeRemaining = r.shoe.Remaining()
	}
	return snap
}

// AvailableActions lists the legal plays for a player. Empty unless the
// round is in the playing phase and the player holds the active seat.
func (r *Round) AvailableActions(playerID string) ([]Action, error) {
	p, err := r.findPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if r.phase != PhasePlaying || r.players[r.activeSeat] != p {
		return nil, nil
	}
	return AvailableActions(p, r.settings), nil
}

// Human returns the human seat, or nil before InitGame
func (r *Round) Human() *Player {
	if len(r.players) == 0 {
		return nil
	}
	return r.players[0]
}

// InitGame transitions idle→betting: builds the human seat and two AI
// opponents, a fresh shoe, and round number 1.
func (r *Round) InitGame() (Snapshot, error) {
	if r.phase != PhaseIdle {
		return r.Snapshot(), phaseError("initGame", r.phase)
	}
	if r.decider == nil {
		return r.Snapshot(), fmt.Errorf("no AI strategy configured")
	}

	if r.shoe == nil {
		shoe, err := deck.NewShoe(r.settings.DeckCount, r.rng)
		if err != nil {
			return r.Snapshot(), err
		}
		r.shoe = shoe
	}
	r.players = []*Player{
		NewPlayer("You", Human, 0, r.settings.StartingChips),
		NewPlayer(aiSeatNames[0], AI, 1, r.settings.StartingChips),
		NewPlayer(aiSeatNames[1], AI, 2, r.settings.StartingChips),
	}
	r.dealer = NewDealer()
	r.roundNumber = 1
	r.stats.ObserveChips(r.players[0].Chips)
	r.setPhase(PhaseBetting)
	r.events.Publish(NewRoundStartEvent(r.roundNumber))
	r.logger.Debug("game initialised", "decks", r.settings.DeckCount, "chips", r.settings.StartingChips)
	return r.Snapshot(), nil
}

// PlaceBet records a bet for the coming round. Chips are not deducted
// until the betting→dealing transition.
func (r *Round) PlaceBet(playerID string, amount int) (Snapshot, error) {
	if r.phase != PhaseBetting {
		return r.Snapshot(), phaseError("placeBet", r.phase)
	}
	p, err := r.findPlayer(playerID)
	if err != nil {
		return r.Snapshot(), err
	}
	if amount < r.settings.MinBet || amount > r.settings.MaxBet {
		return r.Snapshot(), fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidBet, amount, r.settings.MinBet, r.settings.MaxBet)
	}
	if amount > p.Chips {
		return r.Snapshot(), fmt.Errorf("%w: %d exceeds chips %d", ErrInvalidBet, amount, p.Chips)
	}
	p.Bets[0] = amount
	r.logger.Debug("bet placed", "player", p.Name, "amount", amount)
	return r.Snapshot(), nil
}

// ClearBet removes a pending bet during the betting phase
func (r *Round) ClearBet(playerID string) (Snapshot, error) {
	if r.phase != PhaseBetting {
		return r.Snapshot(), phaseError("clearBet", r.phase)
	}
	p, err := r.findPlayer(playerID)
	if err != nil {
		return r.Snapshot(), err
	}
	p.Bets[0] = 0
	return r.Snapshot(), nil
}

// StartDealing transitions betting→dealing once every seat has a valid
// bet. AI seats that have not bet are auto-bet via the strategy's sizing.
// All bets are deducted from chips atomically here.
func (r *Round) StartDealing() (Snapshot, error) {
	if r.phase != PhaseBetting {
		return r.Snapshot(), phaseError("startDealing", r.phase)
	}
	human := r.players[0]
	if human.Bets[0] < r.settings.MinBet {
		if human.Chips < r.settings.MinBet {
			return r.Snapshot(), fmt.Errorf("%w: chips %d, minimum bet %d", ErrPlayerBroke, human.Chips, r.settings.MinBet)
		}
		return r.Snapshot(), fmt.Errorf("%w: bet %d below minimum %d", ErrInvalidBet, human.Bets[0], r.settings.MinBet)
	}

	for _, p := range r.players[1:] {
		if p.Bets[0] >= r.settings.MinBet {
			continue
		}
		bet := r.decider.BetSize(p.Chips, r.settings.MinBet, r.settings.MaxBet)
		if bet > p.Chips {
			bet = p.Chips
		}
		p.Bets[0] = bet
		r.logger.Debug("auto bet", "player", p.Name, "amount", bet)
	}

	for _, p := range r.players {
		p.Chips -= p.Bets[0]
	}
	r.setPhase(PhaseDealing)
	return r.Snapshot(), nil
}

// DealInitialCards deals two cards to each seat in order (one card per
// pass), then two to the dealer with the second face down. Transitions to
// insurance when the dealer shows an ace, otherwise straight to playing.
func (r *Round) DealInitialCards() (Snapshot, error) {
	if r.phase != PhaseDealing {
		return r.Snapshot(), phaseError("dealInitialCards", r.phase)
	}

	for pass := 0; pass < 2; pass++ {
		for _, p := range r.players {
			card, err := r.dealCard(true)
			if err != nil {
				return r.Snapshot(), err
			}
			p.Hands[0] = p.Hands[0].Add(card)
			r.events.Publish(NewCardDealtEvent(p.Name, false, card))
		}
	}
	for pass := 0; pass < 2; pass++ {
		faceUp := pass == 0
		card, err := r.dealCard(faceUp)
		if err != nil {
			return r.Snapshot(), err
		}
		r.dealer.Hand = r.dealer.Hand.Add(card)
		shown := card
		if !faceUp {
			shown = deck.Card{ID: card.ID}
		}
		r.events.Publish(NewCardDealtEvent("dealer", true, shown))
	}

	r.activeSeat = 0
	upcard, _ := r.dealer.Upcard()
	if InsuranceOffered(upcard) {
		r.setPhase(PhaseInsurance)
	} else {
		r.setPhase(PhasePlaying)
	}
	return r.Snapshot(), nil
}

// BuyInsurance records the human's insurance purchase. The side bet is
// half the original bet rounded down, deducted immediately so the same
// chips cannot also fund a later double or split.
func (r *Round) BuyInsurance(playerID string) (Snapshot, error) {
	if r.phase != PhaseInsurance {
		return r.Snapshot(), phaseError("buyInsurance", r.phase)
	}
	p, err := r.findPlayer(playerID)
	if err != nil {
		return r.Snapshot(), err
	}
	if p.Type != Human {
		return r.Snapshot(), fmt.Errorf("%w: AI seats decide insurance internally", ErrIllegalAction)
	}
	if !CanBuyInsurance(p) {
		return r.Snapshot(), fmt.Errorf("%w: insurance unavailable", ErrIllegalAction)
	}
	p.HasInsurance = true
	p.InsuranceBet = p.Bets[0] / 2
	p.Chips -= p.InsuranceBet
	r.logger.Debug("insurance bought", "player", p.Name, "amount", p.InsuranceBet)
	r.resolveInsurance()
	return r.Snapshot(), nil
}

// DeclineInsurance records the human declining the side bet
func (r *Round) DeclineInsurance(playerID string) (Snapshot, error) {
	if r.phase != PhaseInsurance {
		return r.Snapshot(), phaseError("declineInsurance", r.phase)
	}
	p, err := r.findPlayer(playerID)
	if err != nil {
		return r.Snapshot(), err
	}
	if p.Type != Human {
		return r.Snapshot(), fmt.Errorf("%w: AI seats decide insurance internally", ErrIllegalAction)
	}
	r.resolveInsurance()
	return r.Snapshot(), nil
}

// resolveInsurance records AI insurance decisions and moves to playing
func (r *Round) resolveInsurance() {
	for _, p := range r.players[1:] {
		if r.decider.BuysInsurance(p.Chips, p.Bets[0]) && CanBuyInsurance(p) {
			p.HasInsurance = true
			p.InsuranceBet = p.Bets[0] / 2
			p.Chips -= p.InsuranceBet
		}
	}
	r.activeSeat = 0
	r.setPhase(PhasePlaying)
}

// Hit deals one card to the active hand. Busting or reaching 21 advances
// past the hand automatically.
func (r *Round) Hit(playerID string) (Snapshot, error) {
	return r.playerAction(playerID, ActionHit)
}

// Stand ends action on the active hand
func (r *Round) Stand(playerID string) (Snapshot, error) {
	return r.playerAction(playerID, ActionStand)
}

// DoubleDown doubles the active hand's bet, deals exactly one card, and
// ends action on the hand
func (r *Round) DoubleDown(playerID string) (Snapshot, error) {
	return r.playerAction(playerID, ActionDouble)
}

// Split divides a pair into two hands, dealing one card to each and
// putting a second bet of the same size on the new hand
func (r *Round) Split(playerID string) (Snapshot, error) {
	return r.playerAction(playerID, ActionSplit)
}

// Surrender forfeits half the bet and ends the seat's round
func (r *Round) Surrender(playerID string) (Snapshot, error) {
	return r.playerAction(playerID, ActionSurrender)
}

// playerAction validates and applies one action for the human seat
func (r *Round) playerAction(playerID string, action Action) (Snapshot, error) {
	if r.phase != PhasePlaying {
		return r.Snapshot(), phaseError(action.String(), r.phase)
	}
	p, err := r.findPlayer(playerID)
	if err != nil {
		return r.Snapshot(), err
	}
	if r.players[r.activeSeat] != p {
		return r.Snapshot(), fmt.Errorf("%w: %s", ErrNotYourTurn, p.Name)
	}
	if err := r.apply(p, action); err != nil {
		return r.Snapshot(), err
	}
	return r.Snapshot(), nil
}

// apply performs one validated action for the active hand and advances
// the turn as required
func (r *Round) apply(p *Player, action Action) error {
	h := p.CurrentHand()
	handIndex := p.ActiveHand

	switch action {
	case ActionHit:
		if !CanHit(h) {
			return illegalActionError(action)
		}
		card, err := r.dealCard(true)
		if err != nil {
			return err
		}
		next := h.Add(card)
		p.Hands[handIndex] = next
		p.HasActed = true
		r.events.Publish(NewCardDealtEvent(p.Name, false, card))
		r.events.Publish(NewPlayerActionEvent(p.Name, handIndex, action, next))
		if next.Busted || next.Score == 21 {
			r.advanceHand(p)
		}

	case ActionStand:
		if !CanStand(h) {
			return illegalActionError(action)
		}
		p.HasActed = true
		r.events.Publish(NewPlayerActionEvent(p.Name, handIndex, action, h))
		r.advanceHand(p)

	case ActionDouble:
		if !CanDouble(h, p.Bets[handIndex], p.Chips, r.settings) {
			return illegalActionError(action)
		}
		p.Chips -= p.Bets[handIndex]
		p.Bets[handIndex] *= 2
		card, err := r.dealCard(true)
		if err != nil {
			return err
		}
		next := h.Add(card)
		p.Hands[handIndex] = next
		p.HasActed = true
		r.events.Publish(NewCardDealtEvent(p.Name, false, card))
		r.events.Publish(NewPlayerActionEvent(p.Name, handIndex, action, next))
		r.advanceHand(p)

	case ActionSplit:
		if !CanSplit(p, h) {
			return illegalActionError(action)
		}
		if err := r.applySplit(p); err != nil {
			return err
		}
		r.events.Publish(NewPlayerActionEvent(p.Name, handIndex, action, p.CurrentHand()))

	case ActionSurrender:
		if !CanSurrender(p, h, r.settings) {
			return illegalActionError(action)
		}
		p.HasSurrendered = true
		p.Results[handIndex] = ResultSurrender
		p.HasActed = true
		r.events.Publish(NewPlayerActionEvent(p.Name, handIndex, action, h))
		r.advanceHand(p)

	default:
		return illegalActionError(action)
	}
	return nil
}

// applySplit turns the active pair into two single-card hands, deals one
// card to each, and debits a second bet of the same size
func (r *Round) applySplit(p *Player) error {
	idx := p.ActiveHand
	pair := p.Hands[idx]
	bet := p.Bets[idx]

	first := NewHand(pair.Cards[0])
	second := NewHand(pair.Cards[1])
	first.FromSplit = true
	second.FromSplit = true

	cardA, err := r.dealCard(true)
	if err != nil {
		return err
	}
	cardB, err := r.dealCard(true)
	if err != nil {
		return err
	}
	firstDealt := first.Add(cardA)
	secondDealt := second.Add(cardB)

	p.Chips -= bet

	p.Hands = append(p.Hands[:idx], append([]*Hand{firstDealt, secondDealt}, p.Hands[idx+1:]...)...)
	p.Bets = append(p.Bets[:idx], append([]int{bet, bet}, p.Bets[idx+1:]...)...)
	p.Results = append(p.Results[:idx], append([]Result{ResultPending, ResultPending}, p.Results[idx+1:]...)...)
	p.HasActed = true

	r.events.Publish(NewCardDealtEvent(p.Name, false, cardA))
	r.events.Publish(NewCardDealtEvent(p.Name, false, cardB))
	return nil
}

// advanceHand moves to the seat's next split hand, or on to the next seat
func (r *Round) advanceHand(p *Player) {
	if p.ActiveHand+1 < len(p.Hands) {
		p.ActiveHand++
		p.HasActed = false
		return
	}
	r.advanceSeat()
}

// advanceSeat hands the turn to the next seat, auto-playing AI seats.
// When the last seat finishes, the round moves to the dealer's turn.
func (r *Round) advanceSeat() {
	r.activeSeat++
	if r.activeSeat >= len(r.players) {
		r.setPhase(PhaseDealerTurn)
		return
	}
	next := r.players[r.activeSeat]
	if next.Type == AI {
		r.playAISeat(next)
	}
}

// maxAIActions bounds the strategy loop per seat; four hands of a dozen
// small cards each stays well under it
const maxAIActions = 64

// playAISeat drives an AI seat to completion, one strategy decision at a
// time, using the same apply path as human commands
func (r *Round) playAISeat(p *Player) {
	seat := p.Seat
	for i := 0; i < maxAIActions && r.phase == PhasePlaying && r.activeSeat == seat; i++ {
		h := p.CurrentHand()
		upValue := 0
		if up, ok := r.dealer.Upcard(); ok {
			upValue = up.Value()
		}
		ctx := DecisionContext{
			Hand:         h,
			DealerUpcard: upValue,
			CanDouble:    CanDouble(h, p.CurrentBet(), p.Chips, r.settings),
			CanSplit:     CanSplit(p, h),
			CanSurrender: CanSurrender(p, h, r.settings),
		}
		action := r.decider.Decide(ctx)
		if err := r.apply(p, action); err != nil {
			// A strategy asking for an illegal play is a bug; stand so
			// the round can finish.
			r.logger.Error("AI action rejected", "player", p.Name, "action", action, "error", err)
			if standErr := r.apply(p, ActionStand); standErr != nil {
				r.logger.Error("AI fallback stand rejected", "player", p.Name, "error", standErr)
				r.advanceHand(p)
			}
		}
	}
}

// PlayDealerTurn reveals the hole card, plays out the dealer hand per
// policy, settles every seat, and moves through payout to round-end.
func (r *Round) PlayDealerTurn() (Snapshot, error) {
	if r.phase != PhaseDealerTurn {
		return r.Snapshot(), phaseError("playDealerTurn", r.phase)
	}

	if len(r.dealer.Hand.Cards) >= 2 {
		r.dealer.Hand.Cards[1].FaceUp = true
	}
	r.dealer.HoleCardRevealed = true
	r.events.Publish(NewHoleCardRevealedEvent(r.dealer.Hand.Cards[1], r.dealer.Hand.Score))

	for DealerShouldHit(r.dealer.Hand, r.settings) {
		card, err := r.dealCard(true)
		if err != nil {
			return r.Snapshot(), err
		}
		r.dealer.Hand = r.dealer.Hand.Add(card)
		r.events.Publish(NewCardDealtEvent("dealer", true, card))
	}

	r.setPhase(PhasePayout)
	if err := r.settle(); err != nil {
		return r.Snapshot(), err
	}
	r.setPhase(PhaseRoundEnd)
	return r.Snapshot(), nil
}

// settle computes winners and payouts for every seat, updates chips and
// session stats, and flags the broke condition
func (r *Round) settle() error {
	var settled []SettledHand

	for _, p := range r.players {
		totalPayout := 0
		for i, h := range p.Hands {
			result := p.Results[i]
			if result == ResultPending {
				result = DetermineWinner(h, r.dealer.Hand, false)
				p.Results[i] = result
			}
			delta, err := Payout(result, p.Bets[i], r.settings)
			if err != nil {
				return fmt.Errorf("settling %s hand %d: %w", p.Name, i, err)
			}
			totalPayout += delta
			settled = append(settled, SettledHand{
				PlayerName: p.Name,
				HandIndex:  i,
				Result:     result,
				Bet:        p.Bets[i],
				Net:        delta,
			})
			if p.Type == Human {
				r.stats.RecordHand(outcomeFor(result), delta)
			}
		}
		if p.HasInsurance {
			insurance := InsurancePayout(r.dealer.HasBlackjack(), p.InsuranceBet)
			totalPayout += insurance
			r.logger.Debug("insurance settled", "player", p.Name, "net", insurance)
		}

		// Stakes were deducted when betting closed; returning them plus
		// the payout delta leaves a push exactly even.
		p.Chips += p.TotalBet() + totalPayout
	}

	human := r.players[0]
	r.stats.ObserveChips(human.Chips)
	r.broke = human.Chips < r.settings.MinBet

	r.events.Publish(NewRoundSettledEvent(r.roundNumber, r.dealer.Hand, settled))
	r.logger.Debug("round settled", "round", r.roundNumber, "dealerScore", r.dealer.Hand.Score, "humanChips", human.Chips)
	return nil
}

func outcomeFor(result Result) statistics.Outcome {
	switch result {
	case ResultWin:
		return statistics.OutcomeWin
	case ResultBlackjack:
		return statistics.OutcomeBlackjack
	case ResultPush:
		return statistics.OutcomePush
	case ResultSurrender:
		return statistics.OutcomeSurrender
	default:
		return statistics.OutcomeLoss
	}
}

// NextRound transitions round-end→betting: per-round state resets, chips
// and stats persist, and the shoe reshuffles below the penetration
// threshold
func (r *Round) NextRound() (Snapshot, error) {
	if r.phase != PhaseRoundEnd {
		return r.Snapshot(), phaseError("nextRound", r.phase)
	}

	for _, p := range r.players {
		p.ResetRound()
	}
	r.dealer.ResetRound()
	r.activeSeat = 0
	r.roundNumber++

	if r.shoe.NeedsReshuffle() {
		shoe, err := deck.NewShoe(r.settings.DeckCount, r.rng)
		if err != nil {
			return r.Snapshot(), err
		}
		r.shoe = shoe
		r.logger.Debug("shoe reshuffled", "decks", r.settings.DeckCount)
	}

	r.setPhase(PhaseBetting)
	r.events.Publish(NewRoundStartEvent(r.roundNumber))
	return r.Snapshot(), nil
}

// UpdateSettings applies a partial settings update between rounds. A deck
// count change rebuilds the shoe immediately.
func (r *Round) UpdateSettings(patch SettingsPatch) (Snapshot, error) {
	switch r.phase {
	case PhaseIdle, PhaseBetting, PhaseRoundEnd:
	default:
		return r.Snapshot(), phaseError("updateSettings", r.phase)
	}

	next := r.settings.Apply(patch)
	if err := next.Validate(); err != nil {
		return r.Snapshot(), err
	}
	rebuildShoe := next.DeckCount != r.settings.DeckCount && r.shoe != nil
	r.settings = next

	if rebuildShoe {
		shoe, err := deck.NewShoe(r.settings.DeckCount, r.rng)
		if err != nil {
			return r.Snapshot(), err
		}
		r.shoe = shoe
	}
	if human := r.Human(); human != nil {
		r.broke = human.Chips < r.settings.MinBet
	}
	return r.Snapshot(), nil
}

// StartOver rebuys every seat back to starting chips and clears session
// stats. Requires the rebuy setting.
func (r *Round) StartOver() (Snapshot, error) {
	switch r.phase {
	case PhaseBetting, PhaseRoundEnd:
	default:
		return r.Snapshot(), phaseError("startOver", r.phase)
	}
	if !r.settings.AllowRebuy {
		return r.Snapshot(), ErrRebuyDisabled
	}

	for _, p := range r.players {
		p.Chips = r.settings.StartingChips
		p.ResetRound()
	}
	r.dealer.ResetRound()
	r.stats.Reset()
	r.stats.ObserveChips(r.settings.StartingChips)
	r.broke = false
	r.activeSeat = 0
	r.roundNumber = 1

	shoe, err := deck.NewShoe(r.settings.DeckCount, r.rng)
	if err != nil {
		return r.Snapshot(), err
	}
	r.shoe = shoe

	r.setPhase(PhaseBetting)
	r.events.Publish(NewRoundStartEvent(r.roundNumber))
	return r.Snapshot(), nil
}

// Persisted is the slice of state that survives restarts: table settings
// and session stats. Round-in-progress state is deliberately excluded.
type Persisted struct {
	Settings Settings
	Stats    statistics.SessionStats
}

// ExportPersisted returns the persistable slice of state
func (r *Round) ExportPersisted() Persisted {
	return Persisted{Settings: r.settings, Stats: *r.stats}
}

// dealCard deals one card from the shoe. An underflow here means the
// reshuffle policy was violated; it is logged and surfaced as an internal
// error rather than handled.
func (r *Round) dealCard(faceUp bool) (deck.Card, error) {
	card, err := r.shoe.Deal()
	if err != nil {
		r.logger.Error("shoe underflow mid-round", "error", err, "round", r.roundNumber)
		return deck.Card{}, fmt.Errorf("internal error: %w", err)
	}
	card.FaceUp = faceUp
	return card, nil
}

func (r *Round) setPhase(next Phase) {
	if next == r.phase {
		return
	}
	r.logger.Debug("phase change", "from", r.phase, "to", next)
	r.events.Publish(NewPhaseChangeEvent(r.phase, next))
	r.phase = next
}

func (r *Round) findPlayer(playerID string) (*Player, error) {
	for _, p := range r.players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, playerID)
}
