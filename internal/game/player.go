package game

import (
	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/deck"
)

// PlayerType distinguishes the human seat from computer opponents
type PlayerType int

const (
	Human PlayerType = iota
	AI
)

// String returns the string representation of a player type
func (pt PlayerType) String() string {
	switch pt {
	case Human:
		return "human"
	case AI:
		return "ai"
	default:
		return "unknown"
	}
}

// Player holds one seat's per-round state. Invariants maintained by the
// round machine: len(Bets) == len(Hands) == len(Results), ActiveHand is a
// valid index while the seat is playing, and Chips never goes negative.
type Player struct {
	ID   string
	Name string
	Type PlayerType
	Seat int

	Chips int

	Hands      []*Hand
	Bets       []int
	Results    []Result
	ActiveHand int

	HasSurrendered bool
	HasInsurance   bool
	InsuranceBet   int
	HasActed       bool
}

// NewPlayer creates a player with a single empty hand and starting chips
func NewPlayer(name string, playerType PlayerType, seat, chips int) *Player {
	p := &Player{
		ID:    uuid.NewString(),
		Name:  name,
		Type:  playerType,
		Seat:  seat,
		Chips: chips,
	}
	p.ResetRound()
	return p
}

// ResetRound clears per-round state while preserving identity and chips
func (p *Player) ResetRound() {
	p.Hands = []*Hand{NewHand()}
	p.Bets = []int{0}
	p.Results = []Result{ResultPending}
	p.ActiveHand = 0
	p.HasSurrendered = false
	p.HasInsurance = false
	p.InsuranceBet = 0
	p.HasActed = false
}

// CurrentHand returns the hand currently receiving actions
func (p *Player) CurrentHand() *Hand {
	return p.Hands[p.ActiveHand]
}

// CurrentBet returns the bet riding on the active hand
func (p *Player) CurrentBet() int {
	return p.Bets[p.ActiveHand]
}

// TotalBet returns the sum of all per-hand bets this round
func (p *Player) TotalBet() int {
	total := 0
	for _, b := range p.Bets {
		total += b
	}
	return total
}

// Dealer holds the dealer's hand. The hole card is the second card dealt;
// its value is hidden from scoring displays and AI logic until revealed.
type Dealer struct {
	Hand             *Hand
	HoleCardRevealed bool
}

// NewDealer creates a dealer with an empty hand
func NewDealer() *Dealer {
	return &Dealer{Hand: NewHand()}
}

// ResetRound clears the dealer's per-round state
func (d *Dealer) ResetRound() {
	d.Hand = NewHand()
	d.HoleCardRevealed = false
}

// Upcard returns the dealer's visible first card, or false before dealing
func (d *Dealer) Upcard() (deck.Card, bool) {
	if len(d.Hand.Cards) == 0 {
		return deck.Card{}, false
	}
	return d.Hand.Cards[0], true
}

// HasBlackjack reports whether the dealer's two cards make blackjack.
// Consulted for insurance settlement before the hole card is revealed.
func (d *Dealer) HasBlackjack() bool {
	return d.Hand.Blackjack
}
