package game

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/statistics"
)

// Snapshot is the immutable state view returned from every command. The
// UI renders from snapshots only; mutating one has no effect on the round.
type Snapshot struct {
	Phase       Phase
	RoundNumber int
	Settings    Settings
	Players     []PlayerSnapshot
	Dealer      DealerSnapshot
	ShoeRemaining int
	ActiveSeat  int
	Broke       bool
	Stats       statistics.SessionStats
}

// PlayerSnapshot is one seat's visible state
type PlayerSnapshot struct {
	ID             string
	Name           string
	Type           PlayerType
	Seat           int
	Chips          int
	Hands          []HandSnapshot
	Bets           []int
	Results        []Result
	ActiveHand     int
	HasSurrendered bool
	HasInsurance   bool
	InsuranceBet   int
}

// HandSnapshot carries a hand's cards and derived fields
type HandSnapshot struct {
	Cards     []deck.Card
	Score     int
	Soft      bool
	Busted    bool
	Blackjack bool
	FromSplit bool
}

// DealerSnapshot exposes the dealer's hand with the hole card masked
// until revealed. Score is only populated once the hole card is visible;
// before that it reflects the upcard alone.
type DealerSnapshot struct {
	Cards            []deck.Card
	Score            int
	Busted           bool
	HoleCardRevealed bool
}

func snapshotHand(h *Hand) HandSnapshot {
	cards := make([]deck.Card, len(h.Cards))
	copy(cards, h.Cards)
	return HandSnapshot{
		Cards:     cards,
		Score:     h.Score,
		Soft:      h.Soft,
		Busted:    h.Busted,
		Blackjack: h.Blackjack,
		FromSplit: h.FromSplit,
	}
}

func snapshotPlayer(p *Player) PlayerSnapshot {
	hands := make([]HandSnapshot, len(p.Hands))
	for i, h := range p.Hands {
		hands[i] = snapshotHand(h)
	}
	bets := make([]int, len(p.Bets))
	copy(bets, p.Bets)
	results := make([]Result, len(p.Results))
	copy(results, p.Results)
	return PlayerSnapshot{
		ID:             p.ID,
		Name:           p.Name,
		Type:           p.Type,
		Seat:           p.Seat,
		Chips:          p.Chips,
		Hands:          hands,
		Bets:           bets,
		Results:        results,
		ActiveHand:     p.ActiveHand,
		HasSurrendered: p.HasSurrendered,
		HasInsurance:   p.HasInsurance,
		InsuranceBet:   p.InsuranceBet,
	}
}

func snapshotDealer(d *Dealer) DealerSnapshot {
	cards := make([]deck.Card, len(d.Hand.Cards))
	copy(cards, d.Hand.Cards)

	score := d.Hand.Score
	if !d.HoleCardRevealed && len(cards) >= 2 {
		// Mask the hole card's identity and score the upcard alone
		hole := cards[1]
		cards[1] = deck.Card{ID: hole.ID, FaceUp: false}
		score = NewHand(d.Hand.Cards[0]).Score
	}

	return DealerSnapshot{
		Cards:            cards,
		Score:            score,
		Busted:           d.Hand.Busted,
		HoleCardRevealed: d.HoleCardRevealed,
	}
}
