package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Hand is an ordered set of cards plus derived scoring fields. Hands are
// recreated on every card addition rather than mutated in place, so the
// derived fields are always consistent with Cards.
type Hand struct {
	Cards     []deck.Card
	Score     int
	Soft      bool
	Busted    bool
	Blackjack bool
	FromSplit bool
}

// NewHand creates a hand from the given cards and computes its score
func NewHand(cards ...deck.Card) *Hand {
	h := &Hand{Cards: cards}
	h.Score, h.Soft = evaluate(cards)
	h.Busted = h.Score > 21
	h.Blackjack = len(cards) == 2 && h.Score == 21
	return h
}

// Add returns a new hand with the card appended. The receiver is unchanged.
func (h *Hand) Add(card deck.Card) *Hand {
	cards := make([]deck.Card, 0, len(h.Cards)+1)
	cards = append(cards, h.Cards...)
	cards = append(cards, card)
	next := NewHand(cards...)
	next.FromSplit = h.FromSplit
	return next
}

// IsPair reports whether the hand is exactly two cards of matching rank
func (h *Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// String returns the hand's cards joined for display (e.g. "A♠ K♥")
func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// evaluate sums card values counting every ace as 11, then downgrades aces
// to 1 (subtracting 10 each) until the total fits under 21 or no aces
// remain. soft is true iff an ace is still counted as 11 in a non-busted
// total. Pure and order-independent on the multiset of cards.
func evaluate(cards []deck.Card) (total int, soft bool) {
	aces := 0
	for _, c := range cards {
		if c.IsAce() {
			aces++
		}
		total += c.Value()
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	soft = aces > 0 && total <= 21
	return total, soft
}
