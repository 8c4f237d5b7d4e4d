package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// Dealing errors. An empty or short shoe mid-round means the reshuffle
// policy was violated upstream, so callers treat these as invariant
// failures rather than user-facing conditions.
var (
	ErrInvalidDeckCount  = errors.New("deck count must be between 1 and 8")
	ErrEmptyShoe         = errors.New("shoe is empty")
	ErrInsufficientCards = errors.New("not enough cards remaining in shoe")
)

const cardsPerDeck = 52

// Shoe is the combined, shuffled set of one or more decks that cards are
// dealt from. Dealing pops from the top; the shoe is rebuilt fresh on
// every reshuffle rather than refilled.
type Shoe struct {
	cards     []Card
	deckCount int
}

// Build returns the ordered, unshuffled cards for deckCount decks.
// Every card carries a unique identity even across duplicate decks.
func Build(deckCount int) ([]Card, error) {
	if deckCount < 1 || deckCount > 8 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDeckCount, deckCount)
	}
	cards := make([]Card, 0, deckCount*cardsPerDeck)
	for d := 0; d < deckCount; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				cards = append(cards, NewCard(suit, rank))
			}
		}
	}
	return cards, nil
}

// Shuffle returns a uniformly random permutation of cards without
// mutating the input slice.
func Shuffle(cards []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)
	// Fisher–Yates
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// NewShoe builds and shuffles a fresh shoe of deckCount decks.
func NewShoe(deckCount int, rng *rand.Rand) (*Shoe, error) {
	cards, err := Build(deckCount)
	if err != nil {
		return nil, err
	}
	return &Shoe{cards: Shuffle(cards, rng), deckCount: deckCount}, nil
}

// NewShoeFromCards builds a shoe with a predetermined card order. Tests
// use it to rig exact deal sequences.
func NewShoeFromCards(deckCount int, cards []Card) *Shoe {
	owned := make([]Card, len(cards))
	copy(owned, cards)
	return &Shoe{cards: owned, deckCount: deckCount}
}

// Deal removes and returns the top card
func (s *Shoe) Deal() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrEmptyShoe
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card, nil
}

// DealMany removes and returns the top n cards
func (s *Shoe) DealMany(n int) ([]Card, error) {
	if n > len(s.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, len(s.cards))
	}
	cards := make([]Card, n)
	for i := 0; i < n; i++ {
		card, err := s.Deal()
		if err != nil {
			return nil, err
		}
		cards[i] = card
	}
	return cards, nil
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// DeckCount returns the number of decks the shoe was built from
func (s *Shoe) DeckCount() int {
	return s.deckCount
}

// FullSize returns the card count of a freshly built shoe
func (s *Shoe) FullSize() int {
	return s.deckCount * cardsPerDeck
}

// NeedsReshuffle reports whether remaining depth has fallen below the 25%
// penetration threshold. Checked between rounds only; mid-round reshuffles
// never occur.
func (s *Shoe) NeedsReshuffle() bool {
	return len(s.cards) < s.FullSize()/4
}
