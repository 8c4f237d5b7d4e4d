package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType identifies a round lifecycle event
type EventType string

const (
	EventTypeRoundStart       EventType = "round_start"
	EventTypePhaseChange      EventType = "phase_change"
	EventTypeCardDealt        EventType = "card_dealt"
	EventTypePlayerAction     EventType = "player_action"
	EventTypeHoleCardRevealed EventType = "hole_card_revealed"
	EventTypeRoundSettled     EventType = "round_settled"
)

// Event is a round lifecycle notification published to subscribers.
// Publication is synchronous; subscribers must not call back into the
// round machine while handling an event.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// EventHandler receives published events
type EventHandler interface {
	HandleEvent(Event)
}

// EventBus fans events out to subscribers
type EventBus interface {
	Subscribe(EventHandler)
	Publish(Event)
}

type eventBus struct {
	handlers []EventHandler
}

// NewEventBus creates a synchronous event bus
func NewEventBus() EventBus {
	return &eventBus{}
}

func (b *eventBus) Subscribe(h EventHandler) {
	b.handlers = append(b.handlers, h)
}

func (b *eventBus) Publish(e Event) {
	for _, h := range b.handlers {
		h.HandleEvent(e)
	}
}

type baseEvent struct {
	eventType EventType
	timestamp time.Time
}

func (e baseEvent) EventType() EventType { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(t EventType) baseEvent {
	return baseEvent{eventType: t, timestamp: time.Now()}
}

// RoundStartEvent is published when a round enters the betting phase
type RoundStartEvent struct {
	baseEvent
	RoundNumber int
}

// NewRoundStartEvent creates a round start event
func NewRoundStartEvent(roundNumber int) RoundStartEvent {
	return RoundStartEvent{baseEvent: newBaseEvent(EventTypeRoundStart), RoundNumber: roundNumber}
}

// PhaseChangeEvent is published on every phase transition
type PhaseChangeEvent struct {
	baseEvent
	From Phase
	To   Phase
}

// NewPhaseChangeEvent creates a phase change event
func NewPhaseChangeEvent(from, to Phase) PhaseChangeEvent {
	return PhaseChangeEvent{baseEvent: newBaseEvent(EventTypePhaseChange), From: from, To: to}
}

// CardDealtEvent is published for each card leaving the shoe. Card is
// masked (zero value apart from ID) when dealt face down.
type CardDealtEvent struct {
	baseEvent
	SeatName string
	ToDealer bool
	Card     deck.Card
}

// NewCardDealtEvent creates a card dealt event
func NewCardDealtEvent(seatName string, toDealer bool, card deck.Card) CardDealtEvent {
	return CardDealtEvent{baseEvent: newBaseEvent(EventTypeCardDealt), SeatName: seatName, ToDealer: toDealer, Card: card}
}

// PlayerActionEvent is published when a seat's action is applied
type PlayerActionEvent struct {
	baseEvent
	PlayerName string
	HandIndex  int
	Action     Action
	Score      int
	Busted     bool
}

// NewPlayerActionEvent creates a player action event
func NewPlayerActionEvent(playerName string, handIndex int, action Action, hand *Hand) PlayerActionEvent {
	return PlayerActionEvent{
		baseEvent:  newBaseEvent(EventTypePlayerAction),
		PlayerName: playerName,
		HandIndex:  handIndex,
		Action:     action,
		Score:      hand.Score,
		Busted:     hand.Busted,
	}
}

// HoleCardRevealedEvent is published when the dealer turns the hole card
type HoleCardRevealedEvent struct {
	baseEvent
	Card  deck.Card
	Score int
}

// NewHoleCardRevealedEvent creates a hole card revealed event
func NewHoleCardRevealedEvent(card deck.Card, score int) HoleCardRevealedEvent {
	return HoleCardRevealedEvent{baseEvent: newBaseEvent(EventTypeHoleCardRevealed), Card: card, Score: score}
}

// SettledHand is one hand's outcome within a settlement
type SettledHand struct {
	PlayerName string
	HandIndex  int
	Result     Result
	Bet        int
	Net        int
}

// RoundSettledEvent is published once payouts are computed
type RoundSettledEvent struct {
	baseEvent
	RoundNumber int
	DealerScore int
	DealerBust  bool
	Hands       []SettledHand
}

// NewRoundSettledEvent creates a round settled event
func NewRoundSettledEvent(roundNumber int, dealer *Hand, hands []SettledHand) RoundSettledEvent {
	return RoundSettledEvent{
		baseEvent:   newBaseEvent(EventTypeRoundSettled),
		RoundNumber: roundNumber,
		DealerScore: dealer.Score,
		DealerBust:  dealer.Busted,
		Hands:       hands,
	}
}
