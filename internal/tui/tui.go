// Package tui renders the table in the terminal with Bubble Tea. The
// model owns no game state of its own: every keypress maps to an engine
// command and the view renders the returned snapshot.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// dealDelay paces the reveal of the opening deal; AnimationSpeed scales it
const dealDelay = 400 * time.Millisecond

// dealCardsMsg triggers the opening deal after the bet confirmation pause
type dealCardsMsg struct{}

// dealerTurnMsg triggers the dealer playout after the seats finish
type dealerTurnMsg struct{}

// Model is the Bubble Tea model for an interactive session
type Model struct {
	round   *game.Round
	logger  *log.Logger
	clock   quartz.Clock
	humanID string

	snap     game.Snapshot
	betInput textinput.Model
	lastBet  int
	errMsg   string
	eventLog []string

	width    int
	height   int
	quitting bool
}

// Option configures a Model
type Option func(*Model)

// WithClock injects the pacing clock (tests use quartz.Mock)
func WithClock(clock quartz.Clock) Option {
	return func(m *Model) { m.clock = clock }
}

// New creates a model over an initialised round. The round must already be
// past InitGame so the human seat exists.
func New(round *game.Round, logger *log.Logger, opts ...Option) *Model {
	ti := textinput.New()
	ti.Placeholder = "bet amount"
	ti.Prompt = "> "
	ti.CharLimit = 6
	ti.Width = 12
	ti.Focus()

	m := &Model{
		round:    round,
		logger:   logger.WithPrefix("tui"),
		clock:    quartz.NewReal(),
		humanID:  round.Human().ID,
		snap:     round.Snapshot(),
		betInput: ti,
	}
	for _, opt := range opts {
		opt(m)
	}
	round.Events().Subscribe(m)
	return m
}

var _ game.EventHandler = (*Model)(nil)

// HandleEvent appends notable engine events to the on-screen log. Events
// fire synchronously inside command calls, so no locking is needed.
func (m *Model) HandleEvent(e game.Event) {
	switch ev := e.(type) {
	case game.CardDealtEvent:
		if ev.Card.Rank == 0 {
			m.pushLog(fmt.Sprintf("%s draws a face-down card", ev.SeatName))
		} else {
			m.pushLog(fmt.Sprintf("%s draws %s", ev.SeatName, ev.Card))
		}
	case game.PlayerActionEvent:
		m.pushLog(fmt.Sprintf("%s: %s (%d)", ev.PlayerName, ev.Action, ev.Score))
	case game.HoleCardRevealedEvent:
		m.pushLog(fmt.Sprintf("dealer reveals %s (%d)", ev.Card, ev.Score))
	case game.RoundSettledEvent:
		for _, h := range ev.Hands {
			m.pushLog(fmt.Sprintf("%s hand %d: %s (%+d)", h.PlayerName, h.HandIndex+1, h.Result, h.Net))
		}
	}
}

const maxLogLines = 6

func (m *Model) pushLog(line string) {
	m.eventLog = append(m.eventLog, line)
	if len(m.eventLog) > maxLogLines {
		m.eventLog = m.eventLog[len(m.eventLog)-maxLogLines:]
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// pause returns a command that delivers msg after the scaled delay. A zero
// animation speed delivers immediately.
func (m *Model) pause(base time.Duration, msg tea.Msg) tea.Cmd {
	d := time.Duration(float64(base) * m.snap.Settings.AnimationSpeed)
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	clock := m.clock
	return func() tea.Msg {
		fired := make(chan struct{})
		timer := clock.AfterFunc(d, func() { close(fired) })
		defer timer.Stop()
		<-fired
		return msg
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dealCardsMsg:
		m.command(m.round.DealInitialCards)
		return m, nil

	case dealerTurnMsg:
		m.command(m.round.PlayDealerTurn)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey dispatches a keypress according to the current phase
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.snap.Phase {
	case game.PhaseBetting:
		return m.handleBettingKey(msg)

	case game.PhaseInsurance:
		switch key {
		case "y":
			m.command(func() (game.Snapshot, error) { return m.round.BuyInsurance(m.humanID) })
		case "n":
			m.command(func() (game.Snapshot, error) { return m.round.DeclineInsurance(m.humanID) })
		}
		return m, m.maybeDealerTurn()

	case game.PhasePlaying:
		switch key {
		case "h":
			m.command(func() (game.Snapshot, error) { return m.round.Hit(m.humanID) })
		case "s":
			m.command(func() (game.Snapshot, error) { return m.round.Stand(m.humanID) })
		case "d":
			m.command(func() (game.Snapshot, error) { return m.round.DoubleDown(m.humanID) })
		case "p":
			m.command(func() (game.Snapshot, error) { return m.round.Split(m.humanID) })
		case "r":
			m.command(func() (game.Snapshot, error) { return m.round.Surrender(m.humanID) })
		case "q":
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.maybeDealerTurn()

	case game.PhaseRoundEnd:
		switch key {
		case "enter", "n":
			if m.command(m.round.NextRound) {
				m.betInput.SetValue(fmt.Sprintf("%d", m.lastBet))
				m.betInput.Focus()
			}
		case "o":
			if m.command(m.round.StartOver) {
				m.betInput.SetValue("")
				m.betInput.Focus()
			}
		case "q":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

// handleBettingKey routes input to the bet field and confirms on enter
func (m *Model) handleBettingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		amount := 0
		if _, err := fmt.Sscanf(strings.TrimSpace(m.betInput.Value()), "%d", &amount); err != nil {
			m.errMsg = "enter a bet amount"
			return m, nil
		}
		if !m.command(func() (game.Snapshot, error) { return m.round.PlaceBet(m.humanID, amount) }) {
			return m, nil
		}
		if !m.command(m.round.StartDealing) {
			return m, nil
		}
		m.lastBet = amount
		m.betInput.Blur()
		return m, m.pause(dealDelay, dealCardsMsg{})

	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.betInput, cmd = m.betInput.Update(msg)
	return m, cmd
}

// maybeDealerTurn schedules the dealer playout once every seat is done
func (m *Model) maybeDealerTurn() tea.Cmd {
	if m.snap.Phase != game.PhaseDealerTurn {
		return nil
	}
	return m.pause(dealDelay, dealerTurnMsg{})
}

// command runs an engine command, keeping the snapshot and error line
// current. Returns false when the command was rejected.
func (m *Model) command(fn func() (game.Snapshot, error)) bool {
	snap, err := fn()
	m.snap = snap
	if err != nil {
		m.errMsg = err.Error()
		m.logger.Debug("command rejected", "error", err)
		return false
	}
	m.errMsg = ""
	return true
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	header := fmt.Sprintf(" Blackjack - round %d - shoe %d cards ", m.snap.RoundNumber, m.snap.ShoeRemaining)
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n\n")

	b.WriteString(m.renderDealer())
	b.WriteString("\n")
	for i := range m.snap.Players {
		b.WriteString(m.renderSeat(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderPrompt())
	b.WriteString("\n")

	if len(m.eventLog) > 0 {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(strings.Join(m.eventLog, "\n")))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	stats := m.snap.Stats
	footer := fmt.Sprintf("hands %d  won %d  lost %d  pushed %d  blackjacks %d  net %+d",
		stats.HandsPlayed, stats.HandsWon, stats.HandsLost, stats.HandsPushed, stats.Blackjacks, stats.Net())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(footer))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) renderDealer() string {
	d := m.snap.Dealer
	cards := make([]string, len(d.Cards))
	for i, c := range d.Cards {
		cards[i] = renderCard(c)
	}
	line := fmt.Sprintf("  dealer  %s", strings.Join(cards, " "))
	if len(d.Cards) > 0 {
		suffix := fmt.Sprintf("  (%d)", d.Score)
		if d.Busted {
			suffix += LoseStyle.Render(" bust")
		}
		line += suffix
	}
	return SeatStyle.Render(line)
}

func (m *Model) renderSeat(i int) string {
	p := m.snap.Players[i]
	style := SeatStyle
	marker := " "
	if m.snap.Phase == game.PhasePlaying && m.snap.ActiveSeat == i {
		style = ActiveSeatStyle
		marker = "▸"
	}

	var hands []string
	for hi, h := range p.Hands {
		cards := make([]string, len(h.Cards))
		for ci, c := range h.Cards {
			cards[ci] = renderCard(c)
		}
		hand := strings.Join(cards, " ")
		if len(h.Cards) > 0 {
			hand += fmt.Sprintf(" (%d)", h.Score)
		}
		if h.Busted {
			hand += LoseStyle.Render(" bust")
		} else if h.Blackjack {
			hand += WinStyle.Render(" blackjack")
		}
		if result := p.Results[hi]; result != game.ResultPending && m.snap.Phase == game.PhaseRoundEnd {
			hand += " " + renderResult(result)
		}
		hands = append(hands, hand)
	}

	bet := ""
	if total := sum(p.Bets); total > 0 {
		bet = fmt.Sprintf("  bet %d", total)
	}
	return style.Render(fmt.Sprintf("%s %-6s  %s%s  %s", marker, p.Name, ChipsStyle.Render(fmt.Sprintf("$%d", p.Chips)), bet, strings.Join(hands, " | ")))
}

func (m *Model) renderPrompt() string {
	switch m.snap.Phase {
	case game.PhaseBetting:
		if m.snap.Broke {
			return ActionsStyle.Render("out of chips - [o]start over  [q]uit")
		}
		return fmt.Sprintf("%s %s", ActionsStyle.Render(fmt.Sprintf("place your bet (%d–%d):", m.snap.Settings.MinBet, m.snap.Settings.MaxBet)), m.betInput.View())

	case game.PhaseInsurance:
		return ActionsStyle.Render("dealer shows an ace - insurance? [y]es [n]o")

	case game.PhasePlaying:
		if m.snap.ActiveSeat != 0 {
			return InfoStyle.Render("waiting on the table...")
		}
		actions, err := m.round.AvailableActions(m.humanID)
		if err != nil {
			return ""
		}
		labels := make([]string, len(actions))
		for i, a := range actions {
			labels[i] = actionLabel(a)
		}
		return ActionsStyle.Render(strings.Join(labels, "  "))

	case game.PhaseDealerTurn:
		return InfoStyle.Render("dealer plays...")

	case game.PhaseRoundEnd:
		if m.snap.Broke {
			return ActionsStyle.Render("out of chips - [o]start over  [q]uit")
		}
		return ActionsStyle.Render("[enter] next round  [o]start over  [q]uit")
	}
	return ""
}

// actionLabel shows each action with its key highlighted
func actionLabel(a game.Action) string {
	switch a {
	case game.ActionHit:
		return "[h]it"
	case game.ActionStand:
		return "[s]tand"
	case game.ActionDouble:
		return "[d]ouble"
	case game.ActionSplit:
		return "s[p]lit"
	case game.ActionSurrender:
		return "su[r]render"
	default:
		return a.String()
	}
}

func renderCard(c deck.Card) string {
	if c.Rank == 0 {
		return HiddenCardStyle.Render("🂠")
	}
	if c.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

func renderResult(r game.Result) string {
	switch r {
	case game.ResultWin, game.ResultBlackjack:
		return WinStyle.Render(r.String())
	case game.ResultLose:
		return LoseStyle.Render(r.String())
	default:
		return PushStyle.Render(r.String())
	}
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
