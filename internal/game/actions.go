package game

// Action is the closed set of plays available on a hand. Keeping this a
// typed enum (rather than strings) lets the compiler check exhaustiveness
// in the strategy translation switch.
type Action int

const (
	ActionHit Action = iota
	ActionStand
	ActionDouble
	ActionSplit
	ActionSurrender
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case ActionHit:
		return "hit"
	case ActionStand:
		return "stand"
	case ActionDouble:
		return "double"
	case ActionSplit:
		return "split"
	case ActionSurrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// Result is the settled outcome of a single hand. ResultPending is a
// pre-resolution sentinel only; settlement asserts it never reaches the
// payout arithmetic.
type Result int

const (
	ResultPending Result = iota
	ResultWin
	ResultLose
	ResultPush
	ResultBlackjack
	ResultSurrender
)

// String returns the string representation of a result
func (r Result) String() string {
	switch r {
	case ResultPending:
		return "pending"
	case ResultWin:
		return "win"
	case ResultLose:
		return "lose"
	case ResultPush:
		return "push"
	case ResultBlackjack:
		return "blackjack"
	case ResultSurrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// DecisionContext is what a strategy sees when asked to act on a hand:
// the hand itself, the dealer's visible upcard value (ace normalised to
// 11), and which of the conditional actions are currently legal.
type DecisionContext struct {
	Hand         *Hand
	DealerUpcard int
	CanDouble    bool
	CanSplit     bool
	CanSurrender bool
}

// Decider is implemented by AI strategies. The round machine consults it
// for each AI seat's plays, bet sizing, and the insurance decision.
type Decider interface {
	Decide(ctx DecisionContext) Action
	BetSize(chips, minBet, maxBet int) int
	BuysInsurance(chips, bet int) bool
}
