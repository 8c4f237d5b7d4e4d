package game

import (
	"errors"
	"fmt"
)

// Command errors. Legality and bet errors are expected and recoverable:
// the command is rejected and state is left untouched. Shoe underflow
// (deck.ErrEmptyShoe / deck.ErrInsufficientCards) escaping a round is a
// reshuffle-policy bug and is unrecoverable for that round.
var (
	ErrIllegalAction = errors.New("action is not legal for the current hand")
	ErrInvalidBet    = errors.New("bet is invalid")
	ErrInvalidPhase  = errors.New("command is not valid in the current phase")
	ErrUnknownPlayer = errors.New("no such player")
	ErrNotYourTurn   = errors.New("player is not the active seat")
	ErrPlayerBroke   = errors.New("player cannot cover the minimum bet")
	ErrPendingResult = errors.New("cannot pay out an unresolved hand")
	ErrRebuyDisabled = errors.New("rebuy is not allowed by the table settings")
)

func phaseError(cmd string, current Phase) error {
	return fmt.Errorf("%w: %s during %s", ErrInvalidPhase, cmd, current)
}

func illegalActionError(action Action) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, action)
}
