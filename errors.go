package asyncfsm

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState = errors.New("invalid state: state must be non-nil and named")
	ErrNilContext   = errors.New("nil context")
)

// ErrUnknownState indicates a change was requested to a state that is not registered.
type ErrUnknownState struct {
	StateName StateID
}

func (e *ErrUnknownState) Error() string {
	return fmt.Sprintf("unknown state '%s'", e.StateName)
}

func NewErrUnknownState(name StateID) *ErrUnknownState {
	return &ErrUnknownState{StateName: name}
}

func IsUnknownStateError(err error) bool {
	var e *ErrUnknownState
	return errors.As(err, &e)
}
