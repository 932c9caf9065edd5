package asyncfsm

import (
	"time"

	"github.com/google/uuid"
)

// ChangeRequest describes one accepted Change call. Every step scheduled for
// the change carries the same request.
type ChangeRequest struct {
	ID        string
	To        StateID
	Args      []any // Extra arguments passed to the transition function
	Requested time.Time

	completed chan struct{} // Closed by the set-current step; nil unless waited on
}

func newChangeRequest(to StateID, args []any) *ChangeRequest {
	return &ChangeRequest{
		ID:        uuid.New().String(),
		To:        to,
		Args:      args,
		Requested: time.Now(),
	}
}
