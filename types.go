package asyncfsm

import "log/slog"

// StateID is a unique identifier for a state
type StateID string

// DummyState is the placeholder a machine starts in before its first change.
// It has no hooks, no transitions and no constant arguments.
const DummyState StateID = "__dummy"

// Done signals that the asynchronous work of a step has finished.
// It must be called exactly once per step; calling it twice is a caller error.
type Done func()

// Hook is an asynchronous lifecycle function (initialize, enter or exit).
// The machine does not proceed until the hook calls done.
type Hook func(c *Context, done Done)

// TransitionFunc runs between the source state's exit and the target state's
// enter. It is registered on the source state, keyed by target.
type TransitionFunc func(c *Context, next *State, done Done)

// Logger is the default logger used when none is provided
var Logger = slog.Default()
