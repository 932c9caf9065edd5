package asyncfsm

import (
	"log/slog"
	"time"
)

// Context is passed to all hooks and transition functions and provides
// access to machine operations
type Context struct {
	FSM       *Machine
	State     *State         // State that owns the running hook or transition
	From      StateID        // State being left (current when the step started)
	To        StateID        // Target of the change
	Request   *ChangeRequest // Change this step belongs to
	ConstArgs []any          // Constant arguments of State
	Args      []any          // Extra Change arguments; transitions only
	Data      any            // User-provided application data
	Logger    *slog.Logger

	timerOwner StateID // Owner of state-scoped timers started from this context
}

// Arguments returns the constant arguments followed by the extra change
// arguments, the order a transition function receives them in
func (c *Context) Arguments() []any {
	out := make([]any, 0, len(c.ConstArgs)+len(c.Args))
	out = append(out, c.ConstArgs...)
	return append(out, c.Args...)
}

// CurrentState returns the current state
func (c *Context) CurrentState() StateID {
	return c.FSM.Current()
}

// IsIn checks if the given state is current
func (c *Context) IsIn(id StateID) bool {
	return c.FSM.IsIn(id)
}

// Change requests another change. It runs after every step already queued,
// including the rest of the change in progress.
func (c *Context) Change(to StateID, args ...any) {
	c.FSM.Change(to, args...)
}

// StartTimer starts a named timer that requests a change when it fires.
// The timer is cancelled when the owning state is exited. Timers started
// from a transition function belong to the target state, since the source
// state has already been exited.
func (c *Context) StartTimer(name string, duration time.Duration, to StateID, args ...any) {
	c.FSM.startTimer(name, duration, to, args, TimerScopeState, c.timerOwner)
}

// StopTimer stops a timer by name. No-op if timer doesn't exist.
func (c *Context) StopTimer(name string) {
	c.FSM.StopTimer(name)
}
