package asyncfsm

import (
	"context"
	"log/slog"
	"sync"

	"github.com/librescoot/asyncfsm/internal/logger"
)

const defaultHistorySize = 16

// Machine is the runtime FSM instance. States are registered with Feed and
// changed with Change; every change is broken into steps that run strictly
// one after another.
type Machine struct {
	mu          sync.RWMutex
	states      map[StateID]*State
	current     *State
	history     []StateID
	historySize int

	queue *stepQueue

	timers  map[string]*timerEntry
	timerMu sync.Mutex

	data                any
	logger              *slog.Logger
	stateChangeCallback func(from, to StateID)
}

// MachineOption is a functional option for configuring a Machine
type MachineOption func(*Machine)

// WithLogger sets the logger for the machine
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithData sets the application data accessible via Context
func WithData(data any) MachineOption {
	return func(m *Machine) {
		m.data = data
	}
}

// WithStateChangeCallback sets a callback invoked after each state change
func WithStateChangeCallback(fn func(from, to StateID)) MachineOption {
	return func(m *Machine) {
		m.stateChangeCallback = fn
	}
}

// WithHistorySize sets how many past states History keeps. Zero disables it.
func WithHistorySize(size int) MachineOption {
	return func(m *Machine) {
		if size >= 0 {
			m.historySize = size
		}
	}
}

// New creates a machine sitting in DummyState with no registered states
func New(opts ...MachineOption) *Machine {
	m := &Machine{
		states:      make(map[StateID]*State),
		timers:      make(map[string]*timerEntry),
		historySize: defaultHistorySize,
		logger:      Logger,
	}
	m.current = dummyState(m)
	m.queue = newStepQueue(m.runStep)

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// OnStateChange sets a callback invoked after each state change.
func (m *Machine) OnStateChange(fn func(from, to StateID)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stateChangeCallback = fn
}

// Change requests a change to the named state and returns the machine.
// Unknown states are ignored. The change is queued behind any change still
// in progress; if the machine is idle, steps start running before Change
// returns and continue as their hooks complete.
func (m *Machine) Change(to StateID, args ...any) *Machine {
	next, ok := m.lookup(to)
	if !ok {
		m.logger.Debug("ignoring change to unknown state", logger.To(string(to)))
		return m
	}

	m.schedule(next, newChangeRequest(to, args))
	return m
}

// ChangeWait requests a change like Change and blocks until the machine is in
// the requested state or ctx is done. Cancelling ctx does not retract the
// change. It must not be called from inside a hook.
func (m *Machine) ChangeWait(ctx context.Context, to StateID, args ...any) error {
	if ctx == nil {
		return ErrNilContext
	}

	next, ok := m.lookup(to)
	if !ok {
		return NewErrUnknownState(to)
	}

	req := newChangeRequest(to, args)
	req.completed = make(chan struct{})
	m.schedule(next, req)

	select {
	case <-req.completed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// schedule queues the steps of one change and starts draining if idle
func (m *Machine) schedule(next *State, req *ChangeRequest) {
	m.mu.RLock()
	initialized := next.initialized
	m.mu.RUnlock()

	steps := make([]step, 0, 6)
	steps = append(steps, step{kind: stepExit, state: next, req: req})
	if !initialized {
		steps = append(steps,
			step{kind: stepInitialize, state: next, req: req},
			step{kind: stepMarkInitialized, state: next, req: req},
		)
	}
	steps = append(steps,
		step{kind: stepTransition, state: next, req: req},
		step{kind: stepEnter, state: next, req: req},
		step{kind: stepSetCurrent, state: next, req: req},
	)

	m.logger.Debug("change requested",
		logger.ChangeID(req.ID),
		logger.To(string(req.To)),
		logger.Steps(len(steps)),
	)

	if m.queue.enqueue(steps...) {
		m.queue.advance()
	}
}

// runStep executes a single step. done is always called exactly once, either
// here or by the hook the step hands it to.
func (m *Machine) runStep(s step, done Done) {
	m.logger.Debug("running step",
		logger.Step(s.kind.String()),
		logger.ChangeID(s.req.ID),
		logger.State(string(s.state.ID)),
	)

	switch s.kind {
	case stepExit:
		cur := m.currentState()
		m.cleanupTimersForState(cur.ID)
		m.invoke(cur.OnExit, m.makeContext(cur, s), done)

	case stepInitialize:
		m.mu.RLock()
		initialized := s.state.initialized
		m.mu.RUnlock()
		if initialized {
			done()
			return
		}
		m.invoke(s.state.Initialize, m.makeContext(s.state, s), done)

	case stepMarkInitialized:
		m.mu.Lock()
		s.state.initialized = true
		m.mu.Unlock()
		done()

	case stepTransition:
		cur := m.currentState()
		fn, ok := cur.transitionTo(s.req.To)
		if !ok {
			done()
			return
		}
		c := m.makeContext(cur, s)
		c.Args = s.req.Args
		c.timerOwner = s.state.ID
		fn(c, s.state, done)

	case stepEnter:
		m.invoke(s.state.OnEnter, m.makeContext(s.state, s), done)

	case stepSetCurrent:
		m.setCurrent(s)
		done()

	default:
		done()
	}
}

// invoke runs hook, or completes immediately when the state has none
func (m *Machine) invoke(hook Hook, c *Context, done Done) {
	if hook == nil {
		done()
		return
	}
	hook(c, done)
}

func (m *Machine) setCurrent(s step) {
	m.mu.Lock()
	from := m.current.ID
	m.current = s.state
	m.recordHistory(s.state.ID)
	callback := m.stateChangeCallback
	m.mu.Unlock()

	m.logger.Info("state changed",
		logger.From(string(from)),
		logger.To(string(s.state.ID)),
		logger.ChangeID(s.req.ID),
	)

	if callback != nil && from != s.state.ID {
		callback(from, s.state.ID)
	}
	if s.req.completed != nil {
		close(s.req.completed)
	}
}

// recordHistory appends id to the bounded history. Caller holds m.mu.
func (m *Machine) recordHistory(id StateID) {
	if m.historySize == 0 {
		return
	}
	m.history = append(m.history, id)
	if over := len(m.history) - m.historySize; over > 0 {
		m.history = append(m.history[:0], m.history[over:]...)
	}
}

func (m *Machine) currentState() *State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Current returns the name of the current state
func (m *Machine) Current() StateID {
	return m.currentState().ID
}

// IsIn checks if the given state is the current state
func (m *Machine) IsIn(id StateID) bool {
	return m.Current() == id
}

// Pending returns the number of queued steps that have not started yet
func (m *Machine) Pending() int {
	return m.queue.Len()
}

// Idle reports whether no step is running or queued
func (m *Machine) Idle() bool {
	return !m.queue.Draining()
}

// History returns the states that most recently became current, oldest first
func (m *Machine) History() []StateID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]StateID, len(m.history))
	copy(out, m.history)
	return out
}

// Stop cancels all timers. Queued steps still run as their hooks complete.
func (m *Machine) Stop() {
	m.StopAllTimers()
}

// makeContext creates a context for a hook owned by owner
func (m *Machine) makeContext(owner *State, s step) *Context {
	return &Context{
		FSM:       m,
		State:     owner,
		From:      m.Current(),
		To:        s.req.To,
		Request:   s.req,
		ConstArgs: owner.ConstArgs,
		Data:      m.data,
		Logger:    m.logger.With(logger.ChangeID(s.req.ID)),

		timerOwner: owner.ID,
	}
}
