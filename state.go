package asyncfsm

// State is a named bundle of lifecycle hooks, transition functions and
// constant arguments. States are registered on a Machine with Feed or Register.
type State struct {
	ID          StateID
	Transitions map[StateID]TransitionFunc // Keyed by target state
	ConstArgs   []any                      // Passed to every hook and outgoing transition

	Initialize Hook // Runs once, before the first entry
	OnEnter    Hook
	OnExit     Hook

	// Guarded by machine.mu once registered
	initialized bool
	machine     *Machine
}

// StateOption is a functional option for configuring a State
type StateOption func(*State)

// NewState creates a state with the given options applied
func NewState(id StateID, opts ...StateOption) *State {
	s := &State{ID: id}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Machine returns the machine the state is registered on, or nil
func (s *State) Machine() *Machine {
	return s.machine
}

// WithInitialize sets the one-time initialization hook
func WithInitialize(fn Hook) StateOption {
	return func(s *State) {
		s.Initialize = fn
	}
}

// WithOnEnter sets the entry hook for the state
func WithOnEnter(fn Hook) StateOption {
	return func(s *State) {
		s.OnEnter = fn
	}
}

// WithOnExit sets the exit hook for the state
func WithOnExit(fn Hook) StateOption {
	return func(s *State) {
		s.OnExit = fn
	}
}

// WithConstArgs sets the constant arguments prepended to every hook call
func WithConstArgs(args ...any) StateOption {
	return func(s *State) {
		s.ConstArgs = append(s.ConstArgs, args...)
	}
}

// dummyState builds the placeholder a fresh machine starts in
func dummyState(m *Machine) *State {
	return &State{
		ID:          DummyState,
		Transitions: map[StateID]TransitionFunc{},
		ConstArgs:   []any{},
		initialized: true,
		machine:     m,
	}
}
