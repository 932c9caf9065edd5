package asyncfsm

import (
	"fmt"
	"sort"

	"github.com/librescoot/asyncfsm/internal/logger"
)

// Register adds s to the machine, replacing any state with the same ID.
// Missing transitions and constant arguments are normalized to empty values
// and the state starts uninitialized.
func (m *Machine) Register(s *State) error {
	if s == nil {
		return fmt.Errorf("register: %w", ErrInvalidState)
	}
	if s.ID == "" {
		return fmt.Errorf("register state with empty name: %w", ErrInvalidState)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s.Transitions == nil {
		s.Transitions = make(map[StateID]TransitionFunc)
	}
	if s.ConstArgs == nil {
		s.ConstArgs = []any{}
	}
	s.initialized = false
	s.machine = m
	if _, ok := m.states[s.ID]; ok {
		m.logger.Debug("replacing state", logger.State(string(s.ID)))
	}
	m.states[s.ID] = s

	return nil
}

// Feed registers s and returns the machine for chaining.
// A rejected state is logged as a warning and leaves the machine unchanged.
func (m *Machine) Feed(s *State) *Machine {
	if err := m.Register(s); err != nil {
		m.logger.Warn("rejected state registration", logger.Error(err))
	}
	return m
}

// State builds a state from options and feeds it
func (m *Machine) State(id StateID, opts ...StateOption) *Machine {
	return m.Feed(NewState(id, opts...))
}

// Has reports whether a state with the given ID is registered
func (m *Machine) Has(id StateID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.states[id]
	return ok
}

// States returns the registered state IDs in sorted order
func (m *Machine) States() []StateID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]StateID, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsInitialized reports whether the state has completed its initialize hook
func (m *Machine) IsInitialized(id StateID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[id]
	return ok && s.initialized
}

func (m *Machine) lookup(id StateID) (*State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[id]
	return s, ok
}
