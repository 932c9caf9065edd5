package asyncfsm

import (
	"time"

	"github.com/librescoot/asyncfsm/internal/logger"
)

// TimerScope defines when a timer is automatically cancelled
type TimerScope int

const (
	// TimerScopeGlobal - timer lives until explicitly stopped or the machine stops
	TimerScopeGlobal TimerScope = iota
	// TimerScopeState - timer auto-cancelled when exiting the state that started it
	TimerScopeState
)

// timerEntry tracks a running timer
type timerEntry struct {
	timer      *time.Timer
	to         StateID
	args       []any
	scope      TimerScope
	ownerState StateID
	duration   time.Duration
}

// startTimer starts a named timer that requests a change when it fires
func (m *Machine) startTimer(name string, duration time.Duration, to StateID, args []any, scope TimerScope, owner StateID) {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()

	// Cancel existing timer with same name
	if existing, ok := m.timers[name]; ok {
		existing.timer.Stop()
		delete(m.timers, name)
	}

	entry := &timerEntry{
		to:         to,
		args:       args,
		scope:      scope,
		ownerState: owner,
		duration:   duration,
	}
	entry.timer = time.AfterFunc(duration, func() {
		m.timerMu.Lock()
		// Check timer still exists (wasn't cancelled or replaced)
		if current, ok := m.timers[name]; !ok || current != entry {
			m.timerMu.Unlock()
			return
		}
		delete(m.timers, name)
		m.timerMu.Unlock()

		m.logger.Debug("timer fired", logger.Timer(name), logger.To(string(to)))
		m.Change(to, args...)
	})
	m.timers[name] = entry

	m.logger.Debug("timer started", logger.Timer(name), logger.Duration(duration), logger.To(string(to)))
}

// ChangeAfter starts a named timer that calls Change(to, args...) after
// duration. A timer with the same name is replaced.
func (m *Machine) ChangeAfter(name string, duration time.Duration, to StateID, args ...any) {
	m.startTimer(name, duration, to, args, TimerScopeGlobal, "")
}

// StopTimer stops a timer by name
func (m *Machine) StopTimer(name string) {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()

	if entry, ok := m.timers[name]; ok {
		entry.timer.Stop()
		delete(m.timers, name)
		m.logger.Debug("timer stopped", logger.Timer(name))
	}
}

// StopAllTimers stops all running timers
func (m *Machine) StopAllTimers() {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()

	for name, entry := range m.timers {
		entry.timer.Stop()
		m.logger.Debug("timer stopped (cleanup)", logger.Timer(name))
	}
	m.timers = make(map[string]*timerEntry)
}

// TimerActive checks if a timer is running
func (m *Machine) TimerActive(name string) bool {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()
	_, ok := m.timers[name]
	return ok
}

// ResetTimer restarts a running timer with a new duration, keeping its target
func (m *Machine) ResetTimer(name string, duration time.Duration) {
	m.timerMu.Lock()
	entry, ok := m.timers[name]
	if !ok {
		m.timerMu.Unlock()
		return
	}
	to, args := entry.to, entry.args
	scope, owner := entry.scope, entry.ownerState
	entry.timer.Stop()
	delete(m.timers, name)
	m.timerMu.Unlock()

	m.startTimer(name, duration, to, args, scope, owner)
}

// cleanupTimersForState cancels all state-scoped timers owned by the given state
func (m *Machine) cleanupTimersForState(stateID StateID) {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()

	for name, entry := range m.timers {
		if entry.scope == TimerScopeState && entry.ownerState == stateID {
			entry.timer.Stop()
			delete(m.timers, name)
			m.logger.Debug("timer cleaned up (state exit)", logger.Timer(name), logger.State(string(stateID)))
		}
	}
}
