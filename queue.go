package asyncfsm

import (
	"sync"
	"sync/atomic"
)

// stepKind identifies what a scheduled step does when it runs
type stepKind int

const (
	stepExit stepKind = iota
	stepInitialize
	stepMarkInitialized
	stepTransition
	stepEnter
	stepSetCurrent
)

func (k stepKind) String() string {
	switch k {
	case stepExit:
		return "exit"
	case stepInitialize:
		return "initialize"
	case stepMarkInitialized:
		return "mark-initialized"
	case stepTransition:
		return "transition"
	case stepEnter:
		return "enter"
	case stepSetCurrent:
		return "set-current"
	default:
		return "unknown"
	}
}

// step is one scheduled unit of work. state is the target of the change;
// the source state is resolved when the step runs.
type step struct {
	kind  stepKind
	state *State
	req   *ChangeRequest
}

// stepQueue runs steps one at a time in FIFO order. A step is started only
// after its predecessor has called its completion callback.
type stepQueue struct {
	mu       sync.Mutex
	steps    []step
	draining bool

	run func(s step, done Done)
}

func newStepQueue(run func(s step, done Done)) *stepQueue {
	return &stepQueue{run: run}
}

// enqueue appends steps to the tail. It reports whether the queue was idle,
// in which case the caller owns the new drain and must call advance.
func (q *stepQueue) enqueue(steps ...step) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.steps = append(q.steps, steps...)
	if q.draining {
		return false
	}
	q.draining = true
	return true
}

// pop removes the head step. An empty queue ends the drain.
func (q *stepQueue) pop() (step, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.steps) == 0 {
		q.draining = false
		q.steps = nil
		return step{}, false
	}
	s := q.steps[0]
	q.steps[0] = step{}
	q.steps = q.steps[1:]
	q.draining = true
	return s, true
}

// advance drains the queue until it is empty or a step completes asynchronously.
// Steps that complete before returning are handled in this loop rather than
// by recursion; a late completion calls advance again from its own goroutine.
func (q *stepQueue) advance() {
	for {
		s, ok := q.pop()
		if !ok {
			return
		}

		// 0: running, 1: returned without completing, 2: completed inline
		var phase atomic.Int32
		q.run(s, func() {
			if !phase.CompareAndSwap(0, 2) {
				q.advance()
			}
		})
		if phase.CompareAndSwap(0, 1) {
			return
		}
	}
}

// Len returns the number of steps waiting to run
func (q *stepQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.steps)
}

// Draining reports whether a drain is in progress
func (q *stepQueue) Draining() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.draining
}
