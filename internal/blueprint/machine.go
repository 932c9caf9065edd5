package blueprint

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/librescoot/asyncfsm"
)

// Tracer receives one line per hook invocation
type Tracer interface {
	Trace(line string)
}

// Recorder is a Tracer that keeps lines in memory. It is safe for use by
// hooks completing on timer goroutines.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *Recorder) Trace(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

// Lines returns a copy of the recorded lines
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Feed registers every state of the blueprint on m
func (bp *Blueprint) Feed(m *asyncfsm.Machine, tracer Tracer) error {
	for _, spec := range bp.States {
		if err := m.Register(spec.build(tracer)); err != nil {
			return fmt.Errorf("state %q: %w", spec.Name, err)
		}
	}
	return nil
}

func (spec StateSpec) build(tracer Tracer) *asyncfsm.State {
	opts := []asyncfsm.StateOption{asyncfsm.WithConstArgs(spec.ConstArgs...)}

	if spec.Initialize != nil {
		opts = append(opts, asyncfsm.WithInitialize(delayHook(tracer, "initialize", *spec.Initialize)))
	}
	if spec.Enter != nil {
		opts = append(opts, asyncfsm.WithOnEnter(delayHook(tracer, "enter", *spec.Enter)))
	}
	if spec.Exit != nil {
		opts = append(opts, asyncfsm.WithOnExit(delayHook(tracer, "exit", *spec.Exit)))
	}
	for target, d := range spec.Transitions {
		opts = append(opts, asyncfsm.WithTransition(asyncfsm.StateID(target), delayTransition(tracer, d)))
	}

	return asyncfsm.NewState(asyncfsm.StateID(spec.Name), opts...)
}

func delayHook(tracer Tracer, name string, d time.Duration) asyncfsm.Hook {
	return func(c *asyncfsm.Context, done asyncfsm.Done) {
		tracer.Trace(formatLine(name, string(c.State.ID), c.ConstArgs))
		complete(d, done)
	}
}

func delayTransition(tracer Tracer, d time.Duration) asyncfsm.TransitionFunc {
	return func(c *asyncfsm.Context, next *asyncfsm.State, done asyncfsm.Done) {
		tracer.Trace(formatLine("transition", string(c.State.ID)+"->"+string(next.ID), c.Arguments()))
		complete(d, done)
	}
}

func complete(d time.Duration, done asyncfsm.Done) {
	if d == 0 {
		done()
		return
	}
	time.AfterFunc(d, func() { done() })
}

func formatLine(event, subject string, args []any) string {
	if len(args) == 0 {
		return event + " " + subject
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return event + " " + subject + " [" + strings.Join(parts, " ") + "]"
}

// Play requests every scripted change back to back and waits until the
// machine reaches the last one or ctx is done
func (bp *Blueprint) Play(ctx context.Context, m *asyncfsm.Machine) error {
	if len(bp.Script) == 0 {
		return ErrEmptyScript
	}

	last := len(bp.Script) - 1
	for _, c := range bp.Script[:last] {
		m.Change(asyncfsm.StateID(c.To), c.Args...)
	}
	final := bp.Script[last]
	return m.ChangeWait(ctx, asyncfsm.StateID(final.To), final.Args...)
}
