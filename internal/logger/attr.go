package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// State records a state name under the key "state".
func State(name string) slog.Attr {
	return slog.String("state", name)
}

// From records the state being left under the key "from".
func From(name string) slog.Attr {
	return slog.String("from", name)
}

// To records the target state under the key "to".
func To(name string) slog.Attr {
	return slog.String("to", name)
}

// Step records a scheduler step kind under the key "step".
func Step(kind string) slog.Attr {
	return slog.String("step", kind)
}

// Steps records how many steps a change was split into under the key "steps".
func Steps(n int) slog.Attr {
	return slog.Int("steps", n)
}

// ChangeID records the change request identifier under the key "change_id".
// If id is empty, it returns an empty Attr.
func ChangeID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("change_id", id)
}

// Timer records a timer name under the key "timer".
func Timer(name string) slog.Attr {
	return slog.String("timer", name)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
