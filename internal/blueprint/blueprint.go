// Package blueprint describes asyncfsm machines in YAML. A blueprint lists
// states whose hooks simulate asynchronous work by completing after a delay,
// and a script of changes to request. It is used by cmd/fsmplay to exercise
// the scheduler end to end.
package blueprint

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidBlueprint = errors.New("invalid blueprint")
	ErrReadBlueprint    = errors.New("failed to read blueprint")
	ErrParseBlueprint   = errors.New("failed to parse blueprint")
	ErrEmptyScript      = errors.New("blueprint script is empty")
)

// Blueprint is the decoded YAML document
type Blueprint struct {
	States []StateSpec `yaml:"states"`
	Script []Change    `yaml:"script"`
}

// StateSpec describes one state. A nil delay means the hook is absent;
// a zero delay completes synchronously.
type StateSpec struct {
	Name        string                   `yaml:"name"`
	ConstArgs   []any                    `yaml:"const_args"`
	Initialize  *time.Duration           `yaml:"initialize"`
	Enter       *time.Duration           `yaml:"enter"`
	Exit        *time.Duration           `yaml:"exit"`
	Transitions map[string]time.Duration `yaml:"transitions"`
}

// Change is one scripted change request
type Change struct {
	To   string `yaml:"to"`
	Args []any  `yaml:"args"`
}

// Parse decodes and validates a blueprint
func Parse(data []byte) (*Blueprint, error) {
	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return nil, errors.Join(ErrParseBlueprint, err)
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	return &bp, nil
}

// Load reads and parses a blueprint file
func Load(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadBlueprint, err)
	}
	bp, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bp, nil
}

// Validate checks state names and that every referenced state is declared
func (bp *Blueprint) Validate() error {
	if len(bp.States) == 0 {
		return fmt.Errorf("%w: no states defined", ErrInvalidBlueprint)
	}

	names := make(map[string]bool, len(bp.States))
	for i, s := range bp.States {
		if s.Name == "" {
			return fmt.Errorf("%w: state[%d] has no name", ErrInvalidBlueprint, i)
		}
		if names[s.Name] {
			return fmt.Errorf("%w: state %q defined twice", ErrInvalidBlueprint, s.Name)
		}
		names[s.Name] = true
	}

	for _, s := range bp.States {
		for target, d := range s.Transitions {
			if !names[target] {
				return fmt.Errorf("%w: state %q has transition to undefined state %q", ErrInvalidBlueprint, s.Name, target)
			}
			if d < 0 {
				return fmt.Errorf("%w: state %q transition to %q has negative delay", ErrInvalidBlueprint, s.Name, target)
			}
		}
		for hook, d := range map[string]*time.Duration{"initialize": s.Initialize, "enter": s.Enter, "exit": s.Exit} {
			if d != nil && *d < 0 {
				return fmt.Errorf("%w: state %q %s hook has negative delay", ErrInvalidBlueprint, s.Name, hook)
			}
		}
	}

	for i, c := range bp.Script {
		if !names[c.To] {
			return fmt.Errorf("%w: script[%d] changes to undefined state %q", ErrInvalidBlueprint, i, c.To)
		}
	}

	return nil
}
