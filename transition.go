package asyncfsm

// WithTransition registers fn to run when changing from this state to target.
// A later call for the same target replaces the earlier function.
func WithTransition(target StateID, fn TransitionFunc) StateOption {
	return func(s *State) {
		if s.Transitions == nil {
			s.Transitions = make(map[StateID]TransitionFunc)
		}
		s.Transitions[target] = fn
	}
}

// WithTransitions registers several transition functions at once
func WithTransitions(fns map[StateID]TransitionFunc) StateOption {
	return func(s *State) {
		for target, fn := range fns {
			WithTransition(target, fn)(s)
		}
	}
}

// transitionTo returns the transition function for target, if any
func (s *State) transitionTo(target StateID) (TransitionFunc, bool) {
	fn, ok := s.Transitions[target]
	if !ok || fn == nil {
		return nil, false
	}
	return fn, true
}
