// Package asyncfsm is a finite state machine whose lifecycle hooks and
// transition functions are asynchronous.
//
// Each hook receives a Done callback and the machine does not move on until
// it is called, either before the hook returns or later from any goroutine
// (after an animation, a network call, a timer). A change from the current
// state to a target is split into steps that run strictly one at a time:
//
//  1. exit hook of the current state
//  2. initialize hook of the target, only the first time it is entered
//  3. transition function registered on the current state for the target
//  4. enter hook of the target
//  5. the target becomes current
//
// Missing hooks and transitions complete immediately. Changes requested while
// another change is still running are queued behind it and never interleave.
// Current only reports the new state once the whole change has completed.
//
// # Usage
//
//	m := asyncfsm.New().
//	    State("splash",
//	        asyncfsm.WithOnExit(func(c *asyncfsm.Context, done asyncfsm.Done) {
//	            fadeOut(done)
//	        }),
//	        asyncfsm.WithTransition("menu", func(c *asyncfsm.Context, next *asyncfsm.State, done asyncfsm.Done) {
//	            log.Println("args:", c.Arguments())
//	            done()
//	        }),
//	    ).
//	    State("menu")
//
//	m.Change("splash").Change("menu", "crossfade")
//
// # Arguments
//
// States carry constant arguments (WithConstArgs) available to their hooks as
// Context.ConstArgs. A transition function sees the source state's constant
// arguments followed by the extra arguments given to Change; Context.Arguments
// returns them in that order.
//
// # Errors
//
// Change never fails: unknown targets are ignored. ChangeWait reports them as
// *ErrUnknownState (see IsUnknownStateError). Feed logs and ignores invalid
// states; Register returns ErrInvalidState.
//
// # Caveats
//
// There are no timeouts: a hook that never calls done stalls the machine and
// every change queued after it. Calling done twice is a caller error.
// ChangeWait must not be called from inside a hook, since the hook is what the
// wait would depend on.
package asyncfsm
