package asyncfsm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepQueue_FIFO(t *testing.T) {
	var ran []stepKind
	q := newStepQueue(func(s step, done Done) {
		ran = append(ran, s.kind)
		done()
	})

	start := q.enqueue(step{kind: stepExit}, step{kind: stepTransition}, step{kind: stepEnter})
	require.True(t, start)
	q.advance()

	assert.Equal(t, []stepKind{stepExit, stepTransition, stepEnter}, ran)
	assert.False(t, q.Draining())
	assert.Zero(t, q.Len())
}

func TestStepQueue_WaitsForDone(t *testing.T) {
	var (
		ran     []stepKind
		pending Done
	)
	q := newStepQueue(func(s step, done Done) {
		ran = append(ran, s.kind)
		pending = done
	})

	require.True(t, q.enqueue(step{kind: stepExit}, step{kind: stepEnter}))
	q.advance()

	assert.Equal(t, []stepKind{stepExit}, ran)
	assert.True(t, q.Draining())
	assert.Equal(t, 1, q.Len())

	// Enqueueing while draining extends the queue without starting a drain
	assert.False(t, q.enqueue(step{kind: stepSetCurrent}))
	assert.Equal(t, []stepKind{stepExit}, ran)

	pending()
	assert.Equal(t, []stepKind{stepExit, stepEnter}, ran)

	pending()
	assert.Equal(t, []stepKind{stepExit, stepEnter, stepSetCurrent}, ran)
	assert.True(t, q.Draining())

	pending()
	assert.False(t, q.Draining())
	assert.Zero(t, q.Len())
}

func TestStepQueue_DeepSynchronousChain(t *testing.T) {
	const n = 200000

	count := 0
	q := newStepQueue(func(s step, done Done) {
		count++
		done()
	})

	steps := make([]step, n)
	require.True(t, q.enqueue(steps...))
	q.advance()

	assert.Equal(t, n, count)
	assert.False(t, q.Draining())
}

func TestStepQueue_SingleFlightAcrossGoroutines(t *testing.T) {
	const n = 500

	var (
		mu       sync.Mutex
		inFlight int
		maxSeen  int
		order    []int
		wg       sync.WaitGroup
	)
	wg.Add(n)

	q := newStepQueue(func(s step, done Done) {
		mu.Lock()
		inFlight++
		if inFlight > maxSeen {
			maxSeen = inFlight
		}
		order = append(order, len(s.req.Args))
		mu.Unlock()

		go func() {
			mu.Lock()
			inFlight--
			mu.Unlock()
			wg.Done()
			done()
		}()
	})

	for i := 0; i < n; i++ {
		s := step{req: &ChangeRequest{Args: make([]any, i)}}
		if q.enqueue(s) {
			q.advance()
		}
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxSeen)
	require.Len(t, order, n)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestStepKind_String(t *testing.T) {
	assert.Equal(t, "exit", stepExit.String())
	assert.Equal(t, "initialize", stepInitialize.String())
	assert.Equal(t, "mark-initialized", stepMarkInitialized.String())
	assert.Equal(t, "transition", stepTransition.String())
	assert.Equal(t, "enter", stepEnter.String())
	assert.Equal(t, "set-current", stepSetCurrent.String())
	assert.Equal(t, "unknown", stepKind(42).String())
}
