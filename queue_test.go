package fat9p

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestQueueDrainsSequentially submits work from several goroutines at
// once and confirms a single drainer never sees two items overlap in
// time — the property server.runWorker relies on to hold spec §5's
// single-handler invariant across the whole server, not just one
// session.
func TestQueueDrainsSequentially(t *testing.T) {
	q := newQueue(4)
	defer q.shutdown()

	const submitters = 8
	var active int32
	var maxObserved int32
	var mu sync.Mutex
	done := make(chan struct{})

	go func() {
		for i := 0; i < submitters; i++ {
			item := <-q.items
			_ = item
			mu.Lock()
			active++
			if active > maxObserved {
				maxObserved = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}
		close(done)
	}()

	var wg sync.WaitGroup
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.submit(workItem{})
		}()
	}
	wg.Wait()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("drainer did not finish in time")
	}

	require.Equal(t, int32(1), maxObserved, "at most one item should ever be in flight at once")
}

// TestQueueSubmitUnblocksOnShutdown checks that a submit blocked on a
// full queue is released (rather than deadlocked) once shutdown runs,
// matching Server.Stop's expectation that every conn's drain() loop
// returns promptly.
func TestQueueSubmitUnblocksOnShutdown(t *testing.T) {
	q := newQueue(1)
	require.True(t, q.submit(workItem{})) // fills the one slot

	result := make(chan bool, 1)
	go func() {
		result <- q.submit(workItem{})
	}()

	time.Sleep(10 * time.Millisecond)
	q.shutdown()

	select {
	case ok := <-result:
		require.False(t, ok, "submit must report failure once the queue has shut down")
	case <-time.After(time.Second):
		t.Fatal("submit did not unblock after shutdown")
	}
}
