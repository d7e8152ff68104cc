package fat9p

import "github.com/oschettler/load81-picocalc/fat9p/proto9p"

// workItem is one framed request waiting for the single dispatch
// worker to run it, paired with the connection its response must be
// written back to.
type workItem struct {
	conn  *conn
	frame proto9p.Frame
}

// Queue is the bounded hand-off between every connection's receive
// goroutine and the single worker goroutine that ever calls Dispatch.
// Many connections can have a complete message framed and waiting at
// once, but the queue ensures only one is ever being handled at a
// time — the host-side rendition of spec §5's "while a handler runs,
// no other handler on core A runs", now enforced across the whole
// server rather than left to however many goroutines happen to call
// Dispatch concurrently.
type Queue struct {
	items chan workItem
	done  chan struct{}
}

func newQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		items: make(chan workItem, capacity),
		done:  make(chan struct{}),
	}
}

// submit blocks until item is accepted onto the queue or the queue is
// shutting down. A false return means the item was dropped and no
// response will be written for it.
func (q *Queue) submit(item workItem) bool {
	select {
	case q.items <- item:
		return true
	case <-q.done:
		return false
	}
}

// shutdown unblocks every pending and future submit and stops the
// worker loop once it next reaches its select statement.
func (q *Queue) shutdown() {
	close(q.done)
}
