package dispatch

import "sync"

// Queue is a bounded circular queue of participant ids awaiting service.
// Enqueue never blocks: when the queue is full the oldest entry is
// overwritten and both ends advance. Under saturation a pending marker is
// silently dropped; that participant is serviced again on its next
// notification. This trades queue depth for a guaranteed non-blocking
// producer and bounded memory.
type Queue struct {
	mu      sync.Mutex
	entries []int
	front   int
	rear    int

	wake chan struct{}
}

// NewQueue creates a queue with the given fixed capacity.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		entries: make([]int, capacity),
		front:   -1,
		rear:    -1,
		wake:    make(chan struct{}, 1),
	}
}

// Enqueue appends the participant id, overwriting the oldest entry when
// full, and raises a coalesced wake. Safe to call from any goroutine.
func (q *Queue) Enqueue(id int) {
	q.mu.Lock()
	if q.front == -1 {
		q.front = 0
		q.rear = 0
	} else {
		q.rear = (q.rear + 1) % len(q.entries)
		if q.rear == q.front {
			// Overwrote the oldest entry; advance the front past it.
			q.front = (q.front + 1) % len(q.entries)
		}
	}
	q.entries[q.rear] = id
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Dequeue pops the front participant id, or reports ok=false when empty.
func (q *Queue) Dequeue() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.front == -1 {
		return 0, false
	}
	id := q.entries[q.front]
	if q.front == q.rear {
		q.front = -1
		q.rear = -1
	} else {
		q.front = (q.front + 1) % len(q.entries)
	}
	return id, true
}

// Wake returns the channel signalled on enqueue. Signals coalesce: one
// receive may cover any number of enqueues.
func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}

// Len returns the number of pending entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.front == -1 {
		return 0
	}
	if q.rear >= q.front {
		return q.rear - q.front + 1
	}
	return len(q.entries) - q.front + q.rear + 1
}

// Cap returns the fixed capacity.
func (q *Queue) Cap() int {
	return len(q.entries)
}
