package ink

import "sync"

// DrawQueue hands draw instructions from a session to a renderer running on
// another goroutine. The session pushes one batch per event; the renderer
// drains everything accumulated since its last call.
//
// DrawQueue is safe for concurrent use.
type DrawQueue struct {
	mu      sync.Mutex
	pending []DrawInstruction
	spare   []DrawInstruction
}

// NewDrawQueue creates an empty queue.
func NewDrawQueue() *DrawQueue {
	return &DrawQueue{}
}

// Push appends a batch. Empty batches are ignored.
func (q *DrawQueue) Push(batch []DrawInstruction) {
	if len(batch) == 0 {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, batch...)
	q.mu.Unlock()
}

// Drain returns every pending instruction in push order and empties the
// queue. The returned slice is owned by the caller.
func (q *DrawQueue) Drain() []DrawInstruction {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = q.spare[:0]
	q.spare = nil
	return out
}

// Recycle gives a drained slice back to the queue for reuse.
func (q *DrawQueue) Recycle(batch []DrawInstruction) {
	q.mu.Lock()
	if q.spare == nil {
		q.spare = batch[:0]
	}
	q.mu.Unlock()
}

// Len returns the number of pending instructions.
func (q *DrawQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
