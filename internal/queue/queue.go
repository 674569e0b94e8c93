// Package queue holds the frontier of pending visits in FIFO order.
package queue

import (
	"errors"
	"sync"
)

var (
	// ErrEmpty is returned by Pop when no items are pending.
	ErrEmpty = errors.New("queue is empty")
	// ErrClosed is returned once the queue has been closed.
	ErrClosed = errors.New("queue is closed")
	// ErrFull is returned by Push when the bound is reached.
	ErrFull = errors.New("queue is full")
)

// Item is one pending visit. Source fields tie the visit back to the
// element whose activation produced it; they are zero for entry points.
type Item struct {
	URL             string
	Depth           int
	SourceNodeID    string
	SourceElementID string
}

// Queue is a bounded FIFO of visit items. Breadth-first order falls out
// of strict FIFO: all depth-n items drain before any depth-n+1 item that
// they enqueue.
type Queue struct {
	mu     sync.Mutex
	items  []Item
	bound  int
	closed bool
}

// New creates a queue holding at most bound items. A bound of zero or
// less means unbounded.
func New(bound int) *Queue {
	return &Queue{bound: bound}
}

// Push appends an item to the tail.
func (q *Queue) Push(item Item) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	if q.bound > 0 && len(q.items) >= q.bound {
		return ErrFull
	}
	q.items = append(q.items, item)
	return nil
}

// Pop removes and returns the head item without blocking.
func (q *Queue) Pop() (Item, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		if q.closed {
			return Item{}, ErrClosed
		}
		return Item{}, ErrEmpty
	}

	item := q.items[0]
	q.items = q.items[1:]
	return item, nil
}

// Len reports the number of pending items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed. Pending items may still be popped;
// further pushes fail.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}
