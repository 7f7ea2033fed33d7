// Package prioq provides a strict-priority FIFO over the eight contractual
// transfer priority levels. In-process delivery paths use it to drain
// backlogged transfers most-urgent-first while preserving arrival order
// within a level.
package prioq

import (
	"sync"

	"meshbus/pkg/transport"
)

// Queue is a multi-level FIFO. Push and Pop are safe for concurrent use;
// Ready exposes a signal channel so consumers can select on availability
// together with close/cancellation channels.
type Queue[T any] struct {
	mu    sync.Mutex
	lvls  [transport.PriorityLevels][]T
	size  int
	limit int
	ready chan struct{}
}

// New returns a queue holding at most limit items; limit <= 0 means
// unbounded.
func New[T any](limit int) *Queue[T] {
	return &Queue[T]{limit: limit, ready: make(chan struct{}, 1)}
}

// Push appends v at priority p. It reports false when the queue is full or
// p is not a valid level; the item is not enqueued in either case.
func (q *Queue[T]) Push(p transport.Priority, v T) bool {
	if !p.Valid() {
		return false
	}
	q.mu.Lock()
	if q.limit > 0 && q.size >= q.limit {
		q.mu.Unlock()
		return false
	}
	q.lvls[p] = append(q.lvls[p], v)
	q.size++
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
	return true
}

// Pop removes the oldest item of the most urgent non-empty level.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for li := range q.lvls {
		if len(q.lvls[li]) == 0 {
			continue
		}
		v := q.lvls[li][0]
		var zero T
		q.lvls[li][0] = zero
		q.lvls[li] = q.lvls[li][1:]
		q.size--
		if q.size > 0 {
			// keep the signal armed for remaining items
			select {
			case q.ready <- struct{}{}:
			default:
			}
		}
		return v, true
	}
	var zero T
	return zero, false
}

// Ready is signaled whenever the queue may be non-empty. A received signal
// does not guarantee an item; consumers loop on Pop.
func (q *Queue[T]) Ready() <-chan struct{} { return q.ready }

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}
