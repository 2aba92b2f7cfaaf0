package queue

import "context"

// MemoryQueue is a channel-backed Queue used by tests.
type MemoryQueue struct {
	ch chan []byte
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 128
	}

	return &MemoryQueue{ch: make(chan []byte, capacity)}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, body []byte) error {
	select {
	case q.ch <- body:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) ([]byte, error) {
	select {
	case body := <-q.ch:
		return body, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len reports queued jobs; handy for test assertions.
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}
