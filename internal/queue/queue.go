// Package queue provides the job queues between the API and the worker
// pools. Jobs live only on the queue; the entities they reference are the
// authoritative state.
package queue

import "context"

// Queue is a FIFO byte queue for one job kind. Dequeue blocks until a job
// is available or the context is done.
type Queue interface {
	Enqueue(ctx context.Context, body []byte) error
	Dequeue(ctx context.Context) ([]byte, error)
}
