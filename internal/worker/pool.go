// Package worker hosts the bounded pools that drain the job queues. Each
// job kind gets its own pool; the pools share no state and never block
// each other.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/geocoder89/filehub/internal/jobs"
	"github.com/geocoder89/filehub/internal/observability"
	"github.com/geocoder89/filehub/internal/queue"
)

// Handler processes one raw job payload.
type Handler func(ctx context.Context, raw []byte) error

type Config struct {
	Kind        jobs.JobType
	Concurrency int
	// JobTimeout bounds each job so a hung handler cannot hold a pool
	// slot forever. This is a policy choice of this implementation, the
	// queue itself imposes no deadline.
	JobTimeout time.Duration
}

// Result is the completion event emitted after every processed job.
type Result struct {
	Kind     jobs.JobType
	Err      error
	Duration time.Duration
}

func (r Result) Failed() bool { return r.Err != nil }

type Pool struct {
	cfg    Config
	q      queue.Queue
	handle Handler
	log    *slog.Logger
	prom   *observability.Prom
	events chan Result
}

func NewPool(cfg Config, q queue.Queue, handle Handler, log *slog.Logger, prom *observability.Prom) *Pool {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 2 * time.Minute
	}

	return &Pool{
		cfg:    cfg,
		q:      q,
		handle: handle,
		log:    log,
		prom:   prom,
		events: make(chan Result, 64),
	}
}

// Events exposes the completion stream. Nothing in the system polls job
// status; this is the only way completions are observed.
func (p *Pool) Events() <-chan Result {
	return p.events
}

// Run blocks until ctx is done, draining the queue with Concurrency
// goroutines.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for i := 0; i < p.cfg.Concurrency; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				raw, err := p.q.Dequeue(ctx)

				if err != nil {
					if ctx.Err() != nil {
						return
					}

					p.log.Error("dequeue failed", "kind", p.cfg.Kind, "err", err)
					continue
				}

				p.runOne(ctx, raw)
			}
		}()
	}

	wg.Wait()
	close(p.events)
}

func (p *Pool) runOne(ctx context.Context, raw []byte) {
	jobCtx, cancel := context.WithTimeout(ctx, p.cfg.JobTimeout)
	defer cancel()

	if p.prom != nil {
		p.prom.JobsInFlight.Inc()
		defer p.prom.JobsInFlight.Dec()
	}

	start := time.Now()
	err := p.handle(jobCtx, raw)
	elapsed := time.Since(start)

	result := "done"

	if err != nil {
		result = "failed"
	}

	if p.prom != nil {
		p.prom.JobResults.WithLabelValues(string(p.cfg.Kind), result).Inc()
		p.prom.JobDuration.WithLabelValues(string(p.cfg.Kind), result).Observe(elapsed.Seconds())
	}

	// never let a slow consumer stall the pool
	select {
	case p.events <- Result{Kind: p.cfg.Kind, Err: err, Duration: elapsed}:
	default:
		p.log.Warn("completion event dropped", "kind", p.cfg.Kind, "failed", err != nil)
	}
}

// LogCompletions consumes a pool's event stream and logs each outcome.
// Failures are terminal: there is no caller waiting and no retry.
func LogCompletions(log *slog.Logger, events <-chan Result) {
	for ev := range events {
		if ev.Failed() {
			log.Error("job failed", "kind", ev.Kind, "duration_ms", ev.Duration.Milliseconds(), "err", ev.Err)
			continue
		}

		log.Info("job completed", "kind", ev.Kind, "duration_ms", ev.Duration.Milliseconds())
	}
}
