package loader

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrStopped is returned by Submit once the pool has been stopped
var ErrStopped = errors.New("fetch pool stopped")

// Fetch is one independent backend call
type Fetch struct {
	Name string
	Run  func(ctx context.Context) error
}

// fetchRequest is a fetch waiting in the queue
type fetchRequest struct {
	ctx      context.Context
	fetch    Fetch
	resultCh chan error // buffered so a worker never waits on a caller that gave up
}

// Pool runs backend fetches on a fixed set of workers so one page load
// cannot open an unbounded number of upstream requests.
type Pool struct {
	workers  int
	queue    chan fetchRequest
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPool creates a pool with the given number of workers
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		queue:   make(chan fetchRequest, 100),
		stopCh:  make(chan struct{}),
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	log.WithField("workers", p.workers).Info("fetch pool started")
}

// Stop stops the workers after their current fetch
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	p.wg.Wait()
	log.Info("fetch pool stopped")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return

		case req := <-p.queue:
			if err := req.ctx.Err(); err != nil {
				req.resultCh <- err
				continue
			}

			start := time.Now()
			err := req.fetch.Run(req.ctx)
			entry := log.WithFields(log.Fields{
				"worker":  id,
				"fetch":   req.fetch.Name,
				"latency": time.Since(start),
			})
			if err != nil {
				entry.WithError(err).Debug("fetch failed")
			} else {
				entry.Debug("fetch done")
			}
			req.resultCh <- err
		}
	}
}

// Submit queues a fetch and waits for its result
func (p *Pool) Submit(ctx context.Context, f Fetch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-p.stopCh:
		return ErrStopped
	default:
	}

	req := fetchRequest{
		ctx:      ctx,
		fetch:    f,
		resultCh: make(chan error, 1),
	}

	select {
	case <-p.stopCh:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	case p.queue <- req:
	}

	select {
	case err := <-req.resultCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopCh:
		// a worker may still have picked it up before stopping
		select {
		case err := <-req.resultCh:
			return err
		default:
			return ErrStopped
		}
	}
}

// All runs the fetches concurrently and waits for every one of them. It
// returns the error of the first fetch, in argument order, that failed.
func (p *Pool) All(ctx context.Context, fetches ...Fetch) error {
	errs := make([]error, len(fetches))

	var wg sync.WaitGroup
	for i, f := range fetches {
		wg.Add(1)
		go func(i int, f Fetch) {
			defer wg.Done()
			errs[i] = p.Submit(ctx, f)
		}(i, f)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
