// ABOUTME: Discovery pool runs batches of discoveries on a fixed set of worker goroutines
// ABOUTME: Results come back in input order; a stopped or saturated pool reports NOT_FOUND for the affected URLs

package workers

import (
	"context"
	"sync"
	"time"

	"feedfinder-api/core/discovery"
)

// discoveryJob is one URL of a batch
type discoveryJob struct {
	ctx     context.Context
	url     string
	index   int
	results chan<- jobResult
}

type jobResult struct {
	index   int
	outcome discovery.Outcome
}

// DiscoveryPool manages a bounded set of workers shared by all batches
type DiscoveryPool struct {
	discoverer discovery.OutcomeDiscoverer
	jobQueue   chan *discoveryJob
	maxWorkers int
	submitWait time.Duration
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
	running    bool
}

// WorkerConfig holds configuration for the pool
type WorkerConfig struct {
	MaxWorkers int
	QueueSize  int

	// SubmitTimeout is how long a batch waits for queue space per URL
	SubmitTimeout time.Duration
}

// DefaultWorkerConfig returns the default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxWorkers:    8,
		QueueSize:     100,
		SubmitTimeout: 5 * time.Second,
	}
}

// NewDiscoveryPool creates a pool; call Start before submitting work
func NewDiscoveryPool(discoverer discovery.OutcomeDiscoverer, config WorkerConfig) *DiscoveryPool {
	defaults := DefaultWorkerConfig()
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = defaults.MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.SubmitTimeout <= 0 {
		config.SubmitTimeout = defaults.SubmitTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &DiscoveryPool{
		discoverer: discoverer,
		jobQueue:   make(chan *discoveryJob, config.QueueSize),
		maxWorkers: config.MaxWorkers,
		submitWait: config.SubmitTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the workers
func (p *DiscoveryPool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	if p.ctx.Err() != nil {
		return ErrPoolStopped
	}

	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.run()
	}

	p.running = true
	return nil
}

// Stop signals workers to exit and waits for in-flight discoveries to finish.
// A stopped pool cannot be restarted.
func (p *DiscoveryPool) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancel()
	if !p.running {
		return nil
	}

	p.wg.Wait()
	p.running = false
	return nil
}

// DiscoverBatch discovers every URL and returns outcomes in input order
func (p *DiscoveryPool) DiscoverBatch(ctx context.Context, urls []string) []discovery.Outcome {
	outcomes := make([]discovery.Outcome, len(urls))
	if len(urls) == 0 {
		return outcomes
	}

	results := make(chan jobResult, len(urls))
	pending := make(map[int]bool, len(urls))

	for i, u := range urls {
		job := &discoveryJob{ctx: ctx, url: u, index: i, results: results}
		if err := p.submit(job); err != nil {
			outcomes[i] = notFound(err)
			continue
		}
		pending[i] = true
	}

	for len(pending) > 0 {
		select {
		case r := <-results:
			outcomes[r.index] = r.outcome
			delete(pending, r.index)
		case <-ctx.Done():
			return fillPending(outcomes, pending, ctx.Err())
		case <-p.ctx.Done():
			return fillPending(outcomes, pending, ErrPoolStopped)
		}
	}

	return outcomes
}

// submit queues a job, waiting up to submitWait for space
func (p *DiscoveryPool) submit(job *discoveryJob) error {
	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if !running {
		return ErrWorkerNotRunning
	}

	timer := time.NewTimer(p.submitWait)
	defer timer.Stop()

	select {
	case p.jobQueue <- job:
		return nil
	case <-timer.C:
		return ErrQueueFull
	case <-job.ctx.Done():
		return job.ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolStopped
	}
}

// run is the main loop for each worker
func (p *DiscoveryPool) run() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			p.process(job)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *DiscoveryPool) process(job *discoveryJob) {
	var outcome discovery.Outcome
	if err := job.ctx.Err(); err != nil {
		outcome = notFound(err)
	} else {
		outcome = p.discoverer.DiscoverOutcome(job.ctx, job.url)
	}
	// results is buffered to the batch size
	job.results <- jobResult{index: job.index, outcome: outcome}
}

func notFound(err error) discovery.Outcome {
	return discovery.Outcome{State: discovery.StateNotFound, Err: err}
}

func fillPending(outcomes []discovery.Outcome, pending map[int]bool, err error) []discovery.Outcome {
	for i := range pending {
		outcomes[i] = notFound(err)
	}
	return outcomes
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrQueueFull        = &WorkerError{Message: "job queue is full"}
	ErrPoolStopped      = &WorkerError{Message: "worker pool stopped"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
