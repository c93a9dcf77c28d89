package pipeline

import (
	"context"
	"fmt"
	"sync"

	reviewpipe "github.com/heibot/reviewpipe"
	"github.com/heibot/reviewpipe/objstore"
	"github.com/heibot/reviewpipe/utils"
)

// DefaultConcurrency is the default worker pool size.
const DefaultConcurrency = 4

// WorkerOptions configures a Worker.
type WorkerOptions struct {
	// Concurrency is the number of reviews processed in parallel.
	// Zero or less uses DefaultConcurrency.
	Concurrency int

	// Retry configures per-review retries. Only transient collaborator
	// failures are retried; retrying a whole review is safe because
	// storage keys are deterministic.
	Retry utils.RetryConfig
}

// Worker drains raw review objects through a Processor with a bounded
// pool. Reviews are independent; the pool imposes no ordering.
type Worker struct {
	proc        *Processor
	concurrency int
	retryer     *utils.Retryer
	idgen       *utils.IDGenerator
}

// NewWorker creates a worker over the processor.
func NewWorker(proc *Processor, opts WorkerOptions) *Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Worker{
		proc:        proc,
		concurrency: opts.Concurrency,
		retryer:     utils.NewRetryer(opts.Retry),
		idgen:       utils.NewIDGenerator(),
	}
}

// RunResult summarizes one worker run.
type RunResult struct {
	// Processed is the number of reviews that finished all stages.
	Processed int

	// Flagged is the subset of processed reviews routed to flagged
	// storage.
	Flagged int

	// Skipped is the number of malformed payloads dropped without
	// retry.
	Skipped int

	// Failed maps raw object keys to the error that exhausted retries.
	Failed map[string]error
}

// Run processes the named raw objects. Each object may hold one JSON
// review or JSONL with one review per line. Malformed reviews are
// skipped and counted; transient failures are retried per review and
// reported in Failed after the retry budget runs out. Run returns an
// error only when the context is cancelled.
func (w *Worker) Run(ctx context.Context, keys []string) (*RunResult, error) {
	result := &RunResult{Failed: make(map[string]error)}
	if len(keys) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	work := make(chan string)

	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range work {
				w.runObject(ctx, key, result, &mu)
			}
		}()
	}

	for _, key := range keys {
		select {
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return result, ctx.Err()
		case work <- key:
		}
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// RunBucket lists the raw bucket under prefix and processes every
// object found. The object store must implement objstore.Lister.
func (w *Worker) RunBucket(ctx context.Context, prefix string) (*RunResult, error) {
	lister, ok := w.proc.store.(objstore.Lister)
	if !ok {
		return nil, fmt.Errorf("%w: object store cannot list", reviewpipe.ErrStoreNotConfigured)
	}
	keys, err := lister.List(ctx, w.proc.settings.RawBucket, prefix)
	if err != nil {
		return nil, err
	}
	return w.Run(ctx, keys)
}

// runObject fetches one raw object and pushes each review in it
// through the pipeline.
func (w *Worker) runObject(ctx context.Context, key string, result *RunResult, mu *sync.Mutex) {
	ctx = WithTraceID(ctx, w.idgen.NewID())

	data, err := w.proc.store.Get(ctx, w.proc.settings.RawBucket, key)
	if err != nil {
		w.proc.logger.ErrorContext(ctx, "raw object fetch failed", "key", key, "error", err)
		mu.Lock()
		result.Failed[key] = err
		mu.Unlock()
		return
	}

	for _, payload := range reviewpipe.SplitJSONL(data) {
		doc, err := utils.DoWithResult(ctx, w.retryer, func() (*reviewpipe.Document, error) {
			return w.proc.Process(ctx, payload)
		})
		switch {
		case err == nil:
			mu.Lock()
			result.Processed++
			if doc.Profanity != nil && doc.Profanity.ContainsProfanity {
				result.Flagged++
			}
			mu.Unlock()
		case reviewpipe.IsMalformed(err):
			w.proc.logger.WarnContext(ctx, "malformed review skipped", "key", key, "error", err)
			mu.Lock()
			result.Skipped++
			mu.Unlock()
		default:
			w.proc.logger.ErrorContext(ctx, "review processing failed", "key", key, "error", err)
			mu.Lock()
			result.Failed[key] = err
			mu.Unlock()
		}
	}
}
