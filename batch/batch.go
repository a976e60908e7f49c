// Package batch validates many parameter documents concurrently.
//
// A Runner owns a worker pool and a memoization cache. Documents are keyed
// (typically by corpus-relative path), validated independently, and the
// outcomes collected into a Run. Validation failures are data, carried in
// each Result; a run itself never fails.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydrokit/modelparams/contexts"
	"github.com/hydrokit/modelparams/document"
	"github.com/hydrokit/modelparams/envutil"
	"github.com/hydrokit/modelparams/logger"
	"github.com/hydrokit/modelparams/memo"
	"github.com/hydrokit/modelparams/params"
	"github.com/hydrokit/modelparams/spans"
)

const (
	workersVar     = "MODELPARAMS_BATCH_WORKERS"
	defaultWorkers = 8
)

// Result is the outcome of validating a single document within a run.
type Result struct {
	// DocumentId is the document's short correlation id, matching the
	// document_id stamped on its logs and span. Empty when the document
	// could not be fingerprinted.
	DocumentId string

	// Set holds the validated parameter set when the document is valid.
	Set params.Set

	// Err holds the validation failures when the document is invalid.
	// Usually a *paramcheck.Errors aggregate.
	Err error

	// Duration is the wall time spent validating this document.
	Duration time.Duration
}

// Valid reports whether the document validated cleanly.
func (r Result) Valid() bool {
	return r.Err == nil
}

// Run is the outcome of one batch validation pass.
type Run struct {
	// Id is the uuid assigned to this run, also stamped on its logs as
	// run_id.
	Id string

	// Started is when the run began.
	Started time.Time

	// Duration is the wall time of the whole run.
	Duration time.Duration

	// Results holds one entry per input key.
	Results map[string]Result
}

// Invalid returns the number of documents that failed validation.
func (r *Run) Invalid() int {
	count := 0

	for _, result := range r.Results {
		if !result.Valid() {
			count++
		}
	}

	return count
}

// Valid returns the number of documents that validated cleanly.
func (r *Run) Valid() int {
	return len(r.Results) - r.Invalid()
}

// Runner validates many keyed documents concurrently on a worker pool.
// Duplicate documents, within a run or across runs, are validated once
// through the memoization cache.
//
// A Runner is safe for concurrent use. Close stops the pool; a closed
// Runner must not be used again.
type Runner struct {
	pool  pond.Pool
	cache *memo.Cache
}

type config struct {
	workers int
	cache   *memo.Cache
}

// Option configures a Runner.
type Option func(*config)

// WithWorkers overrides the worker count for this Runner.
func WithWorkers(count int) Option {
	return func(c *config) {
		c.workers = count
	}
}

// WithCache makes the Runner share an existing memoization cache instead
// of creating its own.
func WithCache(cache *memo.Cache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// NewRunner creates a Runner. The worker count comes from
// MODELPARAMS_BATCH_WORKERS (default 8) unless WithWorkers is given.
func NewRunner(ctx context.Context, opts ...Option) *Runner {
	cfg := &config{
		workers: envutil.IntCtx(ctx, workersVar,
			envutil.Default(defaultWorkers)).ValueOrElse(defaultWorkers),
		cache: memo.NewCache(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	logger.Get(ctx).Debug("Initializing batch worker pool", "workers", cfg.workers)

	return &Runner{
		pool:  pond.NewPool(cfg.workers),
		cache: cfg.cache,
	}
}

// Cache returns the Runner's memoization cache, for stats inspection or
// sharing with another Runner.
func (r *Runner) Cache() *memo.Cache {
	return r.cache
}

// ValidateAll validates every document in docs concurrently and returns a
// Run with one Result per key.
func (r *Runner) ValidateAll(ctx context.Context, docs map[string]document.Map) *Run {
	run := &Run{
		Id:      uuid.NewString(),
		Started: time.Now(),
		Results: make(map[string]Result, len(docs)),
	}

	ctx = logger.WithRunId(ctx, run.Id)

	runsTotal.Inc()
	logger.Get(ctx).Debug("Starting batch validation", "documents", len(docs))

	_ = spans.StartErr(ctx, "batch.run",
		spans.WithAttribute("run_id", attribute.StringValue(run.Id)),
		spans.WithAttribute("documents", attribute.IntValue(len(docs))),
	).Enter(func(ctx context.Context, _ trace.Span) error {
		r.runAll(ctx, docs, run)

		return nil
	})

	run.Duration = time.Since(run.Started)
	runTime.Observe(run.Duration.Seconds())

	logger.Get(ctx).Info("Batch validation finished",
		"documents", len(run.Results),
		"valid", run.Valid(),
		"invalid", run.Invalid(),
		"duration", run.Duration)

	return run
}

// runAll fans the documents out onto the pool and waits for every task.
// A canceled context stops the fan-out; documents already submitted still
// finish.
func (r *Runner) runAll(ctx context.Context, docs map[string]document.Map, run *Run) {
	var mut sync.Mutex

	tasks := make([]pond.Task, 0, len(docs))

	for key, doc := range docs {
		if !contexts.IsContextAlive(ctx) {
			logger.Get(ctx).Warn("Batch run canceled, skipping remaining documents",
				"remaining", len(docs)-len(tasks))

			break
		}

		tasks = append(tasks, r.pool.Submit(func() {
			result := r.validateOne(ctx, doc)

			mut.Lock()
			run.Results[key] = result
			mut.Unlock()
		}))
	}

	for _, task := range tasks {
		if err := task.Wait(); err != nil {
			logger.Get(ctx).Error("Batch worker failed", "error", err)
		}
	}
}

// validateOne validates a single document inside its own span, stamped with
// the document's short id.
func (r *Runner) validateOne(ctx context.Context, doc document.Map) Result {
	start := time.Now()

	shortId, idErr := doc.ShortID()
	if idErr == nil {
		ctx = logger.WithDocumentId(ctx, shortId)
	}

	opts := []spans.Option{spans.WithErrorMessage("document rejected")}
	if shortId != "" {
		opts = append(opts, spans.WithAttribute("document_id", attribute.StringValue(shortId)))
	}

	set, err := spans.StartValErr[params.Set](ctx, "batch.validate_document", opts...).
		Enter(func(_ context.Context, _ trace.Span) (params.Set, error) {
			return r.cache.Validate(doc)
		})

	elapsed := time.Since(start)

	if err != nil {
		documentsTotal.WithLabelValues(outcomeInvalid).Inc()
		logger.Get(ctx).Debug("Document rejected", "error", err, "duration", elapsed)

		return Result{DocumentId: shortId, Err: err, Duration: elapsed}
	}

	documentsTotal.WithLabelValues(outcomeValid).Inc()
	logger.Get(ctx).Debug("Document validated", "parameters", set.Len(), "duration", elapsed)

	return Result{DocumentId: shortId, Set: set, Duration: elapsed}
}

// Close stops the worker pool, waiting for in-flight documents to finish.
func (r *Runner) Close() {
	r.pool.StopAndWait()
}
