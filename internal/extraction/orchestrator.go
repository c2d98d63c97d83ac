package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Config controls how a backend is driven over the corpus.
type Config struct {
	Concurrency     int
	ProgressEvery   int
	DocumentTimeout time.Duration
	Health          HealthConfig
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithInstruments records per-document outcomes in Prometheus.
func WithInstruments(i *Instruments) Option {
	return func(o *Orchestrator) {
		o.instruments = i
	}
}

// Orchestrator runs a backend over documents with bounded concurrency.
type Orchestrator struct {
	cfg         Config
	instruments *Instruments
}

// New returns an Orchestrator. A non-positive concurrency uses one worker per CPU.
func New(cfg Config, opts ...Option) *Orchestrator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	o := &Orchestrator{cfg: cfg}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run extracts every document and returns results keyed by document id
// together with run statistics. Per-document failures are captured in the
// results. The returned error is non-nil when ctx is cancelled or when the
// run fails its health gate; in the latter case it is a *HealthError and
// results and stats are still returned.
func (o *Orchestrator) Run(ctx context.Context, backend Backend, docs []Document) (map[string]Result, Stats, error) {
	name := backend.Name()
	total := len(docs)
	slog.Info("Starting extraction", "backend", name, "documents", total, "concurrency", o.cfg.Concurrency)

	results := make([]Result, total)
	var completed atomic.Int64
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(o.cfg.Concurrency)
	for i, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = o.extractOne(ctx, backend, doc)
			o.instruments.observe(name, results[i])
			if !results[i].OK() {
				slog.Debug("Extraction failed", "backend", name, "doc", doc.ID, "err", results[i].Err)
			}

			n := completed.Add(1)
			if o.cfg.ProgressEvery > 0 && n%int64(o.cfg.ProgressEvery) == 0 {
				elapsed := time.Since(start).Seconds()
				slog.Info("Extraction progress",
					"backend", name,
					"completed", n,
					"total", total,
					"percent", fmt.Sprintf("%.1f", float64(n)/float64(total)*100),
					"docs_per_sec", fmt.Sprintf("%.2f", float64(n)/elapsed))
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, Stats{}, fmt.Errorf("extraction with %s cancelled: %w", name, err)
	}

	byID := make(map[string]Result, total)
	for i, doc := range docs {
		byID[doc.ID] = results[i]
	}

	stats := computeStats(name, docs, results, time.Since(start), o.cfg.Health.TopFailures)
	slog.Info("Extraction finished",
		"backend", name,
		"total", stats.Total,
		"failures", stats.Failures,
		"elapsed", stats.Elapsed.Round(time.Millisecond),
		"docs_per_sec", fmt.Sprintf("%.2f", stats.Throughput),
		"failure_rate", fmt.Sprintf("%.3f", stats.FailureRate))
	for _, c := range stats.TopCauses {
		slog.Info("Failure cause", "backend", name, "cause", c.Cause, "count", c.Count)
	}

	if err := stats.Check(o.cfg.Health); err != nil {
		return byID, stats, err
	}
	return byID, stats, nil
}

// extractOne never panics and never outlives its context: a backend that
// ignores cancellation is abandoned once the deadline passes.
func (o *Orchestrator) extractOne(ctx context.Context, backend Backend, doc Document) Result {
	start := time.Now()
	if o.cfg.DocumentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.DocumentTimeout)
		defer cancel()
	}

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Result{Err: &PanicError{Value: r, Stack: debug.Stack()}}
			}
		}()
		md, err := backend.Extract(ctx, doc)
		done <- Result{Metadata: md, Err: err}
	}()

	var res Result
	select {
	case res = <-done:
	case <-ctx.Done():
		res = Result{Err: fmt.Errorf("extraction of %s abandoned: %w", doc.ID, ctx.Err())}
	}
	res.Duration = time.Since(start)
	return res
}

// PanicError is a recovered backend panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("backend panicked: %v", e.Value)
}
