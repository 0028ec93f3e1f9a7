package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/skovmand/advent-of-code-2017/internal/config"
	"github.com/skovmand/advent-of-code-2017/internal/metrics"
	"github.com/skovmand/advent-of-code-2017/internal/puzzle"
	"github.com/skovmand/advent-of-code-2017/internal/tower"
)

var (
	// ErrQueueFull is returned when the diagnostic queue has no room.
	ErrQueueFull = errors.New("diagnostic queue full")

	// ErrTimeout is returned when a diagnostic does not finish in time.
	ErrTimeout = errors.New("diagnostic timed out")
)

// Result is the outcome of diagnosing a single input. Exactly one of
// Correction and Error is set.
type Result struct {
	ID         string            `json:"id"`
	Source     string            `json:"source,omitempty"`
	DurationMs float64           `json:"duration_ms"`
	Outcome    string            `json:"outcome"`
	Correction *tower.Correction `json:"correction,omitempty"`
	Error      string            `json:"error,omitempty"`
	Err        error             `json:"-"`
}

// Engine runs diagnostics on a bounded worker pool.
type Engine struct {
	diag atomic.Pointer[config.DiagnosticConf]
	pool *workerPool[*job]
	conf config.EngineConf
	log  *zap.Logger
}

type job struct {
	ctx     context.Context
	in      *puzzle.Input
	resultC chan *Result
}

// New creates an Engine using conf and starts its worker pool.
func New(ctx context.Context, conf config.EngineConf, diag config.DiagnosticConf, log *zap.Logger) *Engine {
	e := &Engine{conf: conf, log: log}
	e.diag.Store(&diag)
	e.pool = newWorkerPool[*job](ctx, conf.Workers, conf.QueueDepth, func(_ context.Context, j *job) {
		j.resultC <- e.Run(j.ctx, j.in)
	})
	return e
}

// SwapOptions atomically replaces the diagnostic options (used on hot-reload).
func (e *Engine) SwapOptions(diag config.DiagnosticConf) {
	e.diag.Store(&diag)
}

// Options returns the diagnostic options currently in effect.
func (e *Engine) Options() config.DiagnosticConf {
	return *e.diag.Load()
}

// Timeout is the per-diagnostic deadline applied by ProcessSync and ProcessBatch.
func (e *Engine) Timeout() time.Duration {
	return time.Duration(e.conf.TimeoutMs) * time.Millisecond
}

// ProcessSync queues one input and waits for its result.
func (e *Engine) ProcessSync(ctx context.Context, in *puzzle.Input) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout())
	defer cancel()

	j, err := e.submit(ctx, in)
	if err != nil {
		return nil, err
	}
	return e.wait(ctx, j)
}

// ProcessBatch queues every input and waits for all of them. Results keep
// input order; inputs that could not be queued or finished get a Result
// carrying the error instead.
func (e *Engine) ProcessBatch(ctx context.Context, ins []*puzzle.Input) []*Result {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout())
	defer cancel()

	jobs := make([]*job, len(ins))
	out := make([]*Result, len(ins))
	for i, in := range ins {
		j, err := e.submit(ctx, in)
		if err != nil {
			out[i] = failed(in, err)
			continue
		}
		jobs[i] = j
	}

	var wg sync.WaitGroup
	for i, j := range jobs {
		i, j := i, j
		if j == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.wait(ctx, j)
			if err != nil {
				res = failed(j.in, err)
			}
			out[i] = res
		}()
	}
	wg.Wait()
	return out
}

func (e *Engine) submit(ctx context.Context, in *puzzle.Input) (*job, error) {
	in.EnsureID()
	j := &job{ctx: ctx, in: in, resultC: make(chan *Result, 1)}
	if !e.pool.Submit(j) {
		metrics.DiagnosticsDropped.Inc()
		return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.conf.QueueDepth)
	}
	metrics.DiagnosticsEnqueued.Inc()
	return j, nil
}

func (e *Engine) wait(ctx context.Context, j *job) (*Result, error) {
	select {
	case res := <-j.resultC:
		return res, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v", ErrTimeout, e.Timeout())
		}
		return nil, ctx.Err()
	}
}

func failed(in *puzzle.Input, err error) *Result {
	return &Result{ID: in.ID, Source: in.Source, Outcome: Outcome(err), Error: err.Error(), Err: err}
}

// Outcome extends tower.ErrorKind with the engine's own failures.
func Outcome(err error) string {
	switch {
	case errors.Is(err, ErrQueueFull):
		return "queue_full"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	}
	return tower.ErrorKind(err)
}

// Run diagnoses in on the calling goroutine, bypassing the queue.
func (e *Engine) Run(ctx context.Context, in *puzzle.Input) *Result {
	in.EnsureID()
	diag := e.Options()
	start := time.Now()

	c, err := tower.Diagnose(ctx, in.Text,
		tower.WithMaxDepth(diag.MaxDepth),
		tower.WithConcurrency(diag.Concurrency),
	)

	elapsed := time.Since(start)
	res := &Result{
		ID:         in.ID,
		Source:     in.Source,
		DurationMs: float64(elapsed.Microseconds()) / 1000,
		Outcome:    tower.ErrorKind(err),
		Correction: c,
	}

	metrics.DiagnosticsProcessed.WithLabelValues(res.Outcome).Inc()
	metrics.DiagnosticDuration.Observe(res.DurationMs)

	if err != nil {
		res.Error = err.Error()
		res.Err = err
		e.log.Info("diagnostic failed",
			zap.String("id", in.ID),
			zap.String("source", in.Source),
			zap.String("outcome", res.Outcome),
			zap.Error(err),
		)
		return res
	}

	metrics.TreeNodes.Observe(float64(c.Nodes))
	metrics.TreeDepth.Observe(float64(c.Depth))
	e.log.Debug("diagnostic finished",
		zap.String("id", in.ID),
		zap.String("root", c.Root),
		zap.String("target", c.Target),
		zap.Int64("corrected_weight", c.CorrectedWeight),
		zap.Duration("elapsed", elapsed),
	)
	return res
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

// Shutdown drains the pool gracefully.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}
