// Package scheduler drives one periodic fetch loop per series. Each loop
// owns a ticker at the series' refresh interval, allows at most one fetch in
// flight and turns failed, empty or skipped ticks into gaps.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jpillora/backoff"
	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/chartty/internal/errors"
	"github.com/rileyhilliard/chartty/internal/logger"
	"github.com/rileyhilliard/chartty/internal/series"
	"github.com/rileyhilliard/chartty/internal/source"
	"github.com/rileyhilliard/chartty/internal/telemetry"
)

// DefaultFetchTimeout bounds a single fetch when none is configured.
const DefaultFetchTimeout = 5 * time.Second

// DefaultInterval is used for jobs without a positive interval.
const DefaultInterval = time.Second

// Sink is the write side of a series buffer.
type Sink interface {
	Ingest(s series.Sample) (series.Outcome, error)
	Gap(at time.Time) (series.Sample, bool)
	Len() int
}

// Job is one series to poll.
type Job struct {
	Name     string
	Interval time.Duration
	Adapter  source.Adapter
	Sink     Sink
}

// Options configures a Scheduler.
type Options struct {
	// FetchTimeout bounds each fetch independently of the tick interval.
	FetchTimeout time.Duration
	// BackoffMax enables skipping ticks after consecutive failures when > 0.
	BackoffMax time.Duration
	Logger     logger.Logger
	Metrics    *telemetry.Metrics
	Now        func() time.Time
}

// JobStats counts what a job's ticks did.
type JobStats struct {
	Ticks   uint64
	Fetches uint64
	Skipped uint64
	Gaps    uint64
	Errors  uint64
}

// Scheduler runs a set of jobs concurrently.
type Scheduler struct {
	opts    Options
	log     logger.Logger
	runners []*runner
	byName  map[string]*runner

	mu      sync.Mutex
	cancel  context.CancelFunc
	group   *errgroup.Group
	fetches sync.WaitGroup
}

// New creates a scheduler for jobs. Nothing runs until Start.
func New(jobs []Job, opts Options) *Scheduler {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Scheduler{
		opts:   opts,
		log:    logger.OrDefault(opts.Logger),
		byName: make(map[string]*runner, len(jobs)),
	}
	for _, job := range jobs {
		if job.Interval <= 0 {
			job.Interval = DefaultInterval
		}
		r := &runner{job: job, s: s}
		if opts.BackoffMax > 0 {
			ceiling := opts.BackoffMax
			if ceiling < job.Interval {
				ceiling = job.Interval
			}
			r.backoff = &backoff.Backoff{
				Min:    job.Interval,
				Max:    ceiling,
				Factor: 2,
			}
		}
		s.runners = append(s.runners, r)
		s.byName[job.Name] = r
	}
	return s
}

// Start launches one loop per job. Each job ticks immediately, then on its
// interval, until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.group != nil {
		return errors.New(errors.ErrRuntime, "Scheduler already started", "")
	}

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range s.runners {
		r := r
		g.Go(func() error {
			r.loop(gctx)
			return nil
		})
	}
	s.cancel = cancel
	s.group = g
	s.log.Debug("started %d series jobs", len(s.runners))
	return nil
}

// Stop cancels every job and waits for loops and in-flight fetches to
// finish. A positive timeout bounds the wait and yields an ErrTimeout error
// when exceeded.
func (s *Scheduler) Stop(timeout time.Duration) error {
	s.mu.Lock()
	cancel, g := s.cancel, s.group
	s.cancel, s.group = nil, nil
	s.mu.Unlock()

	if g == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		// Loops have exited, so no new fetches can be added.
		s.fetches.Wait()
		close(done)
	}()

	if timeout <= 0 {
		<-done
		return nil
	}
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New(errors.ErrTimeout,
			"Timed out waiting for in-flight fetches to finish",
			"Lower fetch_timeout or raise shutdown_timeout")
	}
}

// Stats returns the counters of a job by series name.
func (s *Scheduler) Stats(name string) (JobStats, bool) {
	r, ok := s.byName[name]
	if !ok {
		return JobStats{}, false
	}
	return r.stats(), true
}

// Jobs returns the scheduled series names in registration order.
func (s *Scheduler) Jobs() []string {
	names := make([]string, len(s.runners))
	for i, r := range s.runners {
		names[i] = r.job.Name
	}
	return names
}

// runner is the per-job state.
type runner struct {
	job Job
	s   *Scheduler

	inFlight atomic.Bool

	ticks   atomic.Uint64
	fetches atomic.Uint64
	skipped atomic.Uint64
	gaps    atomic.Uint64
	errs    atomic.Uint64

	mu      sync.Mutex
	backoff *backoff.Backoff
	retryAt time.Time
}

func (r *runner) loop(ctx context.Context) {
	ticker := time.NewTicker(r.job.Interval)
	defer ticker.Stop()

	r.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick starts a fetch unless one is still running or the job is backing off.
func (r *runner) tick(ctx context.Context) {
	r.ticks.Add(1)
	now := r.s.opts.Now()

	if !r.inFlight.CompareAndSwap(false, true) {
		r.skipped.Add(1)
		r.s.log.Debug("series %q: previous fetch still running, skipping tick", r.job.Name)
		r.gap(now, telemetry.GapInflight)
		return
	}
	if r.inBackoff(now) {
		r.inFlight.Store(false)
		r.gap(now, telemetry.GapBackoff)
		return
	}

	r.fetches.Add(1)
	r.s.fetches.Add(1)
	go func() {
		defer r.s.fetches.Done()
		defer r.inFlight.Store(false)
		r.fetch(ctx, now)
	}()
}

func (r *runner) fetch(ctx context.Context, at time.Time) {
	name := r.job.Name
	metrics := r.s.opts.Metrics

	fetchCtx, cancel := context.WithTimeout(ctx, r.s.opts.FetchTimeout)
	defer cancel()

	start := time.Now()
	samples, err := r.job.Adapter.Fetch(fetchCtx)
	elapsed := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			// Shutting down; the failure is ours.
			return
		}
		status := telemetry.StatusError
		if errors.IsCode(err, errors.ErrTimeout) {
			status = telemetry.StatusTimeout
		}
		metrics.RecordFetch(name, status, elapsed)
		r.errs.Add(1)
		r.failed(at)
		r.s.log.Warn("series %q fetch failed: %s", name, errors.Summary(err))
		r.gap(at, telemetry.GapError)
		return
	}
	r.succeeded()

	if len(samples) == 0 {
		metrics.RecordFetch(name, telemetry.StatusEmpty, elapsed)
		r.gap(at, telemetry.GapEmpty)
		return
	}

	metrics.RecordFetch(name, telemetry.StatusOK, elapsed)
	accepted := 0
	for _, smp := range samples {
		outcome, err := r.job.Sink.Ingest(smp)
		if err != nil {
			metrics.RecordRejected(name)
			r.s.log.Warn("series %q dropped sample: %s", name, errors.Summary(err))
			continue
		}
		accepted++
		metrics.RecordIngest(name, outcome.String())
	}
	if accepted == 0 {
		r.gap(at, telemetry.GapRejected)
		return
	}
	metrics.SetBufferLength(name, r.job.Sink.Len())
}

func (r *runner) gap(at time.Time, reason string) {
	r.gaps.Add(1)
	r.s.opts.Metrics.RecordGap(r.job.Name, reason)
	r.job.Sink.Gap(at)
	r.s.opts.Metrics.SetBufferLength(r.job.Name, r.job.Sink.Len())
}

// inBackoff reports whether now falls inside the retry window. Half an
// interval of slack absorbs ticker jitter.
func (r *runner) inBackoff(now time.Time) bool {
	if r.backoff == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.retryAt.IsZero() && now.Add(r.job.Interval/2).Before(r.retryAt)
}

func (r *runner) failed(at time.Time) {
	if r.backoff == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = at.Add(r.backoff.Duration())
}

func (r *runner) succeeded() {
	if r.backoff == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backoff.Reset()
	r.retryAt = time.Time{}
}

func (r *runner) stats() JobStats {
	return JobStats{
		Ticks:   r.ticks.Load(),
		Fetches: r.fetches.Load(),
		Skipped: r.skipped.Load(),
		Gaps:    r.gaps.Load(),
		Errors:  r.errs.Load(),
	}
}
