// Package engine wires a loaded config into running charts: it builds each
// chart's buffers and adapters, registers one scheduler job per series,
// owns the self-telemetry registry and serves it when configured.
package engine

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rileyhilliard/chartty/internal/chart"
	"github.com/rileyhilliard/chartty/internal/config"
	"github.com/rileyhilliard/chartty/internal/decor"
	"github.com/rileyhilliard/chartty/internal/errors"
	"github.com/rileyhilliard/chartty/internal/geom"
	"github.com/rileyhilliard/chartty/internal/logger"
	"github.com/rileyhilliard/chartty/internal/scheduler"
	"github.com/rileyhilliard/chartty/internal/telemetry"
	"github.com/rileyhilliard/chartty/internal/termio"
)

// Options configures an Engine. Every field is optional.
type Options struct {
	Logger logger.Logger
	// Registry receives the engine's metrics. A fresh registry with Go
	// runtime collectors is created when nil.
	Registry *prometheus.Registry
	Counters *termio.Counters
	// HTTPClient is shared by all Prometheus series.
	HTTPClient *http.Client
	Now        func() time.Time
}

// Engine owns the charts and the scheduler that feeds them.
type Engine struct {
	cfg      *config.Config
	log      logger.Logger
	counters *termio.Counters
	registry *prometheus.Registry
	metrics  *telemetry.Metrics

	charts     []*chart.Chart
	skipped    map[string]error
	decorators []*decor.Decorator
	sched      *scheduler.Scheduler
	server     *telemetry.Server

	mu      sync.Mutex
	running bool
}

// New builds every chart in cfg. A chart that fails to build is logged
// and skipped; New fails only when no chart could be built.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	if opts.Counters == nil {
		opts.Counters = &termio.Counters{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := logger.OrDefault(opts.Logger)

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	metrics, err := telemetry.NewMetrics(reg)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRuntime,
			"Failed to register engine metrics", "")
	}

	e := &Engine{
		cfg:      cfg,
		log:      log,
		counters: opts.Counters,
		registry: reg,
		metrics:  metrics,
		skipped:  make(map[string]error),
	}

	deps := chart.Deps{
		Counters:   opts.Counters,
		HTTPClient: opts.HTTPClient,
		Now:        opts.Now,
	}

	var jobs []scheduler.Job
	for _, cc := range cfg.Charts.Charts {
		ch, err := chart.New(cc, deps)
		if err != nil {
			log.Error("skipping chart %q: %s", cc.Name, errors.Summary(err))
			e.skipped[cc.Name] = err
			continue
		}
		e.charts = append(e.charts, ch)
		for _, s := range ch.Series() {
			jobs = append(jobs, scheduler.Job{
				Name:     JobName(ch.Name, s.Name),
				Interval: s.Interval,
				Adapter:  s.Adapter,
				Sink:     s.Buffer,
			})
		}
	}
	if len(e.charts) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"No chart could be built from the config",
			"Run 'chartty check' to see what's wrong")
	}

	for i, dc := range cfg.Decorators {
		d, err := newDecorator(dc, uint64(i)+uint64(opts.Now().UnixNano()))
		if err != nil {
			log.Warn("skipping decorator #%d: %v", i+1, err)
			continue
		}
		e.decorators = append(e.decorators, d)
	}

	e.sched = scheduler.New(jobs, scheduler.Options{
		FetchTimeout: cfg.FetchTimeout,
		BackoffMax:   cfg.FetchBackoffMax,
		Logger:       log,
		Metrics:      metrics,
		Now:          opts.Now,
	})

	if cfg.MetricsAddr != "" {
		e.server = telemetry.NewServer(cfg.MetricsAddr, reg, log)
	}

	log.Debug("built %d charts with %d series", len(e.charts), len(jobs))
	return e, nil
}

// JobName is the scheduler job name, and metrics label, of a chart's series.
func JobName(chartName, seriesName string) string {
	return chartName + "/" + seriesName
}

func newDecorator(dc config.DecoratorConfig, seed uint64) (*decor.Decorator, error) {
	shape, err := decor.ParseShape(dc.Type)
	if err != nil {
		return nil, err
	}
	prim, err := decor.ParsePrimitive(dc.Primitive)
	if err != nil {
		return nil, err
	}
	color, err := geom.ParseColor(dc.Color)
	if err != nil {
		return nil, err
	}
	return decor.New(decor.Options{
		Shape:          shape,
		Primitive:      prim,
		Color:          color,
		Alpha:          dc.Alpha,
		Radius:         dc.Radius,
		Animated:       dc.Animated,
		UpdateInterval: dc.UpdateDuration(),
		Seed:           seed,
	}), nil
}

// Start begins polling and, when configured, serving metrics.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return errors.New(errors.ErrRuntime, "Engine already started", "")
	}

	if e.server != nil {
		if err := e.server.Start(); err != nil {
			return err
		}
	}
	if err := e.sched.Start(ctx); err != nil {
		if e.server != nil {
			_ = e.server.Shutdown(context.Background())
		}
		return err
	}
	e.running = true
	return nil
}

// Stop halts polling, waiting up to shutdown_timeout for in-flight
// fetches, then stops the metrics server.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return nil
	}
	e.running = false

	err := e.sched.Stop(e.cfg.ShutdownTimeout)
	if err != nil {
		e.log.Warn("%s", errors.Summary(err))
	}
	if e.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.ShutdownTimeout)
		defer cancel()
		if serr := e.server.Shutdown(ctx); serr != nil && err == nil {
			err = errors.WrapWithCode(serr, errors.ErrRuntime, "Metrics server did not shut down cleanly", "")
		}
	}
	return err
}

// Snapshots takes one snapshot per chart, in config order.
func (e *Engine) Snapshots() []chart.Snapshot {
	out := make([]chart.Snapshot, len(e.charts))
	for i, c := range e.charts {
		out[i] = c.Snapshot()
	}
	return out
}

// Charts returns the charts that were built.
func (e *Engine) Charts() []*chart.Chart {
	return e.charts
}

// Skipped returns the charts that failed to build, by name.
func (e *Engine) Skipped() map[string]error {
	return e.skipped
}

// Decorators returns the background decorators.
func (e *Engine) Decorators() []*decor.Decorator {
	return e.decorators
}

// Counters returns the terminal I/O counters the charts read.
func (e *Engine) Counters() *termio.Counters {
	return e.counters
}

// Scheduler returns the scheduler feeding the charts.
func (e *Engine) Scheduler() *scheduler.Scheduler {
	return e.sched
}

// Registry returns the self-telemetry registry.
func (e *Engine) Registry() *prometheus.Registry {
	return e.registry
}

// MetricsAddr returns the bound metrics address, or "" when disabled.
func (e *Engine) MetricsAddr() string {
	if e.server == nil {
		return ""
	}
	return e.server.Addr()
}

// Config returns the config the engine was built from.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

func (e *Engine) String() string {
	return fmt.Sprintf("engine(%d charts, %d jobs)", len(e.charts), len(e.sched.Jobs()))
}
