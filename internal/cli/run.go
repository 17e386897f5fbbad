package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rileyhilliard/chartty/internal/chart"
	"github.com/rileyhilliard/chartty/internal/config"
	"github.com/rileyhilliard/chartty/internal/engine"
	"github.com/rileyhilliard/chartty/internal/errors"
	"github.com/rileyhilliard/chartty/internal/logger"
	"github.com/rileyhilliard/chartty/internal/view"
)

// textInterval is how often text mode prints a summary.
const textInterval = time.Second

// RunOptions holds options for the run command.
type RunOptions struct {
	ConfigPath   string
	Verbose      bool
	FetchTimeout string // Overrides fetch_timeout
	Duration     string // Exit after this long; empty runs until interrupted
	FPS          int    // Overrides frame_interval when non-zero
	MetricsAddr  string // Overrides metrics_addr
	NoAltScreen  bool
	Text         bool // Force text output
	Stdout       io.Writer
}

// Run loads the config, starts polling and renders until interrupted.
func Run(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	cfg, path, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := applyRunOverrides(cfg, opts); err != nil {
		return err
	}
	limit, err := ParseDuration("duration", opts.Duration)
	if err != nil {
		return err
	}

	tui := !opts.Text && isTerminal(opts.Stdout)
	closeLog, err := setupLogging(cfg.Log, opts.Verbose, tui)
	if err != nil {
		return err
	}
	defer closeLog()

	log := logger.NewEnvLogger("run")
	if path == "" {
		log.Info("no config file found, using built-in charts")
	} else {
		log.Debug("loaded config from %s", path)
	}

	eng, err := engine.New(cfg, engine.Options{Logger: logger.NewEnvLogger("engine")})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	if err := eng.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := eng.Stop(); err != nil {
			log.Warn("shutdown: %v", err)
		}
	}()
	if addr := eng.MetricsAddr(); addr != "" {
		log.Info("serving metrics on %s", addr)
	}

	if !tui {
		return runText(ctx, opts.Stdout, eng, textInterval)
	}
	return runTUI(ctx, eng, cfg, opts)
}

// applyRunOverrides applies command-line overrides on top of the loaded
// config.
func applyRunOverrides(cfg *config.Config, opts RunOptions) error {
	timeout, err := ParseDuration("fetch-timeout", opts.FetchTimeout)
	if err != nil {
		return err
	}
	if timeout > 0 {
		cfg.FetchTimeout = timeout
	}

	frame, err := FrameIntervalForFPS(opts.FPS)
	if err != nil {
		return err
	}
	if frame > 0 {
		cfg.FrameInterval = frame
	}

	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}
	return nil
}

// setupLogging configures the shared logger for this run. When the overlay
// owns the terminal, log lines go to log.file or are discarded. The
// returned func closes the log file, if one was opened.
func setupLogging(lc config.LogConfig, verbose, tui bool) (func(), error) {
	opts := logger.Options{Level: lc.Level, JSON: lc.JSON}
	if verbose {
		opts.Level = "debug"
	}

	closeFn := func() {}
	switch {
	case lc.File != "":
		if err := os.MkdirAll(filepath.Dir(lc.File), 0o755); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Can't create the log directory for "+lc.File,
				"Check log.file in chartty.yaml")
		}
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Can't open log file "+lc.File,
				"Check log.file in chartty.yaml")
		}
		opts.Output = f
		closeFn = func() {
			_ = logger.Configure(logger.Options{Output: os.Stderr})
			_ = f.Close()
		}
	case tui:
		opts.Output = io.Discard
		closeFn = func() { _ = logger.Configure(logger.Options{Output: os.Stderr}) }
	}

	if err := logger.Configure(opts); err != nil {
		closeFn()
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid log settings",
			"log.level must be one of debug, info, warn, error")
	}
	return closeFn, nil
}

func runTUI(ctx context.Context, eng *engine.Engine, cfg *config.Config, opts RunOptions) error {
	model := view.NewModel(eng, view.Options{FrameInterval: cfg.FrameInterval})

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !opts.NoAltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(model, progOpts...)
	if _, err := p.Run(); err != nil {
		// Interrupts and --duration end the program through ctx.
		if ctx.Err() != nil {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrRender,
			"The chart overlay stopped unexpectedly",
			"Try --text to print summaries instead")
	}
	return nil
}

// snapshotter is the part of the engine text mode needs.
type snapshotter interface {
	Snapshots() []chart.Snapshot
}

// runText prints a text summary every interval until ctx is done, then
// prints a final one.
func runText(ctx context.Context, w io.Writer, src snapshotter, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_, err := fmt.Fprint(w, view.RenderText(time.Now(), src.Snapshots()))
			return err
		case at := <-ticker.C:
			if _, err := fmt.Fprint(w, view.RenderText(at, src.Snapshots())); err != nil {
				return err
			}
		}
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
