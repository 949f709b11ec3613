package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/asheshgoplani/amp-status/internal/config"
	"github.com/asheshgoplani/amp-status/internal/ingest"
	"github.com/asheshgoplani/amp-status/internal/journal"
	"github.com/asheshgoplani/amp-status/internal/logging"
	"github.com/asheshgoplani/amp-status/internal/render"
	"github.com/asheshgoplani/amp-status/internal/status"
)

// exitEmergency is returned after a triple Ctrl+C forces the exit,
// matching the conventional 128+SIGINT code.
const exitEmergency = 130

// runIndicator is the main event loop shared by "run" and "hook-handler".
// fromStdin selects NDJSON-on-stdin as the event source instead of the
// events directory watcher.
func runIndicator(fromStdin bool) int {
	cfg, cfgErr := config.Load()
	dir, dirErr := config.Dir()

	initLogging(cfg, dir, dirErr)
	defer logging.Shutdown()

	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "amp-status: %v (using defaults)\n", cfgErr)
		logging.ForComponent(logging.CompConfig).Warn("config_load_failed",
			slog.String("error", cfgErr.Error()))
	}

	tracker := status.NewTracker(nil)
	escalator := status.NewEscalator()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ctrl+C never kills the process directly: each SIGINT is one escalation
	// pulse, and only the third within the window forces the exit.
	var emergency atomic.Bool
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			escalator.Pulse(time.Now())
			if escalator.ConsumeEmergency() {
				emergency.Store(true)
				cancel()
				return
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	var events <-chan status.Event
	if fromStdin {
		src := ingest.NewStdinReader(os.Stdin)
		events = src.Events()
		g.Go(func() error { return src.Run(gctx) })
	} else {
		if dirErr != nil {
			fmt.Fprintf(os.Stderr, "amp-status: %v\n", dirErr)
			return 1
		}
		w, err := ingest.NewWatcher(filepath.Join(dir, "events"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "amp-status: %v\n", err)
			return 1
		}
		events = w.Events()
		g.Go(func() error { return w.Run(gctx) })
	}

	g.Go(func() error { return ingest.NewIngestor(events, tracker).Run(gctx) })

	out := os.Stderr
	if config.StatusDisabled() || !render.SupportsStatusLine(out) {
		g.Go(func() error {
			defer cancel()
			return waitTerminal(gctx, tracker, cfg.Indicator.UpdateInterval())
		})
	} else {
		loop := buildRenderLoop(cfg, tracker, escalator, out)
		g.Go(func() error {
			defer cancel()
			return loop.Run(gctx)
		})
	}

	err := g.Wait()

	if cfg.Journal.Enabled && dirErr == nil {
		recordSession(tracker.Snapshot(), filepath.Join(dir, "journal.db"))
	}

	if emergency.Load() {
		return exitEmergency
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "amp-status: %v\n", err)
		return 1
	}
	return 0
}

// initLogging wires slog. Logs are discarded unless AMP_STATUS_DEBUG is set:
// the indicator shares a terminal with the host and must not spray log lines
// over it.
func initLogging(cfg *config.Config, dir string, dirErr error) {
	if os.Getenv("AMP_STATUS_DEBUG") == "" || dirErr != nil {
		logging.Init(logging.Config{})
		return
	}

	logCfg := logging.Config{
		LogDir:     dir,
		Level:      "debug",
		Format:     "json",
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 10,
		Compress:   true,
	}

	ls := cfg.Logs
	if ls.DebugLevel != "" {
		logCfg.Level = ls.DebugLevel
	}
	if ls.DebugFormat != "" {
		logCfg.Format = ls.DebugFormat
	}
	if ls.DebugMaxMB > 0 {
		logCfg.MaxSizeMB = ls.DebugMaxMB
	}
	if ls.DebugBackups > 0 {
		logCfg.MaxBackups = ls.DebugBackups
	}
	if ls.DebugRetentionDays > 0 {
		logCfg.MaxAgeDays = ls.DebugRetentionDays
	}

	logging.Init(logCfg)
}

// buildRenderLoop assembles the renderer, status line and loop from config.
func buildRenderLoop(cfg *config.Config, tracker *status.Tracker, escalator *status.Escalator, out *os.File) *render.Loop {
	disp := render.DisplayConfig{
		ShowTokens:    cfg.Indicator.GetShowTokens(),
		ShowElapsed:   cfg.Indicator.GetShowElapsed(),
		ColorsEnabled: lipgloss.ColorProfile() != termenv.Ascii,
		UnstickHint:   cfg.Indicator.GetEnableUnstickHint(),
		Spinner:       cfg.Indicator.Spinner,
		Theme:         render.ResolveTheme(cfg.GetTheme()),
		Width:         render.TerminalWidth(out, 80),
	}

	line := render.NewStatusLine(out, cfg.Indicator.GetPosition())

	return render.NewLoop(tracker, escalator, render.NewRenderer(disp), line, nil, render.LoopConfig{
		Interval: cfg.Indicator.UpdateInterval(),
		Thresholds: status.Thresholds{
			Default:   cfg.Indicator.StuckThreshold(),
			SlowTool:  cfg.Indicator.SlowToolThreshold(),
			SlowTools: cfg.Indicator.GetSlowTools(),
		},
	})
}

// waitTerminal is the renderless stand-in for the render loop: it only polls
// for the terminal state so the process still exits when the session ends.
func waitTerminal(ctx context.Context, tracker *status.Tracker, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if tracker.Snapshot().Terminal {
				return nil
			}
		}
	}
}

// recordSession appends one journal row for a finished session. Journal
// failures are logged, never fatal.
func recordSession(snap status.Snapshot, dbPath string) {
	if !snap.Terminal {
		return
	}

	j, err := journal.Open(dbPath)
	if err != nil {
		logging.ForComponent(logging.CompJournal).Warn("journal_open_failed",
			slog.String("error", err.Error()))
		return
	}
	defer j.Close()

	if err := j.Append(journal.EntryFromSnapshot(snap, time.Now())); err != nil {
		logging.ForComponent(logging.CompJournal).Warn("journal_append_failed",
			slog.String("error", err.Error()))
	}
}
