package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/notionmd/internal/client"
	"github.com/gerunddev/notionmd/internal/config"
	"github.com/gerunddev/notionmd/internal/daemon"
	"github.com/gerunddev/notionmd/internal/export"
	"github.com/gerunddev/notionmd/internal/logger"
	"github.com/gerunddev/notionmd/internal/state"
	"github.com/gerunddev/notionmd/internal/styles"
	"github.com/gerunddev/notionmd/internal/tui"
)

// Watch re-exports the watched pages on every interval. By default it
// shows a live dashboard until the user quits; --headless runs without a
// terminal (as a service does) and --detach starts a headless watcher in
// the background.
func Watch(args []string) {
	a, err := parseArgs(args, "--interval")
	if err != nil {
		fail("Invalid arguments", err)
	}

	if a.has("--detach") {
		detach(a)
		return
	}

	cfg := loadConfig()
	if v := a.value("--interval"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil || interval <= 0 {
			fail("Invalid interval "+v, err)
		}
		cfg.Interval = interval
	}
	if err := cfg.RequireToken(); err != nil {
		fail("Missing token", err)
	}

	ids := a.positional
	if len(ids) == 0 {
		ids = cfg.Pages
	}
	if len(ids) == 0 {
		fail("No pages to watch", fmt.Errorf("pass page IDs or add them to \"pages\" in %s", config.ConfigPath()))
	}

	if running, ok := daemon.Running(); ok {
		fail(fmt.Sprintf("Watcher already running with PID %d", running.PID), nil)
	}
	if err := daemon.Register(cfg.Interval, ids); err != nil {
		fail("Error writing PID file", err)
	}
	defer func() {
		if err := daemon.Unregister(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove PID file on shutdown: %v\n", err)
		}
	}()

	st := loadState()
	log, cleanup := setupLogger(cfg)
	defer cleanup()

	log.Info("watch started",
		"pid", os.Getpid(),
		"pages", len(ids),
		"interval", cfg.Interval)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exp := export.NewExporter(cfg, client.NewFromConfig(cfg, log), st, log)
	w := &watcher{
		exporter: exp,
		state:    st,
		log:      log,
		ids:      ids,
		interval: cfg.Interval,
	}

	if a.has("--headless") {
		w.run(ctx, nil)
		log.Info("watch shutdown complete")
		return
	}

	m := tui.InitWatchModel()
	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithContext(ctx))

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.run(ctx, func(data tui.WatchData) {
			if cfg.LogFile != "" {
				data.LogLines, _, _ = ParseLogFile(cfg.LogFile, 10)
			}
			p.Send(tui.WatchMsg{Data: &data})
		})
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ Error: "+err.Error()))
	}

	cancel()
	<-done
	log.Info("watch shutdown complete")
}

// watcher runs export cycles on a ticker
type watcher struct {
	exporter *export.Exporter
	state    *state.State
	log      *logger.Logger
	ids      []string
	interval time.Duration
}

// run exports until ctx is done, reporting each state change to update
// when it is non-nil.
func (w *watcher) run(ctx context.Context, update func(tui.WatchData)) {
	data := tui.WatchData{
		Interval:  w.interval,
		Pages:     len(w.ids),
		StartTime: time.Now(),
	}
	report := func() {
		if update != nil {
			update(data)
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		data.Running = true
		report()

		summary := w.exporter.ExportAll(ctx, w.ids, export.Options{})
		if err := w.state.Save(config.StateFilePath()); err != nil {
			w.log.StateError("save", err)
		}

		data.Running = false
		data.Cycles++
		data.LastRun = summary.EndTime
		data.NextRun = summary.EndTime.Add(w.interval)
		data.Exported = summary.Exported()
		data.Skipped = summary.Skipped()
		data.Failed = len(summary.Failures)
		report()

		select {
		case <-ticker.C:
		case <-ctx.Done():
			w.log.Info("watch loop stopping")
			return
		}
	}
}

// detach starts a headless watcher in the background
func detach(a cliArgs) {
	watchArgs := []string{"watch", "--headless"}
	if v := a.value("--interval"); v != "" {
		watchArgs = append(watchArgs, "--interval", v)
	}
	watchArgs = append(watchArgs, a.positional...)

	if err := daemon.Start(watchArgs); err != nil {
		fail("Failed to start watcher", err)
	}

	// Give it a moment to write its PID file
	time.Sleep(500 * time.Millisecond)

	running, ok := daemon.Running()
	if !ok {
		fail("Watcher failed to start", fmt.Errorf("see the log file for details"))
	}
	fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("✓ Watcher started with PID %d", running.PID)))
	fmt.Println(styles.DimStyle.Render("  Run 'notionmd stop' to stop it"))
}

// Stop stops a background watcher
func Stop() {
	running, ok := daemon.Running()
	if !ok {
		fmt.Println(styles.DimStyle.Render("Watcher is not running"))
		return
	}

	fmt.Printf("Stopping watcher (PID %d)...\n", running.PID)
	if err := daemon.Stop(); err != nil {
		fail("Failed to stop watcher", err)
	}

	for i := 0; i < 10; i++ {
		time.Sleep(500 * time.Millisecond)
		if _, ok = daemon.Running(); !ok {
			break
		}
	}
	if ok {
		fail("Watcher did not stop gracefully", nil)
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Watcher stopped"))
}
