// Package daemon tracks the background watch process through a small JSON
// file recording its PID and what it watches.
package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/adrg/xdg"
)

// ErrNotRunning is returned when no watcher file exists
var ErrNotRunning = errors.New("watcher not running")

// PIDFile returns the path to the watcher file.
// Can be overridden for testing
var PIDFile = func() string {
	return filepath.Join(xdg.StateHome, "notionmd", "watch.pid")
}

// Watcher describes a running watch process
type Watcher struct {
	PID      int           `json:"pid"`
	Started  time.Time     `json:"started"`
	Interval time.Duration `json:"interval"`
	Pages    []string      `json:"pages"`
}

// Register records the current process as the watcher of pages
func Register(interval time.Duration, pages []string) error {
	w := Watcher{
		PID:      os.Getpid(),
		Started:  time.Now().UTC().Truncate(time.Second),
		Interval: interval,
		Pages:    pages,
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal watcher: %w", err)
	}

	path := PIDFile()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Read loads the watcher file without checking the process
func Read() (*Watcher, error) {
	data, err := os.ReadFile(PIDFile())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotRunning
		}
		return nil, fmt.Errorf("failed to read PID file: %w", err)
	}

	var w Watcher
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse PID file: %w", err)
	}
	if w.PID <= 0 {
		return nil, fmt.Errorf("invalid PID %d in PID file", w.PID)
	}
	return &w, nil
}

// Unregister removes the watcher file
func Unregister() error {
	if err := os.Remove(PIDFile()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// Running returns the live watcher, if any. A file left behind by a dead or
// unreadable watcher is removed.
func Running() (*Watcher, bool) {
	w, err := Read()
	if errors.Is(err, ErrNotRunning) {
		return nil, false
	}
	if err == nil && alive(w.PID) {
		return w, true
	}

	if cleanupErr := Unregister(); cleanupErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to remove stale PID file: %v\n", cleanupErr)
	}
	return nil, false
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 only checks that the process exists
	return process.Signal(syscall.Signal(0)) == nil
}

// Stop asks the running watcher to shut down with SIGTERM
func Stop() error {
	w, ok := Running()
	if !ok {
		return ErrNotRunning
	}

	process, err := os.FindProcess(w.PID)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}
	return nil
}

// Start re-runs the current executable with args as a detached process
func Start(args []string) error {
	if w, ok := Running(); ok {
		return fmt.Errorf("watcher already running with PID %d", w.PID)
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	// nil stdio detaches the child from this terminal
	cmd := exec.Command(executable, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("failed to release watcher process: %w", err)
	}
	return nil
}
