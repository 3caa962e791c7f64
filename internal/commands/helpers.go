package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gerunddev/notionmd/internal/config"
	"github.com/gerunddev/notionmd/internal/logger"
	"github.com/gerunddev/notionmd/internal/state"
	"github.com/gerunddev/notionmd/internal/styles"
	"github.com/gerunddev/notionmd/internal/tui"
)

// cliArgs holds positional arguments and --flags of a command
type cliArgs struct {
	positional []string
	flags      map[string]string
}

// parseArgs splits args into positionals and flags. Flags named in
// valueFlags take the following argument as their value; any other flag
// is a boolean switch.
func parseArgs(args []string, valueFlags ...string) (cliArgs, error) {
	a := cliArgs{flags: make(map[string]string)}
	takesValue := make(map[string]bool, len(valueFlags))
	for _, f := range valueFlags {
		takesValue[f] = true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			a.positional = append(a.positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		if takesValue[name] && !hasValue {
			if i+1 >= len(args) {
				return a, fmt.Errorf("%s requires a value", name)
			}
			i++
			value = args[i]
		}
		a.flags[name] = value
	}
	return a, nil
}

func (a cliArgs) has(name string) bool {
	_, ok := a.flags[name]
	return ok
}

func (a cliArgs) value(name string) string {
	return a.flags[name]
}

// normalizeFormat accepts the short "md" alias for markdown
func normalizeFormat(f string) string {
	switch strings.ToLower(f) {
	case "md", config.FormatMarkdown:
		return config.FormatMarkdown
	default:
		return strings.ToLower(f)
	}
}

// fail prints a styled error and exits
func fail(msg string, err error) {
	if err != nil {
		msg += ": " + err.Error()
	}
	fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+msg))
	os.Exit(1)
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fail("Error loading config", err)
	}
	return cfg
}

func loadState() *state.State {
	st, err := state.Load(config.StateFilePath())
	if err != nil {
		fail("Error loading state", err)
	}
	return st
}

// setupLogger opens the configured log file, falling back to a discarding
// logger when it cannot be opened.
func setupLogger(cfg *config.Config) (*logger.Logger, func()) {
	if cfg.LogFile == "" {
		return logger.Discard(), func() {}
	}
	l, cleanup, err := logger.NewFileLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("Warning: cannot open log file: "+err.Error()))
		return logger.Discard(), func() {}
	}
	l.ConfigLoaded(cfg.OutputDir, cfg.Format, cfg.Interval)
	return l, cleanup
}

// pageInfos lists the exported pages recorded in the state file
func pageInfos(st *state.State) []tui.PageInfo {
	entries := st.Sorted()
	pages := make([]tui.PageInfo, 0, len(entries))
	for _, e := range entries {
		_, err := os.Stat(e.Path)
		pages = append(pages, tui.PageInfo{
			ID:         e.ID,
			Title:      e.Title,
			Path:       e.Path,
			LastEdited: e.LastEdited,
			ExportedAt: e.ExportedAt,
			Missing:    os.IsNotExist(err),
		})
	}
	return pages
}

// modifiedPages returns the pages whose exported file was edited locally
func modifiedPages(st *state.State, pages []tui.PageInfo) []tui.PageInfo {
	var modified []tui.PageInfo
	for _, p := range pages {
		if p.Missing {
			continue
		}
		if changed, err := st.HasChanged(p.ID, p.LastEdited); err == nil && changed {
			modified = append(modified, p)
		}
	}
	return modified
}

// ParseLogFile reads the last N lines from the log file and extracts the
// time and page count of the most recent completed export.
func ParseLogFile(logPath string, maxLines int) ([]string, time.Time, int) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return []string{"Unable to read log file"}, time.Time{}, 0
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	var lastExport time.Time
	pagesExported := 0

	// Search the whole file: the last completed export may be older than
	// the tail.
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !strings.Contains(line, "export completed") {
			continue
		}
		// Format: 2025-11-27 14:11:57 INFO export completed pages_exported=3 ...
		if len(line) > 19 {
			if t, err := time.ParseInLocation(time.DateTime, line[:19], time.Local); err == nil {
				lastExport = t
			}
		}
		if idx := strings.Index(line, "pages_exported="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx:], "pages_exported=%d", &pagesExported) //nolint:errcheck // best effort parsing
		}
		break
	}

	return recentLines, lastExport, pagesExported
}
