package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/notionmd/internal/config"
	"github.com/gerunddev/notionmd/internal/daemon"
	"github.com/gerunddev/notionmd/internal/export"
	"github.com/gerunddev/notionmd/internal/preview"
	"github.com/gerunddev/notionmd/internal/tui"
)

// Browse shows all exported pages in an interactive browser
func Browse() {
	st := loadState()

	m := tui.InitBrowseModel(previewFile)
	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithAltScreen())

	go p.Send(tui.BrowseMsg{Data: &tui.BrowseData{Pages: pageInfos(st)}})

	if _, err := p.Run(); err != nil {
		fail("Error", err)
	}
}

// previewFile renders an exported file for the terminal. HTML exports
// are shown as source.
func previewFile(path string, width int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if filepath.Ext(path) == ".html" {
		return string(data), nil
	}
	return preview.Terminal(export.StripFrontMatter(string(data)), width)
}

// Status prints the configuration, the export state and local drift
func Status() {
	cfg := loadConfig()
	st := loadState()

	pages := pageInfos(st)
	data := &tui.StatusData{
		ConfigPath:   config.ConfigPath(),
		OutputDir:    cfg.OutputDir,
		Format:       cfg.Format,
		Interval:     cfg.Interval,
		WatchedPages: len(cfg.Pages),
		Exported:     pages,
		Modified:     modifiedPages(st, pages),
		LastExport:   st.LastExport(),
		Now:          time.Now(),
	}

	if w, ok := daemon.Running(); ok {
		data.WatchPID = w.PID
		data.WatchStarted = w.Started
		data.WatchInterval = w.Interval
		data.WatchPages = len(w.Pages)
	}

	if cfg.LogFile != "" {
		if _, last, count := ParseLogFile(cfg.LogFile, 1); !last.IsZero() {
			data.LastExport = last
			data.LastCount = count
		}
	}

	fmt.Print(tui.RenderStatus(data))
}
