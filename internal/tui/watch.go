package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/notionmd/internal/styles"
)

// WatchData holds the state of a running watch loop
type WatchData struct {
	Interval  time.Duration
	Pages     int
	StartTime time.Time
	Cycles    int
	Running   bool // an export cycle is in progress
	LastRun   time.Time
	NextRun   time.Time
	Exported  int
	Skipped   int
	Failed    int
	LogLines  []string
}

// WatchMsg is sent whenever the watch loop changes state
type WatchMsg struct {
	Data *WatchData
	Err  error
}

// TickMsg triggers a periodic redraw
type TickMsg time.Time

type watchModel struct {
	data  *WatchData
	err   error
	ready bool
	now   time.Time
}

// InitWatchModel creates a new watch dashboard model
func InitWatchModel() watchModel {
	return watchModel{now: time.Now()}
}

func (m watchModel) Init() tea.Cmd {
	return tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case TickMsg:
		m.now = time.Time(msg)
		return m, tick()

	case WatchMsg:
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("notionmd Watch"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("✗ Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	if !m.ready || m.data == nil {
		return b.String()
	}
	d := m.data

	b.WriteString(styles.HeaderStyle.Render("Watch Status"))
	b.WriteString("\n")
	if d.Running {
		b.WriteString(fmt.Sprintf("  Status:   %s\n", styles.InfoStyle.Render("● Exporting")))
	} else {
		b.WriteString(fmt.Sprintf("  Status:   %s\n", styles.SuccessStyle.Render("● Idle")))
	}
	b.WriteString(fmt.Sprintf("  Pages:    %d\n", d.Pages))
	b.WriteString(fmt.Sprintf("  Interval: %s\n", d.Interval))
	b.WriteString(fmt.Sprintf("  Uptime:   %s\n", m.now.Sub(d.StartTime).Round(time.Second)))
	b.WriteString("\n")

	b.WriteString(styles.HeaderStyle.Render("Last Export"))
	b.WriteString("\n")
	if d.LastRun.IsZero() {
		b.WriteString("  " + styles.DimStyle.Render("No export completed yet") + "\n")
	} else {
		b.WriteString(fmt.Sprintf("  Finished: %s ago\n", m.now.Sub(d.LastRun).Round(time.Second)))
		b.WriteString(fmt.Sprintf("  Cycles:   %d\n", d.Cycles))
		b.WriteString(fmt.Sprintf("  Result:   %s, %s",
			styles.SuccessStyle.Render(fmt.Sprintf("%d exported", d.Exported)),
			styles.DimStyle.Render(fmt.Sprintf("%d unchanged", d.Skipped))))
		if d.Failed > 0 {
			b.WriteString(", " + styles.ErrorStyle.Render(fmt.Sprintf("%d failed", d.Failed)))
		}
		b.WriteString("\n")
	}
	if !d.Running && !d.NextRun.IsZero() {
		wait := d.NextRun.Sub(m.now).Round(time.Second)
		if wait < 0 {
			wait = 0
		}
		b.WriteString(fmt.Sprintf("  Next run: in %s\n", wait))
	}
	b.WriteString("\n")

	b.WriteString(styles.HeaderStyle.Render("Recent Logs"))
	b.WriteString("\n")
	if len(d.LogLines) > 0 {
		for _, line := range d.LogLines {
			b.WriteString("  " + line + "\n")
		}
	} else {
		b.WriteString(styles.HelpStyle.Render("  No logs available"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.HelpStyle.Render("q quit"))
	b.WriteString("\n")

	return b.String()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
