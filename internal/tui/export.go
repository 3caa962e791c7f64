package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/notionmd/internal/export"
	"github.com/gerunddev/notionmd/internal/styles"
)

// PageDoneMsg is sent after each page of a multi-page export
type PageDoneMsg struct {
	PageID string
	Result *export.Result
	Err    error
}

// ExportDoneMsg is sent when the whole export completes
type ExportDoneMsg struct {
	Summary *export.Summary
}

// exportModel is the Bubble Tea model for the export progress display
type exportModel struct {
	spinner  spinner.Model
	total    int
	done     int
	current  string
	dryRun   bool
	lines    []string
	complete bool
	summary  *export.Summary
}

// InitExportModel creates a new export progress model for total pages
func InitExportModel(total int, dryRun bool) exportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return exportModel{
		spinner: s,
		total:   total,
		dryRun:  dryRun,
		current: "Fetching pages...",
	}
}

func (m exportModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m exportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case PageDoneMsg:
		m.done++
		m.lines = append(m.lines, pageLine(msg, m.dryRun))
		m.current = fmt.Sprintf("Exported %d of %d", m.done, m.total)
		return m, nil

	case ExportDoneMsg:
		m.complete = true
		m.summary = msg.Summary
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m exportModel) View() string {
	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if !m.complete {
		b.WriteString(fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.current))
		return b.String()
	}

	s := m.summary
	duration := s.EndTime.Sub(s.StartTime).Round(time.Millisecond)
	b.WriteString("\n")
	if s.Exported() == 0 && len(s.Failures) == 0 {
		b.WriteString(styles.SuccessStyle.Render("✓ Everything up to date"))
	} else {
		verb := "Exported"
		if m.dryRun {
			verb = "Would export"
		}
		b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("✓ %s %d page(s)", verb, s.Exported())))
		if s.Skipped() > 0 {
			b.WriteString(", " + styles.DimStyle.Render(fmt.Sprintf("%d unchanged", s.Skipped())))
		}
		if len(s.Failures) > 0 {
			b.WriteString(", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(s.Failures))))
		}
	}
	b.WriteString("\n" + styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", duration)) + "\n")
	return b.String()
}

func pageLine(msg PageDoneMsg, dryRun bool) string {
	id := styles.IDStyle.Render(styles.ShortID(msg.PageID))
	if msg.Err != nil {
		return fmt.Sprintf("  %s %s %s", styles.ErrorStyle.Render("✗"), id, msg.Err.Error())
	}

	r := msg.Result
	switch {
	case r.Skipped:
		return fmt.Sprintf("  %s %s %s", styles.DimStyle.Render("·"), id, styles.DimStyle.Render(r.Title+" (unchanged)"))
	case dryRun && r.Diff == "":
		return fmt.Sprintf("  %s %s %s", styles.DimStyle.Render("="), id, r.Title)
	case dryRun:
		return fmt.Sprintf("  %s %s %s", styles.InfoStyle.Render("~"), id, r.Title)
	}

	line := fmt.Sprintf("  %s %s %s → %s", styles.SuccessStyle.Render("✓"), id, r.Title, styles.DimStyle.Render(r.Path))
	if r.Unsupported > 0 {
		line += " " + styles.WarningStyle.Render(fmt.Sprintf("(%d unsupported)", r.Unsupported))
	}
	return line
}
