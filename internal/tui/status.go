package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gerunddev/notionmd/internal/styles"
)

// StatusData holds all the information for the status display
type StatusData struct {
	ConfigPath   string
	OutputDir    string
	Format       string
	Interval     time.Duration
	WatchedPages int
	// Watcher fields are zero when no watcher runs
	WatchPID      int
	WatchStarted  time.Time
	WatchInterval time.Duration
	WatchPages    int

	Exported   []PageInfo
	Modified   []PageInfo // edited locally since the last export
	LastExport time.Time  // from the log file
	LastCount  int
	Now        time.Time
}

// RenderStatus renders the status report printed by the status command
func RenderStatus(d *StatusData) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("notionmd Status"))
	b.WriteString("\n\n")

	b.WriteString(styles.HeaderStyle.Render("Configuration"))
	b.WriteString("\n")
	row(&b, "Config", d.ConfigPath)
	row(&b, "Output", d.OutputDir)
	row(&b, "Format", d.Format)
	row(&b, "Interval", d.Interval.String())
	row(&b, "Watching", fmt.Sprintf("%d page(s)", d.WatchedPages))
	if d.WatchPID > 0 {
		row(&b, "Watcher", styles.SuccessStyle.Render(fmt.Sprintf("● running (PID %d)", d.WatchPID)))
		detail := fmt.Sprintf("%d page(s) every %s", d.WatchPages, d.WatchInterval)
		if !d.WatchStarted.IsZero() {
			detail += fmt.Sprintf(", up %s", d.Now.Sub(d.WatchStarted).Round(time.Second))
		}
		b.WriteString(fmt.Sprintf("  %-9s %s\n", "", styles.DimStyle.Render(detail)))
	} else {
		row(&b, "Watcher", styles.DimStyle.Render("○ not running"))
	}
	b.WriteString("\n")

	b.WriteString(styles.HeaderStyle.Render("Exports"))
	b.WriteString("\n")
	row(&b, "Pages", fmt.Sprintf("%d", len(d.Exported)))
	if d.LastExport.IsZero() {
		row(&b, "Last run", styles.DimStyle.Render("never"))
	} else {
		ago := d.Now.Sub(d.LastExport).Round(time.Second)
		row(&b, "Last run", fmt.Sprintf("%s ago, %d page(s) exported", ago, d.LastCount))
	}
	b.WriteString("\n")

	var missing []PageInfo
	for _, p := range d.Exported {
		if p.Missing {
			missing = append(missing, p)
		}
	}

	if len(d.Modified) == 0 && len(missing) == 0 {
		b.WriteString(styles.SuccessStyle.Render("✓ All exported files match their last export"))
		b.WriteString("\n")
		return b.String()
	}

	for _, p := range d.Modified {
		b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			styles.WarningStyle.Render("~"),
			styles.IDStyle.Render(styles.ShortID(p.ID)),
			p.Title,
			styles.DimStyle.Render("(modified locally)")))
	}
	for _, p := range missing {
		b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			styles.ErrorStyle.Render("✗"),
			styles.IDStyle.Render(styles.ShortID(p.ID)),
			p.Title,
			styles.DimStyle.Render("(file missing)")))
	}
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("Run 'notionmd export --force <page-id>' to overwrite."))
	b.WriteString("\n")
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(fmt.Sprintf("  %-9s %s\n", label+":", value))
}
