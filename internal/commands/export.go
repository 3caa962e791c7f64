package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/notionmd/internal/client"
	"github.com/gerunddev/notionmd/internal/config"
	"github.com/gerunddev/notionmd/internal/diff"
	"github.com/gerunddev/notionmd/internal/export"
	"github.com/gerunddev/notionmd/internal/preview"
	"github.com/gerunddev/notionmd/internal/styles"
	"github.com/gerunddev/notionmd/internal/tui"
)

const previewWidth = 100

// Export performs a one-shot export of the given pages, or of the
// configured watch list when none are given.
func Export(args []string) {
	a, err := parseArgs(args, "--format")
	if err != nil {
		fail("Invalid arguments", err)
	}
	dryRun := a.has("--dry-run")

	cfg := loadConfig()
	if f := a.value("--format"); f != "" {
		cfg.Format = normalizeFormat(f)
		if err := cfg.Validate(); err != nil {
			fail("Invalid arguments", err)
		}
	}
	if err := cfg.RequireToken(); err != nil {
		fail("Missing token", err)
	}

	ids := a.positional
	if len(ids) == 0 {
		ids = cfg.Pages
	}
	if len(ids) == 0 {
		fail("No pages to export", fmt.Errorf("pass page IDs or add them to \"pages\" in %s", config.ConfigPath()))
	}

	st := loadState()
	log, cleanup := setupLogger(cfg)
	defer cleanup()

	if dryRun {
		fmt.Println(styles.TitleStyle.Render("notionmd Export (DRY RUN)"))
	} else {
		fmt.Println(styles.TitleStyle.Render("notionmd Export"))
	}
	fmt.Println(styles.DimStyle.Render("→ " + cfg.OutputDir))
	if dryRun {
		fmt.Println(styles.DimStyle.Render("(dry run - no files will be modified)"))
	}
	fmt.Println()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exp := export.NewExporter(cfg, client.NewFromConfig(cfg, log), st, log)

	m := tui.InitExportModel(len(ids), dryRun)
	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithContext(ctx))

	var summary *export.Summary
	done := make(chan struct{})
	go func() {
		defer close(done)
		summary = exp.ExportAll(ctx, ids, export.Options{
			DryRun: dryRun,
			Force:  a.has("--force"),
			Progress: func(pageID string, result *export.Result, err error) {
				p.Send(tui.PageDoneMsg{PageID: pageID, Result: result, Err: err})
			},
		})
		p.Send(tui.ExportDoneMsg{Summary: summary})
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ Error: "+err.Error()))
	}
	cancel()
	<-done

	if dryRun {
		for _, r := range summary.Results {
			if r.Diff == "" {
				continue
			}
			fmt.Println(styles.HeaderStyle.Render(r.Title) + " " + styles.DimStyle.Render(r.Path))
			fmt.Println(diff.Render(r.Diff, previewWidth))
		}
		return
	}

	if err := st.Save(config.StateFilePath()); err != nil {
		log.StateError("save", err)
		fail("Error saving state", err)
	}
	if len(summary.Failures) > 0 {
		os.Exit(1)
	}
}

// Preview renders a page in the terminal without writing anything
func Preview(args []string) {
	a, err := parseArgs(args, "--width")
	if err != nil {
		fail("Invalid arguments", err)
	}
	if len(a.positional) != 1 {
		fail("Usage: notionmd preview <page-id> [--raw] [--width N]", nil)
	}

	width := previewWidth
	if w := a.value("--width"); w != "" {
		if _, err := fmt.Sscanf(w, "%d", &width); err != nil || width <= 0 {
			fail("Invalid width "+w, nil)
		}
	}

	cfg := loadConfig()
	if err := cfg.RequireToken(); err != nil {
		fail("Missing token", err)
	}
	log, cleanup := setupLogger(cfg)
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exp := export.NewExporter(cfg, client.NewFromConfig(cfg, log), nil, log)
	md, err := exp.Preview(ctx, a.positional[0])
	if err != nil {
		fail("Preview failed", err)
	}

	if a.has("--raw") {
		fmt.Print(md)
		return
	}
	rendered, err := preview.Terminal(md, width)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(rendered)
}
