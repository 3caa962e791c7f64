package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gerunddev/notionmd/internal/client"
	"github.com/gerunddev/notionmd/internal/config"
	"github.com/gerunddev/notionmd/internal/diff"
	"github.com/gerunddev/notionmd/internal/logger"
	"github.com/gerunddev/notionmd/internal/markdown"
	"github.com/gerunddev/notionmd/internal/notion"
	"github.com/gerunddev/notionmd/internal/preview"
	"github.com/gerunddev/notionmd/internal/state"
)

// PageSource fetches the raw records of a page and its block tree
type PageSource interface {
	GetPage(ctx context.Context, id string) (notion.Record, error)
	FetchBlockTree(ctx context.Context, id string) ([]any, error)
}

// Options control a single export
type Options struct {
	DryRun bool // render and diff, write nothing
	Force  bool // export even when the page is unchanged

	// Progress is called by ExportAll after every page
	Progress func(pageID string, result *Result, err error)
}

// Result describes one exported page
type Result struct {
	PageID      string
	Title       string
	Path        string
	Blocks      int
	Unsupported int
	Skipped     bool
	Diff        string // unified diff, dry runs only
}

// Failure is a page that could not be exported
type Failure struct {
	PageID string
	Err    error
}

// Summary is the outcome of exporting several pages
type Summary struct {
	Results   []*Result
	Failures  []Failure
	StartTime time.Time
	EndTime   time.Time
}

// Exported returns how many pages were written (or would be, for dry runs)
func (s *Summary) Exported() int {
	n := 0
	for _, r := range s.Results {
		if !r.Skipped {
			n++
		}
	}
	return n
}

// Skipped returns how many pages were unchanged
func (s *Summary) Skipped() int {
	return len(s.Results) - s.Exported()
}

// Exporter turns pages into Markdown or HTML files in the output directory
type Exporter struct {
	source    PageSource
	state     *state.State
	log       *logger.Logger
	outputDir string
	format    string
	settings  markdown.Settings
}

// NewExporter creates a new exporter instance
func NewExporter(cfg *config.Config, source PageSource, st *state.State, log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.Discard()
	}
	return &Exporter{
		source:    source,
		state:     st,
		log:       log,
		outputDir: cfg.OutputDir,
		format:    cfg.Format,
		settings:  markdown.Settings{Indent: cfg.Indent, Links: cfg.Links},
	}
}

// ExportAll exports every page in order. A failing page is recorded and
// the remaining pages are still exported.
func (e *Exporter) ExportAll(ctx context.Context, pageIDs []string, opts Options) *Summary {
	summary := &Summary{StartTime: time.Now()}
	e.log.ExportStarted(len(pageIDs), e.outputDir)

	for _, id := range pageIDs {
		if ctx.Err() != nil {
			summary.Failures = append(summary.Failures, Failure{PageID: id, Err: ctx.Err()})
			continue
		}
		result, err := e.Export(ctx, id, opts)
		if opts.Progress != nil {
			opts.Progress(id, result, err)
		}
		if err != nil {
			summary.Failures = append(summary.Failures, Failure{PageID: id, Err: err})
			continue
		}
		summary.Results = append(summary.Results, result)
	}

	summary.EndTime = time.Now()
	e.log.ExportCompleted(summary.Exported(), summary.Skipped(), len(summary.Failures), summary.EndTime.Sub(summary.StartTime))
	return summary
}

// Export fetches, decodes, renders and writes a single page
func (e *Exporter) Export(ctx context.Context, pageID string, opts Options) (*Result, error) {
	uid, err := client.ParseID(pageID)
	if err != nil {
		return nil, err
	}
	id := uid.String()

	rec, err := e.source.GetPage(ctx, id)
	if err != nil {
		e.log.FetchError("page "+id, err)
		return nil, fmt.Errorf("failed to fetch page %s: %w", id, err)
	}
	page, err := notion.DecodePage(rec)
	if err != nil {
		e.log.DecodeFailed(id, err)
		return nil, fmt.Errorf("failed to decode page %s: %w", id, err)
	}

	result := &Result{
		PageID: id,
		Title:  title(page),
		Path:   filepath.Join(e.outputDir, FileName(page, e.format)),
	}

	if !opts.Force && !opts.DryRun {
		changed, err := e.state.HasChanged(id, page.LastEditedTime)
		if err != nil {
			e.log.StateError("check", err)
			changed = true
		}
		if !changed && !e.state.Expired(id, time.Now()) {
			e.log.PageSkipped(id, "unchanged")
			result.Skipped = true
			return result, nil
		}
	}

	blocks, tree, err := e.fetchBlocks(ctx, id)
	if err != nil {
		return nil, err
	}
	result.Blocks = tree.Len()
	files := page.Files()
	tree.Walk(func(b notion.Block, _ int) bool {
		if u, ok := b.(*notion.Unsupported); ok {
			e.log.UnsupportedBlock(id, u.ID.String(), u.Type)
			result.Unsupported++
		}
		files = append(files, notion.BlockFiles(b)...)
		return true
	})
	expires, _ := notion.EarliestExpiry(files)

	content, err := e.Render(page, blocks)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		result.Diff, err = diff.Generate(result.Path, content)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := e.write(id, result.Path, content); err != nil {
		return nil, err
	}
	if err := e.state.Update(id, result.Title, result.Path, page.LastEditedTime, expires); err != nil {
		e.log.StateError("update", err)
		return nil, fmt.Errorf("failed to record export of %s: %w", id, err)
	}

	e.log.PageExported(id, result.Title, result.Path, result.Blocks)
	return result, nil
}

// Preview renders a page as Markdown without touching the output directory
func (e *Exporter) Preview(ctx context.Context, pageID string) (string, error) {
	uid, err := client.ParseID(pageID)
	if err != nil {
		return "", err
	}
	id := uid.String()

	rec, err := e.source.GetPage(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page %s: %w", id, err)
	}
	page, err := notion.DecodePage(rec)
	if err != nil {
		return "", fmt.Errorf("failed to decode page %s: %w", id, err)
	}
	blocks, _, err := e.fetchBlocks(ctx, id)
	if err != nil {
		return "", err
	}
	return Body(page, blocks, e.settings), nil
}

// Render produces the file content for a page in the configured format
func (e *Exporter) Render(page *notion.Page, blocks []notion.Block) (string, error) {
	body := Body(page, blocks, e.settings)

	if e.format == config.FormatHTML {
		html, err := preview.HTML(body)
		if err != nil {
			return "", err
		}
		return preview.Document(title(page), html), nil
	}

	fm, err := FrontMatterOf(page).Marshal()
	if err != nil {
		return "", err
	}
	return fm + "\n" + body, nil
}

// Body renders the title heading followed by the page content
func Body(page *notion.Page, blocks []notion.Block, settings markdown.Settings) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(title(page))
	sb.WriteString("\n")
	if content := markdown.RenderDocument(blocks, settings); content != "" {
		sb.WriteString("\n")
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (e *Exporter) fetchBlocks(ctx context.Context, id string) ([]notion.Block, *notion.Tree, error) {
	items, err := e.source.FetchBlockTree(ctx, id)
	if err != nil {
		e.log.FetchError("blocks "+id, err)
		return nil, nil, fmt.Errorf("failed to fetch blocks of %s: %w", id, err)
	}
	blocks, err := notion.DecodeBlocks(items)
	if err != nil {
		e.log.DecodeFailed(id, err)
		return nil, nil, fmt.Errorf("failed to decode blocks of %s: %w", id, err)
	}
	return blocks, notion.NewTree(blocks), nil
}

// write stores content at path and removes the page's previous file when
// a title change moved it.
func (e *Exporter) write(id, path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if prev, ok := e.state.Pages[id]; ok && prev.Path != "" && prev.Path != path {
		if err := os.Remove(prev.Path); err != nil && !os.IsNotExist(err) {
			e.log.Warn("failed to remove previous export", "path", prev.Path, "error", err)
		}
	}
	return nil
}

func title(page *notion.Page) string {
	if t := strings.TrimSpace(page.Title()); t != "" {
		return t
	}
	return "Untitled"
}
