package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified returns a unified diff turning oldText into newText. Identical
// inputs produce "".
func Unified(oldName, newName, oldText, newText string) string {
	if oldText == newText {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(oldName), oldText, newText)
	return fmt.Sprint(gotextdiff.ToUnified(oldName, newName, oldText, edits))
}

// Generate diffs the file at path against a fresh export. A missing file
// diffs as empty, so a first export shows every line as added.
func Generate(path, fresh string) (string, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read existing export: %w", err)
	}

	name := filepath.Base(path)
	return Unified(name+" (on disk)", name+" (fresh)", string(existing), fresh), nil
}

// Render wraps a unified diff in a diff code fence and renders it for the
// terminal. Rendering failures fall back to the plain fenced diff.
func Render(unified string, width int) string {
	if unified == "" {
		return ""
	}
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown
	}

	return rendered
}
