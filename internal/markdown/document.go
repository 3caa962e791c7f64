package markdown

import (
	"strings"

	"github.com/gerunddev/notionmd/internal/notion"
)

// RenderDocument renders blocks in document order and joins the present
// fragments. Absent blocks contribute nothing.
func RenderDocument(blocks []notion.Block, s Settings) string {
	return renderBlocks(blocks, s).OrEmpty()
}

// renderBlocks joins fragments with a blank line, except consecutive list
// items of the same kind, which stay on adjacent lines.
func renderBlocks(blocks []notion.Block, s Settings) Fragment {
	var sb strings.Builder
	var prev notion.BlockKind
	present := false
	for _, b := range blocks {
		text, ok := RenderBlock(b, s).Value()
		if !ok {
			continue
		}
		if present {
			if isListItem(prev) && prev == b.Kind() {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(text)
		prev = b.Kind()
		present = true
	}
	if !present {
		return None()
	}
	return Some(sb.String())
}

func isListItem(kind notion.BlockKind) bool {
	switch kind {
	case notion.KindBulletedListItem, notion.KindNumberedListItem, notion.KindToDo, notion.KindToggle:
		return true
	}
	return false
}
