package markdown

import (
	"strings"

	"github.com/gerunddev/notionmd/internal/notion"
)

// Emphasis markers, applied per run. Bold and italic emit single and double
// asterisks respectively so adjacent bold and italic runs render as
// "*a ***b**".
const (
	strikethroughMarker = "~~"
	boldMarker          = "*"
	italicMarker        = "**"
	codeMarker          = "`"
	equationMarker      = "$"
)

// RenderRichText renders one run. Markers nest, outer to inner, as
// strikethrough, bold, italic, code. Underline and color have no Markdown
// form and are dropped.
func RenderRichText(rt notion.RichText, s Settings) Fragment {
	if rt == nil {
		return None()
	}
	base := rt.Base()
	text := base.PlainText
	if text == "" {
		return Some("")
	}

	if _, ok := rt.(*notion.InlineEquation); ok {
		text = wrap(text, equationMarker)
	}

	a := base.Annotations
	if a.Code {
		text = wrap(text, codeMarker)
	}
	if a.Italic {
		text = wrap(text, italicMarker)
	}
	if a.Bold {
		text = wrap(text, boldMarker)
	}
	if a.Strikethrough {
		text = wrap(text, strikethroughMarker)
	}

	if s.Links {
		if url := linkOf(rt); url != "" {
			text = "[" + text + "](" + url + ")"
		}
	}
	return Some(text)
}

// RenderRichTexts concatenates the runs without separators. No runs is
// absent.
func RenderRichTexts(runs []notion.RichText, s Settings) Fragment {
	if len(runs) == 0 {
		return None()
	}
	var sb strings.Builder
	for _, rt := range runs {
		sb.WriteString(RenderRichText(rt, s).OrEmpty())
	}
	return Some(sb.String())
}

func wrap(text, marker string) string {
	return marker + text + marker
}

func linkOf(rt notion.RichText) string {
	switch rt := rt.(type) {
	case *notion.Text:
		if rt.Link != "" {
			return rt.Link
		}
	case *notion.InlineEquation:
		return ""
	}
	return rt.Base().Href
}
