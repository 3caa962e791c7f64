package markdown

import (
	"strings"

	"github.com/gerunddev/notionmd/internal/notion"
)

// layout decides how a block's children are placed beneath it.
type layout int

const (
	layoutIndent layout = iota // children indented by Settings.Indent
	layoutQuote                // children prefixed with "> "
	layoutFlat                 // children rendered in place, no indent
	layoutDrop                 // block and children render to nothing
)

type renderer struct {
	render func(b notion.Block, s Settings) Fragment
	layout layout
}

// renderers holds one entry per notion.BlockKind.
var renderers = map[notion.BlockKind]renderer{
	notion.KindParagraph: {render: func(b notion.Block, s Settings) Fragment {
		return RenderRichTexts(b.(*notion.Paragraph).Text, s)
	}},
	notion.KindHeading1: {render: func(b notion.Block, s Settings) Fragment {
		return heading(RenderRichTexts(b.(*notion.Heading1).Text, s), "# ")
	}},
	notion.KindHeading2: {render: func(b notion.Block, s Settings) Fragment {
		return heading(RenderRichTexts(b.(*notion.Heading2).Text, s), "## ")
	}},
	notion.KindHeading3: {render: func(b notion.Block, s Settings) Fragment {
		return heading(RenderRichTexts(b.(*notion.Heading3).Text, s), "### ")
	}},
	notion.KindBulletedListItem: {render: func(b notion.Block, s Settings) Fragment {
		return listItem(RenderRichTexts(b.(*notion.BulletedListItem).Text, s), "- ")
	}},
	notion.KindNumberedListItem: {render: func(b notion.Block, s Settings) Fragment {
		return listItem(RenderRichTexts(b.(*notion.NumberedListItem).Text, s), "1. ")
	}},
	notion.KindToDo: {render: func(b notion.Block, s Settings) Fragment {
		todo := b.(*notion.ToDo)
		box := "- [ ] "
		if todo.Checked {
			box = "- [x] "
		}
		return listItem(RenderRichTexts(todo.Text, s), box)
	}},
	notion.KindToggle: {render: func(b notion.Block, s Settings) Fragment {
		return listItem(RenderRichTexts(b.(*notion.Toggle).Text, s), "- ")
	}},
	notion.KindQuote: {
		render: func(b notion.Block, s Settings) Fragment {
			return RenderRichTexts(b.(*notion.Quote).Text, s).Map(quoteLines)
		},
		layout: layoutQuote,
	},
	notion.KindCallout: {
		render: func(b notion.Block, s Settings) Fragment {
			callout := b.(*notion.Callout)
			text := RenderRichTexts(callout.Text, s)
			if emoji, ok := callout.Icon.(*notion.EmojiFile); ok {
				text = prefixed(text, emoji.Emoji+" ")
			}
			return text.Map(quoteLines)
		},
		layout: layoutQuote,
	},
	notion.KindCode: {render: func(b notion.Block, _ Settings) Fragment {
		code := b.(*notion.Code)
		if len(code.Text) == 0 {
			return None()
		}
		body := notion.PlainText(code.Text)
		fence := codeFence(body)
		return Some(fence + infoString(code.Language) + "\n" + body + "\n" + fence)
	}},
	notion.KindBookmark: {render: func(b notion.Block, _ Settings) Fragment {
		return bareURL(b.(*notion.Bookmark).URL)
	}},
	notion.KindEmbed: {render: func(b notion.Block, _ Settings) Fragment {
		return bareURL(b.(*notion.Embed).URL)
	}},
	notion.KindEquation: {render: func(b notion.Block, _ Settings) Fragment {
		return Some("$$" + b.(*notion.Equation).Expression + "$$")
	}},
	notion.KindFile: {render: func(b notion.Block, _ Settings) Fragment {
		return fileLink(b.(*notion.FileBlock).File)
	}},
	notion.KindImage: {render: func(b notion.Block, _ Settings) Fragment {
		file := b.(*notion.Image).File
		url := notion.FileURL(file)
		if url == "" {
			return None()
		}
		return Some("![" + notion.PlainText(notion.FileMetaOf(file).Caption) + "](" + url + ")")
	}},
	notion.KindVideo: {render: func(b notion.Block, _ Settings) Fragment {
		return fileLink(b.(*notion.Video).File)
	}},
	notion.KindAudio: {render: func(b notion.Block, _ Settings) Fragment {
		return fileLink(b.(*notion.Audio).File)
	}},
	notion.KindPDF: {render: func(b notion.Block, _ Settings) Fragment {
		return fileLink(b.(*notion.PDF).File)
	}},
	notion.KindDivider: {render: func(notion.Block, Settings) Fragment {
		return Some("---")
	}},
	notion.KindTableOfContents: {render: absent, layout: layoutDrop},
	notion.KindBreadcrumb:      {render: absent, layout: layoutDrop},
	notion.KindColumnList:      {render: absent, layout: layoutFlat},
	notion.KindColumn:          {render: absent, layout: layoutFlat},
	notion.KindUnsupported:     {render: absent, layout: layoutDrop},
}

// RenderBlock renders b and its populated children. Kinds with no Markdown
// form, including unsupported blocks, are absent.
func RenderBlock(b notion.Block, s Settings) Fragment {
	if b == nil {
		return None()
	}
	r, ok := renderers[b.Kind()]
	if !ok || r.layout == layoutDrop {
		return None()
	}

	self := r.render(b, s)
	children := renderBlocks(b.Base().Children, s)
	body, ok := children.Value()
	if !ok {
		return self
	}
	text, ok := self.Value()
	if !ok {
		// Children of an empty block take its place.
		return children
	}

	switch r.layout {
	case layoutQuote:
		return Some(text + "\n>\n" + quoteLines(body))
	case layoutFlat:
		return Some(text + "\n\n" + body)
	default:
		return Some(text + "\n" + indentLines(body, s.indent()))
	}
}

func absent(notion.Block, Settings) Fragment {
	return None()
}

func prefixed(f Fragment, prefix string) Fragment {
	return f.Map(func(text string) string { return prefix + text })
}

// heading keeps a heading on one line, joining the lines of its text with
// a space.
func heading(f Fragment, prefix string) Fragment {
	return prefixed(f.Map(func(text string) string {
		var kept []string
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				kept = append(kept, line)
			}
		}
		return strings.Join(kept, " ")
	}), prefix)
}

// codeFence returns a backtick fence longer than any backtick run in body.
func codeFence(body string) string {
	longest, run := 0, 0
	for _, r := range body {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return strings.Repeat("`", max(3, longest+1))
}

// infoString turns a language name into a fence info string. "plain text"
// has none; other names have their spaces replaced.
func infoString(language string) string {
	if language == "plain text" {
		return ""
	}
	return strings.ReplaceAll(language, " ", "-")
}

// listItem prefixes the first line with the marker and aligns continuation
// lines under the item text.
func listItem(f Fragment, marker string) Fragment {
	return f.Map(func(text string) string {
		pad := strings.Repeat(" ", len(marker))
		lines := strings.Split(text, "\n")
		for i := 1; i < len(lines); i++ {
			if lines[i] != "" {
				lines[i] = pad + lines[i]
			}
		}
		return marker + strings.Join(lines, "\n")
	})
}

func quoteLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n")
}

func indentLines(text, indent string) string {
	if indent == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

func bareURL(url string) Fragment {
	if url == "" {
		return None()
	}
	return Some(url)
}

// fileLink renders [label](url), labelled by caption, then name, then URL.
func fileLink(file notion.File) Fragment {
	url := notion.FileURL(file)
	if url == "" {
		return None()
	}
	meta := notion.FileMetaOf(file)
	label := notion.PlainText(meta.Caption)
	if label == "" {
		label = meta.Name
	}
	if label == "" {
		label = url
	}
	return Some("[" + label + "](" + url + ")")
}
