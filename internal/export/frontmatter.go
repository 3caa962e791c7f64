package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/gerunddev/notionmd/internal/config"
	"github.com/gerunddev/notionmd/internal/notion"
	"github.com/goliatone/go-slug"
	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML header of an exported Markdown file
type FrontMatter struct {
	ID         string    `yaml:"id"`
	Title      string    `yaml:"title"`
	URL        string    `yaml:"url,omitempty"`
	Created    time.Time `yaml:"created"`
	LastEdited time.Time `yaml:"last_edited"`
	Icon       string    `yaml:"icon,omitempty"`
	Tags       []string  `yaml:"tags,omitempty"`
}

// FrontMatterOf collects the header fields of a page. Tags come from every
// multi-select property, in property name order.
func FrontMatterOf(page *notion.Page) FrontMatter {
	fm := FrontMatter{
		ID:         page.ID.String(),
		Title:      title(page),
		URL:        page.URL,
		Created:    page.CreatedTime.UTC(),
		LastEdited: page.LastEditedTime.UTC(),
	}

	switch icon := page.Icon.(type) {
	case *notion.EmojiFile:
		fm.Icon = icon.Emoji
	default:
		fm.Icon = notion.FileURL(icon)
	}

	for _, name := range page.PropertyNames() {
		if ms, ok := page.Properties[name].(*notion.MultiSelectProperty); ok {
			for _, opt := range ms.Options {
				fm.Tags = append(fm.Tags, opt.Name)
			}
		}
	}
	return fm
}

// Marshal renders the header between --- fences
func (fm FrontMatter) Marshal() (string, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}
	return "---\n" + string(data) + "---\n", nil
}

// ParseFrontMatter reads the header back from an exported file
func ParseFrontMatter(content string) (FrontMatter, error) {
	var fm FrontMatter
	if _, err := frontmatter.MustParse(strings.NewReader(content), &fm); err != nil {
		return fm, fmt.Errorf("failed to parse front matter: %w", err)
	}
	return fm, nil
}

// StripFrontMatter returns content without its YAML header, if any
func StripFrontMatter(content string) string {
	var fm FrontMatter
	body, err := frontmatter.MustParse(strings.NewReader(content), &fm)
	if err != nil {
		return content
	}
	return strings.TrimLeft(string(body), "\n")
}

// FileName returns "<slug>-<short id>.<ext>" for a page
func FileName(page *notion.Page, format string) string {
	name, err := slug.Normalize(title(page))
	if err != nil || name == "" {
		name = "untitled"
	}

	ext := ".md"
	if format == config.FormatHTML {
		ext = ".html"
	}
	return name + "-" + page.ID.String()[:8] + ext
}
