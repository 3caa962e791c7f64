package markdown

import "strings"

// Settings controls rendering.
type Settings struct {
	Indent int  // spaces per nesting level for child blocks
	Links  bool // wrap linked runs as [text](url)
}

// DefaultSettings returns the settings used when the config has none.
func DefaultSettings() Settings {
	return Settings{Indent: 4, Links: true}
}

func (s Settings) indent() string {
	if s.Indent <= 0 {
		return ""
	}
	return strings.Repeat(" ", s.Indent)
}
