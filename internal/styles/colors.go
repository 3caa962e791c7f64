package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro color palette
const (
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	Red     = "#FF6188" // Errors
	Orange  = "#FC9867" // Warnings, unsupported blocks
	Yellow  = "#FFD866" // Highlights
	Green   = "#A9DC76" // Exported pages
	Cyan    = "#78DCE8" // Info, dry runs
	Blue    = "#AB9DF2" // Links, page IDs
	Magenta = "#FF6188" // Titles

	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	InfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	IDStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color(Blue))
	SpinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Magenta))
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Magenta))

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(Border))

	PreviewStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			Padding(0, 1)
)

// ShortID returns the first eight characters of a page ID
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
