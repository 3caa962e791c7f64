package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gerunddev/notionmd/internal/styles"
	"github.com/mattn/go-runewidth"
)

const titleWidth = 40

// BrowseData holds every exported page known to the state file
type BrowseData struct {
	Pages []PageInfo
}

// PageInfo is one exported page
type PageInfo struct {
	ID         string
	Title      string
	Path       string
	LastEdited time.Time
	ExportedAt time.Time
	Missing    bool // the exported file no longer exists
}

// BrowseMsg is sent when browse data is ready
type BrowseMsg struct {
	Data *BrowseData
	Err  error
}

// PreviewMsg is sent when the preview of the selected page is rendered
type PreviewMsg struct {
	Content string
	Err     error
}

// PreviewFunc renders the exported file at path for a terminal of width columns
type PreviewFunc func(path string, width int) (string, error)

type browseModel struct {
	table          table.Model
	viewport       viewport.Model
	data           *BrowseData
	err            error
	ready          bool
	showingPreview bool
	width          int
	height         int
	selected       *PageInfo
	previewFunc    PreviewFunc
}

// InitBrowseModel creates a new page browser model
func InitBrowseModel(previewFunc PreviewFunc) browseModel {
	columns := []table.Column{
		{Title: "Title", Width: titleWidth},
		{Title: "ID", Width: 10},
		{Title: "Last edited", Width: 18},
		{Title: "Exported", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = styles.PreviewStyle

	return browseModel{
		table:       t,
		viewport:    vp,
		width:       100,
		previewFunc: previewFunc,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(msg.Height - 10)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6

	case tea.KeyMsg:
		if m.showingPreview {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "q", "esc":
				m.showingPreview = false
				return m, nil
			default:
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter", "p":
			if m.data == nil || len(m.data.Pages) == 0 {
				return m, nil
			}
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.data.Pages) {
				return m, nil
			}
			m.selected = &m.data.Pages[idx]
			m.showingPreview = true
			m.viewport.SetContent(styles.DimStyle.Render("Rendering..."))
			return m, m.loadPreview(*m.selected)
		default:
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case BrowseMsg:
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err
		if m.data != nil {
			m.table.SetRows(pageRows(m.data.Pages))
		}
		return m, nil

	case PreviewMsg:
		if msg.Err != nil {
			m.viewport.SetContent(styles.ErrorStyle.Render("✗ " + msg.Err.Error()))
		} else {
			m.viewport.SetContent(msg.Content)
		}
		m.viewport.GotoTop()
		return m, nil
	}

	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("notionmd Exported Pages"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if !m.ready || m.data == nil {
		return b.String()
	}

	if m.showingPreview && m.selected != nil {
		b.WriteString(styles.HeaderStyle.Render(m.selected.Title))
		b.WriteString(" ")
		b.WriteString(styles.DimStyle.Render(m.selected.Path))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • esc/q back"))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.data.Pages) == 0 {
		b.WriteString(styles.DimStyle.Render("No pages exported yet. Run 'notionmd export <page-id>'."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Exported pages: %d", len(m.data.Pages))))
	b.WriteString("\n\n")
	b.WriteString(styles.TableStyle.Render(m.table.View()))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter preview • q quit"))
	b.WriteString("\n")

	return b.String()
}

// loadPreview renders the selected page off the update loop
func (m browseModel) loadPreview(page PageInfo) tea.Cmd {
	width := m.viewport.Width - 4
	return func() tea.Msg {
		if page.Missing {
			return PreviewMsg{Err: fmt.Errorf("%s no longer exists", page.Path)}
		}
		if m.previewFunc == nil {
			return PreviewMsg{Err: fmt.Errorf("preview unavailable")}
		}
		content, err := m.previewFunc(page.Path, width)
		return PreviewMsg{Content: content, Err: err}
	}
}

func pageRows(pages []PageInfo) []table.Row {
	rows := make([]table.Row, 0, len(pages))
	for _, p := range pages {
		title := p.Title
		if p.Missing {
			title = "⚠ " + title
		}
		rows = append(rows, table.Row{
			runewidth.Truncate(title, titleWidth, "…"),
			styles.ShortID(p.ID),
			formatTime(p.LastEdited),
			formatTime(p.ExportedAt),
		})
	}
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
