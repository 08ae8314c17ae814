package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/cdxq/types"
)

// resultsKeyMap defines key bindings for the results browser.
type resultsKeyMap struct {
	Quit             key.Binding
	ToggleCaptures   key.Binding
	ToggleNoCaptures key.Binding
	ToggleErrors     key.Binding
}

var resultsKeys = resultsKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	ToggleCaptures: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "toggle captures"),
	),
	ToggleNoCaptures: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "toggle no_captures"),
	),
	ToggleErrors: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "toggle errors"),
	),
}

// ResultsModel is a Bubble Tea model that browses a finished batch.
type ResultsModel struct {
	records  []types.OutcomeRecord
	visible  []types.OutcomeRecord
	filter   types.RecordFilter
	stats    types.BatchStats
	table    table.Model
	width    int
	height   int
	quitting bool
}

// NewResultsModel creates a results browser over a finished batch.
func NewResultsModel(batch *types.ResultBatch) ResultsModel {
	m := ResultsModel{
		records: batch.Records(),
		filter:  types.AllRecords,
		stats:   batch.Stats(),
	}

	columns := []table.Column{
		{Title: "URL", Width: 32},
		{Title: "RESULT", Width: 12},
		{Title: "TIMESTAMP", Width: 15},
		{Title: "STATUS", Width: 7},
		{Title: "MIME", Width: 16},
	}
	m.table = table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(primaryColor)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#FFFFFF")).Background(highlightColor)
	m.table.SetStyles(styles)

	m.applyFilter()
	return m
}

// applyFilter rebuilds the visible slice and table rows from the filter.
func (m *ResultsModel) applyFilter() {
	m.visible = m.visible[:0]
	rows := make([]table.Row, 0, len(m.records))
	for _, rec := range m.records {
		if !m.filter.Match(&rec) {
			continue
		}
		m.visible = append(m.visible, rec)

		row := table.Row{rec.QueryURL, string(rec.Type), "", "", ""}
		if rec.Capture != nil {
			row[2] = rec.Capture.Timestamp
			row[3] = rec.Capture.Status
			row[4] = rec.Capture.Mime
		}
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// Init implements tea.Model.
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, resultsKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, resultsKeys.ToggleCaptures):
			m.filter.Captures = !m.filter.Captures
			m.applyFilter()
			return m, nil
		case key.Matches(msg, resultsKeys.ToggleNoCaptures):
			m.filter.NoCaptures = !m.filter.NoCaptures
			m.applyFilter()
			return m, nil
		case key.Matches(msg, resultsKeys.ToggleErrors):
			m.filter.Errors = !m.filter.Errors
			m.applyFilter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ResultsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Batch Results"))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.renderDetail())
	b.WriteString("\n")
	b.WriteString(m.renderStats())

	help := HelpStyle.Render("c/n/e filter results, q quit")
	return b.String() + "\n" + help
}

// renderDetail shows the full selected record below the table.
func (m ResultsModel) renderDetail() string {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return BoxStyle.Render("(no selection)")
	}
	rec := m.visible[cursor]

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Query URL:"),
		ValueStyle.Render(rec.QueryURL)))
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Result:"),
		ResultStyle(string(rec.Type)).Render(string(rec.Type))))

	switch rec.Type {
	case types.ResultCapture:
		if rec.MatchedURL != "" {
			b.WriteString(fmt.Sprintf("%s %s\n",
				LabelStyle.Render("Matched Via:"),
				ValueStyle.Render(rec.MatchedURL)))
		}
		if rec.Capture != nil {
			b.WriteString(fmt.Sprintf("%s %s\n",
				LabelStyle.Render("Capture URL:"),
				ValueStyle.Render(rec.Capture.URL)))
			b.WriteString(fmt.Sprintf("%s %s\n",
				LabelStyle.Render("Digest:"),
				ValueStyle.Render(rec.Capture.Digest)))
			b.WriteString(fmt.Sprintf("%s %s\n",
				LabelStyle.Render("Length:"),
				ValueStyle.Render(rec.Capture.Length)))
		}
	case types.ResultError:
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Error:"),
			ErrorStyle.Render(rec.ErrorMessage)))
	}

	return BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderStats shows batch totals as stat boxes.
func (m ResultsModel) renderStats() string {
	boxes := []string{
		m.renderStatBox("Total", m.stats.Total, highlightColor),
		m.renderStatBox("Captures", m.stats.Captures, successColor),
		m.renderStatBox("Missing", m.stats.NoCaptures, warningColor),
		m.renderStatBox("Errors", m.stats.Errors, errorColor),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m ResultsModel) renderStatBox(label string, value int, color lipgloss.Color) string {
	box := StatBoxStyle.BorderForeground(color)
	content := StatLabelStyle.Render(label) + "\n" + StatValueStyle.Render(fmt.Sprintf("%d", value))
	return box.Render(content)
}

// RunResultsTUI runs the results browser over a finished batch.
func RunResultsTUI(batch *types.ResultBatch) error {
	model := NewResultsModel(batch)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderResultsStatic renders the results view without a full TUI loop.
func RenderResultsStatic(batch *types.ResultBatch) string {
	model := NewResultsModel(batch)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
