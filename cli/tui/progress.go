package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pithecene-io/cdxq/runtime"
)

// pollInterval is how often the progress view re-reads the orchestrator.
const pollInterval = 100 * time.Millisecond

// ProgressSource yields progress snapshots. Usually Orchestrator.Progress.
type ProgressSource func() runtime.Progress

type progressTickMsg time.Time

// ProgressModel is a Bubble Tea model that watches a running batch.
type ProgressModel struct {
	source   ProgressSource
	bar      progress.Model
	latest   runtime.Progress
	width    int
	quitting bool
}

// NewProgressModel creates a progress view polling source.
func NewProgressModel(source ProgressSource) ProgressModel {
	return ProgressModel{
		source: source,
		bar:    progress.New(progress.WithDefaultGradient()),
		latest: source(),
	}
}

func progressTick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return progressTickMsg(t)
	})
}

// Init implements tea.Model.
func (m ProgressModel) Init() tea.Cmd {
	return progressTick()
}

// Update implements tea.Model.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 8
		return m, nil

	case progressTickMsg:
		m.latest = m.source()
		if m.latest.Done() {
			m.quitting = true
			return m, tea.Quit
		}
		return m, progressTick()

	case tea.KeyMsg:
		if key.Matches(msg, resultsKeys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m ProgressModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Querying Index"))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(m.latest.Fraction()))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Progress:"),
		ValueStyle.Render(fmt.Sprintf("%d / %d", m.latest.Completed, m.latest.Total))))
	if m.latest.CurrentURL != "" {
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Current URL:"),
			ValueStyle.Render(m.latest.CurrentURL)))
	}

	help := HelpStyle.Render("q detaches the view, the batch keeps running")
	return BoxStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n" + help
}

// RunProgressTUI runs the progress view until the batch finishes or the
// user detaches.
func RunProgressTUI(source ProgressSource) error {
	model := NewProgressModel(source)
	p := tea.NewProgram(model)
	_, err := p.Run()
	return err
}
