// Package tui renders a mounted container in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/newhook/sqwatch/internal/container"
	"github.com/newhook/sqwatch/internal/pubsub"
	"github.com/newhook/sqwatch/internal/tasks"
)

// Source is the part of a container the dashboard reads from.
type Source interface {
	Subscribe(ctx context.Context) <-chan pubsub.Event[container.Event]
	View() container.View
	Refresh()
}

// Model is the dashboard's bubbletea model.
type Model struct {
	src    Source
	events <-chan pubsub.Event[container.Event]
	width  int
	height int

	view       container.View
	redirect   string
	lastUpdate time.Time
	spinner    spinner.Model
	done       bool
}

// eventMsg carries one container event into the update loop.
type eventMsg container.Event

// closedMsg is sent when the container's subscription ends.
type closedMsg struct{}

// New subscribes to src for the lifetime of ctx.
func New(ctx context.Context, src Source) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	return &Model{
		src:     src,
		events:  src.Subscribe(ctx),
		width:   80,
		height:  24,
		view:    src.View(),
		spinner: s,
	}
}

// Run shows the dashboard until the user quits or ctx is done.
func Run(ctx context.Context, src Source) error {
	p := tea.NewProgram(New(ctx, src), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(evt.Payload)
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		case "r":
			m.src.Refresh()
		}
		return m, nil

	case eventMsg:
		m.view = msg.View
		m.lastUpdate = time.Now()
		if msg.Kind == container.Redirected {
			m.redirect = msg.URL
		}
		return m, m.waitForEvent()

	case closedMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	if m.done {
		return ""
	}
	inner := m.width - 4
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(inner))
	b.WriteString("\n")
	b.WriteString(panelStyle.Width(inner + 2).Render(m.renderBody(inner)))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *Model) renderHeader(width int) string {
	v := m.view
	title := v.Key
	if v.Component != nil && v.Component.Name != "" {
		title = fmt.Sprintf("%s (%s)", v.Component.Name, v.Component.Key)
	}
	return titleStyle.Render(ansi.Truncate(title, width, "..."))
}

func (m *Model) renderBody(width int) string {
	v := m.view
	var lines []string
	line := func(label, value string) {
		s := labelStyle.Render(label+": ") + valueStyle.Render(value)
		lines = append(lines, ansi.Truncate(s, width, "..."))
	}

	switch {
	case v.Loading:
		return m.spinner.View() + " Loading..."
	case v.Forbidden:
		return errorStyle.Render("You are not authorized to access this component.")
	case v.NotFoundPortfolio:
		return errorStyle.Render("The requested portfolio does not exist.")
	case v.NotFound:
		return errorStyle.Render("The requested project does not exist.")
	}

	c := v.Component
	if c == nil {
		return dimStyle.Render("No component")
	}
	line("Qualifier", string(c.Qualifier))
	if c.Branch != "" {
		line("Branch", c.Branch)
	}
	if c.PullRequest != "" {
		line("Pull request", c.PullRequest)
	}
	if c.AnalysisDate != "" {
		line("Last analysis", c.AnalysisDate)
	} else {
		lines = append(lines, warningStyle.Render("Never analyzed"))
	}
	if len(c.Tags) > 0 {
		line("Tags", strings.Join(c.Tags, ", "))
	}

	lines = append(lines, "")
	if t := v.CurrentTask; t != nil {
		lines = append(lines, labelStyle.Render("Current task: ")+taskStatus(t.Status)+" "+dimStyle.Render(taskLabel(*t)))
		if t.ErrorMessage != "" {
			lines = append(lines, errorStyle.Render(wordwrap.String(t.ErrorMessage, width)))
		}
	}
	if v.IsPending {
		lines = append(lines, warningStyle.Render("An analysis is pending"))
	}
	for _, t := range v.InProgress {
		lines = append(lines, ansi.Truncate(m.spinner.View()+" "+taskLabel(t), width, "..."))
	}
	if v.CurrentTask == nil && !v.IsPending && len(v.InProgress) == 0 {
		lines = append(lines, dimStyle.Render("No background task"))
	}

	if v.BindingErrors != nil && len(v.BindingErrors.Errors) > 0 {
		lines = append(lines, "", errorStyle.Render("Binding errors:"))
		for _, e := range v.BindingErrors.Errors {
			lines = append(lines, errorStyle.Render(wordwrap.String("- "+e, width)))
		}
	}
	if m.redirect != "" {
		lines = append(lines, "", labelStyle.Render("Redirected to ")+ansi.Truncate(m.redirect, width-14, "..."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatusBar() string {
	phase := m.view.Phase.String()
	if m.view.Phase != container.PhaseIdle {
		phase = m.spinner.View() + " " + phase
	}
	parts := []string{phase}
	if !m.lastUpdate.IsZero() {
		parts = append(parts, "updated "+m.lastUpdate.Format("15:04:05"))
	}
	parts = append(parts, "[r]efresh [q]uit")
	return statusBarStyle.Render(strings.Join(parts, " · "))
}

func taskLabel(t tasks.Task) string {
	label := string(t.Type)
	switch {
	case t.PullRequest != "":
		label += " on pull request " + t.PullRequest
	case t.Branch != "":
		label += " on " + t.Branch
	}
	return label
}

func taskStatus(s tasks.Status) string {
	switch s {
	case tasks.StatusSuccess:
		return successStyle.Render(string(s))
	case tasks.StatusFailed, tasks.StatusCanceled:
		return errorStyle.Render(string(s))
	}
	return warningStyle.Render(string(s))
}
