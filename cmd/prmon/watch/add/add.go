package add

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wangxiyuan/pr-notification/monitor"
)

// ExitKey leaves the form without adding anything.
var ExitKey = key.NewBinding(
	key.WithKeys("esc"),
	key.WithHelp("esc", "back"),
)

var returnKey = key.NewBinding(
	key.WithKeys("enter"),
	key.WithHelp("enter", "add"),
)

var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

// Model is the form for adding a pull request to the watch list by URL.
type Model struct {
	height int
	help   help.Model
	input  textinput.Model
	err    error

	// Ref holds the parsed pull request once Completed is true.
	Ref       monitor.PullRequestRef
	Completed bool
}

func New() Model {
	input := textinput.New()
	input.Placeholder = "https://github.com/owner/repo/pull/123"
	input.CharLimit = 200
	input.Width = 64

	return Model{
		help:  help.New(),
		input: input,
	}
}

func (m *Model) Reset() {
	m.input.Reset()
	m.err = nil
	m.Ref = monitor.PullRequestRef{}
	m.Completed = false
}

func (m *Model) SetHeight(height int) {
	m.height = height
}

func (m *Model) Focus() tea.Cmd {
	m.input.Focus()
	return textinput.Blink
}

func (m Model) Update(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, returnKey) {
		ref, err := monitor.ParseURL(m.input.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.Ref = ref
		m.Completed = true
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{returnKey, ExitKey}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}

func (m Model) View() string {
	pageContent := "Pull request URL\n\n" + m.input.View()
	if m.err != nil {
		pageContent += "\n\n" + errStyle.Render(m.err.Error())
	}

	helpView := m.help.View(m)
	padding := m.height - lipgloss.Height(pageContent) - lipgloss.Height(helpView) - 1
	if padding < 0 {
		padding = 0
	}
	for i := 0; i < padding; i++ {
		pageContent += "\n"
	}
	return pageContent + "\n" + helpView
}
