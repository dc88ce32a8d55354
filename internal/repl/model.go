package repl

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const prompt = "curv> "

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

type model struct {
	session *Session
	input   textinput.Model
	lines   []string
	width   int
}

// NewModel returns a Bubble Tea model running an interactive session.
func NewModel() tea.Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Placeholder = "expression, or name = definiens"
	ti.Focus()
	return &model{
		session: NewSession(),
		input:   ti,
		lines: []string{
			faintStyle.Render("curv repl — definitions accumulate, expressions print their value; ctrl+d exits"),
		},
		width: 80,
	}
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.SetValue("")
			m.echo(line)
			out, ok := m.session.Submit(line)
			if out != "" {
				style := valueStyle
				if !ok {
					style = errorStyle
				}
				for _, l := range strings.Split(out, "\n") {
					m.lines = append(m.lines, style.Render(l))
				}
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.input.Width = msg.Width - len(prompt) - 1
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) echo(line string) {
	m.lines = append(m.lines, promptStyle.Render(prompt)+line)
}

func (m *model) View() string {
	var b strings.Builder
	for _, l := range m.lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	return b.String()
}

// Run starts the interactive loop on the current terminal.
func Run() error {
	_, err := tea.NewProgram(NewModel()).Run()
	return err
}
