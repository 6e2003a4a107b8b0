package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mindflip/internal/theme"
)

// defaultGenerateTimeout bounds a generation request started from the prompt.
const defaultGenerateTimeout = 30 * time.Second

// themeGeneratedMsg carries the generator's result.
type themeGeneratedMsg struct {
	seq   int
	theme theme.Theme
}

// PromptModel asks for a free-text theme and runs the generator.
type PromptModel struct {
	input      textinput.Model
	spinner    spinner.Model
	generator  theme.Generator
	timeout    time.Duration
	generating bool
	seq        int // Identifies the request in flight
	prompt     string
	result     *theme.Theme
	back       bool
	quitting   bool
	width      int
}

// NewPromptModel creates a focused prompt.
func NewPromptModel(gen theme.Generator, timeout time.Duration, width int) PromptModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. deep sea creatures"
	ti.CharLimit = 80
	ti.Width = 40
	ti.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(colorCursor)),
	)

	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}

	return PromptModel{
		input:     ti,
		spinner:   sp,
		generator: gen,
		timeout:   timeout,
		width:     width,
	}
}

// Init starts the cursor blink.
func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the prompt.
func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			// Abandon the request; its result will be ignored.
			m.generating = false
			m.seq++
			m.back = true
			return m, nil
		case "enter":
			if m.generating {
				return m, nil
			}
			prompt := strings.TrimSpace(m.input.Value())
			if prompt == "" {
				return m, nil
			}
			m.prompt = prompt
			m.generating = true
			m.seq++
			return m, tea.Batch(m.spinner.Tick, m.generate(m.seq, prompt))
		}
		if m.generating {
			return m, nil
		}

	case themeGeneratedMsg:
		if msg.seq != m.seq || !m.generating {
			return m, nil
		}
		m.generating = false
		t := msg.theme
		m.result = &t
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// generate runs the generator off the UI loop.
func (m PromptModel) generate(seq int, prompt string) tea.Cmd {
	gen, timeout := m.generator, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return themeGeneratedMsg{seq: seq, theme: gen.Generate(ctx, prompt)}
	}
}

// View renders the prompt.
func (m PromptModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("Generate a theme", m.width)))
	b.WriteString("\n\n")

	if m.generating {
		line := m.spinner.View() + " Dreaming up cards for \"" + m.prompt + "\"..."
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render(centerText("Esc: Cancel", m.width)))
		return b.String()
	}

	b.WriteString(centerText("Describe a theme for your cards:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.input.View(), m.width))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(centerText("Enter: Generate  |  Esc: Back", m.width)))
	b.WriteString("\n")
	return b.String()
}

// Result returns the generated theme once available.
func (m PromptModel) Result() *theme.Theme {
	return m.result
}

// BackToMenu returns true if user cancelled the prompt.
func (m PromptModel) BackToMenu() bool {
	return m.back
}

// IsQuitting returns true if user requested to quit.
func (m PromptModel) IsQuitting() bool {
	return m.quitting
}
