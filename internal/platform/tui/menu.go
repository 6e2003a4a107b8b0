package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mindflip/internal/config"
	"github.com/vovakirdan/mindflip/internal/memory"
	"github.com/vovakirdan/mindflip/internal/theme"
)

// Fixed menu rows before the theme list.
const (
	rowMode = iota
	rowDifficulty
	rowFirstTheme
)

// StartRequest describes the round the player asked for.
type StartRequest struct {
	Mode       memory.Mode
	Difficulty memory.Difficulty
	Theme      theme.Theme
}

// MenuModel is the Bubble Tea model for the start screen: mode, difficulty
// and theme selection.
type MenuModel struct {
	themes         []theme.Theme
	mode           memory.Mode
	difficulty     memory.Difficulty
	cursor         int
	width          int
	height         int
	keyMapper      *KeyMapper
	quitting       bool
	selected       *StartRequest // Set when user picks a preset theme
	wantsPrompt    bool          // True if user picked "Generate"
	openScoreboard bool          // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model with the configured defaults
// preselected.
func NewMenuModel(catalog *theme.Catalog, defaults config.Defaults, width, height int) MenuModel {
	m := MenuModel{
		themes:     catalog.List(),
		mode:       defaults.ModeOrDefault(),
		difficulty: defaults.DifficultyOrDefault(),
		cursor:     rowFirstTheme,
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
	}
	for i, t := range m.themes {
		if t.ID == defaults.Theme {
			m.cursor = rowFirstTheme + i
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m MenuModel) rows() int {
	return rowFirstTheme + len(m.themes) + 1 // + Generate
}

func (m MenuModel) generateRow() int {
	return m.rows() - 1
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < m.rows()-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.cycle(-1)

	case MenuActionRight:
		m.cycle(1)

	case MenuActionSelect:
		switch {
		case m.cursor < rowFirstTheme:
			m.cycle(1)
		case m.cursor == m.generateRow():
			m.wantsPrompt = true
		default:
			m.selected = &StartRequest{
				Mode:       m.mode,
				Difficulty: m.difficulty,
				Theme:      m.themes[m.cursor-rowFirstTheme],
			}
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
	}

	return m, nil
}

// cycle changes the mode or difficulty under the cursor.
func (m *MenuModel) cycle(delta int) {
	switch m.cursor {
	case rowMode:
		if m.mode == memory.ModeSingle {
			m.mode = memory.ModeMulti
		} else {
			m.mode = memory.ModeSingle
		}
	case rowDifficulty:
		if m.mode != memory.ModeSingle {
			return
		}
		n := len(memory.Difficulties)
		for i, d := range memory.Difficulties {
			if d == m.difficulty {
				m.difficulty = memory.Difficulties[(i+delta+n)%n]
				return
			}
		}
		m.difficulty = memory.DifficultyMedium
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("  M I N D F L I P  ", m.width)))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(centerText("Flip two cards. Find the pairs.", m.width)))
	b.WriteString("\n\n")

	diff := fmt.Sprintf("< %s >", m.difficulty)
	if m.mode != memory.ModeSingle {
		diff = fmt.Sprintf("%d pairs", memory.DuelPairs)
	}
	b.WriteString(m.line(rowMode, fmt.Sprintf("Mode:       < %s >", m.mode.Label())))
	b.WriteString(m.line(rowDifficulty, "Difficulty: "+diff))
	b.WriteString("\n")
	b.WriteString(centerText("Theme", m.width))
	b.WriteString("\n")

	for i, t := range m.themes {
		preview := ""
		if len(t.Items) > 0 {
			preview = string(t.Items[0]) + "  "
		}
		b.WriteString(m.line(rowFirstTheme+i, preview+t.Title()))
	}
	b.WriteString(m.line(m.generateRow(), "✨ Generate..."))

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Change  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(dimStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) line(row int, text string) string {
	cursor := "  "
	style := lipgloss.NewStyle()
	if row == m.cursor {
		cursor = "> "
		style = style.Bold(true).Foreground(colorCursor)
	}
	return centerText(style.Render(cursor+text), m.width) + "\n"
}

// Selected returns the chosen round, or nil if none selected.
func (m MenuModel) Selected() *StartRequest {
	return m.selected
}

// WantsPrompt returns true if user wants to generate a theme.
func (m MenuModel) WantsPrompt() bool {
	return m.wantsPrompt
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Mode returns the selected mode.
func (m MenuModel) Mode() memory.Mode {
	return m.mode
}

// Difficulty returns the selected difficulty.
func (m MenuModel) Difficulty() memory.Difficulty {
	return m.difficulty
}

// reset clears the one-shot results so the menu can be shown again with
// the player's choices intact.
func (m MenuModel) reset() MenuModel {
	m.selected = nil
	m.wantsPrompt = false
	m.openScoreboard = false
	m.quitting = false
	return m
}
