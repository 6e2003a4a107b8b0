package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mindflip/internal/memory"
	"github.com/vovakirdan/mindflip/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show tab sidebar
	sidebarWidth       = 20 // Width of tab sidebar
	maxScores          = 50 // Max rows to load per tab
)

// scoreTab is one page of the scoreboard: a solo difficulty or the duel log.
type scoreTab struct {
	title      string
	difficulty memory.Difficulty // Empty for the duel tab
}

func (t scoreTab) duel() bool {
	return t.difficulty == ""
}

func scoreTabs() []scoreTab {
	tabs := make([]scoreTab, 0, len(memory.Difficulties)+1)
	for _, d := range memory.Difficulties {
		tabs = append(tabs, scoreTab{
			title:      "Solo " + strings.ToUpper(string(d[:1])) + string(d[1:]),
			difficulty: d,
		})
	}
	return append(tabs, scoreTab{title: "Duels"})
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Back    key.Binding
	Quit    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev tab"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev tab"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	tabs        []scoreTab
	tabCursor   int
	store       *storage.Store
	results     []storage.RoundResult
	stats       *storage.Stats
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show tab sidebar
}

// NewScoreboardModel creates a new scoreboard model opened on the tab that
// matches mode and difficulty.
func NewScoreboardModel(store *storage.Store, mode memory.Mode, difficulty memory.Difficulty, width, height int) ScoreboardModel {
	keys := DefaultScoreboardKeyMap()
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		tabs:        scoreTabs(),
		store:       store,
		keys:        keys,
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	for i, t := range m.tabs {
		if (mode == memory.ModeMulti && t.duel()) || (mode == memory.ModeSingle && t.difficulty == difficulty) {
			m.tabCursor = i
		}
	}

	if store != nil {
		if stats, err := store.Stats(); err == nil {
			m.stats = stats
		}
	}

	m.table = m.createTable()
	m.loadResults()

	return m
}

// createTable creates a new table with columns for the current tab.
func (m *ScoreboardModel) createTable() table.Model {
	var columns []table.Column
	if m.tabs[m.tabCursor].duel() {
		columns = []table.Column{
			{Title: "Result", Width: 14},
			{Title: "Score", Width: 7},
			{Title: "Theme", Width: 16},
			{Title: "Date", Width: 14},
		}
	} else {
		columns = []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Time", Width: 8},
			{Title: "Moves", Width: 6},
			{Title: "Theme", Width: 16},
			{Title: "Date", Width: 14},
		}
	}

	// Shrink the theme column to fit narrow terminals
	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if over := used - tableWidth; over > 0 {
		themeCol := len(columns) - 2
		columns[themeCol].Width = max(6, columns[themeCol].Width-over)
	}

	height := m.height - 10 // Header, stats, help and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadResults loads rows for the current tab.
func (m *ScoreboardModel) loadResults() {
	m.results = nil
	if m.store != nil {
		var (
			results []storage.RoundResult
			err     error
		)
		tab := m.tabs[m.tabCursor]
		if tab.duel() {
			results, err = m.store.RecentDuels(maxScores)
		} else {
			results, err = m.store.BestSolo(tab.difficulty, maxScores)
		}
		if err == nil {
			m.results = results
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current results.
func (m *ScoreboardModel) updateTableRows() {
	duel := m.tabs[m.tabCursor].duel()
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		date := r.CreatedAt.Format("Jan 02 15:04")
		if duel {
			result := "Draw"
			if r.Outcome == memory.StatusWon {
				result = r.Winner.String() + " won"
			}
			rows[i] = table.Row{
				result,
				fmt.Sprintf("%d-%d", r.Score1, r.Score2),
				r.Theme,
				date,
			}
			continue
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			formatClock(r.Seconds),
			fmt.Sprintf("%d", r.Moves),
			r.Theme,
			date,
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// switchTab moves to another tab and reloads it.
func (m *ScoreboardModel) switchTab(delta int) {
	n := len(m.tabs)
	m.tabCursor = (m.tabCursor + delta + n) % n
	m.table = m.createTable()
	m.loadResults()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextTab), key.Matches(msg, m.keys.Right):
			m.switchTab(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevTab), key.Matches(msg, m.keys.Left):
			m.switchTab(-1)
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("BEST ROUNDS - %s", m.tabs[m.tabCursor].title)
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	if line := m.statsLine(); line != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(centerText(line, m.width)))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes all stored rounds.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil {
		return ""
	}
	s := m.stats
	return fmt.Sprintf("Solo rounds %d  |  Duels %d (P1 %d, P2 %d, draws %d)",
		s.RoundsByMode[memory.ModeSingle], s.RoundsByMode[memory.ModeMulti],
		s.Player1Wins, s.Player2Wins, s.Draws)
}

// renderWideLayout renders the scoreboard with a sidebar for tab selection.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Boards\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, t := range m.tabs {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.tabCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(colorCursor)
		}
		sidebar.WriteString(style.Render(cursor + truncate(t.title, sidebarWidth-6)))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders the scoreboard with tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(colorMuted)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorCursor).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.tabCursor {
			tabs[i] = activeTabStyle.Render(t.title)
		} else {
			tabs[i] = tabStyle.Render(" " + t.title + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.tabs[m.tabCursor].title)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, tableStyle.Render(m.renderTableContent())))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.results) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true).
			Padding(2, 4)
		if m.store == nil {
			return emptyStyle.Render("Scores are unavailable.\nThe database could not be opened.")
		}
		return emptyStyle.Render("No rounds recorded yet.\nFinish a round to get on the board!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
