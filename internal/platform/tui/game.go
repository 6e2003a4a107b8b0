package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mindflip/internal/memory"
	"github.com/vovakirdan/mindflip/internal/storage"
)

var (
	flashStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCursor)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorCursor).
			Padding(1, 4).
			Align(lipgloss.Center)
)

// GameModel presents the session's current round and forwards input to it.
// The session owns all round state; the model only keeps a snapshot for
// rendering plus the cursor and transient flash text.
type GameModel struct {
	session    *memory.Session
	store      *storage.Store
	logger     *log.Logger
	round      memory.RoundState
	cursor     int
	keys       GameKeyMap
	help       help.Model
	flash      string
	flashSeq   int
	savedGen   uint64 // Generation of the last stored outcome
	width      int
	height     int
	backToMenu bool
	quitting   bool
}

// NewGameModel creates a game model for the session's current round.
func NewGameModel(session *memory.Session, store *storage.Store, logger *log.Logger, width, height int) GameModel {
	h := help.New()
	h.Width = width

	m := GameModel{
		session: session,
		store:   store,
		logger:  logger,
		round:   session.Round(),
		keys:    DefaultGameKeyMap(),
		help:    h,
		width:   width,
		height:  height,
	}
	return m
}

// Init initializes the game model.
func (m GameModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case RoundChangedMsg:
		m.refresh()
		return m, nil

	case CueMsg:
		return m.handleCue(msg.Cue)

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.round.Columns()
	n := len(m.round.Cards)

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.session.ReturnToMenu()
		m.backToMenu = true
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		if _, ok := m.session.Restart(); ok {
			m.cursor = 0
			m.flash = ""
		}
		m.refresh()

	case key.Matches(msg, m.keys.Mute):
		m.session.ToggleMute()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Flip):
		if m.session.SelectCard(m.cursor) {
			m.refresh()
		}

	case key.Matches(msg, m.keys.Up):
		m.cursor = moveCursor(m.cursor, 0, -1, n, cols)
	case key.Matches(msg, m.keys.Down):
		m.cursor = moveCursor(m.cursor, 0, 1, n, cols)
	case key.Matches(msg, m.keys.Left):
		m.cursor = moveCursor(m.cursor, -1, 0, n, cols)
	case key.Matches(msg, m.keys.Right):
		m.cursor = moveCursor(m.cursor, 1, 0, n, cols)
	}

	return m, nil
}

// handleCue shows short feedback text for a cue.
func (m GameModel) handleCue(cue memory.Cue) (tea.Model, tea.Cmd) {
	var text string
	switch cue {
	case memory.CueMatch:
		text = "Match!"
	case memory.CueMismatch:
		text = "No match"
	default:
		return m, nil
	}

	m.flashSeq++
	m.flash = text
	return m, flashCmd(m.flashSeq)
}

// refresh re-reads the session and stores a finished round once.
func (m *GameModel) refresh() {
	m.round = m.session.Round()
	if m.cursor >= len(m.round.Cards) {
		m.cursor = 0
	}

	if m.round.Generation == m.savedGen {
		return
	}
	result, ok := storage.ResultFromRound(m.round)
	if !ok {
		return
	}
	m.savedGen = m.round.Generation
	m.flash = ""

	if m.store == nil {
		return
	}
	if _, err := m.store.SaveRound(result); err != nil {
		m.logger.Warn("could not save round", "error", err)
	}
}

// View renders the round.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	rs := m.round

	header := fmt.Sprintf("MINDFLIP  ·  %s  ·  %s", rs.Theme, rs.Mode.Label())
	if rs.Mode == memory.ModeSingle {
		header += fmt.Sprintf(" (%s)", rs.Difficulty)
	}
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText(header, m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(renderHUD(rs, m.session.Muted()), m.width))
	b.WriteString("\n\n")

	cursor := m.cursor
	if rs.Status != memory.StatusPlaying {
		cursor = -1
	}
	board := renderBoard(rs, cursor)
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, board))
	b.WriteString("\n\n")

	if rs.Status.Terminal() {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderOutcome()))
		b.WriteString("\n")
	} else {
		b.WriteString(flashStyle.Render(centerText(m.flash, m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderOutcome draws the end-of-round box.
func (m GameModel) renderOutcome() string {
	rs := m.round

	detail := fmt.Sprintf("%d moves", rs.Moves)
	if rs.Mode != memory.ModeSingle {
		detail = fmt.Sprintf("Player 1  %d - %d  Player 2",
			rs.Scores.Of(memory.Player1), rs.Scores.Of(memory.Player2))
	}

	lines := []string{
		titleStyle.Render(outcomeMessage(rs)),
		detail,
		"",
		dimStyle.Render("r: play again  ·  esc: menu"),
	}
	return overlayStyle.Render(strings.Join(lines, "\n"))
}

// BackToMenu returns true if user wants to return to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Cursor returns the index of the highlighted card.
func (m GameModel) Cursor() int {
	return m.cursor
}
