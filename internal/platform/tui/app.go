package tui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mindflip/internal/config"
	"github.com/vovakirdan/mindflip/internal/memory"
	"github.com/vovakirdan/mindflip/internal/sound"
	"github.com/vovakirdan/mindflip/internal/storage"
	"github.com/vovakirdan/mindflip/internal/theme"
)

// screen identifies the active view of an AppModel.
type screen int

const (
	screenMenu screen = iota
	screenPrompt
	screenGame
	screenScoreboard
)

// Options configures an AppModel.
type Options struct {
	Catalog         *theme.Catalog
	Generator       theme.Generator // nil always yields the fallback theme
	GenerateTimeout time.Duration
	Store           *storage.Store // nil disables score keeping
	Logger          *log.Logger
	Bell            io.Writer // Receives BEL characters; nil is silent
	Seed            int64     // Zero picks a time-based seed
	Scheduler       memory.Scheduler
	Defaults        config.Defaults
	Width           int
	Height          int
	Start           *StartRequest // Skip the menu and start this round
}

// AppModel manages the full flow: menu -> game -> menu, plus the theme
// prompt and the scoreboard. It owns one memory session for its lifetime.
type AppModel struct {
	opts       Options
	session    *memory.Session
	bridge     *sessionBridge
	screen     screen
	menu       MenuModel
	prompt     PromptModel
	game       GameModel
	scoreboard ScoreboardModel
	width      int
	height     int
	quitting   bool
}

// NewAppModel creates the app and its session.
func NewAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Bell == nil {
		opts.Bell = io.Discard
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Generator == nil {
		fallback := opts.Catalog.Fallback()
		opts.Generator = theme.GeneratorFunc(func(context.Context, string) theme.Theme {
			return fallback
		})
	}

	bridge := newSessionBridge()
	sessionOpts := []memory.Option{
		memory.WithSeed(opts.Seed),
		memory.WithLogger(opts.Logger),
		memory.WithNotifier(sound.Multi{sound.NewBell(opts.Bell), bridge}),
		memory.WithOnChange(bridge.OnChange),
	}
	if opts.Scheduler != nil {
		sessionOpts = append(sessionOpts, memory.WithScheduler(opts.Scheduler))
	}

	m := AppModel{
		opts:    opts,
		session: memory.NewSession(sessionOpts...),
		bridge:  bridge,
		menu:    NewMenuModel(opts.Catalog, opts.Defaults, opts.Width, opts.Height),
		width:   opts.Width,
		height:  opts.Height,
	}

	if opts.Start != nil {
		m.start(*opts.Start)
	}
	return m
}

// Init starts listening to the session.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.bridge.waitForChange(), m.bridge.waitForCue())
}

// Update routes messages to the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var rearm tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.width = msg.Width
		m.menu.height = msg.Height
	case RoundChangedMsg:
		rearm = m.bridge.waitForChange()
	case CueMsg:
		rearm = m.bridge.waitForCue()
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenPrompt:
		m, cmd = m.updatePrompt(msg)
	case screenGame:
		m, cmd = m.updateGame(msg)
	case screenScoreboard:
		m, cmd = m.updateScoreboard(msg)
	default:
		m, cmd = m.updateMenu(msg)
	}

	return m, tea.Batch(rearm, cmd)
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (AppModel, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.Selected() != nil:
		req := *m.menu.Selected()
		m.menu = m.menu.reset()
		m.start(req)
		return m, m.game.Init()

	case m.menu.WantsPrompt():
		m.menu = m.menu.reset()
		m.prompt = NewPromptModel(m.opts.Generator, m.opts.GenerateTimeout, m.width)
		m.screen = screenPrompt
		return m, m.prompt.Init()

	case m.menu.WantsScoreboard():
		m.menu = m.menu.reset()
		m.scoreboard = NewScoreboardModel(m.opts.Store, m.menu.Mode(), m.menu.Difficulty(), m.width, m.height)
		m.screen = screenScoreboard
		return m, m.scoreboard.Init()
	}

	return m, cmd
}

// updatePrompt handles updates while generating a theme.
func (m AppModel) updatePrompt(msg tea.Msg) (AppModel, tea.Cmd) {
	newPrompt, cmd := m.prompt.Update(msg)
	if promptModel, ok := newPrompt.(PromptModel); ok {
		m.prompt = promptModel
	}

	switch {
	case m.prompt.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.prompt.BackToMenu():
		m.screen = screenMenu
		return m, nil

	case m.prompt.Result() != nil:
		m.start(StartRequest{
			Mode:       m.menu.Mode(),
			Difficulty: m.menu.Difficulty(),
			Theme:      *m.prompt.Result(),
		})
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m AppModel) updateGame(msg tea.Msg) (AppModel, tea.Cmd) {
	newGame, cmd := m.game.Update(msg)
	if gameModel, ok := newGame.(GameModel); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.screen = screenMenu
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates on the scoreboard.
func (m AppModel) updateScoreboard(msg tea.Msg) (AppModel, tea.Cmd) {
	newBoard, cmd := m.scoreboard.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.scoreboard = board
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scoreboard.IsGoingBack() {
		m.screen = screenMenu
		return m, nil
	}

	return m, cmd
}

// start deals a round and switches to the game screen.
func (m *AppModel) start(req StartRequest) {
	m.session.StartRound(req.Theme.Pool(), req.Mode, req.Theme.Title(), req.Difficulty)
	m.game = NewGameModel(m.session, m.opts.Store, m.opts.Logger, m.width, m.height)
	m.screen = screenGame
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenPrompt:
		return m.prompt.View()
	case screenGame:
		return m.game.View()
	case screenScoreboard:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}

// Round returns a snapshot of the session's current round.
func (m AppModel) Round() memory.RoundState {
	return m.session.Round()
}

// Close stops the session's timers and releases pending commands.
func (m AppModel) Close() {
	m.session.Close()
	m.bridge.Close()
}

// Run starts the Bubble Tea program for a local terminal.
func Run(opts Options) error {
	model := NewAppModel(opts)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
