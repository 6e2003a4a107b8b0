package tui

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mindflip/internal/config"
	"github.com/vovakirdan/mindflip/internal/memory"
	"github.com/vovakirdan/mindflip/internal/storage"
	"github.com/vovakirdan/mindflip/internal/theme"
)

// manualScheduler queues one-shot work until the test flushes it.
// Repeating work is recorded but never fires.
type manualScheduler struct {
	pending []*manualTask
}

type manualTask struct {
	fn      func()
	stopped bool
}

func (s *manualScheduler) AfterFunc(_ time.Duration, fn func()) func() {
	task := &manualTask{fn: fn}
	s.pending = append(s.pending, task)
	return func() { task.stopped = true }
}

func (s *manualScheduler) Every(time.Duration, func()) func() {
	return func() {}
}

// flush runs every queued task that was not stopped.
func (s *manualScheduler) flush() {
	tasks := s.pending
	s.pending = nil
	for _, task := range tasks {
		if !task.stopped {
			task.fn()
		}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var keyEnter = tea.KeyMsg{Type: tea.KeyEnter}

func send(t *testing.T, m AppModel, msgs ...tea.Msg) AppModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		app, ok := next.(AppModel)
		if !ok {
			t.Fatalf("Update returned %T, want AppModel", next)
		}
		m = app
	}
	return m
}

func testCatalog(t *testing.T) *theme.Catalog {
	t.Helper()
	catalog, err := theme.NewCatalog(config.Default())
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return catalog
}

// flipAt moves the cursor to card id and flips it.
func flipAt(t *testing.T, m AppModel, id int) AppModel {
	t.Helper()
	cols := m.Round().Columns()
	for m.game.Cursor()/cols < id/cols {
		m = send(t, m, keyRunes("j"))
	}
	for m.game.Cursor()/cols > id/cols {
		m = send(t, m, keyRunes("k"))
	}
	for m.game.Cursor()%cols < id%cols {
		m = send(t, m, keyRunes("l"))
	}
	for m.game.Cursor()%cols > id%cols {
		m = send(t, m, keyRunes("h"))
	}
	if m.game.Cursor() != id {
		t.Fatalf("cursor = %d, want %d", m.game.Cursor(), id)
	}
	return send(t, m, keyEnter)
}

// pairs groups card ids by content.
func pairs(rs memory.RoundState) [][2]int {
	seen := map[memory.Token]int{}
	var out [][2]int
	for _, c := range rs.Cards {
		if first, ok := seen[c.Content]; ok {
			out = append(out, [2]int{first, c.ID})
			continue
		}
		seen[c.Content] = c.ID
	}
	return out
}

func TestAppSoloRoundIsSaved(t *testing.T) {
	catalog := testCatalog(t)
	fruits, err := catalog.Get("fruits")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	sched := &manualScheduler{}
	var bell bytes.Buffer
	m := NewAppModel(Options{
		Catalog:   catalog,
		Store:     store,
		Bell:      &bell,
		Seed:      7,
		Scheduler: sched,
		Width:     100,
		Height:    40,
		Start: &StartRequest{
			Mode:       memory.ModeSingle,
			Difficulty: memory.DifficultyEasy,
			Theme:      fruits,
		},
	})
	defer m.Close()

	if m.screen != screenGame {
		t.Fatalf("screen = %v, want game", m.screen)
	}

	rs := m.Round()
	if rs.Status != memory.StatusPlaying || rs.Pairs() != 6 {
		t.Fatalf("round = %v with %d pairs, want playing with 6", rs.Status, rs.Pairs())
	}

	for _, p := range pairs(rs) {
		m = flipAt(t, m, p[0])
		m = flipAt(t, m, p[1])
		sched.flush()
		m = send(t, m, RoundChangedMsg{})
	}

	rs = m.Round()
	if rs.Status != memory.StatusWon {
		t.Fatalf("status = %v, want won", rs.Status)
	}
	if !strings.Contains(m.View(), "Cleared in") {
		t.Error("view does not show the outcome")
	}

	// A second change notification must not store the round again.
	m = send(t, m, RoundChangedMsg{})

	results, err := store.BestSolo(memory.DifficultyEasy, 10)
	if err != nil {
		t.Fatalf("BestSolo() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("stored %d rounds, want 1", len(results))
	}
	if results[0].Moves != 6 || results[0].Theme != fruits.Title() {
		t.Errorf("stored %+v", results[0])
	}

	if got := strings.Count(bell.String(), "\a"); got != 8 {
		t.Errorf("bell rang %d times, want 8", got)
	}
}

func TestAppMismatchAndMenuRoundTrip(t *testing.T) {
	catalog := testCatalog(t)
	sched := &manualScheduler{}
	m := NewAppModel(Options{
		Catalog:   catalog,
		Seed:      3,
		Scheduler: sched,
		Width:     80,
		Height:    30,
		Defaults:  config.Defaults{Mode: "duel", Theme: "animals"},
	})
	defer m.Close()

	if m.screen != screenMenu {
		t.Fatalf("screen = %v, want menu", m.screen)
	}

	m = send(t, m, keyEnter)
	if m.screen != screenGame {
		t.Fatalf("screen = %v, want game", m.screen)
	}
	rs := m.Round()
	if rs.Mode != memory.ModeMulti || rs.Pairs() != memory.DuelPairs {
		t.Fatalf("round mode %v with %d pairs, want duel", rs.Mode, rs.Pairs())
	}

	// Flip two cards with different contents.
	a := rs.Cards[0]
	b := -1
	for _, c := range rs.Cards[1:] {
		if c.Content != a.Content {
			b = c.ID
			break
		}
	}
	m = flipAt(t, m, a.ID)
	m = flipAt(t, m, b)

	m = send(t, m, CueMsg{Cue: memory.CueMismatch})
	if m.game.flash != "No match" {
		t.Errorf("flash = %q, want %q", m.game.flash, "No match")
	}

	sched.flush()
	m = send(t, m, RoundChangedMsg{})
	rs = m.Round()
	if rs.ActivePlayer != memory.Player2 {
		t.Errorf("active player = %v, want Player 2", rs.ActivePlayer)
	}
	if rs.Cards[a.ID].Flipped || rs.Cards[b].Flipped {
		t.Error("mismatched cards should be face down")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, want menu", m.screen)
	}
	if got := m.Round().Status; got != memory.StatusIdle {
		t.Errorf("status after menu = %v, want idle", got)
	}
	if m.menu.Mode() != memory.ModeMulti {
		t.Error("menu forgot the chosen mode")
	}
}

func TestAppGeneratedTheme(t *testing.T) {
	catalog := testCatalog(t)
	generated := theme.Theme{
		ID:    theme.GeneratedID,
		Name:  "Ocean",
		Items: []memory.Token{"🐙", "🐠", "🦈", "🐳", "🦀", "🐚", "🪼", "🐬"},
	}
	var gotPrompt string
	gen := theme.GeneratorFunc(func(_ context.Context, prompt string) theme.Theme {
		gotPrompt = prompt
		return generated
	})

	m := NewAppModel(Options{
		Catalog:   catalog,
		Generator: gen,
		Scheduler: &manualScheduler{},
		Width:     80,
		Height:    30,
	})
	defer m.Close()

	// The Generate entry is the last menu row.
	for i := 0; i < m.menu.rows(); i++ {
		m = send(t, m, keyRunes("j"))
	}
	m = send(t, m, keyEnter)
	if m.screen != screenPrompt {
		t.Fatalf("screen = %v, want prompt", m.screen)
	}

	m = send(t, m, keyRunes("ocean"))
	next, cmd := m.Update(keyEnter)
	m = next.(AppModel)
	if !m.prompt.generating || cmd == nil {
		t.Fatal("enter should start generating")
	}

	msg := m.prompt.generate(m.prompt.seq, "ocean")()
	m = send(t, m, msg)
	if gotPrompt != "ocean" {
		t.Errorf("generator prompt = %q, want %q", gotPrompt, "ocean")
	}
	if m.screen != screenGame {
		t.Fatalf("screen = %v, want game", m.screen)
	}
	if rs := m.Round(); rs.Theme != "Ocean" {
		t.Errorf("theme = %q, want Ocean", rs.Theme)
	}
}

func TestPromptIgnoresStaleResult(t *testing.T) {
	gen := theme.GeneratorFunc(func(context.Context, string) theme.Theme {
		return theme.Theme{Name: "Late"}
	})
	p := NewPromptModel(gen, time.Second, 80)

	update := func(msg tea.Msg) {
		next, _ := p.Update(msg)
		p = next.(PromptModel)
	}

	update(keyRunes("space"))
	update(keyEnter)
	stale := p.generate(p.seq, "space")()
	update(tea.KeyMsg{Type: tea.KeyEsc})
	update(stale)

	if p.Result() != nil {
		t.Error("cancelled request produced a result")
	}
	if !p.BackToMenu() {
		t.Error("esc should go back to the menu")
	}
}

func TestMenuCyclesChoices(t *testing.T) {
	catalog := testCatalog(t)
	m := NewMenuModel(catalog, config.Defaults{Theme: "space"}, 80, 24)

	update := func(msgs ...tea.Msg) {
		for _, msg := range msgs {
			next, _ := m.Update(msg)
			m = next.(MenuModel)
		}
	}

	if m.cursor != rowFirstTheme+3 {
		t.Fatalf("cursor = %d, want the space theme row", m.cursor)
	}

	for m.cursor > rowDifficulty {
		update(keyRunes("k"))
	}
	update(keyRunes("l"))
	if m.Difficulty() != memory.DifficultyHard {
		t.Errorf("difficulty = %v, want hard", m.Difficulty())
	}
	update(keyRunes("l"))
	if m.Difficulty() != memory.DifficultyEasy {
		t.Errorf("difficulty = %v, want easy after wrapping", m.Difficulty())
	}

	update(keyRunes("k"), keyEnter)
	if m.Mode() != memory.ModeMulti {
		t.Errorf("mode = %v, want multi", m.Mode())
	}

	// Difficulty is fixed in a duel.
	update(keyRunes("j"), keyRunes("l"))
	if m.Difficulty() != memory.DifficultyEasy {
		t.Errorf("difficulty changed in duel mode: %v", m.Difficulty())
	}

	update(keyRunes("j"), keyEnter)
	sel := m.Selected()
	if sel == nil {
		t.Fatal("no round selected")
	}
	if sel.Theme.ID != "fruits" || sel.Mode != memory.ModeMulti {
		t.Errorf("selected %+v", sel)
	}

	update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.WantsScoreboard() {
		t.Error("tab should open the scoreboard")
	}
	if m = m.reset(); m.Selected() != nil || m.WantsScoreboard() {
		t.Error("reset kept one-shot results")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, memory.ModeMulti, memory.DifficultyEasy, 100, 30)
	if !m.tabs[m.tabCursor].duel() {
		t.Errorf("opened on %q, want the duel tab", m.tabs[m.tabCursor].title)
	}
	if !strings.Contains(m.View(), "unavailable") {
		t.Error("view should explain that scores are unavailable")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.tabCursor != 0 {
		t.Errorf("tab cursor = %d, want wrap to 0", m.tabCursor)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}
