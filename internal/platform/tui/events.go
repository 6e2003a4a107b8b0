// Package tui provides the Bubble Tea integration for MindFlip.
// It handles the terminal UI loop, input mapping, and round presentation.
package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mindflip/internal/memory"
)

// flashDuration is how long cue text stays on screen.
const flashDuration = 900 * time.Millisecond

// RoundChangedMsg tells the game model to re-read the session.
type RoundChangedMsg struct{}

// CueMsg carries a session cue into the Bubble Tea loop.
type CueMsg struct {
	Cue memory.Cue
}

// flashExpiredMsg clears flash text if no newer cue replaced it.
type flashExpiredMsg struct {
	seq int
}

// sessionBridge forwards session callbacks, which run on timer goroutines,
// into the program's message loop.
//
// Change notifications coalesce: the model always re-reads the latest
// snapshot, so one pending signal is enough. Cues are buffered and dropped
// when the UI falls behind.
type sessionBridge struct {
	changed chan struct{}
	cues    chan memory.Cue
	done    chan struct{}
	once    sync.Once
}

func newSessionBridge() *sessionBridge {
	return &sessionBridge{
		changed: make(chan struct{}, 1),
		cues:    make(chan memory.Cue, 16),
		done:    make(chan struct{}),
	}
}

// OnChange is the session change hook.
func (b *sessionBridge) OnChange(memory.RoundState) {
	select {
	case b.changed <- struct{}{}:
	default:
	}
}

// Notify implements memory.Notifier.
// Mute only silences the bell, so cues are forwarded regardless.
func (b *sessionBridge) Notify(cue memory.Cue, _ bool) {
	select {
	case b.cues <- cue:
	default:
	}
}

// Close releases any command waiting on the bridge.
func (b *sessionBridge) Close() {
	b.once.Do(func() { close(b.done) })
}

// waitForChange returns a command that waits for the next session change.
func (b *sessionBridge) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.changed:
			return RoundChangedMsg{}
		case <-b.done:
			return nil
		}
	}
}

// waitForCue returns a command that waits for the next cue.
func (b *sessionBridge) waitForCue() tea.Cmd {
	return func() tea.Msg {
		select {
		case cue := <-b.cues:
			return CueMsg{Cue: cue}
		case <-b.done:
			return nil
		}
	}
}

// flashCmd schedules the expiry of flash text number seq.
func flashCmd(seq int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}
