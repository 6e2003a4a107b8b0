// Package sound turns game cues into terminal feedback.
//
// Terminals have no synthesiser, so the audible channel is the BEL
// character: one ring for a match, two for a win. Flips and mismatches stay
// silent.
package sound

import (
	"io"
	"sync"

	"github.com/vovakirdan/mindflip/internal/memory"
)

const bel = "\a"

// Bell writes BEL characters to a terminal.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell creates a bell ringing on w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Rings returns how many times a cue rings the bell.
func Rings(cue memory.Cue) int {
	switch cue {
	case memory.CueMatch:
		return 1
	case memory.CueWin:
		return 2
	default:
		return 0
	}
}

// Notify implements memory.Notifier. Write errors are ignored.
func (b *Bell) Notify(cue memory.Cue, muted bool) {
	n := Rings(cue)
	if muted || n == 0 || b.w == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < n; i++ {
		_, _ = io.WriteString(b.w, bel)
	}
}

// Multi fans every cue out to several notifiers.
type Multi []memory.Notifier

// Notify implements memory.Notifier.
func (m Multi) Notify(cue memory.Cue, muted bool) {
	for _, n := range m {
		if n != nil {
			n.Notify(cue, muted)
		}
	}
}

// Func adapts a function to memory.Notifier.
type Func func(cue memory.Cue, muted bool)

// Notify implements memory.Notifier.
func (f Func) Notify(cue memory.Cue, muted bool) { f(cue, muted) }

var (
	_ memory.Notifier = (*Bell)(nil)
	_ memory.Notifier = Multi(nil)
	_ memory.Notifier = Func(nil)
)
