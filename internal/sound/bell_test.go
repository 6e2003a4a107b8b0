package sound

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vovakirdan/mindflip/internal/memory"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestBellRings(t *testing.T) {
	tests := []struct {
		cue   memory.Cue
		muted bool
		want  string
	}{
		{memory.CueFlip, false, ""},
		{memory.CueMismatch, false, ""},
		{memory.CueMatch, false, "\a"},
		{memory.CueWin, false, "\a\a"},
		{memory.CueMatch, true, ""},
		{memory.CueWin, true, ""},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		NewBell(&buf).Notify(tt.cue, tt.muted)
		if got := buf.String(); got != tt.want {
			t.Errorf("Notify(%s, muted=%v) wrote %q, want %q", tt.cue, tt.muted, got, tt.want)
		}
	}
}

func TestBellIgnoresWriteErrors(t *testing.T) {
	NewBell(failingWriter{}).Notify(memory.CueWin, false)
	NewBell(nil).Notify(memory.CueWin, false)
}

func TestMultiAndFunc(t *testing.T) {
	var got []memory.Cue
	var buf bytes.Buffer

	m := Multi{
		NewBell(&buf),
		nil,
		Func(func(c memory.Cue, muted bool) { got = append(got, c) }),
	}
	m.Notify(memory.CueMatch, false)
	m.Notify(memory.CueFlip, false)

	if buf.String() != "\a" {
		t.Errorf("bell wrote %q, want one BEL", buf.String())
	}
	if len(got) != 2 || got[0] != memory.CueMatch || got[1] != memory.CueFlip {
		t.Errorf("func saw %v", got)
	}
}
