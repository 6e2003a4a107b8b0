package memory

import (
	"math/rand"
	"reflect"
	"testing"
)

// layout builds a playing round with cards in the given order.
func layout(mode Mode, contents ...Token) RoundState {
	cards := make([]Card, len(contents))
	for i, c := range contents {
		cards[i] = Card{ID: i, Content: c}
	}
	return RoundState{
		Cards:        cards,
		ActivePlayer: Player1,
		Mode:         mode,
		Difficulty:   DifficultyMedium,
		Status:       StatusPlaying,
		Theme:        "test",
		Selection:    noSelection(),
	}
}

// positions returns the ids of the two cards holding content.
func positions(t *testing.T, rs RoundState, content Token) (int, int) {
	t.Helper()
	var ids []int
	for _, c := range rs.Cards {
		if c.Content == content {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) != 2 {
		t.Fatalf("content %q found %d times, want 2", content, len(ids))
	}
	return ids[0], ids[1]
}

func mustSelect(t *testing.T, rs RoundState, id int) (RoundState, SelectResult) {
	t.Helper()
	next, res := Select(rs, id)
	if !res.Accepted {
		t.Fatalf("Select(%d) rejected", id)
	}
	return next, res
}

func TestSelectFirstCard(t *testing.T) {
	rs := layout(ModeSingle, "A", "B", "A", "B")

	next, res := mustSelect(t, rs, 1)

	if !next.Cards[1].Flipped {
		t.Error("selected card should be flipped")
	}
	if next.Processing {
		t.Error("one card should not block input")
	}
	if next.Moves != 0 {
		t.Errorf("Moves = %d, want 0 after one card", next.Moves)
	}
	if res.Pending != nil {
		t.Error("one card should not schedule a resolution")
	}
	if !reflect.DeepEqual(res.Cues, []Cue{CueFlip}) {
		t.Errorf("cues = %v, want [flip]", res.Cues)
	}
	if next.Selection.Phase != PhaseOne || next.Selection.First != 1 {
		t.Errorf("selection = %+v, want one selected at 1", next.Selection)
	}
	if rs.Cards[1].Flipped {
		t.Error("Select must not mutate its input")
	}
}

func TestSelectGuards(t *testing.T) {
	base := layout(ModeMulti, "A", "B", "A", "B", "C", "C")
	base.Cards[4].Flipped = true
	base.Cards[4].Matched = true
	base.Cards[5].Flipped = true
	base.Cards[5].Matched = true

	oneUp, _ := mustSelect(t, base, 0)
	processing, _ := mustSelect(t, oneUp, 1)

	won := base.Clone()
	won.Status = StatusWon
	draw := base.Clone()
	draw.Status = StatusDraw
	idle := base.Clone()
	idle.Status = StatusIdle

	tests := []struct {
		name string
		rs   RoundState
		id   int
	}{
		{"matched card", base, 4},
		{"flipped card", oneUp, 0},
		{"while processing", processing, 3},
		{"won round", won, 0},
		{"draw round", draw, 0},
		{"idle round", idle, 0},
		{"negative id", base, -1},
		{"id past end", base, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.rs.Clone()
			after, res := Select(tt.rs, tt.id)

			if res.Accepted {
				t.Fatal("selection should be rejected")
			}
			if len(res.Cues) != 0 || res.Pending != nil {
				t.Errorf("rejected selection produced side effects: %+v", res)
			}
			if !reflect.DeepEqual(before, after) {
				t.Errorf("state changed:\nbefore %+v\nafter  %+v", before, after)
			}
		})
	}
}

func TestSelectSecondCardSchedulesResolution(t *testing.T) {
	tests := []struct {
		name      string
		second    int
		wantMatch bool
		wantDelay int64
	}{
		{"matching pair", 2, true, int64(MatchDelay)},
		{"mismatched pair", 1, false, int64(MismatchDelay)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, _ := mustSelect(t, layout(ModeSingle, "A", "B", "A", "B"), 0)
			rs, res := mustSelect(t, rs, tt.second)

			if !rs.Processing {
				t.Error("two face-up cards should block input")
			}
			if rs.Moves != 1 {
				t.Errorf("Moves = %d, want 1", rs.Moves)
			}
			if rs.Selection.Phase != PhaseResolving {
				t.Errorf("phase = %v, want resolving", rs.Selection.Phase)
			}
			if res.Pending == nil {
				t.Fatal("expected a pending resolution")
			}
			if res.Pending.Match != tt.wantMatch {
				t.Errorf("Pending.Match = %v, want %v", res.Pending.Match, tt.wantMatch)
			}
			if int64(res.Pending.Delay) != tt.wantDelay {
				t.Errorf("Pending.Delay = %v, want %v", res.Pending.Delay, tt.wantDelay)
			}
			if res.Pending.First != 0 || res.Pending.Second != tt.second {
				t.Errorf("pending order = (%d, %d), want (0, %d)", res.Pending.First, res.Pending.Second, tt.second)
			}
			if got := len(rs.ActiveSet()); got != 2 {
				t.Errorf("active set size = %d, want 2", got)
			}
		})
	}
}

func TestResolveMatch(t *testing.T) {
	for _, active := range []PlayerID{Player1, Player2} {
		t.Run(active.String(), func(t *testing.T) {
			rs := layout(ModeMulti, "A", "B", "A", "B")
			rs.ActivePlayer = active

			rs, _ = mustSelect(t, rs, 0)
			rs, _ = mustSelect(t, rs, 2)
			rs, cues := Resolve(rs)

			if !reflect.DeepEqual(cues, []Cue{CueMatch}) {
				t.Errorf("cues = %v, want [match]", cues)
			}
			for _, id := range []int{0, 2} {
				c := rs.Cards[id]
				if !c.Matched || !c.Flipped {
					t.Errorf("card %d should be matched and face up: %+v", id, c)
				}
				if c.Owner != active {
					t.Errorf("card %d owner = %v, want %v", id, c.Owner, active)
				}
			}
			if rs.Scores.Of(active) != 1 || rs.Scores.Of(active.Other()) != 0 {
				t.Errorf("scores = %v, want 1 for %v only", rs.Scores, active)
			}
			if rs.ActivePlayer != active {
				t.Errorf("match should keep the turn: active = %v, want %v", rs.ActivePlayer, active)
			}
			if rs.Processing {
				t.Error("processing should clear after resolution")
			}
			if rs.Status != StatusPlaying {
				t.Errorf("status = %s, want playing", rs.Status)
			}
			if rs.Selection.Phase != PhaseNone {
				t.Errorf("selection should reset, got %+v", rs.Selection)
			}
		})
	}
}

func TestResolveMismatch(t *testing.T) {
	tests := []struct {
		mode       Mode
		wantActive PlayerID
	}{
		{ModeSingle, Player1},
		{ModeMulti, Player2},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			rs, _ := mustSelect(t, layout(tt.mode, "A", "B", "A", "B"), 0)
			rs, _ = mustSelect(t, rs, 1)
			rs, cues := Resolve(rs)

			if !reflect.DeepEqual(cues, []Cue{CueMismatch}) {
				t.Errorf("cues = %v, want [mismatch]", cues)
			}
			for _, id := range []int{0, 1} {
				if rs.Cards[id].Flipped || rs.Cards[id].Matched {
					t.Errorf("card %d should be hidden again: %+v", id, rs.Cards[id])
				}
			}
			if rs.ActivePlayer != tt.wantActive {
				t.Errorf("active = %v, want %v", rs.ActivePlayer, tt.wantActive)
			}
			if rs.Processing {
				t.Error("processing should clear after resolution")
			}
			if rs.Moves != 1 {
				t.Errorf("Moves = %d, want 1", rs.Moves)
			}
			if len(rs.ActiveSet()) != 0 {
				t.Error("active set should be empty")
			}
		})
	}
}

func TestResolveWithoutPendingPair(t *testing.T) {
	rs := layout(ModeSingle, "A", "A")
	after, cues := Resolve(rs)
	if cues != nil || !reflect.DeepEqual(rs, after) {
		t.Error("Resolve without a pending pair should do nothing")
	}

	rs, _ = mustSelect(t, rs, 0)
	after, cues = Resolve(rs)
	if cues != nil || !reflect.DeepEqual(rs, after) {
		t.Error("Resolve with one card up should do nothing")
	}
}

func TestLastPairOutcome(t *testing.T) {
	tests := []struct {
		name       string
		mode       Mode
		scores     Scores
		active     PlayerID
		wantStatus Status
		wantWinner PlayerID
	}{
		{"solo", ModeSingle, Scores{1, 0}, Player1, StatusWon, Player1},
		{"duel leader", ModeMulti, Scores{1, 0}, Player1, StatusWon, Player1},
		{"duel comeback", ModeMulti, Scores{1, 0}, Player2, StatusDraw, NoPlayer},
		{"duel player two leads", ModeMulti, Scores{0, 1}, Player2, StatusWon, Player2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := layout(tt.mode, "A", "B", "A", "B")
			rs.Cards[1].Flipped, rs.Cards[1].Matched = true, true
			rs.Cards[3].Flipped, rs.Cards[3].Matched = true, true
			rs.Scores = tt.scores
			rs.ActivePlayer = tt.active

			rs, _ = mustSelect(t, rs, 0)
			rs, _ = mustSelect(t, rs, 2)
			rs, cues := Resolve(rs)

			if !reflect.DeepEqual(cues, []Cue{CueMatch, CueWin}) {
				t.Errorf("cues = %v, want [match win]", cues)
			}
			if rs.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", rs.Status, tt.wantStatus)
			}
			if rs.Winner() != tt.wantWinner {
				t.Errorf("winner = %v, want %v", rs.Winner(), tt.wantWinner)
			}
			if !rs.Complete() {
				t.Error("round should be complete")
			}

			if _, res := Select(rs, 0); res.Accepted {
				t.Error("finished round should reject selections")
			}
		})
	}
}

func TestScoresNeverDecrease(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	rs := NewRound(tokens(8), ModeMulti, "fuzz", DifficultyMedium, rng)

	prev := rs.Scores
	for step := 0; step < 5000 && rs.Status == StatusPlaying; step++ {
		var res SelectResult
		rs, res = Select(rs, rng.Intn(len(rs.Cards)))
		if res.Pending != nil {
			rs, _ = Resolve(rs)
		}

		faceUp := 0
		for _, c := range rs.Cards {
			if c.Flipped && !c.Matched {
				faceUp++
			}
		}
		if faceUp > 2 {
			t.Fatalf("step %d: %d unmatched cards face up", step, faceUp)
		}
		if rs.Scores[0] < prev[0] || rs.Scores[1] < prev[1] {
			t.Fatalf("step %d: scores decreased %v -> %v", step, prev, rs.Scores)
		}
		prev = rs.Scores
	}

	if rs.Status == StatusPlaying {
		t.Fatal("random play should finish an 8-pair board within 5000 picks")
	}
	if rs.Scores[0]+rs.Scores[1] != 8 {
		t.Errorf("total score = %d, want 8", rs.Scores[0]+rs.Scores[1])
	}
}

func TestScenarioSoloMedium(t *testing.T) {
	pool := []Token{"A", "B", "C", "D", "E", "F", "G", "H"}
	rs := NewRound(pool, ModeSingle, "Letters", DifficultyMedium, rand.New(rand.NewSource(5)))

	if len(rs.Cards) != 16 {
		t.Fatalf("got %d cards, want 16", len(rs.Cards))
	}
	counts := contentCounts(rs.Cards)
	if len(counts) != 8 {
		t.Fatalf("got %d contents, want 8", len(counts))
	}

	a1, a2 := positions(t, rs, "A")
	rs, _ = mustSelect(t, rs, a1)
	rs, _ = mustSelect(t, rs, a2)
	rs, _ = Resolve(rs)

	if !rs.Cards[a1].Matched || !rs.Cards[a2].Matched {
		t.Error("both A cards should be matched")
	}
	if rs.Moves != 1 {
		t.Errorf("Moves = %d, want 1", rs.Moves)
	}
	if rs.Scores.Of(Player1) != 1 {
		t.Errorf("score = %d, want 1", rs.Scores.Of(Player1))
	}
}

func TestScenarioDuelMismatch(t *testing.T) {
	rs := NewRound(tokens(12), ModeMulti, "Duel", DifficultyHard, rand.New(rand.NewSource(8)))
	if len(rs.Cards) != 16 {
		t.Fatalf("duel board has %d cards, want 16", len(rs.Cards))
	}

	first := rs.Cards[0]
	second := -1
	for _, c := range rs.Cards[1:] {
		if c.Content != first.Content {
			second = c.ID
			break
		}
	}

	rs, _ = mustSelect(t, rs, first.ID)
	rs, _ = mustSelect(t, rs, second)
	rs, _ = Resolve(rs)

	if rs.Cards[first.ID].Flipped || rs.Cards[second].Flipped {
		t.Error("mismatched cards should be face down")
	}
	if rs.ActivePlayer != Player2 {
		t.Errorf("active = %v, want Player 2", rs.ActivePlayer)
	}
	if rs.Processing {
		t.Error("processing should be false")
	}
	if rs.Moves != 1 {
		t.Errorf("Moves = %d, want 1", rs.Moves)
	}
}

func TestScenarioDuelMatchKeepsTurn(t *testing.T) {
	rs := NewRound(tokens(8), ModeMulti, "Duel", DifficultyEasy, rand.New(rand.NewSource(11)))

	x1, x2 := positions(t, rs, rs.Cards[0].Content)
	rs, _ = mustSelect(t, rs, x1)
	rs, _ = mustSelect(t, rs, x2)
	rs, _ = Resolve(rs)

	if rs.ActivePlayer != Player1 {
		t.Errorf("active = %v, want Player 1", rs.ActivePlayer)
	}
	if rs.Scores.Of(Player1) != 1 {
		t.Errorf("score = %d, want 1", rs.Scores.Of(Player1))
	}
}
