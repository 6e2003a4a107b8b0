package memory

import "time"

// Presentation delays before a face-up pair is resolved.
const (
	MatchDelay    = 500 * time.Millisecond
	MismatchDelay = 1000 * time.Millisecond
)

// Cue is a notification for sound and animation collaborators.
type Cue string

const (
	CueFlip     Cue = "flip"
	CueMatch    Cue = "match"
	CueMismatch Cue = "mismatch"
	CueWin      Cue = "win"
)

// Pending describes a pair waiting to be resolved.
type Pending struct {
	Delay  time.Duration
	Match  bool
	First  int // Card flipped first
	Second int // Card flipped second
}

// SelectResult reports what a selection did.
type SelectResult struct {
	Accepted bool
	Cues     []Cue
	Pending  *Pending // Set when the selection completed a pair
}

// Select flips card id and returns the new state.
//
// The selection is rejected, leaving rs untouched, while a pair is being
// resolved, when the round is not playing, or when the card is unknown,
// already flipped or already matched.
func Select(rs RoundState, id int) (RoundState, SelectResult) {
	card, ok := rs.Card(id)
	if !ok || rs.Processing || rs.Status != StatusPlaying || card.Matched || card.Flipped {
		return rs, SelectResult{}
	}

	next := rs.Clone()
	next.Cards[id].Flipped = true
	res := SelectResult{Accepted: true, Cues: []Cue{CueFlip}}

	if next.Selection.Phase == PhaseNone {
		next.Selection = Selection{Phase: PhaseOne, First: id, Second: -1}
		return next, res
	}

	first := next.Cards[next.Selection.First]
	next.Selection.Second = id
	next.Selection.Phase = PhaseResolving
	next.Moves++
	next.Processing = true

	pending := &Pending{
		Match:  first.Content == card.Content,
		First:  first.ID,
		Second: id,
		Delay:  MismatchDelay,
	}
	if pending.Match {
		pending.Delay = MatchDelay
	}
	res.Pending = pending
	return next, res
}

// Resolve settles the pair currently face up.
// It is a no-op unless the round is resolving a pair.
func Resolve(rs RoundState) (RoundState, []Cue) {
	if rs.Selection.Phase != PhaseResolving || rs.Status != StatusPlaying {
		return rs, nil
	}

	next := rs.Clone()
	first, second := next.Selection.First, next.Selection.Second
	next.Selection = noSelection()
	next.Processing = false

	if next.Cards[first].Content != next.Cards[second].Content {
		next.Cards[first].Flipped = false
		next.Cards[second].Flipped = false
		if next.Mode == ModeMulti {
			next.ActivePlayer = next.ActivePlayer.Other()
		}
		return next, []Cue{CueMismatch}
	}

	cues := []Cue{CueMatch}
	for _, id := range []int{first, second} {
		next.Cards[id].Matched = true
		next.Cards[id].Owner = next.ActivePlayer
	}
	next.Scores.add(next.ActivePlayer)

	if next.Complete() {
		cues = append(cues, CueWin)
		next.Status = finalStatus(next)
	}
	return next, cues
}

func finalStatus(rs RoundState) Status {
	if rs.Mode == ModeMulti && rs.Scores.Of(Player1) == rs.Scores.Of(Player2) {
		return StatusDraw
	}
	return StatusWon
}
