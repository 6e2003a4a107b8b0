package memory

import (
	"fmt"
	"math/rand"
	"strings"
)

// Mode selects solo or duel play.
type Mode string

const (
	ModeSingle Mode = "single" // Timed solo run
	ModeMulti  Mode = "multi"  // Local two-player duel
)

// ParseMode accepts "single"/"solo" and "multi"/"duel".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "solo":
		return ModeSingle, nil
	case "multi", "duel":
		return ModeMulti, nil
	default:
		return "", fmt.Errorf("memory: unknown mode %q", s)
	}
}

// Label returns the display name of the mode.
func (m Mode) Label() string {
	if m == ModeMulti {
		return "1v1 Duel"
	}
	return "Solo Run"
}

// Difficulty selects the board size for solo play.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the presets in menu order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty parses a difficulty preset name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("memory: unknown difficulty %q", s)
	}
}

// Status is the round lifecycle: idle -> playing -> {won, draw}.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusDraw    Status = "draw"
)

// Terminal reports whether the round has finished.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusDraw
}

// DuelPairs is the fixed pair count for duel rounds.
const DuelPairs = 8

// PairCount returns how many pairs a round deals.
// Difficulty only applies to solo play.
func PairCount(mode Mode, difficulty Difficulty) int {
	if mode == ModeMulti {
		return DuelPairs
	}
	switch difficulty {
	case DifficultyEasy:
		return 6
	case DifficultyHard:
		return 10
	default:
		return 8
	}
}

// Phase is the state of the pending pair.
type Phase int

const (
	PhaseNone      Phase = iota // No card face up
	PhaseOne                    // One card face up, waiting for the second
	PhaseResolving              // Two cards face up, input blocked until resolved
)

// Selection tracks the cards picked in the current turn in flip order.
type Selection struct {
	Phase  Phase
	First  int
	Second int
}

func noSelection() Selection {
	return Selection{Phase: PhaseNone, First: -1, Second: -1}
}

// Scores holds the per-player pair counts.
type Scores [2]int

// Of returns the score of player p.
func (s Scores) Of(p PlayerID) int {
	if p != Player1 && p != Player2 {
		return 0
	}
	return s[p-1]
}

func (s *Scores) add(p PlayerID) {
	if p == Player1 || p == Player2 {
		s[p-1]++
	}
}

// RoundState is the authoritative record of one round.
// It is a value: the engine returns modified copies and never keeps a
// reference to the caller's cards.
type RoundState struct {
	Cards        []Card // Board layout, never reordered after creation
	Moves        int    // Pairs attempted
	Scores       Scores
	ActivePlayer PlayerID
	Mode         Mode
	Difficulty   Difficulty
	Timer        int // Elapsed whole seconds (solo only)
	Processing   bool
	Status       Status
	Theme        string
	Selection    Selection
	Generation   uint64 // Identifies the round within its session
}

// IdleRound returns the pre-round state shown at the menu.
func IdleRound() RoundState {
	return RoundState{
		ActivePlayer: Player1,
		Mode:         ModeSingle,
		Difficulty:   DifficultyMedium,
		Status:       StatusIdle,
		Selection:    noSelection(),
	}
}

// NewRound deals a fresh board and resets every counter.
func NewRound(pool []Token, mode Mode, theme string, difficulty Difficulty, rng *rand.Rand) RoundState {
	return RoundState{
		Cards:        Generate(pool, PairCount(mode, difficulty), rng),
		ActivePlayer: Player1,
		Mode:         mode,
		Difficulty:   difficulty,
		Status:       StatusPlaying,
		Theme:        theme,
		Selection:    noSelection(),
	}
}

// Clone returns a deep copy.
func (rs RoundState) Clone() RoundState {
	if rs.Cards != nil {
		cards := make([]Card, len(rs.Cards))
		copy(cards, rs.Cards)
		rs.Cards = cards
	}
	return rs
}

// Card returns the card with the given id.
func (rs RoundState) Card(id int) (Card, bool) {
	if id < 0 || id >= len(rs.Cards) {
		return Card{}, false
	}
	return rs.Cards[id], true
}

// Pairs returns the number of pairs on the board.
func (rs RoundState) Pairs() int {
	return len(rs.Cards) / 2
}

// MatchedPairs returns how many pairs have been found.
func (rs RoundState) MatchedPairs() int {
	n := 0
	for _, c := range rs.Cards {
		if c.Matched {
			n++
		}
	}
	return n / 2
}

// Complete reports whether every card has been matched.
func (rs RoundState) Complete() bool {
	if len(rs.Cards) == 0 {
		return false
	}
	for _, c := range rs.Cards {
		if !c.Matched {
			return false
		}
	}
	return true
}

// ActiveSet returns the flipped but unmatched cards in flip order.
func (rs RoundState) ActiveSet() []Card {
	var out []Card
	for _, id := range []int{rs.Selection.First, rs.Selection.Second} {
		if c, ok := rs.Card(id); ok && c.Flipped && !c.Matched {
			out = append(out, c)
		}
	}
	return out
}

// DistinctContents returns the board's contents in first-seen board order.
func (rs RoundState) DistinctContents() []Token {
	pool := make([]Token, len(rs.Cards))
	for i, c := range rs.Cards {
		pool[i] = c.Content
	}
	return DistinctTokens(pool)
}

// Winner returns the winning player of a finished round, or NoPlayer for a
// draw or an unfinished round.
func (rs RoundState) Winner() PlayerID {
	if rs.Status != StatusWon {
		return NoPlayer
	}
	if rs.Mode == ModeSingle {
		return Player1
	}
	switch p1, p2 := rs.Scores.Of(Player1), rs.Scores.Of(Player2); {
	case p1 > p2:
		return Player1
	case p2 > p1:
		return Player2
	default:
		return NoPlayer
	}
}

// Columns returns the grid width used to lay the board out.
func (rs RoundState) Columns() int {
	if rs.Mode == ModeSingle && rs.Difficulty == DifficultyHard {
		return 5
	}
	return 4
}
