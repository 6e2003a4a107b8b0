// Package memory implements the MindFlip pairs game: board generation, the
// round state, the flip/match resolution engine and the session controller
// that owns a round and its scheduled work.
//
// The package has no terminal or network dependencies so the game rules
// stay pure and testable. Presentation lives in internal/platform/tui.
package memory

import "fmt"

// Token is the content printed on a card face (usually an emoji).
type Token string

// PlayerID identifies a player. Solo rounds only ever use Player1.
type PlayerID int

const (
	NoPlayer PlayerID = iota
	Player1
	Player2
)

// Other returns the opposing player.
func (p PlayerID) Other() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// String returns a human-readable name for the player.
func (p PlayerID) String() string {
	switch p {
	case Player1, Player2:
		return fmt.Sprintf("Player %d", int(p))
	default:
		return "Nobody"
	}
}

// Card is a single tile on the board.
// A matched card stays flipped, so Flipped && Matched is a valid combination.
type Card struct {
	ID      int      // Position on the board, stable for the round
	Content Token    // Face value compared for matches
	Flipped bool     // Face up
	Matched bool     // Part of a found pair
	Owner   PlayerID // Player who matched it (NoPlayer until matched)
}

// FaceUp reports whether the card face should be visible.
func (c Card) FaceUp() bool {
	return c.Flipped || c.Matched
}
