package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mindflip/internal/memory"
)

// Card layout constants
const (
	cardInnerWidth = 8 // Columns of text inside a card
	cardGap        = 1 // Columns between cards
)

var (
	colorHidden  = lipgloss.Color("240")
	colorCursor  = lipgloss.Color("229")
	colorFaceUp  = lipgloss.Color("63")
	colorSolo    = lipgloss.Color("42")
	colorPlayer1 = lipgloss.Color("212")
	colorPlayer2 = lipgloss.Color("81")
	colorMuted   = lipgloss.Color("241")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Width(cardInnerWidth).
			Align(lipgloss.Center)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCursor)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// playerColor returns the accent color of a player.
func playerColor(p memory.PlayerID, mode memory.Mode) lipgloss.Color {
	if mode == memory.ModeSingle {
		return colorSolo
	}
	if p == memory.Player2 {
		return colorPlayer2
	}
	return colorPlayer1
}

// renderCard draws one card. Hidden cards show a question mark.
func renderCard(c memory.Card, mode memory.Mode, selected bool) string {
	style := cardStyle
	face := "?"

	switch {
	case c.Matched:
		face = string(c.Content)
		style = style.BorderForeground(playerColor(c.Owner, mode)).Faint(true)
	case c.Flipped:
		face = string(c.Content)
		style = style.BorderForeground(colorFaceUp).Bold(true)
	default:
		style = style.BorderForeground(colorHidden).Foreground(colorHidden)
	}

	if selected {
		style = style.Border(lipgloss.ThickBorder()).BorderForeground(colorCursor).Faint(false)
	}

	return style.Render(truncate(face, cardInnerWidth))
}

// renderBoard lays the cards out row by row.
func renderBoard(rs memory.RoundState, cursor int) string {
	cols := rs.Columns()
	if len(rs.Cards) == 0 || cols <= 0 {
		return ""
	}

	gap := strings.Repeat(" ", cardGap)
	var rows []string
	for start := 0; start < len(rs.Cards); start += cols {
		end := min(start+cols, len(rs.Cards))
		cells := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				cells = append(cells, gap)
			}
			cells = append(cells, renderCard(rs.Cards[i], rs.Mode, i == cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// moveCursor moves the board cursor by dx columns and dy rows.
// Horizontal moves stay within the row; moves off the board are ignored.
func moveCursor(cursor, dx, dy, n, cols int) int {
	if n <= 0 || cols <= 0 {
		return 0
	}
	row, col := cursor/cols, cursor%cols
	col += dx
	row += dy
	if col < 0 || col >= cols || row < 0 {
		return cursor
	}
	next := row*cols + col
	if next >= n {
		return cursor
	}
	return next
}

// formatClock renders the HUD clock as m:ss.
func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// formatDuration renders a finish time as "Xm Ys".
func formatDuration(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// outcomeMessage is the headline of the end overlay.
func outcomeMessage(rs memory.RoundState) string {
	switch rs.Status {
	case memory.StatusDraw:
		return "It's a Draw!"
	case memory.StatusWon:
		if rs.Mode == memory.ModeSingle {
			return fmt.Sprintf("Cleared in %s!", formatDuration(rs.Timer))
		}
		return fmt.Sprintf("%s Wins!", rs.Winner())
	}
	return ""
}

// renderHUD renders the stats line above the board.
func renderHUD(rs memory.RoundState, muted bool) string {
	var parts []string

	if rs.Mode == memory.ModeSingle {
		parts = append(parts,
			"Time "+formatClock(rs.Timer),
			fmt.Sprintf("Moves %d", rs.Moves),
			fmt.Sprintf("Pairs %d/%d", rs.MatchedPairs(), rs.Pairs()),
		)
	} else {
		for _, p := range []memory.PlayerID{memory.Player1, memory.Player2} {
			style := lipgloss.NewStyle().Foreground(playerColor(p, rs.Mode))
			label := fmt.Sprintf("P%d %d", p, rs.Scores.Of(p))
			if p == rs.ActivePlayer && rs.Status == memory.StatusPlaying {
				style = style.Bold(true).Underline(true)
				label = "▶ " + label
			}
			parts = append(parts, style.Render(label))
		}
		parts = append(parts, fmt.Sprintf("Moves %d", rs.Moves))
	}

	if muted {
		parts = append(parts, dimStyle.Render("muted"))
	}
	return strings.Join(parts, "   ")
}

// truncate shortens s to at most width terminal columns.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)+"…") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
