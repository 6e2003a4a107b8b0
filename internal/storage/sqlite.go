// Package storage provides SQLite-based persistence for finished rounds.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// Only outcomes are stored. A round in progress is never written, so the
// game itself never depends on the database.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/mindflip/internal/memory"
)

// Store manages the SQLite database connection for round outcomes.
type Store struct {
	db *sql.DB
}

// RoundResult is the outcome of one finished round.
type RoundResult struct {
	ID         int64
	Mode       memory.Mode
	Difficulty memory.Difficulty
	Theme      string
	Outcome    memory.Status   // won or draw
	Winner     memory.PlayerID // NoPlayer for a draw
	Pairs      int
	Moves      int
	Seconds    int // Solo clock, zero for duels
	Score1     int
	Score2     int
	CreatedAt  time.Time
}

// ResultFromRound converts a finished round into a result row.
// It returns false while the round is still idle or playing.
func ResultFromRound(rs memory.RoundState) (RoundResult, bool) {
	if !rs.Status.Terminal() {
		return RoundResult{}, false
	}
	return RoundResult{
		Mode:       rs.Mode,
		Difficulty: rs.Difficulty,
		Theme:      rs.Theme,
		Outcome:    rs.Status,
		Winner:     rs.Winner(),
		Pairs:      rs.Pairs(),
		Moves:      rs.Moves,
		Seconds:    rs.Timer,
		Score1:     rs.Scores.Of(memory.Player1),
		Score2:     rs.Scores.Of(memory.Player2),
	}, true
}

// Stats contains aggregated statistics over all stored rounds.
type Stats struct {
	RoundsByMode map[memory.Mode]int
	BestSeconds  map[memory.Difficulty]int // Fastest solo clear per difficulty
	Player1Wins  int
	Player2Wins  int
	Draws        int
	LastPlayed   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			theme TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			winner INTEGER NOT NULL DEFAULT 0,
			pairs INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			seconds INTEGER NOT NULL DEFAULT 0,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_solo ON rounds(mode, difficulty, seconds, moves);
		CREATE INDEX IF NOT EXISTS idx_rounds_created ON rounds(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRound records a finished round.
// Returns the ID of the inserted record.
func (s *Store) SaveRound(r RoundResult) (int64, error) {
	if !r.Outcome.Terminal() {
		return 0, fmt.Errorf("storage: cannot save unfinished round (status %q)", r.Outcome)
	}

	result, err := s.db.Exec(
		`INSERT INTO rounds
		 (mode, difficulty, theme, outcome, winner, pairs, moves, seconds, score1, score2)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.Mode),
		string(r.Difficulty),
		r.Theme,
		string(r.Outcome),
		int(r.Winner),
		r.Pairs,
		r.Moves,
		r.Seconds,
		r.Score1,
		r.Score2,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save round: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const selectRounds = `SELECT id, mode, difficulty, theme, outcome, winner, pairs, moves, seconds, score1, score2, created_at FROM rounds`

// BestSolo retrieves the fastest solo clears for a difficulty.
// Results are ordered by time, then by moves.
func (s *Store) BestSolo(difficulty memory.Difficulty, limit int) ([]RoundResult, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		selectRounds+`
		 WHERE mode = ? AND difficulty = ? AND outcome = ?
		 ORDER BY seconds ASC, moves ASC, id ASC
		 LIMIT ?`,
		string(memory.ModeSingle), string(difficulty), string(memory.StatusWon), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solo rounds: %w", err)
	}
	return scanRounds(rows)
}

// RecentDuels retrieves the most recent duel outcomes.
func (s *Store) RecentDuels(limit int) ([]RoundResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		selectRounds+`
		 WHERE mode = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		string(memory.ModeMulti), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query duels: %w", err)
	}
	return scanRounds(rows)
}

// Stats retrieves aggregated statistics over every stored round.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{
		RoundsByMode: make(map[memory.Mode]int),
		BestSeconds:  make(map[memory.Difficulty]int),
	}

	rows, err := s.db.Query(`SELECT mode, COUNT(*) FROM rounds GROUP BY mode`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count rounds: %w", err)
	}
	for rows.Next() {
		var mode string
		var n int
		if err := rows.Scan(&mode, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats.RoundsByMode[memory.Mode(mode)] = n
	}
	rows.Close()

	rows, err = s.db.Query(
		`SELECT difficulty, MIN(seconds) FROM rounds
		 WHERE mode = ? AND outcome = ?
		 GROUP BY difficulty`,
		string(memory.ModeSingle), string(memory.StatusWon),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best times: %w", err)
	}
	for rows.Next() {
		var difficulty string
		var best int
		if err := rows.Scan(&difficulty, &best); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats.BestSeconds[memory.Difficulty(difficulty)] = best
	}
	rows.Close()

	err = s.db.QueryRow(
		`SELECT
		   COALESCE(SUM(CASE WHEN outcome = ? AND winner = 1 THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN outcome = ? AND winner = 2 THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0)
		 FROM rounds WHERE mode = ?`,
		string(memory.StatusWon), string(memory.StatusWon), string(memory.StatusDraw), string(memory.ModeMulti),
	).Scan(&stats.Player1Wins, &stats.Player2Wins, &stats.Draws)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count duel outcomes: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(`SELECT created_at FROM rounds ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// ClearRounds deletes every stored round.
func (s *Store) ClearRounds() error {
	if _, err := s.db.Exec("DELETE FROM rounds"); err != nil {
		return fmt.Errorf("storage: cannot clear rounds: %w", err)
	}
	return nil
}

func scanRounds(rows *sql.Rows) ([]RoundResult, error) {
	defer rows.Close()

	var results []RoundResult
	for rows.Next() {
		var (
			r                         RoundResult
			mode, difficulty, outcome string
			winner                    int
			createdAt                 any
		)
		if err := rows.Scan(
			&r.ID,
			&mode,
			&difficulty,
			&r.Theme,
			&outcome,
			&winner,
			&r.Pairs,
			&r.Moves,
			&r.Seconds,
			&r.Score1,
			&r.Score2,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Mode = memory.Mode(mode)
		r.Difficulty = memory.Difficulty(difficulty)
		r.Outcome = memory.Status(outcome)
		r.Winner = memory.PlayerID(winner)
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
