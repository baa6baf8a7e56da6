// Package storage keeps finished battleship matches in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-battleship/internal/multiplayer"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// MatchRecord is one finished match.
type MatchRecord struct {
	ID           int64
	MatchID      string
	Mode         string // "vs_cpu" or "online"
	Player1      string
	Player2      string
	Winner       string // Empty if nobody won
	Score1       int    // Ships sunk by player 1
	Score2       int
	Shots1       int
	Shots2       int
	EndReason    string
	DurationSecs int
	CreatedAt    time.Time
}

// PlayerRecord aggregates results for one player name.
type PlayerRecord struct {
	Name   string
	Games  int
	Wins   int
	Losses int
	Shots  int
	Sunk   int
}

// Accuracy returns ships sunk per shot fired, or 0 with no shots.
func (r PlayerRecord) Accuracy() float64 {
	if r.Shots == 0 {
		return 0
	}
	return float64(r.Sunk) / float64(r.Shots)
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}

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

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			mode TEXT NOT NULL,
			player1 TEXT NOT NULL,
			player2 TEXT NOT NULL,
			winner TEXT,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			shots1 INTEGER NOT NULL DEFAULT 0,
			shots2 INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_player1 ON matches(player1);
		CREATE INDEX IF NOT EXISTS idx_matches_player2 ON matches(player2);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);
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

// SaveMatch records a finished match and returns its row ID.
func (s *Store) SaveMatch(m MatchRecord) (int64, error) {
	var winner sql.NullString
	if m.Winner != "" {
		winner = sql.NullString{String: m.Winner, Valid: true}
	}

	res, err := s.db.Exec(
		`INSERT INTO matches
		 (match_id, mode, player1, player2, winner, score1, score2, shots1, shots2, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MatchID, m.Mode, m.Player1, m.Player2, winner,
		m.Score1, m.Score2, m.Shots1, m.Shots2, m.EndReason, m.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const matchColumns = `id, match_id, mode, player1, player2, winner,
	score1, score2, shots1, shots2, end_reason, duration_secs, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (MatchRecord, error) {
	var m MatchRecord
	var winner sql.NullString
	var createdAt any

	err := row.Scan(
		&m.ID, &m.MatchID, &m.Mode, &m.Player1, &m.Player2, &winner,
		&m.Score1, &m.Score2, &m.Shots1, &m.Shots2, &m.EndReason, &m.DurationSecs,
		&createdAt,
	)
	if err != nil {
		return MatchRecord{}, err
	}
	m.Winner = winner.String
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

// parseTime handles both driver-decoded times and raw DATETIME text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// MatchByID returns the match with the given match ID, or nil if absent.
func (s *Store) MatchByID(matchID string) (*MatchRecord, error) {
	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE match_id = ?`, matchID)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// RecentMatches returns the newest matches first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+` FROM matches ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
}

// PlayerMatches returns the newest matches the named player took part in.
func (s *Store) PlayerMatches(name string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+` FROM matches
		 WHERE player1 = ? OR player2 = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		name, name, limit,
	)
}

func (s *Store) queryMatches(query string, args ...any) ([]MatchRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// PlayerRecords aggregates wins and losses per player, best record first.
// A recorded match with no winner counts as a game but neither a win nor a loss.
func (s *Store) PlayerRecords(limit int) ([]PlayerRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT name,
		        COUNT(*),
		        SUM(CASE WHEN winner = name THEN 1 ELSE 0 END),
		        SUM(CASE WHEN winner IS NOT NULL AND winner <> name THEN 1 ELSE 0 END),
		        SUM(shots),
		        SUM(sunk)
		 FROM (
		     SELECT player1 AS name, winner, shots1 AS shots, score1 AS sunk FROM matches
		     UNION ALL
		     SELECT player2 AS name, winner, shots2 AS shots, score2 AS sunk FROM matches
		 )
		 GROUP BY name
		 ORDER BY 3 DESC, 4 ASC, name ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player records: %w", err)
	}
	defer rows.Close()

	var out []PlayerRecord
	for rows.Next() {
		var r PlayerRecord
		if err := rows.Scan(&r.Name, &r.Games, &r.Wins, &r.Losses, &r.Shots, &r.Sunk); err != nil {
			return nil, fmt.Errorf("storage: cannot scan record row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ClearMatches deletes every recorded match.
func (s *Store) ClearMatches() error {
	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveMatch(MatchRecord{
		MatchID:      data.MatchID,
		Mode:         string(data.Mode),
		Player1:      data.Player1,
		Player2:      data.Player2,
		Winner:       data.Winner,
		Score1:       data.Score1,
		Score2:       data.Score2,
		Shots1:       data.Shots1,
		Shots2:       data.Shots2,
		EndReason:    data.EndReason,
		DurationSecs: data.DurationSecs,
	})
	return err
}

var _ multiplayer.MatchResultSaver = (*Store)(nil)
