// Package history persists finished combat rounds to sqlite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Round is one finished fight between the two armies.
type Round struct {
	ID          string
	Outcome     string
	StartedAt   float64 // game seconds
	EndedAt     float64
	OwnStart    int
	EnemyStart  int
	OwnLeft     int
	EnemyLeft   int
	Transitions int
	RecordedAt  time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the round database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		outcome TEXT NOT NULL,
		started_at REAL NOT NULL,
		ended_at REAL NOT NULL,
		own_start INTEGER NOT NULL,
		enemy_start INTEGER NOT NULL,
		own_left INTEGER NOT NULL,
		enemy_left INTEGER NOT NULL,
		transitions INTEGER NOT NULL,
		recorded_at DATETIME NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record stores r, stamping RecordedAt when it is zero.
func (s *Store) Record(ctx context.Context, r Round) error {
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO rounds
		(id, outcome, started_at, ended_at, own_start, enemy_start, own_left, enemy_left, transitions, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Outcome, r.StartedAt, r.EndedAt, r.OwnStart, r.EnemyStart,
		r.OwnLeft, r.EnemyLeft, r.Transitions, r.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert round %s: %w", r.ID, err)
	}
	return nil
}

// Recent returns up to n rounds, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Round, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, outcome, started_at, ended_at, own_start, enemy_start, own_left, enemy_left, transitions, recorded_at
		FROM rounds ORDER BY recorded_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	var out []Round
	for rows.Next() {
		var r Round
		if err := rows.Scan(&r.ID, &r.Outcome, &r.StartedAt, &r.EndedAt, &r.OwnStart, &r.EnemyStart,
			&r.OwnLeft, &r.EnemyLeft, &r.Transitions, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Tally counts stored rounds per outcome.
func (s *Store) Tally(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM rounds GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("tally rounds: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan tally: %w", err)
		}
		out[outcome] = n
	}
	return out, rows.Err()
}
