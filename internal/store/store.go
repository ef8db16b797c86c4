// Package store persists finished matches in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/peterkuimelis/rowclash/internal/game"
)

// ErrNotFound is returned when a match id has no record.
var ErrNotFound = errors.New("match not found")

// DefaultListLimit caps ListMatches when no limit is given.
const DefaultListLimit = 50

// Config holds database settings.
type Config struct {
	// Path is the SQLite database file. Parent directories are created.
	Path string

	// BusyTimeout sets how long to wait when the database is locked.
	BusyTimeout time.Duration
}

// MatchRecord is one stored match.
type MatchRecord struct {
	ID           string             `json:"id"`
	TopName      string             `json:"top_name"`
	BottomName   string             `json:"bottom_name"`
	Seed         int64              `json:"seed"`
	TopWon       bool               `json:"top_won"`
	BottomWon    bool               `json:"bottom_won"`
	TopRounds    int                `json:"top_rounds"`
	BottomRounds int                `json:"bottom_rounds"`
	Turns        int                `json:"turns"`
	TurnLimit    bool               `json:"turn_limit"`
	Rounds       []game.RoundResult `json:"rounds"`
	Final        *game.Snapshot     `json:"final,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Winner returns a short label for the outcome.
func (r MatchRecord) Winner() string {
	switch {
	case r.TopWon && !r.BottomWon:
		return r.TopName
	case r.BottomWon && !r.TopWon:
		return r.BottomName
	default:
		return "draw"
	}
}

// RecordFromMatch builds a record from a finished match.
func RecordFromMatch(m *game.Match, res game.MatchResult) MatchRecord {
	snap := m.Board.Snapshot()
	return MatchRecord{
		TopName:      m.Board.PlayerName(game.Top),
		BottomName:   m.Board.PlayerName(game.Bottom),
		Seed:         res.Seed,
		TopWon:       res.TopWon,
		BottomWon:    res.BottomWon,
		TopRounds:    res.TopRounds,
		BottomRounds: res.BottomRounds,
		Turns:        res.Turns,
		TurnLimit:    res.TurnLimit,
		Rounds:       res.Rounds,
		Final:        &snap,
	}
}

// Store persists match records in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the database at cfg.Path and applies pending migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	mgr, err := NewMigrator(path)
	if err != nil {
		return nil, err
	}
	if err := mgr.Up(); err != nil {
		_ = mgr.Close()
		return nil, err
	}
	if err := mgr.Close(); err != nil {
		return nil, fmt.Errorf("close migrator: %w", err)
	}

	busy := cfg.BusyTimeout
	if busy == 0 {
		busy = 5 * time.Second
	}
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, busy.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveMatch inserts a record and returns its id. A missing id is generated
// and a zero CreatedAt is set to now.
func (s *Store) SaveMatch(ctx context.Context, rec MatchRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rounds, err := json.Marshal(rec.Rounds)
	if err != nil {
		return "", fmt.Errorf("marshal rounds: %w", err)
	}
	var final sql.NullString
	if rec.Final != nil {
		data, err := json.Marshal(rec.Final)
		if err != nil {
			return "", fmt.Errorf("marshal final board: %w", err)
		}
		final = sql.NullString{String: string(data), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO matches (
		   id, top_name, bottom_name, seed,
		   top_won, bottom_won, top_rounds, bottom_rounds,
		   turns, turn_limit, rounds_json, final_json, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TopName, rec.BottomName, rec.Seed,
		rec.TopWon, rec.BottomWon, rec.TopRounds, rec.BottomRounds,
		rec.Turns, rec.TurnLimit, string(rounds), final, rec.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("insert match: %w", err)
	}
	return rec.ID, nil
}

// GetMatch loads one record, including the final board.
func (s *Store) GetMatch(ctx context.Context, id string) (MatchRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, top_name, bottom_name, seed, top_won, bottom_won, top_rounds,
		        bottom_rounds, turns, turn_limit, rounds_json, final_json, created_at
		   FROM matches WHERE id = ?`, id)
	rec, err := scanMatch(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchRecord{}, ErrNotFound
	}
	return rec, err
}

// ListMatches returns the most recent records, newest first. Final boards
// are omitted.
func (s *Store) ListMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, top_name, bottom_name, seed, top_won, bottom_won, top_rounds,
		        bottom_rounds, turns, turn_limit, rounds_json, NULL, created_at
		   FROM matches ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(sc scanner, withFinal bool) (MatchRecord, error) {
	var (
		rec       MatchRecord
		rounds    string
		final     sql.NullString
		createdAt int64
	)
	err := sc.Scan(&rec.ID, &rec.TopName, &rec.BottomName, &rec.Seed,
		&rec.TopWon, &rec.BottomWon, &rec.TopRounds, &rec.BottomRounds,
		&rec.Turns, &rec.TurnLimit, &rounds, &final, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MatchRecord{}, err
		}
		return MatchRecord{}, fmt.Errorf("scan match: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	if err := json.Unmarshal([]byte(rounds), &rec.Rounds); err != nil {
		return MatchRecord{}, fmt.Errorf("match %s: decode rounds: %w", rec.ID, err)
	}
	if withFinal && final.Valid {
		var snap game.Snapshot
		if err := json.Unmarshal([]byte(final.String), &snap); err != nil {
			return MatchRecord{}, fmt.Errorf("match %s: decode final board: %w", rec.ID, err)
		}
		rec.Final = &snap
	}
	return rec, nil
}

// Recorder returns a match-over callback that saves each match and logs
// its id.
func (s *Store) Recorder(logger *slog.Logger) func(ctx context.Context, m *game.Match, res game.MatchResult) error {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, m *game.Match, res game.MatchResult) error {
		id, err := s.SaveMatch(ctx, RecordFromMatch(m, res))
		if err != nil {
			logger.Error("save match failed", "error", err)
			return err
		}
		logger.Info("match saved", "id", id, "seed", res.Seed, "turns", res.Turns)
		return nil
	}
}
