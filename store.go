package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ── Run archive ─────────────────────────────────────────────────────
//
// Optional sqlite archive of generation runs. The optimizer itself never
// touches it; the CLI and the HTTP API attach one when asked to.

// RunRecord is a fully materialized generation run.
type RunRecord struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	Seed      uint64        `json:"seed"`
	Roster    []Player      `json:"roster"`
	Options   Options       `json:"options"`
	Rounds    []RoundResult `json:"rounds"`
	Summary   Summary       `json:"summary"`
}

// NewRunID returns a fresh archive key.
func NewRunID() string { return uuid.NewString() }

type RunStore struct {
	db *sql.DB
}

// OpenRunStore opens (creating if needed) a sqlite archive at path.
func OpenRunStore(ctx context.Context, path string) (*RunStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &RunStore{db: db}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			seed       TEXT NOT NULL,
			roster     BLOB NOT NULL,
			options    BLOB NOT NULL,
			summary    BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS run_rounds (
			run_id   TEXT NOT NULL,
			round    INTEGER NOT NULL,
			payload  BLOB NOT NULL,
			rendered TEXT NOT NULL,
			PRIMARY KEY (run_id, round)
		);
	`)
	return err
}

func (s *RunStore) Close() error { return s.db.Close() }

// SaveRun upserts a run and all of its rounds.
func (s *RunStore) SaveRun(ctx context.Context, run RunRecord) error {
	roster, err := json.Marshal(run.Roster)
	if err != nil {
		return err
	}
	opts, err := json.Marshal(run.Options)
	if err != nil {
		return err
	}
	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, seed, roster, options, summary)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			seed = excluded.seed,
			roster = excluded.roster,
			options = excluded.options,
			summary = excluded.summary
	`, run.ID, run.CreatedAt.UTC().Format(time.RFC3339Nano),
		fmt.Sprintf("%d", run.Seed), roster, opts, summary)
	if err != nil {
		return err
	}

	for _, rr := range run.Rounds {
		payload, err := json.Marshal(rr)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_rounds (run_id, round, payload, rendered)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(run_id, round) DO UPDATE SET
				payload = excluded.payload,
				rendered = excluded.rendered
		`, run.ID, rr.Round, payload, rr.Text)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetRun loads an archived run; the second return is false when the id is
// unknown.
func (s *RunStore) GetRun(ctx context.Context, id string) (RunRecord, bool, error) {
	var (
		run       RunRecord
		createdAt string
		seed      string
		roster    []byte
		opts      []byte
		summary   []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, seed, roster, options, summary
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &createdAt, &seed, &roster, &opts, &summary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, err
	}

	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	fmt.Sscanf(seed, "%d", &run.Seed)
	if err := json.Unmarshal(roster, &run.Roster); err != nil {
		return RunRecord{}, false, fmt.Errorf("decode roster for run %s: %w", id, err)
	}
	if err := json.Unmarshal(opts, &run.Options); err != nil {
		return RunRecord{}, false, fmt.Errorf("decode options for run %s: %w", id, err)
	}
	if err := json.Unmarshal(summary, &run.Summary); err != nil {
		return RunRecord{}, false, fmt.Errorf("decode summary for run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM run_rounds WHERE run_id = ? ORDER BY round
	`, id)
	if err != nil {
		return RunRecord{}, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return RunRecord{}, false, err
		}
		var rr RoundResult
		if err := json.Unmarshal(payload, &rr); err != nil {
			return RunRecord{}, false, fmt.Errorf("decode round for run %s: %w", id, err)
		}
		run.Rounds = append(run.Rounds, rr)
	}
	return run, true, rows.Err()
}
