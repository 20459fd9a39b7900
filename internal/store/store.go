// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists census runs in SQLite so that distributions can
// be queried and exported after the run.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ratelaw/internal/census"
	"github.com/pdiddy/ratelaw/pkg/types"
)

const (
	dbFile = "census.db"

	// timeLayout is fixed-width so that stored times sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNoRuns is returned when a run is requested from an empty store.
var ErrNoRuns = errors.New("no census runs stored")

// Store manages the census SQLite database.
type Store struct {
	db  *sql.DB
	dir string
}

// NewStore opens or creates dir/census.db and its schema.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: cfg.Dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			processed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS models (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			reactions INTEGER NOT NULL,
			unclassified INTEGER NOT NULL,
			PRIMARY KEY (run_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS reactions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			model_id TEXT NOT NULL,
			reaction_id TEXT NOT NULL,
			reaction TEXT,
			kinetic_law TEXT,
			label TEXT NOT NULL,
			form TEXT,
			reactants INTEGER NOT NULL,
			products INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_run_label ON reactions(run_id, label)`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_run_model ON reactions(run_id, model_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores rep and its reaction records in one transaction.
func (s *Store) SaveRun(ctx context.Context, rep *census.Report) error {
	if rep.RunID == "" {
		return errors.New("saving run: report has no run id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started, finished, processed, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rep.RunID, rep.Started.UTC().Format(timeLayout), rep.Finished.UTC().Format(timeLayout),
		rep.Summary.Processed, rep.Summary.Skipped, rep.Summary.Failed,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	unclassified := make(map[string]int)
	for _, r := range rep.Records {
		if r.Label == types.LabelNotClassified {
			unclassified[r.Model]++
		}
	}
	modelStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO models (run_id, id, reactions, unclassified) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing model insert: %w", err)
	}
	defer modelStmt.Close()
	for _, ms := range rep.Overall.PerModel {
		if _, err := modelStmt.ExecContext(ctx, rep.RunID, ms.Model, ms.Reactions, unclassified[ms.Model]); err != nil {
			return fmt.Errorf("inserting model %s: %w", ms.Model, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO reactions (run_id, model_id, reaction_id, reaction, kinetic_law, label, form, reactants, products)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range rep.Records {
		_, err := stmt.ExecContext(ctx,
			rep.RunID, r.Model, r.ReactionID, r.Reaction, r.KineticLaw,
			string(r.Label), r.Form, int(r.Reactants), int(r.Products),
		)
		if err != nil {
			return fmt.Errorf("inserting reaction %s/%s: %w", r.Model, r.ReactionID, err)
		}
	}

	return tx.Commit()
}
