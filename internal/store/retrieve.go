// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/ratelaw/internal/census"
	"github.com/pdiddy/ratelaw/pkg/types"
)

// RunInfo describes a stored run.
type RunInfo struct {
	ID           string         `json:"id" yaml:"id"`
	Started      time.Time      `json:"started" yaml:"started"`
	Finished     time.Time      `json:"finished" yaml:"finished"`
	Summary      census.Summary `json:"summary" yaml:"summary"`
	Reactions    int            `json:"reactions" yaml:"reactions"`
	ModelsWithNA int            `json:"models_with_na" yaml:"models_with_na"`
}

// Filter narrows the reactions of a run.
type Filter struct {
	Model string
	Label types.Label

	// Type, when set, keeps only reactions of that reactant/product pair.
	Type *types.ReactionType

	// Limit caps the rows returned. Zero means no limit.
	Limit int
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.started, r.finished, r.processed, r.skipped, r.failed,
			COALESCE((SELECT SUM(m.reactions) FROM models m WHERE m.run_id = r.id), 0),
			(SELECT COUNT(*) FROM models m WHERE m.run_id = r.id AND m.unclassified > 0)
		FROM runs r
		ORDER BY r.started DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var (
			ri                RunInfo
			started, finished string
		)
		if err := rows.Scan(&ri.ID, &started, &finished,
			&ri.Summary.Processed, &ri.Summary.Skipped, &ri.Summary.Failed,
			&ri.Reactions, &ri.ModelsWithNA,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		ri.Started, _ = time.Parse(timeLayout, started)
		ri.Finished, _ = time.Parse(timeLayout, finished)
		runs = append(runs, ri)
	}
	return runs, rows.Err()
}

// LatestRun returns the id of the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY started DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", ErrNoRuns
	}
	if err != nil {
		return "", fmt.Errorf("looking up latest run: %w", err)
	}
	return id, nil
}

// Reactions returns the records of runID matching f, in the order they
// were classified.
func (s *Store) Reactions(ctx context.Context, runID string, f Filter) ([]census.ReactionRecord, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT model_id, reaction_id, reaction, kinetic_law, label, form, reactants, products
		FROM reactions
		WHERE run_id = ?`)
	args = append(args, runID)

	if f.Model != "" {
		qb.WriteString(` AND model_id = ?`)
		args = append(args, f.Model)
	}
	if f.Label != "" {
		qb.WriteString(` AND label = ?`)
		args = append(args, string(f.Label))
	}
	if f.Type != nil {
		qb.WriteString(` AND reactants = ? AND products = ?`)
		args = append(args, int(f.Type.Reactants), int(f.Type.Products))
	}
	qb.WriteString(` ORDER BY rowid`)
	if f.Limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying reactions: %w", err)
	}
	defer rows.Close()

	var out []census.ReactionRecord
	for rows.Next() {
		var (
			r                   census.ReactionRecord
			label               string
			reaction, law, form sql.NullString
			reactants, products int
		)
		if err := rows.Scan(&r.Model, &r.ReactionID, &reaction, &law, &label, &form, &reactants, &products); err != nil {
			return nil, fmt.Errorf("scanning reaction: %w", err)
		}
		r.Reaction, r.KineticLaw, r.Form = reaction.String, law.String, form.String
		r.Label = types.Label(label)
		r.Reactants, r.Products = types.Bucket(reactants), types.Bucket(products)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Report rebuilds the statistics of runID from its stored records.
func (s *Store) Report(ctx context.Context, runID string, f Filter) (*census.Report, error) {
	info, err := s.run(ctx, runID)
	if err != nil {
		return nil, err
	}
	f.Limit = 0
	records, err := s.Reactions(ctx, runID, f)
	if err != nil {
		return nil, err
	}
	rep := census.Aggregate(records)
	rep.RunID = info.ID
	rep.Started = info.Started
	rep.Finished = info.Finished
	rep.Summary = info.Summary
	return rep, nil
}

func (s *Store) run(ctx context.Context, runID string) (RunInfo, error) {
	runs, err := s.Runs(ctx)
	if err != nil {
		return RunInfo{}, err
	}
	for _, r := range runs {
		if r.ID == runID {
			return r, nil
		}
	}
	return RunInfo{}, fmt.Errorf("run %s not found", runID)
}
