// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ratelaw/internal/census"
)

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Run          string                  `json:"run" yaml:"run"`
	Overall      census.Distribution     `json:"overall" yaml:"overall"`
	ModelsWithNA int                     `json:"models_with_na" yaml:"models_with_na"`
	TypeCounts   [4][4]int               `json:"type_counts" yaml:"type_counts"`
	TypePerModel [4][4]float64           `json:"type_per_model" yaml:"type_per_model"`
	Reactions    []census.ReactionRecord `json:"reactions" yaml:"reactions"`
}

// ExportYAML writes the run to dir/export.yaml and returns the path. It
// accepts the same filters as Reactions.
func (s *Store) ExportYAML(ctx context.Context, runID string, f Filter) (string, error) {
	exp, err := s.export(ctx, runID, f)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(exp)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the run to dir/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, runID string, f Filter) (string, error) {
	exp, err := s.export(ctx, runID, f)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) export(ctx context.Context, runID string, f Filter) (*Export, error) {
	rep, err := s.Report(ctx, runID, f)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	overall := rep.Overall
	overall.PerModel = nil
	return &Export{
		Run:          rep.RunID,
		Overall:      overall,
		ModelsWithNA: rep.ModelsWithNA,
		TypeCounts:   rep.TypeCounts,
		TypePerModel: rep.TypePerModel,
		Reactions:    rep.Records,
	}, nil
}
