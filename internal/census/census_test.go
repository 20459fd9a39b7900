// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package census

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ratelaw/internal/classify"
	"github.com/pdiddy/ratelaw/internal/model"
	"github.com/pdiddy/ratelaw/internal/symbolic"
	"github.com/pdiddy/ratelaw/pkg/types"
)

const enzymeModel = `id: m1
species: [S, P, A, B]
parameters: [V, K, k]
reactions:
  - id: R1
    reactants: [S]
    products: [P]
    kinetic_law: V*S/(K+S)
  - id: R2
    reactants: [A]
    products: [B]
    kinetic_law: k*A
  - id: R3
    reactants: [B]
    products: []
`

const emptyModel = `id: m2
species: [X]
reactions: []
`

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCensus(cfg types.CensusConfig) *Census {
	return New(cfg, classify.New(symbolic.New(), classify.WithLogger(discard())), discard())
}

func parse(t *testing.T, docs ...string) []*model.Model {
	t.Helper()
	loader := model.NewLoader(discard())
	var out []*model.Model
	for _, d := range docs {
		m, err := loader.Parse([]byte(d))
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func TestRun(t *testing.T) {
	cs := newCensus(types.CensusConfig{Workers: 2})
	var buf bytes.Buffer

	rep, err := cs.Run(context.Background(), parse(t, enzymeModel, emptyModel), &buf)
	require.NoError(t, err)

	assert.Equal(t, Summary{Processed: 1, Skipped: 1}, rep.Summary)
	_, err = uuid.Parse(rep.RunID)
	assert.NoError(t, err)
	assert.False(t, rep.Finished.Before(rep.Started))

	require.Len(t, rep.Records, 2)
	assert.Equal(t, ReactionRecord{
		Model: "m1", ReactionID: "R1", Reaction: "S->P", KineticLaw: "V*S/(K+S)",
		Label: types.LabelMichaelisMenten, Form: "S * V / (S + K)",
		Reactants: types.BucketOne, Products: types.BucketOne,
	}, rep.Records[0])
	assert.Equal(t, types.LabelUniMassAction, rep.Records[1].Label)
	assert.Equal(t, 2, rep.Overall.Reactions)

	out := buf.String()
	assert.Contains(t, out, "classified m1 (2 reactions)")
	assert.Contains(t, out, "skipped m2: no rate laws")
	assert.Contains(t, out, "processed: 1, skipped: 1, failed: 0")

	m := cs.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reactions.WithLabelValues("MM")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reactions.WithLabelValues("UNDR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.models.WithLabelValues(statusSkipped)))
}

func TestRun_KeepsModelOrder(t *testing.T) {
	docs := make([]string, 0, 8)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		docs = append(docs, "id: "+id+"\nspecies: [A]\nreactions:\n  - id: R\n    reactants: [A]\n    kinetic_law: k*A\n")
	}
	rep, err := newCensus(types.CensusConfig{Workers: 3}).Run(context.Background(), parse(t, docs...), io.Discard)
	require.NoError(t, err)

	var got []string
	for _, r := range rep.Records {
		got = append(got, r.Model)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h"}, got)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newCensus(types.CensusConfig{}).Run(ctx, parse(t, enzymeModel), io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m1.yaml"), []byte(enzymeModel), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("id: [oops"), 0o644))
	metrics := filepath.Join(dir, "census.prom")

	cs := newCensus(types.CensusConfig{ModelsDir: dir, MetricsFile: metrics})
	var buf bytes.Buffer
	rep, err := cs.RunDir(context.Background(), model.NewLoader(discard()), &buf)
	require.NoError(t, err)

	assert.Equal(t, Summary{Processed: 1, Failed: 1}, rep.Summary)
	assert.True(t, rep.Summary.HasFailures())
	assert.Equal(t, 2, rep.Summary.Total())
	assert.Contains(t, buf.String(), "failed  broken.yaml")

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ratelaw_models_total{status="failed"} 1`)
	assert.Contains(t, string(data), `ratelaw_reactions_classified_total{label="MM"} 1`)
}

func TestRunDir_MissingDirectory(t *testing.T) {
	cs := newCensus(types.CensusConfig{ModelsDir: filepath.Join(t.TempDir(), "absent")})
	_, err := cs.RunDir(context.Background(), model.NewLoader(discard()), io.Discard)
	assert.Error(t, err)
}
