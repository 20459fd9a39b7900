// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package census classifies every reaction of a model corpus and aggregates
// the labels into corpus-wide and per-model statistics.
package census

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/ratelaw/internal/classify"
	"github.com/pdiddy/ratelaw/internal/model"
	"github.com/pdiddy/ratelaw/pkg/types"
)

// ReactionRecord is the classification of one reaction.
type ReactionRecord struct {
	Model      string       `json:"model" yaml:"model"`
	ReactionID string       `json:"reaction_id" yaml:"reaction_id"`
	Reaction   string       `json:"reaction" yaml:"reaction"`
	KineticLaw string       `json:"kinetic_law" yaml:"kinetic_law"`
	Label      types.Label  `json:"label" yaml:"label"`
	Form       string       `json:"form,omitempty" yaml:"form,omitempty"`
	Reactants  types.Bucket `json:"reactants" yaml:"reactants"`
	Products   types.Bucket `json:"products" yaml:"products"`
}

// Type returns the record's reactant/product bucket pair.
func (r ReactionRecord) Type() types.ReactionType {
	return types.ReactionType{Reactants: r.Reactants, Products: r.Products}
}

// Summary holds model counts from a census run.
type Summary struct {
	Processed int `json:"processed" yaml:"processed"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Total returns the number of models seen.
func (s Summary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

// HasFailures reports whether any model failed to load.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Census runs the classifier over a corpus.
type Census struct {
	cfg        types.CensusConfig
	classifier *classify.Classifier
	logger     *slog.Logger
	metrics    *Metrics
}

// New creates a Census. Workers defaults to the number of CPUs.
func New(cfg types.CensusConfig, c *classify.Classifier, logger *slog.Logger) *Census {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Census{cfg: cfg, classifier: c, logger: logger, metrics: NewMetrics()}
}

// Metrics returns the counters updated by runs of this Census.
func (cs *Census) Metrics() *Metrics {
	return cs.metrics
}

// RunDir loads every model document in the configured models directory and
// classifies them. Documents that fail to load are reported to w and
// counted as failed; they do not stop the run.
func (cs *Census) RunDir(ctx context.Context, loader *model.Loader, w io.Writer) (*Report, error) {
	paths, err := model.List(cs.cfg.ModelsDir)
	if err != nil {
		return nil, err
	}

	var models []*model.Model
	failed := 0
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		m, err := loader.Load(p)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", filepath.Base(p), err)
			cs.metrics.models.WithLabelValues(statusFailed).Inc()
			failed++
			continue
		}
		models = append(models, m)
	}
	return cs.run(ctx, models, failed, w)
}

// Run classifies every reaction of models. Models are classified
// concurrently; records keep model order and reaction order.
func (cs *Census) Run(ctx context.Context, models []*model.Model, w io.Writer) (*Report, error) {
	return cs.run(ctx, models, 0, w)
}

func (cs *Census) run(ctx context.Context, models []*model.Model, failed int, w io.Writer) (*Report, error) {
	started := time.Now().UTC()
	results := make([][]ReactionRecord, len(models))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cs.cfg.Workers)
	for i, m := range models {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = cs.classifyModel(gctx, m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("census: %w", err)
	}

	summary := Summary{Failed: failed}
	var records []ReactionRecord
	for i, m := range models {
		if len(results[i]) == 0 {
			fmt.Fprintf(w, "skipped %s: no rate laws\n", m.ID)
			cs.metrics.models.WithLabelValues(statusSkipped).Inc()
			summary.Skipped++
			continue
		}
		fmt.Fprintf(w, "classified %s (%d reactions)\n", m.ID, len(results[i]))
		cs.metrics.models.WithLabelValues(statusProcessed).Inc()
		summary.Processed++
		records = append(records, results[i]...)
	}

	fmt.Fprintf(w, "\nprocessed: %d, skipped: %d, failed: %d\n",
		summary.Processed, summary.Skipped, summary.Failed)

	rep := Aggregate(records)
	rep.RunID = uuid.NewString()
	rep.Started = started
	rep.Finished = time.Now().UTC()
	rep.Summary = summary

	if cs.cfg.MetricsFile != "" {
		if err := cs.metrics.WriteTextfile(cs.cfg.MetricsFile); err != nil {
			fmt.Fprintf(w, "warning: metrics write failed: %v\n", err)
		}
	}
	return rep, nil
}

// classifyModel classifies the reactions of m that carry a rate law.
func (cs *Census) classifyModel(ctx context.Context, m *model.Model) []ReactionRecord {
	var out []ReactionRecord
	for _, r := range m.Reactions {
		if r.Law.Empty() {
			cs.logger.Debug("reaction has no rate law", "model", m.ID, "reaction", r.ID)
			cs.metrics.skipped.Inc()
			continue
		}
		law := cs.classifier.Prepare(ctx, r.Law.Expanded)
		res := cs.classifier.Classify(ctx, law, m.Context(r))
		cs.metrics.reactions.WithLabelValues(string(res.Label)).Inc()
		out = append(out, ReactionRecord{
			Model:      m.ID,
			ReactionID: r.ID,
			Reaction:   r.Equation(),
			KineticLaw: law.Expanded,
			Label:      res.Label,
			Form:       res.Form,
			Reactants:  res.Reactants,
			Products:   res.Products,
		})
	}
	return out
}
