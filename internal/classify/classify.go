// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns a kinetic-mechanism label to a rate law. Labels
// are decided by an ordered list of predicates; the first that holds wins.
package classify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pdiddy/ratelaw/internal/symbolic"
	"github.com/pdiddy/ratelaw/pkg/types"
)

// Engine is the symbolic algebra the predicates rely on. Implementations
// report unreadable input as an error.
type Engine interface {
	Simplify(ctx context.Context, text string) (string, error)
	NumerDenom(ctx context.Context, text string, ids []string) (symbolic.Fraction, error)
	IsPolynomial(ctx context.Context, text string, ids []string) (bool, error)
	Equal(ctx context.Context, a, b string, ids []string) (bool, error)
}

// Law is a rate law in the two textual forms the predicates read.
type Law struct {
	// Expanded has every function-definition call inlined and "^" written as "**".
	Expanded string

	// Simplified is the engine's single-fraction form, or Expanded when the
	// engine could not simplify it.
	Simplified string
}

// Result is the outcome of classifying one reaction.
type Result struct {
	Label     types.Label
	Reactants types.Bucket
	Products  types.Bucket

	// Form is the matched Michaelis-Menten candidate, if any.
	Form string
}

// Type returns the reaction's reactant/product bucket pair.
func (r Result) Type() types.ReactionType {
	return types.ReactionType{Reactants: r.Reactants, Products: r.Products}
}

// Classifier labels rate laws. It is safe for concurrent use.
type Classifier struct {
	engine     Engine
	logger     *slog.Logger
	timeout    time.Duration
	polynomial bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger used for engine failures (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) { c.logger = l }
}

// WithTimeout bounds the symbolic work spent per law. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) { c.timeout = d }
}

// WithPolynomial enables or disables the polynomial test (enabled by default).
func WithPolynomial(on bool) Option {
	return func(c *Classifier) { c.polynomial = on }
}

// New creates a Classifier backed by engine.
func New(engine Engine, opts ...Option) *Classifier {
	c := &Classifier{engine: engine, logger: slog.Default(), polynomial: true}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewFromConfig creates a Classifier with a symbolic engine sized by cfg.
func NewFromConfig(cfg types.ClassifyConfig, logger *slog.Logger) *Classifier {
	return New(symbolic.New(symbolic.WithMaxTerms(cfg.MaxTerms)),
		WithLogger(logger),
		WithTimeout(cfg.Timeout),
		WithPolynomial(cfg.Polynomial),
	)
}

func (c *Classifier) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Prepare builds the Law for an expanded formula.
func (c *Classifier) Prepare(ctx context.Context, expanded string) Law {
	expanded = strings.ReplaceAll(expanded, "^", "**")
	ctx, cancel := c.bound(ctx)
	defer cancel()

	sim, err := c.engine.Simplify(ctx, expanded)
	if err != nil {
		c.logger.Debug("simplify failed, using expanded form", "law", expanded, "error", err)
		sim = expanded
	}
	return Law{Expanded: expanded, Simplified: sim}
}

// Classify labels law within its reaction. A reaction no predicate accepts
// is labelled NA. Reactant and product buckets are always filled in.
func (c *Classifier) Classify(ctx context.Context, law Law, rc Context) Result {
	res := Result{
		Label:     types.LabelNotClassified,
		Reactants: types.BucketOf(len(rc.Reactants)),
		Products:  types.BucketOf(len(rc.Products)),
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()
	ev := &evaluation{ctx: ctx, c: c, law: law, rc: rc}
	for _, p := range predicates {
		if p.label == types.LabelPolynomial && !c.polynomial {
			continue
		}
		if ev.run(p) {
			res.Label = p.label
			res.Form = ev.form
			break
		}
	}
	return res
}
