// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ratelaw/internal/expand"
	"github.com/pdiddy/ratelaw/internal/symbolic"
	"github.com/pdiddy/ratelaw/internal/symbols"
	"github.com/pdiddy/ratelaw/pkg/types"
)

// reaction is a test fixture: a law plus the model context it lives in.
type reaction struct {
	law        string
	reactants  []string
	products   []string
	species    []string
	parameters []string
}

// lawSymbols lists the identifiers of law in tree order.
func lawSymbols(t *testing.T, law string) []string {
	t.Helper()
	n, err := symbolic.Parse(law)
	require.NoError(t, err)
	names, err := symbols.Extract(toMath(n), "test")
	require.NoError(t, err)
	return names
}

func toMath(n *symbolic.Node) *types.MathNode {
	switch n.Kind {
	case symbolic.NodeIdent:
		return &types.MathNode{Name: n.Text}
	case symbolic.NodeNumber:
		return &types.MathNode{}
	}
	m := &types.MathNode{}
	if n.Kind == symbolic.NodeCall {
		m.Name, m.Function = n.Text, true
	}
	for _, a := range n.Args {
		m.Children = append(m.Children, toMath(a))
	}
	return m
}

func classifyReaction(t *testing.T, c *Classifier, r reaction) Result {
	t.Helper()
	ctx := context.Background()
	expanded := expand.Formula(r.law, types.BuiltinFunctions(), 0)
	rc := NewContext(lawSymbols(t, r.law), r.reactants, r.products, r.species, r.parameters)
	return c.Classify(ctx, c.Prepare(ctx, expanded), rc)
}

func TestClassify_Labels(t *testing.T) {
	c := New(symbolic.New())
	tests := []struct {
		name string
		r    reaction
		want types.Label
	}{
		{"constant flux", reaction{"k0", nil, []string{"A"}, []string{"A"}, []string{"k0"}}, types.LabelZeroth},
		{"mass action", reaction{"k * A", []string{"A"}, []string{"B"}, []string{"A", "B"}, []string{"k"}}, types.LabelUniMassAction},
		{"mass action on a non-reactant", reaction{"k * A", []string{"B"}, []string{"C"}, []string{"A", "B", "C"}, []string{"k"}}, types.LabelUniModerated},
		{"bimolecular mass action", reaction{"k*A*B", []string{"A", "B"}, []string{"C"}, []string{"A", "B", "C"}, []string{"k"}}, types.LabelUniMassAction},
		{"reversible mass action", reaction{"kf*A*B - kr*AB", []string{"A", "B"}, []string{"AB"}, []string{"A", "B", "AB"}, []string{"kf", "kr"}}, types.LabelBiMassAction},
		{"difference with moderator", reaction{"Kr*(1-Rho)", []string{"InactiveFrac"}, []string{"Rho"}, []string{"InactiveFrac", "Rho"}, []string{"Kr"}}, types.LabelBiModerated},
		{"michaelis-menten", reaction{"V*S/(K+S)", []string{"S"}, []string{"P"}, []string{"S", "P"}, []string{"V", "K"}}, types.LabelMichaelisMenten},
		{"catalysed michaelis-menten", reaction{"S*E/(S+K)", []string{"S"}, []string{"P"}, []string{"S", "E", "P"}, []string{"K"}}, types.LabelMMCatalyzed},
		{"hill", reaction{"Vm*S^n/(K^n + S^n)", []string{"S"}, []string{"P"}, []string{"S", "P"}, []string{"Vm", "K", "n"}}, types.LabelHill},
		{"inhibited fraction", reaction{"V*S/(K + S + S*I/Ki)", []string{"S"}, []string{"P"}, []string{"S", "P", "I"}, []string{"V", "K", "Ki"}}, types.LabelFraction},
		{"sum of mass actions", reaction{"k1*A + k2*B", []string{"A"}, []string{"B"}, []string{"A", "B"}, []string{"k1", "k2"}}, types.LabelPolynomial},
		{"transcendental sum", reaction{"k1*A + sin(B)", []string{"A"}, []string{"B"}, []string{"A", "B"}, []string{"k1"}}, types.LabelNotClassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyReaction(t, c, tt.r)
			assert.Equal(t, tt.want, got.Label)
		})
	}
}

func TestClassify_ExpandsFunctionDefinitions(t *testing.T) {
	c := New(symbolic.New())
	ctx := context.Background()
	defs := append([]types.FunctionDefinition{
		{ID: "MM", Arguments: []string{"substrate", "Vmax", "Km"}, Body: "Vmax*substrate/(Km + substrate)"},
	}, types.BuiltinFunctions()...)

	raw := "MM(S, V, K)"
	law := c.Prepare(ctx, expand.Formula(raw, defs, 0))
	assert.Equal(t, "V*S/(K + S)", law.Expanded)

	rc := NewContext(lawSymbols(t, raw), []string{"S"}, []string{"P"}, []string{"S", "P"}, []string{"V", "K"})
	assert.Equal(t, types.LabelMichaelisMenten, c.Classify(ctx, law, rc).Label)
}

func TestClassify_MMFormReported(t *testing.T) {
	c := New(symbolic.New())
	got := classifyReaction(t, c, reaction{"V*S/(K+S)", []string{"S"}, nil, []string{"S"}, []string{"V", "K"}})
	require.Equal(t, types.LabelMichaelisMenten, got.Label)
	assert.Equal(t, "S * V / (S + K)", got.Form)
}

func TestClassify_PolynomialToggle(t *testing.T) {
	r := reaction{"k1*A + k2*B", []string{"A"}, []string{"B"}, []string{"A", "B"}, []string{"k1", "k2"}}
	got := classifyReaction(t, New(symbolic.New(), WithPolynomial(false)), r)
	assert.Equal(t, types.LabelNotClassified, got.Label)
}

func TestClassify_BucketsIndependentOfLabel(t *testing.T) {
	c := New(symbolic.New())
	for _, law := range []string{"k*A*B*C", "k1*A + sin(B)", "k0"} {
		t.Run(law, func(t *testing.T) {
			got := classifyReaction(t, c, reaction{law, []string{"A", "B", "C"}, nil, []string{"A", "B", "C"}, []string{"k", "k0", "k1"}})
			assert.Equal(t, types.BucketMany, got.Reactants)
			assert.Equal(t, types.BucketZero, got.Products)
			assert.Equal(t, "P = 0, R > 2", got.Type().String())
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	c := New(symbolic.New())
	ctx := context.Background()
	laws := []reaction{
		{"k * A", []string{"A"}, []string{"B"}, []string{"A", "B"}, []string{"k"}},
		{"kf*A*B - kr*AB", []string{"A", "B"}, []string{"AB"}, []string{"A", "B", "AB"}, []string{"kf", "kr"}},
		{"V*S/(K+S)", []string{"S"}, []string{"P"}, []string{"S", "P"}, []string{"V", "K"}},
		{"Vm*S^n/(K^n + S^n)", []string{"S"}, []string{"P"}, []string{"S", "P"}, []string{"Vm", "K", "n"}},
	}
	for _, r := range laws {
		t.Run(r.law, func(t *testing.T) {
			law := c.Prepare(ctx, r.law)
			rc := NewContext(lawSymbols(t, r.law), r.reactants, r.products, r.species, r.parameters)
			got := c.Classify(ctx, law, rc)

			ev := &evaluation{ctx: ctx, c: c, law: law, rc: rc}
			var first types.Label = types.LabelNotClassified
			for _, p := range predicates {
				if ev.run(p) {
					first = p.label
					break
				}
			}
			assert.Equal(t, first, got.Label)
		})
	}
}

func TestOrder(t *testing.T) {
	assert.Equal(t, []types.Label{
		types.LabelZeroth, types.LabelUniMassAction, types.LabelUniModerated,
		types.LabelBiMassAction, types.LabelBiModerated, types.LabelMichaelisMenten,
		types.LabelMMCatalyzed, types.LabelHill, types.LabelFraction, types.LabelPolynomial,
	}, Order())
}

// failingEngine reports every request as unparsable; panicky additionally
// panics on NumerDenom.
type failingEngine struct{ panicky bool }

var errBroken = errors.New("broken engine")

func (f failingEngine) Simplify(context.Context, string) (string, error) { return "", errBroken }

func (f failingEngine) NumerDenom(context.Context, string, []string) (symbolic.Fraction, error) {
	if f.panicky {
		panic("numerator exploded")
	}
	return symbolic.Fraction{}, errBroken
}

func (f failingEngine) IsPolynomial(context.Context, string, []string) (bool, error) {
	return false, errBroken
}

func (f failingEngine) Equal(context.Context, string, string, []string) (bool, error) {
	return false, errBroken
}

func TestClassify_FailsClosed(t *testing.T) {
	r := reaction{"V*S/(K+S)", []string{"S"}, []string{"P"}, []string{"S", "P"}, []string{"V", "K"}}
	for _, eng := range []failingEngine{{}, {panicky: true}} {
		c := New(eng)
		var got Result
		require.NotPanics(t, func() { got = classifyReaction(t, c, r) })
		assert.Equal(t, types.LabelNotClassified, got.Label)
		assert.Equal(t, types.BucketOne, got.Reactants)
	}
}

func TestPrepare_FallsBackToExpanded(t *testing.T) {
	c := New(failingEngine{})
	law := c.Prepare(context.Background(), "k*A^2")
	assert.Equal(t, "k*A**2", law.Expanded)
	assert.Equal(t, "k*A**2", law.Simplified)
}

func TestNewContext(t *testing.T) {
	rc := NewContext(
		[]string{"V", "S", "K", "S", "compartment"},
		[]string{"S"}, []string{"P"},
		[]string{"S", "P"}, []string{"V", "K"},
	)
	assert.Equal(t, []string{"S"}, rc.Species)
	assert.Equal(t, []string{"V", "K", "compartment"}, rc.Parameters)
	assert.Equal(t, []string{"compartment"}, rc.Others)
	assert.Equal(t, []string{"V", "S", "K", "compartment", "P"}, rc.IDs)
}

// splitEngine answers only NumerDenom, with a fixed split.
type splitEngine struct {
	failingEngine
	fr symbolic.Fraction
}

func (s splitEngine) NumerDenom(context.Context, string, []string) (symbolic.Fraction, error) {
	return s.fr, nil
}

func TestClassify_HillWithSignedDenominator(t *testing.T) {
	eng := splitEngine{fr: symbolic.Fraction{Numerator: "Vm*S**n", Denominator: "K**n + S**n - c"}}
	r := reaction{"Vm*S^n/(K^n + S^n - c)", []string{"S"}, []string{"P"}, []string{"S", "P"}, []string{"Vm", "K", "n", "c"}}
	got := classifyReaction(t, New(eng), r)
	assert.Equal(t, types.LabelHill, got.Label)
}
