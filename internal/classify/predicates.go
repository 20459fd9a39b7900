package classify

import (
	"context"
	"slices"
	"strings"

	"github.com/pdiddy/ratelaw/internal/symbolic"
	"github.com/pdiddy/ratelaw/pkg/types"
)

type predicate struct {
	label types.Label
	test  func(*evaluation) bool
}

// predicates is the taxonomy in priority order.
var predicates = []predicate{
	{types.LabelZeroth, (*evaluation).zeroth},
	{types.LabelUniMassAction, (*evaluation).uniMassAction},
	{types.LabelUniModerated, (*evaluation).uniModerated},
	{types.LabelBiMassAction, (*evaluation).biMassAction},
	{types.LabelBiModerated, (*evaluation).biModerated},
	{types.LabelMichaelisMenten, (*evaluation).michaelisMenten},
	{types.LabelMMCatalyzed, (*evaluation).mmCatalyzed},
	{types.LabelHill, (*evaluation).hill},
	{types.LabelFraction, (*evaluation).fraction},
	{types.LabelPolynomial, (*evaluation).polynomial},
}

// Order returns the labels in the order they are tested.
func Order() []types.Label {
	out := make([]types.Label, len(predicates))
	for i, p := range predicates {
		out[i] = p.label
	}
	return out
}

// evaluation carries one Classify call. The numerator/denominator split is
// computed on first use and shared by every predicate.
type evaluation struct {
	ctx context.Context
	c   *Classifier
	law Law
	rc  Context

	split      *symbolic.Fraction
	denSpecies *bool
	form       string
}

// run evaluates p, treating a panic as false.
func (e *evaluation) run(p predicate) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.c.logger.Warn("predicate failed", "label", p.label, "law", e.law.Expanded, "panic", r)
			ok = false
		}
	}()
	return p.test(e)
}

func (e *evaluation) numerDenom() symbolic.Fraction {
	if e.split != nil {
		return *e.split
	}
	fr, err := e.c.engine.NumerDenom(e.ctx, e.law.Simplified, e.rc.IDs)
	if err != nil {
		e.c.logger.Debug("numerator/denominator split failed", "law", e.law.Simplified, "error", err)
		fr = symbolic.Fraction{}
	}
	e.split = &fr
	return fr
}

// speciesInDenominator reports whether any species of the law appears in
// the denominator of its simplified form.
func (e *evaluation) speciesInDenominator() bool {
	if e.denSpecies == nil {
		v := len(e.rc.Species) > 0 && mentionsAny(e.numerDenom().Denominator, e.rc.Species)
		e.denSpecies = &v
	}
	return *e.denSpecies
}

// mentionedOnce reports whether the law's single species occurs exactly
// once in either form of the law.
func (e *evaluation) mentionedOnce() bool {
	s := e.rc.Species[0]
	return countMentions(e.law.Expanded, s) == 1 || countMentions(e.law.Simplified, s) == 1
}

func (e *evaluation) singleProduct() bool {
	return isSingleProduct(e.law.Expanded, e.law.Simplified)
}

func (e *evaluation) difference() bool {
	return isDifference(e.law.Expanded, e.law.Simplified)
}

func (e *evaluation) onlyReactants() bool {
	return len(e.rc.Reactants) > 0 && sameMultiset(e.rc.Species, e.rc.Reactants)
}

func (e *evaluation) termsSplit() bool {
	return splitsReactantsProducts(e.law.Expanded, e.law.Simplified, e.rc.Species, e.rc.Reactants, e.rc.Products)
}

func (e *evaluation) zeroth() bool {
	return len(e.rc.Species) == 0
}

// uniMassAction: one product of factors whose species are exactly the
// reactants, or a lone reactant species written once.
func (e *evaluation) uniMassAction() bool {
	ok := e.singleProduct() && e.onlyReactants()
	if len(e.rc.Species) == 1 && slices.Equal(e.rc.Species, e.rc.Reactants) && e.mentionedOnce() {
		ok = true
	}
	return ok && !e.speciesInDenominator()
}

// uniModerated: one product of factors with species other than exactly the
// reactants, or a lone non-reactant species written once outside a
// difference.
func (e *evaluation) uniModerated() bool {
	ok := e.singleProduct() && !e.onlyReactants() && len(e.rc.Species) != 0
	if len(e.rc.Species) == 1 && !slices.Equal(e.rc.Species, e.rc.Reactants) && !e.difference() && e.mentionedOnce() {
		ok = true
	}
	return ok && !e.speciesInDenominator()
}

func (e *evaluation) biMassAction() bool {
	return e.difference() && e.termsSplit() && !e.speciesInDenominator()
}

func (e *evaluation) biModerated() bool {
	if len(e.rc.Species) == 0 || !e.difference() || e.termsSplit() {
		return false
	}
	if len(e.rc.Species) == 1 && slices.Equal(e.rc.Species, e.rc.Reactants) && e.mentionedOnce() {
		return false
	}
	return !e.speciesInDenominator()
}

func (e *evaluation) michaelisMenten() bool {
	if !e.speciesInDenominator() || len(e.rc.Species) != 1 || len(e.rc.Reactants) != 1 {
		return false
	}
	return e.search(Candidates(e.rc.Reactants[0], "", e.rc.Parameters))
}

func (e *evaluation) mmCatalyzed() bool {
	if !e.speciesInDenominator() || len(e.rc.Species) != 2 || len(e.rc.Reactants) != 1 {
		return false
	}
	catalyst := ""
	for _, s := range e.rc.Species {
		if !slices.Contains(e.rc.Reactants, s) {
			catalyst = s
			break
		}
	}
	if catalyst == "" {
		return false
	}
	return e.search(Candidates(e.rc.Reactants[0], catalyst, e.rc.Parameters))
}

func (e *evaluation) search(cands []Candidate) bool {
	c, ok := Search(e.ctx, e.c.engine, e.law.Expanded, e.rc.IDs, cands)
	if ok {
		e.form = c.String()
	}
	return ok
}

// hill: a single species, raised to the same power in a sign-free
// numerator and in exactly one of two denominator terms.
func (e *evaluation) hill() bool {
	if !e.speciesInDenominator() || len(e.rc.Species) != 1 {
		return false
	}
	s := e.rc.Species[0]
	fr := e.numerDenom()

	num := fr.Numerator
	if strings.ContainsAny(num, "+-") || !mentions(num, s) || !hasPower(num) {
		return false
	}
	exp := powerOf(num, s)
	if exp == "" {
		return false
	}

	terms := strings.Split(fr.Denominator, "+")
	if len(terms) != 2 {
		return false
	}
	for i, t := range terms {
		other := terms[1-i]
		if mentions(t, s) && !mentions(other, s) && hasPower(t) && powerOf(t, s) == exp {
			return true
		}
	}
	return false
}

func (e *evaluation) fraction() bool {
	return e.speciesInDenominator()
}

func (e *evaluation) polynomial() bool {
	if len(e.rc.Species) == 0 || !mentionsAny(e.law.Simplified, e.rc.Species) {
		return false
	}
	ok, err := e.c.engine.IsPolynomial(e.ctx, e.law.Simplified, e.rc.IDs)
	if err != nil {
		e.c.logger.Debug("polynomial test failed", "law", e.law.Simplified, "error", err)
		return false
	}
	return ok
}
