// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package symbolic

import (
	"context"
	"fmt"
)

// DefaultMaxTerms caps the number of monomials an expansion may hold.
const DefaultMaxTerms = 4096

// Fraction is the textual numerator/denominator split of an expression.
type Fraction struct {
	Numerator   string
	Denominator string
}

// Engine answers the four questions the classifier asks about formula text.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	maxTerms int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxTerms bounds polynomial expansion. Zero or less disables the bound.
func WithMaxTerms(n int) Option {
	return func(e *Engine) { e.maxTerms = n }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{maxTerms: DefaultMaxTerms}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Simplify canonicalises text and brings it over a single denominator.
// Every identifier is accepted as a free symbol.
func (e *Engine) Simplify(ctx context.Context, text string) (out string, err error) {
	defer guard(&err)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	x, err := Compile(text, nil)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	n, d := numerDenom(x)
	if isZero(d) {
		return "", ErrDivisionByZero
	}
	f, err := fraction(n, d)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.String(), nil
}

// NumerDenom splits text into numerator and denominator. Identifiers must
// come from ids.
func (e *Engine) NumerDenom(ctx context.Context, text string, ids []string) (fr Fraction, err error) {
	defer guard(&err)
	if err := ctx.Err(); err != nil {
		return Fraction{}, err
	}
	x, err := Compile(text, scopeIDs(ids))
	if err != nil {
		return Fraction{}, err
	}
	if err := ctx.Err(); err != nil {
		return Fraction{}, err
	}
	n, d := numerDenom(x)
	if isZero(d) {
		return Fraction{}, ErrDivisionByZero
	}
	return Fraction{Numerator: n.String(), Denominator: d.String()}, nil
}

// IsPolynomial reports whether text is a polynomial in all of its symbols.
func (e *Engine) IsPolynomial(ctx context.Context, text string, ids []string) (ok bool, err error) {
	defer guard(&err)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	x, err := Compile(text, scopeIDs(ids))
	if err != nil {
		return false, err
	}
	return isPolynomial(x), nil
}

// Equal reports whether a and b are the same rational function. Both sides
// are cross-multiplied and expanded; calls and symbolic powers are compared
// as opaque atoms.
func (e *Engine) Equal(ctx context.Context, a, b string, ids []string) (eq bool, err error) {
	defer guard(&err)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	sc := scopeIDs(ids)
	xa, err := Compile(a, sc)
	if err != nil {
		return false, err
	}
	xb, err := Compile(b, sc)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	na, da := numerDenom(xa)
	nb, db := numerDenom(xb)
	if isZero(da) || isZero(db) {
		return false, ErrDivisionByZero
	}
	diff := AddOf(MulOf(na, db), MulOf(Int(-1), nb, da))
	x := &expander{ctx: ctx, maxTerms: e.maxTerms}
	p, err := x.expand(diff)
	if err != nil {
		return false, err
	}
	return len(p) == 0, nil
}

// scopeIDs keeps an empty, non-nil id list strict.
func scopeIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// guard turns a panic inside the kernel into ErrUnparsable.
func guard(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrUnparsable, r)
	}
}
