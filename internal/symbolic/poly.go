// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package symbolic

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// monomial is coeff * prod(atom**exp). Atoms are symbols or opaque
// sub-expressions keyed by their canonical text; exponents may be negative
// or fractional.
type monomial struct {
	coeff *big.Rat
	exps  map[string]*big.Rat
}

func (m monomial) key() string {
	names := make([]string, 0, len(m.exps))
	for n := range m.exps {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte('^')
		b.WriteString(m.exps[n].RatString())
		b.WriteByte(';')
	}
	return b.String()
}

// poly is a sum of monomials keyed by monomial.key.
type poly map[string]monomial

type expander struct {
	ctx      context.Context
	maxTerms int
	steps    int
}

func constPoly(r *big.Rat) poly {
	if r.Sign() == 0 {
		return poly{}
	}
	m := monomial{coeff: new(big.Rat).Set(r), exps: map[string]*big.Rat{}}
	return poly{m.key(): m}
}

func atomPoly(name string, exp *big.Rat) poly {
	m := monomial{coeff: big.NewRat(1, 1), exps: map[string]*big.Rat{name: new(big.Rat).Set(exp)}}
	return poly{m.key(): m}
}

func (x *expander) check(p poly) error {
	x.steps++
	if x.steps%64 == 0 {
		if err := x.ctx.Err(); err != nil {
			return err
		}
	}
	if x.maxTerms > 0 && len(p) > x.maxTerms {
		return fmt.Errorf("%w: %d terms", ErrBudget, len(p))
	}
	return nil
}

func (x *expander) expand(e Expr) (poly, error) {
	switch v := e.(type) {
	case *Num:
		return constPoly(v.val), nil

	case *Sym:
		return atomPoly(v.name, big.NewRat(1, 1)), nil

	case *Func:
		return atomPoly(v.String(), big.NewRat(1, 1)), nil

	case *Add:
		out := poly{}
		for _, t := range v.terms {
			p, err := x.expand(t)
			if err != nil {
				return nil, err
			}
			addInto(out, p)
			if err := x.check(out); err != nil {
				return nil, err
			}
		}
		return out, nil

	case *Mul:
		out := constPoly(big.NewRat(1, 1))
		for _, f := range v.factors {
			p, err := x.expand(f)
			if err != nil {
				return nil, err
			}
			out = mulPoly(out, p)
			if err := x.check(out); err != nil {
				return nil, err
			}
		}
		return out, nil

	case *Pow:
		return x.expandPow(v)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnparsable, e)
}

func (x *expander) expandPow(p *Pow) (poly, error) {
	exp, ok := p.exp.(*Num)
	if !ok {
		return atomPoly(p.String(), big.NewRat(1, 1)), nil
	}
	base, err := x.expand(p.base)
	if err != nil {
		return nil, err
	}
	if len(base) == 1 {
		for _, m := range base {
			if r, ok := monoPow(m, exp.val); ok {
				return poly{r.key(): r}, nil
			}
		}
	}
	if !exp.val.IsInt() || exp.val.Sign() < 0 || exp.val.Num().Cmp(big.NewInt(maxIntPower)) > 0 {
		return atomPoly(p.String(), big.NewRat(1, 1)), nil
	}
	out := constPoly(big.NewRat(1, 1))
	for i := int64(0); i < exp.val.Num().Int64(); i++ {
		out = mulPoly(out, base)
		if err := x.check(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// monoPow raises a single monomial to r. A fractional power is only taken
// when the coefficient is exactly one.
func monoPow(m monomial, r *big.Rat) (monomial, bool) {
	var coeff *big.Rat
	if c, ok := ratPow(m.coeff, r); ok {
		coeff = c
	} else if m.coeff.Cmp(big.NewRat(1, 1)) == 0 {
		coeff = big.NewRat(1, 1)
	} else {
		return monomial{}, false
	}
	exps := make(map[string]*big.Rat, len(m.exps))
	for n, e := range m.exps {
		exps[n] = new(big.Rat).Mul(e, r)
	}
	return monomial{coeff: coeff, exps: exps}, true
}

func addInto(dst, src poly) {
	for k, m := range src {
		if cur, ok := dst[k]; ok {
			sum := new(big.Rat).Add(cur.coeff, m.coeff)
			if sum.Sign() == 0 {
				delete(dst, k)
				continue
			}
			dst[k] = monomial{coeff: sum, exps: cur.exps}
			continue
		}
		dst[k] = m
	}
}

func mulPoly(a, b poly) poly {
	out := poly{}
	for _, ma := range a {
		for _, mb := range b {
			exps := make(map[string]*big.Rat, len(ma.exps)+len(mb.exps))
			for n, e := range ma.exps {
				exps[n] = new(big.Rat).Set(e)
			}
			for n, e := range mb.exps {
				if cur, ok := exps[n]; ok {
					s := new(big.Rat).Add(cur, e)
					if s.Sign() == 0 {
						delete(exps, n)
						continue
					}
					exps[n] = s
					continue
				}
				exps[n] = new(big.Rat).Set(e)
			}
			m := monomial{coeff: new(big.Rat).Mul(ma.coeff, mb.coeff), exps: exps}
			addInto(out, poly{m.key(): m})
		}
	}
	return out
}

// isPolynomial reports whether e is a polynomial in all of its free symbols:
// only non-negative integer powers of symbol-bearing bases, and no calls or
// exponents that depend on a symbol.
func isPolynomial(e Expr) bool {
	switch v := e.(type) {
	case *Num, *Sym:
		return true
	case *Add:
		for _, t := range v.terms {
			if !isPolynomial(t) {
				return false
			}
		}
		return true
	case *Mul:
		for _, f := range v.factors {
			if !isPolynomial(f) {
				return false
			}
		}
		return true
	case *Pow:
		if hasSymbols(v.exp) {
			return false
		}
		if !hasSymbols(v.base) {
			return true
		}
		n, ok := v.exp.(*Num)
		return ok && n.val.IsInt() && n.val.Sign() >= 0 && isPolynomial(v.base)
	case *Func:
		return !hasSymbols(v)
	}
	return false
}
