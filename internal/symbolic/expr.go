// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package symbolic is the computer-algebra kernel behind rate-law
// classification: an exact rational expression model, simplification to a
// single fraction, numerator/denominator splitting, a polynomial test and
// symbolic equality.
package symbolic

import (
	"errors"
	"math/big"
	"sort"
)

var (
	// ErrUnparsable reports formula text the kernel cannot read.
	ErrUnparsable = errors.New("unparsable expression")

	// ErrUnknownFunction reports a call to a function the kernel has no rule for.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrUnknownSymbol reports an identifier outside the declared symbol set.
	ErrUnknownSymbol = errors.New("undeclared symbol")

	// ErrDivisionByZero reports a denominator that expands to zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrBudget reports an expansion that outgrew the engine's term limit.
	ErrBudget = errors.New("symbolic budget exceeded")
)

// Expr is an immutable expression in canonical form. Values are only built
// through the XxxOf constructors, which flatten, fold constants and collect
// like terms, so two structurally equal inputs print identically.
type Expr interface {
	String() string
	isExpr()
}

// Num is an exact rational constant.
type Num struct{ val *big.Rat }

// Sym is a free symbol.
type Sym struct{ name string }

// Add is a sum of at least two terms.
type Add struct{ terms []Expr }

// Mul is a product of at least two factors; a numeric coefficient, if any, comes first.
type Mul struct{ factors []Expr }

// Pow is base raised to exp.
type Pow struct{ base, exp Expr }

// Func is an uninterpreted call such as exp(x) or sin(x).
type Func struct {
	name string
	args []Expr
}

func (*Num) isExpr()  {}
func (*Sym) isExpr()  {}
func (*Add) isExpr()  {}
func (*Mul) isExpr()  {}
func (*Pow) isExpr()  {}
func (*Func) isExpr() {}

// Int returns the integer constant n.
func Int(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// Rat returns the constant p/q. q must be non-zero.
func Rat(p, q int64) *Num { return &Num{val: big.NewRat(p, q)} }

// S returns the symbol called name.
func S(name string) *Sym { return &Sym{name: name} }

// Name returns the symbol's identifier.
func (s *Sym) Name() string { return s.name }

func (n *Num) isZero() bool { return n.val.Sign() == 0 }
func (n *Num) isOne() bool  { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == 1 }

func isOne(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.isOne()
}

func isZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.isZero()
}

// AddOf returns the canonical sum of terms.
func AddOf(terms ...Expr) Expr {
	var flat []Expr
	for _, t := range terms {
		if a, ok := t.(*Add); ok {
			flat = append(flat, a.terms...)
			continue
		}
		flat = append(flat, t)
	}

	constant := new(big.Rat)
	coeffs := map[string]*big.Rat{}
	rests := map[string]Expr{}
	var order []string
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			constant.Add(constant, n.val)
			continue
		}
		c, rest := splitCoeff(t)
		k := rest.String()
		if _, seen := coeffs[k]; !seen {
			order = append(order, k)
			coeffs[k] = new(big.Rat)
			rests[k] = rest
		}
		coeffs[k].Add(coeffs[k], c)
	}
	sort.Strings(order)

	out := make([]Expr, 0, len(order)+1)
	for _, k := range order {
		c := coeffs[k]
		if c.Sign() == 0 {
			continue
		}
		out = append(out, scale(c, rests[k]))
	}
	if constant.Sign() != 0 {
		out = append(out, &Num{val: constant})
	}
	switch len(out) {
	case 0:
		return Int(0)
	case 1:
		return out[0]
	}
	return &Add{terms: out}
}

// MulOf returns the canonical product of factors. Factors sharing a base
// have their exponents added.
func MulOf(factors ...Expr) Expr {
	coeff := big.NewRat(1, 1)
	var flat []Expr
	var push func(Expr)
	push = func(f Expr) {
		if m, ok := f.(*Mul); ok {
			for _, g := range m.factors {
				push(g)
			}
			return
		}
		flat = append(flat, f)
	}
	for _, f := range factors {
		push(f)
	}

	bases := map[string]Expr{}
	exps := map[string]Expr{}
	var order []string
	for _, f := range flat {
		if n, ok := f.(*Num); ok {
			coeff.Mul(coeff, n.val)
			continue
		}
		b, e := asPow(f)
		k := b.String()
		if _, seen := bases[k]; !seen {
			order = append(order, k)
			bases[k] = b
			exps[k] = e
			continue
		}
		exps[k] = AddOf(exps[k], e)
	}
	if coeff.Sign() == 0 {
		return Int(0)
	}
	// Sums go after plain factors: Kr*(1 - Rho), not (1 - Rho)*Kr.
	sort.Slice(order, func(i, j int) bool {
		_, si := bases[order[i]].(*Add)
		_, sj := bases[order[j]].(*Add)
		if si != sj {
			return sj
		}
		return order[i] < order[j]
	})

	var out []Expr
	for _, k := range order {
		p := PowOf(bases[k], exps[k])
		if n, ok := p.(*Num); ok {
			coeff.Mul(coeff, n.val)
			continue
		}
		if m, ok := p.(*Mul); ok {
			// Only a numeric-coefficient product can come back from PowOf.
			c, rest := splitCoeff(m)
			coeff.Mul(coeff, c)
			out = append(out, factorsOf(rest)...)
			continue
		}
		out = append(out, p)
	}
	if coeff.Sign() == 0 {
		return Int(0)
	}

	one := coeff.IsInt() && coeff.Num().IsInt64() && coeff.Num().Int64() == 1
	switch {
	case len(out) == 0:
		return &Num{val: coeff}
	case len(out) == 1 && one:
		return out[0]
	case one:
		return &Mul{factors: out}
	}
	return &Mul{factors: append([]Expr{&Num{val: coeff}}, out...)}
}

// PowOf returns the canonical power base**exp.
func PowOf(base, exp Expr) Expr {
	if e, ok := exp.(*Num); ok {
		if e.isZero() {
			return Int(1)
		}
		if e.isOne() {
			return base
		}
		if b, ok := base.(*Num); ok {
			if r, ok := ratPow(b.val, e.val); ok {
				return &Num{val: r}
			}
		}
		if p, ok := base.(*Pow); ok && e.val.IsInt() {
			return PowOf(p.base, MulOf(p.exp, e))
		}
	}
	if b, ok := base.(*Num); ok && b.isOne() {
		return Int(1)
	}
	return &Pow{base: base, exp: exp}
}

// FuncOf returns the call name(args...), folding the few identities that
// matter for rate laws.
func FuncOf(name string, args ...Expr) Expr {
	if len(args) == 1 {
		switch {
		case name == "exp" && isZero(args[0]):
			return Int(1)
		case (name == "ln" || name == "log") && isOne(args[0]):
			return Int(0)
		}
	}
	return &Func{name: name, args: args}
}

const (
	// maxIntPower bounds exact exponentiation of constants.
	maxIntPower = 64

	// maxFoldBits bounds the size of a folded constant power. Larger
	// powers stay unevaluated.
	maxFoldBits = 4096
)

func ratPow(b, e *big.Rat) (*big.Rat, bool) {
	if !e.IsInt() || !e.Num().IsInt64() {
		return nil, false
	}
	n := e.Num().Int64()
	if n > maxIntPower || n < -maxIntPower {
		return nil, false
	}
	if b.Sign() == 0 {
		if n < 0 {
			return nil, false
		}
		return new(big.Rat), true
	}
	abs := n
	if abs < 0 {
		abs = -abs
	}
	if bits := max(b.Num().BitLen(), b.Denom().BitLen()); int64(bits)*abs > maxFoldBits {
		return nil, false
	}
	k := big.NewInt(abs)
	num := new(big.Int).Exp(b.Num(), k, nil)
	den := new(big.Int).Exp(b.Denom(), k, nil)
	if n < 0 {
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den), true
}

// splitCoeff separates the numeric coefficient of a non-constant term.
func splitCoeff(e Expr) (*big.Rat, Expr) {
	m, ok := e.(*Mul)
	if !ok {
		return big.NewRat(1, 1), e
	}
	n, ok := m.factors[0].(*Num)
	if !ok {
		return big.NewRat(1, 1), e
	}
	rest := m.factors[1:]
	if len(rest) == 1 {
		return new(big.Rat).Set(n.val), rest[0]
	}
	return new(big.Rat).Set(n.val), &Mul{factors: rest}
}

func scale(c *big.Rat, e Expr) Expr {
	if c.IsInt() && c.Num().IsInt64() && c.Num().Int64() == 1 {
		return e
	}
	return MulOf(&Num{val: c}, e)
}

func asPow(e Expr) (Expr, Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, Int(1)
}

func factorsOf(e Expr) []Expr {
	if m, ok := e.(*Mul); ok {
		return m.factors
	}
	return []Expr{e}
}

// negatedExponent returns -exp when exp is visibly negative: a negative
// constant or a product with a negative coefficient.
func negatedExponent(exp Expr) (Expr, bool) {
	switch v := exp.(type) {
	case *Num:
		if v.val.Sign() < 0 {
			return &Num{val: new(big.Rat).Neg(v.val)}, true
		}
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok && c.val.Sign() < 0 {
			return MulOf(Int(-1), v), true
		}
	}
	return nil, false
}

// FreeSymbols returns the names of the symbols in e, sorted.
func FreeSymbols(e Expr) []string {
	seen := map[string]struct{}{}
	collectSymbols(e, seen)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		for _, a := range v.args {
			collectSymbols(a, out)
		}
	}
}

func hasSymbols(e Expr) bool {
	switch v := e.(type) {
	case *Sym:
		return true
	case *Add:
		for _, t := range v.terms {
			if hasSymbols(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if hasSymbols(f) {
				return true
			}
		}
	case *Pow:
		return hasSymbols(v.base) || hasSymbols(v.exp)
	case *Func:
		for _, a := range v.args {
			if hasSymbols(a) {
				return true
			}
		}
	}
	return false
}
