// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package symbolic

import (
	"fmt"
	"math/big"
)

// scope is the set of identifiers a formula may use. A nil scope accepts
// every identifier as a free symbol.
type scope map[string]struct{}

func newScope(ids []string) scope {
	if ids == nil {
		return nil
	}
	s := make(scope, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

type funcRule struct {
	arity []int
	build func(args []Expr) (Expr, error)
}

var functions = map[string]funcRule{
	"pow": {arity: []int{2}, build: func(a []Expr) (Expr, error) { return power(a[0], a[1]) }},
	"power": {arity: []int{2}, build: func(a []Expr) (Expr, error) { return power(a[0], a[1]) }},
	"root": {arity: []int{2}, build: func(a []Expr) (Expr, error) {
		inv, err := divide(Int(1), a[0])
		if err != nil {
			return nil, err
		}
		return PowOf(a[1], inv), nil
	}},
	"sqrt": {arity: []int{1}, build: func(a []Expr) (Expr, error) { return PowOf(a[0], Rat(1, 2)), nil }},
	"log": {arity: []int{1, 2}, build: func(a []Expr) (Expr, error) { return FuncOf("log", a...), nil }},
}

// unary lists the transcendental and rounding functions kept as opaque calls.
var unary = []string{
	"exp", "ln", "log10", "abs", "floor", "ceil", "ceiling", "factorial",
	"sin", "cos", "tan", "sec", "csc", "cot",
	"sinh", "cosh", "tanh", "sech", "csch", "coth",
	"asin", "acos", "atan", "asinh", "acosh", "atanh",
	"arcsin", "arccos", "arctan", "arcsinh", "arccosh", "arctanh",
}

func init() {
	for _, name := range unary {
		fn := name
		functions[fn] = funcRule{arity: []int{1}, build: func(a []Expr) (Expr, error) { return FuncOf(fn, a...), nil }}
	}
}

// Compile parses text and converts it to a canonical expression. With a
// non-nil ids list, identifiers outside it fail with ErrUnknownSymbol.
func Compile(text string, ids []string) (Expr, error) {
	n, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return build(n, newScope(ids))
}

func build(n *Node, sc scope) (Expr, error) {
	switch n.Kind {
	case NodeNumber:
		r, ok := new(big.Rat).SetString(n.Text)
		if !ok {
			return nil, fmt.Errorf("%w: bad number %q", ErrUnparsable, n.Text)
		}
		return &Num{val: r}, nil

	case NodeIdent:
		if sc != nil {
			if _, ok := sc[n.Text]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, n.Text)
			}
		}
		return S(n.Text), nil

	case NodeCall:
		rule, ok := functions[n.Text]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, n.Text)
		}
		if !arityOK(rule.arity, len(n.Args)) {
			return nil, fmt.Errorf("%w: %s takes %v arguments, got %d", ErrUnparsable, n.Text, rule.arity, len(n.Args))
		}
		args, err := buildAll(n.Args, sc)
		if err != nil {
			return nil, err
		}
		return rule.build(args)

	case NodeUnary:
		x, err := build(n.Args[0], sc)
		if err != nil {
			return nil, err
		}
		return MulOf(Int(-1), x), nil

	case NodeBinary:
		args, err := buildAll(n.Args, sc)
		if err != nil {
			return nil, err
		}
		a, b := args[0], args[1]
		switch n.Text {
		case "+":
			return AddOf(a, b), nil
		case "-":
			return AddOf(a, MulOf(Int(-1), b)), nil
		case "*":
			return MulOf(a, b), nil
		case "/":
			return divide(a, b)
		case "^":
			return power(a, b)
		}
	}
	return nil, fmt.Errorf("%w: unexpected node %q", ErrUnparsable, n.Text)
}

func buildAll(nodes []*Node, sc scope) ([]Expr, error) {
	out := make([]Expr, len(nodes))
	for i, n := range nodes {
		e, err := build(n, sc)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func arityOK(allowed []int, got int) bool {
	for _, n := range allowed {
		if n == got {
			return true
		}
	}
	return false
}

// divide returns a/b with every factor of b inverted separately, so that
// a/(K*L) and a/K/L share one canonical form.
func divide(a, b Expr) (Expr, error) {
	if isZero(b) {
		return nil, ErrDivisionByZero
	}
	fs := factorsOf(b)
	inv := make([]Expr, 0, len(fs)+1)
	inv = append(inv, a)
	for _, f := range fs {
		if n, ok := f.(*Num); ok {
			inv = append(inv, &Num{val: new(big.Rat).Inv(n.val)})
			continue
		}
		inv = append(inv, PowOf(f, Int(-1)))
	}
	return MulOf(inv...), nil
}

func power(base, exp Expr) (Expr, error) {
	if isZero(base) {
		if n, ok := exp.(*Num); ok && n.val.Sign() < 0 {
			return nil, ErrDivisionByZero
		}
	}
	return PowOf(base, exp), nil
}
