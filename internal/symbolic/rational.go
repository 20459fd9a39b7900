package symbolic

import "math/big"

// numerDenom splits e into numerator and denominator without expanding
// either side. Sums are brought over a common denominator, and terms that
// already share a denominator are added before cross-multiplying.
func numerDenom(e Expr) (Expr, Expr) {
	switch v := e.(type) {
	case *Num:
		return &Num{val: new(big.Rat).SetInt(v.val.Num())}, &Num{val: new(big.Rat).SetInt(v.val.Denom())}

	case *Pow:
		if inv, ok := negatedExponent(v.exp); ok {
			if isInteger(inv) {
				n, d := numerDenom(v.base)
				return PowOf(d, inv), PowOf(n, inv)
			}
			return Int(1), PowOf(v.base, inv)
		}
		if isInteger(v.exp) {
			n, d := numerDenom(v.base)
			return PowOf(n, v.exp), PowOf(d, v.exp)
		}
		return e, Int(1)

	case *Mul:
		nums := make([]Expr, 0, len(v.factors))
		dens := make([]Expr, 0, len(v.factors))
		for _, f := range v.factors {
			n, d := numerDenom(f)
			nums = append(nums, n)
			dens = append(dens, d)
		}
		return MulOf(nums...), MulOf(dens...)

	case *Add:
		var keys []string
		groupNum := map[string][]Expr{}
		groupDen := map[string]Expr{}
		for _, t := range v.terms {
			n, d := numerDenom(t)
			k := d.String()
			if _, seen := groupDen[k]; !seen {
				keys = append(keys, k)
				groupDen[k] = d
			}
			groupNum[k] = append(groupNum[k], n)
		}
		if len(keys) == 1 {
			return AddOf(groupNum[keys[0]]...), groupDen[keys[0]]
		}
		terms := make([]Expr, 0, len(keys))
		dens := make([]Expr, 0, len(keys))
		for i, k := range keys {
			parts := []Expr{AddOf(groupNum[k]...)}
			for j, other := range keys {
				if j != i {
					parts = append(parts, groupDen[other])
				}
			}
			terms = append(terms, MulOf(parts...))
			dens = append(dens, groupDen[k])
		}
		return AddOf(terms...), MulOf(dens...)
	}
	return e, Int(1)
}

// fraction rebuilds n/d in canonical form.
func fraction(n, d Expr) (Expr, error) {
	if isOne(d) {
		return n, nil
	}
	return divide(n, d)
}

func isInteger(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.val.IsInt()
}
