package symbolic

import (
	"math/big"
	"strings"
)

// maxDecimalDigits bounds how long a terminating decimal may print before
// the constant falls back to p/q form.
const maxDecimalDigits = 30

func (n *Num) String() string {
	if s, ok := decimalString(n.val); ok {
		return s
	}
	return n.val.RatString()
}

func (s *Sym) String() string { return s.name }

func (f *Func) String() string {
	args := make([]string, len(f.args))
	for i, a := range f.args {
		args[i] = a.String()
	}
	return f.name + "(" + strings.Join(args, ", ") + ")"
}

func (p *Pow) String() string { return productString(p) }

func (m *Mul) String() string { return productString(m) }

// String prints positive terms first, so "1 - Rho" rather than "-Rho + 1".
func (a *Add) String() string {
	var pos, neg []Expr
	var pconst, nconst Expr
	for _, t := range a.terms {
		c, _ := splitCoeff(t)
		if n, ok := t.(*Num); ok {
			if n.val.Sign() < 0 {
				nconst = t
			} else {
				pconst = t
			}
			continue
		}
		if c.Sign() < 0 {
			neg = append(neg, t)
			continue
		}
		pos = append(pos, t)
	}
	if pconst != nil {
		pos = append(pos, pconst)
	}
	if nconst != nil {
		neg = append(neg, nconst)
	}

	var b strings.Builder
	for i, t := range pos {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(t.String())
	}
	for i, t := range neg {
		if i == 0 && len(pos) == 0 {
			b.WriteString(t.String())
			continue
		}
		b.WriteString(" - ")
		b.WriteString(MulOf(Int(-1), t).String())
	}
	return b.String()
}

// productString prints a Mul or Pow as a single fraction: factors with a
// negative exponent and the coefficient's denominator go below the bar.
func productString(e Expr) string {
	factors := factorsOf(e)
	coeff := big.NewRat(1, 1)
	if n, ok := factors[0].(*Num); ok {
		coeff.Set(n.val)
		factors = factors[1:]
	}
	neg := coeff.Sign() < 0
	coeff.Abs(coeff)

	var num, den []string
	if !coeff.IsInt() || coeff.Num().Cmp(big.NewInt(1)) != 0 {
		if s, ok := decimalString(coeff); ok {
			num = append(num, s)
		} else {
			if coeff.Num().Cmp(big.NewInt(1)) != 0 {
				num = append(num, coeff.Num().String())
			}
			den = append(den, coeff.Denom().String())
		}
	}
	for _, f := range factors {
		if p, ok := f.(*Pow); ok {
			if inv, ok := negatedExponent(p.exp); ok {
				if isOne(inv) {
					den = append(den, factorString(p.base))
				} else {
					den = append(den, powString(p.base, inv))
				}
				continue
			}
			num = append(num, powString(p.base, p.exp))
			continue
		}
		num = append(num, factorString(f))
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	if len(num) == 0 {
		b.WriteByte('1')
	} else {
		b.WriteString(strings.Join(num, "*"))
	}
	switch len(den) {
	case 0:
	case 1:
		b.WriteByte('/')
		b.WriteString(den[0])
	default:
		b.WriteString("/(")
		b.WriteString(strings.Join(den, "*"))
		b.WriteByte(')')
	}
	return b.String()
}

func factorString(e Expr) string {
	switch v := e.(type) {
	case *Add, *Mul:
		return "(" + e.String() + ")"
	case *Num:
		if v.val.Sign() < 0 || !isDecimal(v.val) {
			return "(" + e.String() + ")"
		}
	}
	return e.String()
}

func powString(base, exp Expr) string {
	b := factorString(base)
	if _, ok := base.(*Pow); ok {
		b = "(" + b + ")"
	}
	x := exp.String()
	switch v := exp.(type) {
	case *Sym, *Func:
	case *Num:
		if v.val.Sign() < 0 || !isDecimal(v.val) {
			x = "(" + x + ")"
		}
	default:
		x = "(" + x + ")"
	}
	return b + "**" + x
}

func isDecimal(r *big.Rat) bool {
	_, ok := decimalString(r)
	return ok
}

// decimalString prints r as a terminating decimal when its denominator has
// no prime factors other than 2 and 5.
func decimalString(r *big.Rat) (string, bool) {
	if r.IsInt() {
		return r.Num().String(), true
	}
	d := new(big.Int).Set(r.Denom())
	two, five := big.NewInt(2), big.NewInt(5)
	var twos, fives int
	m := new(big.Int)
	for {
		q, rem := new(big.Int).QuoRem(d, two, m)
		if rem.Sign() != 0 {
			break
		}
		d = q
		twos++
	}
	for {
		q, rem := new(big.Int).QuoRem(d, five, m)
		if rem.Sign() != 0 {
			break
		}
		d = q
		fives++
	}
	if d.Cmp(big.NewInt(1)) != 0 {
		return "", false
	}
	digits := max(twos, fives)
	if digits > maxDecimalDigits {
		return "", false
	}
	return r.FloatString(digits), true
}
