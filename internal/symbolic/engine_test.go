// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package symbolic

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Errors(t *testing.T) {
	for _, text := range []string{"", "   ", "a +", "(a", "a $ b", "f(a,", "a b"} {
		t.Run(text, func(t *testing.T) {
			_, err := Parse(text)
			assert.ErrorIs(t, err, ErrUnparsable)
		})
	}
}

func TestParse_PowerBindsTighterThanUnaryMinus(t *testing.T) {
	n, err := Parse("-a^2")
	require.NoError(t, err)
	assert.Equal(t, NodeUnary, n.Kind)
	require.Len(t, n.Args, 1)
	assert.Equal(t, NodeBinary, n.Args[0].Kind)
	assert.Equal(t, "^", n.Args[0].Text)
}

func TestParse_DoubleStarIsPower(t *testing.T) {
	n, err := Parse("k1 * S ** 2")
	require.NoError(t, err)
	assert.Equal(t, "*", n.Text)
	assert.Equal(t, "^", n.Args[1].Text)
}

func TestCanonicalConstructors(t *testing.T) {
	x := S("x")
	tests := []struct {
		name string
		got  Expr
		want string
	}{
		{"collect like terms", AddOf(x, x), "2*x"},
		{"cancel terms", AddOf(x, MulOf(Int(-1), x)), "0"},
		{"fold coefficients", MulOf(Int(2), Rat(1, 2)), "1"},
		{"negative constant power", PowOf(Int(2), Int(-2)), "0.25"},
		{"cancel factors", MulOf(x, PowOf(x, Int(-1))), "1"},
		{"merge exponents", MulOf(PowOf(x, Int(2)), PowOf(x, Int(3))), "x**5"},
		{"nested integer power", PowOf(PowOf(x, Rat(1, 2)), Int(2)), "x"},
		{"exp of zero", FuncOf("exp", Int(0)), "1"},
		{"reciprocal", PowOf(x, Int(-1)), "1/x"},
		{"rational coefficient", MulOf(Rat(2, 3), x), "2*x/3"},
		{"constant sorts last", AddOf(Int(1), MulOf(Int(-1), S("Rho"))), "1 - Rho"},
		{"sum factor sorts last", MulOf(AddOf(Int(1), MulOf(Int(-1), S("Rho"))), S("Kr")), "Kr*(1 - Rho)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got.String())
		})
	}
}

func TestFreeSymbols(t *testing.T) {
	x, err := Compile("Vm*S^n/(K^n + S^n) + exp(-kd*t)", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"K", "S", "Vm", "kd", "n", "t"}, FreeSymbols(x))
}

func TestSimplify(t *testing.T) {
	e := New()
	tests := []struct {
		in, want string
	}{
		{"V*S/(K+S)", "S*V/(K + S)"},
		{"k*A*B/B", "A*k"},
		{"a/b + c/d", "(a*d + b*c)/(b*d)"},
		{"2*x/4", "0.5*x"},
		{"x^2*x^3", "x**5"},
		{"pow(S, 2)", "S**2"},
		{"exp(0) + A", "A + 1"},
		{"a - a", "0"},
		{"A*B - C", "A*B - C"},
		{"Kr*(1-Rho)", "Kr*(1 - Rho)"},
		{"k/K/L", "k/(K*L)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := e.Simplify(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSimplify_OutputReparses(t *testing.T) {
	e := New()
	for _, in := range []string{"V*S/(K+S)", "a/b + c/d", "2*x/3 - y^(1/2)", "(a+b)^2/(c*d^2)"} {
		t.Run(in, func(t *testing.T) {
			out, err := e.Simplify(context.Background(), in)
			require.NoError(t, err)
			again, err := e.Simplify(context.Background(), out)
			require.NoError(t, err)
			assert.Equal(t, out, again)
			eq, err := e.Equal(context.Background(), in, out, []string{"V", "S", "K", "a", "b", "c", "d", "x", "y"})
			require.NoError(t, err)
			assert.True(t, eq)
		})
	}
}

func TestSimplify_DivisionByZero(t *testing.T) {
	_, err := New().Simplify(context.Background(), "1/0")
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestNumerDenom(t *testing.T) {
	e := New()
	tests := []struct {
		in       string
		ids      []string
		num, den string
	}{
		{"S*V/(K + S)", []string{"S", "V", "K"}, "S*V", "K + S"},
		{"Vm*S**n/(K**n + S**n)", []string{"Vm", "S", "n", "K"}, "S**n*Vm", "K**n + S**n"},
		{"k*A", []string{"k", "A"}, "A*k", "1"},
		{"A/2", []string{"A"}, "A", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			fr, err := e.NumerDenom(context.Background(), tt.in, tt.ids)
			require.NoError(t, err)
			assert.Equal(t, tt.num, fr.Numerator)
			assert.Equal(t, tt.den, fr.Denominator)
		})
	}
}

func TestNumerDenom_Errors(t *testing.T) {
	e := New()
	ctx := context.Background()

	_, err := e.NumerDenom(ctx, "k*X", []string{"k"})
	assert.ErrorIs(t, err, ErrUnknownSymbol)

	_, err = e.NumerDenom(ctx, "delay(A, 2)", []string{"A"})
	assert.ErrorIs(t, err, ErrUnknownFunction)

	_, err = e.NumerDenom(ctx, "k*", []string{"k"})
	assert.ErrorIs(t, err, ErrUnparsable)

	_, err = e.NumerDenom(ctx, "k", nil)
	assert.ErrorIs(t, err, ErrUnknownSymbol, "a nil id list declares no symbols")
}

func TestIsPolynomial(t *testing.T) {
	e := New()
	ids := []string{"k", "kr", "A", "B", "C", "S", "V", "K", "t"}
	tests := []struct {
		in   string
		want bool
	}{
		{"k*A*B - kr*C", true},
		{"A**2 + 3", true},
		{"A*exp(2)", true},
		{"S*V/(K + S)", false},
		{"2.5**(k*t)", false},
		{"sqrt(A)", false},
		{"exp(k)", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := e.IsPolynomial(context.Background(), tt.in, ids)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEqual(t *testing.T) {
	e := New()
	ids := []string{"a", "b", "c", "d", "x", "S", "V", "K"}
	tests := []struct {
		a, b string
		want bool
	}{
		{"V*S/(K+S)", "S*V/(S+K)", true},
		{"V*S/(K+S)", "S/(S+K)", false},
		{"(a+b)^2", "a^2 + 2*a*b + b^2", true},
		{"a/b + c/d", "(a*d+b*c)/(b*d)", true},
		{"sqrt(x)*sqrt(x)", "x", true},
		{"exp(a)*b", "b*exp(a)", true},
		{"V*S/(K+S)", "V*S*K/(K*K+K*S)", true},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			got, err := e.Equal(context.Background(), tt.a, tt.b, ids)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEqual_Budget(t *testing.T) {
	e := New(WithMaxTerms(10))
	_, err := e.Equal(context.Background(), "(a+b+c+d)^6", "a", []string{"a", "b", "c", "d"})
	assert.ErrorIs(t, err, ErrBudget)
}

func TestEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Equal(ctx, "a", "a", []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = New().Simplify(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConstantPowerFolding(t *testing.T) {
	r, ok := ratPow(big.NewRat(2, 1), big.NewRat(64, 1))
	require.True(t, ok)
	assert.Equal(t, 65, r.Num().BitLen())

	_, ok = ratPow(r, big.NewRat(64, 1))
	assert.False(t, ok, "result would exceed the fold limit")

	_, ok = ratPow(big.NewRat(1, 3), big.NewRat(-64, 1))
	assert.True(t, ok)
}

func TestEngine_PowerTowerHonoursDeadline(t *testing.T) {
	const tower = "(((2^64)^64)^64)^64*A"
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	out, err := New().Simplify(ctx, tower)
	require.NoError(t, err)
	assert.Contains(t, out, "A")

	_, err = New().Equal(ctx, tower, tower, []string{"A"})
	require.NoError(t, err)
	_, err = New().IsPolynomial(ctx, "((((2^64)^64)^64)^64)^64*A", []string{"A"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
