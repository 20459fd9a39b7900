// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"context"
	"errors"
	"strings"
)

// Extra numerator parameters tried by the Michaelis-Menten searches.
const (
	MaxExtraFactors         = 3
	MaxExtraFactorsCatalyst = 2
)

// Candidate is one Michaelis-Menten-family form:
// Factors[0]*...*Factors[n-1] / (Substrate + Constant).
type Candidate struct {
	Factors   []string
	Substrate string
	Constant  string
}

func (c Candidate) String() string {
	return strings.Join(c.Factors, " * ") + " / (" + c.Substrate + " + " + c.Constant + ")"
}

// Candidates enumerates the forms searched for a law with the given
// reactant. With an empty catalyst the numerator is the reactant times up
// to MaxExtraFactors parameters; with a catalyst it is reactant*catalyst
// times up to MaxExtraFactorsCatalyst parameters. The denominator constant
// is never reused in the numerator and no parameter appears twice.
// Orderings of the same parameter set are generated once.
func Candidates(reactant, catalyst string, params []string) []Candidate {
	if reactant == "" || len(params) == 0 {
		return nil
	}
	base := []string{reactant}
	extra := MaxExtraFactors
	if catalyst != "" {
		base = append(base, catalyst)
		extra = MaxExtraFactorsCatalyst
	}

	var out []Candidate
	var grow func(k int, chosen []int, from int)
	grow = func(k int, chosen []int, from int) {
		factors := append([]string{}, base...)
		for _, i := range chosen {
			factors = append(factors, params[i])
		}
		out = append(out, Candidate{Factors: factors, Substrate: reactant, Constant: params[k]})
		if len(chosen) == extra {
			return
		}
		for i := from; i < len(params); i++ {
			if i == k {
				continue
			}
			grow(k, append(chosen[:len(chosen):len(chosen)], i), i+1)
		}
	}
	for k := range params {
		grow(k, nil, 0)
	}
	return out
}

// Search returns the first candidate the engine finds equal to law. A
// candidate the engine cannot evaluate counts as a mismatch; cancellation
// of ctx ends the search.
func Search(ctx context.Context, engine Engine, law string, ids []string, candidates []Candidate) (Candidate, bool) {
	for _, c := range candidates {
		if ctx.Err() != nil {
			return Candidate{}, false
		}
		eq, err := engine.Equal(ctx, c.String(), law, ids)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Candidate{}, false
			}
			continue
		}
		if eq {
			return c, true
		}
	}
	return Candidate{}, false
}
