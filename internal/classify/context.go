// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

// Context is what the classifier knows about the reaction a law belongs to.
type Context struct {
	// Reactants and Products repeat a species once per unit of stoichiometry.
	Reactants []string
	Products  []string

	// Species are the law's identifiers that the model declares as species.
	Species []string

	// Parameters are the law's declared parameters followed by Others, the
	// candidate pool for the Michaelis-Menten search.
	Parameters []string

	// Others are the law's identifiers the model declares as neither.
	Others []string

	// IDs binds every symbol the engine may meet: the law's identifiers
	// plus all reactants and products, without duplicates.
	IDs []string
}

// NewContext partitions the identifiers of a law against the model's
// declared species and parameters.
func NewContext(symbols, reactants, products, modelSpecies, modelParameters []string) Context {
	species := toSet(modelSpecies)
	params := toSet(modelParameters)

	c := Context{Reactants: reactants, Products: products}
	var declared []string
	for _, id := range unique(symbols) {
		switch {
		case has(species, id):
			c.Species = append(c.Species, id)
		case has(params, id):
			declared = append(declared, id)
		default:
			c.Others = append(c.Others, id)
		}
	}
	c.Parameters = append(declared, c.Others...)

	ids := append([]string{}, unique(symbols)...)
	ids = append(ids, reactants...)
	ids = append(ids, products...)
	c.IDs = unique(ids)
	return c
}

func toSet(ids []string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func has(s map[string]struct{}, id string) bool {
	_, ok := s[id]
	return ok
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
