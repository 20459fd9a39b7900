// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FunctionDefinition is a named macro that rate laws may call. Bodies may
// call other definitions.
type FunctionDefinition struct {
	// ID is the name used at call sites, e.g. "MM" in "MM(S, Vm, Km)".
	ID string `json:"id" yaml:"id" validate:"required"`

	// Arguments are the formal parameter names, bound by position.
	Arguments []string `json:"arguments" yaml:"arguments" validate:"dive,required"`

	// Body is the formula text the call expands to.
	Body string `json:"body" yaml:"body" validate:"required"`
}

// BuiltinFunctions returns the definitions seeded alongside the ones a model
// declares: delay(a_species, num) evaluates to its first argument and exp is
// rewritten as a power of e.
func BuiltinFunctions() []FunctionDefinition {
	return []FunctionDefinition{
		{ID: "delay", Arguments: []string{"a_species", "num"}, Body: "a_species"},
		{ID: "exp", Arguments: []string{"num"}, Body: "2.71828182**(num)"},
	}
}

// MathNode is one node of a parsed rate-law expression tree. Operator nodes
// have no name; function calls are named and flagged; identifiers are named
// leaves; numeric literals are unnamed leaves.
type MathNode struct {
	Name     string      `json:"name,omitempty" yaml:"name,omitempty"`
	Function bool        `json:"function,omitempty" yaml:"function,omitempty"`
	Children []*MathNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// ReactionDoc is a reaction as it appears in a model document. Reactant and
// product lists repeat a species id once per unit of stoichiometry.
type ReactionDoc struct {
	ID         string   `json:"id" yaml:"id" validate:"required"`
	Reactants  []string `json:"reactants" yaml:"reactants" validate:"dive,required"`
	Products   []string `json:"products" yaml:"products" validate:"dive,required"`
	KineticLaw string   `json:"kinetic_law" yaml:"kinetic_law"`
}

// ModelDoc is the on-disk form of a model: declared ids, function
// definitions and reactions.
type ModelDoc struct {
	// ID identifies the model within a corpus (e.g. "BIOMD0000000006").
	ID string `json:"id" yaml:"id" validate:"required"`

	// Name is an optional human-readable title.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Species lists every declared species id.
	Species []string `json:"species" yaml:"species" validate:"dive,required"`

	// Parameters lists every declared global parameter id.
	Parameters []string `json:"parameters" yaml:"parameters" validate:"dive,required"`

	FunctionDefinitions []FunctionDefinition `json:"function_definitions,omitempty" yaml:"function_definitions,omitempty" validate:"unique=ID,dive"`

	Reactions []ReactionDoc `json:"reactions" yaml:"reactions" validate:"unique=ID,dive"`
}
