// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model loads model documents and prepares their reactions for
// classification.
package model

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/ratelaw/internal/classify"
	"github.com/pdiddy/ratelaw/internal/expand"
	"github.com/pdiddy/ratelaw/internal/symbols"
	"github.com/pdiddy/ratelaw/pkg/types"
)

// KineticLaw is a reaction's rate law in its raw and expanded forms, with
// the identifiers its math tree mentions.
type KineticLaw struct {
	Formula  string
	Expanded string
	Symbols  []string
}

// NewKineticLaw reads formula and extracts its identifiers. A formula whose
// tree cannot be built or walked gets an empty symbol list and a warning.
func NewKineticLaw(formula, reactionID string, logger *slog.Logger) KineticLaw {
	k := KineticLaw{Formula: formula, Expanded: formula}
	if strings.TrimSpace(formula) == "" {
		return k
	}

	root, err := Tree(formula)
	if err == nil {
		k.Symbols, err = symbols.Extract(root, reactionID)
	}
	if err != nil {
		var malformed *symbols.MalformedError
		if errors.As(err, &malformed) {
			logger.Warn("kinetic law too deeply nested, no symbols extracted", "reaction", reactionID, "depth", malformed.Depth)
		} else {
			logger.Warn("unreadable kinetic law, no symbols extracted", "reaction", reactionID, "error", err)
		}
		k.Symbols = nil
	}
	return k
}

// Expand inlines every call to defs in the formula.
func (k *KineticLaw) Expand(defs []types.FunctionDefinition) {
	k.Expanded = expand.Formula(k.Formula, defs, 0)
}

// Empty reports whether the reaction declares no rate law.
func (k KineticLaw) Empty() bool {
	return strings.TrimSpace(k.Formula) == ""
}

// Reaction is one reaction of a loaded model.
type Reaction struct {
	ID        string
	Reactants []string
	Products  []string
	Law       KineticLaw
}

// Equation renders the reaction as "A + B->C".
func (r Reaction) Equation() string {
	return strings.Join(r.Reactants, " + ") + "->" + strings.Join(r.Products, " + ")
}

func (r Reaction) String() string {
	law := r.Law.Expanded
	if law == "" {
		law = r.Law.Formula
	}
	return fmt.Sprintf("%s -> %s; %s", strings.Join(r.Reactants, " + "), strings.Join(r.Products, " + "), law)
}

// Model is a loaded model document. Functions holds the model's own
// definitions followed by the builtins.
type Model struct {
	ID         string
	Name       string
	Path       string
	Species    []string
	Parameters []string
	Functions  []types.FunctionDefinition
	Reactions  []Reaction
}

// Context builds the classification context of one of the model's reactions.
func (m *Model) Context(r Reaction) classify.Context {
	return classify.NewContext(r.Law.Symbols, r.Reactants, r.Products, m.Species, m.Parameters)
}

// FromDoc builds a Model from a validated document. Every rate law is
// expanded against the model's function definitions.
func FromDoc(doc *types.ModelDoc, logger *slog.Logger) *Model {
	m := &Model{
		ID:         doc.ID,
		Name:       doc.Name,
		Species:    doc.Species,
		Parameters: doc.Parameters,
		Functions:  append(append([]types.FunctionDefinition{}, doc.FunctionDefinitions...), types.BuiltinFunctions()...),
	}
	logger = logger.With("model", doc.ID)
	for _, rd := range doc.Reactions {
		law := NewKineticLaw(rd.KineticLaw, rd.ID, logger)
		law.Expand(m.Functions)
		m.Reactions = append(m.Reactions, Reaction{
			ID:        rd.ID,
			Reactants: rd.Reactants,
			Products:  rd.Products,
			Law:       law,
		})
	}
	return m
}
