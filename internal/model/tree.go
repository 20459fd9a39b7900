package model

import (
	"github.com/pdiddy/ratelaw/internal/symbolic"
	"github.com/pdiddy/ratelaw/pkg/types"
)

// Tree parses formula into the math tree the symbol extractor walks.
// Operators become unnamed nodes, calls named function nodes, identifiers
// named leaves and numbers unnamed leaves.
func Tree(formula string) (*types.MathNode, error) {
	n, err := symbolic.Parse(formula)
	if err != nil {
		return nil, err
	}
	return convert(n), nil
}

func convert(n *symbolic.Node) *types.MathNode {
	m := &types.MathNode{}
	switch n.Kind {
	case symbolic.NodeIdent:
		m.Name = n.Text
		return m
	case symbolic.NodeNumber:
		return m
	case symbolic.NodeCall:
		m.Name, m.Function = n.Text, true
	}
	for _, a := range n.Args {
		m.Children = append(m.Children, convert(a))
	}
	return m
}
