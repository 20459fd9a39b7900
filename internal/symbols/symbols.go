// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package symbols lists the identifiers a parsed rate law refers to.
package symbols

import (
	"errors"
	"fmt"

	"github.com/pdiddy/ratelaw/pkg/types"
)

// MaxDepth bounds how deep Extract descends before it declares the tree
// malformed.
const MaxDepth = 20

// ErrMalformedKinetics matches every *MalformedError.
var ErrMalformedKinetics = errors.New("malformed kinetics")

// MalformedError reports a math tree too deep to walk.
type MalformedError struct {
	ReactionID string
	Depth      int
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s for reaction %s: tree deeper than %d", ErrMalformedKinetics, e.ReactionID, e.Depth)
}

func (e *MalformedError) Unwrap() error { return ErrMalformedKinetics }

// Extract returns the identifiers in the tree rooted at root, in first-seen
// order without duplicates. Function names are not identifiers; their
// arguments are searched. A root that is itself a bare identifier is
// returned on its own.
func Extract(root *types.MathNode, reactionID string) ([]string, error) {
	if root == nil {
		return nil, nil
	}
	var names []string
	if root.Name != "" && !root.Function && len(root.Children) == 0 {
		names = append(names, root.Name)
	}
	names, err := walk(root, names, 1, reactionID)
	if err != nil {
		return nil, err
	}
	return dedupe(names), nil
}

func walk(n *types.MathNode, out []string, depth int, reactionID string) ([]string, error) {
	if depth > MaxDepth {
		return nil, &MalformedError{ReactionID: reactionID, Depth: MaxDepth}
	}
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		if child.Name == "" || child.Function {
			var err error
			out, err = walk(child, out, depth+1, reactionID)
			if err != nil {
				return nil, err
			}
			continue
		}
		out = append(out, child.Name)
	}
	return out, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
