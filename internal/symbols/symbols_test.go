package symbols

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ratelaw/pkg/types"
)

func leaf(name string) *types.MathNode { return &types.MathNode{Name: name} }

func op(children ...*types.MathNode) *types.MathNode {
	return &types.MathNode{Children: children}
}

func call(name string, args ...*types.MathNode) *types.MathNode {
	return &types.MathNode{Name: name, Function: true, Children: args}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		root *types.MathNode
		want []string
	}{
		{"product", op(leaf("k"), leaf("A")), []string{"k", "A"}},
		{"duplicates removed", op(op(leaf("k"), leaf("A")), leaf("A")), []string{"k", "A"}},
		{"numbers skipped", op(&types.MathNode{}, leaf("A")), []string{"A"}},
		{"function name skipped", op(leaf("V"), call("exp", op(leaf("k"), leaf("t")))), []string{"V", "k", "t"}},
		{"bare identifier root", leaf("k"), []string{"k"}},
		{"call at root", call("exp", leaf("x")), []string{"x"}},
		{"nil root", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.root, "R1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func nested(depth int) *types.MathNode {
	n := op(leaf("x"))
	for i := 1; i < depth; i++ {
		n = op(n, leaf("y"))
	}
	return n
}

func TestExtract_DepthLimit(t *testing.T) {
	got, err := Extract(nested(MaxDepth), "R1")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got)

	_, err = Extract(nested(MaxDepth+1), "R7")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedKinetics))

	var me *MalformedError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "R7", me.ReactionID)
}

func TestExtract_WideTreesAreNotDeep(t *testing.T) {
	children := make([]*types.MathNode, 0, 3*MaxDepth)
	for i := 0; i < 3*MaxDepth; i++ {
		children = append(children, op(leaf("k"), leaf("S")))
	}
	got, err := Extract(op(children...), "R2")
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "S"}, got)
}
