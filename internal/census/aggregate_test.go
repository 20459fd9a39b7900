package census

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ratelaw/pkg/types"
)

func rec(model string, label types.Label, reactants, products types.Bucket) ReactionRecord {
	return ReactionRecord{Model: model, Label: label, Reactants: reactants, Products: products}
}

func sample() []ReactionRecord {
	return []ReactionRecord{
		rec("A", types.LabelUniMassAction, types.BucketOne, types.BucketOne),
		rec("A", types.LabelUniMassAction, types.BucketOne, types.BucketOne),
		rec("A", types.LabelNotClassified, types.BucketTwo, types.BucketOne),
		rec("A", types.LabelMichaelisMenten, types.BucketOne, types.BucketZero),
		rec("B", types.LabelUniMassAction, types.BucketOne, types.BucketOne),
		rec("B", types.LabelMichaelisMenten, types.BucketOne, types.BucketOne),
	}
}

func TestAggregate_Overall(t *testing.T) {
	rep := Aggregate(sample())
	d := rep.Overall

	assert.Equal(t, 6, d.Reactions)
	assert.Equal(t, 2, d.Models)
	require.Len(t, d.Labels, len(types.Labels))
	assert.Equal(t, types.LabelNotClassified, d.Labels[len(d.Labels)-1].Label)

	tests := []struct {
		label  types.Label
		count  int
		pct    float64
		mean   float64
		stderr float64
	}{
		{types.LabelUniMassAction, 3, 0.5, 0.5, 0},
		{types.LabelMichaelisMenten, 2, 2.0 / 6, 0.375, 0.125},
		{types.LabelNotClassified, 1, 1.0 / 6, 0.125, 0.125},
		{types.LabelHill, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.label), func(t *testing.T) {
			s := d.Stat(tt.label)
			assert.Equal(t, tt.count, s.Count)
			assert.InDelta(t, tt.pct, s.Percentage, 1e-12)
			assert.InDelta(t, tt.mean, s.PerModelMean, 1e-12)
			assert.InDelta(t, tt.stderr, s.PerModelStdErr, 1e-12)
		})
	}

	require.Len(t, d.PerModel, 2)
	assert.Equal(t, "A", d.PerModel[0].Model)
	assert.Equal(t, 4, d.PerModel[0].Reactions)
	assert.InDelta(t, 0.25, d.PerModel[0].Fractions[types.LabelMichaelisMenten], 1e-12)

	assert.Equal(t, 1, rep.ModelsWithNA)
	assert.Equal(t, []types.Label{types.LabelUniMassAction}, d.TopLabels())
}

func TestAggregate_ReactionTypes(t *testing.T) {
	rep := Aggregate(sample())

	assert.Equal(t, 4, rep.TypeCounts[1][1])
	assert.Equal(t, 1, rep.TypeCounts[1][2])
	assert.Equal(t, 1, rep.TypeCounts[0][1])
	assert.Equal(t, 0, rep.TypeCounts[3][3])
	assert.InDelta(t, 2.0, rep.TypePerModel[1][1], 1e-12)
	assert.InDelta(t, 1.0, rep.TypePerModel[1][2], 1e-12)
	assert.Zero(t, rep.TypePerModel[2][2])

	oneToOne := rep.ForType(types.ReactionType{Reactants: types.BucketOne, Products: types.BucketOne})
	assert.Equal(t, 4, oneToOne.Reactions)
	assert.Equal(t, 2, oneToOne.Models)
	s := oneToOne.Stat(types.LabelUniMassAction)
	assert.InDelta(t, 0.75, s.Percentage, 1e-12)
	assert.InDelta(t, 0.75, s.PerModelMean, 1e-12)
	assert.InDelta(t, 0.25, s.PerModelStdErr, 1e-12)

	empty := rep.ForType(types.ReactionType{})
	assert.Zero(t, empty.Reactions)
	assert.Len(t, empty.Labels, len(types.Labels))
	assert.Nil(t, empty.TopLabels())
}

func TestTopLabels_Ties(t *testing.T) {
	d := distribution(sample()[4:])
	assert.Equal(t, []types.Label{types.LabelUniMassAction, types.LabelMichaelisMenten}, d.TopLabels())
}

func TestAggregate_Empty(t *testing.T) {
	rep := Aggregate(nil)
	assert.Zero(t, rep.Overall.Reactions)
	assert.Len(t, rep.ByType, types.NumBuckets*types.NumBuckets)
	assert.Zero(t, rep.ModelsWithNA)
	for _, s := range rep.Overall.Labels {
		assert.Zero(t, s.PerModelMean)
	}
}

func TestMeanStdErr(t *testing.T) {
	m, se := meanStdErr([]float64{0.2})
	assert.InDelta(t, 0.2, m, 1e-12)
	assert.Zero(t, se)

	m, se = meanStdErr([]float64{1, 2, 3, 4})
	assert.InDelta(t, 2.5, m, 1e-12)
	assert.InDelta(t, 0.6454972243679028, se, 1e-12)
}
