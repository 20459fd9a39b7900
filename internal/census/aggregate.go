// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package census

import (
	"math"
	"time"

	"github.com/pdiddy/ratelaw/pkg/types"
)

// LabelStat is one label's share of a set of reactions.
type LabelStat struct {
	Label types.Label `json:"label" yaml:"label"`
	Count int         `json:"count" yaml:"count"`

	// Percentage is Count over all reactions in the set, in [0, 1].
	Percentage float64 `json:"percentage" yaml:"percentage"`

	// PerModelMean and PerModelStdErr summarise the label's fraction within
	// each model: the mean and the sample standard deviation over sqrt(n).
	// The standard error is 0 when fewer than two models contribute.
	PerModelMean   float64 `json:"per_model_mean" yaml:"per_model_mean"`
	PerModelStdErr float64 `json:"per_model_std_err" yaml:"per_model_std_err"`
}

// ModelStat is the label mix of one model.
type ModelStat struct {
	Model     string                  `json:"model" yaml:"model"`
	Reactions int                     `json:"reactions" yaml:"reactions"`
	Fractions map[types.Label]float64 `json:"fractions" yaml:"fractions"`
}

// Distribution is the label breakdown of a set of reactions.
type Distribution struct {
	Reactions int         `json:"reactions" yaml:"reactions"`
	Models    int         `json:"models" yaml:"models"`
	Labels    []LabelStat `json:"labels" yaml:"labels"`
	PerModel  []ModelStat `json:"per_model,omitempty" yaml:"per_model,omitempty"`
}

// Stat returns the row for l.
func (d Distribution) Stat(l types.Label) LabelStat {
	for _, s := range d.Labels {
		if s.Label == l {
			return s
		}
	}
	return LabelStat{Label: l}
}

// TopLabels returns the most frequent labels, several on a tie, in report
// order. An empty distribution has none.
func (d Distribution) TopLabels() []types.Label {
	if d.Reactions == 0 {
		return nil
	}
	best := 0
	for _, s := range d.Labels {
		best = max(best, s.Count)
	}
	var out []types.Label
	for _, s := range d.Labels {
		if s.Count == best {
			out = append(out, s.Label)
		}
	}
	return out
}

// Report is the outcome of a census run.
type Report struct {
	RunID    string    `json:"run_id" yaml:"run_id"`
	Started  time.Time `json:"started" yaml:"started"`
	Finished time.Time `json:"finished" yaml:"finished"`
	Summary  Summary   `json:"summary" yaml:"summary"`

	Overall Distribution `json:"overall" yaml:"overall"`

	// ByType holds one distribution per reaction type, indexed by
	// types.ReactionType.Index.
	ByType []Distribution `json:"by_type" yaml:"by_type"`

	// ModelsWithNA counts models with at least one unclassified reaction.
	ModelsWithNA int `json:"models_with_na" yaml:"models_with_na"`

	// TypeCounts and TypePerModel are indexed [products][reactants]. The
	// per-model figure divides by the models having that reaction type.
	TypeCounts   [types.NumBuckets][types.NumBuckets]int     `json:"type_counts" yaml:"type_counts"`
	TypePerModel [types.NumBuckets][types.NumBuckets]float64 `json:"type_per_model" yaml:"type_per_model"`

	Records []ReactionRecord `json:"records,omitempty" yaml:"records,omitempty"`
}

// ForType returns the distribution of reactions of type t.
func (r *Report) ForType(t types.ReactionType) Distribution {
	return r.ByType[t.Index()]
}

// Aggregate computes the statistics of records. Records of a model must
// carry the same Model id; models are reported in first-seen order.
func Aggregate(records []ReactionRecord) *Report {
	rep := &Report{
		Overall: distribution(records),
		ByType:  make([]Distribution, types.NumBuckets*types.NumBuckets),
		Records: records,
	}

	byType := make([][]ReactionRecord, len(rep.ByType))
	na := make(map[string]bool)
	for _, r := range records {
		i := r.Type().Index()
		byType[i] = append(byType[i], r)
		if r.Label == types.LabelNotClassified {
			na[r.Model] = true
		}
	}
	rep.ModelsWithNA = len(na)

	for i, rs := range byType {
		d := distribution(rs)
		rep.ByType[i] = d
		p, q := i/types.NumBuckets, i%types.NumBuckets
		rep.TypeCounts[p][q] = d.Reactions
		if d.Models > 0 {
			rep.TypePerModel[p][q] = float64(d.Reactions) / float64(d.Models)
		}
	}
	return rep
}

func distribution(records []ReactionRecord) Distribution {
	var order []string
	groups := make(map[string]map[types.Label]int)
	sizes := make(map[string]int)
	counts := make(map[types.Label]int)
	for _, r := range records {
		g, ok := groups[r.Model]
		if !ok {
			g = make(map[types.Label]int)
			groups[r.Model] = g
			order = append(order, r.Model)
		}
		g[r.Label]++
		sizes[r.Model]++
		counts[r.Label]++
	}

	d := Distribution{Reactions: len(records), Models: len(order)}
	for _, id := range order {
		ms := ModelStat{Model: id, Reactions: sizes[id], Fractions: make(map[types.Label]float64, len(types.Labels))}
		for _, l := range types.Labels {
			ms.Fractions[l] = float64(groups[id][l]) / float64(sizes[id])
		}
		d.PerModel = append(d.PerModel, ms)
	}

	for _, l := range types.Labels {
		s := LabelStat{Label: l, Count: counts[l]}
		if d.Reactions > 0 {
			s.Percentage = float64(s.Count) / float64(d.Reactions)
		}
		fractions := make([]float64, len(d.PerModel))
		for i, ms := range d.PerModel {
			fractions[i] = ms.Fractions[l]
		}
		s.PerModelMean, s.PerModelStdErr = meanStdErr(fractions)
		d.Labels = append(d.Labels, s)
	}
	return d
}

// meanStdErr returns the mean of xs and the standard error of the mean
// using the sample standard deviation. Both are 0 where undefined.
func meanStdErr(xs []float64) (mean, stderr float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= n
	if n < 2 {
		return mean, 0
	}
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(ss/(n-1)) / math.Sqrt(n)
}
