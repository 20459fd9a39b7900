// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Label is a kinetic mechanism in the classification taxonomy.
type Label string

const (
	LabelZeroth          Label = "ZERO"
	LabelUniMassAction   Label = "UNDR"
	LabelUniModerated    Label = "UNMO"
	LabelBiMassAction    Label = "BIDR"
	LabelBiModerated     Label = "BIMO"
	LabelMichaelisMenten Label = "MM"
	LabelMMCatalyzed     Label = "MMCAT"
	LabelHill            Label = "HILL"
	LabelFraction        Label = "FR"
	LabelPolynomial      Label = "PL"
	LabelNotClassified   Label = "NA"
)

// Labels lists every label in report order. NA is always last.
var Labels = []Label{
	LabelZeroth,
	LabelUniMassAction,
	LabelUniModerated,
	LabelBiMassAction,
	LabelBiModerated,
	LabelMichaelisMenten,
	LabelMMCatalyzed,
	LabelHill,
	LabelFraction,
	LabelPolynomial,
	LabelNotClassified,
}

var labelDescriptions = map[Label]string{
	LabelZeroth:          "Zeroth order",
	LabelUniMassAction:   "Uni-directional mass action",
	LabelUniModerated:    "Uni-term with moderator",
	LabelBiMassAction:    "Bi-directional mass action",
	LabelBiModerated:     "Bi-terms with moderator",
	LabelMichaelisMenten: "Michaelis-Menten kinetics",
	LabelMMCatalyzed:     "Michaelis-Menten kinetics-catalyzed",
	LabelHill:            "Hill equations",
	LabelFraction:        "Fraction",
	LabelPolynomial:      "Polynomial",
	LabelNotClassified:   "Not classified",
}

// Description returns the long name of the label.
func (l Label) Description() string {
	if d, ok := labelDescriptions[l]; ok {
		return d
	}
	return string(l)
}

// Valid reports whether l is a member of the taxonomy.
func (l Label) Valid() bool {
	_, ok := labelDescriptions[l]
	return ok
}

// ParseLabel accepts a label code such as "MM" or "HILL".
func ParseLabel(s string) (Label, error) {
	l := Label(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown label %q", s)
	}
	return l, nil
}

// Bucket groups a reactant or product count into 0, 1, 2 or more than 2.
type Bucket int

const (
	BucketZero Bucket = iota
	BucketOne
	BucketTwo
	BucketMany
)

// NumBuckets is the number of arity buckets per side of a reaction.
const NumBuckets = 4

// BucketOf returns the bucket for a list length.
func BucketOf(n int) Bucket {
	switch {
	case n <= 0:
		return BucketZero
	case n == 1:
		return BucketOne
	case n == 2:
		return BucketTwo
	default:
		return BucketMany
	}
}

// String renders the bucket as "0", "1", "2" or ">2".
func (b Bucket) String() string {
	if b >= BucketMany {
		return ">2"
	}
	return fmt.Sprintf("%d", int(b))
}

// ReactantHeader renders the bucket as a reactant column header ("R = 1", "R > 2").
func (b Bucket) ReactantHeader() string { return header("R", b) }

// ProductHeader renders the bucket as a product row header ("P = 0", "P > 2").
func (b Bucket) ProductHeader() string { return header("P", b) }

func header(side string, b Bucket) string {
	if b >= BucketMany {
		return side + " > 2"
	}
	return fmt.Sprintf("%s = %d", side, int(b))
}

// ParseBucket accepts 0, 1, 2 or 3, where 3 stands for more than two.
func ParseBucket(n int) (Bucket, error) {
	if n < 0 || n > 3 {
		return 0, fmt.Errorf("invalid bucket %d: use 0, 1, 2 or 3 (more than two)", n)
	}
	return Bucket(n), nil
}

// ReactionType is the reactant/product bucket pair of a reaction.
type ReactionType struct {
	Reactants Bucket `json:"reactants" yaml:"reactants"`
	Products  Bucket `json:"products" yaml:"products"`
}

// Index maps the pair onto 0..15, products-major.
func (t ReactionType) Index() int {
	return int(t.Products)*NumBuckets + int(t.Reactants)
}

// String renders the pair as "P = 1, R > 2".
func (t ReactionType) String() string {
	return t.Products.ProductHeader() + ", " + t.Reactants.ReactantHeader()
}
