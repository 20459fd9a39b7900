package classify

import "strings"

// isSingleProduct reports whether a law reads as one product of factors.
// A sign is tolerated only as part of a negative exponent ("1e-3",
// "exp(-k*t)"). The simplified text is consulted only when the expanded
// text has no sign at all, and then the "e-" exception is still read from
// the expanded text.
func isSingleProduct(kin, sim string) bool {
	switch {
	case strings.ContainsAny(kin, "+-"):
		return strings.Contains(kin, "e-") || strings.Contains(kin, "exp(-")
	case strings.ContainsAny(sim, "+-"):
		return strings.Contains(kin, "e-") || strings.Contains(sim, "exp(-")
	}
	return true
}

// isDifference reports whether a law reads as exactly two terms joined by
// a single minus sign.
func isDifference(kin, sim string) bool {
	return !isSingleProduct(kin, sim) && len(strings.Split(kin, "-")) == 2
}

// splitsReactantsProducts reports whether, in the expanded or the
// simplified text, the term before the minus mentions every reactant and
// the term after it every product, with the law's species being exactly
// the reactants and products.
func splitsReactantsProducts(kin, sim string, species, reactants, products []string) bool {
	if len(reactants) == 0 || len(products) == 0 {
		return false
	}
	if !sameMultiset(species, append(append([]string{}, reactants...), products...)) {
		return false
	}
	for _, text := range []string{kin, sim} {
		terms := strings.Split(text, "-")
		if len(terms) != 2 {
			continue
		}
		if mentionsAll(terms[0], reactants) && mentionsAll(terms[1], products) {
			return true
		}
	}
	return false
}

// hasPower reports a visible power: "**", or pow() other than pow(x,-1).
func hasPower(text string) bool {
	return strings.Contains(text, "**") || (strings.Contains(text, "pow(") && !strings.Contains(text, "-1)"))
}

// powerOf returns the exponent written after the first "id**" in text, or
// "" when id is not raised to a power there.
func powerOf(text, id string) string {
	for _, at := range identifierOffsets(text, id) {
		rest := text[at+len(id):]
		if !strings.HasPrefix(rest, "**") {
			continue
		}
		rest = rest[2:]
		if strings.HasPrefix(rest, "(") {
			depth := 0
			for i := 0; i < len(rest); i++ {
				switch rest[i] {
				case '(':
					depth++
				case ')':
					depth--
					if depth == 0 {
						return rest[:i+1]
					}
				}
			}
			return rest
		}
		end := 0
		for end < len(rest) && isWordByte(rest[end]) {
			end++
		}
		return rest[:end]
	}
	return ""
}

// mentions reports whether id occurs in text as a whole identifier.
func mentions(text, id string) bool {
	return len(identifierOffsets(text, id)) > 0
}

func mentionsAll(text string, ids []string) bool {
	for _, id := range ids {
		if !mentions(text, id) {
			return false
		}
	}
	return true
}

func mentionsAny(text string, ids []string) bool {
	for _, id := range ids {
		if mentions(text, id) {
			return true
		}
	}
	return false
}

// countMentions counts whole-identifier occurrences of id in text.
func countMentions(text, id string) int {
	return len(identifierOffsets(text, id))
}

// identifierOffsets returns the start of each word in text equal to id.
// A word is a maximal run of letters, digits, '_' and '.', so the "e5" of
// "1e5" is never mistaken for an identifier.
func identifierOffsets(text, id string) []int {
	if id == "" {
		return nil
	}
	var out []int
	i := 0
	for i < len(text) {
		if !isWordByte(text[i]) {
			i++
			continue
		}
		start := i
		for i < len(text) && isWordByte(text[i]) {
			i++
		}
		if text[start:i] == id {
			out = append(out, start)
		}
	}
	return out
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
		if counts[s] < 0 {
			return false
		}
	}
	return true
}
