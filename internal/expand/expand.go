// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expand inlines function-definition calls in rate-law formulas.
package expand

import (
	"strings"

	"github.com/pdiddy/ratelaw/pkg/types"
)

// MaxRecursion is the number of expansion passes after which Formula stops
// and returns whatever it has, so cyclic definitions cannot loop forever.
const MaxRecursion = 5

// Formula replaces every call to one of defs in formula with the
// definition's body, actual arguments substituted for formal names by
// position. Passes repeat while a call was replaced, up to MaxRecursion
// passes beyond depth. Callers start with depth 0.
//
// Substitution is textual: a formal name is replaced wherever it occurs in
// the body, including inside longer identifiers. A call with fewer actual
// arguments than formals leaves the trailing formals in place.
func Formula(formula string, defs []types.FunctionDefinition, depth int) string {
	if depth > MaxRecursion {
		return formula
	}
	replaced := false
	for _, fd := range defs {
		if fd.ID == "" {
			continue
		}
		out, n := inlineCalls(formula, fd)
		if n > 0 {
			formula = out
			replaced = true
		}
	}
	if !replaced {
		return formula
	}
	return Formula(formula, defs, depth+1)
}

// inlineCalls performs one left-to-right pass for a single definition and
// reports how many calls it replaced. Scanning resumes after each inserted
// body, so a self-referencing body is left for the next pass.
func inlineCalls(formula string, fd types.FunctionDefinition) (string, int) {
	var b strings.Builder
	count := 0
	i := 0
	for {
		j := findCall(formula, fd.ID, i)
		if j < 0 {
			b.WriteString(formula[i:])
			break
		}
		open := j + len(fd.ID)
		end := closingParen(formula, open)
		if end < 0 {
			b.WriteString(formula[i:])
			break
		}
		b.WriteString(formula[i:j])
		b.WriteString(substitute(fd, splitArgs(formula[open+1:end])))
		count++
		i = end + 1
	}
	return b.String(), count
}

// findCall returns the offset of the next "id(" at or after from that is
// not the tail of a longer identifier, or -1.
func findCall(s, id string, from int) int {
	call := id + "("
	for from <= len(s) {
		k := strings.Index(s[from:], call)
		if k < 0 {
			return -1
		}
		at := from + k
		if at == 0 || !isIdentByte(s[at-1]) {
			return at
		}
		from = at + 1
	}
	return -1
}

// closingParen returns the index of the parenthesis closing the one at open.
func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitArgs splits an argument list on commas outside nested parentheses.
func splitArgs(list string) []string {
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	return append(args, strings.TrimSpace(list[start:]))
}

func substitute(fd types.FunctionDefinition, args []string) string {
	body := fd.Body
	for i, formal := range fd.Arguments {
		if i >= len(args) {
			break
		}
		if formal == "" {
			continue
		}
		body = strings.ReplaceAll(body, formal, args[i])
	}
	return body
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
