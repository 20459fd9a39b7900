// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package symbolic

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// NodeKind distinguishes the shapes of a parsed formula.
type NodeKind int

const (
	NodeNumber NodeKind = iota
	NodeIdent
	NodeCall
	NodeUnary
	NodeBinary
)

// Node is a syntax tree for formula text. Text holds the literal, the
// identifier, the called function name, or the operator ("+", "-", "*", "/", "^").
type Node struct {
	Kind NodeKind
	Text string
	Args []*Node
}

// Parse reads a rate-law formula. Both "^" and "**" denote powers and are
// right-associative; unary minus binds looser than a power, so -a^2 is -(a^2).
// Any function name is accepted here; Compile decides which ones it knows.
func Parse(text string) (*Node, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return nil, fmt.Errorf("%w: empty formula", ErrUnparsable)
	}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrUnparsable, t.text, t.pos)
	}
	return n, nil
}

func tokenize(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(s) && isDigit(s[i+1])):
			start := i
			for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
				i++
			}
			if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
				j := i + 1
				if j < len(s) && (s[j] == '+' || s[j] == '-') {
					j++
				}
				if j < len(s) && isDigit(s[j]) {
					i = j
					for i < len(s) && isDigit(s[i]) {
						i++
					}
				}
			}
			toks = append(toks, token{kind: tokNumber, text: normalizeNumber(s[start:i]), pos: start})
		case isIdentStart(c):
			start := i
			for i < len(s) && isIdentPart(s[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: s[start:i], pos: start})
		case c == '*':
			if i+1 < len(s) && s[i+1] == '*' {
				toks = append(toks, token{kind: tokOp, text: "^", pos: i})
				i += 2
				continue
			}
			toks = append(toks, token{kind: tokOp, text: "*", pos: i})
			i++
		case c == '+' || c == '-' || c == '/' || c == '^':
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrUnparsable, c, i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(s)}), nil
}

// normalizeNumber turns ".5" into "0.5" and "5." into "5" so big.Rat accepts it.
func normalizeNumber(lit string) string {
	if strings.HasPrefix(lit, ".") {
		lit = "0" + lit
	}
	mant, exp, hasExp := strings.Cut(lit, "e")
	if !hasExp {
		mant, exp, hasExp = strings.Cut(lit, "E")
	}
	mant = strings.TrimSuffix(mant, ".")
	if hasExp {
		return mant + "e" + exp
	}
	return mant
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

// expr := term (("+" | "-") term)*
func (p *parser) expr() (*Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.next().text
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NodeBinary, Text: op, Args: []*Node{left, right}}
	}
	return left, nil
}

// term := unary (("*" | "/") unary)*
func (p *parser) term() (*Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*", "/") {
		op := p.next().text
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NodeBinary, Text: op, Args: []*Node{left, right}}
	}
	return left, nil
}

// unary := ("-" | "+") unary | power
func (p *parser) unary() (*Node, error) {
	if p.isOp("-", "+") {
		op := p.next().text
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			return x, nil
		}
		return &Node{Kind: NodeUnary, Text: "-", Args: []*Node{x}}, nil
	}
	return p.power()
}

// power := primary ("^" unary)?
func (p *parser) power() (*Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.isOp("^") {
		p.next()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NodeBinary, Text: "^", Args: []*Node{base, exp}}, nil
	}
	return base, nil
}

func (p *parser) primary() (*Node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &Node{Kind: NodeNumber, Text: t.text}, nil
	case tokIdent:
		if p.peek().kind != tokLParen {
			return &Node{Kind: NodeIdent, Text: t.text}, nil
		}
		p.next()
		args, err := p.arguments()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NodeCall, Text: t.text, Args: args}, nil
	case tokLParen:
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRParen {
			return nil, fmt.Errorf("%w: missing ')' for '(' at offset %d", ErrUnparsable, t.pos)
		}
		return n, nil
	case tokEOF:
		return nil, fmt.Errorf("%w: unexpected end of formula", ErrUnparsable)
	default:
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrUnparsable, t.text, t.pos)
	}
}

func (p *parser) arguments() ([]*Node, error) {
	var args []*Node
	if p.peek().kind == tokRParen {
		p.next()
		return args, nil
	}
	for {
		a, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		switch t := p.next(); t.kind {
		case tokComma:
			continue
		case tokRParen:
			return args, nil
		default:
			return nil, fmt.Errorf("%w: expected ',' or ')' at offset %d", ErrUnparsable, t.pos)
		}
	}
}
