package search

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/listenupapp/listenup-search/internal/errors"
)

// Expression is a parsed UPnP ContentDirectory search criteria expression.
type Expression interface {
	fmt.Stringer
	expression()
}

// Predicate is a single "property operator value" relation.
type Predicate struct {
	Property string
	Operator string
	Value    string
}

func (*Predicate) expression() {}

// String renders the predicate unquoted, the form used in error messages.
func (p *Predicate) String() string {
	return p.Property + " " + p.Operator + " " + p.Value
}

// LogicalOp joins expressions.
type LogicalOp string

const (
	OpAnd LogicalOp = "and"
	OpOr  LogicalOp = "or"
)

// Group joins two or more expressions with one operator.
type Group struct {
	Op    LogicalOp
	Terms []Expression
}

func (*Group) expression() {}

func (g *Group) String() string {
	parts := make([]string, len(g.Terms))
	for i, t := range g.Terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " "+string(g.Op)+" ") + ")"
}

// MatchAll is the "*" criteria.
type MatchAll struct{}

func (MatchAll) expression() {}

func (MatchAll) String() string { return "*" }

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokWord
	tokString
)

type criteriaToken struct {
	kind tokenKind
	text string
	pos  int
}

func lexCriteria(input string) ([]criteriaToken, error) {
	var toks []criteriaToken
	runes := []rune(input)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, criteriaToken{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, criteriaToken{kind: tokRParen, text: ")", pos: i})
			i++
		case r == '"':
			start := i
			var b strings.Builder
			i++
			closed := false
			for i < len(runes) {
				if runes[i] == '\\' && i+1 < len(runes) {
					b.WriteRune(runes[i+1])
					i += 2
					continue
				}
				if runes[i] == '"' {
					closed = true
					i++
					break
				}
				b.WriteRune(runes[i])
				i++
			}
			if !closed {
				return nil, errors.Validationf("unterminated string at %d in search criteria", start)
			}
			toks = append(toks, criteriaToken{kind: tokString, text: b.String(), pos: start})
		default:
			start := i
			for i < len(runes) && !unicode.IsSpace(runes[i]) && runes[i] != '(' && runes[i] != ')' && runes[i] != '"' {
				i++
			}
			toks = append(toks, criteriaToken{kind: tokWord, text: string(runes[start:i]), pos: start})
		}
	}
	return append(toks, criteriaToken{kind: tokEOF, pos: len(runes)}), nil
}

var criteriaOperators = map[string]bool{
	"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"contains": true, "doesNotContain": true, "derivedfrom": true,
	"startsWith": true, "exists": true,
}

type criteriaParser struct {
	toks []criteriaToken
	pos  int
}

// ParseCriteria parses a UPnP search criteria string. "and" binds tighter
// than "or"; parentheses group.
func ParseCriteria(input string) (Expression, error) {
	toks, err := lexCriteria(input)
	if err != nil {
		return nil, err
	}
	p := &criteriaParser{toks: toks}
	if p.peek().kind == tokWord && p.peek().text == "*" {
		p.next()
		if p.peek().kind != tokEOF {
			return nil, p.errorf("unexpected %q after *", p.peek().text)
		}
		return MatchAll{}, nil
	}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.peek().text)
	}
	return expr, nil
}

func (p *criteriaParser) peek() criteriaToken {
	return p.toks[p.pos]
}

func (p *criteriaParser) next() criteriaToken {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *criteriaParser) errorf(format string, args ...any) error {
	return errors.Validationf("search criteria at %d: %s", p.peek().pos, fmt.Sprintf(format, args...))
}

func (p *criteriaParser) parseOr() (Expression, error) {
	return p.parseLogical(OpOr, p.parseAnd)
}

func (p *criteriaParser) parseAnd() (Expression, error) {
	return p.parseLogical(OpAnd, p.parsePrimary)
}

func (p *criteriaParser) parseLogical(op LogicalOp, operand func() (Expression, error)) (Expression, error) {
	first, err := operand()
	if err != nil {
		return nil, err
	}
	terms := []Expression{first}
	for p.peek().kind == tokWord && LogicalOp(p.peek().text) == op {
		p.next()
		term, err := operand()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return &Group{Op: op, Terms: terms}, nil
}

func (p *criteriaParser) parsePrimary() (Expression, error) {
	switch t := p.peek(); t.kind {
	case tokLParen:
		p.next()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, p.errorf("expected )")
		}
		p.next()
		return expr, nil
	case tokWord:
		return p.parsePredicate()
	default:
		return nil, p.errorf("expected property, got %q", t.text)
	}
}

func (p *criteriaParser) parsePredicate() (Expression, error) {
	prop := p.next()
	op := p.peek()
	if op.kind != tokWord || !criteriaOperators[op.text] {
		return nil, p.errorf("expected operator after %s", prop.text)
	}
	p.next()

	val := p.peek()
	switch {
	case val.kind == tokString:
	case op.text == "exists" && val.kind == tokWord && (val.text == "true" || val.text == "false"):
	default:
		return nil, p.errorf("expected value after %s %s", prop.text, op.text)
	}
	p.next()
	return &Predicate{Property: prop.text, Operator: op.text, Value: val.text}, nil
}
