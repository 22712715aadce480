package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gitrdm/goprolog/pkg/prolog"
)

// This is a minimal, line-oriented term reader for the CLI — not a
// general Prolog parser (the engine core deliberately excludes one, see
// pkg/prolog's package doc). It understands atoms, variables, integers,
// compound terms, lists, and the infix operators `:-`, `-->`, `,`, `;`,
// `->`, `=`, `^` at a single fixed precedence band sufficient for the
// example programs this binary is meant to run.
type termParser struct {
	src  []rune
	pos  int
	vars map[string]*prolog.Variable
}

func newTermParser(line string) *termParser {
	return &termParser{src: []rune(line), vars: make(map[string]*prolog.Variable)}
}

// ParseClauseText parses one `Head.` or `Head :- Body.` or `Head --> Body.`
// line into a term suitable for Engine.AssertClause.
func ParseClauseText(line string) (prolog.Term, error) {
	p := newTermParser(line)
	t, err := p.parseTerm(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '.' {
		p.pos++
	}
	return t, nil
}

// ParseQueryText parses a bare goal line (no trailing `.` required) and
// also returns the named variables it mentions, in first-occurrence
// order, for reporting solutions.
func ParseQueryText(line string) (prolog.Term, []*prolog.Variable, error) {
	p := newTermParser(line)
	t, err := p.parseTerm(0)
	if err != nil {
		return nil, nil, err
	}
	order := make([]*prolog.Variable, 0, len(p.vars))
	seen := make(map[string]bool)
	var walk func(prolog.Term)
	walk = func(term prolog.Term) {
		switch v := term.(type) {
		case *prolog.Variable:
			if v.Name != "" && !seen[v.Name] {
				seen[v.Name] = true
				order = append(order, v)
			}
		case *prolog.Compound:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	walk(t)
	return t, order, nil
}

const opPrecedence = 1200

func (p *termParser) parseTerm(minPrec int) (prolog.Term, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op, prec, ok := p.peekInfixOp()
		if !ok || prec < minPrec {
			return left, nil
		}
		p.pos += len(op)
		right, err := p.parseTerm(prec)
		if err != nil {
			return nil, err
		}
		left = prolog.NewCompound(op, left, right)
	}
}

var infixOps = []struct {
	text string
	prec int
}{
	{":-", 1200},
	{"-->", 1200},
	{";", 1100},
	{"->", 1050},
	{",", 1000},
	{"\\==", 700},
	{"==", 700},
	{"\\=", 700},
	{"=..", 700},
	{"@=<", 700},
	{"@>=", 700},
	{"@<", 700},
	{"@>", 700},
	{"=", 700},
	{"^", 200},
}

func (p *termParser) peekInfixOp() (string, int, bool) {
	rest := string(p.src[p.pos:])
	for _, op := range infixOps {
		if strings.HasPrefix(rest, op.text) {
			return op.text, op.prec, true
		}
	}
	return "", 0, false
}

func (p *termParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *termParser) parsePrimary() (prolog.Term, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("unexpected end of input")
	}

	ch := p.src[p.pos]

	switch {
	case ch == '(':
		p.pos++
		t, err := p.parseTerm(0)
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return nil, fmt.Errorf("expected ')'")
		}
		p.pos++
		return t, nil
	case ch == '[':
		return p.parseList()
	case ch == '{':
		p.pos++
		inner, err := p.parseTerm(0)
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == '}' {
			p.pos++
		}
		return prolog.NewCompound("{}", inner), nil
	case ch == '!':
		p.pos++
		return prolog.AtomCut, nil
	case ch == '\\' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '+':
		p.pos += 2
		inner, err := p.parseTerm(opPrecedence)
		if err != nil {
			return nil, err
		}
		return prolog.NewCompound("\\+", inner), nil
	case unicode.IsDigit(ch):
		return p.parseNumber()
	case ch == '_' || unicode.IsUpper(ch):
		return p.parseVariable()
	case ch == '\'':
		return p.parseQuotedAtom()
	case unicode.IsLower(ch):
		return p.parseAtomOrCompound()
	}
	return nil, fmt.Errorf("unexpected character %q at position %d", ch, p.pos)
}

func (p *termParser) parseNumber() (prolog.Term, error) {
	start := p.pos
	for p.pos < len(p.src) && unicode.IsDigit(p.src[p.pos]) {
		p.pos++
	}
	isFloat := false
	if p.pos+1 < len(p.src) && p.src[p.pos] == '.' && unicode.IsDigit(p.src[p.pos+1]) {
		isFloat = true
		p.pos++
		for p.pos < len(p.src) && unicode.IsDigit(p.src[p.pos]) {
			p.pos++
		}
	}
	text := string(p.src[start:p.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}
		return prolog.NewFloat(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, err
	}
	return prolog.NewInt(n), nil
}

func (p *termParser) parseVariable() (prolog.Term, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentRune(p.src[p.pos]) {
		p.pos++
	}
	name := string(p.src[start:p.pos])
	if name == "_" {
		return prolog.NewVariable(""), nil
	}
	if v, ok := p.vars[name]; ok {
		return v, nil
	}
	v := prolog.NewVariable(name)
	p.vars[name] = v
	return v, nil
}

func (p *termParser) parseQuotedAtom() (prolog.Term, error) {
	p.pos++ // opening quote
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '\'' {
		p.pos++
	}
	name := string(p.src[start:p.pos])
	if p.pos < len(p.src) {
		p.pos++ // closing quote
	}
	return p.maybeCompound(name)
}

func (p *termParser) parseAtomOrCompound() (prolog.Term, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentRune(p.src[p.pos]) {
		p.pos++
	}
	name := string(p.src[start:p.pos])
	return p.maybeCompound(name)
}

func (p *termParser) maybeCompound(name string) (prolog.Term, error) {
	if p.pos < len(p.src) && p.src[p.pos] == '(' {
		p.pos++
		var args []prolog.Term
		for {
			p.skipSpace()
			if p.pos < len(p.src) && p.src[p.pos] == ')' {
				p.pos++
				break
			}
			arg, err := p.parseTerm(999)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			p.skipSpace()
			if p.pos < len(p.src) && p.src[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.pos < len(p.src) && p.src[p.pos] == ')' {
				p.pos++
			}
			break
		}
		return prolog.NewCompound(name, args...), nil
	}
	return prolog.Intern(name), nil
}

func (p *termParser) parseList() (prolog.Term, error) {
	p.pos++ // '['
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ']' {
		p.pos++
		return prolog.AtomEmptyList, nil
	}

	var elems []prolog.Term
	tail := prolog.Term(prolog.AtomEmptyList)
	for {
		el, err := p.parseTerm(999)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.pos < len(p.src) && p.src[p.pos] == '|' {
			p.pos++
			t, err := p.parseTerm(999)
			if err != nil {
				return nil, err
			}
			tail = t
			p.skipSpace()
		}
		break
	}
	if p.pos < len(p.src) && p.src[p.pos] == ']' {
		p.pos++
	}

	list := tail
	for i := len(elems) - 1; i >= 0; i-- {
		list = prolog.Cons(elems[i], list)
	}
	return list, nil
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
