// Package selector parses and evaluates recipe selector expressions such as
// "linux and not aarch64" against a namespace of boolean flags.
package selector

import (
	"fmt"
	"unicode"
)

// Namespace maps selector names to their truth value. A Namespace is owned
// by its caller; nothing in this package keeps a reference to one after a
// call returns.
type Namespace map[string]bool

// Operators are the reserved words of the selector grammar.
var Operators = []string{"and", "or", "not"}

// SyntaxError reports a malformed selector expression.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("selector %q: %s at offset %d", e.Expr, e.Msg, e.Pos)
}

// UndefinedError reports a selector name missing from the namespace.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("selector '%s' is not defined", e.Name)
}

// Expr is a parsed selector expression.
type Expr struct {
	src  string
	root expr
}

type expr interface {
	eval(lookup func(string) (bool, error)) (bool, error)
	idents(out []string) []string
}

type identExpr struct{ name string }

type litExpr struct{ value bool }

type notExpr struct{ x expr }

type binaryExpr struct {
	op   string // "and" or "or"
	l, r expr
}

func (e identExpr) eval(lookup func(string) (bool, error)) (bool, error) {
	return lookup(e.name)
}

func (e identExpr) idents(out []string) []string { return append(out, e.name) }

func (e litExpr) eval(func(string) (bool, error)) (bool, error) { return e.value, nil }

func (e litExpr) idents(out []string) []string { return out }

func (e notExpr) eval(lookup func(string) (bool, error)) (bool, error) {
	v, err := e.x.eval(lookup)
	return !v, err
}

func (e notExpr) idents(out []string) []string { return e.x.idents(out) }

func (e binaryExpr) eval(lookup func(string) (bool, error)) (bool, error) {
	l, err := e.l.eval(lookup)
	if err != nil {
		return false, err
	}
	// Operands short-circuit left to right.
	if e.op == "and" && !l {
		return false, nil
	}
	if e.op == "or" && l {
		return true, nil
	}
	return e.r.eval(lookup)
}

func (e binaryExpr) idents(out []string) []string {
	return e.r.idents(e.l.idents(out))
}

// String returns the expression source.
func (e *Expr) String() string { return e.src }

// Identifiers returns every selector name referenced by the expression,
// in source order, including names behind short-circuited operands.
func (e *Expr) Identifiers() []string {
	return e.root.idents(nil)
}

// Eval evaluates the expression against ns. Undeclared names fail with
// *UndefinedError.
func (e *Expr) Eval(ns Namespace) (bool, error) {
	return e.root.eval(func(name string) (bool, error) {
		v, ok := ns[name]
		if !ok {
			return false, &UndefinedError{Name: name}
		}
		return v, nil
	})
}

// EvalDefault evaluates the expression, treating undeclared names as def.
func (e *Expr) EvalDefault(ns Namespace, def bool) bool {
	v, _ := e.root.eval(func(name string) (bool, error) {
		if v, ok := ns[name]; ok {
			return v, nil
		}
		return def, nil
	})
	return v
}

// Parse parses a selector expression.
func Parse(src string) (*Expr, error) {
	toks := lex(src)
	p := &parser{src: src, toks: toks}
	if len(toks) == 0 {
		return nil, &SyntaxError{Expr: src, Pos: 0, Msg: "empty expression"}
	}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		t := p.toks[p.pos]
		return nil, &SyntaxError{Expr: src, Pos: t.pos, Msg: fmt.Sprintf("unexpected '%s'", t.text)}
	}
	return &Expr{src: src, root: root}, nil
}

// Eval parses src and evaluates it against ns.
func Eval(src string, ns Namespace) (bool, error) {
	e, err := Parse(src)
	if err != nil {
		return false, err
	}
	return e.Eval(ns)
}

// Seed inserts every name referenced by src that is missing from ns,
// bound to true. Operators and literals are never inserted.
func Seed(src string, ns Namespace) error {
	e, err := Parse(src)
	if err != nil {
		return err
	}
	for _, name := range e.Identifiers() {
		if _, ok := ns[name]; !ok {
			ns[name] = true
		}
	}
	return nil
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(src string) []token {
	var toks []token
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			start := i
			for i < len(runes) && !unicode.IsSpace(runes[i]) && runes[i] != '(' && runes[i] != ')' {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:i]), pos: start})
		}
	}
	return toks
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) peekWord(word string) bool {
	return p.pos < len(p.toks) && p.toks[p.pos].kind == tokIdent && p.toks[p.pos].text == word
}

func (p *parser) errorf(format string, args ...any) error {
	pos := len(p.src)
	if p.pos < len(p.toks) {
		pos = p.toks[p.pos].pos
	}
	return &SyntaxError{Expr: p.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseOr() (expr, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peekWord("or") {
		p.pos++
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l = binaryExpr{op: "or", l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseAnd() (expr, error) {
	l, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peekWord("and") {
		p.pos++
		r, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		l = binaryExpr{op: "and", l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseNot() (expr, error) {
	if p.peekWord("not") {
		p.pos++
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return notExpr{x: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (expr, error) {
	if p.pos >= len(p.toks) {
		return nil, p.errorf("unexpected end of expression")
	}
	t := p.toks[p.pos]
	switch t.kind {
	case tokLParen:
		p.pos++
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokRParen {
			return nil, p.errorf("missing ')'")
		}
		p.pos++
		return x, nil
	case tokRParen:
		return nil, p.errorf("unexpected ')'")
	}

	if isOperator(t.text) {
		return nil, p.errorf("unexpected operator '%s'", t.text)
	}
	p.pos++
	switch t.text {
	case "true", "True":
		return litExpr{value: true}, nil
	case "false", "False":
		return litExpr{value: false}, nil
	}
	return identExpr{name: t.text}, nil
}

func isOperator(word string) bool {
	for _, op := range Operators {
		if word == op {
			return true
		}
	}
	return false
}
