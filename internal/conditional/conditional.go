// Package conditional resolves if/then/else entries in recipe lists.
//
// A conditional entry is a mapping inside a sequence:
//
//	- if: linux
//	  then: https://example.com/linux.tar.gz
//	  else: https://example.com/other.tar.gz
//
// Visit replaces each such entry with the elements of the chosen branch.
package conditional

import (
	"fmt"

	"github.com/bianoble/recipe-compat/internal/node"
	"github.com/bianoble/recipe-compat/internal/selector"
)

// Predicate decides whether the expression of an "if" key holds.
type Predicate func(expr string) (bool, error)

// NamespacePredicate evaluates expressions with the selector grammar against
// ns. Undeclared names are errors.
func NamespacePredicate(ns selector.Namespace) Predicate {
	return func(expr string) (bool, error) {
		return selector.Eval(expr, ns)
	}
}

// Conditional is a decoded if/then/else entry.
type Conditional struct {
	If   string
	Then node.Node
	Else node.Node // nil when absent
}

// AsConditional reports whether n is a conditional entry. Only the presence
// of an "if" key is checked here; key order is the loader's concern.
func AsConditional(n node.Node) (Conditional, bool) {
	m, ok := n.(*node.Mapping)
	if !ok {
		return Conditional{}, false
	}
	cond, ok := m.Get("if")
	if !ok {
		return Conditional{}, false
	}
	c := Conditional{If: ExprString(cond)}
	c.Then, _ = m.Get("then")
	c.Else, _ = m.Get("else")
	return c, true
}

// ExprString renders the value of an "if" key as expression text.
func ExprString(n node.Node) string {
	if s, ok := n.(node.Scalar); ok {
		if b, isBool := s.Value.(bool); isBool {
			if b {
				return "true"
			}
			return "false"
		}
		return s.String()
	}
	return fmt.Sprint(node.ToAny(n))
}

// Visit resolves the conditional entries of n and returns the resulting
// elements in order. A non-sequence n is treated as a one-element sequence.
//
// With a nil predicate every branch is kept: the then branch followed by
// the else branch. Branches that are sequences are flattened one level.
func Visit(n node.Node, pred Predicate) ([]node.Node, error) {
	if n == nil {
		return nil, nil
	}
	items, ok := n.(node.Sequence)
	if !ok {
		items = node.Sequence{n}
	}

	out := make([]node.Node, 0, len(items))
	for _, item := range items {
		c, isCond := AsConditional(item)
		if !isCond {
			out = append(out, item)
			continue
		}

		if pred == nil {
			out = appendBranch(out, c.Then)
			if node.Truthy(c.Else) {
				out = appendBranch(out, c.Else)
			}
			continue
		}

		ok, err := pred(c.If)
		if err != nil {
			return nil, fmt.Errorf("evaluating 'if: %s': %w", c.If, err)
		}
		switch {
		case ok:
			out = appendBranch(out, c.Then)
		case node.Truthy(c.Else):
			out = appendBranch(out, c.Else)
		}
	}
	return out, nil
}

func appendBranch(out []node.Node, branch node.Node) []node.Node {
	if branch == nil {
		return out
	}
	if seq, ok := branch.(node.Sequence); ok {
		return append(out, seq...)
	}
	return append(out, branch)
}
