// Package recipe loads recipe configuration files, resolving their
// if/then/else entries against a selector namespace.
package recipe

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/bianoble/recipe-compat/internal/conditional"
	"github.com/bianoble/recipe-compat/internal/node"
	"github.com/bianoble/recipe-compat/internal/selector"
)

// LoadOptions controls how conditional entries are resolved.
type LoadOptions struct {
	// Namespace holds the selector values. With AllowMissingSelector set,
	// names discovered during the load are added to this map as true and
	// stay there after the call returns. Nil means an empty namespace owned
	// by the call.
	Namespace selector.Namespace

	// AllowMissingSelector treats selector names missing from Namespace as
	// true instead of failing.
	AllowMissingSelector bool

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// ParseConfigFile reads a recipe file and returns its resolved, normalized
// tree.
func ParseConfigFile(path string, opts LoadOptions) (node.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe %s: %w", path, err)
	}
	tree, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("loading recipe %s: %w", path, err)
	}
	return tree, nil
}

// Parse resolves and normalizes recipe YAML held in memory.
func Parse(data []byte, opts LoadOptions) (node.Node, error) {
	raw, err := node.Parse(data)
	if err != nil {
		return nil, err
	}
	resolved, err := newLoader(opts).construct(raw, "")
	if err != nil {
		return nil, err
	}
	return Normalize(resolved), nil
}

// Resolve resolves every conditional entry in an already parsed tree
// without normalizing it.
func Resolve(n node.Node, opts LoadOptions) (node.Node, error) {
	return newLoader(opts).construct(n, "")
}

// ResolveSequence resolves the conditional entries of a single list. It
// fails with *StructuralError if n is not a sequence.
func ResolveSequence(n node.Node, opts LoadOptions) (node.Sequence, error) {
	seq, ok := n.(node.Sequence)
	if !ok {
		return nil, &StructuralError{Msg: fmt.Sprintf("expected a sequence, found %s", kindOf(n))}
	}
	return newLoader(opts).constructSequence(seq, "")
}

// loader carries the state of one load call.
type loader struct {
	ns      selector.Namespace
	lenient bool
	log     *slog.Logger
}

func newLoader(opts LoadOptions) *loader {
	ns := opts.Namespace
	if ns == nil {
		ns = selector.Namespace{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &loader{ns: ns, lenient: opts.AllowMissingSelector, log: log}
}

func (l *loader) construct(n node.Node, path string) (node.Node, error) {
	switch v := n.(type) {
	case *node.Mapping:
		out := node.NewMapping()
		out.Line = v.Line
		for _, e := range v.Entries() {
			child, err := l.construct(e.Value, joinKey(path, e.Key))
			if err != nil {
				return nil, err
			}
			out.Set(e.Key, child)
		}
		return out, nil
	case node.Sequence:
		return l.constructSequence(v, path)
	default:
		return n, nil
	}
}

func (l *loader) constructSequence(seq node.Sequence, path string) (node.Sequence, error) {
	out := make(node.Sequence, 0, len(seq))
	for i, item := range seq {
		itemPath := joinIndex(path, i)
		if m, ok := item.(*node.Mapping); ok {
			chosen, isCond, err := l.resolve(m, itemPath)
			if err != nil {
				return nil, err
			}
			if isCond {
				if chosen == nil {
					continue
				}
				item = chosen
			}
		}
		child, err := l.construct(item, itemPath)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// resolve evaluates a conditional mapping. It returns the chosen branch, or
// nil when the entry should be dropped, and whether m was conditional at
// all.
func (l *loader) resolve(m *node.Mapping, path string) (node.Node, bool, error) {
	entries := m.Entries()
	for idx, e := range entries {
		if e.Key != "if" {
			continue
		}
		if idx+1 >= len(entries) || entries[idx+1].Key != "then" {
			return nil, true, &StructuralError{Path: path, Line: m.Line, Msg: "cannot have 'if' without 'then' directly after it"}
		}
		then := entries[idx+1].Value

		var otherwise node.Node
		if idx+2 < len(entries) {
			next := entries[idx+2]
			if next.Key != "else" {
				return nil, true, &StructuralError{Path: path, Line: m.Line, Msg: fmt.Sprintf("unexpected key '%s' after 'then', only 'else' may follow", next.Key)}
			}
			otherwise = next.Value
		}

		expr := conditional.ExprString(e.Value)
		if l.lenient {
			if err := selector.Seed(expr, l.ns); err != nil {
				return nil, true, &SelectorError{Path: path, Expr: expr, Err: err}
			}
		}
		ok, err := selector.Eval(expr, l.ns)
		if err != nil {
			return nil, true, &SelectorError{Path: path, Expr: expr, Err: err}
		}
		l.log.Debug("resolved conditional", "path", path, "if", expr, "result", ok)

		var chosen node.Node
		if ok {
			chosen = then
		} else {
			chosen = otherwise
		}
		if !node.Truthy(chosen) {
			return nil, true, nil
		}
		return chosen, true, nil
	}
	return nil, false, nil
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func joinIndex(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func kindOf(n node.Node) string {
	switch n.(type) {
	case node.Scalar:
		return "a scalar"
	case *node.Mapping:
		return "a mapping"
	case node.Sequence:
		return "a sequence"
	default:
		return "nothing"
	}
}
