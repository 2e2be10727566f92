package recipe

import (
	"fmt"

	"github.com/bianoble/recipe-compat/internal/conditional"
	"github.com/bianoble/recipe-compat/internal/node"
)

// RequirementSection is one named requirements list, such as "build" or
// "host", with its conditional entries resolved.
type RequirementSection struct {
	Name    string
	Entries []node.Node
}

// Strings returns the entries that are scalars as text.
func (s RequirementSection) Strings() []string {
	out := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		if str, ok := node.AsString(e); ok {
			out = append(out, str)
		}
	}
	return out
}

// Requirements resolves each section under the top-level "requirements"
// mapping with pred, in declared order. Empty sections are returned with
// no entries.
func Requirements(tree node.Node, pred conditional.Predicate) ([]RequirementSection, error) {
	reqs, ok := node.Lookup(tree, "requirements")
	if !ok {
		return nil, nil
	}
	m, ok := reqs.(*node.Mapping)
	if !ok {
		return nil, nil
	}

	sections := make([]RequirementSection, 0, m.Len())
	for _, e := range m.Entries() {
		section := RequirementSection{Name: e.Key}
		if node.Truthy(e.Value) {
			entries, err := conditional.Visit(e.Value, pred)
			if err != nil {
				return nil, fmt.Errorf("requirements.%s: %w", e.Key, err)
			}
			section.Entries = entries
		}
		sections = append(sections, section)
	}
	return sections, nil
}

// Tests resolves every element of the top-level "tests" list with pred and
// concatenates the results.
func Tests(tree node.Node, pred conditional.Predicate) ([]node.Node, error) {
	tests, ok := node.Lookup(tree, "tests")
	if !ok || !node.Truthy(tests) {
		return nil, nil
	}
	items, ok := tests.(node.Sequence)
	if !ok {
		items = node.Sequence{tests}
	}

	var out []node.Node
	for i, item := range items {
		resolved, err := conditional.Visit(item, pred)
		if err != nil {
			return nil, fmt.Errorf("tests[%d]: %w", i, err)
		}
		out = append(out, resolved...)
	}
	return out, nil
}
