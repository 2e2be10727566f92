// Package variant expands build variant documents into concrete
// combinations and evaluates selectors against them.
package variant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bianoble/recipe-compat/internal/node"
)

// ZipKeysField names the list of key groups that vary together.
const ZipKeysField = "zip_keys"

// TargetPlatformKey is the combination key holding the conda subdir.
const TargetPlatformKey = "target_platform"

// Combination is one concrete assignment of values to variant keys.
type Combination map[string]string

// Keys returns the combination keys in sorted order.
func (c Combination) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String formats the combination as sorted key=value pairs.
func (c Combination) String() string {
	parts := make([]string, 0, len(c))
	for _, k := range c.Keys() {
		parts = append(parts, k+"="+c[k])
	}
	return strings.Join(parts, " ")
}

// Error reports a malformed variant document.
type Error struct {
	Key string
	Msg string
}

func (e *Error) Error() string {
	if e.Key == "" {
		return "variant: " + e.Msg
	}
	return fmt.Sprintf("variant key %q: %s", e.Key, e.Msg)
}

// axis is one dimension of the product: a single key, or a zipped group
// whose rows are aligned tuples.
type axis struct {
	keys []string
	rows [][]string
}

// Combinations expands doc into every combination. Keys outside zip_keys
// form a cartesian product in document order, the first key varying
// slowest; each zip_keys group then contributes its aligned tuples as one
// more axis. Scalars count as one-value lists and mapping values are not
// axes. A nil or empty document yields a single empty combination.
func Combinations(doc node.Node) ([]Combination, error) {
	if doc == nil {
		return []Combination{{}}, nil
	}
	m, ok := doc.(*node.Mapping)
	if !ok {
		if s, isScalar := doc.(node.Scalar); isScalar && s.IsNull() {
			return []Combination{{}}, nil
		}
		return nil, &Error{Msg: "document must be a mapping"}
	}

	groups, err := zipGroups(m)
	if err != nil {
		return nil, err
	}
	zipped := make(map[string]bool)
	for _, g := range groups {
		for _, k := range g {
			zipped[k] = true
		}
	}

	var axes []axis
	for _, e := range m.Entries() {
		if e.Key == ZipKeysField || zipped[e.Key] {
			continue
		}
		if _, isMap := e.Value.(*node.Mapping); isMap {
			continue
		}
		values, err := values(e.Key, e.Value)
		if err != nil {
			return nil, err
		}
		rows := make([][]string, len(values))
		for i, v := range values {
			rows[i] = []string{v}
		}
		axes = append(axes, axis{keys: []string{e.Key}, rows: rows})
	}

	for _, g := range groups {
		a, err := zipAxis(m, g)
		if err != nil {
			return nil, err
		}
		axes = append(axes, a)
	}

	return product(axes), nil
}

func zipGroups(m *node.Mapping) ([][]string, error) {
	raw, ok := m.Get(ZipKeysField)
	if !ok || !node.Truthy(raw) {
		return nil, nil
	}
	seq, ok := raw.(node.Sequence)
	if !ok {
		return nil, &Error{Key: ZipKeysField, Msg: "must be a list of key groups"}
	}

	// A flat list of names is a single group.
	if _, flat := seq[0].(node.Scalar); flat {
		seq = node.Sequence{seq}
	}

	seen := make(map[string]bool)
	groups := make([][]string, 0, len(seq))
	for _, item := range seq {
		inner, ok := item.(node.Sequence)
		if !ok {
			return nil, &Error{Key: ZipKeysField, Msg: "must be a list of key groups"}
		}
		group := make([]string, 0, len(inner))
		for _, k := range inner {
			name, ok := node.AsString(k)
			if !ok {
				return nil, &Error{Key: ZipKeysField, Msg: "key names must be strings"}
			}
			if seen[name] {
				return nil, &Error{Key: name, Msg: "appears in more than one zip_keys group"}
			}
			seen[name] = true
			group = append(group, name)
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

func zipAxis(m *node.Mapping, group []string) (axis, error) {
	columns := make([][]string, len(group))
	for i, key := range group {
		v, ok := m.Get(key)
		if !ok {
			return axis{}, &Error{Key: key, Msg: "listed in zip_keys but not defined"}
		}
		vals, err := values(key, v)
		if err != nil {
			return axis{}, err
		}
		if i > 0 && len(vals) != len(columns[0]) {
			return axis{}, &Error{Key: key, Msg: fmt.Sprintf("has %d values, zipped key %q has %d", len(vals), group[0], len(columns[0]))}
		}
		columns[i] = vals
	}

	rows := make([][]string, len(columns[0]))
	for r := range rows {
		row := make([]string, len(group))
		for c := range group {
			row[c] = columns[c][r]
		}
		rows[r] = row
	}
	return axis{keys: group, rows: rows}, nil
}

func values(key string, n node.Node) ([]string, error) {
	switch v := n.(type) {
	case node.Scalar:
		return []string{scalarText(v)}, nil
	case node.Sequence:
		if len(v) == 0 {
			return nil, &Error{Key: key, Msg: "has no values"}
		}
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(node.Scalar)
			if !ok {
				return nil, &Error{Key: key, Msg: "values must be scalars"}
			}
			out[i] = scalarText(s)
		}
		return out, nil
	default:
		return nil, &Error{Key: key, Msg: "unsupported value"}
	}
}

func scalarText(s node.Scalar) string {
	if s.IsNull() {
		return ""
	}
	return s.String()
}

func product(axes []axis) []Combination {
	out := []Combination{{}}
	for _, a := range axes {
		next := make([]Combination, 0, len(out)*len(a.rows))
		for _, base := range out {
			for _, row := range a.rows {
				c := make(Combination, len(base)+len(a.keys))
				for k, v := range base {
					c[k] = v
				}
				for i, k := range a.keys {
					c[k] = row[i]
				}
				next = append(next, c)
			}
		}
		out = next
	}
	return out
}
