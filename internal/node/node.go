// Package node defines the generic tree every recipe operation works on:
// scalars, ordered sequences and ordered mappings.
package node

import (
	"fmt"
	"strconv"
)

// Node is one of Scalar, Sequence or *Mapping.
type Node interface {
	node()
}

// Scalar is a leaf value. Value holds the decoded Go value (string, bool,
// int, float64 or nil); Text holds the literal text it was decoded from.
type Scalar struct {
	Value any
	Text  string
}

// Sequence is an ordered list of nodes.
type Sequence []Node

// Entry is a single key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Node
}

// Mapping is a string-keyed map that keeps declared key order.
type Mapping struct {
	entries []Entry
	index   map[string]int

	// Line is the 1-based source line of the mapping, 0 if unknown.
	Line int
}

func (Scalar) node()   {}
func (Sequence) node() {}
func (*Mapping) node() {}

// Str returns a string scalar.
func Str(s string) Scalar { return Scalar{Value: s, Text: s} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{Value: b, Text: strconv.FormatBool(b)} }

// Int returns an integer scalar.
func Int(i int) Scalar { return Scalar{Value: i, Text: strconv.Itoa(i)} }

// Null returns a null scalar.
func Null() Scalar { return Scalar{Text: "null"} }

// String returns the scalar's source text, or a formatted value when no
// text was recorded.
func (s Scalar) String() string {
	if s.Text != "" || s.Value == nil {
		return s.Text
	}
	return fmt.Sprint(s.Value)
}

// IsNull reports whether the scalar is a YAML null.
func (s Scalar) IsNull() bool { return s.Value == nil }

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// MappingOf builds a mapping from alternating key/value arguments.
// It panics on malformed input and is meant for literals in code and tests.
func MappingOf(kv ...any) *Mapping {
	if len(kv)%2 != 0 {
		panic("node: MappingOf needs an even number of arguments")
	}
	m := NewMapping()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("node: MappingOf key %v is not a string", kv[i]))
		}
		m.Set(key, From(kv[i+1]))
	}
	return m
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Node, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Set stores value under key. An existing key keeps its position.
func (m *Mapping) Set(key string, value Node) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Entries returns the entries in declared order. The slice must not be
// modified.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}
	return m.entries
}

// Keys returns the keys in declared order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch v := n.(type) {
	case Sequence:
		out := make(Sequence, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	case *Mapping:
		if v == nil {
			return v
		}
		out := NewMapping()
		out.Line = v.Line
		for _, e := range v.entries {
			out.Set(e.Key, Clone(e.Value))
		}
		return out
	default:
		return n
	}
}

// Truthy reports whether n counts as set: null, false, zero, empty strings
// and empty collections do not.
func Truthy(n Node) bool {
	switch v := n.(type) {
	case nil:
		return false
	case Scalar:
		switch x := v.Value.(type) {
		case nil:
			return false
		case bool:
			return x
		case int:
			return x != 0
		case float64:
			return x != 0
		case string:
			return x != ""
		default:
			return true
		}
	case Sequence:
		return len(v) > 0
	case *Mapping:
		return v.Len() > 0
	default:
		return true
	}
}

// Lookup follows a path of mapping keys from n. It returns false as soon as
// a key is missing or an intermediate node is not a mapping.
func Lookup(n Node, path ...string) (Node, bool) {
	cur := n
	for _, key := range path {
		m, ok := cur.(*Mapping)
		if !ok {
			return nil, false
		}
		cur, ok = m.Get(key)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// AsString returns the text of a scalar node.
func AsString(n Node) (string, bool) {
	s, ok := n.(Scalar)
	if !ok || s.IsNull() {
		return "", false
	}
	return s.String(), true
}

// Equal reports whether a and b are the same tree, including mapping key
// order. Scalars compare by decoded value.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case Scalar:
		y, ok := b.(Scalar)
		return ok && x.Value == y.Value
	case Sequence:
		y, ok := b.(Sequence)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		y, ok := b.(*Mapping)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i, e := range x.Entries() {
			f := y.entries[i]
			if e.Key != f.Key || !Equal(e.Value, f.Value) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}
