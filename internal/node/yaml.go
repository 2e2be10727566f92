package node

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Parse decodes a single YAML document into a Node. An empty document
// yields an empty mapping.
func Parse(data []byte) (Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewMapping(), nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return FromYAML(&doc)
}

// ParseFile reads and decodes a YAML file.
func ParseFile(path string) (Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	n, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// FromYAML converts a yaml.v3 node tree. Only the core scalar tags are
// resolved; any other tag is kept as a plain string.
func FromYAML(y *yaml.Node) (Node, error) {
	return fromYAML(y, 0)
}

const maxAliasDepth = 64

func fromYAML(y *yaml.Node, depth int) (Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return NewMapping(), nil
		}
		return fromYAML(y.Content[0], depth)
	case yaml.AliasNode:
		if depth >= maxAliasDepth || y.Alias == nil {
			return nil, fmt.Errorf("line %d: alias nesting too deep", y.Line)
		}
		return fromYAML(y.Alias, depth+1)
	case yaml.SequenceNode:
		seq := make(Sequence, 0, len(y.Content))
		for _, c := range y.Content {
			item, err := fromYAML(c, depth)
			if err != nil {
				return nil, err
			}
			seq = append(seq, item)
		}
		return seq, nil
	case yaml.MappingNode:
		m := NewMapping()
		m.Line = y.Line
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind == yaml.AliasNode && k.Alias != nil {
				k = k.Alias
			}
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			val, err := fromYAML(v, depth)
			if err != nil {
				return nil, err
			}
			m.Set(k.Value, val)
		}
		return m, nil
	case yaml.ScalarNode:
		return scalarFromYAML(y), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", y.Line, y.Kind)
	}
}

func scalarFromYAML(y *yaml.Node) Scalar {
	s := Scalar{Value: y.Value, Text: y.Value}
	switch y.ShortTag() {
	case "!!null":
		s.Value = nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err == nil {
			s.Value = b
		}
	case "!!int":
		var i int
		if err := y.Decode(&i); err == nil {
			s.Value = i
		}
	case "!!float":
		var f float64
		if err := y.Decode(&f); err == nil {
			s.Value = f
		}
	}
	return s
}

// ToAny converts n into plain Go values: map[string]any, []any and scalar
// values.
func ToAny(n Node) any {
	switch v := n.(type) {
	case Scalar:
		return v.Value
	case Sequence:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = ToAny(item)
		}
		return out
	case *Mapping:
		out := make(map[string]any, v.Len())
		for _, e := range v.Entries() {
			out[e.Key] = ToAny(e.Value)
		}
		return out
	default:
		return nil
	}
}

// From builds a Node from plain Go values. Nodes pass through unchanged.
func From(v any) Node {
	switch x := v.(type) {
	case Node:
		return x
	case nil:
		return Null()
	case string:
		return Str(x)
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case float64:
		return Scalar{Value: x, Text: strconv.FormatFloat(x, 'f', -1, 64)}
	case []string:
		seq := make(Sequence, len(x))
		for i, s := range x {
			seq[i] = Str(s)
		}
		return seq
	case []any:
		seq := make(Sequence, len(x))
		for i, item := range x {
			seq[i] = From(item)
		}
		return seq
	default:
		return Scalar{Value: x, Text: fmt.Sprint(x)}
	}
}

// ToYAML converts n into a yaml.v3 node, preserving mapping key order.
func ToYAML(n Node) *yaml.Node {
	switch v := n.(type) {
	case Scalar:
		return scalarToYAML(v)
	case Sequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v {
			out.Content = append(out.Content, ToYAML(item))
		}
		return out
	case *Mapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.Entries() {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				ToYAML(e.Value))
		}
		return out
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func scalarToYAML(s Scalar) *yaml.Node {
	switch x := s.Value.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(x)}
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s.String()}
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s.String()}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.String()}
	}
}

// Marshal encodes n as YAML text with two-space indentation.
func Marshal(n Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ToYAML(n)); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}
