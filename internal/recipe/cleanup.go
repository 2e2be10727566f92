package recipe

import "github.com/bianoble/recipe-compat/internal/node"

// Normalize flattens nested list values and drops keys whose value is an
// empty list, at every mapping level. The result is a new tree and
// Normalize(Normalize(t)) equals Normalize(t).
func Normalize(n node.Node) node.Node {
	return walk(n, true, true)
}

// RemoveEmptyKeys drops keys whose value is an empty list at every mapping
// level.
func RemoveEmptyKeys(n node.Node) node.Node {
	return walk(n, true, false)
}

// FlattenLists collapses list values whose first element is itself a list,
// repeating until the first element is not a list. Non-list elements are
// kept in place.
func FlattenLists(n node.Node) node.Node {
	return walk(n, false, true)
}

func walk(n node.Node, dropEmpty, flatten bool) node.Node {
	switch v := n.(type) {
	case *node.Mapping:
		out := node.NewMapping()
		out.Line = v.Line
		for _, e := range v.Entries() {
			value := walk(e.Value, dropEmpty, flatten)
			if seq, ok := value.(node.Sequence); ok {
				if flatten {
					seq = flattenSequence(seq)
					value = seq
				}
				if dropEmpty && len(seq) == 0 {
					continue
				}
			}
			out.Set(e.Key, value)
		}
		return out
	case node.Sequence:
		out := make(node.Sequence, len(v))
		for i, item := range v {
			out[i] = walk(item, dropEmpty, flatten)
		}
		return out
	default:
		return n
	}
}

func flattenSequence(seq node.Sequence) node.Sequence {
	for len(seq) > 0 {
		if _, nested := seq[0].(node.Sequence); !nested {
			break
		}
		flat := make(node.Sequence, 0, len(seq))
		for _, item := range seq {
			if inner, ok := item.(node.Sequence); ok {
				flat = append(flat, inner...)
				continue
			}
			flat = append(flat, item)
		}
		seq = flat
	}
	return seq
}
