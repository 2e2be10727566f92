// Package source extracts source records from recipes and renders them
// across build variants.
package source

import (
	"github.com/bianoble/recipe-compat/internal/conditional"
	"github.com/bianoble/recipe-compat/internal/node"
)

// All returns every source record of tree without evaluating selectors:
// the top-level sources, then cache.source, then the sources of each
// output in declaration order. Both branches of a conditional are kept.
func All(tree node.Node) ([]node.Node, error) {
	var out []node.Node

	visit := func(path ...string) error {
		n, ok := node.Lookup(tree, path...)
		if !ok || isNull(n) {
			return nil
		}
		items, err := conditional.Visit(n, nil)
		if err != nil {
			return err
		}
		out = append(out, items...)
		return nil
	}

	if err := visit("source"); err != nil {
		return nil, err
	}
	if err := visit("cache", "source"); err != nil {
		return nil, err
	}

	outputs, ok := node.Lookup(tree, "outputs")
	if !ok || isNull(outputs) {
		return out, nil
	}
	items, err := conditional.Visit(outputs, nil)
	if err != nil {
		return nil, err
	}
	for _, output := range items {
		n, ok := node.Lookup(output, "source")
		if !ok || isNull(n) {
			continue
		}
		srcs, err := conditional.Visit(n, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, srcs...)
	}
	return out, nil
}

// URLs returns the first url of every record from All that declares one.
// Only the first mirror of a list-valued url is returned.
func URLs(tree node.Node) ([]string, error) {
	records, err := All(tree)
	if err != nil {
		return nil, err
	}
	var urls []string
	for _, r := range records {
		if u, ok := firstURL(r); ok {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

func firstURL(record node.Node) (string, bool) {
	m, ok := record.(*node.Mapping)
	if !ok {
		return "", false
	}
	u, ok := m.Get("url")
	if !ok {
		return "", false
	}
	if seq, isSeq := u.(node.Sequence); isSeq {
		if len(seq) == 0 {
			return "", false
		}
		u = seq[0]
	}
	return node.AsString(u)
}

func isNull(n node.Node) bool {
	s, ok := n.(node.Scalar)
	return ok && s.IsNull()
}
