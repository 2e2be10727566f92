package variant

import (
	"fmt"

	"github.com/bianoble/recipe-compat/internal/node"
)

// LoadFile parses a variant configuration file.
func LoadFile(path string) (node.Node, error) {
	doc, err := node.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading variants %s: %w", path, err)
	}
	return doc, nil
}

// LoadFiles parses each path in order.
func LoadFiles(paths []string) ([]node.Node, error) {
	docs := make([]node.Node, 0, len(paths))
	for _, p := range paths {
		doc, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// CombinationsAll expands every document and concatenates the results.
func CombinationsAll(docs []node.Node) ([]Combination, error) {
	var out []Combination
	for i, doc := range docs {
		combs, err := Combinations(doc)
		if err != nil {
			return nil, fmt.Errorf("variant document %d: %w", i, err)
		}
		out = append(out, combs...)
	}
	return out, nil
}
