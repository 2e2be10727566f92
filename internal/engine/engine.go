// Package engine runs the recipe operations behind the CLI and the
// library: loading, extraction, rendering and lockfile checks.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/bianoble/recipe-compat/internal/conditional"
	"github.com/bianoble/recipe-compat/internal/config"
	"github.com/bianoble/recipe-compat/internal/node"
	"github.com/bianoble/recipe-compat/internal/recipe"
	"github.com/bianoble/recipe-compat/internal/selector"
	"github.com/bianoble/recipe-compat/internal/source"
	"github.com/bianoble/recipe-compat/internal/variant"
)

// Engine carries the settings shared by every operation.
type Engine struct {
	Config *config.Config
	Logger *slog.Logger
}

// New returns an engine for cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, log *slog.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{Config: cfg, Logger: log}
}

// Load resolves the recipe at path against the configured namespace
// overlaid with extra. Each call works on a fresh namespace.
func (e *Engine) Load(path string, extra selector.Namespace) (*LoadResult, error) {
	ns := e.Config.Namespace()
	for k, v := range extra {
		ns[k] = v
	}

	tree, err := recipe.ParseConfigFile(path, recipe.LoadOptions{
		Namespace:            ns,
		AllowMissingSelector: e.Config.AllowMissing(),
		Logger:               e.Logger,
	})
	if err != nil {
		return nil, err
	}
	e.Logger.Debug("loaded recipe", "path", path, "selectors", len(ns))
	return &LoadResult{Tree: tree, Namespace: ns}, nil
}

// Requirements loads the recipe and returns its requirement sections.
func (e *Engine) Requirements(path string, extra selector.Namespace) ([]RequirementSection, error) {
	res, err := e.Load(path, extra)
	if err != nil {
		return nil, err
	}
	return recipe.Requirements(res.Tree, conditional.NamespacePredicate(res.Namespace))
}

// Tests loads the recipe and returns its test definitions.
func (e *Engine) Tests(path string, extra selector.Namespace) ([]node.Node, error) {
	res, err := e.Load(path, extra)
	if err != nil {
		return nil, err
	}
	return recipe.Tests(res.Tree, conditional.NamespacePredicate(res.Namespace))
}

// Sources returns every source record of the recipe at path. Selectors are
// not evaluated, so both branches of each conditional are included.
func (e *Engine) Sources(path string) ([]node.Node, error) {
	tree, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	return source.All(tree)
}

// URLs returns the first url of every source record of the recipe at path.
func (e *Engine) URLs(path string) ([]string, error) {
	tree, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	return source.URLs(tree)
}

// Combinations expands the given variant files, or the configured ones
// when files is empty.
func (e *Engine) Combinations(files []string) ([]Combination, error) {
	docs, _, err := e.variantDocs(files)
	if err != nil {
		return nil, err
	}
	return variant.CombinationsAll(docs)
}

func readRaw(path string) (node.Node, error) {
	tree, err := node.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe %s: %w", path, err)
	}
	return tree, nil
}

// variantDocs loads the variant documents to render with. Without any
// variant file a single empty document is used, so the recipe still
// renders once.
func (e *Engine) variantDocs(files []string) ([]node.Node, []string, error) {
	if len(files) == 0 {
		var err error
		files, err = e.Config.VariantFiles()
		if err != nil {
			return nil, nil, err
		}
	}
	if len(files) == 0 {
		e.Logger.Debug("no variant files, rendering a single empty combination")
		return []node.Node{node.NewMapping()}, nil, nil
	}
	docs, err := variant.LoadFiles(files)
	if err != nil {
		return nil, nil, err
	}
	return docs, files, nil
}
