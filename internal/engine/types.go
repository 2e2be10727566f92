package engine

import (
	"github.com/bianoble/recipe-compat/internal/lock"
	"github.com/bianoble/recipe-compat/internal/node"
	"github.com/bianoble/recipe-compat/internal/recipe"
	"github.com/bianoble/recipe-compat/internal/selector"
	"github.com/bianoble/recipe-compat/internal/source"
	"github.com/bianoble/recipe-compat/internal/variant"
)

// LoadResult holds a resolved recipe and the namespace it was resolved
// against, including names added by lenient loading.
type LoadResult struct {
	Tree      node.Node
	Namespace selector.Namespace
}

// RenderOptions configures a render.
type RenderOptions struct {
	// VariantFiles overrides the variant files from the config.
	VariantFiles []string

	// OverrideVersion overrides the config value when set.
	OverrideVersion string
}

// RenderResult holds the outcome of a render.
type RenderResult struct {
	Sources         *source.Set
	VariantFiles    []string
	OverrideVersion string
}

// CheckResult holds the outcome of comparing a fresh render with the
// lockfile.
type CheckResult struct {
	Clean   bool
	Added   []source.Resolved   // rendered but not locked
	Removed []lock.LockedSource // locked but no longer rendered
}

// Section aliases re-exported for callers of the engine.
type (
	RequirementSection = recipe.RequirementSection
	Combination        = variant.Combination
)
