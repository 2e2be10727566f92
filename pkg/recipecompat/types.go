package recipecompat

import (
	"github.com/bianoble/recipe-compat/internal/engine"
	"github.com/bianoble/recipe-compat/internal/selector"
	"github.com/bianoble/recipe-compat/internal/source"
)

// Type aliases re-export engine types as the public API.
// Users import "github.com/bianoble/recipe-compat/pkg/recipecompat" and use
// recipecompat.RenderResult, recipecompat.CheckResult, etc.

type Namespace = selector.Namespace
type LoadResult = engine.LoadResult
type RenderOptions = engine.RenderOptions
type RenderResult = engine.RenderResult
type CheckResult = engine.CheckResult
type RequirementSection = engine.RequirementSection
type Combination = engine.Combination
type Resolved = source.Resolved
type SourceError = source.SourceError
