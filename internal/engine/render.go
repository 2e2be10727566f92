package engine

import (
	"context"
	"path/filepath"

	"github.com/bianoble/recipe-compat/internal/lock"
	"github.com/bianoble/recipe-compat/internal/source"
)

// Render renders the sources of the recipe at path for every variant
// combination and returns the distinct results.
func (e *Engine) Render(ctx context.Context, path string, opts RenderOptions) (*RenderResult, error) {
	tree, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	docs, files, err := e.variantDocs(opts.VariantFiles)
	if err != nil {
		return nil, err
	}

	version := opts.OverrideVersion
	if version == "" {
		version = e.Config.OverrideVersion
	}

	r := &source.Renderer{Concurrency: e.Config.Render.Concurrency, Logger: e.Logger}
	set, err := r.RenderAll(ctx, tree, docs, source.RenderOptions{OverrideVersion: version})
	if err != nil {
		return nil, err
	}
	e.Logger.Info("rendered sources", "recipe", path, "variant_files", len(files), "sources", set.Len())
	return &RenderResult{Sources: set, VariantFiles: files, OverrideVersion: version}, nil
}

// WriteLock saves the rendered sources of res as the lockfile at lockPath.
// The recipe path is recorded relative to the lockfile directory when
// possible.
func (e *Engine) WriteLock(recipePath, lockPath string, res *RenderResult) error {
	lf := lock.New(relativeTo(filepath.Dir(lockPath), recipePath), res.OverrideVersion, res.Sources)
	if err := lock.Save(lockPath, lf); err != nil {
		return err
	}
	e.Logger.Info("wrote lockfile", "path", lockPath, "sources", len(lf.Sources))
	return nil
}

func relativeTo(dir, path string) string {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return path
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
