package engine

import (
	"context"
	"fmt"

	"github.com/bianoble/recipe-compat/internal/lock"
	"github.com/bianoble/recipe-compat/internal/source"
)

// Check renders the recipe at path and compares the result with the
// lockfile at lockPath. The lockfile's override_version is used unless
// opts sets one. Clean is true when both hold the same sources.
func (e *Engine) Check(ctx context.Context, path, lockPath string, opts RenderOptions) (*CheckResult, error) {
	lf, err := lock.Load(lockPath)
	if err != nil {
		return nil, err
	}
	if opts.OverrideVersion == "" {
		opts.OverrideVersion = lf.OverrideVersion
	}

	res, err := e.Render(ctx, path, opts)
	if err != nil {
		return nil, fmt.Errorf("rendering for check: %w", err)
	}
	return diff(lf, res.Sources), nil
}

func diff(lf *lock.Lockfile, set *source.Set) *CheckResult {
	result := &CheckResult{Clean: true}

	locked := make(map[source.Key]bool, len(lf.Sources))
	for _, ls := range lf.Sources {
		locked[ls.Key()] = true
		if !set.Contains(ls.Key()) {
			result.Removed = append(result.Removed, ls)
			result.Clean = false
		}
	}
	for _, r := range set.Items() {
		if !locked[r.Key()] {
			result.Added = append(result.Added, r)
			result.Clean = false
		}
	}
	return result
}
