package config

import (
	"errors"
	"fmt"
	"io/fs"
)

// Merge combines two configs where overlay takes precedence over base.
// This implements the hierarchical merge semantics:
//   - version: must agree if both declare it (non-zero); fatal error on mismatch
//   - selectors: deep merge, overlay keys win
//   - variants: concatenate (base first, then overlay), duplicates dropped
//   - scalars: overlay wins when set
func Merge(base, overlay *Config) (*Config, error) {
	if base == nil {
		return overlay, nil
	}
	if overlay == nil {
		return base, nil
	}

	result := &Config{}

	if err := mergeVersion(base.Version, overlay.Version, &result.Version); err != nil {
		return nil, err
	}

	result.Selectors = mergeSelectors(base.Selectors, overlay.Selectors)
	result.Variants = mergeVariants(base.Variants, overlay.Variants)

	result.TargetPlatform = pick(base.TargetPlatform, overlay.TargetPlatform)
	result.OverrideVersion = pick(base.OverrideVersion, overlay.OverrideVersion)
	result.Lockfile = pick(base.Lockfile, overlay.Lockfile)
	result.Dir = pick(base.Dir, overlay.Dir)

	result.AllowMissingSelectors = base.AllowMissingSelectors
	if overlay.AllowMissingSelectors != nil {
		result.AllowMissingSelectors = overlay.AllowMissingSelectors
	}

	result.Render = base.Render
	if overlay.Render.Concurrency != 0 {
		result.Render.Concurrency = overlay.Render.Concurrency
	}

	return result, nil
}

// MergeAll merges multiple configs in order (lowest precedence first).
// Returns an error if any version mismatch is found.
func MergeAll(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configs to merge")
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		var err error
		result, err = Merge(result, configs[i])
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// HierarchicalOptions controls LoadHierarchical.
type HierarchicalOptions struct {
	// ProjectPath is the project config. When empty the nearest
	// recipe-compat.yaml above SearchFrom is used instead.
	ProjectPath string
	SearchFrom  string

	SystemConfigPath string
	UserConfigPath   string

	// NoInherit skips the system and user layers.
	NoInherit bool
}

// HierarchicalResult is the merged config plus what was found per layer.
type HierarchicalResult struct {
	Config *Config
	Layers []ConfigLayerInfo

	// ProjectPath is the project layer consulted, empty when there was none.
	ProjectPath string
}

// LoadHierarchical loads and merges the system, user and project layers.
// Missing files are skipped; when none exist the defaults apply. The
// merged result is validated.
func LoadHierarchical(opts HierarchicalOptions) (*HierarchicalResult, error) {
	layers := discover(opts)

	var loaded []*Config
	for i := range layers {
		cfg, err := parse(layers[i].Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			layers[i].Err = err
			return nil, fmt.Errorf("%s config: %w", layers[i].Level, err)
		}
		layers[i].Loaded = true
		loaded = append(loaded, cfg)
	}

	merged := Default()
	if len(loaded) > 0 {
		var err error
		merged, err = MergeAll(loaded)
		if err != nil {
			return nil, err
		}
	}
	applyDefaults(merged)

	if errs := Validate(merged); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	res := &HierarchicalResult{Config: merged, Layers: layers}
	for _, l := range layers {
		if l.Level == LevelProject {
			res.ProjectPath = l.Path
		}
	}
	return res, nil
}

func mergeVersion(base, overlay int, out *int) error {
	switch {
	case base == 0 && overlay == 0:
		*out = 0 // neither declares; validation will catch this
	case base == 0:
		*out = overlay
	case overlay == 0:
		*out = base
	case base == overlay:
		*out = base
	default:
		return fmt.Errorf("config version mismatch: one layer declares version %d, another declares version %d; all config layers must agree on version", base, overlay)
	}
	return nil
}

func mergeSelectors(base, overlay map[string]bool) map[string]bool {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}

	result := make(map[string]bool, len(base)+len(overlay))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range overlay {
		result[k] = v // overlay wins
	}
	return result
}

func mergeVariants(base, overlay []string) []string {
	if len(base) == 0 {
		return overlay
	}
	if len(overlay) == 0 {
		return base
	}

	seen := make(map[string]bool, len(base)+len(overlay))
	var result []string
	for _, list := range [][]string{base, overlay} {
		for _, p := range list {
			if seen[p] {
				continue
			}
			seen[p] = true
			result = append(result, p)
		}
	}
	return result
}

func pick(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}
