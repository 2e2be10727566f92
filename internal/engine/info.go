package engine

import (
	"sort"

	"github.com/bianoble/recipe-compat/internal/config"
)

// ConfigLayerStatus describes a config layer's load status for display.
type ConfigLayerStatus struct {
	Level  string // "system", "user", "project"
	Path   string
	Loaded bool
}

// InfoResult holds tool information for the info command.
type InfoResult struct {
	Version        string
	ConfigPath     string
	LockPath       string
	TargetPlatform string
	AllowMissing   bool
	Selectors      []string // resolved namespace, "name=value", sorted
	VariantFiles   []string
	ConfigChain    []ConfigLayerStatus
	ConfigVersion  int
}

// Info gathers tool information.
func Info(version string, cfg *config.Config, layers []config.ConfigLayerInfo, configPath, lockPath string) (*InfoResult, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	r := &InfoResult{
		Version:        version,
		ConfigVersion:  cfg.Version,
		ConfigPath:     configPath,
		LockPath:       lockPath,
		TargetPlatform: cfg.TargetPlatform,
		AllowMissing:   cfg.AllowMissing(),
	}

	for _, l := range layers {
		r.ConfigChain = append(r.ConfigChain, ConfigLayerStatus{
			Level:  string(l.Level),
			Path:   l.Path,
			Loaded: l.Loaded,
		})
	}

	for name, v := range cfg.Namespace() {
		val := "false"
		if v {
			val = "true"
		}
		r.Selectors = append(r.Selectors, name+"="+val)
	}
	sort.Strings(r.Selectors)

	files, err := cfg.VariantFiles()
	if err != nil {
		return nil, err
	}
	r.VariantFiles = files
	return r, nil
}
