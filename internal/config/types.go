package config

// Config represents the recipe-compat.yaml configuration file.
type Config struct {
	Version int `yaml:"version"`

	// Selectors seeds the selector namespace used when loading recipes.
	Selectors map[string]bool `yaml:"selectors,omitempty"`

	// TargetPlatform adds the platform flags of a conda subdir such as
	// "linux-64" to the namespace. Selectors entries win over them.
	TargetPlatform string `yaml:"target_platform,omitempty"`

	// AllowMissingSelectors treats unknown selector names as true.
	AllowMissingSelectors *bool `yaml:"allow_missing_selectors,omitempty"`

	// Variants lists glob patterns of variant files, relative to the
	// config file.
	Variants []string `yaml:"variants,omitempty"`

	OverrideVersion string `yaml:"override_version,omitempty"`
	Render          Render `yaml:"render,omitempty"`
	Lockfile        string `yaml:"lockfile,omitempty"`

	// Dir is the directory of the file the config was read from.
	Dir string `yaml:"-"`
}

// Render holds source rendering settings.
type Render struct {
	Concurrency int `yaml:"concurrency,omitempty"`
}

// DefaultLockfile is the lockfile name used when none is configured.
const DefaultLockfile = "recipe-sources.lock"

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{Version: 1, Lockfile: DefaultLockfile}
}

// AllowMissing reports whether unknown selectors are treated as true.
func (c *Config) AllowMissing() bool {
	return c.AllowMissingSelectors != nil && *c.AllowMissingSelectors
}
