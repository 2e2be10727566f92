package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/recipe-compat/internal/selector"
)

// Load reads and validates a recipe-compat.yaml configuration file.
func Load(path string) (*Config, error) {
	cfg, err := parse(path)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return cfg, nil
}

// parse reads a single layer without validating it.
func parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.Dir = filepath.Dir(abs)

	for i, p := range cfg.Variants {
		cfg.Variants[i] = resolvePath(cfg.Dir, p)
	}
	if cfg.Lockfile != "" {
		cfg.Lockfile = resolvePath(cfg.Dir, cfg.Lockfile)
	}

	return &cfg, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func applyDefaults(cfg *Config) {
	if cfg.Lockfile == "" {
		cfg.Lockfile = DefaultLockfile
		if cfg.Dir != "" {
			cfg.Lockfile = filepath.Join(cfg.Dir, DefaultLockfile)
		}
	}
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d, only version 1 is supported", cfg.Version))
	}

	for name := range cfg.Selectors {
		if msg := validateSelectorName(name); msg != "" {
			errs = append(errs, fmt.Sprintf("selector '%s': %s", name, msg))
		}
	}

	if cfg.TargetPlatform != "" && cfg.TargetPlatform != "noarch" {
		osName, arch, ok := strings.Cut(cfg.TargetPlatform, "-")
		if !ok || osName == "" || arch == "" {
			errs = append(errs, fmt.Sprintf("target_platform '%s': must look like <os>-<arch>, e.g. linux-64", cfg.TargetPlatform))
		}
	}

	for i, p := range cfg.Variants {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Sprintf("variants[%d]: pattern is empty", i))
			continue
		}
		if _, err := filepath.Match(p, ""); err != nil {
			errs = append(errs, fmt.Sprintf("variants[%d]: invalid pattern '%s': %v", i, p, err))
		}
	}

	if strings.ContainsAny(cfg.OverrideVersion, " \t\n") {
		errs = append(errs, fmt.Sprintf("override_version '%s': must not contain whitespace", cfg.OverrideVersion))
	}

	if cfg.Render.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("render.concurrency %d: must not be negative", cfg.Render.Concurrency))
	}

	return errs
}

func validateSelectorName(name string) string {
	switch {
	case name == "":
		return "name is empty"
	case strings.ContainsAny(name, " \t\n()"):
		return "name must not contain whitespace or parentheses"
	}
	for _, op := range selector.Operators {
		if name == op {
			return "name is a reserved operator"
		}
	}
	return ""
}

// Namespace returns a fresh selector namespace: the platform flags of
// TargetPlatform overlaid with Selectors.
func (c *Config) Namespace() selector.Namespace {
	ns := selector.Namespace{}
	if c.TargetPlatform != "" {
		ns = selector.PlatformNamespace(c.TargetPlatform)
		ns[c.TargetPlatform] = true
	}
	for k, v := range c.Selectors {
		ns[k] = v
	}
	return ns
}

// VariantFiles expands the Variants patterns into a sorted, de-duplicated
// list of existing files.
func (c *Config) VariantFiles() ([]string, error) {
	return ExpandGlobs(c.Variants)
}

// ExpandGlobs expands each pattern and returns the matches in pattern
// order, sorted within a pattern, without duplicates.
func ExpandGlobs(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("expanding variants pattern '%s': %w", p, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	return files, nil
}
