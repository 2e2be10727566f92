package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/recipe-compat/internal/config"
	"github.com/bianoble/recipe-compat/internal/engine"
	"github.com/bianoble/recipe-compat/internal/selector"
)

// loadConfigHierarchical reads and merges the config layers. Without
// --config the project config is the nearest recipe-compat.yaml above
// searchFrom. A missing project config falls back to the defaults.
func loadConfigHierarchical(searchFrom string) (*config.HierarchicalResult, error) {
	hr, err := config.LoadHierarchical(config.HierarchicalOptions{
		ProjectPath: configPath,
		SearchFrom:  searchFrom,
		NoInherit:   noInherit,
	})
	if err != nil {
		if configPath != "" {
			return nil, fmt.Errorf("loading config %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if configPath == "" && hr.ProjectPath != "" {
		logger.Debug("using project config", "path", hr.ProjectPath)
	}
	return hr, nil
}

// loadConfig returns the merged config with command-line overrides
// applied.
func loadConfig(searchFrom string) (*config.Config, error) {
	hr, err := loadConfigHierarchical(searchFrom)
	if err != nil {
		return nil, err
	}
	cfg := hr.Config
	if allowMissing {
		cfg.AllowMissingSelectors = &allowMissing
	}
	return cfg, nil
}

// newEngine builds an engine from the config that applies to the recipe
// at recipePath. An empty recipePath searches from the working directory.
func newEngine(recipePath string) (*engine.Engine, error) {
	searchFrom := "."
	if recipePath != "" {
		searchFrom = filepath.Dir(recipePath)
	}
	cfg, err := loadConfig(searchFrom)
	if err != nil {
		return nil, err
	}
	return engine.New(cfg, logger), nil
}

// resolveLockfile returns the --lockfile flag or the configured path.
func resolveLockfile(cfg *config.Config) string {
	if lockfilePath != "" {
		return lockfilePath
	}
	return cfg.Lockfile
}

// parseSelectors turns name=value flags into a namespace. A bare name
// means true.
func parseSelectors(flags []string) (selector.Namespace, error) {
	ns := selector.Namespace{}
	for _, f := range flags {
		name, value, hasValue := strings.Cut(f, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid --selector %q: name is empty", f)
		}
		if !hasValue {
			ns[name] = true
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid --selector %q: value must be true or false", f)
		}
		ns[name] = b
	}
	return ns, nil
}

// writeOutput encodes v as yaml or json.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "", "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q (use yaml or json)", format)
	}
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
