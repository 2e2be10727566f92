package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// FileName is the name of a recipe-compat config file at every level.
const FileName = "recipe-compat.yaml"

const appDir = "recipe-compat"

// EnvNoInheritVar disables the system and user layers when true.
const EnvNoInheritVar = "RECIPE_COMPAT_NO_INHERIT"

// ConfigLevel names the layer a config file was found at.
type ConfigLevel string

const (
	LevelSystem  ConfigLevel = "system"
	LevelUser    ConfigLevel = "user"
	LevelProject ConfigLevel = "project"
)

// ConfigLayerInfo describes one config layer and whether it was loaded.
type ConfigLayerInfo struct {
	Err    error // set when the file exists but is invalid
	Path   string
	Level  ConfigLevel
	Loaded bool
}

// FindProject walks up from dir looking for the nearest recipe-compat.yaml.
// The walk stops after the first directory holding a .git entry, so a
// feedstock never picks up a config from outside its repository.
func FindProject(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, true
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// projectPath returns the explicit project config, else the one found by
// walking up from SearchFrom. Empty means there is no project layer.
func projectPath(opts HierarchicalOptions) string {
	if opts.ProjectPath != "" {
		return opts.ProjectPath
	}
	if opts.SearchFrom == "" {
		return ""
	}
	p, _ := FindProject(opts.SearchFrom)
	return p
}

// discover lists the config files to consult, lowest precedence first. A
// file reachable from two levels is only consulted at the lower one.
func discover(opts HierarchicalOptions) []ConfigLayerInfo {
	project := projectPath(opts)
	if opts.NoInherit || EnvNoInherit() {
		if project == "" {
			return nil
		}
		return []ConfigLayerInfo{{Path: project, Level: LevelProject}}
	}

	candidates := []ConfigLayerInfo{
		{Path: orDefault(opts.SystemConfigPath, systemPath), Level: LevelSystem},
		{Path: orDefault(opts.UserConfigPath, userPath), Level: LevelUser},
		{Path: project, Level: LevelProject},
	}

	var out []ConfigLayerInfo
	seen := make(map[string]bool)
	for _, l := range candidates {
		if l.Path == "" {
			continue
		}
		key := l.Path
		if abs, err := filepath.Abs(l.Path); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

func orDefault(p string, def func() string) string {
	if p != "" {
		return p
	}
	return def()
}

func systemPath() string {
	if runtime.GOOS == "windows" {
		root := os.Getenv("ProgramData")
		if root == "" {
			root = `C:\ProgramData`
		}
		return filepath.Join(root, appDir, FileName)
	}
	return filepath.Join("/etc", appDir, FileName)
}

func userPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDir, FileName)
}

// EnvNoInherit reports whether RECIPE_COMPAT_NO_INHERIT holds a true
// boolean ("1", "t", "true" and so on).
func EnvNoInherit() bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(EnvNoInheritVar)))
	return err == nil && v
}
