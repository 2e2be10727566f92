package lock

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/recipe-compat/internal/source"
)

// Load reads and validates a recipe-sources.lock file.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lockfile %s: %w", path, err)
	}

	var lf Lockfile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing lockfile %s: %w", path, err)
	}

	if errs := Validate(&lf); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &lf, nil
}

// Save writes a lockfile atomically using a temp file and rename.
func Save(path string, lf *Lockfile) error {
	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lockfile: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp lockfile %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp lockfile to %s: %w", path, err)
	}

	return nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("lockfile validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Lockfile for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(lf *Lockfile) []string {
	var errs []string

	if lf.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d, only version 1 is supported", lf.Version))
	}

	seen := make(map[source.Key]bool)
	for i, src := range lf.Sources {
		prefix := fmt.Sprintf("source[%d]", i)
		if src.URL != "" {
			prefix = fmt.Sprintf("source '%s'", src.URL)
		}

		if src.URL == "" {
			errs = append(errs, fmt.Sprintf("%s: 'url' is required", prefix))
		}
		if len(src.Mirrors) > 0 && !src.List {
			errs = append(errs, fmt.Sprintf("%s: 'mirrors' requires 'list: true'", prefix))
		}
		if !isHex(src.SHA256) {
			errs = append(errs, fmt.Sprintf("%s: sha256 '%s' is not hexadecimal", prefix, src.SHA256))
		}
		if !isHex(src.MD5) {
			errs = append(errs, fmt.Sprintf("%s: md5 '%s' is not hexadecimal", prefix, src.MD5))
		}

		k := src.Key()
		if seen[k] {
			errs = append(errs, fmt.Sprintf("%s: duplicate entry", prefix))
		}
		seen[k] = true
	}

	return errs
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
