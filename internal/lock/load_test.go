package lock

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/recipe-compat/internal/source"
)

const exampleLockfile = `
version: 1
recipe: recipe/recipe.yaml
sources:
  - url: https://github.com/foo/jolt/archive/v5.0.0.tar.gz
    sha256: 0f5e1ab8e2c9b0b1c4f5d0e7b6a3f0c1d2e3f4a5b6c7d8e9f0a1b2c3d4e5f6a7
  - url: https://a.com/3
    mirrors: [https://b.com/3]
    list: true
  - url: https://foo.com/win-extras.zip
    md5: 0123abcd
`

func TestLoadValidLockfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipe-sources.lock")
	if err := os.WriteFile(path, []byte(exampleLockfile), 0644); err != nil {
		t.Fatal(err)
	}

	lf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lf.Version != 1 {
		t.Errorf("version = %d, want 1", lf.Version)
	}
	if len(lf.Sources) != 3 {
		t.Errorf("sources = %d, want 3", len(lf.Sources))
	}
	if lf.Recipe != "recipe/recipe.yaml" {
		t.Errorf("recipe = %q", lf.Recipe)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/recipe-sources.lock")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipe-sources.lock")

	set := source.NewSet()
	set.Add(source.Resolved{URLs: []string{"https://example.com/file.tar.gz"}, SHA256: "abc123"})
	set.Add(source.Resolved{URLs: []string{"https://a.com/1", "https://b.com/1"}, IsList: true})
	original := New("recipe.yaml", "1.0", set)

	if err := Save(path, original); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}

	if loaded.Version != 1 {
		t.Errorf("version = %d, want 1", loaded.Version)
	}
	if loaded.OverrideVersion != "1.0" {
		t.Errorf("override_version = %q", loaded.OverrideVersion)
	}
	if len(loaded.Sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(loaded.Sources))
	}
	for _, ls := range loaded.Sources {
		if !set.Contains(ls.Key()) {
			t.Errorf("round-tripped source %+v not in the rendered set", ls)
		}
	}

	// Verify temp file was cleaned up.
	tmpPath := path + ".tmp"
	if _, err := os.Stat(tmpPath); !os.IsNotExist(err) {
		t.Errorf("temp file %s should not exist after save", tmpPath)
	}
}

func TestSaveAtomicity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipe-sources.lock")

	initial := &Lockfile{Version: 1, Sources: []LockedSource{{URL: "https://first.com"}}}
	if err := Save(path, initial); err != nil {
		t.Fatalf("initial Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var check Lockfile
	if err := yaml.Unmarshal(data, &check); err != nil {
		t.Fatal(err)
	}
	if check.Sources[0].URL != "https://first.com" {
		t.Errorf("initial url = %q", check.Sources[0].URL)
	}

	updated := &Lockfile{Version: 1, Sources: []LockedSource{{URL: "https://second.com"}}}
	if err := Save(path, updated); err != nil {
		t.Fatalf("updated Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after update: %v", err)
	}
	if loaded.Sources[0].URL != "https://second.com" {
		t.Errorf("updated url = %q", loaded.Sources[0].URL)
	}
}

func TestFromResolvedKeyMatches(t *testing.T) {
	for _, r := range []source.Resolved{
		{URLs: []string{"https://a"}},
		{URLs: []string{"https://a"}, IsList: true},
		{URLs: []string{"https://a", "https://b"}, IsList: true, SHA256: "ff", MD5: "ee"},
	} {
		if got := FromResolved(r).Key(); got != r.Key() {
			t.Errorf("FromResolved(%+v).Key() = %+v, want %+v", r, got, r.Key())
		}
	}
}

func TestValidateVersionInvalid(t *testing.T) {
	lf := &Lockfile{Version: 99, Sources: []LockedSource{{URL: "https://a"}}}
	errs := Validate(lf)
	if !containsSubstring(errs, "unsupported version") {
		t.Errorf("expected version error, got: %v", errs)
	}
}

func TestValidateDuplicates(t *testing.T) {
	lf := &Lockfile{
		Version: 1,
		Sources: []LockedSource{
			{URL: "https://a", SHA256: "ab"},
			{URL: "https://a", SHA256: "ab"},
		},
	}
	errs := Validate(lf)
	if !containsSubstring(errs, "duplicate entry") {
		t.Errorf("expected duplicate error, got: %v", errs)
	}
}

func TestValidateFields(t *testing.T) {
	lf := &Lockfile{
		Version: 1,
		Sources: []LockedSource{
			{},
			{URL: "https://a", SHA256: "not-hex"},
			{URL: "https://b", MD5: "zz"},
			{URL: "https://c", Mirrors: []string{"https://d"}},
		},
	}
	errs := Validate(lf)
	for _, want := range []string{"'url' is required", "sha256 'not-hex'", "md5 'zz'", "requires 'list: true'"} {
		if !containsSubstring(errs, want) {
			t.Errorf("expected error containing %q, got: %v", want, errs)
		}
	}
}

func TestValidateValidLockfile(t *testing.T) {
	lf := &Lockfile{
		Version: 1,
		Sources: []LockedSource{
			{URL: "https://a", SHA256: "ABCDEF0123"},
			{URL: "https://b", Mirrors: []string{"https://c"}, List: true},
		},
	}
	errs := Validate(lf)
	if len(errs) > 0 {
		t.Errorf("expected no errors for valid lockfile, got: %v", errs)
	}
}

func TestValidationErrorFormat(t *testing.T) {
	verr := &ValidationError{Errors: []string{"error one", "error two"}}
	msg := verr.Error()
	if !strings.Contains(msg, "error one") || !strings.Contains(msg, "error two") {
		t.Errorf("error message missing details: %s", msg)
	}
}

func containsSubstring(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
