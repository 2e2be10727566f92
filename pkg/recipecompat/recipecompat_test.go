package recipecompat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bianoble/recipe-compat/internal/recipe"
)

const testRecipe = `
context:
  version: "1.4.0"
source:
  - if: unix
    then:
      url: https://example.com/pkg-${{ version }}.tar.gz
      sha256: abcd
  - url:
      - https://mirror-a.com/extra.zip
      - https://mirror-b.com/extra.zip
requirements:
  host:
    - if: cuda
      then: cudatoolkit
    - python
`

// writeFile writes content under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// newTestClient creates a client with isolated temp paths.
func newTestClient(t *testing.T, dir, cfg string) *Client {
	t.Helper()
	cfgPath := filepath.Join(dir, "recipe-compat.yaml")
	if cfg != "" {
		writeFile(t, dir, "recipe-compat.yaml", cfg)
	}
	client, err := New(Options{ConfigPath: cfgPath, NoInherit: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewMissingConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, "")
	if client.Config().Version != 1 {
		t.Errorf("version = %d", client.Config().Version)
	}
	if filepath.Base(client.LockfilePath()) != "recipe-sources.lock" {
		t.Errorf("lockfile = %q", client.LockfilePath())
	}
}

func TestNewInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "recipe-compat.yaml", "version: 3\n")
	if _, err := New(Options{ConfigPath: path, NoInherit: true}); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestNewSearchDirFindsProjectConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "recipe-compat.yaml", "version: 1\ntarget_platform: win-64\n")
	recipeDir := filepath.Join(dir, "recipe")
	if err := os.Mkdir(recipeDir, 0755); err != nil {
		t.Fatal(err)
	}

	client, err := New(Options{SearchDir: recipeDir, NoInherit: true})
	if err != nil {
		t.Fatal(err)
	}
	if client.Config().TargetPlatform != "win-64" {
		t.Errorf("target_platform = %q, want the config above the recipe", client.Config().TargetPlatform)
	}
}

func TestNewLockfileOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "recipe-compat.yaml", "version: 1\nlockfile: a.lock\n")
	client, err := New(Options{
		ConfigPath:   filepath.Join(dir, "recipe-compat.yaml"),
		LockfilePath: filepath.Join(dir, "b.lock"),
		NoInherit:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(client.LockfilePath()) != "b.lock" {
		t.Errorf("lockfile = %q", client.LockfilePath())
	}
}

func TestClientLoadAndRequirements(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, "version: 1\nselectors:\n  unix: true\n  cuda: true\n")
	path := writeFile(t, dir, "recipe.yaml", testRecipe)

	res, err := client.Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !res.Namespace["cuda"] {
		t.Errorf("namespace = %v", res.Namespace)
	}

	sections, err := client.Requirements(path, Namespace{"cuda": false})
	if err != nil {
		t.Fatalf("Requirements: %v", err)
	}
	if got := strings.Join(sections[0].Strings(), ","); got != "python" {
		t.Errorf("host = %s, want python", got)
	}
}

func TestClientLoadUndefinedSelector(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, "version: 1\n")
	path := writeFile(t, dir, "recipe.yaml", testRecipe)

	_, err := client.Load(path, nil)
	var serr *recipe.SelectorError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *recipe.SelectorError", err)
	}
}

func TestClientURLs(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, "")
	path := writeFile(t, dir, "recipe.yaml", testRecipe)

	urls, err := client.URLs(path)
	if err != nil {
		t.Fatalf("URLs: %v", err)
	}
	want := "https://example.com/pkg-${{ version }}.tar.gz,https://mirror-a.com/extra.zip"
	if strings.Join(urls, ",") != want {
		t.Errorf("urls = %v", urls)
	}
}

func TestClientWriteLockThenCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "variants/linux.yaml", "target_platform: [linux-64]\n")
	client := newTestClient(t, dir, "version: 1\nvariants:\n  - variants/*.yaml\n")
	path := writeFile(t, dir, "recipe.yaml", testRecipe)
	ctx := context.Background()

	res, err := client.WriteLock(ctx, path, RenderOptions{})
	if err != nil {
		t.Fatalf("WriteLock: %v", err)
	}
	if res.Sources.Len() != 2 {
		t.Errorf("sources = %d, want 2", res.Sources.Len())
	}

	check, err := client.Check(ctx, path)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !check.Clean {
		t.Errorf("expected clean check, got %+v", check)
	}

	// A new version changes the rendered url.
	writeFile(t, dir, "recipe.yaml", strings.Replace(testRecipe, "1.4.0", "1.5.0", 1))
	check, err = client.Check(ctx, path)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if check.Clean || len(check.Added) != 1 || len(check.Removed) != 1 {
		t.Errorf("expected one added and one removed, got %+v", check)
	}
}

func TestClientCombinations(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, "")
	file := writeFile(t, dir, "v.yaml", "python: ['3.11', '3.12']\nc_compiler: [gcc]\n")

	combs, err := client.Combinations([]string{file})
	if err != nil {
		t.Fatalf("Combinations: %v", err)
	}
	if len(combs) != 2 {
		t.Errorf("combinations = %v", combs)
	}
}
