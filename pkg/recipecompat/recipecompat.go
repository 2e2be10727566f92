// Package recipecompat provides the public Go library API for
// recipe-compat.
//
// recipe-compat reads conda recipe files that use if/then/else
// conditional lists, resolves them against a selector namespace and
// renders their sources over variant configurations.
//
// # Basic Usage
//
//	client, err := recipecompat.New(recipecompat.Options{
//	    SearchDir: "recipe",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Resolve a recipe against the configured selectors
//	tree, err := client.Load("recipe/recipe.yaml", nil)
//
//	// Render every source over the configured variant files
//	result, err := client.Render(ctx, "recipe/recipe.yaml", recipecompat.RenderOptions{})
//
//	// Compare with the sources lockfile
//	check, err := client.Check(ctx, "recipe/recipe.yaml")
package recipecompat

import (
	"context"
	"log/slog"

	"github.com/bianoble/recipe-compat/internal/config"
	"github.com/bianoble/recipe-compat/internal/engine"
	"github.com/bianoble/recipe-compat/internal/node"
)

// Loader resolves recipes against a selector namespace.
type Loader interface {
	Load(path string, selectors Namespace) (*LoadResult, error)
}

// Renderer renders recipe sources over variant combinations.
type Renderer interface {
	Render(ctx context.Context, path string, opts RenderOptions) (*RenderResult, error)
}

// Checker compares rendered sources with the lockfile.
type Checker interface {
	Check(ctx context.Context, path string) (*CheckResult, error)
}

// Options configures a recipe-compat client.
type Options struct {
	// ConfigPath is the path to the project config file. When empty the
	// nearest recipe-compat.yaml above SearchDir is used. A missing file
	// is not an error.
	ConfigPath string

	// SearchDir is where the config search starts. Default: the working
	// directory.
	SearchDir string

	// LockfilePath overrides the lockfile from the config.
	LockfilePath string

	// NoInherit skips the system and user config layers.
	NoInherit bool

	// Logger receives diagnostic output. Nil discards it.
	Logger *slog.Logger
}

// Client is the main entry point for the recipe-compat library.
// It implements Loader, Renderer, and Checker.
type Client struct {
	engine       *engine.Engine
	lockfilePath string
}

// New creates a new recipe-compat Client.
func New(opts Options) (*Client, error) {
	if opts.SearchDir == "" {
		opts.SearchDir = "."
	}

	res, err := config.LoadHierarchical(config.HierarchicalOptions{
		ProjectPath: opts.ConfigPath,
		SearchFrom:  opts.SearchDir,
		NoInherit:   opts.NoInherit,
	})
	if err != nil {
		return nil, err
	}

	lockPath := opts.LockfilePath
	if lockPath == "" {
		lockPath = res.Config.Lockfile
	}

	return &Client{
		engine:       engine.New(res.Config, opts.Logger),
		lockfilePath: lockPath,
	}, nil
}

// Config returns the merged configuration the client uses.
func (c *Client) Config() *config.Config {
	return c.engine.Config
}

// LockfilePath returns the sources lockfile path.
func (c *Client) LockfilePath() string {
	return c.lockfilePath
}

// Load resolves the recipe at path against the configured selectors
// overlaid with selectors.
func (c *Client) Load(path string, selectors Namespace) (*LoadResult, error) {
	return c.engine.Load(path, selectors)
}

// Sources returns every source record of the recipe at path, including
// both branches of each conditional.
func (c *Client) Sources(path string) ([]node.Node, error) {
	return c.engine.Sources(path)
}

// URLs returns the first url of every source record of the recipe at path.
func (c *Client) URLs(path string) ([]string, error) {
	return c.engine.URLs(path)
}

// Render renders the sources of the recipe at path over the variant files.
func (c *Client) Render(ctx context.Context, path string, opts RenderOptions) (*RenderResult, error) {
	return c.engine.Render(ctx, path, opts)
}

// WriteLock renders the recipe at path and saves the result as the
// lockfile.
func (c *Client) WriteLock(ctx context.Context, path string, opts RenderOptions) (*RenderResult, error) {
	res, err := c.engine.Render(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	if err := c.engine.WriteLock(path, c.lockfilePath, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Check re-renders the recipe at path and compares it with the lockfile.
func (c *Client) Check(ctx context.Context, path string) (*CheckResult, error) {
	return c.engine.Check(ctx, path, c.lockfilePath, RenderOptions{})
}

// Requirements returns the requirement sections of the resolved recipe.
func (c *Client) Requirements(path string, selectors Namespace) ([]RequirementSection, error) {
	return c.engine.Requirements(path, selectors)
}

// Tests returns the test definitions of the resolved recipe.
func (c *Client) Tests(path string, selectors Namespace) ([]node.Node, error) {
	return c.engine.Tests(path, selectors)
}

// Combinations expands variant files, or the configured ones when files is
// empty.
func (c *Client) Combinations(files []string) ([]Combination, error) {
	return c.engine.Combinations(files)
}
