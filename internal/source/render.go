package source

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/bianoble/recipe-compat/internal/conditional"
	"github.com/bianoble/recipe-compat/internal/jinja"
	"github.com/bianoble/recipe-compat/internal/node"
	"github.com/bianoble/recipe-compat/internal/variant"
)

// RenderOptions controls a render.
type RenderOptions struct {
	// OverrideVersion replaces context.version before rendering when set.
	OverrideVersion string
}

// Renderer renders recipe sources for every variant combination.
type Renderer struct {
	// Concurrency bounds the combinations rendered at once. Zero or less
	// means GOMAXPROCS.
	Concurrency int

	Logger *slog.Logger
}

// RenderAll renders the top-level sources of recipe once per combination
// of each variant document and returns the distinct results. The recipe is
// not modified.
func (r *Renderer) RenderAll(ctx context.Context, recipe node.Node, variants []node.Node, opts RenderOptions) (*Set, error) {
	log := r.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	recipe = node.Clone(recipe)
	if opts.OverrideVersion != "" {
		if err := overrideVersion(recipe, opts.OverrideVersion); err != nil {
			return nil, err
		}
	}

	var combs []variant.Combination
	for i, doc := range variants {
		c, err := variant.Combinations(doc)
		if err != nil {
			return nil, fmt.Errorf("expanding variant document %d: %w", i, err)
		}
		combs = append(combs, c...)
	}
	log.Debug("rendering sources", "combinations", len(combs))

	limit := r.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	set := NewSet()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, comb := range combs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return renderCombination(recipe, comb, set, log)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

func overrideVersion(recipe node.Node, version string) error {
	m, ok := recipe.(*node.Mapping)
	if !ok {
		return fmt.Errorf("recipe must be a mapping to override its version")
	}
	ctxNode, ok := m.Get("context")
	ctxMap, isMap := ctxNode.(*node.Mapping)
	if !ok || !isMap {
		ctxMap = node.NewMapping()
		m.Set("context", ctxMap)
	}
	ctxMap.Set("version", node.Str(version))
	return nil
}

func renderCombination(recipe node.Node, comb variant.Combination, set *Set, log *slog.Logger) error {
	env := jinja.NewEnv(comb)

	ctxNode, _ := node.Lookup(recipe, "context")
	vars, err := jinja.LoadContext(ctxNode, env)
	if err != nil {
		return err
	}

	sources, ok := node.Lookup(recipe, "source")
	if !ok || !node.Truthy(sources) {
		return nil
	}
	items, err := conditional.Visit(sources, variant.Predicate(comb))
	if err != nil {
		return err
	}

	for _, item := range items {
		m, ok := item.(*node.Mapping)
		if !ok {
			continue
		}
		tmpl, ok := m.Get("url")
		if !ok {
			continue
		}

		res := Resolved{Template: tmpl, Context: vars}
		if res.SHA256, err = renderOptional(env, m, "sha256", vars, comb); err != nil {
			return err
		}
		if res.MD5, err = renderOptional(env, m, "md5", vars, comb); err != nil {
			return err
		}

		rendered, err := env.RenderNode(tmpl, vars)
		if err != nil {
			return &SourceError{Source: describe(tmpl), Operation: "render", Err: err, Hint: hint(comb)}
		}
		switch u := rendered.(type) {
		case node.Sequence:
			res.IsList = true
			for _, v := range u {
				s, _ := node.AsString(v)
				res.URLs = append(res.URLs, s)
			}
		case node.Scalar:
			res.URLs = []string{u.String()}
		}

		if set.Add(res) {
			log.Debug("resolved source", "url", res.URL(), "combination", comb.String())
		}
	}
	return nil
}

func renderOptional(env *jinja.Env, m *node.Mapping, key string, vars jinja.Vars, comb variant.Combination) (string, error) {
	v, ok := m.Get(key)
	if !ok || isNull(v) {
		return "", nil
	}
	text, _ := node.AsString(v)
	out, err := env.Render(text, vars)
	if err != nil {
		return "", &SourceError{Source: text, Operation: "render " + key, Err: err, Hint: hint(comb)}
	}
	return out, nil
}

// hint names the combination a render failed for.
func hint(comb variant.Combination) string {
	if len(comb) == 0 {
		return "empty variant combination"
	}
	return "variant " + comb.String()
}

func describe(n node.Node) string {
	if s, ok := node.AsString(n); ok {
		return s
	}
	if seq, ok := n.(node.Sequence); ok && len(seq) > 0 {
		if s, ok := node.AsString(seq[0]); ok {
			return s
		}
	}
	return "url"
}
