// Package jinja renders recipe templates for one variant combination.
package jinja

import (
	"fmt"
	"strings"

	"github.com/nikolalohinski/gonja"
	"github.com/nikolalohinski/gonja/config"
	"github.com/nikolalohinski/gonja/loaders"

	"github.com/bianoble/recipe-compat/internal/node"
	"github.com/bianoble/recipe-compat/internal/variant"
)

// templates parses every recipe template. Unbound names are errors.
var templates = newEnvironment()

func newEnvironment() *gonja.Environment {
	cfg := config.NewConfig()
	cfg.StrictUndefined = true
	return gonja.NewEnvironment(cfg, loaders.MustNewFileSystemLoader(""))
}

// Vars are rendered context variables, keyed by name.
type Vars map[string]string

// Env holds the bindings of a single combination. An Env is not shared
// between combinations.
type Env struct {
	comb    variant.Combination
	globals map[string]any
}

// NewEnv returns an environment exposing the values of c plus the
// compiler and stdlib helpers.
func NewEnv(c variant.Combination) *Env {
	e := &Env{comb: c}
	e.globals = map[string]any{
		"compiler": e.compiler,
		"stdlib":   e.stdlib,
	}
	return e
}

// compiler resolves compiler('c') to the c_compiler variant value, falling
// back to a stub package name.
func (e *Env) compiler(lang string) string {
	if v, ok := e.comb[lang+"_compiler"]; ok && v != "" {
		return v
	}
	return lang + "_compiler_stub"
}

func (e *Env) stdlib(lang string) string {
	if v, ok := e.comb[lang+"_stdlib"]; ok && v != "" {
		return v
	}
	return lang + "_stdlib_stub"
}

// Render renders tpl. Both {{ x }} and ${{ x }} are accepted. Entries of
// vars shadow combination values of the same name. A name bound nowhere is
// an error.
func (e *Env) Render(tpl string, vars Vars) (string, error) {
	src := strings.ReplaceAll(tpl, "${{", "{{")
	if !strings.Contains(src, "{{") && !strings.Contains(src, "{%") {
		return src, nil
	}
	if err := checkClosed(src); err != nil {
		return "", fmt.Errorf("parsing template %q: %w", tpl, err)
	}

	t, err := templates.FromString(src)
	if err != nil {
		return "", fmt.Errorf("parsing template %q: %w", tpl, err)
	}
	out, err := t.Execute(e.context(vars))
	if err != nil {
		return "", fmt.Errorf("rendering template %q: %w", tpl, err)
	}
	return out, nil
}

// RenderNode renders a string or a list of strings, keeping its shape.
func (e *Env) RenderNode(n node.Node, vars Vars) (node.Node, error) {
	switch v := n.(type) {
	case node.Scalar:
		s, err := e.Render(v.String(), vars)
		if err != nil {
			return nil, err
		}
		return node.Str(s), nil
	case node.Sequence:
		out := make(node.Sequence, len(v))
		for i, item := range v {
			r, err := e.RenderNode(item, vars)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot render %T", n)
	}
}

var tagEnds = map[string][]string{
	"{{": {"}}", "%}"},
	"{%": {"%}", "}}"},
	"{#": {"#}"},
}

// checkClosed reports the first tag of src that is never closed. The gonja
// lexer does not stop on such input.
func checkClosed(src string) error {
	for i := 0; i+1 < len(src); i++ {
		ends, ok := tagEnds[src[i:i+2]]
		if !ok {
			continue
		}
		n := closeIndex(src[i+2:], src[i+1] != '#', ends)
		if n < 0 {
			return fmt.Errorf("unclosed %q at offset %d", src[i:i+2], i)
		}
		i += 2 + n + 1
	}
	return nil
}

// closeIndex returns the offset of the first of ends in s, skipping quoted
// strings when quotes is set, or -1.
func closeIndex(s string, quotes bool, ends []string) int {
	var quote byte
	for k := 0; k < len(s); k++ {
		c := s[k]
		if quote != 0 {
			if c == '\\' {
				k++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		if quotes && (c == '"' || c == '\'') {
			quote = c
			continue
		}
		for _, end := range ends {
			if strings.HasPrefix(s[k:], end) {
				return k
			}
		}
	}
	return -1
}

func (e *Env) context(vars Vars) gonja.Context {
	ctx := make(gonja.Context, len(e.comb)+len(e.globals)+len(vars))
	for k, v := range e.comb {
		ctx[k] = v
	}
	for k, v := range e.globals {
		ctx[k] = v
	}
	for k, v := range vars {
		ctx[k] = v
	}
	return ctx
}

// LoadContext renders the entries of a recipe "context" mapping in
// declared order. Each entry may refer to the ones before it. Non-string
// scalars keep their source text.
func LoadContext(ctx node.Node, env *Env) (Vars, error) {
	vars := make(Vars)
	m, ok := ctx.(*node.Mapping)
	if !ok {
		return vars, nil
	}
	for _, e := range m.Entries() {
		s, ok := e.Value.(node.Scalar)
		if !ok {
			return nil, fmt.Errorf("context.%s: value must be a scalar", e.Key)
		}
		if _, isString := s.Value.(string); !isString {
			vars[e.Key] = s.String()
			continue
		}
		out, err := env.Render(s.String(), vars)
		if err != nil {
			return nil, fmt.Errorf("context.%s: %w", e.Key, err)
		}
		vars[e.Key] = out
	}
	return vars, nil
}
