package jinja

import (
	"testing"

	"github.com/bianoble/recipe-compat/internal/node"
	"github.com/bianoble/recipe-compat/internal/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSimpleSubstitution(t *testing.T) {
	env := NewEnv(nil)
	out, err := env.Render("https://example.com/foo-{{ version }}.tar.gz", Vars{"version": "1.2.3"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/foo-1.2.3.tar.gz", out)
}

func TestRenderDollarSyntax(t *testing.T) {
	env := NewEnv(nil)
	out, err := env.Render("foo-${{ version }}", Vars{"version": "2.0"})
	require.NoError(t, err)
	assert.Equal(t, "foo-2.0", out)
}

func TestRenderPlainTextUnchanged(t *testing.T) {
	env := NewEnv(nil)
	out, err := env.Render("https://example.com/static.tar.gz", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/static.tar.gz", out)
}

func TestRenderCombinationValues(t *testing.T) {
	env := NewEnv(variant.Combination{"target_platform": "linux-64"})
	out, err := env.Render("pkg-{{ target_platform }}", nil)
	require.NoError(t, err)
	assert.Equal(t, "pkg-linux-64", out)

	out, err = env.Render("pkg-{{ target_platform }}", Vars{"target_platform": "override"})
	require.NoError(t, err)
	assert.Equal(t, "pkg-override", out)
}

func TestCompilerHelpers(t *testing.T) {
	env := NewEnv(variant.Combination{"c_compiler": "gcc", "c_stdlib": "sysroot"})
	assert.Equal(t, "gcc", env.compiler("c"))
	assert.Equal(t, "cxx_compiler_stub", env.compiler("cxx"))
	assert.Equal(t, "sysroot", env.stdlib("c"))
	assert.Equal(t, "fortran_stdlib_stub", env.stdlib("fortran"))
}

func TestRenderParseError(t *testing.T) {
	env := NewEnv(nil)
	_, err := env.Render("{{ version ", Vars{"version": "1"})
	assert.ErrorContains(t, err, "parsing template")
}

func TestRenderUnclosedTags(t *testing.T) {
	env := NewEnv(nil)
	for _, tpl := range []string{
		"https://example.com/pkg-${{ version .tar.gz",
		"{% if version %}x",
		"{{ 'unterminated }}",
		"{# comment",
		"{{ version }}-{{ version",
	} {
		_, err := env.Render(tpl, Vars{"version": "1"})
		assert.ErrorContains(t, err, "unclosed", tpl)
	}
}

func TestRenderClosedTagsPass(t *testing.T) {
	env := NewEnv(nil)
	out, err := env.Render("{% if version %}v{{ version }}{% endif %}{# note #}-{{ '}}' }}", Vars{"version": "1"})
	require.NoError(t, err)
	assert.Equal(t, "v1-}}", out)
}

func TestRenderUndefinedVariable(t *testing.T) {
	env := NewEnv(variant.Combination{"python": "3.12"})
	_, err := env.Render("pkg-${{ verison }}.tar.gz", Vars{"version": "1.2"})
	assert.ErrorContains(t, err, "rendering template")
	assert.ErrorContains(t, err, "verison")

	out, err := env.Render("py${{ python }}", nil)
	require.NoError(t, err)
	assert.Equal(t, "py3.12", out)
}

func TestLoadContextUndefinedVariable(t *testing.T) {
	ctx := node.MappingOf("tarball", "${{ name }}.tar.gz")
	_, err := LoadContext(ctx, NewEnv(nil))
	assert.ErrorContains(t, err, "context.tarball")
}

func TestRenderNodeKeepsListShape(t *testing.T) {
	env := NewEnv(nil)
	in := node.Sequence{node.Str("https://a/{{ v }}"), node.Str("https://b/{{ v }}")}
	out, err := env.RenderNode(in, Vars{"v": "1"})
	require.NoError(t, err)
	assert.Equal(t, []any{"https://a/1", "https://b/1"}, node.ToAny(out))

	_, err = env.RenderNode(node.MappingOf("k", "v"), nil)
	assert.Error(t, err)
}

func TestLoadContextChaining(t *testing.T) {
	ctx, err := node.Parse([]byte(`
name: foo
version: "1.2.3"
build: 0
tarball: ${{ name }}-${{ version }}.tar.gz
url: https://example.com/{{ tarball }}
`))
	require.NoError(t, err)

	vars, err := LoadContext(ctx, NewEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, Vars{
		"name":    "foo",
		"version": "1.2.3",
		"build":   "0",
		"tarball": "foo-1.2.3.tar.gz",
		"url":     "https://example.com/foo-1.2.3.tar.gz",
	}, vars)
}

func TestLoadContextAbsent(t *testing.T) {
	vars, err := LoadContext(nil, NewEnv(nil))
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestLoadContextRejectsNonScalar(t *testing.T) {
	ctx := node.MappingOf("list", []string{"a"})
	_, err := LoadContext(ctx, NewEnv(nil))
	assert.ErrorContains(t, err, "context.list")
}
