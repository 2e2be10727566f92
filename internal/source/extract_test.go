package source

import (
	"testing"

	"github.com/bianoble/recipe-compat/internal/node"
	"github.com/bianoble/recipe-compat/internal/recipe"
	"github.com/bianoble/recipe-compat/internal/selector"
	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, src string) node.Node {
	t.Helper()
	n, err := node.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n
}

func TestURLs(t *testing.T) {
	tests := []struct {
		name   string
		recipe string
		want   []string
	}{
		{
			name: "single source",
			recipe: `
source:
  url: https://foo.com
`,
			want: []string{"https://foo.com"},
		},
		{
			name: "multiple sources",
			recipe: `
source:
  - url: https://foo.com
  - url: https://bar.com
`,
			want: []string{"https://foo.com", "https://bar.com"},
		},
		{
			name: "if then source keeps both branches",
			recipe: `
source:
  - if: linux
    then:
      url: https://foo.com
    else:
      url: https://bar.com
`,
			want: []string{"https://foo.com", "https://bar.com"},
		},
		{
			name: "outputs after top level",
			recipe: `
source:
  - url: https://foo.com
outputs:
  - package: {name: a}
    source:
      url: https://bar.com
  - package: {name: b}
  - package: {name: c}
    source:
      - url: https://baz.com
      - url: https://qux.com
`,
			want: []string{"https://foo.com", "https://bar.com", "https://baz.com", "https://qux.com"},
		},
		{
			name: "cache between top level and outputs",
			recipe: `
outputs:
  - source: {url: https://out.com}
cache:
  source:
    - url: https://cache.com
source:
  url: https://top.com
`,
			want: []string{"https://top.com", "https://cache.com", "https://out.com"},
		},
		{
			name: "first mirror and records without url",
			recipe: `
source:
  - url: [https://primary.com, https://mirror.com]
  - git: https://github.com/foo/bar.git
  - path: ../local
`,
			want: []string{"https://primary.com"},
		},
		{
			name:   "no sources",
			recipe: `package: {name: foo}`,
			want:   nil,
		},
		{
			name:   "null source",
			recipe: `source:`,
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := URLs(mustParse(t, tt.recipe))
			if err != nil {
				t.Fatalf("URLs: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestURLsAfterLoadFollowsNamespace(t *testing.T) {
	tree, err := recipe.Parse([]byte(`
source:
  - if: linux
    then:
      url: https://linux.com
    else:
      - url: https://other.com
      - url: https://other-mirror.com
`), recipe.LoadOptions{Namespace: selector.Namespace{"linux": false}})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err := URLs(tree)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"https://other.com", "https://other-mirror.com"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAllKeepsRecords(t *testing.T) {
	got, err := All(mustParse(t, `
source:
  - url: https://foo.com
    sha256: abc
    patches: [fix.patch]
  - git: https://github.com/foo/bar.git
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	patches, ok := node.Lookup(got[0], "patches")
	if !ok {
		t.Fatal("extra keys must pass through")
	}
	if diff := cmp.Diff([]any{"fix.patch"}, node.ToAny(patches)); diff != "" {
		t.Errorf("patches mismatch (-want +got):\n%s", diff)
	}
}
