package lock

import (
	"strings"

	"github.com/bianoble/recipe-compat/internal/source"
)

// Lockfile represents the recipe-sources.lock file: the rendered sources of
// one recipe.
type Lockfile struct {
	Version         int            `yaml:"version"`
	Recipe          string         `yaml:"recipe,omitempty"`
	OverrideVersion string         `yaml:"override_version,omitempty"`
	Sources         []LockedSource `yaml:"sources"`
}

// LockedSource records one rendered source.
type LockedSource struct {
	URL     string   `yaml:"url" json:"url"`
	Mirrors []string `yaml:"mirrors,omitempty" json:"mirrors,omitempty"` // remaining urls of a list-valued url
	List    bool     `yaml:"list,omitempty" json:"list,omitempty"`       // url was declared as a list
	SHA256  string   `yaml:"sha256,omitempty" json:"sha256,omitempty"`
	MD5     string   `yaml:"md5,omitempty" json:"md5,omitempty"`
}

// Key returns the identity of the locked source, comparable with
// source.Resolved keys.
func (ls LockedSource) Key() source.Key {
	urls := append([]string{ls.URL}, ls.Mirrors...)
	return source.Key{
		URL:    strings.Join(urls, "\n"),
		List:   ls.List,
		SHA256: ls.SHA256,
		MD5:    ls.MD5,
	}
}

// FromResolved converts a rendered source into its locked form.
func FromResolved(r source.Resolved) LockedSource {
	ls := LockedSource{
		URL:    r.URL(),
		List:   r.IsList,
		SHA256: r.SHA256,
		MD5:    r.MD5,
	}
	if len(r.URLs) > 1 {
		ls.Mirrors = append([]string(nil), r.URLs[1:]...)
	}
	return ls
}

// New builds a lockfile from a rendered source set.
func New(recipe, overrideVersion string, set *source.Set) *Lockfile {
	lf := &Lockfile{Version: 1, Recipe: recipe, OverrideVersion: overrideVersion}
	for _, r := range set.Items() {
		lf.Sources = append(lf.Sources, FromResolved(r))
	}
	return lf
}
