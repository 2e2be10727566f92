package source

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bianoble/recipe-compat/internal/jinja"
	"github.com/bianoble/recipe-compat/internal/node"
)

// Resolved is a source record after rendering.
type Resolved struct {
	URLs     []string   // rendered url, or every mirror when declared as a list
	IsList   bool       // url was declared as a list
	Template node.Node  // url as written in the recipe
	SHA256   string     // empty when absent
	MD5      string     // empty when absent
	Context  jinja.Vars // context variables used to render
}

// URL returns the first rendered url.
func (r Resolved) URL() string {
	if len(r.URLs) == 0 {
		return ""
	}
	return r.URLs[0]
}

// Key identifies a Resolved by content. The template and the context
// variables are not part of it.
type Key struct {
	URL    string
	List   bool
	SHA256 string
	MD5    string
}

// Key returns the identity of r.
func (r Resolved) Key() Key {
	return Key{
		URL:    strings.Join(r.URLs, "\n"),
		List:   r.IsList,
		SHA256: r.SHA256,
		MD5:    r.MD5,
	}
}

func (k Key) less(o Key) bool {
	if k.URL != o.URL {
		return k.URL < o.URL
	}
	if k.SHA256 != o.SHA256 {
		return k.SHA256 < o.SHA256
	}
	if k.MD5 != o.MD5 {
		return k.MD5 < o.MD5
	}
	return !k.List && o.List
}

// Set is a set of Resolved keyed by Key. It is safe for concurrent use.
type Set struct {
	mu    sync.Mutex
	items map[Key]Resolved
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{items: make(map[Key]Resolved)}
}

// Add inserts r unless a source with the same key is present. It reports
// whether r was added.
func (s *Set) Add(r Resolved) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := r.Key()
	if _, ok := s.items[k]; ok {
		return false
	}
	s.items[k] = r
	return true
}

// Contains reports whether a source with key k is present.
func (s *Set) Contains(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[k]
	return ok
}

// Len returns the number of distinct sources.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Items returns the sources sorted by key.
func (s *Set) Items() []Resolved {
	s.mu.Lock()
	out := make([]Resolved, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key().less(out[j].Key()) })
	return out
}

// SourceError represents an error associated with a specific source operation.
type SourceError struct {
	Source    string
	Operation string
	Err       error
	Hint      string
}

func (e *SourceError) Error() string {
	msg := fmt.Sprintf("%s: %s failed: %s", e.Source, e.Operation, e.Err)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
