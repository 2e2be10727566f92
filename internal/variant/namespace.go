package variant

import (
	"strings"

	"github.com/bianoble/recipe-compat/internal/conditional"
	"github.com/bianoble/recipe-compat/internal/selector"
)

var falseValues = map[string]bool{"": true, "false": true, "0": true, "no": true, "off": true}

// Truthy reports whether a combination value counts as set.
func Truthy(value string) bool {
	return !falseValues[strings.ToLower(strings.TrimSpace(value))]
}

// Namespace returns the selector namespace of c: the platform flags of its
// target_platform, the subdir itself, and every combination key bound to
// the truthiness of its value.
func Namespace(c Combination) selector.Namespace {
	subdir := c[TargetPlatformKey]
	ns := selector.PlatformNamespace(subdir)
	if subdir != "" {
		ns[subdir] = true
	}
	for k, v := range c {
		ns[k] = Truthy(v)
	}
	return ns
}

// Predicate evaluates selectors against c. Names absent from the
// combination are false, so unrelated variant keys never fail a render.
func Predicate(c Combination) conditional.Predicate {
	ns := Namespace(c)
	return func(expr string) (bool, error) {
		e, err := selector.Parse(expr)
		if err != nil {
			return false, err
		}
		return e.EvalDefault(ns, false), nil
	}
}
