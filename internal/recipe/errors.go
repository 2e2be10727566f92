package recipe

import "fmt"

// StructuralError reports a recipe whose shape cannot be evaluated, such as
// an "if" key that is not immediately followed by "then".
type StructuralError struct {
	Path string
	Line int
	Msg  string
}

func (e *StructuralError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "(root)"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", loc, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", loc, e.Msg)
}

// SelectorError reports a failure to evaluate the "if" expression of a
// conditional entry.
type SelectorError struct {
	Path string
	Expr string
	Err  error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("%s: evaluating 'if: %s': %s", e.Path, e.Expr, e.Err)
}

func (e *SelectorError) Unwrap() error {
	return e.Err
}
