package expr

import (
	"fmt"
	"sort"
)

// FreeVars returns the names occurring in e that are not bound by an
// enclosing quantifier. Applied names (predicates) are included.
func FreeVars(e Expr) map[string]struct{} {
	out := make(map[string]struct{})
	collectFreeVars(e, nil, out)
	return out
}

func collectFreeVars(e Expr, bound []string, out map[string]struct{}) {
	switch n := e.(type) {
	case VarExpr:
		if len(n.Args) == 0 && isBound(bound, n.Name) {
			return
		}
		out[n.Name] = struct{}{}
		for _, arg := range n.Args {
			collectFreeVars(arg, bound, out)
		}
	case NotExpr:
		collectFreeVars(n.Operand, bound, out)
	case BinaryExpr:
		collectFreeVars(n.Left, bound, out)
		collectFreeVars(n.Right, bound, out)
	case QuantifierExpr:
		collectFreeVars(n.Body, append(bound, n.Name), out)
	}
}

func isBound(bound []string, name string) bool {
	for i := len(bound) - 1; i >= 0; i-- {
		if bound[i] == name {
			return true
		}
	}
	return false
}

// SortedFreeVars returns the union of the free names of all formulas in
// lexical order.
func SortedFreeVars(es ...Expr) []string {
	union := make(map[string]struct{})
	for _, e := range es {
		for name := range FreeVars(e) {
			union[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(union))
	for name := range union {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ArityConflictError reports a name used with two different argument
// counts.
type ArityConflictError struct {
	Name   string
	First  int
	Second int
}

func (e *ArityConflictError) Error() string {
	return fmt.Sprintf("name %q used with arity %d and arity %d", e.Name, e.First, e.Second)
}

// InferArities records in arities the number of arguments every free name
// of e is applied to. A name seen with an arity different from the one
// already recorded yields an *ArityConflictError; arities may then be
// partially updated.
func InferArities(e Expr, arities map[string]int) error {
	return inferArities(e, nil, arities)
}

func inferArities(e Expr, bound []string, arities map[string]int) error {
	switch n := e.(type) {
	case VarExpr:
		if len(n.Args) == 0 && isBound(bound, n.Name) {
			return nil
		}
		if prev, ok := arities[n.Name]; ok && prev != len(n.Args) {
			return &ArityConflictError{Name: n.Name, First: prev, Second: len(n.Args)}
		}
		arities[n.Name] = len(n.Args)
		for _, arg := range n.Args {
			if err := inferArities(arg, bound, arities); err != nil {
				return err
			}
		}
	case NotExpr:
		return inferArities(n.Operand, bound, arities)
	case BinaryExpr:
		if err := inferArities(n.Left, bound, arities); err != nil {
			return err
		}
		return inferArities(n.Right, bound, arities)
	case QuantifierExpr:
		return inferArities(n.Body, append(bound, n.Name), arities)
	}
	return nil
}

// HasQuantifier reports whether e contains a quantifier node.
func HasQuantifier(e Expr) bool {
	switch n := e.(type) {
	case QuantifierExpr:
		return true
	case VarExpr:
		for _, arg := range n.Args {
			if HasQuantifier(arg) {
				return true
			}
		}
	case NotExpr:
		return HasQuantifier(n.Operand)
	case BinaryExpr:
		return HasQuantifier(n.Left) || HasQuantifier(n.Right)
	}
	return false
}
