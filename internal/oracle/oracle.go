// Package oracle checks by brute force that the two sides of a rewrite
// clause are truth-functionally equivalent.
//
// Every free name of a clause is read as a boolean function of its
// inferred arity, so a name of arity n contributes 2^n table slots. The
// oracle enumerates every assignment of all slots and evaluates both sides
// under each one. The cost is exponential in the total slot count; it is
// meant for small static rule tables, never for user proofs.
package oracle

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gnoswap-labs/deduce/internal/expr"
)

// MaxSlots bounds the number of table slots of one clause.
const MaxSlots = 24

// ErrTooLarge is returned when a clause needs more than MaxSlots slots.
var ErrTooLarge = errors.New("clause truth table too large")

// MismatchError describes an assignment under which the two sides differ.
type MismatchError struct {
	LHS, RHS expr.Expr
	Env      expr.Env
	Left     bool
	Right    bool
}

func (e *MismatchError) Error() string {
	names := make([]string, 0, len(e.Env))
	for name := range e.Env {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, formatTable(e.Env[name])))
	}
	return fmt.Sprintf("%s and %s differ under {%s}: %t vs %t",
		e.LHS, e.RHS, strings.Join(parts, ", "), e.Left, e.Right)
}

func formatTable(table []bool) string {
	var sb strings.Builder
	for _, v := range table {
		if v {
			sb.WriteByte('T')
		} else {
			sb.WriteByte('F')
		}
	}
	return sb.String()
}

// Arities infers the arity of every free name across both sides.
func Arities(lhs, rhs expr.Expr) (map[string]int, error) {
	arities := make(map[string]int)
	if err := expr.InferArities(lhs, arities); err != nil {
		return nil, fmt.Errorf("left side %s: %w", lhs, err)
	}
	if err := expr.InferArities(rhs, arities); err != nil {
		return nil, fmt.Errorf("right side %s: %w", rhs, err)
	}
	return arities, nil
}

// Slots returns the total number of truth-table slots of the clause.
func Slots(arities map[string]int) int {
	total := 0
	for _, arity := range arities {
		total += 1 << arity
	}
	return total
}

// CheckClause returns nil when lhs and rhs evaluate identically under
// every assignment, and a *MismatchError for the first row where they
// don't.
func CheckClause(lhs, rhs expr.Expr) error {
	if expr.HasQuantifier(lhs) || expr.HasQuantifier(rhs) {
		return fmt.Errorf("clause %s = %s: %w", lhs, rhs, expr.ErrQuantifier)
	}

	arities, err := Arities(lhs, rhs)
	if err != nil {
		return err
	}
	total := Slots(arities)
	if total > MaxSlots {
		return fmt.Errorf("clause %s = %s needs %d slots: %w", lhs, rhs, total, ErrTooLarge)
	}

	names := expr.SortedFreeVars(lhs, rhs)
	var mismatch error
	forEachTable(total, func(table []bool) bool {
		env := make(expr.Env, len(names))
		i := 0
		for _, name := range names {
			n := 1 << arities[name]
			env[name] = table[i : i+n]
			i += n
		}

		left, err := expr.Eval(lhs, env)
		if err != nil {
			mismatch = err
			return false
		}
		right, err := expr.Eval(rhs, env)
		if err != nil {
			mismatch = err
			return false
		}
		if left != right {
			mismatch = &MismatchError{LHS: lhs, RHS: rhs, Env: copyEnv(env), Left: left, Right: right}
			return false
		}
		return true
	})
	return mismatch
}

// forEachTable calls f with every assignment of n booleans, row x setting
// slot i to bit i of x. It stops early when f returns false.
func forEachTable(n int, f func([]bool) bool) {
	table := make([]bool, n)
	for x := 0; x < 1<<n; x++ {
		for i := range table {
			table[i] = x&(1<<i) != 0
		}
		if !f(table) {
			return
		}
	}
}

func copyEnv(env expr.Env) expr.Env {
	out := make(expr.Env, len(env))
	for k, v := range env {
		out[k] = append([]bool(nil), v...)
	}
	return out
}

// Clause is one pair of formulas to check.
type Clause struct {
	Name     string
	LHS, RHS expr.Expr
}

// Failure pairs a clause with the reason it failed.
type Failure struct {
	Clause Clause
	Err    error
}

// Report summarizes a CheckAll run.
type Report struct {
	Checked  int
	Failures []Failure
}

// OK reports whether every clause passed.
func (r Report) OK() bool {
	return len(r.Failures) == 0
}

// Summary returns a human-readable summary of the run.
func (r Report) Summary() string {
	return fmt.Sprintf("Checked %d clauses: %d equivalent, %d failed",
		r.Checked, r.Checked-len(r.Failures), len(r.Failures))
}

// CheckAll checks every clause. progress, if non-nil, is called once per
// clause after it has been checked.
func CheckAll(clauses []Clause, progress func(Clause, error)) Report {
	report := Report{Checked: len(clauses)}
	for _, c := range clauses {
		err := CheckClause(c.LHS, c.RHS)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Clause: c, Err: err})
		}
		if progress != nil {
			progress(c, err)
		}
	}
	return report
}
