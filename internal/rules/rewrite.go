package rules

import (
	"errors"
	"fmt"

	"github.com/gnoswap-labs/deduce/internal/expr"
	"github.com/gnoswap-labs/deduce/internal/match"
	"github.com/gnoswap-labs/deduce/internal/parser"
)

// MaxDeps is the largest number of dependencies an equivalence step may
// cite. Several dependencies are conjoined in every order before
// matching, so the cost grows factorially.
const MaxDeps = 3

// ErrNoMatch is returned by Rewrite when the clause does not apply.
var ErrNoMatch = errors.New("pattern does not match")

// Direction selects which side of a clause is matched.
type Direction int

const (
	// Forward rewrites an instance of LHS into RHS.
	Forward Direction = iota
	// Backward rewrites an instance of RHS into LHS.
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "?"
	}
}

// Clause is one pattern pair of a rewrite rule. It licenses rewriting in
// both directions.
type Clause struct {
	LHS expr.Expr
	RHS expr.Expr
}

func (c Clause) String() string {
	return c.LHS.String() + " = " + c.RHS.String()
}

// sides returns the matched side and the produced side for d.
func (c Clause) sides(d Direction) (from, to expr.Expr) {
	if d == Backward {
		return c.RHS, c.LHS
	}
	return c.LHS, c.RHS
}

// Arities infers the metavariable arities of the clause. A name used with
// two arities is an error.
func (c Clause) Arities() (map[string]int, error) {
	arities := make(map[string]int)
	if err := expr.InferArities(c.LHS, arities); err != nil {
		return nil, err
	}
	if err := expr.InferArities(c.RHS, arities); err != nil {
		return nil, err
	}
	return arities, nil
}

// Instantiate produces the other side of the clause for bindings obtained
// by matching the side selected by d.
func (c Clause) Instantiate(d Direction, b match.Bindings) (expr.Expr, error) {
	_, to := c.sides(d)
	return match.Instantiate(to, b)
}

// RewriteRule is a named equivalence made of one or more clauses.
type RewriteRule struct {
	Name       string
	Reductions []Clause
}

// FromPatterns parses the pattern pairs of a rule. It fails when a pattern
// does not parse or a clause uses a name with two different arities.
func FromPatterns(name string, pairs [][2]string) (*RewriteRule, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("rule %s: no clauses", name)
	}
	rule := &RewriteRule{Name: name, Reductions: make([]Clause, 0, len(pairs))}
	for i, pair := range pairs {
		lhs, err := parser.Parse(pair[0])
		if err != nil {
			return nil, fmt.Errorf("rule %s clause %d: %w", name, i, err)
		}
		rhs, err := parser.Parse(pair[1])
		if err != nil {
			return nil, fmt.Errorf("rule %s clause %d: %w", name, i, err)
		}
		c := Clause{LHS: lhs, RHS: rhs}
		if _, err := c.Arities(); err != nil {
			return nil, fmt.Errorf("rule %s clause %d: %w", name, i, err)
		}
		rule.Reductions = append(rule.Reductions, c)
	}
	return rule, nil
}

// Application records how a rule licensed a step.
type Application struct {
	Clause    int
	Direction Direction
	Bindings  match.Bindings
}

// Applies reports whether some clause, in some direction, turns the cited
// dependencies into conclusion.
func (r *RewriteRule) Applies(conclusion expr.Expr, deps []expr.Expr) bool {
	_, ok := r.Find(conclusion, deps)
	return ok
}

// Find searches the clauses in order, forward before backward, for one
// whose matched side accepts the dependency candidate and whose other side
// accepts conclusion under the same bindings.
func (r *RewriteRule) Find(conclusion expr.Expr, deps []expr.Expr) (Application, bool) {
	candidates := dependencyCandidates(deps)
	for i, c := range r.Reductions {
		for _, d := range []Direction{Forward, Backward} {
			from, to := c.sides(d)
			for _, candidate := range candidates {
				b, ok := match.Match(from, candidate)
				if !ok {
					continue
				}
				full, ok := match.MatchWith(to, conclusion, b)
				if !ok {
					continue
				}
				return Application{Clause: i, Direction: d, Bindings: full}, true
			}
		}
	}
	return Application{}, false
}

// Rewrite applies clause i of the rule to e in direction d.
func (r *RewriteRule) Rewrite(d Direction, i int, e expr.Expr) (expr.Expr, error) {
	if i < 0 || i >= len(r.Reductions) {
		return nil, fmt.Errorf("rule %s has no clause %d", r.Name, i)
	}
	c := r.Reductions[i]
	from, _ := c.sides(d)
	b, ok := match.Match(from, e)
	if !ok {
		return nil, fmt.Errorf("rule %s clause %d %s on %s: %w", r.Name, i, d, e, ErrNoMatch)
	}
	return c.Instantiate(d, b)
}

// dependencyCandidates returns the formulas a clause side is matched
// against: the dependency itself, or the left-nested conjunction of
// several dependencies in every order.
func dependencyCandidates(deps []expr.Expr) []expr.Expr {
	switch {
	case len(deps) == 0 || len(deps) > MaxDeps:
		return nil
	case len(deps) == 1:
		return []expr.Expr{deps[0]}
	}

	seen := make(map[string]struct{})
	var out []expr.Expr
	permute(deps, func(order []expr.Expr) {
		c := expr.Conjoin(order...)
		key := expr.Key(c)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, c)
	})
	return out
}

func permute(items []expr.Expr, f func([]expr.Expr)) {
	work := append([]expr.Expr(nil), items...)
	var rec func(k int)
	rec = func(k int) {
		if k == len(work) {
			f(work)
			return
		}
		for i := k; i < len(work); i++ {
			work[k], work[i] = work[i], work[k]
			rec(k + 1)
			work[k], work[i] = work[i], work[k]
		}
	}
	rec(0)
}
