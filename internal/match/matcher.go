package match

import (
	"errors"
	"fmt"

	"github.com/gnoswap-labs/deduce/internal/expr"
)

// ErrUnbound is returned by Instantiate for a metavariable with no binding.
var ErrUnbound = errors.New("unbound metavariable")

// Match checks whether candidate is an instance of pattern. Every free name
// of the pattern is a metavariable: bare names bind to any subformula,
// applied names bind to a Context. On failure it returns false and empty
// bindings.
func Match(pattern, candidate expr.Expr) (Bindings, bool) {
	return MatchWith(pattern, candidate, Bindings{})
}

// MatchWith is like Match but starts from existing bindings, which must be
// respected. b itself is never modified.
func MatchWith(pattern, candidate expr.Expr, b Bindings) (Bindings, bool) {
	m := &matcher{b: b.clone()}
	if !m.match(pattern, candidate, nil) || !m.resolve() {
		return Bindings{}, false
	}
	return m.b, true
}

// pending is a functional metavariable occurrence whose context cannot be
// computed until its arguments are bound.
type pending struct {
	name      string
	args      []expr.Expr
	candidate expr.Expr
	bound     []string
}

type matcher struct {
	b        Bindings
	deferred []pending
}

// match walks pattern and candidate in parallel. bound holds the names
// bound by quantifiers of the pattern, which only match themselves.
func (m *matcher) match(pattern, candidate expr.Expr, bound []string) bool {
	switch p := pattern.(type) {
	case expr.Top:
		_, ok := candidate.(expr.Top)
		return ok

	case expr.Bottom:
		_, ok := candidate.(expr.Bottom)
		return ok

	case expr.VarExpr:
		if len(p.Args) == 0 {
			if contains(bound, p.Name) {
				c, ok := candidate.(expr.VarExpr)
				return ok && c.Name == p.Name && len(c.Args) == 0
			}
			if prev, ok := m.b.vars[p.Name]; ok {
				return expr.Equal(prev, candidate)
			}
			m.b.vars[p.Name] = candidate
			return true
		}
		m.deferred = append(m.deferred, pending{
			name:      p.Name,
			args:      p.Args,
			candidate: candidate,
			bound:     append([]string(nil), bound...),
		})
		return true

	case expr.NotExpr:
		c, ok := candidate.(expr.NotExpr)
		return ok && m.match(p.Operand, c.Operand, bound)

	case expr.BinaryExpr:
		c, ok := candidate.(expr.BinaryExpr)
		if !ok || c.Op != p.Op {
			return false
		}
		return m.match(p.Left, c.Left, bound) && m.match(p.Right, c.Right, bound)

	case expr.QuantifierExpr:
		c, ok := candidate.(expr.QuantifierExpr)
		if !ok || c.Kind != p.Kind || c.Name != p.Name {
			return false
		}
		return m.match(p.Body, c.Body, append(append([]string(nil), bound...), p.Name))

	default:
		return false
	}
}

// resolve settles deferred functional occurrences until none is left. It
// fails when an occurrence is inconsistent or can never be resolved.
func (m *matcher) resolve() bool {
	for len(m.deferred) > 0 {
		queue := m.deferred
		m.deferred = nil

		progressed := false
		var waiting []pending
		for _, item := range queue {
			ok, done := m.resolveOne(item)
			if !ok {
				return false
			}
			if !done {
				waiting = append(waiting, item)
				continue
			}
			progressed = true
		}
		m.deferred = append(waiting, m.deferred...)
		if !progressed {
			return false
		}
	}
	return true
}

func (m *matcher) resolveOne(item pending) (ok, done bool) {
	if ctx, bound := m.b.funcs[item.name]; bound {
		if ctx.Arity != len(item.args) {
			return false, true
		}
		return m.matchContext(ctx.Body, item.args, item.candidate, item.bound, nil), true
	}

	vals := make([]expr.Expr, len(item.args))
	for i, arg := range item.args {
		v, err := instantiate(arg, m.b, item.bound)
		if err != nil {
			// Not enough is known yet; another occurrence may bind it.
			return true, false
		}
		vals[i] = v
	}
	m.b.funcs[item.name] = Abstract(item.candidate, vals)
	return true, true
}

// matchContext compares a bound context against candidate: literally
// outside the holes, and by matching the argument patterns inside them.
// binders holds the quantifiers of the context around the current
// position; a hole never matches a subformula that uses one of them.
func (m *matcher) matchContext(body expr.Expr, args []expr.Expr, candidate expr.Expr, bound, binders []string) bool {
	if i, ok := holeIndex(body); ok {
		if i >= len(args) || capturedBy(candidate, binders) {
			return false
		}
		return m.match(args[i], candidate, bound)
	}

	switch b := body.(type) {
	case expr.VarExpr:
		c, ok := candidate.(expr.VarExpr)
		if !ok || c.Name != b.Name || len(c.Args) != len(b.Args) {
			return false
		}
		for i := range b.Args {
			if !m.matchContext(b.Args[i], args, c.Args[i], bound, binders) {
				return false
			}
		}
		return true
	case expr.NotExpr:
		c, ok := candidate.(expr.NotExpr)
		return ok && m.matchContext(b.Operand, args, c.Operand, bound, binders)
	case expr.BinaryExpr:
		c, ok := candidate.(expr.BinaryExpr)
		if !ok || c.Op != b.Op {
			return false
		}
		return m.matchContext(b.Left, args, c.Left, bound, binders) && m.matchContext(b.Right, args, c.Right, bound, binders)
	case expr.QuantifierExpr:
		c, ok := candidate.(expr.QuantifierExpr)
		if !ok || c.Kind != b.Kind || c.Name != b.Name {
			return false
		}
		return m.matchContext(b.Body, args, c.Body, bound, withBinder(binders, b.Name))
	default:
		return expr.Equal(body, candidate)
	}
}

// Instantiate substitutes the bindings into pattern.
func Instantiate(pattern expr.Expr, b Bindings) (expr.Expr, error) {
	return instantiate(pattern, b, nil)
}

func instantiate(pattern expr.Expr, b Bindings, bound []string) (expr.Expr, error) {
	switch p := pattern.(type) {
	case expr.VarExpr:
		if len(p.Args) == 0 {
			if contains(bound, p.Name) {
				return p, nil
			}
			if v, ok := b.vars[p.Name]; ok {
				return v, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrUnbound, p.Name)
		}
		ctx, ok := b.funcs[p.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnbound, p.Name)
		}
		args := make([]expr.Expr, len(p.Args))
		for i, arg := range p.Args {
			v, err := instantiate(arg, b, bound)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return ctx.Apply(args...)

	case expr.NotExpr:
		operand, err := instantiate(p.Operand, b, bound)
		if err != nil {
			return nil, err
		}
		return expr.Not(operand), nil

	case expr.BinaryExpr:
		left, err := instantiate(p.Left, b, bound)
		if err != nil {
			return nil, err
		}
		right, err := instantiate(p.Right, b, bound)
		if err != nil {
			return nil, err
		}
		return expr.Binary(p.Op, left, right), nil

	case expr.QuantifierExpr:
		body, err := instantiate(p.Body, b, append(append([]string(nil), bound...), p.Name))
		if err != nil {
			return nil, err
		}
		return expr.QuantifierExpr{Kind: p.Kind, Name: p.Name, Body: body}, nil

	default:
		return pattern, nil
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
