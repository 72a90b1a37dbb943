package match

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gnoswap-labs/deduce/internal/expr"
)

// holePrefix cannot start an identifier, so hole names never collide with
// names produced by the parser.
const holePrefix = "#"

func holeName(i int) string {
	return holePrefix + strconv.Itoa(i)
}

func holeIndex(e expr.Expr) (int, bool) {
	v, ok := e.(expr.VarExpr)
	if !ok || len(v.Args) != 0 || !strings.HasPrefix(v.Name, holePrefix) {
		return 0, false
	}
	i, err := strconv.Atoi(v.Name[len(holePrefix):])
	if err != nil {
		return 0, false
	}
	return i, true
}

// Context is the value bound to a functional metavariable: a formula in
// which holes stand for the arguments of the application.
type Context struct {
	Arity int
	Body  expr.Expr
}

// ErrCapture is returned by Context.Apply when an argument would fall
// under a quantifier of the context that binds one of its free names.
var ErrCapture = errors.New("argument captured by quantifier")

// Abstract builds the context obtained by replacing, top-down, every
// occurrence of args[i] in e by hole i. An occurrence is left in place when
// a quantifier around it binds one of its free names.
func Abstract(e expr.Expr, args []expr.Expr) Context {
	return Context{Arity: len(args), Body: abstract(e, args, nil)}
}

func abstract(e expr.Expr, args []expr.Expr, binders []string) expr.Expr {
	for i, arg := range args {
		if expr.Equal(e, arg) && !capturedBy(arg, binders) {
			return expr.Var(holeName(i))
		}
	}
	switch n := e.(type) {
	case expr.VarExpr:
		if len(n.Args) == 0 {
			return n
		}
		out := make([]expr.Expr, len(n.Args))
		for i, a := range n.Args {
			out[i] = abstract(a, args, binders)
		}
		return expr.VarExpr{Name: n.Name, Args: out}
	case expr.NotExpr:
		return expr.NotExpr{Operand: abstract(n.Operand, args, binders)}
	case expr.BinaryExpr:
		return expr.BinaryExpr{Op: n.Op, Left: abstract(n.Left, args, binders), Right: abstract(n.Right, args, binders)}
	case expr.QuantifierExpr:
		return expr.QuantifierExpr{Kind: n.Kind, Name: n.Name, Body: abstract(n.Body, args, withBinder(binders, n.Name))}
	default:
		return e
	}
}

// Apply fills the holes of the context with args. It fails with ErrCapture
// when a quantifier of the context would bind a free name of an argument.
func (c Context) Apply(args ...expr.Expr) (expr.Expr, error) {
	if len(args) != c.Arity {
		return nil, fmt.Errorf("context of arity %d applied to %d arguments", c.Arity, len(args))
	}
	return fill(c.Body, args, nil)
}

func fill(body expr.Expr, args []expr.Expr, binders []string) (expr.Expr, error) {
	if i, ok := holeIndex(body); ok {
		if i >= len(args) {
			return nil, fmt.Errorf("hole %d out of range", i)
		}
		if capturedBy(args[i], binders) {
			return nil, fmt.Errorf("%w: %s", ErrCapture, args[i])
		}
		return args[i], nil
	}
	switch n := body.(type) {
	case expr.VarExpr:
		if len(n.Args) == 0 {
			return n, nil
		}
		out := make([]expr.Expr, len(n.Args))
		for i, a := range n.Args {
			v, err := fill(a, args, binders)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return expr.VarExpr{Name: n.Name, Args: out}, nil
	case expr.NotExpr:
		operand, err := fill(n.Operand, args, binders)
		if err != nil {
			return nil, err
		}
		return expr.NotExpr{Operand: operand}, nil
	case expr.BinaryExpr:
		left, err := fill(n.Left, args, binders)
		if err != nil {
			return nil, err
		}
		right, err := fill(n.Right, args, binders)
		if err != nil {
			return nil, err
		}
		return expr.BinaryExpr{Op: n.Op, Left: left, Right: right}, nil
	case expr.QuantifierExpr:
		inner, err := fill(n.Body, args, withBinder(binders, n.Name))
		if err != nil {
			return nil, err
		}
		return expr.QuantifierExpr{Kind: n.Kind, Name: n.Name, Body: inner}, nil
	default:
		return body, nil
	}
}

// capturedBy reports whether any free name of e is in binders.
func capturedBy(e expr.Expr, binders []string) bool {
	if len(binders) == 0 {
		return false
	}
	for name := range expr.FreeVars(e) {
		if contains(binders, name) {
			return true
		}
	}
	return false
}

func withBinder(binders []string, name string) []string {
	return append(append([]string(nil), binders...), name)
}

// String renders the context with holes written as _1, _2, ...
func (c Context) String() string {
	body := c.Body
	for i := 0; i < c.Arity; i++ {
		body = expr.Substitute(body, holeName(i), expr.Var("_"+strconv.Itoa(i+1)))
	}
	return body.String()
}

// Bindings maps metavariable names to what they matched.
// The zero value is an empty, usable binding set.
type Bindings struct {
	vars  map[string]expr.Expr
	funcs map[string]Context
}

// Var returns the formula bound to a plain metavariable.
func (b Bindings) Var(name string) (expr.Expr, bool) {
	e, ok := b.vars[name]
	return e, ok
}

// Func returns the context bound to a functional metavariable.
func (b Bindings) Func(name string) (Context, bool) {
	c, ok := b.funcs[name]
	return c, ok
}

// Len returns the number of bound metavariables.
func (b Bindings) Len() int {
	return len(b.vars) + len(b.funcs)
}

// Names returns the bound metavariable names in lexical order.
func (b Bindings) Names() []string {
	names := make([]string, 0, b.Len())
	for name := range b.vars {
		names = append(names, name)
	}
	for name := range b.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of b with name bound to e.
func (b Bindings) With(name string, e expr.Expr) Bindings {
	out := b.clone()
	out.vars[name] = e
	return out
}

// WithFunc returns a copy of b with name bound to c.
func (b Bindings) WithFunc(name string, c Context) Bindings {
	out := b.clone()
	out.funcs[name] = c
	return out
}

func (b Bindings) String() string {
	parts := make([]string, 0, b.Len())
	for _, name := range b.Names() {
		if e, ok := b.vars[name]; ok {
			parts = append(parts, name+" := "+e.String())
			continue
		}
		c := b.funcs[name]
		parts = append(parts, name+" := "+c.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (b Bindings) clone() Bindings {
	out := Bindings{
		vars:  make(map[string]expr.Expr, len(b.vars)),
		funcs: make(map[string]Context, len(b.funcs)),
	}
	for k, v := range b.vars {
		out.vars[k] = v
	}
	for k, v := range b.funcs {
		out.funcs[k] = v
	}
	return out
}
