package expr

import (
	"errors"
	"fmt"
)

// ErrQuantifier is returned when evaluating a quantified formula, which
// has no truth-functional reading.
var ErrQuantifier = errors.New("quantified formula is not truth-functional")

// Env assigns a truth table to every name. A name of arity n owns 2^n
// slots; the slot used for an application is the little-endian bit vector
// of its evaluated arguments.
type Env map[string][]bool

// UnknownNameError reports a name missing from the environment or whose
// table is too small for its arity.
type UnknownNameError struct {
	Name  string
	Arity int
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("no truth table for %q with arity %d", e.Name, e.Arity)
}

// Eval evaluates e as a propositional function over env.
func Eval(e Expr, env Env) (bool, error) {
	switch n := e.(type) {
	case Top:
		return true, nil
	case Bottom:
		return false, nil
	case VarExpr:
		table, ok := env[n.Name]
		if !ok || len(table) < 1<<len(n.Args) {
			return false, &UnknownNameError{Name: n.Name, Arity: len(n.Args)}
		}
		idx := 0
		for i, arg := range n.Args {
			v, err := Eval(arg, env)
			if err != nil {
				return false, err
			}
			if v {
				idx |= 1 << i
			}
		}
		return table[idx], nil
	case NotExpr:
		v, err := Eval(n.Operand, env)
		if err != nil {
			return false, err
		}
		return !v, nil
	case BinaryExpr:
		l, err := Eval(n.Left, env)
		if err != nil {
			return false, err
		}
		r, err := Eval(n.Right, env)
		if err != nil {
			return false, err
		}
		return evalBinary(n.Op, l, r)
	case QuantifierExpr:
		return false, ErrQuantifier
	default:
		return false, fmt.Errorf("cannot evaluate %T", e)
	}
}

func evalBinary(op BinaryOp, l, r bool) (bool, error) {
	switch op {
	case OpAnd:
		return l && r, nil
	case OpOr:
		return l || r, nil
	case OpImplies:
		return !l || r, nil
	case OpIff:
		return l == r, nil
	default:
		return false, fmt.Errorf("unknown connective %v", op)
	}
}
