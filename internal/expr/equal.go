package expr

// Equal reports whether a and b are structurally identical.
func Equal(a, b Expr) bool {
	switch left := a.(type) {
	case Top:
		_, ok := b.(Top)
		return ok
	case Bottom:
		_, ok := b.(Bottom)
		return ok
	case VarExpr:
		right, ok := b.(VarExpr)
		if !ok {
			return false
		}
		if left.Name != right.Name || len(left.Args) != len(right.Args) {
			return false
		}
		for i := range left.Args {
			if !Equal(left.Args[i], right.Args[i]) {
				return false
			}
		}
		return true
	case NotExpr:
		right, ok := b.(NotExpr)
		if !ok {
			return false
		}
		return Equal(left.Operand, right.Operand)
	case BinaryExpr:
		right, ok := b.(BinaryExpr)
		if !ok {
			return false
		}
		if left.Op != right.Op {
			return false
		}
		return Equal(left.Left, right.Left) && Equal(left.Right, right.Right)
	case QuantifierExpr:
		right, ok := b.(QuantifierExpr)
		if !ok {
			return false
		}
		if left.Kind != right.Kind || left.Name != right.Name {
			return false
		}
		return Equal(left.Body, right.Body)
	case nil:
		return b == nil
	default:
		return false
	}
}

// Key returns a canonical string for e. Structurally equal formulas have
// equal keys, so the key can index maps and sets of formulas.
func Key(e Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}

// Size returns the number of nodes in e.
func Size(e Expr) int {
	switch n := e.(type) {
	case VarExpr:
		size := 1
		for _, arg := range n.Args {
			size += Size(arg)
		}
		return size
	case NotExpr:
		return 1 + Size(n.Operand)
	case BinaryExpr:
		return 1 + Size(n.Left) + Size(n.Right)
	case QuantifierExpr:
		return 1 + Size(n.Body)
	case nil:
		return 0
	default:
		return 1
	}
}

// Replace returns e with every subterm structurally equal to target
// replaced by replacement. Replacement is top-down: a replaced subterm is
// not searched again.
func Replace(e, target, replacement Expr) Expr {
	if Equal(e, target) {
		return replacement
	}
	switch n := e.(type) {
	case VarExpr:
		if len(n.Args) == 0 {
			return n
		}
		args := make([]Expr, len(n.Args))
		for i, arg := range n.Args {
			args[i] = Replace(arg, target, replacement)
		}
		return VarExpr{Name: n.Name, Args: args}
	case NotExpr:
		return NotExpr{Operand: Replace(n.Operand, target, replacement)}
	case BinaryExpr:
		return BinaryExpr{
			Op:    n.Op,
			Left:  Replace(n.Left, target, replacement),
			Right: Replace(n.Right, target, replacement),
		}
	case QuantifierExpr:
		return QuantifierExpr{Kind: n.Kind, Name: n.Name, Body: Replace(n.Body, target, replacement)}
	default:
		return e
	}
}

// Substitute replaces every free occurrence of the bare variable name with
// replacement. Occurrences bound by a quantifier over name are left alone.
// Binders are never renamed, so a free name of replacement can be captured
// by a quantifier around the occurrence.
func Substitute(e Expr, name string, replacement Expr) Expr {
	switch n := e.(type) {
	case VarExpr:
		if len(n.Args) == 0 {
			if n.Name == name {
				return replacement
			}
			return n
		}
		args := make([]Expr, len(n.Args))
		for i, arg := range n.Args {
			args[i] = Substitute(arg, name, replacement)
		}
		return VarExpr{Name: n.Name, Args: args}
	case NotExpr:
		return NotExpr{Operand: Substitute(n.Operand, name, replacement)}
	case BinaryExpr:
		return BinaryExpr{
			Op:    n.Op,
			Left:  Substitute(n.Left, name, replacement),
			Right: Substitute(n.Right, name, replacement),
		}
	case QuantifierExpr:
		if n.Name == name {
			return n
		}
		return QuantifierExpr{Kind: n.Kind, Name: n.Name, Body: Substitute(n.Body, name, replacement)}
	default:
		return e
	}
}
