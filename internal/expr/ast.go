package expr

import "strings"

// Expr represents a formula.
type Expr interface {
	isExpr()
	String() string
}

// Top is the constant true (⊤).
type Top struct{}

func (Top) isExpr() {}
func (Top) String() string {
	return "^|^"
}

// Bottom is the constant false (⊥).
type Bottom struct{}

func (Bottom) isExpr() {}
func (Bottom) String() string {
	return "_|_"
}

// VarExpr is a variable reference or, when Args is non-empty, the
// application of a predicate or function symbol.
type VarExpr struct {
	Name string
	Args []Expr
}

func (VarExpr) isExpr() {}
func (e VarExpr) String() string {
	if len(e.Args) == 0 {
		return e.Name
	}
	var sb strings.Builder
	sb.WriteString(e.Name)
	sb.WriteByte('(')
	for i, arg := range e.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Arity returns the number of arguments the name is applied to.
func (e VarExpr) Arity() int {
	return len(e.Args)
}

// NotExpr is logical negation.
type NotExpr struct {
	Operand Expr
}

func (NotExpr) isExpr() {}
func (e NotExpr) String() string {
	return "~" + e.Operand.String()
}

// BinaryOp represents binary connectives.
type BinaryOp int

const (
	_ BinaryOp = iota
	OpAnd
	OpOr
	OpImplies
	OpIff
)

func (op BinaryOp) String() string {
	switch op {
	case OpAnd:
		return "&"
	case OpOr:
		return "|"
	case OpImplies:
		return "->"
	case OpIff:
		return "<->"
	default:
		return "?"
	}
}

// BinaryExpr represents a binary connective applied to two formulas.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (BinaryExpr) isExpr() {}
func (e BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

// QuantifierKind distinguishes the two quantifiers.
type QuantifierKind int

const (
	_ QuantifierKind = iota
	Forall
	Exists
)

func (k QuantifierKind) String() string {
	switch k {
	case Forall:
		return "forall"
	case Exists:
		return "exists"
	default:
		return "?"
	}
}

// QuantifierExpr binds Name over Body.
type QuantifierExpr struct {
	Kind QuantifierKind
	Name string
	Body Expr
}

func (QuantifierExpr) isExpr() {}
func (e QuantifierExpr) String() string {
	return "(" + e.Kind.String() + " " + e.Name + ", " + e.Body.String() + ")"
}

// Helper functions to construct formulas

// True returns ⊤.
func True() Expr {
	return Top{}
}

// False returns ⊥.
func False() Expr {
	return Bottom{}
}

// Var creates a bare variable.
func Var(name string) Expr {
	return VarExpr{Name: name}
}

// Apply creates a predicate application. With no arguments it is the
// same as Var.
func Apply(name string, args ...Expr) Expr {
	if len(args) == 0 {
		return VarExpr{Name: name}
	}
	cp := make([]Expr, len(args))
	copy(cp, args)
	return VarExpr{Name: name, Args: cp}
}

// Not creates a negation.
func Not(e Expr) Expr {
	return NotExpr{Operand: e}
}

// And creates a conjunction.
func And(left, right Expr) Expr {
	return BinaryExpr{Op: OpAnd, Left: left, Right: right}
}

// Or creates a disjunction.
func Or(left, right Expr) Expr {
	return BinaryExpr{Op: OpOr, Left: left, Right: right}
}

// Implies creates a conditional.
func Implies(left, right Expr) Expr {
	return BinaryExpr{Op: OpImplies, Left: left, Right: right}
}

// Iff creates a biconditional.
func Iff(left, right Expr) Expr {
	return BinaryExpr{Op: OpIff, Left: left, Right: right}
}

// Binary creates a binary formula with the given connective.
func Binary(op BinaryOp, left, right Expr) Expr {
	return BinaryExpr{Op: op, Left: left, Right: right}
}

// ForallOf creates a universally quantified formula.
func ForallOf(name string, body Expr) Expr {
	return QuantifierExpr{Kind: Forall, Name: name, Body: body}
}

// ExistsOf creates an existentially quantified formula.
func ExistsOf(name string, body Expr) Expr {
	return QuantifierExpr{Kind: Exists, Name: name, Body: body}
}

// Conjoin folds the formulas into a left-nested conjunction. It returns
// nil for an empty slice.
func Conjoin(es ...Expr) Expr {
	if len(es) == 0 {
		return nil
	}
	result := es[0]
	for _, e := range es[1:] {
		result = And(result, e)
	}
	return result
}
