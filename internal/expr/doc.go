// Package expr implements the formula representation shared by the rule
// catalog, the pattern matcher and the proof tree.
//
// Formulas are immutable value trees over a small alphabet:
//
//   - the boolean atoms ⊤ (Top) and ⊥ (Bottom)
//   - variables and predicate applications (Var), a bare variable being
//     the zero-arity case
//   - negation (Not)
//   - conjunction, disjunction, conditional and biconditional (Binary)
//   - universal and existential quantification (Quantifier)
//
// Two formulas are equal only when they are structurally identical. No
// normalization takes place: P & Q and Q & P are different terms even
// though they are logically equivalent.
//
// The package also carries the analyses needed to validate rule tables:
// free-variable collection, arity inference and truth-functional
// evaluation over explicit truth tables.
package expr
