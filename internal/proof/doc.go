// Package proof holds natural-deduction proofs and checks their steps.
//
// A Proof is a tree of subproofs. Each subproof has an ordered list of
// premises and an ordered list of lines, where a line is either a
// justification step or a nested subproof. Every node is addressed by a
// typed reference (PremiseRef, JustificationRef, SubproofRef) backed by a
// generational arena: inserting a node never renumbers others, and
// removing one only invalidates the references to what was removed.
// Lookups through a stale reference report not found.
//
// Scoping follows the usual discipline. A step may cite the premises of
// its own and every enclosing subproof, and the steps and closed subproofs
// that come before it in those subproofs.
//
// Structural edits that would break the tree (removing the last top-level
// premise, a subproof's own premise, or the root) are refused and report
// false instead of failing.
//
// The Verifier checks one line at a time against a rules.Catalog. Results
// are never cached.
package proof
