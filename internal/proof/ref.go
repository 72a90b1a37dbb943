package proof

import "fmt"

// Ref is any reference into a proof: a PremiseRef, a JustificationRef or
// a SubproofRef. Refs are comparable and usable as map keys.
type Ref interface {
	isRef()
	String() string
}

// LineRef is a PremiseRef or a JustificationRef: something with a row
// number and an expression.
type LineRef interface {
	Ref
	isLine()
}

// StepRef is a JustificationRef or a SubproofRef: an entry in a
// subproof's line list.
type StepRef interface {
	Ref
	isStep()
}

// PremiseRef names a premise.
type PremiseRef struct{ h handle }

// JustificationRef names a justification line.
type JustificationRef struct{ h handle }

// SubproofRef names a subproof, including the root.
type SubproofRef struct{ h handle }

func (PremiseRef) isRef()        {}
func (PremiseRef) isLine()       {}
func (JustificationRef) isRef()  {}
func (JustificationRef) isLine() {}
func (JustificationRef) isStep() {}
func (SubproofRef) isRef()       {}
func (SubproofRef) isStep()      {}

func (r PremiseRef) String() string       { return fmt.Sprintf("premise(%d.%d)", r.h.index, r.h.gen) }
func (r JustificationRef) String() string { return fmt.Sprintf("step(%d.%d)", r.h.index, r.h.gen) }
func (r SubproofRef) String() string      { return fmt.Sprintf("subproof(%d.%d)", r.h.index, r.h.gen) }

// IsZero reports whether r is the zero reference, which never resolves.
func (r PremiseRef) IsZero() bool       { return r.h.gen == 0 }
func (r JustificationRef) IsZero() bool { return r.h.gen == 0 }
func (r SubproofRef) IsZero() bool      { return r.h.gen == 0 }
