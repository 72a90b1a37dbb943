package proof

import (
	"github.com/gnoswap-labs/deduce/internal/expr"
	"github.com/gnoswap-labs/deduce/internal/rules"
)

// Justification is a proof step: a conclusion, the rule it cites and the
// lines and subproofs it depends on. A nil Conclusion means the text of
// the line has not been parsed.
type Justification struct {
	Conclusion   expr.Expr
	Rule         rules.ID
	LineDeps     []LineRef
	SubproofDeps []SubproofRef
}

func (j Justification) clone() Justification {
	j.LineDeps = append([]LineRef(nil), j.LineDeps...)
	j.SubproofDeps = append([]SubproofRef(nil), j.SubproofDeps...)
	return j
}

// EmptyStep returns the step a new line starts with: no text and no rule.
func EmptyStep() Justification {
	return Justification{Rule: rules.Empty}
}

type premise struct {
	expr   expr.Expr
	parent SubproofRef
}

type step struct {
	just   Justification
	parent SubproofRef
}

type subproof struct {
	parent   SubproofRef // zero for the root
	premises []PremiseRef
	lines    []StepRef
}

// Proof is a tree of subproofs. The zero value is not usable; call New.
//
// A Proof is not safe for concurrent use.
type Proof struct {
	premises  arena[premise]
	steps     arena[step]
	subproofs arena[subproof]
	root      SubproofRef
}

// New returns a proof with one empty premise and one empty step.
func New() *Proof {
	p := &Proof{}
	p.root = SubproofRef{p.subproofs.insert(subproof{})}
	p.AddPremise(nil)
	p.AddStep(EmptyStep())
	return p
}

// Root returns the top-level subproof.
func (p *Proof) Root() SubproofRef {
	return p.root
}

func (p *Proof) sub(ref SubproofRef) (*subproof, bool) {
	return p.subproofs.get(ref.h)
}

// AddPremise appends a premise to the top level.
func (p *Proof) AddPremise(e expr.Expr) PremiseRef {
	ref, _ := p.AddPremiseTo(p.root, e)
	return ref
}

// AddPremiseTo appends a premise to a subproof.
func (p *Proof) AddPremiseTo(sub SubproofRef, e expr.Expr) (PremiseRef, bool) {
	s, ok := p.sub(sub)
	if !ok {
		return PremiseRef{}, false
	}
	ref := PremiseRef{p.premises.insert(premise{expr: e, parent: sub})}
	s.premises = append(s.premises, ref)
	return ref, true
}

// AddPremiseRelative inserts a premise before or after an existing one, in
// the same subproof.
func (p *Proof) AddPremiseRelative(e expr.Expr, at PremiseRef, after bool) (PremiseRef, bool) {
	pr, ok := p.premises.get(at.h)
	if !ok {
		return PremiseRef{}, false
	}
	s, _ := p.sub(pr.parent)
	i := indexOf(s.premises, at)
	if after {
		i++
	}
	ref := PremiseRef{p.premises.insert(premise{expr: e, parent: pr.parent})}
	s.premises = insertAt(s.premises, i, ref)
	return ref, true
}

// PrependStep inserts a step as the first top-level line.
func (p *Proof) PrependStep(j Justification) JustificationRef {
	ref, _ := p.PrependStepTo(p.root, j)
	return ref
}

// PrependStepTo inserts a step as the first line of a subproof.
func (p *Proof) PrependStepTo(sub SubproofRef, j Justification) (JustificationRef, bool) {
	return p.insertStep(sub, 0, j)
}

// AddStep appends a step to the top level.
func (p *Proof) AddStep(j Justification) JustificationRef {
	ref, _ := p.AddStepTo(p.root, j)
	return ref
}

// AddStepTo appends a step to a subproof.
func (p *Proof) AddStepTo(sub SubproofRef, j Justification) (JustificationRef, bool) {
	s, ok := p.sub(sub)
	if !ok {
		return JustificationRef{}, false
	}
	return p.insertStep(sub, len(s.lines), j)
}

// AddStepRelative inserts a step before or after an existing step or
// subproof, in the same enclosing subproof.
func (p *Proof) AddStepRelative(j Justification, at StepRef, after bool) (JustificationRef, bool) {
	parent, i, ok := p.stepPosition(at)
	if !ok {
		return JustificationRef{}, false
	}
	if after {
		i++
	}
	return p.insertStep(parent, i, j)
}

func (p *Proof) insertStep(sub SubproofRef, i int, j Justification) (JustificationRef, bool) {
	s, ok := p.sub(sub)
	if !ok {
		return JustificationRef{}, false
	}
	ref := JustificationRef{p.steps.insert(step{just: j.clone(), parent: sub})}
	s.lines = insertAt(s.lines, i, StepRef(ref))
	return ref, true
}

// AddSubproofRelative inserts a new subproof before or after an existing
// step or subproof. The new subproof holds one empty premise and one empty
// step.
func (p *Proof) AddSubproofRelative(at StepRef, after bool) (SubproofRef, bool) {
	parent, i, ok := p.stepPosition(at)
	if !ok {
		return SubproofRef{}, false
	}
	if after {
		i++
	}
	return p.insertSubproof(parent, i), true
}

// AddSubproofTo appends a new subproof, holding one empty premise and one
// empty step, to the lines of parent.
func (p *Proof) AddSubproofTo(parent SubproofRef) (SubproofRef, bool) {
	s, ok := p.sub(parent)
	if !ok {
		return SubproofRef{}, false
	}
	return p.insertSubproof(parent, len(s.lines)), true
}

func (p *Proof) insertSubproof(parent SubproofRef, i int) SubproofRef {
	ref := SubproofRef{p.subproofs.insert(subproof{parent: parent})}
	s, _ := p.sub(parent)
	s.lines = insertAt(s.lines, i, StepRef(ref))
	p.AddPremiseTo(ref, nil)
	p.AddStepTo(ref, EmptyStep())
	return ref
}

// stepPosition returns the enclosing subproof of a step or subproof and
// its index in that subproof's lines.
func (p *Proof) stepPosition(at StepRef) (SubproofRef, int, bool) {
	var parent SubproofRef
	switch r := at.(type) {
	case JustificationRef:
		st, ok := p.steps.get(r.h)
		if !ok {
			return SubproofRef{}, 0, false
		}
		parent = st.parent
	case SubproofRef:
		s, ok := p.sub(r)
		if !ok || r == p.root {
			return SubproofRef{}, 0, false
		}
		parent = s.parent
	default:
		return SubproofRef{}, 0, false
	}
	s, _ := p.sub(parent)
	return parent, indexOf(s.lines, at), true
}

// MayRemoveLine reports whether RemoveLine would remove ref. Steps can
// always be removed. A top-level premise can be removed while others
// remain; a subproof's premises only go with the subproof.
func (p *Proof) MayRemoveLine(ref LineRef) bool {
	switch r := ref.(type) {
	case PremiseRef:
		pr, ok := p.premises.get(r.h)
		if !ok || pr.parent != p.root {
			return false
		}
		root, _ := p.sub(p.root)
		return len(root.premises) > 1
	case JustificationRef:
		_, ok := p.steps.get(r.h)
		return ok
	default:
		return false
	}
}

// RemoveLine deletes a premise or step. It does nothing and returns false
// when MayRemoveLine does not allow it. Dependencies on the removed line
// are dropped from every step.
func (p *Proof) RemoveLine(ref LineRef) bool {
	if !p.MayRemoveLine(ref) {
		return false
	}
	switch r := ref.(type) {
	case PremiseRef:
		pr, _ := p.premises.get(r.h)
		s, _ := p.sub(pr.parent)
		s.premises = removeValue(s.premises, r)
		p.premises.remove(r.h)
	case JustificationRef:
		st, _ := p.steps.get(r.h)
		s, _ := p.sub(st.parent)
		s.lines = removeValue(s.lines, StepRef(r))
		p.steps.remove(r.h)
	}
	p.purge(map[Ref]struct{}{ref: {}})
	return true
}

// RemoveSubproof deletes a subproof with everything nested in it. The root
// cannot be removed.
func (p *Proof) RemoveSubproof(ref SubproofRef) bool {
	s, ok := p.sub(ref)
	if !ok || ref == p.root {
		return false
	}
	parent, _ := p.sub(s.parent)
	parent.lines = removeValue(parent.lines, StepRef(ref))

	removed := make(map[Ref]struct{})
	p.drop(ref, removed)
	p.purge(removed)
	return true
}

func (p *Proof) drop(ref SubproofRef, removed map[Ref]struct{}) {
	s, _ := p.sub(ref)
	for _, pr := range s.premises {
		p.premises.remove(pr.h)
		removed[pr] = struct{}{}
	}
	for _, line := range s.lines {
		switch r := line.(type) {
		case JustificationRef:
			p.steps.remove(r.h)
			removed[r] = struct{}{}
		case SubproofRef:
			p.drop(r, removed)
		}
	}
	p.subproofs.remove(ref.h)
	removed[ref] = struct{}{}
}

// purge drops dependencies on removed refs.
func (p *Proof) purge(removed map[Ref]struct{}) {
	p.steps.each(func(_ handle, st *step) {
		st.just.LineDeps = filter(st.just.LineDeps, func(r LineRef) bool {
			_, gone := removed[r]
			return !gone
		})
		st.just.SubproofDeps = filter(st.just.SubproofDeps, func(r SubproofRef) bool {
			_, gone := removed[r]
			return !gone
		})
	})
}

// WithMutPremise calls f with the premise's expression, which f may
// replace.
func (p *Proof) WithMutPremise(ref PremiseRef, f func(e *expr.Expr)) bool {
	pr, ok := p.premises.get(ref.h)
	if !ok {
		return false
	}
	f(&pr.expr)
	return true
}

// WithMutStep calls f with the step's justification, which f may modify.
func (p *Proof) WithMutStep(ref JustificationRef, f func(j *Justification)) bool {
	st, ok := p.steps.get(ref.h)
	if !ok {
		return false
	}
	f(&st.just)
	return true
}

// ToggleLineDep adds dep to the step's line dependencies, or removes it if
// present. Adding requires dep to be visible from the step.
func (p *Proof) ToggleLineDep(ref JustificationRef, dep LineRef) bool {
	st, ok := p.steps.get(ref.h)
	if !ok {
		return false
	}
	if i := indexOf(st.just.LineDeps, dep); i >= 0 {
		st.just.LineDeps = append(st.just.LineDeps[:i:i], st.just.LineDeps[i+1:]...)
		return true
	}
	if !p.CanReferenceDep(ref, dep) {
		return false
	}
	st.just.LineDeps = append(st.just.LineDeps, dep)
	return true
}

// ToggleSubproofDep is ToggleLineDep for subproof dependencies.
func (p *Proof) ToggleSubproofDep(ref JustificationRef, dep SubproofRef) bool {
	st, ok := p.steps.get(ref.h)
	if !ok {
		return false
	}
	if i := indexOf(st.just.SubproofDeps, dep); i >= 0 {
		st.just.SubproofDeps = append(st.just.SubproofDeps[:i:i], st.just.SubproofDeps[i+1:]...)
		return true
	}
	if !p.CanReferenceDep(ref, dep) {
		return false
	}
	st.just.SubproofDeps = append(st.just.SubproofDeps, dep)
	return true
}

func indexOf[T comparable](s []T, v T) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func insertAt[T any](s []T, i int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeValue[T comparable](s []T, v T) []T {
	if i := indexOf(s, v); i >= 0 {
		return append(s[:i], s[i+1:]...)
	}
	return s
}

func filter[T any](s []T, keep func(T) bool) []T {
	out := s[:0]
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
