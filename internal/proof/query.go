package proof

import "github.com/gnoswap-labs/deduce/internal/expr"

// Subproof is a read-only snapshot of one subproof.
type Subproof struct {
	Ref      SubproofRef
	Parent   SubproofRef // zero for the root
	Premises []PremiseRef
	Lines    []StepRef
}

// Contains reports whether ref names something still in the tree.
func (p *Proof) Contains(ref Ref) bool {
	switch r := ref.(type) {
	case PremiseRef:
		_, ok := p.premises.get(r.h)
		return ok
	case JustificationRef:
		_, ok := p.steps.get(r.h)
		return ok
	case SubproofRef:
		_, ok := p.sub(r)
		return ok
	default:
		return false
	}
}

// ParentOfLine returns the subproof directly containing ref. For a
// subproof that is its enclosing subproof; the root has none.
func (p *Proof) ParentOfLine(ref Ref) (SubproofRef, bool) {
	switch r := ref.(type) {
	case PremiseRef:
		if pr, ok := p.premises.get(r.h); ok {
			return pr.parent, true
		}
	case JustificationRef:
		if st, ok := p.steps.get(r.h); ok {
			return st.parent, true
		}
	case SubproofRef:
		if s, ok := p.sub(r); ok && r != p.root {
			return s.parent, true
		}
	}
	return SubproofRef{}, false
}

// LookupSubproof returns a snapshot of a subproof.
func (p *Proof) LookupSubproof(ref SubproofRef) (Subproof, bool) {
	s, ok := p.sub(ref)
	if !ok {
		return Subproof{}, false
	}
	return Subproof{
		Ref:      ref,
		Parent:   s.parent,
		Premises: append([]PremiseRef(nil), s.premises...),
		Lines:    append([]StepRef(nil), s.lines...),
	}, true
}

// LookupPremise returns a premise's expression, nil if unparsed.
func (p *Proof) LookupPremise(ref PremiseRef) (expr.Expr, bool) {
	pr, ok := p.premises.get(ref.h)
	if !ok {
		return nil, false
	}
	return pr.expr, true
}

// LookupJustification returns a copy of a step.
func (p *Proof) LookupJustification(ref JustificationRef) (Justification, bool) {
	st, ok := p.steps.get(ref.h)
	if !ok {
		return Justification{}, false
	}
	return st.just.clone(), true
}

// LookupExpr returns the expression of a premise or the conclusion of a
// step. The expression is nil when the line is unparsed.
func (p *Proof) LookupExpr(ref LineRef) (expr.Expr, bool) {
	switch r := ref.(type) {
	case PremiseRef:
		return p.LookupPremise(r)
	case JustificationRef:
		st, ok := p.steps.get(r.h)
		if !ok {
			return nil, false
		}
		return st.just.Conclusion, true
	default:
		return nil, false
	}
}

// Premises returns the top-level premises in order.
func (p *Proof) Premises() []PremiseRef {
	s, _ := p.sub(p.root)
	return append([]PremiseRef(nil), s.premises...)
}

// Lines returns the top-level steps and subproofs in order.
func (p *Proof) Lines() []StepRef {
	s, _ := p.sub(p.root)
	return append([]StepRef(nil), s.lines...)
}

// scope is one level of the visibility chain of a line: the subproof and
// the number of its lines that precede the line.
type scope struct {
	sub    SubproofRef
	cutoff int
}

// scopes returns the visibility chain of a step, innermost first.
func (p *Proof) scopes(ref JustificationRef) ([]scope, bool) {
	st, ok := p.steps.get(ref.h)
	if !ok {
		return nil, false
	}
	var chain []scope
	var at StepRef = ref
	cur := st.parent
	for {
		s, _ := p.sub(cur)
		chain = append(chain, scope{sub: cur, cutoff: indexOf(s.lines, at)})
		if cur == p.root {
			return chain, true
		}
		at = cur
		cur = s.parent
	}
}

// CanReferenceDep reports whether a step may depend on dep: a premise of
// its own or an enclosing subproof, or a step or closed subproof that
// comes earlier in one of them. Premises have no dependencies.
func (p *Proof) CanReferenceDep(line LineRef, dep Ref) bool {
	jr, ok := line.(JustificationRef)
	if !ok {
		return false
	}
	chain, ok := p.scopes(jr)
	if !ok {
		return false
	}

	var parent SubproofRef
	switch d := dep.(type) {
	case PremiseRef:
		pr, ok := p.premises.get(d.h)
		if !ok {
			return false
		}
		for _, sc := range chain {
			if sc.sub == pr.parent {
				return true
			}
		}
		return false
	case JustificationRef:
		st, ok := p.steps.get(d.h)
		if !ok {
			return false
		}
		parent = st.parent
	case SubproofRef:
		s, ok := p.sub(d)
		if !ok || d == p.root {
			return false
		}
		parent = s.parent
	default:
		return false
	}

	for _, sc := range chain {
		if sc.sub != parent {
			continue
		}
		s, _ := p.sub(parent)
		i := indexOf(s.lines, dep.(StepRef))
		return i >= 0 && i < sc.cutoff
	}
	return false
}

// Row is one numbered line in document order.
type Row struct {
	Number int // 1-based
	Depth  int // 0 at the top level
	Ref    LineRef
	Parent SubproofRef
}

// Rows lists premises and steps in document order. A subproof's rows
// follow its position in the enclosing line list, one level deeper.
func (p *Proof) Rows() []Row {
	var rows []Row
	p.walk(p.root, 0, &rows)
	return rows
}

func (p *Proof) walk(ref SubproofRef, depth int, rows *[]Row) {
	s, _ := p.sub(ref)
	for _, pr := range s.premises {
		*rows = append(*rows, Row{Number: len(*rows) + 1, Depth: depth, Ref: pr, Parent: ref})
	}
	for _, line := range s.lines {
		switch r := line.(type) {
		case JustificationRef:
			*rows = append(*rows, Row{Number: len(*rows) + 1, Depth: depth, Ref: r, Parent: ref})
		case SubproofRef:
			p.walk(r, depth+1, rows)
		}
	}
}

// RowNumbers maps every line to its row number.
func (p *Proof) RowNumbers() map[LineRef]int {
	rows := p.Rows()
	out := make(map[LineRef]int, len(rows))
	for _, r := range rows {
		out[r.Ref] = r.Number
	}
	return out
}

// SubproofSpan returns the first and last row numbers inside a subproof,
// as shown when a step cites it.
func (p *Proof) SubproofSpan(ref SubproofRef) (first, last int, ok bool) {
	if _, found := p.sub(ref); !found {
		return 0, 0, false
	}
	for _, r := range p.Rows() {
		if !p.within(r.Parent, ref) {
			continue
		}
		if first == 0 {
			first = r.Number
		}
		last = r.Number
	}
	return first, last, first != 0
}

// within reports whether sub is anc or nested in it.
func (p *Proof) within(sub, anc SubproofRef) bool {
	for {
		if sub == anc {
			return true
		}
		s, ok := p.sub(sub)
		if !ok || sub == p.root {
			return false
		}
		sub = s.parent
	}
}
