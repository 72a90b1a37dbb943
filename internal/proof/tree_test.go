package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/deduce/internal/expr"
	"github.com/gnoswap-labs/deduce/internal/parser"
	"github.com/gnoswap-labs/deduce/internal/rules"
)

func TestArenaGenerations(t *testing.T) {
	t.Parallel()

	var a arena[string]
	h1 := a.insert("a")
	h2 := a.insert("b")
	assert.Equal(t, uint32(1), h1.gen)
	assert.Equal(t, 2, a.len())

	require.True(t, a.remove(h1))
	assert.False(t, a.remove(h1))
	_, ok := a.get(h1)
	assert.False(t, ok)

	h3 := a.insert("c")
	assert.Equal(t, h1.index, h3.index, "freed slot is reused")
	assert.NotEqual(t, h1.gen, h3.gen)
	_, ok = a.get(h1)
	assert.False(t, ok, "stale handle does not see the new value")

	v, ok := a.get(h2)
	require.True(t, ok)
	assert.Equal(t, "b", *v)

	_, ok = a.get(handle{})
	assert.False(t, ok)
	_, ok = a.get(handle{index: 99, gen: 1})
	assert.False(t, ok)

	var seen []string
	a.each(func(_ handle, v *string) { seen = append(seen, *v) })
	assert.Equal(t, []string{"c", "b"}, seen)
}

func TestNew(t *testing.T) {
	t.Parallel()

	p := New()
	require.Len(t, p.Premises(), 1)
	require.Len(t, p.Lines(), 1)

	e, ok := p.LookupPremise(p.Premises()[0])
	require.True(t, ok)
	assert.Nil(t, e)

	j, ok := p.LookupJustification(p.Lines()[0].(JustificationRef))
	require.True(t, ok)
	assert.Nil(t, j.Conclusion)
	assert.Equal(t, rules.Empty, j.Rule)
	assert.NoError(t, p.Validate())
}

func TestPremiseRemovalGuard(t *testing.T) {
	t.Parallel()

	p := New()
	only := p.Premises()[0]
	assert.False(t, p.MayRemoveLine(only))
	assert.False(t, p.RemoveLine(only))
	assert.Len(t, p.Premises(), 1)

	second := p.AddPremise(parser.MustParse("Q"))
	assert.True(t, p.RemoveLine(only))
	assert.Equal(t, []PremiseRef{second}, p.Premises())
	assert.False(t, p.RemoveLine(second))
	assert.NoError(t, p.Validate())
}

func TestSubproofPremisesAreStructural(t *testing.T) {
	t.Parallel()

	p := New()
	sub, ok := p.AddSubproofTo(p.Root())
	require.True(t, ok)
	extra, ok := p.AddPremiseTo(sub, parser.MustParse("R"))
	require.True(t, ok)

	s, ok := p.LookupSubproof(sub)
	require.True(t, ok)
	require.Len(t, s.Premises, 2)
	for _, pr := range s.Premises {
		assert.False(t, p.MayRemoveLine(pr))
		assert.False(t, p.RemoveLine(pr))
	}
	assert.True(t, p.Contains(extra))

	assert.False(t, p.RemoveSubproof(p.Root()))
}

func TestReferenceStability(t *testing.T) {
	t.Parallel()

	p := New()
	p1 := p.Premises()[0]
	require.True(t, p.WithMutPremise(p1, func(e *expr.Expr) { *e = parser.MustParse("P") }))
	s1 := p.AddStep(Justification{Conclusion: parser.MustParse("A")})
	s2 := p.AddStep(Justification{Conclusion: parser.MustParse("B")})
	s3 := p.AddStep(Justification{Conclusion: parser.MustParse("C")})

	snapshot := func() map[LineRef]string {
		out := make(map[LineRef]string)
		for _, ref := range []LineRef{p1, s1, s3} {
			e, ok := p.LookupExpr(ref)
			require.True(t, ok)
			out[ref] = e.String()
		}
		return out
	}
	before := snapshot()

	require.True(t, p.RemoveLine(s2))
	assert.Equal(t, before, snapshot())

	inserted, ok := p.AddStepRelative(Justification{Conclusion: parser.MustParse("D")}, s1, true)
	require.True(t, ok)
	assert.Equal(t, before, snapshot())
	assert.NotEqual(t, s2, inserted, "a reused slot gets a fresh generation")

	_, ok = p.LookupJustification(s2)
	assert.False(t, ok)

	_, ok = p.AddSubproofRelative(s3, false)
	require.True(t, ok)
	p.AddPremiseRelative(parser.MustParse("Z"), p1, false)
	assert.Equal(t, before, snapshot())
	assert.NoError(t, p.Validate())
}

func TestInsertionOrder(t *testing.T) {
	t.Parallel()

	p := New()
	first := p.Premises()[0]
	before, ok := p.AddPremiseRelative(parser.MustParse("A"), first, false)
	require.True(t, ok)
	after, ok := p.AddPremiseRelative(parser.MustParse("B"), first, true)
	require.True(t, ok)
	assert.Equal(t, []PremiseRef{before, first, after}, p.Premises())

	def := p.Lines()[0]
	head := p.PrependStep(Justification{})
	tail := p.AddStep(Justification{})
	sub, ok := p.AddSubproofRelative(tail, false)
	require.True(t, ok)
	mid, ok := p.AddStepRelative(Justification{}, sub, true)
	require.True(t, ok)
	assert.Equal(t, []StepRef{head, def, sub, mid, tail}, p.Lines())

	inner, ok := p.PrependStepTo(sub, Justification{})
	require.True(t, ok)
	s, _ := p.LookupSubproof(sub)
	assert.Equal(t, StepRef(inner), s.Lines[0])
	assert.Len(t, s.Lines, 2)

	parent, ok := p.ParentOfLine(inner)
	require.True(t, ok)
	assert.Equal(t, sub, parent)
	parent, ok = p.ParentOfLine(sub)
	require.True(t, ok)
	assert.Equal(t, p.Root(), parent)
	_, ok = p.ParentOfLine(p.Root())
	assert.False(t, ok)

	_, ok = p.AddSubproofRelative(p.Root(), true)
	assert.False(t, ok, "nothing can sit beside the root")
	assert.NoError(t, p.Validate())
}

func TestCascadingDelete(t *testing.T) {
	t.Parallel()

	p := New()
	outer, _ := p.AddSubproofTo(p.Root())
	inner, _ := p.AddSubproofTo(outer)
	step, _ := p.AddStepTo(inner, Justification{Conclusion: parser.MustParse("X")})

	var nested []Ref
	for _, sub := range []SubproofRef{outer, inner} {
		s, _ := p.LookupSubproof(sub)
		for _, pr := range s.Premises {
			nested = append(nested, pr)
		}
		for _, l := range s.Lines {
			nested = append(nested, l)
		}
	}
	require.Len(t, nested, 6)

	// A top-level step citing the closed subproof loses the citation.
	citer := p.AddStep(Justification{})
	require.True(t, p.ToggleSubproofDep(citer, outer))

	require.True(t, p.RemoveSubproof(outer))
	for _, ref := range nested {
		assert.False(t, p.Contains(ref), "%s", ref)
	}
	assert.False(t, p.Contains(outer))
	assert.False(t, p.Contains(step))
	_, ok := p.LookupSubproof(inner)
	assert.False(t, ok)

	j, _ := p.LookupJustification(citer)
	assert.Empty(t, j.SubproofDeps)
	assert.False(t, p.RemoveSubproof(outer))
	assert.NoError(t, p.Validate())
}

// visibilityFixture builds
//
//	1 | P
//	  |----
//	2 | A
//	3 | | Q
//	  | |----
//	4 | | B
//	5 | | C
//	6 | D
func visibilityFixture(t *testing.T) (p *Proof, refs map[string]Ref) {
	t.Helper()
	p = New()
	refs = make(map[string]Ref)

	prem := p.Premises()[0]
	p.WithMutPremise(prem, func(e *expr.Expr) { *e = parser.MustParse("P") })
	refs["P"] = prem

	a := p.Lines()[0].(JustificationRef)
	p.WithMutStep(a, func(j *Justification) { j.Conclusion = parser.MustParse("A") })
	refs["A"] = a

	sub, ok := p.AddSubproofTo(p.Root())
	require.True(t, ok)
	refs["sub"] = sub
	s, _ := p.LookupSubproof(sub)
	p.WithMutPremise(s.Premises[0], func(e *expr.Expr) { *e = parser.MustParse("Q") })
	refs["Q"] = s.Premises[0]
	b := s.Lines[0].(JustificationRef)
	p.WithMutStep(b, func(j *Justification) { j.Conclusion = parser.MustParse("B") })
	refs["B"] = b
	refs["C"], _ = p.AddStepTo(sub, Justification{Conclusion: parser.MustParse("C")})
	refs["D"] = p.AddStep(Justification{Conclusion: parser.MustParse("D")})
	return p, refs
}

func TestCanReferenceDep(t *testing.T) {
	t.Parallel()

	p, refs := visibilityFixture(t)

	tests := []struct {
		line, dep string
		want      bool
	}{
		{"A", "P", true},
		{"A", "Q", false},
		{"A", "sub", false},
		{"B", "P", true},
		{"B", "A", true},
		{"B", "Q", true},
		{"B", "C", false},
		{"C", "B", true},
		{"C", "sub", false},
		{"D", "sub", true},
		{"D", "B", false},
		{"D", "Q", false},
		{"D", "A", true},
		{"A", "A", false},
		{"A", "D", false},
	}
	for _, tt := range tests {
		got := p.CanReferenceDep(refs[tt.line].(LineRef), refs[tt.dep])
		assert.Equal(t, tt.want, got, "%s -> %s", tt.line, tt.dep)
	}

	assert.False(t, p.CanReferenceDep(refs["P"].(LineRef), refs["P"]), "premises cite nothing")
	assert.False(t, p.CanReferenceDep(refs["D"].(LineRef), p.Root()))
}

func TestToggleDeps(t *testing.T) {
	t.Parallel()

	p, refs := visibilityFixture(t)
	d := refs["D"].(JustificationRef)

	assert.True(t, p.ToggleLineDep(d, refs["A"].(LineRef)))
	assert.True(t, p.ToggleLineDep(d, refs["P"].(LineRef)))
	assert.False(t, p.ToggleLineDep(d, refs["B"].(LineRef)), "inside a closed subproof")
	assert.True(t, p.ToggleSubproofDep(d, refs["sub"].(SubproofRef)))

	j, _ := p.LookupJustification(d)
	assert.Equal(t, []LineRef{refs["A"].(LineRef), refs["P"].(LineRef)}, j.LineDeps)
	assert.Equal(t, []SubproofRef{refs["sub"].(SubproofRef)}, j.SubproofDeps)

	assert.True(t, p.ToggleLineDep(d, refs["A"].(LineRef)))
	assert.True(t, p.ToggleSubproofDep(d, refs["sub"].(SubproofRef)))
	j, _ = p.LookupJustification(d)
	assert.Equal(t, []LineRef{refs["P"].(LineRef)}, j.LineDeps)
	assert.Empty(t, j.SubproofDeps)

	// Removing a cited line drops the citation.
	assert.True(t, p.ToggleLineDep(d, refs["A"].(LineRef)))
	require.True(t, p.RemoveLine(refs["A"].(LineRef)))
	j, _ = p.LookupJustification(d)
	assert.Equal(t, []LineRef{refs["P"].(LineRef)}, j.LineDeps)
	assert.NoError(t, p.Validate())
}

func TestLookupJustificationReturnsCopy(t *testing.T) {
	t.Parallel()

	p, refs := visibilityFixture(t)
	d := refs["D"].(JustificationRef)
	require.True(t, p.ToggleLineDep(d, refs["P"].(LineRef)))

	j, _ := p.LookupJustification(d)
	j.LineDeps[0] = refs["A"].(LineRef)
	again, _ := p.LookupJustification(d)
	assert.Equal(t, refs["P"], again.LineDeps[0])
}

func TestRows(t *testing.T) {
	t.Parallel()

	p, refs := visibilityFixture(t)
	rows := p.Rows()
	require.Len(t, rows, 6)

	var order []Ref
	var depths []int
	for i, r := range rows {
		assert.Equal(t, i+1, r.Number)
		order = append(order, r.Ref)
		depths = append(depths, r.Depth)
	}
	assert.Equal(t, []Ref{refs["P"], refs["A"], refs["Q"], refs["B"], refs["C"], refs["D"]}, order)
	assert.Equal(t, []int{0, 0, 1, 1, 1, 0}, depths)

	first, last, ok := p.SubproofSpan(refs["sub"].(SubproofRef))
	require.True(t, ok)
	assert.Equal(t, 3, first)
	assert.Equal(t, 5, last)

	assert.Equal(t, 4, p.RowNumbers()[refs["B"].(LineRef)])
}

func TestValidateRejectsInvisibleDependency(t *testing.T) {
	t.Parallel()

	p, refs := visibilityFixture(t)
	p.WithMutStep(refs["D"].(JustificationRef), func(j *Justification) {
		j.LineDeps = append(j.LineDeps, refs["B"].(LineRef))
	})
	assert.ErrorIs(t, p.Validate(), ErrInvalidTree)
}

func TestStaleRefsAreNotFound(t *testing.T) {
	t.Parallel()

	p := New()
	step := p.AddStep(Justification{})
	require.True(t, p.RemoveLine(step))

	assert.False(t, p.WithMutStep(step, func(*Justification) { t.Fatal("called on removed step") }))
	assert.False(t, p.ToggleLineDep(step, p.Premises()[0]))
	_, ok := p.AddStepRelative(Justification{}, step, true)
	assert.False(t, ok)
	_, ok = p.ParentOfLine(step)
	assert.False(t, ok)
	_, ok = p.LookupExpr(step)
	assert.False(t, ok)
	assert.False(t, p.RemoveLine(step))

	var zero PremiseRef
	assert.True(t, zero.IsZero())
	assert.False(t, p.Contains(zero))
}
