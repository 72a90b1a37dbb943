package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/deduce/internal/expr"
	"github.com/gnoswap-labs/deduce/internal/oracle"
	"github.com/gnoswap-labs/deduce/internal/parser"
)

func exprs(srcs ...string) []expr.Expr {
	out := make([]expr.Expr, len(srcs))
	for i, s := range srcs {
		out[i] = parser.MustParse(s)
	}
	return out
}

func lookup(t *testing.T, id ID) *RewriteRule {
	t.Helper()
	r, ok := MustDefault().Lookup(id)
	require.True(t, ok, id)
	require.NotNil(t, r.Rewrite, id)
	return r.Rewrite
}

func TestApplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		rule       ID
		deps       []string
		conclusion string
		want       bool
	}{
		{"double negation eliminated", DoubleNegation, []string{"~~Q"}, "Q", true},
		{"double negation kept", DoubleNegation, []string{"~~Q"}, "~Q", false},
		{"double negation introduced", DoubleNegation, []string{"Q"}, "~~Q", true},
		{"implication", ConditionalImplication, []string{"P -> Q"}, "~P | Q", true},
		{"implication lost negation", ConditionalImplication, []string{"P -> Q"}, "P | Q", false},
		{"implication backward", ConditionalImplication, []string{"~P | Q"}, "P -> Q", true},
		{"negated implication", ConditionalImplication, []string{"~(A -> B)"}, "A & ~B", true},
		{
			"substitution across two deps", BiconditionalSubstitution,
			[]string{"P <-> Q", "P & R"}, "(P <-> Q) & (Q & R)", true,
		},
		{
			"substitution with deps reversed", BiconditionalSubstitution,
			[]string{"P & R", "P <-> Q"}, "(P <-> Q) & (Q & R)", true,
		},
		{
			"substitution changes the context", BiconditionalSubstitution,
			[]string{"P <-> Q", "P & R"}, "(P <-> Q) & (Q & S)", false,
		},
		{
			"substitution under an unrelated quantifier", BiconditionalSubstitution,
			[]string{"x <-> y", "exists z, F(x, z)"}, "(x <-> y) & (exists z, F(y, z))", true,
		},
		{
			"substitution does not rewrite a bound name", BiconditionalSubstitution,
			[]string{"x <-> y", "exists x, F(x)"}, "(x <-> y) & (exists x, F(y))", false,
		},
		{"rhs-only name bound by conclusion", Annihilation, []string{"_|_"}, "(A -> B) & _|_", true},
		{"distribution", Distribution, []string{"(A & B) | (A & C)"}, "A & (B | C)", true},
		{"no commutativity", Distribution, []string{"(A & B) | (A & C)"}, "A & (C | B)", false},
		{"no dependency", DoubleNegation, nil, "Q", false},
		{"too many dependencies", DoubleNegation, []string{"A", "B", "C", "D"}, "A", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rule := lookup(t, tt.rule)
			got := rule.Applies(parser.MustParse(tt.conclusion), exprs(tt.deps...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindReportsClauseAndDirection(t *testing.T) {
	t.Parallel()

	rule := lookup(t, ConditionalImplication)
	app, ok := rule.Find(parser.MustParse("A & ~B"), exprs("~(A -> B)"))
	require.True(t, ok)
	assert.Equal(t, 1, app.Clause)
	assert.Equal(t, Forward, app.Direction)

	app, ok = rule.Find(parser.MustParse("~(A -> B)"), exprs("A & ~B"))
	require.True(t, ok)
	assert.Equal(t, Backward, app.Direction)
	assert.Equal(t, "{phi := A, psi := B}", app.Bindings.String())
}

func TestRewrite(t *testing.T) {
	t.Parallel()

	rule := lookup(t, ConditionalExportation)
	got, err := rule.Rewrite(Forward, 0, parser.MustParse("A -> (B -> C)"))
	require.NoError(t, err)
	assert.Equal(t, "((A & B) -> C)", got.String())

	got, err = rule.Rewrite(Backward, 0, got)
	require.NoError(t, err)
	assert.Equal(t, "(A -> (B -> C))", got.String())

	_, err = rule.Rewrite(Forward, 0, parser.MustParse("A & B"))
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = rule.Rewrite(Forward, 3, parser.MustParse("A"))
	assert.Error(t, err)
}

func TestRewriteUnboundSide(t *testing.T) {
	t.Parallel()

	// phi appears only on the left of "phi & _|_ = _|_".
	rule := lookup(t, Annihilation)
	_, err := rule.Rewrite(Backward, 0, expr.False())
	assert.Error(t, err)
}

func TestDependencyCandidates(t *testing.T) {
	t.Parallel()

	assert.Len(t, dependencyCandidates(exprs("A")), 1)
	assert.Len(t, dependencyCandidates(exprs("A", "B")), 2)
	assert.Len(t, dependencyCandidates(exprs("A", "B", "C")), 6)
	assert.Len(t, dependencyCandidates(exprs("A", "A")), 1, "duplicates collapse")
	assert.Empty(t, dependencyCandidates(exprs("A", "B", "C", "D")))

	got := dependencyCandidates(exprs("A", "B", "C"))
	assert.Equal(t, "((A & B) & C)", got[0].String())
}

func TestFromPatterns(t *testing.T) {
	t.Parallel()

	rw, err := FromPatterns("demo", [][2]string{{"phi & psi", "psi & phi"}})
	require.NoError(t, err)
	require.Len(t, rw.Reductions, 1)
	assert.Equal(t, "(phi & psi) = (psi & phi)", rw.Reductions[0].String())

	_, err = FromPatterns("conflict", [][2]string{{"S(phi)", "S"}})
	var conflict *expr.ArityConflictError
	assert.True(t, errors.As(err, &conflict))

	_, err = FromPatterns("syntax", [][2]string{{"phi &", "phi"}})
	var syntax *parser.SyntaxError
	assert.True(t, errors.As(err, &syntax))

	_, err = FromPatterns("empty", nil)
	assert.Error(t, err)
}

func TestDefaultCatalogIsSound(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(DefaultDefinitions(), Options{Verify: true})
	require.NoError(t, err)

	report := oracle.CheckAll(c.Clauses(), nil)
	assert.True(t, report.OK(), report.Summary())
	assert.Greater(t, report.Checked, 50)
}

func TestCatalogLookup(t *testing.T) {
	t.Parallel()

	c := MustDefault()
	r, ok := c.Lookup(BicondReduction)
	require.True(t, ok)
	assert.Equal(t, "Biconditional Truth Reduction", r.Name)
	assert.Equal(t, BiconditionalEquivalence, r.Classification)

	r, ok = c.Lookup(BiconditionalEquivalenceRule)
	require.True(t, ok)
	assert.Equal(t, "Biconditional Equivalence", r.Name)
	assert.Equal(t, BiconditionalEquivalence, r.Classification)

	r, ok = c.Lookup(Reiteration)
	require.True(t, ok)
	assert.Equal(t, KindReiteration, r.Kind)
	assert.Nil(t, r.Rewrite)

	_, ok = c.Lookup(Empty)
	assert.False(t, ok)
	_, ok = c.Lookup("MODUS_PONENS")
	assert.False(t, ok)
}

func TestCatalogClasses(t *testing.T) {
	t.Parallel()

	c := MustDefault()
	groups := c.Classes()
	require.Len(t, groups, 4)

	var names []string
	total := 0
	for _, g := range groups {
		names = append(names, g.Classification.String())
		total += len(g.Rules)
		for _, r := range g.Rules {
			assert.Equal(t, g.Classification, r.Classification)
		}
	}
	assert.Equal(t, []string{
		"Boolean Equivalence",
		"Conditional Equivalence",
		"Biconditional Equivalence",
		"Special",
	}, names)
	assert.Equal(t, c.Len(), total)
	assert.Equal(t, DoubleNegation, groups[0].Rules[0].ID)
}

func TestNewCatalogErrors(t *testing.T) {
	t.Parallel()

	dup := []Definition{
		{ID: "A", Clauses: [][2]string{{"phi", "~~phi"}}},
		{ID: "A", Clauses: [][2]string{{"phi", "phi & phi"}}},
	}
	_, err := NewCatalog(dup, Options{})
	assert.ErrorIs(t, err, ErrDuplicateRule)

	unsound := []Definition{{ID: "CONVERSE", Clauses: [][2]string{{"phi -> psi", "psi -> phi"}}}}
	_, err = NewCatalog(unsound, Options{})
	assert.NoError(t, err, "unverified catalogs accept any well-formed clause")
	_, err = NewCatalog(unsound, Options{Verify: true})
	assert.ErrorIs(t, err, ErrInvalidRule)
	var mismatch *oracle.MismatchError
	assert.True(t, errors.As(err, &mismatch))

	_, err = NewCatalog([]Definition{{Name: "nameless id"}}, Options{})
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = NewCatalog([]Definition{{ID: "E", Kind: KindEmpty}}, Options{})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestParseClassification(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Classification{
		"boolean":                   BooleanEquivalence,
		"Conditional Equivalence":   ConditionalEquivalence,
		" BICONDITIONAL ":           BiconditionalEquivalence,
		"biconditional equivalence": BiconditionalEquivalence,
		"special":                   Special,
	} {
		got, err := ParseClassification(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseClassification("modal")
	assert.Error(t, err)
}

func TestLoadDefinitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantIDs []ID
		wantErr error
	}{
		{
			name: "sound table",
			content: `
rules:
  - id: DE_MORGAN
    name: De Morgan
    classification: boolean
    clauses:
      - lhs: "~(phi & psi)"
        rhs: "~phi | ~psi"
      - lhs: "~(phi | psi)"
        rhs: "~phi & ~psi"
  - id: COMMUTATION
    clauses:
      - lhs: "phi & psi"
        rhs: "psi & phi"
`,
			wantIDs: []ID{"DE_MORGAN", "COMMUTATION"},
		},
		{
			name: "unsound clause",
			content: `
rules:
  - id: CONVERSE
    clauses:
      - lhs: "phi -> psi"
        rhs: "psi -> phi"
`,
			wantErr: ErrInvalidRule,
		},
		{
			name: "special classification",
			content: `
rules:
  - id: COPY
    classification: special
    clauses:
      - lhs: "phi"
        rhs: "phi"
`,
			wantErr: ErrInvalidRule,
		},
		{
			name: "missing id",
			content: `
rules:
  - name: anonymous
    clauses:
      - lhs: "phi"
        rhs: "~~phi"
`,
			wantErr: ErrInvalidRule,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "rules.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			defs, err := LoadDefinitions(path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			var ids []ID
			for _, d := range defs {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)

			c, err := NewCatalog(append(DefaultDefinitions(), defs...), Options{})
			require.NoError(t, err)
			r, ok := c.Lookup(tt.wantIDs[0])
			require.True(t, ok)
			assert.True(t, r.Rewrite.Applies(parser.MustParse("~A | ~B"), exprs("~(A & B)")))
		})
	}
}

func TestLoadDefinitionsMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadDefinitions(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDefinitionsBadYAML(t *testing.T) {
	t.Parallel()

	_, err := ParseDefinitions([]byte("rules:\n  - id: X\n    clauses: [\n"))
	assert.Error(t, err)
}
