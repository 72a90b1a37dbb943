package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/deduce/internal/expr"
	"github.com/gnoswap-labs/deduce/internal/parser"
)

func mustParse(t *testing.T, src string) expr.Expr {
	t.Helper()
	e, err := parser.Parse(src)
	require.NoError(t, err, src)
	return e
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pattern   string
		candidate string
		want      bool
		bindings  map[string]string
	}{
		{
			name:      "plain metavariable matches anything",
			pattern:   "phi",
			candidate: "(P & Q) -> R",
			want:      true,
			bindings:  map[string]string{"phi": "((P & Q) -> R)"},
		},
		{
			name:      "repeated metavariable with equal bindings",
			pattern:   "phi -> phi",
			candidate: "P -> P",
			want:      true,
			bindings:  map[string]string{"phi": "P"},
		},
		{
			name:      "repeated metavariable with different bindings",
			pattern:   "phi -> phi",
			candidate: "P -> Q",
			want:      false,
		},
		{
			name:      "constructor mismatch",
			pattern:   "phi & psi",
			candidate: "P | Q",
			want:      false,
		},
		{
			name:      "no commutativity",
			pattern:   "Q & P",
			candidate: "A & (B | C)",
			want:      true,
			bindings:  map[string]string{"Q": "A", "P": "(B | C)"},
		},
		{
			name:      "atoms match only themselves",
			pattern:   "phi & ^|^",
			candidate: "P & _|_",
			want:      false,
		},
		{
			name:      "double negation",
			pattern:   "~~P",
			candidate: "~~(A -> B)",
			want:      true,
			bindings:  map[string]string{"P": "(A -> B)"},
		},
		{
			name:      "quantifier binder is literal",
			pattern:   "forall x, phi",
			candidate: "forall x, F(x)",
			want:      true,
			bindings:  map[string]string{"phi": "F(x)"},
		},
		{
			name:      "quantifier binder name must agree",
			pattern:   "forall x, phi",
			candidate: "forall y, F(y)",
			want:      false,
		},
		{
			name:      "bound name only matches itself",
			pattern:   "forall x, x & phi",
			candidate: "forall x, y & P",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := Match(mustParse(t, tt.pattern), mustParse(t, tt.candidate))
			assert.Equal(t, tt.want, ok)
			if !tt.want {
				assert.Equal(t, 0, b.Len())
				return
			}
			assert.Equal(t, len(tt.bindings), b.Len())
			for name, want := range tt.bindings {
				got, found := b.Var(name)
				require.True(t, found, name)
				assert.Equal(t, want, got.String(), name)
			}
		})
	}
}

func TestFunctionalMetavariable(t *testing.T) {
	t.Parallel()

	pattern := mustParse(t, "(phi <-> psi) & S(phi)")
	candidate := mustParse(t, "(P <-> Q) & (P & R)")

	b, ok := Match(pattern, candidate)
	require.True(t, ok)

	ctx, found := b.Func("S")
	require.True(t, found)
	assert.Equal(t, 1, ctx.Arity)
	assert.Equal(t, "(_1 & R)", ctx.String())

	got, err := Instantiate(mustParse(t, "(phi <-> psi) & S(psi)"), b)
	require.NoError(t, err)
	assert.Equal(t, "((P <-> Q) & (Q & R))", got.String())
}

func TestFunctionalMetavariableAbstractsEveryOccurrence(t *testing.T) {
	t.Parallel()

	b, ok := Match(mustParse(t, "phi & S(phi)"), mustParse(t, "P & (P | (Q -> P))"))
	require.True(t, ok)
	ctx, _ := b.Func("S")
	assert.Equal(t, "(_1 | (Q -> _1))", ctx.String())
}

func TestFunctionalMetavariableDeferredUntilArgumentBound(t *testing.T) {
	t.Parallel()

	// S(phi) comes before phi is bound by the right conjunct.
	b, ok := Match(mustParse(t, "S(phi) & (phi <-> psi)"), mustParse(t, "(P & R) & (P <-> Q)"))
	require.True(t, ok)
	ctx, _ := b.Func("S")
	assert.Equal(t, "(_1 & R)", ctx.String())
}

func TestFunctionalMetavariableConsistency(t *testing.T) {
	t.Parallel()

	pattern := mustParse(t, "(S(phi) & S(psi)) & (phi & psi)")

	_, ok := Match(pattern, mustParse(t, "((P | R) & (Q | R)) & (P & Q)"))
	assert.True(t, ok, "same context applied to both arguments")

	_, ok = Match(pattern, mustParse(t, "((P | R) & (Q | T)) & (P & Q)"))
	assert.False(t, ok, "contexts differ")
}

func TestFunctionalMetavariableUnresolvable(t *testing.T) {
	t.Parallel()

	// phi is never bound by anything else, so S(phi) is ambiguous.
	_, ok := Match(mustParse(t, "S(phi)"), mustParse(t, "P & Q"))
	assert.False(t, ok)
}

func TestMatchWithRespectsExistingBindings(t *testing.T) {
	t.Parallel()

	b, ok := Match(mustParse(t, "phi -> psi"), mustParse(t, "P -> Q"))
	require.True(t, ok)

	_, ok = MatchWith(mustParse(t, "~phi | psi"), mustParse(t, "~P | Q"), b)
	assert.True(t, ok)

	_, ok = MatchWith(mustParse(t, "~phi | psi"), mustParse(t, "P | Q"), b)
	assert.False(t, ok)

	extended, ok := MatchWith(mustParse(t, "phi & lambda"), mustParse(t, "P & R"), b)
	require.True(t, ok)
	assert.Equal(t, 3, extended.Len())
	assert.Equal(t, 2, b.Len(), "input bindings are not modified")
}

func TestMatchWithBoundContext(t *testing.T) {
	t.Parallel()

	b, ok := Match(mustParse(t, "(phi <-> psi) & S(phi)"), mustParse(t, "(P <-> Q) & (P & R)"))
	require.True(t, ok)

	rhs := mustParse(t, "(phi <-> psi) & S(psi)")
	_, ok = MatchWith(rhs, mustParse(t, "(P <-> Q) & (Q & R)"), b)
	assert.True(t, ok)

	// R inside the context is a literal, not a metavariable.
	_, ok = MatchWith(rhs, mustParse(t, "(P <-> Q) & (Q & S)"), b)
	assert.False(t, ok)
}

func TestInstantiateUnbound(t *testing.T) {
	t.Parallel()

	b := Bindings{}.With("phi", expr.Var("P"))
	_, err := Instantiate(mustParse(t, "phi & psi"), b)
	assert.ErrorIs(t, err, ErrUnbound)

	_, err = Instantiate(mustParse(t, "S(phi)"), b)
	assert.ErrorIs(t, err, ErrUnbound)

	got, err := Instantiate(mustParse(t, "phi | ~phi"), b)
	require.NoError(t, err)
	assert.Equal(t, "(P | ~P)", got.String())
}

func TestMatchInstantiateRoundTrip(t *testing.T) {
	t.Parallel()

	patterns := []string{
		"phi -> psi",
		"(phi | psi) -> lambda",
		"~(phi -> psi)",
		"(phi <-> psi) & S(phi)",
		"forall x, phi & psi",
	}
	candidates := []string{
		"(A & B) -> ~C",
		"(A | B) -> C",
		"~((A <-> B) -> C)",
		"(A <-> B) & F(A, A)",
		"forall x, F(x) & G(x)",
	}
	for i := range patterns {
		pattern := mustParse(t, patterns[i])
		candidate := mustParse(t, candidates[i])
		b, ok := Match(pattern, candidate)
		require.True(t, ok, patterns[i])

		back, err := Instantiate(pattern, b)
		require.NoError(t, err)
		assert.True(t, expr.Equal(candidate, back), "%s => %s", patterns[i], back)
	}
}

func TestContextApply(t *testing.T) {
	t.Parallel()

	ctx := Abstract(mustParse(t, "F(a, b) & a"), []expr.Expr{expr.Var("a"), expr.Var("b")})
	assert.Equal(t, "(F(_1, _2) & _1)", ctx.String())

	got, err := ctx.Apply(expr.Var("c"), expr.Var("d"))
	require.NoError(t, err)
	assert.Equal(t, "(F(c, d) & c)", got.String())

	_, err = ctx.Apply(expr.Var("c"))
	assert.Error(t, err)
}

func TestContextRespectsQuantifiers(t *testing.T) {
	t.Parallel()

	ctx := Abstract(mustParse(t, "F(x) & (exists x, G(x))"), []expr.Expr{expr.Var("x")})
	assert.Equal(t, "(F(_1) & (exists x, G(x)))", ctx.String(), "bound x is not a hole")

	ctx = Abstract(mustParse(t, "exists x, F(y)"), []expr.Expr{expr.Var("y")})
	assert.Equal(t, "(exists x, F(_1))", ctx.String())

	got, err := ctx.Apply(expr.Var("z"))
	require.NoError(t, err)
	assert.Equal(t, "(exists x, F(z))", got.String())

	_, err = ctx.Apply(expr.Var("x"))
	assert.ErrorIs(t, err, ErrCapture)

	_, err = ctx.Apply(mustParse(t, "P & x"))
	assert.ErrorIs(t, err, ErrCapture)
}

func TestBoundContextRejectsCapture(t *testing.T) {
	t.Parallel()

	b, ok := Match(mustParse(t, "(phi <-> psi) & S(psi)"), mustParse(t, "(x <-> y) & (exists x, F(y))"))
	require.True(t, ok)

	lhs := mustParse(t, "(phi <-> psi) & S(phi)")
	_, ok = MatchWith(lhs, mustParse(t, "(x <-> y) & (exists x, F(x))"), b)
	assert.False(t, ok)

	_, err := Instantiate(lhs, b)
	assert.ErrorIs(t, err, ErrCapture)

	// a bound occurrence of phi is part of the context
	b, ok = Match(mustParse(t, "(phi <-> psi) & S(phi)"), mustParse(t, "(x <-> y) & (exists x, F(x))"))
	require.True(t, ok)
	c, _ := b.Func("S")
	assert.Equal(t, "(exists x, F(x))", c.String())
}

func TestBindingsString(t *testing.T) {
	t.Parallel()

	b, ok := Match(mustParse(t, "(phi <-> psi) & S(phi)"), mustParse(t, "(P <-> Q) & (P & R)"))
	require.True(t, ok)
	assert.Equal(t, "{S := (_1 & R), phi := P, psi := Q}", b.String())
	assert.Equal(t, []string{"S", "phi", "psi"}, b.Names())
}
