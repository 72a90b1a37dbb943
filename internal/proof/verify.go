package proof

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnoswap-labs/deduce/internal/expr"
	"github.com/gnoswap-labs/deduce/internal/rules"
)

// Reason classifies a verification failure.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonWrongRule
	ReasonBadDependency
	ReasonDependencyCount
	ReasonNoRule
	ReasonUnknownRule
	ReasonNotFound
	ReasonUnparsed
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonWrongRule:
		return "rule does not apply"
	case ReasonBadDependency:
		return "bad dependency"
	case ReasonDependencyCount:
		return "wrong number of dependencies"
	case ReasonNoRule:
		return "no rule selected"
	case ReasonUnknownRule:
		return "unknown rule"
	case ReasonNotFound:
		return "line not found"
	case ReasonUnparsed:
		return "not parsed"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against a *VerificationError of the same
// reason.
var (
	ErrWrongRule       = errors.New(ReasonWrongRule.String())
	ErrBadDependency   = errors.New(ReasonBadDependency.String())
	ErrDependencyCount = errors.New(ReasonDependencyCount.String())
	ErrNoRule          = errors.New(ReasonNoRule.String())
	ErrUnknownRule     = errors.New(ReasonUnknownRule.String())
	ErrNotFound        = errors.New(ReasonNotFound.String())
	ErrUnparsed        = errors.New(ReasonUnparsed.String())
)

func (r Reason) sentinel() error {
	switch r {
	case ReasonWrongRule:
		return ErrWrongRule
	case ReasonBadDependency:
		return ErrBadDependency
	case ReasonDependencyCount:
		return ErrDependencyCount
	case ReasonNoRule:
		return ErrNoRule
	case ReasonUnknownRule:
		return ErrUnknownRule
	case ReasonNotFound:
		return ErrNotFound
	case ReasonUnparsed:
		return ErrUnparsed
	default:
		return nil
	}
}

// VerificationError explains why a line does not check. Dep is set when a
// particular dependency is at fault.
type VerificationError struct {
	Reason Reason
	Detail string
	Dep    Ref
}

func (e *VerificationError) Error() string {
	if e.Detail == "" {
		return e.Reason.String()
	}
	return e.Reason.String() + ": " + e.Detail
}

func (e *VerificationError) Unwrap() error {
	return e.Reason.sentinel()
}

func failf(reason Reason, dep Ref, format string, args ...any) *VerificationError {
	return &VerificationError{Reason: reason, Detail: fmt.Sprintf(format, args...), Dep: dep}
}

// ReasonOf extracts the reason of a verification error, ReasonNone for
// nil or foreign errors.
func ReasonOf(err error) Reason {
	var ve *VerificationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ReasonNone
}

// Verifier checks lines against a rule catalog. It holds no per-proof
// state, so one Verifier may serve many proofs concurrently.
type Verifier struct {
	catalog *rules.Catalog
}

func NewVerifier(catalog *rules.Catalog) *Verifier {
	return &Verifier{catalog: catalog}
}

// VerifyLine checks one line from scratch. Premises always check. A step
// checks when its rule licenses its conclusion from its dependencies; the
// error is a *VerificationError otherwise.
func (v *Verifier) VerifyLine(p *Proof, ref LineRef) error {
	switch r := ref.(type) {
	case PremiseRef:
		if _, ok := p.LookupPremise(r); !ok {
			return failf(ReasonNotFound, nil, "%s", r)
		}
		return nil
	case JustificationRef:
		return v.verifyStep(p, r)
	default:
		return failf(ReasonNotFound, nil, "%v", ref)
	}
}

func (v *Verifier) verifyStep(p *Proof, ref JustificationRef) error {
	j, ok := p.LookupJustification(ref)
	if !ok {
		return failf(ReasonNotFound, nil, "%s", ref)
	}
	if j.Conclusion == nil {
		return failf(ReasonUnparsed, nil, "the line has no formula")
	}
	if j.Rule == rules.Empty {
		return failf(ReasonNoRule, nil, "")
	}
	rule, ok := v.catalog.Lookup(j.Rule)
	if !ok {
		return failf(ReasonUnknownRule, nil, "%s", j.Rule)
	}

	if err := checkDepCount(rule, j); err != nil {
		return err
	}

	deps := make([]expr.Expr, 0, len(j.LineDeps))
	for _, d := range j.LineDeps {
		e, ok := p.LookupExpr(d)
		if !ok {
			return failf(ReasonBadDependency, d, "%s no longer exists", d)
		}
		if !p.CanReferenceDep(ref, d) {
			return failf(ReasonBadDependency, d, "%s is not visible here", d)
		}
		if e == nil {
			return failf(ReasonUnparsed, d, "dependency %s has no formula", d)
		}
		deps = append(deps, e)
	}
	for _, d := range j.SubproofDeps {
		if !p.Contains(d) {
			return failf(ReasonBadDependency, d, "%s no longer exists", d)
		}
		if !p.CanReferenceDep(ref, d) {
			return failf(ReasonBadDependency, d, "%s is not visible here", d)
		}
	}

	switch rule.Kind {
	case rules.KindReiteration:
		if !expr.Equal(deps[0], j.Conclusion) {
			return failf(ReasonWrongRule, nil, "%s is not a copy of %s", j.Conclusion, deps[0])
		}
		return nil
	case rules.KindEquivalence:
		if !rule.Rewrite.Applies(j.Conclusion, deps) {
			return failf(ReasonWrongRule, nil, "%s does not derive %s from %s",
				rule.Name, j.Conclusion, joinExprs(deps))
		}
		return nil
	default:
		return failf(ReasonUnknownRule, nil, "%s has kind %s", rule.ID, rule.Kind)
	}
}

func checkDepCount(rule rules.Rule, j Justification) error {
	if n := len(j.SubproofDeps); n != 0 {
		return failf(ReasonDependencyCount, nil, "%s takes no subproof dependencies, got %d", rule.Name, n)
	}
	n := len(j.LineDeps)
	switch rule.Kind {
	case rules.KindReiteration:
		if n != 1 {
			return failf(ReasonDependencyCount, nil, "%s takes exactly 1 dependency, got %d", rule.Name, n)
		}
	case rules.KindEquivalence:
		if n < 1 || n > rules.MaxDeps {
			return failf(ReasonDependencyCount, nil, "%s takes 1 to %d dependencies, got %d",
				rule.Name, rules.MaxDeps, n)
		}
	}
	return nil
}

func joinExprs(es []expr.Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// State is the verdict shown for a line.
type State int

const (
	// Unverifiable lines lack a parsed formula somewhere.
	Unverifiable State = iota
	Valid
	Invalid
)

func (s State) String() string {
	switch s {
	case Unverifiable:
		return "unverifiable"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "?"
	}
}

// Status is the verdict of one line.
type Status struct {
	Row   Row
	State State
	Err   error
}

// Status verifies ref and classifies the result.
func (v *Verifier) Status(p *Proof, ref LineRef) Status {
	return statusOf(ref, v.VerifyLine(p, ref))
}

func statusOf(ref LineRef, err error) Status {
	st := Status{Row: Row{Ref: ref}, Err: err}
	switch {
	case err == nil:
		st.State = Valid
	case errors.Is(err, ErrUnparsed):
		st.State = Unverifiable
	default:
		st.State = Invalid
	}
	return st
}

// VerifyAll verifies every line in document order.
func (v *Verifier) VerifyAll(p *Proof) []Status {
	rows := p.Rows()
	out := make([]Status, len(rows))
	for i, row := range rows {
		out[i] = statusOf(row.Ref, v.VerifyLine(p, row.Ref))
		out[i].Row = row
	}
	return out
}
