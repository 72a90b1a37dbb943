package check

import (
	"fmt"
	"strconv"

	"github.com/gnoswap-labs/deduce/internal/expr"
	"github.com/gnoswap-labs/deduce/internal/proof"
	"github.com/gnoswap-labs/deduce/internal/rules"
)

// Engine checks proof documents.
type Engine interface {
	Run(path string) (*Report, error)
	RunSource(source []byte) (*Report, error)
}

// LineResult is the verdict on one numbered line.
type LineResult struct {
	Number  int      `json:"line"`
	Depth   int      `json:"depth"`
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Expr    string   `json:"expr,omitempty"`
	Rule    string   `json:"rule,omitempty"`
	Deps    []string `json:"deps,omitempty"`
	State   string   `json:"state"`
	Reason  string   `json:"reason,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Report collects the line verdicts of one document.
type Report struct {
	ID    string       `json:"id"`
	Name  string       `json:"name,omitempty"`
	Path  string       `json:"path,omitempty"`
	Lines []LineResult `json:"lines"`
}

// Failures counts lines that are not valid.
func (r *Report) Failures() int {
	n := 0
	for _, l := range r.Lines {
		if l.State != proof.Valid.String() {
			n++
		}
	}
	return n
}

// OK reports whether every line checks.
func (r *Report) OK() bool { return r.Failures() == 0 }

// ReasonNotLoaded is the reason on the only line of a LoadFailure report.
const ReasonNotLoaded = "not loaded"

// LoadFailure is the report for a document that could not be read or
// parsed. Its single line is invalid, so the report never passes.
func LoadFailure(path string, err error) *Report {
	return &Report{
		ID:   path,
		Path: path,
		Lines: []LineResult{{
			Kind:    "document",
			State:   proof.Invalid.String(),
			Reason:  ReasonNotLoaded,
			Message: err.Error(),
		}},
	}
}

// Checker is the Engine backed by a rule catalog.
type Checker struct {
	catalog  *rules.Catalog
	verifier *proof.Verifier
}

var _ Engine = (*Checker)(nil)

func NewChecker(catalog *rules.Catalog) *Checker {
	return &Checker{catalog: catalog, verifier: proof.NewVerifier(catalog)}
}

// Catalog returns the rules the checker verifies against.
func (c *Checker) Catalog() *rules.Catalog { return c.catalog }

func (c *Checker) Run(path string) (*Report, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return c.Check(doc), nil
}

func (c *Checker) RunSource(source []byte) (*Report, error) {
	doc, err := ParseDocument(source)
	if err != nil {
		return nil, err
	}
	return c.Check(doc), nil
}

// Check verifies every line of a loaded document.
func (c *Checker) Check(doc *Document) *Report {
	p := doc.Proof
	numbers := p.RowNumbers()
	report := &Report{ID: doc.ID, Name: doc.Name, Path: doc.Path}

	for _, st := range c.verifier.VerifyAll(p) {
		res := LineResult{
			Number: st.Row.Number,
			Depth:  st.Row.Depth,
			ID:     doc.Labels[st.Row.Ref],
			State:  st.State.String(),
		}

		var e expr.Expr
		switch ref := st.Row.Ref.(type) {
		case proof.PremiseRef:
			res.Kind = "premise"
			e, _ = p.LookupPremise(ref)
		case proof.JustificationRef:
			res.Kind = "step"
			j, _ := p.LookupJustification(ref)
			e = j.Conclusion
			res.Rule = c.ruleName(j.Rule)
			res.Deps = citations(p, numbers, j)
		}
		if e != nil {
			res.Expr = e.String()
		}

		if perr, ok := doc.ParseErrors[st.Row.Ref]; ok {
			// premises check regardless of their text
			res.State = proof.Unverifiable.String()
			res.Reason = proof.ReasonUnparsed.String()
			res.Message = perr.Error()
		} else if st.Err != nil {
			res.Reason = proof.ReasonOf(st.Err).String()
			res.Message = st.Err.Error()
		}
		report.Lines = append(report.Lines, res)
	}
	return report
}

func (c *Checker) ruleName(id rules.ID) string {
	if id == rules.Empty {
		return ""
	}
	if r, ok := c.catalog.Lookup(id); ok {
		return r.Name
	}
	return string(id)
}

// citations renders dependencies the way a proof listing shows them: a
// row number per line and a row range per subproof.
func citations(p *proof.Proof, numbers map[proof.LineRef]int, j proof.Justification) []string {
	var out []string
	for _, d := range j.LineDeps {
		if n, ok := numbers[d]; ok {
			out = append(out, strconv.Itoa(n))
		} else {
			out = append(out, "?")
		}
	}
	for _, d := range j.SubproofDeps {
		if lo, hi, ok := p.SubproofSpan(d); ok {
			out = append(out, fmt.Sprintf("%d-%d", lo, hi))
		} else {
			out = append(out, "?")
		}
	}
	return out
}
