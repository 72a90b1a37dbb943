package check

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/deduce/internal/expr"
	"github.com/gnoswap-labs/deduce/internal/parser"
	"github.com/gnoswap-labs/deduce/internal/proof"
	"github.com/gnoswap-labs/deduce/internal/rules"
)

// ErrLoad is wrapped by every error that rejects a document.
var ErrLoad = errors.New("cannot load proof document")

// PremiseSpec is a premise entry. It is written either as a bare formula
// or as a mapping with an id.
type PremiseSpec struct {
	ID   string `yaml:"id"`
	Expr string `yaml:"expr"`
}

func (p *PremiseSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		p.Expr = node.Value
		return nil
	}
	type plain PremiseSpec
	return node.Decode((*plain)(p))
}

// StepSpec is a step entry, or a nested subproof when Subproof is set.
type StepSpec struct {
	ID           string        `yaml:"id"`
	Expr         string        `yaml:"expr"`
	Rule         string        `yaml:"rule"`
	Deps         []string      `yaml:"deps"`
	SubproofDeps []string      `yaml:"subproof_deps"`
	Subproof     *SubproofSpec `yaml:"subproof"`
}

type SubproofSpec struct {
	Premises []PremiseSpec `yaml:"premises" validate:"required,min=1"`
	Steps    []StepSpec    `yaml:"steps" validate:"dive"`
}

// DocumentSpec is the YAML form of a proof.
type DocumentSpec struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	SubproofSpec `yaml:",inline"`
}

// Document is a loaded proof together with the names its lines had in
// the source file.
type Document struct {
	ID     string
	Name   string
	Path   string
	Proof  *proof.Proof
	Labels map[proof.Ref]string
	// ParseErrors holds the syntax error of every line whose text did not
	// parse. Those lines have no expression.
	ParseErrors map[proof.LineRef]error
}

// LoadDocument reads a proof document from a YAML file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// ParseDocument decodes a proof document and builds its tree. Lines whose
// text does not parse are kept without an expression; dangling or
// out-of-scope citations reject the document.
func ParseDocument(data []byte) (*Document, error) {
	var spec DocumentSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if err := validate.Struct(spec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	id := spec.ID
	if id == "" {
		id = uuid.NewString()
	}
	l := &loader{
		doc: &Document{
			ID:          id,
			Name:        spec.Name,
			Proof:       proof.New(),
			Labels:      make(map[proof.Ref]string),
			ParseErrors: make(map[proof.LineRef]error),
		},
		lines:     make(map[string]proof.LineRef),
		subproofs: make(map[string]proof.SubproofRef),
	}

	p := l.doc.Proof
	if err := l.fill(p.Root(), spec.SubproofSpec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return l.doc, nil
}

type loader struct {
	doc       *Document
	lines     map[string]proof.LineRef
	subproofs map[string]proof.SubproofRef
	premises  int
	steps     int
	subs      int
}

// fill populates a subproof created by the proof package, which holds one
// empty premise and one empty step.
func (l *loader) fill(sub proof.SubproofRef, spec SubproofSpec) error {
	p := l.doc.Proof
	if len(spec.Premises) == 0 {
		return errors.New("a subproof needs at least one premise")
	}
	snap, _ := p.LookupSubproof(sub)
	placeholder := snap.Lines[0].(proof.JustificationRef)

	for i, ps := range spec.Premises {
		l.premises++
		name := ps.ID
		if name == "" {
			name = fmt.Sprintf("p%d", l.premises)
		}

		var ref proof.PremiseRef
		if i == 0 {
			ref = snap.Premises[0]
		} else {
			ref, _ = p.AddPremiseTo(sub, nil)
		}
		e := l.parse(ref, ps.Expr)
		p.WithMutPremise(ref, func(slot *expr.Expr) { *slot = e })
		if err := l.label(name, ref); err != nil {
			return err
		}
	}

	for _, ss := range spec.Steps {
		if ss.Subproof != nil {
			l.subs++
			name := ss.ID
			if name == "" {
				name = fmt.Sprintf("sp%d", l.subs)
			}
			child, _ := p.AddSubproofTo(sub)
			if err := l.fill(child, *ss.Subproof); err != nil {
				return fmt.Errorf("subproof %s: %w", name, err)
			}
			if _, dup := l.subproofs[name]; dup {
				return fmt.Errorf("duplicate subproof id %q", name)
			}
			l.subproofs[name] = child
			l.doc.Labels[child] = name
			continue
		}

		l.steps++
		name := ss.ID
		if name == "" {
			name = fmt.Sprintf("s%d", l.steps)
		}
		j := proof.Justification{Rule: rules.ID(ss.Rule)}
		for _, d := range ss.Deps {
			ref, ok := l.lines[d]
			if !ok {
				return fmt.Errorf("step %s cites unknown line %q", name, d)
			}
			j.LineDeps = append(j.LineDeps, ref)
		}
		for _, d := range ss.SubproofDeps {
			ref, ok := l.subproofs[d]
			if !ok {
				return fmt.Errorf("step %s cites unknown subproof %q", name, d)
			}
			j.SubproofDeps = append(j.SubproofDeps, ref)
		}

		ref, _ := p.AddStepTo(sub, j)
		e := l.parse(ref, ss.Expr)
		p.WithMutStep(ref, func(j *proof.Justification) { j.Conclusion = e })
		if err := l.label(name, ref); err != nil {
			return err
		}
	}

	p.RemoveLine(placeholder)
	return nil
}

func (l *loader) parse(ref proof.LineRef, src string) expr.Expr {
	e, err := parser.Parse(src)
	if err != nil {
		l.doc.ParseErrors[ref] = err
		return nil
	}
	return e
}

func (l *loader) label(name string, ref proof.LineRef) error {
	if _, dup := l.lines[name]; dup {
		return fmt.Errorf("duplicate line id %q", name)
	}
	l.lines[name] = ref
	l.doc.Labels[ref] = name
	return nil
}
