package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ClauseSpec struct {
	LHS string `yaml:"lhs"`
	RHS string `yaml:"rhs"`
}

type RuleSpec struct {
	ID             string       `yaml:"id"`
	Name           string       `yaml:"name"`
	Classification string       `yaml:"classification"`
	Clauses        []ClauseSpec `yaml:"clauses"`
}

type RulesFile struct {
	Rules []RuleSpec `yaml:"rules"`
}

// LoadDefinitions reads a YAML rule table:
//
//	rules:
//	  - id: DE_MORGAN
//	    name: De Morgan
//	    classification: boolean
//	    clauses:
//	      - lhs: "~(phi & psi)"
//	        rhs: "~phi | ~psi"
//
// Every clause is checked by the truth-table oracle, so an unsound table
// is rejected as a whole.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defs, err := ParseDefinitions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// ParseDefinitions decodes and checks a YAML rule table.
func ParseDefinitions(data []byte) ([]Definition, error) {
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	defs := make([]Definition, 0, len(file.Rules))
	for _, spec := range file.Rules {
		def, err := spec.definition()
		if err != nil {
			return nil, err
		}
		// Parses and oracle-checks every clause.
		if _, err := build(def, Options{Verify: true}); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (s RuleSpec) definition() (Definition, error) {
	if s.ID == "" {
		return Definition{}, fmt.Errorf("%w: rule %q has no id", ErrInvalidRule, s.Name)
	}
	class := BooleanEquivalence
	if s.Classification != "" {
		c, err := ParseClassification(s.Classification)
		if err != nil {
			return Definition{}, fmt.Errorf("%w: %s: %w", ErrInvalidRule, s.ID, err)
		}
		if c == Special {
			return Definition{}, fmt.Errorf("%w: %s: special rules are built in", ErrInvalidRule, s.ID)
		}
		class = c
	}

	clauses := make([][2]string, 0, len(s.Clauses))
	for _, c := range s.Clauses {
		clauses = append(clauses, [2]string{c.LHS, c.RHS})
	}
	return Definition{
		ID:             ID(s.ID),
		Name:           s.Name,
		Classification: class,
		Kind:           KindEquivalence,
		Clauses:        clauses,
	}, nil
}
