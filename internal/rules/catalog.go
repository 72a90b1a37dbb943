package rules

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gnoswap-labs/deduce/internal/oracle"
)

var (
	ErrDuplicateRule = errors.New("duplicate rule id")
	ErrInvalidRule   = errors.New("invalid rule definition")
)

// Options controls catalog construction.
type Options struct {
	// Verify runs the truth-table oracle over every clause.
	Verify bool
}

// Catalog is an immutable set of rules. It is safe for concurrent use.
type Catalog struct {
	rules []Rule
	byID  map[ID]int
}

// NewCatalog builds a catalog from defs, keeping their order. It fails on
// a malformed pattern, an arity conflict, a duplicate id or, with
// opts.Verify, a clause whose sides are not equivalent.
func NewCatalog(defs []Definition, opts Options) (*Catalog, error) {
	c := &Catalog{
		rules: make([]Rule, 0, len(defs)),
		byID:  make(map[ID]int, len(defs)),
	}
	for _, def := range defs {
		rule, err := build(def, opts)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byID[rule.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, rule.ID)
		}
		c.byID[rule.ID] = len(c.rules)
		c.rules = append(c.rules, rule)
	}
	return c, nil
}

func build(def Definition, opts Options) (Rule, error) {
	if def.ID == Empty {
		return Rule{}, fmt.Errorf("%w: rule %q has no id", ErrInvalidRule, def.Name)
	}
	if def.Classification < 0 || def.Classification >= numClassifications {
		return Rule{}, fmt.Errorf("%w: %s: classification %d", ErrInvalidRule, def.ID, def.Classification)
	}
	name := def.Name
	if name == "" {
		name = string(def.ID)
	}
	rule := Rule{ID: def.ID, Name: name, Classification: def.Classification, Kind: def.Kind}

	switch def.Kind {
	case KindEquivalence:
		rw, err := FromPatterns(name, def.Clauses)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: %s: %w", ErrInvalidRule, def.ID, err)
		}
		if opts.Verify {
			for i, cl := range rw.Reductions {
				if err := oracle.CheckClause(cl.LHS, cl.RHS); err != nil {
					return Rule{}, fmt.Errorf("%w: %s clause %d: %w", ErrInvalidRule, def.ID, i, err)
				}
			}
		}
		rule.Rewrite = rw
	case KindReiteration:
		if len(def.Clauses) != 0 {
			return Rule{}, fmt.Errorf("%w: %s: reiteration takes no clauses", ErrInvalidRule, def.ID)
		}
	default:
		return Rule{}, fmt.Errorf("%w: %s: kind %s cannot be cataloged", ErrInvalidRule, def.ID, def.Kind)
	}
	return rule, nil
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return NewCatalog(defaultDefinitions, Options{})
})

// Default returns the built-in catalog. It is built once and shared.
func Default() (*Catalog, error) {
	return defaultCatalog()
}

// MustDefault is like Default but panics if the built-in table is broken.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of rules.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// Lookup returns the rule with the given id.
func (c *Catalog) Lookup(id ID) (Rule, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i], true
}

// Rules returns every rule in catalog order.
func (c *Catalog) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// ByClass returns the rules of one classification in catalog order.
func (c *Catalog) ByClass(class Classification) []Rule {
	var out []Rule
	for _, r := range c.rules {
		if r.Classification == class {
			out = append(out, r)
		}
	}
	return out
}

// Group is the set of rules sharing a classification.
type Group struct {
	Classification Classification
	Rules          []Rule
}

// Classes partitions the catalog by classification in menu order. Empty
// classifications are omitted.
func (c *Catalog) Classes() []Group {
	var out []Group
	for class := BooleanEquivalence; class < numClassifications; class++ {
		if rules := c.ByClass(class); len(rules) > 0 {
			out = append(out, Group{Classification: class, Rules: rules})
		}
	}
	return out
}

// Clauses lists every rewrite clause for the oracle, named "ID #i".
func (c *Catalog) Clauses() []oracle.Clause {
	var out []oracle.Clause
	for _, r := range c.rules {
		if r.Rewrite == nil {
			continue
		}
		for i, cl := range r.Rewrite.Reductions {
			out = append(out, oracle.Clause{
				Name: fmt.Sprintf("%s #%d", r.ID, i+1),
				LHS:  cl.LHS,
				RHS:  cl.RHS,
			})
		}
	}
	return out
}
