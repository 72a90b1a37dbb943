package rules

import (
	"fmt"
	"strings"
)

// ID identifies a rule in a catalog. The zero value is the empty rule.
type ID string

const (
	DoubleNegation ID = "DOUBLE_NEGATION"
	Distribution   ID = "DISTRIBUTION"
	Identity       ID = "IDENTITY"
	Annihilation   ID = "ANNIHILATION"
	Inverse        ID = "INVERSE"

	ConditionalAbsorption     ID = "CONDITIONAL_ABSORPTION"
	ConditionalComplement     ID = "CONDITIONAL_COMPLEMENT"
	ConditionalIdentity       ID = "CONDITIONAL_IDENTITY"
	ConditionalAnnihilation   ID = "CONDITIONAL_ANNIHILATION"
	ConditionalImplication    ID = "CONDITIONAL_IMPLICATION"
	ConditionalContraposition ID = "CONDITIONAL_CONTRAPOSITION"
	ConditionalExportation    ID = "CONDITIONAL_EXPORTATION"
	ConditionalDistribution   ID = "CONDITIONAL_DISTRIBUTION"
	ConditionalReduction      ID = "CONDITIONAL_REDUCTION"
	KnightsAndKnaves          ID = "KNIGHTS_AND_KNAVES"
	ConditionalIdempotence    ID = "CONDITIONAL_IDEMPOTENCE"
	CondReduction             ID = "COND_REDUCTION"

	BiconditionalEquivalenceRule ID = "BICONDITIONAL_EQUIVALENCE"
	BiconditionalCommutation     ID = "BICONDITIONAL_COMMUTATION"
	BiconditionalAssociation     ID = "BICONDITIONAL_ASSOCIATION"
	BiconditionalReduction       ID = "BICONDITIONAL_REDUCTION"
	BiconditionalComplement      ID = "BICONDITIONAL_COMPLEMENT"
	BiconditionalIdentity        ID = "BICONDITIONAL_IDENTITY"
	BiconditionalNegation        ID = "BICONDITIONAL_NEGATION"
	BiconditionalSubstitution    ID = "BICONDITIONAL_SUBSTITUTION"
	BicondReduction              ID = "BICOND_REDUCTION"

	Conjunction ID = "CONJUNCTION"
	Disjunction ID = "DISJUNCTION"
	Negation    ID = "NEGATION"

	Reiteration ID = "REITERATION"
	Empty       ID = ""
)

// Kind tells the verifier how a rule is checked.
type Kind int

const (
	// KindEquivalence rules are checked by their rewrite clauses.
	KindEquivalence Kind = iota
	// KindReiteration repeats one visible line unchanged.
	KindReiteration
	// KindEmpty marks a step with no rule selected yet.
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindEquivalence:
		return "equivalence"
	case KindReiteration:
		return "reiteration"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Classification groups rules for display. The order of the constants is
// the menu order.
type Classification int

const (
	BooleanEquivalence Classification = iota
	ConditionalEquivalence
	BiconditionalEquivalence
	Special
	numClassifications
)

var classificationNames = [...]string{
	BooleanEquivalence:       "Boolean Equivalence",
	ConditionalEquivalence:   "Conditional Equivalence",
	BiconditionalEquivalence: "Biconditional Equivalence",
	Special:                  "Special",
}

func (c Classification) String() string {
	if c < 0 || c >= numClassifications {
		return fmt.Sprintf("Classification(%d)", int(c))
	}
	return classificationNames[c]
}

// ParseClassification accepts a display name ("Boolean Equivalence") or its
// short form ("boolean"), case-insensitively.
func ParseClassification(s string) (Classification, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for i, name := range classificationNames {
		lower := strings.ToLower(name)
		if norm == lower || norm == strings.Fields(lower)[0] {
			return Classification(i), nil
		}
	}
	return 0, fmt.Errorf("unknown classification %q", s)
}

// Definition is the static description a rule is built from.
type Definition struct {
	ID             ID
	Name           string
	Classification Classification
	Kind           Kind
	Clauses        [][2]string
}

// Rule is a catalog entry. Rewrite is nil for rules that are not
// equivalences.
type Rule struct {
	ID             ID
	Name           string
	Classification Classification
	Kind           Kind
	Rewrite        *RewriteRule
}

func (r Rule) String() string {
	if r.ID == Empty {
		return "(no rule)"
	}
	return r.Name
}
