package rules

// DefaultDefinitions returns the built-in rule table in menu order. The
// returned slice is a fresh copy.
func DefaultDefinitions() []Definition {
	out := make([]Definition, len(defaultDefinitions))
	copy(out, defaultDefinitions)
	return out
}

var defaultDefinitions = []Definition{
	// Boolean
	{
		ID: DoubleNegation, Name: "Double Negation", Classification: BooleanEquivalence,
		Clauses: [][2]string{{"~~P", "P"}},
	},
	{
		ID: Distribution, Name: "Distribution", Classification: BooleanEquivalence,
		Clauses: [][2]string{
			{"(P & Q) | (P & R)", "P & (Q | R)"},
			{"(P | Q) & (P | R)", "P | (Q & R)"},
		},
	},
	{
		ID: Identity, Name: "Identity", Classification: BooleanEquivalence,
		Clauses: [][2]string{
			{"phi & ^|^", "phi"},
			{"phi | _|_", "phi"},
		},
	},
	{
		ID: Annihilation, Name: "Annihilation", Classification: BooleanEquivalence,
		Clauses: [][2]string{
			{"phi & _|_", "_|_"},
			{"phi | ^|^", "^|^"},
		},
	},
	{
		ID: Inverse, Name: "Inverse", Classification: BooleanEquivalence,
		Clauses: [][2]string{
			{"~^|^", "_|_"},
			{"~_|_", "^|^"},
		},
	},
	{
		ID: Conjunction, Name: "Conjunction", Classification: BooleanEquivalence,
		Clauses: [][2]string{
			{"phi & ^|^", "phi"},
			{"phi & _|_", "_|_"},
		},
	},
	{
		ID: Disjunction, Name: "Disjunction", Classification: BooleanEquivalence,
		Clauses: [][2]string{
			{"phi | _|_", "phi"},
			{"phi | ^|^", "^|^"},
		},
	},
	{
		ID: Negation, Name: "Negation", Classification: BooleanEquivalence,
		Clauses: [][2]string{
			{"~^|^", "_|_"},
			{"~_|_", "^|^"},
		},
	},

	// Conditional
	{
		ID: ConditionalAbsorption, Name: "Conditional Absorption", Classification: ConditionalEquivalence,
		Clauses: [][2]string{
			{"phi & (~phi -> psi)", "phi"},
			{"psi & (phi -> psi)", "psi"},
		},
	},
	{
		ID: ConditionalComplement, Name: "Conditional Complement", Classification: ConditionalEquivalence,
		Clauses: [][2]string{{"phi -> phi", "^|^"}},
	},
	{
		ID: ConditionalIdentity, Name: "Conditional Identity", Classification: ConditionalEquivalence,
		Clauses: [][2]string{
			{"phi -> _|_", "~phi"},
			{"^|^ -> phi", "phi"},
		},
	},
	{
		ID: ConditionalAnnihilation, Name: "Conditional Annihilation", Classification: ConditionalEquivalence,
		Clauses: [][2]string{
			{"phi -> ^|^", "^|^"},
			{"_|_ -> phi", "^|^"},
		},
	},
	{
		ID: ConditionalImplication, Name: "Implication", Classification: ConditionalEquivalence,
		Clauses: [][2]string{
			{"phi -> psi", "~phi | psi"},
			{"~(phi -> psi)", "phi & ~psi"},
		},
	},
	{
		ID: ConditionalContraposition, Name: "Contraposition", Classification: ConditionalEquivalence,
		Clauses: [][2]string{{"~phi -> ~psi", "psi -> phi"}},
	},
	{
		ID: ConditionalExportation, Name: "Exportation", Classification: ConditionalEquivalence,
		Clauses: [][2]string{{"phi -> (psi -> lambda)", "(phi & psi) -> lambda"}},
	},
	{
		ID: ConditionalDistribution, Name: "Conditional Distribution", Classification: ConditionalEquivalence,
		Clauses: [][2]string{
			{"phi -> (psi & lambda)", "(phi -> psi) & (phi -> lambda)"},
			{"(phi | psi) -> lambda", "(phi -> lambda) & (psi -> lambda)"},
			{"phi -> (psi | lambda)", "(phi -> psi) | (phi -> lambda)"},
			{"(phi & psi) -> lambda", "(phi -> lambda) | (psi -> lambda)"},
		},
	},
	{
		ID: ConditionalReduction, Name: "Conditional Reduction", Classification: ConditionalEquivalence,
		Clauses: [][2]string{
			{"phi & (phi -> psi)", "phi & psi"},
			{"~psi & (phi -> psi)", "~psi & ~phi"},
		},
	},
	{
		ID: KnightsAndKnaves, Name: "Knights and Knaves", Classification: ConditionalEquivalence,
		Clauses: [][2]string{
			{"phi <-> (phi & psi)", "phi -> psi"},
			{"phi <-> (phi | psi)", "psi -> phi"},
		},
	},
	{
		ID: ConditionalIdempotence, Name: "Conditional Idempotence", Classification: ConditionalEquivalence,
		Clauses: [][2]string{
			{"phi -> ~phi", "~phi"},
			{"~phi -> phi", "phi"},
		},
	},
	{
		ID: CondReduction, Name: "Conditional Truth Reduction", Classification: ConditionalEquivalence,
		Clauses: [][2]string{
			{"phi -> ^|^", "^|^"},
			{"_|_ -> phi", "^|^"},
			{"phi -> _|_", "~phi"},
			{"^|^ -> phi", "phi"},
		},
	},

	// Biconditional
	{
		ID: BiconditionalEquivalenceRule, Name: "Biconditional Equivalence", Classification: BiconditionalEquivalence,
		Clauses: [][2]string{
			{"(phi -> psi) & (psi -> phi)", "phi <-> psi"},
			{"(phi & psi) | (~phi & ~psi)", "phi <-> psi"},
		},
	},
	{
		ID: BiconditionalCommutation, Name: "Biconditional Commutation", Classification: BiconditionalEquivalence,
		Clauses: [][2]string{{"phi <-> psi", "psi <-> phi"}},
	},
	{
		ID: BiconditionalAssociation, Name: "Biconditional Association", Classification: BiconditionalEquivalence,
		Clauses: [][2]string{{"phi <-> (psi <-> lambda)", "(phi <-> psi) <-> lambda"}},
	},
	{
		ID: BiconditionalReduction, Name: "Biconditional Reduction", Classification: BiconditionalEquivalence,
		Clauses: [][2]string{
			{"phi & (phi <-> psi)", "phi & psi"},
			{"~phi & (phi <-> psi)", "~phi & ~psi"},
		},
	},
	{
		ID: BiconditionalComplement, Name: "Biconditional Complement", Classification: BiconditionalEquivalence,
		Clauses: [][2]string{
			{"phi <-> phi", "^|^"},
			{"phi <-> ~phi", "_|_"},
		},
	},
	{
		ID: BiconditionalIdentity, Name: "Biconditional Identity", Classification: BiconditionalEquivalence,
		Clauses: [][2]string{
			{"phi <-> _|_", "~phi"},
			{"phi <-> ^|^", "phi"},
		},
	},
	{
		ID: BiconditionalNegation, Name: "Biconditional Negation", Classification: BiconditionalEquivalence,
		Clauses: [][2]string{
			{"~phi <-> psi", "~(phi <-> psi)"},
			{"phi <-> ~psi", "~(phi <-> psi)"},
		},
	},
	{
		ID: BiconditionalSubstitution, Name: "Biconditional Substitution", Classification: BiconditionalEquivalence,
		Clauses: [][2]string{{"(phi <-> psi) & S(phi)", "(phi <-> psi) & S(psi)"}},
	},
	{
		ID: BicondReduction, Name: "Biconditional Truth Reduction", Classification: BiconditionalEquivalence,
		Clauses: [][2]string{
			{"phi <-> _|_", "~phi"},
			{"phi <-> ^|^", "phi"},
		},
	},

	// Special
	{ID: Reiteration, Name: "Reiteration", Classification: Special, Kind: KindReiteration},
}
