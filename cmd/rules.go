package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/deduce/formatter"
	"github.com/gnoswap-labs/deduce/internal/rules"
)

var ruleClass string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule catalog grouped by classification",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		return printRules(cmd.OutOrStdout(), catalog, ruleClass)
	},
}

func init() {
	rulesCmd.Flags().StringVar(&ruleClass, "class", "", "Only list one classification (boolean, conditional, biconditional, special)")
}

func printRules(w io.Writer, catalog *rules.Catalog, class string) error {
	groups := catalog.Classes()
	if class != "" {
		c, err := rules.ParseClassification(class)
		if err != nil {
			return err
		}
		groups = []rules.Group{{Classification: c, Rules: catalog.ByClass(c)}}
	}
	_, err := fmt.Fprint(w, formatter.FormatCatalog(groups))
	return err
}
