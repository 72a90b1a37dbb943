package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/deduce/formatter"
	"github.com/gnoswap-labs/deduce/internal/oracle"
	"github.com/gnoswap-labs/deduce/internal/rules"
)

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Check by truth table that every rule clause is an equivalence",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		report := runOracle(catalog, cmd.OutOrStdout(), os.Stderr)
		if !report.OK() {
			os.Exit(1)
		}
		return nil
	},
}

func runOracle(catalog *rules.Catalog, w, progress io.Writer) oracle.Report {
	clauses := catalog.Clauses()
	bar := progressbar.NewOptions(len(clauses),
		progressbar.OptionSetDescription("oracle"),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	report := oracle.CheckAll(clauses, func(c oracle.Clause, err error) {
		if err != nil && logger != nil {
			logger.Warn("Clause is not an equivalence", zap.String("clause", c.Name), zap.Error(err))
		}
		_ = bar.Add(1)
	})
	_ = bar.Finish()

	fmt.Fprint(w, formatter.FormatOracleReport(report))
	return report
}
