package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/deduce/check"
	"github.com/gnoswap-labs/deduce/formatter"
)

var (
	checkJSONOutput bool
	outPath         string
	showListing     bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Verify every line of the given proof documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		catalog, err := loadCatalog()
		if err != nil {
			logger.Error("Failed to build rule catalog", zap.Error(err))
			return err
		}

		opts := printOptions{json: checkJSONOutput, output: outPath, listing: showListing}
		ok, err := runCheck(ctx, logger, check.NewChecker(catalog), args, cmd.OutOrStdout(), opts)
		if err != nil {
			return err
		}
		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSONOutput, "json", false, "Output reports in JSON format")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().BoolVar(&showListing, "list", false, "Print every proof with a status mark per line")
}

type printOptions struct {
	json    bool
	output  string
	listing bool
}

// runCheck checks paths and prints the reports. It reports false when any
// line did not check.
func runCheck(ctx context.Context, logger *zap.Logger, engine check.Engine, paths []string, w io.Writer, opts printOptions) (bool, error) {
	reports, err := check.ProcessFiles(ctx, logger, engine, paths, check.ProcessFile)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		return false, err
	}

	if err := printReports(w, reports, opts); err != nil {
		logger.Error("Error printing reports", zap.Error(err))
		return false, err
	}

	for _, r := range reports {
		if !r.OK() {
			return false, nil
		}
	}
	return true, nil
}

func printReports(w io.Writer, reports []*check.Report, opts printOptions) error {
	if !opts.json {
		// text output
		for _, r := range reports {
			if opts.listing {
				fmt.Fprintln(w, formatter.FormatListing(r))
			}
			fmt.Fprint(w, formatter.GenerateFormattedReport(r))
		}
		fmt.Fprint(w, formatter.Summary(reports))
		return nil
	}

	// JSON output
	d, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling reports to JSON: %w", err)
	}
	if opts.output == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	return os.WriteFile(opts.output, d, 0o644)
}
