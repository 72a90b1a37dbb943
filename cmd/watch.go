package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/deduce/check"
	"github.com/gnoswap-labs/deduce/formatter"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-check proof documents whenever they are saved",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		w := check.NewWatcher(check.NewChecker(catalog), logger, reportPrinter(cmd.OutOrStdout()))
		return w.Watch(ctx, args...)
	},
}

// reportPrinter prints each re-check as it arrives. Callbacks may run
// concurrently for different files.
func reportPrinter(w io.Writer) func(string, *check.Report, error) {
	var mu sync.Mutex
	return func(path string, report *check.Report, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", path, err)
			return
		}
		if report.OK() {
			fmt.Fprintf(w, "%s: all %d lines valid\n", path, len(report.Lines))
			return
		}
		logger.Debug("Report has failures", zap.String("file", path), zap.Int("failures", report.Failures()))
		fmt.Fprint(w, formatter.GenerateFormattedReport(report))
	}
}
