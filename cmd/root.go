package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/deduce/check"
	"github.com/gnoswap-labs/deduce/internal/rules"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "deduce [paths...]",
	Short:            "deduce - check natural deduction proofs against a catalog of equivalences",
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			return cmd.Help()
		}
		// deduce [path1 path2 ...] behaves like the check subcommand
		return checkCmd.RunE(checkCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file (default "+check.DefaultConfigFile+")")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Timeout for checking documents")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(oracleCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadCatalog builds the catalog the configuration file describes.
func loadCatalog() (*rules.Catalog, error) {
	config, err := check.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	catalog, err := config.Catalog()
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded rule catalog",
		zap.String("config", config.Name),
		zap.Int("rules", catalog.Len()))
	return catalog, nil
}
