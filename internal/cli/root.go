// Package cli defines the cobra command tree for deal-analyzer.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evcraddock/deal-analyzer/internal/client"
	"github.com/evcraddock/deal-analyzer/internal/logging"
)

const (
	formatText     = "text"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

var (
	flagFormat  string
	flagConfig  string
	flagVerbose bool
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "da",
		Short: "Evaluate rental property deals",
		Long: "A tool to evaluate rental property purchases. Computes mortgage, expenses, cashflow and ROI " +
			"for a deal, and finds the highest purchase price that still meets your return criteria.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch flagFormat {
			case formatText, formatJSON, formatMarkdown:
			default:
				return fmt.Errorf("unknown format %q (want text, json or markdown)", flagFormat)
			}
			logging.SetupLevel(cmd.ErrOrStderr(), flagVerbose, slog.LevelWarn)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", formatText, "output format (text|json|markdown)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "CLI config path (default: ~/.config/da/config.yaml)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		newAnalyzeCmd(),
		newMaxPriceCmd(),
		newSweepCmd(),
		newServeCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// newAPIClient creates an HTTP client for the deal analyzer API.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), getAPIKey())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == formatJSON
}
