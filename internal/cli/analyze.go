package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/deal-analyzer/internal/deal"
	"github.com/evcraddock/deal-analyzer/internal/scenario"
)

// dotEnvFiles are loaded before DA_* overrides are read.
var dotEnvFiles = []string{".env"}

func newAnalyzeCmd() *cobra.Command {
	var (
		asIs   bool
		adjust bool
		remote bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [deal-file]",
		Short: "Show a deal's mortgage, expenses, cashflow and ROI",
		Long: "Evaluates a deal at its sale price (--as-is, the default), or at the highest purchase price\n" +
			"that meets the criteria (--adjust). The deal comes from a YAML, TOML or JSON file,\n" +
			"DA_* environment variables and flags, in increasing precedence.",
		Example: "  da analyze condo.yaml\n" +
			"  da analyze --sale-price 375000 --rate 5.15 --vacancy-weeks 3 --rent 2950 --adjust",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(cmd, args)
			if err != nil {
				return err
			}

			// --as-is=false is the long form of --adjust.
			atMax := adjust || !asIs

			var a deal.Analysis
			if remote {
				res, err := newAPIClient().Analyze(s.Deal, s.Criteria, atMax)
				if err != nil {
					return err
				}
				a = *res
			} else {
				a, err = deal.Analyze(s.Deal, s.Criteria, atMax)
				if err != nil {
					return err
				}
			}

			return printAnalysis(cmd.OutOrStdout(), a)
		},
	}

	cmd.Flags().BoolVar(&asIs, "as-is", true, "evaluate at the sale price; --as-is=false is the same as --adjust")
	cmd.Flags().BoolVar(&adjust, "adjust", false, "evaluate at the maximum purchase price instead")
	cmd.Flags().BoolVar(&remote, "remote", false, "run on the configured server")
	cmd.MarkFlagsMutuallyExclusive("as-is", "adjust")
	scenario.AddFlags(cmd.Flags())

	return cmd
}

// loadScenario resolves the deal from the optional file argument, the
// environment and the command's flags, with criteria defaults from the
// CLI config.
func loadScenario(cmd *cobra.Command, args []string) (scenario.Scenario, error) {
	cfg, err := loadConfig()
	if err != nil {
		return scenario.Scenario{}, err
	}

	opts := scenario.Options{
		Flags:    cmd.Flags(),
		Defaults: cfg.Criteria(),
		DotEnv:   dotEnvFiles,
	}
	if len(args) == 1 {
		opts.Path = args[0]
	}
	return scenario.Load(opts)
}
