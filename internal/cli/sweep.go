package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/deal-analyzer/internal/scenario"
	"github.com/evcraddock/deal-analyzer/internal/sweep"
)

func newSweepCmd() *cobra.Command {
	var (
		rates   []float64
		downs   []float64
		workers int
		remote  bool
	)

	cmd := &cobra.Command{
		Use:   "sweep [deal-file]",
		Short: "Compare a deal across interest rates and downpayments",
		Long: "Evaluates the deal and searches its maximum purchase price for every combination of\n" +
			"--rates and --downpayments. An omitted list keeps the deal's own value.",
		Example: "  da sweep condo.yaml --rates 4,5,6 --downpayments 10,20,25",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(cmd, args)
			if err != nil {
				return err
			}

			grid := sweep.Grid{Rates: rates, Downpayments: downs}

			var cells []sweep.Cell
			if remote {
				cells, err = newAPIClient().Sweep(s.Deal, s.Criteria, grid)
			} else {
				cells, err = sweep.Run(cmd.Context(), s.Deal, s.Criteria, grid, sweep.Options{Workers: workers})
			}
			if err != nil {
				return err
			}

			return printSweep(cmd.OutOrStdout(), cells)
		},
	}

	cmd.Flags().Float64SliceVar(&rates, "rates", nil, "interest rates to try, percent")
	cmd.Flags().Float64SliceVar(&downs, "downpayments", nil, "downpayment percentages to try")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent searches (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&remote, "remote", false, "run on the configured server")
	scenario.AddFlags(cmd.Flags())

	return cmd
}
