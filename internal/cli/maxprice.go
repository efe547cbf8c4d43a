package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evcraddock/deal-analyzer/internal/deal"
	"github.com/evcraddock/deal-analyzer/internal/scenario"
)

func newMaxPriceCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "max-price [deal-file]",
		Short: "Find the highest purchase price that meets the criteria",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenario(cmd, args)
			if err != nil {
				return err
			}

			var res deal.SearchResult
			if remote {
				r, err := newAPIClient().MaxPrice(s.Deal, s.Criteria)
				if err != nil {
					return err
				}
				res = *r
			} else {
				res, err = deal.Search(s.Deal, s.Criteria)
				if err != nil {
					return err
				}
			}

			slog.Debug("price search finished",
				"price", res.Price,
				"upper_bound", res.UpperBound,
				"evaluations", res.Evaluations,
				"exact_boundary", res.ExactBoundary)

			return printSearch(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "run on the configured server")
	scenario.AddFlags(cmd.Flags())

	return cmd
}
