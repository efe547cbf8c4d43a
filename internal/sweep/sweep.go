// Package sweep runs the price search for one deal across a grid of
// financing terms.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/evcraddock/deal-analyzer/internal/deal"
)

// Grid lists the interest rates and downpayment percentages to try. An
// empty list keeps the deal's own value.
type Grid struct {
	Rates        []float64 `json:"rates"`
	Downpayments []float64 `json:"downpayments"`
}

// Cell is the outcome for one rate/downpayment pair.
type Cell struct {
	Rate        float64     `json:"rate"`
	Downpayment float64     `json:"downpayment"`
	AsIs        deal.Result `json:"as_is"`
	MeetsAsIs   bool        `json:"meets_as_is"`
	// MaxPrice is zero when Error is set.
	MaxPrice int64  `json:"max_purchase_price"`
	Error    string `json:"error,omitempty"`
}

// Options controls a sweep.
type Options struct {
	// Workers caps concurrent searches. Zero uses GOMAXPROCS.
	Workers int
}

// Run evaluates in at its sale price and searches for its maximum price
// once per grid cell. Cells come back in rate-major order. Search
// failures are recorded on the cell; only invalid input and
// cancellation fail the whole run.
func Run(ctx context.Context, in deal.Input, c deal.Criteria, grid Grid, opts Options) ([]Cell, error) {
	rates := grid.Rates
	if len(rates) == 0 {
		rates = []float64{in.AnnualMortgageInterestRate}
	}
	downs := grid.Downpayments
	if len(downs) == 0 {
		downs = []float64{in.DownpaymentPercentage}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	cells := make([]Cell, len(rates)*len(downs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rate := range rates {
		for j, down := range downs {
			idx := i*len(downs) + j
			variant := in
			variant.AnnualMortgageInterestRate = rate
			variant.DownpaymentPercentage = down

			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				cell, err := runCell(variant, c)
				if err != nil {
					return fmt.Errorf("rate %g, downpayment %g: %w", rate, down, err)
				}
				cells[idx] = cell
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cells, nil
}

func runCell(in deal.Input, c deal.Criteria) (Cell, error) {
	cell := Cell{Rate: in.AnnualMortgageInterestRate, Downpayment: in.DownpaymentPercentage}

	r, err := deal.Evaluate(in, in.SalePrice)
	if err != nil {
		return Cell{}, err
	}
	cell.AsIs = r
	cell.MeetsAsIs = c.Met(r)

	price, err := deal.FindMaxPurchasePrice(in, c)
	switch {
	case errors.Is(err, deal.ErrSearchInfeasible), errors.Is(err, deal.ErrSearchDivergent):
		cell.Error = err.Error()
	case err != nil:
		return Cell{}, err
	default:
		cell.MaxPrice = price
	}
	return cell, nil
}
