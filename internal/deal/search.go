package deal

import (
	"fmt"
	"math"
)

// MaxSearchMultiple caps the bound-finding phase at this multiple of the
// sale price.
const MaxSearchMultiple = 1000

// Criteria are the thresholds a purchase price has to meet.
type Criteria struct {
	MinimumROI      float64 `json:"minimum_roi"`
	MinimumCashflow float64 `json:"minimum_cashflow"`
	// Granularity is the price step in whole currency units. The search
	// returns the largest feasible multiple of it. Zero means 1.
	Granularity int64 `json:"granularity,omitempty"`
}

// DefaultCriteria returns a 13% minimum ROI, break-even cashflow and
// $1 resolution.
func DefaultCriteria() Criteria {
	return Criteria{MinimumROI: 13, MinimumCashflow: 0, Granularity: 1}
}

func (c Criteria) step() int64 {
	if c.Granularity <= 0 {
		return 1
	}
	return c.Granularity
}

// Met reports whether r clears both thresholds.
func (c Criteria) Met(r Result) bool {
	return r.AnnualROI >= c.MinimumROI && r.AnnualCashflow >= c.MinimumCashflow
}

// Classification is the outcome of testing one candidate price.
type Classification int

const (
	// Bad prices fail the criteria.
	Bad Classification = iota
	// Good prices meet the criteria.
	Good
	// Max prices meet the criteria with cashflow sitting on the integer
	// cashflow threshold.
	Max
)

func (c Classification) String() string {
	switch c {
	case Bad:
		return "bad"
	case Good:
		return "good"
	case Max:
		return "max"
	}
	return fmt.Sprintf("Classification(%d)", int(c))
}

// Classify tests price against c using DefaultPolicy.
func Classify(in Input, price float64, c Criteria) (Classification, error) {
	r, err := Evaluate(in, price)
	if err != nil {
		return Bad, err
	}
	return classify(r, c), nil
}

func classify(r Result, c Criteria) Classification {
	if !c.Met(r) {
		return Bad
	}
	// Only an integer threshold has a floor that can equal it.
	if c.MinimumCashflow == math.Trunc(c.MinimumCashflow) &&
		math.Floor(r.AnnualCashflow) == c.MinimumCashflow {
		return Max
	}
	return Good
}

// SearchResult describes a completed price search.
type SearchResult struct {
	// Price is the highest feasible purchase price found.
	Price int64 `json:"max_purchase_price"`
	// UpperBound is the infeasible price found by the doubling phase.
	UpperBound int64 `json:"upper_bound"`
	// Evaluations counts calls to the evaluator.
	Evaluations int `json:"evaluations"`
	// ExactBoundary is set when the search stopped on a Max price.
	ExactBoundary bool `json:"exact_boundary"`
}

// FindMaxPurchasePrice returns the highest purchase price, in whole
// currency units, at which the deal meets c.
func FindMaxPurchasePrice(in Input, c Criteria) (int64, error) {
	res, err := Search(in, c)
	if err != nil {
		return 0, err
	}
	return res.Price, nil
}

// Search runs the price search with DefaultPolicy.
func Search(in Input, c Criteria) (SearchResult, error) {
	return DefaultPolicy().Search(in, c)
}

// Search finds the highest multiple of c.Granularity that meets c. It
// doubles the price from one step until the criteria fail, then binary
// searches between the last good and first bad step.
func (p Policy) Search(in Input, c Criteria) (SearchResult, error) {
	if err := in.Validate(); err != nil {
		return SearchResult{}, err
	}

	step := c.step()
	ceiling := in.SalePrice * MaxSearchMultiple
	var res SearchResult

	test := func(units int64) Classification {
		res.Evaluations++
		return classify(p.evaluate(in, float64(units*step)), c)
	}

	if test(1) == Bad {
		return res, fmt.Errorf("%w: a price of %d already fails the criteria", ErrSearchInfeasible, step)
	}

	// left is always feasible, right always infeasible.
	left, right := int64(1), int64(2)
	for test(right) != Bad {
		left = right
		if float64(right*step) > ceiling || right > math.MaxInt64/(2*step) {
			return res, fmt.Errorf("%w: still feasible at %d, over %dx the sale price",
				ErrSearchDivergent, right*step, MaxSearchMultiple)
		}
		right *= 2
	}
	res.UpperBound = right * step

	// Bisect the open interval (left, right); the upper midpoint keeps the
	// loop moving when the two are adjacent.
	right--
	for left < right {
		mid := left + (right-left+1)/2
		switch test(mid) {
		case Bad:
			right = mid - 1
		case Max:
			left = mid
			if mid == right || test(mid+1) == Bad {
				res.ExactBoundary = true
				right = mid
			}
		default:
			left = mid
		}
	}

	res.Price = left * step
	return res, nil
}
