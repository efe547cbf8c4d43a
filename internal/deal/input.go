// Package deal evaluates a rental property purchase and searches for the
// highest purchase price that still meets return and cashflow criteria.
package deal

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput is returned when deal figures are out of range.
	ErrInvalidInput = errors.New("invalid deal input")
	// ErrSearchDivergent is returned when the price search cannot find an
	// infeasible upper bound below the search ceiling.
	ErrSearchDivergent = errors.New("price search diverged")
	// ErrSearchInfeasible is returned when even the smallest price fails
	// the criteria.
	ErrSearchInfeasible = errors.New("no feasible purchase price")
)

// Input holds the fixed figures of a deal. It is never mutated by this
// package; the candidate purchase price is passed separately.
type Input struct {
	SalePrice                  float64 `json:"sale_price"`
	DownpaymentPercentage      float64 `json:"downpayment_percentage"`
	AnnualMortgageInterestRate float64 `json:"annual_mortgage_interest_rate"`
	MortgageAmortizationYears  int     `json:"mortgage_amortization_years"`
	MonthlyHOADues             float64 `json:"monthly_hoa_dues"`
	ExpectedVacancyWeeks       float64 `json:"expected_vacancy_weeks"`
	MonthlyRent                float64 `json:"monthly_rent"`
}

// Validate reports the first out-of-range field, wrapped in ErrInvalidInput.
func (in Input) Validate() error {
	switch {
	case !positive(in.SalePrice):
		return fmt.Errorf("%w: sale price must be positive and finite, got %g", ErrInvalidInput, in.SalePrice)
	case !positive(in.MonthlyRent):
		return fmt.Errorf("%w: monthly rent must be positive and finite, got %g", ErrInvalidInput, in.MonthlyRent)
	case !(in.DownpaymentPercentage >= 0 && in.DownpaymentPercentage <= 100):
		return fmt.Errorf("%w: downpayment percentage must be 0-100, got %g", ErrInvalidInput, in.DownpaymentPercentage)
	case !nonNegative(in.AnnualMortgageInterestRate):
		return fmt.Errorf("%w: interest rate must be finite and not negative, got %g", ErrInvalidInput, in.AnnualMortgageInterestRate)
	case in.MortgageAmortizationYears <= 0:
		return fmt.Errorf("%w: amortization must be at least 1 year, got %d", ErrInvalidInput, in.MortgageAmortizationYears)
	case !nonNegative(in.MonthlyHOADues):
		return fmt.Errorf("%w: HOA dues must be finite and not negative, got %g", ErrInvalidInput, in.MonthlyHOADues)
	case !(in.ExpectedVacancyWeeks >= 0 && in.ExpectedVacancyWeeks <= 52):
		return fmt.Errorf("%w: vacancy weeks must be 0-52, got %g", ErrInvalidInput, in.ExpectedVacancyWeeks)
	}
	return nil
}

// positive and nonNegative reject NaN and infinities.
func positive(x float64) bool { return x > 0 && !math.IsInf(x, 0) }

func nonNegative(x float64) bool { return x >= 0 && !math.IsInf(x, 0) }
