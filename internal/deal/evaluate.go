package deal

import (
	"fmt"
	"math"
)

// Fixed policy assumptions of this evaluator. Rates are fractions of the
// purchase price unless noted.
const (
	DefaultCapExRate        = 0.01
	DefaultPropertyTaxRate  = 0.015
	DefaultAnnualInsurance  = 1750.0
	DefaultClosingCostRate  = 0.02
	DefaultAppreciationRate = 0.048
	// DefaultPMIThreshold is the downpayment percentage at or above which
	// no mortgage insurance is charged.
	DefaultPMIThreshold = 20.0
	// DefaultPMIRate is the annual insurance charge as a fraction of the
	// purchase price.
	DefaultPMIRate = 0.015
	// WeeksPerMonth approximates a month when pricing vacant weeks.
	WeeksPerMonth = 4.0
)

// Policy bundles the evaluator's assumptions so tests and callers can
// override individual constants.
type Policy struct {
	CapExRate        float64
	PropertyTaxRate  float64
	AnnualInsurance  float64
	ClosingCostRate  float64
	AppreciationRate float64
	PMIThreshold     float64
	PMIRate          float64
	WeeksPerMonth    float64
}

// DefaultPolicy returns the standard assumptions.
func DefaultPolicy() Policy {
	return Policy{
		CapExRate:        DefaultCapExRate,
		PropertyTaxRate:  DefaultPropertyTaxRate,
		AnnualInsurance:  DefaultAnnualInsurance,
		ClosingCostRate:  DefaultClosingCostRate,
		AppreciationRate: DefaultAppreciationRate,
		PMIThreshold:     DefaultPMIThreshold,
		PMIRate:          DefaultPMIRate,
		WeeksPerMonth:    WeeksPerMonth,
	}
}

// Result is the full set of metrics for one purchase price. All figures
// are annual unless the name says otherwise.
type Result struct {
	PurchasePrice            float64 `json:"purchase_price"`
	LoanAmount               float64 `json:"loan_amount"`
	MonthlyPMI               float64 `json:"monthly_pmi"`
	MonthlyMortgagePayment   float64 `json:"monthly_mortgage_payment"`
	AnnualMortgagePayment    float64 `json:"annual_mortgage_payment"`
	AnnualHOADues            float64 `json:"annual_hoa_dues"`
	AnnualCapEx              float64 `json:"annual_capex"`
	AnnualPropertyTax        float64 `json:"annual_property_tax"`
	AnnualPropertyInsurance  float64 `json:"annual_property_insurance"`
	AnnualVacancyCost        float64 `json:"annual_vacancy_cost"`
	TotalAnnualExpenses      float64 `json:"total_annual_expenses"`
	AnnualRent               float64 `json:"annual_rent"`
	AnnualCashflow           float64 `json:"annual_cashflow"`
	AnnualPrincipalReduction float64 `json:"annual_principal_reduction"`
	AnnualAppreciation       float64 `json:"annual_appreciation"`
	TotalAnnualReturn        float64 `json:"total_annual_return"`
	DownPayment              float64 `json:"down_payment"`
	ClosingCosts             float64 `json:"closing_costs"`
	AnnualROI                float64 `json:"annual_roi"`
}

// Evaluate computes the deal metrics at purchasePrice using DefaultPolicy.
func Evaluate(in Input, purchasePrice float64) (Result, error) {
	return DefaultPolicy().Evaluate(in, purchasePrice)
}

// Evaluate computes the deal metrics at purchasePrice.
func (p Policy) Evaluate(in Input, purchasePrice float64) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	if !positive(purchasePrice) {
		return Result{}, fmt.Errorf("%w: purchase price must be positive and finite, got %g", ErrInvalidInput, purchasePrice)
	}
	return p.evaluate(in, purchasePrice), nil
}

// evaluate assumes in and price have been validated.
func (p Policy) evaluate(in Input, price float64) Result {
	var r Result
	r.PurchasePrice = price
	r.LoanAmount = price * (1 - in.DownpaymentPercentage/100)

	rate := in.AnnualMortgageInterestRate / 100 / 12
	periods := float64(in.MortgageAmortizationYears * 12)

	if in.DownpaymentPercentage < p.PMIThreshold {
		r.MonthlyPMI = price * p.PMIRate / 12
	}
	r.MonthlyMortgagePayment = r.MonthlyPMI + amortizedPayment(r.LoanAmount, rate, periods)

	r.AnnualMortgagePayment = r.MonthlyMortgagePayment * 12
	r.AnnualHOADues = in.MonthlyHOADues * 12
	r.AnnualCapEx = price * p.CapExRate
	r.AnnualPropertyTax = price * p.PropertyTaxRate
	r.AnnualPropertyInsurance = p.AnnualInsurance
	r.AnnualVacancyCost = in.MonthlyRent / p.WeeksPerMonth * in.ExpectedVacancyWeeks
	r.TotalAnnualExpenses = r.AnnualMortgagePayment +
		r.AnnualHOADues +
		r.AnnualCapEx +
		r.AnnualPropertyTax +
		r.AnnualPropertyInsurance +
		r.AnnualVacancyCost

	r.AnnualRent = in.MonthlyRent * 12
	r.AnnualCashflow = r.AnnualRent - r.TotalAnnualExpenses

	r.AnnualPrincipalReduction = firstYearPrincipal(r.LoanAmount, rate, r.MonthlyMortgagePayment)
	r.AnnualAppreciation = price * p.AppreciationRate
	r.TotalAnnualReturn = r.AnnualCashflow + r.AnnualPrincipalReduction + r.AnnualAppreciation

	r.DownPayment = price * in.DownpaymentPercentage / 100
	r.ClosingCosts = price * p.ClosingCostRate
	r.AnnualROI = r.TotalAnnualReturn / (r.DownPayment + r.ClosingCosts) * 100

	return r
}

// amortizedPayment is the fixed monthly payment that retires loan over
// periods months. A zero rate splits the loan evenly.
func amortizedPayment(loan, rate, periods float64) float64 {
	if rate == 0 {
		return loan / periods
	}
	return loan * rate / (1 - math.Pow(1+rate, -periods))
}

// firstYearPrincipal walks twelve monthly payments and sums the portion of
// each that goes to principal.
func firstYearPrincipal(balance, rate, payment float64) float64 {
	var total float64
	for month := 0; month < 12; month++ {
		interest := balance * rate
		principal := payment - interest
		total += principal
		balance -= principal
	}
	return total
}
