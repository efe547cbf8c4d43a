// Package report turns deal metrics into labeled, formatted lines and
// renders them as text tables or markdown.
package report

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/evcraddock/deal-analyzer/internal/deal"
)

// Kind says how a line's value is displayed.
type Kind int

const (
	Money Kind = iota
	Percent
)

// Line is one labeled metric, rounded to cents.
type Line struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
	Kind  Kind            `json:"-"`
}

// Lines lists the metrics of r in reading order.
func Lines(r deal.Result) []Line {
	return []Line{
		line("purchase_price", r.PurchasePrice, Money),
		line("loan_amount", r.LoanAmount, Money),
		line("down_payment", r.DownPayment, Money),
		line("closing_costs", r.ClosingCosts, Money),
		line("monthly_pmi", r.MonthlyPMI, Money),
		line("monthly_mortgage_payment", r.MonthlyMortgagePayment, Money),
		line("annual_mortgage_payment", r.AnnualMortgagePayment, Money),
		line("annual_hoa_dues", r.AnnualHOADues, Money),
		line("annual_capex", r.AnnualCapEx, Money),
		line("annual_property_tax", r.AnnualPropertyTax, Money),
		line("annual_property_insurance", r.AnnualPropertyInsurance, Money),
		line("annual_vacancy_cost", r.AnnualVacancyCost, Money),
		line("total_annual_expenses", r.TotalAnnualExpenses, Money),
		line("annual_rent", r.AnnualRent, Money),
		line("annual_cashflow", r.AnnualCashflow, Money),
		line("annual_principal_reduction", r.AnnualPrincipalReduction, Money),
		line("annual_appreciation", r.AnnualAppreciation, Money),
		line("total_annual_return", r.TotalAnnualReturn, Money),
		line("annual_roi", r.AnnualROI, Percent),
	}
}

func line(key string, v float64, kind Kind) Line {
	return Line{
		Key:   key,
		Label: Label(key),
		Value: decimal.NewFromFloat(v).Round(2),
		Kind:  kind,
	}
}

// acronyms keep their casing when a key is turned into a label.
var acronyms = map[string]string{
	"roi":   "ROI",
	"hoa":   "HOA",
	"pmi":   "PMI",
	"capex": "CapEx",
}

// Label turns a snake_case or camelCase key into words:
// "annual_hoa_dues" and "annualHoaDues" both become "Annual HOA Dues".
func Label(key string) string {
	words := splitWords(key)
	for i, w := range words {
		lower := strings.ToLower(w)
		if a, ok := acronyms[lower]; ok {
			words[i] = a
			continue
		}
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

func splitWords(key string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	prevLower := false
	for _, r := range key {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
			prevLower = false
		case unicode.IsUpper(r):
			// A run of capitals like "ROI" stays one word.
			if prevLower {
				flush()
			}
			cur.WriteRune(r)
			prevLower = false
		default:
			cur.WriteRune(r)
			prevLower = true
		}
	}
	flush()
	return words
}

// Formatter renders numbers for one locale.
type Formatter struct {
	p *message.Printer
}

// NewFormatter creates a formatter for tag.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{p: message.NewPrinter(tag)}
}

// DefaultFormatter formats for US English.
func DefaultFormatter() *Formatter {
	return NewFormatter(language.AmericanEnglish)
}

// Money formats d as dollars and cents with grouping, e.g. "-$1,234.50".
func (f *Formatter) Money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + f.p.Sprintf("$%.2f", d.InexactFloat64())
}

// Percent formats d with two decimals, e.g. "29.15%".
func (f *Formatter) Percent(d decimal.Decimal) string {
	return f.p.Sprintf("%.2f%%", d.InexactFloat64())
}

// Price formats a whole-dollar price, e.g. "$383,558".
func (f *Formatter) Price(dollars int64) string {
	if dollars < 0 {
		return "-" + f.p.Sprintf("$%d", -dollars)
	}
	return f.p.Sprintf("$%d", dollars)
}

// Value formats l according to its kind.
func (f *Formatter) Value(l Line) string {
	if l.Kind == Percent {
		return f.Percent(l.Value)
	}
	return f.Money(l.Value)
}
