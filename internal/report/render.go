package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/evcraddock/deal-analyzer/internal/deal"
	"github.com/evcraddock/deal-analyzer/internal/sweep"
)

// Text writes a as an aligned two-column table.
func Text(w io.Writer, a deal.Analysis, f *Formatter) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintf(tw, "%s\n\n", heading(a, f)); err != nil {
		return fmt.Errorf("writing heading: %w", err)
	}
	for _, l := range Lines(a.Result) {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", l.Label, f.Value(l)); err != nil {
			return fmt.Errorf("writing %s: %w", l.Key, err)
		}
	}
	if _, err := fmt.Fprintf(tw, "\n%s\n", verdict(a, f)); err != nil {
		return fmt.Errorf("writing verdict: %w", err)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// Markdown writes a as a markdown document with a metrics table.
func Markdown(w io.Writer, a deal.Analysis, f *Formatter) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", heading(a, f))
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | ---: |\n")
	for _, l := range Lines(a.Result) {
		fmt.Fprintf(&b, "| %s | %s |\n", l.Label, f.Value(l))
	}
	fmt.Fprintf(&b, "\n%s\n", verdict(a, f))

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}

func heading(a deal.Analysis, f *Formatter) string {
	price := f.Money(decimal.NewFromFloat(a.PurchasePrice))
	if a.Adjusted {
		return "Deal at maximum purchase price " + price
	}
	return "Deal at sale price " + price
}

func verdict(a deal.Analysis, f *Formatter) string {
	crit := fmt.Sprintf("minimum ROI %s, minimum cashflow %s",
		f.Percent(decimal.NewFromFloat(a.Criteria.MinimumROI)),
		f.Money(decimal.NewFromFloat(a.Criteria.MinimumCashflow)))
	if a.MeetsCriteria {
		return "Meets criteria (" + crit + ")."
	}
	return "Does not meet criteria (" + crit + ")."
}

// SweepText writes sweep cells as a table.
func SweepText(w io.Writer, cells []sweep.Cell, f *Formatter) error {
	if len(cells) == 0 {
		if _, err := fmt.Fprintln(w, "No results."); err != nil {
			return fmt.Errorf("writing empty sweep: %w", err)
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "RATE\tDOWN\tCASHFLOW\tROI\tMAX PRICE"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "----\t----\t--------\t---\t---------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}
	for _, c := range cells {
		if _, err := fmt.Fprintln(tw, strings.Join(sweepRow(c, f), "\t")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// SweepMarkdown writes sweep cells as a markdown table.
func SweepMarkdown(w io.Writer, cells []sweep.Cell, f *Formatter) error {
	var b strings.Builder
	b.WriteString("| Rate | Down | Cashflow | ROI | Max Price |\n")
	b.WriteString("| ---: | ---: | ---: | ---: | ---: |\n")
	for _, c := range cells {
		fmt.Fprintf(&b, "| %s |\n", strings.Join(sweepRow(c, f), " | "))
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}

func sweepRow(c sweep.Cell, f *Formatter) []string {
	maxPrice := "-"
	if c.Error == "" {
		maxPrice = f.Price(c.MaxPrice)
	}
	return []string{
		f.Percent(decimal.NewFromFloat(c.Rate)),
		f.Percent(decimal.NewFromFloat(c.Downpayment)),
		f.Money(decimal.NewFromFloat(c.AsIs.AnnualCashflow).Round(2)),
		f.Percent(decimal.NewFromFloat(c.AsIs.AnnualROI).Round(2)),
		maxPrice,
	}
}
