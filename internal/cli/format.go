package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/evcraddock/deal-analyzer/internal/deal"
	"github.com/evcraddock/deal-analyzer/internal/report"
	"github.com/evcraddock/deal-analyzer/internal/sweep"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newFormatter builds a number formatter for the configured locale.
func newFormatter() (*report.Formatter, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	tag, err := cfg.LocaleTag()
	if err != nil {
		return nil, err
	}
	return report.NewFormatter(tag), nil
}

// printAnalysis writes a in the selected output format.
func printAnalysis(w io.Writer, a deal.Analysis) error {
	if isJSON() {
		return printJSON(w, a)
	}
	f, err := newFormatter()
	if err != nil {
		return err
	}
	if flagFormat == formatMarkdown {
		return report.Markdown(w, a, f)
	}
	return report.Text(w, a, f)
}

// printSearch writes the result of a price search.
func printSearch(w io.Writer, res deal.SearchResult) error {
	if isJSON() {
		return printJSON(w, res)
	}
	f, err := newFormatter()
	if err != nil {
		return err
	}
	line := f.Price(res.Price)
	if flagFormat == formatMarkdown {
		line = "**Maximum purchase price:** " + line
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("writing price: %w", err)
	}
	return nil
}

// printSweep writes sweep cells in the selected output format.
func printSweep(w io.Writer, cells []sweep.Cell) error {
	if isJSON() {
		return printJSON(w, cells)
	}
	f, err := newFormatter()
	if err != nil {
		return err
	}
	if flagFormat == formatMarkdown {
		return report.SweepMarkdown(w, cells, f)
	}
	return report.SweepText(w, cells, f)
}
