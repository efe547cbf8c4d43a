package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/evcraddock/deal-analyzer/internal/deal"
)

const sampleYAML = `sale_price: 375000
downpayment_percentage: 20
annual_mortgage_interest_rate: 5.15
mortgage_amortization_years: 25
monthly_hoa_dues: 0
expected_vacancy_weeks: 3
monthly_rent: 2950
minimum_roi: 15
`

const sampleTOML = `sale_price = 375000
downpayment_percentage = 20
annual_mortgage_interest_rate = 5.15
mortgage_amortization_years = 25
expected_vacancy_weeks = 3
monthly_rent = 2950
granularity = 1000
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func wantSample() deal.Input {
	return deal.Input{
		SalePrice:                  375000,
		DownpaymentPercentage:      20,
		AnnualMortgageInterestRate: 5.15,
		MortgageAmortizationYears:  25,
		ExpectedVacancyWeeks:       3,
		MonthlyRent:                2950,
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "deal.yaml", sampleYAML)

	s, err := Load(Options{Path: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Deal != wantSample() {
		t.Errorf("deal = %+v, want %+v", s.Deal, wantSample())
	}
	if s.Criteria.MinimumROI != 15 {
		t.Errorf("min roi = %g, want 15", s.Criteria.MinimumROI)
	}
	if s.Criteria.MinimumCashflow != 0 {
		t.Errorf("min cashflow = %g, want 0", s.Criteria.MinimumCashflow)
	}
	if s.Criteria.Granularity != 1 {
		t.Errorf("granularity = %d, want 1", s.Criteria.Granularity)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "deal.toml", sampleTOML)

	s, err := Load(Options{Path: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Deal != wantSample() {
		t.Errorf("deal = %+v, want %+v", s.Deal, wantSample())
	}
	if s.Criteria.Granularity != 1000 {
		t.Errorf("granularity = %d, want 1000", s.Criteria.Granularity)
	}
	if s.Criteria.MinimumROI != 13 {
		t.Errorf("min roi = %g, want default 13", s.Criteria.MinimumROI)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "deal.yaml", sampleYAML)
	t.Setenv("DA_MONTHLY_RENT", "3100")

	s, err := Load(Options{Path: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Deal.MonthlyRent != 3100 {
		t.Errorf("rent = %g, want 3100", s.Deal.MonthlyRent)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	path := writeFile(t, "deal.yaml", sampleYAML)
	t.Setenv("DA_MONTHLY_RENT", "3100")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	if err := fs.Parse([]string{"--rent", "3200", "--granularity", "1000"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	s, err := Load(Options{Path: path, Flags: fs})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Deal.MonthlyRent != 3200 {
		t.Errorf("rent = %g, want 3200", s.Deal.MonthlyRent)
	}
	if s.Criteria.Granularity != 1000 {
		t.Errorf("granularity = %d, want 1000", s.Criteria.Granularity)
	}
	// Unchanged flags must not clobber the file.
	if s.Criteria.MinimumROI != 15 {
		t.Errorf("min roi = %g, want 15 from file", s.Criteria.MinimumROI)
	}
}

func TestLoadFlagsOnly(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	args := []string{"--sale-price", "375000", "--rate", "5.15", "--vacancy-weeks", "3", "--rent", "2950"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}

	s, err := Load(Options{Flags: fs})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Deal != wantSample() {
		t.Errorf("deal = %+v, want %+v", s.Deal, wantSample())
	}
}

func TestLoadDefaultsFromCaller(t *testing.T) {
	path := writeFile(t, "deal.toml", sampleTOML)

	s, err := Load(Options{Path: path, Defaults: deal.Criteria{MinimumROI: 8, MinimumCashflow: 1200}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Criteria.MinimumROI != 8 || s.Criteria.MinimumCashflow != 1200 {
		t.Errorf("criteria = %+v, want caller defaults", s.Criteria)
	}
	if s.Criteria.Granularity != 1000 {
		t.Errorf("granularity = %d, want 1000 from file", s.Criteria.Granularity)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, "deal.yaml", sampleYAML)
	envPath := writeFile(t, ".env", "DA_MONTHLY_HOA_DUES=275\n")
	t.Cleanup(func() {
		if err := os.Unsetenv("DA_MONTHLY_HOA_DUES"); err != nil {
			t.Errorf("unsetenv: %v", err)
		}
	})

	missing := filepath.Join(t.TempDir(), ".env")
	s, err := Load(Options{Path: path, DotEnv: []string{missing, envPath}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Deal.MonthlyHOADues != 275 {
		t.Errorf("hoa = %g, want 275 from the second .env file", s.Deal.MonthlyHOADues)
	}
}

func TestLoadMalformedDotEnv(t *testing.T) {
	path := writeFile(t, "deal.yaml", sampleYAML)
	envPath := writeFile(t, ".env", "DA_MONTHLY_HOA_DUES=\"275\n")

	_, err := Load(Options{Path: path, DotEnv: []string{envPath}})
	if err == nil {
		t.Fatal("expected error for malformed .env")
	}
	if !strings.Contains(err.Error(), envPath) {
		t.Errorf("error %q does not name %s", err, envPath)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		opts    func(t *testing.T) Options
		invalid bool
	}{
		{
			name: "missing file",
			opts: func(t *testing.T) Options {
				return Options{Path: filepath.Join(t.TempDir(), "nope.yaml")}
			},
		},
		{
			name: "nothing given",
			opts: func(t *testing.T) Options {
				return Options{}
			},
			invalid: true,
		},
		{
			name: "negative rent",
			opts: func(t *testing.T) Options {
				return Options{Path: writeFile(t, "bad.yaml", "sale_price: 100000\nmonthly_rent: -5\n")}
			},
			invalid: true,
		},
		{
			name: "zero granularity",
			opts: func(t *testing.T) Options {
				return Options{Path: writeFile(t, "bad.yaml", sampleYAML+"granularity: 0\n")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts(t))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.invalid && !errors.Is(err, deal.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}
