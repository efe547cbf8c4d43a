// Package scenario loads deal figures and criteria from a file, the
// environment and command-line flags.
package scenario

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/evcraddock/deal-analyzer/internal/deal"
)

// EnvPrefix prefixes environment overrides, e.g. DA_SALE_PRICE.
const EnvPrefix = "DA"

// Scenario is one deal plus the criteria to judge it by.
type Scenario struct {
	Deal     deal.Input
	Criteria deal.Criteria
}

// binding ties a config key to the flag that overrides it.
type binding struct {
	key  string
	flag string
}

var bindings = []binding{
	{"sale_price", "sale-price"},
	{"downpayment_percentage", "downpayment"},
	{"annual_mortgage_interest_rate", "rate"},
	{"mortgage_amortization_years", "years"},
	{"monthly_hoa_dues", "hoa"},
	{"expected_vacancy_weeks", "vacancy-weeks"},
	{"monthly_rent", "rent"},
	{"minimum_roi", "min-roi"},
	{"minimum_cashflow", "min-cashflow"},
	{"granularity", "granularity"},
}

// AddFlags registers the deal and criteria flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.Float64("sale-price", 0, "listed sale price")
	fs.Float64("downpayment", 20, "downpayment percentage (0-100)")
	fs.Float64("rate", 0, "annual mortgage interest rate, percent")
	fs.Int("years", 25, "mortgage amortization in years")
	fs.Float64("hoa", 0, "monthly HOA dues")
	fs.Float64("vacancy-weeks", 0, "expected vacant weeks per year")
	fs.Float64("rent", 0, "monthly rent")
	fs.Float64("min-roi", 13, "minimum annual ROI, percent")
	fs.Float64("min-cashflow", 0, "minimum annual cashflow")
	fs.Int64("granularity", 1, "price search step in whole dollars (1000 for the coarse scan)")
}

// Options controls where Load looks for values.
type Options struct {
	// Path is a YAML, TOML or JSON deal file. Empty means flags and
	// environment only.
	Path string
	// Flags, when set, override the file and environment for every flag
	// the user changed.
	Flags *pflag.FlagSet
	// Defaults seed the criteria before the file is read, e.g. from the
	// CLI config.
	Defaults deal.Criteria
	// DotEnv names .env files to load first. Missing files are ignored.
	DotEnv []string
}

// Load resolves a scenario. Precedence, highest first: changed flags,
// DA_* environment variables, the deal file, then defaults.
func Load(opts Options) (Scenario, error) {
	if err := loadDotEnv(opts.DotEnv); err != nil {
		return Scenario{}, err
	}

	v := viper.New()
	setDefaults(v, opts.Defaults)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
		if err := v.ReadInConfig(); err != nil {
			return Scenario{}, fmt.Errorf("reading deal file %s: %w", opts.Path, err)
		}
	}

	if opts.Flags != nil {
		for _, b := range bindings {
			f := opts.Flags.Lookup(b.flag)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(b.key, f); err != nil {
				return Scenario{}, fmt.Errorf("binding flag %s: %w", b.flag, err)
			}
		}
	}

	s := Scenario{
		Deal: deal.Input{
			SalePrice:                  v.GetFloat64("sale_price"),
			DownpaymentPercentage:      v.GetFloat64("downpayment_percentage"),
			AnnualMortgageInterestRate: v.GetFloat64("annual_mortgage_interest_rate"),
			MortgageAmortizationYears:  v.GetInt("mortgage_amortization_years"),
			MonthlyHOADues:             v.GetFloat64("monthly_hoa_dues"),
			ExpectedVacancyWeeks:       v.GetFloat64("expected_vacancy_weeks"),
			MonthlyRent:                v.GetFloat64("monthly_rent"),
		},
		Criteria: deal.Criteria{
			MinimumROI:      v.GetFloat64("minimum_roi"),
			MinimumCashflow: v.GetFloat64("minimum_cashflow"),
			Granularity:     v.GetInt64("granularity"),
		},
	}

	if err := s.Deal.Validate(); err != nil {
		if errors.Is(err, deal.ErrInvalidInput) && s.Deal.SalePrice == 0 && opts.Path == "" {
			return Scenario{}, fmt.Errorf("no deal given: pass a deal file or --sale-price and --rent: %w", err)
		}
		return Scenario{}, err
	}
	if s.Criteria.Granularity < 1 {
		return Scenario{}, fmt.Errorf("granularity must be at least 1, got %d", s.Criteria.Granularity)
	}

	return s, nil
}

// loadDotEnv loads each file in turn, skipping missing ones. Variables
// already set in the environment win.
func loadDotEnv(paths []string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, c deal.Criteria) {
	if c == (deal.Criteria{}) {
		c = deal.DefaultCriteria()
	}
	if c.Granularity == 0 {
		c.Granularity = 1
	}
	v.SetDefault("downpayment_percentage", 20)
	v.SetDefault("mortgage_amortization_years", 25)
	v.SetDefault("monthly_hoa_dues", 0)
	v.SetDefault("expected_vacancy_weeks", 0)
	v.SetDefault("minimum_roi", c.MinimumROI)
	v.SetDefault("minimum_cashflow", c.MinimumCashflow)
	v.SetDefault("granularity", c.Granularity)
}
