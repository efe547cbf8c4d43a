package deal

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestValidateMessages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		want   string
	}{
		{"sale price", func(in *Input) { in.SalePrice = -1 }, "sale price"},
		{"rent", func(in *Input) { in.MonthlyRent = 0 }, "monthly rent"},
		{"downpayment", func(in *Input) { in.DownpaymentPercentage = 120 }, "downpayment"},
		{"amortization", func(in *Input) { in.MortgageAmortizationYears = -3 }, "amortization"},
		{"vacancy", func(in *Input) { in.ExpectedVacancyWeeks = -1 }, "vacancy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput()
			tt.mutate(&in)
			err := in.Validate()
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestInputJSONFieldNames(t *testing.T) {
	raw := `{
		"sale_price": 375000,
		"downpayment_percentage": 20,
		"annual_mortgage_interest_rate": 5.15,
		"mortgage_amortization_years": 25,
		"monthly_hoa_dues": 0,
		"expected_vacancy_weeks": 3,
		"monthly_rent": 2950
	}`

	var in Input
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in != sampleInput() {
		t.Errorf("decoded %+v, want %+v", in, sampleInput())
	}
}
