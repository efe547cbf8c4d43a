package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/evcraddock/deal-analyzer/internal/client"
	"github.com/evcraddock/deal-analyzer/internal/deal"
)

// probeDeal is a small valid deal used to test API key access.
var probeDeal = deal.Input{
	SalePrice:                  100000,
	DownpaymentPercentage:      20,
	AnnualMortgageInterestRate: 5,
	MortgageAmortizationYears:  25,
	MonthlyRent:                1000,
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and auth status",
		Long:  "Tests the connection to the configured server and checks whether the API key is accepted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	serverURL := getServerURL()
	apiKey := getAPIKey()

	fmt.Fprintf(out, "Server:  %s\n", serverURL)
	if apiKey == "" {
		fmt.Fprintln(out, "API Key: not configured")
	} else {
		prefix := apiKey
		if len(prefix) > 8 {
			prefix = prefix[:8]
		}
		fmt.Fprintf(out, "API Key: %s…\n", prefix)
	}

	c := client.New(serverURL, apiKey)
	if err := c.Health(); err != nil {
		fmt.Fprintf(out, "Status:  ✗ cannot reach server (%v)\n", err)
		return nil
	}

	_, err := c.Evaluate(probeDeal, probeDeal.SalePrice)
	var apiErr *client.APIError
	switch {
	case err == nil:
		fmt.Fprintln(out, "Status:  ✓ connected")
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized:
		fmt.Fprintln(out, "Status:  ✗ server requires a valid API key")
		fmt.Fprintln(out, "\nSet api_key in the config file or DA_API_KEY.")
	default:
		fmt.Fprintf(out, "Status:  ✗ unexpected response (%v)\n", err)
	}

	return nil
}
