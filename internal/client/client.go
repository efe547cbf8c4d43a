// Package client provides an HTTP client for the deal analyzer JSON API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/evcraddock/deal-analyzer/internal/deal"
	"github.com/evcraddock/deal-analyzer/internal/sweep"
)

// Client is an HTTP client for the deal analyzer API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Evaluate returns the metrics for d at purchasePrice.
func (c *Client) Evaluate(d deal.Input, purchasePrice float64) (*deal.Result, error) {
	body := struct {
		Deal          deal.Input `json:"deal"`
		PurchasePrice float64    `json:"purchase_price"`
	}{d, purchasePrice}

	var r deal.Result
	if err := c.post("/api/evaluate", body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Analyze evaluates d at its sale price, or at its maximum price when
// adjust is set.
func (c *Client) Analyze(d deal.Input, crit deal.Criteria, adjust bool) (*deal.Analysis, error) {
	body := struct {
		Deal     deal.Input    `json:"deal"`
		Criteria deal.Criteria `json:"criteria"`
		Adjust   bool          `json:"adjust"`
	}{d, crit, adjust}

	var a deal.Analysis
	if err := c.post("/api/analyze", body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// MaxPrice searches for the highest purchase price that meets crit.
func (c *Client) MaxPrice(d deal.Input, crit deal.Criteria) (*deal.SearchResult, error) {
	body := struct {
		Deal     deal.Input    `json:"deal"`
		Criteria deal.Criteria `json:"criteria"`
	}{d, crit}

	var res deal.SearchResult
	if err := c.post("/api/max-price", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Sweep runs the price search across a financing grid.
func (c *Client) Sweep(d deal.Input, crit deal.Criteria, grid sweep.Grid) ([]sweep.Cell, error) {
	body := struct {
		Deal         deal.Input    `json:"deal"`
		Criteria     deal.Criteria `json:"criteria"`
		Rates        []float64     `json:"rates"`
		Downpayments []float64     `json:"downpayments"`
	}{d, crit, grid.Rates, grid.Downpayments}

	var cells []sweep.Cell
	if err := c.post("/api/sweep", body, &cells); err != nil {
		return nil, err
	}
	return cells, nil
}

// Health checks the server's health endpoint.
func (c *Client) Health() error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get("/health", &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("server reported status %q", resp.Status)
	}
	return nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do executes an HTTP request with auth header and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := fmt.Sprintf("server error: %s", http.StatusText(resp.StatusCode))
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
