package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/evcraddock/deal-analyzer/internal/cache"
	"github.com/evcraddock/deal-analyzer/internal/deal"
	"github.com/evcraddock/deal-analyzer/internal/sweep"
)

const (
	maxBodyBytes  = 1 << 20
	maxSweepCells = 400

	// CacheHeader reports whether a max-price response came from the cache.
	CacheHeader = "X-Cache"
)

// EvaluateRequest is the body of POST /api/evaluate. PurchasePrice
// defaults to the deal's sale price.
type EvaluateRequest struct {
	Deal          deal.Input `json:"deal"`
	PurchasePrice *float64   `json:"purchase_price,omitempty"`
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Deal     deal.Input    `json:"deal"`
	Criteria deal.Criteria `json:"criteria"`
	Adjust   bool          `json:"adjust"`
}

// MaxPriceRequest is the body of POST /api/max-price.
type MaxPriceRequest struct {
	Deal     deal.Input    `json:"deal"`
	Criteria deal.Criteria `json:"criteria"`
}

// SweepRequest is the body of POST /api/sweep.
type SweepRequest struct {
	Deal         deal.Input    `json:"deal"`
	Criteria     deal.Criteria `json:"criteria"`
	Rates        []float64     `json:"rates"`
	Downpayments []float64     `json:"downpayments"`
}

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiDealError maps analyzer errors onto status codes.
func apiDealError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, deal.ErrInvalidInput):
		apiError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, deal.ErrSearchInfeasible), errors.Is(err, deal.ErrSearchDivergent):
		apiError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("analyzer failure", "error", err)
		apiError(w, "internal error", http.StatusInternalServerError)
	}
}

// decodePost checks the method and decodes a bounded JSON body into dst.
// It writes the error response and returns false on failure.
func decodePost(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		apiError(w, fmt.Sprintf("invalid JSON body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

// validCriteria rejects criteria the search cannot honor.
func validCriteria(w http.ResponseWriter, c deal.Criteria) bool {
	if c.Granularity < 1 {
		apiError(w, "criteria.granularity must be at least 1", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleEvaluate returns the full metrics at one purchase price.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if !decodePost(w, r, &req) {
		return
	}

	price := req.Deal.SalePrice
	if req.PurchasePrice != nil {
		price = *req.PurchasePrice
	}

	res, err := deal.Evaluate(req.Deal, price)
	if err != nil {
		apiDealError(w, err)
		return
	}
	apiJSON(w, res, http.StatusOK)
}

// handleAnalyze evaluates the deal as-is or at its maximum price.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req := AnalyzeRequest{Criteria: deal.DefaultCriteria()}
	if !decodePost(w, r, &req) || !validCriteria(w, req.Criteria) {
		return
	}

	a, err := deal.Analyze(req.Deal, req.Criteria, req.Adjust)
	if err != nil {
		apiDealError(w, err)
		return
	}
	apiJSON(w, a, http.StatusOK)
}

// handleMaxPrice runs the price search, consulting the cache first.
func (s *Server) handleMaxPrice(w http.ResponseWriter, r *http.Request) {
	req := MaxPriceRequest{Criteria: deal.DefaultCriteria()}
	if !decodePost(w, r, &req) || !validCriteria(w, req.Criteria) {
		return
	}

	var key string
	if s.cfg.Cache != nil {
		k, err := cache.Key("max-price", req)
		if err != nil {
			apiError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		key = k
		if res, ok := s.cachedSearch(r, key); ok {
			w.Header().Set(CacheHeader, "hit")
			apiJSON(w, res, http.StatusOK)
			return
		}
	}

	res, err := deal.Search(req.Deal, req.Criteria)
	if err != nil {
		apiDealError(w, err)
		return
	}

	if key != "" {
		w.Header().Set(CacheHeader, "miss")
		s.storeSearch(r, key, res)
	}
	apiJSON(w, res, http.StatusOK)
}

// cachedSearch looks key up. Cache failures are logged and treated as a
// miss.
func (s *Server) cachedSearch(r *http.Request, key string) (deal.SearchResult, bool) {
	v, ok, err := s.cfg.Cache.Get(r.Context(), key)
	if err != nil {
		slog.Warn("cache get failed", "key", key, "error", err)
		return deal.SearchResult{}, false
	}
	if !ok {
		return deal.SearchResult{}, false
	}

	var res deal.SearchResult
	if err := json.Unmarshal([]byte(v), &res); err != nil {
		slog.Warn("discarding corrupt cache entry", "key", key, "error", err)
		return deal.SearchResult{}, false
	}
	return res, true
}

func (s *Server) storeSearch(r *http.Request, key string, res deal.SearchResult) {
	data, err := json.Marshal(res)
	if err != nil {
		slog.Warn("encoding cache entry", "key", key, "error", err)
		return
	}
	if err := s.cfg.Cache.Set(r.Context(), key, string(data)); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}

// handleSweep searches every rate/downpayment combination.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	req := SweepRequest{Criteria: deal.DefaultCriteria()}
	if !decodePost(w, r, &req) || !validCriteria(w, req.Criteria) {
		return
	}

	if n := max(len(req.Rates), 1) * max(len(req.Downpayments), 1); n > maxSweepCells {
		apiError(w, fmt.Sprintf("sweep has %d cells, limit is %d", n, maxSweepCells), http.StatusBadRequest)
		return
	}

	grid := sweep.Grid{Rates: req.Rates, Downpayments: req.Downpayments}
	cells, err := sweep.Run(r.Context(), req.Deal, req.Criteria, grid, sweep.Options{Workers: s.cfg.SweepWorkers})
	if err != nil {
		apiDealError(w, err)
		return
	}
	apiJSON(w, cells, http.StatusOK)
}
