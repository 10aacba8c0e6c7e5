// Package service exposes the forecast engine over a plain JSON HTTP
// boundary: forecast computation, profile summaries, and validation of
// externally produced forecasts.
package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cashcast/backend/internal/forecast"
	"github.com/cashcast/backend/internal/store"
)

// maxBodyBytes bounds request bodies; multi-year transaction histories fit
// comfortably under this.
const maxBodyBytes = 16 << 20

// ForecastService serves forecast computations over HTTP.
type ForecastService struct {
	engine *forecast.Engine
	cache  store.ForecastCache
	logger *slog.Logger
	now    func() time.Time
}

// NewForecastService creates a forecast service.
func NewForecastService(cache store.ForecastCache, logger *slog.Logger) *ForecastService {
	return &ForecastService{
		engine: forecast.NewEngine(),
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterRoutes attaches the service's handlers to mux.
func (s *ForecastService) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/forecast", s.handleForecast)
	mux.HandleFunc("POST /v1/profile", s.handleProfile)
	mux.HandleFunc("POST /v1/forecast/validate", s.handleValidate)
}

// forecastRequest is the body for forecast and profile calls.
type forecastRequest struct {
	Transactions []forecast.RawTransaction `json:"transactions"`
}

// validateRequest carries an externally produced forecast to sanitize.
type validateRequest struct {
	PredictedTransactions []forecast.PredictedTransaction `json:"predicted_transactions"`
}

func (s *ForecastService) handleForecast(w http.ResponseWriter, r *http.Request) {
	body, req, ok := s.decodeForecastRequest(w, r)
	if !ok {
		return
	}

	now := s.now()
	key := requestDigest(body)
	if cached, ok := s.cache.Get(key, now); ok {
		s.logger.Debug("forecast cache hit", "key", key)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	result := s.engine.Forecast(req.Transactions, now)
	s.cache.Set(key, now, result)

	s.logger.Info("forecast computed",
		"input_transactions", len(req.Transactions),
		"predicted_transactions", len(result.PredictedTransactions))
	writeJSON(w, http.StatusOK, result)
}

func (s *ForecastService) handleProfile(w http.ResponseWriter, r *http.Request) {
	_, req, ok := s.decodeForecastRequest(w, r)
	if !ok {
		return
	}

	profile := s.engine.Profile(req.Transactions, s.now())
	s.logger.Info("profile computed",
		"recurring_series", len(profile.RecurringSeries),
		"discretionary_patterns", len(profile.DiscretionaryPatterns))
	writeJSON(w, http.StatusOK, profile)
}

// handleValidate sanitizes a forecast produced outside the engine to the
// same window, shape, and dedup invariants the engine enforces on its own
// output.
func (s *ForecastService) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result := forecast.ValidateForecast(req.PredictedTransactions, s.now())
	s.logger.Info("external forecast validated",
		"submitted", len(req.PredictedTransactions),
		"accepted", len(result.PredictedTransactions))
	writeJSON(w, http.StatusOK, result)
}

func (s *ForecastService) decodeForecastRequest(w http.ResponseWriter, r *http.Request) ([]byte, forecastRequest, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, forecastRequest{}, false
	}
	var req forecastRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, forecastRequest{}, false
	}
	return body, req, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// requestDigest keys the forecast cache on the exact request body.
func requestDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
