package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger verifies reachability of the identity provider
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker handles health check requests
type HealthChecker struct {
	provider Pinger
}

// NewHealthChecker creates a new health checker. provider may be nil when
// running against the local fallback store.
func NewHealthChecker(provider Pinger) *HealthChecker {
	return &HealthChecker{provider: provider}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if mode == "extended" {
		checks := make(map[string]string)

		// Check identity provider reachability
		if h.provider == nil {
			checks["provider"] = "local fallback store"
		} else if err := h.checkProvider(r.Context()); err != nil {
			response.Status = "unhealthy"
			checks["provider"] = "unhealthy: " + err.Error()
		} else {
			checks["provider"] = "healthy"
		}

		response.Checks = checks

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(response)
		return
	}

	// Basic mode - just return that the server is running
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// checkProvider verifies the identity provider is reachable
func (h *HealthChecker) checkProvider(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return h.provider.Ping(ctx)
}
