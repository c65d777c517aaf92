package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

const version = "0.1.0"

// instanceID identifies this process when the platform does not.
var instanceID = uuid.NewString()

// Check represents the status of a health check.
type Check struct {
	Status  string `json:"status"`            // "pass" or "fail"
	Latency string `json:"latency,omitempty"` // e.g., "2ms"
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string           `json:"status"` // "healthy" or "degraded"
	Version   string           `json:"version"`
	Region    string           `json:"region,omitempty"`
	Instance  string           `json:"instance,omitempty"`
	Window    int              `json:"window"`
	Checks    map[string]Check `json:"checks"`
	Timestamp string           `json:"timestamp"`
}

// Health handles the health check endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]Check)
	allHealthy := true

	if h.kv != nil {
		start := time.Now()
		if err := h.kv.Ping(ctx); err != nil {
			checks[h.backend] = Check{Status: "fail", Message: "connection failed"}
			allHealthy = false
		} else {
			checks[h.backend] = Check{Status: "pass", Latency: time.Since(start).String()}
		}
	} else {
		checks["kv"] = Check{Status: "fail", Message: "not configured"}
		allHealthy = false
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	instance := os.Getenv("FLY_ALLOC_ID")
	if instance == "" {
		instance = instanceID
	}

	h.JSON(w, statusCode, HealthResponse{
		Status:    status,
		Version:   version,
		Region:    os.Getenv("FLY_REGION"),
		Instance:  instance,
		Window:    h.seeker.Window(),
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RootResponse represents the root endpoint response.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

// Root handles the root endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, RootResponse{
		Name:    "tagme.in",
		Version: version,
		Docs:    "https://tagme.in",
	})
}
