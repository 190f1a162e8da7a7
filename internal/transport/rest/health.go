package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

const dbPingTimeout = 2 * time.Second

type healthState string

const (
	healthUp   healthState = "up"
	healthDown healthState = "down"
)

type componentHealth struct {
	Status    healthState `json:"status"`
	Error     string      `json:"error,omitempty"`
	LatencyMs int64       `json:"latency_ms"`
}

type healthReport struct {
	Service    string                     `json:"service"`
	Status     healthState                `json:"status"`
	CheckedAt  time.Time                  `json:"checked_at"`
	Components map[string]componentHealth `json:"components"`
}

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// pingHandler answers liveness probes without touching dependencies.
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// healthCheckHandler answers readiness probes with a database round trip.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbPingTimeout)
	defer cancel()

	start := time.Now()
	pingErr := h.db.PingContext(ctx)

	db := componentHealth{Status: healthUp, LatencyMs: time.Since(start).Milliseconds()}
	if pingErr != nil {
		db.Status = healthDown
		db.Error = pingErr.Error()
	}

	report := healthReport{
		Service:    "user-management",
		Status:     db.Status,
		CheckedAt:  time.Now(),
		Components: map[string]componentHealth{"database": db},
	}

	code := http.StatusOK
	if report.Status == healthDown {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(report)
}
