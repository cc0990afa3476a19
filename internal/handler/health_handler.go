package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

const readinessTimeout = 2 * time.Second

// Heap thresholds, in MiB, for the detailed memory check.
const (
	heapWarnMB      = 500
	heapUnhealthyMB = 1000
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness, readiness and detailed health checks.
type HealthHandler struct {
	store        Pinger
	startedAt    time.Time
	readMemStats func(*runtime.MemStats)
	logger       zerolog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		store:        store,
		startedAt:    time.Now(),
		readMemStats: runtime.ReadMemStats,
		logger:       logger.With().Str("handler", "health").Logger(),
	}
}

// DetailedHealth is the body of GET /health/detailed.
type DetailedHealth struct {
	Status        string       `json:"status"`
	Timestamp     time.Time    `json:"timestamp"`
	UptimeSeconds float64      `json:"uptimeSeconds"`
	GoVersion     string       `json:"goVersion"`
	Goroutines    int          `json:"goroutines"`
	Checks        HealthChecks `json:"checks"`
	Memory        MemoryUsage  `json:"memory"`
}

// HealthChecks holds the per-dependency verdicts.
type HealthChecks struct {
	Database string `json:"database"`
	Memory   string `json:"memory"`
}

// MemoryUsage reports runtime memory figures in MiB.
type MemoryUsage struct {
	HeapAllocMB uint64 `json:"heapAllocMB"`
	HeapSysMB   uint64 `json:"heapSysMB"`
	SysMB       uint64 `json:"sysMB"`
	NumGC       uint32 `json:"numGC"`
}

// Live handles GET /health and GET /health/live.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready handles GET /health/ready by pinging the offer store.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("offer store unreachable")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unavailable",
			"database": "unreachable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"database": "ok",
	})
}

// Detailed handles GET /health/detailed. An unreachable store answers 503;
// heap pressure alone only degrades the status.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	report := DetailedHealth{
		Status:        "healthy",
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		Checks:        HealthChecks{Database: "healthy"},
	}

	var stats runtime.MemStats
	h.readMemStats(&stats)
	report.Memory = MemoryUsage{
		HeapAllocMB: toMiB(stats.HeapAlloc),
		HeapSysMB:   toMiB(stats.HeapSys),
		SysMB:       toMiB(stats.Sys),
		NumGC:       stats.NumGC,
	}
	report.Checks.Memory = memoryVerdict(report.Memory.HeapAllocMB)
	if report.Checks.Memory == "unhealthy" {
		report.Status = "degraded"
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error().Err(err).Msg("detailed health: offer store unreachable")
		report.Checks.Database = "unhealthy"
		report.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, report)
}

func memoryVerdict(heapAllocMB uint64) string {
	switch {
	case heapAllocMB > heapUnhealthyMB:
		return "unhealthy"
	case heapAllocMB > heapWarnMB:
		return "warning"
	default:
		return "healthy"
	}
}

func toMiB(b uint64) uint64 {
	return b / (1 << 20)
}
