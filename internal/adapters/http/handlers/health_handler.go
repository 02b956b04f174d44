package handlers

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/jsamuelsen11/core-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/core-api/internal/platform/logging"
	"github.com/jsamuelsen11/core-api/internal/ports"
)

const (
	statusOK    = "ok"
	statusReady = "ready"
)

// HealthHandler handles liveness and readiness endpoints.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler creates a new HealthHandler with the given health registry.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. Always 200.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	dto.WriteEnvelope(w, r, dto.NewSuccess(dto.HealthResponse{Status: statusOK}))
}

// Readiness handles GET /health/ready. When every check passes it returns
// 200 with the per-check results as data; otherwise a 503 error envelope
// naming the failing checks in sorted order. Check errors are logged, not
// returned.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	checks := make(map[string]string, len(results))
	var failing []string
	for name, err := range results {
		if err != nil {
			failing = append(failing, name)
			logging.FromContext(r.Context()).WarnContext(r.Context(), "health check failed",
				slog.String("check", name),
				slog.Any("error", err),
			)
			continue
		}
		checks[name] = statusOK
	}

	if len(failing) > 0 {
		slices.Sort(failing)
		dto.WriteEnvelope(w, r, dto.NewError(
			strconv.Itoa(http.StatusServiceUnavailable),
			"Service is not ready: "+strings.Join(failing, ", "),
		))
		return
	}

	dto.WriteEnvelope(w, r, dto.NewSuccess(dto.HealthResponse{
		Status: statusReady,
		Checks: checks,
	}))
}
