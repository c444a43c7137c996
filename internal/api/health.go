package api

import (
	"net/http"
	"time"

	"github.com/motoguard/motoguard/internal/api/respond"
	"github.com/motoguard/motoguard/internal/health"
)

// HealthHandler reports the cached aggregate health flag.
type HealthHandler struct {
	checker *health.ServiceHealthChecker
}

func NewHealthHandler(checker *health.ServiceHealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// CheckHealth GET /api/health returns 200 when every dependency is up,
// 503 otherwise. The probe is non-blocking; checkers refresh in the
// background.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if !h.checker.IsHealthy() {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	respond.WriteJSON(w, code, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
