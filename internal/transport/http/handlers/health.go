package http_handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/baechuer/nutrition-service/internal/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Check is one dependency probed by /readyz. An Optional check that fails
// is reported but leaves the service ready.
type Check struct {
	Name     string
	Ping     func(ctx context.Context) error
	Optional bool
}

func PingCheck(name string, p Pinger) Check {
	return Check{Name: name, Ping: p.PingContext}
}

type HealthHandler struct {
	checks []Check
}

// NewHealthHandler with no checks is always ready (in-memory store).
func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is liveness only; it never touches dependencies.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthBody{Status: "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	body := healthBody{Status: "ready"}
	if len(h.checks) > 0 {
		body.Checks = make(map[string]string, len(h.checks))
	}
	for _, c := range h.checks {
		if err := c.Ping(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn().Err(err).Str("check", c.Name).Msg("readiness check failed")
			body.Checks[c.Name] = "down"
			if !c.Optional {
				body.Status = "unavailable"
			}
			continue
		}
		body.Checks[c.Name] = "ok"
	}

	if body.Status != "ready" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, body)
}
