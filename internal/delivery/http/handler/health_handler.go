package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"screening-sync/internal/pkg/response"
)

type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	checks []HealthCheck
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health reports optional dependencies without failing: the service runs
// degraded when any of them is down.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	checks := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if err := chk.Check(ctx); err != nil {
			checks[chk.Name] = "error"
			status = "degraded"
			continue
		}
		checks[chk.Name] = "ok"
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"status": status,
		"checks": checks,
	})
}
