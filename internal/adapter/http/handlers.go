package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type Handler struct{ checks map[string]Check }

// NewHandler builds the health endpoint; each named check runs on every call.
func NewHandler(checks map[string]Check) *Handler { return &Handler{checks: checks} }

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	code, status := http.StatusOK, "ok"
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			code, status = http.StatusServiceUnavailable, "degraded"
			continue
		}
		deps[name] = "ok"
	}
	body := map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(deps) > 0 {
		body["deps"] = deps
	}
	return c.JSON(code, body)
}
