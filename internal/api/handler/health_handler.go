package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is the slice of the store the health endpoint depends on.
type Pinger interface {
	Ping(ctx context.Context) error
	Name() string
}

// HealthHandler reports process liveness and backing-store connectivity.
// A store outage degrades the report; it never fails the endpoint.
type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check handles GET /health.
//
// @Summary      Health and store connectivity
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Database:  "connected",
	}
	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "disconnected"
	}
	return c.JSON(http.StatusOK, resp)
}
