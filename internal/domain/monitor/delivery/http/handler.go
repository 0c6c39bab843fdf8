// Package http contains HTTP delivery of the monitor domain
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/deps"
)

// CheckTimeout bounds a single health check
const CheckTimeout = 2 * time.Second

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status         HealthStatus      `json:"status"`
	Timestamp      time.Time         `json:"timestamp"`
	ActiveMonitors int               `json:"activeMonitors"`
	Components     []ComponentHealth `json:"components"`
}

// BotCounter reports how many bot identities are running
type BotCounter interface {
	Len() int
}

// HealthHandler handles HTTP health check requests
type HealthHandler struct {
	bots   BotCounter
	store  deps.MonitorStore
	logger zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(bots BotCounter, store deps.MonitorStore, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		bots:   bots,
		store:  store,
		logger: logger.With().Str("component", "health").Logger(),
	}
}

// Handle handles the health check request for fasthttp
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	checkCtx, cancel := context.WithTimeout(context.Background(), CheckTimeout)
	defer cancel()

	components, active := h.checkComponents(checkCtx)

	status := HealthStatusHealthy
	for _, c := range components {
		if !c.Healthy {
			status = HealthStatusUnhealthy
		}
	}

	response := HealthResponse{
		Status:         status,
		Timestamp:      time.Now().UTC(),
		ActiveMonitors: active,
		Components:     components,
	}

	statusCode := fasthttp.StatusOK
	if status == HealthStatusUnhealthy {
		statusCode = fasthttp.StatusServiceUnavailable
	}

	h.logger.Debug().
		Str("status", string(status)).
		Int("status_code", statusCode).
		Msg("Health check completed")

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(statusCode)

	body, err := json.Marshal(response)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health check response")
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetBody(body)
}

func (h *HealthHandler) checkComponents(ctx context.Context) ([]ComponentHealth, int) {
	components := make([]ComponentHealth, 0, 2)

	bots := h.bots.Len()
	botsHealth := ComponentHealth{Name: "telegram_bots", Healthy: bots > 0, Message: fmt.Sprintf("%d bot(s)", bots)}
	components = append(components, botsHealth)

	active, err := h.store.Count(ctx)
	storeHealth := ComponentHealth{Name: "monitor_store", Healthy: err == nil}
	if err != nil {
		storeHealth.Message = err.Error()
	}
	components = append(components, storeHealth)

	return components, active
}
