package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/repository/memory"
)

type fixedBots int

func (n fixedBots) Len() int { return int(n) }

func TestHealthHandler(t *testing.T) {
	store := memory.NewStore(zerolog.Nop())
	require.NoError(t, store.Put(context.Background(), &entities.Monitor{
		ID: "m", Key: entities.Key{ChatID: -1, MessageID: 1}, Reactions: []string{"👍"}, Threshold: 1,
	}))

	tests := []struct {
		name       string
		bots       int
		wantCode   int
		wantStatus HealthStatus
	}{
		{"bots running", 2, fasthttp.StatusOK, HealthStatusHealthy},
		{"no bots", 0, fasthttp.StatusServiceUnavailable, HealthStatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(fixedBots(tt.bots), store, zerolog.Nop())

			var ctx fasthttp.RequestCtx
			h.Handle(&ctx)

			assert.Equal(t, tt.wantCode, ctx.Response.StatusCode())

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, 1, resp.ActiveMonitors)
			assert.Len(t, resp.Components, 2)
		})
	}
}
