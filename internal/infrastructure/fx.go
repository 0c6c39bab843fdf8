// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Conte777/reaction-monitor/internal/infrastructure/database"
	"github.com/Conte777/reaction-monitor/internal/infrastructure/http"
	"github.com/Conte777/reaction-monitor/internal/infrastructure/logger"
	"github.com/Conte777/reaction-monitor/internal/infrastructure/metrics"
	"github.com/Conte777/reaction-monitor/internal/infrastructure/telegram"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	http.Module,
	database.Module,
	telegram.Module,
)
