// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/Conte777/reaction-monitor/config"
	"github.com/Conte777/reaction-monitor/internal/domain"
	"github.com/Conte777/reaction-monitor/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, metrics, http, database, telegram bots)
		infrastructure.Module,

		// Domain (monitor business logic)
		domain.Module,
	)
}
