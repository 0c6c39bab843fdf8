// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor"
)

// Module aggregates all domain modules for fx dependency injection
var Module = fx.Module("domain",
	monitor.Module,
)
