package bootstrap

import (
	"go.uber.org/fx"

	"enhanced-seatmap/internal/pkg/config"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)
