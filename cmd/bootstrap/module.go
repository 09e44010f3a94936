package bootstrap

import (
	"go.uber.org/fx"

	"enhanced-seatmap/cmd/bootstrap/components"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	components.ClockModule,
	RedisModule,
	AuditModule,
	StorageModule,
	components.GatewayModule,
	components.UseCaseModule,
	components.HandlerModule,
)
