package bootstrap

import (
	"log/slog"

	"go.uber.org/fx"

	"enhanced-seatmap/internal/handler/middleware"
	"enhanced-seatmap/internal/pkg/config"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
		func(l *middleware.Logger) *slog.Logger {
			return l.GetSlogLogger()
		},
	),
)

func NewLogger(cfg config.Config) *middleware.Logger {
	return middleware.NewLogger(cfg.Log)
}
