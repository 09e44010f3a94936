package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"enhanced-seatmap/internal/infra/audit"
	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/config"
	"enhanced-seatmap/internal/usecase/session"
)

var AuditModule = fx.Module("audit",
	fx.Provide(
		NewAuditPublisher,
	),
)

func NewAuditPublisher(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) (session.AuditPublisher, error) {
	if !cfg.Audit.Enabled() {
		logger.Info("Audit publishing disabled, AMQP_URL is empty")
		return audit.Discard{Logger: logger}, nil
	}

	pub, err := audit.NewPublisher(cfg.Audit, clk, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub, nil
}
