package components

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/config"
	"enhanced-seatmap/internal/usecase/session"
	"enhanced-seatmap/internal/usecase/upload"
)

var UseCaseModule = fx.Module("usecase",
	usecaseSessionModule,
	usecaseUploadModule,
)

var usecaseSessionModule = fx.Module("usecase/session",
	fx.Provide(
		session.NewRegistry,
		func(r *session.Registry) session.Sessions { return r },
	),
	fx.Invoke(runEviction),
)

var usecaseUploadModule = fx.Module("usecase/upload",
	fx.Provide(
		func(cfg config.Config, store upload.ObjectStore, clk clock.Clock, logger *slog.Logger) upload.Uploader {
			return upload.NewService(cfg.Relay, store, clk, logger)
		},
	),
)

func runEviction(lc fx.Lifecycle, r *session.Registry) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go r.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
