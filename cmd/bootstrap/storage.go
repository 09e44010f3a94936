package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"enhanced-seatmap/internal/infra/storage"
	"enhanced-seatmap/internal/pkg/config"
	"enhanced-seatmap/internal/usecase/upload"
)

var StorageModule = fx.Module("storage",
	fx.Provide(
		fx.Annotate(
			NewObjectStore,
			fx.As(new(upload.ObjectStore)),
		),
	),
)

func NewObjectStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*storage.S3Store, error) {
	store, err := storage.NewS3Store(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return store.EnsureBucket(ctx)
		},
	})
	return store, nil
}
