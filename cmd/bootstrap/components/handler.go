package components

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"enhanced-seatmap/internal/handler"
	"enhanced-seatmap/internal/handler/api"
	"enhanced-seatmap/internal/handler/middleware"
	"enhanced-seatmap/internal/infra/ratelimit"
	"enhanced-seatmap/internal/pkg/config"
	"enhanced-seatmap/internal/usecase/upload"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSessionHandler,
		func(cfg config.Config, uploader upload.Uploader) *api.UploadHandler {
			return api.NewUploadHandler(uploader, cfg.Relay.MaxBodyBytes)
		},
	),
	fx.Invoke(registerRoutes),
)

func registerRoutes(
	engine *gin.Engine,
	cfg config.Config,
	logger *middleware.Logger,
	limiter ratelimit.Limiter,
	sessions *api.SessionHandler,
	uploads *api.UploadHandler,
) {
	handler.NewRouter(engine, handler.RouterParams{
		Config:         cfg,
		Logger:         logger,
		Limiter:        limiter,
		SessionHandler: sessions,
		UploadHandler:  uploads,
	})
}
