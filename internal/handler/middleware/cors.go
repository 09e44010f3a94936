package middleware

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"enhanced-seatmap/internal/pkg/config"
)

// NewCORSMiddleware lets the workstation-hosted UI call the session API and
// the relay from its embedded browser origin.
func NewCORSMiddleware(cfg config.CORSConfig, logger *slog.Logger) gin.HandlerFunc {
	logger.Info("CORS middleware initialized", slog.Any("allow_origins", cfg.AllowOrigins))
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    append([]string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"}, cfg.ExposeHeaders...),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
