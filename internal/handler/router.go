package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"enhanced-seatmap/internal/handler/api"
	"enhanced-seatmap/internal/handler/middleware"
	"enhanced-seatmap/internal/infra/ratelimit"
	"enhanced-seatmap/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	Config         config.Config
	Logger         *middleware.Logger
	Limiter        ratelimit.Limiter
	SessionHandler *api.SessionHandler
	UploadHandler  *api.UploadHandler
}

func NewRouter(engine *gin.Engine, p RouterParams) {
	setupMiddleware(engine, p.Config, p.Logger)
	setupRoutes(engine, p)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	slogger := logger.GetSlogLogger()
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(slogger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, slogger))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, p RouterParams) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	relay := engine.Group("")
	relay.Use(middleware.RequireSharedSecret(p.Config.Relay.SharedSecret))
	relay.Use(middleware.RateLimit(p.Limiter, p.Logger.GetSlogLogger()))
	{
		addRoutes(relay, []route{
			{Method: http.MethodPost, Path: "/upload", Handler: p.UploadHandler.Upload},
		})
	}

	sessions := engine.Group("/api/sessions")
	{
		h := p.SessionHandler
		addRoutes(sessions, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Open},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Get},
			{Method: http.MethodDelete, Path: "/:id", Handler: h.Close},
			{Method: http.MethodPut, Path: "/:id/selection", Handler: h.SelectSegment},
			{Method: http.MethodPut, Path: "/:id/passenger", Handler: h.SelectPassenger},
			{Method: http.MethodPost, Path: "/:id/assignments", Handler: h.AssignSeat},
			{Method: http.MethodDelete, Path: "/:id/assignments/:passengerId/:segmentNumber", Handler: h.ClearAssignment},
			{Method: http.MethodPost, Path: "/:id/auto-assign", Handler: h.AutoAssign},
			{Method: http.MethodPost, Path: "/:id/save", Handler: h.Save},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.CancelSeat},
			{Method: http.MethodPost, Path: "/:id/reset", Handler: h.Reset},
		})
	}
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		g.Handle(r.Method, r.Path, h)
	}
}

// chainHandlers runs hs in order and stops at the first abort.
func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
