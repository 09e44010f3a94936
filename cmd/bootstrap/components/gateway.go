package components

import (
	"log/slog"
	"net/http"

	"go.uber.org/fx"

	"enhanced-seatmap/internal/infra/sws"
	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/config"
	"enhanced-seatmap/internal/usecase/session"
)

var ClockModule = fx.Module("clock",
	fx.Provide(clock.NewRealClock),
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewHTTPCaller,
			fx.As(new(sws.Caller)),
		),
		func(logger *slog.Logger) *sws.Parser {
			return sws.NewParser(sws.DefaultTable(), logger)
		},
		fx.Annotate(
			NewSWSClient,
			fx.As(new(session.GatewayFactory)),
		),
	),
)

// NewHTTPCaller bounds every round-trip by the call timeout as well; the
// session driver applies the same limit through its context.
func NewHTTPCaller(cfg config.Config, logger *slog.Logger) *sws.HTTPCaller {
	client := &http.Client{Timeout: cfg.SWS.CallTimeout}
	return sws.NewHTTPCaller(cfg.SWS.Endpoint, client, logger)
}

func NewSWSClient(cfg config.Config, caller sws.Caller, parser *sws.Parser, logger *slog.Logger) *sws.Client {
	return sws.NewClient(cfg.SWS, caller, parser, logger)
}
