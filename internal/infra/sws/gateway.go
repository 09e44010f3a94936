package sws

import (
	"context"
	"errors"
	"log/slog"

	"enhanced-seatmap/internal/domain/assignment"
	"enhanced-seatmap/internal/domain/reservation"
	"enhanced-seatmap/internal/domain/seatmap"
	"enhanced-seatmap/internal/infra"
	"enhanced-seatmap/internal/pkg/config"
	"enhanced-seatmap/internal/usecase/session"
)

// Client holds what every session shares; Gateway binds it to one host
// session token.
type Client struct {
	caller   Caller
	parser   *Parser
	builder  *RequestBuilder
	detector *ErrorDetector
	authType string
	logger   *slog.Logger
}

func NewClient(cfg config.SWSConfig, caller Caller, parser *Parser, logger *slog.Logger) *Client {
	return &Client{
		caller:   caller,
		parser:   parser,
		builder:  NewRequestBuilder(cfg.PCC),
		detector: NewErrorDetector(cfg.ErrorMarkers),
		authType: cfg.AuthTokenType,
		logger:   logger,
	}
}

func (c *Client) ForSession(token string) session.Gateway {
	return &Gateway{client: c, token: token}
}

type Gateway struct {
	client *Client
	token  string
}

func (g *Gateway) FetchReservation(ctx context.Context) (*reservation.Reservation, error) {
	payload, err := g.client.builder.GetReservation()
	if err != nil {
		return nil, infra.WrapAdapterErr(g.client.logger, infra.KindTransport, "failed to build reservation request", err)
	}
	body, err := g.call(ctx, ActionGetReservation, payload)
	if err != nil {
		return nil, err
	}
	res, err := g.client.parser.ParseReservation([]byte(body))
	if err != nil {
		return nil, infra.WrapAdapterErr(g.client.logger, infra.KindParse, "failed to parse reservation", err)
	}
	return res, nil
}

func (g *Gateway) FetchSeatMap(ctx context.Context, q seatmap.Query) (*seatmap.SeatMap, error) {
	payload, err := g.client.builder.SeatMap(q)
	if err != nil {
		return nil, infra.WrapAdapterErr(g.client.logger, infra.KindTransport, "failed to build seat map request", err)
	}
	body, err := g.call(ctx, ActionSeatMap, payload)
	if err != nil {
		return nil, err
	}
	m, err := g.client.parser.ParseSeatMap([]byte(body))
	if err != nil {
		return nil, infra.WrapAdapterErr(g.client.logger, infra.KindParse, "failed to parse seat map", err)
	}
	return m, nil
}

// AssignSeats sends every batch in one request; the back-end accepts or
// rejects it as a whole.
func (g *Gateway) AssignSeats(ctx context.Context, batches []assignment.SegmentBatch) error {
	payload, err := g.client.builder.AssignSeats(batches)
	if err != nil {
		return infra.WrapAdapterErr(g.client.logger, infra.KindTransport, "failed to build seat request", err)
	}
	_, err = g.call(ctx, ActionAssignSeats, payload)
	return err
}

func (g *Gateway) CancelSeats(ctx context.Context, seats []assignment.SeatChange) error {
	payload, err := g.client.builder.CancelSeats(seats)
	if err != nil {
		return infra.WrapAdapterErr(g.client.logger, infra.KindTransport, "failed to build cancel request", err)
	}
	_, err = g.call(ctx, ActionCancelSeats, payload)
	return err
}

func (g *Gateway) call(ctx context.Context, action string, payload []byte) (string, error) {
	body, err := g.client.caller.Call(ctx, CallRequest{
		Action:        action,
		Payload:       payload,
		AuthTokenType: g.client.authType,
		Token:         g.token,
	})
	if err != nil {
		var ae infra.AdapterError
		if errors.As(err, &ae) && IsNoReservation(ae.Message()) {
			return "", infra.WrapAdapterErr(g.client.logger, infra.KindNoReservation, ae.Message(), err)
		}
		return "", err
	}
	if msg, rejected := g.client.detector.Detect(body); rejected {
		kind := infra.KindRejected
		if IsNoReservation(msg) {
			kind = infra.KindNoReservation
		}
		return "", infra.WrapAdapterErr(g.client.logger, kind, msg, nil)
	}
	return body, nil
}
