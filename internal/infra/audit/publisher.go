package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"enhanced-seatmap/internal/infra"
	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/config"
	"enhanced-seatmap/internal/usecase/session"
)

// Publisher sends audit events to a durable queue on the default exchange.
// The channel is not safe for concurrent publishing, hence the mutex.
type Publisher struct {
	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	queue  string
	clock  clock.Clock
	logger *slog.Logger
}

func NewPublisher(cfg config.AuditConfig, clk clock.Clock, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, infra.WrapAdapterErr(logger, infra.KindTransport, "rabbitmq dial failed", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, infra.WrapAdapterErr(logger, infra.KindTransport, "rabbitmq channel open failed", err)
	}
	if _, err := ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, infra.WrapAdapterErr(logger, infra.KindTransport, "rabbitmq queue declare failed", err)
	}
	return &Publisher{conn: conn, ch: ch, queue: cfg.Queue, clock: clk, logger: logger}, nil
}

func (p *Publisher) Publish(ctx context.Context, event session.AuditEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return infra.WrapAdapterErr(p.logger, infra.KindTransport, "failed to marshal audit event", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.clock.Now(),
			Type:         string(event.Type),
			Body:         body,
		},
	)
	if err != nil {
		return infra.WrapAdapterErr(p.logger, infra.KindTransport, "rabbitmq publish failed", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// Discard drops events; it stands in when no broker is configured.
type Discard struct {
	Logger *slog.Logger
}

func (d Discard) Publish(_ context.Context, event session.AuditEvent) error {
	if d.Logger != nil {
		d.Logger.Debug("Audit event discarded", slog.String("type", string(event.Type)))
	}
	return nil
}
