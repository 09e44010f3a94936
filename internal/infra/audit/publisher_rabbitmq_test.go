//go:build e2e

package audit_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"enhanced-seatmap/internal/infra/audit"
	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/config"
	"enhanced-seatmap/internal/usecase/session"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type PublisherSuite struct {
	suite.Suite
	container testcontainers.Container
	cfg       config.AuditConfig
	clock     *clock.MockClock
	publisher *audit.Publisher
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForLog("Server startup complete"),
				wait.ForListeningPort("5672/tcp"),
			).WithDeadline(2 * time.Minute),
			Labels: map[string]string{"purpose": "e2e-tests"},
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = c

	host, err := c.Host(ctx)
	s.Require().NoError(err)
	port, err := c.MappedPort(ctx, nat.Port("5672/tcp"))
	s.Require().NoError(err)

	s.cfg = config.AuditConfig{
		URL:   fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()),
		Queue: "seatmap.audit.test",
	}
	s.clock = clock.NewMockClock(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))
	s.publisher, err = audit.NewPublisher(s.cfg, s.clock, quietLogger)
	s.Require().NoError(err)
}

func (s *PublisherSuite) TearDownSuite() {
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.container.Terminate(ctx)
	}
}

func (s *PublisherSuite) TestPublishDeliversPersistentJSON() {
	event := session.AuditEvent{
		Type:          session.AuditSeatsConfirmed,
		SessionID:     "sess-1",
		RecordLocator: "QWERTY",
		Seats: []session.AuditSeat{
			{PassengerID: "1", NameReference: "01.01", SegmentNumber: "1", SeatLabel: "10A"},
		},
		OccurredAt: s.clock.Now(),
	}
	s.Require().NoError(s.publisher.Publish(context.Background(), event))

	conn, err := amqp.Dial(s.cfg.URL)
	s.Require().NoError(err)
	defer conn.Close()
	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	var msg amqp.Delivery
	s.Require().Eventually(func() bool {
		var ok bool
		msg, ok, err = ch.Get(s.cfg.Queue, true)
		return err == nil && ok
	}, 10*time.Second, 100*time.Millisecond)

	s.Equal("application/json", msg.ContentType)
	s.Equal(amqp.Persistent, msg.DeliveryMode)
	s.Equal(string(session.AuditSeatsConfirmed), msg.Type)
	s.True(msg.Timestamp.Equal(s.clock.Now()))

	var got session.AuditEvent
	s.Require().NoError(json.Unmarshal(msg.Body, &got))
	s.Equal(event.RecordLocator, got.RecordLocator)
	s.Equal(event.Seats, got.Seats)
	s.True(got.OccurredAt.Equal(event.OccurredAt))
}
