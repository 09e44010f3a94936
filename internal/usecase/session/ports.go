package session

import (
	"context"
	"time"

	"enhanced-seatmap/internal/domain/assignment"
	"enhanced-seatmap/internal/domain/reservation"
	"enhanced-seatmap/internal/domain/seatmap"
)

// Gateway is the reservation back-end bound to one host session.
type Gateway interface {
	FetchReservation(ctx context.Context) (*reservation.Reservation, error)
	FetchSeatMap(ctx context.Context, q seatmap.Query) (*seatmap.SeatMap, error)
	AssignSeats(ctx context.Context, batches []assignment.SegmentBatch) error
	CancelSeats(ctx context.Context, seats []assignment.SeatChange) error
}

type GatewayFactory interface {
	ForSession(token string) Gateway
}

type AuditEventType string

const (
	AuditSeatsConfirmed AuditEventType = "seats.confirmed"
	AuditSeatCancelled  AuditEventType = "seat.cancelled"
	AuditSeatsReset     AuditEventType = "seats.reset"
)

type AuditSeat struct {
	PassengerID   string `json:"passengerId"`
	NameReference string `json:"nameReference"`
	SegmentNumber string `json:"segmentNumber"`
	SeatLabel     string `json:"seatLabel"`
}

type AuditEvent struct {
	Type          AuditEventType `json:"type"`
	SessionID     string         `json:"sessionId"`
	RecordLocator string         `json:"recordLocator"`
	Seats         []AuditSeat    `json:"seats"`
	OccurredAt    time.Time      `json:"occurredAt"`
}

type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent) error
}

// Prompt describes a destructive write awaiting the agent's approval.
type Prompt struct {
	Action string
	Seats  []reservation.SeatAssignment
}

// Confirmer blocks until the agent approves or declines.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// StaticConfirmer answers every prompt the same way. The HTTP surface uses it
// to carry the agent's explicit confirm flag.
type StaticConfirmer bool

func (s StaticConfirmer) Confirm(context.Context, Prompt) (bool, error) {
	return bool(s), nil
}
