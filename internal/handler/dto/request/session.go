package request

import (
	"strings"

	"enhanced-seatmap/internal/domain/reservation"
)

type OpenSessionRequest struct {
	SessionToken string `json:"sessionToken"`
}

// Token prefers the body value and falls back to the header value.
func (r OpenSessionRequest) Token(header string) string {
	if t := strings.TrimSpace(r.SessionToken); t != "" {
		return t
	}
	return strings.TrimSpace(header)
}

type SelectSegmentRequest struct {
	SegmentNumber string `json:"segmentNumber" binding:"required"`
	Cabin         string `json:"cabin"`
}

// CabinClass returns the zero cabin when none was given, which selects the
// configured default cabin.
func (r SelectSegmentRequest) CabinClass() (reservation.CabinClass, error) {
	if strings.TrimSpace(r.Cabin) == "" {
		return "", nil
	}
	return reservation.ParseCabinClass(r.Cabin)
}

type SelectPassengerRequest struct {
	PassengerID string `json:"passengerId" binding:"required"`
}

type AssignSeatRequest struct {
	PassengerID   string `json:"passengerId" binding:"required"`
	SegmentNumber string `json:"segmentNumber"`
	SeatLabel     string `json:"seatLabel" binding:"required"`
}

type CancelSeatRequest struct {
	PassengerID   string `json:"passengerId" binding:"required"`
	SegmentNumber string `json:"segmentNumber" binding:"required"`
	Confirm       bool   `json:"confirm"`
}

type ResetRequest struct {
	Confirm bool `json:"confirm"`
}
