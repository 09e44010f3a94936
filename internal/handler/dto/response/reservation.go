package response

import "enhanced-seatmap/internal/domain/reservation"

type ReservationResponse struct {
	RecordLocator string               `json:"recordLocator,omitempty"`
	Passengers    []PassengerResponse  `json:"passengers"`
	Segments      []SegmentResponse    `json:"segments"`
	AssignedSeats []AssignmentResponse `json:"assignedSeats"`
}

func FromReservation(r *reservation.Reservation) *ReservationResponse {
	return &ReservationResponse{
		RecordLocator: r.RecordLocator(),
		Passengers:    FromPassengers(r.Passengers()),
		Segments:      FromSegments(r.Segments()),
		AssignedSeats: FromAssignments(r.AssignedSeats()),
	}
}
