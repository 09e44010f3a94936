//go:build unit || e2e

package builder

import (
	"time"

	"enhanced-seatmap/internal/domain/reservation"
)

// BuildDomain builds the reservation the XML form parses to.
func (b *ReservationBuilder) BuildDomain() *reservation.Reservation {
	factory := reservation.NewPassengerFactory(nil)
	passengers := make([]*reservation.Passenger, 0, len(b.Passengers))
	byRef := make(map[*reservation.Passenger]PassengerXML)
	for _, p := range b.Passengers {
		if p.OmitNameID {
			continue
		}
		pax, err := factory.Create(p.FirstName, p.LastName, p.NameID, p.AssocID)
		if err != nil {
			panic(err)
		}
		passengers = append(passengers, pax)
		byRef[pax] = p
	}

	segments := make([]*reservation.Segment, 0, len(b.Segments))
	for _, s := range b.Segments {
		if s.NonAir {
			continue
		}
		departure, _ := time.Parse("2006-01-02T15:04:05", s.Departure)
		seg, err := reservation.NewSegment(reservation.SegmentSpec{
			Number:           s.Sequence,
			DisplayIndex:     len(segments),
			Origin:           s.Origin,
			Destination:      s.Destination,
			Departure:        departure,
			MarketingCarrier: s.Carrier,
			FlightNumber:     s.Flight,
			BookingClass:     s.Class,
			Equipment:        s.Equipment,
		})
		if err != nil {
			panic(err)
		}
		segments = append(segments, seg)
	}

	var assigned []reservation.SeatAssignment
	for _, pax := range passengers {
		for _, s := range byRef[pax].Seats {
			assigned = append(assigned, reservation.SeatAssignment{
				PassengerID:   pax.ID(),
				SegmentNumber: s.SegmentNumber,
				SeatLabel:     s.Label,
				Confirmed:     true,
			})
		}
	}
	return reservation.NewReservation(b.RecordLocator, passengers, segments, assigned)
}
