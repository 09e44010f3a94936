//go:build unit || e2e

package builder

import (
	"fmt"
	"strings"
)

type PassengerXML struct {
	NameID     string
	AssocID    string
	FirstName  string
	LastName   string
	Seats      []SeatXML
	OmitNameID bool
}

type SeatXML struct {
	Label         string
	SegmentNumber string
}

type SegmentXML struct {
	Sequence    string
	Origin      string
	Destination string
	Departure   string
	Carrier     string
	Flight      string
	Class       string
	Equipment   string
	NonAir      bool
}

// ReservationBuilder renders GetReservationRS documents in the shape the
// normalisation table reads.
type ReservationBuilder struct {
	Namespace     string
	RecordLocator string
	Passengers    []PassengerXML
	Segments      []SegmentXML
	LooseSeats    []LooseSeatXML
}

// LooseSeatXML is a seat listed outside any passenger node, linked by token.
type LooseSeatXML struct {
	Label         string
	SegmentNumber string
	Token         string
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		Namespace:     "http://webservices.sabre.com/pnrbuilder/v1_19",
		RecordLocator: "QWERTY",
		Passengers: []PassengerXML{
			{NameID: "01.01", AssocID: "1", FirstName: "JOHN MR", LastName: "SMITH"},
			{NameID: "02.01", AssocID: "2", FirstName: "JANE MRS", LastName: "SMITH"},
		},
		Segments: []SegmentXML{
			{Sequence: "1", Origin: "DFW", Destination: "LHR", Departure: "2026-11-02T17:30:00", Carrier: "AA", Flight: "50", Class: "Y", Equipment: "77W"},
			{Sequence: "2", Origin: "LHR", Destination: "DFW", Departure: "2026-11-09T10:05:00", Carrier: "AA", Flight: "51", Class: "Y", Equipment: "77W"},
		},
	}
}

func (b *ReservationBuilder) WithPassengers(ps ...PassengerXML) *ReservationBuilder {
	b.Passengers = ps
	return b
}

func (b *ReservationBuilder) WithSegments(ss ...SegmentXML) *ReservationBuilder {
	b.Segments = ss
	return b
}

func (b *ReservationBuilder) WithLooseSeat(s LooseSeatXML) *ReservationBuilder {
	b.LooseSeats = append(b.LooseSeats, s)
	return b
}

func (b *ReservationBuilder) BuildXML() []byte {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	if b.Namespace != "" {
		fmt.Fprintf(&sb, `<stl19:GetReservationRS xmlns:stl19=%q>`, b.Namespace)
	} else {
		sb.WriteString(`<stl19:GetReservationRS>`)
	}
	sb.WriteString(`<stl19:Reservation>`)
	fmt.Fprintf(&sb, `<stl19:BookingDetails><stl19:RecordLocator>%s</stl19:RecordLocator></stl19:BookingDetails>`, b.RecordLocator)

	sb.WriteString(`<stl19:PassengerReservation><stl19:Passengers>`)
	for _, p := range b.Passengers {
		if p.OmitNameID {
			fmt.Fprintf(&sb, `<stl19:Passenger nameAssocId=%q>`, p.AssocID)
		} else {
			fmt.Fprintf(&sb, `<stl19:Passenger nameId=%q nameAssocId=%q>`, p.NameID, p.AssocID)
		}
		fmt.Fprintf(&sb, `<stl19:LastName>%s</stl19:LastName><stl19:FirstName>%s</stl19:FirstName>`, p.LastName, p.FirstName)
		if len(p.Seats) > 0 {
			sb.WriteString(`<stl19:Seats><stl19:PreReservedSeats>`)
			for _, s := range p.Seats {
				fmt.Fprintf(&sb, `<stl19:PreReservedSeat><stl19:SeatNumber>%s</stl19:SeatNumber><stl19:SegmentNumber>%s</stl19:SegmentNumber></stl19:PreReservedSeat>`,
					s.Label, s.SegmentNumber)
			}
			sb.WriteString(`</stl19:PreReservedSeats></stl19:Seats>`)
		}
		sb.WriteString(`</stl19:Passenger>`)
	}
	sb.WriteString(`</stl19:Passengers>`)

	sb.WriteString(`<stl19:Segments>`)
	for _, s := range b.Segments {
		fmt.Fprintf(&sb, `<stl19:Segment sequence=%q>`, s.Sequence)
		if s.NonAir {
			sb.WriteString(`<stl19:Hotel><stl19:HotelName>AIRPORT INN</stl19:HotelName></stl19:Hotel>`)
		} else {
			fmt.Fprintf(&sb, `<stl19:Air sequence=%q>`, s.Sequence)
			fmt.Fprintf(&sb, `<stl19:DepartureAirport>%s</stl19:DepartureAirport>`, s.Origin)
			fmt.Fprintf(&sb, `<stl19:ArrivalAirport>%s</stl19:ArrivalAirport>`, s.Destination)
			fmt.Fprintf(&sb, `<stl19:DepartureDateTime>%s</stl19:DepartureDateTime>`, s.Departure)
			fmt.Fprintf(&sb, `<stl19:MarketingAirlineCode>%s</stl19:MarketingAirlineCode>`, s.Carrier)
			fmt.Fprintf(&sb, `<stl19:MarketingFlightNumber>%s</stl19:MarketingFlightNumber>`, s.Flight)
			fmt.Fprintf(&sb, `<stl19:ClassOfService>%s</stl19:ClassOfService>`, s.Class)
			fmt.Fprintf(&sb, `<stl19:EquipmentType>%s</stl19:EquipmentType>`, s.Equipment)
			sb.WriteString(`</stl19:Air>`)
		}
		sb.WriteString(`</stl19:Segment>`)
	}
	sb.WriteString(`</stl19:Segments>`)

	for _, s := range b.LooseSeats {
		fmt.Fprintf(&sb, `<stl19:SeatAssignment nameAssocId=%q segmentNumber=%q><stl19:SeatNumber>%s</stl19:SeatNumber></stl19:SeatAssignment>`,
			s.Token, s.SegmentNumber, s.Label)
	}

	sb.WriteString(`</stl19:PassengerReservation></stl19:Reservation></stl19:GetReservationRS>`)
	return []byte(sb.String())
}
