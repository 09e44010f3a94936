package reservation

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingNameReference = errors.New("passenger has no name reference")
	ErrMissingSegmentNumber = errors.New("segment has no segment number")
	ErrIncompleteSegment    = errors.New("segment is missing flight details")
)

// PassengerID is the local, session-stable passenger key. The back-end key is
// the name reference.
type PassengerID string

type Passenger struct {
	id               PassengerID
	givenName        string
	surname          string
	nameReference    string
	associationToken string
	colorTag         string
	initials         string
}

func (p *Passenger) ID() PassengerID          { return p.id }
func (p *Passenger) GivenName() string        { return p.givenName }
func (p *Passenger) Surname() string          { return p.surname }
func (p *Passenger) NameReference() string    { return p.nameReference }
func (p *Passenger) AssociationToken() string { return p.associationToken }
func (p *Passenger) ColorTag() string         { return p.colorTag }
func (p *Passenger) Initials() string         { return p.initials }

func (p *Passenger) DisplayName() string {
	return strings.TrimSpace(p.surname + "/" + p.givenName)
}

// Segment is one flown leg. Number is the back-end sequence token and is
// never interpreted numerically; DisplayIndex is the position in the document.
type Segment struct {
	number           string
	displayIndex     int
	origin           string
	destination      string
	departure        time.Time
	marketingCarrier string
	flightNumber     string
	bookingClass     string
	equipment        string
}

type SegmentSpec struct {
	Number           string
	DisplayIndex     int
	Origin           string
	Destination      string
	Departure        time.Time
	MarketingCarrier string
	FlightNumber     string
	BookingClass     string
	Equipment        string
}

func NewSegment(spec SegmentSpec) (*Segment, error) {
	number := strings.TrimSpace(spec.Number)
	if number == "" {
		return nil, ErrMissingSegmentNumber
	}
	return &Segment{
		number:           number,
		displayIndex:     spec.DisplayIndex,
		origin:           strings.ToUpper(strings.TrimSpace(spec.Origin)),
		destination:      strings.ToUpper(strings.TrimSpace(spec.Destination)),
		departure:        spec.Departure,
		marketingCarrier: strings.ToUpper(strings.TrimSpace(spec.MarketingCarrier)),
		flightNumber:     strings.TrimSpace(spec.FlightNumber),
		bookingClass:     strings.ToUpper(strings.TrimSpace(spec.BookingClass)),
		equipment:        strings.TrimSpace(spec.Equipment),
	}, nil
}

func (s *Segment) Number() string           { return s.number }
func (s *Segment) DisplayIndex() int        { return s.displayIndex }
func (s *Segment) Origin() string           { return s.origin }
func (s *Segment) Destination() string      { return s.destination }
func (s *Segment) Departure() time.Time     { return s.departure }
func (s *Segment) MarketingCarrier() string { return s.marketingCarrier }
func (s *Segment) FlightNumber() string     { return s.flightNumber }
func (s *Segment) BookingClass() string     { return s.bookingClass }
func (s *Segment) Equipment() string        { return s.equipment }

func (s *Segment) DepartureDate() string {
	if s.departure.IsZero() {
		return ""
	}
	return s.departure.Format("2006-01-02")
}

// ValidateForSeatMap reports whether enough flight data is present to ask for
// a seat map.
func (s *Segment) ValidateForSeatMap() error {
	if s.origin == "" || s.destination == "" || s.departure.IsZero() ||
		s.marketingCarrier == "" || s.flightNumber == "" {
		return ErrIncompleteSegment
	}
	return nil
}

type Reservation struct {
	recordLocator string
	passengers    []*Passenger
	segments      []*Segment
	assignedSeats []SeatAssignment
}

func NewReservation(recordLocator string, passengers []*Passenger, segments []*Segment, assigned []SeatAssignment) *Reservation {
	return &Reservation{
		recordLocator: strings.TrimSpace(recordLocator),
		passengers:    passengers,
		segments:      segments,
		assignedSeats: assigned,
	}
}

func (r *Reservation) RecordLocator() string { return r.recordLocator }

func (r *Reservation) Passengers() []*Passenger {
	return append([]*Passenger(nil), r.passengers...)
}

// Segments are in document (display) order.
func (r *Reservation) Segments() []*Segment {
	return append([]*Segment(nil), r.segments...)
}

func (r *Reservation) AssignedSeats() []SeatAssignment {
	return append([]SeatAssignment(nil), r.assignedSeats...)
}

func (r *Reservation) IsEmpty() bool {
	return r.recordLocator == "" && len(r.passengers) == 0 && len(r.segments) == 0
}

func (r *Reservation) Passenger(id PassengerID) (*Passenger, bool) {
	for _, p := range r.passengers {
		if p.id == id {
			return p, true
		}
	}
	return nil, false
}

// Segment looks a segment up by its back-end number, never by position.
func (r *Reservation) Segment(number string) (*Segment, bool) {
	for _, s := range r.segments {
		if s.number == number {
			return s, true
		}
	}
	return nil, false
}

func (r *Reservation) FirstSegment() (*Segment, bool) {
	if len(r.segments) == 0 {
		return nil, false
	}
	return r.segments[0], true
}
