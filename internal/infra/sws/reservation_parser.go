package sws

import (
	"log/slog"
	"strings"
	"time"

	"github.com/beevik/etree"

	"enhanced-seatmap/internal/domain/reservation"
	"enhanced-seatmap/internal/pkg/errs"
)

// Parser turns back-end documents into domain values using a normalisation
// table. Degraded fields are logged at debug level and never fail a parse.
type Parser struct {
	table   *Table
	logger  *slog.Logger
	palette []string
}

func NewParser(table *Table, logger *slog.Logger) *Parser {
	if table == nil {
		table = DefaultTable()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{table: table, logger: logger, palette: reservation.DefaultPalette}
}

// ParseReservation uses the embedded table and the default logger.
func ParseReservation(raw []byte) (*reservation.Reservation, error) {
	return NewParser(nil, nil).ParseReservation(raw)
}

var departureLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseReservation extracts passengers, air segments, pre-assigned seats and the
// record locator. A document without a reservation root is a ParseError; a root
// without passengers or segments is a valid, empty reservation.
func (p *Parser) ParseReservation(raw []byte) (*reservation.Reservation, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "reservation document is not well-formed XML"), errs.ErrParse)
	}
	root := findAll(&doc.Element, p.table.Reservation.Roots)
	if len(root) == 0 {
		return nil, errs.Mark(errs.New("reservation document has no reservation element"), errs.ErrParse)
	}
	resEl := root[0]

	passengers, byToken, passengerNodes := p.passengers(resEl)
	segments := p.segments(resEl)
	assigned := p.assignedSeats(resEl, passengerNodes, byToken, segments)

	locator := p.table.Reservation.Fields["recordLocator"].First(resEl)
	return reservation.NewReservation(locator, passengers, segments, assigned), nil
}

func (p *Parser) passengers(resEl *etree.Element) ([]*reservation.Passenger, map[string]reservation.PassengerID, map[*etree.Element]*reservation.Passenger) {
	f := p.table.Passenger.Fields
	factory := reservation.NewPassengerFactory(p.palette)

	passengers := make([]*reservation.Passenger, 0)
	byToken := make(map[string]reservation.PassengerID)
	nodes := make(map[*etree.Element]*reservation.Passenger)

	for _, n := range findAll(resEl, p.table.Passenger.Nodes) {
		ref := f["nameReference"].First(n)
		token := f["associationToken"].First(n)
		pax, err := factory.Create(f["givenName"].First(n), f["surname"].First(n), ref, token)
		if err != nil {
			p.logger.Debug("Skipping passenger without name reference",
				slog.String("surname", f["surname"].First(n)))
			continue
		}
		passengers = append(passengers, pax)
		nodes[n] = pax
		if token != "" {
			byToken[token] = pax.ID()
		}
		byToken[pax.NameReference()] = pax.ID()
	}
	return passengers, byToken, nodes
}

func (p *Parser) segments(resEl *etree.Element) []*reservation.Segment {
	f := p.table.Segment.Fields
	segments := make([]*reservation.Segment, 0)
	seen := make(map[string]bool)

	for _, n := range findAll(resEl, p.table.Segment.Nodes) {
		if !p.isAir(n) {
			continue
		}
		number := f["number"].First(n)
		if number == "" || seen[number] {
			p.logger.Debug("Skipping segment without unique number", slog.String("number", number))
			continue
		}
		departure, err := parseDeparture(f["departure"].First(n))
		if err != nil {
			p.logger.Debug("Segment departure unreadable", slog.String("number", number), slog.String("error", err.Error()))
		}
		seg, err := reservation.NewSegment(reservation.SegmentSpec{
			Number:           number,
			DisplayIndex:     len(segments),
			Origin:           f["origin"].First(n),
			Destination:      f["destination"].First(n),
			Departure:        departure,
			MarketingCarrier: f["marketingCarrier"].First(n),
			FlightNumber:     f["flightNumber"].First(n),
			BookingClass:     f["bookingClass"].First(n),
			Equipment:        f["equipment"].First(n),
		})
		if err != nil {
			continue
		}
		seen[number] = true
		segments = append(segments, seg)
	}
	return segments
}

func (p *Parser) isAir(n *etree.Element) bool {
	markers := p.table.Segment.AirMarkers
	if len(markers) == 0 {
		return true
	}
	for _, m := range markers {
		if n.Tag == m || n.FindElement("./"+m) != nil {
			return true
		}
	}
	return false
}

func parseDeparture(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	var lastErr error
	for _, layout := range departureLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// assignedSeats links pre-assigned seats to passengers. A seat node nested in a
// passenger node inherits that passenger when it names no token itself.
func (p *Parser) assignedSeats(
	resEl *etree.Element,
	passengerNodes map[*etree.Element]*reservation.Passenger,
	byToken map[string]reservation.PassengerID,
	segments []*reservation.Segment,
) []reservation.SeatAssignment {
	f := p.table.AssignedSeat.Fields
	known := make(map[string]bool, len(segments))
	for _, s := range segments {
		known[s.Number()] = true
	}

	out := make([]reservation.SeatAssignment, 0)
	taken := make(map[[2]string]bool)
	for _, n := range findAll(resEl, p.table.AssignedSeat.Nodes) {
		label := strings.ToUpper(f["seatLabel"].First(n))
		segment := f["segmentNumber"].First(n)
		if label == "" || segment == "" || !known[segment] {
			p.logger.Debug("Dropping pre-assigned seat without label or known segment",
				slog.String("seat", label), slog.String("segment", segment))
			continue
		}

		id, ok := p.resolveOwner(n, f["associationToken"].First(n), passengerNodes, byToken)
		if !ok {
			p.logger.Debug("Dropping orphaned pre-assigned seat", slog.String("seat", label))
			continue
		}
		pair := [2]string{string(id), segment}
		if taken[pair] {
			continue
		}
		taken[pair] = true
		out = append(out, reservation.SeatAssignment{
			PassengerID:   id,
			SegmentNumber: segment,
			SeatLabel:     label,
			Confirmed:     true,
		})
	}
	return out
}

func (p *Parser) resolveOwner(
	n *etree.Element,
	token string,
	passengerNodes map[*etree.Element]*reservation.Passenger,
	byToken map[string]reservation.PassengerID,
) (reservation.PassengerID, bool) {
	if token != "" {
		if id, ok := byToken[token]; ok {
			return id, true
		}
		if id, ok := byToken[reservation.NormalizeNameReference(token)]; ok {
			return id, true
		}
		return "", false
	}
	for anc := n.Parent(); anc != nil; anc = anc.Parent() {
		if pax, ok := passengerNodes[anc]; ok {
			return pax.ID(), true
		}
	}
	return "", false
}
