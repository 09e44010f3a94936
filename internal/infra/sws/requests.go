package sws

import (
	"strconv"

	"github.com/beevik/etree"

	"enhanced-seatmap/internal/domain/assignment"
	"enhanced-seatmap/internal/domain/seatmap"
)

// Back-end actions.
const (
	ActionGetReservation = "GetReservationRQ"
	ActionSeatMap        = "EnhancedSeatMapRQ"
	ActionAssignSeats    = "AirSeatLLSRQ"
	ActionCancelSeats    = "AirSeatCancelLLSRQ"
)

// RequestBuilder renders outbound payloads. Segment numbers are echoed exactly
// as normalised; they are never recomputed from positions.
type RequestBuilder struct {
	PCC string
}

func NewRequestBuilder(pcc string) *RequestBuilder {
	return &RequestBuilder{PCC: pcc}
}

func (b *RequestBuilder) GetReservation() ([]byte, error) {
	doc := etree.NewDocument()
	rq := doc.CreateElement("GetReservationRQ")
	rq.CreateAttr("Version", "1.19.0")
	rq.CreateElement("RequestType").SetText("Stateful")
	opts := rq.CreateElement("ReturnOptions")
	opts.CreateElement("ViewName").SetText("Full")
	opts.CreateElement("ResponseFormat").SetText("STL")
	return doc.WriteToBytes()
}

func (b *RequestBuilder) SeatMap(q seatmap.Query) ([]byte, error) {
	doc := etree.NewDocument()
	rq := doc.CreateElement("EnhancedSeatMapRQ")
	rq.CreateAttr("version", "6")
	query := rq.CreateElement("SeatMapQueryEnhanced")
	query.CreateElement("RequestType").SetText("Payload")

	if seg := q.Segment; seg != nil {
		flight := query.CreateElement("Flight")
		flight.CreateAttr("origin", seg.Origin())
		flight.CreateAttr("destination", seg.Destination())
		flight.CreateAttr("segmentNumber", seg.Number())
		flight.CreateElement("DepartureDate").SetText(seg.DepartureDate())
		mkt := flight.CreateElement("Marketing")
		mkt.CreateAttr("carrier", seg.MarketingCarrier())
		mkt.SetText(seg.FlightNumber())

		cabin := query.CreateElement("CabinDefinition")
		if code := q.Cabin.Code(); code != "" {
			cabin.CreateElement("Cabin").SetText(code)
		} else if seg.BookingClass() != "" {
			cabin.CreateElement("RBD").SetText(seg.BookingClass())
		}
	}

	if b.PCC != "" {
		query.CreateElement("POS").CreateElement("PCC").SetText(b.PCC)
	}

	for i, p := range q.Passengers {
		qual := query.CreateElement("FareAvailQualifiers")
		qual.CreateAttr("passengerType", "ADT")
		qual.CreateElement("TravellerID").SetText(strconv.Itoa(i + 1))
		qual.CreateElement("NameNumber").SetText(p.NameReference())
		qual.CreateElement("GivenName").SetText(p.GivenName())
		qual.CreateElement("Surname").SetText(p.Surname())
	}
	return doc.WriteToBytes()
}

// AssignSeats writes one Seats group per segment batch. Changed seats carry
// Replace="true" so the back-end swaps the existing seat.
func (b *RequestBuilder) AssignSeats(batches []assignment.SegmentBatch) ([]byte, error) {
	doc := etree.NewDocument()
	rq := doc.CreateElement("AirSeatRQ")
	rq.CreateAttr("Version", "2.1.0")
	for _, batch := range batches {
		seats := rq.CreateElement("Seats")
		seats.CreateAttr("SegmentNumber", batch.SegmentNumber)
		for _, c := range batch.Changes {
			seat := seats.CreateElement("Seat")
			seat.CreateAttr("NameNumber", c.NameReference)
			seat.CreateAttr("Number", c.Assignment.SeatLabel)
			seat.CreateAttr("SegmentNumber", c.Assignment.SegmentNumber)
			if c.Replace {
				seat.CreateAttr("Replace", "true")
			}
		}
	}
	return doc.WriteToBytes()
}

// CancelSeats addresses each confirmed seat by name reference and segment.
func (b *RequestBuilder) CancelSeats(items []assignment.SeatChange) ([]byte, error) {
	doc := etree.NewDocument()
	rq := doc.CreateElement("AirSeatCancelRQ")
	rq.CreateAttr("Version", "1.0.0")
	for _, it := range items {
		seat := rq.CreateElement("Seat")
		seat.CreateAttr("NameNumber", it.NameReference)
		seat.CreateAttr("Number", it.Assignment.SeatLabel)
		seat.CreateAttr("SegmentNumber", it.Assignment.SegmentNumber)
	}
	return doc.WriteToBytes()
}
