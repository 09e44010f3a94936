package response

import (
	"strconv"
	"time"

	"github.com/jinzhu/copier"

	"enhanced-seatmap/internal/domain/reservation"
	"enhanced-seatmap/internal/domain/seatmap"
	"enhanced-seatmap/internal/usecase/session"
)

type MoneyResponse struct {
	Amount   string `json:"amount"`
	Cents    int64  `json:"cents"`
	Currency string `json:"currency,omitempty"`
}

type PassengerResponse struct {
	ID            reservation.PassengerID `json:"id"`
	GivenName     string                  `json:"givenName"`
	Surname       string                  `json:"surname"`
	DisplayName   string                  `json:"displayName"`
	Initials      string                  `json:"initials"`
	NameReference string                  `json:"nameReference"`
	ColorTag      string                  `json:"colorTag"`
}

type SegmentResponse struct {
	Number           string    `json:"number"`
	DisplayIndex     int       `json:"displayIndex"`
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	Departure        time.Time `json:"departure"`
	MarketingCarrier string    `json:"marketingCarrier"`
	FlightNumber     string    `json:"flightNumber"`
	BookingClass     string    `json:"bookingClass,omitempty"`
	Equipment        string    `json:"equipment,omitempty"`
}

type AssignmentResponse struct {
	PassengerID   reservation.PassengerID `json:"passengerId"`
	SegmentNumber string                  `json:"segmentNumber"`
	SeatLabel     string                  `json:"seatLabel"`
	Confirmed     bool                    `json:"confirmed"`
	Price         *MoneyResponse          `json:"price,omitempty"`
}

type SeatResponse struct {
	Label           string         `json:"label"`
	Row             int            `json:"row"`
	Column          string         `json:"column"`
	Status          string         `json:"status"`
	Price           *MoneyResponse `json:"price,omitempty"`
	Characteristics []string       `json:"characteristics,omitempty"`
}

type RowResponse struct {
	Number   int    `json:"number"`
	Deck     string `json:"deck"`
	Exit     bool   `json:"exit"`
	Overwing bool   `json:"overwing"`
	Bulkhead bool   `json:"bulkhead"`
}

type CabinResponse struct {
	Deck     string   `json:"deck"`
	FirstRow int      `json:"firstRow"`
	LastRow  int      `json:"lastRow"`
	Letters  []string `json:"letters"`
}

type SeatMapResponse struct {
	Deck    string          `json:"deck"`
	Letters []string        `json:"letters"`
	Cabins  []CabinResponse `json:"cabins"`
	Rows    []RowResponse   `json:"rows"`
	Seats   []SeatResponse  `json:"seats"`
}

type SelectionResponse struct {
	PassengerID   reservation.PassengerID `json:"passengerId"`
	SegmentNumber string                  `json:"segmentNumber"`
	Cabin         string                  `json:"cabin"`
}

type SessionResponse struct {
	ID            string               `json:"id"`
	State         string               `json:"state"`
	LastError     string               `json:"lastError,omitempty"`
	RecordLocator string               `json:"recordLocator,omitempty"`
	Passengers    []PassengerResponse  `json:"passengers"`
	Segments      []SegmentResponse    `json:"segments"`
	Selection     SelectionResponse    `json:"selection"`
	SeatMap       *SeatMapResponse     `json:"seatMap,omitempty"`
	Assignments   []AssignmentResponse `json:"assignments"`
	Flagged       []string             `json:"flagged,omitempty"`
	Pending       int                  `json:"pending"`
	SeatFees      []MoneyResponse      `json:"seatFees,omitempty"`
}

type SaveResponse struct {
	Submitted int              `json:"submitted"`
	Skipped   bool             `json:"skipped"`
	Session   *SessionResponse `json:"session"`
}

type AutoAssignResponse struct {
	Assigned []AssignmentResponse `json:"assigned"`
	Session  *SessionResponse     `json:"session"`
}

func FromSnapshot(s session.Snapshot) *SessionResponse {
	resp := &SessionResponse{
		ID:            s.ID,
		State:         string(s.State),
		LastError:     s.LastError,
		RecordLocator: s.RecordLocator,
		Passengers:    FromPassengers(s.Passengers),
		Segments:      FromSegments(s.Segments),
		Selection: SelectionResponse{
			PassengerID:   s.Selection.PassengerID,
			SegmentNumber: s.Selection.SegmentNumber,
			Cabin:         s.Selection.Cabin.String(),
		},
		SeatMap:     FromSeatMap(s.SeatMap),
		Assignments: FromAssignments(s.Assignments),
		Flagged:     s.Flagged,
		Pending:     s.Pending,
	}
	for _, fee := range s.SeatFees {
		resp.SeatFees = append(resp.SeatFees, *fromMoney(fee.Total))
	}
	return resp
}

// FromPassengers copies through the entity getters.
func FromPassengers(ps []*reservation.Passenger) []PassengerResponse {
	out := make([]PassengerResponse, 0, len(ps))
	for _, p := range ps {
		var dto PassengerResponse
		_ = copier.Copy(&dto, p)
		out = append(out, dto)
	}
	return out
}

func FromSegments(segs []*reservation.Segment) []SegmentResponse {
	out := make([]SegmentResponse, 0, len(segs))
	for _, seg := range segs {
		var dto SegmentResponse
		_ = copier.Copy(&dto, seg)
		out = append(out, dto)
	}
	return out
}

func FromAssignments(as []reservation.SeatAssignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(as))
	for _, a := range as {
		dto := AssignmentResponse{
			PassengerID:   a.PassengerID,
			SegmentNumber: a.SegmentNumber,
			SeatLabel:     a.SeatLabel,
			Confirmed:     a.Confirmed,
		}
		if !a.Price.IsZero() {
			dto.Price = fromMoney(a.Price)
		}
		out = append(out, dto)
	}
	return out
}

func FromSeatMap(m *seatmap.SeatMap) *SeatMapResponse {
	if m == nil {
		return nil
	}
	resp := &SeatMapResponse{
		Deck:    m.Layout.Deck,
		Letters: m.Layout.Letters,
		Cabins:  make([]CabinResponse, 0, len(m.Layout.Cabins)),
		Rows:    make([]RowResponse, 0, len(m.Layout.Rows)),
		Seats:   make([]SeatResponse, 0, len(m.Seats)),
	}
	_ = copier.Copy(&resp.Cabins, m.Layout.Cabins)
	_ = copier.Copy(&resp.Rows, m.Layout.Rows)
	for _, seat := range m.Seats {
		dto := SeatResponse{
			Label:  seat.Label,
			Row:    seat.Row,
			Column: seat.Column,
			Status: seat.Status.String(),
		}
		if !seat.Price.IsZero() {
			dto.Price = fromMoney(seat.Price)
		}
		for _, c := range seat.Characteristics {
			dto.Characteristics = append(dto.Characteristics, string(c))
		}
		resp.Seats = append(resp.Seats, dto)
	}
	return resp
}

func fromMoney(m reservation.Money) *MoneyResponse {
	return &MoneyResponse{
		Amount:   strconv.FormatFloat(float64(m.Cents())/100.0, 'f', 2, 64),
		Cents:    m.Cents(),
		Currency: m.Currency(),
	}
}
