package seatmap

import (
	"strconv"
	"strings"

	"enhanced-seatmap/internal/domain/reservation"
)

const DefaultDeck = "main"

// SeatDescriptor is produced fresh on every fetch and never mutated.
type SeatDescriptor struct {
	Label           string
	Row             int
	Column          string
	Status          Status
	Price           reservation.Money
	Characteristics Characteristics
}

func Label(row int, column string) string {
	return strconv.Itoa(row) + strings.ToUpper(column)
}

type Row struct {
	Number   int
	Deck     string
	Exit     bool
	Overwing bool
	Bulkhead bool
}

// CabinLayout is the column sequence of one cabin, aisle markers included.
type CabinLayout struct {
	Deck     string
	FirstRow int
	LastRow  int
	Letters  []string
}

func (c CabinLayout) width() int {
	n := 0
	for _, l := range c.Letters {
		if l != AisleMarker {
			n++
		}
	}
	return n
}

// LayoutMeta is derived from the seats; it is never stored independently.
// Letters is the widest cabin's sequence.
type LayoutMeta struct {
	Letters []string
	Cabins  []CabinLayout
	Rows    []Row
	Deck    string
}

// WidestCabin returns the cabin with the most seat columns. Ties go to the
// earlier cabin.
func (l LayoutMeta) WidestCabin() (CabinLayout, bool) {
	best, found := CabinLayout{}, false
	for _, c := range l.Cabins {
		if !found || c.width() > best.width() {
			best, found = c, true
		}
	}
	return best, found
}

func (l LayoutMeta) Row(number int) (Row, bool) {
	for _, r := range l.Rows {
		if r.Number == number {
			return r, true
		}
	}
	return Row{}, false
}

type SeatMap struct {
	Seats  []SeatDescriptor
	Layout LayoutMeta
}

func (m *SeatMap) Find(label string) (SeatDescriptor, bool) {
	for _, s := range m.Seats {
		if strings.EqualFold(s.Label, label) {
			return s, true
		}
	}
	return SeatDescriptor{}, false
}

// Available returns the seats with status available, in list order.
func (m *SeatMap) Available() []SeatDescriptor {
	out := make([]SeatDescriptor, 0, len(m.Seats))
	for _, s := range m.Seats {
		if s.Status == StatusAvailable {
			out = append(out, s)
		}
	}
	return out
}

// Query names the flight, cabin and travellers a seat map is requested for.
type Query struct {
	Segment    *reservation.Segment
	Cabin      reservation.CabinClass
	Passengers []*reservation.Passenger
}

// Key identifies the seat map a query produces.
func (q Query) Key() string {
	if q.Segment == nil {
		return "|" + q.Cabin.String()
	}
	return q.Segment.Number() + "|" + q.Cabin.String()
}
