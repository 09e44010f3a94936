package assignment

import (
	"sort"
	"strings"

	"enhanced-seatmap/internal/domain/reservation"
)

// Diff is the difference between the working set and the confirmed baseline.
// New entries have no baseline for their pair; Changed entries replace a
// different confirmed seat.
type Diff struct {
	New     []reservation.SeatAssignment
	Changed []reservation.SeatAssignment
}

func (d Diff) IsEmpty() bool {
	return len(d.New) == 0 && len(d.Changed) == 0
}

// All returns New followed by Changed.
func (d Diff) All() []reservation.SeatAssignment {
	out := make([]reservation.SeatAssignment, 0, len(d.New)+len(d.Changed))
	out = append(out, d.New...)
	return append(out, d.Changed...)
}

// DiffAgainstConfirmed lists the unconfirmed entries of the working set.
func (s *Store) DiffAgainstConfirmed() Diff {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var d Diff
	for _, a := range s.sorted(s.working) {
		if a.Confirmed {
			continue
		}
		b, ok := s.baseline[keyOf(a)]
		switch {
		case !ok:
			d.New = append(d.New, a)
		case !b.SameSeat(a):
			d.Changed = append(d.Changed, a)
		}
	}
	return d
}

// Equal compares two assignment lists as multisets, ignoring order and the
// confirmed flag.
func Equal(a, b []reservation.SeatAssignment) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := canonical(a), canonical(b)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

type triple struct {
	passenger reservation.PassengerID
	seat      string
	segment   string
}

func canonical(list []reservation.SeatAssignment) []triple {
	out := make([]triple, 0, len(list))
	for _, a := range list {
		out = append(out, triple{
			passenger: a.PassengerID,
			seat:      strings.ToUpper(a.SeatLabel),
			segment:   a.SegmentNumber,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].passenger != out[j].passenger {
			return out[i].passenger < out[j].passenger
		}
		if out[i].seat != out[j].seat {
			return out[i].seat < out[j].seat
		}
		return out[i].segment < out[j].segment
	})
	return out
}

// SeatChange is one line of a seat write request.
type SeatChange struct {
	Assignment    reservation.SeatAssignment
	NameReference string
	Replace       bool
}

// SegmentBatch groups the changes for one flight segment.
type SegmentBatch struct {
	SegmentNumber string
	Changes       []SeatChange
}

// BuildBatches groups a diff by segment, in the given order. Assignments whose
// passenger has no name reference cannot be addressed on the back-end and are
// returned separately.
func BuildBatches(d Diff, passengers []*reservation.Passenger, order SegmentOrder) ([]SegmentBatch, []reservation.SeatAssignment) {
	refs := make(map[reservation.PassengerID]string, len(passengers))
	for _, p := range passengers {
		refs[p.ID()] = p.NameReference()
	}

	bySegment := make(map[string][]SeatChange)
	var unaddressable []reservation.SeatAssignment
	add := func(a reservation.SeatAssignment, replace bool) {
		ref := refs[a.PassengerID]
		if ref == "" {
			unaddressable = append(unaddressable, a)
			return
		}
		bySegment[a.SegmentNumber] = append(bySegment[a.SegmentNumber], SeatChange{
			Assignment:    a,
			NameReference: ref,
			Replace:       replace,
		})
	}
	for _, a := range d.New {
		add(a, false)
	}
	for _, a := range d.Changed {
		add(a, true)
	}

	segments := make([]string, 0, len(bySegment))
	for seg := range bySegment {
		segments = append(segments, seg)
	}
	sort.Slice(segments, func(i, j int) bool { return order.Less(segments[i], segments[j]) })

	batches := make([]SegmentBatch, 0, len(segments))
	for _, seg := range segments {
		batches = append(batches, SegmentBatch{SegmentNumber: seg, Changes: bySegment[seg]})
	}
	return batches, unaddressable
}
