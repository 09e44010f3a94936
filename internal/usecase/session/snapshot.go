package session

import (
	"enhanced-seatmap/internal/domain/assignment"
	"enhanced-seatmap/internal/domain/reservation"
	"enhanced-seatmap/internal/domain/seatmap"
)

// Snapshot is a read-only copy of a session for rendering.
type Snapshot struct {
	ID            string
	State         State
	LastError     string
	RecordLocator string
	Passengers    []*reservation.Passenger
	Segments      []*reservation.Segment
	Selection     assignment.Selection
	SeatMap       *seatmap.SeatMap
	Assignments   []reservation.SeatAssignment
	// Flagged lists staged seats on the selected segment that the current seat
	// map no longer offers as selectable. They stay assigned.
	Flagged  []string
	Pending  int
	SeatFees []reservation.SeatFeeTotal
}

func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := Snapshot{
		ID:          d.id,
		State:       d.state,
		Selection:   d.store.Selection(),
		Passengers:  d.store.Passengers(),
		Assignments: d.store.Snapshot(),
		SeatMap:     d.seatMap,
	}
	if d.lastError != nil {
		snap.LastError = d.lastError.Error()
	}
	if d.reservation != nil {
		snap.RecordLocator = d.reservation.RecordLocator()
		snap.Segments = d.reservation.Segments()
	}

	pending := make([]reservation.SeatAssignment, 0)
	for _, a := range snap.Assignments {
		if !a.Confirmed {
			pending = append(pending, a)
		}
	}
	snap.Pending = len(pending)
	snap.SeatFees = reservation.TotalSeatFees(pending)
	snap.Flagged = flagged(d.seatMap, snap.Selection.SegmentNumber, pending)
	return snap
}

func flagged(m *seatmap.SeatMap, segmentNumber string, pending []reservation.SeatAssignment) []string {
	if m == nil {
		return nil
	}
	var out []string
	for _, a := range pending {
		if a.SegmentNumber != segmentNumber {
			continue
		}
		seat, ok := m.Find(a.SeatLabel)
		if !ok || !seat.Status.IsSelectable() {
			out = append(out, a.SeatLabel)
		}
	}
	return out
}
