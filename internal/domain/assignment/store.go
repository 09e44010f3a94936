package assignment

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"enhanced-seatmap/internal/domain/reservation"
	"enhanced-seatmap/internal/domain/seatmap"
)

var (
	ErrUnknownPassenger = errors.New("unknown passenger")
	ErrEmptySegment     = errors.New("segment number is required")
	ErrEmptySeatLabel   = errors.New("seat label is required")
)

type key struct {
	passenger reservation.PassengerID
	segment   string
}

func keyOf(a reservation.SeatAssignment) key {
	return key{passenger: a.PassengerID, segment: a.SegmentNumber}
}

// Selection is what the agent is currently looking at.
type Selection struct {
	PassengerID   reservation.PassengerID
	SegmentNumber string
	Cabin         reservation.CabinClass
}

// Store owns every seat assignment of one session. The working set holds at
// most one entry per (passenger, segment); the baseline holds what the
// back-end last confirmed.
type Store struct {
	mu         sync.RWMutex
	passengers []*reservation.Passenger
	working    map[key]reservation.SeatAssignment
	baseline   map[key]reservation.SeatAssignment
	selection  Selection
	segments   SegmentOrder
}

func NewStore(passengers []*reservation.Passenger) *Store {
	s := &Store{}
	s.Load(passengers, nil)
	return s
}

// Load replaces passengers, assignments and baseline. Every assignment given
// is taken as confirmed. Selection keeps its segment and cabin.
func (s *Store) Load(passengers []*reservation.Passenger, confirmed []reservation.SeatAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.passengers = append([]*reservation.Passenger(nil), passengers...)
	s.working = make(map[key]reservation.SeatAssignment)
	s.baseline = make(map[key]reservation.SeatAssignment)
	s.putConfirmed(confirmed)

	if len(s.passengers) > 0 {
		if _, ok := s.indexOf(s.selection.PassengerID); !ok {
			s.selection.PassengerID = s.passengers[0].ID()
		}
	} else {
		s.selection.PassengerID = ""
	}
}

// OrderSegments sets the segment order used by Snapshot and Confirmed.
func (s *Store) OrderSegments(segments []*reservation.Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = NewSegmentOrder(segments)
}

// ReplaceConfirmed swaps the baseline for a fresh back-end view while keeping
// pending (unconfirmed) choices the agent has not saved yet.
func (s *Store) ReplaceConfirmed(confirmed []reservation.SeatAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]reservation.SeatAssignment, 0)
	for _, a := range s.working {
		if !a.Confirmed {
			pending = append(pending, a)
		}
	}
	s.working = make(map[key]reservation.SeatAssignment)
	s.baseline = make(map[key]reservation.SeatAssignment)
	s.putConfirmed(confirmed)

	for _, a := range pending {
		if b, ok := s.baseline[keyOf(a)]; ok && b.SameSeat(a) {
			continue
		}
		s.working[keyOf(a)] = a
	}
}

func (s *Store) putConfirmed(confirmed []reservation.SeatAssignment) {
	for _, a := range confirmed {
		if _, ok := s.indexOf(a.PassengerID); !ok || a.SegmentNumber == "" || a.SeatLabel == "" {
			continue
		}
		a.Confirmed = true
		a.SeatLabel = strings.ToUpper(a.SeatLabel)
		s.baseline[keyOf(a)] = a
		s.working[keyOf(a)] = a
	}
}

// AssignSeat stages a seat without a price.
func (s *Store) AssignSeat(passengerID reservation.PassengerID, segmentNumber, seatLabel string) (reservation.SeatAssignment, error) {
	return s.AssignPricedSeat(passengerID, segmentNumber, seatLabel, reservation.Money{})
}

// AssignPricedSeat replaces whatever the passenger holds on the segment with
// an unconfirmed assignment, then moves the passenger selection on to the next
// passenger still without a seat on that segment. Choosing the seat the
// back-end already confirmed restores the confirmed entry.
//
// Seat status is not checked here; click eligibility is the caller's concern.
func (s *Store) AssignPricedSeat(passengerID reservation.PassengerID, segmentNumber, seatLabel string, price reservation.Money) (reservation.SeatAssignment, error) {
	if segmentNumber == "" {
		return reservation.SeatAssignment{}, ErrEmptySegment
	}
	seatLabel = strings.ToUpper(strings.TrimSpace(seatLabel))
	if seatLabel == "" {
		return reservation.SeatAssignment{}, ErrEmptySeatLabel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexOf(passengerID)
	if !ok {
		return reservation.SeatAssignment{}, ErrUnknownPassenger
	}

	a := reservation.SeatAssignment{
		PassengerID:   passengerID,
		SegmentNumber: segmentNumber,
		SeatLabel:     seatLabel,
		Price:         price,
	}
	if b, ok := s.baseline[keyOf(a)]; ok && b.SameSeat(a) {
		a = b
	}
	s.working[keyOf(a)] = a

	s.advanceFrom(idx, segmentNumber)
	return a, nil
}

// advanceFrom scans cyclically after idx; selection is left alone when every
// passenger is seated on the segment.
func (s *Store) advanceFrom(idx int, segmentNumber string) {
	n := len(s.passengers)
	for step := 1; step < n; step++ {
		p := s.passengers[(idx+step)%n]
		if _, seated := s.working[key{passenger: p.ID(), segment: segmentNumber}]; !seated {
			s.selection.PassengerID = p.ID()
			return
		}
	}
}

// ClearAssignment drops the working entry for the pair. The back-end is not
// contacted.
func (s *Store) ClearAssignment(passengerID reservation.PassengerID, segmentNumber string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{passenger: passengerID, segment: segmentNumber}
	if _, ok := s.working[k]; !ok {
		return false
	}
	delete(s.working, k)
	return true
}

// Revert discards a pending change for the pair, reinstating the confirmed
// seat if there was one. It reports whether anything changed.
func (s *Store) Revert(passengerID reservation.PassengerID, segmentNumber string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{passenger: passengerID, segment: segmentNumber}
	cur, ok := s.working[k]
	if !ok || cur.Confirmed {
		return false
	}
	if b, ok := s.baseline[k]; ok {
		s.working[k] = b
	} else {
		delete(s.working, k)
	}
	return true
}

// AutoAssign pairs unseated passengers (in list order) with available seats
// (in list order) that nobody holds on the segment yet. Priced, occupied,
// blocked and unavailable seats are skipped. No available seat means no
// assignment, not an error.
func (s *Store) AutoAssign(availableSeats []seatmap.SeatDescriptor, passengers []*reservation.Passenger, segmentNumber string) []reservation.SeatAssignment {
	if segmentNumber == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[string]bool)
	for k, a := range s.working {
		if k.segment == segmentNumber {
			taken[a.SeatLabel] = true
		}
	}

	made := make([]reservation.SeatAssignment, 0)
	seatIdx := 0
	for _, p := range passengers {
		if _, known := s.indexOf(p.ID()); !known {
			continue
		}
		k := key{passenger: p.ID(), segment: segmentNumber}
		if _, seated := s.working[k]; seated {
			continue
		}
		for seatIdx < len(availableSeats) {
			seat := availableSeats[seatIdx]
			seatIdx++
			label := strings.ToUpper(seat.Label)
			if seat.Status != seatmap.StatusAvailable || taken[label] {
				continue
			}
			a := reservation.SeatAssignment{
				PassengerID:   p.ID(),
				SegmentNumber: segmentNumber,
				SeatLabel:     label,
				Price:         seat.Price,
			}
			s.working[k] = a
			taken[label] = true
			made = append(made, a)
			break
		}
		if seatIdx >= len(availableSeats) {
			break
		}
	}
	return made
}

func (s *Store) Get(passengerID reservation.PassengerID, segmentNumber string) (reservation.SeatAssignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.working[key{passenger: passengerID, segment: segmentNumber}]
	return a, ok
}

func (s *Store) ConfirmedSeat(passengerID reservation.PassengerID, segmentNumber string) (reservation.SeatAssignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.baseline[key{passenger: passengerID, segment: segmentNumber}]
	return a, ok
}

// Snapshot returns the working set sorted by segment document order, then
// passenger order.
func (s *Store) Snapshot() []reservation.SeatAssignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(s.working)
}

func (s *Store) Confirmed() []reservation.SeatAssignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(s.baseline)
}

func (s *Store) ForSegment(segmentNumber string) []reservation.SeatAssignment {
	all := s.Snapshot()
	out := make([]reservation.SeatAssignment, 0, len(all))
	for _, a := range all {
		if a.SegmentNumber == segmentNumber {
			out = append(out, a)
		}
	}
	return out
}

// MarkConfirmed flags the submitted assignments as accepted. An entry changed
// since submission is left as it is.
func (s *Store) MarkConfirmed(submitted []reservation.SeatAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range submitted {
		k := keyOf(a)
		cur, ok := s.working[k]
		if !ok || !cur.SameSeat(a) {
			continue
		}
		cur.Confirmed = true
		s.working[k] = cur
		s.baseline[k] = cur
	}
}

// DropConfirmed removes accepted cancellations from both sets.
func (s *Store) DropConfirmed(cancelled []reservation.SeatAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range cancelled {
		k := keyOf(a)
		delete(s.baseline, k)
		if cur, ok := s.working[k]; ok && cur.Confirmed {
			delete(s.working, k)
		}
	}
}

func (s *Store) SelectPassenger(id reservation.PassengerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexOf(id); !ok {
		return ErrUnknownPassenger
	}
	s.selection.PassengerID = id
	return nil
}

func (s *Store) SelectSegment(segmentNumber string, cabin reservation.CabinClass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.SegmentNumber = segmentNumber
	s.selection.Cabin = cabin
}

func (s *Store) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

func (s *Store) Passengers() []*reservation.Passenger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*reservation.Passenger(nil), s.passengers...)
}

func (s *Store) indexOf(id reservation.PassengerID) (int, bool) {
	for i, p := range s.passengers {
		if p.ID() == id {
			return i, true
		}
	}
	return 0, false
}

func (s *Store) sorted(m map[key]reservation.SeatAssignment) []reservation.SeatAssignment {
	order := make(map[reservation.PassengerID]int, len(s.passengers))
	for i, p := range s.passengers {
		order[p.ID()] = i
	}
	out := make([]reservation.SeatAssignment, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SegmentNumber != out[j].SegmentNumber {
			return s.segments.Less(out[i].SegmentNumber, out[j].SegmentNumber)
		}
		return order[out[i].PassengerID] < order[out[j].PassengerID]
	})
	return out
}

// SegmentOrder ranks segment numbers by their position in the reservation
// document. Unknown numbers go after known ones and compare as strings.
type SegmentOrder map[string]int

func NewSegmentOrder(segments []*reservation.Segment) SegmentOrder {
	o := make(SegmentOrder, len(segments))
	for _, seg := range segments {
		o[seg.Number()] = seg.DisplayIndex()
	}
	return o
}

func (o SegmentOrder) Less(a, b string) bool {
	ra, knownA := o[a]
	rb, knownB := o[b]
	switch {
	case knownA && knownB && ra != rb:
		return ra < rb
	case knownA != knownB:
		return knownA
	}
	return a < b
}
