package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"enhanced-seatmap/internal/domain/assignment"
	"enhanced-seatmap/internal/domain/reservation"
	"enhanced-seatmap/internal/domain/seatmap"
	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/errs"
)

type State string

const (
	StateIdle         State = "idle"
	StateLoading      State = "loading"
	StateReady        State = "ready"
	StateSaving       State = "saving"
	StateCancelling   State = "cancelling"
	StateResetting    State = "resetting"
	StateLoadError    State = "load-error"
	StateTimeoutError State = "timeout-error"
	StateClosed       State = "closed"
)

// IsTerminal reports whether the session can no longer be used.
func (s State) IsTerminal() bool {
	return s == StateLoadError || s == StateTimeoutError || s == StateClosed
}

type Options struct {
	CallTimeout  time.Duration
	DefaultCabin reservation.CabinClass
}

// SaveResult describes what a save sent. Skipped means the working set already
// matched the confirmed seats and nothing was sent.
type SaveResult struct {
	Submitted []reservation.SeatAssignment
	Skipped   bool
}

// Driver coordinates one seat map session with the back-end. Local edits are
// optimistic; writes to the back-end are never applied locally before the
// back-end accepts them. Nothing is retried.
type Driver struct {
	id      string
	gateway Gateway
	audit   AuditPublisher
	clock   clock.Clock
	logger  *slog.Logger
	opts    Options
	fetches singleflight.Group

	mu          sync.Mutex
	state       State
	reservation *reservation.Reservation
	store       *assignment.Store
	seatMap     *seatmap.SeatMap
	seatMapKey  string
	generation  uint64
	lastError   error
	lastActive  time.Time
}

func NewDriver(id string, gateway Gateway, audit AuditPublisher, clk clock.Clock, logger *slog.Logger, opts Options) *Driver {
	if opts.DefaultCabin == "" {
		opts.DefaultCabin = reservation.CabinAll
	}
	return &Driver{
		id:         id,
		gateway:    gateway,
		audit:      audit,
		clock:      clk,
		logger:     logger.With(slog.String("session_id", id)),
		opts:       opts,
		state:      StateIdle,
		store:      assignment.NewStore(nil),
		lastActive: clk.Now(),
	}
}

func (d *Driver) ID() string {
	return d.id
}

// Open loads the reservation and the seat map of the first segment. Any
// failure here is terminal for the session.
func (d *Driver) Open(ctx context.Context) error {
	d.mu.Lock()
	if d.state != StateIdle {
		d.mu.Unlock()
		return errs.Wrapf(ErrInvalidState, "cannot open session in state %s", d.state)
	}
	d.touch()
	d.setState(StateLoading)
	d.mu.Unlock()

	res, err := d.fetchReservation(ctx)
	if err == nil && res.IsEmpty() {
		err = errs.Mark(errs.New("reservation document carries no reservation data"), ErrNoActiveReservation)
	}
	d.mu.Lock()
	if d.state != StateLoading {
		d.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		defer d.mu.Unlock()
		return d.failLoad(err)
	}
	d.reservation = res
	d.store.Load(res.Passengers(), res.AssignedSeats())
	d.store.OrderSegments(res.Segments())
	first, ok := res.FirstSegment()
	if !ok {
		d.setState(StateReady)
		d.mu.Unlock()
		return nil
	}
	d.store.SelectSegment(first.Number(), d.opts.DefaultCabin)
	if err := first.ValidateForSeatMap(); err != nil {
		// the reservation stays usable; another segment can still be mapped
		d.lastError = errs.Mark(errs.Wrapf(err, "segment %s", first.Number()), ErrIncompleteSegment)
		d.logger.Warn("First segment cannot be mapped", slog.String("segment", first.Number()))
		d.setState(StateReady)
		d.mu.Unlock()
		return nil
	}
	d.generation++
	gen := d.generation
	q := d.queryLocked(first, d.opts.DefaultCabin)
	d.mu.Unlock()

	m, err := d.fetchSeatMap(ctx, q)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateClosed {
		return ErrSuperseded
	}
	if gen != d.generation {
		// a newer selection owns the loading state now
		return nil
	}
	if err != nil {
		return d.failLoad(err)
	}
	d.seatMap = m
	d.seatMapKey = q.Key()
	d.setState(StateReady)
	return nil
}

func (d *Driver) failLoad(err error) error {
	d.lastError = err
	if errs.Is(err, ErrTimeout) {
		d.setState(StateTimeoutError)
	} else {
		d.setState(StateLoadError)
	}
	d.logger.Warn("Session load failed", slog.String("error", err.Error()))
	return err
}

// SelectSegment switches the displayed seat map. Assignments on every segment
// are kept. A fetch overtaken by a newer selection is discarded and reported
// as ErrSuperseded.
func (d *Driver) SelectSegment(ctx context.Context, segmentNumber string, cabin reservation.CabinClass) error {
	if cabin == "" {
		cabin = d.opts.DefaultCabin
	}
	if !cabin.IsValid() {
		return ErrInvalidCabin
	}

	d.mu.Lock()
	if d.state != StateReady && d.state != StateLoading || d.reservation == nil {
		d.mu.Unlock()
		return errs.Wrapf(ErrInvalidState, "cannot change selection in state %s", d.state)
	}
	seg, ok := d.reservation.Segment(segmentNumber)
	if !ok {
		d.mu.Unlock()
		return ErrUnknownSegment
	}
	if err := seg.ValidateForSeatMap(); err != nil {
		d.mu.Unlock()
		return errs.Mark(errs.Wrapf(err, "segment %s", seg.Number()), ErrIncompleteSegment)
	}
	d.touch()
	d.store.SelectSegment(seg.Number(), cabin)
	d.generation++
	gen := d.generation
	d.seatMap = nil
	d.seatMapKey = ""
	d.setState(StateLoading)
	q := d.queryLocked(seg, cabin)
	d.mu.Unlock()

	m, err := d.fetchSeatMap(ctx, q)

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.generation {
		d.logger.Info("Discarding stale seat map", slog.String("key", q.Key()))
		return ErrSuperseded
	}
	if d.state.IsTerminal() {
		return ErrSuperseded
	}
	d.setState(StateReady)
	if err != nil {
		d.lastError = err
		d.logger.Warn("Seat map fetch failed", slog.String("key", q.Key()), slog.String("error", err.Error()))
		return err
	}
	d.lastError = nil
	d.seatMap = m
	d.seatMapKey = q.Key()
	return nil
}

func (d *Driver) SelectPassenger(id reservation.PassengerID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.IsTerminal() || d.reservation == nil {
		return errs.Wrapf(ErrInvalidState, "cannot select passenger in state %s", d.state)
	}
	d.touch()
	if err := d.store.SelectPassenger(id); err != nil {
		return ErrUnknownPassenger
	}
	return nil
}

// AssignSeat stages a seat locally. An empty segment number means the selected
// segment. Occupied seats are accepted; eligibility is a presentation concern.
func (d *Driver) AssignSeat(passengerID reservation.PassengerID, segmentNumber, seatLabel string) (reservation.SeatAssignment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateReady {
		return reservation.SeatAssignment{}, errs.Wrapf(ErrInvalidState, "cannot assign seat in state %s", d.state)
	}
	d.touch()
	if segmentNumber == "" {
		segmentNumber = d.store.Selection().SegmentNumber
	}
	if _, ok := d.reservation.Segment(segmentNumber); !ok {
		return reservation.SeatAssignment{}, ErrUnknownSegment
	}

	var price reservation.Money
	if m := d.seatMapFor(segmentNumber); m != nil {
		seat, ok := m.Find(seatLabel)
		if !ok {
			return reservation.SeatAssignment{}, ErrSeatNotOnMap
		}
		price = seat.Price
	}

	a, err := d.store.AssignPricedSeat(passengerID, segmentNumber, seatLabel, price)
	if err != nil {
		if errs.Is(err, assignment.ErrUnknownPassenger) {
			return reservation.SeatAssignment{}, ErrUnknownPassenger
		}
		return reservation.SeatAssignment{}, errs.Mark(err, ErrInvalidState)
	}
	return a, nil
}

// ClearAssignment discards a staged seat, reinstating the confirmed seat if
// there is one. Confirmed seats are removed with CancelSeat.
func (d *Driver) ClearAssignment(passengerID reservation.PassengerID, segmentNumber string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateReady {
		return errs.Wrapf(ErrInvalidState, "cannot clear seat in state %s", d.state)
	}
	d.touch()
	cur, ok := d.store.Get(passengerID, segmentNumber)
	if !ok {
		return nil
	}
	if cur.Confirmed {
		return errs.Wrap(ErrInvalidState, "seat is confirmed, cancel it instead")
	}
	d.store.Revert(passengerID, segmentNumber)
	return nil
}

// AutoAssign seats every passenger still without a seat on the selected
// segment from the free seats of the loaded seat map.
func (d *Driver) AutoAssign() ([]reservation.SeatAssignment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateReady {
		return nil, errs.Wrapf(ErrInvalidState, "cannot auto assign in state %s", d.state)
	}
	d.touch()
	seg := d.store.Selection().SegmentNumber
	m := d.seatMapFor(seg)
	if m == nil {
		return nil, errs.Wrap(ErrInvalidState, "no seat map loaded for the selected segment")
	}
	return d.store.AutoAssign(m.Available(), d.store.Passengers(), seg), nil
}

// Save sends every unconfirmed assignment in one request. The back-end accepts
// or rejects the request as a whole; on rejection nothing is marked confirmed
// and the session stays usable. On success the session closes.
func (d *Driver) Save(ctx context.Context) (SaveResult, error) {
	d.mu.Lock()
	if d.state != StateReady {
		d.mu.Unlock()
		return SaveResult{}, errs.Wrapf(ErrInvalidState, "cannot save in state %s", d.state)
	}
	d.touch()
	diff := d.store.DiffAgainstConfirmed()
	if diff.IsEmpty() || assignment.Equal(d.store.Snapshot(), d.store.Confirmed()) {
		d.mu.Unlock()
		d.logger.Debug("Nothing to save")
		return SaveResult{Skipped: true}, nil
	}
	batches, unaddressable := assignment.BuildBatches(diff, d.store.Passengers(), assignment.NewSegmentOrder(d.reservation.Segments()))
	if len(unaddressable) > 0 {
		d.mu.Unlock()
		return SaveResult{}, ErrUnknownPassenger
	}
	submitted := diff.All()
	d.setState(StateSaving)
	d.mu.Unlock()

	callCtx, cancel := d.withTimeout(ctx)
	err := d.gateway.AssignSeats(callCtx, batches)
	cancel()

	d.mu.Lock()
	if err != nil {
		err = classify(err, "seat assignment failed")
		d.lastError = err
		d.setState(StateReady)
		d.mu.Unlock()
		d.logger.Warn("Save failed", slog.String("error", err.Error()))
		return SaveResult{}, err
	}
	d.store.MarkConfirmed(submitted)
	d.lastError = nil
	d.mu.Unlock()

	d.publish(ctx, AuditSeatsConfirmed, submitted)

	refreshErr := d.refresh(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.setState(StateClosed)
	if refreshErr != nil {
		d.lastError = refreshErr
		return SaveResult{Submitted: submitted}, errs.Mark(refreshErr, ErrRefreshFailed)
	}
	return SaveResult{Submitted: submitted}, nil
}

// CancelSeat removes one confirmed seat on the back-end after the agent
// confirms. The local entry is only dropped once the back-end accepts.
func (d *Driver) CancelSeat(ctx context.Context, passengerID reservation.PassengerID, segmentNumber string, confirmer Confirmer) error {
	d.mu.Lock()
	if d.state != StateReady {
		d.mu.Unlock()
		return errs.Wrapf(ErrInvalidState, "cannot cancel in state %s", d.state)
	}
	d.touch()
	seat, ok := d.store.ConfirmedSeat(passengerID, segmentNumber)
	if !ok {
		d.mu.Unlock()
		return ErrNothingToCancel
	}
	d.mu.Unlock()

	seats := []reservation.SeatAssignment{seat}
	return d.destructive(ctx, StateCancelling, "cancel", seats, confirmer, func() {
		d.store.DropConfirmed(seats)
	}, AuditSeatCancelled)
}

// Reset cancels every confirmed seat and drops every staged seat. Without
// confirmed seats nothing is sent to the back-end.
func (d *Driver) Reset(ctx context.Context, confirmer Confirmer) error {
	d.mu.Lock()
	if d.state != StateReady {
		d.mu.Unlock()
		return errs.Wrapf(ErrInvalidState, "cannot reset in state %s", d.state)
	}
	d.touch()
	confirmed := d.store.Confirmed()
	d.mu.Unlock()

	dropAll := func() {
		d.store.Load(d.store.Passengers(), nil)
	}
	if len(confirmed) == 0 {
		ok, err := d.confirm(ctx, confirmer, Prompt{Action: "reset"})
		if err != nil {
			return err
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.state != StateReady {
			return errs.Wrapf(ErrInvalidState, "cannot reset in state %s", d.state)
		}
		if !ok {
			return ErrNotConfirmed
		}
		dropAll()
		return nil
	}
	return d.destructive(ctx, StateResetting, "reset", confirmed, confirmer, dropAll, AuditSeatsReset)
}

func (d *Driver) destructive(
	ctx context.Context,
	during State,
	action string,
	seats []reservation.SeatAssignment,
	confirmer Confirmer,
	applyLocal func(),
	event AuditEventType,
) error {
	ok, err := d.confirm(ctx, confirmer, Prompt{Action: action, Seats: seats})
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotConfirmed
	}

	d.mu.Lock()
	if d.state != StateReady {
		d.mu.Unlock()
		return errs.Wrapf(ErrInvalidState, "cannot %s in state %s", action, d.state)
	}
	changes := d.cancelChanges(seats)
	d.setState(during)
	d.mu.Unlock()

	callCtx, cancel := d.withTimeout(ctx)
	err = d.gateway.CancelSeats(callCtx, changes)
	cancel()

	d.mu.Lock()
	if err != nil {
		err = classify(err, action+" failed")
		d.lastError = err
		d.setState(StateReady)
		d.mu.Unlock()
		d.logger.Warn("Seat "+action+" failed", slog.String("error", err.Error()))
		return err
	}
	applyLocal()
	d.lastError = nil
	d.mu.Unlock()

	d.publish(ctx, event, seats)

	refreshErr := d.refresh(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.setState(StateReady)
	if refreshErr != nil {
		d.lastError = refreshErr
		return errs.Mark(refreshErr, ErrRefreshFailed)
	}
	return nil
}

func (d *Driver) confirm(ctx context.Context, confirmer Confirmer, p Prompt) (bool, error) {
	if confirmer == nil {
		return false, nil
	}
	ok, err := confirmer.Confirm(ctx, p)
	if err != nil {
		return false, errs.Wrap(err, "confirmation failed")
	}
	return ok, nil
}

func (d *Driver) cancelChanges(seats []reservation.SeatAssignment) []assignment.SeatChange {
	changes := make([]assignment.SeatChange, 0, len(seats))
	for _, s := range seats {
		ref := ""
		if p, ok := d.reservation.Passenger(s.PassengerID); ok {
			ref = p.NameReference()
		}
		changes = append(changes, assignment.SeatChange{Assignment: s, NameReference: ref})
	}
	return changes
}

// Close ends the session. In-flight fetches finish but are discarded.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	d.setState(StateClosed)
}

func (d *Driver) LastActive() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastActive
}

// refresh re-reads the reservation and replaces the confirmed baseline.
func (d *Driver) refresh(ctx context.Context) error {
	res, err := d.fetchReservation(ctx)
	if err != nil {
		d.logger.Warn("Reservation refresh failed", slog.String("error", err.Error()))
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reservation = res
	d.store.ReplaceConfirmed(res.AssignedSeats())
	d.store.OrderSegments(res.Segments())
	return nil
}

func (d *Driver) fetchReservation(ctx context.Context) (*reservation.Reservation, error) {
	callCtx, cancel := d.withTimeout(ctx)
	defer cancel()
	res, err := d.gateway.FetchReservation(callCtx)
	if err != nil {
		return nil, classify(err, "failed to fetch reservation")
	}
	return res, nil
}

// fetchSeatMap coalesces concurrent requests for the same segment and cabin.
// The shared call is detached from any single caller's cancellation.
func (d *Driver) fetchSeatMap(ctx context.Context, q seatmap.Query) (*seatmap.SeatMap, error) {
	ch := d.fetches.DoChan(q.Key(), func() (any, error) {
		callCtx, cancel := d.withTimeout(context.WithoutCancel(ctx))
		defer cancel()
		return d.gateway.FetchSeatMap(callCtx, q)
	})
	select {
	case <-ctx.Done():
		return nil, classify(ctx.Err(), "seat map fetch abandoned")
	case r := <-ch:
		if r.Err != nil {
			return nil, classify(r.Err, "failed to fetch seat map")
		}
		return r.Val.(*seatmap.SeatMap), nil
	}
}

func (d *Driver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.opts.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.opts.CallTimeout)
}

func (d *Driver) publish(ctx context.Context, t AuditEventType, seats []reservation.SeatAssignment) {
	if d.audit == nil {
		return
	}
	d.mu.Lock()
	event := AuditEvent{
		Type:       t,
		SessionID:  d.id,
		OccurredAt: d.clock.Now(),
	}
	if d.reservation != nil {
		event.RecordLocator = d.reservation.RecordLocator()
	}
	for _, s := range seats {
		ref := ""
		if p, ok := d.reservation.Passenger(s.PassengerID); ok {
			ref = p.NameReference()
		}
		event.Seats = append(event.Seats, AuditSeat{
			PassengerID:   string(s.PassengerID),
			NameReference: ref,
			SegmentNumber: s.SegmentNumber,
			SeatLabel:     s.SeatLabel,
		})
	}
	d.mu.Unlock()

	pubCtx, cancel := d.withTimeout(context.WithoutCancel(ctx))
	defer cancel()
	if err := d.audit.Publish(pubCtx, event); err != nil {
		d.logger.Warn("Audit publish failed", slog.String("type", string(t)), slog.String("error", err.Error()))
	}
}

func (d *Driver) queryLocked(seg *reservation.Segment, cabin reservation.CabinClass) seatmap.Query {
	return seatmap.Query{Segment: seg, Cabin: cabin, Passengers: d.store.Passengers()}
}

func (d *Driver) seatMapFor(segmentNumber string) *seatmap.SeatMap {
	if d.seatMap == nil || !strings.HasPrefix(d.seatMapKey, segmentNumber+"|") {
		return nil
	}
	return d.seatMap
}

func (d *Driver) setState(s State) {
	if d.state == s {
		return
	}
	d.logger.Debug("Session state changed", slog.String("from", string(d.state)), slog.String("to", string(s)))
	d.state = s
}

func (d *Driver) touch() {
	d.lastActive = d.clock.Now()
}
