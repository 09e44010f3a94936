//go:build unit

package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"enhanced-seatmap/internal/domain/assignment"
	"enhanced-seatmap/internal/domain/reservation"
	"enhanced-seatmap/internal/domain/seatmap"
	"enhanced-seatmap/internal/infra"
	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/errs"
	"enhanced-seatmap/internal/usecase/session"
	"enhanced-seatmap/tests/common/builder"
	sessionmock "enhanced-seatmap/tests/mock/session"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func twoSeatMap() *seatmap.SeatMap {
	return &seatmap.SeatMap{
		Seats: []seatmap.SeatDescriptor{
			{Label: "1A", Row: 1, Column: "A", Status: seatmap.StatusAvailable},
			{Label: "1B", Row: 1, Column: "B", Status: seatmap.StatusOccupied},
			{Label: "2A", Row: 2, Column: "A", Status: seatmap.StatusAvailableForFee, Price: reservation.NewMoney(1500, "USD")},
		},
		Layout: seatmap.LayoutMeta{Letters: []string{"A", "B"}, Rows: []seatmap.Row{{Number: 1}, {Number: 2}}, Deck: seatmap.DefaultDeck},
	}
}

func rejection(msg string) error {
	return infra.WrapAdapterErr(discardLogger, infra.KindRejected, msg, nil)
}

type DriverTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	gateway   *sessionmock.MockGateway
	audit     *sessionmock.MockAuditPublisher
	confirmer *sessionmock.MockConfirmer
	clock     *clock.MockClock
	driver    *session.Driver
}

func TestDriverTestSuite(t *testing.T) {
	suite.Run(t, new(DriverTestSuite))
}

func (s *DriverTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.gateway = sessionmock.NewMockGateway(s.ctrl)
	s.audit = sessionmock.NewMockAuditPublisher(s.ctrl)
	s.confirmer = sessionmock.NewMockConfirmer(s.ctrl)
	s.clock = clock.NewMockClock(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))
	s.driver = session.NewDriver("sess-1", s.gateway, s.audit, s.clock, discardLogger, session.Options{
		CallTimeout:  time.Second,
		DefaultCabin: reservation.CabinAll,
	})
}

func (s *DriverTestSuite) assertErr(err, target error) {
	s.T().Helper()
	s.Truef(errs.Is(err, target), "expected %v, got %v", target, err)
}

// open loads res and the seat map of its first segment.
func (s *DriverTestSuite) open(res *reservation.Reservation) {
	s.gateway.EXPECT().FetchReservation(gomock.Any()).Return(res, nil)
	s.gateway.EXPECT().FetchSeatMap(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q seatmap.Query) (*seatmap.SeatMap, error) {
			s.Equal("1", q.Segment.Number())
			s.Equal(reservation.CabinAll, q.Cabin)
			s.Len(q.Passengers, len(res.Passengers()))
			return twoSeatMap(), nil
		})
	s.Require().NoError(s.driver.Open(context.Background()))
	s.Require().Equal(session.StateReady, s.driver.Snapshot().State)
}

func (s *DriverTestSuite) TestRejectedSaveKeepsEverythingPending() {
	s.open(builder.NewReservationBuilder().BuildDomain())

	made, err := s.driver.AutoAssign()
	s.Require().NoError(err)
	s.Require().Len(made, 1)
	s.Equal(reservation.PassengerID("1"), made[0].PassengerID)
	s.Equal("1A", made[0].SeatLabel)

	_, err = s.driver.AssignSeat("2", "", "1B")
	s.Require().NoError(err, "occupied seats can still be staged")

	s.gateway.EXPECT().AssignSeats(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, batches []assignment.SegmentBatch) error {
			s.Require().Len(batches, 1)
			s.Equal("1", batches[0].SegmentNumber)
			s.Len(batches[0].Changes, 2)
			return rejection("SEAT 1B NOT AVAILABLE")
		})

	_, err = s.driver.Save(context.Background())
	s.assertErr(err, session.ErrBackendRejection)

	snap := s.driver.Snapshot()
	s.Equal(session.StateReady, snap.State)
	s.Contains(snap.LastError, "SEAT 1B NOT AVAILABLE")
	s.Equal(2, snap.Pending)
	for _, a := range snap.Assignments {
		s.False(a.Confirmed, a.SeatLabel)
	}
	s.Equal([]string{"1B"}, snap.Flagged)
}

func (s *DriverTestSuite) TestSaveConfirmsAndCloses() {
	res := builder.NewReservationBuilder().BuildDomain()
	s.open(res)

	_, err := s.driver.AssignSeat("1", "1", "2A")
	s.Require().NoError(err)
	snap := s.driver.Snapshot()
	s.Require().Len(snap.SeatFees, 1)
	s.Equal(int64(1500), snap.SeatFees[0].Total.Cents())

	b := builder.NewReservationBuilder()
	b.Passengers[0].Seats = []builder.SeatXML{{Label: "2A", SegmentNumber: "1"}}
	refreshed := b.BuildDomain()

	gomock.InOrder(
		s.gateway.EXPECT().AssignSeats(gomock.Any(), gomock.Any()).Return(nil),
		s.audit.EXPECT().Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e session.AuditEvent) error {
				s.Equal(session.AuditSeatsConfirmed, e.Type)
				s.Equal("QWERTY", e.RecordLocator)
				s.Equal("sess-1", e.SessionID)
				s.Require().Len(e.Seats, 1)
				s.Equal("1.1", e.Seats[0].NameReference)
				return nil
			}),
		s.gateway.EXPECT().FetchReservation(gomock.Any()).Return(refreshed, nil),
	)

	result, err := s.driver.Save(context.Background())
	s.Require().NoError(err)
	s.False(result.Skipped)
	s.Len(result.Submitted, 1)

	snap = s.driver.Snapshot()
	s.Equal(session.StateClosed, snap.State)
	s.Require().Len(snap.Assignments, 1)
	s.True(snap.Assignments[0].Confirmed)
}

func (s *DriverTestSuite) TestSaveWithoutChangesIsSkipped() {
	s.open(builder.NewReservationBuilder().BuildDomain())

	result, err := s.driver.Save(context.Background())
	s.Require().NoError(err)
	s.True(result.Skipped)
	s.Equal(session.StateReady, s.driver.Snapshot().State)
}

func (s *DriverTestSuite) TestSaveRefreshFailure() {
	s.open(builder.NewReservationBuilder().BuildDomain())
	_, err := s.driver.AssignSeat("1", "1", "1A")
	s.Require().NoError(err)

	s.gateway.EXPECT().AssignSeats(gomock.Any(), gomock.Any()).Return(nil)
	s.audit.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
	s.gateway.EXPECT().FetchReservation(gomock.Any()).Return(nil, errors.New("connection reset"))

	_, err = s.driver.Save(context.Background())
	s.assertErr(err, session.ErrRefreshFailed)
	s.Equal(session.StateClosed, s.driver.Snapshot().State)
}

func (s *DriverTestSuite) TestAssignValidation() {
	s.open(builder.NewReservationBuilder().BuildDomain())

	_, err := s.driver.AssignSeat("1", "1", "9Z")
	s.assertErr(err, session.ErrSeatNotOnMap)

	_, err = s.driver.AssignSeat("1", "7", "1A")
	s.assertErr(err, session.ErrUnknownSegment)

	_, err = s.driver.AssignSeat("5", "1", "1A")
	s.assertErr(err, session.ErrUnknownPassenger)

	a, err := s.driver.AssignSeat("1", "2", "40K")
	s.Require().NoError(err, "segments without a loaded map accept any label")
	s.True(a.Price.IsZero())

	s.assertErr(s.driver.SelectPassenger("9"), session.ErrUnknownPassenger)
	s.Require().NoError(s.driver.SelectPassenger("2"))
	s.Equal(reservation.PassengerID("2"), s.driver.Snapshot().Selection.PassengerID)
}

func (s *DriverTestSuite) TestClearAssignment() {
	b := builder.NewReservationBuilder()
	b.Passengers[0].Seats = []builder.SeatXML{{Label: "1A", SegmentNumber: "1"}}
	s.open(b.BuildDomain())

	s.assertErr(s.driver.ClearAssignment("1", "1"), session.ErrInvalidState)

	_, err := s.driver.AssignSeat("2", "1", "2A")
	s.Require().NoError(err)
	s.Require().NoError(s.driver.ClearAssignment("2", "1"))
	s.Zero(s.driver.Snapshot().Pending)
}

func (s *DriverTestSuite) TestSelectSegment() {
	s.open(builder.NewReservationBuilder().BuildDomain())
	_, err := s.driver.AssignSeat("1", "1", "1A")
	s.Require().NoError(err)

	s.assertErr(s.driver.SelectSegment(context.Background(), "1", "Cargo"), session.ErrInvalidCabin)
	s.assertErr(s.driver.SelectSegment(context.Background(), "9", ""), session.ErrUnknownSegment)

	s.gateway.EXPECT().FetchSeatMap(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q seatmap.Query) (*seatmap.SeatMap, error) {
			s.Equal("2", q.Segment.Number())
			s.Equal(reservation.CabinBusiness, q.Cabin)
			return twoSeatMap(), nil
		})
	s.Require().NoError(s.driver.SelectSegment(context.Background(), "2", reservation.CabinBusiness))

	snap := s.driver.Snapshot()
	s.Equal("2", snap.Selection.SegmentNumber)
	s.Equal(reservation.CabinBusiness, snap.Selection.Cabin)
	s.Len(snap.Assignments, 1, "assignments on other segments are kept")
}

func (s *DriverTestSuite) TestSelectIncompleteSegmentIsNotFetched() {
	b := builder.NewReservationBuilder()
	b.Segments[1].Flight = ""
	s.open(b.BuildDomain())

	err := s.driver.SelectSegment(context.Background(), "2", "")
	s.assertErr(err, session.ErrIncompleteSegment)
	s.assertErr(err, reservation.ErrIncompleteSegment)

	snap := s.driver.Snapshot()
	s.Equal(session.StateReady, snap.State)
	s.Equal("1", snap.Selection.SegmentNumber)
	s.NotNil(snap.SeatMap, "the current seat map is kept")
}

func (s *DriverTestSuite) TestOpenWithIncompleteFirstSegment() {
	b := builder.NewReservationBuilder()
	b.Segments[0].Carrier = ""
	s.gateway.EXPECT().FetchReservation(gomock.Any()).Return(b.BuildDomain(), nil)

	s.Require().NoError(s.driver.Open(context.Background()))

	snap := s.driver.Snapshot()
	s.Equal(session.StateReady, snap.State)
	s.Equal("1", snap.Selection.SegmentNumber)
	s.Nil(snap.SeatMap)
	s.Contains(snap.LastError, "missing flight details")

	s.gateway.EXPECT().FetchSeatMap(gomock.Any(), gomock.Any()).Return(twoSeatMap(), nil)
	s.Require().NoError(s.driver.SelectSegment(context.Background(), "2", ""))
	s.Empty(s.driver.Snapshot().LastError)
}

func (s *DriverTestSuite) TestSelectSegmentFailureReturnsToReady() {
	s.open(builder.NewReservationBuilder().BuildDomain())

	s.gateway.EXPECT().FetchSeatMap(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	err := s.driver.SelectSegment(context.Background(), "2", "")
	s.assertErr(err, session.ErrTransport)

	snap := s.driver.Snapshot()
	s.Equal(session.StateReady, snap.State)
	s.Nil(snap.SeatMap)
	s.NotEmpty(snap.LastError)

	_, err = s.driver.AutoAssign()
	s.assertErr(err, session.ErrInvalidState)
}

func (s *DriverTestSuite) TestStaleSeatMapIsDiscarded() {
	s.open(builder.NewReservationBuilder().BuildDomain())

	started := make(chan struct{})
	release := make(chan struct{})
	fresh := twoSeatMap()
	s.gateway.EXPECT().FetchSeatMap(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q seatmap.Query) (*seatmap.SeatMap, error) {
			if q.Segment.Number() == "2" {
				close(started)
				<-release
				return twoSeatMap(), nil
			}
			return fresh, nil
		}).Times(2)

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowErr = s.driver.SelectSegment(context.Background(), "2", "")
	}()

	<-started
	s.Require().NoError(s.driver.SelectSegment(context.Background(), "1", ""))
	close(release)
	wg.Wait()

	s.assertErr(slowErr, session.ErrSuperseded)
	snap := s.driver.Snapshot()
	s.Equal("1", snap.Selection.SegmentNumber)
	s.Same(fresh, snap.SeatMap)
	s.Equal(session.StateReady, snap.State)
}

func (s *DriverTestSuite) TestCancelSeat() {
	b := builder.NewReservationBuilder()
	b.Passengers[1].Seats = []builder.SeatXML{{Label: "1A", SegmentNumber: "1"}}
	s.open(b.BuildDomain())

	s.Run("nothing to cancel", func() {
		s.assertErr(s.driver.CancelSeat(context.Background(), "1", "1", s.confirmer), session.ErrNothingToCancel)
	})

	s.Run("declined", func() {
		s.confirmer.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(false, nil)
		s.assertErr(s.driver.CancelSeat(context.Background(), "2", "1", s.confirmer), session.ErrNotConfirmed)
		s.Len(s.driver.Snapshot().Assignments, 1)
	})

	s.Run("back-end rejection keeps the seat", func() {
		s.confirmer.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(true, nil)
		s.gateway.EXPECT().CancelSeats(gomock.Any(), gomock.Any()).Return(rejection("SEAT LOCKED"))

		s.assertErr(s.driver.CancelSeat(context.Background(), "2", "1", s.confirmer), session.ErrBackendRejection)
		snap := s.driver.Snapshot()
		s.Equal(session.StateReady, snap.State)
		s.Len(snap.Assignments, 1)
	})

	s.Run("accepted", func() {
		s.confirmer.EXPECT().Confirm(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p session.Prompt) (bool, error) {
				s.Equal("cancel", p.Action)
				s.Len(p.Seats, 1)
				return true, nil
			})
		s.gateway.EXPECT().CancelSeats(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, seats []assignment.SeatChange) error {
				s.Require().Len(seats, 1)
				s.Equal("2.1", seats[0].NameReference)
				s.Equal("1A", seats[0].Assignment.SeatLabel)
				return nil
			})
		s.audit.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
		s.gateway.EXPECT().FetchReservation(gomock.Any()).Return(builder.NewReservationBuilder().BuildDomain(), nil)

		s.Require().NoError(s.driver.CancelSeat(context.Background(), "2", "1", s.confirmer))
		snap := s.driver.Snapshot()
		s.Equal(session.StateReady, snap.State)
		s.Empty(snap.Assignments)
	})
}

func (s *DriverTestSuite) TestResetWithConfirmedSeats() {
	b := builder.NewReservationBuilder()
	b.Passengers[0].Seats = []builder.SeatXML{{Label: "1A", SegmentNumber: "1"}, {Label: "5C", SegmentNumber: "2"}}
	s.open(b.BuildDomain())
	_, err := s.driver.AssignSeat("2", "1", "2A")
	s.Require().NoError(err)

	s.confirmer.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(true, nil)
	s.gateway.EXPECT().CancelSeats(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, seats []assignment.SeatChange) error {
			s.Len(seats, 2)
			return nil
		})
	s.audit.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e session.AuditEvent) error {
			s.Equal(session.AuditSeatsReset, e.Type)
			return nil
		})
	s.gateway.EXPECT().FetchReservation(gomock.Any()).Return(builder.NewReservationBuilder().BuildDomain(), nil)

	s.Require().NoError(s.driver.Reset(context.Background(), s.confirmer))
	s.Empty(s.driver.Snapshot().Assignments)
}

func (s *DriverTestSuite) TestResetWithoutConfirmedSeatsStaysLocal() {
	s.open(builder.NewReservationBuilder().BuildDomain())
	_, err := s.driver.AssignSeat("1", "1", "1A")
	s.Require().NoError(err)

	s.assertErr(s.driver.Reset(context.Background(), session.StaticConfirmer(false)), session.ErrNotConfirmed)
	s.Len(s.driver.Snapshot().Assignments, 1)

	s.Require().NoError(s.driver.Reset(context.Background(), session.StaticConfirmer(true)))
	s.Empty(s.driver.Snapshot().Assignments)
}

func (s *DriverTestSuite) TestClosedSessionRejectsWork() {
	s.open(builder.NewReservationBuilder().BuildDomain())
	s.driver.Close()

	_, err := s.driver.AssignSeat("1", "1", "1A")
	s.assertErr(err, session.ErrInvalidState)
	_, err = s.driver.Save(context.Background())
	s.assertErr(err, session.ErrInvalidState)
	s.assertErr(s.driver.SelectPassenger("1"), session.ErrInvalidState)
}

func TestDriverOpenFailures(t *testing.T) {
	newDriver := func(t *testing.T, timeout time.Duration) (*session.Driver, *sessionmock.MockGateway) {
		ctrl := gomock.NewController(t)
		gw := sessionmock.NewMockGateway(ctrl)
		clk := clock.NewMockClock(time.Now())
		return session.NewDriver("sess", gw, nil, clk, discardLogger, session.Options{CallTimeout: timeout}), gw
	}

	t.Run("timeout is terminal", func(t *testing.T) {
		d, gw := newDriver(t, 20*time.Millisecond)
		gw.EXPECT().FetchReservation(gomock.Any()).
			DoAndReturn(func(ctx context.Context) (*reservation.Reservation, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})

		err := d.Open(context.Background())
		if !errs.Is(err, session.ErrTimeout) {
			t.Fatalf("expected timeout, got %v", err)
		}
		if got := d.Snapshot().State; got != session.StateTimeoutError {
			t.Fatalf("state = %s", got)
		}
	})

	t.Run("no active reservation", func(t *testing.T) {
		d, gw := newDriver(t, time.Second)
		gw.EXPECT().FetchReservation(gomock.Any()).
			Return(nil, infra.WrapAdapterErr(discardLogger, infra.KindNoReservation, "NO ACTIVE PNR", nil))

		err := d.Open(context.Background())
		if !errs.Is(err, session.ErrNoActiveReservation) {
			t.Fatalf("expected no reservation, got %v", err)
		}
		if got := d.Snapshot().State; got != session.StateLoadError {
			t.Fatalf("state = %s", got)
		}
	})

	t.Run("empty reservation", func(t *testing.T) {
		d, gw := newDriver(t, time.Second)
		gw.EXPECT().FetchReservation(gomock.Any()).Return(reservation.NewReservation("", nil, nil, nil), nil)

		if err := d.Open(context.Background()); !errs.Is(err, session.ErrNoActiveReservation) {
			t.Fatalf("expected no reservation, got %v", err)
		}
	})

	t.Run("seat map parse failure", func(t *testing.T) {
		d, gw := newDriver(t, time.Second)
		gw.EXPECT().FetchReservation(gomock.Any()).Return(builder.NewReservationBuilder().BuildDomain(), nil)
		gw.EXPECT().FetchSeatMap(gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapAdapterErr(discardLogger, infra.KindParse, "no rows", nil))

		if err := d.Open(context.Background()); !errs.Is(err, session.ErrParse) {
			t.Fatalf("expected parse error, got %v", err)
		}
		if got := d.Snapshot().State; got != session.StateLoadError {
			t.Fatalf("state = %s", got)
		}
		if err := d.Open(context.Background()); !errs.Is(err, session.ErrInvalidState) {
			t.Fatalf("reopen should fail, got %v", err)
		}
	})
}
