package session

import (
	"context"

	"enhanced-seatmap/internal/infra"
	"enhanced-seatmap/internal/pkg/errs"
)

var (
	ErrNoActiveReservation = errs.New("no active reservation")
	ErrParse               = errs.ErrParse
	ErrTransport           = errs.ErrTransport
	ErrBackendRejection    = errs.ErrBackendRejection
	ErrTimeout             = errs.ErrTimeout

	ErrInvalidState      = errs.New("operation not allowed in current state")
	ErrNotConfirmed      = errs.New("destructive action was not confirmed")
	ErrNothingToCancel   = errs.New("no confirmed seat to cancel")
	ErrUnknownPassenger  = errs.New("unknown passenger")
	ErrUnknownSegment    = errs.New("unknown segment")
	ErrIncompleteSegment = errs.New("segment lacks the flight details a seat map needs")
	ErrInvalidCabin      = errs.New("invalid cabin class")
	ErrSeatNotOnMap      = errs.New("seat is not on the current seat map")
	ErrSessionNotFound   = errs.New("session not found")
	ErrSuperseded        = errs.New("selection changed while the seat map was loading")
	ErrRefreshFailed     = errs.New("back-end accepted the change but the reservation could not be reloaded")
)

// classify marks an adapter failure with the matching taxonomy sentinel.
func classify(err error, msg string) error {
	if err == nil {
		return nil
	}
	wrapped := errs.Wrap(err, msg)
	kind, ok := infra.KindOf(err)
	if !ok {
		switch {
		case errs.Is(err, ErrTimeout), errs.Is(err, context.DeadlineExceeded):
			return errs.Mark(wrapped, ErrTimeout)
		case errs.Is(err, ErrParse):
			return errs.Mark(wrapped, ErrParse)
		}
		return errs.Mark(wrapped, ErrTransport)
	}
	switch kind {
	case infra.KindTimeout:
		return errs.Mark(wrapped, ErrTimeout)
	case infra.KindParse:
		return errs.Mark(wrapped, ErrParse)
	case infra.KindRejected:
		return errs.Mark(wrapped, ErrBackendRejection)
	case infra.KindNoReservation:
		return errs.Mark(wrapped, ErrNoActiveReservation)
	default:
		return errs.Mark(wrapped, ErrTransport)
	}
}
