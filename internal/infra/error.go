package infra

import (
	"errors"
	"log/slog"

	"enhanced-seatmap/internal/pkg/errs"
)

type AdapterErrorKind string

type AdapterError struct {
	Kind AdapterErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e AdapterError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e AdapterError) Unwrap() error {
	return e.err
}

// Message is the human-readable part without the kind prefix.
func (e AdapterError) Message() string {
	return e.msg
}

func WrapAdapterErr(slogger *slog.Logger, kind AdapterErrorKind, msg string, err error) error {
	logArgs := []any{
		slog.String("kind", string(kind)),
	}
	if err != nil {
		logArgs = append(logArgs, slog.String("cause", err.Error()))
	}

	slogger.Error("Adapter error: "+msg, logArgs...)

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return AdapterError{Kind: kind, msg: msg, err: err}
}

func IsKind(err error, kind AdapterErrorKind) bool {
	var e AdapterError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first AdapterError in the chain.
func KindOf(err error) (AdapterErrorKind, bool) {
	var e AdapterError
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Infrastructure-specific error kinds
const (
	KindTransport     AdapterErrorKind = "TRANSPORT"
	KindParse         AdapterErrorKind = "PARSE"
	KindRejected      AdapterErrorKind = "REJECTED"
	KindTimeout       AdapterErrorKind = "TIMEOUT"
	KindStorage       AdapterErrorKind = "STORAGE"
	KindNoReservation AdapterErrorKind = "NO_RESERVATION"
)
