package errs

import "errors"

// Cross-layer sentinel errors used as markers with Mark.
var (
	// Back-end round-trip failures
	ErrTransport        = errors.New("transport failure")
	ErrBackendRejection = errors.New("back-end rejected the request")
	ErrTimeout          = errors.New("back-end call timed out")

	// Document failures
	ErrParse = errors.New("malformed document")

	// Storage failures
	ErrStorageOperationFailed = errors.New("storage operation failed")
)
