package adapter

import "errors"

// Transport outcomes. Every error returned by the [ServerAdapter] wraps
// exactly one of them.
var (
	// ErrUnreachable is returned when no response was received: connection
	// refused, DNS failure, timeout or cancellation.
	ErrUnreachable = errors.New("server unreachable")

	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")

	// ErrUnexpectedStatus covers any other non-2xx client error status.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrMalformedResponse is returned when a 2xx body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// IsUnavailable reports whether err means the server could not serve the
// call right now: no response at all, a 5xx status or an undecodable reply.
// Such calls are worth retrying later unchanged.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnreachable) ||
		errors.Is(err, ErrInternalServerError) ||
		errors.Is(err, ErrBadGateway) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrMalformedResponse)
}

// IsRejected reports whether the server answered with a 4xx status. A
// rejected call will fail the same way when repeated.
func IsRejected(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUnexpectedStatus)
}
