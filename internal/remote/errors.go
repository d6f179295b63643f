package remote

import "errors"

var (
	// ErrUnavailable indicates the remote endpoint could not be reached.
	ErrUnavailable = errors.New("remote service unavailable")

	// ErrTimeout indicates the call exceeded its deadline.
	ErrTimeout = errors.New("remote call timed out")

	// ErrRejected indicates the endpoint answered with a non-2xx status.
	ErrRejected = errors.New("remote call rejected")

	// ErrNotConfigured indicates the endpoint URL or credentials are missing.
	ErrNotConfigured = errors.New("remote service not configured")
)

// ErrorCode returns a short stable code for err, used in logs and the
// submission log.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrRejected):
		return "REJECTED"
	case errors.Is(err, ErrNotConfigured):
		return "NOT_CONFIGURED"
	default:
		return "UNKNOWN"
	}
}
