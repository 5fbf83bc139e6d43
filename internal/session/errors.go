package session

import "fmt"

// ValidationError reports options rejected before any network activity.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid session options: " + e.Reason
}

// ConnectionError reports a failure to establish the session: either the
// session-creation call or the initial transport open.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to open streaming session: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StreamingError reports a mid-stream failure: a server-sent error event, an
// unrecoverable closure, or a poisoned chunk source. Code and Message are set
// when the service reported the error itself.
type StreamingError struct {
	Code    int
	Message string
	Err     error
}

func (e *StreamingError) Error() string {
	if e.Message != "" {
		if e.Code != 0 {
			return fmt.Sprintf("streaming failed: %s (code %d)", e.Message, e.Code)
		}
		return "streaming failed: " + e.Message
	}
	return fmt.Sprintf("streaming failed: %v", e.Err)
}

func (e *StreamingError) Unwrap() error { return e.Err }

// ReconnectionExhaustedError reports that abnormal closures persisted past
// the configured maximum reconnect attempts, or that credential renewal
// itself failed along the way.
type ReconnectionExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ReconnectionExhaustedError) Error() string {
	return fmt.Sprintf("reconnection exhausted after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *ReconnectionExhaustedError) Unwrap() error { return e.Err }
