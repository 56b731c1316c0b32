package growatt

import (
	"errors"
	"fmt"
)

// ErrInvalidTimespan reports a timespan outside the hour/day/month
// enumeration. Returned before any request is made.
var ErrInvalidTimespan = errors.New("invalid timespan")

// AuthError means the server answered the login request but rejected the
// credentials. Payload carries the decoded response for diagnostics.
type AuthError struct {
	Payload map[string]any
}

func (e *AuthError) Error() string {
	if msg, ok := e.Payload["msg"].(string); ok && msg != "" {
		return fmt.Sprintf("login failed: %s", msg)
	}
	return "login failed"
}

// DecodeError means the response body was not the JSON object the endpoint
// is documented to return. Raw is the undecoded body.
type DecodeError struct {
	Raw []byte
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ShapeError means the body decoded fine but the envelope field the
// endpoint wraps its payload in is missing or has the wrong shape.
type ShapeError struct {
	Field string
	Raw   []byte
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("response missing %q", e.Field)
}
