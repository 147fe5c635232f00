package api

import (
	"encoding/json"
	"fmt"
)

// NetworkError wraps a transport-level failure: the request never produced an
// HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is any non-2xx response, carrying the status code and the parsed
// error body as returned by the server.
type HTTPError struct {
	Status  int
	Payload map[string]any
}

func (e *HTTPError) Error() string {
	if msg, ok := e.Payload["error"].(string); ok && msg != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, msg)
	}
	if msg, ok := e.Payload["detail"].(string); ok && msg != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, msg)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Message returns the server-supplied error text, or a fallback.
func (e *HTTPError) Message(fallback string) string {
	if msg, ok := e.Payload["error"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := e.Payload["detail"].(string); ok && msg != "" {
		return msg
	}
	return fallback
}

// AuthError is the 401 case. By the time the caller sees it the session store
// has already been cleared and the unauthorized hook fired.
type AuthError struct {
	HTTPError
}

// DecodeError reports a 2xx response whose body did not match the expected
// shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// decodeInto unmarshals a response body, translating failures into
// DecodeError so callers can distinguish them from server-side errors.
func decodeInto(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
