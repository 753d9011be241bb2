package helloasso

import (
	"errors"
	"fmt"
)

// ErrNoAccessToken is returned when token state is required but none exists,
// e.g. when a zero-value Client or a hand-built Transport is used instead of
// one produced by Build.
var ErrNoAccessToken = errors.New("helloasso: no access token available")

// ErrNoRefreshToken is returned when a refresh is requested but the client
// holds no refresh token to exchange.
var ErrNoRefreshToken = errors.New("helloasso: no refresh token available")

// AuthenticationError is the error body the token endpoint returns with
// HTTP 400 when a grant is rejected.
//
// The HelloAsso endpoint reports an invalid client secret with exactly the
// same code and description as an invalid client identifier (code
// "unauthorized_client", description "Invalid client_id '<id>'"), so the two
// cases cannot be told apart from this error alone.
type AuthenticationError struct {
	// Code is the OAuth2 error code, e.g. "unauthorized_client".
	Code string `json:"error"`

	// Description is the human-readable detail supplied by the endpoint.
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("helloasso: authentication failed: %s: %s", e.Code, e.Description)
}

// RequestError reports a transport-level failure while reaching the token
// endpoint: DNS resolution, TLS handshake, connection refused, timeout or a
// cancelled context. The request never produced an HTTP status.
type RequestError struct {
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return "helloasso: token request failed: " + e.Err.Error()
}

// Unwrap returns the underlying transport error so callers can use errors.Is
// against causes such as context.DeadlineExceeded.
func (e *RequestError) Unwrap() error { return e.Err }

// DecodeError reports a token endpoint response whose body did not match the
// documented shape, for either the success or the error payload.
type DecodeError struct {
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return "helloasso: cannot decode token endpoint response: " + e.Err.Error()
}

// Unwrap returns the underlying decoding error.
func (e *DecodeError) Unwrap() error { return e.Err }

// StatusError reports an HTTP status the token endpoint is not documented to
// return. The endpoint is specified for 200 and 400 only; everything else
// (401 and 403 included, pending clarification from the platform) surfaces
// here together with the raw body for diagnosis.
type StatusError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Body is the raw response body, kept verbatim for diagnosis.
	Body []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("helloasso: unexpected status %d from token endpoint", e.StatusCode)
}
