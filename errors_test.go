package helloasso

import (
	"errors"
	"strings"
	"testing"
)

func TestAuthenticationError_Error(t *testing.T) {
	err := &AuthenticationError{
		Code:        "unauthorized_client",
		Description: "Invalid client_id 'my-client'",
	}

	want := "helloasso: authentication failed: unauthorized_client: Invalid client_id 'my-client'"
	if got := err.Error(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRequestError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &RequestError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable via errors.Is")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected the cause in the message, got %q", err.Error())
	}
}

func TestDecodeError_Unwrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &DecodeError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable via errors.Is")
	}
	if !strings.Contains(err.Error(), "cannot decode") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestStatusError_Error(t *testing.T) {
	err := &StatusError{StatusCode: 503, Body: []byte("service unavailable")}

	if !strings.Contains(err.Error(), "503") {
		t.Errorf("expected the status code in the message, got %q", err.Error())
	}
	if string(err.Body) != "service unavailable" {
		t.Errorf("expected the body to be preserved, got %q", err.Body)
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	if errors.Is(ErrNoAccessToken, ErrNoRefreshToken) {
		t.Error("sentinel errors must not match each other")
	}
}
