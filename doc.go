// Package helloasso provides an OAuth2 client-credentials client for the
// HelloAsso payment platform API.
//
// It obtains a bearer access token from the HelloAsso token endpoint, injects
// it into outgoing requests via an http.RoundTripper, and refreshes it before
// expiry, lazily or on demand. Token round trips honor contexts for
// cancellation, are thread-safe, and can log lifecycle events via an optional
// Logger interface.
//
// # Features
//
//   - Client-credentials grant performed during Build, so every Client starts authenticated
//   - Refresh-token grant on demand (Refresh) and lazily before expiry (Token)
//   - Per-request Authorization header injection that picks up refreshed tokens immediately
//   - Typed errors for rejected credentials, transport failures, undocumented statuses and undecodable payloads
//   - golang.org/x/oauth2 TokenSource integration
//   - Unverified JWT claims inspection of issued access tokens
//   - Optional logging (WithLogger, WithLoggingEnabled)
//
// # Quick Start
//
//	client, err := helloasso.New("client-id", "client-secret").
//	    WithLoggingEnabled().
//	    Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.HTTPClient().Get(client.BaseURL() + "/organizations")
//
// # Error Handling
//
// Rejected credentials surface as *AuthenticationError. The HelloAsso
// endpoint reports a wrong client secret with the very same
// "unauthorized_client" code and "Invalid client_id" description as a wrong
// client identifier, so an *AuthenticationError always means "check both
// credentials". Transport failures surface as *RequestError, undocumented
// HTTP statuses as *StatusError and undecodable payloads as *DecodeError;
// all are matched with errors.As.
//
// # Notes
//
//   - HelloAsso access tokens are valid for about thirty minutes; the client
//     refreshes within a configurable leeway (default one minute) before expiry.
//   - The client secret is held for the initial grant only and never logged.
//   - Client is safe for concurrent use and uses double-checked locking, so
//     concurrent requests trigger at most one refresh.
package helloasso
