// Package testutil provides in-memory fakes for exercising the HelloAsso
// token lifecycle without real sockets.
//
// TokenEndpoint emulates the oauth2/token endpoint: it serves the
// client-credentials and refresh-token grants, mints JWT access tokens,
// rotates refresh tokens, and reproduces the platform's quirk of reporting a
// wrong client secret as an invalid client_id. Non-grant requests are
// answered with a stub body and recorded, so the same endpoint can back an
// authenticated client under test.
//
// # Utilities
//
//   - TokenEndpoint: in-memory oauth2/token endpoint with request recording
//   - RoundTripFunc: inline http.RoundTripper implementations
//   - JSONResponse: build canned *http.Response values
//
// These helpers are for tests only; inject them via the builder's
// WithHTTPClient option, nothing global is touched.
package testutil
