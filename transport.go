package helloasso

import "net/http"

// Transport is an http.RoundTripper that automatically adds the HelloAsso
// bearer token to outgoing HTTP requests.
//
// It wraps an existing transport (typically http.DefaultTransport) and reads
// the header value from the Client's token state at request time. Nothing is
// baked in at construction, so a refresh on the Client is visible to the very
// next request through the same transport.
type Transport struct {
	// Base is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// Client provides the access tokens. It must come from Build; a nil or
	// zero-value Client fails every round trip with ErrNoAccessToken rather
	// than sending an unauthenticated request.
	Client *Client
}

// RoundTrip implements the http.RoundTripper interface.
// It obtains a valid access token (refreshing first when the stored one is
// stale), clones the request, sets "Authorization: Bearer <token>" and
// delegates to the base transport. The token refresh respects the request
// context's cancellation and deadline.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Client == nil {
		return nil, ErrNoAccessToken
	}

	// Get a valid access token using the request context.
	token, err := t.Client.Token(req.Context())
	if err != nil {
		return nil, err
	}

	// Clone the request to avoid modifying the original.
	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", "Bearer "+token)

	// Use base transport or default.
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(reqClone)
}

// NewTransport creates a Transport that authenticates with the given client.
// The base transport defaults to http.DefaultTransport if not specified.
func NewTransport(client *Client, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &Transport{
		Base:   base,
		Client: client,
	}
}
