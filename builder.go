package helloasso

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"
)

const (
	// defaultTimeout bounds token endpoint round trips when no custom
	// http.Client is supplied.
	defaultTimeout = 30 * time.Second

	// defaultExpiryLeeway refreshes a bit before expiry to avoid
	// near-expiry races between Token and the API.
	defaultExpiryLeeway = time.Minute
)

// Builder provides a fluent interface for constructing an authenticated
// Client. Build performs the initial client-credentials grant, so a Client
// without a token cannot be constructed through it.
type Builder struct {
	// Credentials
	clientID     string
	clientSecret string

	// Endpoint configuration
	tokenURL string
	baseURL  string

	// HTTP configuration
	httpClient *http.Client
	timeout    time.Duration

	// Token lifecycle configuration
	expiryLeeway time.Duration
	logger       Logger
}

// New creates a builder for the given HelloAsso API credentials.
//
// Parameters:
//   - clientID: API client identifier from the HelloAsso back office
//   - clientSecret: API client secret; held for the grant only, never logged
func New(clientID, clientSecret string) *Builder {
	return &Builder{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     DefaultTokenURL,
		baseURL:      DefaultBaseURL,
		timeout:      defaultTimeout,
		expiryLeeway: defaultExpiryLeeway,
	}
}

// WithTokenURL overrides the token endpoint, e.g. to target the HelloAsso
// sandbox platform. Default is DefaultTokenURL.
func (b *Builder) WithTokenURL(tokenURL string) *Builder {
	b.tokenURL = tokenURL
	return b
}

// WithBaseURL overrides the API root that authenticated requests target.
// Default is DefaultBaseURL.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.baseURL = baseURL
	return b
}

// WithHTTPClient sets the http.Client used for token endpoint round trips.
// This is useful for custom TLS or proxy setups; tests inject in-memory
// transports here. When set, WithTimeout is ignored.
func (b *Builder) WithHTTPClient(hc *http.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithTimeout sets the request timeout of the default token endpoint client.
// Default is 30 seconds if not specified.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// WithExpiryLeeway sets how long before its expiry an access token is already
// treated as stale by Token and Valid. Default is one minute.
func (b *Builder) WithExpiryLeeway(leeway time.Duration) *Builder {
	b.expiryLeeway = leeway
	return b
}

// WithLogger sets a custom logger for token lifecycle events.
// If not set, no logging will occur.
func (b *Builder) WithLogger(logger Logger) *Builder {
	b.logger = logger
	return b
}

// WithLoggingEnabled enables logging using the default Go log package.
// This is a convenience option that sets the logger to log.Default().
func (b *Builder) WithLoggingEnabled() *Builder {
	b.logger = log.Default()
	return b
}

// Build performs the client-credentials grant and assembles the Client.
//
// The grant is a single form-encoded POST of client_id, client_secret and
// grant_type=client_credentials to the token endpoint. On any failure no
// Client is returned, so an unauthenticated Client cannot be observed:
//
//   - transport failure -> *RequestError
//   - rejected credentials (HTTP 400) -> *AuthenticationError
//   - undocumented HTTP status -> *StatusError
//   - unreadable payload -> *DecodeError
//
// Note that the endpoint answers a wrong client secret with the same
// "Invalid client_id" description as a wrong client identifier; callers
// should treat an *AuthenticationError as "check both credentials".
//
// Parameters:
//   - ctx: Context for the grant request (used for cancellation and deadlines)
//
// Returns:
//   - *Client: Authenticated, ready-to-use client
//   - error: Classified error if the grant fails
func (b *Builder) Build(ctx context.Context) (*Client, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.clientID == "" || b.clientSecret == "" {
		return nil, errors.New("helloasso: client id and client secret are required")
	}
	if b.tokenURL == "" {
		return nil, errors.New("helloasso: token URL is required")
	}

	hc := b.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: b.timeout}
	}

	token, err := requestToken(ctx, hc, b.tokenURL, clientCredentialsForm(b.clientID, b.clientSecret))
	if err != nil {
		if b.logger != nil {
			b.logger.Printf("helloasso: token fetch failed: %v", err)
		}
		return nil, err
	}

	client := &Client{
		clientID:     b.clientID,
		clientSecret: b.clientSecret,
		tokenURL:     b.tokenURL,
		baseURL:      b.baseURL,
		hc:           hc,
		expiryLeeway: b.expiryLeeway,
		logger:       b.logger,
		token:        token,
	}

	if b.logger != nil {
		b.logger.Printf("helloasso: obtained access token (expires: %s)", token.Expiry.Format(time.RFC3339))
	}

	return client, nil
}
