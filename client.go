package helloasso

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Logger is an interface for optional logging of token lifecycle events.
// Implementations can log fetches and refreshes if desired; the client id may
// appear in messages, the client secret never does.
type Logger interface {
	Printf(format string, args ...any)
}

// Client is an authenticated HelloAsso API client.
//
// A Client always starts out with a valid access token: it can only be
// obtained through Build, which performs the client-credentials grant before
// assembling it. The zero value is unusable and every operation on it fails
// with ErrNoAccessToken.
//
// Client is safe for concurrent use. Token state is replaced atomically: a
// failed refresh leaves the previous access token, refresh token and expiry
// untouched.
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string
	baseURL      string

	hc           *http.Client // client used for token endpoint round trips
	expiryLeeway time.Duration
	logger       Logger // optional logger

	mu    sync.RWMutex
	token oauth2.Token
}

// ClientID returns the client identifier the client authenticates with.
func (c *Client) ClientID() string { return c.clientID }

// BaseURL returns the API root that authenticated requests target.
func (c *Client) BaseURL() string { return c.baseURL }

// AccessToken returns the current access token, or the empty string on a
// zero-value Client. It does not refresh; use Token for a guaranteed-valid
// value.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token.AccessToken
}

// RefreshToken returns the current refresh token.
func (c *Client) RefreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token.RefreshToken
}

// TokenType returns the type of the current access token, normally "bearer".
func (c *Client) TokenType() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token.TokenType
}

// ExpiresAt returns the instant the current access token expires.
func (c *Client) ExpiresAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token.Expiry
}

// Valid reports whether the current access token exists and is not within the
// expiry leeway. A false result means the next Token call will refresh.
func (c *Client) Valid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokenValid()
}

// tokenValid reports whether the stored token is still usable with the
// configured safety window. Callers must hold mu.
func (c *Client) tokenValid() bool {
	if c.token.AccessToken == "" {
		return false
	}
	// Expiry is always known for HelloAsso tokens; treat an unknown one as stale.
	if c.token.Expiry.IsZero() {
		return false
	}
	return time.Until(c.token.Expiry) > c.expiryLeeway
}

// Token returns a valid access token for the Authorization header, refreshing
// it first when the stored one is missing or inside the expiry leeway.
// It is thread-safe and uses double-checked locking so that concurrent
// callers trigger at most one refresh round trip.
//
// Parameters:
//   - ctx: Context for the refresh request (used for cancellation and deadlines)
//
// Returns:
//   - string: Valid access token
//   - error: Classified error if the refresh round trip fails
func (c *Client) Token(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Fast path: check for a valid token without the write lock.
	c.mu.RLock()
	if c.tokenValid() {
		token := c.token.AccessToken
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	// Token is stale or missing, refresh it.
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock (another goroutine might
	// have refreshed).
	if c.tokenValid() {
		return c.token.AccessToken, nil
	}

	if err := c.refreshLocked(ctx); err != nil {
		return "", err
	}
	return c.token.AccessToken, nil
}

// Refresh exchanges the stored refresh token for a new access token,
// regardless of how much lifetime the current one has left. Access tokens are
// only valid for about thirty minutes; Refresh resets that window without
// repeating the client-credentials grant.
//
// On success the access token, refresh token and expiry are replaced
// together. On failure they are left exactly as they were and the classified
// error is returned; no retry and no credentials fallback is attempted.
func (c *Client) Refresh(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

// refreshLocked performs the refresh-token grant and swaps in the resulting
// token state. Callers must hold mu.
func (c *Client) refreshLocked(ctx context.Context) error {
	if c.token.RefreshToken == "" {
		if c.token.AccessToken == "" {
			return ErrNoAccessToken
		}
		return ErrNoRefreshToken
	}

	token, err := requestToken(ctx, c.hc, c.tokenURL, refreshForm(c.clientID, c.token.RefreshToken))
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("helloasso: token refresh failed: %v", err)
		}
		return err
	}

	c.token = token

	if c.logger != nil {
		c.logger.Printf("helloasso: refreshed access token (expires: %s)", token.Expiry.Format(time.RFC3339))
	}

	return nil
}

// HTTPClient returns an http.Client whose transport injects the bearer
// header on every request from the client's current token state. A refresh is
// picked up by the very next request; the returned client never needs to be
// rebuilt.
//
// The returned client reuses the timeout and the base transport of the client
// configured for token round trips. On a zero-value Client it still returns a
// usable value whose requests all fail with ErrNoAccessToken.
func (c *Client) HTTPClient() *http.Client {
	if c.hc == nil {
		// Zero-value Client; the transport rejects every request with
		// ErrNoAccessToken.
		return &http.Client{Transport: NewTransport(c, nil)}
	}
	return &http.Client{
		Transport: NewTransport(c, c.hc.Transport),
		Timeout:   c.hc.Timeout,
	}
}

// TokenSource exposes the client as an oauth2.TokenSource so it plugs into
// libraries built on golang.org/x/oauth2, e.g. oauth2.NewClient.
//
// The source refreshes through the client, so all consumers share one token
// state and one refresh at a time.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	if ctx == nil {
		ctx = context.Background()
	}
	return &tokenSource{ctx: ctx, client: c}
}

// tokenSource adapts Client to the oauth2.TokenSource interface.
type tokenSource struct {
	ctx    context.Context
	client *Client
}

// Token implements oauth2.TokenSource.
func (ts *tokenSource) Token() (*oauth2.Token, error) {
	if _, err := ts.client.Token(ts.ctx); err != nil {
		return nil, err
	}

	ts.client.mu.RLock()
	defer ts.client.mu.RUnlock()
	token := ts.client.token
	return &token, nil
}
