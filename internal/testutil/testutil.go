package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoundTripFunc allows inlining http.RoundTripper implementations.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls the underlying function.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// JSONResponse builds an *http.Response with the given status and JSON body.
func JSONResponse(req *http.Request, statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

// tokenGrant is the success payload served by TokenEndpoint. It mirrors the
// body of the real oauth2/token endpoint.
type tokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenEndpoint simulates the HelloAsso oauth2/token endpoint in memory,
// including the quirk that a wrong client secret produces the very same
// error body as a wrong client identifier.
//
// It implements http.RoundTripper. Requests to TokenPath are treated as
// grant requests; every other path is answered 200 with a stub body and
// recorded in APIRequests, so one endpoint can back both the token client
// and the authenticated client under test.
type TokenEndpoint struct {
	tb testing.TB

	// Expected credentials. Grants presenting anything else are rejected.
	ClientID     string
	ClientSecret string

	// TokenPath is the URL path that serves grants. Default "/oauth2/token".
	TokenPath string

	// Lifetime is the expires_in granted with each token. Default 30 minutes.
	Lifetime time.Duration

	mu          sync.Mutex
	grants      []url.Values
	apiRequests []*http.Request
	live        map[string]bool // refresh tokens still accepted
	serial      int
	signingKey  []byte
}

// NewTokenEndpoint builds a fake token endpoint accepting the given
// credentials.
func NewTokenEndpoint(tb testing.TB, clientID, clientSecret string) *TokenEndpoint {
	tb.Helper()

	return &TokenEndpoint{
		tb:           tb,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenPath:    "/oauth2/token",
		Lifetime:     30 * time.Minute,
		live:         make(map[string]bool),
		signingKey:   []byte("testutil-signing-key"),
	}
}

// Client returns an http.Client that talks to the fake endpoint in memory.
func (e *TokenEndpoint) Client() *http.Client {
	return &http.Client{Transport: e}
}

// Grants returns the decoded form body of every grant request received, in
// order.
func (e *TokenEndpoint) Grants() []url.Values {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]url.Values(nil), e.grants...)
}

// APIRequests returns every non-grant request received, in order. Headers are
// preserved, so tests can assert on Authorization.
func (e *TokenEndpoint) APIRequests() []*http.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*http.Request(nil), e.apiRequests...)
}

// RevokeRefreshTokens invalidates every refresh token issued so far, so the
// next refresh grant fails like it would after a server-side revocation.
func (e *TokenEndpoint) RevokeRefreshTokens() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.live = make(map[string]bool)
}

// RoundTrip implements http.RoundTripper.
func (e *TokenEndpoint) RoundTrip(req *http.Request) (*http.Response, error) {
	// Honor cancellation the way a real network transport would.
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	if !strings.HasSuffix(req.URL.Path, e.TokenPath) {
		e.mu.Lock()
		e.apiRequests = append(e.apiRequests, req.Clone(req.Context()))
		e.mu.Unlock()
		return JSONResponse(req, http.StatusOK, `{"data":[]}`), nil
	}

	if req.Method != http.MethodPost {
		e.tb.Fatalf("token endpoint got method %s, want POST", req.Method)
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		e.tb.Fatalf("read grant body: %v", err)
	}
	form, err := url.ParseQuery(string(body))
	if err != nil {
		e.tb.Fatalf("parse grant body %q: %v", body, err)
	}

	e.mu.Lock()
	e.grants = append(e.grants, form)
	e.mu.Unlock()

	switch form.Get("grant_type") {
	case "client_credentials":
		if form.Get("client_id") != e.ClientID || form.Get("client_secret") != e.ClientSecret {
			// The live endpoint blames the client_id even when only the
			// secret is wrong; keep that shape.
			return e.unauthorized(req, form.Get("client_id")), nil
		}
		return e.grant(req), nil

	case "refresh_token":
		if form.Get("client_id") != e.ClientID {
			return e.unauthorized(req, form.Get("client_id")), nil
		}
		if !e.consumeRefreshToken(form.Get("refresh_token")) {
			return JSONResponse(req, http.StatusBadRequest,
				`{"error":"invalid_grant","error_description":"The refresh token is invalid."}`), nil
		}
		return e.grant(req), nil

	default:
		return JSONResponse(req, http.StatusBadRequest,
			`{"error":"unsupported_grant_type","error_description":"The grant type is not supported."}`), nil
	}
}

// consumeRefreshToken reports whether the token was live and retires it, the
// way the real endpoint rotates refresh tokens.
func (e *TokenEndpoint) consumeRefreshToken(token string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.live[token] {
		return false
	}
	delete(e.live, token)
	return true
}

// grant issues a fresh token pair.
func (e *TokenEndpoint) grant(req *http.Request) *http.Response {
	e.tb.Helper()

	e.mu.Lock()
	e.serial++
	refresh := fmt.Sprintf("refresh-token-%d", e.serial)
	e.live[refresh] = true
	e.mu.Unlock()

	payload, err := json.Marshal(tokenGrant{
		AccessToken:  e.mintAccessToken(),
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(e.Lifetime / time.Second),
	})
	if err != nil {
		e.tb.Fatalf("marshal grant payload: %v", err)
	}

	return JSONResponse(req, http.StatusOK, string(payload))
}

// unauthorized is the 400 body for rejected credentials.
func (e *TokenEndpoint) unauthorized(req *http.Request, clientID string) *http.Response {
	body := fmt.Sprintf(`{"error":"unauthorized_client","error_description":"Invalid client_id '%s'"}`, clientID)
	return JSONResponse(req, http.StatusBadRequest, body)
}

// mintAccessToken issues an HS256 JWT shaped like the platform's real access
// tokens, with jti, iss, aud, iat and exp claims.
func (e *TokenEndpoint) mintAccessToken() string {
	e.tb.Helper()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    "https://api.helloasso.com/oauth2",
		Audience:  jwt.ClaimStrings{e.ClientID},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(e.Lifetime)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.signingKey)
	if err != nil {
		e.tb.Fatalf("sign access token: %v", err)
	}

	return signed
}
