package helloasso

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is the registered-claims view of a HelloAsso access token.
//
// HelloAsso issues access tokens as JWTs. The claims are read without
// signature verification, since only the platform holds the signing key, so
// they are suited for inspection and expiry cross-checks, never for
// authorization decisions.
type TokenInfo struct {
	// ID is the token identifier (jti claim).
	ID string

	// Issuer is the issuing authority (iss claim).
	Issuer string

	// Audience lists the intended recipients (aud claim).
	Audience []string

	// IssuedAt is when the token was minted (iat claim), zero if absent.
	IssuedAt time.Time

	// ExpiresAt is when the token stops being accepted (exp claim), zero if
	// absent. It mirrors the expires_in value of the grant response.
	ExpiresAt time.Time
}

// ParseTokenInfo decodes the registered claims of a raw access token without
// verifying its signature.
func ParseTokenInfo(raw string) (*TokenInfo, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("helloasso: parse access token: %w", err)
	}

	info := &TokenInfo{
		ID:       claims.ID,
		Issuer:   claims.Issuer,
		Audience: claims.Audience,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}

	return info, nil
}

// TokenInfo decodes the registered claims of the client's current access
// token. It does not refresh; an expired token still decodes.
func (c *Client) TokenInfo() (*TokenInfo, error) {
	c.mu.RLock()
	raw := c.token.AccessToken
	c.mu.RUnlock()

	if raw == "" {
		return nil, ErrNoAccessToken
	}

	return ParseTokenInfo(raw)
}
