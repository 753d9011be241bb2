package helloasso

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

const (
	// DefaultTokenURL is the production OAuth2 token endpoint. Both the
	// initial client-credentials grant and the refresh grant post here.
	DefaultTokenURL = "https://api.helloasso.com/oauth2/token"

	// DefaultBaseURL is the production v5 API root that authenticated
	// requests target.
	DefaultBaseURL = "https://api.helloasso.com/v5"
)

// tokenResponse is the success payload of the token endpoint.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// clientCredentialsForm builds the form body of the initial grant.
func clientCredentialsForm(clientID, clientSecret string) url.Values {
	return url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"grant_type":    {"client_credentials"},
	}
}

// refreshForm builds the form body of the refresh grant. The endpoint wants
// the client identifier and the refresh token only; the client secret is not
// sent again.
func refreshForm(clientID, refreshToken string) url.Values {
	return url.Values{
		"client_id":     {clientID},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}
}

// requestToken performs one form-encoded POST against the token endpoint and
// classifies the outcome. It performs exactly one round trip: no retries, no
// fallback grant.
//
// Classification:
//   - transport failure -> *RequestError
//   - 200 with the documented payload -> token
//   - 400 with the documented payload -> *AuthenticationError
//   - 200 or 400 with an unreadable or incomplete payload -> *DecodeError
//   - any other status -> *StatusError
func requestToken(ctx context.Context, hc *http.Client, tokenURL string, form url.Values) (oauth2.Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return oauth2.Token{}, fmt.Errorf("helloasso: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := hc.Do(req)
	if err != nil {
		return oauth2.Token{}, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// The status line arrived but the body did not; still a transport failure.
		return oauth2.Token{}, &RequestError{Err: err}
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var tr tokenResponse
		if err := json.Unmarshal(body, &tr); err != nil {
			return oauth2.Token{}, &DecodeError{Err: err}
		}
		// The documented success payload carries all four fields; a partial
		// body is a decode failure, not a usable token.
		if tr.AccessToken == "" {
			return oauth2.Token{}, &DecodeError{Err: errors.New("access_token missing from response")}
		}
		if tr.RefreshToken == "" {
			return oauth2.Token{}, &DecodeError{Err: errors.New("refresh_token missing from response")}
		}
		if tr.TokenType == "" {
			return oauth2.Token{}, &DecodeError{Err: errors.New("token_type missing from response")}
		}
		if tr.ExpiresIn <= 0 {
			return oauth2.Token{}, &DecodeError{Err: errors.New("expires_in missing from response")}
		}
		return oauth2.Token{
			AccessToken:  tr.AccessToken,
			RefreshToken: tr.RefreshToken,
			TokenType:    tr.TokenType,
			Expiry:       time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
		}, nil

	case http.StatusBadRequest:
		var authErr AuthenticationError
		if err := json.Unmarshal(body, &authErr); err != nil {
			return oauth2.Token{}, &DecodeError{Err: err}
		}
		if authErr.Code == "" {
			return oauth2.Token{}, &DecodeError{Err: errors.New("error code missing from response")}
		}
		return oauth2.Token{}, &authErr

	default:
		return oauth2.Token{}, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
}
