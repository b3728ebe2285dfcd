// Package github provides the authenticated GitHub API client for appcommit.
// This file manages the installation access token lifecycle: a short-lived
// signed app assertion is exchanged for a bearer token, which is cached and
// renewed ahead of expiry.
package github

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mrz1836/appcommit/internal/clock"
	apperrors "github.com/mrz1836/appcommit/internal/errors"
)

const (
	// assertionTTL is the lifetime of the signed app assertion (JWT).
	assertionTTL = 10 * time.Minute

	// renewalMargin is the safety margin before token expiry. A cached
	// token expiring within this window is renewed rather than reused, so
	// a request never goes out with a token about to lapse mid-flight.
	renewalMargin = 2 * time.Minute

	// tokenExchangeTimeout bounds the token-issuance HTTP call. It is
	// deliberately shorter than the default request timeout since the
	// exchange carries no payload to speak of.
	tokenExchangeTimeout = 10 * time.Second
)

// AccessToken is an installation access token together with its expiry.
// Instances are immutable: renewal replaces the whole snapshot, so a reader
// holding an old pointer keeps seeing a coherent (if stale) value.
type AccessToken struct {
	// Value is the bearer token.
	Value string
	// ExpiresAt is the server-reported expiry timestamp.
	ExpiresAt time.Time
}

// accessTokenResponse is the token-issuance response body.
// https://docs.github.com/en/rest/apps/apps#create-an-installation-access-token-for-an-app
type accessTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenSource yields a bearer token for authenticating API calls.
type TokenSource interface {
	// Token returns a valid bearer token, renewing the cached one if needed.
	Token(ctx context.Context) (string, error)
}

// TokenProvider exchanges a signed GitHub App assertion for installation
// access tokens and caches the result. Safe for concurrent use: the
// check-and-possibly-renew step runs under a mutex, so concurrent callers
// never observe a half-updated token and never race two renewals.
type TokenProvider struct {
	appID          int64
	installationID int64
	privateKey     *rsa.PrivateKey
	baseURL        string
	httpClient     *http.Client
	clk            clock.Clock

	mu      sync.Mutex
	current *AccessToken
}

// TokenProviderOptions overrides optional TokenProvider dependencies.
// The zero value selects production defaults.
type TokenProviderOptions struct {
	// BaseURL overrides the API base URL. Used by tests.
	BaseURL string
	// HTTPClient overrides the HTTP client used for the exchange.
	HTTPClient *http.Client
	// Clock overrides the time source. Used by tests.
	Clock clock.Clock
}

// NewTokenProvider creates a TokenProvider for the given app installation.
func NewTokenProvider(appID, installationID int64, privateKey *rsa.PrivateKey, opts *TokenProviderOptions) *TokenProvider {
	p := &TokenProvider{
		appID:          appID,
		installationID: installationID,
		privateKey:     privateKey,
		baseURL:        DefaultBaseURL,
		httpClient:     &http.Client{Timeout: tokenExchangeTimeout},
		clk:            clock.RealClock{},
	}

	if opts != nil {
		if opts.BaseURL != "" {
			p.baseURL = opts.BaseURL
		}
		if opts.HTTPClient != nil {
			p.httpClient = opts.HTTPClient
		}
		if opts.Clock != nil {
			p.clk = opts.Clock
		}
	}

	return p
}

// Token returns the cached token, renewing it first when it is unset or
// within the renewal margin of its expiry.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && p.clk.Now().Add(renewalMargin).Before(p.current.ExpiresAt) {
		return p.current.Value, nil
	}

	return p.renewLocked(ctx)
}

// Refresh discards the cached token and performs a renewal unconditionally.
// The returned token is always freshly issued, never the prior cached value.
func (p *TokenProvider) Refresh(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = nil
	return p.renewLocked(ctx)
}

// renewLocked exchanges a fresh assertion for a token and replaces the
// cached snapshot. Callers must hold p.mu.
func (p *TokenProvider) renewLocked(ctx context.Context) (string, error) {
	token, err := p.exchange(ctx)
	if err != nil {
		return "", err
	}

	p.current = token
	return token.Value, nil
}

// signAssertion builds the short-lived RS256-signed JWT identifying the app:
// issuer is the app id, issued-at is now, expiry is ten minutes out.
func (p *TokenProvider) signAssertion() (string, error) {
	now := p.clk.Now()

	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(p.appID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(assertionTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.privateKey)
	if err != nil {
		return "", apperrors.Wrap(err, "signing app assertion")
	}
	return signed, nil
}

// exchange trades a signed assertion for an installation access token.
// https://docs.github.com/en/rest/apps/apps#create-an-installation-access-token-for-an-app
func (p *TokenProvider) exchange(ctx context.Context) (*AccessToken, error) {
	assertion, err := p.signAssertion()
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", p.baseURL, p.installationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return nil, apperrors.Wrap(err, "building token exchange request")
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Authorization", "Bearer "+assertion)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTokenExchange, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		if readErr != nil {
			return nil, fmt.Errorf("%w: %w: status %d; body could not be decoded as text",
				apperrors.ErrTokenExchange, apperrors.ErrUnexpectedStatus, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %w: status %d: %s",
			apperrors.ErrTokenExchange, apperrors.ErrUnexpectedStatus, resp.StatusCode, string(body))
	}
	if readErr != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", apperrors.ErrTokenExchange, readErr)
	}

	var parsed accessTokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w: %s", apperrors.ErrTokenExchange, apperrors.ErrResponseDecode, string(body))
	}

	return &AccessToken{Value: parsed.Token, ExpiresAt: parsed.ExpiresAt}, nil
}
