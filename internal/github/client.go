// Package github provides the authenticated GitHub API client for appcommit.
// This file implements the transport layer shared by the REST and GraphQL
// calls: fixed headers, one declared success status per call, and errors
// that always carry the raw response body for diagnosis.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
)

const (
	// DefaultBaseURL is the production REST API root.
	DefaultBaseURL = "https://api.github.com"

	// DefaultGraphQLURL is the production GraphQL endpoint.
	DefaultGraphQLURL = "https://api.github.com/graphql"

	// acceptHeader is the media type GitHub's REST API documents.
	acceptHeader = "application/vnd.github+json"

	// apiVersion pins the REST API version on every call.
	apiVersion = "2022-11-28"

	// userAgent identifies this tool. GitHub rejects requests without a
	// User-Agent header.
	// https://docs.github.com/en/rest/overview/resources-in-the-rest-api#user-agent-required
	userAgent = "appcommit"

	// defaultRequestTimeout bounds content and mutation calls, which may
	// carry whole file payloads.
	defaultRequestTimeout = 60 * time.Second
)

// Client issues authenticated calls against the GitHub API for a single
// repository. All calls block until a response arrives or the request
// timeout fires; nothing is retried.
type Client struct {
	owner      string
	name       string
	baseURL    string
	graphqlURL string
	httpClient *http.Client
	tokens     TokenSource
	logger     zerolog.Logger
}

// ClientOptions overrides optional Client dependencies.
// The zero value selects production defaults.
type ClientOptions struct {
	// BaseURL overrides the REST API root. Used by tests.
	BaseURL string
	// GraphQLURL overrides the GraphQL endpoint. Used by tests.
	GraphQLURL string
	// HTTPClient overrides the HTTP client.
	HTTPClient *http.Client
	// Logger receives debug-level request logging.
	Logger *zerolog.Logger
}

// NewClient creates a Client for the given repository, authenticating every
// call through the provided token source.
func NewClient(tokens TokenSource, owner, name string, opts *ClientOptions) *Client {
	c := &Client{
		owner:      owner,
		name:       name,
		baseURL:    DefaultBaseURL,
		graphqlURL: DefaultGraphQLURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		tokens:     tokens,
		logger:     zerolog.Nop(),
	}

	if opts != nil {
		if opts.BaseURL != "" {
			c.baseURL = opts.BaseURL
		}
		if opts.GraphQLURL != "" {
			c.graphqlURL = opts.GraphQLURL
		}
		if opts.HTTPClient != nil {
			c.httpClient = opts.HTTPClient
		}
		if opts.Logger != nil {
			c.logger = *opts.Logger
		}
	}

	return c
}

// repoURL builds a repository-scoped REST URL from a path fragment.
func (c *Client) repoURL(format string, args ...any) string {
	return c.baseURL + fmt.Sprintf("/repos/%s/%s", c.owner, c.name) + fmt.Sprintf(format, args...)
}

// send issues one authenticated request and returns the status code and the
// response body read in full as text. A transport-level failure (including
// timeout) is the only error case; status handling belongs to the caller.
func (c *Client) send(ctx context.Context, method, url string, rest bool, reqBody any) (int, []byte, error) {
	var payload io.Reader = http.NoBody
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return 0, nil, apperrors.Wrap(err, "encoding request body")
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return 0, nil, apperrors.Wrap(err, "building request")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rest {
		req.Header.Set("Accept", acceptHeader)
		req.Header.Set("X-GitHub-Api-Version", apiVersion)
	}

	c.logger.Debug().Str("method", method).Str("url", url).Msg("github api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, apperrors.Wrapf(err, "%s %s failed", method, url)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// Keep the status; the caller's error message notes the missing body.
		return resp.StatusCode, nil, nil
	}

	return resp.StatusCode, body, nil
}

// doJSON issues a REST call, requires the declared success status, and
// unmarshals the response body into out when out is non-nil. Any other
// status is a hard failure carrying the status and the raw body text, and a
// parse failure also carries the raw body.
func (c *Client) doJSON(ctx context.Context, method, url string, expectStatus int, reqBody, out any) error {
	status, body, err := c.send(ctx, method, url, true, reqBody)
	if err != nil {
		return err
	}

	if status != expectStatus {
		return statusError(method, url, status, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s %s returned %d with body: %s",
			apperrors.ErrResponseDecode, method, url, status, string(body))
	}
	return nil
}

// statusError builds the hard failure for an undeclared status code,
// preserving the raw body text so hosting-side failures stay diagnosable.
func statusError(method, url string, status int, body []byte) error {
	if body == nil {
		return fmt.Errorf("%w: %s %s returned %d; body could not be decoded as text",
			apperrors.ErrUnexpectedStatus, method, url, status)
	}
	return fmt.Errorf("%w: %s %s returned %d: %s",
		apperrors.ErrUnexpectedStatus, method, url, status, string(body))
}
