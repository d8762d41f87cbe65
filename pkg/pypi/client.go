package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://pypi.org"
	httpTimeout    = 10 * time.Second
)

// errNotFound marks a 404 from the registry. It is internal; call sites
// translate it into an *Error with a descriptive message.
var errNotFound = errors.New("resource not found")

// Client fetches package metadata from the PyPI registry for one user.
//
// A Client starts without a username ([New]) or with one ([NewForUser]).
// The username can be replaced at any time with [Client.SetUsername];
// [Client.UserPackages] and [Client.AllPackageDetails] require it to be set.
//
// The Client holds no state between calls beyond the username: no cached
// responses, no open connections. It performs blocking, sequential requests
// with a single attempt each — no retries, no backoff. Concurrent calls to
// SetUsername are not synchronized; callers that share a Client across
// goroutines must serialize access themselves.
type Client struct {
	http     *http.Client
	baseURL  string
	username string
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithBaseURL overrides the registry base URL (default https://pypi.org).
// Useful for mirrors and tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client. The default client
// uses a 10 second timeout and no other customization.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client with no username set. Fetching the user's packages
// requires a prior call to [Client.SetUsername]; [Client.PackageDetails]
// works immediately. No network access is performed.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: httpTimeout},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewForUser creates a Client for the given username. It fails with an
// [*Error] if username is empty. No network access is performed.
func NewForUser(username string, opts ...Option) (*Client, error) {
	c := New(opts...)
	if err := c.SetUsername(username); err != nil {
		return nil, err
	}
	return c, nil
}

// SetUsername sets or replaces the PyPI username. It fails with an [*Error]
// if username is empty; the previous value is kept in that case.
func (c *Client) SetUsername(username string) error {
	if username == "" {
		return newError("username must be provided")
	}
	c.username = username
	return nil
}

// Username returns the current username, or "" if none is set.
func (c *Client) Username() string {
	return c.username
}

// UserPackages fetches the list of packages published by the client's user.
//
// It performs exactly one GET of the user's profile page and parses every
// package snippet, in page order. A user with no packages yields an empty
// slice, not an error. It fails with an [*Error] if no username is set, if
// the request fails or returns a non-success status, or if the page cannot
// be parsed into the expected structure.
func (c *Client) UserPackages(ctx context.Context) ([]PackageSummary, error) {
	if c.username == "" {
		return nil, newError("username must be set before fetching packages")
	}

	profileURL := fmt.Sprintf("%s/user/%s/", c.baseURL, url.PathEscape(c.username))
	body, err := c.get(ctx, profileURL)
	if err != nil {
		return nil, wrapError(err, "error fetching user profile for %q", c.username)
	}
	defer body.Close()

	return parseProfile(body)
}

// PackageDetails fetches and flattens the metadata for one package.
//
// It performs exactly one GET of the package's JSON endpoint; the username
// is not consulted. It fails with an [*Error] if name is empty (before any
// network access), if the package does not exist, if the request fails, or
// if the response body is not valid JSON.
func (c *Client) PackageDetails(ctx context.Context, name string) (*PackageDetails, error) {
	if name == "" {
		return nil, newError("package name must be provided")
	}

	detailsURL := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, url.PathEscape(name))
	body, err := c.get(ctx, detailsURL)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, newError("package %q not found", name)
		}
		return nil, wrapError(err, "error fetching package details for %q", name)
	}
	defer body.Close()

	var data apiResponse
	if err := json.NewDecoder(body).Decode(&data); err != nil {
		return nil, wrapError(err, "error decoding JSON response for %q", name)
	}
	return newPackageDetails(&data), nil
}

// AllPackageDetails fetches details for every package the client's user has
// published.
//
// It lists the user's packages, then fetches each package's details one at a
// time, preserving the listing order. The operation is all-or-nothing: if
// any single fetch fails, it fails with an [*Error] naming the package and
// returns no partial result. A user with no packages yields an empty slice
// after the single listing request.
func (c *Client) AllPackageDetails(ctx context.Context) ([]*PackageDetails, error) {
	if c.username == "" {
		return nil, newError("username must be set before fetching package details")
	}

	summaries, err := c.UserPackages(ctx)
	if err != nil {
		return nil, wrapError(err, "failed to list packages for %q", c.username)
	}

	details := make([]*PackageDetails, 0, len(summaries))
	for _, summary := range summaries {
		d, err := c.PackageDetails(ctx, summary.Name)
		if err != nil {
			return nil, wrapError(err, "failed to get details for package %q", summary.Name)
		}
		details = append(details, d)
	}
	return details, nil
}

// get performs a single GET request and returns the response body on 200.
// 404 maps to errNotFound; any other non-success status or transport error
// is returned as-is for the caller to wrap.
func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, errNotFound
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
