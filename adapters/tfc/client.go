// Package tfc is the client for the Terraform Cloud/Enterprise API v2 used by the sync.
// Only the endpoints the sync needs are implemented.
package tfc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kompox/tfcsync/domain/model"
)

// DefaultAddress is the API base URL of the hosted service.
const DefaultAddress = "https://app.terraform.io/api/v2"

const (
	contentTypeJSONAPI = "application/vnd.api+json"
	maxErrorBodyBytes  = 512
)

// HTTPDoer is the subset of *http.Client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the state-management API with a bearer token.
type Client struct {
	http    HTTPDoer
	address *url.URL
	token   string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(d HTTPDoer) Option {
	return func(c *Client) { c.http = d }
}

// NewClient returns a client for the API rooted at address (DefaultAddress when empty).
func NewClient(address, token string, opts ...Option) (*Client, error) {
	if address == "" {
		address = DefaultAddress
	}
	u, err := url.Parse(strings.TrimRight(address, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing API address %q: %w", address, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API address %q must be an absolute URL", address)
	}
	c := &Client{http: http.DefaultClient, address: u, token: token}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// endpoint joins escaped path segments onto the API address.
func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.address.JoinPath(escaped...).String()
}

// resolve turns a server-supplied link into an absolute URL. Path-relative
// links are taken relative to the API address, not its parent.
func (c *Client) resolve(link string) (string, error) {
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parsing link %q: %w", link, err)
	}
	return c.address.JoinPath("/").ResolveReference(ref).String(), nil
}

// get issues an authenticated GET and returns the response for 2xx and 404 statuses.
// Any other status is returned as *model.HTTPError.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", contentTypeJSONAPI)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	if resp.StatusCode/100 == 2 || resp.StatusCode == http.StatusNotFound {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, newHTTPError(resp)
}

// getJSON decodes a 2xx JSON response into v. 404 is reported as *model.HTTPError.
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return newHTTPError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response of GET %s: %w", rawURL, err)
	}
	return nil
}

func newHTTPError(resp *http.Response) *model.HTTPError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	he := &model.HTTPError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
	if resp.Request != nil {
		he.Method = resp.Request.Method
		if resp.Request.URL != nil {
			he.URL = redactURL(resp.Request.URL)
		}
	}
	return he
}

// redactURL drops the query so signed download URLs do not end up in logs.
func redactURL(u *url.URL) string {
	cp := *u
	cp.RawQuery = ""
	cp.User = nil
	return cp.String()
}
