// Package webhook delivers resources to the catalog ingestion webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kompox/tfcsync/domain/model"
)

const maxErrorBodyBytes = 512

// HTTPDoer is the subset of *http.Client used by Publisher.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Publisher POSTs one JSON payload per resource to a fixed endpoint.
type Publisher struct {
	URL    string
	Client HTTPDoer
}

// NewPublisher returns a Publisher for endpoint. An empty endpoint is accepted
// here and rejected on the first Publish call.
func NewPublisher(endpoint string, client HTTPDoer) *Publisher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Publisher{URL: endpoint, Client: client}
}

// Publish sends r and returns the JSON-decoded response body, or nil for an
// empty body. Without a configured endpoint it fails with model.ErrConfig
// before touching the network.
func (p *Publisher) Publish(ctx context.Context, r model.Resource) (any, error) {
	if strings.TrimSpace(p.URL) == "" {
		return nil, fmt.Errorf("%w: PORT_WEBHOOK_URL is not set", model.ErrConfig)
	}
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding resource %q: %w", r.Name(), err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid webhook URL: %v", model.ErrConfig, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", redact(p.URL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &model.HTTPError{
			Method:     http.MethodPost,
			URL:        redact(p.URL),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading webhook response: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decoding webhook response: %w", err)
	}
	return out, nil
}

// redact keeps webhook secrets carried in the path or query out of error messages.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Scheme + "://" + u.Host
}

// Ensure interface satisfaction.
var _ model.PublisherPort = (*Publisher)(nil)
