package tfc

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/kompox/tfcsync/domain/model"
)

type stateVersionDocument struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			HostedStateDownloadURL string `json:"hosted-state-download-url"`
		} `json:"attributes"`
	} `json:"data"`
}

// CurrentStateVersion returns the workspace's current state version.
// A 404 means the workspace has no state yet and is reported as nil, nil.
func (c *Client) CurrentStateVersion(ctx context.Context, workspaceID string) (*model.StateVersionInfo, error) {
	var doc stateVersionDocument
	err := c.getJSON(ctx, c.endpoint("workspaces", workspaceID, "current-state-version"), &doc)
	if model.IsHTTPStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.StateVersionInfo{
		ID:          doc.Data.ID,
		DownloadURL: doc.Data.Attributes.HostedStateDownloadURL,
	}, nil
}

// DownloadState fetches the raw state document behind a hosted download URL.
func (c *Client) DownloadState(ctx context.Context, downloadURL string) ([]byte, error) {
	u, err := c.resolve(downloadURL)
	if err != nil {
		return nil, err
	}
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, newHTTPError(resp)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading state document: %w", err)
	}
	return b, nil
}

// Ensure interface satisfaction.
var _ model.StatePort = (*Client)(nil)
