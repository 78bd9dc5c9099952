package model

import (
	"context"
	"iter"
)

// StatePort is the domain port to the state-management API.
type StatePort interface {
	// WorkspacePages yields the organization's workspaces one page at a time.
	WorkspacePages(ctx context.Context, org string) iter.Seq2[[]Workspace, error]
	// ListWorkspaces returns every workspace of the organization in page order.
	ListWorkspaces(ctx context.Context, org string) ([]Workspace, error)
	// CurrentStateVersion returns nil, nil when the workspace has no state.
	CurrentStateVersion(ctx context.Context, workspaceID string) (*StateVersionInfo, error)
	// DownloadState retrieves the raw state document.
	DownloadState(ctx context.Context, downloadURL string) ([]byte, error)
}

// PublisherPort delivers one resource to the catalog ingestion endpoint.
// The returned value is the decoded response body, or nil when the body was empty.
type PublisherPort interface {
	Publish(ctx context.Context, r Resource) (any, error)
}
