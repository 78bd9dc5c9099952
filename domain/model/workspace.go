package model

// Workspace is a workspace of the state-management API.
// It is read-only: everything is sourced from the remote listing.
type Workspace struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes,omitempty"` // Raw attributes as returned by the API
}

// StateVersionInfo references the current state snapshot of a workspace.
// A nil *StateVersionInfo means the workspace has no recorded state.
type StateVersionInfo struct {
	ID          string `json:"id"`
	DownloadURL string `json:"downloadUrl,omitempty"` // hosted-state-download-url; empty when not offered
}
