package model

import "time"

// SyncRun statuses.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// Delivery statuses.
const (
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusFailed    = "failed"
	DeliveryStatusDryRun    = "dry-run"
)

// SyncRun is the audit record of one sync invocation.
type SyncRun struct {
	ID                string    `json:"id"`
	Organization      string    `json:"organization"`
	DryRun            bool      `json:"dryRun"`
	Status            string    `json:"status"`
	Workspaces        int       `json:"workspaces"`
	SkippedWorkspaces int       `json:"skippedWorkspaces"`
	DecodeFailures    int       `json:"decodeFailures"`
	Resources         int       `json:"resources"`
	Delivered         int       `json:"delivered"`
	Failed            int       `json:"failed"`
	Error             string    `json:"error,omitempty"`
	StartedAt         time.Time `json:"startedAt"`
	FinishedAt        time.Time `json:"finishedAt"`
}

// Delivery is the outcome of forwarding one resource.
type Delivery struct {
	ID           string    `json:"id"`
	RunID        string    `json:"runId"`
	WorkspaceID  string    `json:"workspaceId"`
	ResourceName string    `json:"resourceName"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
