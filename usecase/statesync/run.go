package statesync

import (
	"context"
	"fmt"

	"github.com/kompox/tfcsync/domain/model"
	"github.com/kompox/tfcsync/internal/logging"
	"github.com/kompox/tfcsync/internal/metrics"
	"github.com/kompox/tfcsync/internal/tfstate"
)

// RunInput selects what to sync.
type RunInput struct {
	// Organization whose workspaces are synced.
	Organization string `json:"organization"`
	// DryRun extracts and logs resources without delivering them.
	DryRun bool `json:"dryRun"`
}

// RunOutput wraps the audit record of the run.
type RunOutput struct {
	Run *model.SyncRun `json:"run"`
}

// Run syncs every workspace of the organization in order.
//
// Failing to list workspaces or to read a workspace's current state version
// aborts the run. Download, decode and per-resource delivery failures are
// logged and counted, and the run carries on. The returned output is non-nil
// whenever the run was started, including when an error is returned.
func (u *UseCase) Run(ctx context.Context, in *RunInput) (out *RunOutput, err error) {
	if in == nil || in.Organization == "" {
		return nil, fmt.Errorf("%w: organization is required", model.ErrConfig)
	}
	if u.Publisher == nil && !in.DryRun {
		return nil, fmt.Errorf("%w: no publisher configured", model.ErrConfig)
	}
	logger := logging.FromContext(ctx)

	run := &model.SyncRun{
		Organization: in.Organization,
		DryRun:       in.DryRun,
		Status:       model.RunStatusRunning,
		StartedAt:    u.now(),
	}
	if err := u.Repos.Run.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}
	out = &RunOutput{Run: run}

	defer func() {
		run.FinishedAt = u.now()
		run.Status = model.RunStatusSucceeded
		if err != nil {
			run.Status = model.RunStatusFailed
			run.Error = err.Error()
		}
		if uerr := u.Repos.Run.Update(ctx, run); uerr != nil {
			logger.Warn(ctx, "recording run result failed", "runId", run.ID, "err", uerr)
		}
		u.Metrics.RunFinished(run.FinishedAt.Sub(run.StartedAt), err == nil, run.FinishedAt)
	}()

	workspaces, err := u.StatePort.ListWorkspaces(ctx, in.Organization)
	if err != nil {
		return out, fmt.Errorf("listing workspaces of %s: %w", in.Organization, err)
	}
	for _, ws := range workspaces {
		if err := u.syncWorkspace(ctx, run, ws); err != nil {
			return out, err
		}
	}
	logger.Infof(ctx, "Sync finished: %d workspaces, %d skipped, %d resources, %d delivered, %d failed",
		run.Workspaces, run.SkippedWorkspaces, run.Resources, run.Delivered, run.Failed)
	return out, nil
}

// syncWorkspace returns only errors that must abort the run.
func (u *UseCase) syncWorkspace(ctx context.Context, run *model.SyncRun, ws model.Workspace) error {
	logger := logging.FromContext(ctx)
	logger.Infof(ctx, "Processing workspace: %s (%s)", ws.Name, ws.ID)
	run.Workspaces++

	info, err := u.StatePort.CurrentStateVersion(ctx, ws.ID)
	if err != nil {
		u.Metrics.Workspace(metrics.WorkspaceFailed)
		return fmt.Errorf("reading current state version of workspace %s: %w", ws.ID, err)
	}
	if info == nil {
		logger.Infof(ctx, "No state version found for workspace: %s", ws.Name)
		u.skip(run)
		return nil
	}
	if info.DownloadURL == "" {
		logger.Infof(ctx, "No state file found for workspace: %s", ws.Name)
		u.skip(run)
		return nil
	}

	raw, err := u.StatePort.DownloadState(ctx, info.DownloadURL)
	if err != nil {
		logger.Errorf(ctx, "Failed to download state file for workspace: %s. Error: %v", ws.Name, err)
		run.SkippedWorkspaces++
		u.Metrics.Workspace(metrics.WorkspaceFailed)
		return nil
	}

	records, err := tfstate.Decode(raw)
	if err != nil {
		logger.Warnf(ctx, "Failed to parse state file for workspace: %s. Error: %v", ws.Name, err)
		run.DecodeFailures++
		u.Metrics.DecodeFailure()
	}
	for res := range tfstate.Resources(records, ws.ID) {
		run.Resources++
		u.deliver(ctx, run, res)
	}
	u.Metrics.Workspace(metrics.WorkspaceProcessed)
	return nil
}

func (u *UseCase) skip(run *model.SyncRun) {
	run.SkippedWorkspaces++
	u.Metrics.Workspace(metrics.WorkspaceSkipped)
}

// deliver publishes one resource. Failures, including an unset webhook URL,
// are logged and recorded against the resource only.
func (u *UseCase) deliver(ctx context.Context, run *model.SyncRun, res model.Resource) {
	logger := logging.FromContext(ctx)
	name := res.Name()
	d := &model.Delivery{
		RunID:        run.ID,
		WorkspaceID:  res.WorkspaceID(),
		ResourceName: name,
	}

	if run.DryRun {
		logger.Infof(ctx, "Dry run: would send resource %s of workspace %s", name, d.WorkspaceID)
		d.Status = model.DeliveryStatusDryRun
		u.Metrics.Resource(metrics.ResourceDryRun)
		u.record(ctx, d)
		return
	}

	logger.Infof(ctx, "Sending resource %s to Port via webhook", name)
	resp, err := u.Publisher.Publish(ctx, res)
	if err != nil {
		logger.Errorf(ctx, "Failed to send resource %s to Port. Error: %v", name, err)
		run.Failed++
		d.Status = model.DeliveryStatusFailed
		d.Error = err.Error()
		u.Metrics.Resource(metrics.ResourceFailed)
	} else {
		logger.Infof(ctx, "Successfully sent resource %s to Port. Response: %v", name, resp)
		run.Delivered++
		d.Status = model.DeliveryStatusDelivered
		u.Metrics.Resource(metrics.ResourceDelivered)
	}
	u.record(ctx, d)
}

func (u *UseCase) record(ctx context.Context, d *model.Delivery) {
	d.CreatedAt = u.now()
	if err := u.Repos.Run.AddDelivery(ctx, d); err != nil {
		logging.FromContext(ctx).Warn(ctx, "recording delivery failed", "resource", d.ResourceName, "err", err)
	}
}
