package domain

import (
	"context"

	"github.com/kompox/tfcsync/domain/model"
)

// RunRepository stores and retrieves sync run audit records.
type RunRepository interface {
	Create(ctx context.Context, r *model.SyncRun) error
	Get(ctx context.Context, id string) (*model.SyncRun, error)
	// List returns runs newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*model.SyncRun, error)
	Update(ctx context.Context, r *model.SyncRun) error
	AddDelivery(ctx context.Context, d *model.Delivery) error
	// ListDeliveries returns the deliveries of a run in insertion order.
	ListDeliveries(ctx context.Context, runID string) ([]*model.Delivery, error)
}
