package rdb

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kompox/tfcsync/domain"
	"github.com/kompox/tfcsync/domain/model"
	"gorm.io/gorm"
)

// RunRepository is a GORM-backed implementation of domain.RunRepository.
type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

func toRunRecord(r *model.SyncRun) *RunRecord {
	return &RunRecord{
		ID:                r.ID,
		Organization:      r.Organization,
		DryRun:            r.DryRun,
		Status:            r.Status,
		Workspaces:        r.Workspaces,
		SkippedWorkspaces: r.SkippedWorkspaces,
		DecodeFailures:    r.DecodeFailures,
		Resources:         r.Resources,
		Delivered:         r.Delivered,
		Failed:            r.Failed,
		Error:             r.Error,
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
	}
}

func toRunModel(r *RunRecord) *model.SyncRun {
	return &model.SyncRun{
		ID:                r.ID,
		Organization:      r.Organization,
		DryRun:            r.DryRun,
		Status:            r.Status,
		Workspaces:        r.Workspaces,
		SkippedWorkspaces: r.SkippedWorkspaces,
		DecodeFailures:    r.DecodeFailures,
		Resources:         r.Resources,
		Delivered:         r.Delivered,
		Failed:            r.Failed,
		Error:             r.Error,
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
	}
}

func (r *RunRepository) Create(ctx context.Context, run *model.SyncRun) error {
	rec := toRunRecord(run)
	if rec.ID == "" {
		rec.ID = "run-" + uuid.NewString()
		run.ID = rec.ID
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *RunRepository) Get(ctx context.Context, id string) (*model.SyncRun, error) {
	var rec RunRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrRunNotFound
		}
		return nil, err
	}
	return toRunModel(&rec), nil
}

func (r *RunRepository) List(ctx context.Context, limit int) ([]*model.SyncRun, error) {
	var recs []RunRecord
	q := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.SyncRun, 0, len(recs))
	for i := range recs {
		out = append(out, toRunModel(&recs[i]))
	}
	return out, nil
}

func (r *RunRepository) Update(ctx context.Context, run *model.SyncRun) error {
	rec := toRunRecord(run)
	// Select("*") writes zero values too (a cleared Error, a zero counter).
	res := r.db.WithContext(ctx).Model(&RunRecord{}).Where("id = ?", rec.ID).
		Select("*").Omit("id", "started_at").Updates(rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrRunNotFound
	}
	return nil
}

func (r *RunRepository) AddDelivery(ctx context.Context, d *model.Delivery) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&RunRecord{}).Where("id = ?", d.RunID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return model.ErrRunNotFound
	}
	if d.ID == "" {
		d.ID = "dlv-" + uuid.NewString()
	}
	rec := &DeliveryRecord{
		ID:           d.ID,
		RunID:        d.RunID,
		WorkspaceID:  d.WorkspaceID,
		ResourceName: d.ResourceName,
		Status:       d.Status,
		Error:        d.Error,
		CreatedAt:    d.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *RunRepository) ListDeliveries(ctx context.Context, runID string) ([]*model.Delivery, error) {
	if _, err := r.Get(ctx, runID); err != nil {
		return nil, err
	}
	var recs []DeliveryRecord
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("created_at ASC").Order("rowid ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Delivery, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		out = append(out, &model.Delivery{
			ID:           rec.ID,
			RunID:        rec.RunID,
			WorkspaceID:  rec.WorkspaceID,
			ResourceName: rec.ResourceName,
			Status:       rec.Status,
			Error:        rec.Error,
			CreatedAt:    rec.CreatedAt,
		})
	}
	return out, nil
}

// Ensure interface satisfaction.
var _ domain.RunRepository = (*RunRepository)(nil)
