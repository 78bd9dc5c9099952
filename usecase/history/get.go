package history

import (
	"context"

	"github.com/kompox/tfcsync/domain/model"
)

// GetInput identifies the run to fetch.
type GetInput struct {
	// RunID is the identifier of the run.
	RunID string `json:"run_id"`
}

// GetOutput wraps the retrieved run and its deliveries.
type GetOutput struct {
	Run        *model.SyncRun    `json:"run"`
	Deliveries []*model.Delivery `json:"deliveries"`
}

// Get retrieves a run by ID together with its deliveries.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil || in.RunID == "" {
		return nil, model.ErrRunInvalid
	}
	run, err := u.Repos.Run.Get(ctx, in.RunID)
	if err != nil {
		return nil, err
	}
	ds, err := u.Repos.Run.ListDeliveries(ctx, in.RunID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Run: run, Deliveries: ds}, nil
}
