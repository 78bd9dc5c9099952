package history

import (
	"context"

	"github.com/kompox/tfcsync/domain/model"
)

// ListInput defines optional filters for listing runs.
type ListInput struct {
	// Limit caps the number of runs returned. Zero means all.
	Limit int `json:"limit"`
}

// ListOutput wraps listed runs.
type ListOutput struct {
	// Runs is the collection returned, newest first.
	Runs []*model.SyncRun `json:"runs"`
}

// List returns recorded runs, newest first.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	limit := 0
	if in != nil {
		limit = in.Limit
	}
	items, err := u.Repos.Run.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Runs: items}, nil
}
