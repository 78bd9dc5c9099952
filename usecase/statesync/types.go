package statesync

import (
	"time"

	"github.com/kompox/tfcsync/domain"
	"github.com/kompox/tfcsync/domain/model"
	"github.com/kompox/tfcsync/internal/metrics"
)

// Repos holds repositories needed for sync use cases.
type Repos struct {
	Run domain.RunRepository
}

// UseCase wires the ports and repositories needed to sync state into the catalog.
type UseCase struct {
	Repos     *Repos
	StatePort model.StatePort
	// Publisher may be nil for dry runs.
	Publisher model.PublisherPort
	// Metrics may be nil.
	Metrics *metrics.Recorder
	// Now defaults to time.Now.
	Now func() time.Time
}

func (u *UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}
