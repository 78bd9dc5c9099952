package tfstate

import (
	"iter"

	"github.com/kompox/tfcsync/domain/model"
)

// Resources lazily yields every resource of every record in input order,
// stamping each with workspaceID. Records without a resources array contribute
// nothing. The yielded maps are the records' own entries, modified in place.
func Resources(records []model.StateRecord, workspaceID string) iter.Seq[model.Resource] {
	return func(yield func(model.Resource) bool) {
		for _, rec := range records {
			for _, res := range rec.Resources() {
				res.SetWorkspaceID(workspaceID)
				if !yield(res) {
					return
				}
			}
		}
	}
}
