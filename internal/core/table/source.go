package table

import (
	"context"

	"github.com/colonyops/ballotview/internal/core/merge"
	"github.com/colonyops/ballotview/internal/core/record"
)

// Source is the data collaborator of a table.
type Source interface {
	// FetchDataset returns every record owned by key.
	FetchDataset(ctx context.Context, key string) ([]record.Record, error)
	// SubmitPatch writes all patches or none and returns the authoritative
	// post-write state of the patched records.
	SubmitPatch(ctx context.Context, key string, patches []merge.Patch) ([]record.Record, error)
}
