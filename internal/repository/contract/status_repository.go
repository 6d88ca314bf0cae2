package contract

import (
	"context"

	"dce-cancel-be/internal/entity"
)

// StatusRepository owns the per-accessKey cancellation status record.
type StatusRepository interface {
	// Upsert create-or-merges the record keyed by the request's accessKey.
	// Only the cancellation attributes are written; unrelated attributes on
	// the record are left untouched. Repeated calls with identical input
	// converge to the same attribute values (idempotent, last-write-wins).
	Upsert(ctx context.Context, req *entity.CancellationRequest) error

	// Find returns the current record for an accessKey, or nil when none exists.
	Find(ctx context.Context, accessKey string) (*entity.StatusRecord, error)
}
