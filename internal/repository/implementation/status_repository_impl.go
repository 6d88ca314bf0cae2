package implementation

import (
	"context"
	"fmt"
	"time"

	"dce-cancel-be/internal/entity"
	"dce-cancel-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

type statusRepositoryImpl struct {
	rdb    *redis.Client
	table  string
	pkAttr string
	skAttr string
}

// NewStatusRepository creates the status record store. Records live in a
// redis hash per accessKey; HSET gives the required merge semantics, fields
// not written here are never touched or removed.
func NewStatusRepository(rdb *redis.Client, table, pkAttr, skAttr string) contract.StatusRepository {
	return &statusRepositoryImpl{
		rdb:    rdb,
		table:  table,
		pkAttr: pkAttr,
		skAttr: skAttr,
	}
}

func (r *statusRepositoryImpl) recordKey(accessKey string) string {
	return fmt.Sprintf("%s:%s:%s", r.table, entity.PartitionKeyFor(accessKey), entity.SortKeyLatest)
}

// upsertFields builds the exact attribute set one Upsert writes. The key
// values under the configured attribute names are fixed by formula and never
// vary with the attribute naming.
func (r *statusRepositoryImpl) upsertFields(req *entity.CancellationRequest, now string) map[string]interface{} {
	return map[string]interface{}{
		r.pkAttr:             entity.PartitionKeyFor(req.AccessKey),
		r.skAttr:             entity.SortKeyLatest,
		"status":             string(entity.StatusCancellationRequested),
		"operationStatus":    string(entity.OperationStatusReceived),
		"correlationId":      req.CorrelationID,
		"eventCode":          entity.EventCodeCancellation,
		"eventTimestamp":     req.EventCancelDate,
		"cancellationReason": req.CancelReason,
		"clientId":           req.ClientID,
		"updatedAt":          now,
		"requestedAt":        now,
	}
}

func (r *statusRepositoryImpl) Upsert(ctx context.Context, req *entity.CancellationRequest) error {
	now := time.Now().UTC().Format(time.RFC3339)

	if err := r.rdb.HSet(ctx, r.recordKey(req.AccessKey), r.upsertFields(req, now)).Err(); err != nil {
		return fmt.Errorf("status upsert: %w", err)
	}
	return nil
}

func (r *statusRepositoryImpl) Find(ctx context.Context, accessKey string) (*entity.StatusRecord, error) {
	values, err := r.rdb.HGetAll(ctx, r.recordKey(accessKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("status read: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	return r.recordFromValues(values), nil
}

func (r *statusRepositoryImpl) recordFromValues(values map[string]string) *entity.StatusRecord {
	return &entity.StatusRecord{
		PartitionKey:       values[r.pkAttr],
		SortKey:            values[r.skAttr],
		Status:             entity.Status(values["status"]),
		OperationStatus:    entity.OperationStatus(values["operationStatus"]),
		CorrelationID:      values["correlationId"],
		EventCode:          values["eventCode"],
		EventTimestamp:     values["eventTimestamp"],
		CancellationReason: values["cancellationReason"],
		ClientID:           values["clientId"],
		UpdatedAt:          values["updatedAt"],
		RequestedAt:        values["requestedAt"],
	}
}
