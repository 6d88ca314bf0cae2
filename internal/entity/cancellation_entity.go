package entity

// Status is the cancellation lifecycle state written to the status record.
// This service only ever writes StatusCancellationRequested; downstream
// processors advance it further.
type Status string

const (
	StatusCancellationRequested Status = "CANCELLATION_REQUESTED"
)

// OperationStatus tracks the processing state of the cancellation operation.
type OperationStatus string

const (
	OperationStatusReceived OperationStatus = "RECEIVED"
)

// EventCodeCancellation is the fixed event code for DCe cancellation events.
const EventCodeCancellation = "110111"

// SortKeyLatest is the fixed sort-key value of the single authoritative
// status record per accessKey.
const SortKeyLatest = "LATEST"

// PartitionKeyFor derives the partition-key value for an accessKey.
// The value is fixed by this formula regardless of configured attribute names.
func PartitionKeyFor(accessKey string) string {
	return "DCE#" + accessKey
}

// CancellationRequest is a request that passed authorization and validation.
// EventCancelDate is assigned server-side at validation time and is immutable.
type CancellationRequest struct {
	AccessKey       string
	CancelReason    string
	ClientID        string
	CorrelationID   string
	EventCancelDate string // UTC, RFC 3339 with offset
}

// StatusRecord is the persisted per-accessKey cancellation status.
type StatusRecord struct {
	PartitionKey       string
	SortKey            string
	Status             Status
	OperationStatus    OperationStatus
	CorrelationID      string
	EventCode          string
	EventTimestamp     string
	CancellationReason string
	ClientID           string
	UpdatedAt          string
	RequestedAt        string
}
