package events

import (
	"time"

	"dce-cancel-be/internal/entity"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "cancellation.requested").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time

	// CorrelationID traces the event back to its originating request. It is
	// duplicated as a message attribute so brokers can filter without
	// deserializing the payload.
	CorrelationID() string
}

// CancellationRequestedType is the event type code for cancellation events.
// The queue subject is derived from it, so publisher and consumer cannot drift.
const CancellationRequestedType = "cancellation.requested"

// CancellationRequested is emitted once a cancellation request has passed
// authorization and validation.
type CancellationRequested struct {
	Request    entity.CancellationRequest
	OccurredAt time.Time
}

func NewCancellationRequested(req entity.CancellationRequest) CancellationRequested {
	return CancellationRequested{
		Request:    req,
		OccurredAt: time.Now().UTC(),
	}
}

func (e CancellationRequested) EventType() string {
	return CancellationRequestedType
}

func (e CancellationRequested) Payload() map[string]interface{} {
	return map[string]interface{}{
		"id":              e.Request.AccessKey,
		"eventCancelDate": e.Request.EventCancelDate,
		"cancelReason":    e.Request.CancelReason,
		"clientId":        e.Request.ClientID,
		"eventCode":       entity.EventCodeCancellation,
		"correlationId":   e.Request.CorrelationID,
	}
}

func (e CancellationRequested) Timestamp() time.Time {
	return e.OccurredAt
}

func (e CancellationRequested) CorrelationID() string {
	return e.Request.CorrelationID
}
