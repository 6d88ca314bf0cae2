package dto

// --- Cancellation Request ---

// CancelRequest is the inbound cancellation payload. ClientId is taken from
// the Client-Id header, never from the body. eventCancelDate is deliberately
// absent: the server assigns it and caller-supplied values are ignored.
type CancelRequest struct {
	Id            string `json:"id" validate:"required,notblank"`
	CancelReason  string `json:"cancelReason" validate:"required,notblank"`
	CorrelationId string `json:"correlationId"`
	ClientId      string `json:"-" validate:"required,notblank"`
}

// CancelResponse after a cancellation request is accepted
type CancelResponse struct {
	DceId         string `json:"dceId"`
	CorrelationId string `json:"correlationId"`
}

// --- Cancellation Status ---

// CancellationStatusResponse mirrors the persisted status record
type CancellationStatusResponse struct {
	DceId              string `json:"dceId"`
	Status             string `json:"status"`
	OperationStatus    string `json:"operationStatus"`
	CorrelationId      string `json:"correlationId"`
	EventCode          string `json:"eventCode"`
	EventTimestamp     string `json:"eventTimestamp"`
	CancellationReason string `json:"cancellationReason"`
	ClientId           string `json:"clientId"`
	UpdatedAt          string `json:"updatedAt"`
	RequestedAt        string `json:"requestedAt"`
}
