package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dce-cancel-be/internal/dto"
	"dce-cancel-be/internal/entity"
	"dce-cancel-be/internal/pkg/apperror"
	"dce-cancel-be/internal/service"
	"dce-cancel-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// --- Fakes ---

type fakeAuthRepo struct {
	pairs map[string]bool
	err   error
	calls int
}

func pairKey(accessKey, clientID string) string {
	return accessKey + "|" + clientID
}

func (f *fakeAuthRepo) IsAuthorized(_ context.Context, accessKey, clientID string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.pairs[pairKey(accessKey, clientID)], nil
}

type fakeStatusRepo struct {
	upserts []entity.CancellationRequest
	record  *entity.StatusRecord
	err     error
}

func (f *fakeStatusRepo) Upsert(_ context.Context, req *entity.CancellationRequest) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, *req)
	return nil
}

func (f *fakeStatusRepo) Find(_ context.Context, _ string) (*entity.StatusRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

type fakePublisher struct {
	published []events.Event
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, event events.Event) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

type fakeAudit struct {
	recorded []entity.CancellationRequest
}

func (f *fakeAudit) RecordDispatched(req entity.CancellationRequest) {
	f.recorded = append(f.recorded, req)
}

type capturingLogger struct {
	mu      sync.Mutex
	entries []map[string]interface{}
}

func (l *capturingLogger) log(details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, details)
}

func (l *capturingLogger) Debug(_, _ string, details map[string]interface{}) { l.log(details) }
func (l *capturingLogger) Info(_, _ string, details map[string]interface{})  { l.log(details) }
func (l *capturingLogger) Warn(_, _ string, details map[string]interface{})  { l.log(details) }
func (l *capturingLogger) Error(_, _ string, details map[string]interface{}) { l.log(details) }
func (l *capturingLogger) Sync() error                                       { return nil }

// --- Helpers ---

type fixture struct {
	auth    *fakeAuthRepo
	status  *fakeStatusRepo
	pub     *fakePublisher
	audit   *fakeAudit
	service service.ICancellationService
}

func newFixture(authorizedPairs ...string) *fixture {
	pairs := make(map[string]bool)
	for _, p := range authorizedPairs {
		pairs[p] = true
	}
	f := &fixture{
		auth:   &fakeAuthRepo{pairs: pairs},
		status: &fakeStatusRepo{},
		pub:    &fakePublisher{},
		audit:  &fakeAudit{},
	}
	f.service = service.NewCancellationService(f.auth, f.status, f.pub, f.audit, &capturingLogger{})
	return f
}

func validRequest() *dto.CancelRequest {
	return &dto.CancelRequest{
		Id:           "DCE123",
		CancelReason: "duplicate submission",
		ClientId:     "partner-123",
	}
}

// --- Tests ---

func TestRequestCancellationSuccess(t *testing.T) {
	f := newFixture(pairKey("DCE123", "partner-123"))

	res, err := f.service.RequestCancellation(context.Background(), validRequest(), "corr-1")

	assert.NoError(t, err)
	assert.Equal(t, "DCE123", res.DceId)
	assert.Equal(t, "corr-1", res.CorrelationId)

	// Exactly one message, correlation duplicated in payload and attribute
	assert.Len(t, f.pub.published, 1)
	event := f.pub.published[0]
	assert.Equal(t, "cancellation.requested", event.EventType())
	assert.Equal(t, "corr-1", event.CorrelationID())
	payload := event.Payload()
	assert.Equal(t, "DCE123", payload["id"])
	assert.Equal(t, "duplicate submission", payload["cancelReason"])
	assert.Equal(t, "partner-123", payload["clientId"])
	assert.Equal(t, entity.EventCodeCancellation, payload["eventCode"])
	assert.Equal(t, "corr-1", payload["correlationId"])

	// Exactly one upsert with matching fields
	assert.Len(t, f.status.upserts, 1)
	stored := f.status.upserts[0]
	assert.Equal(t, "DCE123", stored.AccessKey)
	assert.Equal(t, "corr-1", stored.CorrelationID)
	assert.Equal(t, "partner-123", stored.ClientID)

	assert.Len(t, f.audit.recorded, 1)
}

func TestEventCancelDateIsServerAssigned(t *testing.T) {
	f := newFixture(pairKey("DCE123", "partner-123"))

	before := time.Now().UTC().Add(-time.Second)
	_, err := f.service.RequestCancellation(context.Background(), validRequest(), "")
	after := time.Now().UTC().Add(time.Second)

	assert.NoError(t, err)
	stored := f.status.upserts[0]
	ts, parseErr := time.Parse(time.RFC3339, stored.EventCancelDate)
	assert.NoError(t, parseErr)
	assert.True(t, ts.After(before) && ts.Before(after), "eventCancelDate must be current server time")

	// The published message carries the same server-assigned timestamp
	assert.Equal(t, stored.EventCancelDate, f.pub.published[0].Payload()["eventCancelDate"])
}

func TestCorrelationPrecedence(t *testing.T) {
	t.Run("header wins over body", func(t *testing.T) {
		f := newFixture(pairKey("DCE123", "partner-123"))
		req := validRequest()
		req.CorrelationId = "from-body"

		res, err := f.service.RequestCancellation(context.Background(), req, "from-header")

		assert.NoError(t, err)
		assert.Equal(t, "from-header", res.CorrelationId)
	})

	t.Run("body wins over generated", func(t *testing.T) {
		f := newFixture(pairKey("DCE123", "partner-123"))
		req := validRequest()
		req.CorrelationId = "from-body"

		res, err := f.service.RequestCancellation(context.Background(), req, "")

		assert.NoError(t, err)
		assert.Equal(t, "from-body", res.CorrelationId)
	})

	t.Run("generated when neither supplied", func(t *testing.T) {
		f := newFixture(pairKey("DCE123", "partner-123"))

		res, err := f.service.RequestCancellation(context.Background(), validRequest(), "")

		assert.NoError(t, err)
		_, parseErr := uuid.Parse(res.CorrelationId)
		assert.NoError(t, parseErr, "generated correlation ID must be a UUID")
	})
}

func TestRepeatedRequestConvergesToSameRecord(t *testing.T) {
	f := newFixture(pairKey("DCE123", "partner-123"))

	_, err := f.service.RequestCancellation(context.Background(), validRequest(), "retry-corr")
	assert.NoError(t, err)
	_, err = f.service.RequestCancellation(context.Background(), validRequest(), "retry-corr")
	assert.NoError(t, err)

	assert.Len(t, f.status.upserts, 2)
	first, second := f.status.upserts[0], f.status.upserts[1]
	// Server timestamps aside, a retry writes the exact same attribute values.
	first.EventCancelDate, second.EventCancelDate = "", ""
	assert.Equal(t, first, second)
}

func TestMissingCancelReason(t *testing.T) {
	f := newFixture(pairKey("DCE123", "partner-123"))
	req := validRequest()
	req.CancelReason = "   "

	_, err := f.service.RequestCancellation(context.Background(), req, "")

	var verr *apperror.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "cancelReason is required")
	assert.Empty(t, f.pub.published)
	assert.Empty(t, f.status.upserts)
}

func TestMissingIdAndReasonReportedTogether(t *testing.T) {
	f := newFixture()
	req := &dto.CancelRequest{ClientId: "partner-123"}

	_, err := f.service.RequestCancellation(context.Background(), req, "")

	var verr *apperror.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "id is required")
	assert.Contains(t, verr.Violations, "cancelReason is required")
	assert.Zero(t, f.auth.calls, "authorization cannot run without an accessKey")
}

func TestMissingClientIdHeader(t *testing.T) {
	f := newFixture(pairKey("DCE123", "partner-123"))
	req := validRequest()
	req.ClientId = ""

	_, err := f.service.RequestCancellation(context.Background(), req, "")

	var verr *apperror.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "clientId is required")
	assert.Empty(t, f.pub.published)
	assert.Empty(t, f.status.upserts)
}

func TestUnauthorizedClient(t *testing.T) {
	f := newFixture(pairKey("DCE123", "someone-else"))

	_, err := f.service.RequestCancellation(context.Background(), validRequest(), "")

	var authErr *apperror.AuthorizationError
	assert.ErrorAs(t, err, &authErr)
	assert.Empty(t, f.pub.published)
	assert.Empty(t, f.status.upserts)
}

func TestUnauthorizedClientLearnsNothingAboutPayloadRules(t *testing.T) {
	f := newFixture() // nothing registered
	req := validRequest()
	req.CancelReason = "" // also invalid, but the caller must only see 403

	_, err := f.service.RequestCancellation(context.Background(), req, "")

	var authErr *apperror.AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestAuthorizationStoreErrorIsNotUnauthorized(t *testing.T) {
	f := newFixture()
	f.auth.err = errors.New("connection refused")

	_, err := f.service.RequestCancellation(context.Background(), validRequest(), "")

	var depErr *apperror.DependencyError
	assert.ErrorAs(t, err, &depErr)
}

func TestPublishFailurePreventsUpsert(t *testing.T) {
	f := newFixture(pairKey("DCE123", "partner-123"))
	f.pub.err = errors.New("queue unavailable")

	_, err := f.service.RequestCancellation(context.Background(), validRequest(), "")

	var depErr *apperror.DependencyError
	assert.ErrorAs(t, err, &depErr)
	assert.Empty(t, f.status.upserts, "store must stay untouched when publish fails")
}

func TestUpsertFailureAfterPublish(t *testing.T) {
	f := newFixture(pairKey("DCE123", "partner-123"))
	f.status.err = errors.New("store throttled")

	_, err := f.service.RequestCancellation(context.Background(), validRequest(), "")

	var depErr *apperror.DependencyError
	assert.ErrorAs(t, err, &depErr)
	// Accepted at-least-once tradeoff: the message was already sent.
	assert.Len(t, f.pub.published, 1)
}

func TestGetStatus(t *testing.T) {
	f := newFixture()
	f.status.record = &entity.StatusRecord{
		PartitionKey:    entity.PartitionKeyFor("DCE123"),
		SortKey:         entity.SortKeyLatest,
		Status:          entity.StatusCancellationRequested,
		OperationStatus: entity.OperationStatusReceived,
		CorrelationID:   "corr-1",
	}

	res, err := f.service.GetStatus(context.Background(), "DCE123")

	assert.NoError(t, err)
	assert.Equal(t, "DCE123", res.DceId)
	assert.Equal(t, string(entity.StatusCancellationRequested), res.Status)
	assert.Equal(t, "corr-1", res.CorrelationId)
}

func TestGetStatusNotFound(t *testing.T) {
	f := newFixture()

	res, err := f.service.GetStatus(context.Background(), "DCE404")

	assert.NoError(t, err)
	assert.Nil(t, res)
}
