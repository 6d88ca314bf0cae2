package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"dce-cancel-be/internal/dto"
	"dce-cancel-be/internal/entity"
	"dce-cancel-be/internal/pkg/apperror"
	"dce-cancel-be/internal/pkg/logger"
	"dce-cancel-be/internal/pkg/serverutils"
	"dce-cancel-be/internal/repository/contract"
	"dce-cancel-be/pkg/events"

	"github.com/google/uuid"
)

// IEventPublisher sends a validated cancellation event to the queue.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IAuditRecorder records a successfully dispatched cancellation, best-effort.
type IAuditRecorder interface {
	RecordDispatched(req entity.CancellationRequest)
}

type ICancellationService interface {
	// RequestCancellation runs the full pipeline: authorize, validate,
	// resolve correlation, publish, upsert. headerCorrelationID is the
	// X-Correlation-Id transport header value, possibly empty.
	RequestCancellation(ctx context.Context, req *dto.CancelRequest, headerCorrelationID string) (*dto.CancelResponse, error)

	// GetStatus returns the current status record, or nil when none exists.
	GetStatus(ctx context.Context, accessKey string) (*dto.CancellationStatusResponse, error)
}

type cancellationService struct {
	authRepo   contract.AuthorizationRepository
	statusRepo contract.StatusRepository
	publisher  IEventPublisher
	audit      IAuditRecorder
	logger     logger.ILogger
}

func NewCancellationService(
	authRepo contract.AuthorizationRepository,
	statusRepo contract.StatusRepository,
	publisher IEventPublisher,
	audit IAuditRecorder,
	sysLogger logger.ILogger,
) ICancellationService {
	return &cancellationService{
		authRepo:   authRepo,
		statusRepo: statusRepo,
		publisher:  publisher,
		audit:      audit,
		logger:     sysLogger,
	}
}

func (s *cancellationService) RequestCancellation(ctx context.Context, req *dto.CancelRequest, headerCorrelationID string) (*dto.CancelResponse, error) {
	// Collect every violation up front, but don't surface them yet: callers
	// that fail authorization must learn nothing about payload rules.
	var validationErr *apperror.ValidationError
	if err := serverutils.ValidateRequest(req); err != nil {
		if !errors.As(err, &validationErr) {
			return nil, err
		}
	}

	// Authorization needs both identifiers. When either is missing there is
	// nothing to authorize against, so the full violation list is the answer.
	if strings.TrimSpace(req.Id) == "" || strings.TrimSpace(req.ClientId) == "" {
		return nil, validationErr
	}

	authorized, err := s.authRepo.IsAuthorized(ctx, req.Id, req.ClientId)
	if err != nil {
		return nil, apperror.NewDependencyError("authorization lookup", err)
	}
	if !authorized {
		return nil, apperror.NewAuthorizationError()
	}

	if validationErr != nil {
		return nil, validationErr
	}

	correlationID := resolveCorrelationID(headerCorrelationID, req.CorrelationId)

	cancellation := entity.CancellationRequest{
		AccessKey:       req.Id,
		CancelReason:    req.CancelReason,
		ClientID:        req.ClientId,
		CorrelationID:   correlationID,
		EventCancelDate: time.Now().UTC().Format(time.RFC3339),
	}

	// Queue first, store second: a store failure after a successful publish
	// is recoverable downstream; a publish failure must leave no status record.
	if err := s.publisher.Publish(ctx, events.NewCancellationRequested(cancellation)); err != nil {
		return nil, apperror.NewDependencyError("event publish", err)
	}

	if err := s.statusRepo.Upsert(ctx, &cancellation); err != nil {
		return nil, apperror.NewDependencyError("status upsert", err)
	}

	if s.audit != nil {
		s.audit.RecordDispatched(cancellation)
	}

	s.logger.Info("cancellation", "Cancellation request recorded", map[string]interface{}{
		"dceId":         cancellation.AccessKey,
		"correlationId": cancellation.CorrelationID,
		"clientId":      cancellation.ClientID,
	})

	return &dto.CancelResponse{
		DceId:         cancellation.AccessKey,
		CorrelationId: cancellation.CorrelationID,
	}, nil
}

// resolveCorrelationID picks the first non-empty source: transport header,
// body field, freshly generated UUID.
func resolveCorrelationID(headerValue, bodyValue string) string {
	if v := strings.TrimSpace(headerValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(bodyValue); v != "" {
		return v
	}
	return uuid.New().String()
}

func (s *cancellationService) GetStatus(ctx context.Context, accessKey string) (*dto.CancellationStatusResponse, error) {
	record, err := s.statusRepo.Find(ctx, accessKey)
	if err != nil {
		return nil, apperror.NewDependencyError("status read", err)
	}
	if record == nil {
		return nil, nil
	}

	return &dto.CancellationStatusResponse{
		DceId:              accessKey,
		Status:             string(record.Status),
		OperationStatus:    string(record.OperationStatus),
		CorrelationId:      record.CorrelationID,
		EventCode:          record.EventCode,
		EventTimestamp:     record.EventTimestamp,
		CancellationReason: record.CancellationReason,
		ClientId:           record.ClientID,
		UpdatedAt:          record.UpdatedAt,
		RequestedAt:        record.RequestedAt,
	}, nil
}
