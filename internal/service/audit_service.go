package service

import (
	"context"
	"encoding/json"
	"time"

	"dce-cancel-be/internal/entity"
	"dce-cancel-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// AuditService runs an in-process dispatch-audit pipeline: the request
// pipeline drops a message per dispatched cancellation, a background consumer
// writes it to the structured log. Auditing is best-effort and never fails
// the request.
type AuditService struct {
	pubSub *gochannel.GoChannel
	topic  string
	logger logger.ILogger
}

type auditMessage struct {
	DceId         string `json:"dceId"`
	CorrelationId string `json:"correlationId"`
	ClientId      string `json:"clientId"`
	DispatchedAt  string `json:"dispatchedAt"`
}

func NewAuditService(pubSub *gochannel.GoChannel, topic string, sysLogger logger.ILogger) *AuditService {
	return &AuditService{
		pubSub: pubSub,
		topic:  topic,
		logger: sysLogger,
	}
}

func (s *AuditService) RecordDispatched(req entity.CancellationRequest) {
	payload, err := json.Marshal(auditMessage{
		DceId:         req.AccessKey,
		CorrelationId: req.CorrelationID,
		ClientId:      req.ClientID,
		DispatchedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Warn("audit", "Failed to marshal audit message", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topic, msg); err != nil {
		s.logger.Warn("audit", "Failed to publish audit message", map[string]interface{}{"error": err.Error()})
	}
}

// Run consumes audit messages until ctx is done.
func (s *AuditService) Run(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *AuditService) processMessage(msg *message.Message) {
	var audit auditMessage
	if err := json.Unmarshal(msg.Payload, &audit); err != nil {
		s.logger.Warn("audit", "Failed to unmarshal audit message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed, no point retrying
		return
	}

	s.logger.Info("audit", "Cancellation dispatched", map[string]interface{}{
		"dceId":         audit.DceId,
		"correlationId": audit.CorrelationId,
		"clientId":      audit.ClientId,
		"dispatchedAt":  audit.DispatchedAt,
	})
	msg.Ack()
}
