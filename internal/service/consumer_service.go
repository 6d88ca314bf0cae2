package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dce-cancel-be/internal/pkg/logger"
	pktNats "dce-cancel-be/pkg/nats"

	"github.com/redis/go-redis/v9"
)

// IConsumerService is the downstream worker for cancellation events. The
// queue guarantees at-least-once delivery, so the worker deduplicates by
// correlation ID before acting. It never advances the status record; that
// belongs to later processors.
type IConsumerService interface {
	Start() error
}

type consumerService struct {
	subscriber  *pktNats.Subscriber
	rdb         *redis.Client
	subject     string
	durableName string
	dedupPrefix string
	dedupTTL    time.Duration
	logger      logger.ILogger
}

func NewConsumerService(
	subscriber *pktNats.Subscriber,
	rdb *redis.Client,
	subject string,
	durableName string,
	dedupPrefix string,
	dedupTTL time.Duration,
	sysLogger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		rdb:         rdb,
		subject:     subject,
		durableName: durableName,
		dedupPrefix: dedupPrefix,
		dedupTTL:    dedupTTL,
		logger:      sysLogger,
	}
}

func (cs *consumerService) Start() error {
	return cs.subscriber.Subscribe(cs.subject, cs.durableName, cs.handleMessage)
}

func (cs *consumerService) handleMessage(ctx context.Context, correlationID string, payload []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(payload, &event); err != nil {
		cs.logger.Warn("consumer", "Discarding malformed cancellation event", map[string]interface{}{
			"error": err.Error(),
		})
		return nil // ack: retrying cannot fix a malformed payload
	}

	if correlationID == "" {
		if v, ok := event["correlationId"].(string); ok {
			correlationID = v
		}
	}

	if correlationID != "" {
		dedupKey := fmt.Sprintf("%s:dedup:%s", cs.dedupPrefix, correlationID)
		first, err := cs.rdb.SetNX(ctx, dedupKey, 1, cs.dedupTTL).Result()
		if err != nil {
			return fmt.Errorf("dedup check: %w", err) // nack, retry later
		}
		if !first {
			cs.logger.Info("consumer", "Duplicate delivery skipped", map[string]interface{}{
				"correlationId": correlationID,
			})
			return nil
		}
	}

	cs.logger.Info("consumer", "Cancellation event received", map[string]interface{}{
		"dceId":         event["id"],
		"correlationId": correlationID,
		"eventCode":     event["eventCode"],
	})
	return nil
}
