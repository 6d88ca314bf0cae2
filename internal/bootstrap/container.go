package bootstrap

import (
	"context"
	"log"

	"dce-cancel-be/internal/config"
	"dce-cancel-be/internal/controller"
	"dce-cancel-be/internal/pkg/logger"
	"dce-cancel-be/internal/repository/implementation"
	"dce-cancel-be/internal/service"

	"dce-cancel-be/pkg/events"
	pktNats "dce-cancel-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const auditTopic = "CANCELLATION_AUDIT"

type Container struct {
	// Controllers
	CancellationController controller.ICancellationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AuditService    *service.AuditService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus (in-process, audit pipeline)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 3. Repositories
	authRepo := implementation.NewAuthorizationRepository(db, cfg.Cancel.AuthTableName)
	cachedAuthRepo := implementation.NewCachedAuthorizationRepository(authRepo)
	statusRepo := implementation.NewStatusRepository(
		rdb,
		cfg.Cancel.TableName,
		cfg.Cancel.PartitionKeyAttr,
		cfg.Cancel.SortKeyAttr,
	)

	// 4. Services
	auditService := service.NewAuditService(pubSub, auditTopic, sysLogger)

	cancellationService := service.NewCancellationService(
		cachedAuthRepo,
		statusRepo,
		natsPub,
		auditService,
		sysLogger,
	)

	var consumerService service.IConsumerService
	if natsSub != nil {
		consumerService = service.NewConsumerService(
			natsSub,
			rdb,
			pktNats.SubjectFor(events.CancellationRequestedType),
			cfg.Cancel.DurableName,
			cfg.Cancel.TableName,
			cfg.Cancel.DedupTTL,
			sysLogger,
		)
	}

	// 5. Controllers
	return &Container{
		CancellationController: controller.NewCancellationController(cancellationService, cfg.Cancel.APIAuthToken),
		ConsumerService:        consumerService,
		AuditService:           auditService,
		Logger:                 sysLogger,
	}
}
