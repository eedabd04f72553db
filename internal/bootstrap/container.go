package bootstrap

import (
	"context"
	"log"
	"time"

	"catalog-console-be/internal/config"
	"catalog-console-be/internal/controller"
	"catalog-console-be/internal/handler"
	"catalog-console-be/internal/pkg/logger"
	"catalog-console-be/internal/pkg/mailer"
	"catalog-console-be/internal/repository/memory"
	"catalog-console-be/internal/repository/unitofwork"
	"catalog-console-be/internal/service"
	"catalog-console-be/internal/websocket"
	"catalog-console-be/pkg/answer"
	"catalog-console-be/pkg/embedding"
	"catalog-console-be/pkg/participle"
	"catalog-console-be/pkg/qastream"

	pktNats "catalog-console-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	SearchController  controller.ISearchController
	AssetController   controller.IAssetController
	QaController      controller.IQaController
	QualityController controller.IQualityController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider for semantic re-ranking
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Search.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Search.OllamaBaseURL,
			cfg.Search.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Search.OllamaModel)
	} else {
		embeddingProvider = nil
		log.Printf("[INFO] Embedding provider disabled, search uses lexical ranking only")
	}

	// In-memory per-user session state
	searchStateRepo := memory.NewSearchStateRepository()
	qaCtrlRepo := memory.NewQaControllerRepository()

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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Answer engine client. The service token renews itself once after an
	// auth-expired rejection, then the caller gets a 401.
	engineToken := answer.NewRenewableToken("", func(ctx context.Context) (string, error) {
		return answer.FetchServiceToken(ctx, cfg.Engine.BaseURL, cfg.Engine.ServiceKey)
	})
	answerClient := answer.NewClient(
		cfg.Engine.BaseURL,
		cfg.Engine.DataVersion,
		time.Duration(cfg.Engine.IdleTimeoutMs)*time.Millisecond,
		engineToken,
	)
	engineAdapter := &qastream.EngineAdapter{Client: answerClient}

	// Keyword cutter vocabularies. Object terms mirror the asset type tabs,
	// dimension terms the facet columns the console filters on.
	cutter := participle.NewCutter(
		[]string{"catalog", "table", "logical_view", "view", "interface_service", "api", "indicator", "metric"},
		[]string{"owner", "department", "completeness", "accuracy", "timeliness", "consistency"},
	)

	publisherService := service.NewPublisherService(pubSub, cfg.Search.EmbedTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Search.EmbedTopic,
		uowFactory,
		embeddingProvider,
	)

	authService := service.NewAuthService(uowFactory, natsPub)
	searchService := service.NewSearchService(
		uowFactory,
		searchStateRepo,
		cutter,
		embeddingProvider,
		cfg.Search.PageSize,
		sysLogger,
	)
	assetService := service.NewAssetService(uowFactory, publisherService, natsPub, sysLogger)
	qaService := service.NewQaService(
		uowFactory,
		qaCtrlRepo,
		engineAdapter,
		engineToken,
		natsPub,
		sysLogger,
	)
	qualityService := service.NewQualityService(uowFactory, emailService, natsPub, sysLogger)

	// 3.5 Notification System
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		AuthController:      controller.NewAuthController(authService),
		SearchController:    controller.NewSearchController(searchService),
		AssetController:     controller.NewAssetController(assetService),
		QaController:        controller.NewQaController(qaService),
		QualityController:   controller.NewQualityController(qualityService),

		ConsumerService: consumerService,
	}
}
