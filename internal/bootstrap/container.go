package bootstrap

import (
	"context"
	"log"

	"medichat/internal/config"
	"medichat/internal/controller"
	"medichat/internal/handler"
	"medichat/internal/pkg/logger"
	"medichat/internal/pkg/mailer"
	"medichat/internal/repository/implementation"
	"medichat/internal/repository/memory"
	"medichat/internal/repository/unitofwork"
	"medichat/internal/retrieval"
	"medichat/internal/service"
	"medichat/internal/websocket"
	pkgNats "medichat/pkg/nats"
	"medichat/pkg/responder"
	"medichat/pkg/transcribe"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	AudioController     controller.IAudioController
	KnowledgeController controller.IKnowledgeController
	HealthController    controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AlertService    service.IAlertService

	// WebSockets & Alerts
	AlertHandler *handler.AlertHandler
	WebSocketHub *websocket.Hub
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
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
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
	wsLogger := logger.NewIsolatedLogger("logs/alerts.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	conversationCache := memory.NewConversationCache()
	knowledgeRepo := implementation.NewKnowledgeRepository(db)
	retriever := retrieval.NewKeywordRetriever(knowledgeRepo)
	templateResponder := responder.NewTemplateResponder()
	transcribeProvider := transcribe.NewWhisperHTTPProvider(cfg.Transcribe.BaseURL, cfg.Transcribe.Model, nil)

	publisherService := service.NewPublisherService(cfg.App.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IngestTopic,
		uowFactory,
		sysLogger,
	)

	chatService := service.NewChatService(
		uowFactory,
		retriever,
		templateResponder,
		conversationCache,
		natsPub,
		sysLogger,
		cfg.App.DefaultLanguage,
		cfg.Analysis.RetrievalTopK,
	)

	knowledgeService := service.NewKnowledgeService(uowFactory, publisherService, sysLogger)

	var alertService service.IAlertService
	if natsSub != nil {
		alertService = service.NewAlertService(
			natsSub,
			wsHub,
			emailService,
			cfg.Alert.EmergencyContactEmail,
			wsLogger,
		)
	}

	// 4. Controllers & Handlers
	chatController := controller.NewChatController(chatService, transcribeProvider)
	audioController := controller.NewAudioController(transcribeProvider)
	knowledgeController := controller.NewKnowledgeController(knowledgeService)
	healthController := controller.NewHealthController(db, rdb, natsPub)
	alertHandler := handler.NewAlertHandler(wsHub, wsLogger)

	return &Container{
		ChatController:      chatController,
		AudioController:     audioController,
		KnowledgeController: knowledgeController,
		HealthController:    healthController,
		ConsumerService:     consumerService,
		AlertService:        alertService,
		AlertHandler:        alertHandler,
		WebSocketHub:        wsHub,
	}
}
