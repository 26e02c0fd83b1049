package bootstrap

import (
	"context"
	"log"
	"time"

	"aia-campus-be/internal/config"
	"aia-campus-be/internal/controller"
	"aia-campus-be/internal/pkg/logger"
	"aia-campus-be/internal/repository/unitofwork"
	"aia-campus-be/internal/service"
	"aia-campus-be/internal/websocket"
	"aia-campus-be/pkg/embedding"
	"aia-campus-be/pkg/genai"
	"aia-campus-be/pkg/ingestion"
	"aia-campus-be/pkg/rag"
	"aia-campus-be/pkg/storage"

	pktNats "aia-campus-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CourseController   controller.ICourseController
	ResourceController controller.IResourceController
	ChatController     controller.IChatController
	ProgressController controller.IProgressController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
	LiveHandler  *websocket.LiveHandler
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
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

	// WebSocket Hub
	wsLogger := logger.NewZapLogger("logs/notification.log", cfg.App.Environment == "production")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. AI plumbing
	genaiClient := genai.NewClient(cfg.Ai.GeminiApiKey)
	analyzer := ingestion.NewAnalyzer(genaiClient, cfg.Ai.AnalysisModel)
	pipeline := ingestion.NewPipeline(genaiClient, analyzer)
	ragEngine := rag.NewEngine(genaiClient, cfg.Ai.ChatModel)
	liveDialer := genai.NewLiveDialer(cfg.Ai.GeminiApiKey)
	embeddingProvider := embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)

	blobStore := storage.NewSupabaseStorage(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Ai.EmbeddingTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.EmbeddingTopic,
		uowFactory,
		pipeline,
		blobStore,
		cfg.Storage.ResourceBucket,
		embeddingProvider,
		natsPub,
	)

	courseService := service.NewCourseService(uowFactory, time.Duration(cfg.Ai.CacheTTLSecs)*time.Second)
	resourceService := service.NewResourceService(
		uowFactory,
		publisherService,
		analyzer,
		blobStore,
		cfg.Storage.ResourceBucket,
		genaiClient,
		ragEngine,
		embeddingProvider,
	)
	chatService := service.NewChatService(uowFactory, ragEngine)
	progressService := service.NewProgressService(uowFactory, natsPub)
	liveService := service.NewLiveService(uowFactory, liveDialer, cfg.Ai.LiveModel)

	// 5. Notification worker
	notifService := service.NewNotificationService(natsSub, wsHub, sysLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	return &Container{
		CourseController:   controller.NewCourseController(courseService),
		ResourceController: controller.NewResourceController(resourceService),
		ChatController:     controller.NewChatController(chatService),
		ProgressController: controller.NewProgressController(progressService),

		ConsumerService: consumerService,

		WebSocketHub: wsHub,
		LiveHandler:  websocket.NewLiveHandler(liveService, wsLogger),
	}
}
