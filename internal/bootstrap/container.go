package bootstrap

import (
	"context"
	"log"

	"adalchemy-bot/internal/config"
	"adalchemy-bot/internal/handler"
	"adalchemy-bot/internal/pkg/logger"
	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/internal/repository/implementation"
	"adalchemy-bot/internal/repository/memory"
	"adalchemy-bot/internal/repository/redisstore"
	"adalchemy-bot/internal/service"
	"adalchemy-bot/pkg/adsapi"
	"adalchemy-bot/pkg/database"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Gateway adapter
	DiscordHandler *handler.DiscordHandler

	// Background services (exposed for main.go to run)
	NotificationService service.INotificationService

	// Exposed for the admin HTTP surface
	MappingRepository contract.MappingRepository

	Logger logger.ILogger
}

func NewContainer(db *database.Mongo, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Repositories
	mappingRepo := implementation.NewMappingRepository(db)
	documentRepo := implementation.NewBusinessDocumentRepository(db)
	credentialsRepo := implementation.NewCredentialsRepository(db)
	viewSessionRepo := memory.NewViewSessionRepository()

	var conversationRepo contract.ConversationRepository
	if cfg.App.SessionBackend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		conversationRepo = redisstore.NewConversationRepository(rdb)
		log.Println("[INFO] Using Session Backend: REDIS")
	} else {
		conversationRepo = memory.NewConversationRepository()
		log.Println("[INFO] Using Session Backend: MEMORY")
	}

	// 4. External clients
	adsClient := adsapi.NewClient(cfg.Ads.BaseURL)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.NotificationTopic, pubSub)
	notificationService := service.NewNotificationService(pubSub, cfg.App.NotificationTopic, mappingRepo, sysLogger)

	onboardingService := service.NewOnboardingService(mappingRepo, documentRepo, conversationRepo, publisherService, cfg.App.SchedulingLink, sysLogger)
	businessService := service.NewBusinessService(mappingRepo, documentRepo, viewSessionRepo)
	keywordService := service.NewKeywordService(mappingRepo, documentRepo, viewSessionRepo, publisherService, sysLogger)
	adTextService := service.NewAdTextService(mappingRepo, documentRepo, viewSessionRepo, publisherService, sysLogger)
	campaignService := service.NewCampaignService(mappingRepo, documentRepo, credentialsRepo, viewSessionRepo, adsClient, publisherService, cfg.Ads.DeveloperToken, sysLogger)
	viewService := service.NewViewSessionService(viewSessionRepo)

	// 6. Gateway adapter
	discordHandler := handler.NewDiscordHandler(
		onboardingService,
		businessService,
		keywordService,
		adTextService,
		campaignService,
		viewService,
		cfg.App.SchedulingLink,
		sysLogger,
	)

	return &Container{
		DiscordHandler:      discordHandler,
		NotificationService: notificationService,
		MappingRepository:   mappingRepo,
		Logger:              sysLogger,
	}
}
