// FILE: internal/bootstrap/container.go
package bootstrap

import (
	"context"
	"log"

	"vauntico-access-be/internal/config"
	"vauntico-access-be/internal/constant"
	"vauntico-access-be/internal/controller"
	"vauntico-access-be/internal/pkg/cache"
	"vauntico-access-be/internal/pkg/logger"
	"vauntico-access-be/internal/pkg/serverutils"
	"vauntico-access-be/internal/repository/unitofwork"
	"vauntico-access-be/internal/service"
	"vauntico-access-be/pkg/flags"

	pktNats "vauntico-access-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const accessEventsTopic = "ACCESS_EVENTS"

type Container struct {
	// Controllers
	FeatureFlagController controller.FeatureFlagController
	AccessController      controller.AccessController
	AuthController        controller.AuthController

	// Middleware
	JwtMiddleware fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for shutdown
	NatsPublisher *pktNats.Publisher
	Logger        logger.ILogger
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
	// NATS is optional; the core works without an outward event bus.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
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

	var cacheStore cache.Store
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory cache", err)
		cacheStore = cache.NewMemoryStore()
	} else {
		cacheStore = cache.NewRedisStore(rdb, cfg.Cache.CallTimeout)
	}

	// 3. Services
	publisherService := service.NewPublisherService(accessEventsTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, accessEventsTopic, sysLogger)

	evaluator := flags.NewEvaluator(cfg.App.Environment)
	flagService := service.NewFeatureFlagService(uowFactory, cacheStore, evaluator, sysLogger, publisherService, cfg.Cache.FlagTTL)
	subscriptionService := service.NewSubscriptionService(uowFactory, cacheStore, flagService, sysLogger, cfg.Cache.SubscriptionTTL)
	tokenService := service.NewTokenService(cfg.Token, uowFactory, cacheStore, publisherService, natsPub, sysLogger)

	// Kill switches must exist in the store; a missing one evaluates to
	// disabled and silently blocks the features behind it.
	validateKillSwitches(flagService, sysLogger)

	// 4. Controllers
	jwtMiddleware := serverutils.NewJwtMiddleware(tokenService)

	return &Container{
		FeatureFlagController: controller.NewFeatureFlagController(flagService),
		AccessController:      controller.NewAccessController(subscriptionService),
		AuthController:        controller.NewAuthController(tokenService),
		JwtMiddleware:         jwtMiddleware,
		ConsumerService:       consumerService,
		NatsPublisher:         natsPub,
		Logger:                sysLogger,
	}
}

func validateKillSwitches(flagService service.IFeatureFlagService, sysLogger logger.ILogger) {
	ctx := context.Background()
	for _, ks := range constant.AllKillSwitches() {
		flag, err := flagService.GetFlag(ctx, string(ks))
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Kill switch lookup failed", map[string]interface{}{"key": string(ks), "error": err.Error()})
			continue
		}
		if flag == nil {
			sysLogger.Warn("BOOTSTRAP", "Kill switch flag is not defined; dependent features evaluate to disabled", map[string]interface{}{"key": string(ks)})
		}
	}
}
