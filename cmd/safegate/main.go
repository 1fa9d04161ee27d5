package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	appmoderation "github.com/novalearn/safegate/pkg/app/moderation"
	"github.com/novalearn/safegate/pkg/app/notification"
	"github.com/novalearn/safegate/pkg/config"
	"github.com/novalearn/safegate/pkg/detectors/lexicon"
	"github.com/novalearn/safegate/pkg/detectors/pii"
	"github.com/novalearn/safegate/pkg/detectors/readability"
	"github.com/novalearn/safegate/pkg/domain/moderation"
	handlers "github.com/novalearn/safegate/pkg/handlers/http"
	"github.com/novalearn/safegate/pkg/infra/auth/jwt"
	infraCache "github.com/novalearn/safegate/pkg/infra/cache"
	"github.com/novalearn/safegate/pkg/infra/classifier"
	"github.com/novalearn/safegate/pkg/infra/database"
	"github.com/novalearn/safegate/pkg/infra/httpx"
	infraLogger "github.com/novalearn/safegate/pkg/infra/logger"
	"github.com/novalearn/safegate/pkg/infra/notify"
	"github.com/novalearn/safegate/pkg/infra/repository"
	"github.com/novalearn/safegate/pkg/middleware"
	"github.com/novalearn/safegate/pkg/server"
)

func main() {
	ctx := context.Background()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unavailable, quick-check caching disabled until it recovers")
	}

	// repository
	moderationRepository := repository.NewModerationRepository(db.DB)
	guardianRepository := repository.NewGuardianRepository(db.DB)

	// detectors
	lexiconScanner := lexicon.NewScanner(logger, lexiconTerms(cfg), notifyTiers(cfg))
	piiDetector := pii.NewDetector(logger)
	readabilityEvaluator := readability.NewEvaluator(logger, cfg.Moderation.MinimumAge, ageTiers(cfg))

	// external classifier behind a breaker
	classifierTimeout := time.Duration(cfg.Classifier.TimeoutMS) * time.Millisecond
	classifierBreaker := httpx.NewCircuitBreaker(
		"classifier",
		time.Duration(cfg.Classifier.BreakerResetSec)*time.Second,
		cfg.Classifier.BreakerMaxFailures,
	)
	classifierAdapter := classifier.NewAdapter(
		logger,
		httpx.NewFastHTTPClient(classifierTimeout),
		classifierBreaker,
		classifier.Config{
			URL:         cfg.Classifier.URL,
			APIKey:      cfg.Classifier.APIKey,
			Model:       cfg.Classifier.Model,
			Timeout:     classifierTimeout,
			Breakpoints: breakpoints(cfg),
		},
	)

	// guardian alerts
	delivery := notify.NewWebhookDelivery(logger, httpx.NewFastHTTPClient(0), cfg.Notifications.WebhookURL)
	dispatcher := notification.NewDispatcher(
		logger,
		guardianRepository,
		moderationRepository,
		delivery,
		cfg.Notifications.Workers,
		cfg.Notifications.QueueSize,
		cfg.Notifications.MaxAttempts,
	)
	dispatcher.Start(ctx)

	quickCheckCache := infraCache.NewRedisQuickCheckCache(
		logger,
		redisClient,
		time.Duration(cfg.Moderation.QuickCheckTTLSec)*time.Second,
	)

	moderationService := appmoderation.NewService(
		logger,
		lexiconScanner,
		piiDetector,
		readabilityEvaluator,
		classifierAdapter,
		moderationRepository,
		dispatcher,
		appmoderation.PolicyFromConfig(cfg.Moderation.ActionMap),
		quickCheckCache,
	)

	jwtManager := jwt.NewJwtManager(cfg.Server.SecretKey)

	middlewareTransport := middleware.Transport{
		AuthMiddleware: middleware.NewAuthMiddleware(logger, jwtManager),
	}

	handlerTransport := handlers.HandlerTransport{
		ModerateContentHandler: handlers.NewModerateContentHandler(logger, moderationService),
		QuickCheckHandler:      handlers.NewQuickCheckHandler(logger, moderationService),
		UserStatsHandler:       handlers.NewUserStatsHandler(logger, moderationRepository),
		GetVersionHandler:      handlers.NewGetVersionHandler(),
	}

	moderationServer := server.NewModerationServer(server.ModerationServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
	})

	go func() {
		if err := moderationServer.Run(); err != nil {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := moderationServer.Shutdown(); err != nil {
		logger.WithError(err).Error("failed to shut down server")
	}
	dispatcher.Stop()
	if err := redisClient.Close(); err != nil {
		logger.WithError(err).Error("failed to close redis client")
	}
}

func lexiconTerms(cfg *config.Config) []lexicon.Term {
	if len(cfg.Moderation.Terms) == 0 {
		return lexicon.DefaultTerms()
	}
	terms := make([]lexicon.Term, 0, len(cfg.Moderation.Terms))
	for _, t := range cfg.Moderation.Terms {
		terms = append(terms, lexicon.Term{
			Word:     t.Word,
			Severity: moderation.Severity(t.Severity),
		})
	}
	return terms
}

func notifyTiers(cfg *config.Config) map[moderation.Severity]bool {
	if len(cfg.Moderation.NotifyTiers) == 0 {
		return lexicon.DefaultNotifyTiers()
	}
	tiers := make(map[moderation.Severity]bool, len(cfg.Moderation.NotifyTiers))
	for _, tier := range cfg.Moderation.NotifyTiers {
		tiers[moderation.Severity(tier)] = true
	}
	return tiers
}

func ageTiers(cfg *config.Config) []readability.AgeTier {
	tiers := make([]readability.AgeTier, 0, len(cfg.Moderation.AgeTiers))
	for _, t := range cfg.Moderation.AgeTiers {
		tiers = append(tiers, readability.AgeTier{MaxAge: t.MaxAge, Ceiling: t.Ceiling})
	}
	return tiers
}

func breakpoints(cfg *config.Config) classifier.Breakpoints {
	if len(cfg.Classifier.Breakpoints) == 0 {
		return classifier.DefaultBreakpoints()
	}
	bp := classifier.DefaultBreakpoints()
	if v, ok := cfg.Classifier.Breakpoints["critical"]; ok {
		bp.Critical = v
	}
	if v, ok := cfg.Classifier.Breakpoints["severe"]; ok {
		bp.Severe = v
	}
	if v, ok := cfg.Classifier.Breakpoints["moderate"]; ok {
		bp.Moderate = v
	}
	if v, ok := cfg.Classifier.Breakpoints["mild"]; ok {
		bp.Mild = v
	}
	return bp
}
