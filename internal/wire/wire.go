// Package wire provides dependency injection for the queuebot application.
// It creates singleton repositories with lazy initialization; event services
// are built per gateway, since the chat gateway is supplied by the embedding
// runtime.
package wire

import (
	"log"
	"sync"

	"go.uber.org/zap"

	"github.com/example/queuebot/internal/adapters/clock"
	"github.com/example/queuebot/internal/adapters/sqlite"
	"github.com/example/queuebot/internal/app"
	"github.com/example/queuebot/internal/config"
	"github.com/example/queuebot/internal/core/lowvalue"
	"github.com/example/queuebot/internal/db"
	"github.com/example/queuebot/internal/ports/primary"
	"github.com/example/queuebot/internal/ports/secondary"
)

var (
	configRepo  secondary.ServerConfigRepository
	claimRepo   secondary.ClaimRepository
	configCache *app.ConfigCache
	logger      *zap.Logger
	once        sync.Once
)

// ConfigRepository returns the singleton server config repository.
func ConfigRepository() secondary.ServerConfigRepository {
	once.Do(initDeps)
	return configRepo
}

// ClaimRepository returns the singleton claim repository.
func ClaimRepository() secondary.ClaimRepository {
	once.Do(initDeps)
	return claimRepo
}

// ConfigCache returns the singleton configuration cache.
func ConfigCache() *app.ConfigCache {
	once.Do(initDeps)
	return configCache
}

// Logger returns the singleton structured logger.
func Logger() *zap.Logger {
	once.Do(initDeps)
	return logger
}

// Services builds the event-handling services around a chat gateway.
// Everything below the gateway is shared singleton state, so a runtime may
// rebuild services (e.g. on reconnect) without losing the cache.
func Services(gateway secondary.ChatGateway, cfg *config.Config) (primary.QueueService, primary.AdminService) {
	once.Do(initDeps)

	timings := app.QueueTimings{
		ReplyTTL:         cfg.ReplyTTL(),
		ConfirmWindow:    cfg.ConfirmWindow(),
		DismissDelay:     cfg.DismissDelay(),
		NotifyTTL:        cfg.NotifyTTL(),
		ChainWindow:      cfg.ChainWindowSize(),
		ArchiveLookahead: cfg.ArchiveLookaheadSize(),
	}

	queue := app.NewQueueService(
		gateway,
		configCache,
		claimRepo,
		clock.New(),
		lowvalue.NewVoiceChannelFilter(),
		cfg.CommandPrefix(),
		timings,
		logger,
	)
	admin := app.NewAdminService(gateway, configRepo, configCache, cfg.CommandPrefix(), logger)

	return queue, admin
}

// initDeps initializes the shared dependencies.
// This is called once via sync.Once.
func initDeps() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	logger, err = zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	configRepo = sqlite.NewServerConfigRepository(database)
	claimRepo = sqlite.NewClaimRepository(database)
	configCache = app.NewConfigCache(configRepo)
}
