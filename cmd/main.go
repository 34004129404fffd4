package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/mzhirov/tasklist/internal/api"
	"github.com/mzhirov/tasklist/internal/controller"
	"github.com/mzhirov/tasklist/internal/migrations"
	"github.com/mzhirov/tasklist/internal/service"
	"github.com/mzhirov/tasklist/internal/storage"
	"github.com/mzhirov/tasklist/internal/storage/memory"
	"github.com/mzhirov/tasklist/internal/storage/postgres"
	"github.com/mzhirov/tasklist/internal/storage/redis"
	"github.com/mzhirov/tasklist/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	logger := util.NewZapLogger()

	tokenConfig := util.NewTokenConfig()
	tokenService := service.NewTokenService(tokenConfig)

	var (
		users        storage.UserRepository
		ledger       storage.RefreshTokenLedger
		tasks        storage.TaskRepository
		cleanupFuncs []func()
	)

	if os.Getenv("STORAGE") == "memory" {
		logger.Info("Using in-memory storage")
		users = memory.NewUserRepository()
		ledger = memory.NewRefreshTokenLedger()
		tasks = memory.NewTaskRepository()
	} else {
		db, dbCleanup, err := util.NewDBConnection(logger)
		if err != nil {
			logger.Fatal(zap.Error(err))
		}
		cleanupFuncs = append(cleanupFuncs, dbCleanup)

		if err := migrations.RunMigrations(db, logger); err != nil {
			logger.Fatal(zap.Error(err))
		}

		pgStorage := postgres.NewStorage(db)
		users = pgStorage
		ledger = pgStorage
		tasks = pgStorage

		if redisConfig := util.NewRedisConfig(); redisConfig.Addr != "" {
			redisClient, redisCleanup, err := util.NewRedisClient(logger, redisConfig)
			if err != nil {
				logger.Fatal(zap.Error(err))
			}
			cleanupFuncs = append(cleanupFuncs, redisCleanup)
			ledger = redis.NewRefreshTokenLedger(redisClient, tokenConfig.RefreshTTL)
		}
	}

	webhookService := service.NewWebhookService(logger, util.GetWebhookURL())
	authService := service.NewAuthService(users, ledger, tokenService, webhookService, util.NewAuthConfig(), logger)
	taskService := service.NewTaskService(tasks, logger)

	ctrl := controller.NewController(logger, authService, taskService)

	apiServer := api.NewAPI(ctrl, authService, util.NewServerConfig(), logger, cleanupFuncs)
	apiServer.Run(context.Background())
}
