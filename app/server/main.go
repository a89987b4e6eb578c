package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/callwatch/callwatch/config"
	"github.com/callwatch/callwatch/internal/api/handlers"
	"github.com/callwatch/callwatch/internal/api/middleware"
	"github.com/callwatch/callwatch/internal/api/routes"
	"github.com/callwatch/callwatch/internal/cache"
	"github.com/callwatch/callwatch/internal/logger"
	mongorepo "github.com/callwatch/callwatch/internal/repositories/mongo"
	pgrepo "github.com/callwatch/callwatch/internal/repositories/postgres"
	"github.com/callwatch/callwatch/internal/retell"
	"github.com/callwatch/callwatch/internal/services"
	"github.com/callwatch/callwatch/internal/workers"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.MigratePostgres(); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	l.Info("PostgreSQL connected")

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	// Repositories
	userRepo := pgrepo.NewUserRepo(config.PostgresDB)
	settingsRepo := pgrepo.NewSettingsRepo(config.PostgresDB)
	scriptRepo := pgrepo.NewScriptRepo(config.PostgresDB)
	callRepo := pgrepo.NewCallRepo(config.PostgresDB)
	statsRepo := pgrepo.NewDailyStatsRepo(config.PostgresDB)
	interestRepo := pgrepo.NewInterestRepo(config.PostgresDB)
	rawCallRepo := mongorepo.NewRawCallRepo(config.MongoDatabase())

	redisCache := cache.NewRedisCache(config.RedisClient)
	client := retell.New()

	// Services
	authSvc := services.NewAuthService(userRepo)
	statsSvc := services.NewStatsService(statsRepo)
	agentSvc := services.NewAgentService(settingsRepo, scriptRepo, callRepo, statsSvc, client, rawCallRepo, redisCache)
	ingestSvc := services.NewIngestService(settingsRepo, callRepo, statsSvc, client, rawCallRepo, l)
	settingsSvc := services.NewSettingsService(settingsRepo, agentSvc, ingestSvc, l)
	interestSvc := services.NewInterestService(interestRepo)

	// Background ingestion
	poller := &workers.IngestPoller{
		Users:  settingsRepo,
		Ingest: ingestSvc,
		Locker: redisCache,
		Logger: l,
	}
	if err := poller.Start(context.Background()); err != nil {
		log.Fatalf("ingest poller error: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:     handlers.NewAuthHandler(authSvc),
		Settings: handlers.NewSettingsHandler(settingsSvc),
		Agents:   handlers.NewAgentHandler(agentSvc),
		Calls:    handlers.NewCallsHandler(agentSvc, ingestSvc),
		Interest: handlers.NewInterestHandler(interestSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
