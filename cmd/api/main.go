// @title Escrow Clearing API
// @version 1.0
// @description Движок клиринга и автоматического выпуска эскроу
// @BasePath /
// @securityDefinitions.apikey ClearingSecret
// @in header
// @name X-Clearing-Secret

package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"escrowd/config"
	"escrowd/internal/clearing"
	"escrowd/internal/db"
	"escrowd/internal/handlers"
	"escrowd/internal/payout"
	"escrowd/internal/services"
	"escrowd/internal/store"

	docs "escrowd/docs"
)

func main() {
	// 1. Загружаем конфиг из .env / окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// 1.1 Определяем режим запуска (dev/prod)
	env := os.Getenv("APP_ENV")
	if env == "prod" || env == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 2. Открываем GORM-подключение
	gormDB, err := db.NewDB(cfg.DSN)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	// 3. Собираем движок клиринга
	st := store.NewGormStore(gormDB)
	policy := clearing.Policy{Durations: clearing.Durations{
		BusinessDays:   cfg.ClearingDaysBusiness,
		IndividualDays: cfg.ClearingDaysIndividual,
	}}
	provider := payout.NewRevolutClient(cfg.PayoutBaseURL, cfg.PayoutToken, cfg.PayoutAccountID, cfg.ExternalTimeout)
	archive, err := services.NewReportArchive(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
	if err != nil {
		log.Fatalf("report archive init failed: %v", err)
	}
	releaser := clearing.NewReleaser(st, provider, policy, cfg.BatchSize, cfg.ExternalTimeout).
		WithAudit(gormDB).
		WithArchive(archive)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		releaser = releaser.WithCache(services.NewCycleCache(rdb, 30))
	}

	// 4. Суточный планировщик выпуска
	sched := clearing.NewScheduler(releaser, cfg.ReleaseRunAt, 24*time.Hour)
	sched.Start()
	defer sched.Stop()

	docs.SwaggerInfo.BasePath = "/"

	// 5. Создаём Gin-роутер и регистрируем маршруты
	r := gin.Default()
	r.Use(cors.Default())
	r.GET("/health", handlers.Health(gormDB))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/")
	api.Use(handlers.TriggerAuth(cfg))
	api.POST("/clearing/release", handlers.RunClearing(releaser))
	api.GET("/clearing/cycles", handlers.ListCycles(gormDB))
	api.GET("/clearing/cycles/:id", handlers.GetCycle(gormDB, archive))
	api.POST("/escrows", handlers.CreateEscrow(st, policy))
	api.GET("/escrows", handlers.ListEscrows(gormDB))
	api.GET("/escrows/:id", handlers.GetEscrow(st))
	api.POST("/escrows/:id/hold", handlers.HoldEscrow(st))
	api.POST("/escrows/:id/release", handlers.ReleaseEscrow(releaser))
	api.GET("/notifications", handlers.ListNotifications(gormDB))
	api.GET("/ws/clearing/events", handlers.ClearingEventsWS())
	api.GET("/ws/notifications", handlers.NotificationsWS(gormDB))

	// 6. Запускаем сервер
	addr := ":" + cfg.Port
	log.Printf("listening on %s …", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
