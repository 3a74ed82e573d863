package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"cultivation-service/internal/ai/gemini"
	"cultivation-service/internal/config"
	"cultivation-service/internal/database/minio"
	"cultivation-service/internal/database/postgres"
	"cultivation-service/internal/database/redis"
	"cultivation-service/internal/event"
	"cultivation-service/internal/handlers"
	"cultivation-service/internal/repository"
	"cultivation-service/internal/services"
	"cultivation-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func setupLogging(logDir string) (*os.File, error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
		}
	}()

	fmt.Println("Log directory:", logDir)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	if absPath, err := filepath.Abs(logFile); err == nil {
		fmt.Printf("Logging to: %s\n", absPath)
	}

	// slog's default handler writes through the log package.
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	cfg := config.New()

	logFile, err := setupLogging(cfg.LogDir)
	if err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Connecting to PostgreSQL with: host=%s, port=%s, user=%s, dbname=%s",
		cfg.PostgresCfg.Host, cfg.PostgresCfg.Port, cfg.PostgresCfg.Username, cfg.PostgresCfg.DBname)
	db, err := postgres.ConnectWithRetry(ctx, cfg.PostgresCfg, 10*time.Second)
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	defer db.Close()

	// Optional backends. Each interface below stays nil unless its backend
	// connected, so services can tell "absent" from "present".
	var (
		cooldowns     repository.ICooldownRepository = repository.NewMemoryCooldownRepository()
		analysisCache repository.IAnalysisCacheRepository
		objectStore   services.ObjectStore
		generator     gemini.Generator
		publisher     event.Publisher
		pubHealth     handlers.PublisherHealth
	)

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		log.Printf("Redis unavailable, using in-memory cooldowns and no analysis cache: %v", err)
	} else {
		defer redisClient.Close()
		cooldowns = repository.NewCooldownRepository(redisClient.GetClient())
		analysisCache = repository.NewAnalysisCacheRepository(redisClient.GetClient())
	}

	minioClient, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		log.Printf("MinIO unavailable, image uploads disabled: %v", err)
	} else {
		objectStore = minioClient
	}

	geminiClients, err := gemini.NewClientsFromKeys(ctx, cfg.GeminiAPICfg.APIKeys, cfg.GeminiAPICfg.FlashName, cfg.GeminiAPICfg.ProName)
	if err != nil {
		log.Printf("Gemini unavailable, AI analysis disabled: %v", err)
	} else {
		defer func() {
			for _, c := range geminiClients {
				if closer, ok := c.(io.Closer); ok {
					closer.Close()
				}
			}
		}()
		generator = gemini.NewGeminiClientSelector(geminiClients)
		log.Printf("Gemini ready with %d API keys", len(geminiClients))
	}

	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("RabbitMQ unavailable, push notifications disabled: %v", err)
	} else {
		defer rabbitConn.Close()
		notificationPublisher := event.NewNotificationPublisher(rabbitConn)
		publisher = notificationPublisher
		pubHealth = notificationPublisher
	}

	// repositories
	cultivationRepository := repository.NewCultivationRepository(db)
	eventRepository := repository.NewEventRepository(db)
	imageRepository := repository.NewImageRepository(db)
	notificationRepository := repository.NewNotificationRepository(db)
	preferencesRepository := repository.NewNotificationPreferencesRepository(db)

	// services
	cultivationService := services.NewCultivationService(cultivationRepository)
	eventService := services.NewEventService(cultivationRepository, eventRepository)
	imageService := services.NewImageService(cultivationRepository, eventRepository, imageRepository, objectStore, minio.Storage.CultivationImages)
	analysisService := services.NewAnalysisService(cultivationRepository, eventRepository, generator, analysisCache, cfg.RedisCfg.AnalysisCacheTTL)
	dashboardService := services.NewDashboardService(cultivationRepository, eventRepository)
	notificationService := services.NewNotificationService(notificationRepository, preferencesRepository)
	notificationRulesService := services.NewNotificationRulesService(
		services.DefaultRules(),
		cultivationRepository,
		eventRepository,
		notificationRepository,
		preferencesRepository,
		cooldowns,
		publisher,
	)

	// handlers
	r := gin.Default()
	auth := handlers.NewAuthMiddleware(cfg.JWTSecret).RequireAuth()

	handlers.NewHealthHandler(db, pubHealth).RegisterRoutes(r)
	handlers.NewCalculatorHandler().RegisterRoutes(r)
	handlers.NewCultivationHandler(cultivationService, eventService, imageService).RegisterRoutes(r, auth)
	handlers.NewDashboardHandler(dashboardService).RegisterRoutes(r, auth)
	handlers.NewAIHandler(analysisService).RegisterRoutes(r, auth)
	handlers.NewNotificationHandler(notificationService).RegisterRoutes(r, auth)

	// background notification rules
	var workerWg sync.WaitGroup
	pool := worker.NewWorkingPool(cfg.WorkerCfg.NumWorkers, cfg.WorkerCfg.QueueSize)
	workerWg.Add(1)
	go pool.Start(ctx, &workerWg)

	scheduler := worker.NewJobScheduler("notification-rules", cfg.WorkerCfg.RulesInterval, pool)
	scheduler.RunOnStart = true
	scheduler.AddJob(worker.NewNotificationRulesJob(notificationRulesService, pool, time.Now))
	go scheduler.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting cultivation-service on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down cultivation-service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	workerWg.Wait()
	log.Println("cultivation-service stopped")
}
