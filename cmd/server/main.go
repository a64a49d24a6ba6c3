package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/onegreenvn/keyword-article-proxy/docs"
	"github.com/onegreenvn/keyword-article-proxy/internal/config"
	"github.com/onegreenvn/keyword-article-proxy/internal/database"
	"github.com/onegreenvn/keyword-article-proxy/internal/database/repository"
	"github.com/onegreenvn/keyword-article-proxy/internal/metrics"
	"github.com/onegreenvn/keyword-article-proxy/internal/router"
	"github.com/onegreenvn/keyword-article-proxy/internal/services"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/settings"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/wordpress"
	"github.com/onegreenvn/keyword-article-proxy/internal/utils"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Set Swagger base path dynamically
	docs.SwaggerInfo.BasePath = getEnv("BASE_PATH", "/")

	// Configure logging
	configureLogging()

	// Initialize Sentry
	if utils.InitSentry(os.Getenv("SENTRY_DSN"), getEnv("ENV", "development")) {
		defer sentry.Flush(2 * time.Second)
	}

	genCfg, err := config.GetGenerationConfig()
	if err != nil {
		logrus.Fatalf("Invalid generation configuration: %v", err)
	}

	// Article history: PostgreSQL when configured, in memory otherwise
	var articles repository.ArticleRepository
	if database.Configured() {
		db, err := database.InitDB()
		if err != nil {
			logrus.Fatalf("Failed to initialize database: %v", err)
		}
		defer database.Close(db)
		articles = repository.NewArticleRepository(db)
	} else {
		logrus.Info("DB_HOST not set, keeping article history in memory")
		articles = repository.NewMemoryArticleRepository(getEnvAsInt("ARTICLE_HISTORY_SIZE", 1000))
	}

	// Settings: shared Redis hash when configured, process memory otherwise
	var store settings.Store
	if redisCfg := config.GetRedisConfig(); redisCfg != nil {
		redisStore := settings.NewRedisStore(redisCfg.Addr, redisCfg.Password, redisCfg.DB, redisCfg.Key)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStore.Ping(pingCtx)
		cancel()
		if err != nil {
			logrus.Fatalf("Failed to connect to Redis at %s: %v", redisCfg.Addr, err)
		}
		defer redisStore.Close()
		logrus.Infof("Settings stored in Redis at %s", redisCfg.Addr)
		store = redisStore
	} else {
		store = settings.NewMemoryStore()
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	wpClient := wordpress.NewClient(nil)

	generationService := services.NewArticleGenerationService(
		store,
		services.NewDifyClient(nil),
		services.NewWordPressDispatcher(wpClient, genCfg.PublishTimeout),
		articles,
		genCfg,
		m,
	)

	// Initialize RabbitMQ service
	if services.RabbitMQConfigured() {
		rabbitMQService, err := services.NewRabbitMQService()
		if err != nil {
			logrus.Warnf("Failed to initialize RabbitMQ: %v", err)
		} else {
			logrus.Info("RabbitMQ service initialized")
			defer rabbitMQService.Close()
			generationService.SetNotifier(rabbitMQService)
		}
	}

	gin.SetMode(getEnv("GIN_MODE", gin.ReleaseMode))
	r := router.SetupRouter(router.Dependencies{
		Store:             store,
		Generator:         generationService,
		WordPress:         wpClient,
		Articles:          articles,
		Gatherer:          prometheus.DefaultGatherer,
		HeartbeatInterval: genCfg.HeartbeatInterval,
		CORSOrigins:       config.GetCORSOrigins(),
	})

	// Configure HTTP server. No WriteTimeout: generation streams stay open until every keyword ends.
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Server starting on port %s", port)
		logrus.Infof("API Health Check: http://localhost:%s/api/v1/health", port)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30))*time.Second)
	defer cancel()

	// Shutdown the server
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

func configureLogging() {
	logLevel := getEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if getEnv("LOG_FORMAT", "text") == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, fmt.Sprintf("%d", defaultValue))
	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return defaultValue
	}
	return value
}
