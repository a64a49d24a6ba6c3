package router

import (
	"net/http"
	"time"

	"github.com/onegreenvn/keyword-article-proxy/internal/database/repository"
	"github.com/onegreenvn/keyword-article-proxy/internal/handlers"
	"github.com/onegreenvn/keyword-article-proxy/internal/middleware"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/excel"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/settings"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/wordpress"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the services the HTTP surface is built on
type Dependencies struct {
	Store             settings.Store
	Generator         handlers.ArticleGenerator
	WordPress         *wordpress.Client
	Articles          repository.ArticleRepository
	Gatherer          prometheus.Gatherer
	HeartbeatInterval time.Duration
	CORSOrigins       []string
}

// SetupRouter configures the Gin router
func SetupRouter(deps Dependencies) *gin.Engine {
	// Create a new router
	r := gin.New()

	// Use middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Configure CORS
	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Cache-Control", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Generation-ID", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Create handlers with services
	settingsHandler := handlers.NewSettingsHandler(deps.Store)
	generationHandler := handlers.NewGenerationHandler(deps.Generator, deps.HeartbeatInterval)
	wordPressHandler := handlers.NewWordPressHandler(deps.WordPress)
	articleHandler := handlers.NewArticleHandler(deps.Articles, excel.NewExcelService())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logrus.Info("Swagger UI endpoint registered at /swagger/index.html")

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
	}

	// Settings
	r.GET("/settings", settingsHandler.GetSettings)
	r.POST("/settings", settingsHandler.SaveSettings)

	// Generation
	r.GET("/generate-articles", generationHandler.GenerateArticles)

	api := r.Group("/api")
	{
		api.POST("/post-to-wordpress", wordPressHandler.PostToWordPress)

		articles := api.Group("/articles")
		{
			articles.GET("", articleHandler.ListArticles)
			articles.GET("/export", articleHandler.ExportArticles)
		}
	}

	return r
}
