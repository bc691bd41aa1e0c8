package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/asin-analyzer/internal/api/handlers"
	"github.com/codyseavey/asin-analyzer/internal/config"
	"github.com/codyseavey/asin-analyzer/internal/web"
)

func SetupRouter(cfg config.Config, analyzer handlers.Analyzer, keepa handlers.QuotaReporter) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := gin.Default()
	router.Use(RequestID(), Metrics())

	// CORS configuration - allow origins from environment or use defaults
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	corsConfig.AllowCredentials = false // Explicitly set
	router.Use(cors.New(corsConfig))

	templates, err := web.Templates()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	router.SetHTMLTemplate(templates)
	router.StaticFS("/static", web.Static())

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(analyzer)
	statusHandler := handlers.NewStatusHandler(keepa)

	// Report pages
	router.GET("/", analysisHandler.Index)
	router.POST("/analyze", analysisHandler.AnalyzeForm)

	// API routes
	api := router.Group("/api")
	{
		products := api.Group("/products")
		{
			products.GET("/:asin/summary", analysisHandler.GetSummary)
		}

		keepaGroup := api.Group("/keepa")
		{
			keepaGroup.GET("/status", statusHandler.GetKeepaStatus)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Redirect(http.StatusFound, "/")
	})

	return router
}
