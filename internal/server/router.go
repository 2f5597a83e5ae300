// Package server assembles the HTTP router and runs it until the context is
// cancelled.
package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"quote-backend/internal/config"
	"quote-backend/internal/handlers"
	"quote-backend/internal/middleware"
	"quote-backend/internal/models"
	"quote-backend/internal/pricing"
	"quote-backend/internal/services"
)

type Deps struct {
	Analysis *services.AnalysisService
	Orders   *services.OrderService
	Pricing  *pricing.Table
	Limiter  *middleware.RateLimiter
	Log      *slog.Logger
}

func NewRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())

	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	analyzeHandler := handlers.NewAnalyzeHandler(deps.Analysis, deps.Log)
	ordersHandler := handlers.NewOrdersHandler(deps.Orders, deps.Log)
	pricingHandler := handlers.NewPricingHandler(deps.Pricing)

	router.GET("/health", handlers.HealthHandler)
	router.GET("/pricing", pricingHandler.GetPricing)

	// both endpoints draw from the same per-client budget
	quote := router.Group("/", limiter.Middleware(), middleware.BodyLimit(cfg.MaxUploadBytes))
	quote.POST("/analyze-document", analyzeHandler.AnalyzeDocument)
	quote.POST("/submit-order", ordersHandler.SubmitOrder)

	if cfg.StaticDir != "" {
		mountStatic(router, cfg.StaticDir, deps.Log)
	}
	return router, nil
}

func mountStatic(router *gin.Engine, dir string, log *slog.Logger) {
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		log.Warn("static directory has no index.html", "dir", dir, "error", err)
	}
	files := http.FileServer(gin.Dir(dir, false))

	router.GET("/", func(c *gin.Context) {
		c.File(index)
	})
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Not found."})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
}
