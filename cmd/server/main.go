// @title       Document Quote API
// @version     1.0.0
// @description Analyzes uploaded documents for a word and page count and forwards customer orders to the site operator by email.

// @host      localhost:8080
// @BasePath  /

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"quote-backend/internal/analyzer"
	"quote-backend/internal/config"
	"quote-backend/internal/logger"
	"quote-backend/internal/notify"
	"quote-backend/internal/pricing"
	"quote-backend/internal/server"
	"quote-backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.SetupLogger(cfg.Environment)
	slog.SetDefault(logg)

	// Set Gin mode
	if cfg.Environment == logger.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	logg.Info("configuration loaded",
		"environment", cfg.Environment,
		"notify_provider", cfg.NotifyProvider,
		"email_user_set", cfg.EmailUser != "",
		"email_pass_set", cfg.EmailPass != "",
		"site_email_set", cfg.SiteEmail != "",
		"gmail_oauth_set", cfg.GmailClientID != "" && cfg.GmailClientSecret != "" && cfg.GmailRefreshToken != "",
	)

	table, err := pricing.Load(cfg.PricingFile)
	if err != nil {
		logg.Error("failed to load pricing", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender, err := notify.New(ctx, cfg, logg)
	if err != nil {
		logg.Error("failed to initialize notification sender", "error", err)
		os.Exit(1)
	}

	router, err := server.NewRouter(cfg, server.Deps{
		Analysis: services.NewAnalysisService(analyzer.New(), table, logg),
		Orders:   services.NewOrderService(sender, cfg.SiteEmail, logg),
		Pricing:  table,
		Log:      logg,
	})
	if err != nil {
		logg.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	if err := server.Run(ctx, ":"+cfg.Port, router, logg); err != nil {
		logg.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
