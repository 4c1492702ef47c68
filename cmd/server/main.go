package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"construction_inventory_backend/internal/config"
	"construction_inventory_backend/internal/database"
	"construction_inventory_backend/internal/jobs"
	"construction_inventory_backend/internal/middleware"
	"construction_inventory_backend/internal/repositories"
	"construction_inventory_backend/internal/router"
	"construction_inventory_backend/internal/services"
	"construction_inventory_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		utils.InitLogger("info", "console")
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize Logger
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
}

// run owns every resource with cleanup so deferred closes happen before main exits.
func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	utils.LogInfo("Database initialized", map[string]interface{}{"host": cfg.DB.Host, "name": cfg.DB.Name})

	if cfg.RunMigrations {
		if err := database.RunMigrations(db, cfg.DB.Name); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	tokens, err := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return fmt.Errorf("create token issuer: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", utils.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Location", "Content-Disposition", utils.RequestIDHeader}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	var metrics *middleware.Metrics
	if cfg.MetricsEnabled {
		metrics = middleware.NewMetrics()
		engine.Use(metrics.Middleware())
		engine.GET("/metrics", metrics.Handler())
	}

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Setup all application routes
	router.Setup(engine, db, tokens)

	var reporter *jobs.LowStockReporter
	if cfg.LowStockCronSpec != "" && cfg.LowStockCronSpec != "off" {
		dashboard := services.NewDashboardService(repositories.NewDashboardRepository(db), repositories.NewTransactionRepository(db))
		reporter = jobs.NewLowStockReporter(cfg.LowStockCronSpec, dashboard)
		if metrics != nil {
			metrics.Registry().MustRegister(reporter.Collector())
		}
		if err := reporter.Start(); err != nil {
			return fmt.Errorf("schedule low stock report: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "api": "/api/v1"})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
	if reporter != nil {
		reporter.Stop()
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve http: %w", err)
	default:
	}
	utils.LogInfo("Server exited")
	return nil
}
