package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/vbbs/blood-bank-api/api/swagger"
	"github.com/vbbs/blood-bank-api/internal/bootstrap"
	"github.com/vbbs/blood-bank-api/internal/handler"
	"github.com/vbbs/blood-bank-api/internal/middleware"
	"github.com/vbbs/blood-bank-api/internal/models"
	"github.com/vbbs/blood-bank-api/internal/repository"
	"github.com/vbbs/blood-bank-api/internal/service"
	"github.com/vbbs/blood-bank-api/pkg/cache"
	"github.com/vbbs/blood-bank-api/pkg/config"
	"github.com/vbbs/blood-bank-api/pkg/database"
	"github.com/vbbs/blood-bank-api/pkg/logger"
	corsmiddleware "github.com/vbbs/blood-bank-api/pkg/middleware/cors"
	reqidmiddleware "github.com/vbbs/blood-bank-api/pkg/middleware/requestid"
)

// @title Blood Bank Registry API
// @version 1.0.0
// @description Donors, blood inventory, and blood requests with role-based access
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, login rate limiting disabled", zap.Error(err))
		}
	}

	validate := validator.New()

	adminRepo := repository.NewAdminRepository(db)
	donorRepo := repository.NewDonorRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	requestRepo := repository.NewRequestRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(adminRepo, donorRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	inventorySvc := service.NewInventoryService(inventoryRepo, metricsSvc, validate, logr)
	requestSvc := service.NewRequestService(requestRepo, metricsSvc, validate, logr)
	donorSvc := service.NewDonorService(donorRepo, validate, logr)
	reportSvc := service.NewReportService(donorRepo, inventoryRepo, logr)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	seeder := bootstrap.NewSeeder(adminRepo, inventoryRepo, donorRepo, cfg.Seed, logr)
	if err := seeder.Run(seedCtx); err != nil {
		cancel()
		logr.Sugar().Fatalw("failed to seed database", "error", err)
	}
	cancel()

	authHandler := handler.NewAuthHandler(authSvc)
	donorHandler := handler.NewDonorHandler(donorSvc)
	inventoryHandler := handler.NewInventoryHandler(inventorySvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login",
		middleware.LoginRateLimit(redisClient, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow, logr),
		authHandler.Login)
	api.POST("/donors", donorHandler.Register)

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))

	secured.GET("/auth/me", authHandler.Me)
	secured.GET("/inventory", inventoryHandler.List)
	secured.POST("/requests", requestHandler.Submit)

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	secured.GET("/donors", adminOnly, donorHandler.List)
	secured.GET("/donors/group/:group", adminOnly, donorHandler.ListByGroup)
	secured.PATCH("/donors/:id/availability", middleware.RBAC(string(models.RoleAdmin), middleware.Self), donorHandler.SetAvailability)
	secured.POST("/inventory/restock", adminOnly, inventoryHandler.Restock)
	secured.POST("/inventory/deduct", adminOnly, inventoryHandler.Deduct)
	secured.GET("/requests", adminOnly, requestHandler.List)
	secured.POST("/requests/:id/approve", adminOnly, requestHandler.Approve)
	secured.POST("/requests/:id/reject", adminOnly, requestHandler.Reject)
	secured.GET("/reports/donors", adminOnly, reportHandler.Donors)
	secured.GET("/reports/inventory", adminOnly, reportHandler.Inventory)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
