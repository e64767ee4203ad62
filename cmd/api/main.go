package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acharyahabba/vtufest-api/internal/handler"
	"github.com/acharyahabba/vtufest-api/internal/middleware"
	"github.com/acharyahabba/vtufest-api/internal/repository"
	"github.com/acharyahabba/vtufest-api/internal/service"
	"github.com/acharyahabba/vtufest-api/pkg/cache"
	"github.com/acharyahabba/vtufest-api/pkg/config"
	"github.com/acharyahabba/vtufest-api/pkg/database"
	"github.com/acharyahabba/vtufest-api/pkg/logger"
	corsmiddleware "github.com/acharyahabba/vtufest-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acharyahabba/vtufest-api/pkg/middleware/requestid"
	"github.com/acharyahabba/vtufest-api/pkg/response"
)

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
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		redisClient = nil
	}

	catalog := repository.NewEventCatalog()
	collegeRepo := repository.NewCollegeRepository(db)
	userRepo := repository.NewUserRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	finalRepo := repository.NewFinalRepository(db, catalog)
	dashboardRepo := repository.NewDashboardRepository(db, catalog)

	var cacheStore service.CacheStore
	if redisClient != nil {
		cacheStore = repository.NewCacheRepository(redisClient)
	}
	dashboardCache := service.NewDashboardCache(cacheStore, cfg.Dashboard, logr)

	auditWriter := service.NewAsyncAuditWriter(userRepo, logr)
	auditWriter.Start(context.Background())
	defer auditWriter.Stop()

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, cfg.JWT, logr)
	reviewSvc := service.NewReviewService(applicationRepo, auditWriter, dashboardCache, cfg.Quota, logr)
	assignmentSvc := service.NewAssignmentService(participationRepo, auditWriter, dashboardCache, logr)
	finalSvc := service.NewFinalApprovalService(finalRepo, auditWriter, dashboardCache, logr)
	dashboardSvc := service.NewDashboardService(collegeRepo, dashboardRepo, dashboardCache, metricsSvc, cfg.Quota, logr)
	exportSvc := service.NewExportService(finalRepo, collegeRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc, metricsSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc, metricsSvc)
	finalHandler := handler.NewFinalApprovalHandler(finalSvc, metricsSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metricsHandler.Expose)

	api := r.Group(cfg.APIPrefix)
	api.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc, cfg.Auth.LoginRedirectURL))
	authed.Use(middleware.RequireReviewer())
	authed.POST("/review-applications", reviewHandler.Dispatch)
	authed.POST("/approved-students", assignmentHandler.Dispatch)
	authed.POST("/final-approval", finalHandler.Submit)
	authed.POST("/dashboard", dashboardHandler.Show)
	if cfg.Exports.Enabled {
		authed.GET("/exports/master-list", exportHandler.MasterList)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
