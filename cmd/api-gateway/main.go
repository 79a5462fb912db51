package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hadirly/hadirly-api/api/swagger"
	"github.com/hadirly/hadirly-api/internal/handler"
	"github.com/hadirly/hadirly-api/internal/middleware"
	"github.com/hadirly/hadirly-api/internal/models"
	"github.com/hadirly/hadirly-api/internal/repository"
	"github.com/hadirly/hadirly-api/internal/service"
	"github.com/hadirly/hadirly-api/pkg/cache"
	"github.com/hadirly/hadirly-api/pkg/config"
	"github.com/hadirly/hadirly-api/pkg/database"
	"github.com/hadirly/hadirly-api/pkg/logger"
	corsmiddleware "github.com/hadirly/hadirly-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hadirly/hadirly-api/pkg/middleware/requestid"
)

// @title Hadirly API
// @version 1.0.0
// @description Offline-first attendance sync server
// @BasePath /api
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	var notifySvc *service.NotifyService
	if cfg.Cache.Enabled || cfg.Notify.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()

		if cfg.Cache.Enabled {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
		}
		if cfg.Notify.Enabled {
			notifySvc = service.NewNotifyService(redisClient, cfg.Notify.Channel, logr)
		}
	}

	notifySvc.Start(context.Background())
	defer notifySvc.Stop()

	classRepo := repository.NewClassRepository(db)
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	validate := validator.New()

	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret})
	syncSvc := service.NewSyncService(classRepo, userRepo, studentRepo, attendanceRepo, noteRepo, notifySvc, cacheSvc, metricsSvc, logr)
	studentSvc := service.NewStudentService(studentRepo, notifySvc, validate, logr)
	classSvc := service.NewClassService(classRepo, cacheSvc, notifySvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, logr)
	noteSvc := service.NewNoteService(noteRepo, logr)

	syncHandler := handler.NewSyncHandler(syncSvc, logr)
	studentHandler := handler.NewStudentHandler(studentSvc)
	classHandler := handler.NewClassHandler(classSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	noteHandler := handler.NewNoteHandler(noteSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
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
	api.Use(middleware.JWT(authSvc))
	{
		api.POST("/sync", syncHandler.Push)
		api.GET("/sync", syncHandler.Pull)

		api.GET("/students", studentHandler.List)
		api.POST("/students", studentHandler.Create)
		api.GET("/students/:id", studentHandler.Get)
		api.PUT("/students/:id", studentHandler.Update)
		api.DELETE("/students/:id", studentHandler.Delete)
		api.GET("/students/:id/notes", noteHandler.ListByStudent)

		api.GET("/classes", classHandler.List)
		api.POST("/classes", classHandler.Create)
		api.GET("/classes/:id", classHandler.Get)
		api.GET("/classes/:id/managers", classHandler.Managers)

		admin := api.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.POST("/classes/:id/managers", classHandler.AssignManager)
			admin.DELETE("/classes/:id/managers/:userId", classHandler.RemoveManager)
		}

		api.GET("/attendance", attendanceHandler.List)
		api.GET("/attendance/export", attendanceHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
