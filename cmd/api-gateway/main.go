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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/derece-app/derece-api/api/swagger"
	"github.com/derece-app/derece-api/internal/handler"
	"github.com/derece-app/derece-api/internal/middleware"
	"github.com/derece-app/derece-api/internal/oracle"
	"github.com/derece-app/derece-api/internal/repository"
	"github.com/derece-app/derece-api/internal/service"
	"github.com/derece-app/derece-api/pkg/cache"
	"github.com/derece-app/derece-api/pkg/config"
	"github.com/derece-app/derece-api/pkg/database"
	"github.com/derece-app/derece-api/pkg/logger"
	corsmiddleware "github.com/derece-app/derece-api/pkg/middleware/cors"
	reqidmiddleware "github.com/derece-app/derece-api/pkg/middleware/requestid"
)

// @title Derece API
// @version 0.1.0
// @description Schedule assistant and coaching API for YKS students
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Coach.SummaryCacheTTL, logr, cfg.Coach.SummaryCacheOn)
		defer cacheRepo.Close() //nolint:errcheck
	}

	loc, err := time.LoadLocation(cfg.Assistant.Timezone)
	if err != nil {
		logr.Sugar().Warnw("invalid timezone, falling back to UTC", "timezone", cfg.Assistant.Timezone)
		loc = time.UTC
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gemini, err := oracle.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout, logr)
	if err != nil {
		logr.Sugar().Fatalw("gemini client failed", "error", err)
	}
	defer gemini.Close() //nolint:errcheck

	programRepo := repository.NewProgramRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	enrichRepo := repository.NewEnrichmentRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	validate := validator.New()
	topicSvc := service.NewTopicService(topicRepo, enrichRepo, logr)
	plannerSvc := service.NewPlannerService(programRepo, entryRepo, topicSvc, loc, logr)
	programSvc := service.NewProgramService(plannerSvc, entryRepo, cacheSvc, logr)
	assistantSvc := service.NewAssistantService(plannerSvc, gemini, messageRepo, cacheSvc, metricsSvc, validate, cfg.Assistant.HistoryLimit, logr)
	coachSvc := service.NewCoachService(programRepo, entryRepo, gemini, messageRepo, cacheSvc, metricsSvc, validate, cfg.Assistant.HistoryLimit, cfg.Coach.SummaryCacheTTL, loc, logr)
	authSvc := service.NewAuthService(cfg.JWT.Secret)

	assistantHandler := handler.NewAssistantHandler(assistantSvc)
	coachHandler := handler.NewCoachHandler(coachSvc)
	programHandler := handler.NewProgramHandler(programSvc, plannerSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))
	{
		if cfg.Assistant.Enabled {
			api.POST("/assistant/messages", assistantHandler.SendMessage)
			api.GET("/assistant/messages", assistantHandler.History)
		}
		if cfg.Coach.Enabled {
			api.POST("/coach/messages", coachHandler.SendMessage)
			api.GET("/coach/messages", coachHandler.Transcript)
		}
		api.GET("/program/entries", programHandler.EntriesByDate)
		api.GET("/program/week", programHandler.EntriesForWeek)
		api.GET("/program/dates", programHandler.ScheduledDates)
		api.PATCH("/program/entries/:id/complete", programHandler.SetCompleted)
		api.POST("/program/reset", programHandler.Reset)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
