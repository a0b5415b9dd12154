package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/config"
	authHandler "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/handler/auth"
	groupHandler "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/handler/group"
	habitHandler "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/handler/habit"
	notificationHandler "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/handler/notification"
	userHandler "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/handler/user"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/middleware"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/repository/postgres"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/router"
	authService "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/service/auth"
	groupService "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/service/group"
	habitService "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/service/habit"
	notificationService "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/service/notification"
	userService "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/service/user"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/auth"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/logger"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/messaging"
	redisBroker "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/messaging/redis"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/metrics"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/sse"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	if err := model.RegisterValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	groupRepo := postgres.NewGroupRepository(base)
	habitRepo := postgres.NewHabitRepository(base)
	notificationRepo := postgres.NewNotificationRepository(base)

	// Shared infrastructure
	m := metrics.NewMetrics("watcher")
	registry := sse.NewRegistry()

	var broker messaging.Broker
	if cfg.Redis.Enabled {
		broker, err = redisBroker.NewRedisBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, appLogger.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	tokens := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	// Services
	notificationSvc := notificationService.NewService(notificationRepo, registry, broker, appLogger, m)
	userSvc := userService.NewService(userRepo, habitRepo)
	groupSvc := groupService.NewService(groupRepo, userRepo, habitRepo, notificationRepo, notificationSvc, m)
	habitSvc := habitService.NewService(habitRepo, userRepo)
	authSvc := authService.NewService(userRepo, tokens)

	// Handlers
	authH := authHandler.NewHandler(authSvc)
	userH := userHandler.NewHandler(userSvc)
	groupH := groupHandler.NewHandler(groupSvc)
	habitH := habitHandler.NewHandler(habitSvc)
	notificationH := notificationHandler.NewHandler(notificationSvc, registry, m)

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	routerConfig := router.RouterConfig{
		CORSConfig: middleware.CORSConfig{
			AllowOrigins:     cfg.Security.AllowedOrigins,
			AllowMethods:     middleware.DefaultCORSConfig().AllowMethods,
			AllowHeaders:     middleware.DefaultCORSConfig().AllowHeaders,
			ExposeHeaders:    middleware.DefaultCORSConfig().ExposeHeaders,
			AllowCredentials: true,
			MaxAge:           86400,
		},
		Timeout: middleware.DefaultTimeoutConfig(),
	}
	if cfg.RateLimit.Enabled {
		routerConfig.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerConfig.RateBurst = cfg.RateLimit.Burst
	}
	if cfg.Monitoring.PrometheusEnabled {
		routerConfig.MetricsPath = cfg.Monitoring.MetricsPath
	}

	r := router.NewRouter(routerConfig, m, authMiddleware, authH, userH, groupH, habitH, notificationH)
	r.Setup()

	// No global write timeout: the notification stream endpoint holds
	// its response open indefinitely.
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     r.Engine(),
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
