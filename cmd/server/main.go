package main

import (
	"context"
	"log"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/boxtick/backend/api/handler"
	"github.com/boxtick/backend/internal/config"
	"github.com/boxtick/backend/internal/infrastructure/monitor"
	pgInfra "github.com/boxtick/backend/internal/infrastructure/postgres"
	redisInfra "github.com/boxtick/backend/internal/infrastructure/redis"
	"github.com/boxtick/backend/internal/infrastructure/spool"
	"github.com/boxtick/backend/internal/middleware"
	"github.com/boxtick/backend/internal/router"
	"github.com/boxtick/backend/internal/services"
	"github.com/boxtick/backend/internal/services/lifecycle"
	"github.com/boxtick/backend/pkg/httpcontext"
	"github.com/boxtick/backend/pkg/logger"
	"github.com/boxtick/backend/pkg/timeguard"
	"github.com/boxtick/backend/repository"
	"github.com/boxtick/backend/repository/postgres"
	redisRepo "github.com/boxtick/backend/repository/redis"
	authUC "github.com/boxtick/backend/usecase/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	var redisClient *redislib.Client
	if cfg.Auth.SessionBackend == config.SessionBackendRedis {
		redisClient, err = redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	}

	auditSpool, err := spool.Open(cfg.Audit.Path)
	if err != nil {
		zapLogger.Fatal("failed to open audit spool", zap.Error(err))
	}
	manager.Register("audit_spool", func(ctx context.Context) error {
		return auditSpool.Close()
	})

	mon := monitor.New(pool, redisClient, auditSpool, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	clientRepo := postgres.NewClientRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)

	var sessionRepo repository.SessionRepository
	if cfg.Auth.SessionBackend == config.SessionBackendRedis {
		sessionRepo = redisRepo.NewSessionRepository(redisClient)
	} else {
		sessionRepo = postgres.NewSessionRepository(pool)
	}

	auditProcessor := services.NewAuditProcessor(
		auditSpool,
		mon,
		auditRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Audit.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Audit.MaxRetry,
			Retention:  time.Duration(cfg.Audit.RetentionHours) * time.Hour,
		},
	)
	auditProcessor.Start()
	manager.Register("audit_processor", func(ctx context.Context) error {
		auditProcessor.Stop(ctx)
		return nil
	})

	auditTrail := services.NewAuditTrail(auditProcessor, zapLogger)
	guard := timeguard.New(cfg.Auth.ReplayWindow)
	authService := authUC.New(clientRepo, userRepo, sessionRepo, guard, zapLogger, authUC.WithAudit(auditTrail))

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authService, ctxAdapter, zapLogger),
		Client: apiHandler.NewClientHandler(authService, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	signedRequest := middleware.SignedRequest(authService, auditTrail, zapLogger)
	r := router.New(handlers, signedRequest)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
