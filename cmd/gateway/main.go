package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/authflow/session-gateway/api/handler"
	"github.com/authflow/session-gateway/internal/config"
	auditInfra "github.com/authflow/session-gateway/internal/infrastructure/audit"
	"github.com/authflow/session-gateway/internal/infrastructure/monitor"
	redisInfra "github.com/authflow/session-gateway/internal/infrastructure/redis"
	"github.com/authflow/session-gateway/internal/middleware"
	"github.com/authflow/session-gateway/internal/router"
	"github.com/authflow/session-gateway/internal/services"
	"github.com/authflow/session-gateway/internal/services/lifecycle"
	"github.com/authflow/session-gateway/pkg/httpcontext"
	"github.com/authflow/session-gateway/pkg/logger"
	redisRepo "github.com/authflow/session-gateway/repository/redis"
	sessionUC "github.com/authflow/session-gateway/usecase/session"
	validatorUC "github.com/authflow/session-gateway/usecase/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	auditStore, err := auditInfra.Open(cfg.Audit.Path, "audit")
	if err != nil {
		zapLogger.Fatal("failed to open audit store", zap.Error(err))
	}
	manager.Register("audit_store", func(ctx context.Context) error {
		return auditStore.Close()
	})

	mon := monitor.New(redisClient, auditStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	recorder := services.NewAuditRecorder(auditStore, zapLogger, services.RecorderConfig{
		QueueSize:       cfg.Audit.QueueSize,
		SummaryInterval: cfg.Audit.SummaryInterval,
		Retention:       time.Duration(cfg.Audit.RetentionHours) * time.Hour,
	})
	recorder.Start()
	manager.Register("audit_recorder", func(ctx context.Context) error {
		recorder.Stop(ctx)
		return nil
	})

	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL, cfg.Session.UserIDCacheTTL)

	sessions := sessionUC.New(sessionRepo, recorder, zapLogger, cfg.Session.TTL)
	validator := validatorUC.New(sessionRepo, recorder, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	proxy, err := apiHandler.NewProxyHandler(cfg.Gateway.BackendURL, cfg.Context.RequestTimeout, zapLogger)
	if err != nil {
		zapLogger.Fatal("invalid backend configuration", zap.Error(err))
	}

	handlers := router.Handlers{
		Session: apiHandler.NewSessionHandler(sessions, ctxAdapter, zapLogger, cfg.Session.CookieName),
		Proxy:   proxy,
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	sessionGuard := middleware.SessionGuard(middleware.GuardConfig{
		CookieName: cfg.Session.CookieName,
		AuthURL:    cfg.Gateway.AuthURL,
	}, validator, sessions, ctxAdapter, zapLogger)
	serviceToken := middleware.ServiceToken(cfg.Gateway.ServiceSecret, zapLogger)

	r := router.New(handlers, cfg.Gateway.AuthURL, sessionGuard, serviceToken)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("gateway started",
			zap.String("address", cfg.Address()),
			zap.String("backend", cfg.Gateway.BackendURL))
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
