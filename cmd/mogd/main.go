package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mog/internal/mog"
	moghttp "mog/internal/mog/adapter/http"
	"mog/internal/mog/config"
	"mog/internal/mog/usecase"
	"mog/internal/shared/logger"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// ServerConfig is the process-level configuration of mogd. Store settings live in config.Config.
type ServerConfig struct {
	Host         string `env:"SERVER_HOST" envDefault:"localhost"`
	Port         string `env:"SERVER_PORT" envDefault:"3000"`
	AllowOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	JWTSecretKey string `env:"JWT_SECRET_KEY"`
	JWTIssuer    string `env:"JWT_ISSUER"`
	// LogBackend selects where operation lines go: logrus or zap.
	LogBackend string `env:"LOG_BACKEND" envDefault:"logrus"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"json"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLoggerWithConfig(serverCfg.LogLevel, serverCfg.LogFormat)

	mogCfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load mog configuration: %v", err)
	}

	sink, syncSink, err := newSink(serverCfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to create operation log sink: %v", err)
	}
	defer syncSink()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	module, err := mog.NewModule(ctx, mogCfg, appLogger, usecase.WithSink(sink))
	if err != nil {
		log.Fatalf("Failed to open connection: %v", err)
	}
	if err := module.Connection().Ping(ctx); err != nil {
		appLogger.Warnf("MongoDB is not reachable yet: %v", err)
	} else {
		appLogger.Infof("Connected to database %s", module.Connection().DatabaseName())
	}

	appCfg := moghttp.AppConfig{AllowOrigins: serverCfg.AllowOrigins}
	if serverCfg.JWTSecretKey != "" {
		guard, err := moghttp.NewTokenGuard(serverCfg.JWTSecretKey, serverCfg.JWTIssuer)
		if err != nil {
			log.Fatalf("Failed to create token guard: %v", err)
		}
		appCfg.Guard = guard
		appLogger.Info("Bearer token guard enabled")
	}
	app := moghttp.NewApp(module.Handler(), appLogger, appCfg)

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			appLogger.Errorf("Server failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}

	stopCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := module.Stop(stopCtx); err != nil {
		appLogger.Errorf("Failed to stop cleanly: %v", err)
	}
}

// newSink picks the operation log destination. The returned func flushes it.
func newSink(cfg *ServerConfig, appLogger logger.Logger) (logger.Sink, func(), error) {
	switch cfg.LogBackend {
	case "zap":
		zcfg := zap.NewProductionConfig()
		if logger.ParseLevel(cfg.LogLevel) == logger.LevelDebug {
			zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		zl, err := zcfg.Build()
		if err != nil {
			return nil, nil, err
		}
		return logger.NewZapSink(zl.Named("mog")), func() { _ = zl.Sync() }, nil
	case "", "logrus":
		return logger.NewLogrusSink(appLogger.WithComponent("mog")), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown LOG_BACKEND %q", cfg.LogBackend)
	}
}
