package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"carewatch/internal/config"
	"carewatch/internal/service"
	"carewatch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("starting carewatch",
		zap.String("trigger_mode", cfg.TriggerMode),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.String("redis_addr", cfg.Redis.Addr))

	svc, err := service.New(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize service", zap.Error(err))
	}

	if err := svc.Start(); err != nil {
		log.Fatal("failed to start service", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutdown signal received", zap.String("signal", sig.String()))

	svc.Stop()
}
