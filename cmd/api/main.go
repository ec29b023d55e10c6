package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"court-admin/internal/app"
	"court-admin/internal/core/config"
	"court-admin/internal/core/logger"
	"court-admin/internal/core/server"
	"court-admin/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, cleanup := logger.New(logger.FromConfig(cfg.App, cfg.Log))
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()

	// 存储 + 服务（失败直接 Fatal）
	ctx := context.Background()
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("store open", zap.Error(err))
	}
	defer a.Close()

	if _, err := a.Seed(ctx, cfg, log); err != nil {
		log.Fatal("seed admin", zap.Error(err))
	}

	mode := "debug"
	if cfg.App.Env == "prod" {
		mode = "release"
	}
	r := router.NewAPIEngine(log, a.Services, router.Options{
		Mode:         mode,
		RPS:          cfg.Limits.RPS,
		Burst:        cfg.Limits.Burst,
		MaxInFlight:  cfg.Limits.MaxInFlight,
		MaxBodyBytes: cfg.Limits.MaxBodyMB << 20,
		Timeout:      time.Duration(cfg.Limits.RequestTimeout) * time.Second,
	})

	srv := server.New(cfg.App.HTTP, r)

	host := cfg.App.HTTP.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	base := fmt.Sprintf("http://%s:%d", host, cfg.App.HTTP.Port)
	log.Info("court admin api starting",
		zap.String("addr", srv.Addr),
		zap.String("store", cfg.Store.Backend),
		zap.String("health", base+"/api/health"),
		zap.String("api", base+"/api"),
	)

	sig, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Run(sig, srv, nil, 10*time.Second, log); err != nil {
		log.Error("api stopped with error", zap.Error(err))
		return
	}
	log.Info("api stopped gracefully")
}
