package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"metalstats-service/internal/bootstrap"
	infraconfig "metalstats-service/internal/infrastructure/config"
	httpserver "metalstats-service/internal/infrastructure/http"
	"metalstats-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	cfg := bootstrap.ProvideConfig()
	addr := ":" + cfg.Port

	db, closeDB, err := bootstrap.ProvideDB(logger, cfg)
	if err != nil {
		logger.Fatal("bootstrap db", zap.Error(err))
	}
	defer closeDB()

	fixCache, closeCache, err := bootstrap.ProvideFixingCache(cfg)
	if err != nil {
		logger.Fatal("bootstrap fixing cache", zap.Error(err))
	}
	defer closeCache()

	repos := bootstrap.ProvideRepos(db)
	svc, err := bootstrap.ProvideService(cfg, repos,
		bootstrap.ProvideSpotProvider(cfg),
		bootstrap.ProvideFixingProvider(cfg),
		fixCache, logger)
	if err != nil {
		logger.Fatal("bootstrap service", zap.Error(err))
	}

	srv := httpserver.NewServer(svc).WithPing(db.Ping)
	mux := httpserver.NewRouter(srv)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
