package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"metalstats-service/internal/bootstrap"
	"metalstats-service/internal/infrastructure/logx"

	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	once := flag.Bool("once", false, "run a single update cycle and exit")
	flag.Parse()

	logger := logx.L()
	cfg := bootstrap.ProvideConfig()

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

	svc, err := bootstrap.ProvideService(cfg, bootstrap.ProvideRepos(db),
		bootstrap.ProvideSpotProvider(cfg),
		bootstrap.ProvideFixingProvider(cfg),
		fixCache, logger)
	if err != nil {
		logger.Fatal("bootstrap service", zap.Error(err))
	}

	runCycle := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := svc.RunPipeline(ctx); err != nil {
			logger.Error("update cycle failed", zap.Error(err))
			return
		}
		logger.Info("update cycle finished")
	}

	if *once {
		runCycle()
		return
	}

	hour, minute, err := bootstrap.ParseUpdateAt(cfg.UpdateAt)
	if err != nil {
		logger.Fatal("bad schedule", zap.Error(err))
	}

	sched := gocron.NewScheduler(time.UTC)
	if _, err := sched.Every(1).Day().At(fmt.Sprintf("%02d:%02d", hour, minute)).Do(runCycle); err != nil {
		logger.Fatal("schedule update job", zap.Error(err))
	}
	sched.StartAsync()
	logger.Info("updater started", zap.String("daily_at", cfg.UpdateAt))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sched.Stop()
	logger.Info("updater stopped")
}
