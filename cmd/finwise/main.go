package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finwise/internal/advisor"
	"finwise/internal/backup"
	"finwise/internal/config"
	"finwise/internal/extract"
	apphttp "finwise/internal/http"
	applog "finwise/internal/log"
	"finwise/internal/storage"
	"finwise/internal/store"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var kv storage.KV
	switch cfg.DataBackend {
	case "sqlite":
		db, err := storage.OpenSQLite(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite backend", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		kv = db
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		kv = storage.NewMemory()
		logger.Warn("Initialized memory backend, data will not survive restarts")
	}

	st, err := store.Open(ctx, kv)
	if err != nil {
		logger.Error("Failed to load record store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Store close error", "error", err)
		}
	}()

	adv := advisor.New(cfg.AssistantDelay)
	scanner := extract.NewSimulated(cfg.ScanDelay)

	srv := apphttp.NewServer(":"+cfg.Port, st, adv, scanner, cfg.CacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	var scheduler *backup.Scheduler
	if cfg.BackupSchedule != "" {
		scheduler, err = backup.NewScheduler(cfg.BackupDir, cfg.BackupSchedule, cfg.BackupKeep, st)
		if err != nil {
			logger.Error("Failed to configure backups", "error", err)
			os.Exit(1)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting finwise server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if scheduler != nil {
		scheduler.Start()
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if scheduler != nil {
			scheduler.Stop()
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
