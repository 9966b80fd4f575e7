package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mossbrook/landscaping/internal/catalog"
	"github.com/mossbrook/landscaping/internal/config"
	"github.com/mossbrook/landscaping/internal/db"
	"github.com/mossbrook/landscaping/internal/logger"
	"github.com/mossbrook/landscaping/internal/metrics"
	"github.com/mossbrook/landscaping/internal/server"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		ServiceName: "landscaping",
	}); err != nil {
		panic(err)
	}
	log := logger.L()

	dbConn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if *migrateOnlyFlag {
		log.Info("migrations completed; exiting as requested")
		return
	}

	catalogCache := catalog.NewCache(cfg.CatalogDir)
	// Warm the catalog so the first public request does not pay the merge.
	go func() {
		if _, err := catalogCache.Get(); err != nil {
			log.Warn("catalog warmup failed", zap.Error(err))
		}
	}()

	httpMetrics := metrics.NewHTTPMetrics("landscaping")
	handler := server.New(dbConn, catalogCache, httpMetrics)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
