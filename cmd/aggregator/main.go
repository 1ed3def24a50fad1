package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/daotrack/governance-indexer/internal/adapter"
	"github.com/daotrack/governance-indexer/internal/bucket"
	"github.com/daotrack/governance-indexer/internal/config"
	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/logger"
	"github.com/daotrack/governance-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

// rebuiltMetrics are the day-bucket series maintained per DAO
var rebuiltMetrics = []domain.MetricType{
	domain.MetricTypeTotalSupply,
	domain.MetricTypeDelegatedSupply,
	domain.MetricTypeDelegationPercentage,
}

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAggregatorConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "aggregator",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting day-bucket aggregator")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	dataStore := store.NewPGStore(db)
	aggregator := bucket.NewAggregator(dataStore, adapter.NewClock())

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	rebuildAll(ctx, aggregator, cfg.Daos)
	if cfg.RunOnce {
		logger.Info("Aggregator finished")
		return
	}

	ticker := time.NewTicker(cfg.RebuildInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Aggregator stopped")
			return
		case <-ticker.C:
			rebuildAll(ctx, aggregator, cfg.Daos)
		}
	}
}

// rebuildAll rebuilds every maintained metric for every configured DAO.
// A failed rebuild is logged and skipped; the next tick retries it.
func rebuildAll(ctx context.Context, aggregator *bucket.Aggregator, daos []config.DaoConfig) {
	for _, dao := range daos {
		for _, metricType := range rebuiltMetrics {
			if ctx.Err() != nil {
				return
			}
			if err := aggregator.Rebuild(ctx, domain.DaoID(dao.ID), metricType); err != nil {
				logger.ErrorCtx(ctx, err,
					zap.String("dao_id", dao.ID),
					zap.String("metric_type", string(metricType)),
				)
			}
		}
	}
}
