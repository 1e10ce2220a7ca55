// Background worker entry point for FleetSurvey.  Consumes recalculation
// requests from Kafka and runs the survey engine against each ship.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	appsurvey "github.com/harborwise/fleetsurvey/internal/application/survey"
	"github.com/harborwise/fleetsurvey/internal/config"
	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
	pgconn "github.com/harborwise/fleetsurvey/internal/infrastructure/database/postgres"
	pgrepo "github.com/harborwise/fleetsurvey/internal/infrastructure/database/postgres/repositories"
	redisclient "github.com/harborwise/fleetsurvey/internal/infrastructure/database/redis"
	kafkabus "github.com/harborwise/fleetsurvey/internal/infrastructure/messaging/kafka"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/metrics"
)

const defaultConfigPath = "configs/config.yaml"

var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	concurrency := flag.Int("concurrency", 0, "number of concurrent consumers (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	workers := cfg.Worker.Concurrency
	if *concurrency > 0 {
		workers = *concurrency
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	logger.Info("starting FleetSurvey worker",
		logging.String("version", version),
		logging.Int("concurrency", workers),
		logging.String("topic", cfg.Kafka.RequestedTopic))

	pg, err := pgconn.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", logging.Err(err))
	}
	defer pg.Close()

	rds, err := redisclient.NewClient(cfg.Redis, logger)
	if err != nil {
		logger.Fatal("redis connection failed", logging.Err(err))
	}
	defer rds.Close()

	producer := kafkabus.NewProducer(cfg.Kafka, logger)
	defer producer.Close()

	surveyMetrics := metrics.New()

	shipRepo := pgrepo.NewShipRepository(pg, logger)
	certRepo := pgrepo.NewCertificateRepository(pg, logger)
	locker := redisclient.NewShipLocker(rds, cfg.Redis.LockTTL, logger)
	cache := redisclient.NewScheduleCache(rds, cfg.Redis.CacheTTL, logger)

	recalcSvc := appsurvey.NewRecalculationService(
		shipRepo, certRepo, locker, producer, surveyMetrics, cache, nil,
		dockingPolicyFromConfig(cfg.Docking), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Each consumer holds its own group reader; the broker balances
	// partitions across them.
	var wg sync.WaitGroup
	consumers := make([]*kafkabus.RecalcConsumer, 0, workers)
	for i := 0; i < workers; i++ {
		consumer := kafkabus.NewRecalcConsumer(cfg.Kafka, recalcSvc, logger)
		consumers = append(consumers, consumer)
		wg.Add(1)
		go func(id int, c *kafkabus.RecalcConsumer) {
			defer wg.Done()
			if err := c.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("consumer stopped", logging.Int("consumer", id), logging.Err(err))
			}
		}(i, consumer)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("received shutdown signal", logging.String("signal", sig.String()))

	cancel()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Warn("consumer close failed", logging.Err(err))
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		logger.Info("all consumers finished")
	case <-time.After(cfg.Worker.ShutdownTimeout):
		logger.Warn("shutdown timeout exceeded, forcing exit")
	}

	logger.Info("FleetSurvey worker stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func newLogger(cfg config.LogConfig) (logging.Logger, error) {
	logCfg := logging.LogConfig{Level: cfg.Level, Format: cfg.Format}
	if cfg.Output != "" {
		logCfg.OutputPaths = []string{cfg.Output}
	}
	return logging.NewLogger(logCfg)
}

func dockingPolicyFromConfig(cfg config.DockingConfig) domainsurvey.DockingPolicy {
	overrides := make(map[string]int, len(cfg.ClassOverrides))
	for society, months := range cfg.ClassOverrides {
		overrides[strings.ToUpper(society)] = months
	}
	return domainsurvey.StandardDockingPolicy{
		DefaultMonths: cfg.IntervalMonths,
		Overrides:     overrides,
	}
}
