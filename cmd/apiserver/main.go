// API server entry point for FleetSurvey.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	appfleet "github.com/harborwise/fleetsurvey/internal/application/fleet"
	appsurvey "github.com/harborwise/fleetsurvey/internal/application/survey"
	"github.com/harborwise/fleetsurvey/internal/config"
	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
	pgconn "github.com/harborwise/fleetsurvey/internal/infrastructure/database/postgres"
	pgrepo "github.com/harborwise/fleetsurvey/internal/infrastructure/database/postgres/repositories"
	redisclient "github.com/harborwise/fleetsurvey/internal/infrastructure/database/redis"
	kafkabus "github.com/harborwise/fleetsurvey/internal/infrastructure/messaging/kafka"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/metrics"
	minioclient "github.com/harborwise/fleetsurvey/internal/infrastructure/storage/minio"
	httpserver "github.com/harborwise/fleetsurvey/internal/interfaces/http"
	"github.com/harborwise/fleetsurvey/internal/interfaces/http/handlers"
)

const defaultConfigPath = "configs/config.yaml"

// version is injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations and exit")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	logger.Info("starting FleetSurvey API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()))

	pg, err := pgconn.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", logging.Err(err))
	}
	defer pg.Close()

	migrator := pgconn.NewMigrator(pg, cfg.Database.MigrationsPath, logger)
	if err := migrator.Up(); err != nil {
		logger.Fatal("migrations failed", logging.Err(err))
	}
	if *migrateOnly {
		logger.Info("migrations applied, exiting")
		return
	}

	rds, err := redisclient.NewClient(cfg.Redis, logger)
	if err != nil {
		logger.Fatal("redis connection failed", logging.Err(err))
	}
	defer rds.Close()

	docs, err := minioclient.NewDocumentStore(cfg.MinIO, logger)
	if err != nil {
		logger.Fatal("object storage initialization failed", logging.Err(err))
	}

	producer := kafkabus.NewProducer(cfg.Kafka, logger)
	defer producer.Close()

	surveyMetrics := metrics.New()

	shipRepo := pgrepo.NewShipRepository(pg, logger)
	certRepo := pgrepo.NewCertificateRepository(pg, logger)
	locker := redisclient.NewShipLocker(rds, cfg.Redis.LockTTL, logger)
	cache := redisclient.NewScheduleCache(rds, cfg.Redis.CacheTTL, logger)

	dockingPolicy := dockingPolicyFromConfig(cfg.Docking)

	recalcSvc := appsurvey.NewRecalculationService(
		shipRepo, certRepo, locker, producer, surveyMetrics, cache, nil, dockingPolicy, logger)
	scheduleSvc := appsurvey.NewScheduleService(shipRepo, certRepo, cache, nil, logger)
	shipSvc := appfleet.NewShipService(shipRepo, logger)
	certSvc := appfleet.NewCertificateService(certRepo, shipRepo, docs, logger)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		ShipHandler:        handlers.NewShipHandler(shipSvc, scheduleSvc, recalcSvc),
		CertificateHandler: handlers.NewCertificateHandler(certSvc, recalcSvc),
		HealthHandler: handlers.NewHealthHandler(version, map[string]handlers.HealthChecker{
			"postgres": pg,
			"redis":    rds,
		}),
		Logger:  logger,
		Metrics: surveyMetrics,
		Mode:    cfg.Server.Mode,
	})
	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", logging.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("http server error", logging.Err(err))
		}
	}

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("server shutdown error", logging.Err(err))
	}
	logger.Info("FleetSurvey API server stopped")
}

// loadConfig reads the file at path, falling back to environment-only
// configuration when the file does not exist.
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

// dockingPolicyFromConfig upper-cases the override keys so lookups by class
// society are case-insensitive.
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
