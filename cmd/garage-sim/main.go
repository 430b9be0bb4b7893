package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/torres-mse/garage/internal/catalog"
	"github.com/torres-mse/garage/internal/compat"
	"github.com/torres-mse/garage/internal/config"
	"github.com/torres-mse/garage/internal/dispatcher"
	"github.com/torres-mse/garage/internal/garage"
	"github.com/torres-mse/garage/internal/influx"
	"github.com/torres-mse/garage/internal/ledger"
	"github.com/torres-mse/garage/internal/logging"
	"github.com/torres-mse/garage/internal/monitor"
	"github.com/torres-mse/garage/internal/physics"
	"github.com/torres-mse/garage/internal/storage"
	"github.com/torres-mse/garage/internal/worker"
	"github.com/torres-mse/garage/pkg/core"
)

// Version can be set at build time via ldflags.
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"
)

// app bundles the wired services the CLI handlers operate on.
type app struct {
	Logger  zerolog.Logger
	Catalog *catalog.Service
	Store   *garage.Store
	Ledger  *ledger.Ledger
	Backend storage.Backend
	Worker  *worker.Manager
	Monitor *monitor.Service
	Influx  *influx.Manager

	logCloser io.Closer
}

func main() {
	a, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.shutdown()

	d, err := dispatcher.New(logging.NewZerologAdapter(a.Logger))
	if err != nil {
		a.Logger.Error().Err(err).Msg("Failed to create dispatcher")
		os.Exit(1)
	}
	registerHandlers(d, a)

	a.Logger.Info().
		Str("version", Version).
		Str("buildDate", BuildDate).
		Msg("garage-sim ready")

	runREPL(d, a)
}

func setup() (*app, error) {
	if err := config.Load("."); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config, using defaults: %v\n", err)
	}

	logger, logCloser, err := logging.Setup(logging.Options{
		Level:          config.GetString("logLevel"),
		LogsDir:        config.GetString("logsDir"),
		GraylogAddress: graylogAddress(),
	})
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	storageCfg := config.GetStorageConfig()
	backend, err := storage.NewBackend(storageCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("initializing storage backend: %w", err)
	}
	logger.Info().Str("type", storageCfg.Type).Msg("Storage backend initialized")

	cat, err := loadCatalog(backend, logger)
	if err != nil {
		return nil, err
	}
	vehicleCount, partCount := cat.Counts()
	logger.Info().Int("vehicles", vehicleCount).Int("parts", partCount).Msg("Catalog loaded")

	economyCfg := config.GetEconomyConfig()
	led, err := ledger.New(economyCfg.StartingBalance, economyCfg.UnlimitedFunds)
	if err != nil {
		return nil, fmt.Errorf("creating ledger: %w", err)
	}

	wrk, err := worker.NewManager(worker.Dependencies{
		Backend: backend,
		Logger:  logging.NewZerologAdapter(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("creating persist worker: %w", err)
	}
	wrk.Start()

	store, err := garage.NewStore(garage.Dependencies{
		Catalog:        cat,
		Ledger:         led,
		Resolver:       compat.NewResolver(),
		Aggregator:     physics.NewAggregator(),
		Logger:         logging.NewZerologAdapter(logger),
		Persister:      wrk,
		MaxSavedBuilds: config.GetInt("garage.maxSavedBuilds"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating garage store: %w", err)
	}

	if state, found, err := backend.LoadGarageState(); err != nil {
		logger.Error().Err(err).Msg("Failed to load saved garage state")
	} else if found {
		if err := store.RestoreState(state); err != nil {
			logger.Error().Err(err).Msg("Failed to restore garage state")
		} else {
			logger.Info().
				Str("vehicle", state.VehicleID).
				Int("parts", len(state.Parts)).
				Int("builds", len(state.Builds)).
				Msg("Restored garage state")
		}
	}

	a := &app{
		Logger:    logger,
		Catalog:   cat,
		Store:     store,
		Ledger:    led,
		Backend:   backend,
		Worker:    wrk,
		logCloser: logCloser,
	}

	influxCfg := config.GetInfluxConfig()
	if influxCfg.Enabled {
		backupPath := filepath.Join(storageCfg.OutputDir, "influx_backup.json.gz")
		im := influx.NewManager(logger, backupPath)
		// Connect falls back to a gzip backup writer when the server is
		// unreachable; points still land somewhere either way.
		if err := im.Connect(); err != nil {
			logger.Error().Err(err).Msg("InfluxDB unavailable, metrics points disabled")
		} else {
			a.Influx = im
		}
	}

	a.Monitor = monitor.NewService(monitor.Dependencies{
		State:    store,
		Writer:   wrk,
		Influx:   a.Influx,
		Logger:   logging.NewZerologAdapter(logger),
		StateDir: storageCfg.OutputDir,
	})
	if err := a.Monitor.Start(); err != nil {
		logger.Error().Err(err).Msg("Failed to start status monitor")
	}

	return a, nil
}

// loadCatalog reads reference data from the backend, seeding it first when
// the backing tables are empty.
func loadCatalog(backend storage.Backend, logger zerolog.Logger) (*catalog.Service, error) {
	vehicles, parts, err := backend.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	if len(vehicles) == 0 || len(parts) == 0 {
		seeder, ok := backend.(interface {
			SeedCatalog(vehicles []core.Vehicle, parts []core.Part) error
		})
		vehicles, parts = catalog.SeedVehicles(), catalog.SeedParts()
		if ok {
			if err := seeder.SeedCatalog(vehicles, parts); err != nil {
				logger.Error().Err(err).Msg("Failed to seed catalog tables")
			} else {
				logger.Info().Msg("Seeded catalog tables")
			}
		}
	}

	cat := catalog.NewService()
	cat.Load(vehicles, parts)
	return cat, nil
}

func graylogAddress() string {
	cfg := config.GetGraylogConfig()
	if !cfg.Enabled {
		return ""
	}
	return cfg.Address
}

func (a *app) shutdown() {
	a.Logger.Info().Msg("Shutting down")

	if a.Monitor != nil {
		a.Monitor.Stop()
	}

	// Flush pending snapshots before the backend closes.
	if a.Worker != nil {
		a.Worker.Stop()
	}
	if a.Backend != nil {
		if err := a.Backend.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close storage backend")
		}
	}
	if a.Influx != nil {
		if a.Influx.Client != nil {
			a.Influx.Client.Close()
		}
		if a.Influx.BackupWriter != nil {
			_ = a.Influx.BackupWriter.Close()
		}
	}

	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}
