// TaskTrack Core - multi-user task tracking service
//
// This is the main entry point for the tasktrack server. It wires the
// SQLite store, the identity and token services, the task authorization
// engine and the REST API, plus the optional MQTT and InfluxDB activity
// feeds.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/nerrad567/tasktrack-core/internal/activity"
	"github.com/nerrad567/tasktrack-core/internal/api"
	"github.com/nerrad567/tasktrack-core/internal/audit"
	"github.com/nerrad567/tasktrack-core/internal/auth"
	"github.com/nerrad567/tasktrack-core/internal/infrastructure/config"
	"github.com/nerrad567/tasktrack-core/internal/infrastructure/database"
	"github.com/nerrad567/tasktrack-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/tasktrack-core/internal/infrastructure/logging"
	"github.com/nerrad567/tasktrack-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/tasktrack-core/internal/task"
	"github.com/nerrad567/tasktrack-core/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// auditDrainTimeout bounds how long shutdown waits for queued audit entries.
const auditDrainTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options are the command-line flags.
type options struct {
	configPath  string
	showVersion bool
	migrateDown bool
}

// parseFlags reads the command line. The config path falls back to
// TASKTRACK_CONFIG, then the default.
func parseFlags(args []string) (options, error) {
	var opts options

	flagSet := pflag.NewFlagSet("tasktrack", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config file (env TASKTRACK_CONFIG)")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flagSet.BoolVar(&opts.migrateDown, "migrate-down", false, "roll back the most recent schema migration and exit")

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if opts.configPath == "" {
		opts.configPath = getConfigPath()
	}
	return opts, nil
}

// run is the actual application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Printf("tasktrack %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting tasktrack",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", opts.configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(ctx, database.ConfigFrom(cfg.Database))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", db.Path())

	if opts.migrateDown {
		return rollbackMigration(ctx, db, log)
	}

	if migrateErr := db.Migrate(ctx, migrations.FS); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	users := auth.NewUserRepository(db.DB)
	hasher := auth.Argon2Hasher{}
	authService := auth.NewService(users, hasher, auth.NewTokenService(cfg.Security.JWT.Secret))
	taskRepo := task.NewSQLiteRepository(db.DB)

	if seedErr := seed(ctx, cfg.Seed, users, hasher, taskRepo, log); seedErr != nil {
		return fmt.Errorf("seeding: %w", seedErr)
	}

	// Audit recorder runs until shutdown, then drains its queue.
	auditRepo := audit.NewSQLiteRepository(db.DB)
	recorder := audit.NewRecorder(auditRepo, log.Logger)
	auditCtx, stopAudit := context.WithCancel(context.Background())
	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		recorder.Run(auditCtx)
	}()
	defer func() {
		stopAudit()
		select {
		case <-auditDone:
		case <-time.After(auditDrainTimeout):
			log.Warn("audit queue did not drain before shutdown")
		}
	}()

	sinks := activity.Fanout{recorder}

	mqttClient, err := connectMQTT(cfg.MQTT, log)
	if err != nil {
		return err
	}
	if mqttClient != nil {
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		sinks = append(sinks, activity.NewMQTTSink(mqttClient, mqttClient.QoS()))
	}

	influxClient, err := connectInfluxDB(ctx, cfg.InfluxDB, log)
	if err != nil {
		return err
	}
	if influxClient != nil {
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		sinks = append(sinks, activity.NewInfluxSink(influxClient))
	}

	engine := task.NewEngine(taskRepo,
		task.WithEventSink(sinks),
		task.WithLogger(log.With("component", "task").Logger),
	)

	server, err := api.New(api.Deps{
		Config:    cfg.API,
		Logger:    log.With("component", "api"),
		Auth:      authService,
		Tasks:     engine,
		Audit:     recorder,
		AuditRepo: auditRepo,
		DB:        db,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error stopping API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order: API, InfluxDB, MQTT, audit, database.
	log.Info("tasktrack stopped")
	return nil
}

// rollbackMigration reverts the latest applied migration and reports what
// is left pending. The service is not started.
func rollbackMigration(ctx context.Context, db *database.DB, log *logging.Logger) error {
	if err := db.MigrateDown(ctx, migrations.FS); err != nil {
		return fmt.Errorf("rolling back migration: %w", err)
	}

	applied, pending, err := db.MigrationStatus(ctx, migrations.FS)
	if err != nil {
		return fmt.Errorf("reading migration status: %w", err)
	}
	log.Info("migration rolled back",
		"path", db.Path(),
		"applied", len(applied),
		"pending", len(pending),
	)
	return nil
}

// seed creates the first admin account and, when enabled, the demo user
// with example tasks. Both steps are no-ops on an already populated store.
func seed(ctx context.Context, cfg config.SeedConfig, users auth.UserRepository, hasher auth.PasswordHasher, tasks task.Repository, log *logging.Logger) error {
	admin, err := auth.SeedAdmin(ctx, users, hasher, cfg.AdminUsername, log.Logger)
	if err != nil {
		return err
	}
	if !cfg.DemoData {
		return nil
	}

	if admin == nil {
		admin, err = users.GetByUsername(ctx, auth.NormalizeUsername(cfg.AdminUsername))
		if err != nil {
			return fmt.Errorf("looking up admin for demo data: %w", err)
		}
	}

	demo, err := auth.SeedDemoUser(ctx, users, hasher, log.Logger)
	if err != nil {
		return err
	}

	created, err := task.SeedExamples(ctx, tasks, admin.ID, demo.ID, time.Now())
	if err != nil {
		return err
	}
	if created > 0 {
		log.Info("example tasks created", "count", created)
	}
	return nil
}

// connectMQTT connects to the broker when enabled. Returns nil when disabled.
func connectMQTT(cfg config.MQTTConfig, log *logging.Logger) (*mqtt.Client, error) {
	if !cfg.Enabled {
		log.Info("MQTT disabled")
		return nil, nil
	}

	client, err := mqtt.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT connection lost", "error", err)
	})
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})

	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
		"client_id", cfg.Broker.ClientID,
	)
	return client, nil
}

// connectInfluxDB connects to InfluxDB when enabled. Returns nil when disabled.
func connectInfluxDB(ctx context.Context, cfg config.InfluxDBConfig, log *logging.Logger) (*influxdb.Client, error) {
	client, err := influxdb.Connect(ctx, cfg)
	if errors.Is(err, influxdb.ErrDisabled) {
		log.Info("InfluxDB disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
	}

	client.SetOnError(func(err error) {
		log.Error("InfluxDB write error", "error", err)
	})

	log.Info("InfluxDB connected",
		"url", cfg.URL,
		"org", cfg.Org,
		"bucket", cfg.Bucket,
	)
	return client, nil
}

// getConfigPath returns the configuration file path.
// Uses TASKTRACK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("TASKTRACK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
// Disabled optional clients are nil and skipped.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
