// impt-sandbox serves a local stand-in for the IoT platform API.
//
// It keeps accounts, products, device groups, devices and deployments in
// SQLite, optionally seeded from a YAML fixture. Device restarts are
// published over MQTT and platform events are written to InfluxDB when
// those are enabled.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/impt/internal/audit"
	"github.com/nerrad567/impt/internal/fleet"
	"github.com/nerrad567/impt/internal/infrastructure/config"
	"github.com/nerrad567/impt/internal/infrastructure/database"
	"github.com/nerrad567/impt/internal/infrastructure/influxdb"
	"github.com/nerrad567/impt/internal/infrastructure/logging"
	"github.com/nerrad567/impt/internal/infrastructure/mqtt"
	"github.com/nerrad567/impt/internal/sandbox"
	"github.com/nerrad567/impt/migrations"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
)

const defaultConfigPath = "configs/sandbox.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run starts the sandbox and blocks until ctx is canceled.
func run(ctx context.Context) error {
	log := logging.Default("impt-sandbox")

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateSandbox(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	log = logging.New(cfg.Logging, "impt-sandbox", version)
	log.Info("starting impt sandbox",
		"version", version,
		"commit", commit,
		"config", configPath,
	)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	if err := db.Migrate(ctx, migrations.FS); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	repo := fleet.NewRepository(db)
	if err := seed(ctx, repo, cfg.Seed.File, log); err != nil {
		return err
	}

	deps := sandbox.Deps{
		Config:   cfg.API,
		Security: cfg.Security,
		Logger:   log,
		Fleet:    repo,
		Audit:    audit.NewRepository(db),
		Topics:   mqtt.Topics{Prefix: cfg.MQTT.TopicPrefix},
		Version:  version,
	}

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		deps.Commands = mqttClient
		deps.Topics = mqttClient.Topics()
	} else {
		log.Info("MQTT disabled, restarts are only recorded")
	}

	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		deps.Events = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	srv, err := sandbox.New(deps)
	if err != nil {
		return fmt.Errorf("creating sandbox server: %w", err)
	}

	if mqttClient != nil {
		topic := deps.Topics.AllDeviceStatus()
		if err := mqttClient.Subscribe(topic, byte(cfg.MQTT.QoS), srv.HandleDeviceStatus); err != nil {
			return fmt.Errorf("subscribing to device status: %w", err)
		}
		log.Info("listening for device status", "topic", topic)
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting sandbox server: %w", err)
	}
	defer func() {
		log.Info("stopping sandbox server")
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error stopping sandbox server", "error", closeErr)
		}
	}()

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns IMPT_SANDBOX_CONFIG if set, otherwise the default.
func getConfigPath() string {
	if path := os.Getenv("IMPT_SANDBOX_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// seed loads the fixture at path into an empty database. A database that
// already holds accounts is left alone.
func seed(ctx context.Context, repo *fleet.Repository, path string, log *logging.Logger) error {
	if path == "" {
		return nil
	}

	empty, err := repo.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("checking database: %w", err)
	}
	if !empty {
		log.Info("database already populated, skipping seed", "fixture", path)
		return nil
	}

	fixture, err := sandbox.LoadFixtureFile(path)
	if err != nil {
		return fmt.Errorf("loading fixture: %w", err)
	}
	res, err := sandbox.Seed(ctx, repo, fixture)
	if err != nil {
		return fmt.Errorf("seeding %s: %w", path, err)
	}
	log.Info("database seeded",
		"fixture", path,
		"accounts", res.Accounts,
		"products", res.Products,
		"device_groups", res.DeviceGroups,
		"devices", res.Devices,
		"deployments", res.Deployments,
	)
	return nil
}

// healthCheck verifies the enabled infrastructure connections.
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
