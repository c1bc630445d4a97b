package sandbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/impt/internal/audit"
	"github.com/nerrad567/impt/internal/fleet"
	"github.com/nerrad567/impt/internal/infrastructure/config"
	"github.com/nerrad567/impt/internal/infrastructure/influxdb"
	"github.com/nerrad567/impt/internal/infrastructure/logging"
	"github.com/nerrad567/impt/internal/infrastructure/mqtt"
	"github.com/nerrad567/impt/internal/resolver"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// minSecretLength is the shortest JWT secret New accepts.
const minSecretLength = 32

// CommandPublisher delivers commands to devices. *mqtt.Client implements it.
type CommandPublisher interface {
	PublishCommand(deviceID string, cmd mqtt.DeviceCommand) error
}

// EventSink records platform events. *influxdb.Client implements it.
type EventSink interface {
	WriteEvent(e influxdb.Event)
}

// Deps holds the dependencies required by the sandbox server.
type Deps struct {
	Config   config.APIConfig
	Security config.SecurityConfig
	Logger   *logging.Logger
	Fleet    *fleet.Repository
	// Commands is optional. Without it restarts are only recorded.
	Commands CommandPublisher
	// Events is optional.
	Events EventSink
	// Audit is optional. Without it GET /audit answers 404.
	Audit *audit.Repository
	// Topics parses device status topics for HandleDeviceStatus.
	Topics  mqtt.Topics
	Version string
}

// Server is the platform sandbox's HTTP API.
type Server struct {
	cfg      config.APIConfig
	secCfg   config.SecurityConfig
	logger   *logging.Logger
	fleet    *fleet.Repository
	resolver *resolver.Resolver
	commands CommandPublisher
	events   EventSink
	audit    *audit.Repository
	topics   mqtt.Topics
	version  string
	server   *http.Server
}

// New creates a sandbox server. The server is not started until Start.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Fleet == nil {
		return nil, fmt.Errorf("fleet repository is required")
	}
	if len(deps.Security.JWT.Secret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}

	s := &Server{
		cfg:      deps.Config,
		secCfg:   deps.Security,
		logger:   deps.Logger,
		fleet:    deps.Fleet,
		commands: deps.Commands,
		events:   deps.Events,
		audit:    deps.Audit,
		topics:   deps.Topics,
		version:  deps.Version,
	}
	s.resolver = resolver.New(&fleetGateway{repo: deps.Fleet})
	s.resolver.SetLogger(deps.Logger)
	return s, nil
}

// Handler returns the routed HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close.
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("sandbox API listening", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("sandbox API server error", "error", err)
		}
	}()
	return nil
}

// Close waits up to 10 seconds for in-flight requests, then shuts down.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("sandbox API shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down sandbox API: %w", err)
	}
	return nil
}

// HealthCheck reports whether the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("sandbox health check: %w", ctx.Err())
	default:
	}
	if s.server == nil {
		return fmt.Errorf("sandbox server not started")
	}
	return nil
}

// record appends a change to the audit trail and sends it to the event
// sink. Changes without an authenticated caller came in over MQTT.
func (s *Server) record(ctx context.Context, action string, t, id, details string) {
	now := time.Now()
	caller := callerFrom(ctx)

	if s.audit != nil {
		entry := &audit.Entry{
			Action:     action,
			EntityType: t,
			EntityID:   id,
			Source:     audit.SourceMQTT,
			Details:    details,
			CreatedAt:  now.UTC(),
		}
		if caller != nil {
			entry.ActorID = caller.ID
			entry.Source = audit.SourceAPI
		}
		if err := s.audit.Create(ctx, entry); err != nil {
			s.logger.Warn("failed to record audit entry",
				"action", action,
				"entity_type", t,
				"entity_id", id,
				"error", err,
			)
		}
	}

	if s.events == nil {
		return
	}
	e := influxdb.Event{
		Action:     action,
		EntityType: t,
		EntityID:   id,
		Details:    details,
		Time:       now,
	}
	if caller != nil {
		e.ActorID = caller.ID
	}
	s.events.WriteEvent(e)
}
