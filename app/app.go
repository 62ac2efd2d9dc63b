package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/authsvc/api"
	"github.com/kbukum/authsvc/auth/oidc"
	"github.com/kbukum/authsvc/auth/password"
	"github.com/kbukum/authsvc/auth/session"
	"github.com/kbukum/authsvc/authn"
	"github.com/kbukum/authsvc/authz"
	"github.com/kbukum/authsvc/component"
	"github.com/kbukum/authsvc/logger"
	"github.com/kbukum/authsvc/observability"
	"github.com/kbukum/authsvc/server"
	"github.com/kbukum/authsvc/version"
)

const defaultGracefulTimeout = 15 * time.Second

// App is the authsvc process: its configuration, components and lifecycle.
type App struct {
	Cfg        *Config
	Components *component.Registry
	Logger     *logger.Logger

	server   *server.Server
	metrics  *observability.Metrics
	backend  storeBackend
	hasher   password.Hasher
	codec    *session.Codec
	verifier authn.IdentityVerifier

	gracefulTimeout time.Duration
	hooks           hookSet
}

// New applies defaults to cfg, validates it and assembles the components.
// Nothing is started and no connection is opened.
func New(cfg *Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	a := &App{
		Cfg:             cfg,
		gracefulTimeout: defaultGracefulTimeout,
		hooks:           hookSet{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = logger.New(&cfg.Logging, cfg.Name)
		logger.SetGlobalLogger(a.Logger)
	}
	if a.verifier == nil {
		a.verifier = oidc.NewVerifier(cfg.Auth.Google)
	}
	log := a.Logger
	a.Components = component.NewRegistry(log)
	a.hasher = password.NewHasher(cfg.Auth.Password)

	codec, err := session.NewCodec(cfg.Auth.JWT)
	if err != nil {
		return nil, err
	}
	a.codec = codec

	metrics, err := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	a.metrics = metrics

	info := observability.ServiceInfo{Name: cfg.Name, Version: version.Get().Version, Environment: cfg.Environment}
	if err := a.Components.Register(observability.NewComponent(cfg.Telemetry, info, log)); err != nil {
		return nil, err
	}

	backend, err := newStoreBackend(cfg.Store, log)
	if err != nil {
		return nil, err
	}
	if backend.component != nil {
		if err := a.Components.Register(backend.component); err != nil {
			return nil, err
		}
	}
	a.backend = backend

	a.server = server.New(cfg.Server, log)
	a.server.ApplyMiddleware(metrics)
	a.server.RegisterDefaultEndpoints(cfg.Name, a.Components.HealthAll)
	return a, nil
}

// Handler returns the HTTP handler. Account routes are mounted by Start.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Addr returns the address the HTTP server listens on.
func (a *App) Addr() string {
	return a.server.Addr()
}

// Run starts the application, blocks until a shutdown signal or ctx is
// canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		if stopErr := a.Shutdown(context.Background()); stopErr != nil {
			a.Logger.Error("Shutdown after failed start", logger.ErrorFields("shutdown", stopErr))
		}
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.Shutdown(context.Background())
}

// Start runs the startup phases and returns once the HTTP server listens.
func (a *App) Start(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Cfg.Name,
		"version": version.Get().String(),
		"env":     a.Cfg.Environment,
		"auth":    a.Cfg.Auth.Describe(),
		"store":   a.Cfg.Store.Describe(),
	})

	a.Logger.Info("Phase 1: Starting infrastructure")
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := a.hooks.run(ctx, StageStarted); err != nil {
		return err
	}

	a.Logger.Info("Phase 2: Wiring account routes")
	a.configure()
	if err := a.Components.Register(server.NewComponent(a.server)); err != nil {
		return err
	}

	a.Logger.Info("Phase 3: Starting HTTP server")
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("server start failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := a.hooks.run(ctx, StageReady); err != nil {
		return err
	}

	a.Logger.Info("Application started", logger.DurationFields("startup", time.Since(start)))
	return nil
}

// configure builds the engine on the started store and mounts the routes.
func (a *App) configure() {
	engine := authn.NewEngine(a.backend.open(), a.hasher, a.codec, a.verifier,
		authn.WithLogger(a.Logger),
		authn.WithMetrics(a.metrics),
	)
	api.NewHandler(engine, authz.NewGate(a.codec), a.Logger).Mount(a.server.Engine())
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// WaitForSignal blocks until SIGINT/SIGTERM or ctx cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown runs the OnStop hooks and stops every started component in
// reverse order within the graceful timeout.
func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(ctx, a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := a.hooks.run(ctx, StageStopping); err != nil {
		a.Logger.Error("Stop hooks failed", logger.ErrorFields("on_stop", err))
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("stop_all", err))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
