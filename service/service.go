package service

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kbukum/storekit/auth"
	"github.com/kbukum/storekit/bootstrap"
	"github.com/kbukum/storekit/component"
	"github.com/kbukum/storekit/config"
	"github.com/kbukum/storekit/equality"
	"github.com/kbukum/storekit/fetchstore"
	"github.com/kbukum/storekit/metrics"
	"github.com/kbukum/storekit/observability"
	"github.com/kbukum/storekit/server"
	"github.com/kbukum/storekit/server/middleware"
	"github.com/kbukum/storekit/sse"
)

// Service is a wired storekit process.
type Service struct {
	App      *bootstrap.App[*config.Config]
	Store    *fetchstore.Component
	Hub      *sse.Hub
	Server   *server.Server
	Registry *prometheus.Registry
}

// Option customizes the store built by New.
type Option func(*settings)

type settings struct {
	app   []bootstrap.Option
	store []fetchstore.Option
}

// WithAppOptions passes options through to bootstrap.NewApp.
func WithAppOptions(opts ...bootstrap.Option) Option {
	return func(s *settings) { s.app = append(s.app, opts...) }
}

// WithStoreOptions adds fetchstore options after the config-derived ones.
func WithStoreOptions(opts ...fetchstore.Option) Option {
	return func(s *settings) { s.store = append(s.store, opts...) }
}

// New builds the application: telemetry, a prometheus registry, the store,
// the watch hub and the HTTP server.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	app, err := bootstrap.NewApp(cfg, s.app...)
	if err != nil {
		return nil, err
	}
	equal, err := equality.Parse(cfg.Store.Equality)
	if err != nil {
		return nil, fmt.Errorf("store equality: %w", err)
	}

	shutdownTelemetry, err := observability.Setup(ctx, cfg.Telemetry, cfg.Version, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	app.OnStop(shutdownTelemetry)

	otelMetrics, err := observability.NewMetrics(observability.Meter("storekit"))
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return nil, err
	}

	storeOpts := []fetchstore.Option{
		fetchstore.WithServiceName(cfg.Name),
		fetchstore.WithConfig(cfg.Fetch),
		fetchstore.WithEqualityChecker(equal),
		fetchstore.WithHooks(collector),
		fetchstore.WithMetrics(otelMetrics),
		fetchstore.WithLogger(app.Logger.WithComponent("store")),
	}
	storeComponent := fetchstore.NewComponent(append(storeOpts, s.store...)...)

	hub := sse.NewHub(sse.WithClientCount(collector.SetWatchClients))

	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(cfg.Name, app.Components.HealthAll, reg)
	var guards []gin.HandlerFunc
	if cfg.Auth.Enabled {
		verifier, err := auth.NewVerifier(cfg.Auth)
		if err != nil {
			return nil, err
		}
		guards = append(guards, middleware.GinWrap(middleware.Auth(verifier)))
	}
	srv.RegisterStoreRoutes(storeComponent, hub, guards...)

	// Stops run in reverse: the hub closes open watch streams before the
	// server shuts down.
	for _, c := range []component.Component{
		storeComponent,
		server.NewComponent(srv),
		sse.NewComponent(hub, "/keys/:key/watch"),
	} {
		if err := app.RegisterComponent(c); err != nil {
			return nil, err
		}
	}

	return &Service{
		App:      app,
		Store:    storeComponent,
		Hub:      hub,
		Server:   srv,
		Registry: reg,
	}, nil
}

// Run runs the service until a signal or ctx ends it.
func (s *Service) Run(ctx context.Context) error {
	return s.App.Run(ctx)
}
