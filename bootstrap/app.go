package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/storekit/component"
	"github.com/kbukum/storekit/logger"
)

var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// App runs registered components under one lifecycle. C is the config type;
// any struct embedding config.ServiceConfig satisfies Config.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(storeComponent)
//	app.Run(ctx)
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp applies defaults to cfg, validates it and sets up the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	o := appOptions{gracefulTimeout: defaultGracefulTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		logger.Init(&base.Logging)
		o.logger = logger.GetGlobalLogger()
	}

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          o.logger,
		Summary:         NewSummary(base.Name, base.Version),
		gracefulTimeout: o.gracefulTimeout,
	}
	app.Components.SetStopTimeout(o.gracefulTimeout)
	if o.summaryOut != nil {
		app.Summary.SetOutput(o.summaryOut)
	}
	return app, nil
}

// RegisterComponent adds a component. Components start in registration
// order and stop in reverse.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback that runs after the OnStart hooks, with
// access to the typed app.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck fails when any component reports a status other than healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var errs []error
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		if h.Message != "" {
			errs = append(errs, fmt.Errorf("%s is %s: %s", h.Name, h.Status, h.Message))
		} else {
			errs = append(errs, fmt.Errorf("%s is %s", h.Name, h.Status))
		}
	}
	return errors.Join(errs...)
}

// Run starts the app, blocks until SIGINT, SIGTERM or ctx is done, then
// shuts down within the graceful timeout.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}
	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask starts the app, runs task and shuts down when it returns. The
// task's context ends on SIGINT or SIGTERM. The task error wins over a
// shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, shutdownSignals...)
	taskErr := task(taskCtx)
	cancel()

	if stopErr := a.stop(); taskErr == nil {
		return stopErr
	}
	return taskErr
}

// WaitForSignal blocks until a shutdown signal arrives or ctx is done and
// returns the signal, nil on cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown stops the app for callers that manage the lifecycle themselves.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.stop()
}

// DisplaySummary prints the startup summary collected from the registry.
func (a *App[C]) DisplaySummary() {
	a.Summary.DisplaySummary(a.Components)
}

// startup runs the start phases in order. On failure whatever already
// started is stopped before the error is returned.
func (a *App[C]) startup(ctx context.Context) error {
	begin := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	phases := []struct {
		name string
		run  func(context.Context) error
	}{
		{"start components", a.Components.StartAll},
		{"on start", func(ctx context.Context) error { return runHooks(ctx, "start", a.onStart) }},
		{"configure", a.configure},
		{"ready check", a.readyCheck},
		{"on ready", func(ctx context.Context) error { return runHooks(ctx, "ready", a.onReady) }},
	}
	for _, p := range phases {
		if err := p.run(ctx); err != nil {
			a.Logger.Error("Startup failed", logger.Fields("phase", p.name, logger.FieldError, err.Error()))
			if stopErr := a.stop(); stopErr != nil {
				a.Logger.Warn("Cleanup after failed startup", logger.Fields(logger.FieldError, stopErr.Error()))
			}
			return fmt.Errorf("%s: %w", p.name, err)
		}
		a.Logger.Debug("Startup phase complete", logger.Fields("phase", p.name))
	}

	a.Summary.SetStartupDuration(time.Since(begin))
	a.DisplaySummary()
	return nil
}

func (a *App[C]) configure(ctx context.Context) error {
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// readyCheck only warns; a component may become healthy after startup.
func (a *App[C]) readyCheck(ctx context.Context) error {
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	return nil
}

// stop stops components in reverse order, then runs the OnStop hooks, all
// within the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	compErr := a.Components.StopAll(ctx)
	if compErr != nil {
		a.Logger.Error("Components stopped with errors", logger.Fields(logger.FieldError, compErr.Error()))
	}
	hookErr := runHooks(ctx, "stop", a.onStop)
	if hookErr != nil {
		a.Logger.Error("OnStop hook failed", logger.Fields(logger.FieldError, hookErr.Error()))
	}

	a.Logger.Info("Application shutdown complete")
	if compErr != nil {
		return compErr
	}
	return hookErr
}
