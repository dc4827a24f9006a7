package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/muzewatch/internal/ambient"
	"github.com/genricoloni/muzewatch/internal/clock"
	"github.com/genricoloni/muzewatch/internal/compositor"
	"github.com/genricoloni/muzewatch/internal/config"
	"github.com/genricoloni/muzewatch/internal/domain"
	"github.com/genricoloni/muzewatch/internal/engine"
	"github.com/genricoloni/muzewatch/internal/monitor"
	"github.com/genricoloni/muzewatch/internal/render"
	"github.com/genricoloni/muzewatch/internal/settings"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// AppOptions is the full dependency graph of the daemon
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		fx.Annotate(config.NewAppConfig, fx.As(new(domain.Config))),
		fx.Annotate(settings.NewClockPreference, fx.As(new(domain.SettingsQuery))),
		fx.Annotate(monitor.NewScreenGeometry, fx.As(new(domain.GeometryQuery))),
		fx.Annotate(monitor.NewMprisMonitor, fx.As(new(domain.PlayerMonitor))),
		fx.Annotate(monitor.NewScreenSaverMonitor, fx.As(new(domain.LifecycleMonitor))),
		fx.Annotate(compositor.NewLogSink, fx.As(new(domain.ErrorSink))),
		fx.Annotate(clock.NewClock, fx.As(new(ambient.TimeSource))),
		newSurface,
		newInsetTarget,
		engine.NewFeeds,
		newCompositor,
		newController,
		engine.NewEngine,
	),
	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		AppOptions,
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	<-ctx.Done()

	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

// newLogger creates a new zap logger instance
func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func newSurface(logger *zap.Logger, cfg domain.Config) *render.TextSurface {
	return render.NewTextSurface(logger, os.Stdout, cfg.Columns())
}

func newInsetTarget(s *render.TextSurface) engine.InsetTarget {
	return s
}

func newCompositor(logger *zap.Logger, sink domain.ErrorSink, surface *render.TextSurface, feeds *engine.Feeds) *compositor.Compositor {
	return compositor.New(logger, sink, surface, feeds.Sections())
}

func newController(logger *zap.Logger, clk ambient.TimeSource, surface *render.TextSurface) *ambient.Controller {
	return ambient.NewController(logger, clk, surface)
}

// registerHooks sets up application lifecycle hooks
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, eng *engine.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Muzewatch Daemon Started")
			return eng.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			return eng.Stop(ctx)
		},
	})
}
