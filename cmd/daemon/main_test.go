package main

import (
	"context"
	"testing"

	"github.com/genricoloni/muzewatch/internal/domain"
	"go.uber.org/fx"
)

// TestAppGraphValidity verifies that the dependency graph is resolvable.
// This test will fail if you forget an fx.Provide for a required interface.
func TestAppGraphValidity(t *testing.T) {
	if err := fx.ValidateApp(AppOptions); err != nil {
		t.Errorf("Dependency graph is not valid: %v", err)
	}
}

// TestNewLogger specifically verifies the logger configuration
func TestNewLogger(t *testing.T) {
	logger, err := newLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger should not be nil")
	}
	logger.Info("Test logger initialization")
}

// TestEndToEndStartup starts and stops the graph with the session bus and
// display sources swapped for stubs.
func TestEndToEndStartup(t *testing.T) {
	t.Setenv("MUZEWATCH_CONFIG", t.TempDir()+"/missing.toml")

	app := fx.New(
		AppOptions,
		fx.NopLogger,
		fx.Replace(
			fx.Annotate(stubPlayers{}, fx.As(new(domain.PlayerMonitor))),
			fx.Annotate(stubLifecycle{}, fx.As(new(domain.LifecycleMonitor))),
			fx.Annotate(stubGeometry{}, fx.As(new(domain.GeometryQuery))),
		),
	)

	if err := app.Start(testContext(t)); err != nil {
		t.Fatalf("App failed to start: %v", err)
	}
	if err := app.Stop(testContext(t)); err != nil {
		t.Fatalf("App failed to stop: %v", err)
	}
}

type stubPlayers struct{}

func (stubPlayers) Start(context.Context) error       { return nil }
func (stubPlayers) Stop(context.Context) error        { return nil }
func (stubPlayers) Events() <-chan domain.PlayerState { return nil }

type stubLifecycle struct{}

func (stubLifecycle) Start(context.Context) error            { return nil }
func (stubLifecycle) Stop(context.Context) error             { return nil }
func (stubLifecycle) Signals() <-chan domain.LifecycleSignal { return nil }

type stubGeometry struct{}

func (stubGeometry) Shape() (domain.ScreenShape, error) {
	return domain.ScreenShape{Width: 400, Height: 400, Round: true}, nil
}
