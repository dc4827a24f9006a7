package domain

import (
	"context"
	"time"
)

// Surface is the rendering surface. It is read on every compositor publish
// and on every ambient transition or tick.
type Surface interface {
	// PublishList replaces the list shown while interactive
	PublishList(list DisplayList)

	// PublishAmbient switches the surface in or out of the time-only view
	PublishAmbient(view AmbientView)
}

// ErrorSink receives non-fatal faults, such as a section that could not be built
type ErrorSink interface {
	Report(section string, err error)
}

// SettingsQuery answers host preference questions
type SettingsQuery interface {
	// Use24Hour reports whether the system clock uses 24-hour format
	Use24Hour() (bool, error)
}

// GeometryQuery describes the physical display
type GeometryQuery interface {
	Shape() (ScreenShape, error)
}

// PlayerMonitor defines the interface for monitoring media players.
// Implementations should handle D-Bus/MPRIS communication
type PlayerMonitor interface {
	// Start connects and begins emitting events. It returns once monitoring is set up.
	Start(ctx context.Context) error

	// Stop gracefully stops the monitor
	Stop(ctx context.Context) error

	// Events returns a read-only channel that emits PlayerState
	// when a player appears, changes or leaves
	Events() <-chan PlayerState
}

// LifecycleMonitor emits ambient enter/exit notifications
type LifecycleMonitor interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Signals() <-chan LifecycleSignal
}

// Config defines the interface for application configuration
type Config interface {
	// IsRound reports whether the display should be treated as round
	IsRound() bool

	// ClockFormat returns "system", "12h" or "24h"
	ClockFormat() string

	// TickInterval is how often the ambient time is refreshed
	TickInterval() time.Duration

	// DebounceInterval is the quiet period before player changes are applied
	DebounceInterval() time.Duration

	// Columns is the width of the text surface in cells
	Columns() int
}
