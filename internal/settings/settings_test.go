package settings

import (
	"errors"
	"testing"
	"time"

	"github.com/genricoloni/muzewatch/internal/config"
	"go.uber.org/zap"
)

func TestClockPreference_Use24Hour(t *testing.T) {
	tests := []struct {
		name        string
		format      string
		system      stubSystem
		expected    bool
		expectError bool
	}{
		{name: "Forced 24h", format: config.Clock24h, system: stubSystem{err: errors.New("unused")}, expected: true},
		{name: "Forced 12h", format: config.Clock12h, system: stubSystem{use24: true}, expected: false},
		{name: "System 24h", format: config.ClockSystem, system: stubSystem{use24: true}, expected: true},
		{name: "System 12h", format: config.ClockSystem, system: stubSystem{use24: false}, expected: false},
		{name: "System Failure", format: config.ClockSystem, system: stubSystem{err: errors.New("no bus")}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ClockPreference{
				logger: zap.NewNop(),
				cfg:    stubConfig{clock: tt.format},
				system: tt.system,
			}

			got, err := p.Use24Hour()
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if got {
					t.Error("expected false on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

type stubSystem struct {
	use24 bool
	err   error
}

func (s stubSystem) Use24Hour() (bool, error) { return s.use24, s.err }

type stubConfig struct {
	clock string
}

func (c stubConfig) IsRound() bool                   { return false }
func (c stubConfig) ClockFormat() string             { return c.clock }
func (c stubConfig) TickInterval() time.Duration     { return time.Minute }
func (c stubConfig) DebounceInterval() time.Duration { return 0 }
func (c stubConfig) Columns() int                    { return 40 }
