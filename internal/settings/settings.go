// Package settings answers host preference queries.
package settings

import (
	"fmt"

	"github.com/genricoloni/muzewatch/internal/config"
	"github.com/genricoloni/muzewatch/internal/domain"
	"go.uber.org/zap"
)

// systemQuery reads the clock preference from the desktop environment
type systemQuery interface {
	Use24Hour() (bool, error)
}

// ClockPreference resolves the 24-hour preference. A configured 12h/24h value
// wins; otherwise the system setting is queried on every call.
type ClockPreference struct {
	logger *zap.Logger
	cfg    domain.Config
	system systemQuery
}

// NewClockPreference creates a settings query for the current platform
func NewClockPreference(logger *zap.Logger, cfg domain.Config) *ClockPreference {
	return &ClockPreference{
		logger: logger,
		cfg:    cfg,
		system: newSystemQuery(logger),
	}
}

// Use24Hour reports whether times should be formatted in 24-hour form
func (p *ClockPreference) Use24Hour() (bool, error) {
	switch p.cfg.ClockFormat() {
	case config.Clock24h:
		return true, nil
	case config.Clock12h:
		return false, nil
	}

	use24, err := p.system.Use24Hour()
	if err != nil {
		return false, fmt.Errorf("system clock format: %w", err)
	}
	return use24, nil
}
