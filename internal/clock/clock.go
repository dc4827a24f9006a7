// Package clock formats the ambient time display.
package clock

import (
	"fmt"
	"time"

	"github.com/genricoloni/muzewatch/internal/domain"
	"go.uber.org/zap"
)

// Format renders t as "H:mm" when use24Hour is set and as "h:mm" otherwise.
// Hours are never zero-padded and no AM/PM marker is added.
func Format(t time.Time, use24Hour bool) string {
	if use24Hour {
		return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
	}
	return t.Format("3:04")
}

// Clock formats the current time using the host's clock preference
type Clock struct {
	logger   *zap.Logger
	settings domain.SettingsQuery
	now      func() time.Time
}

// NewClock creates a clock that reads the 24-hour preference from settings
func NewClock(logger *zap.Logger, settings domain.SettingsQuery) *Clock {
	return &Clock{
		logger:   logger,
		settings: settings,
		now:      time.Now,
	}
}

// Now formats the current instant. The preference is queried on every call so
// a settings change shows up on the next tick.
func (c *Clock) Now() string {
	return Format(c.now(), c.use24Hour())
}

func (c *Clock) use24Hour() bool {
	if c.settings == nil {
		return false
	}
	use24, err := c.settings.Use24Hour()
	if err != nil {
		c.logger.Debug("Clock format unavailable, using 12-hour", zap.Error(err))
		return false
	}
	return use24
}
