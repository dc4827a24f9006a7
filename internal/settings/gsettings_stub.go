//go:build !linux
// +build !linux

package settings

import (
	"fmt"

	"go.uber.org/zap"
)

// stubQuery is a placeholder for platforms without gsettings
type stubQuery struct{}

func newSystemQuery(logger *zap.Logger) systemQuery {
	logger.Warn("System clock format is not available on this platform, set MUZEWATCH_CLOCK to override")
	return stubQuery{}
}

func (stubQuery) Use24Hour() (bool, error) {
	return false, fmt.Errorf("clock format query not implemented for this platform")
}
