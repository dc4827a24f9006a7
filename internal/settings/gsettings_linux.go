//go:build linux
// +build linux

package settings

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

const queryTimeout = 2 * time.Second

// gsettingsQuery reads org.gnome.desktop.interface clock-format
type gsettingsQuery struct {
	logger *zap.Logger
	binary string
	run    func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func newSystemQuery(logger *zap.Logger) systemQuery {
	return &gsettingsQuery{
		logger: logger,
		binary: "gsettings",
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

// Use24Hour runs gsettings and parses the quoted clock-format value
func (q *gsettingsQuery) Use24Hour() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	args := []string{"get", "org.gnome.desktop.interface", "clock-format"}
	output, err := q.run(ctx, q.binary, args...)
	if err != nil {
		return false, fmt.Errorf("failed to query clock format with %s: %w (output: %s)",
			q.binary, err, strings.TrimSpace(string(output)))
	}

	value := strings.Trim(strings.TrimSpace(string(output)), "'\"")
	q.logger.Debug("Clock format queried", zap.String("value", value))

	switch value {
	case "24h":
		return true, nil
	case "12h":
		return false, nil
	default:
		return false, fmt.Errorf("unexpected clock format %q", value)
	}
}
