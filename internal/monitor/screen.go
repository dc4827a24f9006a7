package monitor

import (
	"fmt"
	"image"

	"github.com/genricoloni/muzewatch/internal/domain"
	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

var fallbackShape = domain.ScreenShape{Width: 1920, Height: 1080}

// ScreenGeometry is the display geometry probed once at startup
type ScreenGeometry struct {
	shape domain.ScreenShape
	err   error
}

// NewScreenGeometry detects the primary screen and applies the configured
// round flag. Desktop displays cannot report roundness themselves.
func NewScreenGeometry(logger *zap.Logger, cfg domain.Config) *ScreenGeometry {
	return probeGeometry(logger, cfg, screenshot.NumActiveDisplays, screenshot.GetDisplayBounds)
}

func probeGeometry(logger *zap.Logger, cfg domain.Config, count func() int, bounds func(int) image.Rectangle) *ScreenGeometry {
	n := count()
	if n <= 0 {
		logger.Warn("No active displays detected, falling back to 1920x1080")
		return &ScreenGeometry{
			shape: fallbackShape,
			err:   fmt.Errorf("no active displays"),
		}
	}

	// Use primary monitor (index 0)
	b := bounds(0)
	shape := domain.ScreenShape{
		Width:  b.Dx(),
		Height: b.Dy(),
		Round:  cfg.IsRound(),
	}

	logger.Info("Screen geometry detected",
		zap.Int("width", shape.Width),
		zap.Int("height", shape.Height),
		zap.Bool("round", shape.Round))

	return &ScreenGeometry{shape: shape}
}

// Shape returns the probed geometry. On probe failure it returns a
// rectangular fallback together with the error.
func (g *ScreenGeometry) Shape() (domain.ScreenShape, error) {
	return g.shape, g.err
}
