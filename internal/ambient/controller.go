// Package ambient implements the Interactive/Ambient display state machine.
//
// The controller only reacts to host notifications. It never schedules its
// own ticks and never leaves a state on its own.
package ambient

import (
	"github.com/genricoloni/muzewatch/internal/domain"
	"go.uber.org/zap"
)

// TimeSource produces the formatted time shown while ambient
type TimeSource interface {
	Now() string
}

// Details carries host-provided information about an ambient entry
type Details struct {
	// LowBitAmbient is set when the display only supports a reduced palette
	LowBitAmbient bool
	// BurnInProtection is set when static content should be shifted
	BurnInProtection bool
}

// Controller owns the AmbientState
type Controller struct {
	logger  *zap.Logger
	clock   TimeSource
	surface domain.Surface
	state   domain.AmbientState
	view    domain.AmbientView
	details Details
}

// NewController creates a controller in the Interactive state
func NewController(logger *zap.Logger, clock TimeSource, surface domain.Surface) *Controller {
	return &Controller{
		logger:  logger,
		clock:   clock,
		surface: surface,
		state:   domain.StateInteractive,
	}
}

// State returns the current state
func (c *Controller) State() domain.AmbientState {
	return c.state
}

// View returns what the surface was last told to show
func (c *Controller) View() domain.AmbientView {
	return c.view
}

// Details returns the details of the current ambient session
func (c *Controller) Details() Details {
	return c.details
}

// EnterAmbient hides the list and shows the time. No-op when already ambient.
func (c *Controller) EnterAmbient(details Details) {
	if c.state == domain.StateAmbient {
		c.logger.Debug("Duplicate enter_ambient ignored")
		return
	}
	c.state = domain.StateAmbient
	c.details = details
	c.logger.Info("Entering ambient mode",
		zap.Bool("lowBit", details.LowBitAmbient),
		zap.Bool("burnIn", details.BurnInProtection))
	c.showTime()
}

// UpdateTick refreshes the time while ambient. Ignored while interactive.
func (c *Controller) UpdateTick() {
	if c.state != domain.StateAmbient {
		c.logger.Debug("Ambient tick while interactive ignored")
		return
	}
	c.showTime()
}

// ExitAmbient hides the time and restores the list. No-op when interactive.
func (c *Controller) ExitAmbient() {
	if c.state == domain.StateInteractive {
		c.logger.Debug("Duplicate exit_ambient ignored")
		return
	}
	c.state = domain.StateInteractive
	c.details = Details{}
	c.view = domain.AmbientView{}
	c.logger.Info("Exiting ambient mode")
	c.publish()
}

func (c *Controller) showTime() {
	c.view = domain.AmbientView{Ambient: true, Time: c.clock.Now()}
	c.publish()
}

func (c *Controller) publish() {
	if c.surface != nil {
		c.surface.PublishAmbient(c.view)
	}
}
