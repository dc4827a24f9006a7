// Package compositor merges the output of every section into one DisplayList.
package compositor

import (
	"github.com/genricoloni/muzewatch/internal/domain"
	"github.com/genricoloni/muzewatch/internal/section"
	"go.uber.org/zap"
)

// Sections lists the four sections. Field order is display order.
type Sections struct {
	Artwork     section.Section
	NextArtwork section.Section
	Commands    section.Section
	Provider    section.Section
}

func (s Sections) ordered() []section.Section {
	return []section.Section{s.Artwork, s.NextArtwork, s.Commands, s.Provider}
}

// Compositor concatenates section rows in fixed order and publishes the
// result. It never filters or reorders; section policy lives in the adapters.
type Compositor struct {
	logger   *zap.Logger
	sink     domain.ErrorSink
	surface  domain.Surface
	sections []section.Section
	rows     [][]domain.Row
	current  domain.DisplayList
	cancels  []func()
}

// New creates a compositor over the given sections. A nil section renders nothing.
func New(logger *zap.Logger, sink domain.ErrorSink, surface domain.Surface, sections Sections) *Compositor {
	ordered := sections.ordered()
	return &Compositor{
		logger:   logger,
		sink:     sink,
		surface:  surface,
		sections: ordered,
		rows:     make([][]domain.Row, len(ordered)),
	}
}

// Start subscribes to every section. Sections whose feed already holds a
// value are composed immediately.
func (c *Compositor) Start() {
	if c.cancels != nil {
		return
	}
	c.cancels = make([]func(), 0, len(c.sections))
	for i, s := range c.sections {
		i := i // per-iteration copy for the closure (pre-Go 1.22 loop semantics)
		if s == nil {
			continue
		}
		c.cancels = append(c.cancels, s.Subscribe(func(rows []domain.Row, err error) {
			c.update(i, rows, err)
		}))
	}
	c.logger.Debug("Compositor started", zap.Int("sections", len(c.cancels)))
}

// Stop releases all section subscriptions. The last DisplayList is kept.
func (c *Compositor) Stop() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
	c.logger.Debug("Compositor stopped")
}

// Current returns the last published DisplayList
func (c *Compositor) Current() domain.DisplayList {
	return c.current
}

func (c *Compositor) update(i int, rows []domain.Row, err error) {
	if err != nil {
		// One broken section must not blank the rest of the list
		name := c.sections[i].Name()
		c.logger.Warn("Section could not be rendered, showing it empty",
			zap.String("section", name),
			zap.Error(err))
		if c.sink != nil {
			c.sink.Report(name, err)
		}
		rows = nil
	}
	c.rows[i] = rows
	c.publish()
}

func (c *Compositor) publish() {
	n := 0
	for _, rows := range c.rows {
		n += len(rows)
	}
	list := make(domain.DisplayList, 0, n)
	for _, rows := range c.rows {
		list = append(list, rows...)
	}
	c.current = list

	c.logger.Debug("Display list composed", zap.Int("rows", len(list)))
	if c.surface != nil {
		c.surface.PublishList(list)
	}
}
