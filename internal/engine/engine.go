package engine

import (
	"context"
	"time"

	"github.com/genricoloni/muzewatch/internal/ambient"
	"github.com/genricoloni/muzewatch/internal/compositor"
	"github.com/genricoloni/muzewatch/internal/domain"
	"github.com/genricoloni/muzewatch/internal/layout"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// InsetTarget receives the content insets computed at startup
type InsetTarget interface {
	SetInsets(insets domain.Insets, screenWidth int)
}

// Engine is the host of the display core. Every feed push and every ambient
// transition runs on its single loop goroutine, in the order events arrive.
type Engine struct {
	logger     *zap.Logger
	cfg        domain.Config
	players    domain.PlayerMonitor
	lifecycle  domain.LifecycleMonitor
	geometry   domain.GeometryQuery
	feeds      *Feeds
	compositor *compositor.Compositor
	controller *ambient.Controller
	target     InsetTarget

	insets domain.Insets
	active string // well-known name of the player shown as provider
	cancel context.CancelFunc
	done   chan struct{}
}

// NewEngine creates a new orchestration engine
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	players domain.PlayerMonitor,
	lifecycle domain.LifecycleMonitor,
	geometry domain.GeometryQuery,
	feeds *Feeds,
	comp *compositor.Compositor,
	ctrl *ambient.Controller,
	target InsetTarget,
) *Engine {
	return &Engine{
		logger:     logger,
		cfg:        cfg,
		players:    players,
		lifecycle:  lifecycle,
		geometry:   geometry,
		feeds:      feeds,
		compositor: comp,
		controller: ctrl,
		target:     target,
	}
}

// Start lays out the screen, starts the signal sources and launches the
// event loop. It returns immediately. Unavailable sources are logged and
// skipped.
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Engine starting...")

	shape, err := e.geometry.Shape()
	if err != nil {
		e.logger.Warn("Screen geometry unavailable, content will not be inset", zap.Error(err))
		shape.Round = false
	}
	e.insets = layout.ContentInsets(shape)
	if e.target != nil {
		e.target.SetInsets(e.insets, shape.Width)
	}
	e.logger.Info("Content insets computed",
		zap.Int("left", e.insets.Left),
		zap.Int("right", e.insets.Right),
		zap.Int("bottom", e.insets.Bottom))

	e.compositor.Start()

	if err := e.players.Start(ctx); err != nil {
		e.logger.Warn("Player monitor unavailable, provider sections stay empty", zap.Error(err))
	}
	if err := e.lifecycle.Start(ctx); err != nil {
		e.logger.Warn("Lifecycle monitor unavailable, ambient mode disabled", zap.Error(err))
	}

	// The start context only bounds startup; the loop lives until Stop
	loopCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})
	go e.runLoop(loopCtx)
	return nil
}

// Insets returns the content insets computed at startup
func (e *Engine) Insets() domain.Insets {
	return e.insets
}

// runLoop serializes every input onto one goroutine.
// Player changes are debounced so rapid track skipping only applies the last state.
func (e *Engine) runLoop(ctx context.Context) {
	defer close(e.done)

	players := e.players.Events()
	signals := e.lifecycle.Signals()

	debounce := e.cfg.DebounceInterval()
	timer := time.NewTimer(debounce)
	timer.Stop()

	// Latest pending state per player, in arrival order
	var order []string
	pending := make(map[string]domain.PlayerState)

	var ticker *time.Ticker
	var ticks <-chan time.Time
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return

		case state, ok := <-players:
			if !ok {
				e.logger.Info("Player events channel closed")
				players = nil
				continue
			}
			if _, seen := pending[state.Player]; !seen {
				order = append(order, state.Player)
			}
			pending[state.Player] = state
			timer.Reset(debounce)

		case <-timer.C:
			for _, name := range order {
				e.applyPlayer(pending[name])
			}
			order = order[:0]
			clear(pending)

		case sig, ok := <-signals:
			if !ok {
				e.logger.Info("Lifecycle signals channel closed")
				signals = nil
				continue
			}
			e.handleLifecycle(sig)

			// The host drives ambient ticks, the controller never schedules them
			switch {
			case e.controller.State() == domain.StateAmbient && ticker == nil:
				ticker = time.NewTicker(e.cfg.TickInterval())
				ticks = ticker.C
			case e.controller.State() == domain.StateInteractive && ticker != nil:
				ticker.Stop()
				ticker, ticks = nil, nil
			}

		case <-ticks:
			e.controller.UpdateTick()
		}
	}
}

func (e *Engine) handleLifecycle(sig domain.LifecycleSignal) {
	e.logger.Debug("Lifecycle signal received", zap.Stringer("signal", sig))
	switch sig {
	case domain.SignalEnterAmbient:
		e.controller.EnterAmbient(ambient.Details{})
	case domain.SignalExitAmbient:
		e.controller.ExitAmbient()
	default:
		e.logger.Warn("Unknown lifecycle signal", zap.Stringer("signal", sig))
	}
}

// applyPlayer decides whether a player change affects the display. The
// active player keeps the display until it leaves or another one starts playing.
func (e *Engine) applyPlayer(s domain.PlayerState) {
	switch {
	case s.Gone:
		if s.Player != e.active {
			return
		}
		e.logger.Info("Active player left", zap.String("player", s.Player))
		e.active = ""
		e.pushPlayer(nil)

	case e.active == "" || s.Player == e.active || s.Status == domain.StatusPlaying:
		if s.Player != e.active {
			e.logger.Info("Active player changed",
				zap.String("from", e.active),
				zap.String("to", s.Player))
		}
		e.active = s.Player
		e.pushPlayer(&s)

	default:
		e.logger.Debug("Ignoring background player", zap.String("player", s.Player))
	}
}

// pushPlayer feeds every section from one player state; nil clears them all
func (e *Engine) pushPlayer(s *domain.PlayerState) {
	if s == nil {
		e.feeds.Artwork.Push(nil)
		e.feeds.NextArtwork.Push(nil)
		e.feeds.Commands.Push(nil)
		e.feeds.Provider.Push(nil)
		return
	}

	provider := providerFor(*s)
	e.feeds.Artwork.Push(artworkFor(*s))
	e.feeds.NextArtwork.Push(provider)
	e.feeds.Commands.Push(commandsFor(*s))
	e.feeds.Provider.Push(provider)
}

// Stop stops the loop and the signal sources and releases the feeds
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")

	if e.cancel != nil {
		e.cancel()
		select {
		case <-e.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	err := multierr.Append(e.players.Stop(ctx), e.lifecycle.Stop(ctx))

	e.compositor.Stop()
	e.feeds.Close()

	if err != nil {
		e.logger.Error("Engine stopped with errors", zap.Error(err))
		return err
	}
	e.logger.Info("Engine stopped")
	return nil
}
