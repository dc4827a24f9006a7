package monitor

import (
	"context"
	"fmt"
	"sync"

	"github.com/genricoloni/muzewatch/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

// Interfaces that broadcast ActiveChanged(bool)
var screenSaverInterfaces = []string{
	"org.freedesktop.ScreenSaver",
	"org.gnome.ScreenSaver",
}

// ScreenSaverMonitor turns screen saver activation into ambient lifecycle
// signals: active means enter ambient, inactive means exit.
type ScreenSaverMonitor struct {
	logger  *zap.Logger
	signals chan domain.LifecycleSignal
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	connect func() (DBusClient, error)
	conn    DBusClient
	wg      sync.WaitGroup
}

// NewScreenSaverMonitor creates a lifecycle monitor backed by the session bus
func NewScreenSaverMonitor(logger *zap.Logger) *ScreenSaverMonitor {
	return &ScreenSaverMonitor{
		logger:  logger,
		signals: make(chan domain.LifecycleSignal, 4),
		connect: NewStdDBusClient,
	}
}

// Start subscribes to ActiveChanged on every known screen saver interface
func (s *ScreenSaverMonitor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	conn, err := s.connect()
	if err != nil {
		return fmt.Errorf("session bus connection failed: %w", err)
	}

	matched := 0
	for _, iface := range screenSaverInterfaces {
		if err := conn.AddMatchSignal(
			dbus.WithMatchInterface(iface),
			dbus.WithMatchMember("ActiveChanged"),
		); err != nil {
			s.logger.Warn("Failed to add screen saver match signal",
				zap.String("interface", iface),
				zap.Error(err))
			continue
		}
		matched++
	}
	if matched == 0 {
		if err := conn.Close(); err != nil {
			s.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
		}
		return fmt.Errorf("no screen saver interface could be watched")
	}

	monitorCtx, cancel := context.WithCancel(context.Background())
	s.conn = conn
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.monitorSignals(monitorCtx)

	s.logger.Info("Screen saver monitor started", zap.Int("interfaces", matched))
	return nil
}

// Stop gracefully stops the monitor
func (s *ScreenSaverMonitor) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	close(s.signals)

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close D-Bus connection: %w", err)
	}
	s.logger.Info("Screen saver monitor shutdown complete")
	return nil
}

// Signals returns a read-only channel of ambient transitions
func (s *ScreenSaverMonitor) Signals() <-chan domain.LifecycleSignal {
	return s.signals
}

func (s *ScreenSaverMonitor) monitorSignals(ctx context.Context) {
	defer s.wg.Done()

	signals := make(chan *dbus.Signal, 10)
	s.conn.Signal(signals)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-signals:
			if sig == nil {
				continue
			}
			s.handleSignal(ctx, sig)
		}
	}
}

// handleSignal maps ActiveChanged(bool) to a lifecycle signal
func (s *ScreenSaverMonitor) handleSignal(ctx context.Context, sig *dbus.Signal) {
	if !isActiveChanged(sig.Name) || len(sig.Body) < 1 {
		return
	}

	active, ok := sig.Body[0].(bool)
	if !ok {
		s.logger.Warn("Invalid ActiveChanged payload, ignoring", zap.String("signal", sig.Name))
		return
	}

	signal := domain.SignalExitAmbient
	if active {
		signal = domain.SignalEnterAmbient
	}

	s.logger.Debug("Screen saver state changed",
		zap.String("signal", sig.Name),
		zap.Bool("active", active))

	// Lifecycle transitions must not be dropped, so block until delivered
	select {
	case s.signals <- signal:
	case <-ctx.Done():
	}
}

func isActiveChanged(name string) bool {
	for _, iface := range screenSaverInterfaces {
		if name == iface+".ActiveChanged" {
			return true
		}
	}
	return false
}
