package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/genricoloni/muzewatch/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	mprisPrefix      = "org.mpris.MediaPlayer2."
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
	mprisIdentity    = "org.mpris.MediaPlayer2.Identity"

	propertiesChanged = "org.freedesktop.DBus.Properties.PropertiesChanged"
	nameOwnerChanged  = "org.freedesktop.DBus.NameOwnerChanged"
)

// MprisMonitor tracks media players on the session bus. Every player is a
// potential content provider; its metadata is the artwork.
type MprisMonitor struct {
	logger          *zap.Logger
	events          chan domain.PlayerState
	mu              sync.RWMutex
	running         bool
	cancel          context.CancelFunc
	connect         func() (DBusClient, error)
	conn            DBusClient                    // Interface for testability
	lastDropWarning time.Time                     // Rate limiting for "channel full" warnings
	wg              sync.WaitGroup                // Tracks active producer goroutines
	playerNames     map[string]string             // Maps unique bus names (:1.45) to well-known names
	players         map[string]domain.PlayerState // Last known state, by well-known name
}

// NewMprisMonitor creates a new MPRIS monitor instance
func NewMprisMonitor(logger *zap.Logger) *MprisMonitor {
	return &MprisMonitor{
		logger:      logger,
		events:      make(chan domain.PlayerState, 10),
		connect:     NewStdDBusClient,
		playerNames: make(map[string]string),
		players:     make(map[string]domain.PlayerState),
	}
}

// Start connects to the session bus, reports the players already running and
// starts listening for changes. It returns once monitoring is set up.
func (m *MprisMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}

	conn, err := m.connect()
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("session bus connection failed: %w", err)
	}

	monitorCtx, cancel := context.WithCancel(context.Background())
	m.conn = conn
	m.cancel = cancel
	m.running = true
	m.mu.Unlock()

	if err := m.detectExistingPlayers(); err != nil {
		m.logger.Warn("Failed to detect existing players", zap.Error(err))
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(mprisPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		_ = m.Stop(ctx)
		return fmt.Errorf("failed to add match signal: %w", err)
	}

	// Non-fatal, continue without dynamic tracking
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	); err != nil {
		m.logger.Warn("Failed to add NameOwnerChanged match signal", zap.Error(err))
	} else {
		m.logger.Debug("Dynamic player tracking enabled via NameOwnerChanged")
	}

	m.wg.Add(1)
	go m.monitorSignals(monitorCtx)

	m.logger.Info("MPRIS monitor started")
	return nil
}

// Stop gracefully stops the monitor
func (m *MprisMonitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.mu.Unlock()

	// Wait for producers before closing the channel to avoid a send on closed channel
	m.wg.Wait()
	close(m.events)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		if err := m.conn.Close(); err != nil {
			return fmt.Errorf("failed to close D-Bus connection: %w", err)
		}
	}

	m.logger.Info("MPRIS monitor shutdown complete")
	return nil
}

// Events returns a read-only channel that emits PlayerState
func (m *MprisMonitor) Events() <-chan domain.PlayerState {
	return m.events
}

// detectExistingPlayers queries D-Bus for currently running MPRIS players
func (m *MprisMonitor) detectExistingPlayers() error {
	names, err := m.conn.ListNames()
	if err != nil {
		return fmt.Errorf("failed to list bus names: %w", err)
	}

	playerCount := 0
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		playerCount++

		if uniqueName, err := m.conn.GetNameOwner(name); err == nil {
			m.mu.Lock()
			m.playerNames[uniqueName] = name
			m.mu.Unlock()
		}

		if err := m.fetchPlayerState(name); err != nil {
			m.logger.Warn("Failed to fetch initial player state",
				zap.String("player", name),
				zap.Error(err))
		}
	}

	m.logger.Info("Player detection complete", zap.Int("count", playerCount))
	return nil
}

// fetchPlayerState reads every player property and emits the result
func (m *MprisMonitor) fetchPlayerState(playerName string) error {
	props, err := m.conn.GetAllProperties(playerName, mprisPath, mprisPlayerIface)
	if err != nil {
		return fmt.Errorf("failed to get player properties: %w", err)
	}

	state := domain.PlayerState{Player: playerName, Status: domain.StatusStopped}
	if v, err := m.conn.GetProperty(playerName, mprisPath, mprisIdentity); err == nil {
		if identity, ok := v.Value().(string); ok {
			state.Identity = identity
		}
	}

	if !m.applyProperties(&state, props) {
		m.logger.Debug("Player properties malformed, skipping", zap.String("player", playerName))
		return nil
	}

	m.store(state)
	m.emit(state)
	return nil
}

// monitorSignals listens for D-Bus signals and processes them
func (m *MprisMonitor) monitorSignals(ctx context.Context) {
	defer m.wg.Done()

	signals := make(chan *dbus.Signal, 10)
	m.conn.Signal(signals)

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("Signal monitoring goroutine stopped")
			return
		case sig := <-signals:
			if sig == nil {
				continue
			}
			if sig.Name == nameOwnerChanged {
				m.handleNameOwnerChanged(sig)
			} else {
				m.handleSignal(sig)
			}
		}
	}
}

// handleNameOwnerChanged processes NameOwnerChanged signals to track player lifecycle
func (m *MprisMonitor) handleNameOwnerChanged(sig *dbus.Signal) {
	if len(sig.Body) < 3 {
		return
	}

	name, ok := sig.Body[0].(string)
	if !ok || !strings.HasPrefix(name, mprisPrefix) {
		return
	}

	oldOwner, _ := sig.Body[1].(string)
	newOwner, _ := sig.Body[2].(string)

	switch {
	case newOwner != "" && oldOwner == "":
		m.mu.Lock()
		m.playerNames[newOwner] = name
		m.mu.Unlock()

		m.logger.Info("New MPRIS player detected",
			zap.String("player", name),
			zap.String("unique", newOwner))

		if err := m.fetchPlayerState(name); err != nil {
			m.logger.Warn("Failed to fetch state from new player",
				zap.String("player", name),
				zap.Error(err))
		}

	case newOwner == "" && oldOwner != "":
		m.mu.Lock()
		delete(m.playerNames, oldOwner)
		delete(m.players, name)
		m.mu.Unlock()

		m.logger.Info("MPRIS player removed", zap.String("player", name))
		m.emit(domain.PlayerState{Player: name, Status: domain.StatusStopped, Gone: true})

	case newOwner != "" && oldOwner != "":
		m.mu.Lock()
		delete(m.playerNames, oldOwner)
		m.playerNames[newOwner] = name
		m.mu.Unlock()
	}
}

// handleSignal merges a PropertiesChanged signal into the player's state.
// Body: interface name, changed properties, invalidated properties.
func (m *MprisMonitor) handleSignal(sig *dbus.Signal) {
	if sig.Name != propertiesChanged || len(sig.Body) < 2 {
		return
	}

	interfaceName, ok := sig.Body[0].(string)
	if !ok || interfaceName != mprisPlayerIface {
		return
	}

	changedProps, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok || len(changedProps) == 0 {
		return
	}

	playerName := m.getPlayerName(sig.Sender)

	m.mu.RLock()
	state, known := m.players[playerName]
	m.mu.RUnlock()

	if !known {
		// First signal from a player we never fetched: read everything
		if err := m.fetchPlayerState(playerName); err != nil {
			m.logger.Warn("Failed to fetch state for unknown player",
				zap.String("player", playerName),
				zap.Error(err))
		}
		return
	}

	if !m.applyProperties(&state, changedProps) {
		m.logger.Warn("Invalid player properties in signal, ignoring", zap.String("player", playerName))
		return
	}

	m.store(state)
	m.emit(state)
}

// applyProperties copies the known player properties into state.
// It returns false when a present property has the wrong type.
func (m *MprisMonitor) applyProperties(state *domain.PlayerState, props map[string]dbus.Variant) bool {
	if v, ok := props["Metadata"]; ok {
		metadata, ok := v.Value().(map[string]dbus.Variant)
		if !ok {
			return false
		}
		m.parseMetadata(state, metadata)
	}

	if v, ok := props["PlaybackStatus"]; ok {
		status, ok := v.Value().(string)
		if !ok {
			return false
		}
		switch status {
		case "Playing":
			state.Status = domain.StatusPlaying
		case "Paused":
			state.Status = domain.StatusPaused
		default:
			state.Status = domain.StatusStopped
		}
	}

	for key, dst := range map[string]*bool{
		"CanGoNext": &state.CanGoNext,
		"CanPlay":   &state.CanPlay,
		"CanPause":  &state.CanPause,
	} {
		if v, ok := props[key]; ok {
			b, ok := v.Value().(bool)
			if !ok {
				return false
			}
			*dst = b
		}
	}

	return true
}

// parseMetadata replaces the track fields with the given MPRIS metadata
func (m *MprisMonitor) parseMetadata(state *domain.PlayerState, metadata map[string]dbus.Variant) {
	state.TrackID, state.Title, state.Artist, state.Album, state.ArtUrl = "", "", "", "", ""

	if v, ok := metadata["mpris:trackid"]; ok {
		switch id := v.Value().(type) {
		case dbus.ObjectPath:
			state.TrackID = string(id)
		case string:
			state.TrackID = id
		}
	}

	if v, ok := metadata["xesam:title"]; ok {
		if title, ok := v.Value().(string); ok {
			state.Title = title
		}
	}

	// xesam:artist is a list, some players send a plain string
	if v, ok := metadata["xesam:artist"]; ok {
		switch artists := v.Value().(type) {
		case []string:
			if len(artists) > 0 {
				state.Artist = artists[0]
			}
		case string:
			state.Artist = artists
		default:
			m.logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", v.Value())))
		}
	}

	if v, ok := metadata["xesam:album"]; ok {
		if album, ok := v.Value().(string); ok {
			state.Album = album
		}
	}

	if v, ok := metadata["mpris:artUrl"]; ok {
		if artUrl, ok := v.Value().(string); ok {
			state.ArtUrl = artUrl
		}
	}
}

func (m *MprisMonitor) store(state domain.PlayerState) {
	m.mu.Lock()
	m.players[state.Player] = state
	m.mu.Unlock()
}

// emit sends without blocking. Dropping intermediate states is fine: the
// consumer debounces and only applies the latest one.
func (m *MprisMonitor) emit(state domain.PlayerState) {
	select {
	case m.events <- state:
		m.logger.Debug("Player change emitted",
			zap.String("player", state.Player),
			zap.String("title", state.Title),
			zap.String("status", string(state.Status)),
			zap.Bool("gone", state.Gone))
	default:
		m.logChannelFullWarning()
	}
}

// getPlayerName returns the well-known player name for a unique bus name
// Falls back to the unique name if no mapping exists
func (m *MprisMonitor) getPlayerName(uniqueName string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if wellKnown, ok := m.playerNames[uniqueName]; ok {
		return wellKnown
	}
	return uniqueName
}

// logChannelFullWarning logs a warning about channel being full, rate-limited
// to avoid log spam during rapid track changes
func (m *MprisMonitor) logChannelFullWarning() {
	m.mu.Lock()
	defer m.mu.Unlock()

	const warningInterval = 5 * time.Second
	now := time.Now()

	if now.Sub(m.lastDropWarning) >= warningInterval {
		m.logger.Warn("Events channel full, dropping player state")
		m.lastDropWarning = now
	}
}
