package monitor

import (
	"fmt"
	"testing"
	"time"

	"github.com/genricoloni/muzewatch/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

func newTestMonitor() *MprisMonitor {
	mon := NewMprisMonitor(zap.NewNop())
	mon.conn = &noopDBusClient{} // Prevent panic if code tries to call DBus
	mon.running = true
	return mon
}

func propertiesSignal(sender string, props map[string]dbus.Variant) *dbus.Signal {
	return &dbus.Signal{
		Name:   propertiesChanged,
		Sender: sender,
		Body:   []interface{}{mprisPlayerIface, props, []string{}},
	}
}

// TestHandleSignal_HappyPath verifies that a valid signal updates a known player
func TestHandleSignal_HappyPath(t *testing.T) {
	mon := newTestMonitor()
	mon.playerNames = map[string]string{":1.100": "org.mpris.MediaPlayer2.spotify"}
	mon.players["org.mpris.MediaPlayer2.spotify"] = domain.PlayerState{
		Player:    "org.mpris.MediaPlayer2.spotify",
		Identity:  "Spotify",
		CanGoNext: true,
	}

	go mon.handleSignal(propertiesSignal(":1.100", map[string]dbus.Variant{
		"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
			"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath("/track/1")),
			"xesam:title":   dbus.MakeVariant("Bohemian Rhapsody"),
			"xesam:artist":  dbus.MakeVariant([]string{"Queen"}),
			"mpris:artUrl":  dbus.MakeVariant("https://example.com/cover.jpg"),
		}),
		"PlaybackStatus": dbus.MakeVariant("Playing"),
	}))

	select {
	case event := <-mon.Events():
		if event.Player != "org.mpris.MediaPlayer2.spotify" {
			t.Errorf("Player: expected spotify, got '%s'", event.Player)
		}
		if event.Title != "Bohemian Rhapsody" || event.Artist != "Queen" {
			t.Errorf("Track: got '%s' by '%s'", event.Title, event.Artist)
		}
		if event.TrackID != "/track/1" {
			t.Errorf("TrackID: expected /track/1, got '%s'", event.TrackID)
		}
		if event.Status != domain.StatusPlaying {
			t.Errorf("Status: expected Playing, got %v", event.Status)
		}
		// Untouched properties survive the merge
		if event.Identity != "Spotify" || !event.CanGoNext {
			t.Errorf("expected identity and capabilities to be kept, got %+v", event)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout: Event was not emitted")
	}
}

func TestHandleSignal_CapabilityChange(t *testing.T) {
	mon := newTestMonitor()
	mon.players[":1.7"] = domain.PlayerState{Player: ":1.7", Title: "Song", CanGoNext: true}

	mon.handleSignal(propertiesSignal(":1.7", map[string]dbus.Variant{
		"CanGoNext": dbus.MakeVariant(false),
	}))

	select {
	case event := <-mon.Events():
		if event.CanGoNext {
			t.Error("expected CanGoNext=false")
		}
		if event.Title != "Song" {
			t.Errorf("expected title to be kept, got '%s'", event.Title)
		}
	default:
		t.Fatal("expected event")
	}
}

// TestHandleSignal_EdgeCases consolidates all invalid/ignored scenarios into a table test.
func TestHandleSignal_EdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		signal *dbus.Signal
	}{
		{
			name:   "Wrong Signal Name",
			signal: &dbus.Signal{Name: "org.freedesktop.DBus.SomeOtherSignal", Body: []interface{}{}},
		},
		{
			name: "Wrong Interface",
			signal: &dbus.Signal{
				Name: propertiesChanged,
				Body: []interface{}{"org.mpris.MediaPlayer2", map[string]dbus.Variant{}, []string{}},
			},
		},
		{
			name:   "Short Body",
			signal: &dbus.Signal{Name: propertiesChanged, Body: []interface{}{mprisPlayerIface}},
		},
		{
			name: "Invalid Metadata Type (Int instead of Map)",
			signal: propertiesSignal(":1.1", map[string]dbus.Variant{
				"Metadata": dbus.MakeVariant(12345),
			}),
		},
		{
			name: "Invalid PlaybackStatus Type (Array instead of String)",
			signal: propertiesSignal(":1.1", map[string]dbus.Variant{
				"PlaybackStatus": dbus.MakeVariant([]string{"Playing"}),
			}),
		},
		{
			name: "Invalid CanGoNext Type",
			signal: propertiesSignal(":1.1", map[string]dbus.Variant{
				"CanGoNext": dbus.MakeVariant("yes"),
			}),
		},
		{
			name: "Unknown Player And Fetch Fails",
			signal: propertiesSignal(":1.404", map[string]dbus.Variant{
				"PlaybackStatus": dbus.MakeVariant("Playing"),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newTestMonitor()
			mon.players[":1.1"] = domain.PlayerState{Player: ":1.1"}

			mon.handleSignal(tt.signal)

			select {
			case <-mon.Events():
				t.Error("Should NOT emit event for invalid input")
			case <-time.After(50 * time.Millisecond):
			}
		})
	}
}

// TestApplyProperties_DataVariations tests valid parsing variations
func TestApplyProperties_DataVariations(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]dbus.Variant
		check func(*testing.T, domain.PlayerState)
	}{
		{
			name: "Artist as String (Non-compliant)",
			props: map[string]dbus.Variant{
				"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
					"xesam:artist": dbus.MakeVariant("Single Artist"),
				}),
			},
			check: func(t *testing.T, s domain.PlayerState) {
				if s.Artist != "Single Artist" {
					t.Errorf("Expected 'Single Artist', got '%s'", s.Artist)
				}
			},
		},
		{
			name: "New Metadata Replaces Old Track",
			props: map[string]dbus.Variant{
				"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
					"xesam:title": dbus.MakeVariant("Next Song"),
				}),
			},
			check: func(t *testing.T, s domain.PlayerState) {
				if s.Title != "Next Song" || s.ArtUrl != "" || s.Album != "" {
					t.Errorf("Expected stale fields cleared, got %+v", s)
				}
			},
		},
		{
			name:  "Status Paused",
			props: map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Paused")},
			check: func(t *testing.T, s domain.PlayerState) {
				if s.Status != domain.StatusPaused {
					t.Errorf("Expected Paused, got %v", s.Status)
				}
			},
		},
		{
			name:  "Unknown Status Is Stopped",
			props: map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Buffering")},
			check: func(t *testing.T, s domain.PlayerState) {
				if s.Status != domain.StatusStopped {
					t.Errorf("Expected Stopped, got %v", s.Status)
				}
			},
		},
		{
			name: "Capabilities",
			props: map[string]dbus.Variant{
				"CanGoNext": dbus.MakeVariant(true),
				"CanPlay":   dbus.MakeVariant(true),
				"CanPause":  dbus.MakeVariant(false),
			},
			check: func(t *testing.T, s domain.PlayerState) {
				if !s.CanGoNext || !s.CanPlay || s.CanPause {
					t.Errorf("Unexpected capabilities: %+v", s)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newTestMonitor()
			state := domain.PlayerState{Title: "Old Song", Album: "Old Album", ArtUrl: "file:///old.jpg", CanPause: true}
			if !mon.applyProperties(&state, tt.props) {
				t.Fatal("expected properties to apply")
			}
			tt.check(t, state)
		})
	}
}

// TestHandleNameOwnerChanged verifies player lifecycle tracking
func TestHandleNameOwnerChanged(t *testing.T) {
	t.Run("New Player Appears", func(t *testing.T) {
		mon := newTestMonitor()
		mon.handleNameOwnerChanged(&dbus.Signal{
			Name: nameOwnerChanged,
			Body: []interface{}{"org.mpris.MediaPlayer2.spotify", "", ":1.50"},
		})

		if got := mon.getPlayerName(":1.50"); got != "org.mpris.MediaPlayer2.spotify" {
			t.Errorf("Expected player to be mapped, got %s", got)
		}
	})

	t.Run("Player Disappears", func(t *testing.T) {
		mon := newTestMonitor()
		mon.playerNames[":1.50"] = "org.mpris.MediaPlayer2.spotify"
		mon.players["org.mpris.MediaPlayer2.spotify"] = domain.PlayerState{Player: "org.mpris.MediaPlayer2.spotify"}

		mon.handleNameOwnerChanged(&dbus.Signal{
			Name: nameOwnerChanged,
			Body: []interface{}{"org.mpris.MediaPlayer2.spotify", ":1.50", ""},
		})

		if _, ok := mon.playerNames[":1.50"]; ok {
			t.Error("Expected player mapping to be removed")
		}
		if _, ok := mon.players["org.mpris.MediaPlayer2.spotify"]; ok {
			t.Error("Expected player state to be removed")
		}

		select {
		case event := <-mon.Events():
			if !event.Gone || event.Player != "org.mpris.MediaPlayer2.spotify" {
				t.Errorf("Expected gone event for spotify, got %+v", event)
			}
		default:
			t.Error("Expected gone event")
		}
	})

	t.Run("Ownership Transfer", func(t *testing.T) {
		mon := newTestMonitor()
		mon.playerNames[":1.50"] = "org.mpris.MediaPlayer2.vlc"

		mon.handleNameOwnerChanged(&dbus.Signal{
			Name: nameOwnerChanged,
			Body: []interface{}{"org.mpris.MediaPlayer2.vlc", ":1.50", ":1.51"},
		})

		if _, ok := mon.playerNames[":1.50"]; ok {
			t.Error("Expected old owner to be removed")
		}
		if mon.playerNames[":1.51"] != "org.mpris.MediaPlayer2.vlc" {
			t.Error("Expected new owner to be mapped")
		}
	})

	t.Run("Non-MPRIS Service Ignored", func(t *testing.T) {
		mon := newTestMonitor()
		mon.handleNameOwnerChanged(&dbus.Signal{
			Name: nameOwnerChanged,
			Body: []interface{}{"com.example.service", "", ":1.99"},
		})

		if len(mon.playerNames) != 0 {
			t.Errorf("Expected no mappings, got %v", mon.playerNames)
		}
	})
}

func TestGetPlayerName(t *testing.T) {
	mon := NewMprisMonitor(zap.NewNop())
	mon.playerNames = map[string]string{
		":1.100": "org.mpris.MediaPlayer2.spotify",
	}

	tests := []struct {
		input    string
		expected string
	}{
		{":1.100", "org.mpris.MediaPlayer2.spotify"},
		{":1.999", ":1.999"}, // Fallback
	}

	for _, tt := range tests {
		if got := mon.getPlayerName(tt.input); got != tt.expected {
			t.Errorf("getPlayerName(%s): expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestStart_ConnectionFailure(t *testing.T) {
	mon := NewMprisMonitor(zap.NewNop())
	mon.connect = func() (DBusClient, error) { return nil, fmt.Errorf("no session bus") }

	if err := mon.Start(testContext(t)); err == nil {
		t.Fatal("expected error when the bus is unavailable")
	}
	// Stop after a failed start is a no-op
	if err := mon.Stop(testContext(t)); err != nil {
		t.Errorf("unexpected error from Stop: %v", err)
	}
}

// noopDBusClient is a stub to prevent panics during unit tests where
// we don't want to use full mocks but code calls the bus.
type noopDBusClient struct{}

func (n *noopDBusClient) Close() error                             { return nil }
func (n *noopDBusClient) AddMatchSignal(...dbus.MatchOption) error { return nil }
func (n *noopDBusClient) Signal(chan<- *dbus.Signal)               {}
func (n *noopDBusClient) ListNames() ([]string, error)             { return []string{}, nil }
func (n *noopDBusClient) GetNameOwner(string) (string, error)      { return "", fmt.Errorf("noop") }
func (n *noopDBusClient) GetProperty(string, string, string) (dbus.Variant, error) {
	return dbus.MakeVariant(""), fmt.Errorf("noop")
}
func (n *noopDBusClient) GetAllProperties(string, string, string) (map[string]dbus.Variant, error) {
	return nil, fmt.Errorf("noop")
}
