package domain

import "fmt"

// Artwork describes the piece of art currently shown on the face
type Artwork struct {
	// ID identifies the artwork within its provider
	ID string
	// Title of the artwork
	Title string
	// Byline is usually the artist name
	Byline string
	// Attribution credits the source of the artwork
	Attribution string
	// ImageURI is the URL or local path to the image
	ImageURI string
	// ProviderID is the provider that supplied this artwork
	ProviderID string
}

// Validate reports whether the artwork carries enough data to be rendered
func (a Artwork) Validate() error {
	if a.ImageURI == "" {
		return fmt.Errorf("artwork %q has no image uri", a.ID)
	}
	return nil
}

// Provider is a content source that supplies artwork
type Provider struct {
	// ID is the unique provider identity (e.g. an MPRIS bus name)
	ID string
	// Title is the human readable provider name
	Title string
	// Description is an optional status line
	Description string
	// SupportsNextArtwork is true when the provider can skip to the next artwork
	SupportsNextArtwork bool
}

// Validate reports whether the provider has an identity
func (p Provider) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("provider %q has no id", p.Title)
	}
	return nil
}

// Command is a user action exposed by the active provider
type Command struct {
	ID    int
	Title string
}

// Validate reports whether the command can be shown
func (c Command) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("command %d has no title", c.ID)
	}
	return nil
}

// RowKind tags which section a row belongs to
type RowKind int

const (
	RowArtwork RowKind = iota
	RowNextArtwork
	RowCommand
	RowProvider
)

func (k RowKind) String() string {
	switch k {
	case RowArtwork:
		return "artwork"
	case RowNextArtwork:
		return "next-artwork"
	case RowCommand:
		return "command"
	case RowProvider:
		return "provider"
	default:
		return fmt.Sprintf("RowKind(%d)", int(k))
	}
}

// Row is one renderable item. Only the payload matching Kind is set.
type Row struct {
	Kind     RowKind
	Artwork  Artwork
	Provider Provider
	Command  Command
}

// DisplayList is the flattened, ordered list shown to the user
type DisplayList []Row

// Kinds returns the kind of every row, in order
func (l DisplayList) Kinds() []RowKind {
	kinds := make([]RowKind, len(l))
	for i, r := range l {
		kinds[i] = r.Kind
	}
	return kinds
}

// AmbientState is the power state of the display
type AmbientState string

const (
	// StateInteractive is the normal, fully rendered state
	StateInteractive AmbientState = "Interactive"
	// StateAmbient is the low-power state showing only the time
	StateAmbient AmbientState = "Ambient"
)

// AmbientView is what the surface needs to draw the ambient overlay
type AmbientView struct {
	Ambient bool
	Time    string
}

// ScreenShape holds the display geometry read once at startup
type ScreenShape struct {
	Width  int
	Height int
	Round  bool
}

// Insets is padding in device pixels applied to the list content area
type Insets struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// PlayerStatus represents the current state of the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// PlayerState is a snapshot of one media player on the bus.
// Gone is set when the player left the bus.
type PlayerState struct {
	// Player is the well-known bus name (org.mpris.MediaPlayer2.spotify)
	Player string
	// Identity is the player's display name, when known
	Identity string
	TrackID  string
	Title    string
	Artist   string
	Album    string
	// ArtUrl is the URL or local path to the artwork
	ArtUrl    string
	Status    PlayerStatus
	CanGoNext bool
	CanPlay   bool
	CanPause  bool
	Gone      bool
}

// LifecycleSignal is an ambient transition notification from the host
type LifecycleSignal int

const (
	SignalEnterAmbient LifecycleSignal = iota + 1
	SignalExitAmbient
)

func (s LifecycleSignal) String() string {
	switch s {
	case SignalEnterAmbient:
		return "enter_ambient"
	case SignalExitAmbient:
		return "exit_ambient"
	default:
		return fmt.Sprintf("LifecycleSignal(%d)", int(s))
	}
}
