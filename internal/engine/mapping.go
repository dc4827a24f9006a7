package engine

import (
	"strings"

	"github.com/genricoloni/muzewatch/internal/domain"
)

// Command IDs exposed by media players
const (
	CommandPlay = iota + 1
	CommandPause
	CommandStop
)

// artworkFor returns nil when the player has no artwork to show
func artworkFor(s domain.PlayerState) *domain.Artwork {
	if s.ArtUrl == "" {
		return nil
	}
	return &domain.Artwork{
		ID:          s.TrackID,
		Title:       s.Title,
		Byline:      s.Artist,
		Attribution: s.Album,
		ImageURI:    s.ArtUrl,
		ProviderID:  s.Player,
	}
}

func providerFor(s domain.PlayerState) *domain.Provider {
	title := s.Identity
	if title == "" {
		title = strings.TrimPrefix(s.Player, "org.mpris.MediaPlayer2.")
	}
	return &domain.Provider{
		ID:                  s.Player,
		Title:               title,
		Description:         string(s.Status),
		SupportsNextArtwork: s.CanGoNext,
	}
}

// commandsFor lists the playback actions the player currently allows
func commandsFor(s domain.PlayerState) []domain.Command {
	var commands []domain.Command
	switch {
	case s.Status == domain.StatusPlaying && s.CanPause:
		commands = append(commands, domain.Command{ID: CommandPause, Title: "Pause"})
	case s.Status != domain.StatusPlaying && s.CanPlay:
		commands = append(commands, domain.Command{ID: CommandPlay, Title: "Play"})
	}
	if s.Status != domain.StatusStopped {
		commands = append(commands, domain.Command{ID: CommandStop, Title: "Stop"})
	}
	return commands
}
