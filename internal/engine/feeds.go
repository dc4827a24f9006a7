package engine

import (
	"github.com/genricoloni/muzewatch/internal/compositor"
	"github.com/genricoloni/muzewatch/internal/domain"
	"github.com/genricoloni/muzewatch/internal/feed"
	"github.com/genricoloni/muzewatch/internal/section"
)

// Feeds holds the four inputs of the display list. Each one is written only
// by the engine loop.
type Feeds struct {
	Artwork     *feed.Feed[*domain.Artwork]
	NextArtwork *feed.Feed[*domain.Provider]
	Commands    *feed.Feed[[]domain.Command]
	Provider    *feed.Feed[*domain.Provider]
}

// NewFeeds creates empty feeds
func NewFeeds() *Feeds {
	return &Feeds{
		Artwork:     feed.New[*domain.Artwork]("artwork"),
		NextArtwork: feed.New[*domain.Provider]("next-artwork"),
		Commands:    feed.New[[]domain.Command]("commands"),
		Provider:    feed.New[*domain.Provider]("provider"),
	}
}

// Sections binds every feed to its adapter
func (f *Feeds) Sections() compositor.Sections {
	return compositor.Sections{
		Artwork:     section.Bind[*domain.Artwork](f.Artwork, section.ArtworkAdapter{}),
		NextArtwork: section.Bind[*domain.Provider](f.NextArtwork, section.NextArtworkAdapter{}),
		Commands:    section.Bind[[]domain.Command](f.Commands, section.CommandAdapter{}),
		Provider:    section.Bind[*domain.Provider](f.Provider, section.ProviderAdapter{}),
	}
}

// Close releases every subscription
func (f *Feeds) Close() {
	f.Artwork.Close()
	f.NextArtwork.Close()
	f.Commands.Close()
	f.Provider.Close()
}
