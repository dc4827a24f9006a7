package section

import (
	"fmt"

	"github.com/genricoloni/muzewatch/internal/domain"
)

// ArtworkAdapter renders the current artwork as a single row
type ArtworkAdapter struct{}

func (ArtworkAdapter) RowsFor(a *domain.Artwork) ([]domain.Row, error) {
	if a == nil {
		return nil, nil
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return []domain.Row{{Kind: domain.RowArtwork, Artwork: *a}}, nil
}

// NextArtworkAdapter renders the "next artwork" hint, only when the provider
// declares it can skip
type NextArtworkAdapter struct{}

func (NextArtworkAdapter) RowsFor(p *domain.Provider) ([]domain.Row, error) {
	if p == nil || !p.SupportsNextArtwork {
		return nil, nil
	}
	return []domain.Row{{Kind: domain.RowNextArtwork, Provider: *p}}, nil
}

// CommandAdapter passes the provider's commands through in declared order
type CommandAdapter struct{}

func (CommandAdapter) RowsFor(commands []domain.Command) ([]domain.Row, error) {
	if len(commands) == 0 {
		return nil, nil
	}
	rows := make([]domain.Row, 0, len(commands))
	for i, c := range commands {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("command at index %d: %w", i, err)
		}
		rows = append(rows, domain.Row{Kind: domain.RowCommand, Command: c})
	}
	return rows, nil
}

// ProviderAdapter renders the active provider as a single row
type ProviderAdapter struct{}

func (ProviderAdapter) RowsFor(p *domain.Provider) ([]domain.Row, error) {
	if p == nil {
		return nil, nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return []domain.Row{{Kind: domain.RowProvider, Provider: *p}}, nil
}
