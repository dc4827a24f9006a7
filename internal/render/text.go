// Package render draws the display state as styled terminal text.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/genricoloni/muzewatch/internal/domain"
	"go.uber.org/zap"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hintStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("39"))
	commandStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	providerStyle = lipgloss.NewStyle().Faint(true)
	timeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
)

// TextSurface implements domain.Surface by redrawing a frame on every publish.
// It keeps the last list so leaving ambient mode shows it again untouched.
type TextSurface struct {
	logger  *zap.Logger
	out     io.Writer
	columns int
	mu      sync.Mutex
	list    domain.DisplayList
	ambient domain.AmbientView
	padding [4]int // top, right, bottom, left in cells
}

// NewTextSurface creates a surface that is columns cells wide
func NewTextSurface(logger *zap.Logger, out io.Writer, columns int) *TextSurface {
	if columns <= 0 {
		columns = 40
	}
	return &TextSurface{
		logger:  logger,
		out:     out,
		columns: columns,
	}
}

// SetInsets maps pixel insets on a screen of the given width to cell padding
func (s *TextSurface) SetInsets(insets domain.Insets, screenWidth int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if screenWidth <= 0 {
		s.padding = [4]int{}
		return
	}
	scale := float64(s.columns) / float64(screenWidth)
	cells := func(px int) int { return int(math.Round(float64(px) * scale)) }
	s.padding = [4]int{cells(insets.Top), cells(insets.Right), cells(insets.Bottom), cells(insets.Left)}
}

// PublishList stores the list and redraws unless ambient
func (s *TextSurface) PublishList(list domain.DisplayList) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.list = list
	if !s.ambient.Ambient {
		s.draw()
	}
}

// PublishAmbient switches between the time view and the list view
func (s *TextSurface) PublishAmbient(view domain.AmbientView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ambient = view
	s.draw()
}

// Frame returns what the surface would currently draw
func (s *TextSurface) Frame() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame()
}

func (s *TextSurface) draw() {
	if _, err := fmt.Fprintln(s.out, s.frame()); err != nil {
		s.logger.Warn("Failed to draw frame", zap.Error(err))
	}
}

func (s *TextSurface) frame() string {
	if s.ambient.Ambient {
		return lipgloss.Place(s.columns, 3, lipgloss.Center, lipgloss.Center, timeStyle.Render(s.ambient.Time))
	}

	lines := make([]string, 0, len(s.list))
	for _, row := range s.list {
		lines = append(lines, renderRow(row))
	}

	return lipgloss.NewStyle().
		Width(s.columns).
		Padding(s.padding[0], s.padding[1], s.padding[2], s.padding[3]).
		Render(strings.Join(lines, "\n"))
}

func renderRow(row domain.Row) string {
	switch row.Kind {
	case domain.RowArtwork:
		title := titleStyle.Render(row.Artwork.Title)
		if row.Artwork.Byline == "" {
			return title
		}
		return lipgloss.JoinVertical(lipgloss.Left, title, subtitleStyle.Render(row.Artwork.Byline))
	case domain.RowNextArtwork:
		return hintStyle.Render("» Next artwork")
	case domain.RowCommand:
		return commandStyle.Render("• " + row.Command.Title)
	case domain.RowProvider:
		name := row.Provider.Title
		if name == "" {
			name = row.Provider.ID
		}
		if row.Provider.Description != "" {
			name += " · " + row.Provider.Description
		}
		return providerStyle.Render(name)
	default:
		return ""
	}
}
