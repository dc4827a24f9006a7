// Package layout computes the content area of the list on the physical screen.
package layout

import (
	"math"

	"github.com/genricoloni/muzewatch/internal/domain"
)

// RoundInsetFactor is (√2−1)/(2√2): the margin, as a fraction of the
// diameter, that leaves an inscribed square clear of a round bezel.
const RoundInsetFactor = 0.146467

// ContentInsets returns the padding for the list. Round screens get a
// symmetric inset on left, right and bottom; the top edge is never inset.
func ContentInsets(shape domain.ScreenShape) domain.Insets {
	if !shape.Round || shape.Width <= 0 {
		return domain.Insets{}
	}
	inset := int(math.Round(RoundInsetFactor * float64(shape.Width)))
	return domain.Insets{Left: inset, Right: inset, Bottom: inset}
}
