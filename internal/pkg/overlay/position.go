package overlay

import "github.com/user/hebrew-imagegen/internal/entity"

// Anchor fractions of the canvas, one entry per suggested position.
// Order is stable so callers can rely on index 0 being a sane default.
var anchors = []struct {
	name   string
	fx, fy float64
}{
	{"Top", 0.5, 0.1},
	{"Center", 0.5, 0.5},
	{"Bottom", 0.5, 0.9},
	{"Top Left", 0.1, 0.1},
	{"Top Right", 0.9, 0.1},
	{"Bottom Left", 0.1, 0.9},
	{"Bottom Right", 0.9, 0.9},
}

// SuggestPositions returns the seven named anchor points for an image of the
// given dimensions. Pure function of width and height.
func SuggestPositions(width, height int) []entity.SuggestedPosition {
	positions := make([]entity.SuggestedPosition, 0, len(anchors))
	for _, a := range anchors {
		positions = append(positions, entity.SuggestedPosition{
			Name: a.name,
			X:    int(float64(width) * a.fx),
			Y:    int(float64(height) * a.fy),
		})
	}
	return positions
}
