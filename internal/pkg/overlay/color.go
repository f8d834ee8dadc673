package overlay

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/user/hebrew-imagegen/internal/entity"
)

// ParseColor normalizes a boundary color string into an RGBA value.
// Accepted forms: "#RRGGBB", "#RRGGBBAA" and "R,G,B,A" with each channel
// in 0-255.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s)
	case strings.Contains(s, ","):
		return parseTupleColor(s)
	}
	return color.RGBA{}, fmt.Errorf("%w: %q", entity.ErrInvalidColor, s)
}

func parseHexColor(s string) (color.RGBA, error) {
	hex := s[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("%w: %q", entity.ErrInvalidColor, s)
	}

	channels := make([]uint8, 0, 4)
	for i := 0; i < len(hex); i += 2 {
		v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: %q", entity.ErrInvalidColor, s)
		}
		channels = append(channels, uint8(v))
	}

	c := color.RGBA{R: channels[0], G: channels[1], B: channels[2], A: 255}
	if len(channels) == 4 {
		c.A = channels[3]
	}
	return c, nil
}

func parseTupleColor(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return color.RGBA{}, fmt.Errorf("%w: %q", entity.ErrInvalidColor, s)
	}

	channels := make([]uint8, 0, 4)
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return color.RGBA{}, fmt.Errorf("%w: %q", entity.ErrInvalidColor, s)
		}
		channels = append(channels, uint8(v))
	}

	return color.RGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, nil
}
