package entity

import "image/color"

// Alignment controls how TextStyle.X is interpreted against the measured
// text width. AlignRight measures X as an offset from the right edge of the
// canvas, mirroring right-to-left reading conventions.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ParseAlignment validates a boundary alignment string.
func ParseAlignment(s string) (Alignment, error) {
	switch Alignment(s) {
	case AlignLeft, AlignCenter, AlignRight:
		return Alignment(s), nil
	}
	return "", ErrInvalidAlignment
}

// TextStyle describes one text overlay: content, position, typography and
// colors. X and Y are pixel coordinates with the origin at the top-left of
// the image.
type TextStyle struct {
	Text        string
	X           int
	Y           int
	FontFamily  string
	FontSize    int
	Bold        bool
	Fill        color.RGBA
	Stroke      color.RGBA
	StrokeWidth int
	Align       Alignment
}
