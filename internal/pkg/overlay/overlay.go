// Text overlay rendering: positioned, stroked text on decoded images,
// with right-to-left support for Hebrew.
package overlay

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/bidi"

	"github.com/user/hebrew-imagegen/internal/entity"
)

// Renderer draws styled text onto encoded images.
type Renderer struct {
	fontDir string
}

// NewRenderer creates a renderer. fontDir is an optional directory of TTF
// files searched before the system font locations.
func NewRenderer(fontDir string) *Renderer {
	return &Renderer{fontDir: fontDir}
}

// AddText draws style.Text onto the image and returns the re-encoded bytes.
// Empty or whitespace-only text is a no-op that returns the input unchanged.
// The output keeps the format of the input (PNG or JPEG).
func (r *Renderer) AddText(data []byte, style entity.TextStyle) ([]byte, error) {
	if strings.TrimSpace(style.Text) == "" {
		return data, nil
	}
	if err := validateStyle(style); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecodeImage, err)
	}

	face := resolveFace(r.fontDir, style.FontFamily, float64(style.FontSize), style.Bold)
	text := visualOrder(style.Text)

	dc := gg.NewContextForImage(img)
	dc.SetFontFace(face)

	textW, _ := dc.MeasureString(text)
	metrics := face.Metrics()
	textH := (metrics.Ascent + metrics.Descent).Ceil()

	drawX, drawY := planDraw(dc.Width(), dc.Height(), int(textW), textH, style)
	baseline := float64(drawY + metrics.Ascent.Ceil())

	// Stroke pass under the fill pass, drawn at every integer offset within
	// the stroke radius for a 2*strokeWidth visual weight.
	if style.StrokeWidth > 0 {
		dc.SetColor(style.Stroke)
		for dy := -style.StrokeWidth; dy <= style.StrokeWidth; dy++ {
			for dx := -style.StrokeWidth; dx <= style.StrokeWidth; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				dc.DrawString(text, float64(drawX+dx), baseline+float64(dy))
			}
		}
	}

	dc.SetColor(style.Fill)
	dc.DrawString(text, float64(drawX), baseline)

	logrus.WithFields(logrus.Fields{
		"text": style.Text,
		"x":    drawX,
		"y":    drawY,
	}).Debug("text drawn on image")

	return encodeImage(dc.Image(), format)
}

func validateStyle(style entity.TextStyle) error {
	if style.FontSize <= 0 {
		return entity.ErrInvalidFontSize
	}
	if style.StrokeWidth < 0 {
		return entity.ErrInvalidStrokeWidth
	}
	if _, err := entity.ParseAlignment(string(style.Align)); err != nil {
		return err
	}
	return nil
}

// textOrigin computes the horizontal draw origin for the given alignment.
// For AlignRight, x is an offset from the right edge of the canvas.
func textOrigin(canvasW, textW, x int, align entity.Alignment) int {
	switch align {
	case entity.AlignCenter:
		return (canvasW - textW) / 2
	case entity.AlignRight:
		return canvasW - x - textW
	default:
		return x
	}
}

// planDraw resolves the final draw origin: alignment math plus clamping the
// text box into the canvas.
func planDraw(canvasW, canvasH, textW, textH int, style entity.TextStyle) (int, int) {
	x := textOrigin(canvasW, textW, style.X, style.Align)
	y := style.Y

	x = clamp(x, 0, canvasW-textW)
	y = clamp(y, 0, canvasH-textH)
	return x, y
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// visualOrder reorders bidirectional text into visual order so that
// right-to-left runs render correctly with a left-to-right glyph drawer.
func visualOrder(s string) string {
	var p bidi.Paragraph
	if _, err := p.SetString(s); err != nil {
		return s
	}
	ordering, err := p.Order()
	if err != nil {
		return s
	}

	var b strings.Builder
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		text := run.String()
		if run.Direction() == bidi.RightToLeft {
			text = reverseRunes(text)
		}
		b.WriteString(text)
	}
	return b.String()
}

func reverseRunes(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, err
		}
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
