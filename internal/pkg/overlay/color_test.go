package overlay

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/hebrew-imagegen/internal/entity"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  color.RGBA
	}{
		{
			name:  "hex white",
			input: "#FFFFFF",
			want:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
		},
		{
			name:  "hex lowercase",
			input: "#ff8800",
			want:  color.RGBA{R: 255, G: 136, B: 0, A: 255},
		},
		{
			name:  "hex with alpha",
			input: "#00000080",
			want:  color.RGBA{R: 0, G: 0, B: 0, A: 128},
		},
		{
			name:  "rgba tuple",
			input: "255,0,128,64",
			want:  color.RGBA{R: 255, G: 0, B: 128, A: 64},
		},
		{
			name:  "rgba tuple with spaces",
			input: " 10, 20, 30, 40 ",
			want:  color.RGBA{R: 10, G: 20, B: 30, A: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColorInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "no prefix", input: "FFFFFF"},
		{name: "short hex", input: "#FFF"},
		{name: "bad hex digits", input: "#GGHHII"},
		{name: "channel out of range", input: "256,0,0,255"},
		{name: "negative channel", input: "-1,0,0,255"},
		{name: "missing alpha", input: "255,255,255"},
		{name: "too many channels", input: "1,2,3,4,5"},
		{name: "not a number", input: "red,0,0,255"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseColor(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrInvalidColor)
		})
	}
}
