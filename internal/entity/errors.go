package entity

import "errors"

var (
	// Store errors
	ErrImageNotFound = errors.New("image not found")
	ErrEmptyImage    = errors.New("empty image data")

	// Overlay errors
	ErrDecodeImage        = errors.New("unreadable image data")
	ErrInvalidColor       = errors.New("invalid color value")
	ErrInvalidFontSize    = errors.New("font size must be positive")
	ErrInvalidStrokeWidth = errors.New("stroke width cannot be negative")
	ErrInvalidAlignment   = errors.New("alignment must be left, center or right")
	ErrInvalidPosition    = errors.New("position coordinates must be integers")

	// Generation errors
	ErrPromptRequired = errors.New("either image or prompt is required")
	ErrProvider       = errors.New("image provider request failed")
)
