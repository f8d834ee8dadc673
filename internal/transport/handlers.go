package transport

import (
	"errors"
	"net/http"

	"github.com/user/hebrew-imagegen/internal/entity"
	"github.com/user/hebrew-imagegen/internal/service"
)

type ImageHandler struct {
	service service.ImageService
}

func NewImageHandler(service service.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

// statusFromError maps service errors onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, entity.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrPromptRequired),
		errors.Is(err, entity.ErrEmptyImage),
		errors.Is(err, entity.ErrDecodeImage),
		errors.Is(err, entity.ErrInvalidColor),
		errors.Is(err, entity.ErrInvalidFontSize),
		errors.Is(err, entity.ErrInvalidStrokeWidth),
		errors.Is(err, entity.ErrInvalidAlignment),
		errors.Is(err, entity.ErrInvalidPosition):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrProvider):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
