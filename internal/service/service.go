package service

import (
	"context"

	"github.com/user/hebrew-imagegen/internal/database"
	"github.com/user/hebrew-imagegen/internal/entity"
	"github.com/user/hebrew-imagegen/internal/pkg/events"
	"github.com/user/hebrew-imagegen/internal/pkg/overlay"
)

// ImageProvider is the external generative-image collaborator: given a
// prompt and/or a source image it returns encoded image bytes.
type ImageProvider interface {
	Generate(ctx context.Context, prompt, aspectRatio string) ([]byte, error)
	Edit(ctx context.Context, img []byte, instruction, aspectRatio string) ([]byte, error)
	SuggestTexts(ctx context.Context, img []byte, productDescription string) ([]string, error)
}

// GenerateInput is the resolved generation request: Upload and Prompt decide
// between text2img, img2img and storing the upload as-is.
type GenerateInput struct {
	Prompt      string
	AspectRatio string
	Upload      []byte
}

type GenerateOutput struct {
	ID        string
	Width     int
	Height    int
	Image     []byte
	Positions []entity.SuggestedPosition
}

type AddTextOutput struct {
	ID    string
	Image []byte
}

type ImageService interface {
	Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error)
	AddText(ctx context.Context, id string, style entity.TextStyle) (*AddTextOutput, error)
	SuggestTexts(ctx context.Context, id, productDescription string) ([]string, error)
	GetImage(ctx context.Context, id string) ([]byte, error)
}

type imageService struct {
	repo     database.ImageRepository
	provider ImageProvider
	renderer *overlay.Renderer
	producer events.Producer
}

func NewImageService(repo database.ImageRepository, provider ImageProvider, renderer *overlay.Renderer, producer events.Producer) ImageService {
	return &imageService{
		repo:     repo,
		provider: provider,
		renderer: renderer,
		producer: producer,
	}
}
